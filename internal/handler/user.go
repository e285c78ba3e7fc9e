package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Anurup-SarKar/JPK-service/internal/model"
	"github.com/Anurup-SarKar/JPK-service/internal/service"
)

// UserHandler exposes user-record management.
type UserHandler struct {
	Users *service.UserService
}

func NewUserHandler(u *service.UserService) *UserHandler {
	return &UserHandler{Users: u}
}

// ----- DTOs -----

type createUserReq struct {
	Username             string  `json:"username"`
	Email                string  `json:"email"`
	Mobile               *string `json:"mobile"`
	Password             string  `json:"password"`
	PasswordHash         string  `json:"passwordHash"`
	FullName             *string `json:"fullName"`
	CCTVLink             *string `json:"cctvLink"`
	IsCCTVVisible        bool    `json:"isCctvVisible"`
	IsCCTVStorageVisible bool    `json:"isCctvStorageVisible"`
	IsAdmin              bool    `json:"isAdmin"`
	IsActive             *bool   `json:"isActive"`
}

func (r *createUserReq) preHash() string {
	if r.PasswordHash != "" {
		return r.PasswordHash
	}
	return r.Password
}

type updateUserReq struct {
	Username             *string `json:"username"`
	Email                *string `json:"email"`
	Mobile               *string `json:"mobile"`
	Password             *string `json:"password"`
	PasswordHash         *string `json:"passwordHash"`
	FullName             *string `json:"fullName"`
	CCTVLink             *string `json:"cctvLink"`
	IsCCTVVisible        *bool   `json:"isCctvVisible"`
	IsCCTVStorageVisible *bool   `json:"isCctvStorageVisible"`
	IsAdmin              *bool   `json:"isAdmin"`
	IsActive             *bool   `json:"isActive"`
}

func (r *updateUserReq) preHash() *string {
	if r.PasswordHash != nil {
		return r.PasswordHash
	}
	return r.Password
}

type updateUserByEmailReq struct {
	Email string `json:"email"`
	updateUserReq
}

type deleteUserReq struct {
	Email string `json:"email"`
}

type userResp struct {
	userDataResp
	IsAdmin bool `json:"isAdmin"`
}

func userFrom(u model.User) userResp {
	return userResp{userDataResp: userDataFrom(u), IsAdmin: u.IsAdmin}
}

func usersFrom(us []model.User) []userResp {
	out := make([]userResp, 0, len(us))
	for _, u := range us {
		out = append(out, userFrom(u))
	}
	return out
}

// ----- Handlers -----

// List returns all users.
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, http.StatusOK, "User list", usersFrom(users))
}

// Create inserts a new user. The credential arrives as a pre-hash
// (password/passwordHash aliases) and is sealed server-side.
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "Bad request", nil)
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	errs := map[string]string{}
	if strings.TrimSpace(req.Username) == "" {
		errs["username"] = "must not be blank"
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		errs["email"] = "must be a valid email address"
	}
	if len(errs) > 0 {
		return respond(c, http.StatusBadRequest, "Validation failed", errs)
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	in := service.CreateUserInput{
		Username:             req.Username,
		Email:                req.Email,
		Mobile:               req.Mobile,
		PreHash:              req.preHash(),
		FullName:             req.FullName,
		CCTVLink:             req.CCTVLink,
		IsCCTVVisible:        req.IsCCTVVisible,
		IsCCTVStorageVisible: req.IsCCTVStorageVisible,
		IsAdmin:              req.IsAdmin,
		IsActive:             active,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.Create(ctx, in)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, http.StatusOK, "User created", userFrom(u))
}

// Update applies a partial update to the user identified by path id.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return respond(c, http.StatusBadRequest, "Bad request", nil)
	}
	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "Bad request", nil)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.Update(ctx, id, updateInputFrom(req))
	if err != nil {
		return fail(c, err)
	}
	return respond(c, http.StatusOK, "User updated", userFrom(u))
}

// UpdateByEmail applies a partial update to the user identified by the
// email in the body; the legacy route shape.
func (h *UserHandler) UpdateByEmail(c echo.Context) error {
	var req updateUserByEmailReq
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "Bad request", nil)
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return respond(c, http.StatusBadRequest, "Validation failed",
			map[string]string{"email": "must be a valid email address"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.UpdateByEmail(ctx, req.Email, updateInputFrom(req.updateUserReq))
	if err != nil {
		return fail(c, err)
	}
	return respond(c, http.StatusOK, "User updated", userFrom(u))
}

// Delete removes the user identified by path id.
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return respond(c, http.StatusBadRequest, "Bad request", nil)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.Delete(ctx, id); err != nil {
		return fail(c, err)
	}
	return respond(c, http.StatusOK, "User deleted", nil)
}

// DeleteByEmail removes the user identified by the email in the body.
func (h *UserHandler) DeleteByEmail(c echo.Context) error {
	var req deleteUserReq
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "Bad request", nil)
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return respond(c, http.StatusBadRequest, "Validation failed",
			map[string]string{"email": "must be a valid email address"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.DeleteByEmail(ctx, req.Email); err != nil {
		return fail(c, err)
	}
	return respond(c, http.StatusOK, "User deleted", nil)
}

func updateInputFrom(req updateUserReq) service.UpdateUserInput {
	return service.UpdateUserInput{
		Username:             req.Username,
		Email:                req.Email,
		Mobile:               req.Mobile,
		PreHash:              req.preHash(),
		FullName:             req.FullName,
		CCTVLink:             req.CCTVLink,
		IsCCTVVisible:        req.IsCCTVVisible,
		IsCCTVStorageVisible: req.IsCCTVStorageVisible,
		IsAdmin:              req.IsAdmin,
		IsActive:             req.IsActive,
	}
}
