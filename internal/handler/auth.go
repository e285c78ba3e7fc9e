package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Anurup-SarKar/JPK-service/internal/model"
	"github.com/Anurup-SarKar/JPK-service/internal/password"
	"github.com/Anurup-SarKar/JPK-service/internal/service"
)

// AuthHandler bundles dependencies for the login/OTP endpoints.
type AuthHandler struct {
	Auth *service.AuthService
	Hash *password.Policy
}

func NewAuthHandler(a *service.AuthService, hash *password.Policy) *AuthHandler {
	return &AuthHandler{Auth: a, Hash: hash}
}

// ----- DTOs -----

// credentialReq accepts the pre-hash under either field name; legacy
// clients send "password", newer ones send "passwordHash". Both carry
// the same 64-hex SHA-256 digest, never a raw password.
type credentialReq struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	PasswordHash string `json:"passwordHash"`
}

func (r *credentialReq) preHash() string {
	if r.PasswordHash != "" {
		return r.PasswordHash
	}
	return r.Password
}

type otpValidateReq struct {
	credentialReq
	Otp string `json:"otp"`
}

type userDataResp struct {
	ID                   uint64  `json:"id"`
	Username             string  `json:"username"`
	Email                string  `json:"email"`
	Mobile               *string `json:"mobile"`
	FullName             *string `json:"fullName"`
	CCTVLink             *string `json:"cctvLink"`
	IsCCTVVisible        bool    `json:"isCctvVisible"`
	IsCCTVStorageVisible bool    `json:"isCctvStorageVisible"`
	IsActive             bool    `json:"isActive"`
}

func userDataFrom(u model.User) userDataResp {
	return userDataResp{
		ID:                   u.ID,
		Username:             u.Username,
		Email:                u.Email,
		Mobile:               u.Mobile,
		FullName:             u.FullName,
		CCTVLink:             u.CCTVLink,
		IsCCTVVisible:        u.IsCCTVVisible,
		IsCCTVStorageVisible: u.IsCCTVStorageVisible,
		IsActive:             u.IsActive,
	}
}

// validateCredential normalizes the email and gates the pre-hash shape
// before any hashing work happens. Returns a field->message map, empty
// on success.
func (h *AuthHandler) validateCredential(req *credentialReq) map[string]string {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	errs := map[string]string{}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		errs["email"] = "must be a valid email address"
	}
	if err := h.Hash.ValidatePreHash(req.preHash()); err != nil {
		errs["passwordHash"] = "Password must be SHA-256 hash (64 hex characters)"
	}
	return errs
}

// Login verifies the credential and returns the freshly issued OTP.
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialReq
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "Bad request", nil)
	}
	if errs := h.validateCredential(&req); len(errs) > 0 {
		return respond(c, http.StatusBadRequest, "Validation failed", errs)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	challenge, err := h.Auth.Login(ctx, req.Email, req.preHash())
	if err != nil {
		return fail(c, err)
	}
	return respond(c, http.StatusOK, "OTP sent", challenge)
}

// ResendOtp re-validates the credential and issues a brand-new OTP.
func (h *AuthHandler) ResendOtp(c echo.Context) error {
	var req credentialReq
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "Bad request", nil)
	}
	if errs := h.validateCredential(&req); len(errs) > 0 {
		return respond(c, http.StatusBadRequest, "Validation failed", errs)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	challenge, err := h.Auth.ResendOtp(ctx, req.Email, req.preHash())
	if err != nil {
		return fail(c, err)
	}
	return respond(c, http.StatusOK, "OTP re-sent", challenge)
}

// ValidateOtp consumes the OTP and returns the user's data. No session
// or token is issued; the profile payload is the whole result.
func (h *AuthHandler) ValidateOtp(c echo.Context) error {
	var req otpValidateReq
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "Bad request", nil)
	}
	errs := h.validateCredential(&req.credentialReq)
	if !isSixDigits(req.Otp) {
		errs["otp"] = "must be a 6-digit code"
	}
	if len(errs) > 0 {
		return respond(c, http.StatusBadRequest, "Validation failed", errs)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, err := h.Auth.ValidateOtp(ctx, req.Email, req.preHash(), req.Otp)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, http.StatusOK, "OTP validated", userDataFrom(user))
}

func isSixDigits(s string) bool {
	if len(s) != 6 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
