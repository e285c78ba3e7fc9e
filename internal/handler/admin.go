package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Anurup-SarKar/JPK-service/internal/service"
)

// AdminHandler exposes the password-migration operations. These are
// operator endpoints, intended to be called once after rolling out the
// sealed-hash scheme and then occasionally to check progress.
type AdminHandler struct {
	Migration *service.MigrationService
}

func NewAdminHandler(m *service.MigrationService) *AdminHandler {
	return &AdminHandler{Migration: m}
}

type migrateUserReq struct {
	UserID      uint64 `json:"userId"`
	RawPassword string `json:"rawPassword"`
}

type migrateUserResp struct {
	UserID   uint64 `json:"userId"`
	Migrated bool   `json:"migrated"`
}

// MigratePasswords runs the batch migration over all users. Partial
// success is normal; the report carries per-user error details.
func (h *AdminHandler) MigratePasswords(c echo.Context) error {
	// Batch seals are CPU-heavy; allow well beyond the per-request norm.
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Minute)
	defer cancel()

	report, err := h.Migration.MigrateAll(ctx)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, http.StatusOK, "Password migration completed", report)
}

// MigrationStatus reports how many credentials still carry a legacy
// hash.
func (h *AdminHandler) MigrationStatus(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	status, err := h.Migration.Status(ctx)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, http.StatusOK, "Migration status retrieved", status)
}

// MigrateUserPassword seals one user's credential from a raw password
// known out-of-band. The outcome is a plain boolean either way.
func (h *AdminHandler) MigrateUserPassword(c echo.Context) error {
	var req migrateUserReq
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "Bad request", nil)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	ok := h.Migration.MigrateUserWithSecret(ctx, req.UserID, req.RawPassword)
	data := migrateUserResp{UserID: req.UserID, Migrated: ok}
	if !ok {
		return respond(c, http.StatusBadRequest, "Failed to migrate user password", data)
	}
	return respond(c, http.StatusOK, "User password migrated successfully", data)
}
