package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Anurup-SarKar/JPK-service/internal/password"
	"github.com/Anurup-SarKar/JPK-service/internal/repository"
	"github.com/Anurup-SarKar/JPK-service/internal/service"
)

// ApiResponse is the uniform envelope for every endpoint: an HTTP-like
// status code, a human-readable message, and an optional payload.
type ApiResponse struct {
	StatusCode    int    `json:"statusCode"`
	StatusMessage string `json:"statusMessage"`
	Data          any    `json:"data,omitempty"`
}

func respond(c echo.Context, code int, msg string, data any) error {
	return c.JSON(code, ApiResponse{StatusCode: code, StatusMessage: msg, Data: data})
}

// domainErrors lists every sentinel whose message is safe to show to a
// client. Anything outside this set collapses to a generic 500 so that
// internals (SQL text, driver messages) never leak.
var domainErrors = []error{
	service.ErrInvalidCredentials,
	service.ErrOtpNotFound,
	service.ErrOtpExpired,
	service.ErrOtpInvalid,
	service.ErrUserNotFound,
	password.ErrInvalidPreHash,
	password.ErrUnmigratable,
	repository.ErrUsernameExists,
	repository.ErrEmailExists,
	repository.ErrMobileExists,
	repository.ErrUserExists,
}

// fail maps a service error onto the response envelope. Domain
// sentinels surface verbatim as 400s, mirroring the envelope the
// legacy service produced for argument errors.
func fail(c echo.Context, err error) error {
	for _, known := range domainErrors {
		if errors.Is(err, known) {
			return respond(c, http.StatusBadRequest, known.Error(), nil)
		}
	}
	log.Printf("handler: internal error on %s %s: %v", c.Request().Method, c.Path(), err)
	return respond(c, http.StatusInternalServerError, "Internal server error", nil)
}
