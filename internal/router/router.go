// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Anurup-SarKar/JPK-service/internal/handler"
)

// RegisterRoutes registers routes that carry no business logic.
// Currently it exposes only a health check for load balancers and
// monitoring.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAPI wires the auth, user-management and admin endpoints
// under /api. The legacy frontend is served from arbitrary origins, so
// CORS stays wide open, matching the previous deployment. The cache
// middleware (a passthrough when Redis is unavailable) is applied only
// to the read-heavy GET endpoints.
func RegisterAPI(e *echo.Echo, a *handler.AuthHandler, u *handler.UserHandler, adm *handler.AdminHandler, cache echo.MiddlewareFunc) {
	e.Use(echomw.CORS())

	auth := e.Group("/api/auth")
	auth.POST("/login", a.Login)
	auth.POST("/validate-otp", a.ValidateOtp)
	auth.POST("/resend-otp", a.ResendOtp)

	users := e.Group("/api/users")
	users.GET("", u.List, cache)
	users.POST("", u.Create)
	// Legacy body-addressed routes kept for existing clients.
	users.POST("/update", u.UpdateByEmail)
	users.POST("/delete", u.DeleteByEmail)
	users.PUT("/:id", u.Update)
	users.DELETE("/:id", u.Delete)

	admin := e.Group("/api/admin")
	admin.POST("/migrate-passwords", adm.MigratePasswords)
	admin.GET("/password-migration-status", adm.MigrationStatus, cache)
	admin.POST("/migrate-user-password", adm.MigrateUserPassword)
}
