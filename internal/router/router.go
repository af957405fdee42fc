package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/ev-charge-hub/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/ev-charge-hub/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.  Driver accounts register and
// log in; the station operator has a dedicated login that checks the fixed
// credentials from configuration.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	// Driver registration and login issue an access/refresh pair.
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token and returns a new pair.
	g.POST("/refresh", a.Refresh)
	// Operator login issues a short-lived ADMIN token without a refresh
	// token; the console simply logs in again when it expires.
	g.POST("/admin/login", a.AdminLogin)
	// Logout accepts a refresh token in the body and invalidates it.  With
	// only an Authorization header it revokes every session of the caller.
	g.POST("/logout", a.Logout)

	// Protected group: any authenticated principal may inspect its own
	// token claims.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("USER", "ADMIN"))
	auth.GET("/me", a.Me)
}
