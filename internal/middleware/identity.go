package middleware

// identity.go defines helper functions shared across middleware files. It
// provides a userID extraction function used by the rate limiter's key
// strategy: it prefers the subject stored by JWTAuth and falls back to a
// raw JWT in context. When no token is present, "guest" is returned.

import (
    "github.com/golang-jwt/jwt/v5"
    "github.com/labstack/echo/v4"
)

// userID extracts a user identifier from the request context. It returns
// "guest" when no user is authenticated or the claims are missing.
func userID(c echo.Context) string {
    if v, ok := c.Get("subject").(string); ok && v != "" {
        return v
    }
    u := c.Get("user")
    if u == nil {
        return "guest"
    }
    if tok, ok := u.(*jwt.Token); ok {
        if cl, ok := tok.Claims.(jwt.MapClaims); ok {
            if v, ok := cl["sub"].(string); ok && v != "" {
                return v
            }
        }
    }
    return "guest"
}
