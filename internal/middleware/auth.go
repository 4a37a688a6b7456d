// Package middleware provides authentication, logging, and rate-limiting
// middleware for the application.
package middleware

import (
	"strconv"
	"strings"

	"bookswap/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var cfg *config.Config

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// UserIDFromBearer validates the Authorization header and returns the user ID
// carried in the token's subject claim. The second return value reports
// whether a valid bearer token was present.
func UserIDFromBearer(c *fiber.Ctx) (uint, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return 0, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, false
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}

	// User ID travels in the "sub" claim (RFC 7519 subject).
	subClaim, ok := claims["sub"]
	if !ok {
		return 0, false
	}
	subStr, ok := subClaim.(string)
	if !ok {
		return 0, false
	}

	userIDVal, err := strconv.ParseUint(subStr, 10, 32)
	if err != nil {
		return 0, false
	}

	return uint(userIDVal), true
}

// AuthRequired is a middleware that enforces bearer-token authentication for
// protected routes. The server wraps it with session-cookie support; this
// standalone form exists for token-only API clients.
func AuthRequired(c *fiber.Ctx) error {
	userID, ok := UserIDFromBearer(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid or missing credentials",
		})
	}

	c.Locals("userID", userID)
	return c.Next()
}
