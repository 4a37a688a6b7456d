// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetUsers handles GET /api/users
func (s *Server) GetUsers(c *fiber.Ctx) error {
	users, err := s.userService.List(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"users": users})
}

// GetMe handles GET /api/me
func (s *Server) GetMe(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	profile, err := s.userService.Me(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(profile)
}
