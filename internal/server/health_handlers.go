// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// LivenessCheck handles GET /health/live. It reports only that the process
// is serving requests.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// ReadinessCheck handles GET /health/ready. Ready means the database answers;
// Redis is optional and reported informationally.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	sqlDB, err := s.db.DB()
	if err != nil || sqlDB.PingContext(ctx) != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":   "unavailable",
			"database": "down",
		})
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "ok"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "down"
		}
	}

	return c.JSON(fiber.Map{
		"status":   "ok",
		"database": "ok",
		"redis":    redisStatus,
	})
}
