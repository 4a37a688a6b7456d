// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"bookswap/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetRequests handles GET /api/requests
func (s *Server) GetRequests(c *fiber.Ctx) error {
	requests, err := s.tradeService.ListRequests(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"requests": requests})
}

// GetTrades handles GET /api/trades
func (s *Server) GetTrades(c *fiber.Ctx) error {
	trades, err := s.tradeService.ListSettled(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"trades": trades})
}

// CreateRequest handles POST /api/requests
func (s *Server) CreateRequest(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		BooksGiven []uint             `json:"booksGiven"`
		BooksTaken []models.TakenBook `json:"booksTaken"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	trade, err := s.tradeService.Propose(c.Context(), userID, req.BooksGiven, req.BooksTaken)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"tradeId": trade.ID})
}

// AcceptRequest handles PUT /api/requests/:id/accept
func (s *Server) AcceptRequest(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	tradeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.tradeService.Accept(c.Context(), userID, tradeID); err != nil {
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusOK)
}

// GetRequestCandidates handles GET /api/requests/new
func (s *Server) GetRequestCandidates(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	candidates, err := s.tradeService.Candidates(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(candidates)
}
