// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"bookswap/internal/models"
	"bookswap/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// GetBooks handles GET /api/books
func (s *Server) GetBooks(c *fiber.Ctx) error {
	books, err := s.bookService.List(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"books": books})
}

// CreateBook handles POST /api/books
func (s *Server) CreateBook(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	book, err := s.bookService.Create(c.Context(), userID,
		validation.SanitizeText(req.Title), validation.SanitizeText(req.Description))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(book)
}

// DeleteBook handles DELETE /api/books/:id
func (s *Server) DeleteBook(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	bookID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.bookService.Delete(c.Context(), userID, bookID); err != nil {
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
