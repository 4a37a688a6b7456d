// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"errors"

	"bookswap/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid ID"))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// respondServiceError maps an application error to its HTTP status and writes
// the standardized error payload. INVALID_REQUEST keeps the 422 status the
// original API contract used for semantically invalid proposals.
func respondServiceError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	status := fiber.StatusInternalServerError
	switch appErr.Code {
	case "NOT_FOUND":
		status = fiber.StatusNotFound
	case "UNAUTHORIZED":
		status = fiber.StatusUnauthorized
	case "VALIDATION_ERROR":
		status = fiber.StatusBadRequest
	case "INVALID_REQUEST":
		status = fiber.StatusUnprocessableEntity
	case "INVALID_STATE", "CONFLICT":
		status = fiber.StatusConflict
	}

	return models.RespondWithError(c, status, appErr)
}
