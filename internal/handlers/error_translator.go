package handlers

import (
	"errors"
	"log"

	"userapi/internal/apperrors"
	"userapi/internal/models"

	"github.com/gofiber/fiber/v2"
)

// writeError is the single translation point from the error taxonomy to HTTP
// responses. Every handler funnels its failures through here. Errors outside
// the taxonomy become an opaque 500; their detail goes to the log, not the
// client.
func writeError(c *fiber.Ctx, err error) error {
	path := c.Path()

	var notFound *apperrors.NotFoundError
	var duplicate *apperrors.DuplicateError
	var validation *apperrors.ValidationError
	var constraint *apperrors.ConstraintError
	var invalidArg *apperrors.InvalidArgumentError

	switch {
	case errors.As(err, &notFound):
		resp := models.NewErrorResponse(fiber.StatusNotFound, "Not Found", notFound.Error(), path)
		return c.Status(fiber.StatusNotFound).JSON(resp)

	case errors.As(err, &duplicate):
		resp := models.NewErrorResponse(fiber.StatusConflict, "Conflict", duplicate.Error(), path)
		return c.Status(fiber.StatusConflict).JSON(resp)

	case errors.As(err, &validation):
		resp := models.NewErrorResponse(fiber.StatusBadRequest, "Bad Request", validation.Error(), path)
		for _, f := range validation.Fields {
			resp.AddValidationError(f.Field, f.Message)
		}
		return c.Status(fiber.StatusBadRequest).JSON(resp)

	case errors.As(err, &constraint):
		resp := models.NewErrorResponse(fiber.StatusBadRequest, "Bad Request", "Validation failed", path)
		for _, f := range constraint.Fields {
			resp.AddValidationError(f.Field, f.Message)
		}
		return c.Status(fiber.StatusBadRequest).JSON(resp)

	case errors.As(err, &invalidArg):
		resp := models.NewErrorResponse(fiber.StatusBadRequest, "Bad Request", invalidArg.Error(), path)
		return c.Status(fiber.StatusBadRequest).JSON(resp)

	default:
		log.Printf("Unhandled error on %s %s: %v", c.Method(), path, err)
		resp := models.NewErrorResponse(fiber.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred", path)
		return c.Status(fiber.StatusInternalServerError).JSON(resp)
	}
}
