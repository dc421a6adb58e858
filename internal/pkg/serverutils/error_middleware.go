package serverutils

import (
	"errors"

	"ai-docqa-be/internal/entity"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware maps the pipeline error taxonomy onto HTTP status
// codes so controllers can just return errors.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		status := fiber.StatusInternalServerError
		switch {
		case errors.Is(err, entity.ErrParse), errors.Is(err, entity.ErrConfig):
			status = fiber.StatusBadRequest
		case errors.Is(err, entity.ErrDimension):
			status = fiber.StatusConflict
		case errors.Is(err, entity.ErrEmbedding), errors.Is(err, entity.ErrGeneration):
			status = fiber.StatusBadGateway
		}

		return ctx.Status(status).JSON(ErrorResponse(err.Error()))
	}
}
