package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type WebResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func SuccessResponse(message string, data interface{}) WebResponse {
	return WebResponse{
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(message string) WebResponse {
	return WebResponse{
		Message: message,
	}
}

var validate = validator.New()

// ValidateRequest checks struct tags and folds every violation into one
// 400 error.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	messages := make([]string, len(validationErrors))
	for i, fieldErr := range validationErrors {
		messages[i] = fmt.Sprintf("field %s failed on %s", fieldErr.Field(), fieldErr.Tag())
	}
	return fiber.NewError(fiber.StatusBadRequest, strings.Join(messages, "; "))
}
