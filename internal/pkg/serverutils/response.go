package serverutils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type APIResponse[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

type APIError struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func SuccessResponse[T any](message string, data T) APIResponse[T] {
	return APIResponse[T]{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(code int, message string) APIError {
	return APIError{
		Success: false,
		Code:    code,
		Message: message,
	}
}

var validate = validator.New()

// ValidateRequest runs struct-tag validation and flattens violations into a
// single 400 message.
func ValidateRequest(payload interface{}) error {
	if err := validate.Struct(payload); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("field '%s' failed on '%s'", fe.Field(), fe.Tag()))
			}
			return fiber.NewError(fiber.StatusBadRequest, strings.Join(msgs, "; "))
		}
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

// ErrorHandlerMiddleware converts errors bubbled out of handlers into the
// JSON error envelope. Unknown errors become 500 without leaking internals.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := fiber.StatusInternalServerError
		message := "Internal server error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		}

		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}
