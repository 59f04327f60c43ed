package serverutils

import (
	"errors"
	"fmt"
	"strings"

	"dimensa-be/internal/pkg/logger"
	"dimensa-be/pkg/pipeline"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type ErrorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func ErrorResponse(message string) ErrorBody {
	return ErrorBody{Error: message}
}

type SuccessBody[T any] struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data,omitempty"`
}

func SuccessResponse[T any](message string, data T) SuccessBody[T] {
	return SuccessBody[T]{Status: "ok", Message: message, Data: data}
}

// ValidateRequest runs struct tag validation and flattens the failures into
// one message.
func ValidateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s is %s", fe.Field(), fe.Tag()))
	}
	return errors.New(strings.Join(msgs, ", "))
}

// StatusFor maps an error to the HTTP status returned to the caller.
func StatusFor(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}

	var pe *pipeline.Error
	if !errors.As(err, &pe) {
		return fiber.StatusInternalServerError
	}
	switch pe.Kind {
	case pipeline.KindInvalidRequest:
		return fiber.StatusBadRequest
	case pipeline.KindUpstreamTimeout:
		return fiber.StatusGatewayTimeout
	case pipeline.KindCanceled:
		return fiber.StatusRequestTimeout
	case pipeline.KindMemoryUnavailable:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusBadGateway
	}
}

// ErrorHandlerMiddleware renders handler errors as {"error": "..."}.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if err == nil {
			return nil
		}

		status := StatusFor(err)
		body := ErrorBody{Error: err.Error()}

		var pe *pipeline.Error
		if errors.As(err, &pe) {
			body = ErrorBody{Error: pe.UserMessage(), Kind: string(pe.Kind)}
		} else if status == fiber.StatusInternalServerError {
			body.Error = "Internal server error"
		}

		if status >= fiber.StatusInternalServerError {
			log.Error("HTTP", "Request failed", map[string]interface{}{
				"method": c.Method(),
				"path":   c.Path(),
				"status": status,
				"error":  err,
			})
		}
		return c.Status(status).JSON(body)
	}
}
