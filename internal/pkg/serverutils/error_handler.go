package serverutils

import (
	"errors"

	"ai-triage-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

// StatusFor maps an error returned by a handler onto an HTTP status.
func StatusFor(err error) int {
	switch apperror.KindOf(err) {
	case apperror.KindNotFound:
		return fiber.StatusNotFound
	case apperror.KindInvalidState, apperror.KindConflict:
		return fiber.StatusConflict
	case apperror.KindValidation:
		return fiber.StatusBadRequest
	case apperror.KindProvider, apperror.KindParse:
		return fiber.StatusBadGateway
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}

// publicMessage never exposes upstream error text or raw model output.
func publicMessage(err error, status int) string {
	var ae *apperror.Error
	if errors.As(err, &ae) {
		switch ae.Kind {
		case apperror.KindProvider:
			return "reasoning provider unavailable"
		case apperror.KindParse:
			return "reasoning provider returned an unreadable reply"
		default:
			return ae.Error()
		}
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Message
	}
	if status == fiber.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}

func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		status := StatusFor(err)
		return ctx.Status(status).JSON(ErrorResponse(status, publicMessage(err, status)))
	}
}
