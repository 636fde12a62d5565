package serverutils

import (
	"errors"

	"dermoscan-be/internal/gateway"
	"dermoscan-be/internal/workflow"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ParseAndValidate decodes the JSON body into dst and runs its struct tags.
// Tag failures come back as a fiber 400 so the error handler renders them in
// the standard envelope.
func ParseAndValidate(ctx *fiber.Ctx, dst interface{}) error {
	if err := ctx.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Malformed request body")
	}
	if err := validate.Struct(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Missing or malformed fields")
	}
	return nil
}

// ErrorHandlerMiddleware maps the workflow error taxonomy onto HTTP:
//
//	ValidationError        -> 400, non-fatal, inputs preserved client-side
//	InvalidTransitionError -> 409, the client is out of step with the session
//	ErrSessionNotFound     -> 401, open a new session
//	ErrConnection          -> 502, step aborted, session untouched
//	ServiceError           -> 502, same surfacing as a connection failure
//
// Everything else is a 500. Soft failures never travel as errors.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var (
			vErr   *workflow.ValidationError
			tErr   *workflow.InvalidTransitionError
			svcErr *gateway.ServiceError
			fbErr  *fiber.Error
		)
		switch {
		case errors.As(err, &vErr):
			return envelope(ctx, fiber.StatusBadRequest, vErr.Reason, fiber.Map{"field": vErr.Field})
		case errors.As(err, &tErr):
			return envelope(ctx, fiber.StatusConflict, tErr.Error(), nil)
		case errors.Is(err, workflow.ErrSessionNotFound):
			return envelope(ctx, fiber.StatusUnauthorized, "Session expired, please reload", nil)
		case errors.Is(err, gateway.ErrConnection):
			return envelope(ctx, fiber.StatusBadGateway, "A backend service could not be reached", nil)
		case errors.As(err, &svcErr):
			return envelope(ctx, fiber.StatusBadGateway, svcErr.Error(), nil)
		case errors.As(err, &fbErr):
			return envelope(ctx, fbErr.Code, fbErr.Message, nil)
		default:
			return envelope(ctx, fiber.StatusInternalServerError, "Internal error", nil)
		}
	}
}

func envelope(ctx *fiber.Ctx, code int, message string, data interface{}) error {
	return ctx.Status(code).JSON(fiber.Map{
		"success": false,
		"code":    code,
		"message": message,
		"data":    data,
	})
}
