package middleware

import (
	"errors"
	"net/http"

	"github.com/bilgisen/finsmart/internal/logger"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const validatedKey = "validated"

var validate = validator.New()

func fieldErrors(err error) fiber.Map {
	fields := fiber.Map{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
	}
	return fields
}

// ValidateBody parses the JSON body into a fresh T per request, validates
// it and stores it for Validated
func ValidateBody[T any]() fiber.Handler {
	return func(c *fiber.Ctx) error {
		v := new(T)
		if err := c.BodyParser(v); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
				"msg":   err.Error(),
			})
		}

		if err := validate.Struct(v); err != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":  "Validation failed",
				"fields": fieldErrors(err),
			})
		}

		c.Locals(validatedKey, v)
		return c.Next()
	}
}

// ValidateQuery is ValidateBody for query parameters
func ValidateQuery[T any]() fiber.Handler {
	return func(c *fiber.Ctx) error {
		v := new(T)
		if err := c.QueryParser(v); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid query parameters",
				"msg":   err.Error(),
			})
		}

		if err := validate.Struct(v); err != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":  "Invalid query parameters",
				"fields": fieldErrors(err),
			})
		}

		c.Locals(validatedKey, v)
		return c.Next()
	}
}

// Validated returns the value stored by ValidateBody or ValidateQuery
func Validated[T any](c *fiber.Ctx) (*T, bool) {
	v, ok := c.Locals(validatedKey).(*T)
	return v, ok
}

// ErrorHandler is the app-wide fiber error handler
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	if code >= fiber.StatusInternalServerError {
		logger.Get().Error().
			Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", code).
			Msg("HTTP error")
	}

	msg := http.StatusText(code)
	if fe != nil && code < fiber.StatusInternalServerError {
		msg = fe.Message
	}
	return c.Status(code).JSON(fiber.Map{
		"error": msg,
	})
}
