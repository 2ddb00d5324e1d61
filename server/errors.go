package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"

	"github.com/marketpoint/marketpoint"
)

// NewErrorHandler builds the fiber error handler. Rich errors carry their
// HTTP status; anything else becomes an opaque 500 with the cause logged.
func NewErrorHandler(logger marketpoint.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{
				"message": fiberErr.Message,
			})
		}

		var richErr *goerrors.Error
		if !goerrors.As(err, &richErr) {
			richErr = goerrors.Wrap(err, goerrors.CategoryInternal, "Internal server error").
				WithCode(fiber.StatusInternalServerError)
		}

		status := richErr.Code
		if status == 0 {
			status = fiber.StatusInternalServerError
		}

		if status >= fiber.StatusInternalServerError {
			logger.Error("request failed: %s category=%s details=%s",
				richErr.Message,
				richErr.Category,
				print.MaybePrettyJSON(richErr.Metadata),
			)
			return c.Status(status).JSON(fiber.Map{
				"message": "Internal server error",
			})
		}

		return c.Status(status).JSON(fiber.Map{
			"message": richErr.Message,
		})
	}
}

// invalidInput converts a validation failure into a 400 carrying the
// validator's field messages.
func invalidInput(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryBadInput, err.Error()).
		WithCode(goerrors.CodeBadRequest)
}

// badBody is returned when the request body cannot be parsed at all.
func badBody(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryBadInput, "Invalid request body").
		WithCode(goerrors.CodeBadRequest)
}
