package referrals

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

// ErrorResponse is the only error shape the API returns. Internal detail
// never crosses this boundary; it is logged server side instead.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code    string            `json:"code,omitempty"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// NewValidationError wraps a field->message map into a rich error the
// boundary renders with per-field detail
func NewValidationError(fields map[string]string) *errors.Error {
	return errors.New("Invalid request payload", errors.CategoryValidation).
		WithCode(errors.CodeBadRequest).
		WithMetadata(map[string]any{
			"fields": fields,
		})
}

// RenderError maps a domain error onto the HTTP taxonomy: validation and
// conflict are 400 with stable codes, auth is 401, not-found is 404 and
// everything else collapses to a generic 500.
func RenderError(c *fiber.Ctx, logger Logger, err error) error {
	if logger == nil {
		logger = defLogger{}
	}

	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		logger.Error("unhandled error at HTTP boundary", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: ErrorBody{Message: "Something went wrong"},
		})
	}

	body := ErrorBody{
		Code:    richErr.TextCode,
		Message: richErr.Message,
	}

	if fields, ok := richErr.Metadata["fields"].(map[string]string); ok {
		body.Fields = fields
	}

	status := statusFromCategory(richErr.Category)
	if status == fiber.StatusInternalServerError {
		logger.Error("internal error at HTTP boundary", "error", err)
		body = ErrorBody{Message: "Something went wrong"}
	}

	return c.Status(status).JSON(ErrorResponse{Error: body})
}

// MakeAPIAuthErrorHandler normalizes token extraction and validation
// failures into the single Unauthorized outcome the API exposes. The
// distinct internal conditions stay in the logs only.
func MakeAPIAuthErrorHandler(logger Logger) func(*fiber.Ctx, error) error {
	if logger == nil {
		logger = defLogger{}
	}

	return func(ctx *fiber.Ctx, err error) error {
		var richErr *errors.Error

		if IsTokenExpiredError(err) {
			richErr = ErrTokenExpired
		} else if IsMalformedError(err) {
			richErr = ErrTokenMalformed
		} else {
			richErr = errors.Wrap(err, errors.CategoryAuth, "Invalid authentication token").
				WithCode(errors.CodeUnauthorized)
		}

		logger.Debug("auth middleware rejected request", "error", err)
		return RenderError(ctx, logger, richErr)
	}
}

func statusFromCategory(category errors.Category) int {
	switch category {
	case errors.CategoryValidation:
		return fiber.StatusBadRequest
	case errors.CategoryConflict:
		// duplicate unique keys surface as plain bad requests,
		// same generic shape the rest of the 4xx family uses
		return fiber.StatusBadRequest
	case errors.CategoryAuth:
		return fiber.StatusUnauthorized
	case errors.CategoryNotFound:
		return fiber.StatusNotFound
	case errors.CategoryRateLimit:
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}
