package response

import (
	"github.com/gofiber/fiber/v2"
)

// SuccessBody is the standardized success JSON shape.
type SuccessBody struct {
	Status   string      `json:"status"`
	Message  string      `json:"message"`
	Data     interface{} `json:"data"`
	Metadata interface{} `json:"metadata,omitempty"`
}

// ErrorBody is the standardized error JSON shape.
type ErrorBody struct {
	Status string      `json:"status"`
	Error  ErrorDetail `json:"error"`
}

// ErrorDetail is the nested error object. Code is a stable snake_case identifier
// clients can switch on; Message is for humans.
type ErrorDetail struct {
	Message    string      `json:"message"`
	StatusCode int         `json:"statusCode"`
	Code       string      `json:"code,omitempty"`
	Details    interface{} `json:"details,omitempty"`
}

const statusSuccess = "success"
const statusError = "error"

// Success sends a 200 OK response with the standard success format.
func Success(c *fiber.Ctx, message string, data interface{}, metadata interface{}) error {
	return SuccessStatus(c, fiber.StatusOK, message, data, metadata)
}

// SuccessCreated sends a 201 Created response with the standard success format.
func SuccessCreated(c *fiber.Ctx, message string, data interface{}, metadata interface{}) error {
	return SuccessStatus(c, fiber.StatusCreated, message, data, metadata)
}

// SuccessStatus is Success with an explicit status (e.g. 207 for partial uploads).
func SuccessStatus(c *fiber.Ctx, status int, message string, data interface{}, metadata interface{}) error {
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	return c.Status(status).JSON(SuccessBody{
		Status:   statusSuccess,
		Message:  message,
		Data:     data,
		Metadata: metadata,
	})
}

// Error sends a response with the standard error format.
func Error(c *fiber.Ctx, message string, statusCode int, details interface{}) error {
	return ErrorCode(c, statusCode, "", message, details)
}

// ErrorCode sends the standard error format with an opaque error code.
func ErrorCode(c *fiber.Ctx, statusCode int, code, message string, details interface{}) error {
	if details == nil {
		details = map[string]interface{}{}
	}
	return c.Status(statusCode).JSON(ErrorBody{
		Status: statusError,
		Error: ErrorDetail{
			Message:    message,
			StatusCode: statusCode,
			Code:       code,
			Details:    details,
		},
	})
}

// BadRequest sends 400 with code "invalid_request" unless a code is given.
func BadRequest(c *fiber.Ctx, message string) error {
	return ErrorCode(c, fiber.StatusBadRequest, "invalid_request", message, nil)
}

// Internal sends an opaque 500. The underlying error must already be logged.
func Internal(c *fiber.Ctx, code string) error {
	if code == "" {
		code = "internal_error"
	}
	return ErrorCode(c, fiber.StatusInternalServerError, code, "Internal server error", nil)
}

// Unauthorized sends 401 with the same shape as other errors (status "error", error.message).
// Use this for auth middleware so all errors are consistent.
func Unauthorized(c *fiber.Ctx, message string) error {
	return ErrorCode(c, fiber.StatusUnauthorized, "unauthorized", message, nil)
}

// Forbidden sends 403.
func Forbidden(c *fiber.Ctx, message string) error {
	return ErrorCode(c, fiber.StatusForbidden, "forbidden", message, nil)
}
