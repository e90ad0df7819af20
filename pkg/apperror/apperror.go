package apperror

import (
	"fmt"

	"lexio/config"
	"lexio/pkg/apperror/status"
	"lexio/pkg/logger"

	"github.com/gofiber/fiber/v3"
)

// ErrorResponse is the standardized HTTP error payload. Detail carries the
// human-readable message clients surface in their error banners.
type ErrorResponse struct {
	Detail    string `json:"detail"`
	ErrorCode string `json:"error_code"`
}

// SuccessMessage is the standardized HTTP success envelope.
type SuccessMessage struct {
	Code       status.SuccessCode `json:"code"`
	Message    string             `json:"message"`
	TrackingID string             `json:"tracking_id"`
	Data       any                `json:"data,omitempty"`
}

// WriteError logs a structured warning and returns a standardized JSON error.
func WriteError(module config.Module, c fiber.Ctx, httpStatus int, code status.ErrorCode, message string) error {
	logger.WithFields(map[string]interface{}{
		"module":        module,
		"status_code":   httpStatus,
		"error_code":    code,
		"error_message": message,
		"http_method":   c.Method(),
		"path":          c.Path(),
		"ip":            c.IP(),
	}).Warnf("http error")

	return c.Status(httpStatus).JSON(ErrorResponse{
		Detail:    message,
		ErrorCode: fmt.Sprintf("LX-%d", code),
	})
}

func BadRequest(module config.Module, c fiber.Ctx, code status.ErrorCode, message string) error {
	return WriteError(module, c, fiber.StatusBadRequest, code, message)
}

func Unauthorized(module config.Module, c fiber.Ctx, code status.ErrorCode, message string) error {
	return WriteError(module, c, fiber.StatusUnauthorized, code, message)
}

func Forbidden(module config.Module, c fiber.Ctx, code status.ErrorCode, message string) error {
	return WriteError(module, c, fiber.StatusForbidden, code, message)
}

func NotFound(module config.Module, c fiber.Ctx, code status.ErrorCode, message string) error {
	return WriteError(module, c, fiber.StatusNotFound, code, message)
}

func InternalError(module config.Module, c fiber.Ctx, code status.ErrorCode, err error) error {
	return WriteError(module, c, fiber.StatusInternalServerError, code, err.Error())
}

// Success writes a standardized JSON success response.
func Success(c fiber.Ctx, response SuccessMessage) error {
	httpStatus := fiber.StatusOK
	if response.Code == status.Created {
		httpStatus = fiber.StatusCreated
	}
	return c.Status(httpStatus).JSON(response)
}
