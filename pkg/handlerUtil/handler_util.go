package handlerUtil

import (
	"errors"

	"TumorDetector/internal/api/intake"
	"TumorDetector/internal/api/prediction"
	"TumorDetector/pkg/log"
	"TumorDetector/pkg/response"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
}

type ErrorHandler struct {
	logger *logrus.Logger
}

func New(logger *logrus.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
	}
}

func (h *ErrorHandler) Handle(c *fiber.Ctx, requestID string, err error, path string, operation string) error {
	fields := log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
		"operation":  operation,
	}

	// Intake domain errors
	if errors.Is(err, intake.ErrNoFiles) {
		h.logger.WithFields(fields).Warn("No files uploaded")
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "No files uploaded. Use 'images' as the form field name.",
			Code:  "NO_FILES",
		})
	}

	if errors.Is(err, intake.ErrReadFile) {
		h.logger.WithFields(fields).Warn("Uploaded file could not be read")
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
			Error: "One of the uploaded files could not be read. No images were added.",
			Code:  "READ_FAILED",
		})
	}

	// Prediction domain errors
	if errors.Is(err, prediction.ErrNoImages) {
		h.logger.WithFields(fields).Warn("Prediction requested without images")
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: prediction.MsgNoImages,
			Code:  "NO_IMAGES",
		})
	}

	var respErr *response.Error
	if errors.As(err, &respErr) {
		if respErr.Code >= fiber.StatusInternalServerError {
			traceID := log.ErrorWithTraceID(fields, "Operation failed with error response")
			return c.Status(respErr.Code).JSON(ErrorResponse{Error: respErr.Error(), TraceID: traceID})
		}
		h.logger.WithFields(fields).Warn("Operation failed with error response")
		return c.Status(respErr.Code).JSON(ErrorResponse{Error: respErr.Error()})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		h.logger.WithFields(fields).Warn("Request rejected")
		return c.Status(fiberErr.Code).JSON(ErrorResponse{Error: fiberErr.Message})
	}

	traceID := log.ErrorWithTraceID(fields, "Unexpected error")

	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error:   "An unexpected error occurred",
		TraceID: traceID,
	})
}

func (h *ErrorHandler) HandleValidationError(c *fiber.Ctx, requestID string, err error, path string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
	}).Warn("Validation failed")

	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error: "Validation failed: " + err.Error(),
		Code:  "VALIDATION_ERROR",
	})
}

func (h *ErrorHandler) HandleRequestTimeout(c *fiber.Ctx) error {
	return c.Status(fiber.StatusRequestTimeout).JSON(ErrorResponse{
		Error: utils.StatusMessage(fiber.StatusRequestTimeout),
	})
}

func (h *ErrorHandler) HandleSuccess(c *fiber.Ctx, statusCode int, data interface{}) error {
	if data == nil {
		return c.SendStatus(statusCode)
	}
	return c.Status(statusCode).JSON(data)
}
