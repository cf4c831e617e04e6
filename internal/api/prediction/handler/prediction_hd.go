package predictionHandler

import (
	"context"
	"time"

	"TumorDetector/internal/api/prediction"
	"TumorDetector/internal/entity"
	contextPkg "TumorDetector/pkg/context"
	"TumorDetector/pkg/handlerUtil"
	"TumorDetector/pkg/log"
	"TumorDetector/pkg/notify"
	"TumorDetector/pkg/response"
	"github.com/gofiber/fiber/v2"
)

const predictTimeout = 60 * time.Second

// Predict answers 200 with aligned results, or 502 with empty results and the
// notification text when the prediction service call failed.
func (h *PredictionHandler) Predict(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	sessionID := h.middleware.GetSessionID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), predictTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req prediction.PredictRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
		}
		if err := h.validator.Struct(req); err != nil {
			return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
		}
	}

	images, err := h.resolveImages(c, req, sessionID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "resolve_images")
	}
	if len(images) == 0 {
		return errHandler.Handle(ctx, requestID, prediction.ErrNoImages, ctx.Path(), "resolve_images")
	}

	h.log.WithFields(log.Fields{
		"request_id":  requestID,
		"session_id":  sessionID,
		"image_count": len(images),
	}).Debug("Processing prediction request")

	recorder := notify.NewRecorder()
	outcomes := h.predictionService.Predict(c, images, recorder)

	status := fiber.StatusOK
	if recorder.Count() > 0 {
		status = response.StatusCode(prediction.ErrPredictionFailed)
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, status, prediction.PredictResponse{
			Results:       outcomes,
			Notifications: recorder.Messages(),
		})
	}
}

// resolveImages prefers the images in the request body over the session images.
func (h *PredictionHandler) resolveImages(ctx context.Context, req prediction.PredictRequest, sessionID string) ([]entity.UploadedImage, error) {
	if len(req.Images) > 0 {
		return req.Images, nil
	}
	if sessionID == "" {
		return nil, nil
	}
	return h.intakeService.SessionImages(ctx, sessionID)
}
