package intakeHandler

import (
	"context"
	"time"

	"TumorDetector/internal/api/intake"
	intakeService "TumorDetector/internal/api/intake/service"
	contextPkg "TumorDetector/pkg/context"
	"TumorDetector/pkg/handlerUtil"
	"TumorDetector/pkg/log"
	"github.com/gofiber/fiber/v2"
)

func (h *IntakeHandler) UploadImages(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	sessionID := h.middleware.GetSessionID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	form, err := ctx.MultipartForm()
	if err != nil {
		return errHandler.Handle(ctx, requestID, intake.ErrInvalidForm, ctx.Path(), "parse_multipart_form")
	}

	headers := form.File[intake.FormField]
	if len(headers) == 0 {
		return errHandler.Handle(ctx, requestID, intake.ErrNoFiles, ctx.Path(), "read_form_files")
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"session_id": sessionID,
		"file_count": len(headers),
	}).Debug("Processing image upload")

	images, err := h.intakeService.Ingest(c, intakeService.FromMultipart(headers))
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "ingest_images")
	}

	if err := h.intakeService.SaveSessionImages(c, sessionID, images); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "save_session_images")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		h.log.WithFields(log.Fields{
			"request_id":  requestID,
			"session_id":  sessionID,
			"image_count": len(images),
		}).Info("Images uploaded")
		return errHandler.HandleSuccess(ctx, fiber.StatusCreated, intake.ImagesResponse{
			Images: images,
		})
	}
}

func (h *IntakeHandler) GetImages(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	errHandler := handlerUtil.New(h.log)

	images, err := h.intakeService.SessionImages(contextPkg.FromFiberCtx(ctx), h.middleware.GetSessionID(ctx))
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_session_images")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, intake.ImagesResponse{
		Images: images,
	})
}

func (h *IntakeHandler) ClearImages(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	errHandler := handlerUtil.New(h.log)

	if err := h.intakeService.ClearSessionImages(contextPkg.FromFiberCtx(ctx), h.middleware.GetSessionID(ctx)); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "clear_session_images")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusNoContent, nil)
}
