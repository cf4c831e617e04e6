package webHandler

import (
	"context"
	"time"

	"TumorDetector/internal/api/intake"
	intakeService "TumorDetector/internal/api/intake/service"
	"TumorDetector/internal/api/web"
	"TumorDetector/internal/entity"
	contextPkg "TumorDetector/pkg/context"
	"TumorDetector/pkg/log"
	"TumorDetector/pkg/notify"
	"github.com/gofiber/fiber/v2"
)

const (
	pageTemplate   = "index"
	uploadTimeout  = 30 * time.Second
	predictTimeout = 60 * time.Second

	msgUploadFailed  = "Failed to read uploaded files. No images were added."
	msgSessionFailed = "Your images could not be loaded. Please upload them again."
)

func (h *WebHandler) Index(ctx *fiber.Ctx) error {
	data := h.pageData(ctx)

	images, err := h.intakeService.SessionImages(contextPkg.FromFiberCtx(ctx), h.middleware.GetSessionID(ctx))
	if err != nil {
		h.logFailure(ctx, err, "get_session_images")
		data.Alerts = append(data.Alerts, msgSessionFailed)
	}
	data.Images = images

	return ctx.Render(pageTemplate, data)
}

// Upload replaces the session images with the submitted files. Any unreadable
// file leaves the session without images.
func (h *WebHandler) Upload(ctx *fiber.Ctx) error {
	sessionID := h.middleware.GetSessionID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), uploadTimeout)
	defer cancel()

	var headersErr error
	form, err := ctx.MultipartForm()
	if err != nil {
		headersErr = intake.ErrInvalidForm
	} else if len(form.File[intake.FormField]) == 0 {
		headersErr = intake.ErrNoFiles
	}
	if headersErr != nil {
		h.logFailure(ctx, headersErr, "read_form_files")
		return h.renderAlert(ctx, fiber.StatusBadRequest, msgUploadFailed)
	}

	images, err := h.intakeService.Ingest(c, intakeService.FromMultipart(form.File[intake.FormField]))
	if err == nil {
		err = h.intakeService.SaveSessionImages(c, sessionID, images)
	}
	if err != nil {
		h.logFailure(ctx, err, "ingest_images")
		if clearErr := h.intakeService.ClearSessionImages(c, sessionID); clearErr != nil {
			h.logFailure(ctx, clearErr, "clear_session_images")
		}
		return h.renderAlert(ctx, fiber.StatusUnprocessableEntity, msgUploadFailed)
	}

	h.log.WithFields(log.Fields{
		"request_id":  h.middleware.GetRequestID(ctx),
		"session_id":  sessionID,
		"image_count": len(images),
	}).Info("Images uploaded from page")

	return ctx.Redirect("/", fiber.StatusSeeOther)
}

func (h *WebHandler) Predict(ctx *fiber.Ctx) error {
	sessionID := h.middleware.GetSessionID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), predictTimeout)
	defer cancel()

	data := h.pageData(ctx)

	images, err := h.intakeService.SessionImages(c, sessionID)
	if err != nil {
		h.logFailure(ctx, err, "get_session_images")
		data.Alerts = append(data.Alerts, msgSessionFailed)
		return ctx.Render(pageTemplate, data)
	}

	recorder := notify.NewRecorder()
	outcomes := h.predictionService.Predict(c, images, notify.Multi(recorder, notify.NewLogNotifier(h.log)))

	data.Images = images
	data.Alerts = append(data.Alerts, recorder.Messages()...)
	data.Cards = web.BuildCards(images, outcomes)
	data.ShowPrediction = len(data.Cards) > 0

	return ctx.Render(pageTemplate, data)
}

func (h *WebHandler) ToggleTheme(ctx *fiber.Ctx) error {
	next := entity.ThemeByName(ctx.Cookies(web.ThemeCookie)).Toggled()
	ctx.Cookie(&fiber.Cookie{
		Name:     web.ThemeCookie,
		Value:    next.Name,
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return ctx.Redirect("/", fiber.StatusSeeOther)
}

func (h *WebHandler) Reset(ctx *fiber.Ctx) error {
	if err := h.intakeService.ClearSessionImages(contextPkg.FromFiberCtx(ctx), h.middleware.GetSessionID(ctx)); err != nil {
		h.logFailure(ctx, err, "clear_session_images")
	}
	return ctx.Redirect("/", fiber.StatusSeeOther)
}

func (h *WebHandler) pageData(ctx *fiber.Ctx) web.PageData {
	return web.NewPageData(ctx.Cookies(web.ThemeCookie))
}

func (h *WebHandler) renderAlert(ctx *fiber.Ctx, status int, alert string) error {
	data := h.pageData(ctx)
	data.Alerts = []string{alert}
	return ctx.Status(status).Render(pageTemplate, data)
}

func (h *WebHandler) logFailure(ctx *fiber.Ctx, err error, operation string) {
	h.log.WithFields(log.Fields{
		"request_id": h.middleware.GetRequestID(ctx),
		"session_id": h.middleware.GetSessionID(ctx),
		"path":       ctx.Path(),
		"operation":  operation,
		"error":      err.Error(),
	}).Warn("Page action failed")
}
