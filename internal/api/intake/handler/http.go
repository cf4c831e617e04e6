package intakeHandler

import (
	intakeService "TumorDetector/internal/api/intake/service"
	"TumorDetector/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type IntakeHandler struct {
	log           *logrus.Logger
	middleware    middleware.Middleware
	intakeService intakeService.IIntakeService
}

func New(
	log *logrus.Logger,
	middleware middleware.Middleware,
	is intakeService.IIntakeService,
) *IntakeHandler {
	return &IntakeHandler{
		log:           log,
		middleware:    middleware,
		intakeService: is,
	}
}

func (h *IntakeHandler) Start(srv fiber.Router) {
	srv.Post("/images", h.UploadImages)
	srv.Get("/images", h.GetImages)
	srv.Delete("/images", h.ClearImages)
}
