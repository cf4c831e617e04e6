package webHandler

import (
	intakeService "TumorDetector/internal/api/intake/service"
	predictionService "TumorDetector/internal/api/prediction/service"
	"TumorDetector/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type WebHandler struct {
	log               *logrus.Logger
	middleware        middleware.Middleware
	intakeService     intakeService.IIntakeService
	predictionService predictionService.IPredictionService
}

func New(
	log *logrus.Logger,
	middleware middleware.Middleware,
	is intakeService.IIntakeService,
	ps predictionService.IPredictionService,
) *WebHandler {
	return &WebHandler{
		log:               log,
		middleware:        middleware,
		intakeService:     is,
		predictionService: ps,
	}
}

func (h *WebHandler) Start(srv fiber.Router) {
	srv.Get("/", h.Index)
	srv.Post("/upload", h.Upload)
	srv.Post("/predict", h.middleware.NewRateLimiter, h.Predict)
	srv.Post("/theme", h.ToggleTheme)
	srv.Post("/reset", h.Reset)
}
