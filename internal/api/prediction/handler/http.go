package predictionHandler

import (
	intakeService "TumorDetector/internal/api/intake/service"
	predictionService "TumorDetector/internal/api/prediction/service"
	"TumorDetector/internal/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type PredictionHandler struct {
	log               *logrus.Logger
	validator         *validator.Validate
	middleware        middleware.Middleware
	predictionService predictionService.IPredictionService
	intakeService     intakeService.IIntakeService
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	ps predictionService.IPredictionService,
	is intakeService.IIntakeService,
) *PredictionHandler {
	return &PredictionHandler{
		log:               log,
		validator:         validator,
		middleware:        middleware,
		predictionService: ps,
		intakeService:     is,
	}
}

func (h *PredictionHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals(middleware.ClientIPKey, c.IP())
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	predict := srv.Group("/predict")
	predict.Use("/ws", wsMiddleware)
	predict.Get("/ws", websocket.New(h.handlePredictWebSocket))

	srv.Post("/predict", h.middleware.NewRateLimiter, h.Predict)
}
