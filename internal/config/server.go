package config

import (
	"context"
	"fmt"
	"time"

	intakeHandler "TumorDetector/internal/api/intake/handler"
	intakeRepository "TumorDetector/internal/api/intake/repository"
	intakeService "TumorDetector/internal/api/intake/service"
	predictionHandler "TumorDetector/internal/api/prediction/handler"
	predictionService "TumorDetector/internal/api/prediction/service"
	webHandler "TumorDetector/internal/api/web/handler"
	"TumorDetector/internal/middleware"
	"TumorDetector/pkg/predictor"
	"TumorDetector/pkg/redis"
	"TumorDetector/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type ServerOption func(*Server) error

type Server struct {
	engine       *fiber.App
	cfg          AppConfig
	log          *logrus.Logger
	middleware   middleware.Middleware
	validator    *validator.Validate
	utils        utils.IUtils
	sessionStore redis.IRedis
	predictor    predictor.IPredictor
	apiHandlers  []handler
	pageHandlers []handler
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{cfg: DefaultAppConfig()}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.middleware == nil {
		return nil, fmt.Errorf("middleware is required")
	}
	if server.validator == nil {
		server.validator = NewValidator()
	}
	if server.sessionStore == nil {
		server.sessionStore = redis.NewInMemory()
	}
	if server.predictor == nil {
		server.predictor = predictor.New(predictor.Config{
			URL:     server.cfg.PredictURL,
			Timeout: server.cfg.PredictTimeout,
		}, server.log)
	}

	return server, nil
}

func WithAppConfig(cfg AppConfig) ServerOption {
	return func(s *Server) error {
		s.cfg = cfg
		return nil
	}
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

// WithSessionStore connects to Redis when an address is configured and falls
// back to the in-process store otherwise.
func WithSessionStore() ServerOption {
	return func(s *Server) error {
		if s.cfg.Redis.Address == "" {
			if s.log != nil {
				s.log.Info("REDIS_ADDRESS not set, using in-memory session store")
			}
			s.sessionStore = redis.NewInMemory()
			return nil
		}
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before session store")
		}
		s.sessionStore = redis.New(redis.Config{
			Address:  s.cfg.Redis.Address,
			Password: s.cfg.Redis.Password,
			DB:       s.cfg.Redis.DB,
		}, s.log)
		return nil
	}
}

func WithPredictor(p predictor.IPredictor) ServerOption {
	return func(s *Server) error {
		s.predictor = p
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		if s.utils == nil {
			s.utils = utils.New()
		}
		s.middleware = middleware.New(s.log, s.utils, middleware.Options{
			RateLimit:    rate.Limit(s.cfg.RateLimit),
			RateBurst:    s.cfg.RateBurst,
			SessionTTL:   s.cfg.SessionTTL,
			SecureCookie: s.cfg.Env == "production",
		})
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Intake Domain
	intakeRepo := intakeRepository.New(s.sessionStore, s.cfg.SessionTTL, s.log)
	intakeServices := intakeService.NewIntakeService(s.log, intakeRepo)
	intakeHandlers := intakeHandler.New(s.log, s.middleware, intakeServices)

	// Prediction Domain
	predictionServices := predictionService.NewPredictionService(s.log, s.predictor)
	predictionHandlers := predictionHandler.New(s.log, s.validator, s.middleware, predictionServices, intakeServices)

	// Pages
	webHandlers := webHandler.New(s.log, s.middleware, intakeServices, predictionServices)

	s.apiHandlers = append(s.apiHandlers, intakeHandlers, predictionHandlers)
	s.pageHandlers = append(s.pageHandlers, webHandlers)
}

// Mount installs the middleware chain and every registered route.
func (s *Server) Mount() {
	s.engine.Use(
		s.middleware.NewRequestIDMiddleware(),
		s.middleware.NewLoggingMiddleware(),
		s.middleware.NewSessionMiddleware(),
	)
	s.setupHealthCheck()

	router := s.engine.Group("/api/v1")
	for _, h := range s.apiHandlers {
		h.Start(router)
	}
	for _, h := range s.pageHandlers {
		h.Start(s.engine)
	}
}

func (s *Server) Run() error {
	s.Mount()
	return s.engine.Listen(fmt.Sprintf(":%s", s.cfg.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	err := s.engine.ShutdownWithContext(ctx)
	if closeErr := s.sessionStore.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/healthz", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})
}
