package predictor

import (
	"context"
	"errors"
	"fmt"
	"time"

	contextPkg "TumorDetector/pkg/context"
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

const DefaultURL = "http://localhost:8000/predict"

var (
	ErrUnavailable       = errors.New("prediction service unavailable")
	ErrUnexpectedStatus  = errors.New("prediction service returned unexpected status")
	ErrMalformedResponse = errors.New("prediction response format is incorrect")
)

// Request is the body accepted by the prediction service.
type Request struct {
	Image []string `json:"image"`
}

type Detection struct {
	ClassID    int      `json:"classId"`
	ClassName  string   `json:"className,omitempty"`
	Confidence *float64 `json:"confidence"`
}

type Result struct {
	ID         int         `json:"id,omitempty"`
	Detections []Detection `json:"detections"`
}

// Response mirrors the service payload. Elements of Results may be nil when the
// service sends null for an image.
type Response struct {
	Results []*Result `json:"results"`
}

type IPredictor interface {
	Predict(ctx context.Context, images []string) (*Response, error)
}

type Config struct {
	URL     string
	Timeout time.Duration
}

type predictorClient struct {
	client  *fiber.Client
	url     string
	timeout time.Duration
	log     *logrus.Logger
}

func New(cfg Config, log *logrus.Logger) IPredictor {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &predictorClient{
		client: &fiber.Client{
			JSONEncoder: jsoniter.Marshal,
			JSONDecoder: jsoniter.Unmarshal,
		},
		url:     cfg.URL,
		timeout: cfg.Timeout,
		log:     log,
	}
}

// Predict posts every image in one request. The error wraps ErrUnavailable,
// ErrUnexpectedStatus or ErrMalformedResponse.
func (p *predictorClient) Predict(ctx context.Context, images []string) (*Response, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	timeout := p.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	agent := p.client.Post(p.url)
	agent.Set("X-Request-ID", requestID)
	agent.Timeout(timeout)
	agent.JSON(Request{Image: images})

	start := time.Now()
	status, body, errs := agent.Bytes()
	latency := time.Since(start)

	if len(errs) > 0 {
		err := errors.Join(errs...)
		p.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"url":        p.url,
			"error":      err.Error(),
			"latency_ms": latency.Milliseconds(),
		}).Error("Prediction request failed")
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	p.log.WithFields(logrus.Fields{
		"request_id":  requestID,
		"status":      status,
		"image_count": len(images),
		"latency_ms":  latency.Milliseconds(),
	}).Debug("Prediction service responded")

	if status < fiber.StatusOK || status >= fiber.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, status)
	}

	var resp Response
	if err := jsoniter.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if resp.Results == nil {
		return nil, fmt.Errorf("%w: missing results", ErrMalformedResponse)
	}

	return &resp, nil
}
