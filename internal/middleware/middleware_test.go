package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"TumorDetector/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

func newTestMiddleware(opts Options) Middleware {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return New(logger, utils.New(), opts)
}

func TestSanitizeRequestBody(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		want        string
	}{
		{"redacts images", fiber.MIMEApplicationJSON, `{"image":["data:image/png;base64,AAAA"]}`, `{"image":"[REDACTED]"}`},
		{"keeps other fields", fiber.MIMEApplicationJSON, `{"theme":"dark"}`, `{"theme":"dark"}`},
		{"multipart", "multipart/form-data; boundary=x", "--x--", "[multipart body]"},
		{"not json", fiber.MIMETextPlain, "hello", "[non-JSON body]"},
	}

	for _, tt := range tests {
		if got := sanitizeRequestBody(tt.contentType, []byte(tt.body)); got != tt.want {
			t.Fatalf("%s: sanitizeRequestBody = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestSessionMiddlewareIssuesAndReusesCookie(t *testing.T) {
	m := newTestMiddleware(Options{SessionTTL: time.Hour})

	app := fiber.New()
	app.Use(m.NewSessionMiddleware())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(m.GetSessionID(c))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	issued := string(body)
	if !strings.HasPrefix(issued, "s_") {
		t.Fatalf("issued session ID = %q", issued)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: issued})
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	body, _ = io.ReadAll(resp.Body)
	if string(body) != issued {
		t.Fatalf("session ID = %q, want reused %q", body, issued)
	}
}

func TestValidSessionID(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", false},
		{"s_", false},
		{"s_01HZX3K9Q7M2C4V8B6N0T5R1WE", true},
		{"s_01hzx", false},
		{"x_01HZX", false},
		{"s_" + strings.Repeat("A", 80), false},
	}

	for _, tt := range tests {
		if got := validSessionID(tt.in); got != tt.want {
			t.Fatalf("validSessionID(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRateLimiterRejectsBurst(t *testing.T) {
	m := newTestMiddleware(Options{RateLimit: 0.001, RateBurst: 1})

	app := fiber.New()
	app.Post("/predict", m.NewRateLimiter, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	first, _ := app.Test(httptest.NewRequest(http.MethodPost, "/predict", nil))
	second, _ := app.Test(httptest.NewRequest(http.MethodPost, "/predict", nil))

	if first.StatusCode != fiber.StatusOK || second.StatusCode != fiber.StatusTooManyRequests {
		t.Fatalf("statuses = %d, %d, want 200, 429", first.StatusCode, second.StatusCode)
	}
}

func TestRequestIDMiddlewareEchoesHeader(t *testing.T) {
	m := newTestMiddleware(Options{})

	app := fiber.New()
	app.Use(m.NewRequestIDMiddleware())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(m.GetRequestID(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDKey, "req-123")
	resp, _ := app.Test(req)
	body, _ := io.ReadAll(resp.Body)

	if string(body) != "req-123" || resp.Header.Get(RequestIDKey) != "req-123" {
		t.Fatalf("request ID = %q / %q, want req-123", body, resp.Header.Get(RequestIDKey))
	}
}

func TestRateLimiterEvictsIdleClients(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	limiter := newRateLimiter(0.001, 1)
	limiter.now = func() time.Time { return now }

	if !limiter.allow("10.0.0.1") || limiter.allow("10.0.0.1") {
		t.Fatal("first call should pass and second should be limited")
	}
	limiter.allow("10.0.0.2")
	if limiter.size() != 2 {
		t.Fatalf("size = %d, want 2", limiter.size())
	}

	now = now.Add(limiterIdleTTL + limiterSweepInterval)
	if !limiter.allow("10.0.0.3") {
		t.Fatal("new client limited")
	}
	if limiter.size() != 1 {
		t.Fatalf("size after sweep = %d, want 1", limiter.size())
	}
	if !limiter.allow("10.0.0.1") {
		t.Fatal("evicted client should start with a full burst")
	}
}

func TestAllowSharesBucketWithRouteLimiter(t *testing.T) {
	m := newTestMiddleware(Options{RateLimit: 0.001, RateBurst: 1})

	var clientIP string
	app := fiber.New()
	app.Post("/predict", m.NewRateLimiter, func(c *fiber.Ctx) error {
		clientIP = c.IP()
		return c.SendStatus(fiber.StatusOK)
	})

	resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/predict", nil))
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if m.Allow(clientIP) {
		t.Fatal("Allow passed after the route spent the only token")
	}
}
