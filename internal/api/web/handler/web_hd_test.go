package webHandler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"TumorDetector/internal/api/intake"
	intakeRepository "TumorDetector/internal/api/intake/repository"
	intakeService "TumorDetector/internal/api/intake/service"
	predictionService "TumorDetector/internal/api/prediction/service"
	"TumorDetector/internal/api/web"
	"TumorDetector/internal/middleware"
	"TumorDetector/internal/views"
	"TumorDetector/pkg/predictor"
	"TumorDetector/pkg/redis"
	"TumorDetector/pkg/utils"
	"github.com/PuerkitoBio/goquery"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

// brokenStore fails every write, as an unreachable Redis would.
type brokenStore struct{}

func (brokenStore) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("connection refused")
}
func (brokenStore) Get(context.Context, string) ([]byte, error) { return nil, redis.ErrNil }
func (brokenStore) Delete(context.Context, string) error { return errors.New("connection refused") }
func (brokenStore) Close() error { return nil }

func newTestApp(t *testing.T, status int, body string) *fiber.App {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return newTestAppWithStore(t, status, body, redis.NewInMemory(), logger)
}

func newTestAppWithStore(t *testing.T, status int, body string, store redis.IRedis, logger *logrus.Logger) *fiber.App {
	t.Helper()

	model := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(model.Close)

	mw := middleware.New(logger, utils.New(), middleware.Options{RateLimit: 100, RateBurst: 100, SessionTTL: time.Hour})
	is := intakeService.NewIntakeService(logger, intakeRepository.New(store, time.Hour, logger))
	ps := predictionService.NewPredictionService(logger, predictor.New(predictor.Config{URL: model.URL, Timeout: 2 * time.Second}, logger))

	app := fiber.New(fiber.Config{Views: views.NewEngine(), ViewsLayout: views.Layout})
	app.Use(mw.NewRequestIDMiddleware(), mw.NewSessionMiddleware())
	New(logger, mw, is, ps).Start(app)
	return app
}

func uploadRequest(t *testing.T, names ...string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for i, name := range names {
		part, err := w.CreateFormFile(intake.FormField, name)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		_, _ = part.Write([]byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, byte(i)})
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

func cookiesOf(resp *http.Response) []*http.Cookie {
	return resp.Cookies()
}

func withCookies(req *http.Request, cookies []*http.Cookie) *http.Request {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func document(t *testing.T, resp *http.Response) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

func TestIndexRendersEmptyPage(t *testing.T) {
	app := newTestApp(t, http.StatusOK, `{"results":[]}`)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	doc := document(t, resp)
	if got := strings.TrimSpace(doc.Find("h1").Text()); got != "Brain Tumor Detector" {
		t.Fatalf("heading = %q", got)
	}
	if doc.Find("input[type=file][name=images]").Length() != 1 {
		t.Fatal("upload picker missing")
	}
	if doc.Find("#predict").Length() != 0 || doc.Find("#loader").Length() != 0 {
		t.Fatal("predict button or loader shown without images")
	}
	if doc.Find("html").AttrOr("data-theme", "") != "dark" {
		t.Fatal("default theme is not dark")
	}
}

func TestUploadThenPredictRendersCardsInOrder(t *testing.T) {
	app := newTestApp(t, http.StatusOK, `{"results":[
		{"detections":[{"classId":2,"confidence":97.5}]},
		{"detections":[{"classId":0,"confidence":88.123}]},
		{"detections":[]}
	]}`)

	resp, err := app.Test(uploadRequest(t, "a.png", "b.png", "c.png"))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusSeeOther {
		t.Fatalf("upload status = %d, want 303", resp.StatusCode)
	}
	cookies := cookiesOf(resp)

	resp, _ = app.Test(withCookies(httptest.NewRequest(http.MethodGet, "/", nil), cookies))
	doc := document(t, resp)
	if doc.Find(".thumbs img").Length() != 3 || doc.Find("#predict").Length() != 1 {
		t.Fatal("uploaded images or predict button missing")
	}
	loader := doc.Find("#loader")
	if _, hidden := loader.Attr("hidden"); !hidden || !strings.Contains(loader.Text(), "Scanning...") {
		t.Fatal("hidden scanning loader missing next to the predict button")
	}

	resp, err = app.Test(withCookies(httptest.NewRequest(http.MethodPost, "/predict", nil), cookies))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	doc = document(t, resp)

	cards := doc.Find(".card")
	if cards.Length() != 3 {
		t.Fatalf("cards = %d, want 3", cards.Length())
	}

	want := []struct {
		title, score, file, class string
	}{
		{"No Tumor Detected", "Score: 97.50%", "File: a.png", "negative"},
		{"Glioma", "Score: 88.12%", "File: b.png", "positive"},
		{"No Detection", "Score: N/A", "File: c.png", "neutral"},
	}
	cards.Each(func(i int, card *goquery.Selection) {
		if got := strings.TrimSpace(card.Find(".title").Text()); got != want[i].title {
			t.Errorf("card %d title = %q, want %q", i, got, want[i].title)
		}
		if got := strings.TrimSpace(card.Find(".score").Text()); got != want[i].score {
			t.Errorf("card %d score = %q, want %q", i, got, want[i].score)
		}
		if got := strings.TrimSpace(card.Find(".file").Text()); got != want[i].file {
			t.Errorf("card %d file = %q, want %q", i, got, want[i].file)
		}
		if !card.HasClass(want[i].class) {
			t.Errorf("card %d missing class %q", i, want[i].class)
		}
	})
	if doc.Find(".alert").Length() != 0 {
		t.Fatal("unexpected alert")
	}
}

func TestPredictFailureShowsAlert(t *testing.T) {
	app := newTestApp(t, http.StatusInternalServerError, `{"detail":"down"}`)

	resp, _ := app.Test(uploadRequest(t, "a.png"))
	cookies := cookiesOf(resp)

	resp, err := app.Test(withCookies(httptest.NewRequest(http.MethodPost, "/predict", nil), cookies))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	doc := document(t, resp)

	alerts := doc.Find(".alert")
	if alerts.Length() != 1 {
		t.Fatalf("alerts = %d, want 1", alerts.Length())
	}
	if doc.Find(".card").Length() != 0 {
		t.Fatal("cards rendered after failed prediction")
	}
}

func TestUploadWithoutFilesShowsAlert(t *testing.T) {
	app := newTestApp(t, http.StatusOK, `{"results":[]}`)

	resp, err := app.Test(uploadRequest(t))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	doc := document(t, resp)
	if got := strings.TrimSpace(doc.Find(".alert").Text()); got != msgUploadFailed {
		t.Fatalf("alert = %q", got)
	}
}

func TestToggleThemeFlipsCookie(t *testing.T) {
	app := newTestApp(t, http.StatusOK, `{"results":[]}`)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/theme", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}

	var theme *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == web.ThemeCookie {
			theme = c
		}
	}
	if theme == nil || theme.Value != "light" {
		t.Fatalf("theme cookie = %+v, want light", theme)
	}

	req := httptest.NewRequest(http.MethodPost, "/theme", nil)
	req.AddCookie(theme)
	resp, _ = app.Test(req)
	for _, c := range resp.Cookies() {
		if c.Name == web.ThemeCookie && c.Value != "dark" {
			t.Fatalf("second toggle = %q, want dark", c.Value)
		}
	}
}

func TestResetClearsImages(t *testing.T) {
	app := newTestApp(t, http.StatusOK, `{"results":[]}`)

	resp, _ := app.Test(uploadRequest(t, "a.png"))
	cookies := cookiesOf(resp)

	resp, _ = app.Test(withCookies(httptest.NewRequest(http.MethodPost, "/reset", nil), cookies))
	if resp.StatusCode != fiber.StatusSeeOther {
		t.Fatalf("reset status = %d, want 303", resp.StatusCode)
	}

	resp, _ = app.Test(withCookies(httptest.NewRequest(http.MethodGet, "/", nil), cookies))
	if document(t, resp).Find(".thumbs img").Length() != 0 {
		t.Fatal("images still shown after reset")
	}
}

func TestUploadStorageFailureLogsCleanup(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	app := newTestAppWithStore(t, http.StatusOK, `{"results":[]}`, brokenStore{}, logger)

	resp, err := app.Test(uploadRequest(t, "a.png"))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}

	operations := map[string]bool{}
	for _, entry := range hook.AllEntries() {
		if op, ok := entry.Data["operation"].(string); ok {
			operations[op] = true
		}
	}
	if !operations["ingest_images"] || !operations["clear_session_images"] {
		t.Fatalf("logged operations = %v, want ingest_images and clear_session_images", operations)
	}
}
