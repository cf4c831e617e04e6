package config

import (
	"TumorDetector/internal/views"
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
)

func NewFiber(cfg AppConfig) *fiber.App {
	app := fiber.New(
		fiber.Config{
			AppName:           cfg.Name,
			BodyLimit:         cfg.BodyLimitMB * 1024 * 1024,
			DisableKeepalive:  false,
			StrictRouting:     true,
			CaseSensitive:     true,
			EnablePrintRoutes: cfg.Env != "test",
			JSONEncoder:       jsoniter.Marshal,
			JSONDecoder:       jsoniter.Unmarshal,
			Views:             views.NewEngine(),
			ViewsLayout:       views.Layout,
		})

	return app
}
