package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Name           string        `yaml:"app_name" validate:"required"`
	Env            string        `yaml:"app_env" validate:"required"`
	Port           string        `yaml:"app_port" validate:"required,numeric"`
	PredictURL     string        `yaml:"predict_url" validate:"required,url"`
	PredictTimeout time.Duration `yaml:"predict_timeout" validate:"gt=0"`
	SessionTTL     time.Duration `yaml:"session_ttl" validate:"gt=0"`
	BodyLimitMB    int           `yaml:"body_limit_mb" validate:"gt=0"`
	RateLimit      float64       `yaml:"rate_limit" validate:"gt=0"`
	RateBurst      int           `yaml:"rate_burst" validate:"gt=0"`
	Redis          RedisConfig   `yaml:"redis"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db" validate:"min=0"`
}

func DefaultAppConfig() AppConfig {
	return AppConfig{
		Name:           "Brain Tumor Detector",
		Env:            "development",
		Port:           "3000",
		PredictURL:     "http://localhost:8000/predict",
		PredictTimeout: 30 * time.Second,
		SessionTTL:     24 * time.Hour,
		BodyLimitMB:    50,
		RateLimit:      5,
		RateBurst:      10,
	}
}

// LoadAppConfig starts from the defaults, applies the YAML file named by
// CONFIG_FILE when set, then lets environment variables override both.
func LoadAppConfig(validate *validator.Validate) (AppConfig, error) {
	cfg := DefaultAppConfig()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return AppConfig{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return AppConfig{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return AppConfig{}, err
	}

	if err := validate.Struct(cfg); err != nil {
		return AppConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func applyEnv(cfg *AppConfig) error {
	setString("APP_NAME", &cfg.Name)
	setString("APP_ENV", &cfg.Env)
	setString("APP_PORT", &cfg.Port)
	setString("PREDICT_URL", &cfg.PredictURL)
	setString("REDIS_ADDRESS", &cfg.Redis.Address)
	setString("REDIS_PASSWORD", &cfg.Redis.Password)

	if err := setDuration("PREDICT_TIMEOUT", &cfg.PredictTimeout); err != nil {
		return err
	}
	if err := setDuration("SESSION_TTL", &cfg.SessionTTL); err != nil {
		return err
	}
	if err := setInt("BODY_LIMIT_MB", &cfg.BodyLimitMB); err != nil {
		return err
	}
	if err := setInt("RATE_BURST", &cfg.RateBurst); err != nil {
		return err
	}
	if err := setInt("REDIS_DB", &cfg.Redis.DB); err != nil {
		return err
	}

	if v := os.Getenv("RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT %q: %w", v, err)
		}
		cfg.RateLimit = f
	}

	return nil
}

func setString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = n
	return nil
}

func setDuration(key string, dst *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = d
	return nil
}
