package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Режимы запуска
const (
	ModeProd = "prod"
	ModeDev  = "dev"
)

type Config struct {
	HTTPAddr        string        `validate:"required"`
	DetectorsPath   string        `validate:"required"`
	RunningMode     string        `validate:"oneof=prod dev"`
	TelegramToken   string
	LogLevel        string        `validate:"oneof=debug info warn error"`
	LogFile         string
	RateLimitRPS    float64       `validate:"gt=0"`
	RateLimitBurst  int           `validate:"gte=1"`
	MaxUploadSize   int64         `validate:"gt=0"`
	MaxImagePixels  int           `validate:"gt=0"`
	TrustedProxies  []string      `validate:"dive,cidr|ip"`
	ShutdownTimeout time.Duration `validate:"gt=0"`
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr:       getenv("HTTP_ADDR", ":8000"),
		DetectorsPath:  getenv("CONFIG_FILE_PATH", "config/detectors.yaml"),
		RunningMode:    strings.ToLower(getenv("RUNNING_MODE", ModeProd)),
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogFile:        os.Getenv("LOG_FILE"),
		TrustedProxies: splitList(os.Getenv("TRUSTED_PROXIES")),
	}

	var err error
	if cfg.RateLimitRPS, err = parseEnv("RATE_LIMIT_RPS", 5.0, func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	}); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = parseEnv("RATE_LIMIT_BURST", 10, strconv.Atoi); err != nil {
		return nil, err
	}
	if cfg.MaxUploadSize, err = parseEnv("MAX_UPLOAD_SIZE", int64(10<<20), func(s string) (int64, error) {
		return strconv.ParseInt(s, 10, 64)
	}); err != nil {
		return nil, err
	}
	if cfg.MaxImagePixels, err = parseEnv("MAX_IMAGE_PIXELS", 40_000_000, strconv.Atoi); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = parseEnv("SHUTDOWN_TIMEOUT", 5*time.Second, time.ParseDuration); err != nil {
		return nil, err
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// IsDev включает отладочные возможности, например загрузку файла через форму
func (c *Config) IsDev() bool {
	return c.RunningMode == ModeDev
}

var validate = validator.New()

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// splitList разбирает список через запятую, пустые элементы отбрасываются
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parseEnv[T any](key string, def T, parse func(string) (T, error)) (T, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := parse(raw)
	if err != nil {
		return def, fmt.Errorf("parse %s: %w", key, err)
	}
	return v, nil
}
