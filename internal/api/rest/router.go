package rest

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouterOptions параметры HTTP-роутера
type RouterOptions struct {
	DevMode        bool // подключает /googlify_upload_file/
	RateLimitRPS   float64
	RateLimitBurst int
	// TrustedProxies адреса и подсети прокси, которым доверяется X-Forwarded-For.
	// Пустой список означает, что IP клиента берётся из соединения.
	TrustedProxies []string
	Logger         *zap.Logger
}

// NewRouter собирает gin-роутер с middleware и маршрутами.
func NewRouter(h *Handler, opts RouterOptions) (*gin.Engine, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if opts.DevMode {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	// Без этого gin верит X-Forwarded-For от любого клиента, и лимит обходится подменой заголовка
	if err := router.SetTrustedProxies(opts.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	router.Use(gin.Recovery(), RequestID(), AccessLog(logger))

	router.GET("/health", h.Health)

	api := router.Group("/")
	api.Use(RateLimit(opts.RateLimitRPS, opts.RateLimitBurst, logger))
	{
		api.POST("/googlify/", h.Googlify)
		if opts.DevMode {
			// Для ручной проверки через форму
			api.POST("/googlify_upload_file/", h.GooglifyUploadFile)
		}
	}

	return router, nil
}
