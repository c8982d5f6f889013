package container

import (
	"fmt"

	"go.uber.org/zap"

	"googly-eyes/config"
	app "googly-eyes/internal/application"
	"googly-eyes/internal/detector"
	"googly-eyes/internal/domain/port"
	"googly-eyes/internal/infrastructure/codec"
	"googly-eyes/internal/infrastructure/overlay"
	"googly-eyes/internal/infrastructure/vision"
)

type Container struct {
	UserService  *app.UserService
	PhotoService *app.PhotoService
	Googlifier   *app.Googlifier
}

// NewRegistry реестр со всеми вариантами детекторов
func NewRegistry() *detector.Registry {
	registry := detector.NewRegistry()
	vision.Register(registry)
	return registry
}

// NewGooglifier создаёт оба детектора по конфигурации и собирает конвейер.
// Ошибка здесь означает неверную конфигурацию или модель: сервис не должен стартовать.
// maxImagePixels ограничивает площадь входного изображения, 0 означает предел по умолчанию.
func NewGooglifier(registry *detector.Registry, cfg *config.Detectors, maxImagePixels int, logger *zap.Logger) (*app.Googlifier, error) {
	faces, err := registry.New(cfg.FaceDetector.Detector, cfg.FaceDetector.Config())
	if err != nil {
		return nil, fmt.Errorf("face detector: %w", err)
	}
	eyes, err := registry.New(cfg.EyesDetector.Detector, cfg.EyesDetector.Config())
	if err != nil {
		return nil, fmt.Errorf("eyes detector: %w", err)
	}

	logger.Info("detectors loaded",
		zap.String("face_detector", cfg.FaceDetector.Detector),
		zap.String("eyes_detector", cfg.EyesDetector.Detector),
	)

	return app.NewGooglifier(faces, eyes, codec.NewPNGCodec(maxImagePixels), overlay.NewGooglyRenderer(nil), logger), nil
}

func New(userRepo port.UserRepository, googlifier *app.Googlifier) *Container {
	userService := app.NewUserService(userRepo)

	// Типизированный nil в интерфейсе не отличить от настоящего конвейера
	var pipeline port.Googlifier
	if googlifier != nil {
		pipeline = googlifier
	}
	photoService := app.NewPhotoService(userService, pipeline)

	return &Container{
		UserService:  userService,
		PhotoService: photoService,
		Googlifier:   googlifier,
	}
}
