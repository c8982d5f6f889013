package port

import (
	"context"

	"googly-eyes/internal/domain/entity"
)

// Googlifier интерфейс конвейера, который рисует глаза на фотографии
type Googlifier interface {
	// Googlify обрабатывает изображение и возвращает итог с конечным состоянием
	Googlify(ctx context.Context, imageData []byte) (*entity.GooglifyResult, error)
}
