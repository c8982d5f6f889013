package port

import (
	"context"
	"image"

	"googly-eyes/internal/domain/entity"
)

// Detector интерфейс детектора лиц или глаз
type Detector interface {
	// Load загружает модель детектора; вызывается один раз при создании
	Load() error

	// Detect ищет объекты на изображении. Если roi пустой, поиск идёт по всему изображению,
	// иначе только внутри переданных областей. Изображение не изменяется.
	// Когда ничего не найдено, возвращается пустой список без ошибки.
	Detect(ctx context.Context, img image.Image, roi []entity.BoundingBox) ([]entity.BoundingBox, error)
}

// RegionScorer непрозрачная модель, предлагающая области с оценкой уверенности
type RegionScorer interface {
	// Load загружает веса модели
	Load() error

	// Score возвращает предложения модели в нормированных координатах [0, 1]
	Score(img image.Image) ([]entity.ScoredBox, error)
}

// LandmarkModel непрозрачная модель ключевых точек лица
type LandmarkModel interface {
	// Load загружает веса модели
	Load() error

	// Fit возвращает ключевые точки для каждого лица в том же порядке, что и faces.
	// Для лица, на котором модель не справилась, элемент равен nil.
	Fit(img image.Image, faces []entity.BoundingBox) ([][]entity.Landmark, error)
}
