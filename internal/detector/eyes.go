package detector

import (
	"context"
	"fmt"
	"image"

	"googly-eyes/internal/domain/entity"
	"googly-eyes/internal/domain/geometry"
	"googly-eyes/internal/domain/port"
)

// IndexRange полуинтервал [From, To) индексов ключевых точек
type IndexRange struct {
	From int
	To   int
}

// По схеме из 68 точек: 36–41 левый глаз, 42–47 правый.
var (
	DefaultLeftEye  = IndexRange{From: 36, To: 42}
	DefaultRightEye = IndexRange{From: 42, To: 48}
)

// EyeDetector строит области глаз по ключевым точкам лица.
// На каждое лицо возвращает две области: сначала левый глаз, затем правый.
type EyeDetector struct {
	model    port.LandmarkModel
	leftEye  IndexRange
	rightEye IndexRange
}

// NewEyeDetector создаёт детектор глаз поверх модели ключевых точек.
func NewEyeDetector(model port.LandmarkModel, leftEye, rightEye IndexRange) *EyeDetector {
	return &EyeDetector{
		model:    model,
		leftEye:  leftEye,
		rightEye: rightEye,
	}
}

// NewEyeDetectorFromConfig читает необязательные диапазоны left_eye и right_eye.
func NewEyeDetectorFromConfig(model port.LandmarkModel, cfg Config) (*EyeDetector, error) {
	left, err := indexRange(cfg, "left_eye", DefaultLeftEye)
	if err != nil {
		return nil, err
	}
	right, err := indexRange(cfg, "right_eye", DefaultRightEye)
	if err != nil {
		return nil, err
	}
	return NewEyeDetector(model, left, right), nil
}

// Load загружает модель
func (d *EyeDetector) Load() error {
	return d.model.Load()
}

// Detect ищет глаза внутри областей лиц. Без roi поиск идёт по всему изображению.
// Области нулевой площади пропускаются, модель для них не вызывается.
func (d *EyeDetector) Detect(ctx context.Context, img image.Image, roi []entity.BoundingBox) ([]entity.BoundingBox, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(roi) == 0 {
		b := img.Bounds()
		roi = []entity.BoundingBox{{X: b.Min.X, Y: b.Min.Y, Width: b.Dx(), Height: b.Dy()}}
	}

	faces := make([]entity.BoundingBox, 0, len(roi))
	for _, r := range roi {
		if !r.Empty() {
			faces = append(faces, r)
		}
	}
	if len(faces) == 0 {
		return []entity.BoundingBox{}, nil
	}

	landmarks, err := d.model.Fit(img, faces)
	if err != nil {
		return nil, fmt.Errorf("fit landmarks: %w", err)
	}

	need := max(d.leftEye.To, d.rightEye.To)
	eyes := make([]entity.BoundingBox, 0, 2*len(landmarks))
	for _, points := range landmarks {
		if len(points) < need {
			continue
		}
		eyes = append(eyes,
			geometry.BoundingRect(points[d.leftEye.From:d.leftEye.To]),
			geometry.BoundingRect(points[d.rightEye.From:d.rightEye.To]),
		)
	}

	return eyes, nil
}

func indexRange(cfg Config, key string, def IndexRange) (IndexRange, error) {
	v, err := cfg.IntsOr(key, []int{def.From, def.To})
	if err != nil {
		return IndexRange{}, err
	}
	r := IndexRange{From: v[0], To: v[1]}
	if r.From < 0 || r.To <= r.From {
		return IndexRange{}, &ConfigurationError{Key: key, Err: fmt.Errorf("%w: empty landmark range [%d, %d)", ErrInvalidValue, r.From, r.To)}
	}
	return r, nil
}

// Close освобождает модель ключевых точек, если она этого требует.
func (d *EyeDetector) Close() error {
	return closeModel(d.model)
}

var _ port.Detector = (*EyeDetector)(nil)
