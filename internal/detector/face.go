package detector

import (
	"context"
	"fmt"
	"image"
	"io"

	"googly-eyes/internal/domain/entity"
	"googly-eyes/internal/domain/geometry"
	"googly-eyes/internal/domain/port"
)

// FaceDetector ищет лица по предложениям модели-оценщика областей.
// Результат не обрезается по границам изображения.
type FaceDetector struct {
	scorer          port.RegionScorer
	threshold       float64
	enlargeFraction float64
}

// NewFaceDetector создаёт детектор лиц поверх модели scorer.
func NewFaceDetector(scorer port.RegionScorer, threshold, enlargeFraction float64) *FaceDetector {
	return &FaceDetector{
		scorer:          scorer,
		threshold:       threshold,
		enlargeFraction: enlargeFraction,
	}
}

// NewFaceDetectorFromConfig читает confidence_threshold и enlarge_fraction.
func NewFaceDetectorFromConfig(scorer port.RegionScorer, cfg Config) (*FaceDetector, error) {
	threshold, err := cfg.Float("confidence_threshold")
	if err != nil {
		return nil, err
	}
	enlarge, err := cfg.Float("enlarge_fraction")
	if err != nil {
		return nil, err
	}
	return NewFaceDetector(scorer, threshold, enlarge), nil
}

// Load загружает модель
func (d *FaceDetector) Load() error {
	return d.scorer.Load()
}

// Detect ищет лица по всему изображению; roi не используется.
func (d *FaceDetector) Detect(ctx context.Context, img image.Image, roi []entity.BoundingBox) ([]entity.BoundingBox, error) {
	_ = roi
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	proposals, err := d.scorer.Score(img)
	if err != nil {
		return nil, fmt.Errorf("score regions: %w", err)
	}

	faces := make([]entity.BoundingBox, 0, len(proposals))
	for _, p := range proposals {
		// Отбрасываем предложения с низкой уверенностью
		if p.Confidence <= d.threshold {
			continue
		}

		box := geometry.Scale(p.Box, bounds.Dx(), bounds.Dy())
		box = geometry.Enlarge(box, d.enlargeFraction)
		faces = append(faces, box.BoundingBox())
	}

	return faces, nil
}

// Close освобождает модель, если она держит внешние ресурсы (сеть gocv).
func (d *FaceDetector) Close() error {
	return closeModel(d.scorer)
}

func closeModel(model any) error {
	if c, ok := model.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

var _ port.Detector = (*FaceDetector)(nil)
