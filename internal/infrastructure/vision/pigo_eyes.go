package vision

import (
	"context"
	"fmt"
	"image"

	pigo "github.com/esimov/pigo/core"

	"googly-eyes/internal/detector"
	"googly-eyes/internal/domain/entity"
	"googly-eyes/internal/domain/port"
)

// defaultEyeBoxFraction сторона области глаза относительно размера лица.
// Радиус нарисованного глаза (w+h)*0.75, так что при этой доле соседние глаза не перекрываются.
const defaultEyeBoxFraction = 0.08

// PigoEyesDetector находит зрачки каскадом локализации pigo
// и строит вокруг каждого квадратную область глаза.
type PigoEyesDetector struct {
	puplocPath string
	fraction   float64
	perturbs   int
	cascade    *pigo.PuplocCascade
}

// NewPigoEyesDetector создаёт детектор по конфигурации.
// Обязателен puploc_path; eye_box_fraction и perturbs необязательны.
func NewPigoEyesDetector(cfg detector.Config) (*PigoEyesDetector, error) {
	path, err := cfg.String("puploc_path")
	if err != nil {
		return nil, err
	}
	fraction, err := cfg.FloatOr("eye_box_fraction", defaultEyeBoxFraction)
	if err != nil {
		return nil, err
	}
	if fraction <= 0 {
		return nil, &detector.ConfigurationError{Key: "eye_box_fraction", Err: detector.ErrInvalidValue}
	}
	perturbs, err := cfg.IntOr("perturbs", 63)
	if err != nil {
		return nil, err
	}

	return &PigoEyesDetector{
		puplocPath: path,
		fraction:   fraction,
		perturbs:   perturbs,
	}, nil
}

// Load распаковывает каскад зрачков.
func (d *PigoEyesDetector) Load() (err error) {
	data, err := readArtifact("puploc_path", d.puplocPath)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			err = &detector.ModelLoadError{Path: d.puplocPath, Err: fmt.Errorf("corrupt cascade: %v", r)}
		}
	}()

	cascade, err := pigo.NewPuplocCascade().UnpackCascade(data)
	if err != nil {
		return &detector.ModelLoadError{Path: d.puplocPath, Err: err}
	}
	d.cascade = cascade
	return nil
}

// Detect возвращает две области на лицо: сначала левую по изображению, затем правую.
// Если хотя бы один зрачок не найден, лицо пропускается.
func (d *PigoEyesDetector) Detect(ctx context.Context, img image.Image, roi []entity.BoundingBox) ([]entity.BoundingBox, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(roi) == 0 {
		b := img.Bounds()
		roi = []entity.BoundingBox{{X: b.Min.X, Y: b.Min.Y, Width: b.Dx(), Height: b.Dy()}}
	}

	eyes := make([]entity.BoundingBox, 0, 2*len(roi))
	var params *pigo.ImageParams
	for _, face := range roi {
		if face.Empty() {
			continue
		}
		if params == nil {
			p := grayscaleParams(img)
			params = &p
		}

		left, right, ok := d.pupils(face, *params)
		if !ok {
			continue
		}
		side := int(d.fraction * faceScale(face))
		eyes = append(eyes, squareAround(left, side), squareAround(right, side))
	}

	return eyes, nil
}

func (d *PigoEyesDetector) pupils(face entity.BoundingBox, params pigo.ImageParams) (left, right image.Point, ok bool) {
	scale := float32(faceScale(face))
	cx, cy := face.Center()

	l := d.cascade.RunDetector(pigo.Puploc{
		Row:      cy - int(0.075*scale),
		Col:      cx - int(0.175*scale),
		Scale:    scale * 0.25,
		Perturbs: d.perturbs,
	}, params, 0.0, false)
	r := d.cascade.RunDetector(pigo.Puploc{
		Row:      cy - int(0.075*scale),
		Col:      cx + int(0.185*scale),
		Scale:    scale * 0.25,
		Perturbs: d.perturbs,
	}, params, 0.0, false)

	if !found(l) || !found(r) {
		return image.Point{}, image.Point{}, false
	}
	return image.Pt(l.Col, l.Row), image.Pt(r.Col, r.Row), true
}

func found(p *pigo.Puploc) bool {
	return p != nil && p.Row > 0 && p.Col > 0
}

// faceScale размер лица в понимании pigo: среднее сторон
func faceScale(face entity.BoundingBox) float64 {
	return float64(face.Width+face.Height) / 2
}

func squareAround(center image.Point, side int) entity.BoundingBox {
	side = max(side, 1)
	return entity.BoundingBox{X: center.X - side/2, Y: center.Y - side/2, Width: side, Height: side}
}

func newPigoEyesDetector(cfg detector.Config) (port.Detector, error) {
	return NewPigoEyesDetector(cfg)
}

var _ port.Detector = (*PigoEyesDetector)(nil)
