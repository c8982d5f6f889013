package vision

import (
	"fmt"
	"image"

	pigo "github.com/esimov/pigo/core"

	"googly-eyes/internal/detector"
	"googly-eyes/internal/domain/entity"
	"googly-eyes/internal/domain/port"
)

// pigoFaceConfig параметры каскада pigo
type pigoFaceConfig struct {
	cascadePath  string
	minSize      int
	maxSize      int
	shiftFactor  float64
	scaleFactor  float64
	iouThreshold float64
}

func parsePigoFaceConfig(cfg detector.Config) (pigoFaceConfig, error) {
	var c pigoFaceConfig
	var err error

	if c.cascadePath, err = cfg.String("cascade_path"); err != nil {
		return c, err
	}
	if c.minSize, err = cfg.IntOr("min_size", 20); err != nil {
		return c, err
	}
	if c.maxSize, err = cfg.IntOr("max_size", 1000); err != nil {
		return c, err
	}
	if c.shiftFactor, err = cfg.FloatOr("shift_factor", 0.1); err != nil {
		return c, err
	}
	if c.scaleFactor, err = cfg.FloatOr("scale_factor", 1.1); err != nil {
		return c, err
	}
	if c.iouThreshold, err = cfg.FloatOr("iou_threshold", 0.2); err != nil {
		return c, err
	}
	if c.minSize <= 0 || c.maxSize < c.minSize {
		return c, &detector.ConfigurationError{Key: "max_size", Err: fmt.Errorf("%w: min_size %d, max_size %d", detector.ErrInvalidValue, c.minSize, c.maxSize)}
	}
	return c, nil
}

// PigoFaceScorer ищет лица каскадом pigo без OpenCV.
// Уверенность предложения равна оценке каскада Q.
type PigoFaceScorer struct {
	cfg        pigoFaceConfig
	classifier *pigo.Pigo
}

func newPigoFaceScorer(cfg pigoFaceConfig) *PigoFaceScorer {
	return &PigoFaceScorer{cfg: cfg}
}

// Load распаковывает каскад.
func (s *PigoFaceScorer) Load() (err error) {
	data, err := readArtifact("cascade_path", s.cfg.cascadePath)
	if err != nil {
		return err
	}

	// Unpack не проверяет длину данных и паникует на повреждённом файле
	defer func() {
		if r := recover(); r != nil {
			err = &detector.ModelLoadError{Path: s.cfg.cascadePath, Err: fmt.Errorf("corrupt cascade: %v", r)}
		}
	}()

	classifier, err := pigo.NewPigo().Unpack(data)
	if err != nil {
		return &detector.ModelLoadError{Path: s.cfg.cascadePath, Err: err}
	}
	s.classifier = classifier
	return nil
}

// Score запускает каскад и объединяет пересекающиеся детекции.
func (s *PigoFaceScorer) Score(img image.Image) ([]entity.ScoredBox, error) {
	params := grayscaleParams(img)
	if params.Cols == 0 || params.Rows == 0 {
		return []entity.ScoredBox{}, nil
	}

	dets := s.classifier.RunCascade(pigo.CascadeParams{
		MinSize:     s.cfg.minSize,
		MaxSize:     s.cfg.maxSize,
		ShiftFactor: s.cfg.shiftFactor,
		ScaleFactor: s.cfg.scaleFactor,
		ImageParams: params,
	}, 0.0)
	dets = s.classifier.ClusterDetections(dets, s.cfg.iouThreshold)

	cols, rows := float64(params.Cols), float64(params.Rows)
	proposals := make([]entity.ScoredBox, 0, len(dets))
	for _, det := range dets {
		half := float64(det.Scale) / 2
		proposals = append(proposals, entity.ScoredBox{
			Confidence: float64(det.Q),
			Box: entity.RawBox{
				XMin: (float64(det.Col) - half) / cols,
				YMin: (float64(det.Row) - half) / rows,
				XMax: (float64(det.Col) + half) / cols,
				YMax: (float64(det.Row) + half) / rows,
			},
		})
	}

	return proposals, nil
}

// grayscaleParams переводит изображение в формат пикселей pigo
func grayscaleParams(img image.Image) pigo.ImageParams {
	src := pigo.ImgToNRGBA(img)
	cols, rows := src.Bounds().Dx(), src.Bounds().Dy()

	return pigo.ImageParams{
		Pixels: pigo.RgbToGrayscale(src),
		Rows:   rows,
		Cols:   cols,
		Dim:    cols,
	}
}

func newPigoFaceDetector(cfg detector.Config) (port.Detector, error) {
	c, err := parsePigoFaceConfig(cfg)
	if err != nil {
		return nil, err
	}
	return detector.NewFaceDetectorFromConfig(newPigoFaceScorer(c), cfg)
}

var _ port.RegionScorer = (*PigoFaceScorer)(nil)
