//go:build gocv
// +build gocv

package vision

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"

	"googly-eyes/internal/detector"
	"googly-eyes/internal/domain/entity"
	"googly-eyes/internal/domain/port"
)

// CaffeFaceScorer оценивает области лиц SSD-сетью в формате Caffe.
type CaffeFaceScorer struct {
	cfg caffeFaceConfig

	// SetInput и Forward меняют состояние сети
	mu  sync.Mutex
	net gocv.Net
}

func newCaffeFaceScorer(cfg caffeFaceConfig) *CaffeFaceScorer {
	return &CaffeFaceScorer{cfg: cfg}
}

// Load читает prototxt и веса сети.
func (s *CaffeFaceScorer) Load() error {
	if err := checkArtifact("model_path_protobuf", s.cfg.protoPath); err != nil {
		return err
	}
	if err := checkArtifact("model_path_caffe", s.cfg.modelPath); err != nil {
		return err
	}

	net := gocv.ReadNetFromCaffe(s.cfg.protoPath, s.cfg.modelPath)
	if net.Empty() {
		net.Close()
		return &detector.ModelLoadError{Path: s.cfg.modelPath, Err: errors.New("empty caffe network")}
	}
	s.net = net
	return nil
}

// Score возвращает все предложения сети в нормированных координатах.
func (s *CaffeFaceScorer) Score(img image.Image) ([]entity.ScoredBox, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("image to mat: %w", err)
	}
	defer mat.Close()

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(mat, &resized, s.cfg.inputSize, 0, 0, gocv.InterpolationLinear)

	mean := gocv.NewScalar(s.cfg.means[0], s.cfg.means[1], s.cfg.means[2], 0)
	blob := gocv.BlobFromImage(resized, s.cfg.scaleFactor, s.cfg.inputSize, mean, false, false)
	defer blob.Close()

	return s.forward(blob), nil
}

// forward прогоняет сеть и разбирает выход под тем же мьютексом:
// Mat из Forward разделяет память с выходным блобом сети.
func (s *CaffeFaceScorer) forward(blob gocv.Mat) []entity.ScoredBox {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.net.SetInput(blob, "")
	out := s.net.Forward("")
	defer out.Close()

	// Выход имеет форму [1, 1, N, 7]: id, class, confidence, xmin, ymin, xmax, ymax
	results := gocv.GetBlobChannel(out, 0, 0)
	defer results.Close()

	proposals := make([]entity.ScoredBox, 0, results.Rows())
	for r := 0; r < results.Rows(); r++ {
		proposals = append(proposals, entity.ScoredBox{
			Confidence: float64(results.GetFloatAt(r, 2)),
			Box: entity.RawBox{
				XMin: float64(results.GetFloatAt(r, 3)),
				YMin: float64(results.GetFloatAt(r, 4)),
				XMax: float64(results.GetFloatAt(r, 5)),
				YMax: float64(results.GetFloatAt(r, 6)),
			},
		})
	}
	return proposals
}

// Close освобождает сеть
func (s *CaffeFaceScorer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.net.Close()
}

var _ port.RegionScorer = (*CaffeFaceScorer)(nil)
