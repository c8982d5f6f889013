//go:build !gocv
// +build !gocv

package vision

import (
	"errors"
	"image"

	"googly-eyes/internal/detector"
	"googly-eyes/internal/domain/entity"
	"googly-eyes/internal/domain/port"
)

var errGoCVDisabled = errors.New("gocv build tag is not enabled")

// CaffeFaceScorer заглушка без OpenCV.
type CaffeFaceScorer struct {
	cfg caffeFaceConfig
}

func newCaffeFaceScorer(cfg caffeFaceConfig) *CaffeFaceScorer {
	return &CaffeFaceScorer{cfg: cfg}
}

// Load проверяет пути и возвращает ошибку, если сборка без тега gocv.
func (s *CaffeFaceScorer) Load() error {
	if err := checkArtifact("model_path_protobuf", s.cfg.protoPath); err != nil {
		return err
	}
	if err := checkArtifact("model_path_caffe", s.cfg.modelPath); err != nil {
		return err
	}
	return &detector.ModelLoadError{Path: s.cfg.modelPath, Err: errGoCVDisabled}
}

// Score возвращает ошибку, если сборка без тега gocv.
func (s *CaffeFaceScorer) Score(img image.Image) ([]entity.ScoredBox, error) {
	_ = img
	return nil, errGoCVDisabled
}

// LandmarkNet заглушка без OpenCV.
type LandmarkNet struct {
	cfg landmarkNetConfig
}

func newLandmarkNet(cfg landmarkNetConfig) *LandmarkNet {
	return &LandmarkNet{cfg: cfg}
}

// Load проверяет путь и возвращает ошибку, если сборка без тега gocv.
func (n *LandmarkNet) Load() error {
	if err := checkArtifact("model_path", n.cfg.modelPath); err != nil {
		return err
	}
	return &detector.ModelLoadError{Path: n.cfg.modelPath, Err: errGoCVDisabled}
}

// Fit возвращает ошибку, если сборка без тега gocv.
func (n *LandmarkNet) Fit(img image.Image, faces []entity.BoundingBox) ([][]entity.Landmark, error) {
	_ = img
	_ = faces
	return nil, errGoCVDisabled
}

var (
	_ port.RegionScorer  = (*CaffeFaceScorer)(nil)
	_ port.LandmarkModel = (*LandmarkNet)(nil)
)
