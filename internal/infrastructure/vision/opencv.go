package vision

import (
	"image"

	"googly-eyes/internal/detector"
	"googly-eyes/internal/domain/port"
)

// caffeFaceConfig параметры SSD-детектора лиц в формате Caffe
type caffeFaceConfig struct {
	protoPath   string
	modelPath   string
	inputSize   image.Point
	means       []float64
	scaleFactor float64
}

func parseCaffeFaceConfig(cfg detector.Config) (caffeFaceConfig, error) {
	var c caffeFaceConfig
	var err error

	if c.protoPath, err = cfg.String("model_path_protobuf"); err != nil {
		return c, err
	}
	if c.modelPath, err = cfg.String("model_path_caffe"); err != nil {
		return c, err
	}
	size, err := cfg.Ints("input_size", 2)
	if err != nil {
		return c, err
	}
	c.inputSize = image.Pt(size[0], size[1])
	if c.means, err = cfg.Floats("normalization_means", 3); err != nil {
		return c, err
	}
	if c.scaleFactor, err = cfg.Float("scale_factor"); err != nil {
		return c, err
	}
	return c, nil
}

// landmarkNetConfig параметры ONNX-регрессора ключевых точек
type landmarkNetConfig struct {
	modelPath   string
	inputSize   image.Point
	means       []float64
	scaleFactor float64
	swapRB      bool
	landmarks   int
}

func parseLandmarkNetConfig(cfg detector.Config) (landmarkNetConfig, error) {
	var c landmarkNetConfig
	var err error

	if c.modelPath, err = cfg.String("model_path"); err != nil {
		return c, err
	}
	size, err := cfg.IntsOr("input_size", []int{112, 112})
	if err != nil {
		return c, err
	}
	c.inputSize = image.Pt(size[0], size[1])
	if c.means, err = cfg.FloatsOr("normalization_means", []float64{0, 0, 0}); err != nil {
		return c, err
	}
	if c.scaleFactor, err = cfg.FloatOr("scale_factor", 1.0/255); err != nil {
		return c, err
	}
	if c.swapRB, err = cfg.BoolOr("swap_rb", true); err != nil {
		return c, err
	}
	if c.landmarks, err = cfg.IntOr("landmarks", 68); err != nil {
		return c, err
	}
	if c.landmarks <= 0 {
		return c, &detector.ConfigurationError{Key: "landmarks", Err: detector.ErrInvalidValue}
	}
	return c, nil
}

func newOpenCVFaceDetector(cfg detector.Config) (port.Detector, error) {
	c, err := parseCaffeFaceConfig(cfg)
	if err != nil {
		return nil, err
	}
	return detector.NewFaceDetectorFromConfig(newCaffeFaceScorer(c), cfg)
}

func newOpenCVEyesDetector(cfg detector.Config) (port.Detector, error) {
	c, err := parseLandmarkNetConfig(cfg)
	if err != nil {
		return nil, err
	}
	return detector.NewEyeDetectorFromConfig(newLandmarkNet(c), cfg)
}
