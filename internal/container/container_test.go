package container

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"googly-eyes/config"
	"googly-eyes/internal/detector"
	"googly-eyes/internal/infrastructure/storage"
)

func TestNewRegistry(t *testing.T) {
	require.Equal(t, []string{
		"opencv.EyesDetector",
		"opencv.FaceDetector",
		"pigo.EyesDetector",
		"pigo.FaceDetector",
	}, NewRegistry().Identifiers())
}

func TestNewGooglifier_UnknownDetector(t *testing.T) {
	cfg := &config.Detectors{
		FaceDetector: config.DetectorSection{Detector: "dlib.FaceDetector"},
		EyesDetector: config.DetectorSection{Detector: "pigo.EyesDetector"},
	}

	_, err := NewGooglifier(NewRegistry(), cfg, 0, zap.NewNop())
	require.ErrorIs(t, err, detector.ErrUnknownDetector)

	var cfgErr *detector.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	require.Equal(t, "dlib.FaceDetector", cfgErr.Identifier)
}

func TestNew(t *testing.T) {
	c := New(storage.NewMemoryUserRepository(), nil)
	require.NotNil(t, c.UserService)
	require.NotNil(t, c.PhotoService)
}

func pigoDetectors() *config.Detectors {
	const testdata = "../infrastructure/vision/testdata/"
	return &config.Detectors{
		FaceDetector: config.DetectorSection{
			Detector: "pigo.FaceDetector",
			Params: map[string]any{
				"cascade_path":         testdata + "facefinder",
				"confidence_threshold": 5.0,
				"enlarge_fraction":     0.15,
				"min_size":             40,
				"max_size":             1200,
			},
		},
		EyesDetector: config.DetectorSection{
			Detector: "pigo.EyesDetector",
			Params:   map[string]any{"puploc_path": testdata + "puploc"},
		},
	}
}

func TestNewGooglifier_PigoPipeline(t *testing.T) {
	input, err := os.ReadFile("../infrastructure/vision/testdata/sample.jpg")
	require.NoError(t, err)

	googlifier, err := NewGooglifier(NewRegistry(), pigoDetectors(), 0, zap.NewNop())
	require.NoError(t, err)
	defer func() { require.NoError(t, googlifier.Close()) }()

	result, err := googlifier.Googlify(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, result.Faces, 1)
	require.Equal(t, image.Rect(0, 0, 320, 400).Intersect(result.Faces[0].Rect()), result.Faces[0].Rect())

	if result.Modified() {
		img, err := png.Decode(bytes.NewReader(result.Image))
		require.NoError(t, err)
		require.Equal(t, image.Rect(0, 0, 320, 400), img.Bounds())
	}

	ok, _ := googlifier.Process(context.Background(), input)
	require.True(t, ok)
}

func TestNewGooglifier_ImagePixelLimit(t *testing.T) {
	input, err := os.ReadFile("../infrastructure/vision/testdata/sample.jpg")
	require.NoError(t, err)

	googlifier, err := NewGooglifier(NewRegistry(), pigoDetectors(), 320*400-1, zap.NewNop())
	require.NoError(t, err)

	ok, out := googlifier.Process(context.Background(), input)
	require.False(t, ok)
	require.Equal(t, input, out)
}
