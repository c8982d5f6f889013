//go:build !gocv
// +build !gocv

package vision

import (
	"testing"

	"github.com/stretchr/testify/require"

	"googly-eyes/internal/detector"
)

func TestOpenCVWithoutTag_ModelLoadError(t *testing.T) {
	r := newRegistry()

	_, err := r.New(OpenCVFaceID, detector.Config{
		"model_path_protobuf":  writeFile(t, "deploy.prototxt", []byte("x")),
		"model_path_caffe":     writeFile(t, "res10.caffemodel", []byte("x")),
		"confidence_threshold": 0.4,
		"enlarge_fraction":     0.15,
		"input_size":           "(300, 300)",
		"normalization_means":  "(104.0, 177.0, 123.0)",
		"scale_factor":         1.0,
	})
	var loadErr *detector.ModelLoadError
	require.ErrorAs(t, err, &loadErr)
	require.Equal(t, OpenCVFaceID, loadErr.Identifier)
	require.ErrorIs(t, err, errGoCVDisabled)

	_, err = r.New(OpenCVEyesID, detector.Config{"model_path": writeFile(t, "landmarks.onnx", []byte("x"))})
	require.ErrorAs(t, err, &loadErr)
	require.Equal(t, OpenCVEyesID, loadErr.Identifier)
}
