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

// LandmarkNet регрессор ключевых точек лица в формате ONNX.
// Сеть получает вырезанное лицо и возвращает 2*N нормированных координат.
type LandmarkNet struct {
	cfg landmarkNetConfig

	mu  sync.Mutex
	net gocv.Net
}

func newLandmarkNet(cfg landmarkNetConfig) *LandmarkNet {
	return &LandmarkNet{cfg: cfg}
}

// Load читает веса сети.
func (n *LandmarkNet) Load() error {
	if err := checkArtifact("model_path", n.cfg.modelPath); err != nil {
		return err
	}

	net := gocv.ReadNet(n.cfg.modelPath, "")
	if net.Empty() {
		net.Close()
		return &detector.ModelLoadError{Path: n.cfg.modelPath, Err: errors.New("empty landmark network")}
	}
	n.net = net
	return nil
}

// Fit прогоняет сеть по каждому лицу отдельно.
func (n *LandmarkNet) Fit(img image.Image, faces []entity.BoundingBox) ([][]entity.Landmark, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("image to mat: %w", err)
	}
	defer mat.Close()

	bounds := image.Rect(0, 0, mat.Cols(), mat.Rows())
	mean := gocv.NewScalar(n.cfg.means[0], n.cfg.means[1], n.cfg.means[2], 0)

	result := make([][]entity.Landmark, len(faces))
	for i, face := range faces {
		rect := face.Rect().Intersect(bounds)
		if rect.Empty() {
			continue
		}

		points, err := n.fitOne(mat, rect, mean)
		if err != nil {
			return nil, err
		}
		result[i] = points
	}

	return result, nil
}

func (n *LandmarkNet) fitOne(mat gocv.Mat, rect image.Rectangle, mean gocv.Scalar) ([]entity.Landmark, error) {
	crop := mat.Region(rect)
	defer crop.Close()

	blob := gocv.BlobFromImage(crop, n.cfg.scaleFactor, n.cfg.inputSize, mean, n.cfg.swapRB, false)
	defer blob.Close()

	values, err := n.forward(blob)
	if err != nil {
		return nil, err
	}
	if len(values) < 2*n.cfg.landmarks {
		return nil, nil
	}

	w, h := float64(rect.Dx()), float64(rect.Dy())
	points := make([]entity.Landmark, n.cfg.landmarks)
	for j := range points {
		points[j] = entity.Landmark{
			X: float64(rect.Min.X) + float64(values[2*j])*w,
			Y: float64(rect.Min.Y) + float64(values[2*j+1])*h,
		}
	}
	return points, nil
}

// forward копирует выход сети, пока держит мьютекс:
// DataPtrFloat32 смотрит в выходной блоб, который перезапишет следующий Forward.
func (n *LandmarkNet) forward(blob gocv.Mat) ([]float32, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.net.SetInput(blob, "")
	out := n.net.Forward("")
	defer out.Close()

	values, err := out.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("read landmarks: %w", err)
	}
	return append([]float32(nil), values...), nil
}

// Close освобождает сеть
func (n *LandmarkNet) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.net.Close()
}

var _ port.LandmarkModel = (*LandmarkNet)(nil)
