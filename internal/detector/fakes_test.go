package detector

import (
	"image"

	"googly-eyes/internal/domain/entity"
)

type fakeScorer struct {
	proposals []entity.ScoredBox
	err       error
	loadErr   error
	loads     int
	seen      image.Image
}

func (f *fakeScorer) Load() error {
	f.loads++
	return f.loadErr
}

func (f *fakeScorer) Score(img image.Image) ([]entity.ScoredBox, error) {
	f.seen = img
	if f.err != nil {
		return nil, f.err
	}
	return f.proposals, nil
}

type fakeLandmarks struct {
	result  [][]entity.Landmark
	err     error
	loadErr error
	faces   []entity.BoundingBox
	calls   int
}

func (f *fakeLandmarks) Load() error {
	return f.loadErr
}

func (f *fakeLandmarks) Fit(img image.Image, faces []entity.BoundingBox) ([][]entity.Landmark, error) {
	f.calls++
	f.faces = faces
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

// face68 строит 68 точек, у которых точки глаз лежат в заданных прямоугольниках.
func face68(left, right image.Rectangle) []entity.Landmark {
	points := make([]entity.Landmark, 68)
	for i := range points {
		points[i] = entity.Landmark{X: 1000, Y: 1000}
	}
	fill := func(from int, r image.Rectangle) {
		corners := []entity.Landmark{
			{X: float64(r.Min.X), Y: float64(r.Min.Y)},
			{X: float64(r.Max.X), Y: float64(r.Min.Y)},
			{X: float64(r.Max.X), Y: float64(r.Max.Y)},
			{X: float64(r.Min.X), Y: float64(r.Max.Y)},
		}
		for i := 0; i < 6; i++ {
			points[from+i] = corners[i%len(corners)]
		}
	}
	fill(36, left)
	fill(42, right)
	return points
}

type closingScorer struct {
	fakeScorer
	closed int
}

func (s *closingScorer) Close() error {
	s.closed++
	return nil
}

type closingLandmarks struct {
	fakeLandmarks
	err error
}

func (l *closingLandmarks) Close() error {
	return l.err
}
