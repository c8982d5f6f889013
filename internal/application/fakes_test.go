package app

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"googly-eyes/internal/domain/entity"
)

type fakeDetector struct {
	boxes []entity.BoundingBox
	err   error
	calls int
	roi   []entity.BoundingBox
}

func (f *fakeDetector) Load() error { return nil }

func (f *fakeDetector) Detect(ctx context.Context, img image.Image, roi []entity.BoundingBox) ([]entity.BoundingBox, error) {
	f.calls++
	f.roi = roi
	if f.err != nil {
		return nil, f.err
	}
	return f.boxes, nil
}

type fakeRenderer struct {
	eyes []entity.BoundingBox
}

func (f *fakeRenderer) Draw(img *image.NRGBA, eyes []entity.BoundingBox) {
	f.eyes = eyes
	for _, e := range eyes {
		img.SetNRGBA(e.X, e.Y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	}
}

type fakeGooglifier struct {
	result *entity.GooglifyResult
	err    error
}

func (f *fakeGooglifier) Googlify(ctx context.Context, imageData []byte) (*entity.GooglifyResult, error) {
	return f.result, f.err
}

func pngFixture(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0x40
		if i%4 == 3 {
			img.Pix[i] = 0xff
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
