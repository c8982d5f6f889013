package app

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"googly-eyes/internal/domain/entity"
	"googly-eyes/internal/infrastructure/codec"
	"googly-eyes/internal/logging"
)

type pipeline struct {
	faces    *fakeDetector
	eyes     *fakeDetector
	renderer *fakeRenderer
	logs     *observer.ObservedLogs
	g        *Googlifier
}

func newPipeline(faces, eyes []entity.BoundingBox) *pipeline {
	core, logs := observer.New(zapcore.DebugLevel)
	p := &pipeline{
		faces:    &fakeDetector{boxes: faces},
		eyes:     &fakeDetector{boxes: eyes},
		renderer: &fakeRenderer{},
		logs:     logs,
	}
	p.g = NewGooglifier(p.faces, p.eyes, codec.NewPNGCodec(0), p.renderer, zap.New(core))
	return p
}

func TestGooglifier_CorruptInput(t *testing.T) {
	p := newPipeline(nil, nil)
	input := []byte("not an image")

	ok, out := p.g.Process(context.Background(), input)
	require.False(t, ok)
	require.Equal(t, input, out)

	result, err := p.g.Googlify(context.Background(), input)
	require.NoError(t, err)
	require.Equal(t, entity.StateDecodeFailed, result.State)
	require.Zero(t, p.faces.calls)
}

func TestGooglifier_NoFacesReturnsOriginalBytes(t *testing.T) {
	p := newPipeline(nil, nil)
	input := pngFixture(t, 64, 48)

	ok, out := p.g.Process(context.Background(), input)
	require.True(t, ok)
	require.Equal(t, input, out)
	require.Nil(t, p.faces.roi, "faces are searched in the whole image")
	require.Zero(t, p.eyes.calls)
	require.Equal(t, 1, p.logs.FilterMessage("No faces detected in the image.").Len())
}

func TestGooglifier_FacesOutsideImageAreDropped(t *testing.T) {
	p := newPipeline([]entity.BoundingBox{{X: 200, Y: 10, Width: 20, Height: 20}}, nil)

	result, err := p.g.Googlify(context.Background(), pngFixture(t, 100, 80))
	require.NoError(t, err)
	require.Equal(t, entity.StateNoFacesFound, result.State)
	require.Empty(t, result.Faces)
}

func TestGooglifier_EyesSearchedInClippedFaces(t *testing.T) {
	p := newPipeline([]entity.BoundingBox{
		{X: -10, Y: -10, Width: 50, Height: 50},
		{X: 70, Y: 60, Width: 50, Height: 50},
	}, nil)
	input := pngFixture(t, 100, 80)

	result, err := p.g.Googlify(context.Background(), input)
	require.NoError(t, err)
	require.Equal(t, entity.StateNoEyesFound, result.State)
	require.Equal(t, input, result.Image)
	require.Equal(t, []entity.BoundingBox{
		{X: 0, Y: 0, Width: 40, Height: 40},
		{X: 70, Y: 60, Width: 30, Height: 20},
	}, p.eyes.roi)
	require.Nil(t, p.renderer.eyes)
	require.Equal(t, 1, p.logs.FilterMessage("No eyes detected in any detected face.").Len())
}

func TestGooglifier_DrawsEyes(t *testing.T) {
	eyes := []entity.BoundingBox{{X: 10, Y: 12, Width: 6, Height: 4}, {X: 30, Y: 12, Width: 6, Height: 4}}
	p := newPipeline([]entity.BoundingBox{{X: 0, Y: 0, Width: 50, Height: 40}}, eyes)
	input := pngFixture(t, 64, 48)

	ok, out := p.g.Process(context.Background(), input)
	require.True(t, ok)
	require.NotEqual(t, input, out)
	require.Equal(t, eyes, p.renderer.eyes)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 64, 48), img.Bounds())
	r, _, _, _ := img.At(10, 12).RGBA()
	require.Equal(t, uint32(0xffff), r)

	result, err := p.g.Googlify(context.Background(), input)
	require.NoError(t, err)
	require.Equal(t, entity.StateEncodedResult, result.State)
	require.True(t, result.Modified())
	require.Equal(t, eyes, result.Eyes)
}

func TestGooglifier_DetectorFailure(t *testing.T) {
	boom := errors.New("forward failed")
	p := newPipeline(nil, nil)
	p.faces.err = boom
	input := pngFixture(t, 16, 16)
	ctx := logging.ContextWithRequestID(context.Background(), "req-7")

	_, err := p.g.Googlify(ctx, input)
	require.ErrorIs(t, err, boom)
	var opErr *logging.OperationError
	require.ErrorAs(t, err, &opErr)
	require.Equal(t, "detect faces", opErr.Operation)
	require.Equal(t, "req-7", opErr.RequestID)

	ok, out := p.g.Process(ctx, input)
	require.False(t, ok)
	require.Equal(t, input, out)
}

func TestGooglifier_EyeDetectorFailure(t *testing.T) {
	boom := errors.New("fit failed")
	p := newPipeline([]entity.BoundingBox{{X: 0, Y: 0, Width: 8, Height: 8}}, nil)
	p.eyes.err = boom

	_, err := p.g.Googlify(context.Background(), pngFixture(t, 16, 16))
	require.ErrorIs(t, err, boom)
}

type closingDetector struct {
	fakeDetector
	closed int
	err    error
}

func (d *closingDetector) Close() error {
	d.closed++
	return d.err
}

func TestGooglifier_CloseReleasesDetectors(t *testing.T) {
	boom := errors.New("release failed")
	faces := &closingDetector{}
	eyes := &closingDetector{err: boom}
	g := NewGooglifier(faces, eyes, codec.NewPNGCodec(0), &fakeRenderer{}, nil)

	err := g.Close()
	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, faces.closed)
	require.Equal(t, 1, eyes.closed)

	// Детекторы без Close пропускаются
	require.NoError(t, newPipeline(nil, nil).g.Close())
}

func TestGooglifier_RejectsOversizedImage(t *testing.T) {
	faces := &fakeDetector{boxes: []entity.BoundingBox{{X: 0, Y: 0, Width: 10, Height: 10}}}
	g := NewGooglifier(faces, &fakeDetector{}, codec.NewPNGCodec(100), &fakeRenderer{}, nil)
	input := pngFixture(t, 64, 48)

	ok, out := g.Process(context.Background(), input)
	require.False(t, ok)
	require.Equal(t, input, out)
	require.Zero(t, faces.calls)
}
