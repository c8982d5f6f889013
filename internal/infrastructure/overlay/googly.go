// Package overlay рисует googly eyes поверх изображения.
package overlay

import (
	"image"
	"image/color"
	"math"
	"math/rand/v2"

	"googly-eyes/internal/domain/entity"
	"googly-eyes/internal/domain/port"
)

var (
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	black = color.NRGBA{A: 255}
)

// Rand источник случайных чисел для размера и положения зрачка
type Rand interface {
	Float64() float64
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }
func (globalRand) IntN(n int) int   { return rand.IntN(n) }

// eyeShape параметры одного нарисованного глаза
type eyeShape struct {
	Center      image.Point
	Radius      int
	Pupil       image.Point
	PupilRadius int
}

// GooglyRenderer рисует белый круг с чёрным контуром и зрачок
// случайного размера в случайной точке внутри глаза.
type GooglyRenderer struct {
	rnd Rand
}

// NewGooglyRenderer создаёт рендерер. При rnd == nil используется
// глобальный источник math/rand/v2.
func NewGooglyRenderer(rnd Rand) *GooglyRenderer {
	if rnd == nil {
		rnd = globalRand{}
	}
	return &GooglyRenderer{rnd: rnd}
}

// plan вычисляет геометрию глаза. Для области с неположительным радиусом
// рисовать нечего, случайные числа при этом не расходуются.
func (r *GooglyRenderer) plan(box entity.BoundingBox) (eyeShape, bool) {
	cx, cy := box.Center()
	// Округление половин к чётному
	radius := int(math.RoundToEven(float64(box.Width+box.Height) * 0.75))
	if radius <= 0 {
		return eyeShape{}, false
	}

	pupilSize := int(float64(radius) * (0.45 + 0.55*r.rnd.Float64()))
	half := pupilSize / 2
	dx := r.rnd.IntN(2*half+1) - half
	dy := r.rnd.IntN(2*half+1) - half

	return eyeShape{
		Center:      image.Pt(cx, cy),
		Radius:      radius,
		Pupil:       image.Pt(cx+dx, cy+dy),
		PupilRadius: half,
	}, true
}

// Draw рисует глаза прямо в img. Каждый глаз рисуется полностью до следующего,
// поэтому перекрывающиеся глаза закрашивают друг друга по порядку.
// Без глаз изображение не меняется.
func (r *GooglyRenderer) Draw(img *image.NRGBA, eyes []entity.BoundingBox) {
	for _, box := range eyes {
		eye, ok := r.plan(box)
		if !ok {
			continue
		}
		fillCircle(img, eye.Center, eye.Radius, white)
		strokeCircle(img, eye.Center, eye.Radius, black)
		fillCircle(img, eye.Pupil, eye.PupilRadius, black)
	}
}

// fillCircle закрашивает точки на расстоянии не больше radius от центра
func fillCircle(img *image.NRGBA, c image.Point, radius int, col color.NRGBA) {
	if radius < 0 {
		return
	}
	r2 := radius * radius
	paint(img, c, radius, col, func(d2 int) bool { return d2 <= r2 })
}

// strokeCircle рисует контур толщиной 2 пикселя вокруг окружности radius
func strokeCircle(img *image.NRGBA, c image.Point, radius int, col color.NRGBA) {
	inner := (radius - 1) * (radius - 1)
	if radius < 1 {
		inner = -1
	}
	outer := (radius + 1) * (radius + 1)
	paint(img, c, radius+1, col, func(d2 int) bool { return d2 > inner && d2 <= outer })
}

func paint(img *image.NRGBA, c image.Point, extent int, col color.NRGBA, inside func(d2 int) bool) {
	area := image.Rect(c.X-extent, c.Y-extent, c.X+extent+1, c.Y+extent+1).Intersect(img.Bounds())
	for y := area.Min.Y; y < area.Max.Y; y++ {
		dy := y - c.Y
		for x := area.Min.X; x < area.Max.X; x++ {
			dx := x - c.X
			if inside(dx*dx + dy*dy) {
				img.SetNRGBA(x, y, col)
			}
		}
	}
}

var _ port.OverlayRenderer = (*GooglyRenderer)(nil)
