// Package geometry содержит чистые функции для работы с областями детекций.
package geometry

import (
	"math"

	"googly-eyes/internal/domain/entity"
)

// Enlarge расширяет область на долю fraction от её ширины и высоты в каждую сторону.
// Границы изображения не проверяются, это делает Clip.
func Enlarge(box entity.RawBox, fraction float64) entity.RawBox {
	width := box.Width()
	height := box.Height()

	return entity.RawBox{
		XMin: box.XMin - fraction*width,
		YMin: box.YMin - fraction*height,
		XMax: box.XMax + fraction*width,
		YMax: box.YMax + fraction*height,
	}
}

// Clip обрезает области по границам изображения imageHeight x imageWidth.
// Области, целиком лежащие за пределами изображения, отбрасываются; порядок остальных сохраняется.
func Clip(boxes []entity.BoundingBox, imageHeight, imageWidth int) []entity.BoundingBox {
	clipped := make([]entity.BoundingBox, 0, len(boxes))
	for _, box := range boxes {
		xEnd := box.X + box.Width
		yEnd := box.Y + box.Height

		if box.X > imageWidth || box.Y > imageHeight || xEnd < 0 || yEnd < 0 {
			continue
		}

		c := box
		// Правый и нижний края остаются на месте.
		if c.X < 0 {
			c.Width += c.X
			c.X = 0
		}
		if c.Y < 0 {
			c.Height += c.Y
			c.Y = 0
		}

		if c.X+c.Width > imageWidth {
			c.Width = imageWidth - c.X
		}
		if c.Y+c.Height > imageHeight {
			c.Height = imageHeight - c.Y
		}

		clipped = append(clipped, c)
	}

	return clipped
}

// BoundingRect возвращает минимальный целочисленный прямоугольник вокруг точек
// (как cv::boundingRect для точек с плавающей запятой).
func BoundingRect(points []entity.Landmark) entity.BoundingBox {
	if len(points) == 0 {
		return entity.BoundingBox{}
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}

	x0, y0 := int(math.Floor(minX)), int(math.Floor(minY))
	x1, y1 := int(math.Floor(maxX)), int(math.Floor(maxY))

	return entity.BoundingBox{X: x0, Y: y0, Width: x1 - x0 + 1, Height: y1 - y0 + 1}
}

// Scale переводит нормированную область в пиксели изображения width x height.
func Scale(box entity.RawBox, width, height int) entity.RawBox {
	w, h := float64(width), float64(height)
	return entity.RawBox{
		XMin: box.XMin * w,
		YMin: box.YMin * h,
		XMax: box.XMax * w,
		YMax: box.YMax * h,
	}
}
