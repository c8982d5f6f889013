package entity

import "image"

// BoundingBox прямоугольная область на изображении (лицо или глаз)
type BoundingBox struct {
	X      int // координата X левого верхнего угла
	Y      int // координата Y левого верхнего угла
	Width  int // ширина области в пикселях
	Height int // высота области в пикселях
}

// Center возвращает координаты центра области (с целочисленным делением)
func (b BoundingBox) Center() (x, y int) {
	return b.X + b.Width/2, b.Y + b.Height/2
}

// Empty сообщает, что у области нулевая или отрицательная площадь
func (b BoundingBox) Empty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Rect переводит область в image.Rectangle
func (b BoundingBox) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height)
}

// RawBox координаты детекции в формате (xmin, ymin, xmax, ymax) до обрезки и расширения.
// Значения могут быть отрицательными или выходить за границы изображения.
type RawBox struct {
	XMin float64
	YMin float64
	XMax float64
	YMax float64
}

// Width ширина области
func (r RawBox) Width() float64 {
	return r.XMax - r.XMin
}

// Height высота области
func (r RawBox) Height() float64 {
	return r.YMax - r.YMin
}

// BoundingBox переводит координаты в формат (x, y, width, height), отбрасывая дробную часть.
func (r RawBox) BoundingBox() BoundingBox {
	return BoundingBox{
		X:      int(r.XMin),
		Y:      int(r.YMin),
		Width:  int(r.XMax - r.XMin),
		Height: int(r.YMax - r.YMin),
	}
}

// ScoredBox предложение модели: уверенность и нормированные координаты области
type ScoredBox struct {
	Confidence float64
	Box        RawBox
}

// Landmark точка лица, найденная моделью ключевых точек
type Landmark struct {
	X float64
	Y float64
}
