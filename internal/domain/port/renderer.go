package port

import (
	"image"

	"googly-eyes/internal/domain/entity"
)

// OverlayRenderer рисует глаза поверх изображения.
// Буфер изменяется на месте; при пустом списке глаз он остаётся нетронутым.
type OverlayRenderer interface {
	Draw(img *image.NRGBA, eyes []entity.BoundingBox)
}
