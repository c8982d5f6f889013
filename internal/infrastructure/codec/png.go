// Package codec переводит байты изображения во внутреннее представление и обратно.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"googly-eyes/internal/domain/port"
)

// ErrDecode входные байты не являются изображением известного формата
var ErrDecode = errors.New("corrupt input file")

// DefaultMaxPixels предел площади входного изображения, около 40 мегапикселей
const DefaultMaxPixels = 40_000_000

// PNGCodec принимает PNG, JPEG, GIF, WebP, BMP и TIFF, а результат всегда кодирует в PNG.
type PNGCodec struct {
	encoder   png.Encoder
	maxPixels int
}

// NewPNGCodec создаёт кодек с уровнем сжатия PNG по умолчанию.
// Изображения больше maxPixels пикселей отклоняются до декодирования; maxPixels <= 0 означает DefaultMaxPixels.
func NewPNGCodec(maxPixels int) *PNGCodec {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	return &PNGCodec{
		encoder:   png.Encoder{CompressionLevel: png.DefaultCompression},
		maxPixels: maxPixels,
	}
}

// Decode возвращает непрозрачное NRGBA-изображение с началом координат в (0, 0).
func (c *PNGCodec) Decode(data []byte) (*image.NRGBA, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrDecode)
	}

	// Заголовок читается до декодирования: маленький сжатый файл может описывать гигапиксели
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: empty image", ErrDecode)
	}
	if cfg.Width > c.maxPixels/cfg.Height {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrDecode, cfg.Width, cfg.Height, c.maxPixels)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	b := src.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: empty image", ErrDecode)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)

	// Альфа-канал не используется
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst, nil
}

// Encode кодирует изображение в PNG
func (c *PNGCodec) Encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.encoder.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

var _ port.ImageCodec = (*PNGCodec)(nil)
