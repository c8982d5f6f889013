package port

import "image"

// ImageCodec переводит байты изображения в пиксельный буфер и обратно
type ImageCodec interface {
	// Decode декодирует байты; для повреждённого входа возвращает ошибку, а не паникует
	Decode(data []byte) (*image.NRGBA, error)

	// Encode кодирует изображение в байты
	Encode(img image.Image) ([]byte, error)
}
