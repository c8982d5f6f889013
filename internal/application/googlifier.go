package app

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	"googly-eyes/internal/domain/entity"
	"googly-eyes/internal/domain/geometry"
	"googly-eyes/internal/domain/port"
	"googly-eyes/internal/logging"
)

// Googlifier конвейер: декодирование, поиск лиц, поиск глаз внутри лиц,
// отрисовка глаз и кодирование в PNG. Состояния между запросами не хранит.
type Googlifier struct {
	faces    port.Detector
	eyes     port.Detector
	codec    port.ImageCodec
	renderer port.OverlayRenderer
	logger   *zap.Logger
}

// NewGooglifier собирает конвейер из готовых детекторов.
func NewGooglifier(faces, eyes port.Detector, codec port.ImageCodec, renderer port.OverlayRenderer, logger *zap.Logger) *Googlifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Googlifier{
		faces:    faces,
		eyes:     eyes,
		codec:    codec,
		renderer: renderer,
		logger:   logger,
	}
}

// Googlify обрабатывает одно изображение.
//
// Нераспознанный вход завершается состоянием StateDecodeFailed, а отсутствие лиц
// или глаз состояниями StateNoFacesFound и StateNoEyesFound. Во всех этих случаях
// в результате лежат исходные байты. Ошибка возвращается только при сбое
// модели или кодировщика.
func (g *Googlifier) Googlify(ctx context.Context, imageData []byte) (*entity.GooglifyResult, error) {
	requestID := logging.RequestIDFromContext(ctx)
	log := logging.WithOperation(g.logger, "googlify", requestID)

	result := &entity.GooglifyResult{State: entity.StateReceivedBytes, Image: imageData}

	img, err := g.codec.Decode(imageData)
	if err != nil {
		log.Info("Error converting image from bytes", zap.Error(err))
		result.State = entity.StateDecodeFailed
		return result, nil
	}
	result.State = entity.StateDecoded

	faces, err := g.faces.Detect(ctx, img, nil)
	if err != nil {
		return nil, logging.NewOperationError("detect faces", requestID, err)
	}

	bounds := img.Bounds()
	faces = geometry.Clip(faces, bounds.Dy(), bounds.Dx())
	result.Faces = faces
	if len(faces) == 0 {
		log.Info("No faces detected in the image.")
		result.State = entity.StateNoFacesFound
		return result, nil
	}
	result.State = entity.StateFacesDetected

	eyes, err := g.eyes.Detect(ctx, img, faces)
	if err != nil {
		return nil, logging.NewOperationError("detect eyes", requestID, err)
	}
	result.Eyes = eyes
	if len(eyes) == 0 {
		log.Info("No eyes detected in any detected face.")
		result.State = entity.StateNoEyesFound
		return result, nil
	}
	result.State = entity.StateEyesDetected

	g.renderer.Draw(img, eyes)
	result.State = entity.StateRendered

	encoded, err := g.codec.Encode(img)
	if err != nil {
		return nil, logging.NewOperationError("encode result", requestID, err)
	}
	result.Image = encoded
	result.State = entity.StateEncodedResult

	log.Debug("googly eyes drawn", zap.Int("faces", len(faces)), zap.Int("eyes", len(eyes)))
	return result, nil
}

// Process возвращает признак успеха и байты для ответа.
// false означает, что вход не удалось декодировать или обработка сломалась;
// тогда возвращаются исходные байты.
func (g *Googlifier) Process(ctx context.Context, imageData []byte) (bool, []byte) {
	result, err := g.Googlify(ctx, imageData)
	if err != nil {
		logging.FromContext(ctx, g.logger, "process").
			Error("googlify failed", zap.Error(err))
		return false, imageData
	}
	return result.Success(), result.Image
}

// Close освобождает модели детекторов. Вызывается один раз при остановке,
// когда запросов уже нет.
func (g *Googlifier) Close() error {
	var errs []error
	for _, d := range []port.Detector{g.faces, g.eyes} {
		if c, ok := d.(io.Closer); ok {
			errs = append(errs, c.Close())
		}
	}
	return errors.Join(errs...)
}

var _ port.Googlifier = (*Googlifier)(nil)
