// Package vision содержит адаптеры моделей детекции: OpenCV (тег сборки gocv) и pigo.
package vision

import "googly-eyes/internal/detector"

// Идентификаторы вариантов детекторов в конфигурации
const (
	OpenCVFaceID = "opencv.FaceDetector"
	OpenCVEyesID = "opencv.EyesDetector"
	PigoFaceID   = "pigo.FaceDetector"
	PigoEyesID   = "pigo.EyesDetector"
)

// Register добавляет в реестр все варианты детекторов пакета.
func Register(r *detector.Registry) {
	r.Register(OpenCVFaceID, newOpenCVFaceDetector)
	r.Register(OpenCVEyesID, newOpenCVEyesDetector)
	r.Register(PigoFaceID, newPigoFaceDetector)
	r.Register(PigoEyesID, newPigoEyesDetector)
}
