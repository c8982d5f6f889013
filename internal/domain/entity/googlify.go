package entity

// PipelineState состояние обработки одного изображения
type PipelineState string

const (
	StateReceivedBytes PipelineState = "received_bytes" // Получены байты изображения
	StateDecoded       PipelineState = "decoded"        // Изображение декодировано
	StateFacesDetected PipelineState = "faces_detected" // Найдены лица
	StateEyesDetected  PipelineState = "eyes_detected"  // Найдены глаза
	StateRendered      PipelineState = "rendered"       // Глаза нарисованы
	StateEncodedResult PipelineState = "encoded_result" // Результат закодирован

	StateDecodeFailed PipelineState = "decode_failed"  // Не удалось декодировать вход
	StateNoFacesFound PipelineState = "no_faces_found" // Лица не найдены
	StateNoEyesFound  PipelineState = "no_eyes_found"  // Глаза не найдены
)

// GooglifyResult итог обработки изображения.
type GooglifyResult struct {
	State PipelineState // конечное состояние обработки
	Image []byte        // итоговое изображение (или исходные байты)
	Faces []BoundingBox // лица после обрезки по границам изображения
	Eyes  []BoundingBox // найденные глаза
}

// Success ложно только для входа, который не удалось декодировать.
func (r *GooglifyResult) Success() bool {
	return r.State != StateDecodeFailed
}

// Modified сообщает, что на изображение были нарисованы глаза.
func (r *GooglifyResult) Modified() bool {
	return r.State == StateEncodedResult
}
