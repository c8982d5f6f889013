package detector

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingKey в конфигурации детектора нет обязательного параметра
	ErrMissingKey = errors.New("required key is missing")
	// ErrUnknownDetector идентификатор не соответствует зарегистрированному детектору
	ErrUnknownDetector = errors.New("not a registered detector")
	// ErrInvalidValue значение параметра имеет неверный тип или формат
	ErrInvalidValue = errors.New("invalid value")
)

// ConfigurationError ошибка конфигурации, обнаруженная при запуске.
// Процесс с такой ошибкой не должен стартовать.
type ConfigurationError struct {
	Identifier string // идентификатор детектора, например "opencv.FaceDetector"
	Key        string // параметр конфигурации
	Path       string // путь к файлу модели
	Err        error
}

func (e *ConfigurationError) Error() string {
	parts := make([]string, 0, 3)
	if e.Identifier != "" {
		parts = append(parts, fmt.Sprintf("detector %q", e.Identifier))
	}
	if e.Key != "" {
		parts = append(parts, fmt.Sprintf("key %q", e.Key))
	}
	if e.Path != "" {
		parts = append(parts, fmt.Sprintf("path %q", e.Path))
	}

	msg := "configuration error"
	if len(parts) > 0 {
		msg += " (" + strings.Join(parts, ", ") + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg + ". Check your config file."
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// ModelLoadError файл модели найден, но среда выполнения не смогла его разобрать.
type ModelLoadError struct {
	Identifier string
	Path       string
	Err        error
}

func (e *ModelLoadError) Error() string {
	msg := "model load error"
	if e.Identifier != "" {
		msg += fmt.Sprintf(" (detector %q)", e.Identifier)
	}
	if e.Path != "" {
		msg += fmt.Sprintf(" for %q", e.Path)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ModelLoadError) Unwrap() error {
	return e.Err
}

// withIdentifier дописывает идентификатор детектора в ошибки конфигурации и загрузки.
func withIdentifier(identifier string, err error) error {
	var cfgErr *ConfigurationError
	if errors.As(err, &cfgErr) {
		if cfgErr.Identifier == "" {
			cfgErr.Identifier = identifier
		}
		return err
	}

	var loadErr *ModelLoadError
	if errors.As(err, &loadErr) {
		if loadErr.Identifier == "" {
			loadErr.Identifier = identifier
		}
		return err
	}

	return fmt.Errorf("detector %q: %w", identifier, err)
}
