package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"googly-eyes/internal/detector"
)

// DetectorSection выбор варианта детектора и его параметры
type DetectorSection struct {
	Detector string         `yaml:"detector" validate:"required"`
	Params   map[string]any `yaml:"params"`
}

// Config параметры детектора в виде, понятном реестру
func (s DetectorSection) Config() detector.Config {
	return detector.Config(s.Params)
}

// Detectors конфигурация пары детекторов конвейера
type Detectors struct {
	FaceDetector DetectorSection `yaml:"face_detector"`
	EyesDetector DetectorSection `yaml:"eyes_detector"`
}

// LoadDetectors читает YAML-файл с конфигурацией детекторов.
func LoadDetectors(path string) (*Detectors, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &detector.ConfigurationError{Path: path, Err: err}
	}

	var cfg Detectors
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &detector.ConfigurationError{Path: path, Err: fmt.Errorf("parse yaml: %w", err)}
	}

	if err := yamlValidate.Struct(&cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, &detector.ConfigurationError{Key: fieldKey(verrs[0]), Path: path, Err: detector.ErrMissingKey}
		}
		return nil, &detector.ConfigurationError{Path: path, Err: err}
	}

	return &cfg, nil
}

var yamlValidate = newYAMLValidator()

// newYAMLValidator называет поля в ошибках так же, как в YAML
func newYAMLValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// fieldKey убирает имя корневой структуры: "face_detector.detector"
func fieldKey(fe validator.FieldError) string {
	_, key, found := strings.Cut(fe.Namespace(), ".")
	if !found {
		return fe.Field()
	}
	return key
}
