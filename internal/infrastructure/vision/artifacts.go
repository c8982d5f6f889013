package vision

import (
	"fmt"
	"os"

	"googly-eyes/internal/detector"
)

// readArtifact читает файл модели. Отсутствующий или нечитаемый файл
// считается ошибкой конфигурации, а не загрузки.
func readArtifact(key, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &detector.ConfigurationError{Key: key, Path: path, Err: err}
	}
	return data, nil
}

// checkArtifact проверяет, что файл модели существует и это не каталог.
func checkArtifact(key, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return &detector.ConfigurationError{Key: key, Path: path, Err: err}
	}
	if info.IsDir() {
		return &detector.ConfigurationError{Key: key, Path: path, Err: fmt.Errorf("%s is a directory", path)}
	}
	return nil
}
