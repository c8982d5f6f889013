package detector

import (
	"fmt"
	"strconv"
	"strings"
)

// Config именованные параметры одного детектора.
// Набор обязательных ключей зависит от варианта детектора.
type Config map[string]any

// Has сообщает, что параметр задан
func (c Config) Has(key string) bool {
	v, ok := c[key]
	if !ok || v == nil {
		return false
	}
	if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
		return false
	}
	return true
}

func (c Config) value(key string) (any, error) {
	if !c.Has(key) {
		return nil, &ConfigurationError{Key: key, Err: ErrMissingKey}
	}
	return c[key], nil
}

// String возвращает обязательный строковый параметр
func (c Config) String(key string) (string, error) {
	v, err := c.value(key)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", invalid(key, v)
	}
	return s, nil
}

// Float возвращает обязательный числовой параметр
func (c Config) Float(key string) (float64, error) {
	v, err := c.value(key)
	if err != nil {
		return 0, err
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, invalid(key, v)
	}
	return f, nil
}

// FloatOr возвращает числовой параметр или значение по умолчанию
func (c Config) FloatOr(key string, def float64) (float64, error) {
	if !c.Has(key) {
		return def, nil
	}
	return c.Float(key)
}

// Int возвращает обязательный целочисленный параметр
func (c Config) Int(key string) (int, error) {
	f, err := c.Float(key)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, invalid(key, c[key])
	}
	return int(f), nil
}

// IntOr возвращает целочисленный параметр или значение по умолчанию
func (c Config) IntOr(key string, def int) (int, error) {
	if !c.Has(key) {
		return def, nil
	}
	return c.Int(key)
}

// BoolOr возвращает логический параметр или значение по умолчанию
func (c Config) BoolOr(key string, def bool) (bool, error) {
	if !c.Has(key) {
		return def, nil
	}
	switch v := c[key].(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, invalid(key, v)
		}
		return b, nil
	default:
		return false, invalid(key, v)
	}
}

// Floats возвращает кортеж из n чисел. Кроме списков YAML принимается
// строковая запись вида "(104.0, 177.0, 123.0)".
func (c Config) Floats(key string, n int) ([]float64, error) {
	v, err := c.value(key)
	if err != nil {
		return nil, err
	}

	var items []any
	switch t := v.(type) {
	case []any:
		items = t
	case []float64:
		for _, f := range t {
			items = append(items, f)
		}
	case []int:
		for _, i := range t {
			items = append(items, i)
		}
	case string:
		trimmed := strings.Trim(strings.TrimSpace(t), "()[]")
		for _, part := range strings.Split(trimmed, ",") {
			if part = strings.TrimSpace(part); part != "" {
				items = append(items, part)
			}
		}
	default:
		return nil, invalid(key, v)
	}

	if len(items) != n {
		return nil, &ConfigurationError{Key: key, Err: fmt.Errorf("%w: expected %d values, got %d", ErrInvalidValue, n, len(items))}
	}

	out := make([]float64, n)
	for i, item := range items {
		f, ok := toFloat(item)
		if !ok {
			return nil, invalid(key, v)
		}
		out[i] = f
	}
	return out, nil
}

// FloatsOr возвращает кортеж из n чисел или значение по умолчанию
func (c Config) FloatsOr(key string, def []float64) ([]float64, error) {
	if !c.Has(key) {
		return def, nil
	}
	return c.Floats(key, len(def))
}

// Ints возвращает кортеж из n целых чисел, например размер входа модели
func (c Config) Ints(key string, n int) ([]int, error) {
	floats, err := c.Floats(key, n)
	if err != nil {
		return nil, err
	}
	out := make([]int, n)
	for i, f := range floats {
		if f != float64(int(f)) {
			return nil, invalid(key, c[key])
		}
		out[i] = int(f)
	}
	return out, nil
}

// IntsOr возвращает кортеж из целых чисел или значение по умолчанию
func (c Config) IntsOr(key string, def []int) ([]int, error) {
	if !c.Has(key) {
		return def, nil
	}
	return c.Ints(key, len(def))
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	return 0, false
}

func invalid(key string, v any) error {
	return &ConfigurationError{Key: key, Err: fmt.Errorf("%w: %v (%T)", ErrInvalidValue, v, v)}
}
