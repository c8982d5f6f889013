package detector

import (
	"fmt"
	"sort"
	"sync"

	"googly-eyes/internal/domain/port"
)

// Factory создаёт детектор из его конфигурации, не загружая модель.
type Factory func(cfg Config) (port.Detector, error)

// Registry сопоставляет текстовые идентификаторы детекторов их фабрикам.
// Заполняется явно при запуске.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry создаёт пустой реестр
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register добавляет фабрику детектора. Повторная регистрация идентификатора паникует.
func (r *Registry) Register(identifier string, factory Factory) {
	if identifier == "" || factory == nil {
		panic("detector: Register called with empty identifier or nil factory")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.factories[identifier]; dup {
		panic(fmt.Sprintf("detector: Register called twice for %q", identifier))
	}
	r.factories[identifier] = factory
}

// New создаёт детектор по идентификатору и загружает его модель.
func (r *Registry) New(identifier string, cfg Config) (port.Detector, error) {
	r.mu.RLock()
	factory, ok := r.factories[identifier]
	r.mu.RUnlock()

	if !ok {
		return nil, &ConfigurationError{Identifier: identifier, Err: ErrUnknownDetector}
	}

	d, err := factory(cfg)
	if err != nil {
		return nil, withIdentifier(identifier, err)
	}

	if err := d.Load(); err != nil {
		return nil, withIdentifier(identifier, err)
	}

	return d, nil
}

// Identifiers возвращает отсортированный список зарегистрированных детекторов
func (r *Registry) Identifiers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
