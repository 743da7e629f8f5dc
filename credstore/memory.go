package credstore

import (
	"sync"

	"github.com/String-Atharv/Event-Hub-sub001/internal/errors"
)

// MemoryStore is a thread-safe in-memory implementation of Store
type MemoryStore struct {
	mu     sync.RWMutex
	scopes map[string]map[string]string // scope -> key -> value
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a new in-memory credential store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		scopes: make(map[string]map[string]string),
	}
}

func (m *MemoryStore) Get(scope, key string) (string, bool, error) {
	if err := checkScopeKey(scope, key); err != nil {
		return "", false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.scopes[scope][key]
	return value, ok, nil
}

func (m *MemoryStore) Set(scope, key, value string) error {
	if err := checkScopeKey(scope, key); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.scopes[scope]; !ok {
		m.scopes[scope] = make(map[string]string)
	}
	m.scopes[scope][key] = value
	return nil
}

func (m *MemoryStore) Update(scope string, set map[string]string, remove ...string) error {
	if err := checkKeys(scope, set, remove); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	values, ok := m.scopes[scope]
	if !ok {
		values = make(map[string]string)
		m.scopes[scope] = values
	}
	for key, value := range set {
		values[key] = value
	}
	for _, key := range remove {
		delete(values, key)
	}

	if len(values) == 0 {
		delete(m.scopes, scope)
	}
	return nil
}

func (m *MemoryStore) Delete(scope string, keys ...string) error {
	for _, key := range keys {
		if err := checkScopeKey(scope, key); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	values, ok := m.scopes[scope]
	if !ok {
		return nil
	}
	for _, key := range keys {
		delete(values, key)
	}

	// Clean up empty scope map
	if len(values) == 0 {
		delete(m.scopes, scope)
	}
	return nil
}

func (m *MemoryStore) Clear(scope string) error {
	if scope == "" {
		return errors.Wrapf(errors.ErrInvalidArgument, "scope cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.scopes, scope)
	return nil
}

// checkKeys validates every key of an Update before anything is written.
func checkKeys(scope string, set map[string]string, remove []string) error {
	if scope == "" {
		return errors.Wrapf(errors.ErrInvalidArgument, "scope cannot be empty")
	}
	for key := range set {
		if err := checkScopeKey(scope, key); err != nil {
			return err
		}
	}
	for _, key := range remove {
		if err := checkScopeKey(scope, key); err != nil {
			return err
		}
	}
	return nil
}

func checkScopeKey(scope, key string) error {
	if scope == "" {
		return errors.Wrapf(errors.ErrInvalidArgument, "scope cannot be empty")
	}
	if key == "" {
		return errors.Wrapf(errors.ErrInvalidArgument, "key cannot be empty")
	}
	return nil
}
