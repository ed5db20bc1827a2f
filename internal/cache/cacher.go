package cache

import (
	"sync"
	"time"

	"github.com/sumup/rack-rpc/pkg"
)

type Cacher interface {
	pkg.Service
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	SetEx(key string, value []byte, expiration time.Duration) error
	Has(key string) (bool, error)
	Del(key string) error
}

// MemoryCacher is a process-local Cacher for cache-less deployments and
// tests.
type MemoryCacher struct {
	mu   sync.RWMutex
	vals map[string]memoryEntry
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

func NewMemoryCacher() *MemoryCacher {
	return &MemoryCacher{
		vals: make(map[string]memoryEntry),
	}
}

func (m *MemoryCacher) Start() error {
	return nil
}

func (m *MemoryCacher) Stop() error {
	return nil
}

func (m *MemoryCacher) Get(key string) ([]byte, error) {
	m.mu.RLock()
	entry, ok := m.vals[key]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		m.mu.Lock()
		delete(m.vals, key)
		m.mu.Unlock()
		return nil, nil
	}
	return entry.value, nil
}

func (m *MemoryCacher) Set(key string, value []byte) error {
	return m.SetEx(key, value, 0)
}

func (m *MemoryCacher) SetEx(key string, value []byte, expiration time.Duration) error {
	entry := memoryEntry{value: value}
	if expiration > 0 {
		entry.expiresAt = time.Now().Add(expiration)
	}
	m.mu.Lock()
	m.vals[key] = entry
	m.mu.Unlock()
	return nil
}

func (m *MemoryCacher) Has(key string) (bool, error) {
	val, err := m.Get(key)
	if err != nil {
		return false, err
	}
	return val != nil, nil
}

func (m *MemoryCacher) Del(key string) error {
	m.mu.Lock()
	delete(m.vals, key)
	m.mu.Unlock()
	return nil
}
