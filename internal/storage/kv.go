package storage

import (
	"context"
	"sync"
)

// Well-known client keys. They mirror what a browser profile keeps locally.
const (
	KeyApplications      = "job_applications"
	KeyIdentity          = "mock_user"
	KeyLastApplicationAt = "last_application_time"
)

// KV is the per-client key/value namespace the portal persists into.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// MemoryKV keeps everything in process. Used for local development and tests.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

type scopedKV struct {
	inner  KV
	prefix string
}

// Scoped returns a view of kv where every key lives under the given client id.
func Scoped(kv KV, clientID string) KV {
	return &scopedKV{inner: kv, prefix: "client:" + clientID + ":"}
}

func (s *scopedKV) Get(ctx context.Context, key string) (string, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *scopedKV) Set(ctx context.Context, key, value string) error {
	return s.inner.Set(ctx, s.prefix+key, value)
}

func (s *scopedKV) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}
