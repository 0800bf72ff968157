package storage

import (
	"context"
	"sort"
	"sync"
)

// Object is a stored blob.
type Object struct {
	Data        []byte
	ContentType string
}

// Memory is an in-process object store for local development and tests.
type Memory struct {
	BaseURL string

	mu      sync.Mutex
	objects map[string]Object
	// FailPut and FailDelete, when set, are returned by the matching call.
	FailPut    error
	FailDelete error
}

func NewMemory(baseURL string) *Memory {
	return &Memory{BaseURL: baseURL, objects: map[string]Object{}}
}

func (m *Memory) Put(ctx context.Context, name string, data []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailPut != nil {
		return m.FailPut
	}
	if m.objects == nil {
		m.objects = map[string]Object{}
	}
	m.objects[name] = Object{Data: append([]byte(nil), data...), ContentType: contentType}
	return nil
}

func (m *Memory) Delete(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailDelete != nil {
		return m.FailDelete
	}
	delete(m.objects, name)
	return nil
}

func (m *Memory) PublicURL(name string) string {
	return m.BaseURL + "/" + escapePath(name)
}

// Get returns the stored object, if any.
func (m *Memory) Get(name string) (Object, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.objects[name]
	return o, ok
}

// Names lists stored object names in order.
func (m *Memory) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.objects))
	for k := range m.objects {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
