package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/starford/fieldkit/internal/apperr"
	"github.com/starford/fieldkit/internal/models"
)

// Memory keeps definitions in process memory in insertion order. Writes are
// serialized so concurrent sessions cannot interleave a create or update.
type Memory struct {
	opts options

	mu      sync.RWMutex
	order   []string
	records map[string]models.Component
}

// NewMemory creates an empty in-memory repository.
func NewMemory(opts ...Option) *Memory {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Memory{opts: o, records: make(map[string]models.Component)}
}

func (m *Memory) List(_ context.Context) ([]models.Component, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Component, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, cloneComponent(m.records[id]))
	}
	return out, nil
}

func (m *Memory) FindByName(ctx context.Context, query string) ([]models.Component, error) {
	all, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	return filter(all, m.opts.matcher, query), nil
}

func (m *Memory) Get(_ context.Context, id string) (models.Component, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.records[id]
	if !ok {
		return models.Component{}, fmt.Errorf("component %s: %w", id, apperr.ErrNotFound)
	}
	return cloneComponent(c), nil
}

func (m *Memory) Create(_ context.Context, f models.Fields) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := newComponent(m.opts, f)
	if _, exists := m.records[c.ID]; exists {
		return "", fmt.Errorf("component %s: %w", c.ID, apperr.ErrAlreadyExists)
	}
	m.records[c.ID] = c
	m.order = append(m.order, c.ID)
	return c.ID, nil
}

func (m *Memory) Update(_ context.Context, id string, p models.Patch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.records[id]
	if !ok {
		return fmt.Errorf("component %s: %w", id, apperr.ErrNotFound)
	}
	m.records[id] = p.Apply(c)
	return nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return fmt.Errorf("component %s: %w", id, apperr.ErrNotFound)
	}
	delete(m.records, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Memory) Restore(_ context.Context, records ...models.Component) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range records {
		if err := validateRestore(c); err != nil {
			return err
		}
		c = cloneComponent(c)
		c.Tags = models.NormalizeTags(c.Tags)
		if _, exists := m.records[c.ID]; !exists {
			m.order = append(m.order, c.ID)
		}
		m.records[c.ID] = c
	}
	return nil
}

var _ Repository = (*Memory)(nil)
