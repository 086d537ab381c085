package sheetstore

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Memory keeps sheets in process. Used by tests and the standalone demo
// storage mode.
type Memory struct {
	mu     sync.Mutex
	sheets map[string][][]string
}

func NewMemory() *Memory {
	return &Memory{sheets: make(map[string][][]string)}
}

func (m *Memory) Create(_ context.Context, name string, header []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sheets[name]; ok {
		return nil
	}
	m.sheets[name] = [][]string{append([]string(nil), header...)}
	return nil
}

func (m *Memory) Append(_ context.Context, name string, row []string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, ok := m.sheets[name]
	if !ok {
		return 0, ErrSheetNotFound
	}
	m.sheets[name] = append(rows, append([]string(nil), row...))
	return len(rows) + 1, nil
}

func (m *Memory) Read(_ context.Context, name string) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, ok := m.sheets[name]
	if !ok {
		return nil, ErrSheetNotFound
	}
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string(nil), r...)
	}
	return out, nil
}

func (m *Memory) LastRow(_ context.Context, name string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, ok := m.sheets[name]
	if !ok {
		return 0, ErrSheetNotFound
	}
	return len(rows), nil
}

func (m *Memory) List(_ context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var names []string
	for name := range m.sheets {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}
