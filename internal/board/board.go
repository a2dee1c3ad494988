// Package board defines the key-value store the gateway fronts and an
// in-memory implementation of it.
package board

import (
	"sync"
)

// Unsupported is returned by Get for names that are unknown or whose value
// has no textual form.
const Unsupported = "##unsupported##"

// Board is the store the gateway reads and writes. The catalog returned by
// Names is fixed for the life of the process.
type Board interface {
	Names() []string
	Get(name string) string
	Set(name, value string) bool
}

// Entry describes one catalog slot. Entries that are not Textual always read
// as Unsupported and refuse writes.
type Entry struct {
	Name    string
	Textual bool
	Initial string
}

// Memory is a Board held in process memory. It is safe for concurrent use;
// a single lock serializes every access.
type Memory struct {
	id string

	mu      sync.Mutex
	order   []string
	entries map[string]*slot
}

type slot struct {
	textual bool
	value   string
}

// NewMemory creates a board named id holding the given catalog, in order.
// Later duplicates of a name are ignored.
func NewMemory(id string, catalog []Entry) *Memory {
	m := &Memory{
		id:      id,
		order:   make([]string, 0, len(catalog)),
		entries: make(map[string]*slot, len(catalog)),
	}
	for _, e := range catalog {
		if _, dup := m.entries[e.Name]; dup {
			continue
		}
		m.order = append(m.order, e.Name)
		m.entries[e.Name] = &slot{textual: e.Textual, value: e.Initial}
	}
	return m
}

// ID returns the board identifier
func (m *Memory) ID() string {
	return m.id
}

func (m *Memory) Names() []string {
	names := make([]string, len(m.order))
	copy(names, m.order)
	return names
}

func (m *Memory) Get(name string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.entries[name]
	if !ok || !s.textual {
		return Unsupported
	}
	return s.value
}

func (m *Memory) Set(name, value string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.entries[name]
	if !ok || !s.textual {
		return false
	}
	s.value = value
	return true
}
