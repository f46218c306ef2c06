// Package document keeps the text of the documents the client has open.
package document

import (
	"fmt"
	"sync"

	"hilite/internal/registry"
)

// Manager holds the synced text for each open URI.
type Manager struct {
	mu   sync.Mutex
	docs map[string]string
}

// NewManager creates an initialized Manager.
func NewManager() *Manager {
	return &Manager{
		docs: make(map[string]string),
	}
}

// Get returns the current document text for a URI.
func (m *Manager) Get(uri string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.docs[uri]
	if !ok {
		return "", fmt.Errorf("document not loaded for %s", uri)
	}
	return doc, nil
}

// Update replaces the document text for a URI.
func (m *Manager) Update(uri string, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[uri] = content
}

// ApplyIncrementalEdit replaces rng with text in the stored document.
func (m *Manager) ApplyIncrementalEdit(uri string, rng registry.Range, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.docs[uri]
	if !ok {
		return fmt.Errorf("no document for %s", uri)
	}
	m.docs[uri] = applyEdit(doc, rng, text)
	return nil
}

// Text returns the text under rng in the document at uri.
func (m *Manager) Text(uri string, rng registry.Range) (string, error) {
	doc, err := m.Get(uri)
	if err != nil {
		return "", err
	}
	return TextInRange(doc, rng), nil
}

// WordRangeAt returns the range of the word at pos in the document at uri.
func (m *Manager) WordRangeAt(uri string, pos registry.Position) (registry.Range, bool) {
	doc, err := m.Get(uri)
	if err != nil {
		return registry.Range{}, false
	}
	return WordRangeAt(doc, pos)
}

// Release forgets the document at uri.
func (m *Manager) Release(uri string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, uri)
}

// CloseAll forgets every document.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = make(map[string]string)
}
