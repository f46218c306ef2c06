package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// JSONFile keeps highlights as a 4-space indented JSON array. Concurrent
// writers are not coordinated; the last write wins.
type JSONFile struct {
	path string
}

// NewJSONFile returns a store backed by path. With an empty path Save does
// nothing and Load finds nothing.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

func (f *JSONFile) Path() string {
	return f.path
}

func (f *JSONFile) Load() ([]Highlight, error) {
	if f.path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.path, err)
	}

	var highlights []Highlight
	if err := json.Unmarshal(data, &highlights); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, f.path, err)
	}
	return highlights, nil
}

func (f *JSONFile) Save(highlights []Highlight) error {
	if f.path == "" {
		return nil
	}
	if highlights == nil {
		highlights = []Highlight{}
	}

	data, err := json.MarshalIndent(highlights, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode highlights: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", f.path, err)
	}
	return nil
}

func (f *JSONFile) Close() error {
	return nil
}
