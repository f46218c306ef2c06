// Package store persists highlights in the project directory.
package store

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"

	"hilite/internal/config"
)

// Dir is the project relative directory holding the highlight files.
const Dir = ".vscode"

var (
	// ErrMalformed is returned by Load when the persisted data cannot be
	// decoded.
	ErrMalformed = errors.New("malformed highlights file")
	ErrInvalid   = errors.New("invalid highlight")
)

type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Highlight is the on-disk form of a highlighted range.
type Highlight struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
	Color string   `json:"color"`
}

// Validate checks that the positions fit an LSP position and are ordered.
func (h Highlight) Validate() error {
	for _, v := range []int{h.Start.Line, h.Start.Character, h.End.Line, h.End.Character} {
		if v < 0 {
			return fmt.Errorf("%w: negative position", ErrInvalid)
		}
		if int64(v) > math.MaxUint32 {
			return fmt.Errorf("%w: position out of range", ErrInvalid)
		}
	}
	if h.Start.Line > h.End.Line || (h.Start.Line == h.End.Line && h.Start.Character > h.End.Character) {
		return fmt.Errorf("%w: start after end", ErrInvalid)
	}
	return nil
}

type Store interface {
	// Load returns the persisted highlights in order. A missing file yields
	// no highlights and no error.
	Load() ([]Highlight, error)
	// Save overwrites the persisted highlights.
	Save(highlights []Highlight) error
	// Path returns where highlights are stored, or "" when nothing is.
	Path() string
	Close() error
}

// Open returns the store of the given kind for the project at root. An empty
// root yields a store that keeps nothing.
func Open(root, kind string) (Store, error) {
	if root == "" {
		return NewJSONFile(""), nil
	}

	switch kind {
	case config.StorageJSON, "":
		return NewJSONFile(filepath.Join(root, Dir, "highlights.json")), nil
	case config.StorageSQLite:
		return NewSQLite(filepath.Join(root, Dir, "highlights.db"))
	default:
		return nil, fmt.Errorf("unknown storage %q", kind)
	}
}
