package registry

import (
	"cmp"
	"math"
)

// Position is a zero based line and character offset in a document.
type Position struct {
	Line      uint32
	Character uint32
}

// Compare orders positions in document order.
func (p Position) Compare(o Position) int {
	if c := cmp.Compare(p.Line, o.Line); c != 0 {
		return c
	}
	return cmp.Compare(p.Character, o.Character)
}

// Range spans from Start to End. Both ends are inclusive for containment and
// intersection tests.
type Range struct {
	Start Position
	End   Position
}

func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// Valid reports whether start does not come after end.
func (r Range) Valid() bool {
	return r.Start.Compare(r.End) <= 0
}

func (r Range) Contains(p Position) bool {
	return r.Start.Compare(p) <= 0 && p.Compare(r.End) <= 0
}

// Intersects reports whether the ranges share at least one position.
// Ranges that only touch at an edge intersect.
func (r Range) Intersects(o Range) bool {
	return r.Start.Compare(o.End) <= 0 && o.Start.Compare(r.End) <= 0
}

// before returns the position immediately preceding p in document order.
func before(p Position) Position {
	switch {
	case p.Character > 0:
		return Position{Line: p.Line, Character: p.Character - 1}
	case p.Line > 0:
		return Position{Line: p.Line - 1, Character: math.MaxUint32}
	default:
		return p
	}
}

// after returns the position immediately following p in document order.
func after(p Position) Position {
	if p.Character < math.MaxUint32 {
		return Position{Line: p.Line, Character: p.Character + 1}
	}
	return Position{Line: p.Line + 1}
}
