package session

import (
	"context"

	"hilite/internal/registry"
)

// Choice is one entry of a choice list shown to the user.
type Choice struct {
	Label       string
	Description string
	Detail      string
}

// Host is the editor UI the session talks to.
type Host interface {
	ShowInfo(message string)
	ShowWarning(message string)
	// Pick shows choices and returns the index of the chosen one. ok is
	// false when the user dismissed the list.
	Pick(ctx context.Context, placeholder string, choices []Choice) (index int, ok bool)
	// Reveal selects rng in view and scrolls it into sight.
	Reveal(view registry.View, rng registry.Range)
}

// Documents gives access to the live text of open views.
type Documents interface {
	Text(uri string, rng registry.Range) (string, error)
	WordRangeAt(uri string, pos registry.Position) (registry.Range, bool)
}

// Selection is the editor state a command acts on.
type Selection struct {
	View registry.View
	// Range is the selected span; empty when nothing is selected.
	Range registry.Range
	// Active is the cursor position.
	Active registry.Position
}
