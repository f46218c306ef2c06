package session

import "hilite/internal/registry"

// Command names the client invokes through workspace/executeCommand.
const (
	CommandHighlight = "hilite.highlight"
	CommandErase     = "hilite.erase"
	CommandRecolor   = "hilite.recolor"
	CommandSearch    = "hilite.search"
)

// Commands lists every command the session answers.
var Commands = []string{CommandHighlight, CommandErase, CommandRecolor, CommandSearch}

// Action is a command offered on a hover card.
type Action struct {
	Icon    string
	Title   string
	Command string
	// Selection the command is invoked with.
	Selection Selection
}

// HoverCard is the advisory menu shown over a word.
type HoverCard struct {
	Range   registry.Range
	Actions []Action
}

// Hover offers erase and recolor over highlighted words, and highlighting
// of the word otherwise. ok is false when pos is not on a word.
func (s *Session) Hover(view registry.View, pos registry.Position) (HoverCard, bool) {
	word, ok := s.docs.WordRangeAt(string(view), pos)
	if !ok {
		return HoverCard{}, false
	}

	s.mu.Lock()
	_, highlighted := s.registry.FindContaining(pos)
	s.mu.Unlock()

	if highlighted {
		at := Selection{View: view, Range: registry.Range{Start: pos, End: pos}, Active: pos}
		return HoverCard{
			Range: word,
			Actions: []Action{
				{Icon: "✏️", Title: "Erase Highlight", Command: CommandErase, Selection: at},
				{Icon: "🎨", Title: "Change Highlight Color", Command: CommandRecolor, Selection: at},
			},
		}, true
	}

	return HoverCard{
		Range: word,
		Actions: []Action{
			{
				Icon:      "🌟",
				Title:     "Highlight Code",
				Command:   CommandHighlight,
				Selection: Selection{View: view, Range: word, Active: word.End},
			},
		},
	}, true
}
