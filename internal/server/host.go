package server

import (
	"context"
	"strings"

	"hilite/internal/registry"
	"hilite/internal/session"

	"github.com/google/uuid"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Server to client notifications carrying visual handles.
const (
	MethodDecorate = "hilite/decorate"
	MethodDispose  = "hilite/dispose"
)

type Decoration struct {
	ID    string         `json:"id"`
	Range protocol.Range `json:"range"`
	Color string         `json:"color"`
}

type DecorateParams struct {
	URI         protocol.DocumentUri `json:"uri"`
	Decorations []Decoration         `json:"decorations"`
}

type DisposeParams struct {
	IDs []string `json:"ids"`
}

// decorator renders registry handles as client decorations.
type decorator struct {
	notify glsp.NotifyFunc
}

func (d *decorator) Render(view registry.View, handle uuid.UUID, rng registry.Range, color string) {
	d.notify(MethodDecorate, DecorateParams{
		URI: protocol.DocumentUri(view),
		Decorations: []Decoration{{
			ID:    handle.String(),
			Range: toProtocolRange(rng),
			Color: color,
		}},
	})
}

func (d *decorator) Dispose(handle uuid.UUID) {
	d.notify(MethodDispose, DisposeParams{IDs: []string{handle.String()}})
}

// lspHost shows messages and prompts through the standard window requests.
type lspHost struct {
	notify glsp.NotifyFunc
	call   glsp.CallFunc
}

func newHost(ctx *glsp.Context) *lspHost {
	return &lspHost{notify: ctx.Notify, call: ctx.Call}
}

func (h *lspHost) ShowInfo(message string) {
	h.show(protocol.MessageTypeInfo, message)
}

func (h *lspHost) ShowWarning(message string) {
	h.show(protocol.MessageTypeWarning, message)
}

func (h *lspHost) show(kind protocol.MessageType, message string) {
	h.notify("window/showMessage", protocol.ShowMessageParams{
		Type:    kind,
		Message: message,
	})
}

func (h *lspHost) Pick(ctx context.Context, placeholder string, choices []session.Choice) (int, bool) {
	if ctx.Err() != nil || len(choices) == 0 {
		return 0, false
	}

	actions := make([]protocol.MessageActionItem, len(choices))
	for i, c := range choices {
		actions[i] = protocol.MessageActionItem{Title: choiceTitle(c)}
	}

	var picked *protocol.MessageActionItem
	h.call("window/showMessageRequest", protocol.ShowMessageRequestParams{
		Type:    protocol.MessageTypeInfo,
		Message: placeholder,
		Actions: actions,
	}, &picked)

	if picked == nil || ctx.Err() != nil {
		return 0, false
	}
	return indexOfTitle(actions, picked.Title)
}

func (h *lspHost) Reveal(view registry.View, rng registry.Range) {
	sel := toProtocolRange(rng)
	var result protocol.ShowDocumentResult
	h.call("window/showDocument", protocol.ShowDocumentParams{
		URI:       protocol.URI(view),
		TakeFocus: &protocol.True,
		Selection: &sel,
	}, &result)
}

// choiceTitle flattens a choice into the single line a message action has.
func choiceTitle(c session.Choice) string {
	var b strings.Builder
	b.WriteString(c.Label)
	if c.Description != "" {
		b.WriteString(": ")
		b.WriteString(c.Description)
	}
	if c.Detail != "" {
		b.WriteString(" (")
		b.WriteString(c.Detail)
		b.WriteString(")")
	}
	return b.String()
}

func indexOfTitle(actions []protocol.MessageActionItem, title string) (int, bool) {
	for i, a := range actions {
		if a.Title == title {
			return i, true
		}
	}
	return 0, false
}
