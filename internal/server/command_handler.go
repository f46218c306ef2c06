package server

import (
	"encoding/json"
	"fmt"
	"net/url"

	"hilite/internal/registry"
	"hilite/internal/session"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// SelectionArgument is the single argument every hilite command takes. It
// carries the editor state at invocation time.
type SelectionArgument struct {
	URI       protocol.DocumentUri `json:"uri"`
	Selection *protocol.Range      `json:"selection,omitempty"`
	Active    *protocol.Position   `json:"active,omitempty"`
}

func (a SelectionArgument) selection() session.Selection {
	sel := session.Selection{View: registry.View(a.URI)}
	if a.Selection != nil {
		sel.Range = fromProtocolRange(*a.Selection)
		sel.Active = sel.Range.End
	}
	if a.Active != nil {
		sel.Active = fromProtocolPosition(*a.Active)
		if a.Selection == nil {
			sel.Range = registry.Range{Start: sel.Active, End: sel.Active}
		}
	}
	return sel
}

func parseSelection(raw any) (session.Selection, error) {
	var arg SelectionArgument
	data, err := json.Marshal(raw)
	if err != nil {
		return session.Selection{}, err
	}
	if err := json.Unmarshal(data, &arg); err != nil {
		return session.Selection{}, fmt.Errorf("invalid command argument: %w", err)
	}
	return arg.selection(), nil
}

// commandLink builds a markdown command URI invoking command with sel.
func commandLink(command string, sel session.Selection) (string, error) {
	rng := toProtocolRange(sel.Range)
	active := toProtocolPosition(sel.Active)
	args, err := json.Marshal([]SelectionArgument{{
		URI:       protocol.DocumentUri(sel.View),
		Selection: &rng,
		Active:    &active,
	}})
	if err != nil {
		return "", err
	}
	return "command:" + command + "?" + url.QueryEscape(string(args)), nil
}

func (s *Server) workspaceExecuteCommand(
	ctx *glsp.Context,
	params *protocol.ExecuteCommandParams,
) (any, error) {
	sess, err := s.current()
	if err != nil {
		return nil, err
	}
	host := newHost(ctx)
	s.log.Debugf("command %s", params.Command)

	// Prompts wait for a client response, so they must not block the
	// connection's handler.
	switch params.Command {
	case session.CommandSearch:
		go sess.Search(s.promptContext(), host)
		return nil, nil
	case session.CommandHighlight, session.CommandErase, session.CommandRecolor:
	default:
		return nil, fmt.Errorf("unknown command %q", params.Command)
	}

	if len(params.Arguments) == 0 {
		return nil, fmt.Errorf("command %s needs a selection argument", params.Command)
	}
	sel, err := parseSelection(params.Arguments[0])
	if err != nil {
		return nil, err
	}

	switch params.Command {
	case session.CommandHighlight:
		sess.Highlight(host, sel)
	case session.CommandErase:
		sess.Erase(host, sel)
	case session.CommandRecolor:
		go sess.Recolor(s.promptContext(), host, sel)
	}
	return nil, nil
}
