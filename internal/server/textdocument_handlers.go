package server

import (
	"fmt"
	"strings"

	"hilite/internal/registry"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Opening a document makes it the active view.
func (s *Server) textDocumentDidOpen(
	context *glsp.Context,
	params *protocol.DidOpenTextDocumentParams,
) error {
	uri := params.TextDocument.URI
	s.docs.Update(uri, params.TextDocument.Text)

	sess, err := s.current()
	if err != nil {
		return err
	}
	sess.ViewChanged(registry.View(uri))
	return nil
}

func (s *Server) textDocumentDidChange(
	context *glsp.Context,
	params *protocol.DidChangeTextDocumentParams,
) error {
	uri := params.TextDocument.URI
	for _, raw := range params.ContentChanges {
		switch change := raw.(type) {
		case protocol.TextDocumentContentChangeEvent:
			if change.Range == nil {
				s.docs.Update(uri, change.Text)
				continue
			}
			if err := s.docs.ApplyIncrementalEdit(uri, fromProtocolRange(*change.Range), change.Text); err != nil {
				return fmt.Errorf("unexpected error during edit: %w", err)
			}
		case protocol.TextDocumentContentChangeEventWhole:
			s.docs.Update(uri, change.Text)
		default:
			return fmt.Errorf("unexpected change event type %T", raw)
		}
	}
	return nil
}

func (s *Server) textDocumentDidClose(
	context *glsp.Context,
	params *protocol.DidCloseTextDocumentParams,
) error {
	s.docs.Release(params.TextDocument.URI)
	return nil
}

func (s *Server) textDocumentHover(
	context *glsp.Context,
	params *protocol.HoverParams,
) (*protocol.Hover, error) {
	sess, err := s.current()
	if err != nil {
		return nil, err
	}

	card, ok := sess.Hover(registry.View(params.TextDocument.URI), fromProtocolPosition(params.Position))
	if !ok {
		return nil, nil
	}

	links := make([]string, 0, len(card.Actions))
	for _, a := range card.Actions {
		target, err := commandLink(a.Command, a.Selection)
		if err != nil {
			return nil, err
		}
		links = append(links, fmt.Sprintf("%s [%s](%s)", a.Icon, a.Title, target))
	}

	rng := toProtocolRange(card.Range)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: strings.Join(links, " | "),
		},
		Range: &rng,
	}, nil
}
