package server

import (
	"net/url"
	"path/filepath"
	"strings"

	"hilite/internal/registry"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// projectRoot picks the workspace directory highlights are stored under.
// It is empty when the client opened no folder.
func projectRoot(params *protocol.InitializeParams) string {
	if params.RootURI != nil && *params.RootURI != "" {
		return uriToPath(*params.RootURI)
	}
	if len(params.WorkspaceFolders) > 0 {
		return uriToPath(params.WorkspaceFolders[0].URI)
	}
	if params.RootPath != nil && *params.RootPath != "" {
		return filepath.Clean(*params.RootPath)
	}
	return ""
}

// uriToPath converts a file URI to a filesystem path.
func uriToPath(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		// Fall back to stripping the prefix by hand
		return filepath.Clean(strings.TrimPrefix(uri, "file://"))
	}
	return filepath.Clean(u.Path)
}

func fromProtocolPosition(p protocol.Position) registry.Position {
	return registry.Position{Line: p.Line, Character: p.Character}
}

func toProtocolPosition(p registry.Position) protocol.Position {
	return protocol.Position{Line: p.Line, Character: p.Character}
}

func fromProtocolRange(r protocol.Range) registry.Range {
	return registry.Range{
		Start: fromProtocolPosition(r.Start),
		End:   fromProtocolPosition(r.End),
	}
}

func toProtocolRange(r registry.Range) protocol.Range {
	return protocol.Range{
		Start: toProtocolPosition(r.Start),
		End:   toProtocolPosition(r.End),
	}
}
