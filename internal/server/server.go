package server

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"hilite/internal/document"
	"hilite/internal/session"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
)

const Name = "hilite"

// Client to server notification sent when the focused editor changes.
const MethodDidChangeActiveEditor = "hilite/didChangeActiveEditor"

type ActiveEditorParams struct {
	URI protocol.DocumentUri `json:"uri"`
}

type Server struct {
	version string
	handler *protocol.Handler
	docs    *document.Manager
	log     commonlog.Logger

	mu      sync.Mutex
	session *session.Session
	// prompts is cancelled on shutdown, dropping answers still in flight.
	prompts context.Context
	cancel  context.CancelFunc
}

func New(version string) *Server {
	ls := &Server{
		version: version,
		docs:    document.NewManager(),
		log:     commonlog.GetLogger("hilite.server"),
	}
	ls.handler = &protocol.Handler{
		Initialize:                      ls.initialize,
		Initialized:                     ls.initialized,
		Shutdown:                        ls.shutdown,
		Exit:                            ls.exit,
		SetTrace:                        ls.setTrace,
		TextDocumentDidOpen:             ls.textDocumentDidOpen,
		TextDocumentDidChange:           ls.textDocumentDidChange,
		TextDocumentDidClose:            ls.textDocumentDidClose,
		TextDocumentHover:               ls.textDocumentHover,
		WorkspaceExecuteCommand:         ls.workspaceExecuteCommand,
		WorkspaceDidChangeConfiguration: ls.workspaceDidChangeConfiguration,
	}
	return ls
}

// NewServer returns the glsp server speaking for a fresh Server.
func NewServer(version string) *server.Server {
	return server.NewServer(New(version), Name, false)
}

// Handle dispatches the hilite specific notifications and hands everything
// else to the protocol handler.
func (s *Server) Handle(context *glsp.Context) (r any, validMethod bool, validParams bool, err error) {
	switch context.Method {
	case MethodDidChangeActiveEditor:
		var params ActiveEditorParams
		if err := json.Unmarshal(context.Params, &params); err != nil {
			return nil, true, false, err
		}
		return nil, true, true, s.didChangeActiveEditor(context, &params)
	default:
		return s.handler.Handle(context)
	}
}

// current returns the active session, or an error before initialization.
func (s *Server) current() (*session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, fmt.Errorf("server is not initialized")
	}
	return s.session, nil
}

// promptContext returns the context prompts run under. It is done once the
// server shuts down.
func (s *Server) promptContext() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.prompts == nil {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		return ctx
	}
	return s.prompts
}
