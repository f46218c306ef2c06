package server

import (
	gocontext "context"
	"fmt"

	"hilite/internal/config"
	"hilite/internal/registry"
	"hilite/internal/session"
	"hilite/internal/store"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func (s *Server) initialize(
	context *glsp.Context,
	params *protocol.InitializeParams,
) (any, error) {
	cfg, err := config.Load(params.InitializationOptions)
	if err != nil {
		return nil, err
	}
	s.log.Infof("config: %+v", cfg)

	root := projectRoot(params)
	if root == "" {
		s.log.Warning("no project root, highlights will not be saved")
	} else {
		s.log.Infof("root is %s", root)
	}

	st, err := store.Open(root, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open highlight store: %w", err)
	}

	sess := session.New(cfg, st, &decorator{notify: context.Notify}, s.docs)
	// Nothing is open yet; the first didOpen renders the restored highlights.
	sess.Activate(newHost(context), "")

	prompts, cancel := gocontext.WithCancel(gocontext.Background())

	s.mu.Lock()
	s.session = sess
	s.prompts, s.cancel = prompts, cancel
	s.mu.Unlock()

	capabilities := s.handler.CreateServerCapabilities()

	syncKind := protocol.TextDocumentSyncKindIncremental
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &protocol.True,
		Change:    &syncKind,
	}
	capabilities.HoverProvider = true
	capabilities.ExecuteCommandProvider = &protocol.ExecuteCommandOptions{
		Commands: session.Commands,
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    Name,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(
	context *glsp.Context,
	params *protocol.InitializedParams,
) error {
	s.log.Info("client initialized")
	return nil
}

func (s *Server) shutdown(context *glsp.Context) error {
	s.log.Info("shutdown")
	protocol.SetTraceValue(protocol.TraceValueOff)

	s.mu.Lock()
	sess := s.session
	s.session = nil
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	s.docs.CloseAll()
	if sess == nil {
		return nil
	}
	return sess.Deactivate()
}

func (s *Server) exit(context *glsp.Context) error {
	return nil
}

func (s *Server) setTrace(context *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) workspaceDidChangeConfiguration(
	context *glsp.Context,
	params *protocol.DidChangeConfigurationParams,
) error {
	cfg, err := config.Load(params.Settings)
	if err != nil {
		return err
	}

	sess, err := s.current()
	if err != nil {
		return err
	}
	s.log.Infof("config: %+v", cfg)
	sess.Configure(cfg)
	return nil
}

func (s *Server) didChangeActiveEditor(
	context *glsp.Context,
	params *ActiveEditorParams,
) error {
	sess, err := s.current()
	if err != nil {
		return err
	}
	sess.ViewChanged(registry.View(params.URI))
	return nil
}
