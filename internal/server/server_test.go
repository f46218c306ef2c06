package server

import (
	"context"
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"hilite/internal/registry"
	"hilite/internal/session"
	"hilite/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

type sent struct {
	method string
	params any
}

// fakeClient records notifications and answers calls with answer.
type fakeClient struct {
	mu     sync.Mutex
	sent   []sent
	calls  []sent
	answer func(method string, params any, result any)
}

func (c *fakeClient) context() *glsp.Context {
	return &glsp.Context{
		Notify: func(method string, params any) {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.sent = append(c.sent, sent{method, params})
		},
		Call: func(method string, params any, result any) {
			c.mu.Lock()
			c.calls = append(c.calls, sent{method, params})
			answer := c.answer
			c.mu.Unlock()
			if answer != nil {
				answer(method, params, result)
			}
		},
	}
}

func (c *fakeClient) methods() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []string
	for _, s := range c.sent {
		out = append(out, s.method)
	}
	return out
}

func (c *fakeClient) messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []string
	for _, s := range c.sent {
		if p, ok := s.params.(protocol.ShowMessageParams); ok {
			out = append(out, p.Message)
		}
	}
	return out
}

func rng(sl, sc, el, ec uint32) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: sl, Character: sc},
		End:   protocol.Position{Line: el, Character: ec},
	}
}

func TestProjectRoot(t *testing.T) {
	uri := "file:///home/me/my%20project"
	path := "/srv/code"

	tests := []struct {
		name   string
		params protocol.InitializeParams
		want   string
	}{
		{"root uri", protocol.InitializeParams{RootURI: &uri}, "/home/me/my project"},
		{"workspace folder", protocol.InitializeParams{
			WorkspaceFolders: []protocol.WorkspaceFolder{{URI: "file:///work", Name: "work"}},
		}, "/work"},
		{"root path", protocol.InitializeParams{RootPath: &path}, "/srv/code"},
		{"nothing", protocol.InitializeParams{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, projectRoot(&tt.params))
		})
	}
}

func TestParseSelection(t *testing.T) {
	tests := []struct {
		name string
		arg  any
		want session.Selection
	}{
		{
			name: "selection and cursor",
			arg: map[string]any{
				"uri":       "file:///a.go",
				"selection": map[string]any{"start": map[string]any{"line": 1, "character": 2}, "end": map[string]any{"line": 1, "character": 6}},
				"active":    map[string]any{"line": 1, "character": 6},
			},
			want: session.Selection{
				View:   "file:///a.go",
				Range:  registry.Range{Start: registry.Position{Line: 1, Character: 2}, End: registry.Position{Line: 1, Character: 6}},
				Active: registry.Position{Line: 1, Character: 6},
			},
		},
		{
			name: "cursor only",
			arg: map[string]any{
				"uri":    "file:///a.go",
				"active": map[string]any{"line": 3, "character": 0},
			},
			want: session.Selection{
				View:   "file:///a.go",
				Range:  registry.Range{Start: registry.Position{Line: 3}, End: registry.Position{Line: 3}},
				Active: registry.Position{Line: 3},
			},
		},
		{
			name: "selection only",
			arg: map[string]any{
				"uri":       "file:///a.go",
				"selection": map[string]any{"start": map[string]any{"line": 0, "character": 0}, "end": map[string]any{"line": 2, "character": 1}},
			},
			want: session.Selection{
				View:   "file:///a.go",
				Range:  registry.Range{End: registry.Position{Line: 2, Character: 1}},
				Active: registry.Position{Line: 2, Character: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSelection(tt.arg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := parseSelection("not an object")
	assert.Error(t, err)
}

func TestCommandLinkCarriesSelection(t *testing.T) {
	sel := session.Selection{
		View:   "file:///a.go",
		Range:  registry.Range{Start: registry.Position{Line: 4, Character: 1}, End: registry.Position{Line: 4, Character: 9}},
		Active: registry.Position{Line: 4, Character: 3},
	}

	link, err := commandLink(session.CommandErase, sel)
	require.NoError(t, err)

	prefix := "command:" + session.CommandErase + "?"
	require.True(t, strings.HasPrefix(link, prefix))

	query, err := url.QueryUnescape(strings.TrimPrefix(link, prefix))
	require.NoError(t, err)

	var args []any
	require.NoError(t, json.Unmarshal([]byte(query), &args))
	require.Len(t, args, 1)

	got, err := parseSelection(args[0])
	require.NoError(t, err)
	assert.Equal(t, sel, got)
}

func TestChoiceTitle(t *testing.T) {
	assert.Equal(t, "🔴 Red", choiceTitle(session.Choice{Label: "🔴 Red"}))
	assert.Equal(t, "Highlight 2: fmt (Line 5)",
		choiceTitle(session.Choice{Label: "Highlight 2", Description: "fmt", Detail: "Line 5"}))
}

func TestHostPick(t *testing.T) {
	choices := []session.Choice{{Label: "one"}, {Label: "two"}, {Label: "three"}}

	t.Run("picked", func(t *testing.T) {
		client := &fakeClient{answer: func(method string, params any, result any) {
			assert.Equal(t, "window/showMessageRequest", method)
			p := params.(protocol.ShowMessageRequestParams)
			assert.Equal(t, "choose", p.Message)
			*result.(**protocol.MessageActionItem) = &p.Actions[1]
		}}
		i, ok := newHost(client.context()).Pick(context.Background(), "choose", choices)
		assert.True(t, ok)
		assert.Equal(t, 1, i)
	})

	t.Run("dismissed", func(t *testing.T) {
		client := &fakeClient{}
		_, ok := newHost(client.context()).Pick(context.Background(), "choose", choices)
		assert.False(t, ok)
	})

	t.Run("cancelled", func(t *testing.T) {
		client := &fakeClient{}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, ok := newHost(client.context()).Pick(ctx, "choose", choices)
		assert.False(t, ok)
		assert.Empty(t, client.calls)
	})
}

func initialized(t *testing.T, client *fakeClient, root string) *Server {
	t.Helper()
	ls := New("test")
	uri := "file://" + root
	_, err := ls.initialize(client.context(), &protocol.InitializeParams{RootURI: &uri})
	require.NoError(t, err)
	t.Cleanup(func() { _ = ls.shutdown(client.context()) })
	return ls
}

func TestHighlightOverProtocol(t *testing.T) {
	root := t.TempDir()
	client := &fakeClient{}
	ls := initialized(t, client, root)
	ctx := client.context()

	const uri = "file:///project/main.go"
	require.NoError(t, ls.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, Text: "hello world\nsecond line\n"},
	}))

	sel := rng(0, 0, 0, 5)
	_, err := ls.workspaceExecuteCommand(ctx, &protocol.ExecuteCommandParams{
		Command:   session.CommandHighlight,
		Arguments: []any{SelectionArgument{URI: uri, Selection: &sel}},
	})
	require.NoError(t, err)

	assert.Contains(t, client.methods(), MethodDecorate)
	assert.Contains(t, client.messages(), "Code highlighted with Jungle Getaway!")

	data, err := os.ReadFile(filepath.Join(root, store.Dir, "highlights.json"))
	require.NoError(t, err)
	var saved []store.Highlight
	require.NoError(t, json.Unmarshal(data, &saved))
	require.Len(t, saved, 1)
	assert.Equal(t, store.Position{Line: 0, Character: 0}, saved[0].Start)
	assert.Equal(t, store.Position{Line: 0, Character: 5}, saved[0].End)

	hover, err := ls.textDocumentHover(ctx, &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     protocol.Position{Line: 0, Character: 2},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, hover)
	content := hover.Contents.(protocol.MarkupContent)
	assert.Contains(t, content.Value, "Erase Highlight")
	assert.Contains(t, content.Value, "command:"+session.CommandRecolor)

	cursor := protocol.Position{Line: 0, Character: 3}
	_, err = ls.workspaceExecuteCommand(ctx, &protocol.ExecuteCommandParams{
		Command:   session.CommandErase,
		Arguments: []any{SelectionArgument{URI: uri, Active: &cursor}},
	})
	require.NoError(t, err)
	assert.Contains(t, client.methods(), MethodDispose)
	assert.Contains(t, client.messages(), "Highlight removed!")
}

func TestExecuteCommandErrors(t *testing.T) {
	client := &fakeClient{}
	ls := New("test")

	_, err := ls.workspaceExecuteCommand(client.context(), &protocol.ExecuteCommandParams{Command: session.CommandHighlight})
	assert.Error(t, err, "not initialized")

	ls = initialized(t, client, t.TempDir())
	_, err = ls.workspaceExecuteCommand(client.context(), &protocol.ExecuteCommandParams{Command: "hilite.unknown"})
	assert.Error(t, err)

	_, err = ls.workspaceExecuteCommand(client.context(), &protocol.ExecuteCommandParams{Command: session.CommandErase})
	assert.Error(t, err)
}

func TestDidChangeKeepsDocumentText(t *testing.T) {
	client := &fakeClient{}
	ls := initialized(t, client, t.TempDir())
	ctx := client.context()

	const uri = "file:///project/a.txt"
	require.NoError(t, ls.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, Text: "abc def"},
	}))

	edit := rng(0, 4, 0, 7)
	require.NoError(t, ls.textDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
			Version:                2,
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEvent{Range: &edit, Text: "xyz"}},
	}))

	got, err := ls.docs.Text(uri, registry.Range{End: registry.Position{Character: 7}})
	require.NoError(t, err)
	assert.Equal(t, "abc xyz", got)
}

func TestShutdownCancelsOpenPrompts(t *testing.T) {
	client := &fakeClient{}
	ls := initialized(t, client, t.TempDir())

	prompts := ls.promptContext()
	require.NoError(t, prompts.Err())

	client.answer = func(method string, params any, result any) {
		// the editor answers only after the server went away
		require.NoError(t, ls.shutdown(client.context()))
		p := params.(protocol.ShowMessageRequestParams)
		*result.(**protocol.MessageActionItem) = &p.Actions[0]
	}

	_, ok := newHost(client.context()).Pick(prompts, "choose", []session.Choice{{Label: "one"}})
	assert.False(t, ok)
	assert.ErrorIs(t, prompts.Err(), context.Canceled)
	assert.Error(t, ls.promptContext().Err())
}

func TestDidChangeConfigurationReloadsPalette(t *testing.T) {
	client := &fakeClient{}
	ls := initialized(t, client, t.TempDir())

	require.NoError(t, ls.workspaceDidChangeConfiguration(client.context(), &protocol.DidChangeConfigurationParams{
		Settings: map[string]any{"hilite": map[string]any{"customColors": []any{"#123456"}}},
	}))

	sess, err := ls.current()
	require.NoError(t, err)
	colors := sess.Palette()
	require.Len(t, colors, 1)
	assert.Equal(t, "Custom Color 1", colors[0].Name)
}
