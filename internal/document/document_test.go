package document_test

import (
	"testing"

	"hilite/internal/document"
	"hilite/internal/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rng(sl, sc, el, ec uint32) registry.Range {
	return registry.Range{
		Start: registry.Position{Line: sl, Character: sc},
		End:   registry.Position{Line: el, Character: ec},
	}
}

func TestTextInRange(t *testing.T) {
	doc := "first line\nsecond line\n𝄞 clef here"

	tests := []struct {
		name string
		rng  registry.Range
		want string
	}{
		{name: "single line", rng: rng(0, 6, 0, 10), want: "line"},
		{name: "across lines", rng: rng(0, 6, 1, 6), want: "line\nsecond"},
		// the clef takes two UTF-16 code units
		{name: "surrogate pair", rng: rng(2, 3, 2, 7), want: "clef"},
		{name: "past the end", rng: rng(2, 8, 9, 0), want: "here"},
		{name: "reversed", rng: rng(1, 0, 0, 0), want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, document.TextInRange(doc, tt.rng))
		})
	}
}

func TestWordRangeAt(t *testing.T) {
	doc := "func main() {\n\tfmt.Println(héllo_wörld)\n}"

	tests := []struct {
		name string
		pos  registry.Position
		want registry.Range
		ok   bool
	}{
		{name: "inside word", pos: registry.Position{Line: 0, Character: 6}, want: rng(0, 5, 0, 9), ok: true},
		{name: "word start", pos: registry.Position{Line: 0, Character: 0}, want: rng(0, 0, 0, 4), ok: true},
		{name: "right after word", pos: registry.Position{Line: 0, Character: 4}, want: rng(0, 0, 0, 4), ok: true},
		{name: "unicode word", pos: registry.Position{Line: 1, Character: 16}, want: rng(1, 13, 1, 24), ok: true},
		{name: "between punctuation", pos: registry.Position{Line: 0, Character: 10}, ok: false},
		{name: "line past end", pos: registry.Position{Line: 7, Character: 0}, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := document.WordRangeAt(doc, tt.pos)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestManager(t *testing.T) {
	m := document.NewManager()
	uri := "file:///project/notes.txt"

	_, err := m.Get(uri)
	assert.Error(t, err)
	assert.Error(t, m.ApplyIncrementalEdit(uri, rng(0, 0, 0, 0), "x"))

	m.Update(uri, "hello world\nbye")
	require.NoError(t, m.ApplyIncrementalEdit(uri, rng(0, 6, 0, 11), "there"))
	require.NoError(t, m.ApplyIncrementalEdit(uri, rng(1, 3, 1, 3), "!\nnew line"))

	doc, err := m.Get(uri)
	require.NoError(t, err)
	assert.Equal(t, "hello there\nbye!\nnew line", doc)

	text, err := m.Text(uri, rng(2, 0, 2, 3))
	require.NoError(t, err)
	assert.Equal(t, "new", text)

	word, ok := m.WordRangeAt(uri, registry.Position{Line: 0, Character: 8})
	require.True(t, ok)
	assert.Equal(t, rng(0, 6, 0, 11), word)

	m.Release(uri)
	_, ok = m.WordRangeAt(uri, registry.Position{})
	assert.False(t, ok)

	m.Update(uri, "again")
	m.CloseAll()
	_, err = m.Get(uri)
	assert.Error(t, err)
}
