// Package session wires user actions to the highlight registry and its
// persistence for one project.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"hilite/internal/config"
	"hilite/internal/palette"
	"hilite/internal/registry"
	"hilite/internal/store"

	"github.com/tliron/commonlog"
)

// Session owns the highlight state of a project between activation and
// deactivation. Every state transition runs under its lock; the lock is
// never held while waiting for the user.
type Session struct {
	mu sync.Mutex

	cfg      config.Config
	cycler   *palette.Cycler
	registry *registry.Registry
	store    store.Store
	docs     Documents
	log      commonlog.Logger
}

func New(cfg config.Config, st store.Store, renderer registry.Renderer, docs Documents) *Session {
	return &Session{
		cfg:      cfg,
		cycler:   palette.NewCycler(palette.New(cfg.CustomColors)),
		registry: registry.New(renderer),
		store:    st,
		docs:     docs,
		log:      commonlog.GetLogger("hilite.session"),
	}
}

// Activate loads the persisted highlights and renders them on view, if any.
// Unreadable or malformed data leaves the registry empty and is reported as
// a warning.
func (s *Session) Activate(host Host, view registry.View) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.registry.SetView(view)

	saved, err := s.store.Load()
	if err != nil {
		s.log.Errorf("failed to load highlights: %v", err)
		if errors.Is(err, store.ErrMalformed) {
			host.ShowWarning("Highlights file is malformed; starting with no highlights.")
		} else {
			host.ShowWarning("Could not read saved highlights; starting with no highlights.")
		}
		return
	}

	entries := make([]registry.Entry, 0, len(saved))
	var skipped int
	for i, h := range saved {
		if err := h.Validate(); err != nil {
			s.log.Warningf("skipping saved highlight %d: %v", i, err)
			skipped++
			continue
		}
		entries = append(entries, registry.Entry{Range: fromStored(h), Color: h.Color})
	}

	n, err := s.registry.Restore(entries)
	if err != nil {
		s.log.Warningf("skipped saved highlights: %v", err)
		skipped += len(entries) - n
	}
	if skipped > 0 {
		host.ShowWarning(fmt.Sprintf("Skipped %d invalid saved highlight(s).", skipped))
	}
	s.log.Infof("restored %d highlight(s) from %s", n, s.store.Path())
}

// Deactivate disposes every handle and empties the registry. Nothing is
// saved: each mutation has already been persisted.
func (s *Session) Deactivate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.registry.Clear()
	return s.store.Close()
}

// Configure applies changed settings. The storage backend is fixed for the
// lifetime of the session.
func (s *Session) Configure(cfg config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cfg.Storage != s.cfg.Storage {
		s.log.Warningf("storage change to %q takes effect after restart", cfg.Storage)
		cfg.Storage = s.cfg.Storage
	}
	s.cfg = cfg
	s.cycler.SetPalette(palette.New(cfg.CustomColors))
}

// Palette returns the colors currently offered.
func (s *Session) Palette() palette.Palette {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cycler.Palette()
}

// Records returns the highlights in insertion order.
func (s *Session) Records() []registry.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Records()
}

// ViewChanged re-attaches every highlight to the newly active view.
func (s *Session) ViewChanged(view registry.View) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if view == "" {
		return
	}
	s.registry.ReapplyAll(view)
}

// focus makes the selection's view the active one.
func (s *Session) focus(view registry.View) {
	if view != "" && view != s.registry.View() {
		s.registry.ReapplyAll(view)
	}
}

// Highlight colors the selected text.
func (s *Session) Highlight(host Host, sel Selection) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sel.Range.IsEmpty() {
		host.ShowWarning("Please select text to highlight.")
		return
	}
	s.focus(sel.View)

	// duplicates are silently ignored and leave the color cursor alone
	if !sel.Range.Valid() || s.registry.Has(sel.Range) {
		s.log.Debugf("highlight rejected: %v", sel.Range)
		return
	}

	color := s.cycler.Pick(s.cfg.UseSingleColor)
	if _, err := s.registry.Add(sel.Range, color.Value); err != nil {
		s.log.Errorf("failed to add highlight: %v", err)
		return
	}

	host.ShowInfo(fmt.Sprintf("Code highlighted with %s!", color.Name))
	s.persist(host)
}

// Erase removes the highlight under the cursor or overlapping the selection.
func (s *Session) Erase(host Host, sel Selection) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.focus(sel.View)
	ref, ok := s.registry.Resolve(sel.Active, sel.Range)
	if !ok {
		return
	}
	if err := s.registry.Remove(ref); err != nil {
		s.log.Errorf("failed to remove highlight: %v", err)
		return
	}

	host.ShowInfo("Highlight removed!")
	s.persist(host)
}

// Recolor lets the user pick a new color for the highlight under the cursor
// or overlapping the selection.
func (s *Session) Recolor(ctx context.Context, host Host, sel Selection) {
	s.mu.Lock()
	s.focus(sel.View)
	ref, ok := s.registry.Resolve(sel.Active, sel.Range)
	colors := s.cycler.Palette()
	s.mu.Unlock()
	if !ok {
		return
	}

	choices := make([]Choice, len(colors))
	for i, c := range colors {
		choices[i] = Choice{Label: c.Label()}
	}
	i, ok := host.Pick(ctx, "Select a new highlight color", choices)
	if !ok {
		return
	}
	chosen := colors[i]

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.registry.Recolor(ref, chosen.Value); err != nil {
		// erased while the user was choosing
		s.log.Debugf("recolor skipped: %v", err)
		return
	}

	host.ShowInfo(fmt.Sprintf("Highlight color changed to %s!", chosen.Label()))
	s.persist(host)
}

// Search lists every highlight and moves the selection to the chosen one.
func (s *Session) Search(ctx context.Context, host Host) {
	s.mu.Lock()
	records := s.registry.Records()
	view := s.registry.View()
	s.mu.Unlock()

	if len(records) == 0 {
		host.ShowInfo("No highlights to display.")
		return
	}

	choices := make([]Choice, len(records))
	for i, rec := range records {
		choices[i] = Choice{
			Label:       fmt.Sprintf("Highlight %d", i+1),
			Description: s.liveText(view, rec.Range),
			Detail:      fmt.Sprintf("Line %d", rec.Range.Start.Line+1),
		}
	}

	i, ok := host.Pick(ctx, "Select a highlight to navigate to", choices)
	if !ok || view == "" {
		return
	}
	host.Reveal(view, records[i].Range)
}

func (s *Session) liveText(view registry.View, rng registry.Range) string {
	text, err := s.docs.Text(string(view), rng)
	text = strings.TrimSpace(text)
	if err != nil || text == "" {
		return "Highlighted Text"
	}
	return text
}

// persist writes the registry to the store. Failures keep the in-memory
// state and are reported.
func (s *Session) persist(host Host) {
	records := s.registry.Records()
	highlights := make([]store.Highlight, len(records))
	for i, rec := range records {
		highlights[i] = toStored(rec)
	}

	if err := s.store.Save(highlights); err != nil {
		s.log.Errorf("failed to save highlights: %v", err)
		host.ShowWarning(fmt.Sprintf("Failed to save highlights: %v", err))
	}
}

func toStored(rec registry.Record) store.Highlight {
	return store.Highlight{
		Start: store.Position{Line: int(rec.Range.Start.Line), Character: int(rec.Range.Start.Character)},
		End:   store.Position{Line: int(rec.Range.End.Line), Character: int(rec.Range.End.Character)},
		Color: rec.Color,
	}
}

func fromStored(h store.Highlight) registry.Range {
	return registry.Range{
		Start: registry.Position{Line: uint32(h.Start.Line), Character: uint32(h.Start.Character)},
		End:   registry.Position{Line: uint32(h.End.Line), Character: uint32(h.End.Character)},
	}
}
