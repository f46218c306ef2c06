// Package registry tracks the highlighted ranges of a project session and the
// visual handles that render them.
package registry

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/rdleal/intervalst/interval"
)

var (
	ErrDuplicate    = errors.New("range is already highlighted")
	ErrEmptyRange   = errors.New("range is empty")
	ErrInvalidRange = errors.New("range starts after it ends")
	ErrNotFound     = errors.New("highlight not found")
)

// View identifies the editor view (document) handles are rendered on. The
// zero View means no view is active.
type View string

// Ref identifies a record for as long as it stays in the registry. It does
// not change when the record is recolored.
type Ref = uuid.UUID

// Renderer is the host side of visual handles.
type Renderer interface {
	// Render shows handle over rng on view.
	Render(view View, handle uuid.UUID, rng Range, color string)
	// Dispose releases handle on every view it was rendered on.
	Dispose(handle uuid.UUID)
}

// Record is one highlighted span.
type Record struct {
	Ref    Ref
	Range  Range
	Color  string
	Handle uuid.UUID

	seq uint64
}

// Entry is a highlight to be restored from persisted state.
type Entry struct {
	Range Range
	Color string
}

// Registry is the ordered set of highlights. It is not safe for concurrent
// use; callers serialize access.
type Registry struct {
	renderer Renderer
	view     View

	records []*Record
	byRef   map[Ref]*Record
	byRange map[Range]*Record
	index   *interval.SearchTree[Ref, Position]
	nextSeq uint64
}

func New(renderer Renderer) *Registry {
	r := &Registry{renderer: renderer}
	r.reset()
	return r
}

func (r *Registry) reset() {
	r.records = nil
	r.byRef = make(map[Ref]*Record)
	r.byRange = make(map[Range]*Record)
	r.index = interval.NewSearchTree[Ref](func(a, b Position) int {
		return a.Compare(b)
	})
}

// View returns the view new handles are rendered on.
func (r *Registry) View() View {
	return r.view
}

// SetView changes the active view without rendering anything on it.
func (r *Registry) SetView(view View) {
	r.view = view
}

func (r *Registry) Len() int {
	return len(r.records)
}

// Records returns a snapshot of the records in insertion order.
func (r *Registry) Records() []Record {
	out := make([]Record, len(r.records))
	for i, rec := range r.records {
		out[i] = *rec
	}
	return out
}

// Get returns the record identified by ref.
func (r *Registry) Get(ref Ref) (Record, bool) {
	rec, ok := r.byRef[ref]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

// Has reports whether rng is already highlighted.
func (r *Registry) Has(rng Range) bool {
	_, ok := r.byRange[rng]
	return ok
}

// Add highlights rng with color and renders it on the active view.
func (r *Registry) Add(rng Range, color string) (Ref, error) {
	if !rng.Valid() {
		return Ref{}, ErrInvalidRange
	}
	if rng.IsEmpty() {
		return Ref{}, ErrEmptyRange
	}
	if _, ok := r.byRange[rng]; ok {
		return Ref{}, ErrDuplicate
	}

	rec := &Record{
		Ref:    uuid.New(),
		Range:  rng,
		Color:  color,
		Handle: uuid.New(),
		seq:    r.nextSeq,
	}
	if err := r.index.Insert(rng.Start, rng.End, rec.Ref); err != nil {
		return Ref{}, fmt.Errorf("failed to index range: %w", err)
	}
	r.nextSeq++

	r.records = append(r.records, rec)
	r.byRef[rec.Ref] = rec
	r.byRange[rng] = rec
	r.render(rec)
	return rec.Ref, nil
}

// Restore appends persisted entries in order. Entries that could not be
// added are skipped; the returned error joins the reason for each of them.
func (r *Registry) Restore(entries []Entry) (int, error) {
	var errs []error
	restored := 0
	for i, e := range entries {
		if _, err := r.Add(e.Range, e.Color); err != nil {
			errs = append(errs, fmt.Errorf("entry %d: %w", i, err))
			continue
		}
		restored++
	}
	return restored, errors.Join(errs...)
}

// FindContaining returns the first record, in insertion order, whose range
// contains pos.
func (r *Registry) FindContaining(pos Position) (Ref, bool) {
	return r.first(Range{Start: pos, End: pos}, func(rec *Record) bool {
		return rec.Range.Contains(pos)
	})
}

// FindOverlapping returns the first record, in insertion order, whose range
// intersects sel.
func (r *Registry) FindOverlapping(sel Range) (Ref, bool) {
	return r.first(sel, func(rec *Record) bool {
		return rec.Range.Intersects(sel)
	})
}

// Resolve returns the first record that either contains pos or intersects
// sel. This is the target of erase and recolor.
func (r *Registry) Resolve(pos Position, sel Range) (Ref, bool) {
	span := sel
	if pos.Compare(span.Start) < 0 {
		span.Start = pos
	}
	if pos.Compare(span.End) > 0 {
		span.End = pos
	}
	return r.first(span, func(rec *Record) bool {
		return rec.Range.Contains(pos) || rec.Range.Intersects(sel)
	})
}

// first looks up index candidates around span and returns the earliest
// inserted one accepted by match.
func (r *Registry) first(span Range, match func(*Record) bool) (Ref, bool) {
	if !span.Valid() {
		return Ref{}, false
	}

	// The query is widened by one position on each side so that ranges
	// touching span are found whatever the index's boundary semantics are.
	candidates, _ := r.index.AllIntersections(before(span.Start), after(span.End))

	var best *Record
	for _, ref := range candidates {
		rec, ok := r.byRef[ref]
		if !ok || !match(rec) {
			continue
		}
		if best == nil || rec.seq < best.seq {
			best = rec
		}
	}
	if best == nil {
		return Ref{}, false
	}
	return best.Ref, true
}

// Remove disposes the record's handle and drops it.
func (r *Registry) Remove(ref Ref) error {
	rec, ok := r.byRef[ref]
	if !ok {
		return ErrNotFound
	}

	if err := r.index.Delete(rec.Range.Start, rec.Range.End); err != nil {
		return fmt.Errorf("failed to unindex range: %w", err)
	}
	r.renderer.Dispose(rec.Handle)
	delete(r.byRef, ref)
	delete(r.byRange, rec.Range)
	r.records = slices.DeleteFunc(r.records, func(x *Record) bool {
		return x == rec
	})
	return nil
}

// Recolor replaces the record's handle with one of the new color. The record
// keeps its place in the order.
func (r *Registry) Recolor(ref Ref, color string) error {
	rec, ok := r.byRef[ref]
	if !ok {
		return ErrNotFound
	}

	r.renderer.Dispose(rec.Handle)
	rec.Handle = uuid.New()
	rec.Color = color
	r.render(rec)
	return nil
}

// ReapplyAll makes view the active view and renders every existing handle
// on it. Records are left untouched.
func (r *Registry) ReapplyAll(view View) {
	r.view = view
	for _, rec := range r.records {
		r.render(rec)
	}
}

// Clear disposes every handle and empties the registry.
func (r *Registry) Clear() {
	for _, rec := range r.records {
		r.renderer.Dispose(rec.Handle)
	}
	r.reset()
}

func (r *Registry) render(rec *Record) {
	if r.view == "" {
		return
	}
	r.renderer.Render(r.view, rec.Handle, rec.Range, rec.Color)
}
