package merge

import (
	"errors"
	"fmt"

	"github.com/joshuapare/metatilekit/metatile"
	"github.com/joshuapare/metatilekit/metatile/alloc"
	"github.com/joshuapare/metatilekit/metatile/dirty"
	"github.com/joshuapare/metatilekit/metatile/index"
)

// Result describes a successful merge.
type Result struct {
	// ID is the slot holding the composite.
	ID metatile.ID

	// Reused is true when ID already held the composite and nothing was written.
	Reused bool
}

// Allocated reports whether the merge claimed a fresh slot.
func (r Result) Allocated() bool {
	return !r.Reused
}

// Merger composes metatiles using a matcher and a free-slot registry.
//
// NOT thread-safe. The engine serializes access.
type Merger struct {
	acc     metatile.Accessor
	matcher index.Matcher
	free    *alloc.Registry
	dt      dirty.Recorder
}

// New creates a merger.
//
// Parameters:
//   - acc: tileset accessor
//   - matcher: content lookup consulted before allocating
//   - free: registry supplying fresh slots
//   - dt: recorder notified of slot writes (can be nil)
func New(acc metatile.Accessor, matcher index.Matcher, free *alloc.Registry, dt dirty.Recorder) *Merger {
	return &Merger{acc: acc, matcher: matcher, free: free, dt: dt}
}

// Compose reads the bottom layer of bottom and the top layer of top and
// returns their concatenation.
func Compose(acc metatile.Accessor, bottom, top metatile.ID) (metatile.Content, error) {
	var c metatile.Content

	lower, err := metatile.ReadLayer(acc, bottom, metatile.LayerBottom)
	if err != nil {
		return c, err
	}
	upper, err := metatile.ReadLayer(acc, top, metatile.LayerTop)
	if err != nil {
		return c, err
	}

	copy(c[:metatile.TilesPerLayer], lower)
	copy(c[metatile.TilesPerLayer:], upper)
	return c, nil
}

// Merge returns a slot holding the bottom layer of bottom over the top layer
// of top, reusing an identical slot when one exists.
//
// Returns metatile.ErrExhausted when no slot matches and the registry is empty.
// On any error no slot content has changed.
func (m *Merger) Merge(bottom, top metatile.ID) (Result, error) {
	composite, err := Compose(m.acc, bottom, top)
	if err != nil {
		return Result{}, fmt.Errorf("compose %d+%d: %w", bottom, top, err)
	}

	id, ok, err := m.matcher.Find(composite)
	if err != nil {
		return Result{}, err
	}
	if ok {
		return Result{ID: id, Reused: true}, nil
	}

	id, err = m.free.Take()
	if errors.Is(err, alloc.ErrNoFreeSlot) {
		return Result{}, fmt.Errorf("merge %d+%d: %w", bottom, top, metatile.ErrExhausted)
	}
	if err != nil {
		return Result{}, err
	}

	if err := metatile.WriteContent(m.acc, id, composite); err != nil {
		m.free.Release(id)
		return Result{}, err
	}
	m.matcher.Invalidate()
	if m.dt != nil {
		m.dt.MarkSlot(id)
	}

	return Result{ID: id}, nil
}
