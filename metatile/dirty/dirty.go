package dirty

import (
	"fmt"
	"slices"

	"github.com/joshuapare/metatilekit/metatile"
)

// Cell is a map coordinate.
type Cell struct {
	X, Y int
}

// Tracker accumulates modified slots and cells between flushes.
type Tracker struct {
	slots  map[metatile.ID]struct{}
	blocks map[Cell]struct{}
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		slots:  make(map[metatile.ID]struct{}),
		blocks: make(map[Cell]struct{}),
	}
}

// MarkSlot implements Recorder.
func (t *Tracker) MarkSlot(id metatile.ID) {
	t.slots[id] = struct{}{}
}

// MarkBlock implements Recorder.
func (t *Tracker) MarkBlock(x, y int) {
	t.blocks[Cell{X: x, Y: y}] = struct{}{}
}

// Dirty reports whether anything was recorded since the last flush or reset.
func (t *Tracker) Dirty() bool {
	return len(t.slots) > 0 || len(t.blocks) > 0
}

// Slots returns the modified slot IDs in ascending order.
func (t *Tracker) Slots() []metatile.ID {
	out := make([]metatile.ID, 0, len(t.slots))
	for id := range t.slots {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Blocks returns the modified cells in row-major order.
func (t *Tracker) Blocks() []Cell {
	out := make([]Cell, 0, len(t.blocks))
	for c := range t.blocks {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b Cell) int {
		if a.Y != b.Y {
			return a.Y - b.Y
		}
		return a.X - b.X
	})
	return out
}

// Flush asks f to redraw and commit if anything is dirty, then clears the tracker.
//
// The tracker is cleared even when Commit fails; the changes are already in
// the host and a retry would commit nothing new.
func (t *Tracker) Flush(f Flusher) error {
	if !t.Dirty() {
		return nil
	}
	defer t.Reset()

	f.Redraw()
	if err := f.Commit(); err != nil {
		return fmt.Errorf("commit %d slot(s), %d cell(s): %w", len(t.slots), len(t.blocks), err)
	}
	return nil
}

// Reset clears all recorded changes.
func (t *Tracker) Reset() {
	clear(t.slots)
	clear(t.blocks)
}
