// Package ledger records metatile IDs that cleanup must never reclaim.
//
// An ID enters the ledger when it is used as merge input (or placed by a
// merge). It stays there, even if no map cell references it anymore, until
// the ledger is Reset on the next tileset reload.
//
// NOT thread-safe. The engine serializes access.
package ledger

import (
	"slices"

	"github.com/joshuapare/metatilekit/metatile"
)

// Ledger is a deduplicated set of protected metatile IDs.
type Ledger struct {
	ids map[metatile.ID]struct{}
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{ids: make(map[metatile.ID]struct{})}
}

// Protect adds ids to the ledger and returns how many were not already present.
func (l *Ledger) Protect(ids ...metatile.ID) int {
	added := 0
	for _, id := range ids {
		if _, ok := l.ids[id]; ok {
			continue
		}
		l.ids[id] = struct{}{}
		added++
	}
	return added
}

// Contains reports whether id is protected.
func (l *Ledger) Contains(id metatile.ID) bool {
	_, ok := l.ids[id]
	return ok
}

// Len returns the number of protected IDs.
func (l *Ledger) Len() int {
	return len(l.ids)
}

// Reset removes every ID.
func (l *Ledger) Reset() {
	clear(l.ids)
}

// IDs returns the protected IDs in ascending order.
func (l *Ledger) IDs() []metatile.ID {
	out := make([]metatile.ID, 0, len(l.ids))
	for id := range l.ids {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
