package index

import (
	"fmt"

	"github.com/joshuapare/metatilekit/metatile"
)

// Linear is the reference Matcher. It caches no slot content.
type Linear struct {
	acc metatile.Accessor
	max int

	lookups int
}

// NewLinear creates a linear matcher over slots 0..max-1.
func NewLinear(acc metatile.Accessor, max int) *Linear {
	return &Linear{acc: acc, max: max}
}

// Find implements Matcher.
func (l *Linear) Find(c metatile.Content) (metatile.ID, bool, error) {
	l.lookups++
	for id := metatile.ID(0); int(id) < l.max; id++ {
		tiles, err := l.acc.MetatileTiles(id, metatile.FirstTile, metatile.LastTile)
		if err != nil {
			return 0, false, fmt.Errorf("match metatile %d: %w", id, err)
		}
		if sameTiles(tiles, c) {
			return id, true, nil
		}
	}
	return 0, false, nil
}

// Invalidate implements Matcher. Linear reads live content, so it is a no-op.
func (l *Linear) Invalidate() {}

// Stats implements Matcher. Linear never builds or goes stale.
func (l *Linear) Stats() Stats {
	return Stats{Lookups: l.lookups}
}

func sameTiles(tiles []metatile.Tile, c metatile.Content) bool {
	if len(tiles) != len(c) {
		return false
	}
	for i := range c {
		if !tiles[i].SameTile(c[i]) {
			return false
		}
	}
	return true
}
