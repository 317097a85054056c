package index

import (
	"fmt"

	"github.com/joshuapare/metatilekit/metatile"
)

// contentKey is the comparable form of a slot's tile identities.
type contentKey = [metatile.TilesPerMetatile]uint16

// Hashed is a Matcher backed by a map from tile identities to the lowest
// slot holding them. The map is built on demand.
type Hashed struct {
	acc metatile.Accessor
	max int

	table map[contentKey]metatile.ID // nil until built
	stats Stats
}

// NewHashed creates a hashed matcher over slots 0..max-1.
func NewHashed(acc metatile.Accessor, max int) *Hashed {
	return &Hashed{acc: acc, max: max}
}

// Find implements Matcher.
func (h *Hashed) Find(c metatile.Content) (metatile.ID, bool, error) {
	h.stats.Lookups++
	key := c.TileIDs()

	for attempt := 0; attempt < 2; attempt++ {
		if h.table == nil {
			if err := h.build(); err != nil {
				return 0, false, err
			}
		}

		id, ok := h.table[key]
		if !ok {
			return 0, false, nil
		}

		live, err := metatile.ReadContent(h.acc, id)
		if err != nil {
			return 0, false, err
		}
		if live.SameTiles(c) {
			return id, true, nil
		}

		// Slot changed behind our back; rebuild once and retry.
		h.stats.Stale++
		h.table = nil
	}
	return 0, false, nil
}

// Invalidate implements Matcher. The next Find rebuilds the table.
func (h *Hashed) Invalidate() {
	h.table = nil
}

// Stats implements Matcher.
func (h *Hashed) Stats() Stats {
	return h.stats
}

func (h *Hashed) build() error {
	table := make(map[contentKey]metatile.ID, h.max)
	for id := metatile.ID(0); int(id) < h.max; id++ {
		c, err := metatile.ReadContent(h.acc, id)
		if err != nil {
			return fmt.Errorf("build content index: %w", err)
		}
		key := c.TileIDs()
		// Ascending scan: keep the first (lowest) ID for each content.
		if _, ok := table[key]; !ok {
			table[key] = id
		}
	}
	h.table = table
	h.stats.Builds++
	return nil
}
