package merge

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/metatilekit/internal/host"
	"github.com/joshuapare/metatilekit/metatile"
	"github.com/joshuapare/metatilekit/metatile/alloc"
	"github.com/joshuapare/metatilekit/metatile/dirty"
	"github.com/joshuapare/metatilekit/metatile/index"
)

// newMerger wires a merger over h with a registry seeded from free (tail first).
func newMerger(t *testing.T, h *host.Memory, free []metatile.ID) (*Merger, *alloc.Registry, *dirty.Tracker) {
	t.Helper()
	r, err := alloc.NewRegistryFrom(h, metatile.BlankID, free)
	require.NoError(t, err)
	dt := dirty.NewTracker()
	m := New(h, index.NewLinear(h, metatile.MaxMetatiles(h)), r, dt)
	return m, r, dt
}

// snapshot copies every slot of h.
func snapshot(h *host.Memory) []metatile.Content {
	out := make([]metatile.Content, metatile.MaxMetatiles(h))
	for i := range out {
		out[i] = h.Content(metatile.ID(i))
	}
	return out
}
