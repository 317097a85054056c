// Package testutil holds fixtures shared by the metatile package tests.
package testutil

import (
	"testing"

	"github.com/joshuapare/metatilekit/internal/host"
	"github.com/joshuapare/metatilekit/metatile"
)

// Scenario slot IDs used by SetupMergeScenario.
const (
	ScenarioBottom    metatile.ID = 5  // bottom = {a,b,c,d}, top blank
	ScenarioTop       metatile.ID = 9  // bottom blank, top = {e,f,g,h}
	ScenarioComposite metatile.ID = 12 // {a,b,c,d,e,f,g,h}
)

// Tile identities used by the scenario fixtures.
const (
	TileA uint16 = iota + 1
	TileB
	TileC
	TileD
	TileE
	TileF
	TileG
	TileH
)

// Content builds metatile content from up to eight tile identities.
// Missing trailing entries stay blank.
func Content(ids ...uint16) metatile.Content {
	var c metatile.Content
	for i, id := range ids {
		if i >= metatile.TilesPerMetatile {
			break
		}
		c[i] = metatile.Tile{TileID: id}
	}
	return c
}

// Layered builds content from separate bottom and top layer identities.
func Layered(bottom, top [metatile.TilesPerLayer]uint16) metatile.Content {
	var c metatile.Content
	for i := range bottom {
		c[i] = metatile.Tile{TileID: bottom[i]}
		c[i+metatile.TilesPerLayer] = metatile.Tile{TileID: top[i]}
	}
	return c
}

// NewHost creates an in-memory host and fails the test on bad arguments.
func NewHost(t *testing.T, numPrimary, numSecondary, width, height int) *host.Memory {
	t.Helper()
	if numPrimary+numSecondary <= 0 {
		t.Fatalf("host needs at least one metatile, got %d+%d", numPrimary, numSecondary)
	}
	return host.NewMemory(numPrimary, numSecondary, width, height)
}

// MustSet writes content into a slot of h.
func MustSet(t *testing.T, h *host.Memory, id metatile.ID, c metatile.Content) {
	t.Helper()
	if err := h.SetContent(id, c); err != nil {
		t.Fatalf("set metatile %d: %v", id, err)
	}
}

// MustBlock writes a block into the map of h.
func MustBlock(t *testing.T, h *host.Memory, x, y int, b metatile.Block) {
	t.Helper()
	if err := h.SetBlock(x, y, b); err != nil {
		t.Fatalf("set block (%d, %d): %v", x, y, err)
	}
}

// SetupMergeScenario returns a 16+16 slot host where slot 5 holds the
// bottom layer {a,b,c,d}, slot 9 holds the top layer {e,f,g,h}, and every
// other slot is blank. When withComposite is set, slot 12 already holds the
// merged content {a,b,c,d,e,f,g,h}.
//
// Every map cell references slot 1 so that no scenario slot looks blank-referenced.
// Slot 1 is given a single non-blank tile so it never counts as free.
func SetupMergeScenario(t *testing.T, withComposite bool) *host.Memory {
	t.Helper()
	h := NewHost(t, 16, 16, 4, 4)
	MustSet(t, h, 1, Content(99))
	MustSet(t, h, ScenarioBottom, Layered([4]uint16{TileA, TileB, TileC, TileD}, [4]uint16{}))
	MustSet(t, h, ScenarioTop, Layered([4]uint16{}, [4]uint16{TileE, TileF, TileG, TileH}))
	if withComposite {
		MustSet(t, h, ScenarioComposite, ScenarioCompositeContent())
	}
	h.Fill(metatile.Block{MetatileID: 1})
	return h
}

// ScenarioCompositeContent is the merge of ScenarioBottom over ScenarioTop.
func ScenarioCompositeContent() metatile.Content {
	return Layered(
		[4]uint16{TileA, TileB, TileC, TileD},
		[4]uint16{TileE, TileF, TileG, TileH},
	)
}
