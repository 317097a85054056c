package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/metatilekit/internal/testutil"
	"github.com/joshuapare/metatilekit/metatile"
)

// TestRegistry_RebuildOrder verifies that Rebuild pushes free slots high to
// low so the lowest free ID is taken first.
func TestRegistry_RebuildOrder(t *testing.T) {
	h := testutil.NewHost(t, 4, 4, 1, 1)
	for _, id := range []metatile.ID{1, 3, 4} {
		testutil.MustSet(t, h, id, testutil.Content(7))
	}

	r, err := NewRegistry(h, metatile.BlankID)
	require.NoError(t, err)
	require.NoError(t, r.Rebuild(metatile.MaxMetatiles(h)))

	assert.Equal(t, []metatile.ID{7, 6, 5, 2}, r.Snapshot())

	for _, want := range []metatile.ID{2, 5, 6, 7} {
		id, err := r.Take()
		require.NoError(t, err)
		assert.Equal(t, want, id)
	}

	_, err = r.Take()
	require.ErrorIs(t, err, ErrNoFreeSlot)
}

// TestRegistry_SkipsSearchStart verifies that the blank slot and everything
// at or below the search start is never offered.
func TestRegistry_SkipsSearchStart(t *testing.T) {
	h := testutil.NewHost(t, 8, 8, 1, 1)

	tests := []struct {
		name        string
		searchStart metatile.ID
		wantLowest  metatile.ID
		wantLen     int
	}{
		{name: "default blank id", searchStart: metatile.BlankID, wantLowest: 1, wantLen: 15},
		{name: "secondary tileset only", searchStart: 7, wantLowest: 8, wantLen: 8},
		{name: "whole range reserved", searchStart: 15, wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRegistry(h, tt.searchStart)
			require.NoError(t, err)
			require.NoError(t, r.Rebuild(metatile.MaxMetatiles(h)))
			require.Equal(t, tt.wantLen, r.Len())
			if tt.wantLen == 0 {
				return
			}
			id, err := r.Take()
			require.NoError(t, err)
			assert.Equal(t, tt.wantLowest, id)
			assert.NotContains(t, r.Snapshot(), metatile.BlankID)
		})
	}
}

// TestRegistry_PartialLayerNotFree verifies that a slot with only one blank
// layer does not qualify.
func TestRegistry_PartialLayerNotFree(t *testing.T) {
	h := testutil.NewHost(t, 4, 0, 1, 1)
	testutil.MustSet(t, h, 1, testutil.Layered([4]uint16{1, 0, 0, 0}, [4]uint16{}))
	testutil.MustSet(t, h, 2, testutil.Layered([4]uint16{}, [4]uint16{0, 0, 0, 3}))

	r, err := NewRegistry(h, metatile.BlankID)
	require.NoError(t, err)
	require.NoError(t, r.Rebuild(4))

	assert.Equal(t, []metatile.ID{3}, r.Snapshot())
}

// TestRegistry_RebuildReplacesContents verifies that Rebuild clears stale entries.
func TestRegistry_RebuildReplacesContents(t *testing.T) {
	h := testutil.NewHost(t, 4, 0, 1, 1)
	r, err := NewRegistryFrom(h, metatile.BlankID, []metatile.ID{40, 41})
	require.NoError(t, err)

	testutil.MustSet(t, h, 2, testutil.Content(5))
	require.NoError(t, r.Rebuild(4))

	assert.Equal(t, []metatile.ID{3, 1}, r.Snapshot())
}

// TestRegistry_RebuildErrorKeepsState verifies that an accessor failure
// leaves the previous contents in place.
func TestRegistry_RebuildErrorKeepsState(t *testing.T) {
	h := testutil.NewHost(t, 4, 0, 1, 1)
	r, err := NewRegistryFrom(h, metatile.BlankID, []metatile.ID{3, 2})
	require.NoError(t, err)

	// 10 slots claimed but only 4 exist: the first read is out of range.
	err = r.Rebuild(10)
	require.ErrorIs(t, err, metatile.ErrBadID)
	assert.Equal(t, []metatile.ID{3, 2}, r.Snapshot())
}

// TestRegistry_TakeFromSeed mirrors the fresh-allocation scenario: the tail
// of [20, 15, 7] is handed out first.
func TestRegistry_TakeFromSeed(t *testing.T) {
	r, err := NewRegistryFrom(nil, metatile.BlankID, []metatile.ID{20, 15, 7})
	require.NoError(t, err)

	id, err := r.Take()
	require.NoError(t, err)
	assert.Equal(t, metatile.ID(7), id)
	assert.Equal(t, []metatile.ID{20, 15}, r.Snapshot())

	r.Release(id)
	assert.Equal(t, []metatile.ID{20, 15, 7}, r.Snapshot())
}

func TestNewRegistry_RejectsNegativeSearchStart(t *testing.T) {
	_, err := NewRegistry(nil, -1)
	require.ErrorIs(t, err, ErrBadSearchStart)
}

// TestRegistry_NoDoubleAllocation verifies that consecutive takes never
// return the same ID.
func TestRegistry_NoDoubleAllocation(t *testing.T) {
	h := testutil.NewHost(t, 32, 32, 1, 1)
	r, err := NewRegistry(h, metatile.BlankID)
	require.NoError(t, err)
	require.NoError(t, r.Rebuild(metatile.MaxMetatiles(h)))

	seen := make(map[metatile.ID]bool)
	for {
		id, err := r.Take()
		if err != nil {
			require.ErrorIs(t, err, ErrNoFreeSlot)
			break
		}
		require.False(t, seen[id], "slot %d handed out twice", id)
		seen[id] = true
	}
	assert.Len(t, seen, 63)
}

func TestRegistry_NextMatchesTake(t *testing.T) {
	h := testutil.NewHost(t, 4, 0, 1, 1)
	testutil.MustSet(t, h, 1, testutil.Content(7))

	r, err := NewRegistry(h, metatile.BlankID)
	require.NoError(t, err)
	require.NoError(t, r.Rebuild(4))

	next, ok := r.Next()
	require.True(t, ok)
	assert.Equal(t, metatile.ID(2), next)
	assert.Equal(t, 2, r.Len(), "Next must not remove the slot")

	id, err := r.Take()
	require.NoError(t, err)
	assert.Equal(t, next, id)

	// A second rebuild replaces the contents instead of appending.
	require.NoError(t, r.Rebuild(4))
	assert.Equal(t, []metatile.ID{3, 2}, r.Snapshot())

	testutil.MustSet(t, h, 2, testutil.Content(7))
	testutil.MustSet(t, h, 3, testutil.Content(7))
	require.NoError(t, r.Rebuild(4))
	_, ok = r.Next()
	assert.False(t, ok)
}
