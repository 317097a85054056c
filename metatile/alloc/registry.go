package alloc

import (
	"fmt"

	"github.com/joshuapare/metatilekit/metatile"
)

// Registry is the free-slot cache consulted when a merge needs a new slot.
type Registry struct {
	acc         metatile.Accessor
	searchStart metatile.ID
	free        Stack
}

// NewRegistry creates an empty registry. Call Rebuild to populate it.
//
// Parameters:
//   - acc: tileset accessor used by Rebuild
//   - searchStart: IDs at or below this value are never considered free
func NewRegistry(acc metatile.Accessor, searchStart metatile.ID) (*Registry, error) {
	if searchStart < 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadSearchStart, searchStart)
	}
	return &Registry{acc: acc, searchStart: searchStart}, nil
}

// NewRegistryFrom creates a registry holding ids in the given order. The last
// element is handed out first. IDs are not checked against the tileset.
func NewRegistryFrom(acc metatile.Accessor, searchStart metatile.ID, ids []metatile.ID) (*Registry, error) {
	r, err := NewRegistry(acc, searchStart)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		r.free.Push(id)
	}
	return r, nil
}

// Rebuild discards the current contents and rescans slots max-1 down to
// (exclusive) the search start, pushing each fully blank slot.
//
// On error the previous contents are kept.
func (r *Registry) Rebuild(max int) error {
	var blank []metatile.ID
	for id := metatile.ID(max - 1); id > r.searchStart; id-- {
		ok, err := metatile.IsBlank(r.acc, id)
		if err != nil {
			return fmt.Errorf("rebuild free slots: %w", err)
		}
		if ok {
			blank = append(blank, id)
		}
	}

	r.free.Reset()
	for _, id := range blank {
		r.free.Push(id)
	}
	return nil
}

// Take removes and returns the next free slot.
// Returns ErrNoFreeSlot when the registry is empty.
func (r *Registry) Take() (metatile.ID, error) {
	id, ok := r.free.Pop()
	if !ok {
		return 0, ErrNoFreeSlot
	}
	return id, nil
}

// Release puts id back on the tail so the next Take returns it.
// Only used to undo a Take whose slot write failed.
func (r *Registry) Release(id metatile.ID) {
	r.free.Push(id)
}

// Next returns the slot the next Take would return, without removing it.
func (r *Registry) Next() (metatile.ID, bool) {
	return r.free.Peek()
}

// Len returns the number of free slots currently known.
func (r *Registry) Len() int {
	return r.free.Len()
}

// SearchStart returns the exclusive lower bound of the free-slot scan.
func (r *Registry) SearchStart() metatile.ID {
	return r.searchStart
}

// Snapshot returns the registry contents, next-to-be-taken last.
func (r *Registry) Snapshot() []metatile.ID {
	return r.free.Snapshot()
}
