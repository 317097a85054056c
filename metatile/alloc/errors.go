package alloc

import "errors"

var (
	// ErrNoFreeSlot indicates that the registry is empty.
	ErrNoFreeSlot = errors.New("alloc: no free metatile")

	// ErrBadSearchStart indicates a negative search start.
	ErrBadSearchStart = errors.New("alloc: search start must be >= 0")
)
