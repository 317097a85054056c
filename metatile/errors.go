package metatile

import "errors"

var (
	// ErrExhausted indicates that no free metatile exists within the search range.
	ErrExhausted = errors.New("metatile: no free metatile in search range")

	// ErrBadID indicates a metatile ID outside [0, MaxMetatiles).
	ErrBadID = errors.New("metatile: metatile id out of range")

	// ErrBadRange indicates a tile index range outside [FirstTile, LastTile] or inverted.
	ErrBadRange = errors.New("metatile: tile range out of bounds")

	// ErrOutOfBounds indicates a map coordinate outside the grid.
	ErrOutOfBounds = errors.New("metatile: map coordinate out of bounds")

	// ErrTileCount indicates a tile slice whose length does not match its index range.
	ErrTileCount = errors.New("metatile: tile count does not match range")
)
