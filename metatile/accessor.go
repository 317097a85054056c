package metatile

import "fmt"

// Accessor is the host's view of tileset and map storage.
//
// Implementations must validate every call: an ID outside
// [0, NumPrimaryMetatiles()+NumSecondaryMetatiles()) returns ErrBadID, a tile
// range outside [FirstTile, LastTile] returns ErrBadRange, and a coordinate
// outside the grid returns ErrOutOfBounds.
//
// Ranges are inclusive on both ends, matching the host editors this mirrors.
type Accessor interface {
	// MetatileTiles returns tiles first..last of metatile id.
	MetatileTiles(id ID, first, last int) ([]Tile, error)

	// SetMetatileTiles writes tiles into indices first..last of metatile id.
	// len(tiles) must equal last-first+1.
	SetMetatileTiles(id ID, tiles []Tile, first, last int) error

	// Block returns the map cell at column x, row y.
	Block(x, y int) (Block, error)

	// SetBlock overwrites the map cell at column x, row y.
	SetBlock(x, y int, b Block) error

	// Width is the number of map columns.
	Width() int

	// Height is the number of map rows.
	Height() int

	// NumPrimaryMetatiles is the slot count of the primary tileset.
	NumPrimaryMetatiles() int

	// NumSecondaryMetatiles is the slot count of the secondary tileset.
	NumSecondaryMetatiles() int
}

// MaxMetatiles returns the total slot count of the active tileset pair.
func MaxMetatiles(acc Accessor) int {
	return acc.NumPrimaryMetatiles() + acc.NumSecondaryMetatiles()
}

// CheckRange validates an inclusive tile index range.
func CheckRange(first, last int) error {
	if first < FirstTile || last > LastTile || first > last {
		return fmt.Errorf("%w: [%d, %d]", ErrBadRange, first, last)
	}
	return nil
}

// ReadContent reads all eight tiles of id.
func ReadContent(acc Accessor, id ID) (Content, error) {
	tiles, err := acc.MetatileTiles(id, FirstTile, LastTile)
	if err != nil {
		return Content{}, fmt.Errorf("read metatile %d: %w", id, err)
	}
	return ContentFrom(tiles)
}

// ReadLayer reads the four tiles of one layer of id.
func ReadLayer(acc Accessor, id ID, l Layer) ([]Tile, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrBadRange, l)
	}
	first, last := l.Bounds()
	tiles, err := acc.MetatileTiles(id, first, last)
	if err != nil {
		return nil, fmt.Errorf("read %s layer of metatile %d: %w", l, id, err)
	}
	if len(tiles) != TilesPerLayer {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrTileCount, len(tiles), TilesPerLayer)
	}
	return tiles, nil
}

// IsLayerBlank reports whether every tile of layer l in metatile id is blank.
func IsLayerBlank(acc Accessor, id ID, l Layer) (bool, error) {
	tiles, err := ReadLayer(acc, id, l)
	if err != nil {
		return false, err
	}
	return allBlank(tiles), nil
}

// IsBlank reports whether both layers of metatile id are blank.
func IsBlank(acc Accessor, id ID) (bool, error) {
	for _, l := range []Layer{LayerBottom, LayerTop} {
		blank, err := IsLayerBlank(acc, id, l)
		if err != nil || !blank {
			return false, err
		}
	}
	return true, nil
}

// WriteContent writes all eight tiles of c into metatile id.
func WriteContent(acc Accessor, id ID, c Content) error {
	if err := acc.SetMetatileTiles(id, c.Tiles(), FirstTile, LastTile); err != nil {
		return fmt.Errorf("write metatile %d: %w", id, err)
	}
	return nil
}
