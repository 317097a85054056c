package usage

import (
	"context"
	"fmt"

	"github.com/joshuapare/metatilekit/metatile"
)

// FindUnused returns, in ascending order, every ID in [0, max) that no map
// cell references.
func FindUnused(ctx context.Context, acc metatile.Accessor, max int) ([]metatile.ID, error) {
	var unused []metatile.ID
	height, width := acc.Height(), acc.Width()

	for id := metatile.ID(0); int(id) < max; id++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		used, err := referenced(acc, id, width, height)
		if err != nil {
			return nil, err
		}
		if !used {
			unused = append(unused, id)
		}
	}
	return unused, nil
}

// referenced reports whether any cell references id, stopping at the first hit.
func referenced(acc metatile.Accessor, id metatile.ID, width, height int) (bool, error) {
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			b, err := acc.Block(x, y)
			if err != nil {
				return false, fmt.Errorf("scan cell (%d, %d): %w", x, y, err)
			}
			if b.MetatileID == id {
				return true, nil
			}
		}
	}
	return false, nil
}

// Counts returns how many cells reference each ID in [0, max). Cells
// referencing IDs outside that range are tallied in outOfRange.
func Counts(ctx context.Context, acc metatile.Accessor, max int) (counts []int, outOfRange int, err error) {
	counts = make([]int, max)
	height, width := acc.Height(), acc.Width()

	for y := 0; y < height; y++ {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		for x := 0; x < width; x++ {
			b, err := acc.Block(x, y)
			if err != nil {
				return nil, 0, fmt.Errorf("count cell (%d, %d): %w", x, y, err)
			}
			id := int(b.MetatileID)
			if id < 0 || id >= max {
				outOfRange++
				continue
			}
			counts[id]++
		}
	}
	return counts, outOfRange, nil
}
