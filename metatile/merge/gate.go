package merge

import (
	"github.com/joshuapare/metatilekit/metatile"
)

// Verdict is the outcome of the eligibility gate.
type Verdict int

const (
	// Eligible means the change should be merged.
	Eligible Verdict = iota

	// SkipSameMetatile means both blocks reference the same slot.
	SkipSameMetatile

	// SkipBlankMetatile means one of the blocks references metatile.BlankID.
	SkipBlankMetatile

	// SkipBottomOccupied means the previous block's bottom layer is not blank.
	SkipBottomOccupied

	// SkipTopOccupied means the new block's top layer is not blank.
	SkipTopOccupied
)

func (v Verdict) String() string {
	switch v {
	case Eligible:
		return "eligible"
	case SkipSameMetatile:
		return "same metatile"
	case SkipBlankMetatile:
		return "blank metatile"
	case SkipBottomOccupied:
		return "bottom layer occupied"
	case SkipTopOccupied:
		return "top layer occupied"
	default:
		return "unknown"
	}
}

// Gate applies the merge-trigger policy to a block change from prev to next.
func Gate(acc metatile.Accessor, prev, next metatile.Block) (Verdict, error) {
	if prev.MetatileID == metatile.BlankID || next.MetatileID == metatile.BlankID {
		return SkipBlankMetatile, nil
	}
	if prev.MetatileID == next.MetatileID {
		return SkipSameMetatile, nil
	}

	blank, err := metatile.IsLayerBlank(acc, prev.MetatileID, metatile.LayerBottom)
	if err != nil {
		return 0, err
	}
	if !blank {
		return SkipBottomOccupied, nil
	}

	blank, err = metatile.IsLayerBlank(acc, next.MetatileID, metatile.LayerTop)
	if err != nil {
		return 0, err
	}
	if !blank {
		return SkipTopOccupied, nil
	}

	return Eligible, nil
}
