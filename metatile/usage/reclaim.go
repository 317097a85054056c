package usage

import (
	"github.com/joshuapare/metatilekit/metatile"
	"github.com/joshuapare/metatilekit/metatile/dirty"
)

// Protector reports whether a slot must survive cleanup.
// *ledger.Ledger satisfies it.
type Protector interface {
	Contains(id metatile.ID) bool
}

// Report describes one Reclaim pass.
type Report struct {
	Blanked   []metatile.ID // slots rewritten to blank, ascending
	Protected []metatile.ID // unused slots kept because they are protected
	Skipped   []metatile.ID // unused slots already blank, left untouched
}

// Reclaim blanks every ID in unused that protected does not contain.
// Each candidate is checked individually against protected.
//
// Slots that are already blank are reported in Skipped and not rewritten.
// On an accessor error the report covers the slots processed so far.
//
// Parameters:
//   - acc: tileset accessor
//   - unused: candidate IDs, normally from FindUnused
//   - protected: IDs to keep (can be nil)
//   - dt: recorder notified of each blanked slot (can be nil)
func Reclaim(acc metatile.Accessor, unused []metatile.ID, protected Protector, dt dirty.Recorder) (Report, error) {
	var rep Report
	blank := metatile.BlankContent()

	for _, id := range unused {
		if protected != nil && protected.Contains(id) {
			rep.Protected = append(rep.Protected, id)
			continue
		}

		already, err := metatile.IsBlank(acc, id)
		if err != nil {
			return rep, err
		}
		if already {
			rep.Skipped = append(rep.Skipped, id)
			continue
		}

		if err := metatile.WriteContent(acc, id, blank); err != nil {
			return rep, err
		}
		rep.Blanked = append(rep.Blanked, id)
		if dt != nil {
			dt.MarkSlot(id)
		}
	}
	return rep, nil
}
