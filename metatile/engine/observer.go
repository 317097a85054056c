package engine

import "github.com/joshuapare/metatilekit/metatile/merge"

// Outcome classifies a block-changed event.
type Outcome int

const (
	OutcomeSkipped   Outcome = iota // gate rejected the change
	OutcomeReused                   // an existing slot matched
	OutcomeAllocated                // a free slot was claimed
	OutcomeExhausted                // no match and no free slot
	OutcomeFailed                   // accessor or commit error
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeReused:
		return "reused"
	case OutcomeAllocated:
		return "allocated"
	case OutcomeExhausted:
		return "exhausted"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Observer is notified after each event. Implementations must be cheap; they
// run with the engine mutex held.
type Observer interface {
	// ObserveMerge reports a block-changed outcome. verdict is the gate
	// result and is only meaningful for OutcomeSkipped.
	ObserveMerge(outcome Outcome, verdict merge.Verdict)

	// ObserveCleanup reports a finished cleanup pass.
	ObserveCleanup(unused, blanked, protected int)

	// ObserveState reports registry and ledger sizes after any event.
	ObserveState(maxSlots, freeSlots, protectedSlots int)
}

type nopObserver struct{}

func (nopObserver) ObserveMerge(Outcome, merge.Verdict) {}
func (nopObserver) ObserveCleanup(int, int, int)        {}
func (nopObserver) ObserveState(int, int, int)          {}
