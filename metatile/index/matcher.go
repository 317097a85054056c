package index

import (
	"fmt"
	"strings"

	"github.com/joshuapare/metatilekit/metatile"
)

// Matcher looks up a slot whose content matches c by tile identity.
type Matcher interface {
	// Find returns the lowest matching ID and true, or false when nothing matches.
	Find(c metatile.Content) (metatile.ID, bool, error)

	// Invalidate tells the matcher that slot content changed.
	Invalidate()

	// Stats returns usage counters since the matcher was created.
	Stats() Stats
}

// Stats reports how a Matcher has been used.
type Stats struct {
	Lookups int `json:"lookups"` // Find calls
	Builds  int `json:"builds"`  // full table builds
	Stale   int `json:"stale"`   // hits that no longer matched the live slot
}

// Kind selects a Matcher implementation.
type Kind int

const (
	// KindLinear scans every slot on every lookup.
	KindLinear Kind = iota

	// KindHashed keeps a lazily built content table.
	KindHashed
)

func (k Kind) String() string {
	switch k {
	case KindLinear:
		return "linear"
	case KindHashed:
		return "hashed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind converts a configuration string into a Kind.
// The empty string selects KindLinear.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "linear":
		return KindLinear, nil
	case "hashed", "hash":
		return KindHashed, nil
	default:
		return KindLinear, fmt.Errorf("unknown matcher %q (want linear or hashed)", s)
	}
}

// New creates a matcher of the given kind over slots 0..max-1.
func New(kind Kind, acc metatile.Accessor, max int) Matcher {
	if kind == KindHashed {
		return NewHashed(acc, max)
	}
	return NewLinear(acc, max)
}
