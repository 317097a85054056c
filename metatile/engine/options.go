package engine

import (
	"log/slog"

	"github.com/joshuapare/metatilekit/metatile"
	"github.com/joshuapare/metatilekit/metatile/index"
)

// Options configures an Engine.
//
// Use DefaultOptions() for the standard setup.
type Options struct {
	// SearchStart is the exclusive lower bound of the free-slot scan.
	// Default: metatile.BlankID
	// Set to the last primary ID to allocate only in the secondary tileset.
	SearchStart metatile.ID

	// Matcher selects the content matcher.
	// Default: index.KindLinear
	Matcher index.Kind

	// Tileset names the tileset pair loaded by New. Only used in logs and Stats.
	Tileset string

	// Logger receives structured event logs. Nil discards them.
	Logger *slog.Logger

	// Observer receives event outcomes for metrics. Nil disables it.
	Observer Observer
}

// DefaultOptions returns the standard engine options.
func DefaultOptions() Options {
	return Options{
		SearchStart: metatile.BlankID,
		Matcher:     index.KindLinear,
	}
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.DiscardHandler)
}

func (o Options) observer() Observer {
	if o.Observer != nil {
		return o.Observer
	}
	return nopObserver{}
}
