package engine

import "github.com/joshuapare/metatilekit/metatile"

// Host is everything the engine needs from the editor it runs inside.
type Host interface {
	metatile.Accessor

	// Redraw asks the editor to repaint the map.
	Redraw()

	// Commit records the pending changes (undo history, dirty flag).
	Commit() error

	// ShowError displays a non-fatal error to the user.
	ShowError(title, summary, detail string)

	// RegisterAction adds a user-triggerable action to the editor.
	RegisterAction(name, label string)
}

// Cleanup action registered by OnProjectOpened.
const (
	CleanupActionName  = "onFreeTilesetPressed"
	CleanupActionLabel = "Free unused metatiles"
)

// Exhaustion message shown through Host.ShowError.
const (
	exhaustedTitle   = "No more free metatiles found."
	exhaustedSummary = "There isn't any free metatile within the search range for a new one."
	exhaustedDetail  = "Consider freeing unused sprites, or increasing the number of metatiles in both the primary and secondary tilesets."
)
