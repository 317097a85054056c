package dirty

import "github.com/joshuapare/metatilekit/metatile"

// Recorder is the minimal interface for components that modify slots or cells
// but do not decide when the host commits (merger, cleanup).
type Recorder interface {
	// MarkSlot records that the tiles of id were rewritten.
	MarkSlot(id metatile.ID)

	// MarkBlock records that the map cell at (x, y) was rewritten.
	MarkBlock(x, y int)
}

// Flusher is the host side of a flush.
type Flusher interface {
	Redraw()
	Commit() error
}
