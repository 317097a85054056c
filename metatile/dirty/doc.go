// Package dirty records which metatile slots and map cells an engine event
// modified, so the host is asked to redraw and commit once per event.
//
// # Overview
//
// Merges write one slot and one map cell; a cleanup pass may blank hundreds
// of slots. Instead of having every writer talk to the host, writers report
// to a Recorder and the event handler flushes the Tracker at the end:
//
//	dt := dirty.NewTracker()
//	m := merge.New(acc, matcher, free, dt)
//	// ... merge, SetBlock, dt.MarkBlock(x, y) ...
//	if err := dt.Flush(host); err != nil {
//	    return err
//	}
//
// Flush is a no-op when nothing was recorded, so an event that changed
// nothing never produces an empty commit.
//
// # Thread Safety
//
// Tracker instances are not thread-safe. The engine serializes access.
package dirty
