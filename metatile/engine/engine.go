package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/joshuapare/metatilekit/metatile"
	"github.com/joshuapare/metatilekit/metatile/alloc"
	"github.com/joshuapare/metatilekit/metatile/dirty"
	"github.com/joshuapare/metatilekit/metatile/index"
	"github.com/joshuapare/metatilekit/metatile/ledger"
	"github.com/joshuapare/metatilekit/metatile/merge"
	"github.com/joshuapare/metatilekit/metatile/usage"
)

// Engine is one metatile allocation context, bound to a host and its active
// tileset pair.
type Engine struct {
	mu   sync.Mutex
	host Host
	opt  Options
	log  *slog.Logger
	obs  Observer

	max       int
	tileset   string
	free      *alloc.Registry
	protected *ledger.Ledger
	matcher   index.Matcher
	merger    *merge.Merger
	dt        *dirty.Tracker

	counters Counters
}

// Change describes what OnBlockChanged did.
type Change struct {
	// Verdict is the gate result.
	Verdict merge.Verdict

	// Merged is true when the cell was rewritten with a composite.
	Merged bool

	// Result is the merge result; valid when Merged.
	Result merge.Result

	// Block is the cell as written back; valid when Merged.
	Block metatile.Block
}

// CleanupReport describes what OnCleanupRequested did.
type CleanupReport struct {
	// Unused lists every slot no map cell referenced, ascending.
	Unused []metatile.ID

	usage.Report
}

// Counters are running event totals since the engine was created.
type Counters struct {
	Skipped   int `json:"skipped"`
	Reused    int `json:"reused"`
	Allocated int `json:"allocated"`
	Exhausted int `json:"exhausted"`
	Failed    int `json:"failed"`
	Reloads   int `json:"reloads"`
	Cleanups  int `json:"cleanups"`
	Blanked   int `json:"blanked"`
}

// Stats is a point-in-time view of the engine.
type Stats struct {
	Tileset      string      `json:"tileset"`
	MaxMetatiles int         `json:"max_metatiles"`
	FreeSlots    int         `json:"free_slots"`
	Protected    int         `json:"protected"`
	SearchStart  metatile.ID `json:"search_start"`
	Matcher      string      `json:"matcher"`
	Index        index.Stats `json:"index"`
	Counters     Counters    `json:"counters"`
}

// New creates an engine for h and runs the initial load of the tileset pair
// named by opt.Tileset (the same work as OnTilesetReloaded). Callers do not
// need to call OnTilesetReloaded before the first event.
func New(h Host, opt Options) (*Engine, error) {
	free, err := alloc.NewRegistry(h, opt.SearchStart)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		host:      h,
		opt:       opt,
		log:       opt.logger(),
		obs:       opt.observer(),
		free:      free,
		protected: ledger.New(),
		dt:        dirty.NewTracker(),
	}
	if err := e.reload(opt.Tileset); err != nil {
		return nil, err
	}
	e.log.Debug("engine started",
		"tileset", e.tileset,
		"max_metatiles", e.max,
		"free_slots", e.free.Len(),
		"matcher", opt.Matcher.String(),
	)
	e.observeState()
	return e, nil
}

// reload recomputes the slot count, rebuilds the registry and clears the ledger.
// On error the previous state is kept.
func (e *Engine) reload(name string) error {
	max := metatile.MaxMetatiles(e.host)
	if err := e.free.Rebuild(max); err != nil {
		return err
	}

	e.max = max
	e.tileset = name
	e.matcher = index.New(e.opt.Matcher, e.host, max)
	e.merger = merge.New(e.host, e.matcher, e.free, e.dt)
	e.protected.Reset()
	e.dt.Reset()
	e.counters.Reloads++
	return nil
}

// OnProjectOpened registers the cleanup action with the host.
func (e *Engine) OnProjectOpened(path string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.host.RegisterAction(CleanupActionName, CleanupActionLabel)
	e.log.Info("project opened", "path", path, "action", CleanupActionName)
}

// OnTilesetReloaded handles a tileset switch or a tileset-editor save:
// the slot count is recomputed, the ledger cleared and the registry rebuilt.
func (e *Engine) OnTilesetReloaded(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.reload(name); err != nil {
		e.log.Error("tileset reload failed", "tileset", name, "error", err)
		return fmt.Errorf("reload tileset %q: %w", name, err)
	}

	e.log.Info("tileset reloaded",
		"tileset", name,
		"max_metatiles", e.max,
		"free_slots", e.free.Len(),
		"search_start", int(e.free.SearchStart()),
	)
	e.observeState()
	return nil
}

// Protect adds ids to the protected ledger, typically to restore the ledger
// of an earlier session on the same tileset pair. IDs outside the slot range
// are ignored. Returns how many IDs were newly protected.
func (e *Engine) Protect(ids ...metatile.ID) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	added := 0
	for _, id := range ids {
		if id < 0 || int(id) >= e.max {
			e.log.Debug("protected id out of range", "metatile", int(id), "max_metatiles", e.max)
			continue
		}
		added += e.protected.Protect(id)
	}
	if added > 0 {
		e.observeState()
	}
	return added
}

// OnBlockChanged handles a painted cell. prev is the cell before the edit and
// next the cell the user painted.
//
// When the gate passes, the cell at (x, y) is rewritten with the composite of
// next's bottom layer over prev's top layer, keeping next's collision and
// elevation. Both sources and the placed slot are protected from cleanup.
//
// Exhaustion is reported through Host.ShowError, the edit is left as the user
// made it, and the returned error wraps metatile.ErrExhausted.
func (e *Engine) OnBlockChanged(x, y int, prev, next metatile.Block) (Change, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	verdict, err := merge.Gate(e.host, prev, next)
	if err != nil {
		return Change{}, e.failMerge(x, y, err)
	}
	ch := Change{Verdict: verdict}
	if verdict != merge.Eligible {
		e.counters.Skipped++
		e.obs.ObserveMerge(OutcomeSkipped, verdict)
		e.log.Debug("merge skipped", "x", x, "y", y, "reason", verdict.String())
		return ch, nil
	}

	res, err := e.merger.Merge(next.MetatileID, prev.MetatileID)
	if errors.Is(err, metatile.ErrExhausted) {
		e.counters.Exhausted++
		e.obs.ObserveMerge(OutcomeExhausted, verdict)
		e.log.Warn("no free metatile",
			"x", x, "y", y,
			"bottom", int(next.MetatileID), "top", int(prev.MetatileID),
		)
		e.host.ShowError(exhaustedTitle, exhaustedSummary, exhaustedDetail)
		return ch, fmt.Errorf("block changed at (%d, %d): %w", x, y, err)
	}
	if err != nil {
		return ch, e.failMerge(x, y, err)
	}

	placed := metatile.Block{
		MetatileID: res.ID,
		Collision:  next.Collision,
		Elevation:  next.Elevation,
	}
	if err := e.host.SetBlock(x, y, placed); err != nil {
		e.undoAllocation(res)
		return ch, e.failMerge(x, y, err)
	}
	e.dt.MarkBlock(x, y)
	e.protected.Protect(prev.MetatileID, next.MetatileID, res.ID)

	if res.Reused {
		e.counters.Reused++
		e.obs.ObserveMerge(OutcomeReused, verdict)
	} else {
		e.counters.Allocated++
		e.obs.ObserveMerge(OutcomeAllocated, verdict)
	}
	e.log.Info("blocks merged",
		"x", x, "y", y,
		"bottom", int(next.MetatileID), "top", int(prev.MetatileID),
		"metatile", int(res.ID), "reused", res.Reused,
	)

	ch.Merged = true
	ch.Result = res
	ch.Block = placed

	if err := e.flush(); err != nil {
		e.observeState()
		return ch, fmt.Errorf("block changed at (%d, %d): %w", x, y, err)
	}
	e.observeState()
	return ch, nil
}

// Merge composes bottom's bottom layer with top's top layer without touching
// the map. Both sources and the result are protected from cleanup.
func (e *Engine) Merge(bottom, top metatile.ID) (merge.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	res, err := e.merger.Merge(bottom, top)
	if err != nil {
		if errors.Is(err, metatile.ErrExhausted) {
			e.counters.Exhausted++
			e.obs.ObserveMerge(OutcomeExhausted, merge.Eligible)
		} else {
			e.counters.Failed++
			e.obs.ObserveMerge(OutcomeFailed, merge.Eligible)
		}
		return res, err
	}

	e.protected.Protect(bottom, top, res.ID)
	if res.Reused {
		e.counters.Reused++
		e.obs.ObserveMerge(OutcomeReused, merge.Eligible)
	} else {
		e.counters.Allocated++
		e.obs.ObserveMerge(OutcomeAllocated, merge.Eligible)
	}
	e.log.Info("metatiles merged", "bottom", int(bottom), "top", int(top), "metatile", int(res.ID), "reused", res.Reused)

	err = e.flush()
	e.observeState()
	return res, err
}

// OnCleanupRequested blanks every slot that no map cell references and that
// is not protected. Blanked slots stay out of the free-slot registry until
// the next tileset reload.
//
// A host write failure stops the cleanup. Slots blanked before the failure
// stay blank and are committed; the report lists them.
func (e *Engine) OnCleanupRequested(ctx context.Context) (CleanupReport, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var rep CleanupReport
	unused, err := usage.FindUnused(ctx, e.host, e.max)
	if err != nil {
		return rep, fmt.Errorf("find unused metatiles: %w", err)
	}
	rep.Unused = unused

	rep.Report, err = usage.Reclaim(e.host, unused, e.protected, e.dt)
	if len(rep.Blanked) > 0 {
		e.matcher.Invalidate()
	}
	e.counters.Cleanups++
	e.counters.Blanked += len(rep.Blanked)
	if err != nil {
		e.log.Error("cleanup stopped", "blanked", len(rep.Blanked), "error", err)
		if ferr := e.flush(); ferr != nil {
			err = errors.Join(err, ferr)
		}
		e.observeState()
		return rep, fmt.Errorf("reclaim unused metatiles: %w", err)
	}

	e.log.Info("unused metatiles freed",
		"unused", len(rep.Unused),
		"blanked", len(rep.Blanked),
		"protected", len(rep.Protected),
		"already_blank", len(rep.Skipped),
	)
	e.obs.ObserveCleanup(len(rep.Unused), len(rep.Blanked), len(rep.Protected))

	err = e.flush()
	e.observeState()
	return rep, err
}

// Stats returns a snapshot of the engine state.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	return Stats{
		Tileset:      e.tileset,
		MaxMetatiles: e.max,
		FreeSlots:    e.free.Len(),
		Protected:    e.protected.Len(),
		SearchStart:  e.free.SearchStart(),
		Matcher:      e.opt.Matcher.String(),
		Index:        e.matcher.Stats(),
		Counters:     e.counters,
	}
}

// NextFree returns the slot the next fresh allocation would claim.
func (e *Engine) NextFree() (metatile.ID, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.free.Next()
}

// FreeSlots returns the registry contents; the last element is claimed next.
func (e *Engine) FreeSlots() []metatile.ID {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.free.Snapshot()
}

// Protected returns the protected IDs in ascending order.
func (e *Engine) Protected() []metatile.ID {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.protected.IDs()
}

// MaxMetatiles returns the slot count of the active tileset pair.
func (e *Engine) MaxMetatiles() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.max
}

// failMerge records an accessor failure during a block change.
func (e *Engine) failMerge(x, y int, err error) error {
	e.counters.Failed++
	e.obs.ObserveMerge(OutcomeFailed, merge.Eligible)
	e.log.Error("merge failed", "x", x, "y", y, "error", err)
	return fmt.Errorf("block changed at (%d, %d): %w", x, y, err)
}

// undoAllocation reverts a fresh allocation whose cell write failed: the slot
// is blanked again and returned to the registry.
func (e *Engine) undoAllocation(res merge.Result) {
	e.dt.Reset()
	if res.Reused {
		return
	}
	if err := metatile.WriteContent(e.host, res.ID, metatile.BlankContent()); err != nil {
		e.log.Error("revert allocation failed", "metatile", int(res.ID), "error", err)
		return
	}
	e.matcher.Invalidate()
	e.free.Release(res.ID)
}

// flush commits the changes recorded for the current event.
func (e *Engine) flush() error {
	if e.dt.Dirty() {
		e.log.Debug("commit", "slots", e.dt.Slots(), "cells", e.dt.Blocks())
	}
	return e.dt.Flush(e.host)
}

func (e *Engine) observeState() {
	e.obs.ObserveState(e.max, e.free.Len(), e.protected.Len())
}
