package main

import (
	"fmt"
	"strconv"

	"github.com/joshuapare/metatilekit/internal/config"
	"github.com/joshuapare/metatilekit/internal/host"
	"github.com/joshuapare/metatilekit/internal/lock"
	"github.com/joshuapare/metatilekit/internal/logger"
	"github.com/joshuapare/metatilekit/internal/project"
	"github.com/joshuapare/metatilekit/metatile"
	"github.com/joshuapare/metatilekit/metatile/engine"
	"github.com/joshuapare/metatilekit/metatile/index"
)

// session is one project opened for a command: the decoded file, its
// in-memory host and an engine bound to it.
type session struct {
	path string
	file *project.File
	host *host.Memory
	eng  *engine.Engine
	lock *lock.Lock
}

// openSession loads the project at path. Writable sessions hold the project
// lock until close.
func openSession(path string, writable bool, obs engine.Observer) (*session, error) {
	s := &session{path: path}
	if writable {
		l, err := lock.Acquire(path)
		if err != nil {
			return nil, err
		}
		s.lock = l
	}

	if err := s.load(obs); err != nil {
		s.close()
		return nil, err
	}
	return s, nil
}

func (s *session) load(obs engine.Observer) error {
	f, err := project.Load(s.path)
	if err != nil {
		return fmt.Errorf("failed to load project: %w", err)
	}
	h, err := f.Host()
	if err != nil {
		return err
	}

	opt, err := engineOptions(currentConfig())
	if err != nil {
		return err
	}
	opt.Observer = obs
	opt.Tileset = f.TilesetName()

	eng, err := engine.New(h, opt)
	if err != nil {
		return fmt.Errorf("failed to start engine: %w", err)
	}
	restored := eng.Protect(f.ProtectedIDs()...)
	eng.OnProjectOpened(s.path)

	s.file, s.host, s.eng = f, h, eng
	printVerbose("Opened %s: %d metatiles, %dx%d map, %d protected\n",
		s.path, metatile.MaxMetatiles(h), h.Width(), h.Height(), restored)
	return nil
}

// reload re-reads the project from disk into the existing host and tells the
// engine the tilesets changed. A ledger saved for the same tileset pair is
// restored after the reset.
func (s *session) reload() error {
	f, err := project.Load(s.path)
	if err != nil {
		return fmt.Errorf("failed to reload project: %w", err)
	}
	h, err := f.Host()
	if err != nil {
		return err
	}
	s.host.Assign(h)
	s.file = f
	if err := s.eng.OnTilesetReloaded(f.TilesetName()); err != nil {
		return err
	}
	s.eng.Protect(f.ProtectedIDs()...)
	return nil
}

// save writes the host state and the engine's ledger back to the project file.
func (s *session) save() error {
	if err := s.file.Update(s.host); err != nil {
		return err
	}
	s.file.SetProtected(s.eng.Protected())
	if err := project.Save(s.path, s.file); err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	logger.Debug("project saved", "path", s.path)
	return nil
}

// printMatcherStats reports matcher usage in verbose mode.
func (s *session) printMatcherStats() {
	st := s.eng.Stats()
	printVerbose("Matcher %s: %d lookups, %d builds, %d stale\n",
		st.Matcher, st.Index.Lookups, st.Index.Builds, st.Index.Stale)
}

func (s *session) close() {
	if err := s.lock.Release(); err != nil {
		logger.Warn("release lock", "path", s.path, "error", err)
	}
	s.lock = nil
}

// engineOptions maps the engine section of the config to engine.Options.
func engineOptions(c *config.Config) (engine.Options, error) {
	opt := engine.DefaultOptions()
	opt.SearchStart = metatile.ID(c.SearchStartOr(int(opt.SearchStart)))
	kind, err := index.ParseKind(c.Engine.Matcher)
	if err != nil {
		return opt, err
	}
	opt.Matcher = kind
	opt.Logger = logger.L
	return opt, nil
}

// parseID parses a metatile ID argument.
func parseID(s string) (metatile.ID, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid metatile id %q", s)
	}
	if id < 0 {
		return 0, fmt.Errorf("invalid metatile id %q: must be >= 0", s)
	}
	return metatile.ID(id), nil
}
