package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/joshuapare/metatilekit/metatile"
	"github.com/joshuapare/metatilekit/metatile/merge"
)

var (
	paintCollision int
	paintElevation int
)

func init() {
	cmd := newPaintCmd()
	cmd.Flags().IntVar(&paintCollision, "collision", -1, "Collision of the painted block (default: keep the cell's)")
	cmd.Flags().IntVar(&paintElevation, "elevation", -1, "Elevation of the painted block (default: keep the cell's)")
	rootCmd.AddCommand(cmd)
}

func newPaintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "paint <project> <x> <y> <metatile>",
		Short: "Paint a block and merge it with the one underneath",
		Long: `The paint command sets the map cell at (x, y) to <metatile> the way the
map editor does, then runs the merge: when the old cell only has a top layer
and the painted metatile only has a bottom layer, the cell is replaced with a
composite slot holding both.

Example:
  metatilectl paint route1.json 4 7 5
  metatilectl paint route1.json 4 7 5 --collision 1`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPaint(args)
		},
	}
}

func runPaint(args []string) error {
	x, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid x %q", args[1])
	}
	y, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("invalid y %q", args[2])
	}
	id, err := parseID(args[3])
	if err != nil {
		return err
	}

	s, err := openSession(args[0], true, nil)
	if err != nil {
		return err
	}
	defer s.close()

	prev, err := s.host.Block(x, y)
	if err != nil {
		return err
	}
	next := metatile.Block{MetatileID: id, Collision: prev.Collision, Elevation: prev.Elevation}
	if paintCollision >= 0 {
		next.Collision = paintCollision
	}
	if paintElevation >= 0 {
		next.Elevation = paintElevation
	}
	if err := s.host.SetBlock(x, y, next); err != nil {
		return err
	}

	ch, mergeErr := s.eng.OnBlockChanged(x, y, prev, next)
	if mergeErr != nil && !errors.Is(mergeErr, metatile.ErrExhausted) {
		return mergeErr
	}

	// The painted block is kept even when no composite could be made.
	if err := s.save(); err != nil {
		return err
	}
	s.printMatcherStats()
	for _, n := range s.host.Notices() {
		printError("%s %s\n  %s\n", n.Title, n.Summary, n.Detail)
	}

	if jsonOut {
		out := map[string]any{
			"x":        x,
			"y":        y,
			"previous": prev.MetatileID,
			"painted":  next.MetatileID,
			"verdict":  ch.Verdict.String(),
			"merged":   ch.Merged,
		}
		if ch.Merged {
			out["metatile"] = ch.Block.MetatileID
			out["reused"] = ch.Result.Reused
		}
		if err := printJSON(out); err != nil {
			return err
		}
		return mergeErr
	}

	switch {
	case ch.Merged && ch.Result.Reused:
		printInfo("%s (%d, %d): %d over %d reuses metatile %d\n",
			render(successStyle, "✓"), x, y, int(next.MetatileID), int(prev.MetatileID), int(ch.Block.MetatileID))
	case ch.Merged:
		printInfo("%s (%d, %d): %d over %d merged into new metatile %d\n",
			render(successStyle, "✓"), x, y, int(next.MetatileID), int(prev.MetatileID), int(ch.Block.MetatileID))
	case ch.Verdict == merge.Eligible:
		printInfo("%s (%d, %d): painted %d, merge failed\n", render(warningStyle, "!"), x, y, int(next.MetatileID))
	default:
		printInfo("  (%d, %d): painted %d, no merge (%s)\n", x, y, int(next.MetatileID), ch.Verdict)
	}
	return mergeErr
}
