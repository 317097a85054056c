package main

import (
	"slices"

	"github.com/spf13/cobra"

	"github.com/joshuapare/metatilekit/metatile"
)

func init() {
	rootCmd.AddCommand(newFreeCmd())
}

func newFreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "free <project>",
		Short: "List free metatile slots",
		Long: `The free command lists every fully blank slot above the search start,
in the order new composites will claim them.

Example:
  metatilectl free route1.json
  metatilectl free route1.json --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFree(args)
		},
	}
}

func runFree(args []string) error {
	s, err := openSession(args[0], false, nil)
	if err != nil {
		return err
	}
	defer s.close()

	// Snapshot is claim-last order.
	free := s.eng.FreeSlots()
	slices.Reverse(free)

	next, ok := s.eng.NextFree()

	if jsonOut {
		out := map[string]any{
			"search_start": s.eng.Stats().SearchStart,
			"free":         idList(free),
		}
		if ok {
			out["next"] = next
		}
		return printJSON(out)
	}

	heading(printer.Sprintf("Free slots (%d):", len(free)))
	printIDs(free)
	if ok {
		printVerbose("Next composite goes to slot %d\n", int(next))
	}
	return nil
}

// idList keeps empty results as [] in JSON output.
func idList(ids []metatile.ID) []metatile.ID {
	if ids == nil {
		return []metatile.ID{}
	}
	return ids
}

// printIDs prints ids in rows of 16.
func printIDs(ids []metatile.ID) {
	const perRow = 16
	for i := 0; i < len(ids); i += perRow {
		row := ids[i:min(i+perRow, len(ids))]
		printInfo(" ")
		for _, id := range row {
			printInfo(" %4d", int(id))
		}
		printInfo("\n")
	}
}
