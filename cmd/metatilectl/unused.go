package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/joshuapare/metatilekit/metatile/usage"
)

func init() {
	rootCmd.AddCommand(newUnusedCmd())
}

func newUnusedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unused <project>",
		Short: "List metatile slots no map cell references",
		Long: `The unused command scans the map and lists every slot in the tileset
pair that no cell references, blank or not.

Example:
  metatilectl unused route1.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUnused(cmd.Context(), args)
		},
	}
}

func runUnused(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := openSession(args[0], false, nil)
	if err != nil {
		return err
	}
	defer s.close()

	unused, err := usage.FindUnused(ctx, s.host, s.eng.MaxMetatiles())
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(map[string]any{"unused": idList(unused)})
	}

	heading(printer.Sprintf("Unused slots (%d):", len(unused)))
	printIDs(unused)
	return nil
}
