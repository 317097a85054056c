package main

import (
	"context"

	"github.com/spf13/cobra"
)

var cleanupDryRun bool

func init() {
	cmd := newCleanupCmd()
	cmd.Flags().BoolVarP(&cleanupDryRun, "dry-run", "n", false, "Report what would be freed without saving")
	rootCmd.AddCommand(cmd)
}

func newCleanupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup <project>",
		Short: "Free metatiles no map cell references",
		Long: `The cleanup command blanks every non-blank slot that no map cell
references, so the slots can hold new composites after the next reload.

Example:
  metatilectl cleanup route1.json --dry-run
  metatilectl cleanup route1.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCleanup(cmd.Context(), args)
		},
	}
}

func runCleanup(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := openSession(args[0], !cleanupDryRun, nil)
	if err != nil {
		return err
	}
	defer s.close()

	rep, err := s.eng.OnCleanupRequested(ctx)
	if err != nil {
		return err
	}
	if !cleanupDryRun && len(rep.Blanked) > 0 {
		if err := s.save(); err != nil {
			return err
		}
	}

	if jsonOut {
		return printJSON(map[string]any{
			"dry_run":       cleanupDryRun,
			"unused":        idList(rep.Unused),
			"blanked":       idList(rep.Blanked),
			"protected":     idList(rep.Protected),
			"already_blank": len(rep.Skipped),
		})
	}

	verb := "Freed"
	if cleanupDryRun {
		verb = "Would free"
	}
	heading(printer.Sprintf("%s %d metatiles:", verb, len(rep.Blanked)))
	printIDs(rep.Blanked)
	printVerbose("  %d unused, %d already blank, %d protected\n",
		len(rep.Unused), len(rep.Skipped), len(rep.Protected))
	return nil
}
