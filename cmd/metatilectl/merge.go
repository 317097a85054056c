package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newMergeCmd())
}

func newMergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge <project> <bottom> <top>",
		Short: "Compose two metatiles into one slot",
		Long: `The merge command builds a metatile from the bottom layer of <bottom>
and the top layer of <top>. An identical existing slot is reused; otherwise the
composite is written to the next free slot. Both sources and the result are
protected from cleanup, and the project is saved.

Example:
  metatilectl merge route1.json 5 9`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(args)
		},
	}
}

func runMerge(args []string) error {
	bottom, err := parseID(args[1])
	if err != nil {
		return err
	}
	top, err := parseID(args[2])
	if err != nil {
		return err
	}

	s, err := openSession(args[0], true, nil)
	if err != nil {
		return err
	}
	defer s.close()

	protected := len(s.eng.Protected())
	res, err := s.eng.Merge(bottom, top)
	if err != nil {
		return err
	}
	if res.Allocated() || len(s.eng.Protected()) != protected {
		if err := s.save(); err != nil {
			return err
		}
	}

	s.printMatcherStats()

	if jsonOut {
		return printJSON(map[string]any{
			"bottom":   bottom,
			"top":      top,
			"metatile": res.ID,
			"reused":   res.Reused,
		})
	}
	if res.Reused {
		printInfo("%s %d + %d matches existing metatile %d\n", render(successStyle, "✓"), int(bottom), int(top), int(res.ID))
	} else {
		printInfo("%s %d + %d written to metatile %d\n", render(successStyle, "✓"), int(bottom), int(top), int(res.ID))
	}
	return nil
}
