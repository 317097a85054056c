package main

import (
	"context"
	"sort"

	"github.com/spf13/cobra"

	"github.com/joshuapare/metatilekit/metatile"
	"github.com/joshuapare/metatilekit/metatile/usage"
)

var statsTop int

func init() {
	cmd := newStatsCmd()
	cmd.Flags().IntVar(&statsTop, "top", 10, "Number of most-used slots to list")
	rootCmd.AddCommand(cmd)
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <project>",
		Short: "Show slot usage statistics",
		Long: `The stats command counts how many map cells reference each slot and
summarizes used, unused, blank and out-of-range references.

Example:
  metatilectl stats route1.json
  metatilectl stats route1.json --top 25 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd.Context(), args)
		},
	}
}

// UsageStats summarizes slot usage of one project.
type UsageStats struct {
	Cells        int         `json:"cells"`
	Slots        int         `json:"slots"`
	UsedSlots    int         `json:"used_slots"`
	UnusedSlots  int         `json:"unused_slots"`
	BlankSlots   int         `json:"blank_slots"`
	FreeSlots    int         `json:"free_slots"`
	OutOfRange   int         `json:"out_of_range_cells"`
	MostUsed     []SlotCount `json:"most_used"`
	UnusedFilled int         `json:"unused_non_blank_slots"`
}

// SlotCount is one slot and the number of cells referencing it.
type SlotCount struct {
	ID    metatile.ID `json:"id"`
	Cells int         `json:"cells"`
}

func runStats(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := openSession(args[0], false, nil)
	if err != nil {
		return err
	}
	defer s.close()

	max := s.eng.MaxMetatiles()
	counts, outOfRange, err := usage.Counts(ctx, s.host, max)
	if err != nil {
		return err
	}

	st := UsageStats{
		Cells:      s.host.Width() * s.host.Height(),
		Slots:      max,
		FreeSlots:  s.eng.Stats().FreeSlots,
		OutOfRange: outOfRange,
	}
	for id, n := range counts {
		blank, err := metatile.IsBlank(s.host, metatile.ID(id))
		if err != nil {
			return err
		}
		if blank {
			st.BlankSlots++
		}
		if n == 0 {
			st.UnusedSlots++
			if !blank {
				st.UnusedFilled++
			}
			continue
		}
		st.UsedSlots++
		st.MostUsed = append(st.MostUsed, SlotCount{ID: metatile.ID(id), Cells: n})
	}
	sort.SliceStable(st.MostUsed, func(i, j int) bool {
		return st.MostUsed[i].Cells > st.MostUsed[j].Cells
	})
	if statsTop >= 0 && len(st.MostUsed) > statsTop {
		st.MostUsed = st.MostUsed[:statsTop]
	}

	if jsonOut {
		return printJSON(st)
	}

	heading("Usage Statistics:")
	field("Cells", printer.Sprintf("%d", st.Cells))
	field("Slots", printer.Sprintf("%d", st.Slots))
	field("Used", printer.Sprintf("%d", st.UsedSlots))
	field("Unused", printer.Sprintf("%d (%d non-blank)", st.UnusedSlots, st.UnusedFilled))
	field("Blank", printer.Sprintf("%d", st.BlankSlots))
	field("Free", printer.Sprintf("%d", st.FreeSlots))
	if st.OutOfRange > 0 {
		field("Out of range", render(warningStyle, printer.Sprintf("%d cells", st.OutOfRange)))
	}

	if len(st.MostUsed) > 0 {
		heading("Most used:")
		for _, sc := range st.MostUsed {
			printInfo("  %4d  %d cells\n", int(sc.ID), sc.Cells)
		}
	}
	return nil
}
