package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/joshuapare/metatilekit/internal/logger"
	"github.com/joshuapare/metatilekit/internal/metrics"
	"github.com/joshuapare/metatilekit/internal/watch"
	"github.com/joshuapare/metatilekit/metatile/engine"
)

var watchMetricsAddr string

func init() {
	cmd := newWatchCmd()
	cmd.Flags().StringVar(&watchMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9102)")
	rootCmd.AddCommand(cmd)
}

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <project>",
		Short: "Keep an engine open and reload when the project changes",
		Long: `The watch command keeps an engine bound to the project and rebuilds the
free-slot registry every time the project file is saved, reporting the new
slot counts. With --metrics-addr the engine state is exported for Prometheus.

Example:
  metatilectl watch route1.json
  metatilectl watch route1.json --metrics-addr :9102`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, args, nil)
		},
	}
}

// runWatch blocks until ctx is done. Each successful reload is also sent on
// reloaded when it is non-nil.
func runWatch(ctx context.Context, args []string, reloaded chan<- engine.Stats) error {
	path := args[0]
	c := currentConfig()

	addr := watchMetricsAddr
	if addr == "" {
		addr = c.Metrics.Addr
	}

	col := metrics.New("")
	s, err := openSession(path, false, col)
	if err != nil {
		return err
	}
	defer s.close()

	w, err := watch.NewWatcher(c.Watch.Debounce, path)
	if err != nil {
		return err
	}
	defer w.Close()

	errc := make(chan error, 1)
	if addr != "" {
		go func() { errc <- col.ListenAndServe(ctx, addr) }()
		printInfo("Serving metrics on %s/metrics\n", addr)
	}

	report("Watching", s.eng.Stats())
	for {
		select {
		case <-ctx.Done():
			return nil

		case err := <-errc:
			if err != nil {
				return err
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "path", path, "error", err)

		case _, ok := <-w.Events:
			if !ok {
				return nil
			}
			if err := s.reload(); err != nil {
				// A half-written or invalid file; keep the previous state.
				logger.Warn("reload failed", "path", path, "error", err)
				printError("%v\n", err)
				continue
			}
			st := s.eng.Stats()
			report("Reloaded", st)
			if reloaded != nil {
				select {
				case reloaded <- st:
				case <-ctx.Done():
					return nil
				}
			}
		}
	}
}

func report(verb string, st engine.Stats) {
	if jsonOut {
		if err := printJSON(map[string]any{"event": verb, "stats": st}); err != nil {
			logger.Warn("write report", "error", err)
		}
		return
	}
	printInfo("%s %s: %d slots, %d free, %d protected\n",
		render(headerStyle, verb), st.Tileset, st.MaxMetatiles, st.FreeSlots, st.Protected)
}
