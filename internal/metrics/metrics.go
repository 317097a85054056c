// Package metrics exports engine events as Prometheus metrics.
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/joshuapare/metatilekit/metatile/engine"
	"github.com/joshuapare/metatilekit/metatile/merge"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "metatile"

// Collector implements engine.Observer on top of Prometheus counters and gauges.
type Collector struct {
	reg *prometheus.Registry

	merges      *prometheus.CounterVec
	skips       *prometheus.CounterVec
	cleanups    prometheus.Counter
	blanked     prometheus.Counter
	kept        prometheus.Counter
	lastUnused  prometheus.Gauge
	maxSlots    prometheus.Gauge
	freeSlots   prometheus.Gauge
	protectedID prometheus.Gauge
}

var _ engine.Observer = (*Collector)(nil)

// New creates a collector registered on a fresh registry.
// An empty namespace uses DefaultNamespace.
func New(namespace string) *Collector {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	c := &Collector{
		reg: prometheus.NewRegistry(),
		merges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "merges_total",
			Help:      "Block-changed events by outcome.",
		}, []string{"outcome"}),
		skips: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "merge_skips_total",
			Help:      "Block-changed events rejected by the merge gate, by reason.",
		}, []string{"reason"}),
		cleanups: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cleanups_total",
			Help:      "Cleanup passes run.",
		}),
		blanked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slots_blanked_total",
			Help:      "Slots rewritten to blank by cleanup.",
		}),
		kept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slots_protected_total",
			Help:      "Unused slots kept by cleanup because they are protected.",
		}),
		lastUnused: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "unused_slots",
			Help:      "Unreferenced slots found by the last cleanup.",
		}),
		maxSlots: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "slots",
			Help:      "Metatile slots in the active tileset pair.",
		}),
		freeSlots: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "free_slots",
			Help:      "Slots in the free-slot registry.",
		}),
		protectedID: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "protected_slots",
			Help:      "Slots protected from cleanup since the last tileset reload.",
		}),
	}

	c.reg.MustRegister(
		c.merges, c.skips, c.cleanups, c.blanked, c.kept,
		c.lastUnused, c.maxSlots, c.freeSlots, c.protectedID,
	)
	return c
}

// Registry returns the registry the collector's metrics live on.
func (c *Collector) Registry() *prometheus.Registry {
	return c.reg
}

// ObserveMerge implements engine.Observer.
func (c *Collector) ObserveMerge(outcome engine.Outcome, verdict merge.Verdict) {
	c.merges.WithLabelValues(outcome.String()).Inc()
	if outcome == engine.OutcomeSkipped {
		c.skips.WithLabelValues(verdict.String()).Inc()
	}
}

// ObserveCleanup implements engine.Observer.
func (c *Collector) ObserveCleanup(unused, blanked, protected int) {
	c.cleanups.Inc()
	c.blanked.Add(float64(blanked))
	c.kept.Add(float64(protected))
	c.lastUnused.Set(float64(unused))
}

// ObserveState implements engine.Observer.
func (c *Collector) ObserveState(maxSlots, freeSlots, protectedSlots int) {
	c.maxSlots.Set(float64(maxSlots))
	c.freeSlots.Set(float64(freeSlots))
	c.protectedID.Set(float64(protectedSlots))
}

// Handler returns the /metrics handler for the collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on ln until ctx is done.
func (c *Collector) Serve(ctx context.Context, ln net.Listener) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// ListenAndServe listens on addr and calls Serve.
func (c *Collector) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return c.Serve(ctx, ln)
}
