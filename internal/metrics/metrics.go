package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the engine's prometheus series on a private registry.
type Collector struct {
	reg *prometheus.Registry

	Guesses       *prometheus.CounterVec // outcome label: correct|incorrect_retry|incorrect_final
	Rejections    *prometheus.CounterVec // reason label: unknown_route|duplicate_guess|game_over
	GamesFinished *prometheus.CounterVec // result label: solved|exhausted
	LedgerErrors  prometheus.Counter
	CatalogRoutes prometheus.Gauge
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		Guesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "routle_guesses_total",
			Help: "Accepted guesses by outcome.",
		}, []string{"outcome"}),
		Rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "routle_guess_rejections_total",
			Help: "Rejected guess submissions by reason.",
		}, []string{"reason"}),
		GamesFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "routle_games_finished_total",
			Help: "Sessions that reached a terminal state.",
		}, []string{"result"}),
		LedgerErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "routle_ledger_errors_total",
			Help: "Guess ledger read/write failures.",
		}),
		CatalogRoutes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "routle_catalog_routes",
			Help: "Number of routes in the loaded catalog.",
		}),
	}

	reg.MustRegister(
		c.Guesses,
		c.Rejections,
		c.GamesFinished,
		c.LedgerErrors,
		c.CatalogRoutes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Finished counts a session that just reached a terminal state.
func (c *Collector) Finished(result string) {
	c.GamesFinished.WithLabelValues(result).Inc()
}

// Handler serves the registry in the prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}
