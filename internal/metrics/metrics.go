package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg *prometheus.Registry

	OrdersPlaced    prometheus.Counter
	OrdersRejected  prometheus.Counter
	SheetRotations  prometheus.Counter
	OrderLookups    prometheus.Counter
	LookupMisses    prometheus.Counter
	MenuFetches     prometheus.Counter
	MenuFetchErrors prometheus.Counter
	PlaceLatencySec prometheus.Histogram

	NotificationsQueued prometheus.Counter
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	placed := prometheus.NewCounter(prometheus.CounterOpts{Name: "orders_placed_total"})
	rejected := prometheus.NewCounter(prometheus.CounterOpts{Name: "orders_rejected_total"})
	rotations := prometheus.NewCounter(prometheus.CounterOpts{Name: "sheet_rotations_total"})
	lookups := prometheus.NewCounter(prometheus.CounterOpts{Name: "order_lookups_total"})
	misses := prometheus.NewCounter(prometheus.CounterOpts{Name: "order_lookup_misses_total"})
	menuFetches := prometheus.NewCounter(prometheus.CounterOpts{Name: "menu_fetches_total"})
	menuErrors := prometheus.NewCounter(prometheus.CounterOpts{Name: "menu_fetch_errors_total"})
	placeLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_place_latency_seconds",
		Buckets: prometheus.DefBuckets,
	})
	notifQueued := prometheus.NewCounter(prometheus.CounterOpts{Name: "notifications_queued_total"})

	r.MustRegister(placed, rejected, rotations, lookups, misses, menuFetches, menuErrors, placeLatency, notifQueued)
	return &Registry{
		reg:                 r,
		OrdersPlaced:        placed,
		OrdersRejected:      rejected,
		SheetRotations:      rotations,
		OrderLookups:        lookups,
		LookupMisses:        misses,
		MenuFetches:         menuFetches,
		MenuFetchErrors:     menuErrors,
		PlaceLatencySec:     placeLatency,
		NotificationsQueued: notifQueued,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
