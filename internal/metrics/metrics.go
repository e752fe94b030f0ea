package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	OrdersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "orders_total", Help: "Orders submitted to the broker"},
		[]string{"leg", "side", "status"},
	)
	CandidatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "candidates_total", Help: "Candidates processed by result"},
		[]string{"result"},
	)
	UnresolvedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "unresolved_symbols_total", Help: "Screener symbols with no security id"},
	)
	RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "runs_total", Help: "Pipeline runs by outcome"},
		[]string{"outcome"},
	)
	FetchSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "screener_fetch_seconds", Help: "Time from page load to parsed export", Buckets: prometheus.DefBuckets},
	)
)

func init() {
	prometheus.MustRegister(OrdersTotal, CandidatesTotal, UnresolvedTotal, RunsTotal, FetchSeconds)
}

// Serve exposes /metrics on addr in the background.
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
