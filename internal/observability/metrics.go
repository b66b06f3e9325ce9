package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/riskibarqy/mlb-schedule/internal/reconcile"
)

const metricsNamespace = "mlb_schedule"

// Metrics owns a private Prometheus registry for the service.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	oddsRecords      *prometheus.CounterVec
	oddsOverflow     prometheus.Counter
	unknownTeams     prometheus.Counter
	mergedGames      *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "upstream_requests_total",
			Help:      "Provider fetches, by provider and outcome.",
		}, []string{"provider", "outcome"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Provider fetch latency including retries.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}, []string{"provider"}),
		oddsRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "odds_records_total",
			Help:      "Odds records seen by the indexer, by result.",
		}, []string{"result"}),
		oddsOverflow: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "odds_overflow_outcomes_total",
			Help:      "Outcomes dropped because a team already had two entries for the day.",
		}),
		unknownTeams: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "odds_unknown_team_outcomes_total",
			Help:      "Outcomes whose team name is not in the team table.",
		}),
		mergedGames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "merged_games_total",
			Help:      "Games merged, by how their odds resolved.",
		}, []string{"resolution"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.upstreamRequests,
		m.upstreamDuration,
		m.oddsRecords,
		m.oddsOverflow,
		m.unknownTeams,
		m.mergedGames,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveHTTP(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *Metrics) ObserveUpstream(provider string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.upstreamRequests.WithLabelValues(provider, outcome).Inc()
	m.upstreamDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

func (m *Metrics) ObserveIndex(stats reconcile.IndexStats) {
	if m == nil {
		return
	}
	m.oddsRecords.WithLabelValues("indexed").Add(float64(stats.Indexed))
	m.oddsRecords.WithLabelValues("skipped").Add(float64(stats.Skipped))
	m.oddsOverflow.Add(float64(stats.Overflow))
	m.unknownTeams.Add(float64(stats.UnknownTeams))
}

func (m *Metrics) ObserveMerge(stats reconcile.MergeStats) {
	if m == nil {
		return
	}
	m.mergedGames.WithLabelValues("single").Add(float64(stats.Single))
	m.mergedGames.WithLabelValues("paired").Add(float64(stats.Paired))
	m.mergedGames.WithLabelValues("mismatched").Add(float64(stats.Mismatched))
	m.mergedGames.WithLabelValues("none").Add(float64(stats.Unresolved - stats.Mismatched))
}
