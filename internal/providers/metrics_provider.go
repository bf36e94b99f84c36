package providers

import (
	"energymon/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	AddMigrated(collection string, count int)
	AddMigrationErrors(collection string, count int)
	IncCommits(ok bool)
	ObserveStepDuration(step string, duration time.Duration)
	SetValidation(check string, ok bool)
	IncAlertsSent()
	IncAlertFailures()
	SetDevicesOverLimit(count int)
	ObserveEvaluationDuration(duration time.Duration)
	SetTargetsTotal(count int)
}

type MetricsProvider struct {
	requestsTotal      *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
	cacheHits          prometheus.Counter
	cacheMisses        prometheus.Counter
	migratedTotal      *prometheus.CounterVec
	migrationErrors    *prometheus.CounterVec
	commitsTotal       *prometheus.CounterVec
	stepDuration       *prometheus.HistogramVec
	validation         *prometheus.GaugeVec
	alertsSent         prometheus.Counter
	alertFailures      prometheus.Counter
	devicesOverLimit   prometheus.Gauge
	evaluationDuration prometheus.Histogram
	targetsTotal       prometheus.Gauge
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) AddMigrated(collection string, count int) {
	m.migratedTotal.WithLabelValues(collection).Add(float64(count))
}

func (m *MetricsProvider) AddMigrationErrors(collection string, count int) {
	m.migrationErrors.WithLabelValues(collection).Add(float64(count))
}

func (m *MetricsProvider) IncCommits(ok bool) {
	m.commitsTotal.WithLabelValues(outcomeLabel(ok)).Inc()
}

func (m *MetricsProvider) ObserveStepDuration(step string, duration time.Duration) {
	m.stepDuration.WithLabelValues(step).Observe(duration.Seconds())
}

func (m *MetricsProvider) SetValidation(check string, ok bool) {
	v := 0.0
	if ok {
		v = 1
	}
	m.validation.WithLabelValues(check).Set(v)
}

func (m *MetricsProvider) IncAlertsSent() {
	m.alertsSent.Inc()
}

func (m *MetricsProvider) IncAlertFailures() {
	m.alertFailures.Inc()
}

func (m *MetricsProvider) SetDevicesOverLimit(count int) {
	m.devicesOverLimit.Set(float64(count))
}

func (m *MetricsProvider) ObserveEvaluationDuration(duration time.Duration) {
	m.evaluationDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) SetTargetsTotal(count int) {
	m.targetsTotal.Set(float64(count))
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func outcomeLabel(ok bool) string {
	if ok {
		return "ok"
	}
	return "failed"
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "em_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "em_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "em_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "em_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		migratedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "em_migrated_records_total",
			Help: "Records written to the destination store per collection",
		}, []string{"collection"}),

		migrationErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "em_migration_errors_total",
			Help: "Records or commits that failed during migration per collection",
		}, []string{"collection"}),

		commitsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "em_commit_groups_total",
			Help: "Commit groups submitted to the destination store by outcome",
		}, []string{"outcome"}),

		stepDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "em_migration_step_duration_seconds",
			Help:    "Duration of each migration step in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 4, 8),
		}, []string{"step"}),

		validation: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "em_validation_passed",
			Help: "1 when the validation check matched, 0 otherwise",
		}, []string{"check"}),

		alertsSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "em_alerts_sent_total",
			Help: "Alert messages accepted by the notification transport",
		}),

		alertFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "em_alert_failures_total",
			Help: "Alert messages that failed to send",
		}),

		devicesOverLimit: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "em_devices_over_limit",
			Help: "Devices over their energy limit in the last evaluation",
		}),

		evaluationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "em_alert_evaluation_duration_seconds",
			Help:    "Duration of one alert evaluation cycle in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		targetsTotal: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "em_notification_targets",
			Help: "Registered notification targets",
		}),
	}
}

// PushMetrics sends the default registry to the configured push gateway.
// Run-once jobs exit before a scrape, so this is their only way out.
func PushMetrics(conf *structures.Config, job string) error {
	if !conf.Metrics.Enabled || conf.Metrics.PushGateway == "" {
		return nil
	}
	return push.New(conf.Metrics.PushGateway, job).
		Gatherer(prometheus.DefaultGatherer).
		Push()
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) AddMigrated(_ string, _ int)                      {}
func (n *noopMetrics) AddMigrationErrors(_ string, _ int)               {}
func (n *noopMetrics) IncCommits(_ bool)                                {}
func (n *noopMetrics) ObserveStepDuration(_ string, _ time.Duration)    {}
func (n *noopMetrics) SetValidation(_ string, _ bool)                   {}
func (n *noopMetrics) IncAlertsSent()                                   {}
func (n *noopMetrics) IncAlertFailures()                                {}
func (n *noopMetrics) SetDevicesOverLimit(_ int)                        {}
func (n *noopMetrics) ObserveEvaluationDuration(_ time.Duration)        {}
func (n *noopMetrics) SetTargetsTotal(_ int)                            {}
