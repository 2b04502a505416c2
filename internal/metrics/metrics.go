package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Progression Metrics
var (
	RewardsApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRewardsApplied,
			Help: HelpTextRewardsApplied,
		},
		[]string{LabelSource},
	)

	LevelUps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameLevelUps,
			Help: HelpTextLevelUps,
		},
		[]string{LabelSource},
	)

	LevelsCrossed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameLevelsCrossed,
			Help: HelpTextLevelsCrossed,
		},
	)

	LevelsPerUpdate = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameLevelsPerUpdate,
			Help:    HelpTextLevelsPerUpdate,
			Buckets: LevelsPerUpdateBuckets,
		},
	)

	NegligibleDeltas = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameNegligibleDeltas,
			Help: HelpTextNegligibleDeltas,
		},
	)

	SnapshotsUpgraded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameSnapshotsUpgraded,
			Help: HelpTextSnapshotsUpgraded,
		},
	)
)
