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

// Store Metrics
var (
	StoreReads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameStoreReads,
			Help: HelpTextStoreReads,
		},
		[]string{LabelKind},
	)

	StoreWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameStoreWrites,
			Help: HelpTextStoreWrites,
		},
		[]string{LabelKind},
	)

	StoreCorruptions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameStoreCorruptions,
			Help: HelpTextStoreCorruptions,
		},
		[]string{LabelKind},
	)

	StoreDroppedEntities = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameStoreDropped,
			Help: HelpTextStoreDropped,
		},
		[]string{LabelKind},
	)

	StoreCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameStoreCacheHits,
			Help: HelpTextStoreCacheHits,
		},
	)

	StoreCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameStoreCacheMisses,
			Help: HelpTextStoreCacheMisses,
		},
	)
)

// Business Metrics
var (
	CartMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCartMutations,
			Help: HelpTextCartMutations,
		},
		[]string{LabelOperation},
	)

	CartUnits = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameCartUnits,
			Help:    HelpTextCartUnits,
			Buckets: CartUnitBuckets,
		},
	)

	WishlistToggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameWishlistToggles,
			Help: HelpTextWishlistToggles,
		},
		[]string{LabelAction},
	)

	AlertsTriggered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameAlertsTriggered,
			Help: HelpTextAlertsTriggered,
		},
		[]string{LabelDirection},
	)

	SupportRefreshes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameSupportRefreshes,
			Help: HelpTextSupportRefreshes,
		},
	)

	RemoteFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRemoteFailures,
			Help: HelpTextRemoteFailures,
		},
		[]string{LabelOperation},
	)
)

// Browser event stream metrics
var (
	SSEStreamsOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameSSEStreamsOpen,
			Help: HelpTextSSEStreamsOpen,
		},
	)

	SSEEventsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSSEEventsDropped,
			Help: HelpTextSSEEventsDropped,
		},
		[]string{LabelReason},
	)
)
