package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Store metric names
const (
	MetricNameStoreReads       = "store_reads_total"
	MetricNameStoreWrites      = "store_writes_total"
	MetricNameStoreCorruptions = "store_corruption_total"
	MetricNameStoreDropped     = "store_dropped_entities_total"
	MetricNameStoreCacheHits   = "store_cache_hits_total"
	MetricNameStoreCacheMisses = "store_cache_misses_total"
)

// Business metric names
const (
	MetricNameCartMutations    = "cart_mutations_total"
	MetricNameCartUnits        = "cart_units_observed"
	MetricNameWishlistToggles  = "wishlist_toggles_total"
	MetricNameAlertsTriggered  = "price_alerts_triggered_total"
	MetricNameSupportRefreshes = "support_refreshes_total"
	MetricNameRemoteFailures   = "support_remote_failures_total"
)

// Browser event stream metric names
const (
	MetricNameSSEStreamsOpen   = "sse_streams_open"
	MetricNameSSEEventsDropped = "sse_events_dropped_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Store metric help text
const (
	HelpTextStoreReads       = "Total number of partition reads"
	HelpTextStoreWrites      = "Total number of partition writes"
	HelpTextStoreCorruptions = "Total number of partitions read back as empty because they could not be decoded"
	HelpTextStoreDropped     = "Total number of persisted entities dropped by validation"
	HelpTextStoreCacheHits   = "Total number of read cache hits"
	HelpTextStoreCacheMisses = "Total number of read cache misses"
)

// Business metric help text
const (
	HelpTextCartMutations    = "Total number of cart mutations"
	HelpTextCartUnits        = "Cart unit counts carried by cartUpdated events"
	HelpTextWishlistToggles  = "Total number of wishlist toggles"
	HelpTextAlertsTriggered  = "Total number of price alerts triggered"
	HelpTextSupportRefreshes = "Total number of support mirror refreshes"
	HelpTextRemoteFailures   = "Total number of failed support backend calls"
)

// Browser event stream metric help text
const (
	HelpTextSSEStreamsOpen   = "Current number of open browser event streams"
	HelpTextSSEEventsDropped = "Total number of events not delivered to a browser stream because a buffer was full"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod    = "method"
	LabelPath      = "path"
	LabelStatus    = "status"
	LabelType      = "type"
	LabelKind      = "kind"
	LabelBackend   = "backend"
	LabelOperation = "operation"
	LabelDirection = "direction"
	LabelAction    = "action"
	LabelReason    = "reason"
)

// Reasons an SSE event is dropped
const (
	DropReasonHubFull    = "hub_full"
	DropReasonClientFull = "client_full"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// CartUnitBuckets for the cart size histogram
var CartUnitBuckets = []float64{0, 1, 2, 5, 10, 25, 50, 100}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgUnexpectedPayload = "Event payload has unexpected type"
	LogMsgMetricsRecorded   = "Metrics recorded for event"
)
