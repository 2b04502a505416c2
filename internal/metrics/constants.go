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

// Progression metric names
const (
	MetricNameRewardsApplied    = "progression_rewards_applied_total"
	MetricNameLevelUps          = "progression_level_ups_total"
	MetricNameLevelsCrossed     = "progression_levels_crossed_total"
	MetricNameLevelsPerUpdate   = "progression_levels_per_update"
	MetricNameNegligibleDeltas  = "progression_negligible_deltas_total"
	MetricNameSnapshotsUpgraded = "progression_snapshots_upgraded_total"
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

// Progression metric help text
const (
	HelpTextRewardsApplied    = "Total number of rewards and deltas applied to profiles"
	HelpTextLevelUps          = "Total number of updates that crossed at least one level"
	HelpTextLevelsCrossed     = "Total number of levels crossed"
	HelpTextLevelsPerUpdate   = "Levels crossed by a single leveling update"
	HelpTextNegligibleDeltas  = "Positive deltas that left the total unchanged because of the precision-loss threshold"
	HelpTextSnapshotsUpgraded = "Legacy snapshots upgraded on load"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod = "method"
	LabelPath   = "path"
	LabelStatus = "status"
	LabelType   = "type"
	LabelSource = "source"
)

// Label values
const (
	// UnmatchedRoute is the path label for requests no route matched
	UnmatchedRoute = "unmatched"

	// UnknownSource is the source label for payloads without a source
	UnknownSource = "unknown"
)

// HTTPLatencyBuckets are the request duration buckets in seconds
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5}

// LevelsPerUpdateBuckets are the buckets for levels crossed per update
var LevelsPerUpdateBuckets = []float64{1, 2, 5, 10, 25, 50, 100, 1000}

// Log messages
const (
	LogMsgEventPayloadDecodeFailed = "Failed to decode event payload for metrics"
)
