package eventlog

// Payload field read to attribute an event to a user
const PayloadKeyUserID = "user_id"

// Log messages - service events
const (
	LogMsgEventPayloadUndecodable = "Event payload is not an object, skipping log"
	LogMsgEventUnattributed       = "Event payload has no user_id, skipping log"
	LogMsgFailedToLogEvent        = "Failed to log event"
	LogMsgEventLogged             = "Event logged"
)

// Log messages - cleanup job
const (
	LogMsgCleanupJobStarting  = "Starting event log cleanup job"
	LogMsgCleanupJobFailed    = "Event log cleanup failed"
	LogMsgCleanupJobCompleted = "Event log cleanup completed"
)

// Defaults
const (
	DefaultQueryLimit = 50
	MaxQueryLimit     = 500
)
