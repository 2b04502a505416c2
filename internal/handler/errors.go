package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	// HTTP status messages
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	// Path and query parameter error messages
	ErrMsgMissingQueryParam = "Missing %s query parameter"
	ErrMsgInvalidQueryParam = "Invalid %s query parameter"
	ErrMsgInvalidPathParam  = "Invalid %s path parameter"
)

// User-facing error messages for service errors
const (
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgUnknownError       = "Unknown error"

	ErrMsgInvalidLevelError     = "Level must be at least 1"
	ErrMsgInvalidDeltaError     = "Progress delta must not be negative"
	ErrMsgInvalidFactorError    = "Boost factors must be finite and non-negative"
	ErrMsgDivisionByZeroError   = "Division by zero"
	ErrMsgInvalidInputError     = "Invalid request. Please check your inputs."
	ErrMsgProfileNotFoundError  = "Profile not found"
	ErrMsgUnknownBoostError     = "Unknown boost"
	ErrMsgMalformedSnapshotErr  = "Snapshot document is malformed"
	ErrMsgUnsupportedSnapshotEr = "Snapshot version is not supported"
)

// Log messages
const (
	LogMsgGetProgressFailed    = "Failed to get progress"
	LogMsgAwardRewardFailed    = "Failed to award reward"
	LogMsgApplyDeltaFailed     = "Failed to apply progress delta"
	LogMsgGetLevelUpsFailed    = "Failed to get level ups"
	LogMsgGetBoostsFailed      = "Failed to get boosts"
	LogMsgSetBoostLevelFailed  = "Failed to set boost level"
	LogMsgImportSnapshotFailed = "Failed to import snapshot"
	LogMsgCurveLookupFailed    = "Failed to look up curve"
	LogMsgGetEventsFailed      = "Failed to get event log"
)

// Success messages
const (
	MsgBoostLevelUpdated = "Boost level updated"
)
