package postgres

// PostgreSQL Error Codes
const (
	// PgErrorCodeForeignKeyViolation is returned when level-ups reference a missing profile
	PgErrorCodeForeignKeyViolation = "23503"
	// PgErrorCodeCheckViolation is returned for out-of-range levels
	PgErrorCodeCheckViolation = "23514"
)

// Query defaults
const (
	DefaultLevelUpHistoryLimit = 100
)

// Error Messages
const (
	ErrMsgFailedToGetProfile     = "failed to get profile"
	ErrMsgFailedToSaveProfile    = "failed to save profile"
	ErrMsgFailedToRecordLevelUps = "failed to record level ups"
	ErrMsgFailedToGetLevelUps    = "failed to get level ups"
	ErrMsgFailedToGetBoostLevel  = "failed to get boost level"
	ErrMsgFailedToSetBoostLevel  = "failed to set boost level"
	ErrMsgFailedToBeginTx        = "failed to begin transaction"
	ErrMsgFailedToCommitTx       = "failed to commit transaction"
	ErrMsgFailedToRollbackTx     = "failed to rollback transaction"
	ErrMsgFailedToLogEvent       = "failed to log event"
	ErrMsgFailedToGetEvents      = "failed to get events"
	ErrMsgFailedToCleanupEvents  = "failed to cleanup events"
)
