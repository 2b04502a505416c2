package profile

// Log messages
const (
	LogMsgRewardApplied      = "Progression reward applied"
	LogMsgDeltaApplied       = "Progression delta applied"
	LogMsgLevelUp            = "User leveled up"
	LogMsgNegligibleDelta    = "Delta absorbed by precision threshold"
	LogMsgSnapshotUpgraded   = "Legacy progression snapshot upgraded"
	LogMsgPublishFailed      = "Failed to publish progression event"
	LogMsgRecordLevelUpsFail = "Failed to record level ups"
	LogMsgShuttingDown       = "Profile service shutting down..."
	LogMsgShutdownComplete   = "Profile service shutdown complete"
)

// Error messages
const (
	ErrMsgFailedToLoadProfile    = "failed to load profile"
	ErrMsgFailedToSaveProfile    = "failed to save profile"
	ErrMsgFailedToUpgradeProfile = "failed to upgrade legacy profile"
	ErrMsgFailedToComputeAward   = "failed to compute award"
)

// Defaults
const (
	DefaultLevelUpHistoryLimit = 20
	MaxCurveTableRows          = 1000
)
