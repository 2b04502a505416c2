package domain

// Event type constants used across the application for event bus subscriptions
// and metrics tracking.
//
// Event types follow the pattern: <entity>.<action> (e.g., "progression.level_up")
const (
	// EventTypeRewardApplied is published for every reward resolved against a profile
	EventTypeRewardApplied = "progression.reward_applied"

	// EventTypeLevelUp is published once per update that crossed at least one level.
	// The payload carries every crossed level in ascending order.
	EventTypeLevelUp = "progression.level_up"

	// EventTypeSnapshotUpgraded is published when a legacy snapshot is normalized on load
	EventTypeSnapshotUpgraded = "progression.snapshot_upgraded"
)
