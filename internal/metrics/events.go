package metrics

import (
	"context"

	"github.com/osse101/xpscale/internal/event"
	"github.com/osse101/xpscale/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to every progression event type
func (e *EventMetricsCollector) Register(bus event.Bus) {
	for _, t := range []event.Type{event.LevelUp, event.RewardApplied, event.SnapshotUpgraded} {
		bus.Subscribe(t, e.HandleEvent)
	}
}

// HandleEvent processes events and updates metrics. Decode failures are
// counted, never returned, so metrics cannot fail a publish.
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	var err error
	switch evt.Type {
	case event.LevelUp:
		var p event.LevelUpPayloadV1
		if p, err = event.DecodePayload[event.LevelUpPayloadV1](evt); err == nil {
			LevelUps.WithLabelValues(sourceLabel(p.Source)).Inc()
			crossed := float64(p.ToLevel - p.FromLevel)
			LevelsCrossed.Add(crossed)
			LevelsPerUpdate.Observe(crossed)
		}

	case event.RewardApplied:
		var p event.RewardAppliedPayloadV1
		if p, err = event.DecodePayload[event.RewardAppliedPayloadV1](evt); err == nil {
			RewardsApplied.WithLabelValues(sourceLabel(p.Source)).Inc()
			if p.Negligible {
				NegligibleDeltas.Inc()
			}
		}

	case event.SnapshotUpgraded:
		SnapshotsUpgraded.Inc()
	}

	if err != nil {
		EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
		logger.FromContext(ctx).Debug(LogMsgEventPayloadDecodeFailed, "type", evt.Type, "error", err)
	}
	return nil
}

func sourceLabel(source string) string {
	if source == "" {
		return UnknownSource
	}
	return source
}
