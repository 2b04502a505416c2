package event

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/xpscale/internal/domain"
	"github.com/osse101/xpscale/internal/scaled"
)

func TestMemoryBus_PublishSubscribe(t *testing.T) {
	bus := NewMemoryBus()
	var got Event

	bus.Subscribe(LevelUp, func(ctx context.Context, e Event) error {
		got = e
		return nil
	})

	evt := NewLevelUpEvent("user-1", 1, 4, []int{2, 3, 4}, scaled.FromFloat(2900), domain.SourceQuiz)
	require.NoError(t, bus.Publish(context.Background(), evt))

	assert.Equal(t, evt.ID, got.ID)
	payload, err := DecodePayload[LevelUpPayloadV1](got)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 4}, payload.Crossed)
	assert.Equal(t, 4, payload.ToLevel)
}

func TestMemoryBus_PublishWithoutSubscribers(t *testing.T) {
	bus := NewMemoryBus()
	assert.NoError(t, bus.Publish(context.Background(), Event{Type: RewardApplied}))
}

func TestMemoryBus_PublishMultipleHandlers(t *testing.T) {
	bus := NewMemoryBus()
	var order []int

	bus.Subscribe(RewardApplied, func(context.Context, Event) error { order = append(order, 1); return nil })
	bus.Subscribe(RewardApplied, func(context.Context, Event) error { order = append(order, 2); return nil })
	bus.Subscribe(LevelUp, func(context.Context, Event) error { order = append(order, 99); return nil })

	require.NoError(t, bus.Publish(context.Background(), Event{Type: RewardApplied}))
	assert.Equal(t, []int{1, 2}, order)
}

func TestMemoryBus_PublishError(t *testing.T) {
	bus := NewMemoryBus()
	sentinel := errors.New("handler error")
	called := 0

	bus.Subscribe(LevelUp, func(context.Context, Event) error { called++; return sentinel })
	bus.Subscribe(LevelUp, func(context.Context, Event) error { called++; return nil })

	err := bus.Publish(context.Background(), Event{Type: LevelUp})
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 2, called, "every handler runs even when one fails")
}

func TestConstructors(t *testing.T) {
	lvl := NewLevelUpEvent("user-1", 3, 5, []int{4, 5}, scaled.FromFloat(6000), domain.SourcePassive)
	assert.Equal(t, LevelUp, lvl.Type)
	assert.Equal(t, EventSchemaVersion, lvl.Version)
	assert.Len(t, lvl.ID, 36)
	assert.Equal(t, domain.SourcePassive, lvl.MetadataValue("source"))

	rw := NewRewardAppliedEvent(RewardAppliedPayloadV1{UserID: "user-1", Base: 10, Multiplier: 1.5})
	assert.Equal(t, RewardApplied, rw.Type)
	assert.Nil(t, rw.MetadataValue("source"))

	up := NewSnapshotUpgradedEvent("user-1", 6, 9, 4)
	assert.Equal(t, SnapshotUpgraded, up.Type)
	assert.Equal(t, domain.SourceMigrated, up.MetadataValue("source"))
	assert.NotEqual(t, lvl.ID, up.ID)
}

func TestDecodePayload(t *testing.T) {
	t.Run("value payload", func(t *testing.T) {
		p, err := DecodePayload[SnapshotUpgradedPayloadV1](NewSnapshotUpgradedEvent("u", 6, 9, 4))
		require.NoError(t, err)
		assert.Equal(t, 4, p.Level)
	})

	t.Run("pointer payload", func(t *testing.T) {
		e := Event{Payload: &SnapshotUpgradedPayloadV1{UserID: "u", Level: 7}}
		p, err := DecodePayload[SnapshotUpgradedPayloadV1](e)
		require.NoError(t, err)
		assert.Equal(t, 7, p.Level)
	})

	t.Run("serialized payload", func(t *testing.T) {
		data, err := json.Marshal(NewLevelUpEvent("u", 1, 2, []int{2}, scaled.FromFloat(400), ""))
		require.NoError(t, err)

		var e Event
		require.NoError(t, json.Unmarshal(data, &e))

		p, err := DecodePayload[LevelUpPayloadV1](e)
		require.NoError(t, err)
		assert.Equal(t, []int{2}, p.Crossed)
		assert.Equal(t, scaled.FromFloat(400), p.Total)
	})

	t.Run("mismatched payload", func(t *testing.T) {
		_, err := DecodePayload[LevelUpPayloadV1](Event{Payload: "not an object"})
		assert.Error(t, err)
	})
}

func TestCalculateRetryDelay(t *testing.T) {
	assert.Equal(t, RetryInitialDelay, CalculateRetryDelay(RetryInitialDelay, 1))
	assert.Equal(t, 4*RetryInitialDelay, CalculateRetryDelay(RetryInitialDelay, 3))
	assert.Equal(t, RetryInitialDelay, CalculateRetryDelay(RetryInitialDelay, 0))
}
