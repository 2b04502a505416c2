package event

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/xpscale/internal/logger"
)

// ResilientPublisher wraps a Bus with background retries and a dead-letter
// file. Publish never fails for the caller once the event is accepted.
type ResilientPublisher struct {
	inner      Bus
	maxRetries int
	retryDelay time.Duration
	deadLetter *DeadLetterWriter

	wg       sync.WaitGroup
	stop     chan struct{}
	stopOnce sync.Once
}

// NewResilientPublisher creates a publisher over inner.
func NewResilientPublisher(inner Bus, maxRetries int, retryDelay time.Duration, deadLetterPath string) (*ResilientPublisher, error) {
	dlw, err := NewDeadLetterWriter(deadLetterPath)
	if err != nil {
		return nil, err
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &ResilientPublisher{
		inner:      inner,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		deadLetter: dlw,
		stop:       make(chan struct{}),
	}, nil
}

// Publish tries the inner bus once and, on failure, retries in the
// background with exponential backoff. It always returns nil.
func (p *ResilientPublisher) Publish(ctx context.Context, event Event) error {
	err := p.inner.Publish(ctx, event)
	if err == nil {
		return nil
	}

	logger.FromContext(ctx).Warn(LogMsgEventPublishFailed,
		"event_type", event.Type,
		"event_id", event.ID,
		"error", err)

	select {
	case <-p.stop:
		p.writeDeadLetter(event, 1, err)
		return nil
	default:
	}

	p.wg.Add(1)
	go p.retryLoop(event, err)
	return nil
}

// Subscribe delegates to the inner bus
func (p *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	p.inner.Subscribe(eventType, handler)
}

func (p *ResilientPublisher) retryLoop(event Event, lastErr error) {
	defer p.wg.Done()

	// The request context is gone by now.
	ctx := context.Background()

	for attempt := 1; attempt <= p.maxRetries; attempt++ {
		timer := time.NewTimer(CalculateRetryDelay(p.retryDelay, attempt))
		select {
		case <-p.stop:
			timer.Stop()
			logger.Warn(LogMsgEventDroppedShutdown, "event_type", event.Type, "event_id", event.ID)
			p.writeDeadLetter(event, attempt, lastErr)
			return
		case <-timer.C:
		}

		lastErr = p.inner.Publish(ctx, event)
		if lastErr == nil {
			logger.Info(LogMsgEventRetrySucceeded, "event_type", event.Type, "attempt", attempt)
			return
		}
		logger.Warn(LogMsgEventRetryFailed, "event_type", event.Type, "attempt", attempt, "error", lastErr)
	}

	logger.Error(LogMsgEventRetryExhausted, "event_type", event.Type, "event_id", event.ID)
	p.writeDeadLetter(event, p.maxRetries+1, lastErr)
}

func (p *ResilientPublisher) writeDeadLetter(event Event, attempts int, err error) {
	if werr := p.deadLetter.Write(event, attempts, err); werr != nil {
		logger.Error(LogMsgDeadLetterWriteFailed, "event_type", event.Type, "error", werr)
	}
}

// Shutdown stops pending retries, dead-lettering their events, and waits for
// the retry goroutines to finish or ctx to expire.
func (p *ResilientPublisher) Shutdown(ctx context.Context) error {
	p.stopOnce.Do(func() { close(p.stop) })

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return p.deadLetter.Close()
	case <-ctx.Done():
		logger.Warn(LogMsgShutdownTimeout)
		return ctx.Err()
	}
}
