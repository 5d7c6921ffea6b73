package infrastructure

import (
	"context"

	"plutus/domain/events"
)

// NoopEventPublisher drops every event. Used when NATS is disabled, e.g. in
// migration commands and tests.
type NoopEventPublisher struct{}

// NewNoopEventPublisher creates a publisher that discards all events
func NewNoopEventPublisher() *NoopEventPublisher {
	return &NoopEventPublisher{}
}

func (p *NoopEventPublisher) Publish(event events.Event) error { return nil }

func (p *NoopEventPublisher) Flush(ctx context.Context) error { return nil }

func (p *NoopEventPublisher) Discard() {}
