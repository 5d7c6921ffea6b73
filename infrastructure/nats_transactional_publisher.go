package infrastructure

import (
	"context"

	log "github.com/sirupsen/logrus"

	"plutus/domain/events"
	"plutus/domain/interfaces"
)

// NATSTransactionalPublisher buffers events during a unit of work and only
// hands them to the underlying publisher after the transaction commits.
type NATSTransactionalPublisher struct {
	publisher interfaces.EventPublisher
	pending   []events.Event
}

// NewNATSTransactionalPublisher creates a transactional wrapper around a publisher
func NewNATSTransactionalPublisher(publisher interfaces.EventPublisher) *NATSTransactionalPublisher {
	return &NATSTransactionalPublisher{
		publisher: publisher,
		pending:   make([]events.Event, 0),
	}
}

// Publish buffers the event until Flush is called.
func (p *NATSTransactionalPublisher) Publish(event events.Event) error {
	p.pending = append(p.pending, event)
	return nil
}

// Flush publishes all buffered events. Individual publish failures are logged
// and skipped; the committed transaction must not be rolled back for them.
func (p *NATSTransactionalPublisher) Flush(ctx context.Context) error {
	for _, event := range p.pending {
		if err := p.publisher.Publish(event); err != nil {
			log.WithFields(log.Fields{
				"eventType": event.Type(),
				"error":     err,
			}).Error("failed to publish buffered event")
		}
	}
	p.pending = p.pending[:0]
	return nil
}

// Discard drops all buffered events without publishing them.
func (p *NATSTransactionalPublisher) Discard() {
	if len(p.pending) > 0 {
		log.WithField("count", len(p.pending)).Debug("discarding buffered events after rollback")
	}
	p.pending = p.pending[:0]
}
