package infrastructure

import (
	"fmt"

	"plutus/domain/events"
)

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	switch event.Type() {
	case events.EventTypeBalanceChange:
		return "economy.balance_changed"
	case events.EventTypeTransactionRecorded:
		return "economy.transaction_recorded"
	case events.EventTypeBetEventResolved:
		return "betting.events.resolved"
	case events.EventTypeBetEventRefunded:
		return "betting.events.refunded"
	case events.EventTypeJackpotWon:
		return "economy.jackpot_won"
	case events.EventTypeLootDropped:
		return "loot.dropped"
	default:
		// Fallback for unknown event types
		return fmt.Sprintf("unknown.%s", event.Type())
	}
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	switch subject {
	case "economy.balance_changed":
		return events.EventTypeBalanceChange
	case "economy.transaction_recorded":
		return events.EventTypeTransactionRecorded
	case "betting.events.resolved":
		return events.EventTypeBetEventResolved
	case "betting.events.refunded":
		return events.EventTypeBetEventRefunded
	case "economy.jackpot_won":
		return events.EventTypeJackpotWon
	case "loot.dropped":
		return events.EventTypeLootDropped
	default:
		return events.EventType(subject)
	}
}

// GetAllSubjects returns all subjects that this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		"economy.balance_changed",
		"economy.transaction_recorded",
		"betting.events.resolved",
		"betting.events.refunded",
		"economy.jackpot_won",
		"loot.dropped",
	}
}
