package infrastructure

import (
	"context"

	"plutus/database"
	"plutus/domain/events"
	"plutus/domain/interfaces"
	"plutus/repository"
)

// UnitOfWorkFactory creates units of work that pair a database transaction
// with a transactional event publisher scoped to the same lifetime.
type UnitOfWorkFactory struct {
	repoFactory interface {
		CreateForGuildWithPublisher(guildID int64, publisher interfaces.TransactionalEventPublisher) interfaces.UnitOfWork
	}
	eventPublisher interfaces.EventPublisher
}

// NewUnitOfWorkFactory creates a new UnitOfWorkFactory
func NewUnitOfWorkFactory(db *database.DB, eventPublisher interfaces.EventPublisher) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{
		repoFactory:    repository.NewUnitOfWorkFactory(db),
		eventPublisher: eventPublisher,
	}
}

// RegisterLocalHandler registers a handler invoked in-process for events
// published through this factory's units of work.
func (f *UnitOfWorkFactory) RegisterLocalHandler(eventType events.EventType, handler func(context.Context, events.Event) error) {
	if natsPublisher, ok := f.eventPublisher.(*NATSEventPublisher); ok {
		natsPublisher.RegisterLocalHandler(eventType, handler)
	}
}

// CreateForGuild creates a new UnitOfWork with a transactional event publisher
func (f *UnitOfWorkFactory) CreateForGuild(guildID int64) interfaces.UnitOfWork {
	transactionalPublisher := NewNATSTransactionalPublisher(f.eventPublisher)
	return f.repoFactory.CreateForGuildWithPublisher(guildID, transactionalPublisher)
}
