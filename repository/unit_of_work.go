package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"plutus/database"
	"plutus/domain/interfaces"
)

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db              *database.DB
	tx              pgx.Tx
	guildID         int64
	publisher       interfaces.TransactionalEventPublisher
	walletRepo      interfaces.WalletRepository
	transactionRepo interfaces.TransactionRepository
	buffRepo        interfaces.BuffRepository
	betEventRepo    interfaces.BetEventRepository
	blackjackRepo   interfaces.BlackjackRepository
	inventoryRepo   interfaces.InventoryRepository
	jackpotRepo     interfaces.JackpotRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB) *unitOfWorkFactory {
	return &unitOfWorkFactory{db: db}
}

type unitOfWorkFactory struct {
	db *database.DB
}

// CreateForGuildWithPublisher creates a new UnitOfWork scoped to a guild with
// a specific transactional publisher
func (f *unitOfWorkFactory) CreateForGuildWithPublisher(guildID int64, publisher interfaces.TransactionalEventPublisher) interfaces.UnitOfWork {
	return &unitOfWork{
		db:        f.db,
		guildID:   guildID,
		publisher: publisher,
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx

	// Create guild-scoped repositories with the transaction
	u.walletRepo = NewWalletRepositoryScoped(tx, u.guildID)
	u.transactionRepo = NewTransactionRepositoryScoped(tx, u.guildID)
	u.buffRepo = NewBuffRepositoryScoped(tx, u.guildID)
	u.betEventRepo = NewBetEventRepositoryScoped(tx, u.guildID)
	u.blackjackRepo = NewBlackjackRepositoryScoped(tx, u.guildID)
	u.inventoryRepo = NewInventoryRepositoryScoped(tx, u.guildID)
	u.jackpotRepo = NewJackpotRepositoryScoped(tx, u.guildID)

	return nil
}

// Commit commits the transaction and flushes buffered events
func (u *unitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	// Flush pending events only after a successful commit
	if u.publisher != nil {
		if err := u.publisher.Flush(ctx); err != nil {
			return fmt.Errorf("failed to flush events: %w", err)
		}
	}

	return nil
}

// Rollback rolls back the transaction and discards buffered events
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(context.Background())
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	if u.publisher != nil {
		u.publisher.Discard()
	}

	return nil
}

// WalletRepository returns the wallet repository for this unit of work
func (u *unitOfWork) WalletRepository() interfaces.WalletRepository {
	if u.walletRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.walletRepo
}

// TransactionRepository returns the transaction repository for this unit of work
func (u *unitOfWork) TransactionRepository() interfaces.TransactionRepository {
	if u.transactionRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionRepo
}

// BuffRepository returns the buff repository for this unit of work
func (u *unitOfWork) BuffRepository() interfaces.BuffRepository {
	if u.buffRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.buffRepo
}

// BetEventRepository returns the bet event repository for this unit of work
func (u *unitOfWork) BetEventRepository() interfaces.BetEventRepository {
	if u.betEventRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.betEventRepo
}

// BlackjackRepository returns the blackjack repository for this unit of work
func (u *unitOfWork) BlackjackRepository() interfaces.BlackjackRepository {
	if u.blackjackRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.blackjackRepo
}

// InventoryRepository returns the inventory repository for this unit of work
func (u *unitOfWork) InventoryRepository() interfaces.InventoryRepository {
	if u.inventoryRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.inventoryRepo
}

// JackpotRepository returns the jackpot repository for this unit of work
func (u *unitOfWork) JackpotRepository() interfaces.JackpotRepository {
	if u.jackpotRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.jackpotRepo
}

// EventBus returns the transactional event publisher for this unit of work
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	if u.publisher == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.publisher
}
