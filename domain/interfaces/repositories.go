package interfaces

import (
	"context"
	"time"

	"plutus/domain/entities"
	"plutus/domain/events"
)

// WalletRepository defines guild-scoped wallet data access. Repositories are
// created per unit of work and bound to one guild.
type WalletRepository interface {
	// GetByDiscordID retrieves a wallet, or nil when none exists.
	GetByDiscordID(ctx context.Context, discordID int64) (*entities.Wallet, error)

	// GetOrCreate retrieves a wallet, creating it with a zero balance first
	// if needed.
	GetOrCreate(ctx context.Context, discordID int64) (*entities.Wallet, error)

	// AdjustBalance applies a signed delta as a single conditional update
	// that refuses to take the balance below zero, returning the new
	// balance. A refused debit reports entities.ErrInsufficientFunds.
	AdjustBalance(ctx context.Context, discordID int64, delta int64) (int64, error)

	// UpdateCounters persists the wallet's streak and free-spin fields.
	UpdateCounters(ctx context.Context, wallet *entities.Wallet) error
}

// TransactionRepository appends and reads the immutable ledger log.
type TransactionRepository interface {
	// Record appends a transaction, populating ID and CreatedAt.
	Record(ctx context.Context, tx *entities.Transaction) error

	// GetByWallet returns a wallet's most recent transactions.
	GetByWallet(ctx context.Context, discordID int64, limit int) ([]*entities.Transaction, error)

	// SumByWallet returns the running sum of a wallet's transaction amounts.
	SumByWallet(ctx context.Context, discordID int64) (int64, error)
}

// BuffRepository stores per-player modifiers.
type BuffRepository interface {
	GetByOwner(ctx context.Context, ownerID int64) ([]*entities.Buff, error)
	GetByOwnerAndType(ctx context.Context, ownerID int64, buffType entities.BuffType) (*entities.Buff, error)
	Create(ctx context.Context, buff *entities.Buff) error
	Update(ctx context.Context, buff *entities.Buff) error
	Delete(ctx context.Context, id int64) error

	// DeleteDead removes expired and exhausted buffs for an owner.
	DeleteDead(ctx context.Context, ownerID int64, now time.Time) error
}

// BetEventRepository stores community bet events and their stakes.
type BetEventRepository interface {
	Create(ctx context.Context, event *entities.BetEvent) error
	GetByID(ctx context.Context, id int64) (*entities.BetEvent, error)
	GetDetailByID(ctx context.Context, id int64) (*entities.BetEventDetail, error)
	ListByStatus(ctx context.Context, status entities.BetEventStatus) ([]*entities.BetEvent, error)

	// MarkClosed transitions open→closed.
	MarkClosed(ctx context.Context, id int64) error

	// MarkResolved performs a compare-and-set open|closed→resolved. It
	// reports false when the event was already terminal, so a concurrent
	// duplicate resolution is rejected without double-paying.
	MarkResolved(ctx context.Context, id int64, winningOption string, now time.Time) (bool, error)

	// MarkRefunded performs the matching compare-and-set open|closed→refunded.
	MarkRefunded(ctx context.Context, id int64, now time.Time) (bool, error)

	CreateStake(ctx context.Context, stake *entities.Stake) error
	UpdateStakePayouts(ctx context.Context, stakes []*entities.Stake) error
}

// BlackjackRepository stores live blackjack sessions. The store enforces at
// most one non-terminal session per (owner, guild).
type BlackjackRepository interface {
	// GetActiveByOwner returns the owner's live session, or nil.
	GetActiveByOwner(ctx context.Context, ownerID int64) (*entities.BlackjackSession, error)

	// Create persists a new session. A concurrent duplicate violates the
	// uniqueness constraint and surfaces as an error.
	Create(ctx context.Context, session *entities.BlackjackSession) error

	Update(ctx context.Context, session *entities.BlackjackSession) error
	Delete(ctx context.Context, id int64) error

	// DeleteExpired removes sessions past their TTL, returning the count.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// InventoryRepository stores item stacks.
type InventoryRepository interface {
	GetByOwnerAndName(ctx context.Context, ownerID int64, name string) (*entities.InventoryItem, error)
	GetByOwner(ctx context.Context, ownerID int64) ([]*entities.InventoryItem, error)
	Save(ctx context.Context, item *entities.InventoryItem) error
	Delete(ctx context.Context, id int64) error
}

// JackpotRepository stores the guild's progressive pool.
type JackpotRepository interface {
	GetOrCreate(ctx context.Context) (*entities.JackpotPool, error)
	Update(ctx context.Context, pool *entities.JackpotPool) error
	RecordContribution(ctx context.Context, contribution *entities.JackpotContribution) error
}

// EventPublisher defines the interface for publishing events.
type EventPublisher interface {
	Publish(event events.Event) error
}

// TransactionalEventPublisher buffers events during a unit of work, flushing
// after commit and discarding on rollback.
type TransactionalEventPublisher interface {
	EventPublisher
	Flush(ctx context.Context) error
	Discard()
}
