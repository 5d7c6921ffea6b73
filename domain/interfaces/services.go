package interfaces

import (
	"context"
	"time"

	"plutus/domain/entities"
)

// Ledger defines the interface for atomic balance operations. Every balance
// mutation in the system flows through it, pairing a wallet adjustment with
// an appended transaction inside the same database transaction.
type Ledger interface {
	// Debit removes funds, failing with entities.ErrInsufficientFunds when
	// the wallet cannot cover the amount. Amount must be positive.
	Debit(ctx context.Context, discordID int64, amount int64, kind entities.TransactionKind, description string) (*entities.Transaction, error)

	// Credit adds funds. Amount must be positive.
	Credit(ctx context.Context, discordID int64, amount int64, kind entities.TransactionKind, description string) (*entities.Transaction, error)

	// Transfer moves amount between two wallets in the same guild.
	Transfer(ctx context.Context, fromID, toID int64, amount int64, description string) error

	// Balance returns the wallet's current balance, creating the wallet if
	// it does not exist yet.
	Balance(ctx context.Context, discordID int64) (int64, error)

	// History returns the wallet's most recent ledger entries.
	History(ctx context.Context, discordID int64, limit int) ([]*entities.Transaction, error)
}

// BuffRegistry defines the interface for per-player modifier operations.
type BuffRegistry interface {
	// Grant gives a buff, stacking with any live buff of the same type.
	Grant(ctx context.Context, buff *entities.Buff) (*entities.Buff, error)

	// ActiveBuffs returns the owner's live buffs, pruning dead ones.
	ActiveBuffs(ctx context.Context, ownerID int64) ([]*entities.Buff, error)

	// ActiveBuff returns the owner's live buff of one type, or nil.
	ActiveBuff(ctx context.Context, ownerID int64, buffType entities.BuffType) (*entities.Buff, error)

	// Consume spends one use of a use-counted buff, deleting it when
	// exhausted. Returns the buff as consumed, or nil when none was live.
	Consume(ctx context.Context, ownerID int64, buffType entities.BuffType) (*entities.Buff, error)

	// EarningsMultiplier returns the owner's live earnings multiplier, or 1.
	EarningsMultiplier(ctx context.Context, ownerID int64) (float64, error)
}

// WagerEvaluator defines the interface for single-shot wagering games. Each
// call debits the stake, evaluates the game, and credits any payout within
// one transaction.
type WagerEvaluator interface {
	// Coinflip settles a heads/tails call at 2x.
	Coinflip(ctx context.Context, discordID int64, amount int64, call string) (*entities.WagerResult, error)

	// Dice settles a d6 roll: a specific-number call pays 5x, the
	// high/low/even/odd calls pay 2x.
	Dice(ctx context.Context, discordID int64, amount int64, betType entities.DiceBetType, number int) (*entities.WagerResult, error)

	// Roulette settles a batch of bets against one spin. The combined
	// amount is debited up front; winners pay per-bet multipliers.
	Roulette(ctx context.Context, discordID int64, bets []entities.RouletteBet) (*entities.RouletteResult, error)

	// Slots spins three weighted reels, feeding the progressive jackpot and
	// tracking the loss streak that earns free spins.
	Slots(ctx context.Context, discordID int64, amount int64) (*entities.SlotsResult, error)
}

// BlackjackService defines the interface for blackjack session operations.
type BlackjackService interface {
	// StartGame deals a new session, debiting the stake. If the player
	// already has a live session it is returned unchanged.
	StartGame(ctx context.Context, discordID int64, stake int64) (*entities.BlackjackView, error)

	// Hit draws one card for the active hand.
	Hit(ctx context.Context, discordID int64) (*entities.BlackjackView, error)

	// Stand ends the active hand's turn.
	Stand(ctx context.Context, discordID int64) (*entities.BlackjackView, error)

	// Double doubles the active hand's stake, debiting the difference, and
	// draws exactly one card.
	Double(ctx context.Context, discordID int64) (*entities.BlackjackView, error)

	// Split turns a pair into two hands, debiting a second stake.
	Split(ctx context.Context, discordID int64) (*entities.BlackjackView, error)

	// ReapExpired removes sessions past their TTL; abandoned stakes are
	// forfeited. Returns the number of sessions removed.
	ReapExpired(ctx context.Context, now time.Time) (int64, error)
}

// BetEventService defines the interface for community pari-mutuel events.
type BetEventService interface {
	// Create opens a new event with at least two distinct options.
	Create(ctx context.Context, creatorID int64, description string, options []string, closesAt *time.Time) (*entities.BetEvent, error)

	// PlaceStake debits the bettor and records a stake. A bettor backs one
	// option per event; additional stakes add to the same option.
	PlaceStake(ctx context.Context, eventID, discordID int64, option string, amount int64) (*entities.Stake, error)

	// Close stops an open event from accepting stakes.
	Close(ctx context.Context, eventID int64) (*entities.BetEvent, error)

	// Resolve settles the event: winners split the full pool pro rata. A
	// pool with no winning stake is discarded.
	Resolve(ctx context.Context, eventID int64, winningOption string) (*entities.BetEventResolution, error)

	// Refund cancels the event and returns every stake verbatim.
	Refund(ctx context.Context, eventID int64) (*entities.BetEventResolution, error)

	// Detail returns the event with its stakes and pool totals.
	Detail(ctx context.Context, eventID int64) (*entities.BetEventDetail, error)
}

// LootService defines the interface for weighted-rarity loot acquisition.
type LootService interface {
	// Acquire rolls a tier and item for the activity's loot table, applying
	// the owner's drop-rate and guaranteed-rarity buffs, and stores the
	// drop in the owner's inventory.
	Acquire(ctx context.Context, discordID int64, table *entities.LootTable) (*entities.LootDrop, error)

	// Inventory lists the owner's item stacks.
	Inventory(ctx context.Context, discordID int64) ([]*entities.InventoryItem, error)

	// SellItem removes count units of a named item, crediting their value.
	SellItem(ctx context.Context, discordID int64, name string, count int) (int64, error)
}

// EconomyService defines the interface for the remaining player-facing
// economy operations.
type EconomyService interface {
	// ClaimDaily pays the daily reward, scaling with the consecutive-day
	// streak. One claim per UTC calendar day.
	ClaimDaily(ctx context.Context, discordID int64) (*entities.DailyClaimResult, error)

	// Gift transfers funds to another player.
	Gift(ctx context.Context, fromID, toID int64, amount int64) error

	// RedeemGoldenTicket consumes a golden ticket buff, paying out a
	// fraction of the progressive jackpot.
	RedeemGoldenTicket(ctx context.Context, discordID int64) (int64, error)
}

// UnitOfWork represents one atomic scope of repository work bound to a guild.
// Every operation runs inside one: begin, act through the repositories, then
// commit or roll back. Events published during the scope buffer until commit.
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes buffered events
	Commit(ctx context.Context) error

	// Rollback rolls back the transaction and discards buffered events
	Rollback() error

	// Repository getters
	WalletRepository() WalletRepository
	TransactionRepository() TransactionRepository
	BuffRepository() BuffRepository
	BetEventRepository() BetEventRepository
	BlackjackRepository() BlackjackRepository
	InventoryRepository() InventoryRepository
	JackpotRepository() JackpotRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// CreateForGuild creates a new UnitOfWork instance scoped to a specific guild
	CreateForGuild(guildID int64) UnitOfWork
}
