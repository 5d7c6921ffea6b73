package events

import "plutus/domain/entities"

// EventType represents different types of events in the system.
type EventType string

const (
	EventTypeBalanceChange       EventType = "balance_change"
	EventTypeTransactionRecorded EventType = "transaction_recorded"
	EventTypeBetEventResolved    EventType = "bet_event_resolved"
	EventTypeBetEventRefunded    EventType = "bet_event_refunded"
	EventTypeJackpotWon          EventType = "jackpot_won"
	EventTypeLootDropped         EventType = "loot_dropped"
)

// Event is the base interface for all events. Emission is fire-and-forget:
// publish failures are logged and swallowed, never surfaced to settlement.
type Event interface {
	Type() EventType
}

// BalanceChangeEvent announces a wallet balance change.
type BalanceChangeEvent struct {
	DiscordID    int64
	GuildID      int64
	OldBalance   int64
	NewBalance   int64
	ChangeAmount int64
	Kind         entities.TransactionKind
}

func (e BalanceChangeEvent) Type() EventType { return EventTypeBalanceChange }

// TransactionRecordedEvent announces an appended ledger entry.
type TransactionRecordedEvent struct {
	TransactionID int64
	ExternalID    string
	DiscordID     int64
	GuildID       int64
	Kind          entities.TransactionKind
	Amount        int64
	Description   string
}

func (e TransactionRecordedEvent) Type() EventType { return EventTypeTransactionRecorded }

// BetEventResolvedEvent announces a pari-mutuel resolution.
type BetEventResolvedEvent struct {
	EventID       int64
	GuildID       int64
	WinningOption string
	TotalPool     int64
	TotalPaidOut  int64
	WinnerCount   int
}

func (e BetEventResolvedEvent) Type() EventType { return EventTypeBetEventResolved }

// BetEventRefundedEvent announces an administrative refund.
type BetEventRefundedEvent struct {
	EventID       int64
	GuildID       int64
	TotalRefunded int64
}

func (e BetEventRefundedEvent) Type() EventType { return EventTypeBetEventRefunded }

// JackpotWonEvent announces a jackpot drain or golden-ticket redemption.
type JackpotWonEvent struct {
	GuildID   int64
	DiscordID int64
	Amount    int64
	Partial   bool
}

func (e JackpotWonEvent) Type() EventType { return EventTypeJackpotWon }

// LootDroppedEvent announces a loot acquisition.
type LootDroppedEvent struct {
	GuildID   int64
	DiscordID int64
	Item      string
	Tier      entities.Tier
	Value     int64
}

func (e LootDroppedEvent) Type() EventType { return EventTypeLootDropped }
