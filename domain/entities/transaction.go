package entities

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TransactionKind classifies a ledger entry.
type TransactionKind string

const (
	TransactionKindWager   TransactionKind = "wager"
	TransactionKindPayout  TransactionKind = "payout"
	TransactionKindDaily   TransactionKind = "daily"
	TransactionKindGift    TransactionKind = "gift"
	TransactionKindJackpot TransactionKind = "jackpot"
	TransactionKindRefund  TransactionKind = "refund"
	TransactionKindSale    TransactionKind = "sale"
	TransactionKindInitial TransactionKind = "initial"
)

// IsCredit returns true for kinds that only ever add funds.
func (k TransactionKind) IsCredit() bool {
	return k == TransactionKindPayout ||
		k == TransactionKindDaily ||
		k == TransactionKindJackpot ||
		k == TransactionKindRefund ||
		k == TransactionKindSale ||
		k == TransactionKindInitial
}

// String returns the string representation of the kind.
func (k TransactionKind) String() string {
	return string(k)
}

// Transaction is an immutable, append-only ledger entry. The running sum of a
// player's transaction amounts in a guild equals their wallet balance.
type Transaction struct {
	ID          int64           `db:"id"`
	ExternalID  uuid.UUID       `db:"external_id"`
	DiscordID   int64           `db:"discord_id"`
	GuildID     int64           `db:"guild_id"`
	Kind        TransactionKind `db:"kind"`
	Amount      int64           `db:"amount"` // signed: debits negative, credits positive
	Description string          `db:"description"`
	CreatedAt   time.Time       `db:"created_at"`
}

// Validate performs basic consistency checks before a transaction is recorded.
func (t *Transaction) Validate() error {
	if t.Amount == 0 {
		return errors.New("transaction amount cannot be zero")
	}
	if t.Kind == "" {
		return errors.New("transaction kind is required")
	}
	if t.Amount < 0 && t.Kind.IsCredit() {
		return errors.New("credit-only kind cannot carry a negative amount")
	}
	return nil
}
