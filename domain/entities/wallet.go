package entities

import (
	"errors"
	"time"
)

// Wallet is a player's balance record scoped to one guild. Balance mutation
// happens only through the ledger; everything else reads.
type Wallet struct {
	ID             int64      `db:"id"`
	DiscordID      int64      `db:"discord_id"`
	GuildID        int64      `db:"guild_id"`
	Balance        int64      `db:"balance"`
	DailyStreak    int        `db:"daily_streak"`
	LastDailyAt    *time.Time `db:"last_daily_at"`
	SlotLossStreak int        `db:"slot_loss_streak"`
	FreeSpins      int        `db:"free_spins"`
	// GameStreak is the rolling win/loss counter across all single-shot games:
	// positive while winning, negative while losing.
	GameStreak int       `db:"game_streak"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// CanAfford checks if the wallet covers an amount.
func (w *Wallet) CanAfford(amount int64) bool {
	return w.Balance >= amount
}

// ValidateStake checks that an amount is a legal stake against this wallet.
func (w *Wallet) ValidateStake(amount int64) error {
	if amount <= 0 {
		return ErrInvalidWager
	}
	if !w.CanAfford(amount) {
		return ErrInsufficientFunds
	}
	return nil
}

// CanClaimDaily reports whether the daily reward is claimable at now,
// comparing UTC calendar days rather than a 24h window.
func (w *Wallet) CanClaimDaily(now time.Time) bool {
	if w.LastDailyAt == nil {
		return true
	}
	last := w.LastDailyAt.UTC()
	y1, m1, d1 := last.Date()
	y2, m2, d2 := now.UTC().Date()
	return !(y1 == y2 && m1 == m2 && d1 == d2)
}

// NextDailyStreak returns the streak value a claim at now should record:
// consecutive UTC days extend the streak, a gap resets it to 1.
func (w *Wallet) NextDailyStreak(now time.Time) int {
	if w.LastDailyAt == nil {
		return 1
	}
	yesterday := now.UTC().AddDate(0, 0, -1)
	y1, m1, d1 := w.LastDailyAt.UTC().Date()
	y2, m2, d2 := yesterday.Date()
	if y1 == y2 && m1 == m2 && d1 == d2 {
		return w.DailyStreak + 1
	}
	return 1
}

// RecordGameResult updates the rolling win/loss streak for a single-shot game.
func (w *Wallet) RecordGameResult(won bool) {
	if won {
		if w.GameStreak < 0 {
			w.GameStreak = 0
		}
		w.GameStreak++
	} else {
		if w.GameStreak > 0 {
			w.GameStreak = 0
		}
		w.GameStreak--
	}
}

// ValidateBalance ensures the non-negative balance invariant holds.
func (w *Wallet) ValidateBalance() error {
	if w.Balance < 0 {
		return errors.New("wallet balance is negative")
	}
	return nil
}
