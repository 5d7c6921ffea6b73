package entities

import (
	"strings"
	"time"
)

// BetEventStatus is the lifecycle state of a community bet event.
type BetEventStatus string

const (
	BetEventStatusOpen     BetEventStatus = "open"
	BetEventStatusClosed   BetEventStatus = "closed"
	BetEventStatusResolved BetEventStatus = "resolved"
	BetEventStatusRefunded BetEventStatus = "refunded"
)

// BetEvent is a community pari-mutuel betting event. It is created open,
// moves open→closed (by time or manually), and ends resolved or refunded.
// Terminal states are final; an event is never reopened.
type BetEvent struct {
	ID            int64          `db:"id"`
	GuildID       int64          `db:"guild_id"`
	CreatorID     int64          `db:"creator_id"`
	Description   string         `db:"description"`
	Options       []string       `db:"options"`
	Status        BetEventStatus `db:"status"`
	WinningOption *string        `db:"winning_option"`
	ClosesAt      *time.Time     `db:"closes_at"`
	CreatedAt     time.Time      `db:"created_at"`
	ResolvedAt    *time.Time     `db:"resolved_at"`
}

// Stake is one player's wager on one option of a bet event. A bettor may
// stake only one option per event; additional stakes must match it.
type Stake struct {
	ID        int64     `db:"id"`
	EventID   int64     `db:"event_id"`
	DiscordID int64     `db:"discord_id"`
	Option    string    `db:"option"`
	Amount    int64     `db:"amount"`
	Payout    *int64    `db:"payout"`
	CreatedAt time.Time `db:"created_at"`
}

// BetEventDetail combines an event with its stakes.
type BetEventDetail struct {
	Event  *BetEvent
	Stakes []*Stake
}

// IsTerminal reports whether the event reached a final state.
func (e *BetEvent) IsTerminal() bool {
	return e.Status == BetEventStatusResolved || e.Status == BetEventStatusRefunded
}

// CanAcceptStakes reports whether new stakes may be placed at now.
func (e *BetEvent) CanAcceptStakes(now time.Time) bool {
	if e.Status != BetEventStatusOpen {
		return false
	}
	if e.ClosesAt != nil && now.After(*e.ClosesAt) {
		return false
	}
	return true
}

// HasOption checks membership in the event's option set (case-insensitive).
func (e *BetEvent) HasOption(option string) bool {
	for _, o := range e.Options {
		if strings.EqualFold(o, option) {
			return true
		}
	}
	return false
}

// CanonicalOption returns the stored spelling of an option, or "" if absent.
func (e *BetEvent) CanonicalOption(option string) string {
	for _, o := range e.Options {
		if strings.EqualFold(o, option) {
			return o
		}
	}
	return ""
}

// Close transitions an open event to closed. Closing an already closed or
// terminal event is a no-op.
func (e *BetEvent) Close() {
	if e.Status == BetEventStatusOpen {
		e.Status = BetEventStatusClosed
	}
}

// Resolve marks the event resolved with the winning option. The caller must
// have verified membership and non-terminal status; the repository enforces
// the same transition with a compare-and-set.
func (e *BetEvent) Resolve(winningOption string, now time.Time) {
	if e.IsTerminal() {
		return
	}
	e.Status = BetEventStatusResolved
	e.WinningOption = &winningOption
	e.ResolvedAt = &now
}

// Refund marks the event refunded.
func (e *BetEvent) Refund(now time.Time) {
	if e.IsTerminal() {
		return
	}
	e.Status = BetEventStatusRefunded
	e.ResolvedAt = &now
}

// TotalPool sums every stake on the event.
func (d *BetEventDetail) TotalPool() int64 {
	var total int64
	for _, s := range d.Stakes {
		total += s.Amount
	}
	return total
}

// TotalOnOption sums the stakes placed on one option.
func (d *BetEventDetail) TotalOnOption(option string) int64 {
	var total int64
	for _, s := range d.Stakes {
		if strings.EqualFold(s.Option, option) {
			total += s.Amount
		}
	}
	return total
}

// StakeBy returns the bettor's existing stake, or nil.
func (d *BetEventDetail) StakeBy(discordID int64) *Stake {
	for _, s := range d.Stakes {
		if s.DiscordID == discordID {
			return s
		}
	}
	return nil
}

// BetEventResolution is the outcome of resolving an event: per-bettor payouts
// plus the pool totals. TotalPaidOut never exceeds TotalPool; when no stake
// backed the winning option the pool is discarded and Payouts is empty.
type BetEventResolution struct {
	Event        *BetEvent
	Payouts      map[int64]int64 // discord ID -> payout amount
	TotalPool    int64
	TotalPaidOut int64
}

// CalculatePayout computes the pari-mutuel share for one winning stake:
// floor(stake / totalWinningStake * totalPool) in integer arithmetic.
func (s *Stake) CalculatePayout(totalWinningStake, totalPool int64) int64 {
	if totalWinningStake == 0 {
		return 0
	}
	return s.Amount * totalPool / totalWinningStake
}
