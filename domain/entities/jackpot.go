package entities

import "time"

// JackpotPool is the per-guild progressive pot. It grows from a fixed
// fraction of qualifying slot losses and drains fully on a jackpot win, or
// partially on a golden-ticket redemption.
type JackpotPool struct {
	GuildID      int64      `db:"guild_id"`
	Amount       int64      `db:"amount"`
	LastWinnerID *int64     `db:"last_winner_id"`
	LastWinAt    *time.Time `db:"last_win_at"`
	LastWin      int64      `db:"last_win_amount"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

// JackpotContribution is one entry in the pool's contribution log.
type JackpotContribution struct {
	ID        int64     `db:"id"`
	GuildID   int64     `db:"guild_id"`
	DiscordID int64     `db:"discord_id"`
	Amount    int64     `db:"amount"`
	CreatedAt time.Time `db:"created_at"`
}

// Drain empties the pool for a winner and records the win.
func (p *JackpotPool) Drain(winnerID int64, now time.Time) int64 {
	won := p.Amount
	p.Amount = 0
	p.LastWinnerID = &winnerID
	p.LastWin = won
	p.LastWinAt = &now
	return won
}

// Redeem takes a fraction of the pool (a golden-ticket partial redemption).
func (p *JackpotPool) Redeem(winnerID int64, fraction float64, now time.Time) int64 {
	won := int64(float64(p.Amount) * fraction)
	p.Amount -= won
	p.LastWinnerID = &winnerID
	p.LastWin = won
	p.LastWinAt = &now
	return won
}
