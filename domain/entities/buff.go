package entities

import (
	"time"
)

// BuffType identifies a modifier's behavior. The buff itself is pure data;
// the consuming component decides what the type means.
type BuffType string

const (
	// BuffTypeEarnings multiplies computed winnings and loot values. Time-boxed.
	BuffTypeEarnings BuffType = "earnings_multiplier"
	// BuffTypeGuaranteedRarity guarantees a minimum loot tier. Use-counted.
	BuffTypeGuaranteedRarity BuffType = "guaranteed_rarity"
	// BuffTypeDropRate multiplies the combined weight of tiers at or above its
	// threshold tier. Time-boxed.
	BuffTypeDropRate BuffType = "drop_rate_multiplier"
	// BuffTypeJailImmunity shields the owner from jail punishments. Time-boxed.
	BuffTypeJailImmunity BuffType = "jail_immunity"
	// BuffTypeActionMultiplier multiplies work/crime rewards. Use-counted.
	BuffTypeActionMultiplier BuffType = "action_multiplier"
	// BuffTypeGoldenTicket partially redeems the jackpot pool. Use-counted.
	BuffTypeGoldenTicket BuffType = "golden_ticket"
)

// Buff is a time-boxed or use-counted modifier owned by one player. Exactly
// one of ExpiresAt / UsesLeft is set, depending on the lifecycle mode.
type Buff struct {
	ID         int64      `db:"id"`
	OwnerID    int64      `db:"owner_id"`
	GuildID    int64      `db:"guild_id"`
	Type       BuffType   `db:"buff_type"`
	Multiplier float64    `db:"multiplier"` // meaningful for multiplier types
	TierFloor  Tier       `db:"tier_floor"` // guaranteed/threshold tier, when applicable
	ExpiresAt  *time.Time `db:"expires_at"`
	UsesLeft   *int       `db:"uses_left"`
	CreatedAt  time.Time  `db:"created_at"`
}

// IsTimeBoxed reports whether the buff expires at a timestamp.
func (b *Buff) IsTimeBoxed() bool {
	return b.ExpiresAt != nil
}

// IsUseCounted reports whether the buff is consumed per use.
func (b *Buff) IsUseCounted() bool {
	return b.UsesLeft != nil
}

// IsLive reports whether the buff still has effect at now.
func (b *Buff) IsLive(now time.Time) bool {
	if b.IsTimeBoxed() {
		return b.ExpiresAt.After(now)
	}
	if b.IsUseCounted() {
		return *b.UsesLeft > 0
	}
	return false
}

// Stack merges another grant of the same type into this buff: time-boxed
// buffs extend expiry by the incoming buff's remaining duration at now,
// use-counted buffs sum remaining uses.
func (b *Buff) Stack(incoming *Buff, now time.Time) {
	if b.IsTimeBoxed() && incoming.IsTimeBoxed() {
		extended := b.ExpiresAt.Add(incoming.ExpiresAt.Sub(now))
		b.ExpiresAt = &extended
	}
	if b.IsUseCounted() && incoming.IsUseCounted() {
		total := *b.UsesLeft + *incoming.UsesLeft
		b.UsesLeft = &total
	}
}

// ConsumeUse decrements a use-counted buff. Returns true when the buff is
// exhausted and should be removed.
func (b *Buff) ConsumeUse() bool {
	if !b.IsUseCounted() {
		return false
	}
	if *b.UsesLeft > 0 {
		*b.UsesLeft--
	}
	return *b.UsesLeft == 0
}
