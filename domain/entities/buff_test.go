package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func TestBuff_IsLive(t *testing.T) {
	now := time.Now()

	future := now.Add(time.Hour)
	timeBoxed := &Buff{Type: BuffTypeEarnings, ExpiresAt: &future}
	assert.True(t, timeBoxed.IsLive(now))

	past := now.Add(-time.Hour)
	expired := &Buff{Type: BuffTypeEarnings, ExpiresAt: &past}
	assert.False(t, expired.IsLive(now))

	counted := &Buff{Type: BuffTypeGuaranteedRarity, UsesLeft: intPtr(2)}
	assert.True(t, counted.IsLive(now))

	exhausted := &Buff{Type: BuffTypeGuaranteedRarity, UsesLeft: intPtr(0)}
	assert.False(t, exhausted.IsLive(now))
}

func TestBuff_Stack_TimeBoxedExtendsExpiry(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	base := now.Add(time.Hour)
	b := &Buff{Type: BuffTypeEarnings, ExpiresAt: &base}

	incomingExpiry := now.Add(30 * time.Minute)
	b.Stack(&Buff{Type: BuffTypeEarnings, ExpiresAt: &incomingExpiry}, now)

	// Expiry extended by exactly the incoming buff's remaining duration.
	assert.Equal(t, now.Add(90*time.Minute), *b.ExpiresAt)
}

func TestBuff_Stack_UseCountedSumsUses(t *testing.T) {
	b := &Buff{Type: BuffTypeGuaranteedRarity, UsesLeft: intPtr(2)}
	b.Stack(&Buff{Type: BuffTypeGuaranteedRarity, UsesLeft: intPtr(3)}, time.Time{})
	assert.Equal(t, 5, *b.UsesLeft)
}

func TestBuff_ConsumeUse(t *testing.T) {
	b := &Buff{Type: BuffTypeGoldenTicket, UsesLeft: intPtr(2)}

	require.False(t, b.ConsumeUse())
	assert.Equal(t, 1, *b.UsesLeft)

	assert.True(t, b.ConsumeUse(), "last use reports exhaustion")
	assert.Equal(t, 0, *b.UsesLeft)

	timeBoxed := &Buff{Type: BuffTypeEarnings, ExpiresAt: &time.Time{}}
	assert.False(t, timeBoxed.ConsumeUse(), "time-boxed buffs are not use-consumed")
}
