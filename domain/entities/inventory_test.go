package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInventoryItem_Absorb(t *testing.T) {
	item := &InventoryItem{Name: "Bass", UnitValue: 30, Count: 2}

	// (30*2 + 60) / 3 = 40
	item.Absorb(60)
	assert.Equal(t, int64(40), item.UnitValue)
	assert.Equal(t, 3, item.Count)
}

func TestInventoryItem_Remove(t *testing.T) {
	item := &InventoryItem{Name: "Bass", Count: 3}

	assert.False(t, item.Remove(2))
	assert.Equal(t, 1, item.Count)

	assert.True(t, item.Remove(5), "over-removal clamps and empties")
	assert.Equal(t, 0, item.Count)
}

func TestTier_RankAndAtLeast(t *testing.T) {
	assert.Equal(t, 0, TierCommon.Rank())
	assert.Equal(t, 6, TierTranscendent.Rank())
	assert.Equal(t, -1, Tier("bogus").Rank())

	assert.True(t, TierEpic.AtLeast(TierRare))
	assert.True(t, TierEpic.AtLeast(TierEpic))
	assert.False(t, TierUncommon.AtLeast(TierRare))
}
