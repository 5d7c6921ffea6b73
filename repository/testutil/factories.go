package testutil

import (
	"time"

	"plutus/domain/entities"
)

// CreateTestBuff creates a use-counted buff with default values
func CreateTestBuff(ownerID int64, buffType entities.BuffType, uses int) *entities.Buff {
	return &entities.Buff{
		OwnerID:  ownerID,
		Type:     buffType,
		UsesLeft: &uses,
	}
}

// CreateTestTimedBuff creates a time-boxed buff expiring after the duration
func CreateTestTimedBuff(ownerID int64, buffType entities.BuffType, multiplier float64, ttl time.Duration) *entities.Buff {
	expires := time.Now().Add(ttl)
	return &entities.Buff{
		OwnerID:    ownerID,
		Type:       buffType,
		Multiplier: multiplier,
		ExpiresAt:  &expires,
	}
}

// CreateTestBetEvent creates an open two-option bet event
func CreateTestBetEvent(creatorID int64, description string) *entities.BetEvent {
	return &entities.BetEvent{
		CreatorID:   creatorID,
		Description: description,
		Options:     []string{"yes", "no"},
		Status:      entities.BetEventStatusOpen,
	}
}

// CreateTestInventoryItem creates a single-count inventory item
func CreateTestInventoryItem(ownerID int64, name string, tier entities.Tier, value int64) *entities.InventoryItem {
	return &entities.InventoryItem{
		OwnerID:   ownerID,
		Category:  entities.ItemCategoryFish,
		Name:      name,
		Tier:      tier,
		UnitValue: value,
		Count:     1,
	}
}
