package services

import (
	"context"
	"fmt"
	"math/rand"

	"plutus/domain/entities"
	"plutus/domain/events"
	"plutus/domain/interfaces"
)

type lootService struct {
	ledger         interfaces.Ledger
	buffs          interfaces.BuffRegistry
	inventoryRepo  interfaces.InventoryRepository
	eventPublisher interfaces.EventPublisher
	rng            *rand.Rand
}

// NewLootService creates a new loot distribution service
func NewLootService(
	ledger interfaces.Ledger,
	buffs interfaces.BuffRegistry,
	inventoryRepo interfaces.InventoryRepository,
	eventPublisher interfaces.EventPublisher,
	rng *rand.Rand,
) interfaces.LootService {
	return &lootService{
		ledger:         ledger,
		buffs:          buffs,
		inventoryRepo:  inventoryRepo,
		eventPublisher: eventPublisher,
		rng:            rng,
	}
}

// adjustWeights applies the buff rules to a base weight table and returns a
// new table renormalized to sum exactly 100:
//   - a guaranteed-minimum tier zeroes every weight below it;
//   - a drop-rate buff scales the combined weight of tiers at or above its
//     threshold (capped at 100), keeping their relative ratios; with a
//     guarantee active the guaranteed tier's weight becomes exactly the
//     remainder left by the scaled band, otherwise the remainder spreads
//     across the lower tiers in their original ratios.
func adjustWeights(base []entities.TierWeight, guaranteeFloor entities.Tier, rateFloor entities.Tier, rateMultiplier float64) []entities.TierWeight {
	weights := make([]entities.TierWeight, len(base))
	copy(weights, base)

	hasGuarantee := guaranteeFloor != ""
	if hasGuarantee {
		for i := range weights {
			if !weights[i].Tier.AtLeast(guaranteeFloor) {
				weights[i].Weight = 0
			}
		}
	}

	if rateFloor != "" && rateMultiplier > 1 {
		var combined float64
		for _, w := range weights {
			if w.Tier.AtLeast(rateFloor) {
				combined += w.Weight
			}
		}
		if combined > 0 {
			target := combined * rateMultiplier
			if target > 100 {
				target = 100
			}
			scale := target / combined
			for i := range weights {
				if weights[i].Tier.AtLeast(rateFloor) {
					weights[i].Weight *= scale
				}
			}

			remainder := 100 - target
			if hasGuarantee {
				// The guaranteed tier takes the entire remainder, so the
				// scaled band keeps its full multiplier. Any other tier
				// below the rate floor is squeezed out.
				for i := range weights {
					if weights[i].Tier.AtLeast(rateFloor) {
						continue
					}
					if weights[i].Tier == guaranteeFloor {
						weights[i].Weight = remainder
					} else {
						weights[i].Weight = 0
					}
				}
			} else {
				var lower float64
				for _, w := range weights {
					if !w.Tier.AtLeast(rateFloor) {
						lower += w.Weight
					}
				}
				if lower > 0 {
					lowerScale := remainder / lower
					for i := range weights {
						if !weights[i].Tier.AtLeast(rateFloor) {
							weights[i].Weight *= lowerScale
						}
					}
				}
			}
		}
	}

	// Renormalize to absorb rounding drift.
	var total float64
	for _, w := range weights {
		total += w.Weight
	}
	if total > 0 && total != 100 {
		scale := 100 / total
		for i := range weights {
			weights[i].Weight *= scale
		}
	}
	return weights
}

// rollTier is a single cumulative roll over the table in fixed tier order.
func rollTier(weights []entities.TierWeight, roll float64) entities.Tier {
	var cumulative float64
	for _, w := range weights {
		cumulative += w.Weight
		if roll < cumulative {
			return w.Tier
		}
	}
	// Rounding can leave the final cumulative fractionally short of 100.
	return weights[len(weights)-1].Tier
}

func (s *lootService) Acquire(ctx context.Context, discordID int64, table *entities.LootTable) (*entities.LootDrop, error) {
	if table == nil || len(table.Weights) == 0 {
		return nil, fmt.Errorf("loot table is empty")
	}

	var guaranteeFloor, rateFloor entities.Tier
	var rateMultiplier float64

	guarantee, err := s.buffs.ActiveBuff(ctx, discordID, entities.BuffTypeGuaranteedRarity)
	if err != nil {
		return nil, fmt.Errorf("failed to check guaranteed-rarity buff: %w", err)
	}
	if guarantee != nil {
		guaranteeFloor = guarantee.TierFloor
	}

	rate, err := s.buffs.ActiveBuff(ctx, discordID, entities.BuffTypeDropRate)
	if err != nil {
		return nil, fmt.Errorf("failed to check drop-rate buff: %w", err)
	}
	if rate != nil {
		rateFloor = rate.TierFloor
		rateMultiplier = rate.Multiplier
	}

	weights := adjustWeights(table.Weights, guaranteeFloor, rateFloor, rateMultiplier)
	tier := rollTier(weights, s.rng.Float64()*100)

	pool := table.Pools[tier]
	if len(pool) == 0 {
		return nil, fmt.Errorf("loot table has no items for tier %s", tier)
	}
	spec := pool[s.rng.Intn(len(pool))]

	value := spec.MinValue
	if spread := spec.MaxValue - spec.MinValue; spread > 0 {
		value += s.rng.Int63n(spread + 1)
	}

	earnings, err := s.buffs.EarningsMultiplier(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to check earnings buff: %w", err)
	}
	value = int64(float64(value) * earnings)

	// The guarantee is spent by the acquisition it influenced.
	if guarantee != nil {
		if _, err := s.buffs.Consume(ctx, discordID, entities.BuffTypeGuaranteedRarity); err != nil {
			return nil, fmt.Errorf("failed to consume guaranteed-rarity buff: %w", err)
		}
	}

	if err := s.store(ctx, discordID, table.Category, spec.Name, tier, value); err != nil {
		return nil, err
	}

	drop := &entities.LootDrop{
		Item:  spec.Name,
		Tier:  tier,
		Value: value,
		Kind:  table.Category,
	}

	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(events.LootDroppedEvent{
			DiscordID: discordID,
			Item:      drop.Item,
			Tier:      drop.Tier,
			Value:     drop.Value,
		})
	}

	return drop, nil
}

// store merges the drop into the owner's inventory, averaging the unit value
// across acquisitions of the same item name.
func (s *lootService) store(ctx context.Context, discordID int64, category entities.ItemCategory, name string, tier entities.Tier, value int64) error {
	item, err := s.inventoryRepo.GetByOwnerAndName(ctx, discordID, name)
	if err != nil {
		return fmt.Errorf("failed to look up inventory item: %w", err)
	}
	if item == nil {
		item = &entities.InventoryItem{
			OwnerID:   discordID,
			Category:  category,
			Name:      name,
			Tier:      tier,
			UnitValue: value,
			Count:     1,
		}
	} else {
		item.Absorb(value)
	}
	if err := s.inventoryRepo.Save(ctx, item); err != nil {
		return fmt.Errorf("failed to save inventory item: %w", err)
	}
	return nil
}

func (s *lootService) Inventory(ctx context.Context, discordID int64) ([]*entities.InventoryItem, error) {
	items, err := s.inventoryRepo.GetByOwner(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory: %w", err)
	}
	return items, nil
}

func (s *lootService) SellItem(ctx context.Context, discordID int64, name string, count int) (int64, error) {
	if count <= 0 {
		return 0, fmt.Errorf("%w: sale count must be positive", entities.ErrInvalidWager)
	}

	item, err := s.inventoryRepo.GetByOwnerAndName(ctx, discordID, name)
	if err != nil {
		return 0, fmt.Errorf("failed to look up inventory item: %w", err)
	}
	if item == nil {
		return 0, entities.ErrNotFound
	}

	if count > item.Count {
		count = item.Count
	}
	proceeds := item.UnitValue * int64(count)

	if empty := item.Remove(count); empty {
		if err := s.inventoryRepo.Delete(ctx, item.ID); err != nil {
			return 0, fmt.Errorf("failed to delete emptied stack: %w", err)
		}
	} else {
		if err := s.inventoryRepo.Save(ctx, item); err != nil {
			return 0, fmt.Errorf("failed to update inventory item: %w", err)
		}
	}

	if proceeds > 0 {
		if _, err := s.ledger.Credit(ctx, discordID, proceeds, entities.TransactionKindSale, fmt.Sprintf("sold %dx %s", count, name)); err != nil {
			return 0, fmt.Errorf("failed to credit sale: %w", err)
		}
	}
	return proceeds, nil
}
