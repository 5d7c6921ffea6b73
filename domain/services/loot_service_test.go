package services

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"plutus/domain/entities"
	"plutus/domain/testhelpers"
)

func weightSum(weights []entities.TierWeight) float64 {
	var total float64
	for _, w := range weights {
		total += w.Weight
	}
	return total
}

func weightOf(weights []entities.TierWeight, tier entities.Tier) float64 {
	for _, w := range weights {
		if w.Tier == tier {
			return w.Weight
		}
	}
	return -1
}

func TestAdjustWeights_SumsToHundred(t *testing.T) {
	tests := []struct {
		name           string
		guaranteeFloor entities.Tier
		rateFloor      entities.Tier
		rateMultiplier float64
	}{
		{"no buffs", "", "", 0},
		{"rate buff only", "", entities.TierRare, 2},
		{"guarantee only", entities.TierRare, "", 0},
		{"both", entities.TierRare, entities.TierEpic, 2},
		{"rate capped at 100", "", entities.TierCommon, 50},
		{"guarantee above rate floor", entities.TierEpic, entities.TierRare, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adjusted := adjustWeights(baseWeights, tt.guaranteeFloor, tt.rateFloor, tt.rateMultiplier)
			assert.InDelta(t, 100, weightSum(adjusted), 1e-9)
		})
	}
}

func TestAdjustWeights_GuaranteeZeroesLowerTiers(t *testing.T) {
	adjusted := adjustWeights(baseWeights, entities.TierRare, "", 0)

	assert.Zero(t, weightOf(adjusted, entities.TierCommon))
	assert.Zero(t, weightOf(adjusted, entities.TierUncommon))
	assert.Greater(t, weightOf(adjusted, entities.TierRare), float64(0))
	assert.Greater(t, weightOf(adjusted, entities.TierTranscendent), float64(0))
}

func TestAdjustWeights_RateBuffScalesUpperTiers(t *testing.T) {
	adjusted := adjustWeights(baseWeights, "", entities.TierEpic, 2)

	// Epic and above held 13 combined; doubled to 26.
	var upper float64
	for _, w := range adjusted {
		if w.Tier.AtLeast(entities.TierEpic) {
			upper += w.Weight
		}
	}
	assert.InDelta(t, 26, upper, 1e-9)

	// Upper tiers keep their relative ratios.
	assert.InDelta(t, 16, weightOf(adjusted, entities.TierEpic), 1e-9)
	assert.InDelta(t, 7, weightOf(adjusted, entities.TierLegendary), 1e-9)

	// Lower tiers shrink proportionally to absorb the difference.
	lower := weightOf(adjusted, entities.TierCommon) + weightOf(adjusted, entities.TierUncommon) + weightOf(adjusted, entities.TierRare)
	assert.InDelta(t, 74, lower, 1e-9)
}

func TestAdjustWeights_GuaranteePlusRateFeedsGuaranteedTier(t *testing.T) {
	adjusted := adjustWeights(baseWeights, entities.TierRare, entities.TierEpic, 2)

	assert.Zero(t, weightOf(adjusted, entities.TierCommon))
	assert.Zero(t, weightOf(adjusted, entities.TierUncommon))

	// The scaled band keeps its full multiplier even with the guarantee
	// active: epic and above held 13 combined, doubled to 26.
	var upper float64
	for _, w := range adjusted {
		if w.Tier.AtLeast(entities.TierEpic) {
			upper += w.Weight
		}
	}
	assert.InDelta(t, 26, upper, 1e-9)

	// The guaranteed tier's weight is exactly the remainder, not its base
	// weight plus the remainder, so no renormalization dilutes the band.
	assert.InDelta(t, 74, weightOf(adjusted, entities.TierRare), 1e-9)
	assert.InDelta(t, 100, weightSum(adjusted), 1e-9)
}

func TestRollTier(t *testing.T) {
	assert.Equal(t, entities.TierCommon, rollTier(baseWeights, 0))
	assert.Equal(t, entities.TierCommon, rollTier(baseWeights, 44.9))
	assert.Equal(t, entities.TierUncommon, rollTier(baseWeights, 45))
	assert.Equal(t, entities.TierTranscendent, rollTier(baseWeights, 99.9))
	// Rolls past the cumulative total fall through to the rarest tier.
	assert.Equal(t, entities.TierTranscendent, rollTier(baseWeights, 100))
}

func TestTableForActivity(t *testing.T) {
	fish, err := TableForActivity("fish", "")
	require.NoError(t, err)
	assert.Equal(t, entities.ItemCategoryFish, fish.Category)
	assert.InDelta(t, 100, weightSum(fish.Weights), 1e-9)

	box, err := TableForActivity("box", entities.TierLegendary)
	require.NoError(t, err)
	assert.InDelta(t, 100, weightSum(box.Weights), 1e-9)
	assert.Greater(t, weightOf(box.Weights, entities.TierLegendary), float64(50))

	_, err = TableForActivity("box", entities.Tier("cardboard"))
	assert.ErrorIs(t, err, entities.ErrInvalidWager)

	_, err = TableForActivity("mine", "")
	assert.ErrorIs(t, err, entities.ErrInvalidWager)
}

func TestBoxWeights_EveryTierSumsToHundred(t *testing.T) {
	for _, tier := range entities.TierOrder {
		assert.InDelta(t, 100, weightSum(boxWeights(tier)), 1e-9, string(tier))
	}
}

func newLootFixture(seed int64) (*lootService, *testhelpers.MockBuffRegistry, *testhelpers.MockInventoryRepository, *testhelpers.FakeLedger) {
	ledger := testhelpers.NewFakeLedger()
	buffs := new(testhelpers.MockBuffRegistry)
	inventoryRepo := new(testhelpers.MockInventoryRepository)
	svc := NewLootService(ledger, buffs, inventoryRepo, nil, rand.New(rand.NewSource(seed))).(*lootService)
	return svc, buffs, inventoryRepo, ledger
}

func TestLootService_Acquire_StoresNewItem(t *testing.T) {
	svc, buffs, inventoryRepo, _ := newLootFixture(3)

	buffs.On("ActiveBuff", mock.Anything, int64(42), entities.BuffTypeGuaranteedRarity).Return(nil, nil)
	buffs.On("ActiveBuff", mock.Anything, int64(42), entities.BuffTypeDropRate).Return(nil, nil)
	buffs.On("EarningsMultiplier", mock.Anything, int64(42)).Return(float64(1), nil)

	inventoryRepo.On("GetByOwnerAndName", mock.Anything, int64(42), mock.AnythingOfType("string")).Return(nil, nil)
	inventoryRepo.On("Save", mock.Anything, mock.MatchedBy(func(item *entities.InventoryItem) bool {
		return item.OwnerID == 42 && item.Count == 1 && item.UnitValue > 0
	})).Return(nil)

	drop, err := svc.Acquire(context.Background(), 42, fishingTable)

	require.NoError(t, err)
	assert.NotEmpty(t, drop.Item)
	assert.GreaterOrEqual(t, drop.Tier.Rank(), 0)
	assert.Positive(t, drop.Value)
	spec := findSpec(t, fishingTable, drop.Tier, drop.Item)
	assert.GreaterOrEqual(t, drop.Value, spec.MinValue)
	assert.LessOrEqual(t, drop.Value, spec.MaxValue)
	inventoryRepo.AssertExpectations(t)
}

func findSpec(t *testing.T, table *entities.LootTable, tier entities.Tier, name string) entities.LootItemSpec {
	t.Helper()
	for _, spec := range table.Pools[tier] {
		if spec.Name == name {
			return spec
		}
	}
	t.Fatalf("item %s not in tier %s pool", name, tier)
	return entities.LootItemSpec{}
}

func TestLootService_Acquire_GuaranteeConsumedAndHonored(t *testing.T) {
	svc, buffs, inventoryRepo, _ := newLootFixture(3)

	guarantee := &entities.Buff{
		Type:      entities.BuffTypeGuaranteedRarity,
		TierFloor: entities.TierEpic,
		UsesLeft:  intPtr(1),
	}
	buffs.On("ActiveBuff", mock.Anything, int64(42), entities.BuffTypeGuaranteedRarity).Return(guarantee, nil)
	buffs.On("ActiveBuff", mock.Anything, int64(42), entities.BuffTypeDropRate).Return(nil, nil)
	buffs.On("EarningsMultiplier", mock.Anything, int64(42)).Return(float64(1), nil)
	buffs.On("Consume", mock.Anything, int64(42), entities.BuffTypeGuaranteedRarity).Return(guarantee, nil)

	inventoryRepo.On("GetByOwnerAndName", mock.Anything, int64(42), mock.AnythingOfType("string")).Return(nil, nil)
	inventoryRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	drop, err := svc.Acquire(context.Background(), 42, fishingTable)

	require.NoError(t, err)
	assert.True(t, drop.Tier.AtLeast(entities.TierEpic), "guarantee floors the tier")
	buffs.AssertCalled(t, "Consume", mock.Anything, int64(42), entities.BuffTypeGuaranteedRarity)
}

func TestLootService_Acquire_EarningsBuffScalesValue(t *testing.T) {
	// Same seed twice: the only difference is the multiplier.
	base, buffs1, inv1, _ := newLootFixture(5)
	buffs1.On("ActiveBuff", mock.Anything, int64(42), mock.Anything).Return(nil, nil)
	buffs1.On("EarningsMultiplier", mock.Anything, int64(42)).Return(float64(1), nil)
	inv1.On("GetByOwnerAndName", mock.Anything, int64(42), mock.Anything).Return(nil, nil)
	inv1.On("Save", mock.Anything, mock.Anything).Return(nil)

	plain, err := base.Acquire(context.Background(), 42, fishingTable)
	require.NoError(t, err)

	boosted, buffs2, inv2, _ := newLootFixture(5)
	buffs2.On("ActiveBuff", mock.Anything, int64(42), mock.Anything).Return(nil, nil)
	buffs2.On("EarningsMultiplier", mock.Anything, int64(42)).Return(float64(3), nil)
	inv2.On("GetByOwnerAndName", mock.Anything, int64(42), mock.Anything).Return(nil, nil)
	inv2.On("Save", mock.Anything, mock.Anything).Return(nil)

	tripled, err := boosted.Acquire(context.Background(), 42, fishingTable)
	require.NoError(t, err)

	assert.Equal(t, plain.Item, tripled.Item)
	assert.Equal(t, plain.Value*3, tripled.Value)
}

func TestLootService_Acquire_MergesExistingStack(t *testing.T) {
	svc, buffs, inventoryRepo, _ := newLootFixture(3)

	buffs.On("ActiveBuff", mock.Anything, int64(42), mock.Anything).Return(nil, nil)
	buffs.On("EarningsMultiplier", mock.Anything, int64(42)).Return(float64(1), nil)

	existing := &entities.InventoryItem{ID: 8, OwnerID: 42, Count: 3, UnitValue: 10}
	inventoryRepo.On("GetByOwnerAndName", mock.Anything, int64(42), mock.AnythingOfType("string")).Return(existing, nil)
	inventoryRepo.On("Save", mock.Anything, existing).Return(nil)

	_, err := svc.Acquire(context.Background(), 42, fishingTable)

	require.NoError(t, err)
	assert.Equal(t, 4, existing.Count, "drop absorbed into the stack")
}

func TestLootService_SellItem(t *testing.T) {
	svc, _, inventoryRepo, ledger := newLootFixture(1)

	item := &entities.InventoryItem{ID: 8, OwnerID: 42, Name: "Bass", Count: 3, UnitValue: 20}
	inventoryRepo.On("GetByOwnerAndName", mock.Anything, int64(42), "Bass").Return(item, nil)
	inventoryRepo.On("Save", mock.Anything, item).Return(nil)

	proceeds, err := svc.SellItem(context.Background(), 42, "Bass", 2)

	require.NoError(t, err)
	assert.Equal(t, int64(40), proceeds)
	assert.Equal(t, 1, item.Count)
	assert.Equal(t, int64(40), ledger.Balances[42])
}

func TestLootService_SellItem_EmptiedStackDeleted(t *testing.T) {
	svc, _, inventoryRepo, ledger := newLootFixture(1)

	item := &entities.InventoryItem{ID: 8, OwnerID: 42, Name: "Bass", Count: 2, UnitValue: 20}
	inventoryRepo.On("GetByOwnerAndName", mock.Anything, int64(42), "Bass").Return(item, nil)
	inventoryRepo.On("Delete", mock.Anything, int64(8)).Return(nil)

	// Asking for more than the stack holds clamps to the stack.
	proceeds, err := svc.SellItem(context.Background(), 42, "Bass", 5)

	require.NoError(t, err)
	assert.Equal(t, int64(40), proceeds)
	assert.Equal(t, int64(40), ledger.Balances[42])
	inventoryRepo.AssertExpectations(t)
}

func TestLootService_SellItem_Missing(t *testing.T) {
	svc, _, inventoryRepo, _ := newLootFixture(1)

	inventoryRepo.On("GetByOwnerAndName", mock.Anything, int64(42), "Ghost").Return(nil, nil)

	_, err := svc.SellItem(context.Background(), 42, "Ghost", 1)
	assert.ErrorIs(t, err, entities.ErrNotFound)
}
