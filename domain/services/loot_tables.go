package services

import (
	"fmt"

	"plutus/domain/entities"
)

// baseWeights is the default rarity curve shared by every activity. Each
// table's weights sum to 100.
var baseWeights = []entities.TierWeight{
	{Tier: entities.TierCommon, Weight: 45},
	{Tier: entities.TierUncommon, Weight: 27},
	{Tier: entities.TierRare, Weight: 15},
	{Tier: entities.TierEpic, Weight: 8},
	{Tier: entities.TierLegendary, Weight: 3.5},
	{Tier: entities.TierMythic, Weight: 1.2},
	{Tier: entities.TierTranscendent, Weight: 0.3},
}

var fishingTable = &entities.LootTable{
	Category: entities.ItemCategoryFish,
	Weights:  baseWeights,
	Pools: map[entities.Tier][]entities.LootItemSpec{
		entities.TierCommon: {
			{Name: "Minnow", MinValue: 2, MaxValue: 10},
			{Name: "Sardine", MinValue: 3, MaxValue: 12},
			{Name: "Old Boot", MinValue: 1, MaxValue: 2},
		},
		entities.TierUncommon: {
			{Name: "Bass", MinValue: 12, MaxValue: 35},
			{Name: "Trout", MinValue: 15, MaxValue: 40},
		},
		entities.TierRare: {
			{Name: "Salmon", MinValue: 45, MaxValue: 110},
			{Name: "Pike", MinValue: 50, MaxValue: 120},
		},
		entities.TierEpic: {
			{Name: "Swordfish", MinValue: 150, MaxValue: 400},
			{Name: "Giant Squid", MinValue: 180, MaxValue: 450},
		},
		entities.TierLegendary: {
			{Name: "Golden Koi", MinValue: 600, MaxValue: 1500},
		},
		entities.TierMythic: {
			{Name: "Kraken Spawn", MinValue: 2500, MaxValue: 6000},
		},
		entities.TierTranscendent: {
			{Name: "Leviathan", MinValue: 10000, MaxValue: 25000},
		},
	},
}

var huntingTable = &entities.LootTable{
	Category: entities.ItemCategoryAnimal,
	Weights:  baseWeights,
	Pools: map[entities.Tier][]entities.LootItemSpec{
		entities.TierCommon: {
			{Name: "Rabbit", MinValue: 3, MaxValue: 12},
			{Name: "Squirrel", MinValue: 2, MaxValue: 8},
		},
		entities.TierUncommon: {
			{Name: "Fox", MinValue: 15, MaxValue: 40},
			{Name: "Deer", MinValue: 18, MaxValue: 45},
		},
		entities.TierRare: {
			{Name: "Boar", MinValue: 50, MaxValue: 120},
			{Name: "Wolf", MinValue: 55, MaxValue: 130},
		},
		entities.TierEpic: {
			{Name: "Bear", MinValue: 160, MaxValue: 420},
			{Name: "Moose", MinValue: 150, MaxValue: 400},
		},
		entities.TierLegendary: {
			{Name: "White Stag", MinValue: 650, MaxValue: 1600},
		},
		entities.TierMythic: {
			{Name: "Dire Wolf", MinValue: 2800, MaxValue: 6500},
		},
		entities.TierTranscendent: {
			{Name: "Phoenix", MinValue: 11000, MaxValue: 28000},
		},
	},
}

// boxWeights skews a box's curve toward its own tier while keeping a spread.
func boxWeights(tier entities.Tier) []entities.TierWeight {
	weights := make([]entities.TierWeight, len(entities.TierOrder))
	rank := tier.Rank()
	var total float64
	for i, t := range entities.TierOrder {
		w := 0.0
		switch {
		case i == rank:
			w = 60
		case i == rank-1 || i == rank+1:
			w = 15
		case i == rank+2:
			w = 5
		}
		weights[i] = entities.TierWeight{Tier: t, Weight: w}
		total += w
	}
	// Edges of the tier order lose neighbors; rescale back to 100.
	if total != 100 && total > 0 {
		scale := 100 / total
		for i := range weights {
			weights[i].Weight *= scale
		}
	}
	return weights
}

// boxTable builds the loot table for opening a box of the given tier.
func boxTable(tier entities.Tier) (*entities.LootTable, error) {
	if tier.Rank() < 0 {
		return nil, fmt.Errorf("%w: unknown box tier %q", entities.ErrInvalidWager, tier)
	}
	pools := map[entities.Tier][]entities.LootItemSpec{
		entities.TierCommon: {
			{Name: "Bottle Cap", MinValue: 2, MaxValue: 8},
			{Name: "Marble", MinValue: 3, MaxValue: 10},
		},
		entities.TierUncommon: {
			{Name: "Pocket Watch", MinValue: 14, MaxValue: 38},
			{Name: "Silver Coin", MinValue: 16, MaxValue: 42},
		},
		entities.TierRare: {
			{Name: "Jade Figurine", MinValue: 48, MaxValue: 115},
			{Name: "Antique Compass", MinValue: 52, MaxValue: 125},
		},
		entities.TierEpic: {
			{Name: "Ruby Pendant", MinValue: 155, MaxValue: 410},
			{Name: "Ivory Chess Set", MinValue: 170, MaxValue: 430},
		},
		entities.TierLegendary: {
			{Name: "Crown Fragment", MinValue: 620, MaxValue: 1550},
		},
		entities.TierMythic: {
			{Name: "Philosopher's Stone", MinValue: 2600, MaxValue: 6200},
		},
		entities.TierTranscendent: {
			{Name: "Singularity Shard", MinValue: 10500, MaxValue: 26000},
		},
	}
	return &entities.LootTable{
		Category: entities.ItemCategoryCollectible,
		Weights:  boxWeights(tier),
		Pools:    pools,
	}, nil
}

// TableForActivity resolves an activity name to its loot table. Box opening
// takes the box's tier as the second argument.
func TableForActivity(activity string, tier entities.Tier) (*entities.LootTable, error) {
	switch activity {
	case "fish":
		return fishingTable, nil
	case "hunt":
		return huntingTable, nil
	case "box":
		return boxTable(tier)
	default:
		return nil, fmt.Errorf("%w: unknown loot activity %q", entities.ErrInvalidWager, activity)
	}
}
