package entities

// Tier is a rarity classification governing loot weight and value range.
type Tier string

const (
	TierCommon       Tier = "common"
	TierUncommon     Tier = "uncommon"
	TierRare         Tier = "rare"
	TierEpic         Tier = "epic"
	TierLegendary    Tier = "legendary"
	TierMythic       Tier = "mythic"
	TierTranscendent Tier = "transcendent"
)

// TierOrder lists every tier from least to most rare. Weight tables and
// cumulative rolls follow this fixed order.
var TierOrder = []Tier{
	TierCommon,
	TierUncommon,
	TierRare,
	TierEpic,
	TierLegendary,
	TierMythic,
	TierTranscendent,
}

// Rank returns the tier's position in TierOrder, or -1 for unknown tiers.
func (t Tier) Rank() int {
	for i, tier := range TierOrder {
		if tier == t {
			return i
		}
	}
	return -1
}

// AtLeast reports whether the tier is at or above the floor tier.
func (t Tier) AtLeast(floor Tier) bool {
	return t.Rank() >= floor.Rank()
}

// TierWeight is one row of a loot table's weight column. Base weights across
// a table sum to 100.
type TierWeight struct {
	Tier   Tier
	Weight float64
}

// LootItemSpec describes one drawable item: its name and the inclusive value
// range rolled when it drops.
type LootItemSpec struct {
	Name     string
	MinValue int64
	MaxValue int64
}

// LootTable parameterizes the distribution engine for one activity: an
// ordered weight table plus a per-tier item pool.
type LootTable struct {
	Category ItemCategory
	Weights  []TierWeight
	Pools    map[Tier][]LootItemSpec
}

// LootDrop is the result of one acquisition.
type LootDrop struct {
	Item  string       `json:"item"`
	Tier  Tier         `json:"rarity"`
	Value int64        `json:"value"`
	Kind  ItemCategory `json:"category"`
}
