package entities

import "time"

// ItemCategory groups inventory items by how they were acquired.
type ItemCategory string

const (
	ItemCategoryFish        ItemCategory = "fish"
	ItemCategoryAnimal      ItemCategory = "animal"
	ItemCategoryCollectible ItemCategory = "collectible"
)

// InventoryItem is a stack of identically named items owned by one player.
// UnitValue is the running average across every acquisition of the name.
type InventoryItem struct {
	ID        int64        `db:"id"`
	OwnerID   int64        `db:"owner_id"`
	GuildID   int64        `db:"guild_id"`
	Category  ItemCategory `db:"category"`
	Name      string       `db:"name"`
	Tier      Tier         `db:"tier"`
	UnitValue int64        `db:"unit_value"`
	Count     int          `db:"count"`
	CreatedAt time.Time    `db:"created_at"`
	UpdatedAt time.Time    `db:"updated_at"`
}

// Absorb merges one incoming acquisition into the stack:
// new_value = (old_value*old_count + incoming_value) / (old_count + 1).
func (i *InventoryItem) Absorb(incomingValue int64) {
	i.UnitValue = (i.UnitValue*int64(i.Count) + incomingValue) / int64(i.Count+1)
	i.Count++
}

// Remove takes quantity items out of the stack, reporting whether the stack
// is now empty and should be deleted.
func (i *InventoryItem) Remove(quantity int) bool {
	if quantity > i.Count {
		quantity = i.Count
	}
	i.Count -= quantity
	return i.Count == 0
}
