package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"plutus/database"
	"plutus/domain/entities"
	"plutus/domain/interfaces"
)

type inventoryRepository struct {
	q       Queryable
	guildID int64
}

// NewInventoryRepository creates a new inventory repository
func NewInventoryRepository(db *database.DB) interfaces.InventoryRepository {
	return &inventoryRepository{q: db.Pool}
}

// NewInventoryRepositoryScoped creates a new inventory repository bound to a
// transaction and a guild
func NewInventoryRepositoryScoped(tx Queryable, guildID int64) interfaces.InventoryRepository {
	return &inventoryRepository{
		q:       tx,
		guildID: guildID,
	}
}

const inventoryColumns = `id, owner_id, guild_id, category, name, tier, unit_value, item_count, created_at, updated_at`

func scanInventoryItem(row pgx.Row) (*entities.InventoryItem, error) {
	var i entities.InventoryItem
	err := row.Scan(
		&i.ID,
		&i.OwnerID,
		&i.GuildID,
		&i.Category,
		&i.Name,
		&i.Tier,
		&i.UnitValue,
		&i.Count,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *inventoryRepository) GetByOwnerAndName(ctx context.Context, ownerID int64, name string) (*entities.InventoryItem, error) {
	query := `
		SELECT ` + inventoryColumns + `
		FROM inventory_items
		WHERE owner_id = $1 AND guild_id = $2 AND name = $3`

	item, err := scanInventoryItem(r.q.QueryRow(ctx, query, ownerID, r.guildID, name))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory item %q: %w", name, err)
	}
	return item, nil
}

func (r *inventoryRepository) GetByOwner(ctx context.Context, ownerID int64) ([]*entities.InventoryItem, error) {
	query := `
		SELECT ` + inventoryColumns + `
		FROM inventory_items
		WHERE owner_id = $1 AND guild_id = $2
		ORDER BY tier, name`

	rows, err := r.q.Query(ctx, query, ownerID, r.guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory: %w", err)
	}
	defer rows.Close()

	var items []*entities.InventoryItem
	for rows.Next() {
		item, err := scanInventoryItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inventory item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate inventory: %w", err)
	}
	return items, nil
}

func (r *inventoryRepository) Save(ctx context.Context, item *entities.InventoryItem) error {
	if item.ID == 0 {
		query := `
			INSERT INTO inventory_items (owner_id, guild_id, category, name, tier, unit_value, item_count)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at, updated_at`

		err := r.q.QueryRow(ctx, query,
			item.OwnerID,
			r.guildID,
			item.Category,
			item.Name,
			item.Tier,
			item.UnitValue,
			item.Count,
		).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)

		if err != nil {
			return fmt.Errorf("failed to create inventory item %q: %w", item.Name, err)
		}
		item.GuildID = r.guildID
		return nil
	}

	query := `
		UPDATE inventory_items
		SET unit_value = $1, item_count = $2, updated_at = NOW()
		WHERE id = $3 AND guild_id = $4`

	result, err := r.q.Exec(ctx, query, item.UnitValue, item.Count, item.ID, r.guildID)
	if err != nil {
		return fmt.Errorf("failed to update inventory item %d: %w", item.ID, err)
	}
	if result.RowsAffected() == 0 {
		return entities.ErrNotFound
	}
	return nil
}

func (r *inventoryRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM inventory_items WHERE id = $1 AND guild_id = $2`

	if _, err := r.q.Exec(ctx, query, id, r.guildID); err != nil {
		return fmt.Errorf("failed to delete inventory item %d: %w", id, err)
	}
	return nil
}
