package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"plutus/database"
	"plutus/domain/entities"
	"plutus/domain/interfaces"
)

type buffRepository struct {
	q       Queryable
	guildID int64
}

// NewBuffRepository creates a new buff repository
func NewBuffRepository(db *database.DB) interfaces.BuffRepository {
	return &buffRepository{q: db.Pool}
}

// NewBuffRepositoryScoped creates a new buff repository bound to a
// transaction and a guild
func NewBuffRepositoryScoped(tx Queryable, guildID int64) interfaces.BuffRepository {
	return &buffRepository{
		q:       tx,
		guildID: guildID,
	}
}

const buffColumns = `id, owner_id, guild_id, buff_type, multiplier, tier_floor, expires_at, uses_left, created_at`

func scanBuff(row pgx.Row) (*entities.Buff, error) {
	var b entities.Buff
	err := row.Scan(
		&b.ID,
		&b.OwnerID,
		&b.GuildID,
		&b.Type,
		&b.Multiplier,
		&b.TierFloor,
		&b.ExpiresAt,
		&b.UsesLeft,
		&b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *buffRepository) GetByOwner(ctx context.Context, ownerID int64) ([]*entities.Buff, error) {
	query := `
		SELECT ` + buffColumns + `
		FROM buffs
		WHERE owner_id = $1 AND guild_id = $2
		ORDER BY created_at`

	rows, err := r.q.Query(ctx, query, ownerID, r.guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to query buffs: %w", err)
	}
	defer rows.Close()

	var buffs []*entities.Buff
	for rows.Next() {
		buff, err := scanBuff(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan buff: %w", err)
		}
		buffs = append(buffs, buff)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate buffs: %w", err)
	}
	return buffs, nil
}

func (r *buffRepository) GetByOwnerAndType(ctx context.Context, ownerID int64, buffType entities.BuffType) (*entities.Buff, error) {
	query := `
		SELECT ` + buffColumns + `
		FROM buffs
		WHERE owner_id = $1 AND guild_id = $2 AND buff_type = $3`

	buff, err := scanBuff(r.q.QueryRow(ctx, query, ownerID, r.guildID, buffType))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get buff: %w", err)
	}
	return buff, nil
}

func (r *buffRepository) Create(ctx context.Context, buff *entities.Buff) error {
	query := `
		INSERT INTO buffs (owner_id, guild_id, buff_type, multiplier, tier_floor, expires_at, uses_left)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.q.QueryRow(ctx, query,
		buff.OwnerID,
		r.guildID,
		buff.Type,
		buff.Multiplier,
		buff.TierFloor,
		buff.ExpiresAt,
		buff.UsesLeft,
	).Scan(&buff.ID, &buff.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create buff: %w", err)
	}
	buff.GuildID = r.guildID
	return nil
}

func (r *buffRepository) Update(ctx context.Context, buff *entities.Buff) error {
	query := `
		UPDATE buffs
		SET multiplier = $1, tier_floor = $2, expires_at = $3, uses_left = $4
		WHERE id = $5 AND guild_id = $6`

	result, err := r.q.Exec(ctx, query,
		buff.Multiplier,
		buff.TierFloor,
		buff.ExpiresAt,
		buff.UsesLeft,
		buff.ID,
		r.guildID,
	)
	if err != nil {
		return fmt.Errorf("failed to update buff %d: %w", buff.ID, err)
	}
	if result.RowsAffected() == 0 {
		return entities.ErrNotFound
	}
	return nil
}

func (r *buffRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM buffs WHERE id = $1 AND guild_id = $2`

	if _, err := r.q.Exec(ctx, query, id, r.guildID); err != nil {
		return fmt.Errorf("failed to delete buff %d: %w", id, err)
	}
	return nil
}

func (r *buffRepository) DeleteDead(ctx context.Context, ownerID int64, now time.Time) error {
	query := `
		DELETE FROM buffs
		WHERE owner_id = $1 AND guild_id = $2
		  AND ((expires_at IS NOT NULL AND expires_at <= $3)
		    OR (uses_left IS NOT NULL AND uses_left <= 0))`

	if _, err := r.q.Exec(ctx, query, ownerID, r.guildID, now); err != nil {
		return fmt.Errorf("failed to delete dead buffs: %w", err)
	}
	return nil
}
