package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"plutus/database"
	"plutus/domain/entities"
	"plutus/domain/interfaces"
)

type jackpotRepository struct {
	q       Queryable
	guildID int64
}

// NewJackpotRepository creates a new jackpot repository
func NewJackpotRepository(db *database.DB) interfaces.JackpotRepository {
	return &jackpotRepository{q: db.Pool}
}

// NewJackpotRepositoryScoped creates a new jackpot repository bound to a
// transaction and a guild
func NewJackpotRepositoryScoped(tx Queryable, guildID int64) interfaces.JackpotRepository {
	return &jackpotRepository{
		q:       tx,
		guildID: guildID,
	}
}

const jackpotColumns = `guild_id, amount, last_winner_id, last_win_at, last_win_amount, updated_at`

func scanJackpotPool(row pgx.Row) (*entities.JackpotPool, error) {
	var p entities.JackpotPool
	err := row.Scan(
		&p.GuildID,
		&p.Amount,
		&p.LastWinnerID,
		&p.LastWinAt,
		&p.LastWin,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *jackpotRepository) GetOrCreate(ctx context.Context) (*entities.JackpotPool, error) {
	query := `
		SELECT ` + jackpotColumns + `
		FROM jackpot_pools
		WHERE guild_id = $1`

	pool, err := scanJackpotPool(r.q.QueryRow(ctx, query, r.guildID))
	if err == nil {
		return pool, nil
	}
	if err != pgx.ErrNoRows {
		return nil, fmt.Errorf("failed to get jackpot pool: %w", err)
	}

	insert := `
		INSERT INTO jackpot_pools (guild_id, amount)
		VALUES ($1, 0)
		ON CONFLICT (guild_id) DO UPDATE SET updated_at = NOW()
		RETURNING ` + jackpotColumns

	pool, err = scanJackpotPool(r.q.QueryRow(ctx, insert, r.guildID))
	if err != nil {
		return nil, fmt.Errorf("failed to create jackpot pool: %w", err)
	}
	return pool, nil
}

func (r *jackpotRepository) Update(ctx context.Context, pool *entities.JackpotPool) error {
	query := `
		UPDATE jackpot_pools
		SET amount = $1, last_winner_id = $2, last_win_at = $3, last_win_amount = $4, updated_at = NOW()
		WHERE guild_id = $5`

	result, err := r.q.Exec(ctx, query,
		pool.Amount,
		pool.LastWinnerID,
		pool.LastWinAt,
		pool.LastWin,
		r.guildID,
	)
	if err != nil {
		return fmt.Errorf("failed to update jackpot pool: %w", err)
	}
	if result.RowsAffected() == 0 {
		return entities.ErrNotFound
	}
	return nil
}

func (r *jackpotRepository) RecordContribution(ctx context.Context, contribution *entities.JackpotContribution) error {
	query := `
		INSERT INTO jackpot_contributions (guild_id, discord_id, amount)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.q.QueryRow(ctx, query,
		r.guildID,
		contribution.DiscordID,
		contribution.Amount,
	).Scan(&contribution.ID, &contribution.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to record jackpot contribution: %w", err)
	}
	contribution.GuildID = r.guildID
	return nil
}
