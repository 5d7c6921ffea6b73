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

type betEventRepository struct {
	q       Queryable
	guildID int64
}

// NewBetEventRepository creates a new bet event repository
func NewBetEventRepository(db *database.DB) interfaces.BetEventRepository {
	return &betEventRepository{q: db.Pool}
}

// NewBetEventRepositoryScoped creates a new bet event repository bound to a
// transaction and a guild
func NewBetEventRepositoryScoped(tx Queryable, guildID int64) interfaces.BetEventRepository {
	return &betEventRepository{
		q:       tx,
		guildID: guildID,
	}
}

const betEventColumns = `id, guild_id, creator_id, description, options, status, winning_option, closes_at, created_at, resolved_at`

func scanBetEvent(row pgx.Row) (*entities.BetEvent, error) {
	var e entities.BetEvent
	err := row.Scan(
		&e.ID,
		&e.GuildID,
		&e.CreatorID,
		&e.Description,
		&e.Options,
		&e.Status,
		&e.WinningOption,
		&e.ClosesAt,
		&e.CreatedAt,
		&e.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *betEventRepository) Create(ctx context.Context, event *entities.BetEvent) error {
	query := `
		INSERT INTO bet_events (guild_id, creator_id, description, options, status, closes_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.q.QueryRow(ctx, query,
		r.guildID,
		event.CreatorID,
		event.Description,
		event.Options,
		event.Status,
		event.ClosesAt,
	).Scan(&event.ID, &event.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create bet event: %w", err)
	}
	event.GuildID = r.guildID
	return nil
}

func (r *betEventRepository) GetByID(ctx context.Context, id int64) (*entities.BetEvent, error) {
	query := `
		SELECT ` + betEventColumns + `
		FROM bet_events
		WHERE id = $1 AND guild_id = $2`

	event, err := scanBetEvent(r.q.QueryRow(ctx, query, id, r.guildID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bet event %d: %w", id, err)
	}
	return event, nil
}

func (r *betEventRepository) GetDetailByID(ctx context.Context, id int64) (*entities.BetEventDetail, error) {
	event, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, nil
	}

	query := `
		SELECT id, event_id, discord_id, option, amount, payout, created_at
		FROM bet_stakes
		WHERE event_id = $1
		ORDER BY id`

	rows, err := r.q.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query stakes for event %d: %w", id, err)
	}
	defer rows.Close()

	var stakes []*entities.Stake
	for rows.Next() {
		var s entities.Stake
		err := rows.Scan(
			&s.ID,
			&s.EventID,
			&s.DiscordID,
			&s.Option,
			&s.Amount,
			&s.Payout,
			&s.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stake: %w", err)
		}
		stakes = append(stakes, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stakes: %w", err)
	}

	return &entities.BetEventDetail{Event: event, Stakes: stakes}, nil
}

func (r *betEventRepository) ListByStatus(ctx context.Context, status entities.BetEventStatus) ([]*entities.BetEvent, error) {
	query := `
		SELECT ` + betEventColumns + `
		FROM bet_events
		WHERE guild_id = $1 AND status = $2
		ORDER BY created_at DESC`

	rows, err := r.q.Query(ctx, query, r.guildID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to query bet events: %w", err)
	}
	defer rows.Close()

	var eventList []*entities.BetEvent
	for rows.Next() {
		event, err := scanBetEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet event: %w", err)
		}
		eventList = append(eventList, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bet events: %w", err)
	}
	return eventList, nil
}

func (r *betEventRepository) MarkClosed(ctx context.Context, id int64) error {
	query := `
		UPDATE bet_events
		SET status = 'closed'
		WHERE id = $1 AND guild_id = $2 AND status = 'open'`

	if _, err := r.q.Exec(ctx, query, id, r.guildID); err != nil {
		return fmt.Errorf("failed to close bet event %d: %w", id, err)
	}
	return nil
}

// MarkResolved is the compare-and-set behind concurrent-safe resolution: only
// a non-terminal event transitions, and the losing side of a race sees zero
// affected rows.
func (r *betEventRepository) MarkResolved(ctx context.Context, id int64, winningOption string, now time.Time) (bool, error) {
	query := `
		UPDATE bet_events
		SET status = 'resolved', winning_option = $1, resolved_at = $2
		WHERE id = $3 AND guild_id = $4 AND status IN ('open', 'closed')`

	result, err := r.q.Exec(ctx, query, winningOption, now, id, r.guildID)
	if err != nil {
		return false, fmt.Errorf("failed to resolve bet event %d: %w", id, err)
	}
	return result.RowsAffected() > 0, nil
}

func (r *betEventRepository) MarkRefunded(ctx context.Context, id int64, now time.Time) (bool, error) {
	query := `
		UPDATE bet_events
		SET status = 'refunded', resolved_at = $1
		WHERE id = $2 AND guild_id = $3 AND status IN ('open', 'closed')`

	result, err := r.q.Exec(ctx, query, now, id, r.guildID)
	if err != nil {
		return false, fmt.Errorf("failed to refund bet event %d: %w", id, err)
	}
	return result.RowsAffected() > 0, nil
}

func (r *betEventRepository) CreateStake(ctx context.Context, stake *entities.Stake) error {
	// One row per bettor per event. A same-option top-up merges into the
	// existing row; a conflicting row holding a different option makes the
	// conditional update match nothing, so no row returns and the stake is
	// rejected even when two first stakes race.
	query := `
		INSERT INTO bet_stakes (event_id, discord_id, option, amount)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (event_id, discord_id) DO UPDATE
		SET amount = bet_stakes.amount + EXCLUDED.amount
		WHERE bet_stakes.option = EXCLUDED.option
		RETURNING id, amount, created_at`

	err := r.q.QueryRow(ctx, query,
		stake.EventID,
		stake.DiscordID,
		stake.Option,
		stake.Amount,
	).Scan(&stake.ID, &stake.Amount, &stake.CreatedAt)

	if err == pgx.ErrNoRows {
		return fmt.Errorf("%w: bettor %d already backs another option", entities.ErrInvalidWager, stake.DiscordID)
	}
	if err != nil {
		return fmt.Errorf("failed to create stake: %w", err)
	}
	return nil
}

func (r *betEventRepository) UpdateStakePayouts(ctx context.Context, stakes []*entities.Stake) error {
	query := `UPDATE bet_stakes SET payout = $1 WHERE id = $2`

	for _, stake := range stakes {
		if _, err := r.q.Exec(ctx, query, stake.Payout, stake.ID); err != nil {
			return fmt.Errorf("failed to update payout for stake %d: %w", stake.ID, err)
		}
	}
	return nil
}
