package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"plutus/database"
	"plutus/domain/entities"
	"plutus/domain/interfaces"
)

type blackjackRepository struct {
	q       Queryable
	guildID int64
}

// NewBlackjackRepository creates a new blackjack session repository
func NewBlackjackRepository(db *database.DB) interfaces.BlackjackRepository {
	return &blackjackRepository{q: db.Pool}
}

// NewBlackjackRepositoryScoped creates a new blackjack session repository
// bound to a transaction and a guild
func NewBlackjackRepositoryScoped(tx Queryable, guildID int64) interfaces.BlackjackRepository {
	return &blackjackRepository{
		q:       tx,
		guildID: guildID,
	}
}

// sessionColumns stores the shoe, hands, and dealer as JSONB; the rest of the
// session is flat columns so expiry and state are queryable.
const sessionColumns = `id, owner_id, guild_id, shoe, hands, active_hand, dealer, state, expires_at, created_at, updated_at`

func marshalSession(session *entities.BlackjackSession) (shoe, hands, dealer []byte, err error) {
	if shoe, err = json.Marshal(session.Shoe); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal shoe: %w", err)
	}
	if hands, err = json.Marshal(session.Hands); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal hands: %w", err)
	}
	if dealer, err = json.Marshal(session.Dealer); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal dealer: %w", err)
	}
	return shoe, hands, dealer, nil
}

func scanSession(row pgx.Row) (*entities.BlackjackSession, error) {
	var s entities.BlackjackSession
	var shoe, hands, dealer []byte
	err := row.Scan(
		&s.ID,
		&s.OwnerID,
		&s.GuildID,
		&shoe,
		&hands,
		&s.ActiveHand,
		&dealer,
		&s.State,
		&s.ExpiresAt,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(shoe, &s.Shoe); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shoe: %w", err)
	}
	if err := json.Unmarshal(hands, &s.Hands); err != nil {
		return nil, fmt.Errorf("failed to unmarshal hands: %w", err)
	}
	if err := json.Unmarshal(dealer, &s.Dealer); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dealer: %w", err)
	}
	return &s, nil
}

func (r *blackjackRepository) GetActiveByOwner(ctx context.Context, ownerID int64) (*entities.BlackjackSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM blackjack_sessions
		WHERE owner_id = $1 AND guild_id = $2 AND state != 'settled'`

	session, err := scanSession(r.q.QueryRow(ctx, query, ownerID, r.guildID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active session for owner %d: %w", ownerID, err)
	}
	return session, nil
}

func (r *blackjackRepository) Create(ctx context.Context, session *entities.BlackjackSession) error {
	shoe, hands, dealer, err := marshalSession(session)
	if err != nil {
		return err
	}

	// The partial unique index on (owner_id, guild_id) makes a concurrent
	// second deal fail here instead of committing two stakes.
	query := `
		INSERT INTO blackjack_sessions (owner_id, guild_id, shoe, hands, active_hand, dealer, state, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	err = r.q.QueryRow(ctx, query,
		session.OwnerID,
		r.guildID,
		shoe,
		hands,
		session.ActiveHand,
		dealer,
		session.State,
		session.ExpiresAt,
	).Scan(&session.ID, &session.CreatedAt, &session.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create blackjack session: %w", err)
	}
	session.GuildID = r.guildID
	return nil
}

func (r *blackjackRepository) Update(ctx context.Context, session *entities.BlackjackSession) error {
	shoe, hands, dealer, err := marshalSession(session)
	if err != nil {
		return err
	}

	query := `
		UPDATE blackjack_sessions
		SET shoe = $1, hands = $2, active_hand = $3, dealer = $4, state = $5, updated_at = NOW()
		WHERE id = $6 AND guild_id = $7`

	result, err := r.q.Exec(ctx, query, shoe, hands, session.ActiveHand, dealer, session.State, session.ID, r.guildID)
	if err != nil {
		return fmt.Errorf("failed to update blackjack session %d: %w", session.ID, err)
	}
	if result.RowsAffected() == 0 {
		return entities.ErrNotFound
	}
	return nil
}

func (r *blackjackRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM blackjack_sessions WHERE id = $1 AND guild_id = $2`

	if _, err := r.q.Exec(ctx, query, id, r.guildID); err != nil {
		return fmt.Errorf("failed to delete blackjack session %d: %w", id, err)
	}
	return nil
}

func (r *blackjackRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `
		DELETE FROM blackjack_sessions
		WHERE guild_id = $1 AND expires_at <= $2`

	result, err := r.q.Exec(ctx, query, r.guildID, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return result.RowsAffected(), nil
}
