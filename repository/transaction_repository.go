package repository

import (
	"context"
	"fmt"

	"plutus/database"
	"plutus/domain/entities"
	"plutus/domain/interfaces"
)

type transactionRepository struct {
	q       Queryable
	guildID int64
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *database.DB) interfaces.TransactionRepository {
	return &transactionRepository{q: db.Pool}
}

// NewTransactionRepositoryScoped creates a new transaction repository bound
// to a transaction and a guild
func NewTransactionRepositoryScoped(tx Queryable, guildID int64) interfaces.TransactionRepository {
	return &transactionRepository{
		q:       tx,
		guildID: guildID,
	}
}

func (r *transactionRepository) Record(ctx context.Context, transaction *entities.Transaction) error {
	query := `
		INSERT INTO transactions (external_id, discord_id, guild_id, kind, amount, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.q.QueryRow(ctx, query,
		transaction.ExternalID,
		transaction.DiscordID,
		r.guildID, // repository's guild scope, not the entity's
		transaction.Kind,
		transaction.Amount,
		transaction.Description,
	).Scan(&transaction.ID, &transaction.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to record transaction: %w", err)
	}
	transaction.GuildID = r.guildID
	return nil
}

func (r *transactionRepository) GetByWallet(ctx context.Context, discordID int64, limit int) ([]*entities.Transaction, error) {
	query := `
		SELECT id, external_id, discord_id, guild_id, kind, amount, description, created_at
		FROM transactions
		WHERE discord_id = $1 AND guild_id = $2
		ORDER BY id DESC
		LIMIT $3`

	rows, err := r.q.Query(ctx, query, discordID, r.guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*entities.Transaction
	for rows.Next() {
		var t entities.Transaction
		err := rows.Scan(
			&t.ID,
			&t.ExternalID,
			&t.DiscordID,
			&t.GuildID,
			&t.Kind,
			&t.Amount,
			&t.Description,
			&t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return transactions, nil
}

func (r *transactionRepository) SumByWallet(ctx context.Context, discordID int64) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE discord_id = $1 AND guild_id = $2`

	var sum int64
	if err := r.q.QueryRow(ctx, query, discordID, r.guildID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("failed to sum transactions: %w", err)
	}
	return sum, nil
}
