package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"plutus/config"
	"plutus/database"
	"plutus/domain/entities"
	"plutus/domain/interfaces"
)

type walletRepository struct {
	q       Queryable
	guildID int64
}

// NewWalletRepository creates a new wallet repository
func NewWalletRepository(db *database.DB) interfaces.WalletRepository {
	return &walletRepository{q: db.Pool}
}

// NewWalletRepositoryScoped creates a new wallet repository bound to a
// transaction and a guild
func NewWalletRepositoryScoped(tx Queryable, guildID int64) interfaces.WalletRepository {
	return &walletRepository{
		q:       tx,
		guildID: guildID,
	}
}

const walletColumns = `id, discord_id, guild_id, balance, daily_streak, last_daily_at, slot_loss_streak, free_spins, game_streak, created_at, updated_at`

func scanWallet(row pgx.Row) (*entities.Wallet, error) {
	var w entities.Wallet
	err := row.Scan(
		&w.ID,
		&w.DiscordID,
		&w.GuildID,
		&w.Balance,
		&w.DailyStreak,
		&w.LastDailyAt,
		&w.SlotLossStreak,
		&w.FreeSpins,
		&w.GameStreak,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *walletRepository) GetByDiscordID(ctx context.Context, discordID int64) (*entities.Wallet, error) {
	query := `
		SELECT ` + walletColumns + `
		FROM wallets
		WHERE discord_id = $1 AND guild_id = $2`

	wallet, err := scanWallet(r.q.QueryRow(ctx, query, discordID, r.guildID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet for discord ID %d: %w", discordID, err)
	}
	return wallet, nil
}

// GetOrCreate retrieves the wallet, seeding a new one with the configured
// starting balance. The seed is also recorded as an initial ledger entry so
// the running-sum invariant holds from the first row.
func (r *walletRepository) GetOrCreate(ctx context.Context, discordID int64) (*entities.Wallet, error) {
	wallet, err := r.GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, err
	}
	if wallet != nil {
		return wallet, nil
	}

	starting := config.Get().StartingBalance
	insert := `
		INSERT INTO wallets (discord_id, guild_id, balance)
		VALUES ($1, $2, $3)
		ON CONFLICT (discord_id, guild_id) DO NOTHING
		RETURNING ` + walletColumns

	wallet, err = scanWallet(r.q.QueryRow(ctx, insert, discordID, r.guildID, starting))
	if err == pgx.ErrNoRows {
		// Lost a concurrent create; the row exists now.
		return r.GetByDiscordID(ctx, discordID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create wallet for discord ID %d: %w", discordID, err)
	}

	if starting > 0 {
		seed := `
			INSERT INTO transactions (external_id, discord_id, guild_id, kind, amount, description)
			VALUES ($1, $2, $3, $4, $5, $6)`
		if _, err := r.q.Exec(ctx, seed, uuid.New(), discordID, r.guildID, entities.TransactionKindInitial, starting, "starting balance"); err != nil {
			return nil, fmt.Errorf("failed to record starting balance for discord ID %d: %w", discordID, err)
		}
	}

	return wallet, nil
}

// AdjustBalance applies a signed delta in one conditional update. The WHERE
// clause refuses any delta that would take the balance negative, which is the
// database-level guard behind ErrInsufficientFunds.
func (r *walletRepository) AdjustBalance(ctx context.Context, discordID int64, delta int64) (int64, error) {
	query := `
		UPDATE wallets
		SET balance = balance + $1, updated_at = NOW()
		WHERE discord_id = $2 AND guild_id = $3 AND balance + $1 >= 0
		RETURNING balance`

	var balance int64
	err := r.q.QueryRow(ctx, query, delta, discordID, r.guildID).Scan(&balance)
	if err == pgx.ErrNoRows {
		wallet, getErr := r.GetByDiscordID(ctx, discordID)
		if getErr != nil {
			return 0, getErr
		}
		if wallet == nil {
			return 0, entities.ErrNotFound
		}
		return 0, entities.ErrInsufficientFunds
	}
	if err != nil {
		return 0, fmt.Errorf("failed to adjust balance for discord ID %d: %w", discordID, err)
	}
	return balance, nil
}

func (r *walletRepository) UpdateCounters(ctx context.Context, wallet *entities.Wallet) error {
	query := `
		UPDATE wallets
		SET daily_streak = $1,
		    last_daily_at = $2,
		    slot_loss_streak = $3,
		    free_spins = $4,
		    game_streak = $5,
		    updated_at = NOW()
		WHERE discord_id = $6 AND guild_id = $7`

	result, err := r.q.Exec(ctx, query,
		wallet.DailyStreak,
		wallet.LastDailyAt,
		wallet.SlotLossStreak,
		wallet.FreeSpins,
		wallet.GameStreak,
		wallet.DiscordID,
		r.guildID,
	)
	if err != nil {
		return fmt.Errorf("failed to update counters for discord ID %d: %w", wallet.DiscordID, err)
	}
	if result.RowsAffected() == 0 {
		return entities.ErrNotFound
	}
	return nil
}
