package repository

import (
	"context"
	"fmt"

	"plutus/database"
)

// guildDiscovery answers which guilds hold live blackjack sessions, for the
// background reaper. It reads outside any unit of work.
type guildDiscovery struct {
	db *database.DB
}

// NewGuildDiscovery creates a guild discovery backed by the shared pool
func NewGuildDiscovery(db *database.DB) *guildDiscovery {
	return &guildDiscovery{db: db}
}

// ListGuildsWithSessions returns the guild IDs with at least one live session.
func (g *guildDiscovery) ListGuildsWithSessions(ctx context.Context) ([]int64, error) {
	rows, err := g.db.Pool.Query(ctx, `
		SELECT DISTINCT guild_id
		FROM blackjack_sessions
		WHERE state != 'settled'`)
	if err != nil {
		return nil, fmt.Errorf("failed to list guilds with sessions: %w", err)
	}
	defer rows.Close()

	var guildIDs []int64
	for rows.Next() {
		var guildID int64
		if err := rows.Scan(&guildID); err != nil {
			return nil, fmt.Errorf("failed to scan guild id: %w", err)
		}
		guildIDs = append(guildIDs, guildID)
	}
	return guildIDs, rows.Err()
}
