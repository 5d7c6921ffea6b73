package application

import (
	"context"
)

// GuildDiscovery lists the guilds that currently have state requiring
// background maintenance.
type GuildDiscovery interface {
	// ListGuildsWithSessions returns the guild IDs holding live blackjack sessions.
	ListGuildsWithSessions(ctx context.Context) ([]int64, error)
}
