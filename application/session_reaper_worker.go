package application

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// SessionReaperWorker periodically forfeits blackjack sessions that outlived
// their TTL, guild by guild.
type SessionReaperWorker struct {
	app            *App
	guildDiscovery GuildDiscovery
	interval       time.Duration
}

// NewSessionReaperWorker creates a new session reaper worker
func NewSessionReaperWorker(app *App, guildDiscovery GuildDiscovery, interval time.Duration) *SessionReaperWorker {
	return &SessionReaperWorker{
		app:            app,
		guildDiscovery: guildDiscovery,
		interval:       interval,
	}
}

// Start begins the reaper loop. The returned function stops it.
func (w *SessionReaperWorker) Start(ctx context.Context) func() {
	stopChan := make(chan struct{})

	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		log.WithField("interval", w.interval).Info("blackjack session reaper started")

		for {
			select {
			case <-ticker.C:
				w.reapAllGuilds(ctx)
			case <-stopChan:
				log.Info("blackjack session reaper stopped")
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return func() { close(stopChan) }
}

func (w *SessionReaperWorker) reapAllGuilds(ctx context.Context) {
	guildIDs, err := w.guildDiscovery.ListGuildsWithSessions(ctx)
	if err != nil {
		log.WithError(err).Error("failed to list guilds with sessions")
		return
	}

	now := time.Now().UTC()
	for _, guildID := range guildIDs {
		reaped, err := w.app.ReapExpiredSessions(ctx, guildID, now)
		if err != nil {
			log.WithFields(log.Fields{
				"guildID": guildID,
				"error":   err,
			}).Error("failed to reap expired sessions")
			continue
		}
		if reaped > 0 {
			log.WithFields(log.Fields{
				"guildID": guildID,
				"reaped":  reaped,
			}).Info("forfeited expired blackjack sessions")
		}
	}
}
