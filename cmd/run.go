package cmd

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"plutus/application"
	"plutus/config"
	"plutus/database"
	"plutus/infrastructure"
	"plutus/repository"
)

// Run initializes and starts the economy engine.
func Run(ctx context.Context) error {
	log.Info("starting plutus economy engine")

	cfg := config.Get()

	log.Info("connecting to database")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info("connecting to NATS")
	natsClient := infrastructure.NewNATSClient(cfg.NATSServers)
	if err := natsClient.Connect(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}

	subjectMapper := infrastructure.NewEventSubjectMapper()
	eventPublisher := infrastructure.NewNATSEventPublisher(natsClient, subjectMapper)
	if err := eventPublisher.EnsureDomainEventStream(); err != nil {
		natsClient.Close()
		db.Close()
		return fmt.Errorf("failed to ensure domain event stream: %w", err)
	}

	uowFactory := infrastructure.NewUnitOfWorkFactory(db, eventPublisher)
	app := application.NewApp(uowFactory)

	guildDiscovery := repository.NewGuildDiscovery(db)
	reaper := application.NewSessionReaperWorker(app, guildDiscovery, time.Minute)
	stopReaper := reaper.Start(ctx)

	log.WithField("environment", cfg.Environment).Info("engine is running")
	<-ctx.Done()

	log.Info("shutting down")
	stopReaper()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := natsClient.Close(); err != nil {
		log.WithError(err).Error("failed to close NATS connection")
	}
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Warn("shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Info("shutdown completed")
	}

	return nil
}
