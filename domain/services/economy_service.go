package services

import (
	"context"
	"fmt"
	"time"

	"plutus/config"
	"plutus/domain/entities"
	"plutus/domain/events"
	"plutus/domain/interfaces"
)

type economyService struct {
	ledger         interfaces.Ledger
	buffs          interfaces.BuffRegistry
	walletRepo     interfaces.WalletRepository
	jackpotRepo    interfaces.JackpotRepository
	eventPublisher interfaces.EventPublisher
	now            func() time.Time
}

// NewEconomyService creates a new economy service
func NewEconomyService(
	ledger interfaces.Ledger,
	buffs interfaces.BuffRegistry,
	walletRepo interfaces.WalletRepository,
	jackpotRepo interfaces.JackpotRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.EconomyService {
	return &economyService{
		ledger:         ledger,
		buffs:          buffs,
		walletRepo:     walletRepo,
		jackpotRepo:    jackpotRepo,
		eventPublisher: eventPublisher,
		now:            time.Now,
	}
}

func (s *economyService) ClaimDaily(ctx context.Context, discordID int64) (*entities.DailyClaimResult, error) {
	wallet, err := s.walletRepo.GetOrCreate(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	now := s.now()
	if !wallet.CanClaimDaily(now) {
		return nil, fmt.Errorf("%w: daily reward already claimed today", entities.ErrInvalidAction)
	}

	cfg := config.Get()
	streak := wallet.NextDailyStreak(now)

	bonusDays := streak - 1
	if bonusDays > cfg.DailyStreakCap {
		bonusDays = cfg.DailyStreakCap
	}
	amount := cfg.DailyBaseAmount + int64(bonusDays)*cfg.DailyStreakBonus

	if _, err := s.ledger.Credit(ctx, discordID, amount, entities.TransactionKindDaily, fmt.Sprintf("daily reward, streak %d", streak)); err != nil {
		return nil, fmt.Errorf("failed to credit daily reward: %w", err)
	}

	wallet.DailyStreak = streak
	wallet.LastDailyAt = &now
	if err := s.walletRepo.UpdateCounters(ctx, wallet); err != nil {
		return nil, fmt.Errorf("failed to update daily streak: %w", err)
	}

	balance, err := s.ledger.Balance(ctx, discordID)
	if err != nil {
		return nil, err
	}

	return &entities.DailyClaimResult{
		Amount:     amount,
		Streak:     streak,
		NewBalance: balance,
	}, nil
}

func (s *economyService) Gift(ctx context.Context, fromID, toID int64, amount int64) error {
	if err := s.ledger.Transfer(ctx, fromID, toID, amount, fmt.Sprintf("gift from %d to %d", fromID, toID)); err != nil {
		return err
	}
	return nil
}

func (s *economyService) RedeemGoldenTicket(ctx context.Context, discordID int64) (int64, error) {
	ticket, err := s.buffs.Consume(ctx, discordID, entities.BuffTypeGoldenTicket)
	if err != nil {
		return 0, fmt.Errorf("failed to consume golden ticket: %w", err)
	}
	if ticket == nil {
		return 0, entities.ErrNotFound
	}

	pool, err := s.jackpotRepo.GetOrCreate(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get jackpot pool: %w", err)
	}

	cfg := config.Get()
	won := pool.Redeem(discordID, cfg.GoldenTicketFraction, s.now())
	if err := s.jackpotRepo.Update(ctx, pool); err != nil {
		return 0, fmt.Errorf("failed to update jackpot pool: %w", err)
	}
	if won <= 0 {
		return 0, nil
	}

	if _, err := s.ledger.Credit(ctx, discordID, won, entities.TransactionKindJackpot, "golden ticket redemption"); err != nil {
		return 0, fmt.Errorf("failed to credit redemption: %w", err)
	}

	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(events.JackpotWonEvent{
			GuildID:   pool.GuildID,
			DiscordID: discordID,
			Amount:    won,
			Partial:   true,
		})
	}
	return won, nil
}
