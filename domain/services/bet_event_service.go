package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"plutus/domain/entities"
	"plutus/domain/events"
	"plutus/domain/interfaces"
)

type betEventService struct {
	ledger         interfaces.Ledger
	betEventRepo   interfaces.BetEventRepository
	eventPublisher interfaces.EventPublisher
	now            func() time.Time
}

// NewBetEventService creates a new bet event service
func NewBetEventService(ledger interfaces.Ledger, betEventRepo interfaces.BetEventRepository, eventPublisher interfaces.EventPublisher) interfaces.BetEventService {
	return &betEventService{
		ledger:         ledger,
		betEventRepo:   betEventRepo,
		eventPublisher: eventPublisher,
		now:            time.Now,
	}
}

func (s *betEventService) Create(ctx context.Context, creatorID int64, description string, options []string, closesAt *time.Time) (*entities.BetEvent, error) {
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("%w: bet event needs a description", entities.ErrInvalidWager)
	}
	if len(options) < 2 {
		return nil, fmt.Errorf("%w: bet event needs at least two options", entities.ErrInvalidWager)
	}
	seen := make(map[string]bool, len(options))
	for _, o := range options {
		key := strings.ToLower(strings.TrimSpace(o))
		if key == "" || seen[key] {
			return nil, fmt.Errorf("%w: bet event options must be distinct and non-empty", entities.ErrInvalidWager)
		}
		seen[key] = true
	}
	if closesAt != nil && !closesAt.After(s.now()) {
		return nil, fmt.Errorf("%w: closing time must be in the future", entities.ErrInvalidWager)
	}

	event := &entities.BetEvent{
		CreatorID:   creatorID,
		Description: description,
		Options:     options,
		Status:      entities.BetEventStatusOpen,
		ClosesAt:    closesAt,
	}
	if err := s.betEventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create bet event: %w", err)
	}
	return event, nil
}

func (s *betEventService) PlaceStake(ctx context.Context, eventID, discordID int64, option string, amount int64) (*entities.Stake, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: stake must be positive", entities.ErrInvalidWager)
	}

	detail, err := s.betEventRepo.GetDetailByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bet event: %w", err)
	}
	if detail == nil {
		return nil, entities.ErrNotFound
	}
	event := detail.Event

	if !event.CanAcceptStakes(s.now()) {
		return nil, entities.ErrAlreadyTerminal
	}
	canonical := event.CanonicalOption(option)
	if canonical == "" {
		return nil, fmt.Errorf("%w: option %q is not part of this event", entities.ErrInvalidWager, option)
	}

	// A bettor backs a single option per event. This read gives the friendly
	// error; the store's one-row-per-bettor constraint holds under races.
	if existing := detail.StakeBy(discordID); existing != nil && !strings.EqualFold(existing.Option, canonical) {
		return nil, fmt.Errorf("%w: already staked on %q", entities.ErrInvalidWager, existing.Option)
	}

	if _, err := s.ledger.Debit(ctx, discordID, amount, entities.TransactionKindWager, fmt.Sprintf("bet event #%d stake", eventID)); err != nil {
		return nil, err
	}

	stake := &entities.Stake{
		EventID:   eventID,
		DiscordID: discordID,
		Option:    canonical,
		Amount:    amount,
	}
	if err := s.betEventRepo.CreateStake(ctx, stake); err != nil {
		return nil, fmt.Errorf("failed to create stake: %w", err)
	}
	return stake, nil
}

func (s *betEventService) Close(ctx context.Context, eventID int64) (*entities.BetEvent, error) {
	event, err := s.betEventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bet event: %w", err)
	}
	if event == nil {
		return nil, entities.ErrNotFound
	}
	if event.IsTerminal() {
		return nil, entities.ErrAlreadyResolved
	}
	if event.Status == entities.BetEventStatusClosed {
		return event, nil
	}

	if err := s.betEventRepo.MarkClosed(ctx, eventID); err != nil {
		return nil, fmt.Errorf("failed to close bet event: %w", err)
	}
	event.Close()
	return event, nil
}

func (s *betEventService) Resolve(ctx context.Context, eventID int64, winningOption string) (*entities.BetEventResolution, error) {
	detail, err := s.betEventRepo.GetDetailByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bet event: %w", err)
	}
	if detail == nil {
		return nil, entities.ErrNotFound
	}
	event := detail.Event

	if event.IsTerminal() {
		return nil, entities.ErrAlreadyResolved
	}
	canonical := event.CanonicalOption(winningOption)
	if canonical == "" {
		return nil, fmt.Errorf("%w: option %q is not part of this event", entities.ErrInvalidWager, winningOption)
	}

	// The compare-and-set is the concurrency guard: the losing side of a
	// race observes zero affected rows and stops before any payout.
	now := s.now()
	ok, err := s.betEventRepo.MarkResolved(ctx, eventID, canonical, now)
	if err != nil {
		return nil, fmt.Errorf("failed to mark bet event resolved: %w", err)
	}
	if !ok {
		return nil, entities.ErrAlreadyResolved
	}
	event.Resolve(canonical, now)

	totalPool := detail.TotalPool()
	totalWinning := detail.TotalOnOption(canonical)

	resolution := &entities.BetEventResolution{
		Event:     event,
		Payouts:   make(map[int64]int64),
		TotalPool: totalPool,
	}

	// No stake on the winning option discards the pool outright.
	if totalWinning == 0 {
		log.WithFields(log.Fields{
			"eventID":   eventID,
			"totalPool": totalPool,
			"option":    canonical,
		}).Info("bet event resolved with no winning stakes, pool discarded")
		return resolution, nil
	}

	var paid []*entities.Stake
	for _, stake := range detail.Stakes {
		if !strings.EqualFold(stake.Option, canonical) {
			continue
		}
		payout := stake.CalculatePayout(totalWinning, totalPool)
		if payout <= 0 {
			continue
		}
		if _, err := s.ledger.Credit(ctx, stake.DiscordID, payout, entities.TransactionKindPayout, fmt.Sprintf("bet event #%d payout", eventID)); err != nil {
			return nil, fmt.Errorf("failed to credit payout: %w", err)
		}
		stake.Payout = &payout
		paid = append(paid, stake)
		resolution.Payouts[stake.DiscordID] += payout
		resolution.TotalPaidOut += payout
	}

	if err := s.betEventRepo.UpdateStakePayouts(ctx, paid); err != nil {
		return nil, fmt.Errorf("failed to record stake payouts: %w", err)
	}

	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(events.BetEventResolvedEvent{
			EventID:       eventID,
			GuildID:       event.GuildID,
			WinningOption: canonical,
			TotalPool:     totalPool,
			TotalPaidOut:  resolution.TotalPaidOut,
			WinnerCount:   len(resolution.Payouts),
		})
	}

	return resolution, nil
}

func (s *betEventService) Refund(ctx context.Context, eventID int64) (*entities.BetEventResolution, error) {
	detail, err := s.betEventRepo.GetDetailByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bet event: %w", err)
	}
	if detail == nil {
		return nil, entities.ErrNotFound
	}
	event := detail.Event

	if event.IsTerminal() {
		return nil, entities.ErrAlreadyResolved
	}

	now := s.now()
	ok, err := s.betEventRepo.MarkRefunded(ctx, eventID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to mark bet event refunded: %w", err)
	}
	if !ok {
		return nil, entities.ErrAlreadyResolved
	}
	event.Refund(now)

	resolution := &entities.BetEventResolution{
		Event:     event,
		Payouts:   make(map[int64]int64),
		TotalPool: detail.TotalPool(),
	}

	// Every stake comes back verbatim.
	for _, stake := range detail.Stakes {
		if _, err := s.ledger.Credit(ctx, stake.DiscordID, stake.Amount, entities.TransactionKindRefund, fmt.Sprintf("bet event #%d refund", eventID)); err != nil {
			return nil, fmt.Errorf("failed to credit refund: %w", err)
		}
		resolution.Payouts[stake.DiscordID] += stake.Amount
		resolution.TotalPaidOut += stake.Amount
	}

	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(events.BetEventRefundedEvent{
			EventID:       eventID,
			GuildID:       event.GuildID,
			TotalRefunded: resolution.TotalPaidOut,
		})
	}

	return resolution, nil
}

func (s *betEventService) Detail(ctx context.Context, eventID int64) (*entities.BetEventDetail, error) {
	detail, err := s.betEventRepo.GetDetailByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bet event: %w", err)
	}
	if detail == nil {
		return nil, entities.ErrNotFound
	}
	return detail, nil
}
