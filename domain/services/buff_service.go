package services

import (
	"context"
	"fmt"
	"time"

	"plutus/domain/entities"
	"plutus/domain/interfaces"
)

type buffService struct {
	buffRepo interfaces.BuffRepository
	now      func() time.Time
}

// NewBuffRegistry creates a new buff registry service
func NewBuffRegistry(buffRepo interfaces.BuffRepository) interfaces.BuffRegistry {
	return &buffService{
		buffRepo: buffRepo,
		now:      time.Now,
	}
}

func (s *buffService) Grant(ctx context.Context, buff *entities.Buff) (*entities.Buff, error) {
	if buff.IsTimeBoxed() == buff.IsUseCounted() {
		return nil, fmt.Errorf("buff must be either time-boxed or use-counted")
	}

	existing, err := s.buffRepo.GetByOwnerAndType(ctx, buff.OwnerID, buff.Type)
	if err != nil {
		return nil, fmt.Errorf("failed to look up existing buff: %w", err)
	}

	// Stack onto a live buff of the same type instead of creating a second row.
	now := s.now()
	if existing != nil && existing.IsLive(now) {
		existing.Stack(buff, now)
		if err := s.buffRepo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to stack buff: %w", err)
		}
		return existing, nil
	}

	if existing != nil {
		if err := s.buffRepo.Delete(ctx, existing.ID); err != nil {
			return nil, fmt.Errorf("failed to remove dead buff: %w", err)
		}
	}

	if err := s.buffRepo.Create(ctx, buff); err != nil {
		return nil, fmt.Errorf("failed to create buff: %w", err)
	}
	return buff, nil
}

func (s *buffService) ActiveBuffs(ctx context.Context, ownerID int64) ([]*entities.Buff, error) {
	now := s.now()
	if err := s.buffRepo.DeleteDead(ctx, ownerID, now); err != nil {
		return nil, fmt.Errorf("failed to prune dead buffs: %w", err)
	}

	buffs, err := s.buffRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get buffs: %w", err)
	}

	live := make([]*entities.Buff, 0, len(buffs))
	for _, b := range buffs {
		if b.IsLive(now) {
			live = append(live, b)
		}
	}
	return live, nil
}

func (s *buffService) ActiveBuff(ctx context.Context, ownerID int64, buffType entities.BuffType) (*entities.Buff, error) {
	buff, err := s.buffRepo.GetByOwnerAndType(ctx, ownerID, buffType)
	if err != nil {
		return nil, fmt.Errorf("failed to get buff: %w", err)
	}
	if buff == nil || !buff.IsLive(s.now()) {
		return nil, nil
	}
	return buff, nil
}

func (s *buffService) Consume(ctx context.Context, ownerID int64, buffType entities.BuffType) (*entities.Buff, error) {
	buff, err := s.ActiveBuff(ctx, ownerID, buffType)
	if err != nil {
		return nil, err
	}
	if buff == nil {
		return nil, nil
	}
	if !buff.IsUseCounted() {
		return buff, nil
	}

	if exhausted := buff.ConsumeUse(); exhausted {
		if err := s.buffRepo.Delete(ctx, buff.ID); err != nil {
			return nil, fmt.Errorf("failed to delete exhausted buff: %w", err)
		}
		return buff, nil
	}

	if err := s.buffRepo.Update(ctx, buff); err != nil {
		return nil, fmt.Errorf("failed to update buff uses: %w", err)
	}
	return buff, nil
}

func (s *buffService) EarningsMultiplier(ctx context.Context, ownerID int64) (float64, error) {
	buff, err := s.ActiveBuff(ctx, ownerID, entities.BuffTypeEarnings)
	if err != nil {
		return 1, err
	}
	if buff == nil || buff.Multiplier <= 0 {
		return 1, nil
	}
	return buff.Multiplier, nil
}
