package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"plutus/domain/entities"
	"plutus/domain/testhelpers"
)

func intPtr(n int) *int { return &n }

func timePtr(t time.Time) *time.Time { return &t }

func TestBuffService_Grant_New(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(testhelpers.MockBuffRepository)
	service := NewBuffRegistry(mockRepo)

	buff := &entities.Buff{
		OwnerID:  42,
		Type:     entities.BuffTypeGuaranteedRarity,
		UsesLeft: intPtr(3),
	}
	mockRepo.On("GetByOwnerAndType", ctx, int64(42), entities.BuffTypeGuaranteedRarity).Return(nil, nil)
	mockRepo.On("Create", ctx, buff).Return(nil)

	granted, err := service.Grant(ctx, buff)
	require.NoError(t, err)
	assert.Equal(t, buff, granted)
	mockRepo.AssertExpectations(t)
}

func TestBuffService_Grant_StacksOntoLiveBuff(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(testhelpers.MockBuffRepository)
	service := NewBuffRegistry(mockRepo)

	existing := &entities.Buff{
		ID:       9,
		OwnerID:  42,
		Type:     entities.BuffTypeGuaranteedRarity,
		UsesLeft: intPtr(2),
	}
	mockRepo.On("GetByOwnerAndType", ctx, int64(42), entities.BuffTypeGuaranteedRarity).Return(existing, nil)
	mockRepo.On("Update", ctx, existing).Return(nil)

	granted, err := service.Grant(ctx, &entities.Buff{
		OwnerID:  42,
		Type:     entities.BuffTypeGuaranteedRarity,
		UsesLeft: intPtr(3),
	})
	require.NoError(t, err)
	assert.Equal(t, 5, *granted.UsesLeft)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBuffService_Grant_StacksTimeBoxedAgainstInjectedClock(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(testhelpers.MockBuffRepository)
	service := NewBuffRegistry(mockRepo).(*buffService)
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }

	existing := &entities.Buff{
		ID:         9,
		OwnerID:    42,
		Type:       entities.BuffTypeEarnings,
		Multiplier: 2,
		ExpiresAt:  timePtr(now.Add(time.Hour)),
	}
	mockRepo.On("GetByOwnerAndType", ctx, int64(42), entities.BuffTypeEarnings).Return(existing, nil)
	mockRepo.On("Update", ctx, existing).Return(nil)

	granted, err := service.Grant(ctx, &entities.Buff{
		OwnerID:    42,
		Type:       entities.BuffTypeEarnings,
		Multiplier: 2,
		ExpiresAt:  timePtr(now.Add(30 * time.Minute)),
	})
	require.NoError(t, err)
	// Extension is computed against the service clock, never the wall clock.
	assert.Equal(t, now.Add(90*time.Minute), *granted.ExpiresAt)
}

func TestBuffService_Grant_ReplacesDeadBuff(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(testhelpers.MockBuffRepository)
	service := NewBuffRegistry(mockRepo)

	dead := &entities.Buff{
		ID:        9,
		OwnerID:   42,
		Type:      entities.BuffTypeEarnings,
		ExpiresAt: timePtr(time.Now().Add(-time.Hour)),
	}
	incoming := &entities.Buff{
		OwnerID:   42,
		Type:      entities.BuffTypeEarnings,
		ExpiresAt: timePtr(time.Now().Add(time.Hour)),
	}
	mockRepo.On("GetByOwnerAndType", ctx, int64(42), entities.BuffTypeEarnings).Return(dead, nil)
	mockRepo.On("Delete", ctx, int64(9)).Return(nil)
	mockRepo.On("Create", ctx, incoming).Return(nil)

	_, err := service.Grant(ctx, incoming)
	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestBuffService_Grant_RejectsAmbiguousLifecycle(t *testing.T) {
	service := NewBuffRegistry(nil)

	_, err := service.Grant(context.Background(), &entities.Buff{Type: entities.BuffTypeEarnings})
	assert.Error(t, err, "neither expiry nor uses")

	_, err = service.Grant(context.Background(), &entities.Buff{
		Type:      entities.BuffTypeEarnings,
		ExpiresAt: timePtr(time.Now().Add(time.Hour)),
		UsesLeft:  intPtr(1),
	})
	assert.Error(t, err, "both expiry and uses")
}

func TestBuffService_ActiveBuffs_PrunesAndFilters(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(testhelpers.MockBuffRepository)
	service := NewBuffRegistry(mockRepo)

	live := &entities.Buff{ID: 1, Type: entities.BuffTypeEarnings, ExpiresAt: timePtr(time.Now().Add(time.Hour))}
	stale := &entities.Buff{ID: 2, Type: entities.BuffTypeDropRate, ExpiresAt: timePtr(time.Now().Add(-time.Hour))}

	mockRepo.On("DeleteDead", ctx, int64(42), mock.AnythingOfType("time.Time")).Return(nil)
	mockRepo.On("GetByOwner", ctx, int64(42)).Return([]*entities.Buff{live, stale}, nil)

	buffs, err := service.ActiveBuffs(ctx, 42)
	require.NoError(t, err)
	require.Len(t, buffs, 1)
	assert.Equal(t, int64(1), buffs[0].ID)
	mockRepo.AssertExpectations(t)
}

func TestBuffService_Consume_DeletesExhausted(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(testhelpers.MockBuffRepository)
	service := NewBuffRegistry(mockRepo)

	lastUse := &entities.Buff{ID: 5, OwnerID: 42, Type: entities.BuffTypeGoldenTicket, UsesLeft: intPtr(1)}
	mockRepo.On("GetByOwnerAndType", ctx, int64(42), entities.BuffTypeGoldenTicket).Return(lastUse, nil)
	mockRepo.On("Delete", ctx, int64(5)).Return(nil)

	consumed, err := service.Consume(ctx, 42, entities.BuffTypeGoldenTicket)
	require.NoError(t, err)
	require.NotNil(t, consumed)
	mockRepo.AssertExpectations(t)
}

func TestBuffService_Consume_NoLiveBuff(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(testhelpers.MockBuffRepository)
	service := NewBuffRegistry(mockRepo)

	mockRepo.On("GetByOwnerAndType", ctx, int64(42), entities.BuffTypeGoldenTicket).Return(nil, nil)

	consumed, err := service.Consume(ctx, 42, entities.BuffTypeGoldenTicket)
	require.NoError(t, err)
	assert.Nil(t, consumed)
}

func TestBuffService_EarningsMultiplier(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(testhelpers.MockBuffRepository)
	service := NewBuffRegistry(mockRepo)

	buff := &entities.Buff{
		Type:       entities.BuffTypeEarnings,
		Multiplier: 3,
		ExpiresAt:  timePtr(time.Now().Add(time.Hour)),
	}
	mockRepo.On("GetByOwnerAndType", ctx, int64(42), entities.BuffTypeEarnings).Return(buff, nil).Once()

	mult, err := service.EarningsMultiplier(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, float64(3), mult)

	// Without a live buff the multiplier is 1.
	mockRepo.On("GetByOwnerAndType", ctx, int64(42), entities.BuffTypeEarnings).Return(nil, nil).Once()
	mult, err = service.EarningsMultiplier(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, float64(1), mult)
}
