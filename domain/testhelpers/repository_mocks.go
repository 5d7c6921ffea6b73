package testhelpers

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"plutus/domain/entities"
	"plutus/domain/events"
)

// MockWalletRepository is a mock implementation of WalletRepository
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) GetByDiscordID(ctx context.Context, discordID int64) (*entities.Wallet, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Wallet), args.Error(1)
}

func (m *MockWalletRepository) GetOrCreate(ctx context.Context, discordID int64) (*entities.Wallet, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Wallet), args.Error(1)
}

func (m *MockWalletRepository) AdjustBalance(ctx context.Context, discordID int64, delta int64) (int64, error) {
	args := m.Called(ctx, discordID, delta)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWalletRepository) UpdateCounters(ctx context.Context, wallet *entities.Wallet) error {
	args := m.Called(ctx, wallet)
	return args.Error(0)
}

// MockTransactionRepository is a mock implementation of TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Record(ctx context.Context, tx *entities.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByWallet(ctx context.Context, discordID int64, limit int) ([]*entities.Transaction, error) {
	args := m.Called(ctx, discordID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) SumByWallet(ctx context.Context, discordID int64) (int64, error) {
	args := m.Called(ctx, discordID)
	return args.Get(0).(int64), args.Error(1)
}

// MockBuffRepository is a mock implementation of BuffRepository
type MockBuffRepository struct {
	mock.Mock
}

func (m *MockBuffRepository) GetByOwner(ctx context.Context, ownerID int64) ([]*entities.Buff, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Buff), args.Error(1)
}

func (m *MockBuffRepository) GetByOwnerAndType(ctx context.Context, ownerID int64, buffType entities.BuffType) (*entities.Buff, error) {
	args := m.Called(ctx, ownerID, buffType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Buff), args.Error(1)
}

func (m *MockBuffRepository) Create(ctx context.Context, buff *entities.Buff) error {
	args := m.Called(ctx, buff)
	return args.Error(0)
}

func (m *MockBuffRepository) Update(ctx context.Context, buff *entities.Buff) error {
	args := m.Called(ctx, buff)
	return args.Error(0)
}

func (m *MockBuffRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBuffRepository) DeleteDead(ctx context.Context, ownerID int64, now time.Time) error {
	args := m.Called(ctx, ownerID, now)
	return args.Error(0)
}

// MockBetEventRepository is a mock implementation of BetEventRepository
type MockBetEventRepository struct {
	mock.Mock
}

func (m *MockBetEventRepository) Create(ctx context.Context, event *entities.BetEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockBetEventRepository) GetByID(ctx context.Context, id int64) (*entities.BetEvent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.BetEvent), args.Error(1)
}

func (m *MockBetEventRepository) GetDetailByID(ctx context.Context, id int64) (*entities.BetEventDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.BetEventDetail), args.Error(1)
}

func (m *MockBetEventRepository) ListByStatus(ctx context.Context, status entities.BetEventStatus) ([]*entities.BetEvent, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.BetEvent), args.Error(1)
}

func (m *MockBetEventRepository) MarkClosed(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBetEventRepository) MarkResolved(ctx context.Context, id int64, winningOption string, now time.Time) (bool, error) {
	args := m.Called(ctx, id, winningOption, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockBetEventRepository) MarkRefunded(ctx context.Context, id int64, now time.Time) (bool, error) {
	args := m.Called(ctx, id, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockBetEventRepository) CreateStake(ctx context.Context, stake *entities.Stake) error {
	args := m.Called(ctx, stake)
	return args.Error(0)
}

func (m *MockBetEventRepository) UpdateStakePayouts(ctx context.Context, stakes []*entities.Stake) error {
	args := m.Called(ctx, stakes)
	return args.Error(0)
}

// MockBlackjackRepository is a mock implementation of BlackjackRepository
type MockBlackjackRepository struct {
	mock.Mock
}

func (m *MockBlackjackRepository) GetActiveByOwner(ctx context.Context, ownerID int64) (*entities.BlackjackSession, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.BlackjackSession), args.Error(1)
}

func (m *MockBlackjackRepository) Create(ctx context.Context, session *entities.BlackjackSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockBlackjackRepository) Update(ctx context.Context, session *entities.BlackjackSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockBlackjackRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBlackjackRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockInventoryRepository is a mock implementation of InventoryRepository
type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) GetByOwnerAndName(ctx context.Context, ownerID int64, name string) (*entities.InventoryItem, error) {
	args := m.Called(ctx, ownerID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) GetByOwner(ctx context.Context, ownerID int64) ([]*entities.InventoryItem, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) Save(ctx context.Context, item *entities.InventoryItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockInventoryRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockJackpotRepository is a mock implementation of JackpotRepository
type MockJackpotRepository struct {
	mock.Mock
}

func (m *MockJackpotRepository) GetOrCreate(ctx context.Context) (*entities.JackpotPool, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.JackpotPool), args.Error(1)
}

func (m *MockJackpotRepository) Update(ctx context.Context, pool *entities.JackpotPool) error {
	args := m.Called(ctx, pool)
	return args.Error(0)
}

func (m *MockJackpotRepository) RecordContribution(ctx context.Context, contribution *entities.JackpotContribution) error {
	args := m.Called(ctx, contribution)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// RecordingEventPublisher collects published events for assertions.
type RecordingEventPublisher struct {
	Events []events.Event
}

func (p *RecordingEventPublisher) Publish(event events.Event) error {
	p.Events = append(p.Events, event)
	return nil
}
