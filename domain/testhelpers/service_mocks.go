package testhelpers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"plutus/domain/entities"
)

// MockLedger is a mock implementation of the Ledger interface
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) Debit(ctx context.Context, discordID int64, amount int64, kind entities.TransactionKind, description string) (*entities.Transaction, error) {
	args := m.Called(ctx, discordID, amount, kind, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Transaction), args.Error(1)
}

func (m *MockLedger) Credit(ctx context.Context, discordID int64, amount int64, kind entities.TransactionKind, description string) (*entities.Transaction, error) {
	args := m.Called(ctx, discordID, amount, kind, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Transaction), args.Error(1)
}

func (m *MockLedger) Transfer(ctx context.Context, fromID, toID int64, amount int64, description string) error {
	args := m.Called(ctx, fromID, toID, amount, description)
	return args.Error(0)
}

func (m *MockLedger) Balance(ctx context.Context, discordID int64) (int64, error) {
	args := m.Called(ctx, discordID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedger) History(ctx context.Context, discordID int64, limit int) ([]*entities.Transaction, error) {
	args := m.Called(ctx, discordID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Transaction), args.Error(1)
}

// MockBuffRegistry is a mock implementation of the BuffRegistry interface
type MockBuffRegistry struct {
	mock.Mock
}

func (m *MockBuffRegistry) Grant(ctx context.Context, buff *entities.Buff) (*entities.Buff, error) {
	args := m.Called(ctx, buff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Buff), args.Error(1)
}

func (m *MockBuffRegistry) ActiveBuffs(ctx context.Context, ownerID int64) ([]*entities.Buff, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Buff), args.Error(1)
}

func (m *MockBuffRegistry) ActiveBuff(ctx context.Context, ownerID int64, buffType entities.BuffType) (*entities.Buff, error) {
	args := m.Called(ctx, ownerID, buffType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Buff), args.Error(1)
}

func (m *MockBuffRegistry) Consume(ctx context.Context, ownerID int64, buffType entities.BuffType) (*entities.Buff, error) {
	args := m.Called(ctx, ownerID, buffType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Buff), args.Error(1)
}

func (m *MockBuffRegistry) EarningsMultiplier(ctx context.Context, ownerID int64) (float64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(float64), args.Error(1)
}

// FakeLedger is an in-memory ledger for flow tests: debits and credits apply
// to a balance map, every call is recorded, and the non-negative invariant is
// enforced the same way the real ledger does.
type FakeLedger struct {
	Balances     map[int64]int64
	Transactions []*entities.Transaction
	nextID       int64
}

func NewFakeLedger() *FakeLedger {
	return &FakeLedger{Balances: make(map[int64]int64)}
}

func (f *FakeLedger) Debit(_ context.Context, discordID int64, amount int64, kind entities.TransactionKind, description string) (*entities.Transaction, error) {
	if f.Balances[discordID] < amount {
		return nil, entities.ErrInsufficientFunds
	}
	f.Balances[discordID] -= amount
	return f.record(discordID, -amount, kind, description), nil
}

func (f *FakeLedger) Credit(_ context.Context, discordID int64, amount int64, kind entities.TransactionKind, description string) (*entities.Transaction, error) {
	f.Balances[discordID] += amount
	return f.record(discordID, amount, kind, description), nil
}

func (f *FakeLedger) Transfer(ctx context.Context, fromID, toID int64, amount int64, description string) error {
	if _, err := f.Debit(ctx, fromID, amount, entities.TransactionKindGift, description); err != nil {
		return err
	}
	_, err := f.Credit(ctx, toID, amount, entities.TransactionKindGift, description)
	return err
}

func (f *FakeLedger) Balance(_ context.Context, discordID int64) (int64, error) {
	return f.Balances[discordID], nil
}

func (f *FakeLedger) History(_ context.Context, discordID int64, limit int) ([]*entities.Transaction, error) {
	var txs []*entities.Transaction
	for i := len(f.Transactions) - 1; i >= 0 && len(txs) < limit; i-- {
		if f.Transactions[i].DiscordID == discordID {
			txs = append(txs, f.Transactions[i])
		}
	}
	return txs, nil
}

func (f *FakeLedger) record(discordID, amount int64, kind entities.TransactionKind, description string) *entities.Transaction {
	f.nextID++
	tx := &entities.Transaction{
		ID:          f.nextID,
		DiscordID:   discordID,
		Kind:        kind,
		Amount:      amount,
		Description: description,
	}
	f.Transactions = append(f.Transactions, tx)
	return tx
}
