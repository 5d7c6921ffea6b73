package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"plutus/domain/entities"
	"plutus/domain/events"
	"plutus/domain/testhelpers"
)

func TestLedgerService_Debit(t *testing.T) {
	ctx := context.Background()

	mockWalletRepo := new(testhelpers.MockWalletRepository)
	mockTxRepo := new(testhelpers.MockTransactionRepository)
	publisher := &testhelpers.RecordingEventPublisher{}

	service := NewLedgerService(mockWalletRepo, mockTxRepo, publisher)

	wallet := &entities.Wallet{DiscordID: 123, GuildID: 7, Balance: 1000}
	mockWalletRepo.On("GetOrCreate", ctx, int64(123)).Return(wallet, nil)
	mockWalletRepo.On("AdjustBalance", ctx, int64(123), int64(-200)).Return(int64(800), nil)
	mockTxRepo.On("Record", ctx, mock.MatchedBy(func(tx *entities.Transaction) bool {
		return tx.DiscordID == 123 &&
			tx.GuildID == 7 &&
			tx.Amount == -200 &&
			tx.Kind == entities.TransactionKindWager
	})).Return(nil)

	tx, err := service.Debit(ctx, 123, 200, entities.TransactionKindWager, "coinflip wager")

	require.NoError(t, err)
	assert.Equal(t, int64(-200), tx.Amount)
	assert.NotEqual(t, "", tx.ExternalID.String())

	// Both events emitted after the mutation.
	require.Len(t, publisher.Events, 2)
	change := publisher.Events[0].(events.BalanceChangeEvent)
	assert.Equal(t, int64(800), change.NewBalance)
	assert.Equal(t, int64(-200), change.ChangeAmount)
	recorded := publisher.Events[1].(events.TransactionRecordedEvent)
	assert.Equal(t, int64(-200), recorded.Amount)

	mockWalletRepo.AssertExpectations(t)
	mockTxRepo.AssertExpectations(t)
}

func TestLedgerService_Debit_InsufficientFunds(t *testing.T) {
	ctx := context.Background()

	mockWalletRepo := new(testhelpers.MockWalletRepository)
	mockTxRepo := new(testhelpers.MockTransactionRepository)

	service := NewLedgerService(mockWalletRepo, mockTxRepo, nil)

	wallet := &entities.Wallet{DiscordID: 123, GuildID: 7, Balance: 100}
	mockWalletRepo.On("GetOrCreate", ctx, int64(123)).Return(wallet, nil)
	mockWalletRepo.On("AdjustBalance", ctx, int64(123), int64(-200)).
		Return(int64(0), entities.ErrInsufficientFunds)

	_, err := service.Debit(ctx, 123, 200, entities.TransactionKindWager, "too much")

	assert.ErrorIs(t, err, entities.ErrInsufficientFunds)
	mockTxRepo.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestLedgerService_Debit_RejectsNonPositiveAmount(t *testing.T) {
	service := NewLedgerService(nil, nil, nil)

	_, err := service.Debit(context.Background(), 123, 0, entities.TransactionKindWager, "")
	assert.Error(t, err)

	_, err = service.Credit(context.Background(), 123, -5, entities.TransactionKindPayout, "")
	assert.Error(t, err)
}

func TestLedgerService_Credit(t *testing.T) {
	ctx := context.Background()

	mockWalletRepo := new(testhelpers.MockWalletRepository)
	mockTxRepo := new(testhelpers.MockTransactionRepository)

	service := NewLedgerService(mockWalletRepo, mockTxRepo, nil)

	wallet := &entities.Wallet{DiscordID: 123, GuildID: 7, Balance: 100}
	mockWalletRepo.On("GetOrCreate", ctx, int64(123)).Return(wallet, nil)
	mockWalletRepo.On("AdjustBalance", ctx, int64(123), int64(400)).Return(int64(500), nil)
	mockTxRepo.On("Record", ctx, mock.MatchedBy(func(tx *entities.Transaction) bool {
		return tx.Amount == 400 && tx.Kind == entities.TransactionKindPayout
	})).Return(nil)

	tx, err := service.Credit(ctx, 123, 400, entities.TransactionKindPayout, "coinflip payout")

	require.NoError(t, err)
	assert.Equal(t, int64(400), tx.Amount)
	mockWalletRepo.AssertExpectations(t)
	mockTxRepo.AssertExpectations(t)
}

func TestLedgerService_Transfer(t *testing.T) {
	ctx := context.Background()

	ledger := testhelpers.NewFakeLedger()
	ledger.Balances[1] = 500

	require.NoError(t, ledger.Transfer(ctx, 1, 2, 200, "gift"))
	assert.Equal(t, int64(300), ledger.Balances[1])
	assert.Equal(t, int64(200), ledger.Balances[2])

	err := ledger.Transfer(ctx, 1, 2, 10_000, "too much")
	assert.ErrorIs(t, err, entities.ErrInsufficientFunds)
}

func TestLedgerService_Transfer_Validation(t *testing.T) {
	service := NewLedgerService(nil, nil, nil)

	assert.Error(t, service.Transfer(context.Background(), 1, 1, 100, "self"))
	assert.Error(t, service.Transfer(context.Background(), 1, 2, 0, "zero"))
}
