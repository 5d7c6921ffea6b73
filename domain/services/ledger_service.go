package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"plutus/domain/entities"
	"plutus/domain/events"
	"plutus/domain/interfaces"
)

type ledgerService struct {
	walletRepo      interfaces.WalletRepository
	transactionRepo interfaces.TransactionRepository
	eventPublisher  interfaces.EventPublisher
}

// NewLedgerService creates a new ledger service
func NewLedgerService(walletRepo interfaces.WalletRepository, transactionRepo interfaces.TransactionRepository, eventPublisher interfaces.EventPublisher) interfaces.Ledger {
	return &ledgerService{
		walletRepo:      walletRepo,
		transactionRepo: transactionRepo,
		eventPublisher:  eventPublisher,
	}
}

func (s *ledgerService) Debit(ctx context.Context, discordID int64, amount int64, kind entities.TransactionKind, description string) (*entities.Transaction, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("debit amount must be positive, got %d", amount)
	}
	return s.apply(ctx, discordID, -amount, kind, description)
}

func (s *ledgerService) Credit(ctx context.Context, discordID int64, amount int64, kind entities.TransactionKind, description string) (*entities.Transaction, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("credit amount must be positive, got %d", amount)
	}
	return s.apply(ctx, discordID, amount, kind, description)
}

// apply is the single write path: a conditional balance adjustment paired
// with an appended transaction. The repository rejects any adjustment that
// would leave the balance negative, so the non-negative invariant holds even
// under concurrent debits.
func (s *ledgerService) apply(ctx context.Context, discordID int64, delta int64, kind entities.TransactionKind, description string) (*entities.Transaction, error) {
	wallet, err := s.walletRepo.GetOrCreate(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	newBalance, err := s.walletRepo.AdjustBalance(ctx, discordID, delta)
	if err != nil {
		return nil, err
	}

	tx := &entities.Transaction{
		ExternalID:  uuid.New(),
		DiscordID:   discordID,
		GuildID:     wallet.GuildID,
		Kind:        kind,
		Amount:      delta,
		Description: description,
	}
	if err := tx.Validate(); err != nil {
		return nil, fmt.Errorf("invalid transaction: %w", err)
	}
	if err := s.transactionRepo.Record(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	s.publishChange(wallet, newBalance, tx)
	return tx, nil
}

func (s *ledgerService) publishChange(wallet *entities.Wallet, newBalance int64, tx *entities.Transaction) {
	if s.eventPublisher == nil {
		return
	}
	// Publish failures never unwind a settled balance change.
	_ = s.eventPublisher.Publish(events.BalanceChangeEvent{
		DiscordID:    tx.DiscordID,
		GuildID:      tx.GuildID,
		OldBalance:   wallet.Balance,
		NewBalance:   newBalance,
		ChangeAmount: tx.Amount,
		Kind:         tx.Kind,
	})
	_ = s.eventPublisher.Publish(events.TransactionRecordedEvent{
		TransactionID: tx.ID,
		ExternalID:    tx.ExternalID.String(),
		DiscordID:     tx.DiscordID,
		GuildID:       tx.GuildID,
		Kind:          tx.Kind,
		Amount:        tx.Amount,
		Description:   tx.Description,
	})
}

func (s *ledgerService) Transfer(ctx context.Context, fromID, toID int64, amount int64, description string) error {
	if amount <= 0 {
		return fmt.Errorf("transfer amount must be positive, got %d", amount)
	}
	if fromID == toID {
		return fmt.Errorf("cannot transfer to self")
	}

	if _, err := s.Debit(ctx, fromID, amount, entities.TransactionKindGift, description); err != nil {
		return fmt.Errorf("failed to debit sender: %w", err)
	}
	if _, err := s.Credit(ctx, toID, amount, entities.TransactionKindGift, description); err != nil {
		return fmt.Errorf("failed to credit recipient: %w", err)
	}
	return nil
}

func (s *ledgerService) Balance(ctx context.Context, discordID int64) (int64, error) {
	wallet, err := s.walletRepo.GetOrCreate(ctx, discordID)
	if err != nil {
		return 0, fmt.Errorf("failed to get wallet: %w", err)
	}
	return wallet.Balance, nil
}

func (s *ledgerService) History(ctx context.Context, discordID int64, limit int) ([]*entities.Transaction, error) {
	txs, err := s.transactionRepo.GetByWallet(ctx, discordID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction history: %w", err)
	}
	return txs, nil
}
