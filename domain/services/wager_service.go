package services

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"plutus/domain/entities"
	"plutus/domain/interfaces"
)

// Payout multipliers for the fixed-odds games. Multipliers are gross: a 2x
// win credits twice the stake back.
const (
	coinflipMultiplier     = 2
	diceSpecificMultiplier = 5
	diceRangeMultiplier    = 2
)

type wagerService struct {
	ledger         interfaces.Ledger
	buffs          interfaces.BuffRegistry
	walletRepo     interfaces.WalletRepository
	jackpotRepo    interfaces.JackpotRepository
	eventPublisher interfaces.EventPublisher
	rng            *rand.Rand
}

// NewWagerEvaluator creates a new wager evaluator service
func NewWagerEvaluator(
	ledger interfaces.Ledger,
	buffs interfaces.BuffRegistry,
	walletRepo interfaces.WalletRepository,
	jackpotRepo interfaces.JackpotRepository,
	eventPublisher interfaces.EventPublisher,
	rng *rand.Rand,
) interfaces.WagerEvaluator {
	return &wagerService{
		ledger:         ledger,
		buffs:          buffs,
		walletRepo:     walletRepo,
		jackpotRepo:    jackpotRepo,
		eventPublisher: eventPublisher,
		rng:            rng,
	}
}

// stake validates and debits the wager amount up front. Evaluation only runs
// once the debit committed, so a lost race on balance surfaces here as
// ErrInsufficientFunds with nothing to unwind.
func (s *wagerService) stake(ctx context.Context, discordID int64, amount int64, description string) error {
	if amount <= 0 {
		return entities.ErrInvalidWager
	}
	if _, err := s.ledger.Debit(ctx, discordID, amount, entities.TransactionKindWager, description); err != nil {
		return err
	}
	return nil
}

// payOut applies the earnings buff to net winnings and credits stake plus
// winnings in one ledger call.
func (s *wagerService) payOut(ctx context.Context, discordID int64, staked, grossPayout int64, description string) (int64, error) {
	net := grossPayout - staked
	if net > 0 {
		multiplier, err := s.buffs.EarningsMultiplier(ctx, discordID)
		if err != nil {
			return 0, err
		}
		net = int64(float64(net) * multiplier)
	}
	total := staked + net
	if total <= 0 {
		return 0, nil
	}
	if _, err := s.ledger.Credit(ctx, discordID, total, entities.TransactionKindPayout, description); err != nil {
		return 0, err
	}
	return total, nil
}

// recordStreak updates the rolling win/loss counter shared by every
// single-shot game.
func (s *wagerService) recordStreak(ctx context.Context, discordID int64, won bool) error {
	wallet, err := s.walletRepo.GetOrCreate(ctx, discordID)
	if err != nil {
		return err
	}
	wallet.RecordGameResult(won)
	return s.walletRepo.UpdateCounters(ctx, wallet)
}

func (s *wagerService) Coinflip(ctx context.Context, discordID int64, amount int64, call string) (*entities.WagerResult, error) {
	call = strings.ToLower(strings.TrimSpace(call))
	if call != "heads" && call != "tails" {
		return nil, fmt.Errorf("%w: coinflip call must be heads or tails", entities.ErrInvalidWager)
	}

	if err := s.stake(ctx, discordID, amount, "coinflip wager"); err != nil {
		return nil, err
	}

	outcome := "heads"
	if s.rng.Intn(2) == 1 {
		outcome = "tails"
	}
	won := outcome == call

	var winnings int64
	if won {
		paid, err := s.payOut(ctx, discordID, amount, amount*coinflipMultiplier, "coinflip payout")
		if err != nil {
			return nil, fmt.Errorf("failed to pay out coinflip: %w", err)
		}
		winnings = paid
	}

	if err := s.recordStreak(ctx, discordID, won); err != nil {
		return nil, fmt.Errorf("failed to record game streak: %w", err)
	}

	balance, err := s.ledger.Balance(ctx, discordID)
	if err != nil {
		return nil, err
	}

	return &entities.WagerResult{
		Game:       entities.GameTypeCoinflip,
		Outcome:    outcome,
		Won:        won,
		Winnings:   winnings,
		NewBalance: balance,
	}, nil
}

func (s *wagerService) Dice(ctx context.Context, discordID int64, amount int64, betType entities.DiceBetType, number int) (*entities.WagerResult, error) {
	multiplier := int64(diceRangeMultiplier)
	switch betType {
	case entities.DiceBetSpecific:
		if number < 1 || number > 6 {
			return nil, fmt.Errorf("%w: dice number must be 1-6", entities.ErrInvalidWager)
		}
		multiplier = diceSpecificMultiplier
	case entities.DiceBetHigh, entities.DiceBetLow, entities.DiceBetEven, entities.DiceBetOdd:
	default:
		return nil, fmt.Errorf("%w: unknown dice bet type %q", entities.ErrInvalidWager, betType)
	}

	if err := s.stake(ctx, discordID, amount, "dice wager"); err != nil {
		return nil, err
	}

	roll := s.rng.Intn(6) + 1
	won := diceWins(betType, number, roll)

	var winnings int64
	if won {
		paid, err := s.payOut(ctx, discordID, amount, amount*multiplier, "dice payout")
		if err != nil {
			return nil, fmt.Errorf("failed to pay out dice: %w", err)
		}
		winnings = paid
	}

	if err := s.recordStreak(ctx, discordID, won); err != nil {
		return nil, fmt.Errorf("failed to record game streak: %w", err)
	}

	balance, err := s.ledger.Balance(ctx, discordID)
	if err != nil {
		return nil, err
	}

	return &entities.WagerResult{
		Game:       entities.GameTypeDice,
		Outcome:    fmt.Sprintf("%d", roll),
		Won:        won,
		Winnings:   winnings,
		NewBalance: balance,
	}, nil
}

// diceWins is the win predicate for each dice bet type.
func diceWins(betType entities.DiceBetType, number, roll int) bool {
	switch betType {
	case entities.DiceBetSpecific:
		return roll == number
	case entities.DiceBetHigh:
		return roll >= 4
	case entities.DiceBetLow:
		return roll <= 3
	case entities.DiceBetEven:
		return roll%2 == 0
	case entities.DiceBetOdd:
		return roll%2 == 1
	}
	return false
}
