package services

import (
	"context"
	"fmt"
	"time"

	"plutus/config"
	"plutus/domain/entities"
	"plutus/domain/events"
)

// slotSymbol is one reel symbol: its draw weight and the gross multiplier a
// triple of it pays.
type slotSymbol struct {
	symbol           string
	weight           int
	tripleMultiplier int64
}

// Reel weights are identical across the three reels; draws are independent.
var slotReel = []slotSymbol{
	{"🍒", 30, 5},
	{"🍋", 25, 8},
	{"🍊", 20, 10},
	{"🍇", 12, 15},
	{"💎", 8, 25},
	{"7️⃣", 5, 0}, // triple seven pays the jackpot, not a flat multiplier
}

const (
	slotsSeven             = "7️⃣"
	slotsJackpotMultiplier = 50 // jackpot floor: amount x this when the pool is smaller
	slotsDoubleSevenPays   = 5
	slotsPairPays          = 2
)

func drawSlotSymbol(roll int) string {
	for _, s := range slotReel {
		roll -= s.weight
		if roll < 0 {
			return s.symbol
		}
	}
	return slotReel[len(slotReel)-1].symbol
}

func slotReelWeight() int {
	total := 0
	for _, s := range slotReel {
		total += s.weight
	}
	return total
}

func tripleMultiplier(symbol string) int64 {
	for _, s := range slotReel {
		if s.symbol == symbol {
			return s.tripleMultiplier
		}
	}
	return 0
}

// classifySlots applies the priority order: triple seven, any other triple,
// exactly two sevens, any other pair, loss.
func classifySlots(reels [3]string) entities.SlotsOutcome {
	sevens := 0
	for _, r := range reels {
		if r == slotsSeven {
			sevens++
		}
	}
	switch {
	case sevens == 3:
		return entities.SlotsOutcomeJackpot
	case reels[0] == reels[1] && reels[1] == reels[2]:
		return entities.SlotsOutcomeTriple
	case sevens == 2:
		return entities.SlotsOutcomeDoubleSeven
	case reels[0] == reels[1] || reels[1] == reels[2] || reels[0] == reels[2]:
		return entities.SlotsOutcomePair
	default:
		return entities.SlotsOutcomeLoss
	}
}

func (s *wagerService) Slots(ctx context.Context, discordID int64, amount int64) (*entities.SlotsResult, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: slots stake must be positive", entities.ErrInvalidWager)
	}
	cfg := config.Get()

	wallet, err := s.walletRepo.GetOrCreate(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	// A banked free spin covers the stake; nothing is debited.
	freeSpin := wallet.FreeSpins > 0
	if freeSpin {
		wallet.FreeSpins--
	} else {
		if err := s.stake(ctx, discordID, amount, "slots wager"); err != nil {
			return nil, err
		}
	}

	weight := slotReelWeight()
	var reels [3]string
	for i := range reels {
		reels[i] = drawSlotSymbol(s.rng.Intn(weight))
	}
	outcome := classifySlots(reels)

	result := &entities.SlotsResult{
		Reels:        reels,
		Outcome:      outcome,
		FreeSpinUsed: freeSpin,
	}

	var grossPayout int64
	switch outcome {
	case entities.SlotsOutcomeJackpot:
		pool, err := s.jackpotRepo.GetOrCreate(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get jackpot pool: %w", err)
		}
		grossPayout = amount * slotsJackpotMultiplier
		if pool.Amount > grossPayout {
			grossPayout = pool.Amount
		}
		won := pool.Drain(discordID, time.Now())
		if err := s.jackpotRepo.Update(ctx, pool); err != nil {
			return nil, fmt.Errorf("failed to drain jackpot pool: %w", err)
		}
		result.JackpotWon = won
		if s.eventPublisher != nil {
			_ = s.eventPublisher.Publish(events.JackpotWonEvent{
				GuildID:   wallet.GuildID,
				DiscordID: discordID,
				Amount:    grossPayout,
			})
		}
	case entities.SlotsOutcomeTriple:
		grossPayout = amount * tripleMultiplier(reels[0])
	case entities.SlotsOutcomeDoubleSeven:
		grossPayout = amount * slotsDoubleSevenPays
	case entities.SlotsOutcomePair:
		grossPayout = amount * slotsPairPays
	}

	won := grossPayout > 0
	if won {
		staked := amount
		if freeSpin {
			staked = 0
		}
		paid, err := s.payOut(ctx, discordID, staked, grossPayout, "slots payout")
		if err != nil {
			return nil, fmt.Errorf("failed to pay out slots: %w", err)
		}
		result.Winnings = paid
		wallet.SlotLossStreak = 0
	} else if !freeSpin {
		// Paid losses feed the pool and the streak that earns a free spin.
		contribution := int64(float64(amount) * cfg.JackpotContributionPct)
		if contribution > 0 {
			pool, err := s.jackpotRepo.GetOrCreate(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to get jackpot pool: %w", err)
			}
			pool.Amount += contribution
			if err := s.jackpotRepo.Update(ctx, pool); err != nil {
				return nil, fmt.Errorf("failed to update jackpot pool: %w", err)
			}
			if err := s.jackpotRepo.RecordContribution(ctx, &entities.JackpotContribution{
				GuildID:   wallet.GuildID,
				DiscordID: discordID,
				Amount:    contribution,
			}); err != nil {
				return nil, fmt.Errorf("failed to record jackpot contribution: %w", err)
			}
		}
		wallet.SlotLossStreak++
		if wallet.SlotLossStreak >= cfg.FreeSpinLossStreak {
			wallet.SlotLossStreak = 0
			wallet.FreeSpins++
			result.FreeSpinGranted = true
		}
	}

	wallet.RecordGameResult(won)
	if err := s.walletRepo.UpdateCounters(ctx, wallet); err != nil {
		return nil, fmt.Errorf("failed to update wallet counters: %w", err)
	}

	balance, err := s.ledger.Balance(ctx, discordID)
	if err != nil {
		return nil, err
	}
	result.NewBalance = balance

	return result, nil
}
