package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"plutus/domain/entities"
)

// Coloring follows parity: odd numbers are red, even numbers are black,
// zero is green.
var redNumbers = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 11: true,
	13: true, 15: true, 17: true, 19: true, 21: true, 23: true,
	25: true, 27: true, 29: true, 31: true, 33: true, 35: true,
}

// namedBetCoverage maps each named bet to the numbers it covers. The payout
// multiplier is derived from coverage size, so every entry pays the standard
// floor(36/count).
var namedBetCoverage = map[string][]int{
	"red":    {1, 3, 5, 7, 9, 11, 13, 15, 17, 19, 21, 23, 25, 27, 29, 31, 33, 35},
	"black":  {2, 4, 6, 8, 10, 12, 14, 16, 18, 20, 22, 24, 26, 28, 30, 32, 34, 36},
	"even":   {2, 4, 6, 8, 10, 12, 14, 16, 18, 20, 22, 24, 26, 28, 30, 32, 34, 36},
	"odd":    {1, 3, 5, 7, 9, 11, 13, 15, 17, 19, 21, 23, 25, 27, 29, 31, 33, 35},
	"low":    {1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18},
	"high":   {19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30, 31, 32, 33, 34, 35, 36},
	"first12":  {1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12},
	"second12": {13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24},
	"third12":  {25, 26, 27, 28, 29, 30, 31, 32, 33, 34, 35, 36},
	"col1":   {1, 4, 7, 10, 13, 16, 19, 22, 25, 28, 31, 34},
	"col2":   {2, 5, 8, 11, 14, 17, 20, 23, 26, 29, 32, 35},
	"col3":   {3, 6, 9, 12, 15, 18, 21, 24, 27, 30, 33, 36},
}

// rouletteCoverage resolves a bet string to its covered numbers: a named bet
// from the table, or hyphen-delimited numbers (a single number is the
// one-element case) parsed directly.
func rouletteCoverage(bet string) ([]int, error) {
	key := strings.ToLower(strings.TrimSpace(bet))
	if numbers, ok := namedBetCoverage[key]; ok {
		return numbers, nil
	}

	parts := strings.Split(key, "-")
	numbers := make([]int, 0, len(parts))
	seen := make(map[int]bool, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("%w: unknown roulette bet %q", entities.ErrInvalidWager, bet)
		}
		if n < 0 || n > 36 {
			return nil, fmt.Errorf("%w: roulette number %d out of range", entities.ErrInvalidWager, n)
		}
		if seen[n] {
			return nil, fmt.Errorf("%w: duplicate number in roulette bet %q", entities.ErrInvalidWager, bet)
		}
		seen[n] = true
		numbers = append(numbers, n)
	}
	return numbers, nil
}

func rouletteColor(number int) string {
	switch {
	case number == 0:
		return "green"
	case redNumbers[number]:
		return "red"
	default:
		return "black"
	}
}

func (s *wagerService) Roulette(ctx context.Context, discordID int64, bets []entities.RouletteBet) (*entities.RouletteResult, error) {
	if len(bets) == 0 {
		return nil, fmt.Errorf("%w: no roulette bets placed", entities.ErrInvalidWager)
	}

	// Resolve coverage for the whole batch before touching the ledger.
	coverages := make([][]int, len(bets))
	var totalWager int64
	for i, bet := range bets {
		if bet.Amount <= 0 {
			return nil, fmt.Errorf("%w: roulette bet amount must be positive", entities.ErrInvalidWager)
		}
		coverage, err := rouletteCoverage(bet.Bet)
		if err != nil {
			return nil, err
		}
		coverages[i] = coverage
		totalWager += bet.Amount
	}

	if err := s.stake(ctx, discordID, totalWager, "roulette wager"); err != nil {
		return nil, err
	}

	spin := s.rng.Intn(37)

	result := &entities.RouletteResult{
		Number:     spin,
		Color:      rouletteColor(spin),
		Bets:       make([]entities.RouletteBetOutcome, len(bets)),
		TotalWager: totalWager,
	}

	var grossPayout int64
	anyWon := false
	for i, bet := range bets {
		outcome := entities.RouletteBetOutcome{Bet: bet.Bet, Amount: bet.Amount}
		for _, n := range coverages[i] {
			if n == spin {
				outcome.Won = true
				break
			}
		}
		if outcome.Won {
			anyWon = true
			outcome.Multiplier = int64(36 / len(coverages[i]))
			outcome.Payout = bet.Amount * outcome.Multiplier
			grossPayout += outcome.Payout
		}
		result.Bets[i] = outcome
	}

	if grossPayout > 0 {
		paid, err := s.payOut(ctx, discordID, totalWager, grossPayout, "roulette payout")
		if err != nil {
			return nil, fmt.Errorf("failed to pay out roulette: %w", err)
		}
		result.TotalPayout = paid
	}

	if err := s.recordStreak(ctx, discordID, anyWon); err != nil {
		return nil, fmt.Errorf("failed to record game streak: %w", err)
	}

	balance, err := s.ledger.Balance(ctx, discordID)
	if err != nil {
		return nil, err
	}
	result.NewBalance = balance

	return result, nil
}
