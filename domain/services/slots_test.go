package services

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"plutus/config"
	"plutus/domain/entities"
	"plutus/domain/testhelpers"
)

func TestClassifySlots(t *testing.T) {
	tests := []struct {
		name  string
		reels [3]string
		want  entities.SlotsOutcome
	}{
		{"triple seven", [3]string{"7️⃣", "7️⃣", "7️⃣"}, entities.SlotsOutcomeJackpot},
		{"other triple", [3]string{"🍒", "🍒", "🍒"}, entities.SlotsOutcomeTriple},
		{"double seven", [3]string{"7️⃣", "🍒", "7️⃣"}, entities.SlotsOutcomeDoubleSeven},
		{"pair", [3]string{"🍋", "🍋", "🍒"}, entities.SlotsOutcomePair},
		{"split pair", [3]string{"🍋", "🍒", "🍋"}, entities.SlotsOutcomePair},
		{"seven plus pair counts as pair", [3]string{"7️⃣", "🍋", "🍋"}, entities.SlotsOutcomePair},
		{"loss", [3]string{"🍒", "🍋", "💎"}, entities.SlotsOutcomeLoss},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifySlots(tt.reels))
		})
	}
}

func TestSlotReelWeights(t *testing.T) {
	assert.Equal(t, 100, slotReelWeight(), "reel weights form a percentage table")

	// Every roll in range maps to a symbol.
	seen := make(map[string]bool)
	for roll := 0; roll < slotReelWeight(); roll++ {
		seen[drawSlotSymbol(roll)] = true
	}
	assert.Len(t, seen, len(slotReel))
}

// predictReels mirrors the fixture seed to learn the spin before staking.
func predictReels(seed int64) [3]string {
	rng := rand.New(rand.NewSource(seed))
	var reels [3]string
	for i := range reels {
		reels[i] = drawSlotSymbol(rng.Intn(slotReelWeight()))
	}
	return reels
}

func findSlotsSeed(t *testing.T, want entities.SlotsOutcome) int64 {
	t.Helper()
	for s := int64(1); s < 1_000_000; s++ {
		if classifySlots(predictReels(s)) == want {
			return s
		}
	}
	t.Fatalf("no seed found for outcome %s", want)
	return 0
}

func TestSlots_LossFeedsPoolAndStreak(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	seed := findSlotsSeed(t, entities.SlotsOutcomeLoss)
	svc, ledger, _, jackpotRepo := newWagerFixture(seed, 1000)

	pool := &entities.JackpotPool{GuildID: 7}
	jackpotRepo.On("GetOrCreate", mock.Anything).Return(pool, nil)
	jackpotRepo.On("Update", mock.Anything, pool).Return(nil)
	jackpotRepo.On("RecordContribution", mock.Anything, mock.MatchedBy(func(c *entities.JackpotContribution) bool {
		return c.DiscordID == 123 && c.Amount == 50
	})).Return(nil)

	result, err := svc.Slots(context.Background(), 123, 100)

	require.NoError(t, err)
	assert.Equal(t, entities.SlotsOutcomeLoss, result.Outcome)
	assert.Equal(t, int64(900), ledger.Balances[123])
	assert.Equal(t, int64(50), pool.Amount, "half the lost stake feeds the pool")
	jackpotRepo.AssertExpectations(t)
}

func TestSlots_LossStreakGrantsFreeSpin(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	seed := findSlotsSeed(t, entities.SlotsOutcomeLoss)

	ledger := testhelpers.NewFakeLedger()
	ledger.Balances[123] = 1000

	buffs := new(testhelpers.MockBuffRegistry)
	buffs.On("EarningsMultiplier", mock.Anything, int64(123)).Return(float64(1), nil)

	// One loss short of the threshold.
	wallet := &entities.Wallet{DiscordID: 123, GuildID: 7, Balance: 1000, SlotLossStreak: 4}
	walletRepo := new(testhelpers.MockWalletRepository)
	walletRepo.On("GetOrCreate", mock.Anything, int64(123)).Return(wallet, nil)
	walletRepo.On("UpdateCounters", mock.Anything, wallet).Return(nil)

	jackpotRepo := new(testhelpers.MockJackpotRepository)
	pool := &entities.JackpotPool{GuildID: 7}
	jackpotRepo.On("GetOrCreate", mock.Anything).Return(pool, nil)
	jackpotRepo.On("Update", mock.Anything, pool).Return(nil)
	jackpotRepo.On("RecordContribution", mock.Anything, mock.Anything).Return(nil)

	svc := NewWagerEvaluator(ledger, buffs, walletRepo, jackpotRepo, nil, rand.New(rand.NewSource(seed))).(*wagerService)

	result, err := svc.Slots(context.Background(), 123, 100)

	require.NoError(t, err)
	assert.True(t, result.FreeSpinGranted)
	assert.Equal(t, 0, wallet.SlotLossStreak)
	assert.Equal(t, 1, wallet.FreeSpins)
}

func TestSlots_FreeSpinConsumesNoStake(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	seed := findSlotsSeed(t, entities.SlotsOutcomeLoss)

	ledger := testhelpers.NewFakeLedger()
	ledger.Balances[123] = 1000

	buffs := new(testhelpers.MockBuffRegistry)
	buffs.On("EarningsMultiplier", mock.Anything, int64(123)).Return(float64(1), nil)

	wallet := &entities.Wallet{DiscordID: 123, GuildID: 7, Balance: 1000, FreeSpins: 1}
	walletRepo := new(testhelpers.MockWalletRepository)
	walletRepo.On("GetOrCreate", mock.Anything, int64(123)).Return(wallet, nil)
	walletRepo.On("UpdateCounters", mock.Anything, wallet).Return(nil)

	jackpotRepo := new(testhelpers.MockJackpotRepository)

	svc := NewWagerEvaluator(ledger, buffs, walletRepo, jackpotRepo, nil, rand.New(rand.NewSource(seed))).(*wagerService)

	result, err := svc.Slots(context.Background(), 123, 100)

	require.NoError(t, err)
	assert.True(t, result.FreeSpinUsed)
	assert.Equal(t, 0, wallet.FreeSpins)
	assert.Equal(t, int64(1000), ledger.Balances[123], "free spin debits nothing")
	// A free-spin loss neither feeds the pool nor bumps the streak.
	assert.Equal(t, 0, wallet.SlotLossStreak)
	jackpotRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestSlots_JackpotDrainsPool(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	seed := findSlotsSeed(t, entities.SlotsOutcomeJackpot)
	svc, ledger, _, jackpotRepo := newWagerFixture(seed, 1000)

	pool := &entities.JackpotPool{GuildID: 7, Amount: 25_000}
	jackpotRepo.On("GetOrCreate", mock.Anything).Return(pool, nil)
	jackpotRepo.On("Update", mock.Anything, pool).Return(nil)

	result, err := svc.Slots(context.Background(), 123, 100)

	require.NoError(t, err)
	assert.Equal(t, entities.SlotsOutcomeJackpot, result.Outcome)
	assert.Equal(t, int64(25_000), result.JackpotWon)
	assert.Equal(t, int64(0), pool.Amount, "pool fully drained")
	// Pool beats the 50x floor: staked 100, credited 25000.
	assert.Equal(t, int64(1000-100+25_000), ledger.Balances[123])
}

func TestSlots_JackpotFloorWhenPoolSmall(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	seed := findSlotsSeed(t, entities.SlotsOutcomeJackpot)
	svc, ledger, _, jackpotRepo := newWagerFixture(seed, 1000)

	pool := &entities.JackpotPool{GuildID: 7, Amount: 300}
	jackpotRepo.On("GetOrCreate", mock.Anything).Return(pool, nil)
	jackpotRepo.On("Update", mock.Anything, pool).Return(nil)

	_, err := svc.Slots(context.Background(), 123, 100)

	require.NoError(t, err)
	// 100 x 50 floor beats the 300 pool.
	assert.Equal(t, int64(1000-100+5000), ledger.Balances[123])
}
