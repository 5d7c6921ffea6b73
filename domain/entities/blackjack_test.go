package entities

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func card(rank Rank) Card {
	return Card{Rank: rank, Suit: SuitSpades}
}

func TestHandValue_AceDemotion(t *testing.T) {
	tests := []struct {
		name  string
		cards []Card
		want  int
	}{
		{"ace high", []Card{card("A"), card("9")}, 20},
		{"natural", []Card{card("A"), card("K")}, 21},
		{"ace demoted once", []Card{card("A"), card("9"), card("5")}, 15},
		{"two aces", []Card{card("A"), card("A")}, 12},
		{"two aces demoted", []Card{card("A"), card("A"), card("K")}, 12},
		{"all faces", []Card{card("K"), card("Q"), card("J")}, 30},
		{"bust without aces", []Card{card("9"), card("8"), card("7")}, 24},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HandValue(tt.cards))
		})
	}
}

func TestNewShoe(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	shoe := NewShoe(4, rng)
	assert.Len(t, shoe, 208)

	counts := make(map[Card]int)
	for _, c := range shoe {
		counts[c]++
	}
	for _, n := range counts {
		assert.Equal(t, 4, n)
	}
}

// sessionWithCards builds a session dealing from a stacked shoe: player gets
// cards 0 and 1, dealer gets 2 and 3, further draws follow in order.
func sessionWithCards(stake int64, cards ...Card) *BlackjackSession {
	return NewBlackjackSession(42, 1, stake, cards, time.Hour, time.Now())
}

func TestNewBlackjackSession_OpeningDeal(t *testing.T) {
	s := sessionWithCards(100, card("9"), card("5"), card("K"), card("6"), card("2"))

	require.Len(t, s.Hands, 1)
	assert.Equal(t, 14, s.Hands[0].Value())
	assert.Equal(t, 16, HandValue(s.Dealer))
	assert.Equal(t, BlackjackStatePlayerTurn, s.State)
	assert.Equal(t, int64(100), s.TotalStaked())
}

func TestNewBlackjackSession_NaturalSkipsPlayerTurn(t *testing.T) {
	s := sessionWithCards(100, card("A"), card("K"), card("9"), card("6"))
	assert.Equal(t, BlackjackStateDealerTurn, s.State)
}

func TestBlackjackSession_HitBustAdvances(t *testing.T) {
	s := sessionWithCards(100, card("K"), card("9"), card("5"), card("6"), card("8"))

	require.NoError(t, s.Hit())
	assert.True(t, s.Hands[0].IsBust())
	assert.Equal(t, BlackjackStateDealerTurn, s.State)

	assert.ErrorIs(t, s.Hit(), ErrInvalidAction)
}

func TestBlackjackSession_StandAdvances(t *testing.T) {
	s := sessionWithCards(100, card("K"), card("9"), card("5"), card("6"))
	require.NoError(t, s.Stand())
	assert.Equal(t, BlackjackStateDealerTurn, s.State)
}

func TestBlackjackSession_Double(t *testing.T) {
	s := sessionWithCards(100, card("5"), card("6"), card("9"), card("7"), card("K"))

	require.NoError(t, s.Double())
	assert.Equal(t, int64(200), s.Hands[0].Stake)
	assert.Len(t, s.Hands[0].Cards, 3)
	assert.Equal(t, BlackjackStateDealerTurn, s.State)

	// Doubling is only legal on a two-card hand.
	s2 := sessionWithCards(100, card("2"), card("3"), card("9"), card("7"), card("4"), card("5"))
	require.NoError(t, s2.Hit())
	assert.ErrorIs(t, s2.Double(), ErrInvalidAction)
}

func TestBlackjackSession_Split(t *testing.T) {
	s := sessionWithCards(100, card("8"), card("8"), card("9"), card("7"), card("2"), card("3"))

	require.NoError(t, s.Split())
	require.Len(t, s.Hands, 2)
	assert.Equal(t, int64(100), s.Hands[1].Stake)
	assert.Equal(t, int64(200), s.TotalStaked())
	// Each split hand got one fresh card.
	assert.Len(t, s.Hands[0].Cards, 2)
	assert.Len(t, s.Hands[1].Cards, 2)

	// K-10 counts as an equal-value pair.
	s2 := sessionWithCards(100, card("K"), card("10"), card("9"), card("7"), card("2"), card("3"))
	assert.NoError(t, s2.Split())

	// Unequal values cannot split.
	s3 := sessionWithCards(100, card("K"), card("9"), card("9"), card("7"))
	assert.ErrorIs(t, s3.Split(), ErrInvalidAction)
}

func TestPlayDealer_DrawsToSeventeen(t *testing.T) {
	// Dealer starts at 12 and must draw the 2 then the 4 to reach 18.
	s := sessionWithCards(100, card("K"), card("9"), card("K"), card("2"), card("2"), card("4"))
	require.NoError(t, s.Stand())

	_, err := s.PlayDealer()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, HandValue(s.Dealer), 17)
	assert.Equal(t, 18, HandValue(s.Dealer))
	assert.Equal(t, BlackjackStateSettled, s.State)
}

func TestPlayDealer_Payouts(t *testing.T) {
	tests := []struct {
		name       string
		cards      []Card
		wantResult HandResult
		wantPayout int64
	}{
		{
			// Player 20 vs dealer 18.
			name:       "win pays double",
			cards:      []Card{card("K"), card("Q"), card("K"), card("8")},
			wantResult: HandResultWin,
			wantPayout: 200,
		},
		{
			// Natural beats dealer 20 at 3:2.
			name:       "natural pays three to two",
			cards:      []Card{card("A"), card("K"), card("K"), card("Q")},
			wantResult: HandResultBlackjack,
			wantPayout: 250,
		},
		{
			// Both sit on 19.
			name:       "push returns stake",
			cards:      []Card{card("K"), card("9"), card("K"), card("9")},
			wantResult: HandResultPush,
			wantPayout: 100,
		},
		{
			// Player 18 vs dealer 19.
			name:       "loss pays nothing",
			cards:      []Card{card("K"), card("8"), card("K"), card("9")},
			wantResult: HandResultLoss,
			wantPayout: 0,
		},
		{
			// Dealer draws 16 -> 26.
			name:       "dealer bust pays double",
			cards:      []Card{card("K"), card("8"), card("K"), card("6"), card("Q")},
			wantResult: HandResultWin,
			wantPayout: 200,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sessionWithCards(100, tt.cards...)
			if s.State == BlackjackStatePlayerTurn {
				require.NoError(t, s.Stand())
			}
			outcomes, err := s.PlayDealer()
			require.NoError(t, err)
			require.Len(t, outcomes, 1)
			assert.Equal(t, tt.wantResult, outcomes[0].Result)
			assert.Equal(t, tt.wantPayout, outcomes[0].Payout)
		})
	}
}

func TestPlayDealer_BustHandForfeitsEvenOnDealerBust(t *testing.T) {
	// Player busts 25; dealer would also bust.
	s := sessionWithCards(100, card("K"), card("9"), card("K"), card("6"), card("6"), card("Q"))
	require.NoError(t, s.Hit())

	outcomes, err := s.PlayDealer()
	require.NoError(t, err)
	assert.Equal(t, HandResultBust, outcomes[0].Result)
	assert.Equal(t, int64(0), outcomes[0].Payout)
}

func TestView_MasksDealerHoleCard(t *testing.T) {
	s := sessionWithCards(100, card("9"), card("5"), card("K"), card("6"))

	view := s.View()
	assert.Len(t, view.Dealer, 1)

	require.NoError(t, s.Stand())
	_, err := s.PlayDealer()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(s.View().Dealer), 2)
}
