package entities

import (
	"math/rand"
	"time"
)

// Suit and Rank identify a playing card.
type Suit string

const (
	SuitSpades   Suit = "♠"
	SuitHearts   Suit = "♥"
	SuitDiamonds Suit = "♦"
	SuitClubs    Suit = "♣"
)

type Rank string

var ranks = []Rank{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}
var suits = []Suit{SuitSpades, SuitHearts, SuitDiamonds, SuitClubs}

// Card is a single playing card.
type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

// Value returns the blackjack value of the card, counting aces as 11.
// Ace demotion to 1 happens at the hand level.
func (c Card) Value() int {
	switch c.Rank {
	case "A":
		return 11
	case "J", "Q", "K", "10":
		return 10
	default:
		return int(c.Rank[0] - '0')
	}
}

// NewShoe builds a shuffled shoe of the given number of 52-card decks.
func NewShoe(decks int, rng *rand.Rand) []Card {
	shoe := make([]Card, 0, decks*52)
	for d := 0; d < decks; d++ {
		for _, s := range suits {
			for _, r := range ranks {
				shoe = append(shoe, Card{Rank: r, Suit: s})
			}
		}
	}
	rng.Shuffle(len(shoe), func(i, j int) {
		shoe[i], shoe[j] = shoe[j], shoe[i]
	})
	return shoe
}

// HandValue totals a set of cards, demoting aces from 11 to 1 one at a time
// while the total exceeds 21.
func HandValue(cards []Card) int {
	total := 0
	aces := 0
	for _, c := range cards {
		total += c.Value()
		if c.Rank == "A" {
			aces++
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total
}

// BlackjackHand is one of the player's hands with its committed stake.
type BlackjackHand struct {
	Cards   []Card `json:"cards"`
	Stake   int64  `json:"stake"`
	Doubled bool   `json:"doubled"`
}

// Value returns the hand's best total.
func (h *BlackjackHand) Value() int {
	return HandValue(h.Cards)
}

// IsBust reports whether the hand exceeds 21.
func (h *BlackjackHand) IsBust() bool {
	return h.Value() > 21
}

// IsBlackjack reports a natural: exactly two cards totalling 21.
func (h *BlackjackHand) IsBlackjack() bool {
	return len(h.Cards) == 2 && h.Value() == 21
}

// CanDouble reports whether doubling down is legal for this hand.
func (h *BlackjackHand) CanDouble() bool {
	return len(h.Cards) == 2 && !h.Doubled
}

// CanSplit reports whether the hand is a splittable pair of equal-value cards.
func (h *BlackjackHand) CanSplit() bool {
	return len(h.Cards) == 2 && h.Cards[0].Value() == h.Cards[1].Value()
}

// BlackjackState is the session's position in the round.
type BlackjackState string

const (
	BlackjackStatePlayerTurn BlackjackState = "player_turn"
	BlackjackStateDealerTurn BlackjackState = "dealer_turn"
	BlackjackStateSettled    BlackjackState = "settled"
)

// HandResult is the settled outcome of one hand.
type HandResult string

const (
	HandResultBlackjack HandResult = "blackjack"
	HandResultWin       HandResult = "win"
	HandResultPush      HandResult = "push"
	HandResultLoss      HandResult = "loss"
	HandResultBust      HandResult = "bust"
)

// HandOutcome pairs a hand's result with its payout (0 for losses, the stake
// for a push, 2x for a win, 5/2x for a natural).
type HandOutcome struct {
	Result HandResult `json:"result"`
	Payout int64      `json:"payout"`
	Value  int        `json:"value"`
}

// BlackjackSession is a persisted, resumable single-player round against the
// dealer. At most one non-settled session exists per (owner, guild); the
// repository enforces this with a uniqueness constraint. Stakes are debited
// when committed (deal, double, split), never at settlement.
type BlackjackSession struct {
	ID         int64            `db:"id"`
	OwnerID    int64            `db:"owner_id"`
	GuildID    int64            `db:"guild_id"`
	Shoe       []Card           `db:"shoe"`
	Hands      []*BlackjackHand `db:"hands"`
	ActiveHand int              `db:"active_hand"`
	Dealer     []Card           `db:"dealer"`
	State      BlackjackState   `db:"state"`
	ExpiresAt  time.Time        `db:"expires_at"`
	CreatedAt  time.Time        `db:"created_at"`
	UpdatedAt  time.Time        `db:"updated_at"`
}

// NewBlackjackSession deals the opening round from a fresh shoe: two cards to
// the player, two to the dealer. A natural moves straight to the dealer turn.
func NewBlackjackSession(ownerID, guildID, stake int64, shoe []Card, ttl time.Duration, now time.Time) *BlackjackSession {
	s := &BlackjackSession{
		OwnerID:   ownerID,
		GuildID:   guildID,
		Shoe:      shoe,
		Hands:     []*BlackjackHand{{Stake: stake}},
		State:     BlackjackStatePlayerTurn,
		ExpiresAt: now.Add(ttl),
	}
	hand := s.Hands[0]
	hand.Cards = append(hand.Cards, s.draw(), s.draw())
	s.Dealer = append(s.Dealer, s.draw(), s.draw())
	if hand.IsBlackjack() {
		s.State = BlackjackStateDealerTurn
	}
	return s
}

// IsTerminal reports whether the session has been settled.
func (s *BlackjackSession) IsTerminal() bool {
	return s.State == BlackjackStateSettled
}

// CurrentHand returns the hand awaiting a player action, or nil.
func (s *BlackjackSession) CurrentHand() *BlackjackHand {
	if s.State != BlackjackStatePlayerTurn || s.ActiveHand >= len(s.Hands) {
		return nil
	}
	return s.Hands[s.ActiveHand]
}

func (s *BlackjackSession) draw() Card {
	card := s.Shoe[0]
	s.Shoe = s.Shoe[1:]
	return card
}

// advance moves the active-hand pointer, entering the dealer turn once it
// passes the last hand.
func (s *BlackjackSession) advance() {
	s.ActiveHand++
	if s.ActiveHand >= len(s.Hands) {
		s.State = BlackjackStateDealerTurn
	}
}

// Hit draws one card into the active hand; a bust advances the pointer.
func (s *BlackjackSession) Hit() error {
	hand := s.CurrentHand()
	if hand == nil {
		return ErrInvalidAction
	}
	hand.Cards = append(hand.Cards, s.draw())
	if hand.IsBust() || hand.Value() == 21 {
		s.advance()
	}
	return nil
}

// Stand advances the pointer immediately.
func (s *BlackjackSession) Stand() error {
	if s.CurrentHand() == nil {
		return ErrInvalidAction
	}
	s.advance()
	return nil
}

// Double doubles the active hand's stake, draws exactly one card, and
// advances. The caller must have debited the additional stake first.
func (s *BlackjackSession) Double() error {
	hand := s.CurrentHand()
	if hand == nil || !hand.CanDouble() {
		return ErrInvalidAction
	}
	hand.Stake *= 2
	hand.Doubled = true
	hand.Cards = append(hand.Cards, s.draw())
	s.advance()
	return nil
}

// Split turns a pair into two hands with matching stakes and deals one fresh
// card to each. The caller must have debited the second stake first.
func (s *BlackjackSession) Split() error {
	hand := s.CurrentHand()
	if hand == nil || !hand.CanSplit() {
		return ErrInvalidAction
	}
	moved := hand.Cards[1]
	hand.Cards = hand.Cards[:1]
	second := &BlackjackHand{Cards: []Card{moved}, Stake: hand.Stake}
	hand.Cards = append(hand.Cards, s.draw())
	second.Cards = append(second.Cards, s.draw())

	rest := make([]*BlackjackHand, 0, len(s.Hands)+1)
	rest = append(rest, s.Hands[:s.ActiveHand+1]...)
	rest = append(rest, second)
	rest = append(rest, s.Hands[s.ActiveHand+1:]...)
	s.Hands = rest
	return nil
}

// PlayDealer draws dealer cards until the total reaches at least 17, then
// settles every hand independently and marks the session terminal.
func (s *BlackjackSession) PlayDealer() ([]HandOutcome, error) {
	if s.State != BlackjackStateDealerTurn {
		return nil, ErrInvalidAction
	}
	for HandValue(s.Dealer) < 17 {
		s.Dealer = append(s.Dealer, s.draw())
	}
	dealerValue := HandValue(s.Dealer)
	dealerBust := dealerValue > 21
	dealerBlackjack := len(s.Dealer) == 2 && dealerValue == 21

	outcomes := make([]HandOutcome, len(s.Hands))
	for i, hand := range s.Hands {
		outcome := HandOutcome{Value: hand.Value()}
		switch {
		case hand.IsBust():
			outcome.Result = HandResultBust
		case hand.IsBlackjack() && !dealerBlackjack:
			// Natural pays 3:2 on top of the returned stake.
			outcome.Result = HandResultBlackjack
			outcome.Payout = hand.Stake + hand.Stake*3/2
		case dealerBust || hand.Value() > dealerValue:
			outcome.Result = HandResultWin
			outcome.Payout = hand.Stake * 2
		case hand.Value() == dealerValue:
			outcome.Result = HandResultPush
			outcome.Payout = hand.Stake
		default:
			outcome.Result = HandResultLoss
		}
		outcomes[i] = outcome
	}
	s.State = BlackjackStateSettled
	return outcomes, nil
}

// TotalStaked sums the stakes committed across all hands.
func (s *BlackjackSession) TotalStaked() int64 {
	var total int64
	for _, h := range s.Hands {
		total += h.Stake
	}
	return total
}

// BlackjackView is the caller-facing snapshot of a session. While the player
// is still acting only the dealer's upcard is visible.
type BlackjackView struct {
	State      BlackjackState   `json:"state"`
	Hands      []*BlackjackHand `json:"hands"`
	ActiveHand int              `json:"active_hand"`
	Dealer     []Card           `json:"dealer"`
	Outcomes   []HandOutcome    `json:"outcomes,omitempty"`
	NewBalance int64            `json:"new_balance"`
}

// View builds the snapshot, masking the dealer's hole card mid-round.
func (s *BlackjackSession) View() *BlackjackView {
	view := &BlackjackView{
		State:      s.State,
		Hands:      s.Hands,
		ActiveHand: s.ActiveHand,
		Dealer:     s.Dealer,
	}
	if s.State == BlackjackStatePlayerTurn && len(s.Dealer) > 0 {
		view.Dealer = s.Dealer[:1]
	}
	return view
}
