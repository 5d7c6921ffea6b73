package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	log "github.com/sirupsen/logrus"

	"plutus/config"
	"plutus/domain/entities"
	"plutus/domain/interfaces"
)

type blackjackService struct {
	ledger        interfaces.Ledger
	blackjackRepo interfaces.BlackjackRepository
	rng           *rand.Rand
	now           func() time.Time
}

// NewBlackjackService creates a new blackjack service
func NewBlackjackService(ledger interfaces.Ledger, blackjackRepo interfaces.BlackjackRepository, rng *rand.Rand) interfaces.BlackjackService {
	return &blackjackService{
		ledger:        ledger,
		blackjackRepo: blackjackRepo,
		rng:           rng,
		now:           time.Now,
	}
}

func (s *blackjackService) StartGame(ctx context.Context, discordID int64, stake int64) (*entities.BlackjackView, error) {
	if stake <= 0 {
		return nil, fmt.Errorf("%w: blackjack stake must be positive", entities.ErrInvalidWager)
	}

	// A live session wins over a new deal: return it untouched so two
	// concurrent starts cannot commit two stakes.
	existing, err := s.blackjackRepo.GetActiveByOwner(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to check for active session: %w", err)
	}
	if existing != nil {
		return s.viewWithBalance(ctx, existing, nil)
	}

	if _, err := s.ledger.Debit(ctx, discordID, stake, entities.TransactionKindWager, "blackjack stake"); err != nil {
		return nil, err
	}

	cfg := config.Get()
	shoe := entities.NewShoe(cfg.BlackjackDecks, s.rng)
	session := entities.NewBlackjackSession(discordID, 0, stake, shoe, cfg.BlackjackSessionTTL, s.now())

	// An opening natural settles immediately without any player action.
	if session.State == entities.BlackjackStateDealerTurn {
		return s.settle(ctx, session, true)
	}

	if err := s.blackjackRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create blackjack session: %w", err)
	}
	return s.viewWithBalance(ctx, session, nil)
}

// act loads the live session, applies one player action, and either settles
// or persists the updated session.
func (s *blackjackService) act(ctx context.Context, discordID int64, action func(*entities.BlackjackSession) error) (*entities.BlackjackView, error) {
	session, err := s.blackjackRepo.GetActiveByOwner(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active session: %w", err)
	}
	if session == nil {
		return nil, entities.ErrNotFound
	}

	if err := action(session); err != nil {
		return nil, err
	}

	if session.State == entities.BlackjackStateDealerTurn {
		return s.settle(ctx, session, false)
	}

	if err := s.blackjackRepo.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update blackjack session: %w", err)
	}
	return s.viewWithBalance(ctx, session, nil)
}

func (s *blackjackService) Hit(ctx context.Context, discordID int64) (*entities.BlackjackView, error) {
	return s.act(ctx, discordID, func(session *entities.BlackjackSession) error {
		return session.Hit()
	})
}

func (s *blackjackService) Stand(ctx context.Context, discordID int64) (*entities.BlackjackView, error) {
	return s.act(ctx, discordID, func(session *entities.BlackjackSession) error {
		return session.Stand()
	})
}

func (s *blackjackService) Double(ctx context.Context, discordID int64) (*entities.BlackjackView, error) {
	return s.act(ctx, discordID, func(session *entities.BlackjackSession) error {
		hand := session.CurrentHand()
		if hand == nil || !hand.CanDouble() {
			return entities.ErrInvalidAction
		}
		// The additional stake commits before the card is drawn.
		if _, err := s.ledger.Debit(ctx, discordID, hand.Stake, entities.TransactionKindWager, "blackjack double"); err != nil {
			return err
		}
		return session.Double()
	})
}

func (s *blackjackService) Split(ctx context.Context, discordID int64) (*entities.BlackjackView, error) {
	return s.act(ctx, discordID, func(session *entities.BlackjackSession) error {
		hand := session.CurrentHand()
		if hand == nil || !hand.CanSplit() {
			return entities.ErrInvalidAction
		}
		if _, err := s.ledger.Debit(ctx, discordID, hand.Stake, entities.TransactionKindWager, "blackjack split"); err != nil {
			return err
		}
		return session.Split()
	})
}

// settle plays out the dealer, credits every hand's payout, and removes the
// session. transient sessions (an opening natural) were never persisted.
func (s *blackjackService) settle(ctx context.Context, session *entities.BlackjackSession, transient bool) (*entities.BlackjackView, error) {
	outcomes, err := session.PlayDealer()
	if err != nil {
		return nil, err
	}

	var totalPayout int64
	for _, o := range outcomes {
		totalPayout += o.Payout
	}
	if totalPayout > 0 {
		if _, err := s.ledger.Credit(ctx, session.OwnerID, totalPayout, entities.TransactionKindPayout, "blackjack payout"); err != nil {
			return nil, fmt.Errorf("failed to credit blackjack payout: %w", err)
		}
	}

	if !transient {
		if err := s.blackjackRepo.Delete(ctx, session.ID); err != nil {
			return nil, fmt.Errorf("failed to delete settled session: %w", err)
		}
	}

	return s.viewWithBalance(ctx, session, outcomes)
}

func (s *blackjackService) viewWithBalance(ctx context.Context, session *entities.BlackjackSession, outcomes []entities.HandOutcome) (*entities.BlackjackView, error) {
	view := session.View()
	view.Outcomes = outcomes
	balance, err := s.ledger.Balance(ctx, session.OwnerID)
	if err != nil {
		return nil, err
	}
	view.NewBalance = balance
	return view, nil
}

func (s *blackjackService) ReapExpired(ctx context.Context, now time.Time) (int64, error) {
	reaped, err := s.blackjackRepo.DeleteExpired(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to reap expired sessions: %w", err)
	}
	if reaped > 0 {
		log.WithField("count", reaped).Info("reaped expired blackjack sessions")
	}
	return reaped, nil
}
