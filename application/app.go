package application

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"plutus/config"
	"plutus/domain/entities"
	"plutus/domain/interfaces"
	"plutus/domain/services"
)

// App is the programmatic surface of the economy engine. Each method runs one
// external operation inside its own unit of work: begin, act through
// guild-scoped services, commit. A failed operation rolls back and the
// buffered events are discarded with it.
type App struct {
	uowFactory interfaces.UnitOfWorkFactory
}

// NewApp creates a new application facade
func NewApp(uowFactory interfaces.UnitOfWorkFactory) *App {
	return &App{uowFactory: uowFactory}
}

// guildServices bundles the domain services constructed over one unit of work.
type guildServices struct {
	ledger    interfaces.Ledger
	buffs     interfaces.BuffRegistry
	wagers    interfaces.WagerEvaluator
	blackjack interfaces.BlackjackService
	betEvents interfaces.BetEventService
	loot      interfaces.LootService
	economy   interfaces.EconomyService
}

func buildServices(uow interfaces.UnitOfWork, rng *rand.Rand) *guildServices {
	ledger := services.NewLedgerService(uow.WalletRepository(), uow.TransactionRepository(), uow.EventBus())
	buffs := services.NewBuffRegistry(uow.BuffRepository())
	return &guildServices{
		ledger:    ledger,
		buffs:     buffs,
		wagers:    services.NewWagerEvaluator(ledger, buffs, uow.WalletRepository(), uow.JackpotRepository(), uow.EventBus(), rng),
		blackjack: services.NewBlackjackService(ledger, uow.BlackjackRepository(), rng),
		betEvents: services.NewBetEventService(ledger, uow.BetEventRepository(), uow.EventBus()),
		loot:      services.NewLootService(ledger, buffs, uow.InventoryRepository(), uow.EventBus(), rng),
		economy:   services.NewEconomyService(ledger, buffs, uow.WalletRepository(), uow.JackpotRepository(), uow.EventBus()),
	}
}

// withGuild runs fn inside a fresh unit of work for the guild, committing on
// success and rolling back on error or panic.
func (a *App) withGuild(ctx context.Context, guildID int64, fn func(svc *guildServices) error) error {
	uow := a.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if r := recover(); r != nil {
			uow.Rollback()
			panic(r)
		}
	}()

	rng := rand.New(rand.NewSource(rand.Int63()))
	if err := fn(buildServices(uow, rng)); err != nil {
		uow.Rollback()
		return err
	}
	if err := uow.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Balance returns the player's balance, creating the wallet on first contact.
func (a *App) Balance(ctx context.Context, guildID, discordID int64) (int64, error) {
	var balance int64
	err := a.withGuild(ctx, guildID, func(svc *guildServices) error {
		var err error
		balance, err = svc.ledger.Balance(ctx, discordID)
		return err
	})
	return balance, err
}

// History returns the player's most recent ledger entries.
func (a *App) History(ctx context.Context, guildID, discordID int64, limit int) ([]*entities.Transaction, error) {
	var history []*entities.Transaction
	err := a.withGuild(ctx, guildID, func(svc *guildServices) error {
		var err error
		history, err = svc.ledger.History(ctx, discordID, limit)
		return err
	})
	return history, err
}

// ClaimDaily pays the player's daily reward.
func (a *App) ClaimDaily(ctx context.Context, guildID, discordID int64) (*entities.DailyClaimResult, error) {
	var result *entities.DailyClaimResult
	err := a.withGuild(ctx, guildID, func(svc *guildServices) error {
		var err error
		result, err = svc.economy.ClaimDaily(ctx, discordID)
		return err
	})
	return result, err
}

// Gift transfers funds between two players in the guild.
func (a *App) Gift(ctx context.Context, guildID, fromID, toID int64, amount int64) error {
	return a.withGuild(ctx, guildID, func(svc *guildServices) error {
		return svc.economy.Gift(ctx, fromID, toID, amount)
	})
}

// RedeemGoldenTicket consumes a golden ticket for a partial jackpot payout.
func (a *App) RedeemGoldenTicket(ctx context.Context, guildID, discordID int64) (int64, error) {
	var won int64
	err := a.withGuild(ctx, guildID, func(svc *guildServices) error {
		var err error
		won, err = svc.economy.RedeemGoldenTicket(ctx, discordID)
		return err
	})
	return won, err
}

// GrantBuff gives a player a buff, stacking with a live buff of the same type.
func (a *App) GrantBuff(ctx context.Context, guildID int64, buff *entities.Buff) (*entities.Buff, error) {
	var granted *entities.Buff
	err := a.withGuild(ctx, guildID, func(svc *guildServices) error {
		var err error
		granted, err = svc.buffs.Grant(ctx, buff)
		return err
	})
	return granted, err
}

// ActiveBuffs lists the player's live buffs.
func (a *App) ActiveBuffs(ctx context.Context, guildID, discordID int64) ([]*entities.Buff, error) {
	var buffs []*entities.Buff
	err := a.withGuild(ctx, guildID, func(svc *guildServices) error {
		var err error
		buffs, err = svc.buffs.ActiveBuffs(ctx, discordID)
		return err
	})
	return buffs, err
}

// Coinflip settles a heads/tails wager.
func (a *App) Coinflip(ctx context.Context, guildID, discordID int64, amount int64, call string) (*entities.WagerResult, error) {
	var result *entities.WagerResult
	err := a.withGuild(ctx, guildID, func(svc *guildServices) error {
		var err error
		result, err = svc.wagers.Coinflip(ctx, discordID, amount, call)
		return err
	})
	return result, err
}

// Dice settles a d6 wager.
func (a *App) Dice(ctx context.Context, guildID, discordID int64, amount int64, betType entities.DiceBetType, number int) (*entities.WagerResult, error) {
	var result *entities.WagerResult
	err := a.withGuild(ctx, guildID, func(svc *guildServices) error {
		var err error
		result, err = svc.wagers.Dice(ctx, discordID, amount, betType, number)
		return err
	})
	return result, err
}

// Roulette settles a batch of bets against one spin.
func (a *App) Roulette(ctx context.Context, guildID, discordID int64, bets []entities.RouletteBet) (*entities.RouletteResult, error) {
	var result *entities.RouletteResult
	err := a.withGuild(ctx, guildID, func(svc *guildServices) error {
		var err error
		result, err = svc.wagers.Roulette(ctx, discordID, bets)
		return err
	})
	return result, err
}

// Slots spins the slot machine.
func (a *App) Slots(ctx context.Context, guildID, discordID int64, amount int64) (*entities.SlotsResult, error) {
	var result *entities.SlotsResult
	err := a.withGuild(ctx, guildID, func(svc *guildServices) error {
		var err error
		result, err = svc.wagers.Slots(ctx, discordID, amount)
		return err
	})
	return result, err
}

// StartBlackjack deals a new session or returns the player's live one.
func (a *App) StartBlackjack(ctx context.Context, guildID, discordID int64, stake int64) (*entities.BlackjackView, error) {
	return a.blackjackAction(ctx, guildID, func(svc *guildServices) (*entities.BlackjackView, error) {
		return svc.blackjack.StartGame(ctx, discordID, stake)
	})
}

// BlackjackHit draws one card for the player's active hand.
func (a *App) BlackjackHit(ctx context.Context, guildID, discordID int64) (*entities.BlackjackView, error) {
	return a.blackjackAction(ctx, guildID, func(svc *guildServices) (*entities.BlackjackView, error) {
		return svc.blackjack.Hit(ctx, discordID)
	})
}

// BlackjackStand ends the player's active hand.
func (a *App) BlackjackStand(ctx context.Context, guildID, discordID int64) (*entities.BlackjackView, error) {
	return a.blackjackAction(ctx, guildID, func(svc *guildServices) (*entities.BlackjackView, error) {
		return svc.blackjack.Stand(ctx, discordID)
	})
}

// BlackjackDouble doubles down on the player's active hand.
func (a *App) BlackjackDouble(ctx context.Context, guildID, discordID int64) (*entities.BlackjackView, error) {
	return a.blackjackAction(ctx, guildID, func(svc *guildServices) (*entities.BlackjackView, error) {
		return svc.blackjack.Double(ctx, discordID)
	})
}

// BlackjackSplit splits the player's pair into two hands.
func (a *App) BlackjackSplit(ctx context.Context, guildID, discordID int64) (*entities.BlackjackView, error) {
	return a.blackjackAction(ctx, guildID, func(svc *guildServices) (*entities.BlackjackView, error) {
		return svc.blackjack.Split(ctx, discordID)
	})
}

func (a *App) blackjackAction(ctx context.Context, guildID int64, fn func(svc *guildServices) (*entities.BlackjackView, error)) (*entities.BlackjackView, error) {
	var view *entities.BlackjackView
	err := a.withGuild(ctx, guildID, func(svc *guildServices) error {
		var err error
		view, err = fn(svc)
		return err
	})
	return view, err
}

// ReapExpiredSessions forfeits the guild's expired blackjack sessions.
func (a *App) ReapExpiredSessions(ctx context.Context, guildID int64, now time.Time) (int64, error) {
	var reaped int64
	err := a.withGuild(ctx, guildID, func(svc *guildServices) error {
		var err error
		reaped, err = svc.blackjack.ReapExpired(ctx, now)
		return err
	})
	return reaped, err
}

// CreateBetEvent opens a new community bet event.
func (a *App) CreateBetEvent(ctx context.Context, guildID, creatorID int64, description string, options []string, closesAt *time.Time) (*entities.BetEvent, error) {
	var event *entities.BetEvent
	err := a.withGuild(ctx, guildID, func(svc *guildServices) error {
		var err error
		event, err = svc.betEvents.Create(ctx, creatorID, description, options, closesAt)
		return err
	})
	return event, err
}

// PlaceStake stakes on an option of an open bet event.
func (a *App) PlaceStake(ctx context.Context, guildID, eventID, discordID int64, option string, amount int64) (*entities.Stake, error) {
	var stake *entities.Stake
	err := a.withGuild(ctx, guildID, func(svc *guildServices) error {
		var err error
		stake, err = svc.betEvents.PlaceStake(ctx, eventID, discordID, option, amount)
		return err
	})
	return stake, err
}

// CloseBetEvent stops an event from accepting further stakes.
func (a *App) CloseBetEvent(ctx context.Context, guildID, eventID int64) (*entities.BetEvent, error) {
	var event *entities.BetEvent
	err := a.withGuild(ctx, guildID, func(svc *guildServices) error {
		var err error
		event, err = svc.betEvents.Close(ctx, eventID)
		return err
	})
	return event, err
}

// ResolveBetEvent settles an event in favor of one option. When a resolver
// allowlist is configured, only listed callers may resolve.
func (a *App) ResolveBetEvent(ctx context.Context, guildID, eventID, resolverID int64, winningOption string) (*entities.BetEventResolution, error) {
	if err := checkResolver(resolverID); err != nil {
		return nil, err
	}
	var resolution *entities.BetEventResolution
	err := a.withGuild(ctx, guildID, func(svc *guildServices) error {
		var err error
		resolution, err = svc.betEvents.Resolve(ctx, eventID, winningOption)
		return err
	})
	return resolution, err
}

// RefundBetEvent cancels an event and returns every stake.
func (a *App) RefundBetEvent(ctx context.Context, guildID, eventID, resolverID int64) (*entities.BetEventResolution, error) {
	if err := checkResolver(resolverID); err != nil {
		return nil, err
	}
	var resolution *entities.BetEventResolution
	err := a.withGuild(ctx, guildID, func(svc *guildServices) error {
		var err error
		resolution, err = svc.betEvents.Refund(ctx, eventID)
		return err
	})
	return resolution, err
}

// BetEventDetail returns an event with its stakes and pool totals.
func (a *App) BetEventDetail(ctx context.Context, guildID, eventID int64) (*entities.BetEventDetail, error) {
	var detail *entities.BetEventDetail
	err := a.withGuild(ctx, guildID, func(svc *guildServices) error {
		var err error
		detail, err = svc.betEvents.Detail(ctx, eventID)
		return err
	})
	return detail, err
}

// AcquireLoot rolls a drop for the named activity and stores it.
func (a *App) AcquireLoot(ctx context.Context, guildID, discordID int64, activity string, boxTier entities.Tier) (*entities.LootDrop, error) {
	table, err := services.TableForActivity(activity, boxTier)
	if err != nil {
		return nil, err
	}
	var drop *entities.LootDrop
	err = a.withGuild(ctx, guildID, func(svc *guildServices) error {
		var err error
		drop, err = svc.loot.Acquire(ctx, discordID, table)
		return err
	})
	return drop, err
}

// Inventory lists the player's item stacks.
func (a *App) Inventory(ctx context.Context, guildID, discordID int64) ([]*entities.InventoryItem, error) {
	var items []*entities.InventoryItem
	err := a.withGuild(ctx, guildID, func(svc *guildServices) error {
		var err error
		items, err = svc.loot.Inventory(ctx, discordID)
		return err
	})
	return items, err
}

// SellItem sells count units of a named item, returning the proceeds.
func (a *App) SellItem(ctx context.Context, guildID, discordID int64, name string, count int) (int64, error) {
	var proceeds int64
	err := a.withGuild(ctx, guildID, func(svc *guildServices) error {
		var err error
		proceeds, err = svc.loot.SellItem(ctx, discordID, name, count)
		return err
	})
	return proceeds, err
}

// checkResolver enforces the resolver allowlist. An empty list allows anyone.
func checkResolver(resolverID int64) error {
	allowed := config.Get().ResolverDiscordIDs
	if len(allowed) == 0 {
		return nil
	}
	for _, id := range allowed {
		if id == resolverID {
			return nil
		}
	}
	return fmt.Errorf("%w: %d may not resolve bet events", entities.ErrUnauthorized, resolverID)
}
