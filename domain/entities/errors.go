package entities

import "errors"

// Sentinel errors returned by the economy core. Callers match with errors.Is;
// lower layers wrap them with context via fmt.Errorf and %w.
var (
	// ErrInsufficientFunds is returned when a debit would take a wallet below zero.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidWager is returned for malformed bet types, non-positive amounts,
	// or options outside an event's option set.
	ErrInvalidWager = errors.New("invalid wager")

	// ErrNotFound is returned when a wallet, event, or session does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyResolved is returned when resolving or refunding an event that
	// is already in a terminal state.
	ErrAlreadyResolved = errors.New("event already resolved or refunded")

	// ErrAlreadyTerminal is returned when acting on a finished blackjack session.
	ErrAlreadyTerminal = errors.New("session already terminal")

	// ErrInvalidAction is returned when a blackjack action is not legal in the
	// session's current state.
	ErrInvalidAction = errors.New("invalid action for current state")

	// ErrUnauthorized is returned when a caller lacks permission for an
	// administrative operation such as resolving a bet event.
	ErrUnauthorized = errors.New("unauthorized")
)
