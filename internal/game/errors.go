package game

import "errors"

// Error taxonomy for the engine. Every operation validates before mutating,
// so a returned error means no entity (shoe, round, bankroll) changed.
var (
	// ErrValidation covers malformed input: empty bet arrays, non-positive
	// amounts, bets exceeding the bankroll.
	ErrValidation = errors.New("validation error")

	// ErrIllegalAction is returned when an action is not in the current
	// set of available actions for the active hand.
	ErrIllegalAction = errors.New("illegal action")

	// ErrIllegalState is returned when a method is invoked while the round
	// is in an incompatible state.
	ErrIllegalState = errors.New("illegal state")
)
