// Package strategy implements the basic strategy oracle: the mathematically
// optimal action for any hand against any dealer up card. The tables follow
// standard multi-deck basic strategy, consulted pair table first, then soft
// totals, then hard totals.
package strategy

import (
	"fmt"

	"github.com/lox/blackjacktrainer/internal/deck"
	"github.com/lox/blackjacktrainer/internal/game"
)

// Decision is the recommended action with a short justification
type Decision struct {
	Action game.Action
	Reason string
}

// Decide returns the optimal action for the hand against the dealer's up
// card, constrained to the actions actually available. It is a pure function
// of its arguments.
func Decide(cards []deck.Card, handValue int, dealerUp deck.Card, canDouble, canSplit, canSurrender bool) Decision {
	up := dealerUp.Value()

	if canSplit && len(cards) == 2 && cards[0].Value() == cards[1].Value() {
		if d, ok := pairDecision(cards[0], up); ok {
			return d
		}
	}

	_, soft := game.HandValue(cards)
	if soft {
		return softDecision(handValue, up, canDouble)
	}
	return hardDecision(handValue, up, canDouble, canSurrender)
}

// pairDecision consults the pair table. ok is false when the pair plays as a
// normal hand instead (fives, tens, and non-qualifying dealer cards that the
// table routes to the hard total).
func pairDecision(card deck.Card, up int) (Decision, bool) {
	split := func(reason string) (Decision, bool) {
		return Decision{Action: game.ActionSplit, Reason: reason}, true
	}

	switch {
	case card.IsAce():
		return split("always split aces: two chances at 21 beats one soft 12")
	case card.Rank == deck.Eight:
		return split("always split eights: 16 is the worst hand in blackjack")
	case card.Rank == deck.Five, card.IsTenValue():
		// Fives play as a hard 10, tens stay as 20.
		return Decision{}, false
	case card.Rank == deck.Nine:
		if (up >= 2 && up <= 6) || up == 8 || up == 9 {
			return split("split nines against a weak dealer card")
		}
		return Decision{Action: game.ActionStand, Reason: "18 is strong enough against this dealer card"}, true
	case card.Rank == deck.Seven:
		if up >= 2 && up <= 7 {
			return split("split sevens against dealer 2-7")
		}
		return Decision{}, false
	case card.Rank == deck.Six:
		if up >= 2 && up <= 6 {
			return split("split sixes against a dealer bust card")
		}
		return Decision{}, false
	case card.Rank == deck.Four:
		if up == 5 || up == 6 {
			return split("split fours only against dealer 5-6")
		}
		return Decision{}, false
	default: // twos and threes
		if up >= 2 && up <= 7 {
			return split("split low pairs against dealer 2-7")
		}
		return Decision{}, false
	}
}

// softDecision handles hands with an ace counted as 11
func softDecision(value, up int, canDouble bool) Decision {
	doubleOr := func(fallback game.Action, reason string) Decision {
		if canDouble {
			return Decision{Action: game.ActionDouble, Reason: reason}
		}
		return Decision{Action: fallback, Reason: reason}
	}

	switch {
	case value >= 19:
		return Decision{Action: game.ActionStand, Reason: "soft 19 or better always stands"}
	case value == 18:
		switch {
		case up >= 2 && up <= 6:
			return doubleOr(game.ActionStand, "soft 18 doubles against a dealer bust card")
		case up == 7 || up == 8:
			return Decision{Action: game.ActionStand, Reason: "soft 18 stands against dealer 7-8"}
		default:
			return Decision{Action: game.ActionHit, Reason: "soft 18 hits against dealer 9 through ace"}
		}
	case value == 17:
		if up >= 3 && up <= 6 {
			return doubleOr(game.ActionHit, "soft 17 doubles against dealer 3-6")
		}
		return Decision{Action: game.ActionHit, Reason: "soft 17 hits: it cannot bust and can only improve"}
	case value >= 15:
		if up >= 4 && up <= 6 {
			return doubleOr(game.ActionHit, "soft 15-16 doubles against dealer 4-6")
		}
		return Decision{Action: game.ActionHit, Reason: "soft 15-16 hits: drawing is free"}
	case value >= 13:
		if up == 5 || up == 6 {
			return doubleOr(game.ActionHit, "soft 13-14 doubles against dealer 5-6")
		}
		return Decision{Action: game.ActionHit, Reason: "soft 13-14 hits: drawing is free"}
	default:
		return Decision{Action: game.ActionHit, Reason: "soft 12 or less always hits"}
	}
}

// hardDecision handles hands with no ace counted as 11
func hardDecision(value, up int, canDouble, canSurrender bool) Decision {
	doubleOr := func(reason string) Decision {
		if canDouble {
			return Decision{Action: game.ActionDouble, Reason: reason}
		}
		return Decision{Action: game.ActionHit, Reason: reason}
	}

	switch {
	case value >= 17:
		return Decision{Action: game.ActionStand, Reason: "hard 17 or better always stands"}
	case value == 16:
		if canSurrender && up >= 9 {
			return Decision{Action: game.ActionSurrender, Reason: "16 against a strong dealer card loses more than half its bet"}
		}
		if up >= 7 {
			return Decision{Action: game.ActionHit, Reason: "16 hits against a strong dealer card"}
		}
		return Decision{Action: game.ActionStand, Reason: "16 stands against a dealer bust card"}
	case value == 15:
		if canSurrender && up == 10 {
			return Decision{Action: game.ActionSurrender, Reason: "15 against a ten loses more than half its bet"}
		}
		if up >= 7 {
			return Decision{Action: game.ActionHit, Reason: "15 hits against a strong dealer card"}
		}
		return Decision{Action: game.ActionStand, Reason: "15 stands against a dealer bust card"}
	case value >= 13:
		if up >= 7 {
			return Decision{Action: game.ActionHit, Reason: "13-14 hits against a strong dealer card"}
		}
		return Decision{Action: game.ActionStand, Reason: "13-14 stands against a dealer bust card"}
	case value == 12:
		if up >= 4 && up <= 6 {
			return Decision{Action: game.ActionStand, Reason: "12 stands only against dealer 4-6"}
		}
		return Decision{Action: game.ActionHit, Reason: "12 hits: only four ten-value ranks bust it"}
	case value == 11:
		return doubleOr("11 is the strongest doubling hand")
	case value == 10:
		if up <= 9 {
			return doubleOr("10 doubles when the dealer shows less")
		}
		return Decision{Action: game.ActionHit, Reason: "10 hits against a ten or ace"}
	case value == 9:
		if up >= 3 && up <= 6 {
			return doubleOr("9 doubles against dealer 3-6")
		}
		return Decision{Action: game.ActionHit, Reason: "9 hits outside dealer 3-6"}
	default:
		return Decision{Action: game.ActionHit, Reason: "8 or less always hits"}
	}
}

// Describe renders a decision for display
func (d Decision) String() string {
	return fmt.Sprintf("%s (%s)", d.Action, d.Reason)
}
