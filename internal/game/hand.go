package game

import (
	"strings"

	"github.com/lox/blackjacktrainer/internal/deck"
)

// HandValue computes the blackjack value of a set of cards. Aces count as 11
// until the total would bust, then demote one at a time to 1. soft is true
// while at least one ace is still counted as 11 in the final total.
func HandValue(cards []deck.Card) (value int, soft bool) {
	aces := 0
	for _, c := range cards {
		value += c.Value()
		if c.IsAce() {
			aces++
		}
	}
	for value > 21 && aces > 0 {
		value -= 10
		aces--
	}
	return value, aces > 0
}

// HandState is the lifecycle state of a player hand. A hand is mutated only
// during its own turn and frozen once it leaves active.
type HandState string

const (
	HandActive      HandState = "active"
	HandBusted      HandState = "busted"
	HandStood       HandState = "stood"
	HandBlackjack   HandState = "blackjack"
	HandSurrendered HandState = "surrendered"
	HandWon         HandState = "won"
	HandLost        HandState = "lost"
	HandPushed      HandState = "pushed"
)

// NoSplit marks a hand that was dealt rather than created by a split
const NoSplit = -1

// PlayerHand is one player hand within a round. Splits create sibling hands
// that keep their position in turn order.
type PlayerHand struct {
	PlayerID string
	Cards    []deck.Card
	Bet      float64 // current main stake, doubled by a double down
	Staked   float64 // total debited for the main bet (bet + double)

	State            HandState
	InsuranceOffered bool
	HasInsurance     bool
	InsuranceBet     float64

	// FromSplit is the index of the hand this one was split from, or
	// NoSplit for an originally dealt hand. Both halves of a split carry
	// the split flag; only the new sibling gets a FromSplit lineage index.
	FromSplit int

	acted    bool // any action taken; double and surrender are first-action only
	split    bool // hand was involved in a split (either half)
	splitAce bool // hand holds an ace produced by splitting aces
	lineage  int  // index of the originally dealt hand this one descends from
}

func (h *PlayerHand) wasSplit() bool { return h.split }

// Value returns the current blackjack value of the hand
func (h *PlayerHand) Value() int {
	v, _ := HandValue(h.Cards)
	return v
}

// IsSoft returns true if an ace is still counted as 11
func (h *PlayerHand) IsSoft() bool {
	_, soft := HandValue(h.Cards)
	return soft
}

// IsBusted returns true if the hand value exceeds 21
func (h *PlayerHand) IsBusted() bool {
	return h.Value() > 21
}

// IsBlackjack returns true only for an originally dealt two-card 21.
// A 21 assembled after a split pays even money, not the blackjack premium.
func (h *PlayerHand) IsBlackjack() bool {
	return !h.split && len(h.Cards) == 2 && h.Value() == 21
}

// IsPair returns true for exactly two cards of equal blackjack value
func (h *PlayerHand) IsPair() bool {
	return len(h.Cards) == 2 && h.Cards[0].Value() == h.Cards[1].Value()
}

// Resolved returns true once the hand can take no further action this round
func (h *PlayerHand) Resolved() bool {
	return h.State != HandActive
}

func (h *PlayerHand) String() string {
	parts := make([]string, len(h.Cards))
	for i, c := range h.Cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// DealerHand is the dealer's hand with a face-down hole card until reveal
type DealerHand struct {
	Cards        []deck.Card
	HoleRevealed bool
}

// UpCard returns the dealer's face-up card
func (d *DealerHand) UpCard() deck.Card {
	return d.Cards[0]
}

// Value returns the dealer's full hand value
func (d *DealerHand) Value() int {
	v, _ := HandValue(d.Cards)
	return v
}

// IsSoft returns true if the dealer hand counts an ace as 11
func (d *DealerHand) IsSoft() bool {
	_, soft := HandValue(d.Cards)
	return soft
}

// IsBlackjack returns true for a dealer two-card natural
func (d *DealerHand) IsBlackjack() bool {
	return len(d.Cards) == 2 && d.Value() == 21
}

// VisibleCards returns the cards a player can see: everything once the hole
// card is revealed, otherwise just the up card.
func (d *DealerHand) VisibleCards() []deck.Card {
	if d.HoleRevealed {
		out := make([]deck.Card, len(d.Cards))
		copy(out, d.Cards)
		return out
	}
	if len(d.Cards) == 0 {
		return nil
	}
	return []deck.Card{d.Cards[0]}
}
