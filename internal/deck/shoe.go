package deck

import (
	"errors"
	"fmt"
	"math"
	rand "math/rand/v2"
)

// ErrShoeExhausted is returned when a draw is requested from an empty shoe.
// Cut-card discipline reshuffles between rounds, so hitting this mid-hand
// is a programmer error rather than a recoverable condition.
var ErrShoeExhausted = errors.New("shoe exhausted")

// DefaultPenetration is the fraction of the shoe dealt before a reshuffle
// becomes due.
const DefaultPenetration = 0.75

// Shoe represents one or more shuffled decks dealt sequentially until the
// cut card is reached.
type Shoe struct {
	cards       []Card
	discards    []Card
	deckCount   int
	penetration float64
	cutCard     int // remaining-card count at which the shoe is complete
	rng         *rand.Rand
	fixed       []Card // non-nil for scenario shoes with a scripted order
}

// NewShoe builds a shuffled shoe of deckCount decks. The cut card is placed
// once per shuffle and never recomputed mid-shoe.
func NewShoe(rng *rand.Rand, deckCount int, penetration float64) *Shoe {
	if deckCount < 1 {
		deckCount = 1
	}
	if penetration <= 0 || penetration >= 1 {
		penetration = DefaultPenetration
	}
	s := &Shoe{
		deckCount:   deckCount,
		penetration: penetration,
		rng:         rng,
	}
	s.build()
	return s
}

// NewFixedShoe builds a shoe with a known card order for deterministic play.
// Reshuffling restores the same order.
func NewFixedShoe(cards []Card, deckCount int, penetration float64) *Shoe {
	if penetration <= 0 || penetration >= 1 {
		penetration = DefaultPenetration
	}
	s := &Shoe{
		deckCount:   deckCount,
		penetration: penetration,
		fixed:       make([]Card, len(cards)),
	}
	copy(s.fixed, cards)
	s.build()
	return s
}

func (s *Shoe) build() {
	if s.fixed != nil {
		s.cards = make([]Card, len(s.fixed))
		copy(s.cards, s.fixed)
		s.discards = s.discards[:0]
		s.cutCard = int(math.Round(float64(len(s.fixed)) * (1 - s.penetration)))
		return
	}
	total := s.deckCount * 52
	s.cards = make([]Card, 0, total)
	for d := 0; d < s.deckCount; d++ {
		for suit := Spades; suit <= Clubs; suit++ {
			for rank := Two; rank <= Ace; rank++ {
				s.cards = append(s.cards, NewCard(suit, rank))
			}
		}
	}
	s.shuffle()
	s.discards = s.discards[:0]
	s.cutCard = int(math.Round(float64(total) * (1 - s.penetration)))
}

// shuffle is a Fisher-Yates shuffle over the remaining cards.
func (s *Shoe) shuffle() {
	for i := len(s.cards) - 1; i > 0; i-- {
		j := s.rng.IntN(i + 1)
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	}
}

// Draw removes and returns the front card
func (s *Shoe) Draw() (Card, error) {
	if len(s.cards) == 0 {
		return Card{}, fmt.Errorf("draw from empty shoe: %w", ErrShoeExhausted)
	}
	card := s.cards[0]
	s.cards = s.cards[1:]
	return card, nil
}

// IsComplete returns true once the cut card has been reached and the shoe
// must be reshuffled before the next round.
func (s *Shoe) IsComplete() bool {
	return len(s.cards) <= s.cutCard
}

// Discard appends cards to the discard pile. The pile exists for display and
// counting purposes only and never affects draw order.
func (s *Shoe) Discard(cards ...Card) {
	s.discards = append(s.discards, cards...)
}

// Reshuffle rebuilds a fresh shoe and clears the discard pile
func (s *Shoe) Reshuffle() {
	s.build()
}

// CardsRemaining returns the number of undealt cards
func (s *Shoe) CardsRemaining() int {
	return len(s.cards)
}

// Discards returns a copy of the discard pile
func (s *Shoe) Discards() []Card {
	out := make([]Card, len(s.discards))
	copy(out, s.discards)
	return out
}

// DeckCount returns the number of decks the shoe was built from
func (s *Shoe) DeckCount() int {
	return s.deckCount
}

// Penetration returns the configured penetration fraction
func (s *Shoe) Penetration() float64 {
	return s.penetration
}

// CutCardPosition returns the remaining-card count at which the shoe
// becomes complete.
func (s *Shoe) CutCardPosition() int {
	return s.cutCard
}

// DecksRemaining estimates the number of undealt decks
func (s *Shoe) DecksRemaining() float64 {
	return float64(len(s.cards)) / 52
}
