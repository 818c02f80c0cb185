// Package counting implements the Hi-Lo card counting system: +1 for 2-6,
// 0 for 7-9, -1 for tens and aces, with a practice mode that scores a
// player's count guesses against the true bookkeeping.
package counting

import (
	"math"
	"time"

	"github.com/coder/quartz"
	"github.com/lox/blackjacktrainer/internal/deck"
)

// DefaultMinGuesses is the minimum number of recorded guesses before a
// proficiency level can be assessed.
const DefaultMinGuesses = 20

// Proficiency is a counting skill level with accuracy thresholds
type Proficiency string

const (
	ProficiencyBeginner     Proficiency = "beginner"
	ProficiencyRunningCount Proficiency = "running_count"
	ProficiencyTrueCount    Proficiency = "true_count"
)

// CountSnapshot is an immutable point-in-time capture of the count
type CountSnapshot struct {
	RunningCount   int
	TrueCount      int
	CardsRemaining int
	DecksRemaining float64
	Timestamp      time.Time
}

// GuessRecord is one practice guess scored against the actual count
type GuessRecord struct {
	GuessedRunning int
	GuessedTrue    *int // nil when the player guessed only the running count
	Actual         CountSnapshot
	RunningCorrect bool
	TrueCorrect    bool
}

// HiLoCounter tracks the running and true count for a shoe. It is stateful
// and single-writer, fed one card at a time as cards become visible.
type HiLoCounter struct {
	deckCount    int
	runningCount int
	cardsDealt   int
	guesses      []GuessRecord
	clock        quartz.Clock
	minGuesses   int
}

// NewHiLoCounter creates a counter for a shoe of deckCount decks
func NewHiLoCounter(deckCount int, clock quartz.Clock) *HiLoCounter {
	if deckCount < 1 {
		deckCount = 1
	}
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &HiLoCounter{
		deckCount:  deckCount,
		clock:      clock,
		minGuesses: DefaultMinGuesses,
	}
}

// AddCard feeds one visible card into the count
func (c *HiLoCounter) AddCard(card deck.Card) {
	c.runningCount += card.Rank.CountValue()
	c.cardsDealt++
}

// AddCards feeds a sequence of visible cards into the count
func (c *HiLoCounter) AddCards(cards ...deck.Card) {
	for _, card := range cards {
		c.AddCard(card)
	}
}

// RunningCount returns the cumulative Hi-Lo total of dealt cards
func (c *HiLoCounter) RunningCount() int {
	return c.runningCount
}

// CardsRemaining returns the undealt cards in the shoe being counted
func (c *HiLoCounter) CardsRemaining() int {
	remaining := c.deckCount*52 - c.cardsDealt
	if remaining < 0 {
		return 0
	}
	return remaining
}

// DecksRemaining returns the undealt decks, floored at half a deck so the
// true count divisor never explodes at the back of the shoe.
func (c *HiLoCounter) DecksRemaining() float64 {
	return math.Max(0.5, float64(c.CardsRemaining())/52)
}

// TrueCount returns the running count normalised by decks remaining
func (c *HiLoCounter) TrueCount() int {
	return int(math.Round(float64(c.runningCount) / c.DecksRemaining()))
}

// Snapshot captures the current count state
func (c *HiLoCounter) Snapshot() CountSnapshot {
	return CountSnapshot{
		RunningCount:   c.runningCount,
		TrueCount:      c.TrueCount(),
		CardsRemaining: c.CardsRemaining(),
		DecksRemaining: c.DecksRemaining(),
		Timestamp:      c.clock.Now(),
	}
}

// RecordGuess scores a practice guess against the current count. The true
// count guess is optional; pass nil when the player only tracks the running
// count.
func (c *HiLoCounter) RecordGuess(runningGuess int, trueGuess *int) GuessRecord {
	snapshot := c.Snapshot()
	record := GuessRecord{
		GuessedRunning: runningGuess,
		GuessedTrue:    trueGuess,
		Actual:         snapshot,
		RunningCorrect: runningGuess == snapshot.RunningCount,
	}
	if trueGuess != nil {
		record.TrueCorrect = *trueGuess == snapshot.TrueCount
	}
	c.guesses = append(c.guesses, record)
	return record
}

// Guesses returns the recorded practice guesses
func (c *HiLoCounter) Guesses() []GuessRecord {
	out := make([]GuessRecord, len(c.guesses))
	copy(out, c.guesses)
	return out
}

// RunningCountAccuracy returns correct running-count guesses over total
// guesses, as a percentage.
func (c *HiLoCounter) RunningCountAccuracy() float64 {
	if len(c.guesses) == 0 {
		return 0
	}
	correct := 0
	for _, g := range c.guesses {
		if g.RunningCorrect {
			correct++
		}
	}
	return float64(correct) / float64(len(c.guesses)) * 100
}

// TrueCountAccuracy returns correct true-count guesses over the guesses
// that included one, as a percentage.
func (c *HiLoCounter) TrueCountAccuracy() float64 {
	total, correct := 0, 0
	for _, g := range c.guesses {
		if g.GuessedTrue == nil {
			continue
		}
		total++
		if g.TrueCorrect {
			correct++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}

// OverallAccuracy treats the running count and (when present) the true
// count of each guess as independent checks.
func (c *HiLoCounter) OverallAccuracy() float64 {
	total, correct := 0, 0
	for _, g := range c.guesses {
		total++
		if g.RunningCorrect {
			correct++
		}
		if g.GuessedTrue != nil {
			total++
			if g.TrueCorrect {
				correct++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}

// MeetsProficiency reports whether the recorded guesses satisfy the level's
// accuracy thresholds. All levels except beginner require at least
// DefaultMinGuesses guesses.
func (c *HiLoCounter) MeetsProficiency(level Proficiency) bool {
	switch level {
	case ProficiencyBeginner:
		return true
	case ProficiencyRunningCount:
		return len(c.guesses) >= c.minGuesses && c.RunningCountAccuracy() >= 85
	case ProficiencyTrueCount:
		return len(c.guesses) >= c.minGuesses &&
			c.RunningCountAccuracy() >= 90 && c.TrueCountAccuracy() >= 85
	default:
		return false
	}
}

// Reset clears the count for a fresh shoe but preserves guess history
func (c *HiLoCounter) Reset() {
	c.runningCount = 0
	c.cardsDealt = 0
}

// ResetAll clears the count and the guess history
func (c *HiLoCounter) ResetAll() {
	c.Reset()
	c.guesses = nil
}
