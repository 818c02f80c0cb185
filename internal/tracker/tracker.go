// Package tracker records player decisions against the strategy oracle and
// grades play accuracy over a session.
package tracker

import (
	"fmt"

	"github.com/lox/blackjacktrainer/internal/counting"
	"github.com/lox/blackjacktrainer/internal/deck"
	"github.com/lox/blackjacktrainer/internal/game"
)

// HandType classifies a decision's hand for per-bucket accuracy
type HandType string

const (
	HandTypeHard HandType = "hard"
	HandTypeSoft HandType = "soft"
	HandTypePair HandType = "pair"
)

// PlayerDecision is one append-only decision log entry. Only the outcome
// fields are back-filled, at settlement.
type PlayerDecision struct {
	Cards         []deck.Card
	HandValue     int
	DealerUp      deck.Card
	ActualAction  game.Action
	OptimalAction game.Action
	Reason        string
	IsCorrect     bool

	// Back-filled at settlement.
	Outcome *game.Outcome
	Payout  float64
	Profit  float64

	// Attached only when the drill requires counting.
	Count *counting.CountSnapshot
}

// Analysis summarises a session's decision accuracy
type Analysis struct {
	TotalDecisions     int
	CorrectDecisions   int
	AccuracyPercentage float64
	LetterGrade        string
	GradePoints        float64
}

// TypeAccuracy is per-bucket accuracy for one hand type
type TypeAccuracy struct {
	Total    int
	Correct  int
	Accuracy float64
}

// DecisionTracker accumulates decisions and derives accuracy metrics
type DecisionTracker struct {
	decisions []PlayerDecision
}

// NewDecisionTracker creates an empty tracker
func NewDecisionTracker() *DecisionTracker {
	return &DecisionTracker{}
}

// RecordDecision appends a decision, marking it correct when the actual
// action matches the optimal one. It returns the index for outcome
// back-filling.
func (t *DecisionTracker) RecordDecision(d PlayerDecision) int {
	d.IsCorrect = d.ActualAction == d.OptimalAction
	t.decisions = append(t.decisions, d)
	return len(t.decisions) - 1
}

// UpdateOutcome back-fills the settled outcome for a recorded decision
func (t *DecisionTracker) UpdateOutcome(index int, outcome game.Outcome, payout, profit float64) error {
	if index < 0 || index >= len(t.decisions) {
		return fmt.Errorf("no decision at index %d", index)
	}
	t.decisions[index].Outcome = &outcome
	t.decisions[index].Payout = payout
	t.decisions[index].Profit = profit
	return nil
}

// Decisions returns the recorded decisions in order
func (t *DecisionTracker) Decisions() []PlayerDecision {
	out := make([]PlayerDecision, len(t.decisions))
	copy(out, t.decisions)
	return out
}

// Analysis computes totals, accuracy, and the letter grade
func (t *DecisionTracker) Analysis() Analysis {
	a := Analysis{TotalDecisions: len(t.decisions)}
	for _, d := range t.decisions {
		if d.IsCorrect {
			a.CorrectDecisions++
		}
	}
	if a.TotalDecisions > 0 {
		a.AccuracyPercentage = float64(a.CorrectDecisions) / float64(a.TotalDecisions) * 100
	}
	a.LetterGrade, a.GradePoints = gradeFor(a.AccuracyPercentage)
	return a
}

// gradeFor maps an accuracy percentage to a letter grade and GPA points
func gradeFor(accuracy float64) (string, float64) {
	switch {
	case accuracy >= 98:
		return "A+", 4.3
	case accuracy >= 93:
		return "A", 4.0
	case accuracy >= 90:
		return "A-", 3.7
	case accuracy >= 87:
		return "B+", 3.3
	case accuracy >= 83:
		return "B", 3.0
	case accuracy >= 80:
		return "B-", 2.7
	case accuracy >= 77:
		return "C+", 2.3
	case accuracy >= 73:
		return "C", 2.0
	case accuracy >= 70:
		return "C-", 1.7
	case accuracy >= 67:
		return "D+", 1.3
	case accuracy >= 60:
		return "D", 1.0
	default:
		return "F", 0.0
	}
}

// AccuracyByType reclassifies each decision as hard, soft, or pair and
// reports per-bucket accuracy. Empty buckets report zero.
func (t *DecisionTracker) AccuracyByType() map[HandType]TypeAccuracy {
	buckets := map[HandType]TypeAccuracy{
		HandTypeHard: {},
		HandTypeSoft: {},
		HandTypePair: {},
	}
	for _, d := range t.decisions {
		ht := classify(d)
		b := buckets[ht]
		b.Total++
		if d.IsCorrect {
			b.Correct++
		}
		buckets[ht] = b
	}
	for ht, b := range buckets {
		if b.Total > 0 {
			b.Accuracy = float64(b.Correct) / float64(b.Total) * 100
			buckets[ht] = b
		}
	}
	return buckets
}

// classify buckets a decision: a two-card equal-value hand is a pair; a hand
// whose ace is still worth 11 in the recorded value is soft; the rest are
// hard.
func classify(d PlayerDecision) HandType {
	if len(d.Cards) == 2 && d.Cards[0].Value() == d.Cards[1].Value() {
		return HandTypePair
	}
	hardTotal := 0
	hasAce := false
	for _, c := range d.Cards {
		if c.IsAce() {
			hasAce = true
			hardTotal++
		} else {
			hardTotal += c.Value()
		}
	}
	if hasAce && hardTotal+10 == d.HandValue {
		return HandTypeSoft
	}
	return HandTypeHard
}

// Reset clears the decision log
func (t *DecisionTracker) Reset() {
	t.decisions = nil
}
