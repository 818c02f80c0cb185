package tracker

import (
	"testing"

	"github.com/lox/blackjacktrainer/internal/deck"
	"github.com/lox/blackjacktrainer/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decision(cards string, value int, actual, optimal game.Action) PlayerDecision {
	return PlayerDecision{
		Cards:         deck.MustParseCards(cards),
		HandValue:     value,
		DealerUp:      deck.NewCard(deck.Diamonds, deck.Six),
		ActualAction:  actual,
		OptimalAction: optimal,
	}
}

func TestRecordDecision(t *testing.T) {
	tr := NewDecisionTracker()

	i := tr.RecordDecision(decision("Ts6h", 16, game.ActionStand, game.ActionStand))
	j := tr.RecordDecision(decision("Ts6h", 16, game.ActionHit, game.ActionStand))
	assert.Equal(t, 0, i)
	assert.Equal(t, 1, j)

	decisions := tr.Decisions()
	require.Len(t, decisions, 2)
	assert.True(t, decisions[0].IsCorrect)
	assert.False(t, decisions[1].IsCorrect)
}

func TestUpdateOutcome(t *testing.T) {
	tr := NewDecisionTracker()
	i := tr.RecordDecision(decision("Ts9h", 19, game.ActionStand, game.ActionStand))

	require.NoError(t, tr.UpdateOutcome(i, game.OutcomeWin, 200, 100))
	d := tr.Decisions()[i]
	require.NotNil(t, d.Outcome)
	assert.Equal(t, game.OutcomeWin, *d.Outcome)
	assert.Equal(t, 200.0, d.Payout)
	assert.Equal(t, 100.0, d.Profit)

	assert.Error(t, tr.UpdateOutcome(5, game.OutcomeWin, 0, 0))
	assert.Error(t, tr.UpdateOutcome(-1, game.OutcomeWin, 0, 0))
}

func TestAnalysisGrades(t *testing.T) {
	tests := []struct {
		name    string
		correct int
		total   int
		grade   string
		points  float64
	}{
		{"perfect", 50, 50, "A+", 4.3},
		{"a grade", 47, 50, "A", 4.0},
		{"a minus", 45, 50, "A-", 3.7},
		{"b grade", 42, 50, "B", 3.0},
		{"c grade", 37, 50, "C", 2.0},
		{"d grade", 31, 50, "D", 1.0},
		{"failing", 25, 50, "F", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewDecisionTracker()
			for i := 0; i < tt.total; i++ {
				actual := game.ActionStand
				if i >= tt.correct {
					actual = game.ActionHit
				}
				tr.RecordDecision(decision("Ts6h", 16, actual, game.ActionStand))
			}
			a := tr.Analysis()
			assert.Equal(t, tt.total, a.TotalDecisions)
			assert.Equal(t, tt.correct, a.CorrectDecisions)
			assert.Equal(t, tt.grade, a.LetterGrade)
			assert.Equal(t, tt.points, a.GradePoints)
		})
	}
}

func TestAnalysisEmpty(t *testing.T) {
	a := NewDecisionTracker().Analysis()
	assert.Equal(t, 0, a.TotalDecisions)
	assert.Equal(t, 0.0, a.AccuracyPercentage)
	assert.Equal(t, "F", a.LetterGrade)
}

func TestAccuracyByType(t *testing.T) {
	tr := NewDecisionTracker()

	// Pair: two equal-value cards.
	tr.RecordDecision(decision("8s8h", 16, game.ActionSplit, game.ActionSplit))
	tr.RecordDecision(decision("TsKh", 20, game.ActionStand, game.ActionStand))
	// Soft: ace still counted as 11.
	tr.RecordDecision(decision("As7h", 18, game.ActionHit, game.ActionStand))
	// Hard: no live ace, including a hardened ace hand.
	tr.RecordDecision(decision("Ts6h", 16, game.ActionStand, game.ActionStand))
	tr.RecordDecision(decision("As5hTd", 16, game.ActionStand, game.ActionStand))

	buckets := tr.AccuracyByType()
	assert.Equal(t, TypeAccuracy{Total: 2, Correct: 2, Accuracy: 100}, buckets[HandTypePair])
	assert.Equal(t, TypeAccuracy{Total: 1, Correct: 0, Accuracy: 0}, buckets[HandTypeSoft])
	assert.Equal(t, TypeAccuracy{Total: 2, Correct: 2, Accuracy: 100}, buckets[HandTypeHard])
}

func TestReset(t *testing.T) {
	tr := NewDecisionTracker()
	tr.RecordDecision(decision("Ts6h", 16, game.ActionStand, game.ActionStand))
	tr.Reset()
	assert.Empty(t, tr.Decisions())
}
