package trainer

import (
	"testing"

	"github.com/coder/quartz"
	"github.com/lox/blackjacktrainer/internal/deck"
	"github.com/lox/blackjacktrainer/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	tr := New(Config{})
	assert.Equal(t, DifficultyBeginner, tr.Difficulty())
	assert.Equal(t, 1000.0, tr.PracticeBalance())
}

func TestEvaluateAction(t *testing.T) {
	tr := New(Config{Clock: quartz.NewMock(t)})
	up := deck.NewCard(deck.Diamonds, deck.Six)

	fb := tr.EvaluateAction(deck.MustParseCards("Ts6h"), 16, up,
		game.ActionStand, true, false, true)
	assert.True(t, fb.Correct)
	assert.Equal(t, game.ActionStand, fb.OptimalAction)
	assert.Contains(t, fb.Explanation, "Correct")
	assert.Equal(t, 0, fb.DecisionIndex)

	fb = tr.EvaluateAction(deck.MustParseCards("Ts6h"), 16, up,
		game.ActionHit, true, false, true)
	assert.False(t, fb.Correct)
	assert.Equal(t, game.ActionStand, fb.OptimalAction)
	assert.Contains(t, fb.Explanation, "book play")
	assert.Equal(t, 1, fb.DecisionIndex)

	// Beginner drills do not attach count snapshots.
	decisions := tr.Tracker().Decisions()
	require.Len(t, decisions, 2)
	assert.Nil(t, decisions[0].Count)
}

func TestEvaluateActionAttachesCountAtHigherDifficulty(t *testing.T) {
	tr := New(Config{Difficulty: DifficultyRunningCount, Clock: quartz.NewMock(t)})
	tr.ObserveCard(deck.NewCard(deck.Spades, deck.Two))
	tr.ObserveCard(deck.NewCard(deck.Hearts, deck.Three))

	up := deck.NewCard(deck.Diamonds, deck.Ten)
	tr.EvaluateAction(deck.MustParseCards("6s5h"), 11, up, game.ActionDouble, true, false, false)

	decisions := tr.Tracker().Decisions()
	require.Len(t, decisions, 1)
	require.NotNil(t, decisions[0].Count)
	assert.Equal(t, 2, decisions[0].Count.RunningCount)
}

func TestSubmitCountGuess(t *testing.T) {
	tr := New(Config{Difficulty: DifficultyRunningCount, Clock: quartz.NewMock(t)})
	tr.ObserveCard(deck.NewCard(deck.Spades, deck.Five)) // running 1

	fb := tr.SubmitCountGuess(1, nil)
	assert.True(t, fb.Success)
	assert.True(t, fb.RunningCorrect)
	assert.Equal(t, 1, fb.Actual.RunningCount)

	fb = tr.SubmitCountGuess(3, nil)
	assert.False(t, fb.Success)
}

func TestSubmitCountGuessTrueCountDifficulty(t *testing.T) {
	tr := New(Config{Difficulty: DifficultyTrueCount, Clock: quartz.NewMock(t)})
	tr.ObserveCard(deck.NewCard(deck.Spades, deck.Five)) // running 1, true 0

	// Running alone is not enough at true_count difficulty.
	fb := tr.SubmitCountGuess(1, nil)
	assert.False(t, fb.Success)
	assert.True(t, fb.RunningCorrect)

	trueGuess := tr.Counter().TrueCount()
	fb = tr.SubmitCountGuess(1, &trueGuess)
	assert.True(t, fb.Success)

	wrongTrue := trueGuess + 2
	fb = tr.SubmitCountGuess(1, &wrongTrue)
	assert.False(t, fb.Success)
}

func TestUpdateHandOutcomeStandalone(t *testing.T) {
	tr := New(Config{PracticeBalance: 500, Clock: quartz.NewMock(t)})
	up := deck.NewCard(deck.Diamonds, deck.Six)

	fb := tr.EvaluateAction(deck.MustParseCards("Ts9h"), 19, up,
		game.ActionStand, true, false, true)
	require.NoError(t, tr.UpdateHandOutcome(fb.DecisionIndex, game.OutcomeWin, 200, 100))
	assert.Equal(t, 600.0, tr.PracticeBalance())

	fb = tr.EvaluateAction(deck.MustParseCards("Ts6h"), 16, up,
		game.ActionStand, true, false, true)
	require.NoError(t, tr.UpdateHandOutcome(fb.DecisionIndex, game.OutcomeLose, 0, -100))
	assert.Equal(t, 500.0, tr.PracticeBalance())

	assert.Error(t, tr.UpdateHandOutcome(99, game.OutcomeWin, 0, 0))
}

func TestAttachedTrainerFollowsGameSettlement(t *testing.T) {
	tr := New(Config{PracticeBalance: 1000, Clock: quartz.NewMock(t)})

	eng := game.New(game.Config{
		ShoeSource: func() *deck.Shoe {
			shoe, _ := deck.NewScenarioShoe(deck.ScenarioPlayerBlackjack, 6)
			return shoe
		},
	})
	player, err := eng.AddPlayerWithBankroll("student", tr.Bankroll())
	require.NoError(t, err)
	tr.AttachTo(eng)

	require.NoError(t, eng.StartRound([]game.Bet{{PlayerID: player.ID, Amount: 100}}))
	require.NoError(t, eng.CompleteRound())

	// Blackjack pays 3:2 straight into the virtual bankroll.
	assert.Equal(t, 1150.0, tr.PracticeBalance())
	// Player A K plus the dealer up card were counted: -1 -1 +0.
	assert.Equal(t, -2, tr.Counter().RunningCount())

	// Back-filling an attached decision must not double-apply the profit.
	fb := tr.EvaluateAction(deck.MustParseCards("AsKs"), 21, deck.NewCard(deck.Diamonds, deck.Nine),
		game.ActionStand, false, false, false)
	require.NoError(t, tr.UpdateHandOutcome(fb.DecisionIndex, game.OutcomeBlackjack, 250, 150))
	assert.Equal(t, 1150.0, tr.PracticeBalance())
}

func TestProficiency(t *testing.T) {
	tr := New(Config{Difficulty: DifficultyRunningCount, Clock: quartz.NewMock(t)})
	assert.False(t, tr.Proficiency())

	for i := 0; i < 20; i++ {
		tr.SubmitCountGuess(tr.Counter().RunningCount(), nil)
	}
	assert.True(t, tr.Proficiency())

	beginner := New(Config{Clock: quartz.NewMock(t)})
	assert.True(t, beginner.Proficiency())
}

func TestSummarize(t *testing.T) {
	tr := New(Config{Clock: quartz.NewMock(t)})
	up := deck.NewCard(deck.Diamonds, deck.Six)

	tr.EvaluateAction(deck.MustParseCards("Ts6h"), 16, up, game.ActionStand, true, false, true)
	tr.EvaluateAction(deck.MustParseCards("Ts6h"), 16, up, game.ActionHit, true, false, true)
	tr.SubmitCountGuess(0, nil)

	summary := tr.Summarize(1000, -50)
	assert.Equal(t, DifficultyBeginner, summary.Difficulty)
	assert.Equal(t, 2, summary.Analysis.TotalDecisions)
	assert.Equal(t, 1, summary.Analysis.CorrectDecisions)
	assert.InDelta(t, 50, summary.Analysis.AccuracyPercentage, 1e-9)
	assert.Equal(t, 100.0, summary.RunningCountAccuracy)
	assert.Equal(t, 1000.0, summary.PracticeBalance)

	// Edge: -0.5 base minus 1.5 for fifty accuracy points.
	assert.InDelta(t, -2.0, summary.EV.FinalEdge, 1e-9)
	assert.InDelta(t, -20, summary.EV.ExpectedValue, 1e-9)
	assert.InDelta(t, -30, summary.EV.Variance, 1e-9)
}
