// Package trainer composes the counter, the decision tracker, and the
// strategy oracle into a practice mode with a virtual bankroll that never
// touches real player funds.
package trainer

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/blackjacktrainer/internal/counting"
	"github.com/lox/blackjacktrainer/internal/deck"
	"github.com/lox/blackjacktrainer/internal/ev"
	"github.com/lox/blackjacktrainer/internal/game"
	"github.com/lox/blackjacktrainer/internal/rules"
	"github.com/lox/blackjacktrainer/internal/strategy"
	"github.com/lox/blackjacktrainer/internal/tracker"
)

// Difficulty sets how much counting the drills demand
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyRunningCount Difficulty = "running_count"
	DifficultyTrueCount    Difficulty = "true_count"
)

// requiresCounting reports whether drills at this difficulty attach count
// snapshots to recorded decisions.
func (d Difficulty) requiresCounting() bool {
	return d == DifficultyRunningCount || d == DifficultyTrueCount
}

// Config configures a training session
type Config struct {
	Difficulty      Difficulty
	Rules           *rules.RuleSet
	PracticeBalance float64
	Clock           quartz.Clock
	Logger          *log.Logger
}

// Trainer is the practice-mode facade. Its bankroll is virtual: plug it into
// a game with AddPlayerWithBankroll and settlement flows through practice
// funds while real accounts stay untouched.
type Trainer struct {
	difficulty Difficulty
	rules      *rules.RuleSet
	counter    *counting.HiLoCounter
	tracker    *tracker.DecisionTracker
	bankroll   *game.AccountBankroll
	logger     *log.Logger
	attached   bool
}

// New creates a trainer with a fresh counter, tracker, and virtual bankroll
func New(cfg Config) *Trainer {
	if cfg.Difficulty == "" {
		cfg.Difficulty = DifficultyBeginner
	}
	if cfg.Rules == nil {
		cfg.Rules = rules.Default()
	}
	if cfg.PracticeBalance <= 0 {
		cfg.PracticeBalance = 1000
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	return &Trainer{
		difficulty: cfg.Difficulty,
		rules:      cfg.Rules,
		counter:    counting.NewHiLoCounter(cfg.Rules.DeckCount(), cfg.Clock),
		tracker:    tracker.NewDecisionTracker(),
		bankroll:   game.NewAccountBankroll(cfg.PracticeBalance),
		logger:     cfg.Logger,
	}
}

// Difficulty returns the configured drill difficulty
func (t *Trainer) Difficulty() Difficulty { return t.difficulty }

// Bankroll returns the virtual practice bankroll
func (t *Trainer) Bankroll() game.Bankroll { return t.bankroll }

// PracticeBalance returns the current virtual balance
func (t *Trainer) PracticeBalance() float64 { return t.bankroll.Balance() }

// Counter returns the Hi-Lo counter feeding the drills
func (t *Trainer) Counter() *counting.HiLoCounter { return t.counter }

// Tracker returns the decision log
func (t *Trainer) Tracker() *tracker.DecisionTracker { return t.tracker }

// AttachTo subscribes the trainer to a game's events: dealt cards feed the
// counter, reshuffles reset it, and settlement flows through the virtual
// bankroll the game was given.
func (t *Trainer) AttachTo(g *game.Game) {
	t.attached = true
	g.Events().Subscribe(game.SubscriberFunc(func(e game.TimestampedEvent) {
		switch evt := e.Event.(type) {
		case game.CardDealtEvent:
			t.counter.AddCard(evt.Card)
		case game.ShoeShuffledEvent:
			t.counter.Reset()
		}
	}))
}

// ObserveCard feeds a visible card to the counter in standalone drills
func (t *Trainer) ObserveCard(card deck.Card) {
	t.counter.AddCard(card)
}

// ActionFeedback is the result of evaluating a player's action
type ActionFeedback struct {
	Correct       bool
	OptimalAction game.Action
	Explanation   string
	DecisionIndex int
}

// EvaluateAction scores an action against the strategy oracle and records
// the decision. A count snapshot is attached only when the difficulty
// requires counting.
func (t *Trainer) EvaluateAction(cards []deck.Card, handValue int, dealerUp deck.Card, actual game.Action, canDouble, canSplit, canSurrender bool) ActionFeedback {
	decision := strategy.Decide(cards, handValue, dealerUp, canDouble, canSplit, canSurrender)

	entry := tracker.PlayerDecision{
		Cards:         cards,
		HandValue:     handValue,
		DealerUp:      dealerUp,
		ActualAction:  actual,
		OptimalAction: decision.Action,
		Reason:        decision.Reason,
	}
	if t.difficulty.requiresCounting() {
		snapshot := t.counter.Snapshot()
		entry.Count = &snapshot
	}
	index := t.tracker.RecordDecision(entry)

	feedback := ActionFeedback{
		Correct:       actual == decision.Action,
		OptimalAction: decision.Action,
		DecisionIndex: index,
	}
	if feedback.Correct {
		feedback.Explanation = fmt.Sprintf("Correct: %s. %s", decision.Action, decision.Reason)
	} else {
		feedback.Explanation = fmt.Sprintf("The book play is %s, not %s. %s",
			decision.Action, actual, decision.Reason)
	}

	t.logger.Debug("evaluated action",
		"actual", actual,
		"optimal", decision.Action,
		"correct", feedback.Correct)
	return feedback
}

// CountFeedback is the result of a submitted count guess
type CountFeedback struct {
	Success        bool
	RunningCorrect bool
	TrueCorrect    bool
	Actual         counting.CountSnapshot
}

// SubmitCountGuess scores a count guess. Both counts must be correct for
// success only at true_count difficulty; otherwise the running count alone
// decides.
func (t *Trainer) SubmitCountGuess(runningGuess int, trueGuess *int) CountFeedback {
	record := t.counter.RecordGuess(runningGuess, trueGuess)

	feedback := CountFeedback{
		RunningCorrect: record.RunningCorrect,
		TrueCorrect:    record.TrueCorrect,
		Actual:         record.Actual,
	}
	if t.difficulty == DifficultyTrueCount {
		feedback.Success = record.RunningCorrect && trueGuess != nil && record.TrueCorrect
	} else {
		feedback.Success = record.RunningCorrect
	}
	return feedback
}

// UpdateHandOutcome back-fills a decision's settled outcome. In standalone
// drills (no attached game) it also applies the profit to the practice
// balance; when attached, settlement has already flowed through the virtual
// bankroll.
func (t *Trainer) UpdateHandOutcome(decisionIndex int, outcome game.Outcome, payout, profit float64) error {
	if err := t.tracker.UpdateOutcome(decisionIndex, outcome, payout, profit); err != nil {
		return err
	}
	if !t.attached {
		if profit >= 0 {
			t.bankroll.Credit(profit)
		} else if err := t.bankroll.Debit(-profit); err != nil {
			return err
		}
	}
	return nil
}

// Proficiency reports whether the recorded guesses meet the current
// difficulty's counting thresholds.
func (t *Trainer) Proficiency() bool {
	switch t.difficulty {
	case DifficultyRunningCount:
		return t.counter.MeetsProficiency(counting.ProficiencyRunningCount)
	case DifficultyTrueCount:
		return t.counter.MeetsProficiency(counting.ProficiencyTrueCount)
	default:
		return t.counter.MeetsProficiency(counting.ProficiencyBeginner)
	}
}

// Summary is a session-end report across all trainer components
type Summary struct {
	Difficulty           Difficulty
	Analysis             tracker.Analysis
	AccuracyByType       map[tracker.HandType]tracker.TypeAccuracy
	RunningCountAccuracy float64
	TrueCountAccuracy    float64
	OverallCountAccuracy float64
	Proficient           bool
	PracticeBalance      float64
	EV                   ev.Result
}

// Summarize builds the session-end report. wagered and actual describe the
// practice session's stakes and net result.
func (t *Trainer) Summarize(wagered, actual float64) Summary {
	analysis := t.tracker.Analysis()
	return Summary{
		Difficulty:           t.difficulty,
		Analysis:             analysis,
		AccuracyByType:       t.tracker.AccuracyByType(),
		RunningCountAccuracy: t.counter.RunningCountAccuracy(),
		TrueCountAccuracy:    t.counter.TrueCountAccuracy(),
		OverallCountAccuracy: t.counter.OverallAccuracy(),
		Proficient:           t.Proficiency(),
		PracticeBalance:      t.bankroll.Balance(),
		EV: ev.SessionEV(ev.SessionInput{
			Rules:            t.rules,
			TotalWagered:     wagered,
			ActualValue:      actual,
			StrategyAccuracy: analysis.AccuracyPercentage,
			AvgTrueCount:     0,
		}),
	}
}
