package tui

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/lox/blackjacktrainer/internal/deck"
	"github.com/lox/blackjacktrainer/internal/ev"
	"github.com/lox/blackjacktrainer/internal/game"
	"github.com/lox/blackjacktrainer/internal/trainer"
)

// Bridge connects the table model to the game engine: engine events become
// log entries, and user input becomes engine actions. In trainer mode every
// decision is scored and count drills run between rounds.
type Bridge struct {
	game    *game.Game
	trainer *trainer.Trainer // nil in plain play mode
	model   *Model
	program *tea.Program
	player  *game.Player
	logger  *log.Logger

	defaultBet      float64
	countGuessEvery int
	roundsPlayed    int
	netResult       float64
}

// NewBridge wires the model to a game with one seated player. Pass a trainer
// to score decisions and run count drills; pass nil for a plain game.
func NewBridge(g *game.Game, tr *trainer.Trainer, model *Model, player *game.Player, defaultBet float64, logger *log.Logger) *Bridge {
	b := &Bridge{
		game:            g,
		trainer:         tr,
		model:           model,
		player:          player,
		logger:          logger.WithPrefix("bridge"),
		defaultBet:      defaultBet,
		countGuessEvery: 3,
	}
	b.subscribeEvents()
	return b
}

// subscribeEvents turns engine events into table log entries
func (b *Bridge) subscribeEvents() {
	b.game.Events().Subscribe(game.SubscriberFunc(func(e game.TimestampedEvent) {
		switch evt := e.Event.(type) {
		case game.CardDealtEvent:
			who := "You"
			if evt.Dealer {
				who = "Dealer"
			}
			b.model.AddLogEntry(fmt.Sprintf("%s: %s", who, b.model.FormatCards([]deck.Card{evt.Card})))
		case game.InsuranceResolvedEvent:
			if evt.DealerBlackjack {
				b.model.AddLogEntry(ErrorStyle.Render("Dealer has blackjack"))
			} else {
				b.model.AddLogEntry(InfoStyle.Render("Dealer does not have blackjack"))
			}
		case game.ShoeShuffledEvent:
			b.model.AddLogEntry(InfoStyle.Render(
				fmt.Sprintf("Cut card reached, shuffling %d decks", evt.DeckCount)))
		}
	}))
}

// Start starts the Bubble Tea program in the background
func (b *Bridge) Start() error {
	b.program = tea.NewProgram(b.model, tea.WithAltScreen())
	go func() {
		if _, err := b.program.Run(); err != nil {
			b.logger.Error("tui program failed", "error", err)
		}
	}()
	return nil
}

// Close quits the Bubble Tea program and restores the terminal
func (b *Bridge) Close() error {
	if b.program != nil {
		b.model.SendQuitSignal()
		b.program.Quit()
		b.program.Wait()
	}
	return nil
}

// Run plays rounds until the player quits or goes broke
func (b *Bridge) Run() error {
	b.model.AddLogEntry(HeaderStyle.Render(" Blackjack "))
	b.model.AddLogEntry(InfoStyle.Render(b.game.Rules().String()))
	b.model.AddLogEntry("")

	for {
		b.refreshSidebar()
		b.model.UpdateBalance(b.player.Balance())
		b.model.UpdateBet(0)

		if b.player.Balance() < b.defaultBet {
			b.model.AddLogEntry(ErrorStyle.Render("Bankroll exhausted"))
			return b.finish()
		}

		bet, quit := b.promptBet()
		if quit {
			return b.finish()
		}
		if bet <= 0 {
			continue
		}

		if err := b.playRound(bet); err != nil {
			if strings.Contains(err.Error(), "quit") {
				return b.finish()
			}
			b.model.AddLogEntry(ErrorStyle.Render(err.Error()))
			continue
		}

		if b.trainer != nil && b.roundsPlayed%b.countGuessEvery == 0 {
			b.runCountDrill()
		}
	}
}

// promptBet asks for the next bet. A bare enter repeats the default bet.
func (b *Bridge) promptBet() (bet float64, quit bool) {
	b.model.SetPrompt(fmt.Sprintf("Bet amount (enter for $%.0f, 'quit' to leave)", b.defaultBet))
	for {
		action, _, cont, _ := b.model.WaitForAction()
		if !cont || action == "quit" || action == "q" {
			return 0, true
		}
		if action == "" {
			return b.defaultBet, false
		}
		amount, err := strconv.ParseFloat(action, 64)
		if err != nil || amount <= 0 {
			b.model.AddLogEntry(ErrorStyle.Render(fmt.Sprintf("Invalid bet: %s", action)))
			continue
		}
		return amount, false
	}
}

// playRound runs a full round: deal, insurance, decisions, settlement
func (b *Bridge) playRound(bet float64) error {
	if err := b.game.StartRound([]game.Bet{{PlayerID: b.player.ID, Amount: bet}}); err != nil {
		return err
	}
	b.model.UpdateBet(bet)
	round := b.game.CurrentRound()

	// decisionsByHand maps hand index to recorded trainer decisions so
	// outcomes can be back-filled after settlement.
	decisionsByHand := make(map[int][]int)

	if round.State() == game.RoundInsurance {
		if err := b.handleInsurance(round); err != nil {
			return err
		}
	}

	for round.State() == game.RoundPlayerTurn {
		if err := b.handleDecision(round, decisionsByHand); err != nil {
			return err
		}
	}
	b.model.ClearPlayerTurn()

	b.logResults(round, decisionsByHand)
	b.roundsPlayed++
	return b.game.CompleteRound()
}

// handleInsurance prompts for insurance on each offered hand
func (b *Bridge) handleInsurance(round *game.Round) error {
	b.model.AddLogEntry(WarningStyle.Render("Dealer shows an ace"))
	for i, h := range round.Hands {
		if !h.InsuranceOffered {
			continue
		}
		b.model.SetPrompt(fmt.Sprintf("Insurance for $%.2f? (y/n)", h.Bet/2))
		for {
			action, _, cont, _ := b.model.WaitForAction()
			if !cont || action == "quit" {
				return fmt.Errorf("quit")
			}
			if action == "y" || action == "yes" {
				if err := b.game.TakeInsurance(i); err != nil {
					b.model.AddLogEntry(ErrorStyle.Render(err.Error()))
					continue
				}
				break
			}
			if action == "n" || action == "no" || action == "" {
				if err := b.game.DeclineInsurance(i); err != nil {
					return err
				}
				break
			}
			b.model.AddLogEntry(ErrorStyle.Render("Answer y or n"))
		}
	}
	return b.game.ResolveInsurance()
}

// handleDecision plays one decision on the active hand
func (b *Bridge) handleDecision(round *game.Round, decisionsByHand map[int][]int) error {
	hand := round.CurrentHand()
	handIndex := round.CurrentHandIndex()
	actions := b.game.AvailableActions()
	dealerUp := round.Dealer.UpCard()

	b.model.SetPlayerTurn(hand.Cards, hand.Value(), hand.IsSoft(), &dealerUp, actions)
	b.model.SetPrompt("Your action")

	for {
		input, _, cont, _ := b.model.WaitForAction()
		if !cont || input == "quit" {
			return fmt.Errorf("quit")
		}
		action, ok := parseAction(input)
		if !ok {
			b.model.AddLogEntry(ErrorStyle.Render(fmt.Sprintf("Unknown action: %s", input)))
			continue
		}

		if b.trainer != nil {
			feedback := b.trainer.EvaluateAction(
				hand.Cards, hand.Value(), dealerUp, action,
				slices.Contains(actions, game.ActionDouble),
				slices.Contains(actions, game.ActionSplit),
				slices.Contains(actions, game.ActionSurrender),
			)
			decisionsByHand[handIndex] = append(decisionsByHand[handIndex], feedback.DecisionIndex)
			if feedback.Correct {
				b.model.AddLogEntry(SuccessStyle.Render("✓ " + feedback.Explanation))
			} else {
				b.model.AddLogEntry(WarningStyle.Render("✗ " + feedback.Explanation))
			}
		}

		if err := b.game.PlayAction(action); err != nil {
			b.model.AddLogEntry(ErrorStyle.Render(err.Error()))
			continue
		}
		return nil
	}
}

// logResults writes settlement results to the log and back-fills trainer
// decisions with their outcomes.
func (b *Bridge) logResults(round *game.Round, decisionsByHand map[int][]int) {
	b.model.AddLogEntry(DealerStyle.Render(fmt.Sprintf("Dealer: %s (%d)",
		b.model.FormatCards(round.Dealer.Cards), round.Dealer.Value())))

	for _, result := range round.Results() {
		hand := round.Hands[result.HandIndex]
		net := result.Profit + result.InsuranceProfit
		b.netResult += net

		line := fmt.Sprintf("Hand %s (%d): %s $%+.2f",
			b.model.FormatCards(hand.Cards), hand.Value(), result.Outcome, net)
		switch result.Outcome {
		case game.OutcomeWin, game.OutcomeBlackjack:
			b.model.AddLogEntry(SuccessStyle.Render(line))
		case game.OutcomePush:
			b.model.AddLogEntry(InfoStyle.Render(line))
		default:
			b.model.AddLogEntry(ErrorStyle.Render(line))
		}

		if b.trainer != nil {
			for _, idx := range decisionsByHand[result.HandIndex] {
				if err := b.trainer.UpdateHandOutcome(idx, result.Outcome, result.Payout, result.Profit); err != nil {
					b.logger.Warn("failed to update outcome", "error", err)
				}
			}
		}
	}
	b.model.AddLogEntry("")
	b.model.UpdateBalance(b.player.Balance())
}

// runCountDrill asks for the running count, and the true count at the
// hardest difficulty, then logs the verdict.
func (b *Bridge) runCountDrill() {
	b.model.SetPrompt("Running count?")
	running, quit := b.promptInt()
	if quit {
		return
	}

	var truePtr *int
	if b.trainer.Difficulty() == trainer.DifficultyTrueCount {
		b.model.SetPrompt("True count?")
		tc, quit := b.promptInt()
		if quit {
			return
		}
		truePtr = &tc
	}

	feedback := b.trainer.SubmitCountGuess(running, truePtr)
	if feedback.Success {
		b.model.AddLogEntry(SuccessStyle.Render(fmt.Sprintf(
			"✓ Count correct (running %d, true %d)",
			feedback.Actual.RunningCount, feedback.Actual.TrueCount)))
	} else {
		b.model.AddLogEntry(WarningStyle.Render(fmt.Sprintf(
			"✗ Count is running %d, true %d",
			feedback.Actual.RunningCount, feedback.Actual.TrueCount)))
	}
}

// promptInt reads one integer from the input
func (b *Bridge) promptInt() (value int, quit bool) {
	for {
		action, _, cont, _ := b.model.WaitForAction()
		if !cont || action == "quit" {
			return 0, true
		}
		n, err := strconv.Atoi(action)
		if err != nil {
			b.model.AddLogEntry(ErrorStyle.Render(fmt.Sprintf("Not a number: %s", action)))
			continue
		}
		return n, false
	}
}

// refreshSidebar pushes shoe state, session stats, and trainer progress
func (b *Bridge) refreshSidebar() {
	shoe := b.game.Shoe()
	stats := b.game.Stats()

	lines := []string{
		fmt.Sprintf("Shoe: %.1f decks left", shoe.DecksRemaining()),
		fmt.Sprintf("Rounds: %d  Net: $%+.2f", stats.RoundsPlayed, stats.NetProfit),
	}
	if b.trainer != nil {
		analysis := b.trainer.Tracker().Analysis()
		if analysis.TotalDecisions > 0 {
			lines = append(lines, fmt.Sprintf("Strategy: %.0f%% (%s)",
				analysis.AccuracyPercentage, analysis.LetterGrade))
		}
		lines = append(lines, fmt.Sprintf("Drill: %s", b.trainer.Difficulty()))
	}
	b.model.UpdateSidebar(lines)
}

// finish ends the session and logs the summary. A quit mid-hand abandons the
// round with all stakes returned so the session can still close cleanly.
func (b *Bridge) finish() error {
	if round := b.game.CurrentRound(); round != nil && round.State() != game.RoundComplete {
		if err := b.game.AbandonRound(); err != nil {
			return err
		}
		b.model.AddLogEntry(InfoStyle.Render("Hand abandoned, stakes returned"))
	}

	stats, err := b.game.EndSession()
	if err != nil {
		return err
	}

	b.model.AddLogEntry("")
	b.model.AddLogEntry(HeaderStyle.Render(" Session complete "))
	b.model.AddLogEntry(fmt.Sprintf("Rounds: %d  Wagered: $%.2f  Net: $%+.2f",
		stats.RoundsPlayed, stats.TotalWagered, stats.NetProfit))

	if b.trainer != nil {
		summary := b.trainer.Summarize(stats.TotalWagered, stats.NetProfit)
		b.model.AddLogEntry(fmt.Sprintf("Strategy accuracy: %.1f%% (grade %s)",
			summary.Analysis.AccuracyPercentage, summary.Analysis.LetterGrade))
		if summary.Analysis.TotalDecisions > 0 {
			b.model.AddLogEntry(fmt.Sprintf("Expected: $%+.2f  Actual: $%+.2f, %s",
				summary.EV.ExpectedValue, summary.EV.ActualValue,
				ev.VarianceInterpretation(summary.EV.VarianceInBB)))
		}
	}
	return nil
}

// parseAction maps user input to an engine action
func parseAction(input string) (game.Action, bool) {
	switch input {
	case "h", "hit":
		return game.ActionHit, true
	case "s", "stand":
		return game.ActionStand, true
	case "d", "double":
		return game.ActionDouble, true
	case "p", "split":
		return game.ActionSplit, true
	case "r", "surrender":
		return game.ActionSurrender, true
	default:
		return "", false
	}
}
