// Package simulator plays flat-bet basic strategy headlessly over many
// sessions to measure the realized edge against the theoretical house edge.
package simulator

import (
	"context"
	"fmt"
	"slices"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjacktrainer/internal/counting"
	"github.com/lox/blackjacktrainer/internal/game"
	"github.com/lox/blackjacktrainer/internal/rules"
	"github.com/lox/blackjacktrainer/internal/statistics"
	"github.com/lox/blackjacktrainer/internal/strategy"
)

// Config holds configuration for running simulations
type Config struct {
	Sessions         int
	RoundsPerSession int
	BetAmount        float64
	Rules            *rules.RuleSet
	Penetration      float64
	Seed             int64
	Parallelism      int
	Logger           *log.Logger
}

// Simulator runs blackjack round simulations
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Sessions < 1 {
		config.Sessions = 1
	}
	if config.RoundsPerSession < 1 {
		config.RoundsPerSession = 1
	}
	if config.BetAmount <= 0 {
		config.BetAmount = 1
	}
	if config.Rules == nil {
		config.Rules = rules.Default()
	}
	if config.Parallelism < 1 {
		config.Parallelism = 1
	}
	return &Simulator{config: config}
}

// Run executes the simulation and returns merged statistics. Sessions run
// in parallel; each goroutine owns a private game, so the engine's
// single-writer rule holds per session.
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	perSession := make([]*statistics.Statistics, s.config.Sessions)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Parallelism)

	for i := 0; i < s.config.Sessions; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			// Independent seed per session for reproducible replay.
			seed := s.config.Seed + int64(i)
			stats, err := s.playSession(seed)
			if err != nil {
				return fmt.Errorf("session %d (seed %d): %w", i, seed, err)
			}
			perSession[i] = stats
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := &statistics.Statistics{}
	for _, stats := range perSession {
		merged.Merge(stats)
	}
	if err := merged.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	return merged, nil
}

// playSession plays a full session of flat-bet basic strategy rounds
func (s *Simulator) playSession(seed int64) (*statistics.Statistics, error) {
	cfg := s.config

	eng := game.New(game.Config{
		Rules:       cfg.Rules,
		Penetration: cfg.Penetration,
		Seed:        seed,
		Logger:      cfg.Logger,
	})

	// Bankroll large enough that splits and doubles never fail funding.
	bankroll := cfg.BetAmount * float64(cfg.RoundsPerSession) * 8
	player, err := eng.AddPlayer("sim", bankroll)
	if err != nil {
		return nil, err
	}

	// Count the visible card stream the way a player at the table would.
	counter := counting.NewHiLoCounter(cfg.Rules.DeckCount(), nil)
	eng.Events().Subscribe(game.SubscriberFunc(func(e game.TimestampedEvent) {
		switch ev := e.Event.(type) {
		case game.CardDealtEvent:
			counter.AddCard(ev.Card)
		case game.ShoeShuffledEvent:
			counter.Reset()
		}
	}))

	stats := &statistics.Statistics{}
	for round := 0; round < cfg.RoundsPerSession; round++ {
		trueCount := counter.TrueCount()

		result, err := s.playRound(eng, player)
		if err != nil {
			return nil, fmt.Errorf("round %d: %w", round+1, err)
		}
		result.Seed = seed
		result.TrueCount = trueCount
		stats.Add(result)
	}
	return stats, nil
}

// playRound plays one round by the book and returns the net result in
// initial-bet units.
func (s *Simulator) playRound(eng *game.Game, player *game.Player) (statistics.RoundResult, error) {
	bet := s.config.BetAmount

	if err := eng.StartRound([]game.Bet{{PlayerID: player.ID, Amount: bet}}); err != nil {
		return statistics.RoundResult{}, err
	}
	round := eng.CurrentRound()

	// Basic strategy never takes insurance.
	if round.State() == game.RoundInsurance {
		for i := range round.Hands {
			if err := eng.DeclineInsurance(i); err != nil {
				return statistics.RoundResult{}, err
			}
		}
		if err := eng.ResolveInsurance(); err != nil {
			return statistics.RoundResult{}, err
		}
	}

	var result statistics.RoundResult
	for round.State() == game.RoundPlayerTurn {
		hand := round.CurrentHand()
		actions := eng.AvailableActions()

		decision := strategy.Decide(
			hand.Cards,
			hand.Value(),
			round.Dealer.UpCard(),
			slices.Contains(actions, game.ActionDouble),
			slices.Contains(actions, game.ActionSplit),
			slices.Contains(actions, game.ActionSurrender),
		)
		switch decision.Action {
		case game.ActionDouble:
			result.Doubled = true
		case game.ActionSplit:
			result.Split = true
		}
		if err := eng.PlayAction(decision.Action); err != nil {
			return statistics.RoundResult{}, err
		}
	}

	var net float64
	for _, r := range round.Results() {
		net += r.Profit + r.InsuranceProfit
		if r.Outcome == game.OutcomeBlackjack {
			result.Blackjack = true
		}
	}
	result.Net = net / bet

	if err := eng.CompleteRound(); err != nil {
		return statistics.RoundResult{}, err
	}
	return result, nil
}
