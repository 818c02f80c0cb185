package game

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/blackjacktrainer/internal/deck"
	"github.com/lox/blackjacktrainer/internal/randutil"
	"github.com/lox/blackjacktrainer/internal/rules"
	"github.com/lox/blackjacktrainer/internal/sessionid"
)

// ShoeSource builds the shoe a game deals from. Production games use a
// seeded random shoe; tests and the trainer inject scenario shoes.
type ShoeSource func() *deck.Shoe

// Config configures a game session
type Config struct {
	Rules       *rules.RuleSet
	Penetration float64
	BetUnit     float64 // 0 disables bet-unit validation
	Seed        int64
	ShoeSource  ShoeSource // optional, overrides Seed/Penetration
	Logger      *log.Logger
	Clock       quartz.Clock
}

// Stats is a point-in-time snapshot of session totals
type Stats struct {
	RoundsPlayed int
	HandsPlayed  int
	HandsWon     int
	HandsLost    int
	HandsPushed  int
	Blackjacks   int
	Surrenders   int
	TotalWagered float64
	NetProfit    float64
	StartedAt    time.Time
	Duration     time.Duration
}

// Game owns the shoe, rules, players and current round, and sequences rounds
// for a single session. It is single-writer: one caller thread invoking one
// operation at a time.
type Game struct {
	rules      *rules.RuleSet
	shoeSource ShoeSource
	shoe       *deck.Shoe
	players    map[string]*Player
	order      []*Player
	round      *Round
	bus        *EventBus
	logger     *log.Logger
	clock      quartz.Clock
	betUnit    float64
	sessionID  string
	stats      Stats
	ended      bool
	nextID     int
}

// New creates a game session from the config
func New(cfg Config) *Game {
	if cfg.Rules == nil {
		cfg.Rules = rules.Default()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}
	if cfg.ShoeSource == nil {
		rs := cfg.Rules
		pen := cfg.Penetration
		seed := cfg.Seed
		cfg.ShoeSource = func() *deck.Shoe {
			return deck.NewShoe(randutil.New(seed), rs.DeckCount(), pen)
		}
	}

	g := &Game{
		rules:      cfg.Rules,
		shoeSource: cfg.ShoeSource,
		players:    make(map[string]*Player),
		bus:        NewEventBus(cfg.Clock),
		logger:     cfg.Logger,
		clock:      cfg.Clock,
		betUnit:    cfg.BetUnit,
		sessionID:  sessionid.Generate(),
	}
	g.shoe = g.shoeSource()
	g.stats.StartedAt = g.clock.Now()
	return g
}

// SessionID returns the unique identifier for this session
func (g *Game) SessionID() string { return g.sessionID }

// HouseEdge returns the approximate house edge for the session's rules
func (g *Game) HouseEdge() float64 { return g.rules.HouseEdge() }

// Rules returns the session's immutable rule set
func (g *Game) Rules() *rules.RuleSet { return g.rules }

// Shoe returns the current shoe
func (g *Game) Shoe() *deck.Shoe { return g.shoe }

// Events returns the bus UI layers subscribe to
func (g *Game) Events() *EventBus { return g.bus }

// AddPlayer seats a player with a standard account bankroll
func (g *Game) AddPlayer(name string, balance float64) (*Player, error) {
	return g.AddPlayerWithBankroll(name, NewAccountBankroll(balance))
}

// AddPlayerWithBankroll seats a player with a caller-supplied bankroll, e.g.
// a trainer's virtual bankroll.
func (g *Game) AddPlayerWithBankroll(name string, bankroll Bankroll) (*Player, error) {
	if g.ended {
		return nil, fmt.Errorf("session has ended: %w", ErrIllegalState)
	}
	if name == "" {
		return nil, fmt.Errorf("player name is required: %w", ErrValidation)
	}
	g.nextID++
	p := &Player{
		ID:       fmt.Sprintf("p%d", g.nextID),
		Name:     name,
		Bankroll: bankroll,
	}
	g.players[p.ID] = p
	g.order = append(g.order, p)
	return p, nil
}

// Players returns the seated players in join order
func (g *Game) Players() []*Player {
	out := make([]*Player, len(g.order))
	copy(out, g.order)
	return out
}

// StartRound validates bets and begins a new round, reshuffling first if the
// cut card was reached.
func (g *Game) StartRound(bets []Bet) error {
	if g.ended {
		return fmt.Errorf("session has ended: %w", ErrIllegalState)
	}
	if g.round != nil {
		return fmt.Errorf("previous round not completed (%s): %w", g.round.State(), ErrIllegalState)
	}

	if g.shoe.IsComplete() {
		g.logger.Debug("cut card reached, reshuffling",
			"remaining", g.shoe.CardsRemaining())
		g.shoe.Reshuffle()
		g.bus.publish(ShoeShuffledEvent{DeckCount: g.shoe.DeckCount()})
	}

	round := newRound(g.rules, g.shoe, g.players, g.betUnit, g.bus, g.logger)
	if err := round.start(bets); err != nil {
		return err
	}
	g.round = round

	var wagered float64
	for _, b := range bets {
		wagered += b.Amount
	}
	g.bus.publish(RoundStartedEvent{
		SessionID: g.sessionID,
		HandCount: len(bets),
		Wagered:   wagered,
	})
	return nil
}

// CurrentRound returns the in-progress round, or nil between rounds
func (g *Game) CurrentRound() *Round { return g.round }

// AvailableActions returns the valid actions for the active hand
func (g *Game) AvailableActions() []Action {
	if g.round == nil {
		return nil
	}
	return g.round.availableActions()
}

// PlayAction applies an action to the active hand
func (g *Game) PlayAction(action Action) error {
	if g.round == nil {
		return fmt.Errorf("no round in progress: %w", ErrIllegalState)
	}
	return g.round.playAction(action)
}

// TakeInsurance places insurance on the indexed hand
func (g *Game) TakeInsurance(handIndex int) error {
	if g.round == nil {
		return fmt.Errorf("no round in progress: %w", ErrIllegalState)
	}
	return g.round.takeInsurance(handIndex)
}

// DeclineInsurance refuses insurance on the indexed hand
func (g *Game) DeclineInsurance(handIndex int) error {
	if g.round == nil {
		return fmt.Errorf("no round in progress: %w", ErrIllegalState)
	}
	return g.round.declineInsurance(handIndex)
}

// ResolveInsurance checks the hole card and either settles or resumes play
func (g *Game) ResolveInsurance() error {
	if g.round == nil {
		return fmt.Errorf("no round in progress: %w", ErrIllegalState)
	}
	return g.round.resolveInsurance()
}

// CompleteRound discards the round's cards, folds its results into the
// session stats, and readies the game for the next round.
func (g *Game) CompleteRound() error {
	if g.round == nil {
		return fmt.Errorf("no round in progress: %w", ErrIllegalState)
	}
	if g.round.State() != RoundComplete {
		return fmt.Errorf("round is %s, not complete: %w", g.round.State(), ErrIllegalState)
	}

	g.stats.RoundsPlayed++
	for i, h := range g.round.Hands {
		result := g.round.results[i]
		g.stats.HandsPlayed++
		g.stats.TotalWagered += h.Staked
		g.stats.NetProfit += result.Profit + result.InsuranceProfit
		switch result.Outcome {
		case OutcomeWin:
			g.stats.HandsWon++
		case OutcomeBlackjack:
			g.stats.HandsWon++
			g.stats.Blackjacks++
		case OutcomePush:
			g.stats.HandsPushed++
		case OutcomeSurrender:
			g.stats.Surrenders++
		default:
			g.stats.HandsLost++
		}
	}

	g.round.discardAll()
	g.round = nil
	return nil
}

// AbandonRound cancels an in-progress round, e.g. when the player quits
// mid-hand. Every stake, insurance included, is refunded, the cards are
// discarded, and nothing is folded into the session stats.
func (g *Game) AbandonRound() error {
	if g.round == nil {
		return fmt.Errorf("no round in progress: %w", ErrIllegalState)
	}
	if g.round.State() == RoundComplete {
		return fmt.Errorf("round already complete: %w", ErrIllegalState)
	}
	for _, h := range g.round.Hands {
		if refund := h.Staked + h.InsuranceBet; refund > 0 {
			g.players[h.PlayerID].Bankroll.Credit(refund)
		}
	}
	g.logger.Debug("round abandoned", "state", g.round.State(), "hands", len(g.round.Hands))
	g.round.discardAll()
	g.round = nil
	return nil
}

// Stats returns a snapshot of the session totals
func (g *Game) Stats() Stats {
	stats := g.stats
	stats.Duration = g.clock.Now().Sub(stats.StartedAt)
	return stats
}

// EndSession freezes the session and returns the final stats. Any round in
// progress must be completed or abandoned by the caller first.
func (g *Game) EndSession() (Stats, error) {
	if g.round != nil && g.round.State() != RoundComplete {
		return Stats{}, fmt.Errorf("round in progress: %w", ErrIllegalState)
	}
	g.ended = true
	return g.Stats(), nil
}
