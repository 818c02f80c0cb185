package game

import (
	"fmt"
	"math"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjacktrainer/internal/deck"
	"github.com/lox/blackjacktrainer/internal/rules"
)

// Action is a player action on a hand
type Action string

const (
	ActionHit       Action = "hit"
	ActionStand     Action = "stand"
	ActionDouble    Action = "double"
	ActionSplit     Action = "split"
	ActionSurrender Action = "surrender"
)

// RoundState is the state of the round state machine. Transitions are
// strictly forward: betting, dealing, insurance, player_turn, dealer_turn,
// settling, complete.
type RoundState string

const (
	RoundBetting    RoundState = "betting"
	RoundDealing    RoundState = "dealing"
	RoundInsurance  RoundState = "insurance"
	RoundPlayerTurn RoundState = "player_turn"
	RoundDealerTurn RoundState = "dealer_turn"
	RoundSettling   RoundState = "settling"
	RoundComplete   RoundState = "complete"
)

// Outcome is the settled result of one player hand
type Outcome string

const (
	OutcomeWin       Outcome = "win"
	OutcomeBlackjack Outcome = "blackjack"
	OutcomeLose      Outcome = "lose"
	OutcomePush      Outcome = "push"
	OutcomeSurrender Outcome = "surrender"
)

// SettlementResult records how one hand settled. Payout is the amount
// returned to the bankroll for the main bet (stake included); Profit is the
// net main-bet result. InsuranceProfit is the net of the insurance sub-bet,
// zero when no insurance was taken.
type SettlementResult struct {
	HandIndex       int
	Outcome         Outcome
	Payout          float64
	Profit          float64
	InsuranceProfit float64
}

// Bet is one requested hand stake for a player
type Bet struct {
	PlayerID string
	Amount   float64
}

// Round is a single round of blackjack: an ordered list of player hands
// against one dealer hand. Hands are index-addressed so splits keep a stable
// turn order and the active index only ever advances.
type Round struct {
	rules   *rules.RuleSet
	shoe    *deck.Shoe
	logger  *log.Logger
	bus     *EventBus
	players map[string]*Player

	Dealer  DealerHand
	Hands   []*PlayerHand
	current int
	state   RoundState
	results []SettlementResult
	splits  map[int]int // split count per originally dealt hand lineage
	betUnit float64
}

func newRound(rs *rules.RuleSet, shoe *deck.Shoe, players map[string]*Player, betUnit float64, bus *EventBus, logger *log.Logger) *Round {
	return &Round{
		rules:   rs,
		shoe:    shoe,
		logger:  logger,
		bus:     bus,
		players: players,
		state:   RoundBetting,
		current: -1,
		splits:  make(map[int]int),
		betUnit: betUnit,
	}
}

// State returns the current round state
func (r *Round) State() RoundState { return r.state }

// CurrentHandIndex returns the index of the active hand, or -1 outside the
// player turn.
func (r *Round) CurrentHandIndex() int {
	if r.state != RoundPlayerTurn {
		return -1
	}
	return r.current
}

// CurrentHand returns the active hand, or nil outside the player turn
func (r *Round) CurrentHand() *PlayerHand {
	if r.state != RoundPlayerTurn || r.current < 0 || r.current >= len(r.Hands) {
		return nil
	}
	return r.Hands[r.current]
}

// Results returns the settlement results, one per hand, once the round is
// complete.
func (r *Round) Results() []SettlementResult {
	out := make([]SettlementResult, len(r.results))
	copy(out, r.results)
	return out
}

// start validates the bets, debits them, and deals. Validation happens
// entirely before any mutation: an error leaves bankrolls and shoe untouched.
func (r *Round) start(bets []Bet) error {
	if r.state != RoundBetting {
		return fmt.Errorf("cannot start round in state %s: %w", r.state, ErrIllegalState)
	}
	if len(bets) == 0 {
		return fmt.Errorf("no bets placed: %w", ErrValidation)
	}

	perPlayer := make(map[string]float64)
	for _, b := range bets {
		if _, ok := r.players[b.PlayerID]; !ok {
			return fmt.Errorf("unknown player %q: %w", b.PlayerID, ErrValidation)
		}
		if b.Amount <= 0 {
			return fmt.Errorf("bet amount %.2f must be positive: %w", b.Amount, ErrValidation)
		}
		if r.betUnit > 0 && math.Mod(b.Amount, r.betUnit) != 0 {
			return fmt.Errorf("bet amount %.2f is not a multiple of the %.2f bet unit: %w", b.Amount, r.betUnit, ErrValidation)
		}
		perPlayer[b.PlayerID] += b.Amount
	}
	for id, total := range perPlayer {
		if balance := r.players[id].Balance(); total > balance {
			return fmt.Errorf("bets of %.2f exceed balance %.2f for player %s: %w", total, balance, id, ErrValidation)
		}
	}

	r.state = RoundDealing
	for _, b := range bets {
		if err := r.players[b.PlayerID].Bankroll.Debit(b.Amount); err != nil {
			// Unreachable after validation above.
			return err
		}
		r.Hands = append(r.Hands, &PlayerHand{
			PlayerID:  b.PlayerID,
			Bet:       b.Amount,
			Staked:    b.Amount,
			State:     HandActive,
			FromSplit: NoSplit,
			lineage:   len(r.Hands),
		})
	}

	// Two cards to each hand, then two to the dealer (second face down).
	for _, h := range r.Hands {
		for i := 0; i < 2; i++ {
			card, err := r.draw()
			if err != nil {
				return err
			}
			h.Cards = append(h.Cards, card)
			r.bus.publish(CardDealtEvent{Card: card, PlayerID: h.PlayerID})
		}
	}
	for i := 0; i < 2; i++ {
		card, err := r.draw()
		if err != nil {
			return err
		}
		r.Dealer.Cards = append(r.Dealer.Cards, card)
		if i == 0 {
			r.bus.publish(CardDealtEvent{Card: card, Dealer: true})
		}
	}

	// A dealt 21 resolves to blackjack immediately.
	for i, h := range r.Hands {
		if h.IsBlackjack() {
			h.State = HandBlackjack
			r.bus.publish(HandResolvedEvent{HandIndex: i, State: HandBlackjack})
		}
	}

	if r.Dealer.UpCard().IsAce() {
		r.state = RoundInsurance
		for _, h := range r.Hands {
			h.InsuranceOffered = true
		}
		r.logger.Debug("dealer shows ace, offering insurance")
		return nil
	}

	r.beginPlayerTurn()
	return nil
}

func (r *Round) draw() (deck.Card, error) {
	card, err := r.shoe.Draw()
	if err != nil {
		return deck.Card{}, fmt.Errorf("mid-round draw failed: %w", err)
	}
	return card, nil
}

func (r *Round) beginPlayerTurn() {
	r.state = RoundPlayerTurn
	r.current = 0
	r.advanceTurn()
}

// takeInsurance places an insurance side bet of half the hand's stake
func (r *Round) takeInsurance(handIndex int) error {
	if r.state != RoundInsurance {
		return fmt.Errorf("insurance not available in state %s: %w", r.state, ErrIllegalState)
	}
	if handIndex < 0 || handIndex >= len(r.Hands) {
		return fmt.Errorf("no hand at index %d: %w", handIndex, ErrValidation)
	}
	h := r.Hands[handIndex]
	if !h.InsuranceOffered {
		return fmt.Errorf("insurance not offered on hand %d: %w", handIndex, ErrIllegalAction)
	}
	if h.HasInsurance {
		return fmt.Errorf("insurance already taken on hand %d: %w", handIndex, ErrIllegalAction)
	}
	stake := h.Bet / 2
	if err := r.players[h.PlayerID].Bankroll.Debit(stake); err != nil {
		return err
	}
	h.HasInsurance = true
	h.InsuranceBet = stake
	return nil
}

// declineInsurance refuses the insurance offer on a hand
func (r *Round) declineInsurance(handIndex int) error {
	if r.state != RoundInsurance {
		return fmt.Errorf("insurance not available in state %s: %w", r.state, ErrIllegalState)
	}
	if handIndex < 0 || handIndex >= len(r.Hands) {
		return fmt.Errorf("no hand at index %d: %w", handIndex, ErrValidation)
	}
	r.Hands[handIndex].InsuranceOffered = false
	return nil
}

// resolveInsurance checks the dealer's hole card. A dealer blackjack settles
// the round immediately: insurance pays 2:1, main hands push only against a
// player blackjack. Otherwise insurance stakes are forfeited and play
// proceeds.
func (r *Round) resolveInsurance() error {
	if r.state != RoundInsurance {
		return fmt.Errorf("cannot resolve insurance in state %s: %w", r.state, ErrIllegalState)
	}

	dealerBlackjack := r.Dealer.IsBlackjack()
	r.bus.publish(InsuranceResolvedEvent{DealerBlackjack: dealerBlackjack})

	if dealerBlackjack {
		r.Dealer.HoleRevealed = true
		r.logger.Debug("dealer has blackjack, settling round")
		r.settle()
		return nil
	}

	r.logger.Debug("dealer does not have blackjack")
	r.beginPlayerTurn()
	return nil
}

// availableActions returns the valid actions for the active hand
func (r *Round) availableActions() []Action {
	h := r.CurrentHand()
	if h == nil {
		return nil
	}

	actions := []Action{ActionHit, ActionStand}
	balance := r.players[h.PlayerID].Balance()

	if r.canDouble(h, balance) {
		actions = append(actions, ActionDouble)
	}
	if r.canSplit(h, balance) {
		actions = append(actions, ActionSplit)
	}
	if r.canSurrender(h) {
		actions = append(actions, ActionSurrender)
	}
	return actions
}

func (r *Round) canDouble(h *PlayerHand, balance float64) bool {
	if h.acted || len(h.Cards) != 2 || balance < h.Bet {
		return false
	}
	if h.wasSplit() && !r.rules.DoubleAfterSplit() {
		return false
	}
	return r.rules.DoubleRestriction().Allows(h.Value())
}

func (r *Round) canSplit(h *PlayerHand, balance float64) bool {
	if !h.IsPair() || balance < h.Bet {
		return false
	}
	// The split allowance is per originally dealt hand, so one seated
	// hand's splits never consume another's.
	if r.splits[h.lineage] >= r.rules.MaxSplits() {
		return false
	}
	if h.Cards[0].IsAce() && h.splitAce && !r.rules.ResplitAces() {
		return false
	}
	return true
}

func (r *Round) canSurrender(h *PlayerHand) bool {
	return !h.acted && !h.wasSplit() && len(h.Cards) == 2 &&
		r.rules.Surrender() != rules.SurrenderNone
}

// playAction applies an action to the active hand. The action must be in the
// current available set; validation precedes any mutation.
func (r *Round) playAction(action Action) error {
	if r.state != RoundPlayerTurn {
		return fmt.Errorf("cannot play action in state %s: %w", r.state, ErrIllegalState)
	}
	h := r.CurrentHand()
	if h == nil {
		return fmt.Errorf("no active hand: %w", ErrIllegalState)
	}
	if !slices.Contains(r.availableActions(), action) {
		return fmt.Errorf("action %s not available for hand %d: %w", action, r.current, ErrIllegalAction)
	}

	switch action {
	case ActionHit:
		card, err := r.draw()
		if err != nil {
			return err
		}
		h.acted = true
		h.Cards = append(h.Cards, card)
		r.bus.publish(CardDealtEvent{Card: card, PlayerID: h.PlayerID})
		if h.IsBusted() {
			h.State = HandBusted
			r.bus.publish(HandResolvedEvent{HandIndex: r.current, State: HandBusted})
		}

	case ActionStand:
		h.acted = true
		h.State = HandStood
		r.bus.publish(HandResolvedEvent{HandIndex: r.current, State: HandStood})

	case ActionDouble:
		if err := r.players[h.PlayerID].Bankroll.Debit(h.Bet); err != nil {
			return err
		}
		card, err := r.draw()
		if err != nil {
			return err
		}
		h.acted = true
		h.Staked += h.Bet
		h.Bet *= 2
		h.Cards = append(h.Cards, card)
		r.bus.publish(CardDealtEvent{Card: card, PlayerID: h.PlayerID})
		if h.IsBusted() {
			h.State = HandBusted
		} else {
			h.State = HandStood
		}
		r.bus.publish(HandResolvedEvent{HandIndex: r.current, State: h.State})

	case ActionSplit:
		if err := r.split(h); err != nil {
			return err
		}

	case ActionSurrender:
		h.acted = true
		h.State = HandSurrendered
		r.bus.publish(HandResolvedEvent{HandIndex: r.current, State: HandSurrendered})
	}

	r.advanceTurn()
	return nil
}

// split moves one card of the pair to a new sibling hand inserted directly
// after the current one, then deals one card to each half. Split-ace hands
// receive exactly that one card and stand unless the rules allow hitting.
func (r *Round) split(h *PlayerHand) error {
	if err := r.players[h.PlayerID].Bankroll.Debit(h.Bet); err != nil {
		return err
	}

	aces := h.Cards[0].IsAce()
	sibling := &PlayerHand{
		PlayerID:  h.PlayerID,
		Bet:       h.Bet,
		Staked:    h.Bet,
		State:     HandActive,
		FromSplit: r.current,
		split:     true,
		splitAce:  aces,
		lineage:   h.lineage,
	}
	sibling.Cards = []deck.Card{h.Cards[1]}
	h.Cards = h.Cards[:1]
	h.split = true
	h.splitAce = aces
	h.acted = false

	r.Hands = slices.Insert(r.Hands, r.current+1, sibling)
	r.splits[h.lineage]++

	for _, half := range []*PlayerHand{h, sibling} {
		card, err := r.draw()
		if err != nil {
			return err
		}
		half.Cards = append(half.Cards, card)
		r.bus.publish(CardDealtEvent{Card: card, PlayerID: half.PlayerID})
		if aces && !r.rules.HitSplitAces() {
			half.State = HandStood
		}
	}

	r.logger.Debug("split hand", "hand", r.current, "aces", aces, "splits", r.splits[h.lineage])
	return nil
}

// advanceTurn moves the active index forward past resolved hands; when every
// hand is resolved the dealer plays and the round settles.
func (r *Round) advanceTurn() {
	for r.current < len(r.Hands) && r.Hands[r.current].Resolved() {
		r.current++
	}
	if r.current < len(r.Hands) {
		return
	}
	r.playDealer()
	r.settle()
}

// playDealer reveals the hole card and draws by house rules: hit below 17,
// and hit a soft 17 under H17. The dealer only draws when a stood hand
// remains to contest.
func (r *Round) playDealer() {
	r.state = RoundDealerTurn
	r.Dealer.HoleRevealed = true
	r.bus.publish(CardDealtEvent{Card: r.Dealer.Cards[1], Dealer: true})

	contested := false
	for _, h := range r.Hands {
		if h.State == HandStood {
			contested = true
			break
		}
	}
	if !contested {
		return
	}

	for {
		value, soft := HandValue(r.Dealer.Cards)
		if value > 21 {
			break
		}
		if value > 17 || (value == 17 && (!soft || r.rules.DealerStand() == rules.StandSoft17)) {
			break
		}
		card, err := r.shoe.Draw()
		if err != nil {
			// Unreachable under cut-card discipline.
			r.logger.Error("dealer draw failed", "error", err)
			return
		}
		r.Dealer.Cards = append(r.Dealer.Cards, card)
		r.bus.publish(CardDealtEvent{Card: card, Dealer: true})
	}
}

// settle computes one settlement result per hand and credits bankrolls
func (r *Round) settle() {
	r.state = RoundSettling

	dealerValue := r.Dealer.Value()
	dealerBust := dealerValue > 21
	dealerBlackjack := r.Dealer.IsBlackjack()
	payoutRatio := r.rules.PayoutRatio()

	r.results = make([]SettlementResult, len(r.Hands))
	for i, h := range r.Hands {
		result := SettlementResult{HandIndex: i}

		switch {
		case h.State == HandSurrendered:
			result.Outcome = OutcomeSurrender
			result.Payout = h.Bet / 2
			result.Profit = -h.Bet / 2
			h.State = HandLost

		case h.State == HandBusted:
			result.Outcome = OutcomeLose
			result.Profit = -h.Staked
			h.State = HandLost

		case h.State == HandBlackjack:
			if dealerBlackjack {
				result.Outcome = OutcomePush
				result.Payout = h.Bet
				h.State = HandPushed
			} else {
				result.Outcome = OutcomeBlackjack
				result.Payout = h.Bet + h.Bet*payoutRatio
				result.Profit = h.Bet * payoutRatio
				h.State = HandWon
			}

		case dealerBlackjack:
			result.Outcome = OutcomeLose
			result.Profit = -h.Staked
			h.State = HandLost

		case dealerBust || h.Value() > dealerValue:
			result.Outcome = OutcomeWin
			result.Payout = h.Staked * 2
			result.Profit = h.Staked
			h.State = HandWon

		case h.Value() == dealerValue:
			result.Outcome = OutcomePush
			result.Payout = h.Staked
			h.State = HandPushed

		default:
			result.Outcome = OutcomeLose
			result.Profit = -h.Staked
			h.State = HandLost
		}

		if h.HasInsurance {
			if dealerBlackjack {
				// 2:1 on the half-bet stake, returned with the stake.
				result.InsuranceProfit = h.InsuranceBet * 2
				result.Payout += h.InsuranceBet * 3
			} else {
				result.InsuranceProfit = -h.InsuranceBet
			}
		}

		if result.Payout > 0 {
			r.players[h.PlayerID].Bankroll.Credit(result.Payout)
		}
		r.results[i] = result

		r.logger.Debug("hand settled",
			"hand", i,
			"outcome", result.Outcome,
			"payout", result.Payout,
			"profit", result.Profit)
	}

	r.state = RoundComplete
	r.bus.publish(RoundSettledEvent{Results: r.Results()})
}

// discardAll moves every dealt card to the shoe's discard pile
func (r *Round) discardAll() {
	for _, h := range r.Hands {
		r.shoe.Discard(h.Cards...)
	}
	r.shoe.Discard(r.Dealer.Cards...)
}
