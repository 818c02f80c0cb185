package rules

import "fmt"

// DealerStand determines how the dealer plays a soft 17
type DealerStand int

const (
	StandSoft17 DealerStand = iota // S17: dealer stands on all 17s
	HitSoft17                      // H17: dealer hits soft 17
)

func (d DealerStand) String() string {
	if d == HitSoft17 {
		return "h17"
	}
	return "s17"
}

// Surrender determines when (if ever) a player may surrender
type Surrender int

const (
	SurrenderNone Surrender = iota
	SurrenderLate           // after the dealer checks for blackjack
	SurrenderEarly          // before the dealer checks for blackjack
)

func (s Surrender) String() string {
	switch s {
	case SurrenderLate:
		return "late"
	case SurrenderEarly:
		return "early"
	default:
		return "none"
	}
}

// DoubleRestriction limits which two-card totals may be doubled
type DoubleRestriction int

const (
	DoubleAny DoubleRestriction = iota
	DoubleNineToEleven
	DoubleTenToEleven
	DoubleElevenOnly
)

// Allows reports whether a hand of the given value may be doubled
func (d DoubleRestriction) Allows(value int) bool {
	switch d {
	case DoubleNineToEleven:
		return value >= 9 && value <= 11
	case DoubleTenToEleven:
		return value >= 10 && value <= 11
	case DoubleElevenOnly:
		return value == 11
	default:
		return true
	}
}

func (d DoubleRestriction) String() string {
	switch d {
	case DoubleNineToEleven:
		return "9-11"
	case DoubleTenToEleven:
		return "10-11"
	case DoubleElevenOnly:
		return "11"
	default:
		return "any"
	}
}

// Variant is a tagged rule variant accepted by SetRule
type Variant interface {
	apply(*builderState)
}

// ResplitAces allows re-splitting a hand created by splitting aces
type ResplitAces bool

// HitSplitAces allows hitting split-ace hands rather than auto-standing
type HitSplitAces bool

// MaxSplits caps how many times a player may split in one round
type MaxSplits int

func (v ResplitAces) apply(b *builderState)  { b.resplitAces = bool(v) }
func (v HitSplitAces) apply(b *builderState) { b.hitSplitAces = bool(v) }
func (v MaxSplits) apply(b *builderState)    { b.maxSplits = int(v) }

// RuleSet is an immutable table rule configuration. Build one with
// NewRuleSetBuilder; the zero value is not valid.
type RuleSet struct {
	deckCount         int
	dealerStand       DealerStand
	payoutNum         int
	payoutDen         int
	doubleAfterSplit  bool
	surrender         Surrender
	doubleRestriction DoubleRestriction
	resplitAces       bool
	hitSplitAces      bool
	maxSplits         int
	houseEdge         float64
}

func (r *RuleSet) DeckCount() int                       { return r.deckCount }
func (r *RuleSet) DealerStand() DealerStand             { return r.dealerStand }
func (r *RuleSet) BlackjackPayout() (num, den int)      { return r.payoutNum, r.payoutDen }
func (r *RuleSet) DoubleAfterSplit() bool               { return r.doubleAfterSplit }
func (r *RuleSet) Surrender() Surrender                 { return r.surrender }
func (r *RuleSet) DoubleRestriction() DoubleRestriction { return r.doubleRestriction }
func (r *RuleSet) ResplitAces() bool                    { return r.resplitAces }
func (r *RuleSet) HitSplitAces() bool                   { return r.hitSplitAces }
func (r *RuleSet) MaxSplits() int                       { return r.maxSplits }

// HouseEdge returns the approximate house edge for this rule set as a
// percentage of wagers (negative means the house collects).
func (r *RuleSet) HouseEdge() float64 { return r.houseEdge }

// PayoutRatio returns the blackjack payout as a float (3:2 -> 1.5)
func (r *RuleSet) PayoutRatio() float64 {
	return float64(r.payoutNum) / float64(r.payoutDen)
}

func (r *RuleSet) String() string {
	return fmt.Sprintf("%d decks, %s, %d:%d, DAS=%v, surrender=%s, double=%s",
		r.deckCount, r.dealerStand, r.payoutNum, r.payoutDen,
		r.doubleAfterSplit, r.surrender, r.doubleRestriction)
}

type builderState struct {
	deckCount         int
	dealerStand       DealerStand
	payoutNum         int
	payoutDen         int
	doubleAfterSplit  bool
	surrender         Surrender
	doubleRestriction DoubleRestriction
	resplitAces       bool
	hitSplitAces      bool
	maxSplits         int
}

// RuleSetBuilder accumulates rule settings before freezing them into an
// immutable RuleSet at Build time.
type RuleSetBuilder struct {
	state builderState
}

// NewRuleSetBuilder starts from the common Vegas Strip configuration:
// 6 decks, S17, 3:2, DAS, late surrender, double any, split to 3 hands.
func NewRuleSetBuilder() *RuleSetBuilder {
	return &RuleSetBuilder{state: builderState{
		deckCount:         6,
		dealerStand:       StandSoft17,
		payoutNum:         3,
		payoutDen:         2,
		doubleAfterSplit:  true,
		surrender:         SurrenderLate,
		doubleRestriction: DoubleAny,
		resplitAces:       false,
		hitSplitAces:      false,
		maxSplits:         3,
	}}
}

func (b *RuleSetBuilder) SetDeckCount(n int) *RuleSetBuilder {
	b.state.deckCount = n
	return b
}

func (b *RuleSetBuilder) SetDealerStand(d DealerStand) *RuleSetBuilder {
	b.state.dealerStand = d
	return b
}

func (b *RuleSetBuilder) SetBlackjackPayout(num, den int) *RuleSetBuilder {
	b.state.payoutNum = num
	b.state.payoutDen = den
	return b
}

func (b *RuleSetBuilder) SetDoubleAfterSplit(allowed bool) *RuleSetBuilder {
	b.state.doubleAfterSplit = allowed
	return b
}

func (b *RuleSetBuilder) SetSurrender(s Surrender) *RuleSetBuilder {
	b.state.surrender = s
	return b
}

func (b *RuleSetBuilder) SetDoubleRestriction(d DoubleRestriction) *RuleSetBuilder {
	b.state.doubleRestriction = d
	return b
}

// SetRule applies a tagged rule variant (ResplitAces, HitSplitAces, MaxSplits)
func (b *RuleSetBuilder) SetRule(v Variant) *RuleSetBuilder {
	v.apply(&b.state)
	return b
}

// Build freezes the configuration and derives the approximate house edge
func (b *RuleSetBuilder) Build() *RuleSet {
	s := b.state
	r := &RuleSet{
		deckCount:         s.deckCount,
		dealerStand:       s.dealerStand,
		payoutNum:         s.payoutNum,
		payoutDen:         s.payoutDen,
		doubleAfterSplit:  s.doubleAfterSplit,
		surrender:         s.surrender,
		doubleRestriction: s.doubleRestriction,
		resplitAces:       s.resplitAces,
		hitSplitAces:      s.hitSplitAces,
		maxSplits:         s.maxSplits,
	}
	r.houseEdge = deriveHouseEdge(r)
	return r
}

// deriveHouseEdge approximates the player's expected return per the usual
// rule adjustments. The terms combine linearly from a -0.5% base.
func deriveHouseEdge(r *RuleSet) float64 {
	edge := -0.5

	switch r.deckCount {
	case 1:
		edge += 0.2
	case 2:
		edge += 0.1
	case 8:
		edge -= 0.1
	}

	if r.dealerStand == HitSoft17 {
		edge -= 0.2
	}
	if !r.doubleAfterSplit {
		edge -= 0.15
	}
	if r.surrender == SurrenderNone {
		edge -= 0.08
	}

	switch ratio := r.PayoutRatio(); {
	case ratio == 1.2:
		edge -= 1.4
	case ratio == 1.0:
		edge -= 2.3
	}

	return edge
}

// Default returns the baseline rule set used when no configuration is given
func Default() *RuleSet {
	return NewRuleSetBuilder().Build()
}
