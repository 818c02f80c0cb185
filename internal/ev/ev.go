// Package ev estimates expected value and variance for blackjack play under
// configurable rules, strategy accuracy, and a Hi-Lo true count. All
// functions are pure; edges are percentages of the wager (negative favours
// the house).
package ev

import (
	"math"

	"github.com/lox/blackjacktrainer/internal/rules"
)

// Per-point cost of imperfect basic strategy and per-point value of a
// positive true count, in edge percentage.
const (
	accuracyCostPerPoint = 0.03
	edgePerTrueCount     = 0.5
)

// BaseHouseEdge returns the rule set's approximate house edge
func BaseHouseEdge(rs *rules.RuleSet) float64 {
	return rs.HouseEdge()
}

// AdjustForStrategyAccuracy degrades the base edge for strategy mistakes:
// every point below 100% accuracy costs 0.03% of edge.
func AdjustForStrategyAccuracy(baseEdge, accuracy float64) float64 {
	return baseEdge - (100-accuracy)*accuracyCostPerPoint
}

// CountAdvantage returns the edge swing from the true count: roughly half a
// percent per point.
func CountAdvantage(trueCount int) float64 {
	return float64(trueCount) * edgePerTrueCount
}

// SessionInput describes a played session for EV estimation
type SessionInput struct {
	Rules            *rules.RuleSet
	TotalWagered     float64
	ActualValue      float64 // net session result
	StrategyAccuracy float64 // percent; zero means unset and is treated as 100
	AvgTrueCount     int     // average true count while betting
}

// HandInput describes a single hand for EV estimation
type HandInput struct {
	Rules            *rules.RuleSet
	BetAmount        float64
	ActualValue      float64 // net hand result
	StrategyAccuracy float64 // percent; zero means unset and is treated as 100
	TrueCount        int
}

// Result is the composed edge and variance estimate
type Result struct {
	BaseEdge       float64
	AdjustedEdge   float64
	CountAdvantage float64
	FinalEdge      float64
	ExpectedValue  float64
	ActualValue    float64
	Variance       float64 // actual minus expected
	VarianceInBB   float64 // variance in big-bet units (wagered/100)
}

// compose treats a non-positive accuracy as unset: the zero value must not
// charge the full imperfect-play penalty.
func compose(rs *rules.RuleSet, wagered, actual, accuracy float64, trueCount int) Result {
	if accuracy <= 0 {
		accuracy = 100
	}
	r := Result{
		BaseEdge:       BaseHouseEdge(rs),
		CountAdvantage: CountAdvantage(trueCount),
		ActualValue:    actual,
	}
	r.AdjustedEdge = AdjustForStrategyAccuracy(r.BaseEdge, accuracy)
	r.FinalEdge = r.AdjustedEdge + r.CountAdvantage
	r.ExpectedValue = wagered * r.FinalEdge / 100
	r.Variance = actual - r.ExpectedValue
	if wagered > 0 {
		r.VarianceInBB = r.Variance / (wagered / 100)
	}
	return r
}

// SessionEV estimates the expected value and variance of a session
func SessionEV(in SessionInput) Result {
	rs := in.Rules
	if rs == nil {
		rs = rules.Default()
	}
	return compose(rs, in.TotalWagered, in.ActualValue, in.StrategyAccuracy, in.AvgTrueCount)
}

// HandEV estimates the expected value and variance of a single hand
func HandEV(in HandInput) Result {
	rs := in.Rules
	if rs == nil {
		rs = rules.Default()
	}
	return compose(rs, in.BetAmount, in.ActualValue, in.StrategyAccuracy, in.TrueCount)
}

// AdvantagePlayInput describes a count-aware betting session: one observed
// true count per hand played, with a bet ramp from MinBet at or below a
// true count of one up to MaxBet.
type AdvantagePlayInput struct {
	Rules            *rules.RuleSet
	StrategyAccuracy float64
	MinBet           float64
	MaxBet           float64
	TrueCounts       []int // one per hand
}

// AdvantagePlayResult is the estimate for a count-aware betting session
type AdvantagePlayResult struct {
	TotalWagered  float64
	ExpectedValue float64
	AverageEdge   float64 // wager-weighted final edge
	HandsPlayed   int
}

// AdvantagePlayEV estimates session EV when bets ramp with the true count.
// The ramp bets MinBet through a true count of one, then one additional
// MinBet unit per point, capped at MaxBet.
func AdvantagePlayEV(in AdvantagePlayInput) AdvantagePlayResult {
	rs := in.Rules
	if rs == nil {
		rs = rules.Default()
	}
	accuracy := in.StrategyAccuracy
	if accuracy <= 0 {
		accuracy = 100
	}
	adjusted := AdjustForStrategyAccuracy(BaseHouseEdge(rs), accuracy)

	var out AdvantagePlayResult
	for _, tc := range in.TrueCounts {
		bet := in.MinBet
		if tc > 1 {
			bet = math.Min(in.MinBet*float64(tc), in.MaxBet)
		}
		edge := adjusted + CountAdvantage(tc)
		out.TotalWagered += bet
		out.ExpectedValue += bet * edge / 100
		out.HandsPlayed++
	}
	if out.TotalWagered > 0 {
		out.AverageEdge = out.ExpectedValue / out.TotalWagered * 100
	}
	return out
}

// Interpretation buckets a variance-in-big-bets figure for display
type Interpretation string

const (
	InterpretationExpected         Interpretation = "expected variance"
	InterpretationLucky            Interpretation = "running lucky"
	InterpretationUnlucky          Interpretation = "running unlucky"
	InterpretationVeryLucky        Interpretation = "running very lucky"
	InterpretationVeryUnlucky      Interpretation = "running very unlucky"
	InterpretationExtremelyLucky   Interpretation = "running extremely lucky"
	InterpretationExtremelyUnlucky Interpretation = "running extremely unlucky"
)

// VarianceInterpretation buckets the magnitude of varianceInBB, with the
// sign selecting the lucky or unlucky label.
func VarianceInterpretation(varianceInBB float64) Interpretation {
	magnitude := math.Abs(varianceInBB)
	lucky := varianceInBB >= 0

	switch {
	case magnitude < 1:
		return InterpretationExpected
	case magnitude < 2:
		if lucky {
			return InterpretationLucky
		}
		return InterpretationUnlucky
	case magnitude < 3:
		if lucky {
			return InterpretationVeryLucky
		}
		return InterpretationVeryUnlucky
	default:
		if lucky {
			return InterpretationExtremelyLucky
		}
		return InterpretationExtremelyUnlucky
	}
}
