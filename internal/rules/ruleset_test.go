package rules

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRules(t *testing.T) {
	rs := Default()

	assert.Equal(t, 6, rs.DeckCount())
	assert.Equal(t, StandSoft17, rs.DealerStand())
	num, den := rs.BlackjackPayout()
	assert.Equal(t, 3, num)
	assert.Equal(t, 2, den)
	assert.True(t, rs.DoubleAfterSplit())
	assert.Equal(t, SurrenderLate, rs.Surrender())
	assert.Equal(t, DoubleAny, rs.DoubleRestriction())
	assert.Equal(t, 3, rs.MaxSplits())
	assert.False(t, rs.ResplitAces())
	assert.False(t, rs.HitSplitAces())
}

func TestHouseEdgeDefault(t *testing.T) {
	// Six decks, S17, 3:2, DAS, late surrender: the baseline edge.
	rs := Default()
	assert.InDelta(t, -0.5, rs.HouseEdge(), 0.001)
}

func TestHouseEdgeAdjustments(t *testing.T) {
	tests := []struct {
		name     string
		build    func() *RuleSet
		expected float64
	}{
		{
			name:     "single deck",
			build:    func() *RuleSet { return NewRuleSetBuilder().SetDeckCount(1).Build() },
			expected: -0.3,
		},
		{
			name:     "double deck",
			build:    func() *RuleSet { return NewRuleSetBuilder().SetDeckCount(2).Build() },
			expected: -0.4,
		},
		{
			name:     "eight decks",
			build:    func() *RuleSet { return NewRuleSetBuilder().SetDeckCount(8).Build() },
			expected: -0.6,
		},
		{
			name:     "h17",
			build:    func() *RuleSet { return NewRuleSetBuilder().SetDealerStand(HitSoft17).Build() },
			expected: -0.7,
		},
		{
			name:     "no das",
			build:    func() *RuleSet { return NewRuleSetBuilder().SetDoubleAfterSplit(false).Build() },
			expected: -0.65,
		},
		{
			name:     "no surrender",
			build:    func() *RuleSet { return NewRuleSetBuilder().SetSurrender(SurrenderNone).Build() },
			expected: -0.58,
		},
		{
			name:     "6:5 payout",
			build:    func() *RuleSet { return NewRuleSetBuilder().SetBlackjackPayout(6, 5).Build() },
			expected: -1.9,
		},
		{
			name:     "even money payout",
			build:    func() *RuleSet { return NewRuleSetBuilder().SetBlackjackPayout(1, 1).Build() },
			expected: -2.8,
		},
		{
			name: "stacked penalties",
			build: func() *RuleSet {
				return NewRuleSetBuilder().
					SetDeckCount(8).
					SetDealerStand(HitSoft17).
					SetDoubleAfterSplit(false).
					SetSurrender(SurrenderNone).
					Build()
			},
			expected: -0.6 - 0.2 - 0.15 - 0.08,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, tt.build().HouseEdge(), 0.001)
		})
	}
}

func TestPayoutRatio(t *testing.T) {
	assert.InDelta(t, 1.5, Default().PayoutRatio(), 0.0001)

	sixFive := NewRuleSetBuilder().SetBlackjackPayout(6, 5).Build()
	assert.InDelta(t, 1.2, sixFive.PayoutRatio(), 0.0001)
}

func TestVariants(t *testing.T) {
	rs := NewRuleSetBuilder().
		SetRule(ResplitAces(true)).
		SetRule(HitSplitAces(true)).
		SetRule(MaxSplits(2)).
		Build()

	assert.True(t, rs.ResplitAces())
	assert.True(t, rs.HitSplitAces())
	assert.Equal(t, 2, rs.MaxSplits())
}

func TestDoubleRestrictionAllows(t *testing.T) {
	assert.True(t, DoubleAny.Allows(5))
	assert.True(t, DoubleNineToEleven.Allows(9))
	assert.True(t, DoubleNineToEleven.Allows(11))
	assert.False(t, DoubleNineToEleven.Allows(8))
	assert.False(t, DoubleNineToEleven.Allows(12))
	assert.True(t, DoubleTenToEleven.Allows(10))
	assert.False(t, DoubleTenToEleven.Allows(9))
	assert.True(t, DoubleElevenOnly.Allows(11))
	assert.False(t, DoubleElevenOnly.Allows(10))
}

func TestRuleSetImmutable(t *testing.T) {
	builder := NewRuleSetBuilder().SetDeckCount(2)
	a := builder.Build()
	builder.SetDeckCount(8)
	b := builder.Build()

	require.Equal(t, 2, a.DeckCount())
	require.Equal(t, 8, b.DeckCount())
	assert.False(t, math.IsNaN(a.HouseEdge()))
}
