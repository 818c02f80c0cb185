package statistics

import (
	"math"
	"testing"
)

func addAll(s *Statistics, nets ...float64) {
	for _, n := range nets {
		s.Add(RoundResult{Net: n})
	}
}

func TestAddTalliesOutcomes(t *testing.T) {
	var s Statistics
	s.Add(RoundResult{Net: 1, Blackjack: true})
	s.Add(RoundResult{Net: 1.5, Blackjack: true})
	s.Add(RoundResult{Net: -2, Doubled: true})
	s.Add(RoundResult{Net: 0})
	s.Add(RoundResult{Net: 2, Split: true})

	if s.Rounds != 5 {
		t.Errorf("Rounds = %d, want 5", s.Rounds)
	}
	if s.Wins != 3 || s.Losses != 1 || s.Pushes != 1 {
		t.Errorf("W/L/P = %d/%d/%d, want 3/1/1", s.Wins, s.Losses, s.Pushes)
	}
	if s.Blackjacks != 2 || s.Doubles != 1 || s.Splits != 1 {
		t.Errorf("BJ/D/S = %d/%d/%d, want 2/1/1", s.Blackjacks, s.Doubles, s.Splits)
	}
	if s.MaxWin != 2 || s.MaxLoss != -2 {
		t.Errorf("MaxWin/MaxLoss = %.1f/%.1f, want 2/-2", s.MaxWin, s.MaxLoss)
	}
	if !s.IsLedgerBalanced() {
		t.Error("ledger should balance")
	}
}

func TestMeanVarianceStdDev(t *testing.T) {
	var s Statistics
	addAll(&s, 1, -1, 1, -1)

	if s.Mean() != 0 {
		t.Errorf("Mean = %f, want 0", s.Mean())
	}
	// Sample variance of {1,-1,1,-1} is 4/3.
	if math.Abs(s.Variance()-4.0/3.0) > 1e-9 {
		t.Errorf("Variance = %f, want %f", s.Variance(), 4.0/3.0)
	}
	if math.Abs(s.StdDev()-math.Sqrt(4.0/3.0)) > 1e-9 {
		t.Errorf("StdDev = %f", s.StdDev())
	}
}

func TestVarianceNeedsTwoSamples(t *testing.T) {
	var s Statistics
	if s.Variance() != 0 {
		t.Error("empty variance should be 0")
	}
	s.Add(RoundResult{Net: 5})
	if s.Variance() != 0 {
		t.Error("single-sample variance should be 0")
	}
}

func TestConfidenceInterval(t *testing.T) {
	var s Statistics
	addAll(&s, 1, -1, 1, -1)

	low, high := s.ConfidenceInterval95()
	if low >= high {
		t.Errorf("interval [%f, %f] is degenerate", low, high)
	}
	if math.Abs(low+high) > 1e-9 {
		t.Errorf("interval should be symmetric around the 0 mean, got [%f, %f]", low, high)
	}
}

func TestEdgePercent(t *testing.T) {
	var s Statistics
	addAll(&s, -0.01, -0.01, -0.01, -0.01)
	if math.Abs(s.EdgePercent()+1) > 1e-9 {
		t.Errorf("EdgePercent = %f, want -1", s.EdgePercent())
	}
}

func TestMedianAndPercentile(t *testing.T) {
	var s Statistics
	addAll(&s, 5, 1, 3, 2, 4)

	if s.Median() != 3 {
		t.Errorf("Median = %f, want 3", s.Median())
	}
	if s.Percentile(0) != 1 || s.Percentile(1) != 5 {
		t.Errorf("extremes = %f..%f, want 1..5", s.Percentile(0), s.Percentile(1))
	}
	if s.Percentile(0.5) != 3 {
		t.Errorf("Percentile(0.5) = %f, want 3", s.Percentile(0.5))
	}

	s.Add(RoundResult{Net: 6})
	// Even count: median interpolates.
	if s.Median() != 3.5 {
		t.Errorf("Median = %f, want 3.5", s.Median())
	}
}

func TestCountBuckets(t *testing.T) {
	var s Statistics
	s.Add(RoundResult{Net: 1, TrueCount: 2})
	s.Add(RoundResult{Net: 3, TrueCount: 2})
	s.Add(RoundResult{Net: -1, TrueCount: -1})

	if got := s.CountBucketMean(2); got != 2 {
		t.Errorf("CountBucketMean(2) = %f, want 2", got)
	}
	if got := s.CountBucketMean(-1); got != -1 {
		t.Errorf("CountBucketMean(-1) = %f, want -1", got)
	}
	if got := s.CountBucketMean(5); got != 0 {
		t.Errorf("CountBucketMean(5) = %f, want 0 for empty bucket", got)
	}
}

func TestValidate(t *testing.T) {
	var s Statistics
	if err := s.Validate(); err == nil {
		t.Error("empty statistics should fail validation")
	}

	addAll(&s, 1, -1, 0)
	if err := s.Validate(); err != nil {
		t.Errorf("valid statistics failed validation: %v", err)
	}

	s.Wins++ // corrupt the ledger
	if err := s.Validate(); err == nil {
		t.Error("ledger mismatch should fail validation")
	}
}

func TestMerge(t *testing.T) {
	var a, b Statistics
	a.Add(RoundResult{Net: 1, TrueCount: 1, Blackjack: true})
	a.Add(RoundResult{Net: -2, TrueCount: 0})
	b.Add(RoundResult{Net: 3, TrueCount: 1, Split: true})
	b.Add(RoundResult{Net: -4, TrueCount: -2, Doubled: true})

	a.Merge(&b)

	if a.Rounds != 4 {
		t.Errorf("Rounds = %d, want 4", a.Rounds)
	}
	if a.SumNet != -2 {
		t.Errorf("SumNet = %f, want -2", a.SumNet)
	}
	if a.Wins != 2 || a.Losses != 2 {
		t.Errorf("W/L = %d/%d, want 2/2", a.Wins, a.Losses)
	}
	if a.Blackjacks != 1 || a.Doubles != 1 || a.Splits != 1 {
		t.Error("flag counters should merge")
	}
	if a.MaxWin != 3 || a.MaxLoss != -4 {
		t.Errorf("MaxWin/MaxLoss = %f/%f, want 3/-4", a.MaxWin, a.MaxLoss)
	}
	if bucket := a.CountBuckets[1]; bucket.Rounds != 2 || bucket.SumNet != 4 {
		t.Errorf("bucket[1] = %+v, want 2 rounds summing 4", bucket)
	}
	if err := a.Validate(); err != nil {
		t.Errorf("merged statistics failed validation: %v", err)
	}
}
