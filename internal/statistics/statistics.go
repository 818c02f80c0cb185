package statistics

import (
	"fmt"
	"math"
	"sort"
)

// RoundResult represents the outcome of a single simulated blackjack round
type RoundResult struct {
	Net       float64 // net profit in initial-bet units
	Seed      int64   // RNG seed for this session (for replay)
	Blackjack bool    // round included a player natural
	Doubled   bool    // round included a double down
	Split     bool    // round included a split
	TrueCount int     // true count when the round was dealt
}

// Statistics tracks comprehensive blackjack simulation statistics
type Statistics struct {
	Rounds  int
	SumNet  float64
	SumNet2 float64   // sum of squares for variance calculation
	Values  []float64 // all values, for median/percentile calculation

	Wins   int
	Losses int
	Pushes int

	Blackjacks int
	Doubles    int
	Splits     int

	// Results bucketed by the true count at deal time.
	CountBuckets map[int]CountStats

	MaxWin  float64
	MaxLoss float64
}

// CountStats tracks results for one true-count bucket
type CountStats struct {
	Rounds int
	SumNet float64
}

// Mean returns the arithmetic mean result in bet units per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumNet / float64(s.Rounds)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumNet2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// EdgePercent returns the realized edge as a percentage of flat wagers
func (s *Statistics) EdgePercent() float64 {
	return s.Mean() * 100
}

// Add incorporates a new round result into the statistics
func (s *Statistics) Add(result RoundResult) {
	net := result.Net
	s.Rounds++
	s.SumNet += net
	s.SumNet2 += net * net
	s.Values = append(s.Values, net)

	switch {
	case net > 0:
		s.Wins++
	case net < 0:
		s.Losses++
	default:
		s.Pushes++
	}

	if result.Blackjack {
		s.Blackjacks++
	}
	if result.Doubled {
		s.Doubles++
	}
	if result.Split {
		s.Splits++
	}

	if s.CountBuckets == nil {
		s.CountBuckets = make(map[int]CountStats)
	}
	bucket := s.CountBuckets[result.TrueCount]
	bucket.Rounds++
	bucket.SumNet += net
	s.CountBuckets[result.TrueCount] = bucket

	if net > s.MaxWin {
		s.MaxWin = net
	}
	if net < s.MaxLoss {
		s.MaxLoss = net
	}
}

// Median returns the median value of all results
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// CountBucketMean returns the mean result for a true-count bucket
func (s *Statistics) CountBucketMean(trueCount int) float64 {
	bucket, ok := s.CountBuckets[trueCount]
	if !ok || bucket.Rounds == 0 {
		return 0
	}
	return bucket.SumNet / float64(bucket.Rounds)
}

// IsLedgerBalanced checks that every round landed in exactly one outcome
func (s *Statistics) IsLedgerBalanced() bool {
	return s.Wins+s.Losses+s.Pushes == s.Rounds
}

// Validate performs comprehensive validation of statistics data
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: rounds=%d, wins=%d, losses=%d, pushes=%d",
			s.Rounds, s.Wins, s.Losses, s.Pushes)
	}

	if s.Rounds <= 0 {
		return fmt.Errorf("invalid rounds count: %d", s.Rounds)
	}

	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values array length (%d) does not match rounds count (%d)",
			len(s.Values), s.Rounds)
	}

	bucketRounds := 0
	for _, bucket := range s.CountBuckets {
		bucketRounds += bucket.Rounds
	}
	if bucketRounds != s.Rounds {
		return fmt.Errorf("count bucket rounds (%d) do not match total rounds (%d)",
			bucketRounds, s.Rounds)
	}

	return nil
}

// Merge folds another statistics accumulator into this one
func (s *Statistics) Merge(other *Statistics) {
	s.Rounds += other.Rounds
	s.SumNet += other.SumNet
	s.SumNet2 += other.SumNet2
	s.Values = append(s.Values, other.Values...)
	s.Wins += other.Wins
	s.Losses += other.Losses
	s.Pushes += other.Pushes
	s.Blackjacks += other.Blackjacks
	s.Doubles += other.Doubles
	s.Splits += other.Splits
	if s.CountBuckets == nil {
		s.CountBuckets = make(map[int]CountStats)
	}
	for tc, bucket := range other.CountBuckets {
		merged := s.CountBuckets[tc]
		merged.Rounds += bucket.Rounds
		merged.SumNet += bucket.SumNet
		s.CountBuckets[tc] = merged
	}
	if other.MaxWin > s.MaxWin {
		s.MaxWin = other.MaxWin
	}
	if other.MaxLoss < s.MaxLoss {
		s.MaxLoss = other.MaxLoss
	}
}
