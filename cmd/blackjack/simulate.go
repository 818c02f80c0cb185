package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjacktrainer/internal/simulator"
	"github.com/lox/blackjacktrainer/internal/statistics"
)

// SimulateCmd plays basic strategy headlessly and reports the realized edge
type SimulateCmd struct {
	Sessions int     `default:"100" help:"Number of sessions to simulate"`
	Rounds   int     `default:"500" help:"Rounds per session"`
	Bet      float64 `default:"10" help:"Flat bet amount"`
	Rules    string  `help:"HCL rules file" type:"existingfile"`
	RuleName string  `help:"Named rules block to use from the rules file"`
	Seed     int64   `default:"0" help:"RNG seed (0 for random)"`
	Parallel int     `default:"0" help:"Worker goroutines (0 for GOMAXPROCS)"`
	Verbose  bool    `help:"Verbose logging"`
}

func (c *SimulateCmd) Run() error {
	logger := log.New(os.Stderr)
	if c.Verbose {
		logger.SetLevel(log.DebugLevel)
	}

	ruleSet, err := loadRules(c.Rules, c.RuleName)
	if err != nil {
		return err
	}

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	parallel := c.Parallel
	if parallel == 0 {
		parallel = runtime.GOMAXPROCS(0)
	}

	sim := simulator.New(simulator.Config{
		Sessions:         c.Sessions,
		RoundsPerSession: c.Rounds,
		BetAmount:        c.Bet,
		Rules:            ruleSet,
		Seed:             seed,
		Parallelism:      parallel,
		Logger:           logger,
	})

	logger.Info("starting simulation",
		"sessions", c.Sessions,
		"rounds", c.Rounds,
		"rules", ruleSet.String(),
		"seed", seed)

	start := time.Now()
	stats, err := sim.Run(context.Background())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	printReport(stats, ruleSet.HouseEdge(), elapsed)
	return nil
}

// printReport writes the simulation summary to stdout
func printReport(s *statistics.Statistics, theoreticalEdge float64, elapsed time.Duration) {
	lo, hi := s.ConfidenceInterval95()

	fmt.Printf("\n=== Simulation Results ===\n")
	fmt.Printf("Rounds:            %d (%.0f rounds/sec)\n",
		s.Rounds, float64(s.Rounds)/elapsed.Seconds())
	fmt.Printf("Win/Loss/Push:     %d / %d / %d\n", s.Wins, s.Losses, s.Pushes)
	fmt.Printf("Blackjacks:        %d\n", s.Blackjacks)
	fmt.Printf("Doubles:           %d\n", s.Doubles)
	fmt.Printf("Splits:            %d\n", s.Splits)
	fmt.Println()
	fmt.Printf("Mean result:       %+.4f units/round\n", s.Mean())
	fmt.Printf("Std deviation:     %.4f\n", s.StdDev())
	fmt.Printf("95%% CI:            [%+.4f, %+.4f]\n", lo, hi)
	fmt.Printf("Median:            %+.2f\n", s.Median())
	fmt.Printf("Best/Worst round:  %+.2f / %+.2f\n", s.MaxWin, s.MaxLoss)
	fmt.Println()
	fmt.Printf("Realized edge:     %+.3f%%\n", s.EdgePercent())
	fmt.Printf("Theoretical edge:  %+.3f%%\n", theoreticalEdge)

	if len(s.CountBuckets) > 0 {
		fmt.Printf("\n=== Results by True Count ===\n")
		counts := make([]int, 0, len(s.CountBuckets))
		for tc := range s.CountBuckets {
			counts = append(counts, tc)
		}
		sort.Ints(counts)
		for _, tc := range counts {
			bucket := s.CountBuckets[tc]
			fmt.Printf("  TC %+d: %6d rounds, %+.4f units/round\n",
				tc, bucket.Rounds, s.CountBucketMean(tc))
		}
	}
}
