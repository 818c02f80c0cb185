package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/lox/blackjacktrainer/internal/game"
	"github.com/lox/blackjacktrainer/internal/rules"
	"github.com/lox/blackjacktrainer/internal/trainer"
	"github.com/lox/blackjacktrainer/internal/tui"
)

// TableOpts are the flags shared by the interactive table commands
type TableOpts struct {
	Rules    string  `help:"HCL rules file" type:"existingfile"`
	RuleName string  `help:"Named rules block to use from the rules file"`
	Balance  float64 `default:"1000" help:"Starting bankroll"`
	Bet      float64 `default:"25" help:"Default bet amount"`
	Seed     int64   `default:"0" help:"RNG seed (0 for random)"`
	NoColor  bool    `help:"Disable colour output"`
	LogFile  string  `help:"Write debug logs to this file"`
}

// PlayCmd runs an interactive table without training feedback
type PlayCmd struct {
	TableOpts
}

func (c *PlayCmd) Run() error {
	return runTable(c.TableOpts, "")
}

// TrainCmd runs an interactive table with strategy scoring and count drills
type TrainCmd struct {
	TableOpts
	Difficulty string `default:"beginner" enum:"beginner,running_count,true_count" help:"Drill difficulty"`
}

func (c *TrainCmd) Run() error {
	return runTable(c.TableOpts, trainer.Difficulty(c.Difficulty))
}

// runTable wires the engine, the optional trainer, and the TUI together and
// plays until the user quits.
func runTable(opts TableOpts, difficulty trainer.Difficulty) error {
	if opts.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	logger, closeLog, err := tableLogger(opts.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	ruleSet, err := loadRules(opts.Rules, opts.RuleName)
	if err != nil {
		return err
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	eng := game.New(game.Config{
		Rules:  ruleSet,
		Seed:   seed,
		Logger: logger,
	})

	var tr *trainer.Trainer
	var player *game.Player
	if difficulty != "" {
		tr = trainer.New(trainer.Config{
			Difficulty:      difficulty,
			Rules:           ruleSet,
			PracticeBalance: opts.Balance,
			Logger:          logger,
		})
		player, err = eng.AddPlayerWithBankroll("you", tr.Bankroll())
		if err != nil {
			return err
		}
		tr.AttachTo(eng)
	} else {
		player, err = eng.AddPlayer("you", opts.Balance)
		if err != nil {
			return err
		}
	}

	model := tui.NewModel(logger)
	bridge := tui.NewBridge(eng, tr, model, player, opts.Bet, logger)
	if err := bridge.Start(); err != nil {
		return err
	}
	defer bridge.Close()

	return bridge.Run()
}

// tableLogger returns a logger that stays off the TUI's screen: a file when
// requested, otherwise discarded.
func tableLogger(path string) (*log.Logger, func(), error) {
	if path == "" {
		return log.New(io.Discard), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	logger := log.New(f)
	logger.SetLevel(log.DebugLevel)
	return logger, func() { f.Close() }, nil
}

// loadRules resolves the table rules: a named block from an HCL file, the
// file's first block, or the defaults.
func loadRules(path, name string) (*rules.RuleSet, error) {
	if path == "" {
		return rules.Default(), nil
	}
	sets, order, err := rules.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if name == "" {
		if len(order) == 0 {
			return nil, fmt.Errorf("no rules blocks in %s", path)
		}
		name = order[0]
	}
	rs, ok := sets[name]
	if !ok {
		return nil, fmt.Errorf("no rules block %q in %s", name, path)
	}
	return rs, nil
}
