package main

import (
	"fmt"

	"github.com/lox/blackjacktrainer/internal/rules"
)

// EdgesCmd prints house edges for rule configurations
type EdgesCmd struct {
	Rules string `help:"HCL rules file (defaults to a built-in comparison)" type:"existingfile"`
}

func (c *EdgesCmd) Run() error {
	if c.Rules != "" {
		sets, order, err := rules.LoadFile(c.Rules)
		if err != nil {
			return err
		}
		fmt.Printf("%-20s %-50s %8s\n", "NAME", "RULES", "EDGE")
		for _, name := range order {
			rs := sets[name]
			fmt.Printf("%-20s %-50s %+7.3f%%\n", name, rs.String(), rs.HouseEdge())
		}
		return nil
	}

	// Built-in comparison of common table configurations.
	configs := []struct {
		name string
		rs   *rules.RuleSet
	}{
		{"default", rules.Default()},
		{"single-deck", rules.NewRuleSetBuilder().SetDeckCount(1).Build()},
		{"double-deck", rules.NewRuleSetBuilder().SetDeckCount(2).Build()},
		{"eight-deck", rules.NewRuleSetBuilder().SetDeckCount(8).Build()},
		{"h17", rules.NewRuleSetBuilder().SetDealerStand(rules.HitSoft17).Build()},
		{"no-das", rules.NewRuleSetBuilder().SetDoubleAfterSplit(false).Build()},
		{"no-surrender", rules.NewRuleSetBuilder().SetSurrender(rules.SurrenderNone).Build()},
		{"six-to-five", rules.NewRuleSetBuilder().SetBlackjackPayout(6, 5).Build()},
		{"vegas-strip", rules.NewRuleSetBuilder().
			SetDeckCount(4).
			SetSurrender(rules.SurrenderNone).
			Build()},
	}

	fmt.Printf("%-15s %-50s %8s\n", "NAME", "RULES", "EDGE")
	for _, cfg := range configs {
		fmt.Printf("%-15s %-50s %+7.3f%%\n", cfg.name, cfg.rs.String(), cfg.rs.HouseEdge())
	}
	return nil
}
