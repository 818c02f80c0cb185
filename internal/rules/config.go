package rules

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// RulesFile represents an HCL file containing named rule sets:
//
//	rules "vegas-strip" {
//	  decks            = 6
//	  dealer_stand     = "s17"
//	  payout           = "3:2"
//	  double_after_split = true
//	  surrender        = "late"
//	  double_restriction = "any"
//	  resplit_aces     = false
//	  hit_split_aces   = false
//	  max_splits       = 3
//	}
type RulesFile struct {
	Rules []RulesBlock `hcl:"rules,block"`
}

// RulesBlock is one named rule configuration
type RulesBlock struct {
	Name              string `hcl:"name,label"`
	Decks             int    `hcl:"decks,optional"`
	DealerStand       string `hcl:"dealer_stand,optional"`
	Payout            string `hcl:"payout,optional"`
	DoubleAfterSplit  *bool  `hcl:"double_after_split,optional"`
	Surrender         string `hcl:"surrender,optional"`
	DoubleRestriction string `hcl:"double_restriction,optional"`
	ResplitAces       bool   `hcl:"resplit_aces,optional"`
	HitSplitAces      bool   `hcl:"hit_split_aces,optional"`
	MaxSplits         int    `hcl:"max_splits,optional"`
}

// LoadFile parses an HCL rules file and returns the named rule sets in file
// order. Missing attributes fall back to the builder defaults.
func LoadFile(filename string) (map[string]*RuleSet, []string, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("rules file %s does not exist", filename)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var rf RulesFile
	diags = gohcl.DecodeBody(file.Body, nil, &rf)
	if diags.HasErrors() {
		return nil, nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	sets := make(map[string]*RuleSet, len(rf.Rules))
	names := make([]string, 0, len(rf.Rules))
	for _, block := range rf.Rules {
		rs, err := block.toRuleSet()
		if err != nil {
			return nil, nil, fmt.Errorf("rules %q: %w", block.Name, err)
		}
		sets[block.Name] = rs
		names = append(names, block.Name)
	}
	return sets, names, nil
}

func (b RulesBlock) toRuleSet() (*RuleSet, error) {
	builder := NewRuleSetBuilder()

	if b.Decks != 0 {
		builder.SetDeckCount(b.Decks)
	}

	switch b.DealerStand {
	case "", "s17":
	case "h17":
		builder.SetDealerStand(HitSoft17)
	default:
		return nil, fmt.Errorf("unknown dealer_stand %q", b.DealerStand)
	}

	switch b.Payout {
	case "", "3:2":
	case "6:5":
		builder.SetBlackjackPayout(6, 5)
	case "1:1":
		builder.SetBlackjackPayout(1, 1)
	default:
		var num, den int
		if _, err := fmt.Sscanf(b.Payout, "%d:%d", &num, &den); err != nil || den == 0 {
			return nil, fmt.Errorf("unknown payout %q", b.Payout)
		}
		builder.SetBlackjackPayout(num, den)
	}

	if b.DoubleAfterSplit != nil {
		builder.SetDoubleAfterSplit(*b.DoubleAfterSplit)
	}

	switch b.Surrender {
	case "", "late":
	case "none":
		builder.SetSurrender(SurrenderNone)
	case "early":
		builder.SetSurrender(SurrenderEarly)
	default:
		return nil, fmt.Errorf("unknown surrender %q", b.Surrender)
	}

	switch b.DoubleRestriction {
	case "", "any":
	case "9-11":
		builder.SetDoubleRestriction(DoubleNineToEleven)
	case "10-11":
		builder.SetDoubleRestriction(DoubleTenToEleven)
	case "11":
		builder.SetDoubleRestriction(DoubleElevenOnly)
	default:
		return nil, fmt.Errorf("unknown double_restriction %q", b.DoubleRestriction)
	}

	builder.SetRule(ResplitAces(b.ResplitAces))
	builder.SetRule(HitSplitAces(b.HitSplitAces))
	if b.MaxSplits != 0 {
		builder.SetRule(MaxSplits(b.MaxSplits))
	}

	return builder.Build(), nil
}
