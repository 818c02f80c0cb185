package deck

import (
	"fmt"
	"net/url"
)

// Scenario names a deterministic card order used by tests and the trainer.
type Scenario string

const (
	ScenarioPlayerBlackjack Scenario = "player-blackjack"
	ScenarioDealerBlackjack Scenario = "dealer-blackjack"
	ScenarioInsuranceNoBJ   Scenario = "insurance-no-blackjack"
	ScenarioSplitEights     Scenario = "split-eights"
	ScenarioSplitAces       Scenario = "split-aces"
	ScenarioPlayerTwenty    Scenario = "player-twenty"
	ScenarioPush            Scenario = "push"
	ScenarioBustCard        Scenario = "bust-card"
	ScenarioDoubleEleven    Scenario = "double-eleven"
	ScenarioDealerBust      Scenario = "dealer-bust"
)

// scenarioScripts holds the scripted card prefix for each scenario. Deal
// order is player, player, dealer up, dealer hole, then subsequent draws.
var scenarioScripts = map[Scenario][]Card{
	ScenarioPlayerBlackjack: {
		{Spades, Ace}, {Spades, King}, // player natural
		{Diamonds, Nine}, {Clubs, Seven}, // dealer 16
		{Hearts, Five}, // dealer draws to 21, natural still wins 3:2
	},
	ScenarioDealerBlackjack: {
		{Spades, Ten}, {Hearts, Nine},
		{Diamonds, Ace}, {Diamonds, King}, // dealer natural behind the ace
	},
	ScenarioInsuranceNoBJ: {
		{Spades, Ten}, {Hearts, Nine},
		{Diamonds, Ace}, {Clubs, Five}, // ace up, no blackjack
		{Hearts, King}, // dealer soft 16 hardens to 16, draws on
		{Clubs, Two},
	},
	ScenarioSplitEights: {
		{Spades, Eight}, {Hearts, Eight},
		{Diamonds, Six}, {Clubs, Ten}, // dealer 16
		{Clubs, Three}, {Diamonds, Two}, // one card to each split hand
		{Hearts, Ten}, // dealer draws and busts
	},
	ScenarioSplitAces: {
		{Spades, Ace}, {Hearts, Ace},
		{Diamonds, Six}, {Clubs, Ten},
		{Clubs, King}, {Diamonds, Queen}, // one card each, then auto-stand
		{Hearts, Ten},
	},
	ScenarioPlayerTwenty: {
		{Spades, King}, {Spades, Queen},
		{Diamonds, Ten}, {Clubs, Eight}, // dealer stands on 18
	},
	ScenarioPush: {
		{Spades, Ten}, {Hearts, Nine},
		{Diamonds, Ten}, {Clubs, Nine}, // both 19
	},
	ScenarioBustCard: {
		{Spades, Ten}, {Hearts, Six},
		{Diamonds, Seven}, {Clubs, Ten},
		{Clubs, King}, // hit busts the player
	},
	ScenarioDoubleEleven: {
		{Spades, Six}, {Hearts, Five},
		{Diamonds, Six}, {Clubs, Ten},
		{Clubs, Ten}, // double card makes 21
		{Hearts, Five}, // dealer draws to 21
	},
	ScenarioDealerBust: {
		{Spades, Ten}, {Hearts, Eight},
		{Diamonds, Six}, {Clubs, Ten},
		{Hearts, King}, // dealer 16 draws a ten and busts
	},
}

// Scenarios lists the available scenario names
func Scenarios() []Scenario {
	out := make([]Scenario, 0, len(scenarioScripts))
	for s := range scenarioScripts {
		out = append(out, s)
	}
	return out
}

// NewScenarioShoe builds a shoe whose first cards follow the named script,
// backed by the remainder of deckCount ordered decks so the card composition
// stays legal. The shoe is fixed: reshuffling restores the same order.
func NewScenarioShoe(name Scenario, deckCount int) (*Shoe, error) {
	script, ok := scenarioScripts[name]
	if !ok {
		return nil, fmt.Errorf("unknown scenario %q", name)
	}
	if deckCount < 1 {
		deckCount = 1
	}

	// Lay out the full ordered shoe, then pull the first occurrence of each
	// scripted card to the front.
	rest := make([]Card, 0, deckCount*52)
	for d := 0; d < deckCount; d++ {
		for suit := Spades; suit <= Clubs; suit++ {
			for rank := Two; rank <= Ace; rank++ {
				rest = append(rest, NewCard(suit, rank))
			}
		}
	}
	cards := make([]Card, 0, len(rest))
	for _, want := range script {
		for i, c := range rest {
			if c == want {
				cards = append(cards, c)
				rest = append(rest[:i], rest[i+1:]...)
				break
			}
		}
	}
	cards = append(cards, rest...)

	return NewFixedShoe(cards, deckCount, DefaultPenetration), nil
}

// ParseScenario selects a scenario from query-style parameters, e.g.
// scenario=split-eights&decks=2. It returns the shoe and the scenario name.
func ParseScenario(params url.Values) (*Shoe, Scenario, error) {
	name := Scenario(params.Get("scenario"))
	if name == "" {
		return nil, "", fmt.Errorf("missing scenario parameter")
	}
	deckCount := 6
	if d := params.Get("decks"); d != "" {
		if _, err := fmt.Sscanf(d, "%d", &deckCount); err != nil {
			return nil, "", fmt.Errorf("invalid decks parameter %q", d)
		}
	}
	shoe, err := NewScenarioShoe(name, deckCount)
	if err != nil {
		return nil, "", err
	}
	return shoe, name, nil
}
