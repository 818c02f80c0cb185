package game

import (
	"errors"
	"testing"

	"github.com/lox/blackjacktrainer/internal/deck"
	"github.com/lox/blackjacktrainer/internal/randutil"
	"github.com/lox/blackjacktrainer/internal/sessionid"
)

func TestAddPlayer(t *testing.T) {
	g := New(Config{Seed: 1})

	a, err := g.AddPlayer("alice", 500)
	if err != nil {
		t.Fatal(err)
	}
	b, err := g.AddPlayer("bob", 300)
	if err != nil {
		t.Fatal(err)
	}

	if a.ID != "p1" || b.ID != "p2" {
		t.Errorf("expected sequential IDs p1, p2; got %s, %s", a.ID, b.ID)
	}
	if len(g.Players()) != 2 {
		t.Errorf("expected 2 players, got %d", len(g.Players()))
	}

	if _, err := g.AddPlayer("", 100); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for empty name, got %v", err)
	}
}

func TestSessionIDIsValid(t *testing.T) {
	g := New(Config{Seed: 1})
	if err := sessionid.Validate(g.SessionID()); err != nil {
		t.Errorf("session ID %q invalid: %v", g.SessionID(), err)
	}
}

func TestStatsAccumulate(t *testing.T) {
	g := New(Config{
		ShoeSource: func() *deck.Shoe {
			shoe, _ := deck.NewScenarioShoe(deck.ScenarioPlayerBlackjack, 6)
			return shoe
		},
	})
	p, _ := g.AddPlayer("tester", 1000)

	if err := g.StartRound([]Bet{{PlayerID: p.ID, Amount: 100}}); err != nil {
		t.Fatal(err)
	}
	if err := g.CompleteRound(); err != nil {
		t.Fatal(err)
	}

	stats := g.Stats()
	if stats.RoundsPlayed != 1 || stats.HandsPlayed != 1 {
		t.Errorf("rounds=%d hands=%d, want 1 and 1", stats.RoundsPlayed, stats.HandsPlayed)
	}
	if stats.Blackjacks != 1 || stats.HandsWon != 1 {
		t.Errorf("blackjacks=%d won=%d, want 1 and 1", stats.Blackjacks, stats.HandsWon)
	}
	if stats.TotalWagered != 100 {
		t.Errorf("wagered = %.2f, want 100", stats.TotalWagered)
	}
	if stats.NetProfit != 150 {
		t.Errorf("net profit = %.2f, want 150", stats.NetProfit)
	}

	// Second round runs off the back of the fixed shoe; play it out.
	if err := g.StartRound([]Bet{{PlayerID: p.ID, Amount: 100}}); err != nil {
		t.Fatal(err)
	}
	for g.CurrentRound().State() == RoundPlayerTurn {
		if err := g.PlayAction(ActionStand); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.CompleteRound(); err != nil {
		t.Fatal(err)
	}
	if g.Stats().RoundsPlayed != 2 {
		t.Errorf("rounds = %d, want 2", g.Stats().RoundsPlayed)
	}
}

func TestCompleteRoundRequiresSettledRound(t *testing.T) {
	g := New(Config{
		ShoeSource: func() *deck.Shoe {
			shoe, _ := deck.NewScenarioShoe(deck.ScenarioPush, 6)
			return shoe
		},
	})
	p, _ := g.AddPlayer("tester", 1000)

	if err := g.CompleteRound(); !errors.Is(err, ErrIllegalState) {
		t.Errorf("expected ErrIllegalState with no round, got %v", err)
	}

	if err := g.StartRound([]Bet{{PlayerID: p.ID, Amount: 100}}); err != nil {
		t.Fatal(err)
	}
	if err := g.CompleteRound(); !errors.Is(err, ErrIllegalState) {
		t.Errorf("expected ErrIllegalState mid-round, got %v", err)
	}

	// A second round cannot start while one is live.
	if err := g.StartRound([]Bet{{PlayerID: p.ID, Amount: 100}}); !errors.Is(err, ErrIllegalState) {
		t.Errorf("expected ErrIllegalState for overlapping round, got %v", err)
	}
}

func TestReshuffleAtCutCard(t *testing.T) {
	// Half-deck penetration forces a reshuffle after a few rounds.
	g := New(Config{
		ShoeSource: func() *deck.Shoe {
			return deck.NewShoe(randutil.New(3), 1, 0.3)
		},
	})
	p, _ := g.AddPlayer("tester", 10000)

	shuffles := 0
	g.Events().Subscribe(SubscriberFunc(func(e TimestampedEvent) {
		if e.EventType() == EventTypeShoeShuffled {
			shuffles++
		}
	}))

	for i := 0; i < 10; i++ {
		if err := g.StartRound([]Bet{{PlayerID: p.ID, Amount: 10}}); err != nil {
			t.Fatal(err)
		}
		round := g.CurrentRound()
		if round.State() == RoundInsurance {
			if err := g.DeclineInsurance(0); err != nil {
				t.Fatal(err)
			}
			if err := g.ResolveInsurance(); err != nil {
				t.Fatal(err)
			}
		}
		for round.State() == RoundPlayerTurn {
			if err := g.PlayAction(ActionStand); err != nil {
				t.Fatal(err)
			}
		}
		if err := g.CompleteRound(); err != nil {
			t.Fatal(err)
		}
	}

	if shuffles == 0 {
		t.Error("expected at least one reshuffle over 10 rounds at 0.3 penetration")
	}
}

func TestCardDealtEvents(t *testing.T) {
	g := New(Config{
		ShoeSource: func() *deck.Shoe {
			shoe, _ := deck.NewScenarioShoe(deck.ScenarioPush, 6)
			return shoe
		},
	})
	p, _ := g.AddPlayer("tester", 1000)

	var dealt []CardDealtEvent
	g.Events().Subscribe(SubscriberFunc(func(e TimestampedEvent) {
		if cd, ok := e.Event.(CardDealtEvent); ok {
			dealt = append(dealt, cd)
		}
	}))

	if err := g.StartRound([]Bet{{PlayerID: p.ID, Amount: 100}}); err != nil {
		t.Fatal(err)
	}
	if err := g.PlayAction(ActionStand); err != nil {
		t.Fatal(err)
	}

	// Two player cards, the dealer up card, then the hole card on reveal.
	// The hole card is never published face down.
	if len(dealt) != 4 {
		t.Fatalf("expected 4 dealt events, got %d", len(dealt))
	}
	if dealt[0].Dealer || dealt[1].Dealer {
		t.Error("first two cards belong to the player")
	}
	if !dealt[2].Dealer || !dealt[3].Dealer {
		t.Error("remaining cards belong to the dealer")
	}
}

func TestAbandonRound(t *testing.T) {
	g := New(Config{
		ShoeSource: func() *deck.Shoe {
			shoe, _ := deck.NewScenarioShoe(deck.ScenarioInsuranceNoBJ, 6)
			return shoe
		},
	})
	p, _ := g.AddPlayer("tester", 1000)

	if err := g.AbandonRound(); !errors.Is(err, ErrIllegalState) {
		t.Errorf("expected ErrIllegalState with no round, got %v", err)
	}

	if err := g.StartRound([]Bet{{PlayerID: p.ID, Amount: 100}}); err != nil {
		t.Fatal(err)
	}
	if err := g.TakeInsurance(0); err != nil {
		t.Fatal(err)
	}

	// Both the main bet and the insurance stake come back.
	if err := g.AbandonRound(); err != nil {
		t.Fatal(err)
	}
	if p.Balance() != 1000 {
		t.Errorf("balance = %.2f, want 1000 after refund", p.Balance())
	}
	if g.CurrentRound() != nil {
		t.Error("expected no current round after abandon")
	}
	if g.Stats().RoundsPlayed != 0 {
		t.Errorf("abandoned round must not count, got %d rounds", g.Stats().RoundsPlayed)
	}

	// The session can now end without an illegal-state error.
	if _, err := g.EndSession(); err != nil {
		t.Fatalf("end session after abandon: %v", err)
	}
}

func TestEndSession(t *testing.T) {
	g := New(Config{
		ShoeSource: func() *deck.Shoe {
			shoe, _ := deck.NewScenarioShoe(deck.ScenarioPush, 6)
			return shoe
		},
	})
	p, _ := g.AddPlayer("tester", 1000)

	if err := g.StartRound([]Bet{{PlayerID: p.ID, Amount: 100}}); err != nil {
		t.Fatal(err)
	}
	if _, err := g.EndSession(); !errors.Is(err, ErrIllegalState) {
		t.Errorf("expected ErrIllegalState ending mid-round, got %v", err)
	}

	if err := g.PlayAction(ActionStand); err != nil {
		t.Fatal(err)
	}
	if err := g.CompleteRound(); err != nil {
		t.Fatal(err)
	}

	stats, err := g.EndSession()
	if err != nil {
		t.Fatal(err)
	}
	if stats.RoundsPlayed != 1 {
		t.Errorf("rounds = %d, want 1", stats.RoundsPlayed)
	}

	// The session is frozen afterwards.
	if err := g.StartRound([]Bet{{PlayerID: p.ID, Amount: 100}}); !errors.Is(err, ErrIllegalState) {
		t.Errorf("expected ErrIllegalState after end, got %v", err)
	}
	if _, err := g.AddPlayer("late", 100); !errors.Is(err, ErrIllegalState) {
		t.Errorf("expected ErrIllegalState adding player after end, got %v", err)
	}
}
