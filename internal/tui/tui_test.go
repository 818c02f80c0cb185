package tui

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjacktrainer/internal/deck"
	"github.com/lox/blackjacktrainer/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTUITestMode(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel}) // Quiet logger for tests

	t.Run("test mode captures log entries", func(t *testing.T) {
		m := NewModelWithOptions(logger, true)

		assert.True(t, m.IsTestMode())
		assert.Empty(t, m.GetCapturedLog())

		m.AddLogEntry("You: [As Kd]")
		m.AddLogEntry("Dealer: [9h]")

		captured := m.GetCapturedLog()
		require.Len(t, captured, 2)
		assert.Equal(t, "You: [As Kd]", captured[0])
		assert.Equal(t, "Dealer: [9h]", captured[1])
	})

	t.Run("production mode does not capture logs", func(t *testing.T) {
		m := NewModel(logger) // Default is production mode

		assert.False(t, m.IsTestMode())

		m.AddLogEntry("Some log entry")

		// Should return nil in production mode
		assert.Nil(t, m.GetCapturedLog())
	})

	t.Run("action injection works in test mode", func(t *testing.T) {
		m := NewModelWithOptions(logger, true)

		err := m.InjectAction("h", nil)
		require.NoError(t, err)

		action, args, cont, err := m.WaitForAction()
		require.NoError(t, err)

		assert.Equal(t, "h", action)
		assert.Empty(t, args)
		assert.True(t, cont)
	})

	t.Run("action injection fails in production mode", func(t *testing.T) {
		m := NewModel(logger) // Production mode

		err := m.InjectAction("h", nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "test mode")
	})

	t.Run("action injection with arguments", func(t *testing.T) {
		m := NewModelWithOptions(logger, true)

		err := m.InjectAction("bet", []string{"25"})
		require.NoError(t, err)

		action, args, cont, err := m.WaitForAction()
		require.NoError(t, err)

		assert.Equal(t, "bet", action)
		assert.Equal(t, []string{"25"}, args)
		assert.True(t, cont)
	})
}

func TestFormatCards(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	m := NewModelWithOptions(logger, true)

	assert.Equal(t, "", m.FormatCards(nil))

	// Styles render as plain text without a TTY; check the bracket framing.
	out := m.FormatCards(deck.MustParseCards("AsKd"))
	assert.Contains(t, out, "A♠")
	assert.Contains(t, out, "K♦")
	assert.Equal(t, byte('['), out[0])
	assert.Equal(t, byte(']'), out[len(out)-1])
}

func TestPlayerTurnState(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	m := NewModelWithOptions(logger, true)

	up := deck.NewCard(deck.Diamonds, deck.Six)
	m.SetPlayerTurn(deck.MustParseCards("Ts6h"), 16, false, &up,
		[]game.Action{game.ActionHit, game.ActionStand, game.ActionSurrender})

	info := m.renderHandInfo()
	assert.Contains(t, info, "16")
	assert.Contains(t, info, "Dealer")

	actions := m.renderAvailableActions()
	assert.Contains(t, actions, "[h]it")
	assert.Contains(t, actions, "[s]tand")
	assert.Contains(t, actions, "su[r]render")
	assert.NotContains(t, actions, "[d]ouble")

	m.ClearPlayerTurn()
	assert.False(t, m.isPlayerTurn)
	assert.Nil(t, m.validActions)
}

func TestSoftHandDisplay(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	m := NewModelWithOptions(logger, true)

	m.SetPlayerTurn(deck.MustParseCards("As6h"), 17, true, nil, []game.Action{game.ActionHit})
	assert.Contains(t, m.renderHandInfo(), "soft 17")
}
