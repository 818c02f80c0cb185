// Package tui provides an interactive terminal table for playing blackjack
// against the engine, built on Bubble Tea. The model renders a scrolling
// table log, a sidebar with bankroll and shoe state, and an action prompt;
// a bridge drives the engine from the user's input.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/blackjacktrainer/internal/deck"
	"github.com/lox/blackjacktrainer/internal/game"
)

// Model represents the Bubble Tea model for the blackjack table
type Model struct {
	logger *log.Logger

	// UI components
	logViewport viewport.Model
	actionInput textinput.Model

	// State
	tableLog     []string
	actionResult chan ActionResult
	quitSignal   chan bool
	quitting     bool
	focusedPane  int // 0 = log, 1 = input

	// Display state, pushed by the bridge
	balance      float64
	currentBet   float64
	playerCards  []deck.Card
	handValue    int
	handSoft     bool
	dealerUp     *deck.Card
	validActions []game.Action
	isPlayerTurn bool
	sidebarLines []string

	// Dimensions
	width       int
	height      int
	initialized bool

	// Test mode
	testMode    bool
	capturedLog []string
}

// ActionResult represents the result of a user action
type ActionResult struct {
	Action   string
	Args     []string
	Continue bool
	Error    error
}

// QuitMsg is a custom message to signal quit
type QuitMsg struct{}

// NewModel creates a new table model
func NewModel(logger *log.Logger) *Model {
	return NewModelWithOptions(logger, false)
}

// NewModelWithOptions creates a new table model with test mode option
func NewModelWithOptions(logger *log.Logger, testMode bool) *Model {
	// Minimal initial size; WindowSizeMsg resizes it.
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "Enter your bet"
	ti.Focus()
	ti.CharLimit = 40
	ti.Width = 60
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	return &Model{
		logger:       logger.WithPrefix("tui"),
		logViewport:  vp,
		actionInput:  ti,
		tableLog:     []string{},
		actionResult: make(chan ActionResult, 1),
		quitSignal:   make(chan bool, 1),
		focusedPane:  1,
		testMode:     testMode,
		capturedLog:  []string{},
	}
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.listenForQuit())
}

// listenForQuit returns a command that listens for quit signals
func (m *Model) listenForQuit() tea.Cmd {
	return func() tea.Msg {
		<-m.quitSignal
		return QuitMsg{}
	}
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case QuitMsg:
		m.quitting = true
		return m, tea.Sequence(tea.ClearScreen, tea.Quit)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			m.actionResult <- ActionResult{Action: "quit", Continue: false}
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "tab":
			if m.focusedPane == 0 {
				m.focusedPane = 1
				m.actionInput.Focus()
			} else {
				m.focusedPane = 0
				m.actionInput.Blur()
			}
		case "enter":
			if m.focusedPane == 1 {
				input := strings.TrimSpace(m.actionInput.Value())
				m.processAction(input)
				m.actionInput.SetValue("")
			}
		case "up", "k":
			if m.focusedPane == 0 {
				m.logViewport.ScrollUp(1)
			}
		case "down", "j":
			if m.focusedPane == 0 {
				m.logViewport.ScrollDown(1)
			}
		case "pgup":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageUp()
			}
		case "pgdown":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageDown()
			}
		case "home":
			if m.focusedPane == 0 {
				m.logViewport.GotoTop()
			}
		case "end":
			if m.focusedPane == 0 {
				m.logViewport.GotoBottom()
			}
		}
	}

	var cmd tea.Cmd
	if m.focusedPane == 1 {
		m.actionInput, cmd = m.actionInput.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// View renders the table
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	// Action pane (bottom, full width)
	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)
	actionWidth := m.width - 2
	if actionWidth < 1 {
		actionWidth = 1
	}
	innerActionHeight := actionHeight
	if innerActionHeight < 1 {
		innerActionHeight = 1
	}

	actionStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#04B575")).
		Width(actionWidth).
		Height(innerActionHeight)
	actionPane := actionStyle.Render(actionContent)

	// Sidebar (right of log pane)
	sidebarContent := m.renderSidebarPane()
	sidebarWidth := 28
	if w := lipgloss.Width(sidebarContent); w > sidebarWidth {
		sidebarWidth = w
	}
	sidebarHeight := m.height - lipgloss.Height(actionPane) - 2
	if sidebarHeight < 1 {
		sidebarHeight = 1
	}

	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(sidebarWidth).
		Height(sidebarHeight).
		Render(sidebarContent)

	// Log pane (top, fills the rest)
	logWidth := m.width - sidebarWidth - 4
	logHeight := sidebarHeight
	if logWidth < 1 {
		logWidth = 1
	}
	m.logViewport.Width = logWidth
	m.logViewport.Height = logHeight
	m.logViewport.SetContent(strings.Join(m.tableLog, "\n"))

	if !m.initialized && logWidth > 1 && logHeight > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(logWidth).
		Height(logHeight)
	if m.focusedPane == 0 {
		logStyle = logStyle.BorderForeground(lipgloss.Color("#04B575"))
	}
	logPane := logStyle.Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

// renderSidebarPane creates the sidebar content
func (m *Model) renderSidebarPane() string {
	var content strings.Builder

	content.WriteString(WarningStyle.Render(fmt.Sprintf("Balance: $%.2f", m.balance)))
	content.WriteString("\n")
	if m.currentBet > 0 {
		content.WriteString(WarningStyle.Render(fmt.Sprintf("Bet: $%.2f", m.currentBet)))
		content.WriteString("\n")
	}
	content.WriteString("\n")

	for _, line := range m.sidebarLines {
		content.WriteString(InfoStyle.Render(line))
		content.WriteString("\n")
	}

	return content.String()
}

// renderActionPane renders the action input pane
func (m *Model) renderActionPane() string {
	var content strings.Builder

	if m.isPlayerTurn {
		content.WriteString(m.renderHandInfo())
		content.WriteString("\n")
		content.WriteString(m.renderAvailableActions())
		content.WriteString("\n")
	}

	content.WriteString(m.actionInput.View())
	content.WriteString("\n")

	if m.focusedPane == 0 {
		content.WriteString(InfoStyle.Render(
			"Log focused: ↑↓ scroll, PgUp/PgDn half page, Home/End, Tab to input"))
	} else {
		content.WriteString(InfoStyle.Render(
			"Tab to scroll log • Enter to submit • Ctrl+C to quit"))
	}

	return content.String()
}

// renderHandInfo renders the active hand against the dealer's up card
func (m *Model) renderHandInfo() string {
	value := fmt.Sprintf("%d", m.handValue)
	if m.handSoft {
		value = "soft " + value
	}
	info := fmt.Sprintf("Hand: %s (%s)", m.FormatCards(m.playerCards), value)
	if m.dealerUp != nil {
		info += fmt.Sprintf("  Dealer: %s", m.FormatCards([]deck.Card{*m.dealerUp}))
	}
	return HandInfoStyle.Render(info)
}

// renderAvailableActions renders the legal actions for the active hand
func (m *Model) renderAvailableActions() string {
	var actions []string
	for _, a := range m.validActions {
		switch a {
		case game.ActionHit:
			actions = append(actions, SuccessStyle.Render("[h]it"))
		case game.ActionStand:
			actions = append(actions, SuccessStyle.Render("[s]tand"))
		case game.ActionDouble:
			actions = append(actions, WarningStyle.Render("[d]ouble"))
		case game.ActionSplit:
			actions = append(actions, WarningStyle.Render("s[p]lit"))
		case game.ActionSurrender:
			actions = append(actions, ErrorStyle.Render("su[r]render"))
		}
	}
	if len(actions) == 0 {
		actions = append(actions, ErrorStyle.Render("[no actions available]"))
	}
	return ActionsStyle.Render("Actions: " + strings.Join(actions, " "))
}

// FormatCards formats cards with red/black colouring
func (m *Model) FormatCards(cards []deck.Card) string {
	if len(cards) == 0 {
		return ""
	}
	var formatted []string
	for _, card := range cards {
		if card.IsRed() {
			formatted = append(formatted, RedCardStyle.Render(card.String()))
		} else {
			formatted = append(formatted, BlackCardStyle.Render(card.String()))
		}
	}
	return "[" + strings.Join(formatted, " ") + "]"
}

// AddLogEntry adds an entry to the table log
func (m *Model) AddLogEntry(entry string) {
	m.tableLog = append(m.tableLog, entry)

	if m.testMode {
		m.capturedLog = append(m.capturedLog, entry)
		return
	}

	m.logViewport.SetContent(strings.Join(m.tableLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// ClearLog clears the table log
func (m *Model) ClearLog() {
	m.tableLog = []string{}
	m.logViewport.SetContent("")
}

// SetPrompt sets the input placeholder for the current question
func (m *Model) SetPrompt(prompt string) {
	m.actionInput.Placeholder = prompt
}

// UpdateBalance updates the displayed bankroll balance
func (m *Model) UpdateBalance(balance float64) {
	m.balance = balance
}

// UpdateBet updates the displayed bet amount
func (m *Model) UpdateBet(bet float64) {
	m.currentBet = bet
}

// UpdateSidebar replaces the free-form sidebar lines (shoe state, session
// stats, trainer feedback).
func (m *Model) UpdateSidebar(lines []string) {
	m.sidebarLines = lines
}

// SetPlayerTurn pushes the active hand state for the action pane
func (m *Model) SetPlayerTurn(cards []deck.Card, value int, soft bool, dealerUp *deck.Card, actions []game.Action) {
	m.isPlayerTurn = true
	m.playerCards = cards
	m.handValue = value
	m.handSoft = soft
	m.dealerUp = dealerUp
	m.validActions = actions
}

// ClearPlayerTurn clears the active hand display between decisions
func (m *Model) ClearPlayerTurn() {
	m.isPlayerTurn = false
	m.playerCards = nil
	m.dealerUp = nil
	m.validActions = nil
}

// processAction parses user input and hands it to the bridge
func (m *Model) processAction(input string) {
	parts := strings.Fields(strings.ToLower(input))

	var action string
	var args []string
	if len(parts) > 0 {
		action = parts[0]
		args = parts[1:]
	}

	m.actionResult <- ActionResult{
		Action:   action,
		Args:     args,
		Continue: true,
	}
}

// WaitForAction blocks until the user submits input
func (m *Model) WaitForAction() (string, []string, bool, error) {
	result := <-m.actionResult
	return result.Action, result.Args, result.Continue, result.Error
}

// SendQuitSignal signals the model to quit gracefully
func (m *Model) SendQuitSignal() {
	select {
	case m.quitSignal <- true:
	default:
	}
}

// GetCapturedLog returns the captured log entries (test mode only)
func (m *Model) GetCapturedLog() []string {
	if !m.testMode {
		return nil
	}
	result := make([]string, len(m.capturedLog))
	copy(result, m.capturedLog)
	return result
}

// InjectAction programmatically injects an action (test mode only)
func (m *Model) InjectAction(action string, args []string) error {
	if !m.testMode {
		return fmt.Errorf("action injection only available in test mode")
	}
	select {
	case m.actionResult <- ActionResult{Action: action, Args: args, Continue: true}:
		return nil
	default:
		return fmt.Errorf("action channel full")
	}
}

// IsTestMode returns whether the model is in test mode
func (m *Model) IsTestMode() bool {
	return m.testMode
}
