package game

import "fmt"

// Bankroll funds bets for a player. The engine debits stakes up front and
// credits payouts at settlement; it never adjusts balances out-of-band, so a
// trainer can plug in a virtual bankroll without touching real funds.
type Bankroll interface {
	Balance() float64
	Debit(amount float64) error
	Credit(amount float64)
}

// AccountBankroll is the standard in-memory bankroll backing a player's bank
type AccountBankroll struct {
	balance float64
}

// NewAccountBankroll creates a bankroll with an opening balance
func NewAccountBankroll(balance float64) *AccountBankroll {
	return &AccountBankroll{balance: balance}
}

// Balance returns the available funds
func (b *AccountBankroll) Balance() float64 {
	return b.balance
}

// Debit removes funds, failing without mutation if they are not available
func (b *AccountBankroll) Debit(amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("debit amount %.2f must be positive: %w", amount, ErrValidation)
	}
	if amount > b.balance {
		return fmt.Errorf("debit %.2f exceeds balance %.2f: %w", amount, b.balance, ErrValidation)
	}
	b.balance -= amount
	return nil
}

// Credit adds funds
func (b *AccountBankroll) Credit(amount float64) {
	b.balance += amount
}

// Deposit adds external funds to the account
func (b *AccountBankroll) Deposit(amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("deposit amount %.2f must be positive: %w", amount, ErrValidation)
	}
	b.balance += amount
	return nil
}

// Withdraw removes external funds from the account
func (b *AccountBankroll) Withdraw(amount float64) error {
	return b.Debit(amount)
}

// Player is a seated player with an identity and a bankroll
type Player struct {
	ID       string
	Name     string
	Bankroll Bankroll
}

// Balance returns the player's current bankroll balance
func (p *Player) Balance() float64 {
	return p.Bankroll.Balance()
}
