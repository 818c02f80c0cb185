package game

import (
	"errors"
	"testing"
)

func TestAccountBankroll(t *testing.T) {
	b := NewAccountBankroll(100)

	if err := b.Debit(40); err != nil {
		t.Fatalf("debit failed: %v", err)
	}
	if b.Balance() != 60 {
		t.Errorf("balance = %.2f, want 60", b.Balance())
	}

	b.Credit(25)
	if b.Balance() != 85 {
		t.Errorf("balance = %.2f, want 85", b.Balance())
	}
}

func TestAccountBankrollDebitErrors(t *testing.T) {
	b := NewAccountBankroll(50)

	err := b.Debit(51)
	if !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for overdraft, got %v", err)
	}
	if b.Balance() != 50 {
		t.Errorf("failed debit must not mutate balance, got %.2f", b.Balance())
	}

	if err := b.Debit(0); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for zero debit, got %v", err)
	}
	if err := b.Debit(-10); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for negative debit, got %v", err)
	}
}

func TestAccountBankrollDepositWithdraw(t *testing.T) {
	b := NewAccountBankroll(0)

	if err := b.Deposit(200); err != nil {
		t.Fatal(err)
	}
	if err := b.Withdraw(80); err != nil {
		t.Fatal(err)
	}
	if b.Balance() != 120 {
		t.Errorf("balance = %.2f, want 120", b.Balance())
	}

	if err := b.Deposit(-5); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for negative deposit, got %v", err)
	}
}
