package calculator

import (
	"github.com/splitr/splitr/internal/models"
)

// ValidateExpense checks an expense against the group's current members.
func ValidateExpense(e models.Expense, members map[string]bool) error {
	if e.Amount <= 0 {
		return models.InvalidExpense(e.ID, "amount must be positive, got %s", e.Amount)
	}
	if len(e.Participants) == 0 {
		return models.InvalidExpense(e.ID, "at least one participant required")
	}
	if e.CreatedBy == "" || !members[e.CreatedBy] {
		return models.InvalidExpense(e.ID, "creator %q is not a group member", e.CreatedBy)
	}
	seen := make(map[string]bool, len(e.Participants))
	for _, p := range e.Participants {
		if !members[p] {
			return models.InvalidExpense(e.ID, "participant %q is not a group member", p)
		}
		if seen[p] {
			return models.InvalidExpense(e.ID, "participant %q listed twice", p)
		}
		seen[p] = true
	}
	return nil
}

// ValidatePayment checks a payment against the group's current members.
func ValidatePayment(p models.Payment, members map[string]bool) error {
	if p.Amount <= 0 {
		return models.InvalidPayment(p.ID, "amount must be positive, got %s", p.Amount)
	}
	if p.Payer == p.Receiver {
		return models.InvalidPayment(p.ID, "payer and receiver are both %q", p.Payer)
	}
	if !members[p.Payer] {
		return models.InvalidPayment(p.ID, "payer %q is not a group member", p.Payer)
	}
	if !members[p.Receiver] {
		return models.InvalidPayment(p.ID, "receiver %q is not a group member", p.Receiver)
	}
	return nil
}

// ValidateLedger checks every record, failing on the first bad one.
func ValidateLedger(l *models.Ledger, members map[string]bool) error {
	for _, e := range l.Expenses {
		if err := ValidateExpense(e, members); err != nil {
			return err
		}
	}
	for _, p := range l.Payments {
		if err := ValidatePayment(p, members); err != nil {
			return err
		}
	}
	return nil
}
