package models

import (
	"slices"
	"strings"

	"github.com/splitr/splitr/internal/money"
)

// Expense is money the creator paid that is shared by the participants.
// The creator need not be a participant.
type Expense struct {
	ID      string
	GroupID string
	Title   string

	// Amount is the total paid, always positive.
	Amount money.Cents

	// CreatedBy is the user code of the member who paid.
	CreatedBy string

	// Participants holds the user codes sharing the cost (at least one).
	Participants []string

	CreatedAt int64
}

// Payment records money that already moved from Payer to Receiver.
type Payment struct {
	ID       string
	GroupID  string
	Payer    string
	Receiver string
	Amount   money.Cents
	PaidAt   int64
}

// Ledger is a point-in-time snapshot of one group's expenses and payments.
type Ledger struct {
	GroupID  string
	Expenses []Expense
	Payments []Payment
}

// Sorted returns a copy of the ledger with expenses ordered by creation time
// and payments by payment time, ties broken by record ID. Folding a sorted
// ledger is reproducible regardless of the order storage returned rows in.
func (l *Ledger) Sorted() *Ledger {
	out := &Ledger{
		GroupID:  l.GroupID,
		Expenses: slices.Clone(l.Expenses),
		Payments: slices.Clone(l.Payments),
	}
	slices.SortStableFunc(out.Expenses, func(a, b Expense) int {
		if a.CreatedAt != b.CreatedAt {
			return compareInt64(a.CreatedAt, b.CreatedAt)
		}
		return strings.Compare(a.ID, b.ID)
	})
	slices.SortStableFunc(out.Payments, func(a, b Payment) int {
		if a.PaidAt != b.PaidAt {
			return compareInt64(a.PaidAt, b.PaidAt)
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
