package calculator

import (
	"fmt"
	"slices"

	"github.com/splitr/splitr/internal/models"
	"github.com/splitr/splitr/internal/money"
)

// Share is one participant's portion of an expense, owed to whoever paid.
type Share struct {
	Debtor   string
	Creditor string
	Amount   money.Cents
}

// SplitExpense divides an expense equally among its participants in minor
// units and returns what each participant owes the creator.
//
// When the amount does not divide evenly, the remaining cents are handed out
// one at a time in remainder order: participants other than the creator
// ascending by user code, then the creator. 100.00 paid by A and shared by
// A, B and C therefore yields B owes A 33.34 and C owes A 33.33.
//
// The creator's own share is not returned, nor are zero shares.
func SplitExpense(e models.Expense, members map[string]bool) ([]Share, error) {
	if err := ValidateExpense(e, members); err != nil {
		return nil, err
	}

	order := remainderOrder(e.Participants, e.CreatedBy)
	n := int64(len(order))
	base := int64(e.Amount) / n
	extra := int64(e.Amount) % n

	shares := make([]Share, 0, len(order))
	var total money.Cents
	for i, participant := range order {
		amount := money.Cents(base)
		if int64(i) < extra {
			amount++
		}
		total += amount
		if participant == e.CreatedBy || amount == 0 {
			continue
		}
		shares = append(shares, Share{
			Debtor:   participant,
			Creditor: e.CreatedBy,
			Amount:   amount,
		})
	}

	if total != e.Amount {
		return nil, &models.RecordError{
			Kind:     models.ErrArithmeticInconsistency,
			RecordID: e.ID,
			Reason:   fmt.Sprintf("shares total %s, expense amount %s", total, e.Amount),
		}
	}
	return shares, nil
}

// remainderOrder lists participants other than the creator in ascending
// code order, followed by the creator if they participate.
func remainderOrder(participants []string, creator string) []string {
	order := make([]string, 0, len(participants))
	creatorParticipates := false
	for _, p := range participants {
		if p == creator {
			creatorParticipates = true
			continue
		}
		order = append(order, p)
	}
	slices.Sort(order)
	if creatorParticipates {
		order = append(order, creator)
	}
	return order
}
