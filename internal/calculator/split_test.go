package calculator

import (
	"errors"
	"testing"

	"github.com/splitr/splitr/internal/models"
	"github.com/splitr/splitr/internal/money"
)

func memberSet(codes ...string) map[string]bool {
	set := make(map[string]bool, len(codes))
	for _, c := range codes {
		set[c] = true
	}
	return set
}

func TestSplitExpense(t *testing.T) {
	members := memberSet("A", "B", "C", "D")

	tests := []struct {
		name         string
		expense      models.Expense
		wantErr      error
		validateFunc func(t *testing.T, shares []Share)
	}{
		{
			name: "three-way split gives the extra cent to the first non-creator",
			expense: models.Expense{
				ID: "e1", Amount: 10000, CreatedBy: "A",
				Participants: []string{"C", "A", "B"},
			},
			validateFunc: func(t *testing.T, shares []Share) {
				want := []Share{
					{Debtor: "B", Creditor: "A", Amount: 3334},
					{Debtor: "C", Creditor: "A", Amount: 3333},
				}
				assertShares(t, shares, want)
			},
		},
		{
			name: "even split",
			expense: models.Expense{
				ID: "e2", Amount: 9000, CreatedBy: "B",
				Participants: []string{"A", "B", "C"},
			},
			validateFunc: func(t *testing.T, shares []Share) {
				assertShares(t, shares, []Share{
					{Debtor: "A", Creditor: "B", Amount: 3000},
					{Debtor: "C", Creditor: "B", Amount: 3000},
				})
			},
		},
		{
			name: "creator not participating pays for everyone",
			expense: models.Expense{
				ID: "e3", Amount: 1001, CreatedBy: "D",
				Participants: []string{"A", "B"},
			},
			validateFunc: func(t *testing.T, shares []Share) {
				assertShares(t, shares, []Share{
					{Debtor: "A", Creditor: "D", Amount: 501},
					{Debtor: "B", Creditor: "D", Amount: 500},
				})
			},
		},
		{
			name: "creator alone owes nothing",
			expense: models.Expense{
				ID: "e4", Amount: 500, CreatedBy: "A",
				Participants: []string{"A"},
			},
			validateFunc: func(t *testing.T, shares []Share) {
				if len(shares) != 0 {
					t.Errorf("expected no shares, got %v", shares)
				}
			},
		},
		{
			name: "amount smaller than participant count drops zero shares",
			expense: models.Expense{
				ID: "e5", Amount: 2, CreatedBy: "A",
				Participants: []string{"A", "B", "C", "D"},
			},
			validateFunc: func(t *testing.T, shares []Share) {
				assertShares(t, shares, []Share{
					{Debtor: "B", Creditor: "A", Amount: 1},
					{Debtor: "C", Creditor: "A", Amount: 1},
				})
			},
		},
		{
			name:    "no participants",
			expense: models.Expense{ID: "e6", Amount: 100, CreatedBy: "A"},
			wantErr: models.ErrInvalidExpense,
		},
		{
			name:    "zero amount",
			expense: models.Expense{ID: "e7", Amount: 0, CreatedBy: "A", Participants: []string{"B"}},
			wantErr: models.ErrInvalidExpense,
		},
		{
			name:    "negative amount",
			expense: models.Expense{ID: "e8", Amount: -100, CreatedBy: "A", Participants: []string{"B"}},
			wantErr: models.ErrInvalidExpense,
		},
		{
			name:    "participant outside group",
			expense: models.Expense{ID: "e9", Amount: 100, CreatedBy: "A", Participants: []string{"Z"}},
			wantErr: models.ErrInvalidExpense,
		},
		{
			name:    "creator outside group",
			expense: models.Expense{ID: "e10", Amount: 100, CreatedBy: "Z", Participants: []string{"A"}},
			wantErr: models.ErrInvalidExpense,
		},
		{
			name:    "duplicate participant",
			expense: models.Expense{ID: "e11", Amount: 100, CreatedBy: "A", Participants: []string{"B", "B"}},
			wantErr: models.ErrInvalidExpense,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := SplitExpense(tt.expense, members)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("SplitExpense() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("SplitExpense() unexpected error: %v", err)
			}
			tt.validateFunc(t, shares)
		})
	}
}

func TestSplitExpenseExactness(t *testing.T) {
	participants := []string{"A", "B", "C", "D", "E", "F", "G"}
	members := memberSet(participants...)

	for amount := money.Cents(1); amount <= 2000; amount += 7 {
		for n := 1; n <= len(participants); n++ {
			e := models.Expense{
				ID:           "e",
				Amount:       amount,
				CreatedBy:    "A",
				Participants: participants[:n],
			}
			shares, err := SplitExpense(e, members)
			if err != nil {
				t.Fatalf("amount %s, %d participants: %v", amount, n, err)
			}

			// The creator's share is whatever the others do not cover.
			var others money.Cents
			for _, s := range shares {
				others += s.Amount
			}
			creatorShare := amount - others
			base := amount / money.Cents(n)
			if creatorShare < base || creatorShare > base+1 {
				t.Fatalf("amount %s, %d participants: creator share %s outside [%s, %s]",
					amount, n, creatorShare, base, base+1)
			}
			for _, s := range shares {
				if s.Amount < base || s.Amount > base+1 {
					t.Fatalf("amount %s: share %s outside [%s, %s]", amount, s.Amount, base, base+1)
				}
			}
		}
	}
}

func TestRecordErrorCarriesRecordID(t *testing.T) {
	_, err := SplitExpense(models.Expense{ID: "exp-42", Amount: 100, CreatedBy: "A"}, memberSet("A"))
	var recErr *models.RecordError
	if !errors.As(err, &recErr) {
		t.Fatalf("expected *models.RecordError, got %T", err)
	}
	if recErr.RecordID != "exp-42" {
		t.Errorf("RecordID = %q, want exp-42", recErr.RecordID)
	}
}

func assertShares(t *testing.T, got, want []Share) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d shares %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("share %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
