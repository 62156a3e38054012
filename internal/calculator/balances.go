package calculator

import (
	"slices"
	"strings"

	"github.com/splitr/splitr/internal/models"
	"github.com/splitr/splitr/internal/money"
)

// Pair is an unordered pair of users, stored with Low < High.
type Pair struct {
	Low  string
	High string
}

// PairBalances holds one signed amount per pair of users. A positive value
// means Low owes High; a negative value means High owes Low. Keeping a single
// scalar per pair makes opposite edges for the same pair unrepresentable.
type PairBalances map[Pair]money.Cents

// Owe records that debtor owes creditor amount. A negative amount reduces the debt.
func (pb PairBalances) Owe(debtor, creditor string, amount money.Cents) {
	if debtor < creditor {
		pb[Pair{Low: debtor, High: creditor}] += amount
	} else {
		pb[Pair{Low: creditor, High: debtor}] -= amount
	}
}

func (pb PairBalances) prune() {
	for pair, amount := range pb {
		if amount == 0 {
			delete(pb, pair)
		}
	}
}

// Options controls how balances are reduced to edges.
type Options struct {
	// SimplifyDebts replaces direct pairwise netting with a minimal set of
	// transfers over each member's net position. It can change who pays
	// whom, so it is opt-in.
	SimplifyDebts bool
}

// Aggregate folds every expense share and payment of the ledger into pair
// balances. Expenses are folded before payments, each in timestamp order.
// The first invalid record aborts the whole computation.
func Aggregate(ledger *models.Ledger, members map[string]bool) (PairBalances, error) {
	sorted := ledger.Sorted()
	balances := make(PairBalances)

	for _, e := range sorted.Expenses {
		shares, err := SplitExpense(e, members)
		if err != nil {
			return nil, err
		}
		for _, s := range shares {
			balances.Owe(s.Debtor, s.Creditor, s.Amount)
		}
	}

	for _, p := range sorted.Payments {
		if err := ValidatePayment(p, members); err != nil {
			return nil, err
		}
		// Paying someone reduces what the payer owes them.
		balances.Owe(p.Payer, p.Receiver, -p.Amount)
	}

	balances.prune()
	return balances, nil
}

// Reduce turns pair balances into balance edges, one per nonzero pair,
// pointing from debtor to creditor, sorted by (From, To).
func Reduce(balances PairBalances) []models.BalanceEdge {
	edges := make([]models.BalanceEdge, 0, len(balances))
	for pair, amount := range balances {
		switch {
		case amount > 0:
			edges = append(edges, models.BalanceEdge{From: pair.Low, To: pair.High, Amount: amount})
		case amount < 0:
			edges = append(edges, models.BalanceEdge{From: pair.High, To: pair.Low, Amount: -amount})
		}
	}
	SortEdges(edges)
	return edges
}

// SortEdges puts edges in canonical (From, To) order.
func SortEdges(edges []models.BalanceEdge) {
	slices.SortFunc(edges, func(a, b models.BalanceEdge) int {
		if c := strings.Compare(a.From, b.From); c != 0 {
			return c
		}
		return strings.Compare(a.To, b.To)
	})
}

// CalculateGroupBalances computes the balance edges of one group's ledger.
//
// Algorithm:
//   - each expense is split into shares owed to its creator
//   - shares and payments accumulate into one signed amount per user pair
//   - each nonzero pair becomes a single edge (or, with SimplifyDebts, the
//     member net positions are matched greedily)
func CalculateGroupBalances(ledger *models.Ledger, members map[string]bool, opts Options) ([]models.BalanceEdge, error) {
	balances, err := Aggregate(ledger, members)
	if err != nil {
		return nil, err
	}
	edges := Reduce(balances)
	if opts.SimplifyDebts {
		edges = Simplify(edges)
	}
	return edges, nil
}
