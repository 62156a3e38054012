package calculator

import (
	"slices"
	"strings"

	"github.com/splitr/splitr/internal/models"
	"github.com/splitr/splitr/internal/money"
)

// NetPositions returns each user's net position across edges.
// Positive = owed money, negative = owes money.
func NetPositions(edges []models.BalanceEdge) map[string]money.Cents {
	net := make(map[string]money.Cents)
	for _, e := range edges {
		net[e.From] -= e.Amount
		net[e.To] += e.Amount
	}
	return net
}

type position struct {
	code   string
	amount money.Cents // always positive
}

// Simplify replaces edges with an equivalent set of transfers that settles
// every member's net position using few transactions. The largest debtor is
// repeatedly matched with the largest creditor; ties are broken by user code
// so the result is deterministic.
func Simplify(edges []models.BalanceEdge) []models.BalanceEdge {
	var debtors, creditors []position
	for code, amount := range NetPositions(edges) {
		switch {
		case amount < 0:
			debtors = append(debtors, position{code: code, amount: -amount})
		case amount > 0:
			creditors = append(creditors, position{code: code, amount: amount})
		}
	}
	sortPositions(debtors)
	sortPositions(creditors)

	var result []models.BalanceEdge
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := min(debtors[i].amount, creditors[j].amount)
		result = append(result, models.BalanceEdge{
			From:   debtors[i].code,
			To:     creditors[j].code,
			Amount: amount,
		})

		debtors[i].amount -= amount
		creditors[j].amount -= amount
		if debtors[i].amount == 0 {
			i++
		}
		if creditors[j].amount == 0 {
			j++
		}
	}

	SortEdges(result)
	return result
}

func sortPositions(ps []position) {
	slices.SortFunc(ps, func(a, b position) int {
		if a.amount != b.amount {
			if a.amount > b.amount {
				return -1
			}
			return 1
		}
		return strings.Compare(a.code, b.code)
	})
}
