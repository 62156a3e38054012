package calculator

import (
	"github.com/splitr/splitr/internal/models"
	"github.com/splitr/splitr/internal/money"
)

// MemberBalance aggregates the edges touching one user.
type MemberBalance struct {
	UserCode string
	// OwedBy is what the user owes others.
	OwedBy money.Cents
	// OwedTo is what others owe the user.
	OwedTo money.Cents
	// Net = OwedTo - OwedBy. Positive means the user is owed money.
	Net money.Cents
}

// Add accumulates another balance for the same user.
func (m MemberBalance) Add(other MemberBalance) MemberBalance {
	return MemberBalance{
		UserCode: m.UserCode,
		OwedBy:   m.OwedBy + other.OwedBy,
		OwedTo:   m.OwedTo + other.OwedTo,
		Net:      m.Net + other.Net,
	}
}

// TotalOwedBy sums the edges where user is the debtor.
func TotalOwedBy(edges []models.BalanceEdge, user string) money.Cents {
	var total money.Cents
	for _, e := range edges {
		if e.From == user {
			total += e.Amount
		}
	}
	return total
}

// TotalOwedTo sums the edges where user is the creditor.
func TotalOwedTo(edges []models.BalanceEdge, user string) money.Cents {
	var total money.Cents
	for _, e := range edges {
		if e.To == user {
			total += e.Amount
		}
	}
	return total
}

// SummarizeMember derives a user's aggregates from edges.
func SummarizeMember(edges []models.BalanceEdge, user string) MemberBalance {
	owedBy := TotalOwedBy(edges, user)
	owedTo := TotalOwedTo(edges, user)
	return MemberBalance{
		UserCode: user,
		OwedBy:   owedBy,
		OwedTo:   owedTo,
		Net:      owedTo - owedBy,
	}
}

// SummarizeMembers returns one MemberBalance per member, in member order.
func SummarizeMembers(edges []models.BalanceEdge, members []string) []MemberBalance {
	out := make([]MemberBalance, len(members))
	for i, m := range members {
		out[i] = SummarizeMember(edges, m)
	}
	return out
}
