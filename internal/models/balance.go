package models

import "github.com/splitr/splitr/internal/money"

// BalanceEdge states that From owes To Amount. Amount is always positive and
// an edge never points from a user to themself.
type BalanceEdge struct {
	From   string      `json:"fromUserCode"`
	To     string      `json:"toUserCode"`
	Amount money.Cents `json:"amount"`
}
