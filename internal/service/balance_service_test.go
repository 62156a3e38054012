package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/splitr/splitr/internal/calculator"
	"github.com/splitr/splitr/internal/events"
	"github.com/splitr/splitr/internal/money"
	"github.com/splitr/splitr/internal/rpc"
)

func TestGroupBalancesScenarios(t *testing.T) {
	env := setupTestServer(t, calculator.Options{})
	ctx := context.Background()
	a := env.register(t, "alice")
	b := env.register(t, "bob")
	c := env.register(t, "carol")
	groupID := env.groupWith(t, a, b, c)

	// 100.00 paid by A, shared by A, B and C.
	env.expense(t, a, groupID, "100.00", a, b, c)

	got := env.groupBalances(t, b, groupID)
	if len(got.Balances) != 2 {
		t.Fatalf("expected 2 edges, got %+v", got.Balances)
	}
	// The extra cent goes to the lower user code of B and C.
	first, second := b, c
	if c.code < b.code {
		first, second = c, b
	}
	owes := map[string]money.Cents{}
	for _, e := range got.Balances {
		if e.ToUserCode != a.code {
			t.Errorf("edge not owed to creator: %+v", e)
		}
		owes[e.FromUserCode] = e.Amount
	}
	if owes[first.code] != 3334 || owes[second.code] != 3333 {
		t.Errorf("shares: got %v, want %s=33.34 %s=33.33", owes, first.code, second.code)
	}
	for _, m := range got.Members {
		if m.UserCode == a.code && m.TotalOwedTo != 6667 {
			t.Errorf("owed to creator: got %s, want 66.67", m.TotalOwedTo)
		}
	}

	// The payer with the larger share settles exactly.
	_, err := env.ledger.CreatePayment(ctx, authed(&rpc.CreatePaymentRequest{
		GroupID:          groupID,
		ReceiverUserCode: a.code,
		Amount:           decimalOf(t, "33.34"),
	}, first.token))
	if err != nil {
		t.Fatalf("CreatePayment failed: %v", err)
	}

	got = env.groupBalances(t, a, groupID)
	if len(got.Balances) != 1 {
		t.Fatalf("expected 1 edge after payment, got %+v", got.Balances)
	}
	if e := got.Balances[0]; e.FromUserCode != second.code || e.ToUserCode != a.code || e.Amount != 3333 {
		t.Errorf("unexpected remaining edge: %+v", e)
	}

	types := env.publisher.types()
	if len(types) != 2 || types[0] != events.TypeExpenseCreated || types[1] != events.TypePaymentCreated {
		t.Errorf("unexpected events: %v", types)
	}
}

func TestOpposingDebtsNet(t *testing.T) {
	env := setupTestServer(t, calculator.Options{})
	a := env.register(t, "alice")
	b := env.register(t, "bob")
	groupID := env.groupWith(t, a, b)

	// A owes B 20.00, B owes A 5.00.
	env.expense(t, b, groupID, "20.00", a)
	env.expense(t, a, groupID, "5.00", b)

	got := env.groupBalances(t, a, groupID)
	if len(got.Balances) != 1 {
		t.Fatalf("expected a single edge, got %+v", got.Balances)
	}
	if e := got.Balances[0]; e.FromUserCode != a.code || e.ToUserCode != b.code || e.Amount != 1500 {
		t.Errorf("unexpected edge: %+v", e)
	}
}

func TestLedgerValidation(t *testing.T) {
	env := setupTestServer(t, calculator.Options{})
	ctx := context.Background()
	a := env.register(t, "alice")
	b := env.register(t, "bob")
	outsider := env.register(t, "oscar")
	groupID := env.groupWith(t, a, b)

	tests := []struct {
		name string
		call func() error
		want connect.Code
	}{
		{"expense without participants", func() error {
			_, err := env.ledger.CreateExpense(ctx, authed(&rpc.CreateExpenseRequest{
				GroupID: groupID, Amount: decimalOf(t, "10"),
			}, a.token))
			return err
		}, connect.CodeInvalidArgument},
		{"expense with non-member", func() error {
			_, err := env.ledger.CreateExpense(ctx, authed(&rpc.CreateExpenseRequest{
				GroupID: groupID, Amount: decimalOf(t, "10"), MemberUserCodes: []string{a.code, outsider.code},
			}, a.token))
			return err
		}, connect.CodeInvalidArgument},
		{"zero expense", func() error {
			_, err := env.ledger.CreateExpense(ctx, authed(&rpc.CreateExpenseRequest{
				GroupID: groupID, Amount: decimalOf(t, "0.004"), MemberUserCodes: []string{b.code},
			}, a.token))
			return err
		}, connect.CodeInvalidArgument},
		{"expense beyond int64 cents", func() error {
			_, err := env.ledger.CreateExpense(ctx, authed(&rpc.CreateExpenseRequest{
				GroupID: groupID, Amount: decimalOf(t, "184467440737095516.17"), MemberUserCodes: []string{b.code},
			}, a.token))
			return err
		}, connect.CodeInvalidArgument},
		{"payment beyond int64 cents", func() error {
			_, err := env.ledger.CreatePayment(ctx, authed(&rpc.CreatePaymentRequest{
				GroupID: groupID, ReceiverUserCode: b.code, Amount: decimalOf(t, "1e20"),
			}, a.token))
			return err
		}, connect.CodeInvalidArgument},
		{"self payment", func() error {
			_, err := env.ledger.CreatePayment(ctx, authed(&rpc.CreatePaymentRequest{
				GroupID: groupID, ReceiverUserCode: a.code, Amount: decimalOf(t, "5"),
			}, a.token))
			return err
		}, connect.CodeInvalidArgument},
		{"negative payment", func() error {
			_, err := env.ledger.CreatePayment(ctx, authed(&rpc.CreatePaymentRequest{
				GroupID: groupID, ReceiverUserCode: b.code, Amount: decimalOf(t, "-5"),
			}, a.token))
			return err
		}, connect.CodeInvalidArgument},
		{"outsider cannot record", func() error {
			_, err := env.ledger.CreateExpense(ctx, authed(&rpc.CreateExpenseRequest{
				GroupID: groupID, Amount: decimalOf(t, "10"), MemberUserCodes: []string{outsider.code},
			}, outsider.token))
			return err
		}, connect.CodePermissionDenied},
		{"outsider cannot read balances", func() error {
			_, err := env.balances.GetGroupBalances(ctx, authed(&rpc.GetGroupBalancesRequest{GroupID: groupID}, outsider.token))
			return err
		}, connect.CodePermissionDenied},
		{"unknown group", func() error {
			_, err := env.ledger.ListExpenses(ctx, authed(&rpc.ListExpensesRequest{GroupID: "missing"}, a.token))
			return err
		}, connect.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertCode(t, tt.call(), tt.want)
		})
	}

	// Nothing was recorded by the rejected calls.
	expenses, err := env.ledger.ListExpenses(ctx, authed(&rpc.ListExpensesRequest{GroupID: groupID}, a.token))
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(expenses.Msg.Expenses) != 0 {
		t.Errorf("expected no expenses, got %d", len(expenses.Msg.Expenses))
	}
}

func TestListLedger(t *testing.T) {
	env := setupTestServer(t, calculator.Options{})
	ctx := context.Background()
	a := env.register(t, "alice")
	b := env.register(t, "bob")
	groupID := env.groupWith(t, a, b)

	resp, err := env.ledger.CreateExpense(ctx, authed(&rpc.CreateExpenseRequest{
		GroupID: groupID, Title: "Groceries", Amount: decimalOf(t, "12.345"), MemberUserCodes: []string{a.code, b.code},
	}, a.token))
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	// Half-up rounding at ingestion.
	if resp.Msg.Expense.Amount != 1235 {
		t.Errorf("amount: got %s, want 12.35", resp.Msg.Expense.Amount)
	}
	if resp.Msg.Expense.CreatedByUserCode != a.code {
		t.Errorf("creator: got %s, want %s", resp.Msg.Expense.CreatedByUserCode, a.code)
	}

	if _, err := env.ledger.CreatePayment(ctx, authed(&rpc.CreatePaymentRequest{
		GroupID: groupID, ReceiverUserCode: a.code, Amount: decimalOf(t, "6"),
	}, b.token)); err != nil {
		t.Fatalf("CreatePayment failed: %v", err)
	}

	expenses, err := env.ledger.ListExpenses(ctx, authed(&rpc.ListExpensesRequest{GroupID: groupID}, b.token))
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(expenses.Msg.Expenses) != 1 || expenses.Msg.Expenses[0].Title != "Groceries" {
		t.Errorf("unexpected expenses: %+v", expenses.Msg.Expenses)
	}

	payments, err := env.ledger.ListPayments(ctx, authed(&rpc.ListPaymentsRequest{GroupID: groupID}, a.token))
	if err != nil {
		t.Fatalf("ListPayments failed: %v", err)
	}
	if len(payments.Msg.Payments) != 1 || payments.Msg.Payments[0].PayerUserCode != b.code {
		t.Errorf("unexpected payments: %+v", payments.Msg.Payments)
	}
}

func TestUserBalances(t *testing.T) {
	env := setupTestServer(t, calculator.Options{})
	ctx := context.Background()
	a := env.register(t, "alice")
	b := env.register(t, "bob")
	flat := env.groupWith(t, a, b)
	trip := env.groupWith(t, b, a)

	// A is owed 20.00 in one group and owes 5.00 in the other.
	env.expense(t, a, flat, "20.00", b)
	env.expense(t, b, trip, "10.00", a, b)

	resp, err := env.balances.GetUserBalances(ctx, authed(&rpc.GetUserBalancesRequest{}, a.token))
	if err != nil {
		t.Fatalf("GetUserBalances failed: %v", err)
	}
	if resp.Msg.TotalOwedByOthers != 2000 {
		t.Errorf("totalOwedByOthers: got %s, want 20.00", resp.Msg.TotalOwedByOthers)
	}
	if resp.Msg.TotalOwedToOthers != 500 {
		t.Errorf("totalOwedToOthers: got %s, want 5.00", resp.Msg.TotalOwedToOthers)
	}
	if resp.Msg.NetBalance != 1500 {
		t.Errorf("netBalance: got %s, want 15.00", resp.Msg.NetBalance)
	}
	byGroup := map[string]money.Cents{}
	for _, g := range resp.Msg.GroupBalances {
		byGroup[g.GroupID] = g.Balance
	}
	if byGroup[flat] != 2000 || byGroup[trip] != -500 {
		t.Errorf("group balances: got %v", byGroup)
	}
}

func TestSimplifiedBalances(t *testing.T) {
	env := setupTestServer(t, calculator.Options{SimplifyDebts: true})
	a := env.register(t, "alice")
	b := env.register(t, "bob")
	c := env.register(t, "carol")
	groupID := env.groupWith(t, a, b, c)

	// A owes B 10.00 and B owes C 10.00.
	env.expense(t, b, groupID, "10.00", a)
	env.expense(t, c, groupID, "10.00", b)

	got := env.groupBalances(t, a, groupID)
	if !got.Simplified {
		t.Error("expected simplified flag")
	}
	if len(got.Balances) != 1 {
		t.Fatalf("expected a single transfer, got %+v", got.Balances)
	}
	if e := got.Balances[0]; e.FromUserCode != a.code || e.ToUserCode != c.code || e.Amount != 1000 {
		t.Errorf("unexpected transfer: %+v", e)
	}
}
