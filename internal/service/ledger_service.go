package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/splitr/splitr/internal/calculator"
	"github.com/splitr/splitr/internal/events"
	"github.com/splitr/splitr/internal/models"
	"github.com/splitr/splitr/internal/money"
	"github.com/splitr/splitr/internal/rpc"
	"github.com/splitr/splitr/internal/storage"
)

// LedgerService implements the Connect LedgerService: recording and
// listing a group's expenses and payments.
type LedgerService struct {
	store     storage.Store
	rounding  money.Rounding
	publisher events.Publisher
}

var _ rpc.LedgerServiceHandler = (*LedgerService)(nil)

// NewLedgerService creates a LedgerService. Request amounts are rounded to
// cents with rounding.
func NewLedgerService(store storage.Store, rounding money.Rounding, publisher events.Publisher) *LedgerService {
	return &LedgerService{store: store, rounding: rounding, publisher: publisher}
}

// CreateExpense records an expense paid by the caller and shared by the
// listed members.
func (s *LedgerService) CreateExpense(ctx context.Context, req *connect.Request[rpc.CreateExpenseRequest]) (*connect.Response[rpc.CreateExpenseResponse], error) {
	session, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateExpense request received",
		"group_id", req.Msg.GroupID,
		"amount", req.Msg.Amount.String(),
		"participants_count", len(req.Msg.MemberUserCodes),
	)

	group, err := memberGroup(ctx, s.store, req.Msg.GroupID, session.UserCode)
	if err != nil {
		return nil, toConnectError(err)
	}

	amount, err := money.FromDecimal(req.Msg.Amount, s.rounding)
	if err != nil {
		return nil, toConnectError(models.InvalidExpense("", "%v", err))
	}
	expense := models.Expense{
		GroupID:      group.ID,
		Title:        strings.TrimSpace(req.Msg.Title),
		Amount:       amount,
		CreatedBy:    session.UserCode,
		Participants: normalizeCodes(req.Msg.MemberUserCodes),
	}
	// Same rules the balance computation applies, checked before the write.
	if err := calculator.ValidateExpense(expense, group.MemberSet()); err != nil {
		slog.Warn("CreateExpense rejected", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	if err := s.store.CreateExpense(ctx, &expense); err != nil {
		slog.Error("CreateExpense failed", "error", err)
		return nil, toConnectError(err)
	}

	events.PublishBestEffort(ctx, s.publisher,
		events.New(events.TypeExpenseCreated, group.ID, expense.ID, session.UserCode, expense.Amount))

	slog.Info("Expense created", "expense_id", expense.ID, "group_id", group.ID, "title", expense.Title)
	return connect.NewResponse(&rpc.CreateExpenseResponse{Expense: expenseToRPC(&expense)}), nil
}

// ListExpenses returns a group's expenses, newest first.
func (s *LedgerService) ListExpenses(ctx context.Context, req *connect.Request[rpc.ListExpensesRequest]) (*connect.Response[rpc.ListExpensesResponse], error) {
	session, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := memberGroup(ctx, s.store, req.Msg.GroupID, session.UserCode); err != nil {
		return nil, toConnectError(err)
	}

	expenses, err := s.store.ListExpensesByGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("ListExpenses failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}
	out := make([]*rpc.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = expenseToRPC(e)
	}

	slog.Info("ListExpenses successful", "group_id", req.Msg.GroupID, "count", len(out))
	return connect.NewResponse(&rpc.ListExpensesResponse{Expenses: out}), nil
}

// CreatePayment records money the caller already paid to another member.
func (s *LedgerService) CreatePayment(ctx context.Context, req *connect.Request[rpc.CreatePaymentRequest]) (*connect.Response[rpc.CreatePaymentResponse], error) {
	session, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreatePayment request received",
		"group_id", req.Msg.GroupID,
		"receiver", req.Msg.ReceiverUserCode,
		"amount", req.Msg.Amount.String(),
	)

	group, err := memberGroup(ctx, s.store, req.Msg.GroupID, session.UserCode)
	if err != nil {
		return nil, toConnectError(err)
	}

	amount, err := money.FromDecimal(req.Msg.Amount, s.rounding)
	if err != nil {
		return nil, toConnectError(models.InvalidPayment("", "%v", err))
	}
	payment := models.Payment{
		GroupID:  group.ID,
		Payer:    session.UserCode,
		Receiver: strings.ToUpper(strings.TrimSpace(req.Msg.ReceiverUserCode)),
		Amount:   amount,
	}
	if err := calculator.ValidatePayment(payment, group.MemberSet()); err != nil {
		slog.Warn("CreatePayment rejected", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	if err := s.store.CreatePayment(ctx, &payment); err != nil {
		slog.Error("CreatePayment failed", "error", err)
		return nil, toConnectError(err)
	}

	events.PublishBestEffort(ctx, s.publisher,
		events.New(events.TypePaymentCreated, group.ID, payment.ID, session.UserCode, payment.Amount))

	slog.Info("Payment created", "payment_id", payment.ID, "group_id", group.ID)
	return connect.NewResponse(&rpc.CreatePaymentResponse{Payment: paymentToRPC(&payment)}), nil
}

// ListPayments returns a group's payments, newest first.
func (s *LedgerService) ListPayments(ctx context.Context, req *connect.Request[rpc.ListPaymentsRequest]) (*connect.Response[rpc.ListPaymentsResponse], error) {
	session, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := memberGroup(ctx, s.store, req.Msg.GroupID, session.UserCode); err != nil {
		return nil, toConnectError(err)
	}

	payments, err := s.store.ListPaymentsByGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("ListPayments failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}
	out := make([]*rpc.Payment, len(payments))
	for i, p := range payments {
		out[i] = paymentToRPC(p)
	}
	return connect.NewResponse(&rpc.ListPaymentsResponse{Payments: out}), nil
}

// normalizeCodes upper-cases and trims user codes, dropping blanks.
func normalizeCodes(codes []string) []string {
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		if c = strings.ToUpper(strings.TrimSpace(c)); c != "" {
			out = append(out, c)
		}
	}
	return out
}
