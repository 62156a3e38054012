package rpc

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// LedgerServiceName is the fully-qualified name of the LedgerService.
const LedgerServiceName = "splitr.v1.LedgerService"

// Procedure paths of the LedgerService.
const (
	LedgerServiceCreateExpenseProcedure = "/splitr.v1.LedgerService/CreateExpense"
	LedgerServiceListExpensesProcedure  = "/splitr.v1.LedgerService/ListExpenses"
	LedgerServiceCreatePaymentProcedure = "/splitr.v1.LedgerService/CreatePayment"
	LedgerServiceListPaymentsProcedure  = "/splitr.v1.LedgerService/ListPayments"
)

// LedgerServiceHandler serves expenses and payments of a group.
type LedgerServiceHandler interface {
	CreateExpense(context.Context, *connect.Request[CreateExpenseRequest]) (*connect.Response[CreateExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error)
	CreatePayment(context.Context, *connect.Request[CreatePaymentRequest]) (*connect.Response[CreatePaymentResponse], error)
	ListPayments(context.Context, *connect.Request[ListPaymentsRequest]) (*connect.Response[ListPaymentsResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler for the service; mount it at the returned path.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + LedgerServiceName + "/", serviceMux(map[string]http.Handler{
		LedgerServiceCreateExpenseProcedure: connect.NewUnaryHandler(LedgerServiceCreateExpenseProcedure, svc.CreateExpense, opts...),
		LedgerServiceListExpensesProcedure:  connect.NewUnaryHandler(LedgerServiceListExpensesProcedure, svc.ListExpenses, opts...),
		LedgerServiceCreatePaymentProcedure: connect.NewUnaryHandler(LedgerServiceCreatePaymentProcedure, svc.CreatePayment, opts...),
		LedgerServiceListPaymentsProcedure:  connect.NewUnaryHandler(LedgerServiceListPaymentsProcedure, svc.ListPayments, opts...),
	})
}

// UnimplementedLedgerServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedLedgerServiceHandler struct{}

func (UnimplementedLedgerServiceHandler) CreateExpense(context.Context, *connect.Request[CreateExpenseRequest]) (*connect.Response[CreateExpenseResponse], error) {
	return nil, unimplemented(LedgerServiceCreateExpenseProcedure)
}

func (UnimplementedLedgerServiceHandler) ListExpenses(context.Context, *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error) {
	return nil, unimplemented(LedgerServiceListExpensesProcedure)
}

func (UnimplementedLedgerServiceHandler) CreatePayment(context.Context, *connect.Request[CreatePaymentRequest]) (*connect.Response[CreatePaymentResponse], error) {
	return nil, unimplemented(LedgerServiceCreatePaymentProcedure)
}

func (UnimplementedLedgerServiceHandler) ListPayments(context.Context, *connect.Request[ListPaymentsRequest]) (*connect.Response[ListPaymentsResponse], error) {
	return nil, unimplemented(LedgerServiceListPaymentsProcedure)
}

// LedgerServiceClient is a typed client for the LedgerService.
type LedgerServiceClient interface {
	CreateExpense(context.Context, *connect.Request[CreateExpenseRequest]) (*connect.Response[CreateExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error)
	CreatePayment(context.Context, *connect.Request[CreatePaymentRequest]) (*connect.Response[CreatePaymentResponse], error)
	ListPayments(context.Context, *connect.Request[ListPaymentsRequest]) (*connect.Response[ListPaymentsResponse], error)
}

// NewLedgerServiceClient returns a client for the service at baseURL (e.g. http://localhost:8080).
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &ledgerServiceClient{
		createExpense: connect.NewClient[CreateExpenseRequest, CreateExpenseResponse](httpClient, baseURL+LedgerServiceCreateExpenseProcedure, opts...),
		listExpenses:  connect.NewClient[ListExpensesRequest, ListExpensesResponse](httpClient, baseURL+LedgerServiceListExpensesProcedure, opts...),
		createPayment: connect.NewClient[CreatePaymentRequest, CreatePaymentResponse](httpClient, baseURL+LedgerServiceCreatePaymentProcedure, opts...),
		listPayments:  connect.NewClient[ListPaymentsRequest, ListPaymentsResponse](httpClient, baseURL+LedgerServiceListPaymentsProcedure, opts...),
	}
}

type ledgerServiceClient struct {
	createExpense *connect.Client[CreateExpenseRequest, CreateExpenseResponse]
	listExpenses  *connect.Client[ListExpensesRequest, ListExpensesResponse]
	createPayment *connect.Client[CreatePaymentRequest, CreatePaymentResponse]
	listPayments  *connect.Client[ListPaymentsRequest, ListPaymentsResponse]
}

func (c *ledgerServiceClient) CreateExpense(ctx context.Context, req *connect.Request[CreateExpenseRequest]) (*connect.Response[CreateExpenseResponse], error) {
	return c.createExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListExpenses(ctx context.Context, req *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) CreatePayment(ctx context.Context, req *connect.Request[CreatePaymentRequest]) (*connect.Response[CreatePaymentResponse], error) {
	return c.createPayment.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListPayments(ctx context.Context, req *connect.Request[ListPaymentsRequest]) (*connect.Response[ListPaymentsResponse], error) {
	return c.listPayments.CallUnary(ctx, req)
}
