package rpc

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// BalanceServiceName is the fully-qualified name of the BalanceService.
const BalanceServiceName = "splitr.v1.BalanceService"

// Procedure paths of the BalanceService.
const (
	BalanceServiceGetGroupBalancesProcedure = "/splitr.v1.BalanceService/GetGroupBalances"
	BalanceServiceGetUserBalancesProcedure  = "/splitr.v1.BalanceService/GetUserBalances"
)

// BalanceServiceHandler serves computed balances and summaries.
type BalanceServiceHandler interface {
	GetGroupBalances(context.Context, *connect.Request[GetGroupBalancesRequest]) (*connect.Response[GetGroupBalancesResponse], error)
	GetUserBalances(context.Context, *connect.Request[GetUserBalancesRequest]) (*connect.Response[GetUserBalancesResponse], error)
}

// NewBalanceServiceHandler builds an HTTP handler for the service; mount it at the returned path.
func NewBalanceServiceHandler(svc BalanceServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + BalanceServiceName + "/", serviceMux(map[string]http.Handler{
		BalanceServiceGetGroupBalancesProcedure: connect.NewUnaryHandler(BalanceServiceGetGroupBalancesProcedure, svc.GetGroupBalances, opts...),
		BalanceServiceGetUserBalancesProcedure:  connect.NewUnaryHandler(BalanceServiceGetUserBalancesProcedure, svc.GetUserBalances, opts...),
	})
}

// UnimplementedBalanceServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedBalanceServiceHandler struct{}

func (UnimplementedBalanceServiceHandler) GetGroupBalances(context.Context, *connect.Request[GetGroupBalancesRequest]) (*connect.Response[GetGroupBalancesResponse], error) {
	return nil, unimplemented(BalanceServiceGetGroupBalancesProcedure)
}

func (UnimplementedBalanceServiceHandler) GetUserBalances(context.Context, *connect.Request[GetUserBalancesRequest]) (*connect.Response[GetUserBalancesResponse], error) {
	return nil, unimplemented(BalanceServiceGetUserBalancesProcedure)
}

// BalanceServiceClient is a typed client for the BalanceService.
type BalanceServiceClient interface {
	GetGroupBalances(context.Context, *connect.Request[GetGroupBalancesRequest]) (*connect.Response[GetGroupBalancesResponse], error)
	GetUserBalances(context.Context, *connect.Request[GetUserBalancesRequest]) (*connect.Response[GetUserBalancesResponse], error)
}

// NewBalanceServiceClient returns a client for the service at baseURL (e.g. http://localhost:8080).
func NewBalanceServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) BalanceServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &balanceServiceClient{
		getGroupBalances: connect.NewClient[GetGroupBalancesRequest, GetGroupBalancesResponse](httpClient, baseURL+BalanceServiceGetGroupBalancesProcedure, opts...),
		getUserBalances:  connect.NewClient[GetUserBalancesRequest, GetUserBalancesResponse](httpClient, baseURL+BalanceServiceGetUserBalancesProcedure, opts...),
	}
}

type balanceServiceClient struct {
	getGroupBalances *connect.Client[GetGroupBalancesRequest, GetGroupBalancesResponse]
	getUserBalances  *connect.Client[GetUserBalancesRequest, GetUserBalancesResponse]
}

func (c *balanceServiceClient) GetGroupBalances(ctx context.Context, req *connect.Request[GetGroupBalancesRequest]) (*connect.Response[GetGroupBalancesResponse], error) {
	return c.getGroupBalances.CallUnary(ctx, req)
}

func (c *balanceServiceClient) GetUserBalances(ctx context.Context, req *connect.Request[GetUserBalancesRequest]) (*connect.Response[GetUserBalancesResponse], error) {
	return c.getUserBalances.CallUnary(ctx, req)
}
