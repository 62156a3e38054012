package rpc

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// AuthServiceName is the fully-qualified name of the AuthService.
const AuthServiceName = "splitr.v1.AuthService"

// Procedure paths of the AuthService.
const (
	AuthServiceRegisterProcedure          = "/splitr.v1.AuthService/Register"
	AuthServiceLoginProcedure             = "/splitr.v1.AuthService/Login"
	AuthServiceLogoutProcedure            = "/splitr.v1.AuthService/Logout"
	AuthServiceGetCurrentUserProcedure    = "/splitr.v1.AuthService/GetCurrentUser"
	AuthServiceUpdateCurrentUserProcedure = "/splitr.v1.AuthService/UpdateCurrentUser"
	AuthServiceDeleteCurrentUserProcedure = "/splitr.v1.AuthService/DeleteCurrentUser"
)

// AuthServiceHandler serves account registration, login and profile.
type AuthServiceHandler interface {
	Register(context.Context, *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error)
	Login(context.Context, *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error)
	Logout(context.Context, *connect.Request[LogoutRequest]) (*connect.Response[LogoutResponse], error)
	GetCurrentUser(context.Context, *connect.Request[GetCurrentUserRequest]) (*connect.Response[GetCurrentUserResponse], error)
	UpdateCurrentUser(context.Context, *connect.Request[UpdateCurrentUserRequest]) (*connect.Response[UpdateCurrentUserResponse], error)
	DeleteCurrentUser(context.Context, *connect.Request[DeleteCurrentUserRequest]) (*connect.Response[DeleteCurrentUserResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler for the service; mount it at the returned path.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + AuthServiceName + "/", serviceMux(map[string]http.Handler{
		AuthServiceRegisterProcedure:          connect.NewUnaryHandler(AuthServiceRegisterProcedure, svc.Register, opts...),
		AuthServiceLoginProcedure:             connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...),
		AuthServiceLogoutProcedure:            connect.NewUnaryHandler(AuthServiceLogoutProcedure, svc.Logout, opts...),
		AuthServiceGetCurrentUserProcedure:    connect.NewUnaryHandler(AuthServiceGetCurrentUserProcedure, svc.GetCurrentUser, opts...),
		AuthServiceUpdateCurrentUserProcedure: connect.NewUnaryHandler(AuthServiceUpdateCurrentUserProcedure, svc.UpdateCurrentUser, opts...),
		AuthServiceDeleteCurrentUserProcedure: connect.NewUnaryHandler(AuthServiceDeleteCurrentUserProcedure, svc.DeleteCurrentUser, opts...),
	})
}

// UnimplementedAuthServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedAuthServiceHandler struct{}

func (UnimplementedAuthServiceHandler) Register(context.Context, *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error) {
	return nil, unimplemented(AuthServiceRegisterProcedure)
}

func (UnimplementedAuthServiceHandler) Login(context.Context, *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error) {
	return nil, unimplemented(AuthServiceLoginProcedure)
}

func (UnimplementedAuthServiceHandler) Logout(context.Context, *connect.Request[LogoutRequest]) (*connect.Response[LogoutResponse], error) {
	return nil, unimplemented(AuthServiceLogoutProcedure)
}

func (UnimplementedAuthServiceHandler) GetCurrentUser(context.Context, *connect.Request[GetCurrentUserRequest]) (*connect.Response[GetCurrentUserResponse], error) {
	return nil, unimplemented(AuthServiceGetCurrentUserProcedure)
}

func (UnimplementedAuthServiceHandler) UpdateCurrentUser(context.Context, *connect.Request[UpdateCurrentUserRequest]) (*connect.Response[UpdateCurrentUserResponse], error) {
	return nil, unimplemented(AuthServiceUpdateCurrentUserProcedure)
}

func (UnimplementedAuthServiceHandler) DeleteCurrentUser(context.Context, *connect.Request[DeleteCurrentUserRequest]) (*connect.Response[DeleteCurrentUserResponse], error) {
	return nil, unimplemented(AuthServiceDeleteCurrentUserProcedure)
}

// AuthServiceClient is a typed client for the AuthService.
type AuthServiceClient interface {
	Register(context.Context, *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error)
	Login(context.Context, *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error)
	Logout(context.Context, *connect.Request[LogoutRequest]) (*connect.Response[LogoutResponse], error)
	GetCurrentUser(context.Context, *connect.Request[GetCurrentUserRequest]) (*connect.Response[GetCurrentUserResponse], error)
	UpdateCurrentUser(context.Context, *connect.Request[UpdateCurrentUserRequest]) (*connect.Response[UpdateCurrentUserResponse], error)
	DeleteCurrentUser(context.Context, *connect.Request[DeleteCurrentUserRequest]) (*connect.Response[DeleteCurrentUserResponse], error)
}

// NewAuthServiceClient returns a client for the service at baseURL (e.g. http://localhost:8080).
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AuthServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &authServiceClient{
		register:          connect.NewClient[RegisterRequest, RegisterResponse](httpClient, baseURL+AuthServiceRegisterProcedure, opts...),
		login:             connect.NewClient[LoginRequest, LoginResponse](httpClient, baseURL+AuthServiceLoginProcedure, opts...),
		logout:            connect.NewClient[LogoutRequest, LogoutResponse](httpClient, baseURL+AuthServiceLogoutProcedure, opts...),
		getCurrentUser:    connect.NewClient[GetCurrentUserRequest, GetCurrentUserResponse](httpClient, baseURL+AuthServiceGetCurrentUserProcedure, opts...),
		updateCurrentUser: connect.NewClient[UpdateCurrentUserRequest, UpdateCurrentUserResponse](httpClient, baseURL+AuthServiceUpdateCurrentUserProcedure, opts...),
		deleteCurrentUser: connect.NewClient[DeleteCurrentUserRequest, DeleteCurrentUserResponse](httpClient, baseURL+AuthServiceDeleteCurrentUserProcedure, opts...),
	}
}

type authServiceClient struct {
	register          *connect.Client[RegisterRequest, RegisterResponse]
	login             *connect.Client[LoginRequest, LoginResponse]
	logout            *connect.Client[LogoutRequest, LogoutResponse]
	getCurrentUser    *connect.Client[GetCurrentUserRequest, GetCurrentUserResponse]
	updateCurrentUser *connect.Client[UpdateCurrentUserRequest, UpdateCurrentUserResponse]
	deleteCurrentUser *connect.Client[DeleteCurrentUserRequest, DeleteCurrentUserResponse]
}

func (c *authServiceClient) Register(ctx context.Context, req *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error) {
	return c.register.CallUnary(ctx, req)
}

func (c *authServiceClient) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *authServiceClient) Logout(ctx context.Context, req *connect.Request[LogoutRequest]) (*connect.Response[LogoutResponse], error) {
	return c.logout.CallUnary(ctx, req)
}

func (c *authServiceClient) GetCurrentUser(ctx context.Context, req *connect.Request[GetCurrentUserRequest]) (*connect.Response[GetCurrentUserResponse], error) {
	return c.getCurrentUser.CallUnary(ctx, req)
}

func (c *authServiceClient) UpdateCurrentUser(ctx context.Context, req *connect.Request[UpdateCurrentUserRequest]) (*connect.Response[UpdateCurrentUserResponse], error) {
	return c.updateCurrentUser.CallUnary(ctx, req)
}

func (c *authServiceClient) DeleteCurrentUser(ctx context.Context, req *connect.Request[DeleteCurrentUserRequest]) (*connect.Response[DeleteCurrentUserResponse], error) {
	return c.deleteCurrentUser.CallUnary(ctx, req)
}
