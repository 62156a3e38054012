package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/splitr/splitr/internal/auth"
	"github.com/splitr/splitr/internal/models"
	"github.com/splitr/splitr/internal/rpc"
	"github.com/splitr/splitr/internal/storage"
)

// AccountStore is the storage the AuthService needs.
type AccountStore interface {
	storage.UserStore
	storage.TokenStore
	ListGroupsForUser(ctx context.Context, userCode string) ([]*models.Group, error)
}

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	store         AccountStore
	logger        *slog.Logger
}

var _ rpc.AuthServiceHandler = (*AuthService)(nil)

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, store AccountStore, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		store:         store,
		logger:        logger,
	}
}

// Register creates a new user account.
func (s *AuthService) Register(ctx context.Context, req *connect.Request[rpc.RegisterRequest]) (*connect.Response[rpc.RegisterResponse], error) {
	s.logger.Info("Register request", "email", req.Msg.Email)

	user, err := s.authenticator.Register(ctx, auth.Profile{
		Email:     req.Msg.Email,
		FirstName: req.Msg.FirstName,
		LastName:  req.Msg.LastName,
	}, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Registration failed", "email", req.Msg.Email, "error", err)
		return nil, toConnectError(err)
	}

	// Generate JWT token
	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_code", user.Code, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("User registered successfully", "user_code", user.Code, "email", user.Email)
	return connect.NewResponse(&rpc.RegisterResponse{User: userToRPC(user), Token: token}), nil
}

// Login authenticates a user and returns a JWT token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[rpc.LoginRequest]) (*connect.Response[rpc.LoginResponse], error) {
	s.logger.Info("Login request", "email", req.Msg.Email)

	// Validate input
	if req.Msg.Email == "" || req.Msg.Password == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	user, err := s.authenticator.Authenticate(ctx, req.Msg.Email, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Login failed", "email", req.Msg.Email, "error", err)
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidCredentials)
		}
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_code", user.Code, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("User logged in successfully", "user_code", user.Code)
	return connect.NewResponse(&rpc.LoginResponse{User: userToRPC(user), Token: token}), nil
}

// Logout revokes the token the request was made with.
func (s *AuthService) Logout(ctx context.Context, req *connect.Request[rpc.LogoutRequest]) (*connect.Response[rpc.LogoutResponse], error) {
	session, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.store.RevokeToken(ctx, session.TokenID, session.ExpiresAt.Unix()); err != nil {
		s.logger.Error("Failed to revoke token", "user_code", session.UserCode, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("User logged out", "user_code", session.UserCode)
	return connect.NewResponse(&rpc.LogoutResponse{}), nil
}

// GetCurrentUser returns the currently authenticated user's profile.
func (s *AuthService) GetCurrentUser(ctx context.Context, req *connect.Request[rpc.GetCurrentUserRequest]) (*connect.Response[rpc.GetCurrentUserResponse], error) {
	session, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByCode(ctx, session.UserCode)
	if err != nil {
		s.logger.Warn("GetCurrentUser failed", "user_code", session.UserCode, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&rpc.GetCurrentUserResponse{User: userToRPC(user)}), nil
}

// UpdateCurrentUser changes the caller's name and email. Empty fields keep
// their current value.
func (s *AuthService) UpdateCurrentUser(ctx context.Context, req *connect.Request[rpc.UpdateCurrentUserRequest]) (*connect.Response[rpc.UpdateCurrentUserResponse], error) {
	session, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("UpdateCurrentUser request", "user_code", session.UserCode)

	user, err := s.store.GetUserByCode(ctx, session.UserCode)
	if err != nil {
		return nil, toConnectError(err)
	}

	if v := strings.TrimSpace(req.Msg.FirstName); v != "" {
		user.FirstName = v
	}
	if v := strings.TrimSpace(req.Msg.LastName); v != "" {
		user.LastName = v
	}
	if v := strings.TrimSpace(req.Msg.Email); v != "" {
		user.Email = strings.ToLower(v)
	}
	if err := auth.ValidateProfile(auth.Profile{Email: user.Email, FirstName: user.FirstName, LastName: user.LastName}); err != nil {
		return nil, toConnectError(err)
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		s.logger.Warn("UpdateCurrentUser failed", "user_code", session.UserCode, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&rpc.UpdateCurrentUserResponse{User: userToRPC(user)}), nil
}

// DeleteCurrentUser removes the caller's account. Users who still belong to
// a group must leave it first, so no ledger refers to a deleted account.
func (s *AuthService) DeleteCurrentUser(ctx context.Context, req *connect.Request[rpc.DeleteCurrentUserRequest]) (*connect.Response[rpc.DeleteCurrentUserResponse], error) {
	session, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("DeleteCurrentUser request", "user_code", session.UserCode)

	groups, err := s.store.ListGroupsForUser(ctx, session.UserCode)
	if err != nil {
		return nil, toConnectError(err)
	}
	if len(groups) > 0 {
		return nil, toConnectError(fmt.Errorf("user belongs to %d groups: %w", len(groups), models.ErrConflict))
	}

	if err := s.store.DeleteUser(ctx, session.UserCode); err != nil {
		s.logger.Error("DeleteCurrentUser failed", "user_code", session.UserCode, "error", err)
		return nil, toConnectError(err)
	}
	if err := s.store.RevokeToken(ctx, session.TokenID, session.ExpiresAt.Unix()); err != nil {
		s.logger.Warn("Failed to revoke token of deleted user", "user_code", session.UserCode, "error", err)
	}

	s.logger.Info("User deleted", "user_code", session.UserCode)
	return connect.NewResponse(&rpc.DeleteCurrentUserResponse{}), nil
}
