package service

import (
	"context"
	"errors"
	"fmt"

	"connectrpc.com/connect"

	"github.com/splitr/splitr/internal/auth"
	"github.com/splitr/splitr/internal/middleware"
	"github.com/splitr/splitr/internal/models"
	"github.com/splitr/splitr/internal/storage"
)

// toConnectError maps domain error kinds to Connect codes.
func toConnectError(err error) *connect.Error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}
	return connect.NewError(codeOf(err), err)
}

func codeOf(err error) connect.Code {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return connect.CodeNotFound
	case errors.Is(err, models.ErrNotAuthorized):
		return connect.CodePermissionDenied
	case errors.Is(err, models.ErrInvalidExpense),
		errors.Is(err, models.ErrInvalidPayment),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrInvalidProfile):
		return connect.CodeInvalidArgument
	case errors.Is(err, models.ErrAlreadyExists), errors.Is(err, auth.ErrEmailExists):
		return connect.CodeAlreadyExists
	case errors.Is(err, models.ErrConflict):
		return connect.CodeFailedPrecondition
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrRevokedToken):
		return connect.CodeUnauthenticated
	case errors.Is(err, context.Canceled):
		return connect.CodeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return connect.CodeDeadlineExceeded
	default:
		// Includes models.ErrArithmeticInconsistency.
		return connect.CodeInternal
	}
}

func invalidArgument(format string, args ...any) *connect.Error {
	return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf(format, args...))
}

// requireSession returns the caller's session set by middleware.RequireAuth.
func requireSession(ctx context.Context) (*auth.Session, error) {
	session := middleware.GetSession(ctx)
	if session == nil {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return session, nil
}

// memberGroup loads a group and checks that userCode belongs to it.
func memberGroup(ctx context.Context, store storage.GroupStore, groupID, userCode string) (*models.Group, error) {
	if groupID == "" {
		return nil, invalidArgument("groupId is required")
	}
	group, err := store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(userCode) {
		return nil, fmt.Errorf("user %s in group %s: %w", userCode, groupID, models.ErrNotAuthorized)
	}
	return group, nil
}
