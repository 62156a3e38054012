package middleware

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/splitr/splitr/internal/auth"
)

// RevocationChecker reports whether a token ID was revoked by logout.
type RevocationChecker interface {
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
}

// GetSession extracts the caller's session from the context.
// Returns nil for unauthenticated procedures.
func GetSession(ctx context.Context) *auth.Session {
	s, _ := auth.SessionFromContext(ctx)
	return s
}

// GetUserCode returns the caller's user code, or empty string if not found.
func GetUserCode(ctx context.Context) string {
	if s := GetSession(ctx); s != nil {
		return s.UserCode
	}
	return ""
}

// RequireAuth returns an interceptor that validates bearer tokens on every
// procedure except the public ones. A valid, unrevoked token puts its
// auth.Session into the request context.
func RequireAuth(jwtManager *auth.JWTManager, revoked RevocationChecker, publicProcedures ...string) connect.UnaryInterceptorFunc {
	public := make(map[string]bool, len(publicProcedures))
	for _, p := range publicProcedures {
		public[p] = true
	}

	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			procedure := req.Spec().Procedure
			if public[procedure] {
				return next(ctx, req)
			}

			session, err := authenticate(ctx, jwtManager, revoked, req.Header().Get("Authorization"))
			if err != nil {
				slog.Warn("RPC unauthenticated", "procedure", procedure, "error", err.Message())
				return nil, err
			}

			return next(auth.WithSession(ctx, session), req)
		}
	}
}

func authenticate(ctx context.Context, jwtManager *auth.JWTManager, revoked RevocationChecker, header string) (*auth.Session, *connect.Error) {
	if header == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}

	// Parse Bearer token
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
	}

	session, err := jwtManager.Validate(parts[1])
	if err != nil {
		return nil, connect.NewError(connect.CodeUnauthenticated, err)
	}

	if revoked != nil {
		isRevoked, err := revoked.IsTokenRevoked(ctx, session.TokenID)
		if err != nil {
			return nil, connect.NewError(connect.CodeUnavailable, err)
		}
		if isRevoked {
			return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrRevokedToken)
		}
	}
	return session, nil
}
