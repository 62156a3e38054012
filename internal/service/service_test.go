package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/splitr/splitr/internal/auth"
	"github.com/splitr/splitr/internal/balance"
	"github.com/splitr/splitr/internal/calculator"
	"github.com/splitr/splitr/internal/events"
	"github.com/splitr/splitr/internal/middleware"
	"github.com/splitr/splitr/internal/money"
	"github.com/splitr/splitr/internal/rpc"
	"github.com/splitr/splitr/internal/storage/sqlstore"
)

// recordingPublisher keeps published events for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type testEnv struct {
	auth      rpc.AuthServiceClient
	groups    rpc.GroupServiceClient
	ledger    rpc.LedgerServiceClient
	balances  rpc.BalanceServiceClient
	publisher *recordingPublisher
}

// setupTestServer serves all four services over a fresh SQLite database.
func setupTestServer(t *testing.T, opts calculator.Options) *testEnv {
	t.Helper()

	store, err := sqlstore.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
	publisher := &recordingPublisher{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	interceptors := connect.WithInterceptors(
		middleware.MetricsInterceptor(),
		middleware.RequireAuth(jwtManager, store, rpc.PublicProcedures...),
		middleware.LoggingInterceptor(),
	)

	mux := http.NewServeMux()
	mux.Handle(rpc.NewAuthServiceHandler(NewAuthService(authenticator, jwtManager, store, logger), interceptors))
	mux.Handle(rpc.NewGroupServiceHandler(NewGroupService(store, publisher), interceptors))
	mux.Handle(rpc.NewLedgerServiceHandler(NewLedgerService(store, money.RoundHalfUp, publisher), interceptors))
	mux.Handle(rpc.NewBalanceServiceHandler(NewBalanceService(balance.NewEngine(store, opts)), interceptors))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testEnv{
		auth:      rpc.NewAuthServiceClient(http.DefaultClient, server.URL),
		groups:    rpc.NewGroupServiceClient(http.DefaultClient, server.URL),
		ledger:    rpc.NewLedgerServiceClient(http.DefaultClient, server.URL),
		balances:  rpc.NewBalanceServiceClient(http.DefaultClient, server.URL),
		publisher: publisher,
	}
}

// authed wraps msg in a request carrying the bearer token.
func authed[T any](msg *T, token string) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+token)
	return req
}

type testUser struct {
	code  string
	token string
}

func (e *testEnv) register(t *testing.T, first string) testUser {
	t.Helper()
	resp, err := e.auth.Register(context.Background(), connect.NewRequest(&rpc.RegisterRequest{
		Email:     first + "@example.com",
		Password:  "password123",
		FirstName: first,
		LastName:  "Test",
	}))
	if err != nil {
		t.Fatalf("Register(%s) failed: %v", first, err)
	}
	return testUser{code: resp.Msg.User.UserCode, token: resp.Msg.Token}
}

// groupWith creates a group owned by owner and joins the other users to it.
func (e *testEnv) groupWith(t *testing.T, owner testUser, others ...testUser) string {
	t.Helper()
	ctx := context.Background()
	resp, err := e.groups.CreateGroup(ctx, authed(&rpc.CreateGroupRequest{Name: "Flat"}, owner.token))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	groupID := resp.Msg.Group.ID
	for _, u := range others {
		if _, err := e.groups.InviteMember(ctx, authed(&rpc.InviteMemberRequest{GroupID: groupID, UserCode: u.code}, owner.token)); err != nil {
			t.Fatalf("InviteMember failed: %v", err)
		}
		if _, err := e.groups.AcceptInvitation(ctx, authed(&rpc.AcceptInvitationRequest{GroupID: groupID}, u.token)); err != nil {
			t.Fatalf("AcceptInvitation failed: %v", err)
		}
	}
	return groupID
}

func (e *testEnv) expense(t *testing.T, by testUser, groupID, amount string, participants ...testUser) {
	t.Helper()
	codes := make([]string, len(participants))
	for i, p := range participants {
		codes[i] = p.code
	}
	_, err := e.ledger.CreateExpense(context.Background(), authed(&rpc.CreateExpenseRequest{
		GroupID:         groupID,
		Amount:          decimalOf(t, amount),
		MemberUserCodes: codes,
	}, by.token))
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
}

func (e *testEnv) groupBalances(t *testing.T, u testUser, groupID string) *rpc.GetGroupBalancesResponse {
	t.Helper()
	resp, err := e.balances.GetGroupBalances(context.Background(), authed(&rpc.GetGroupBalancesRequest{GroupID: groupID}, u.token))
	if err != nil {
		t.Fatalf("GetGroupBalances failed: %v", err)
	}
	return resp.Msg
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		t.Fatalf("expected connect.Error, got %T", err)
	}
	if connectErr.Code() != want {
		t.Errorf("expected %v, got %v (%s)", want, connectErr.Code(), connectErr.Message())
	}
}

func decimalOf(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}
