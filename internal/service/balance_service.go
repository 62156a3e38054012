package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/splitr/splitr/internal/balance"
	"github.com/splitr/splitr/internal/rpc"
)

// BalanceService implements the Connect BalanceService on top of the
// balance engine. Every call recomputes from the current ledger.
type BalanceService struct {
	engine *balance.Engine
}

var _ rpc.BalanceServiceHandler = (*BalanceService)(nil)

// NewBalanceService creates a BalanceService.
func NewBalanceService(engine *balance.Engine) *BalanceService {
	return &BalanceService{engine: engine}
}

// GetGroupBalances returns who owes whom in a group plus each member's totals.
func (s *BalanceService) GetGroupBalances(ctx context.Context, req *connect.Request[rpc.GetGroupBalancesRequest]) (*connect.Response[rpc.GetGroupBalancesResponse], error) {
	session, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.GroupID == "" {
		return nil, invalidArgument("groupId is required")
	}
	slog.Info("GetGroupBalances request received", "group_id", req.Msg.GroupID, "user_code", session.UserCode)

	summary, err := s.engine.GroupSummary(ctx, req.Msg.GroupID, session.UserCode)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&rpc.GetGroupBalancesResponse{
		GroupID:    summary.GroupID,
		Balances:   edgesToRPC(summary.Balances),
		Members:    memberBalancesToRPC(summary.Members),
		Simplified: s.engine.Options().SimplifyDebts,
	}), nil
}

// GetUserBalances returns the caller's totals summed over all their groups.
func (s *BalanceService) GetUserBalances(ctx context.Context, req *connect.Request[rpc.GetUserBalancesRequest]) (*connect.Response[rpc.GetUserBalancesResponse], error) {
	session, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("GetUserBalances request received", "user_code", session.UserCode)

	summary, err := s.engine.ComputeUserSummary(ctx, session.UserCode)
	if err != nil {
		return nil, toConnectError(err)
	}

	slog.Info("GetUserBalances successful",
		"user_code", session.UserCode,
		"groups", len(summary.Groups),
		"net", summary.NetBalance.String(),
	)
	return connect.NewResponse(&rpc.GetUserBalancesResponse{
		TotalOwedToOthers: summary.TotalOwedToOthers,
		TotalOwedByOthers: summary.TotalOwedByOthers,
		NetBalance:        summary.NetBalance,
		GroupBalances:     groupBalancesToRPC(summary.Groups),
	}), nil
}
