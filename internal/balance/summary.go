package balance

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/splitr/splitr/internal/calculator"
	"github.com/splitr/splitr/internal/models"
	"github.com/splitr/splitr/internal/money"
)

// maxConcurrentGroups bounds the per-group fan-out of ComputeUserSummary.
const maxConcurrentGroups = 8

// GroupSummary is a group's edges together with each member's aggregates.
type GroupSummary struct {
	GroupID  string
	Balances []models.BalanceEdge
	// Members follows the group's member order (ascending user code).
	Members []calculator.MemberBalance
}

// GroupBalance is one user's standing in one group.
type GroupBalance struct {
	GroupID   string
	GroupName string
	Balance   calculator.MemberBalance
}

// UserSummary aggregates a user's standing across all their groups.
// Totals are sums of the per-group figures; debts in different groups are
// never netted against each other.
type UserSummary struct {
	UserCode string
	// TotalOwedToOthers is what the user owes.
	TotalOwedToOthers money.Cents
	// TotalOwedByOthers is what others owe the user.
	TotalOwedByOthers money.Cents
	NetBalance        money.Cents
	Groups            []GroupBalance
}

// GroupSummary computes a group's balances and per-member aggregates.
func (e *Engine) GroupSummary(ctx context.Context, groupID, actor string) (*GroupSummary, error) {
	edges, members, err := e.compute(ctx, groupID, actor)
	if err != nil {
		return nil, err
	}
	return &GroupSummary{
		GroupID:  groupID,
		Balances: edges,
		Members:  calculator.SummarizeMembers(edges, members),
	}, nil
}

// ComputeUserSummary sums the user's aggregates over every group they belong
// to. Groups are computed concurrently; the first failure aborts the summary.
func (e *Engine) ComputeUserSummary(ctx context.Context, userCode string) (*UserSummary, error) {
	groups, err := e.source.ListGroupsForUser(ctx, userCode)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups for %s: %w", userCode, err)
	}

	perGroup := make([]GroupBalance, len(groups))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentGroups)
	for i, group := range groups {
		g.Go(func() error {
			edges, err := e.ComputeBalances(gctx, group.ID, userCode)
			if err != nil {
				return err
			}
			perGroup[i] = GroupBalance{
				GroupID:   group.ID,
				GroupName: group.Name,
				Balance:   calculator.SummarizeMember(edges, userCode),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := &UserSummary{UserCode: userCode, Groups: perGroup}
	total := calculator.MemberBalance{UserCode: userCode}
	for _, gb := range perGroup {
		total = total.Add(gb.Balance)
	}
	summary.TotalOwedToOthers = total.OwedBy
	summary.TotalOwedByOthers = total.OwedTo
	summary.NetBalance = total.Net
	return summary, nil
}
