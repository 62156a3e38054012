// Package balance computes group balances from ledger snapshots and serves
// per-group and cross-group summaries on top of them.
//
// The engine keeps no state between calls: every result is recomputed from
// the snapshot the LedgerSource returns at call time.
package balance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/splitr/splitr/internal/calculator"
	"github.com/splitr/splitr/internal/metrics"
	"github.com/splitr/splitr/internal/models"
)

// LedgerSource is the read side of storage the engine depends on.
// Missing groups must be reported with an error wrapping models.ErrNotFound.
type LedgerSource interface {
	ListGroupMembers(ctx context.Context, groupID string) ([]string, error)
	LoadLedger(ctx context.Context, groupID string) (*models.Ledger, error)
	ListGroupsForUser(ctx context.Context, userCode string) ([]*models.Group, error)
}

// Engine computes balances for groups.
type Engine struct {
	source LedgerSource
	opts   calculator.Options
}

// NewEngine creates an engine reading from source.
func NewEngine(source LedgerSource, opts calculator.Options) *Engine {
	return &Engine{source: source, opts: opts}
}

// Options returns the reduction options the engine applies.
func (e *Engine) Options() calculator.Options {
	return e.opts
}

// ComputeBalances returns the balance edges of a group on behalf of actor,
// sorted by (From, To). The actor must be a member of the group.
// Computation is all or nothing: any invalid record fails the call.
func (e *Engine) ComputeBalances(ctx context.Context, groupID, actor string) ([]models.BalanceEdge, error) {
	edges, _, err := e.compute(ctx, groupID, actor)
	return edges, err
}

// compute returns the edges together with the member list they were
// validated against, so callers never pair edges with a later member read.
func (e *Engine) compute(ctx context.Context, groupID, actor string) (edges []models.BalanceEdge, members []string, err error) {
	start := time.Now()
	defer func() {
		metrics.BalanceComputationDuration.Observe(time.Since(start).Seconds())
		metrics.BalanceComputations.WithLabelValues(outcome(err)).Inc()
		if err == nil {
			metrics.BalanceEdges.Observe(float64(len(edges)))
		}
	}()

	members, err = e.source.ListGroupMembers(ctx, groupID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load members of group %s: %w", groupID, err)
	}
	memberSet := make(map[string]bool, len(members))
	for _, m := range members {
		memberSet[m] = true
	}
	if !memberSet[actor] {
		return nil, nil, fmt.Errorf("user %s in group %s: %w", actor, groupID, models.ErrNotAuthorized)
	}

	ledger, err := e.source.LoadLedger(ctx, groupID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load ledger of group %s: %w", groupID, err)
	}

	// Reject malformed records before any folding starts.
	if err := calculator.ValidateLedger(ledger, memberSet); err != nil {
		slog.Warn("Ledger validation failed", "group_id", groupID, "error", err)
		return nil, nil, err
	}

	edges, err = calculator.CalculateGroupBalances(ledger, memberSet, e.opts)
	if err != nil {
		logInconsistency(groupID, err)
		return nil, nil, err
	}

	slog.Debug("Balances computed",
		"group_id", groupID,
		"expenses", len(ledger.Expenses),
		"payments", len(ledger.Payments),
		"edges", len(edges),
	)
	return edges, members, nil
}

func logInconsistency(groupID string, err error) {
	var rec *models.RecordError
	if errors.As(err, &rec) && errors.Is(err, models.ErrArithmeticInconsistency) {
		slog.Error("Balance arithmetic inconsistency",
			"group_id", groupID,
			"expense_id", rec.RecordID,
			"reason", rec.Reason,
		)
		return
	}
	slog.Warn("Balance computation failed", "group_id", groupID, "error", err)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, models.ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, models.ErrNotAuthorized):
		return metrics.OutcomeNotAuthorized
	case errors.Is(err, models.ErrInvalidExpense), errors.Is(err, models.ErrInvalidPayment):
		return metrics.OutcomeInvalid
	case errors.Is(err, models.ErrArithmeticInconsistency):
		return metrics.OutcomeInconsistent
	default:
		return metrics.OutcomeError
	}
}
