package sqlstore

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/splitr/splitr/internal/models"
	"github.com/splitr/splitr/internal/money"
)

// CreateExpense persists a new expense with its participants. The creator
// and participants must still be group members when the insert commits;
// otherwise nothing is written and an InvalidExpense error is returned.
func (s *Store) CreateExpense(ctx context.Context, expense *models.Expense) error {
	// Generate IDs if not set
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}
	if expense.Title == "" {
		expense.Title = generateTitle(expense.Participants)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	missing, err := s.lockMembers(ctx, tx, expense.GroupID, append([]string{expense.CreatedBy}, expense.Participants...))
	if err != nil {
		return err
	}
	if missing != "" {
		return models.InvalidExpense("", "%q is not a member of group %s", missing, expense.GroupID)
	}

	_, err = tx.ExecContext(ctx, s.q(
		"INSERT INTO expenses (id, group_id, title, amount, created_by, created_at) VALUES (?, ?, ?, ?, ?, ?)"),
		expense.ID, expense.GroupID, expense.Title, int64(expense.Amount), expense.CreatedBy, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for _, code := range expense.Participants {
		_, err = tx.ExecContext(ctx, s.q(
			"INSERT INTO expense_participants (expense_id, user_code) VALUES (?, ?)"),
			expense.ID, code,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListExpensesByGroup returns a group's expenses, newest first.
func (s *Store) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	expenses, err := s.queryExpenses(ctx, s.db, groupID)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Expense, len(expenses))
	for i := range expenses {
		out[len(expenses)-1-i] = &expenses[i]
	}
	return out, nil
}

// queryExpenses loads a group's expenses in (created_at, id) order.
func (s *Store) queryExpenses(ctx context.Context, q querier, groupID string) ([]models.Expense, error) {
	rows, err := q.QueryContext(ctx, s.q(`
		SELECT id, group_id, title, amount, created_by, created_at
		FROM expenses WHERE group_id = ?
		ORDER BY created_at, id`),
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	index := make(map[string]int)
	for rows.Next() {
		var e models.Expense
		var amount int64
		if err := rows.Scan(&e.ID, &e.GroupID, &e.Title, &amount, &e.CreatedBy, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		e.Amount = money.Cents(amount)
		index[e.ID] = len(expenses)
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	rows.Close()

	partRows, err := q.QueryContext(ctx, s.q(`
		SELECT p.expense_id, p.user_code
		FROM expense_participants p
		JOIN expenses e ON e.id = p.expense_id
		WHERE e.group_id = ?
		ORDER BY p.expense_id, p.user_code`),
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer partRows.Close()

	for partRows.Next() {
		var expenseID, code string
		if err := partRows.Scan(&expenseID, &code); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		if i, ok := index[expenseID]; ok {
			expenses[i].Participants = append(expenses[i].Participants, code)
		}
	}
	if err := partRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return expenses, nil
}

// LoadLedger reads a group's expenses and payments inside one transaction
// so the snapshot is consistent.
func (s *Store) LoadLedger(ctx context.Context, groupID string) (*models.Ledger, error) {
	tx, err := s.db.BeginTx(ctx, s.dialect.snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, s.q("SELECT 1 FROM expense_groups WHERE id = ?"), groupID).Scan(&exists); err != nil {
		return nil, notFoundOr(err, "group", groupID)
	}

	expenses, err := s.queryExpenses(ctx, tx, groupID)
	if err != nil {
		return nil, err
	}
	payments, err := s.queryPayments(ctx, tx, groupID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &models.Ledger{GroupID: groupID, Expenses: expenses, Payments: payments}, nil
}

// hasLedgerRecords reports whether userCode created, shares, paid or
// received anything in the group.
func (s *Store) hasLedgerRecords(ctx context.Context, q querier, groupID, userCode string) (bool, error) {
	var n int
	err := q.QueryRowContext(ctx, s.q(`
		SELECT
		  (SELECT COUNT(*) FROM expenses WHERE group_id = ? AND created_by = ?) +
		  (SELECT COUNT(*) FROM expense_participants p JOIN expenses e ON e.id = p.expense_id
		     WHERE e.group_id = ? AND p.user_code = ?) +
		  (SELECT COUNT(*) FROM payments WHERE group_id = ? AND (payer_code = ? OR receiver_code = ?))`),
		groupID, userCode, groupID, userCode, groupID, userCode, userCode,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check ledger records: %w", err)
	}
	return n > 0, nil
}

// generateTitle creates an auto-generated title from participants.
func generateTitle(participants []string) string {
	sorted := slices.Clone(participants)
	slices.Sort(sorted)
	if len(sorted) == 0 {
		return fmt.Sprintf("Expense - %s", time.Now().Format("Jan 2, 2006"))
	}
	if len(sorted) <= 3 {
		return fmt.Sprintf("Split with %s", strings.Join(sorted, ", "))
	}
	return fmt.Sprintf("Split with %s and %d others",
		strings.Join(sorted[:2], ", "),
		len(sorted)-2,
	)
}
