package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/splitr/splitr/internal/models"
	"github.com/splitr/splitr/internal/money"
)

// CreatePayment persists a new payment. Payer and receiver must still be
// group members when the insert commits, as for CreateExpense.
func (s *Store) CreatePayment(ctx context.Context, payment *models.Payment) error {
	// Generate ID if not set
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if payment.PaidAt == 0 {
		payment.PaidAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	missing, err := s.lockMembers(ctx, tx, payment.GroupID, []string{payment.Payer, payment.Receiver})
	if err != nil {
		return err
	}
	if missing != "" {
		return models.InvalidPayment("", "%q is not a member of group %s", missing, payment.GroupID)
	}

	_, err = tx.ExecContext(ctx, s.q(
		`INSERT INTO payments (id, group_id, payer_code, receiver_code, amount, paid_at)
		 VALUES (?, ?, ?, ?, ?, ?)`),
		payment.ID, payment.GroupID, payment.Payer, payment.Receiver, int64(payment.Amount), payment.PaidAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListPaymentsByGroup retrieves all payments for a group, newest first.
func (s *Store) ListPaymentsByGroup(ctx context.Context, groupID string) ([]*models.Payment, error) {
	payments, err := s.queryPayments(ctx, s.db, groupID)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Payment, len(payments))
	for i := range payments {
		out[len(payments)-1-i] = &payments[i]
	}
	return out, nil
}

// queryPayments loads a group's payments in (paid_at, id) order.
func (s *Store) queryPayments(ctx context.Context, q querier, groupID string) ([]models.Payment, error) {
	rows, err := q.QueryContext(ctx, s.q(
		`SELECT id, group_id, payer_code, receiver_code, amount, paid_at
		 FROM payments WHERE group_id = ? ORDER BY paid_at, id`),
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments by group: %w", err)
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		var p models.Payment
		var amount int64
		if err := rows.Scan(&p.ID, &p.GroupID, &p.Payer, &p.Receiver, &amount, &p.PaidAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		p.Amount = money.Cents(amount)
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}
	return payments, nil
}

// notFoundOr maps sql.ErrNoRows to models.ErrNotFound and wraps anything else.
func notFoundOr(err error, kind, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", kind, id, models.ErrNotFound)
	}
	return fmt.Errorf("failed to get %s: %w", kind, err)
}
