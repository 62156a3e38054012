package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/splitr/splitr/internal/models"
)

const invitationColumns = "id, group_id, invitee_code, inviter_code, status, created_at, accepted_at"

func scanInvitation(row interface{ Scan(...any) error }) (*models.Invitation, error) {
	inv := &models.Invitation{}
	var status string
	err := row.Scan(&inv.ID, &inv.GroupID, &inv.InviteeCode, &inv.InviterCode, &status, &inv.CreatedAt, &inv.AcceptedAt)
	inv.Status = models.InvitationStatus(status)
	return inv, err
}

// CreateInvitation persists a pending invitation.
func (s *Store) CreateInvitation(ctx context.Context, inv *models.Invitation) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	if inv.CreatedAt == 0 {
		inv.CreatedAt = time.Now().Unix()
	}
	inv.Status = models.InvitationPending

	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO invitations (id, group_id, invitee_code, inviter_code, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`),
		inv.ID, inv.GroupID, inv.InviteeCode, inv.InviterCode, string(inv.Status), inv.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert invitation: %w", err)
	}
	return nil
}

// GetInvitation retrieves an invitation by ID.
func (s *Store) GetInvitation(ctx context.Context, invitationID string) (*models.Invitation, error) {
	row := s.db.QueryRowContext(ctx, s.q("SELECT "+invitationColumns+" FROM invitations WHERE id = ?"), invitationID)
	inv, err := scanInvitation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("invitation %s: %w", invitationID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}
	return inv, nil
}

// FindPendingInvitation returns the pending invitation of userCode to groupID.
func (s *Store) FindPendingInvitation(ctx context.Context, groupID, userCode string) (*models.Invitation, error) {
	row := s.db.QueryRowContext(ctx, s.q(
		"SELECT "+invitationColumns+" FROM invitations WHERE group_id = ? AND invitee_code = ? AND status = ? ORDER BY created_at LIMIT 1"),
		groupID, userCode, string(models.InvitationPending),
	)
	inv, err := scanInvitation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("invitation for %s to %s: %w", userCode, groupID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find invitation: %w", err)
	}
	return inv, nil
}

// ListPendingInvitations returns the pending invitations of a user with the
// group name and inviter name filled in, newest first.
func (s *Store) ListPendingInvitations(ctx context.Context, userCode string) ([]*models.Invitation, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`
		SELECT i.id, i.group_id, i.invitee_code, i.inviter_code, i.status, i.created_at, i.accepted_at,
		       g.name, COALESCE(u.first_name, ''), COALESCE(u.last_name, '')
		FROM invitations i
		JOIN expense_groups g ON g.id = i.group_id
		LEFT JOIN users u ON u.code = i.inviter_code
		WHERE i.invitee_code = ? AND i.status = ?
		ORDER BY i.created_at DESC, i.id`),
		userCode, string(models.InvitationPending),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	defer rows.Close()

	var invitations []*models.Invitation
	for rows.Next() {
		inv := &models.Invitation{}
		var status, first, last string
		if err := rows.Scan(&inv.ID, &inv.GroupID, &inv.InviteeCode, &inv.InviterCode, &status,
			&inv.CreatedAt, &inv.AcceptedAt, &inv.GroupName, &first, &last); err != nil {
			return nil, fmt.Errorf("failed to scan invitation: %w", err)
		}
		inv.Status = models.InvitationStatus(status)
		inv.InviterName = (&models.User{FirstName: first, LastName: last}).FullName()
		invitations = append(invitations, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invitations: %w", err)
	}
	return invitations, nil
}

// AcceptInvitation marks a pending invitation accepted and grants membership.
func (s *Store) AcceptInvitation(ctx context.Context, invitationID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	var groupID, invitee string
	err = tx.QueryRowContext(ctx, s.q(
		"SELECT group_id, invitee_code FROM invitations WHERE id = ? AND status = ?"),
		invitationID, string(models.InvitationPending),
	).Scan(&groupID, &invitee)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("pending invitation %s: %w", invitationID, models.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to get invitation: %w", err)
	}

	if _, err := tx.ExecContext(ctx, s.q(
		"UPDATE invitations SET status = ?, accepted_at = ? WHERE id = ?"),
		string(models.InvitationAccepted), now, invitationID,
	); err != nil {
		return fmt.Errorf("failed to update invitation: %w", err)
	}

	_, err = tx.ExecContext(ctx, s.q(
		"INSERT INTO group_members (group_id, user_code, joined_at) VALUES (?, ?, ?)"),
		groupID, invitee, now,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("member %s of %s: %w", invitee, groupID, models.ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
