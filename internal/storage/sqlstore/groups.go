package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/splitr/splitr/internal/models"
)

// CreateGroup persists a new group with its owner as first member.
func (s *Store) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, s.q(
		"INSERT INTO expense_groups (id, name, owner_code, created_at) VALUES (?, ?, ?, ?)"),
		group.ID, group.Name, group.OwnerCode, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	_, err = tx.ExecContext(ctx, s.q(
		"INSERT INTO group_members (group_id, user_code, joined_at) VALUES (?, ?, ?)"),
		group.ID, group.OwnerCode, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert owner membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	group.Members = []string{group.OwnerCode}
	return nil
}

// GetGroup retrieves a group by ID, including its members.
func (s *Store) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group := &models.Group{}
	err := s.db.QueryRowContext(ctx, s.q(
		"SELECT id, name, owner_code, created_at FROM expense_groups WHERE id = ?"),
		groupID,
	).Scan(&group.ID, &group.Name, &group.OwnerCode, &group.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("group %s: %w", groupID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	group.Members, err = s.listMembers(ctx, s.db, groupID)
	if err != nil {
		return nil, err
	}
	return group, nil
}

// ListGroupsForUser returns the groups userCode belongs to, newest first.
func (s *Store) ListGroupsForUser(ctx context.Context, userCode string) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`
		SELECT g.id, g.name, g.owner_code, g.created_at
		FROM expense_groups g
		JOIN group_members m ON m.group_id = g.id
		WHERE m.user_code = ?
		ORDER BY g.created_at DESC, g.id`),
		userCode,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group := &models.Group{}
		if err := rows.Scan(&group.ID, &group.Name, &group.OwnerCode, &group.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}
	rows.Close()

	for _, group := range groups {
		if group.Members, err = s.listMembers(ctx, s.db, group.ID); err != nil {
			return nil, err
		}
	}
	return groups, nil
}

// ListGroupMembers returns the member codes of a group in ascending order.
func (s *Store) ListGroupMembers(ctx context.Context, groupID string) ([]string, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, s.q("SELECT 1 FROM expense_groups WHERE id = ?"), groupID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("group %s: %w", groupID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check group existence: %w", err)
	}
	return s.listMembers(ctx, s.db, groupID)
}

func (s *Store) listMembers(ctx context.Context, q querier, groupID string) ([]string, error) {
	rows, err := q.QueryContext(ctx, s.q(
		"SELECT user_code FROM group_members WHERE group_id = ? ORDER BY user_code"),
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	members := []string{}
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, code)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}

// RenameGroup changes a group's display name.
func (s *Store) RenameGroup(ctx context.Context, groupID, name string) error {
	res, err := s.db.ExecContext(ctx, s.q("UPDATE expense_groups SET name = ? WHERE id = ?"), name, groupID)
	if err != nil {
		return fmt.Errorf("failed to rename group: %w", err)
	}
	return requireAffected(res, "group", groupID)
}

// DeleteGroup removes a group. Memberships, invitations, expenses and
// payments go with it through ON DELETE CASCADE.
func (s *Store) DeleteGroup(ctx context.Context, groupID string) error {
	res, err := s.db.ExecContext(ctx, s.q("DELETE FROM expense_groups WHERE id = ?"), groupID)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	return requireAffected(res, "group", groupID)
}

// RemoveGroupMember deletes one membership. Members who appear in any of
// the group's expenses or payments are kept and ErrConflict is returned;
// the check and the delete share a transaction with the membership row
// locked, so a concurrent expense cannot name a member removed under it.
func (s *Store) RemoveGroupMember(ctx context.Context, groupID, userCode string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var one int
	err = tx.QueryRowContext(ctx, s.q(
		"SELECT 1 FROM group_members WHERE group_id = ? AND user_code = ?"+s.dialect.updateLock),
		groupID, userCode,
	).Scan(&one)
	if err != nil {
		return notFoundOr(err, "member", userCode)
	}

	has, err := s.hasLedgerRecords(ctx, tx, groupID, userCode)
	if err != nil {
		return err
	}
	if has {
		return fmt.Errorf("member %s has expenses or payments in group %s: %w", userCode, groupID, models.ErrConflict)
	}

	if _, err := tx.ExecContext(ctx, s.q(
		"DELETE FROM group_members WHERE group_id = ? AND user_code = ?"),
		groupID, userCode,
	); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// lockMembers returns the first of codes that is not a member of groupID,
// or "" when all are. Postgres holds a share lock on the membership rows
// until tx ends, which blocks RemoveGroupMember for them.
func (s *Store) lockMembers(ctx context.Context, tx *sql.Tx, groupID string, codes []string) (string, error) {
	unique := slices.Compact(slices.Sorted(slices.Values(codes)))
	if len(unique) == 0 {
		return "", nil
	}
	rows, err := tx.QueryContext(ctx, s.q(
		"SELECT user_code FROM group_members WHERE group_id = ? AND user_code IN ("+placeholders(len(unique))+")"+s.dialect.shareLock),
		append([]any{groupID}, toArgs(unique)...)...,
	)
	if err != nil {
		return "", fmt.Errorf("failed to check members: %w", err)
	}
	defer rows.Close()

	found := make(map[string]bool, len(unique))
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return "", fmt.Errorf("failed to scan member: %w", err)
		}
		found[code] = true
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("failed to iterate members: %w", err)
	}
	for _, code := range unique {
		if !found[code] {
			return code, nil
		}
	}
	return "", nil
}
