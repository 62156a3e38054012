// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/splitr/splitr/internal/models"
)

// Store defines every persistence operation Splitr needs.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the service layer.
//
// Lookups of missing records return an error wrapping models.ErrNotFound.
type Store interface {
	UserStore
	GroupStore
	LedgerStore
	TokenStore

	// Close releases any resources held by the store.
	Close() error
}

// UserStore persists user accounts.
type UserStore interface {
	// CreateUser inserts a user. Duplicate emails fail with models.ErrAlreadyExists.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByCode(ctx context.Context, code string) (*models.User, error)
	// GetUsersByCodes returns the users that exist, keyed by code.
	GetUsersByCodes(ctx context.Context, codes []string) (map[string]*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, code string) error
}

// GroupStore persists groups, memberships and invitations.
type GroupStore interface {
	// CreateGroup inserts the group with its owner as the only member.
	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	ListGroupsForUser(ctx context.Context, userCode string) ([]*models.Group, error)
	ListGroupMembers(ctx context.Context, groupID string) ([]string, error)
	RenameGroup(ctx context.Context, groupID, name string) error
	// DeleteGroup removes the group together with its memberships,
	// invitations, expenses and payments.
	DeleteGroup(ctx context.Context, groupID string) error
	// RemoveGroupMember deletes a membership atomically with the check that
	// the user appears in none of the group's expenses or payments
	// (models.ErrConflict otherwise).
	RemoveGroupMember(ctx context.Context, groupID, userCode string) error

	CreateInvitation(ctx context.Context, inv *models.Invitation) error
	GetInvitation(ctx context.Context, invitationID string) (*models.Invitation, error)
	// FindPendingInvitation returns the pending invitation of userCode to groupID.
	FindPendingInvitation(ctx context.Context, groupID, userCode string) (*models.Invitation, error)
	ListPendingInvitations(ctx context.Context, userCode string) ([]*models.Invitation, error)
	// AcceptInvitation marks the invitation accepted and adds the invitee to
	// the group in one transaction.
	AcceptInvitation(ctx context.Context, invitationID string) error
}

// LedgerStore persists expenses and payments.
type LedgerStore interface {
	// CreateExpense and CreatePayment re-check that every user they name is
	// a group member inside the insert transaction, failing with
	// models.ErrInvalidExpense or models.ErrInvalidPayment.
	CreateExpense(ctx context.Context, expense *models.Expense) error
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)
	CreatePayment(ctx context.Context, payment *models.Payment) error
	ListPaymentsByGroup(ctx context.Context, groupID string) ([]*models.Payment, error)

	// LoadLedger reads all expenses and payments of a group in one
	// consistent read.
	LoadLedger(ctx context.Context, groupID string) (*models.Ledger, error)
}

// TokenStore records revoked session tokens.
type TokenStore interface {
	RevokeToken(ctx context.Context, tokenID string, expiresAt int64) error
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
	// PurgeExpiredTokens forgets revocations whose tokens expired before now.
	PurgeExpiredTokens(ctx context.Context, now int64) (int64, error)
}
