package models

import (
	"encoding/base32"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User represents a registered user account.
type User struct {
	// ID is the internal identifier (UUID format). It never leaves the server.
	ID string

	// Code is the stable, human-shareable identifier other users see and
	// use for invitations and ledger records.
	Code string

	// Email is the user's login address (unique).
	Email string

	FirstName string
	LastName  string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	CreatedAt int64
	UpdatedAt int64
}

// FullName joins first and last name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// NewUser creates a user with fresh ID, code and timestamps.
func NewUser(email, firstName, lastName, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.New().String(),
		Code:         NewUserCode(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

var userCodeEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// NewUserCode returns a random 8-character code of upper-case letters and digits.
func NewUserCode() string {
	id := uuid.New()
	return userCodeEncoding.EncodeToString(id[:5])
}
