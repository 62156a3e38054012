// Package auth verifies user credentials and issues session tokens.
package auth

import (
	"context"

	"github.com/splitr/splitr/internal/models"
)

// Profile holds the user-supplied fields of a new account.
type Profile struct {
	Email     string
	FirstName string
	LastName  string
}

// Authenticator defines the interface for authentication implementations.
// Swapping password auth for passkeys or OAuth does not touch the services.
type Authenticator interface {
	// Register creates a new user account from a profile and credential.
	Register(ctx context.Context, profile Profile, credential string) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if successful.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
