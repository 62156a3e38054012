package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/splitr/splitr/internal/models"
)

// memUsers is an in-memory UserStorage.
type memUsers struct {
	mu      sync.Mutex
	byEmail map[string]*models.User
}

func newMemUsers() *memUsers {
	return &memUsers{byEmail: map[string]*models.User{}}
}

func (m *memUsers) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[user.Email]; ok {
		return fmt.Errorf("user %s: %w", user.Email, models.ErrAlreadyExists)
	}
	m.byEmail[user.Email] = user
	return nil
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", email, models.ErrNotFound)
	}
	return u, nil
}

func TestPasswordAuthenticator(t *testing.T) {
	ctx := context.Background()
	a := NewPasswordAuthenticator(newMemUsers()).WithCost(bcrypt.MinCost)
	profile := Profile{Email: "Alice@Example.com", FirstName: "Alice", LastName: "Smith"}

	user, err := a.Register(ctx, profile, "password123")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("Email not normalized: %s", user.Email)
	}
	if len(user.Code) != 8 {
		t.Errorf("Expected 8-character user code, got %q", user.Code)
	}
	if user.PasswordHash == "password123" {
		t.Error("Password stored in plain text")
	}

	tests := []struct {
		name     string
		profile  Profile
		password string
		wantErr  error
	}{
		{"duplicate email", profile, "password123", ErrEmailExists},
		{"weak password", Profile{Email: "bob@example.com", FirstName: "Bob", LastName: "B"}, "short", ErrWeakPassword},
		{"bad email", Profile{Email: "not-an-email", FirstName: "Bob", LastName: "B"}, "password123", ErrInvalidProfile},
		{"missing name", Profile{Email: "bob@example.com", FirstName: " "}, "password123", ErrInvalidProfile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Register(ctx, tt.profile, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	t.Run("authenticate", func(t *testing.T) {
		got, err := a.Authenticate(ctx, "alice@example.com", "password123")
		if err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
		if got.Code != user.Code {
			t.Errorf("Code mismatch: got %s, want %s", got.Code, user.Code)
		}
		if _, err := a.Authenticate(ctx, "alice@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Expected ErrInvalidCredentials, got %v", err)
		}
		if _, err := a.Authenticate(ctx, "nobody@example.com", "password123"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Expected ErrInvalidCredentials, got %v", err)
		}
	})
}

// collidingUsers rejects the first codes it sees as already taken.
type collidingUsers struct {
	*memUsers
	collisions int
	tried      []string
}

func (c *collidingUsers) CreateUser(ctx context.Context, user *models.User) error {
	c.tried = append(c.tried, user.Code)
	if len(c.tried) <= c.collisions {
		return fmt.Errorf("user code %s: %w", user.Code, models.ErrUserCodeTaken)
	}
	return c.memUsers.CreateUser(ctx, user)
}

func TestRegisterRetriesTakenCode(t *testing.T) {
	ctx := context.Background()
	profile := Profile{Email: "alice@example.com", FirstName: "Alice", LastName: "Smith"}

	users := &collidingUsers{memUsers: newMemUsers(), collisions: 2}
	a := NewPasswordAuthenticator(users).WithCost(bcrypt.MinCost)
	user, err := a.Register(ctx, profile, "password123")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if len(users.tried) != 3 {
		t.Errorf("Expected 3 attempts, got %d", len(users.tried))
	}
	if user.Code != users.tried[2] || user.Code == users.tried[0] {
		t.Errorf("Expected a fresh code, got %q after %v", user.Code, users.tried)
	}

	users = &collidingUsers{memUsers: newMemUsers(), collisions: maxCodeAttempts}
	a = NewPasswordAuthenticator(users).WithCost(bcrypt.MinCost)
	_, err = a.Register(ctx, profile, "password123")
	if errors.Is(err, ErrEmailExists) {
		t.Errorf("Code collisions reported as taken email: %v", err)
	}
	if !errors.Is(err, models.ErrUserCodeTaken) {
		t.Errorf("Expected ErrUserCodeTaken, got %v", err)
	}
}

func TestJWTManager(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	user := &models.User{Code: "ABCD1234", Email: "a@example.com"}

	token, err := m.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	session, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if session.UserCode != user.Code || session.Email != user.Email {
		t.Errorf("Session mismatch: %+v", session)
	}
	if session.TokenID == "" {
		t.Error("Expected token ID")
	}
	if time.Until(session.ExpiresAt) <= 0 {
		t.Error("Expected expiry in the future")
	}

	other, _ := m.Generate(user)
	if s2, _ := m.Validate(other); s2 == nil || s2.TokenID == session.TokenID {
		t.Error("Expected distinct token IDs per token")
	}

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewJWTManager("other", time.Hour).Validate(token)
		if !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("expired", func(t *testing.T) {
		expired, err := NewJWTManager("test-secret", -time.Minute).Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if _, err := m.Validate(expired); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := m.Validate("not.a.token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Expected ErrInvalidToken, got %v", err)
		}
	})
}

func TestSessionContext(t *testing.T) {
	if _, ok := SessionFromContext(context.Background()); ok {
		t.Error("Expected no session in empty context")
	}
	ctx := WithSession(context.Background(), &Session{UserCode: "X"})
	s, ok := SessionFromContext(ctx)
	if !ok || s.UserCode != "X" {
		t.Errorf("Expected session X, got %+v", s)
	}
}
