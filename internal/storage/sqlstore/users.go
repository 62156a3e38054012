package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/splitr/splitr/internal/models"
)

const userColumns = "id, code, email, first_name, last_name, password_hash, created_at, updated_at"

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Code,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}

// CreateUser inserts a new user into the database.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`),
		user.ID,
		user.Code,
		user.Email,
		user.FirstName,
		user.LastName,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return s.userConflict(ctx, user)
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// userConflict names the unique constraint a rejected insert hit. A taken
// email wins over a taken code.
func (s *Store) userConflict(ctx context.Context, user *models.User) error {
	var one int
	err := s.db.QueryRowContext(ctx, s.q("SELECT 1 FROM users WHERE email = ?"), user.Email).Scan(&one)
	if err == nil {
		return fmt.Errorf("user %s: %w", user.Email, models.ErrAlreadyExists)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check email: %w", err)
	}
	err = s.db.QueryRowContext(ctx, s.q("SELECT 1 FROM users WHERE code = ?"), user.Code).Scan(&one)
	if err == nil {
		return fmt.Errorf("user code %s: %w", user.Code, models.ErrUserCodeTaken)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check user code: %w", err)
	}
	return fmt.Errorf("user %s: %w", user.ID, models.ErrAlreadyExists)
}

// GetUserByEmail retrieves a user by their email address.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row := s.db.QueryRowContext(ctx, s.q("SELECT "+userColumns+" FROM users WHERE email = ?"), email)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", email, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// GetUserByCode retrieves a user by their user code.
func (s *Store) GetUserByCode(ctx context.Context, code string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, s.q("SELECT "+userColumns+" FROM users WHERE code = ?"), code)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", code, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by code: %w", err)
	}
	return user, nil
}

// GetUsersByCodes retrieves multiple users by their codes.
// Users that don't exist are omitted from the result.
func (s *Store) GetUsersByCodes(ctx context.Context, codes []string) (map[string]*models.User, error) {
	users := make(map[string]*models.User, len(codes))
	if len(codes) == 0 {
		return users, nil
	}

	query := "SELECT " + userColumns + " FROM users WHERE code IN (" + placeholders(len(codes)) + ")"
	rows, err := s.db.QueryContext(ctx, s.q(query), toArgs(codes)...)
	if err != nil {
		return nil, fmt.Errorf("failed to get users by codes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users[user.Code] = user
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

// UpdateUser stores the mutable profile fields of a user.
func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().Unix()
	res, err := s.db.ExecContext(ctx, s.q(`
		UPDATE users SET email = ?, first_name = ?, last_name = ?, updated_at = ?
		WHERE code = ?
	`), strings.ToLower(strings.TrimSpace(user.Email)), user.FirstName, user.LastName, user.UpdatedAt, user.Code)
	if isUniqueViolation(err) {
		return fmt.Errorf("email %s: %w", user.Email, models.ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return requireAffected(res, "user", user.Code)
}

// DeleteUser removes a user account.
func (s *Store) DeleteUser(ctx context.Context, code string) error {
	res, err := s.db.ExecContext(ctx, s.q("DELETE FROM users WHERE code = ?"), code)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return requireAffected(res, "user", code)
}

// requireAffected turns an UPDATE or DELETE that matched nothing into ErrNotFound.
func requireAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, models.ErrNotFound)
	}
	return nil
}
