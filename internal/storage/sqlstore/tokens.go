package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// RevokeToken records a token ID as revoked until it expires.
// Revoking the same token twice is not an error.
func (s *Store) RevokeToken(ctx context.Context, tokenID string, expiresAt int64) error {
	_, err := s.db.ExecContext(ctx, s.q(
		"INSERT INTO revoked_tokens (token_id, expires_at) VALUES (?, ?) ON CONFLICT (token_id) DO NOTHING"),
		tokenID, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsTokenRevoked reports whether a token ID was revoked.
func (s *Store) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, s.q("SELECT 1 FROM revoked_tokens WHERE token_id = ?"), tokenID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check token: %w", err)
	}
	return true, nil
}

// PurgeExpiredTokens deletes revocations of tokens that expired before now.
func (s *Store) PurgeExpiredTokens(ctx context.Context, now int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.q("DELETE FROM revoked_tokens WHERE expires_at < ?"), now)
	if err != nil {
		return 0, fmt.Errorf("failed to purge tokens: %w", err)
	}
	return res.RowsAffected()
}
