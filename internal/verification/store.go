package verification

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Flow separates verification namespaces so an OTP issued for a password
// reset can never satisfy a registration check.
type Flow string

const (
	FlowRegister      Flow = "register"
	FlowPasswordReset Flow = "password_reset"
	FlowVerifiedEmail Flow = "verified_email"
)

// Store is an expiring key-value store for OTP and verified-email tracking,
// backed by the database rather than process memory so horizontally scaled
// instances observe the same state. Expired entries are ignored by reads
// and cleaned up lazily.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Put inserts or refreshes an entry; a repeated Put restarts the TTL.
func (s *Store) Put(ctx context.Context, flow Flow, key, value string, ttl time.Duration) error {
	query := `
		INSERT INTO verifications (flow, key, value, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (flow, key)
		DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at
	`

	_, err := s.db.ExecContext(ctx, query, flow, key, value, time.Now().Add(ttl))
	if err != nil {
		return fmt.Errorf("verification put error: %w", err)
	}

	return nil
}

// Check returns the stored value for key if it has not expired.
func (s *Store) Check(ctx context.Context, flow Flow, key string) (string, bool, error) {
	query := `
		SELECT value FROM verifications
		WHERE flow = $1 AND key = $2 AND expires_at > NOW()
	`

	var value string
	err := s.db.QueryRowContext(ctx, query, flow, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("verification check error: %w", err)
	}

	return value, true, nil
}

func (s *Store) Delete(ctx context.Context, flow Flow, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM verifications WHERE flow = $1 AND key = $2`, flow, key)
	if err != nil {
		return fmt.Errorf("verification delete error: %w", err)
	}
	return nil
}

// Purge removes expired entries; callers run it periodically.
func (s *Store) Purge(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM verifications WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("verification purge error: %w", err)
	}
	return result.RowsAffected()
}
