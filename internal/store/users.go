// ABOUTME: User store methods for registering and resolving identities
// ABOUTME: Users bind a UUID subject to the public key that verifies its tokens

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const userColumns = `id, email, display_name, public_key, key_fingerprint, created_at, modified_at`

// CreateUser inserts a new user. ID, DisplayName and timestamps are filled in
// when unset. Returns ErrDuplicateEmail if the email is already registered and
// ErrDuplicateID if a caller-supplied ID is taken.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *User) error {
	if err := validateNewUser(user); err != nil {
		return err
	}
	prepareNewUser(user)

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		user.ID.String(),
		user.Email,
		user.DisplayName,
		user.PublicKey,
		user.KeyFingerprint,
		user.CreatedAt.UTC().Format(time.RFC3339),
		user.ModifiedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		switch {
		case isUniqueViolation(err, "users.email"):
			return fmt.Errorf("%w: %s", ErrDuplicateEmail, user.Email)
		case isUniqueViolation(err, "users.id"):
			return fmt.Errorf("%w: %s", ErrDuplicateID, user.ID)
		}
		return fmt.Errorf("inserting user: %w", err)
	}

	s.logger.Debug("created user", "id", user.ID, "key_fingerprint", user.KeyFingerprint)
	return nil
}

// GetUserByID retrieves a user by subject UUID.
// Returns ErrNotFound if the user doesn't exist.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return s.queryUser(ctx, query, id.String())
}

// GetUserByEmail retrieves a user by email, ignoring case.
// Returns ErrNotFound if the user doesn't exist.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return s.queryUser(ctx, query, email)
}

func (s *SQLiteStore) queryUser(ctx context.Context, query string, arg any) (*User, error) {
	user, err := scanUser(s.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return user, nil
}

// scanUser scans a row into a User.
func scanUser(scanner interface{ Scan(dest ...any) error }) (*User, error) {
	var u User
	var id, createdAt, modifiedAt string

	if err := scanner.Scan(
		&id,
		&u.Email,
		&u.DisplayName,
		&u.PublicKey,
		&u.KeyFingerprint,
		&createdAt,
		&modifiedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if u.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parsing user id %q: %w", id, err)
	}
	if u.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if u.ModifiedAt, err = time.Parse(time.RFC3339, modifiedAt); err != nil {
		return nil, fmt.Errorf("parsing modified_at: %w", err)
	}
	return &u, nil
}
