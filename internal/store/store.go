// ABOUTME: Store interfaces and data types for pqlab persistence
// ABOUTME: Defines User (a registered identity) and the user and audit store contracts

package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when registering an email that is already taken
var ErrDuplicateEmail = errors.New("email already registered")

// ErrDuplicateID is returned when creating a user with an ID that is already taken
var ErrDuplicateID = errors.New("user id already exists")

// User is a registered identity: a subject UUID bound to a Dilithium3 public key.
type User struct {
	ID             uuid.UUID
	Email          string
	DisplayName    string
	PublicKey      []byte // raw verification key, set once at registration
	KeyFingerprint string // hex digest of PublicKey, for display only
	CreatedAt      time.Time
	ModifiedAt     time.Time
}

// UserStore defines the identity lookups and registration used by auth and the API.
type UserStore interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

// AuditStore records administrative and registration events.
type AuditStore interface {
	AppendAuditLog(ctx context.Context, e *AuditEntry) error
	ListAuditLog(ctx context.Context, f AuditFilter) ([]AuditEntry, error)
}

// Store is the full persistence contract of the server.
type Store interface {
	UserStore
	AuditStore

	// Ping reports whether the backing database is reachable
	Ping(ctx context.Context) error

	// Close releases any resources held by the store
	Close() error
}

// validateNewUser checks the fields CreateUser requires.
func validateNewUser(user *User) error {
	if user.Email == "" {
		return errors.New("email is required")
	}
	if len(user.PublicKey) == 0 {
		return errors.New("public key is required")
	}
	return nil
}

// prepareNewUser fills in the ID, display name and timestamps when unset.
func prepareNewUser(user *User) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.DisplayName == "" {
		user.DisplayName = user.Email
	}
	now := time.Now().UTC().Truncate(time.Second)
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.ModifiedAt.IsZero() {
		user.ModifiedAt = user.CreatedAt
	}
}
