// ABOUTME: Mock Store implementation for testing
// ABOUTME: Allows tests to run without SQLite

package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MockStore is an in-memory Store implementation for testing.
type MockStore struct {
	mu      sync.RWMutex
	users   map[uuid.UUID]*User  // keyed by user ID
	byEmail map[string]uuid.UUID // keyed by foldEmail
	audit   []AuditEntry
	pingErr error
}

// foldEmail lowercases ASCII letters only, matching SQLite's NOCASE collation.
func foldEmail(email string) string {
	return strings.Map(func(r rune) rune {
		if 'A' <= r && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, email)
}

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		users:   make(map[uuid.UUID]*User),
		byEmail: make(map[string]uuid.UUID),
	}
}

// SetPingError makes subsequent Ping calls return err. Pass nil to clear.
func (m *MockStore) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingErr = err
}

// CreateUser stores a new user.
func (m *MockStore) CreateUser(ctx context.Context, user *User) error {
	if err := validateNewUser(user); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := foldEmail(user.Email)
	if _, exists := m.byEmail[key]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateEmail, user.Email)
	}

	prepareNewUser(user)
	if _, exists := m.users[user.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, user.ID)
	}

	m.users[user.ID] = copyUser(user)
	m.byEmail[key] = user.ID
	return nil
}

// GetUserByID retrieves a user by ID.
func (m *MockStore) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyUser(u), nil
}

// GetUserByEmail retrieves a user by email, ignoring case.
func (m *MockStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byEmail[foldEmail(email)]
	if !ok {
		return nil, ErrNotFound
	}
	return copyUser(m.users[id]), nil
}

// AppendAuditLog appends a new entry to the audit log.
func (m *MockStore) AppendAuditLog(ctx context.Context, e *AuditEntry) error {
	prepareAuditEntry(e)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.audit = append(m.audit, *e)
	return nil
}

// ListAuditLog returns audit entries matching the filter, newest first.
func (m *MockStore) ListAuditLog(ctx context.Context, f AuditFilter) ([]AuditEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := []AuditEntry{}
	for _, e := range m.audit {
		if auditMatches(e, f) {
			entries = append(entries, e)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})

	if limit := normalizeAuditLimit(f.Limit); len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Ping returns the error set by SetPingError.
func (m *MockStore) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingErr
}

// Close is a no-op for MockStore.
func (m *MockStore) Close() error {
	return nil
}

func copyUser(u *User) *User {
	c := *u
	c.PublicKey = append([]byte(nil), u.PublicKey...)
	return &c
}

// Ensure MockStore implements Store.
var _ Store = (*MockStore)(nil)
