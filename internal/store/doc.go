// Package store provides persistent storage for registered identities using SQLite.
//
// # Architecture
//
// The store package is interface driven:
//
//   - UserStore: registration and lookup of users by subject UUID or email
//   - AuditStore: append-only audit log of registrations
//   - Store: both of the above plus Ping and Close
//
// SQLiteStore implements Store in a single struct. MockStore is an in-memory
// implementation for tests.
//
// # Data Models
//
//   - User: a subject UUID bound to the Dilithium3 public key that verifies
//     its tokens, plus email and display name
//   - AuditEntry: who registered which user and when
//
// A user's public key is written once at registration and never updated.
// Emails are unique without regard to ASCII case, following SQLite's NOCASE
// collation. Non-ASCII letters compare exactly.
//
// # SQLite Configuration
//
// The store uses SQLite with WAL mode for concurrent reads:
//
//	PRAGMA journal_mode=WAL;
//	PRAGMA foreign_keys=ON;
//
// Timestamps are stored as RFC3339 text in UTC.
//
// # Error Handling
//
//   - ErrNotFound: requested user does not exist
//   - ErrDuplicateEmail: email is already registered
//   - ErrDuplicateID: a caller-supplied user ID is already taken
//
// All methods accept context.Context for cancellation support.
//
// # Testing
//
// Use NewMockStore() for unit tests and NewSQLiteStore with a path under
// t.TempDir() for integration tests with real SQLite.
package store
