// ABOUTME: HTTP API handlers for user registration and the current user
// ABOUTME: Provides POST /api/user/sign-up and GET /api/user

package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/2389/pqlab/internal/auth"
	"github.com/2389/pqlab/internal/dilithium"
	"github.com/2389/pqlab/internal/store"
)

// maxSignUpBody caps the sign-up request body.
const maxSignUpBody = 64 * 1024

// SignUpRequest is the JSON request body for POST /api/user/sign-up.
type SignUpRequest struct {
	Email     string `json:"email"`
	PublicKey string `json:"public_key"` // standard base64 of the raw public key
}

// UserResponse is the JSON representation of a registered user.
type UserResponse struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	DisplayName    string `json:"display_name"`
	PublicKey      string `json:"public_key"`
	KeyFingerprint string `json:"key_fingerprint"`
	CreatedAt      string `json:"created_at"`
}

func newUserResponse(u *store.User) UserResponse {
	return UserResponse{
		ID:             u.ID.String(),
		Email:          u.Email,
		DisplayName:    u.DisplayName,
		PublicKey:      base64.StdEncoding.EncodeToString(u.PublicKey),
		KeyFingerprint: u.KeyFingerprint,
		CreatedAt:      u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// signUp is a validated registration request.
type signUp struct {
	email     string
	publicKey []byte
}

// parseSignUpRequest parses and validates a SignUpRequest from the given reader.
func parseSignUpRequest(r io.Reader) (*signUp, error) {
	var req SignUpRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return nil, errors.New("invalid JSON body")
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		return nil, errors.New("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return nil, errors.New("email is not a valid address")
	}

	if req.PublicKey == "" {
		return nil, errors.New("public_key is required")
	}
	key, err := base64.StdEncoding.DecodeString(req.PublicKey)
	if err != nil {
		return nil, errors.New("public_key is not valid base64")
	}
	if len(key) != dilithium.PublicKeySize {
		return nil, fmt.Errorf("public_key must be %d bytes, got %d", dilithium.PublicKeySize, len(key))
	}

	return &signUp{email: email, publicKey: key}, nil
}

// handleSignUp registers a new user bound to the submitted public key.
func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	req, err := parseSignUpRequest(http.MaxBytesReader(w, r.Body, maxSignUpBody))
	if err != nil {
		s.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()

	_, err = s.store.GetUserByEmail(ctx, req.email)
	switch {
	case err == nil:
		s.sendJSONError(w, http.StatusConflict, "user already exists")
		return
	case !errors.Is(err, store.ErrNotFound):
		s.logger.Error("failed to look up email", "error", err)
		s.sendJSONError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}

	user := &store.User{
		Email:          req.email,
		DisplayName:    req.email,
		PublicKey:      req.publicKey,
		KeyFingerprint: dilithium.Fingerprint(req.publicKey),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			s.sendJSONError(w, http.StatusConflict, "user already exists")
			return
		}
		s.logger.Error("failed to create user", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "user creation failed")
		return
	}

	// Self-registration unless an existing user signed the request.
	actor := user.ID.String()
	if id := auth.FromContext(ctx); id != nil {
		actor = id.UserID.String()
	}
	entry := &store.AuditEntry{
		ActorUserID: actor,
		Action:      store.AuditRegisterUser,
		TargetType:  "user",
		TargetID:    user.ID.String(),
		Detail:      map[string]any{"key_fingerprint": user.KeyFingerprint},
	}
	if err := s.store.AppendAuditLog(ctx, entry); err != nil {
		s.logger.Warn("failed to write audit entry", "user_id", user.ID, "error", err)
	}

	s.logger.Info("registered user", "user_id", user.ID, "key_fingerprint", user.KeyFingerprint)
	s.sendJSON(w, http.StatusCreated, newUserResponse(user))
}

// handleGetUser returns the authenticated caller's stored record.
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	id := auth.MustFromContext(r.Context())

	user, err := s.store.GetUserByID(r.Context(), id.UserID)
	if errors.Is(err, store.ErrNotFound) {
		s.sendJSONError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		s.logger.Error("failed to load user", "user_id", id.UserID, "error", err)
		s.sendJSONError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}

	s.sendJSON(w, http.StatusOK, newUserResponse(user))
}

func (s *Server) sendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) sendJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
