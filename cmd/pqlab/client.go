// ABOUTME: HTTP client for the pqlab-server user API
// ABOUTME: Registers public keys and fetches the current user with signed tokens

package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/2389/pqlab/internal/token"
)

// apiUser mirrors the server's user JSON.
type apiUser struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	DisplayName    string `json:"display_name"`
	PublicKey      string `json:"public_key"`
	KeyFingerprint string `json:"key_fingerprint"`
	CreatedAt      string `json:"created_at"`
}

// apiError is returned for non-2xx responses.
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

type apiClient struct {
	baseURL string
	http    *http.Client
}

func newAPIClient(baseURL string) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// SignUp registers email with the given raw public key.
func (c *apiClient) SignUp(ctx context.Context, email string, publicKey []byte) (*apiUser, error) {
	body, err := json.Marshal(map[string]string{
		"email":      email,
		"public_key": base64.StdEncoding.EncodeToString(publicKey),
	})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/user/sign-up", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var user apiUser
	if err := c.do(req, http.StatusCreated, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Me fetches the user for subject, authenticating with a token signed by privateKey.
func (c *apiClient) Me(ctx context.Context, subject string, privateKey []byte) (*apiUser, error) {
	wire, err := token.SignedString(subject, privateKey)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/user", nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+wire)

	var user apiUser
	if err := c.do(req, http.StatusOK, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *apiClient) do(req *http.Request, wantStatus int, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != wantStatus {
		var body struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(data, &body)
		return &apiError{Status: resp.StatusCode, Message: body.Error}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
