// ABOUTME: Local key material handling for the pqlab client
// ABOUTME: Reads and writes base64 key files and the registered subject

package main

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/2389/pqlab/internal/dilithium"
)

const (
	privateKeyFile = "private.key"
	publicKeyFile  = "public.key"
	subjectFile    = "subject"
)

// getKeyDir returns the directory holding the client's key pair.
// Priority: PQLAB_KEY_DIR env var > XDG_CONFIG_HOME/pqlab/keys > ~/.config/pqlab/keys
func getKeyDir() string {
	if dir := os.Getenv("PQLAB_KEY_DIR"); dir != "" {
		return dir
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "keys" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "pqlab", "keys")
}

// writeKeyPair stores both keys as base64 text. The private key file is
// readable by the owner only. Existing keys are kept unless force is set.
func writeKeyPair(dir string, pub, priv []byte, force bool) error {
	privPath := filepath.Join(dir, privateKeyFile)
	if !force {
		if _, err := os.Stat(privPath); err == nil {
			return fmt.Errorf("%s already exists (use --force to replace it)", privPath)
		}
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating key directory: %w", err)
	}
	if err := os.WriteFile(privPath, []byte(base64.StdEncoding.EncodeToString(priv)+"\n"), 0600); err != nil {
		return fmt.Errorf("writing private key: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, publicKeyFile), []byte(base64.StdEncoding.EncodeToString(pub)+"\n"), 0644); err != nil {
		return fmt.Errorf("writing public key: %w", err)
	}

	// A new key pair invalidates any earlier registration
	if err := os.Remove(filepath.Join(dir, subjectFile)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing stale subject: %w", err)
	}
	return nil
}

// readKeyFile decodes a base64 key file and checks its length.
func readKeyFile(path string, size int) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading key: %w", err)
	}
	key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	if len(key) != size {
		return nil, fmt.Errorf("%s: %w: %d bytes, want %d", filepath.Base(path), dilithium.ErrInvalidKeyLength, len(key), size)
	}
	return key, nil
}

func readPrivateKey(dir string) ([]byte, error) {
	return readKeyFile(filepath.Join(dir, privateKeyFile), dilithium.PrivateKeySize)
}

func readPublicKey(dir string) ([]byte, error) {
	return readKeyFile(filepath.Join(dir, publicKeyFile), dilithium.PublicKeySize)
}

func writeSubject(dir string, id uuid.UUID) error {
	return os.WriteFile(filepath.Join(dir, subjectFile), []byte(id.String()+"\n"), 0644)
}

// readSubject returns the UUID saved by sign-up.
func readSubject(dir string) (uuid.UUID, error) {
	data, err := os.ReadFile(filepath.Join(dir, subjectFile))
	if errors.Is(err, os.ErrNotExist) {
		return uuid.Nil, errors.New("no registered subject; run 'pqlab sign-up' first or pass --sub")
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("reading subject: %w", err)
	}
	id, err := uuid.Parse(strings.TrimSpace(string(data)))
	if err != nil {
		return uuid.Nil, fmt.Errorf("parsing subject: %w", err)
	}
	return id, nil
}
