// ABOUTME: Client CLI for pqlab: key generation, registration and signed requests
// ABOUTME: Keys stay on this machine; only the public key is sent to the server

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/2389/pqlab/internal/dilithium"
	"github.com/2389/pqlab/internal/token"
)

const banner = `
                  _       _
  _ __   __ _  | | __ _| |__
 | '_ \ / _' | | |/ _' | '_ \
 | |_) | (_| | | | (_| | |_) |
 | .__/ \__, | |_|\__,_|_.__/
 |_|       |_|
`

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	serverURL := getEnv("PQLAB_URL", "http://localhost:8080")
	keyDir := getKeyDir()

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "keygen":
		err = cmdKeygen(keyDir, args)
	case "sign-up":
		err = cmdSignUp(serverURL, keyDir, args)
	case "token":
		err = cmdToken(keyDir, args)
	case "me":
		err = cmdMe(serverURL, keyDir, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)

	cyan.Print(banner)
	fmt.Println()
	fmt.Println("Usage: pqlab <command> [args]")
	fmt.Println()
	yellow.Println("Commands:")
	fmt.Println("  keygen [--force]          Generate a Dilithium3 key pair")
	fmt.Println("  sign-up --email <email>   Register the public key with the server")
	fmt.Println("  token [--sub <uuid>]      Print a signed token for the subject")
	fmt.Println("  me                        Show the registered user (signed request)")
	fmt.Println()
	yellow.Println("Global flags:")
	fmt.Println("  --keys <dir>              Key directory (overrides PQLAB_KEY_DIR)")
	fmt.Println()
	yellow.Println("Environment:")
	fmt.Println("  PQLAB_URL       Server URL (default: http://localhost:8080)")
	fmt.Println("  PQLAB_KEY_DIR   Key directory (default: ~/.config/pqlab/keys)")
	fmt.Println()
	yellow.Println("Examples:")
	fmt.Println("  pqlab keygen")
	fmt.Println("  pqlab sign-up --email alice@example.com")
	fmt.Println("  curl -H \"Authorization: Bearer $(pqlab token)\" http://localhost:8080/api/user")
	fmt.Println()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// parseFlags collects "--name value" pairs for flags in valued and bare
// flags in boolean. Any other argument is an error.
func parseFlags(args []string, valued, boolean map[string]bool) (map[string]string, error) {
	flags := make(map[string]string)
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case valued[arg]:
			if i+1 >= len(args) {
				return nil, fmt.Errorf("%s requires a value", arg)
			}
			flags[arg] = args[i+1]
			i++
		case boolean[arg]:
			flags[arg] = "true"
		case strings.HasPrefix(arg, "-"):
			return nil, fmt.Errorf("unknown flag %s", arg)
		default:
			return nil, fmt.Errorf("unexpected argument %q", arg)
		}
	}
	return flags, nil
}

// resolveKeyDir honors --keys over the default.
func resolveKeyDir(flags map[string]string, fallback string) string {
	if dir := flags["--keys"]; dir != "" {
		return dir
	}
	return fallback
}

// cmdKeygen generates and stores a new key pair
func cmdKeygen(keyDir string, args []string) error {
	flags, err := parseFlags(args, map[string]bool{"--keys": true}, map[string]bool{"--force": true})
	if err != nil {
		return err
	}
	keyDir = resolveKeyDir(flags, keyDir)

	pub, priv, err := dilithium.GenerateKey(nil)
	if err != nil {
		return fmt.Errorf("generating key pair: %w", err)
	}
	if err := writeKeyPair(keyDir, pub, priv, flags["--force"] == "true"); err != nil {
		return err
	}

	green := color.New(color.FgGreen)
	green.Println("✓ Generated Dilithium3 key pair")
	fmt.Printf("  Directory:   %s\n", keyDir)
	fmt.Printf("  Fingerprint: %s\n", dilithium.Fingerprint(pub))
	return nil
}

// cmdSignUp registers the local public key
func cmdSignUp(serverURL, keyDir string, args []string) error {
	flags, err := parseFlags(args, map[string]bool{"--email": true, "--keys": true}, nil)
	if err != nil {
		return err
	}
	keyDir = resolveKeyDir(flags, keyDir)

	email := flags["--email"]
	if email == "" {
		return fmt.Errorf("usage: sign-up --email <email>")
	}

	pub, err := readPublicKey(keyDir)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	user, err := newAPIClient(serverURL).SignUp(ctx, email, pub)
	if err != nil {
		return fmt.Errorf("sign-up: %w", err)
	}

	id, err := uuid.Parse(user.ID)
	if err != nil {
		return fmt.Errorf("server returned invalid id %q: %w", user.ID, err)
	}
	if err := writeSubject(keyDir, id); err != nil {
		return fmt.Errorf("saving subject: %w", err)
	}

	green := color.New(color.FgGreen)
	green.Printf("✓ Registered %s\n", user.Email)
	fmt.Printf("  Subject:     %s\n", user.ID)
	fmt.Printf("  Fingerprint: %s\n", user.KeyFingerprint)
	return nil
}

// subjectFromFlags returns --sub when given, else the saved subject.
func subjectFromFlags(flags map[string]string, keyDir string) (string, error) {
	if sub := flags["--sub"]; sub != "" {
		return sub, nil
	}
	id, err := readSubject(keyDir)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// cmdToken prints a signed wire token
func cmdToken(keyDir string, args []string) error {
	flags, err := parseFlags(args, map[string]bool{"--sub": true, "--keys": true}, nil)
	if err != nil {
		return err
	}
	keyDir = resolveKeyDir(flags, keyDir)

	sub, err := subjectFromFlags(flags, keyDir)
	if err != nil {
		return err
	}
	priv, err := readPrivateKey(keyDir)
	if err != nil {
		return err
	}

	wire, err := token.SignedString(sub, priv)
	if err != nil {
		return err
	}
	fmt.Println(wire)
	return nil
}

// cmdMe shows the registered user via an authenticated request
func cmdMe(serverURL, keyDir string, args []string) error {
	flags, err := parseFlags(args, map[string]bool{"--sub": true, "--keys": true}, nil)
	if err != nil {
		return err
	}
	keyDir = resolveKeyDir(flags, keyDir)

	sub, err := subjectFromFlags(flags, keyDir)
	if err != nil {
		return err
	}
	priv, err := readPrivateKey(keyDir)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	user, err := newAPIClient(serverURL).Me(ctx, sub, priv)
	if err != nil {
		return fmt.Errorf("me: %w", err)
	}

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Println("  Identity")
	cyan.Println("  --------")
	fmt.Printf("  Subject:      %s\n", user.ID)
	fmt.Printf("  Email:        %s\n", user.Email)
	fmt.Printf("  Display Name: %s\n", user.DisplayName)
	fmt.Printf("  Fingerprint:  %s\n", user.KeyFingerprint)
	fmt.Printf("  Created:      %s\n", user.CreatedAt)
	fmt.Println()
	return nil
}
