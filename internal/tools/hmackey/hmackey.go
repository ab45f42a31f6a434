// Package hmackey generates the hex key that signs session tokens.
package hmackey

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/louisbranch/ziwei/internal/platform/config"
	"github.com/louisbranch/ziwei/internal/services/chart/account"
)

// EnvName is the variable the chart service reads its signing key from.
const EnvName = config.EnvPrefix + "AUTH_TOKEN_KEY"

// Config holds configuration for session key generation.
type Config struct {
	Bytes int
	// Bare prints only the hex key, for piping into a secret store.
	Bare bool
}

// ParseConfig parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Config{Bytes: account.MinKeyBytes}
	fs.IntVar(&cfg.Bytes, "bytes", cfg.Bytes, "number of random bytes")
	fs.BoolVar(&cfg.Bare, "bare", false, "print the hex key without the variable name")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run generates a key and writes it to out. reader defaults to crypto/rand.
func Run(cfg Config, out io.Writer, reader io.Reader) error {
	if cfg.Bytes < account.MinKeyBytes {
		return fmt.Errorf("bytes must be at least %d for HS256 session tokens", account.MinKeyBytes)
	}
	if out == nil {
		return errors.New("output is required")
	}
	if reader == nil {
		reader = rand.Reader
	}

	key := make([]byte, cfg.Bytes)
	if _, err := io.ReadFull(reader, key); err != nil {
		return fmt.Errorf("generate random bytes: %w", err)
	}
	encoded := hex.EncodeToString(key)
	if cfg.Bare {
		_, err := fmt.Fprintln(out, encoded)
		return err
	}
	_, err := fmt.Fprintf(out, "%s=%s\n", EnvName, encoded)
	return err
}
