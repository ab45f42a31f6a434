package account

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/louisbranch/ziwei/internal/platform/config"
	apperrors "github.com/louisbranch/ziwei/internal/platform/errors"
	"github.com/louisbranch/ziwei/internal/platform/requestctx"
)

// MinKeyBytes is the shortest HS256 signing key NewTokens accepts.
const MinKeyBytes = 32

// tokenEnv holds raw env values before post-parse validation.
type tokenEnv struct {
	Key    string        `env:"AUTH_TOKEN_KEY"`
	Issuer string        `env:"AUTH_TOKEN_ISSUER" envDefault:"ziwei"`
	TTL    time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"24h"`
}

// TokenConfig defines how session tokens are signed and verified.
type TokenConfig struct {
	Issuer string
	Key    []byte
	TTL    time.Duration
	Now    func() time.Time
}

// LoadTokenConfigFromEnv reads token configuration. The key is hex encoded,
// as printed by cmd/hmac-key.
func LoadTokenConfigFromEnv() (TokenConfig, error) {
	var raw tokenEnv
	if err := config.ParseEnv(&raw); err != nil {
		return TokenConfig{}, fmt.Errorf("parse token env: %w", err)
	}
	key := strings.TrimSpace(raw.Key)
	if key == "" {
		return TokenConfig{}, fmt.Errorf("%sAUTH_TOKEN_KEY is required", config.EnvPrefix)
	}
	keyBytes, err := hex.DecodeString(key)
	if err != nil {
		return TokenConfig{}, fmt.Errorf("decode token key: %w", err)
	}
	cfg := TokenConfig{Issuer: strings.TrimSpace(raw.Issuer), Key: keyBytes, TTL: raw.TTL}
	return cfg, cfg.validate()
}

func (c TokenConfig) validate() error {
	if len(c.Key) < MinKeyBytes {
		return fmt.Errorf("token key must be at least %d bytes", MinKeyBytes)
	}
	if c.Issuer == "" {
		return errors.New("token issuer is required")
	}
	if c.TTL <= 0 {
		return errors.New("token ttl must be positive")
	}
	return nil
}

// sessionClaims is the claims type carried in session tokens.
type sessionClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// Tokens issues and verifies HS256 session tokens.
type Tokens struct {
	cfg TokenConfig
}

// NewTokens validates cfg and returns a token signer.
func NewTokens(cfg TokenConfig) (*Tokens, error) {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Tokens{cfg: cfg}, nil
}

// Issue signs a session token for principal and returns it with its expiry.
func (t *Tokens) Issue(principal requestctx.Principal) (string, time.Time, error) {
	now := t.cfg.Now().UTC()
	expiresAt := now.Add(t.cfg.TTL)
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.cfg.Issuer,
			Subject:   principal.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Username: principal.Username,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.cfg.Key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks a session token and returns the principal it names.
func (t *Tokens) Verify(token string) (requestctx.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return requestctx.Principal{}, apperrors.New(apperrors.CodeUnauthenticated, "session token is required")
	}

	var parsed sessionClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(*jwt.Token) (any, error) {
		return t.cfg.Key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.cfg.Now),
	)
	if err != nil {
		return requestctx.Principal{}, mapJWTError(err)
	}
	if strings.TrimSpace(parsed.Subject) == "" {
		return requestctx.Principal{}, apperrors.New(apperrors.CodeUnauthenticated, "session token subject is required")
	}
	return requestctx.Principal{UserID: parsed.Subject, Username: parsed.Username}, nil
}

// mapJWTError translates jwt library errors to application errors.
func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return apperrors.Wrap(apperrors.CodeUnauthenticated, "session token is expired", err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return apperrors.Wrap(apperrors.CodeUnauthenticated, "session token signature is invalid", err)
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return apperrors.Wrap(apperrors.CodeUnauthenticated, "session token alg is invalid", err)
	default:
		return apperrors.Wrap(apperrors.CodeUnauthenticated, "session token is invalid", err)
	}
}
