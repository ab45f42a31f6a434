// Package account registers users and signs them in with bcrypt password
// hashes and JWT session tokens.
package account

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/louisbranch/ziwei/internal/platform/errors"
	"github.com/louisbranch/ziwei/internal/platform/id"
	"github.com/louisbranch/ziwei/internal/platform/requestctx"
	"github.com/louisbranch/ziwei/internal/services/chart/storage"
)

// MinPasswordLength is the shortest accepted password, in runes.
const MinPasswordLength = 8

// bcrypt ignores input past 72 bytes.
const maxPasswordBytes = 72

var errPasswordTooLong = fmt.Errorf("longer than %d bytes", maxPasswordBytes)

var usernamePattern = regexp.MustCompile(`^[a-z0-9._-]{3,32}$`)

// Session is a signed-in user with a bearer token.
type Session struct {
	User      storage.User
	Token     string
	ExpiresAt time.Time
}

// Service implements registration, login and token authentication.
type Service struct {
	users       storage.UserStore
	tokens      *Tokens
	hashCost    int
	idGenerator func() (string, error)
	clock       func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithHashCost sets the bcrypt cost.
func WithHashCost(cost int) Option {
	return func(s *Service) { s.hashCost = cost }
}

// WithIDGenerator replaces the user ID generator.
func WithIDGenerator(fn func() (string, error)) Option {
	return func(s *Service) { s.idGenerator = fn }
}

// WithClock replaces the wall clock used for timestamps.
func WithClock(fn func() time.Time) Option {
	return func(s *Service) { s.clock = fn }
}

// NewService builds an account service over users and tokens.
func NewService(users storage.UserStore, tokens *Tokens, opts ...Option) *Service {
	s := &Service{
		users:       users,
		tokens:      tokens,
		hashCost:    bcrypt.DefaultCost,
		idGenerator: id.NewID,
		clock:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NormalizeUsername lowercases and trims a username.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// Register creates an account and signs it in.
func (s *Service) Register(ctx context.Context, username, password string) (Session, error) {
	if s == nil || s.users == nil || s.tokens == nil {
		return Session{}, errors.New("account service is not configured")
	}
	username = NormalizeUsername(username)
	if !usernamePattern.MatchString(username) {
		return Session{}, apperrors.New(apperrors.CodeAccountInvalidUsername, "username is invalid")
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return Session{}, apperrors.WithMetadata(
			apperrors.CodeAccountWeakPassword,
			"password is too short",
			map[string]string{"MinLength": strconv.Itoa(MinPasswordLength)},
		)
	}
	if len(password) > maxPasswordBytes {
		return Session{}, apperrors.InvalidField("password", errPasswordTooLong)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}
	userID, err := s.idGenerator()
	if err != nil {
		return Session{}, fmt.Errorf("generate user id: %w", err)
	}
	now := s.clock().UTC()
	user := storage.User{
		ID:           userID,
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return Session{}, apperrors.WrapWithMetadata(
				apperrors.CodeAlreadyExists,
				"username is taken",
				map[string]string{apperrors.MetaResource: "user " + username},
				err,
			)
		}
		return Session{}, fmt.Errorf("create user: %w", err)
	}
	return s.session(user)
}

// Login checks credentials and signs the user in. Unknown usernames and
// wrong passwords fail the same way.
func (s *Service) Login(ctx context.Context, username, password string) (Session, error) {
	if s == nil || s.users == nil || s.tokens == nil {
		return Session{}, errors.New("account service is not configured")
	}
	user, err := s.users.GetUserByUsername(ctx, NormalizeUsername(username))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Session{}, apperrors.New(apperrors.CodeAccountBadCredentials, "unknown username")
		}
		return Session{}, fmt.Errorf("load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return Session{}, apperrors.Wrap(apperrors.CodeAccountBadCredentials, "password mismatch", err)
	}
	return s.session(user)
}

// Authenticate verifies a bearer token and confirms its user still exists.
func (s *Service) Authenticate(ctx context.Context, token string) (requestctx.Principal, error) {
	if s == nil || s.users == nil || s.tokens == nil {
		return requestctx.Principal{}, errors.New("account service is not configured")
	}
	principal, err := s.tokens.Verify(token)
	if err != nil {
		return requestctx.Principal{}, err
	}
	user, err := s.users.GetUser(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return requestctx.Principal{}, apperrors.Wrap(apperrors.CodeUnauthenticated, "session user no longer exists", err)
		}
		return requestctx.Principal{}, fmt.Errorf("load session user: %w", err)
	}
	return requestctx.Principal{UserID: user.ID, Username: user.Username}, nil
}

func (s *Service) session(user storage.User) (Session, error) {
	token, expiresAt, err := s.tokens.Issue(requestctx.Principal{UserID: user.ID, Username: user.Username})
	if err != nil {
		return Session{}, err
	}
	return Session{User: user, Token: token, ExpiresAt: expiresAt}, nil
}
