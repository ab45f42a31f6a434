package account

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/louisbranch/ziwei/internal/platform/errors"
	"github.com/louisbranch/ziwei/internal/services/chart/storage"
)

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]storage.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]storage.User{}}
}

func (f *fakeUserStore) CreateUser(_ context.Context, user storage.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Username == user.Username {
			return storage.ErrAlreadyExists
		}
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) GetUser(_ context.Context, userID string) (storage.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return storage.User{}, storage.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserStore) GetUserByUsername(_ context.Context, username string) (storage.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Username == username {
			return user, nil
		}
	}
	return storage.User{}, storage.ErrNotFound
}

var testKey = bytes.Repeat([]byte{0x2a}, 32)

func newTestService(t *testing.T, users storage.UserStore, now time.Time) *Service {
	t.Helper()
	tokens, err := NewTokens(TokenConfig{Issuer: "ziwei-test", Key: testKey, TTL: time.Hour, Now: func() time.Time { return now }})
	if err != nil {
		t.Fatalf("new tokens: %v", err)
	}
	next := 0
	return NewService(users, tokens,
		WithHashCost(bcrypt.MinCost),
		WithClock(func() time.Time { return now }),
		WithIDGenerator(func() (string, error) {
			next++
			return "user-" + string(rune('a'+next-1)), nil
		}),
	)
}

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.April, 1, 12, 0, 0, 0, time.UTC)
	users := newFakeUserStore()
	svc := newTestService(t, users, now)

	session, err := svc.Register(context.Background(), "  Mei.Lin ", "correct horse")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if session.User.ID != "user-a" || session.User.Username != "mei.lin" {
		t.Fatalf("registered user = %+v", session.User)
	}
	if session.User.PasswordHash == "correct horse" {
		t.Fatal("password stored in clear text")
	}
	if !session.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("expires at = %v, want %v", session.ExpiresAt, now.Add(time.Hour))
	}

	principal, err := svc.Authenticate(context.Background(), session.Token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if principal.UserID != "user-a" || principal.Username != "mei.lin" {
		t.Fatalf("principal = %+v", principal)
	}

	login, err := svc.Login(context.Background(), "MEI.LIN", "correct horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if login.User.ID != "user-a" {
		t.Fatalf("login user = %+v", login.User)
	}
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newFakeUserStore(), time.Now())
	tcs := []struct {
		name     string
		username string
		password string
		code     apperrors.Code
	}{
		{name: "short username", username: "ab", password: "long enough", code: apperrors.CodeAccountInvalidUsername},
		{name: "spaces in username", username: "mei lin", password: "long enough", code: apperrors.CodeAccountInvalidUsername},
		{name: "short password", username: "meilin", password: "short", code: apperrors.CodeAccountWeakPassword},
		{name: "long password", username: "meilin", password: strings.Repeat("x", 73), code: apperrors.CodeChartInvalidInput},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.Register(context.Background(), tc.username, tc.password)
			if got := apperrors.GetCode(err); got != tc.code {
				t.Fatalf("code = %s, want %s (err %v)", got, tc.code, err)
			}
		})
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newFakeUserStore(), time.Now())
	if _, err := svc.Register(context.Background(), "meilin", "password1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := svc.Register(context.Background(), "MeiLin", "password2")
	if !apperrors.IsCode(err, apperrors.CodeAlreadyExists) {
		t.Fatalf("duplicate register error = %v", err)
	}
	if !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("expected storage cause, got %v", err)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newFakeUserStore(), time.Now())
	if _, err := svc.Register(context.Background(), "meilin", "password1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	for _, tc := range []struct{ username, password string }{
		{"meilin", "wrong password"},
		{"nobody", "password1"},
	} {
		_, err := svc.Login(context.Background(), tc.username, tc.password)
		if !apperrors.IsCode(err, apperrors.CodeAccountBadCredentials) {
			t.Fatalf("login(%q) error = %v, want bad credentials", tc.username, err)
		}
	}
}

func TestAuthenticateRejectsRemovedUser(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	svc := newTestService(t, users, time.Now())
	session, err := svc.Register(context.Background(), "meilin", "password1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	users.mu.Lock()
	delete(users.users, session.User.ID)
	users.mu.Unlock()

	if _, err := svc.Authenticate(context.Background(), session.Token); !apperrors.IsCode(err, apperrors.CodeUnauthenticated) {
		t.Fatalf("authenticate error = %v, want unauthenticated", err)
	}
}

func TestNilServiceIsNotConfigured(t *testing.T) {
	t.Parallel()

	var svc *Service
	if _, err := svc.Login(context.Background(), "meilin", "password1"); err == nil {
		t.Fatal("expected not configured error")
	}
}
