package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/ziwei/internal/services/chart/storage"
)

// CreateUser inserts one account. Usernames are unique.
func (s *Store) CreateUser(ctx context.Context, user storage.User) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	userID := strings.TrimSpace(user.ID)
	username := strings.TrimSpace(user.Username)
	if userID == "" {
		return fmt.Errorf("user id is required")
	}
	if username == "" {
		return fmt.Errorf("username is required")
	}
	if user.PasswordHash == "" {
		return fmt.Errorf("password hash is required")
	}
	createdAt, updatedAt := normalizeTimes(user.CreatedAt, user.UpdatedAt)

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO users (id, username, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		userID,
		username,
		user.PasswordHash,
		toMillis(createdAt),
		toMillis(updatedAt),
	)
	if err != nil {
		if isUniqueViolation(err, "users.") {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetUser returns one account by ID.
func (s *Store) GetUser(ctx context.Context, userID string) (storage.User, error) {
	if err := s.ready(ctx); err != nil {
		return storage.User{}, err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return storage.User{}, fmt.Errorf("user id is required")
	}
	return s.scanUser(s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, username, password_hash, created_at, updated_at FROM users WHERE id = ?`,
		userID,
	))
}

// GetUserByUsername returns one account by its unique username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (storage.User, error) {
	if err := s.ready(ctx); err != nil {
		return storage.User{}, err
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return storage.User{}, fmt.Errorf("username is required")
	}
	return s.scanUser(s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, username, password_hash, created_at, updated_at FROM users WHERE username = ?`,
		username,
	))
}

func (s *Store) scanUser(row *sql.Row) (storage.User, error) {
	var user storage.User
	var createdAt, updatedAt int64
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.User{}, storage.ErrNotFound
		}
		return storage.User{}, fmt.Errorf("get user: %w", err)
	}
	user.CreatedAt = fromMillis(createdAt)
	user.UpdatedAt = fromMillis(updatedAt)
	return user, nil
}
