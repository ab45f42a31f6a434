// Package storage defines persistence contracts for users and saved charts.
package storage

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a uniqueness-constrained record already exists.
	ErrAlreadyExists = errors.New("record already exists")
)

// User is one registered account.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SavedChart is a named birth moment owned by a user. The chart itself is
// recomputed from these fields on every read.
type SavedChart struct {
	ID     string
	UserID string
	Name   string
	// BirthDate is "YYYY-MM-DD".
	BirthDate string
	// BirthTime is "HH:MM".
	BirthTime string
	Sex       string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ChartPage stores one page of saved charts.
type ChartPage struct {
	Charts []SavedChart
	// NextAfter is the last id on this page when more rows follow.
	NextAfter string
}

// UserStore persists accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, userID string) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
}

// ChartStore persists saved charts.
type ChartStore interface {
	CreateChart(ctx context.Context, chart SavedChart) error
	UpdateChart(ctx context.Context, chart SavedChart) error
	GetChart(ctx context.Context, chartID string) (SavedChart, error)
	ListCharts(ctx context.Context, userID string, pageSize int, afterID string) (ChartPage, error)
	DeleteChart(ctx context.Context, chartID string) error
}

// Store is the full persistence surface the chart service needs.
type Store interface {
	UserStore
	ChartStore
	Close() error
}
