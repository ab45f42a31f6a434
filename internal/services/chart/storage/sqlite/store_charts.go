package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/ziwei/internal/services/chart/storage"
)

const chartColumns = `id, user_id, name, birth_date, birth_time, sex, created_at, updated_at`

// CreateChart inserts one saved chart for an existing user.
func (s *Store) CreateChart(ctx context.Context, chart storage.SavedChart) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	chart, err := normalizeChart(chart)
	if err != nil {
		return err
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO saved_charts (`+chartColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		chart.ID,
		chart.UserID,
		chart.Name,
		chart.BirthDate,
		chart.BirthTime,
		chart.Sex,
		toMillis(chart.CreatedAt),
		toMillis(chart.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err, "saved_charts.id") {
			return storage.ErrAlreadyExists
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("create chart for user %q: %w", chart.UserID, storage.ErrNotFound)
		}
		return fmt.Errorf("create chart: %w", err)
	}
	return nil
}

// UpdateChart replaces the mutable fields of a saved chart. The owner and
// creation time are kept.
func (s *Store) UpdateChart(ctx context.Context, chart storage.SavedChart) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	chart, err := normalizeChart(chart)
	if err != nil {
		return err
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE saved_charts
		    SET name = ?, birth_date = ?, birth_time = ?, sex = ?, updated_at = ?
		  WHERE id = ?`,
		chart.Name,
		chart.BirthDate,
		chart.BirthTime,
		chart.Sex,
		toMillis(chart.UpdatedAt),
		chart.ID,
	)
	if err != nil {
		return fmt.Errorf("update chart: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update chart: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// GetChart returns one saved chart by ID.
func (s *Store) GetChart(ctx context.Context, chartID string) (storage.SavedChart, error) {
	if err := s.ready(ctx); err != nil {
		return storage.SavedChart{}, err
	}
	chartID = strings.TrimSpace(chartID)
	if chartID == "" {
		return storage.SavedChart{}, fmt.Errorf("chart id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+chartColumns+` FROM saved_charts WHERE id = ?`, chartID)
	chart, err := scanChart(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.SavedChart{}, storage.ErrNotFound
		}
		return storage.SavedChart{}, fmt.Errorf("get chart: %w", err)
	}
	return chart, nil
}

// ListCharts returns one page of a user's saved charts ordered by ID.
func (s *Store) ListCharts(ctx context.Context, userID string, pageSize int, afterID string) (storage.ChartPage, error) {
	if err := s.ready(ctx); err != nil {
		return storage.ChartPage{}, err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return storage.ChartPage{}, fmt.Errorf("user id is required")
	}
	if pageSize <= 0 {
		return storage.ChartPage{}, fmt.Errorf("page size must be greater than zero")
	}
	afterID = strings.TrimSpace(afterID)

	var (
		rows *sql.Rows
		err  error
	)
	if afterID == "" {
		rows, err = s.sqlDB.QueryContext(
			ctx,
			`SELECT `+chartColumns+`
			   FROM saved_charts
			  WHERE user_id = ?
			  ORDER BY id ASC
			  LIMIT ?`,
			userID,
			pageSize+1,
		)
	} else {
		rows, err = s.sqlDB.QueryContext(
			ctx,
			`SELECT `+chartColumns+`
			   FROM saved_charts
			  WHERE user_id = ? AND id > ?
			  ORDER BY id ASC
			  LIMIT ?`,
			userID,
			afterID,
			pageSize+1,
		)
	}
	if err != nil {
		return storage.ChartPage{}, fmt.Errorf("list charts: %w", err)
	}
	defer rows.Close()

	page := storage.ChartPage{Charts: make([]storage.SavedChart, 0, pageSize)}
	for rows.Next() {
		chart, err := scanChart(rows)
		if err != nil {
			return storage.ChartPage{}, fmt.Errorf("list charts: %w", err)
		}
		page.Charts = append(page.Charts, chart)
	}
	if err := rows.Err(); err != nil {
		return storage.ChartPage{}, fmt.Errorf("list charts: %w", err)
	}
	if len(page.Charts) > pageSize {
		page.NextAfter = page.Charts[pageSize-1].ID
		page.Charts = page.Charts[:pageSize]
	}
	return page, nil
}

// DeleteChart removes one saved chart.
func (s *Store) DeleteChart(ctx context.Context, chartID string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	chartID = strings.TrimSpace(chartID)
	if chartID == "" {
		return fmt.Errorf("chart id is required")
	}
	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM saved_charts WHERE id = ?`, chartID)
	if err != nil {
		return fmt.Errorf("delete chart: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete chart: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func normalizeChart(chart storage.SavedChart) (storage.SavedChart, error) {
	chart.ID = strings.TrimSpace(chart.ID)
	chart.UserID = strings.TrimSpace(chart.UserID)
	chart.Name = strings.TrimSpace(chart.Name)
	chart.BirthDate = strings.TrimSpace(chart.BirthDate)
	chart.BirthTime = strings.TrimSpace(chart.BirthTime)
	chart.Sex = strings.TrimSpace(chart.Sex)
	switch {
	case chart.ID == "":
		return chart, fmt.Errorf("chart id is required")
	case chart.UserID == "":
		return chart, fmt.Errorf("user id is required")
	case chart.Name == "":
		return chart, fmt.Errorf("chart name is required")
	case chart.BirthDate == "" || chart.BirthTime == "" || chart.Sex == "":
		return chart, fmt.Errorf("birth date, time and sex are required")
	}
	chart.CreatedAt, chart.UpdatedAt = normalizeTimes(chart.CreatedAt, chart.UpdatedAt)
	return chart, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChart(row rowScanner) (storage.SavedChart, error) {
	var chart storage.SavedChart
	var createdAt, updatedAt int64
	if err := row.Scan(
		&chart.ID,
		&chart.UserID,
		&chart.Name,
		&chart.BirthDate,
		&chart.BirthTime,
		&chart.Sex,
		&createdAt,
		&updatedAt,
	); err != nil {
		return storage.SavedChart{}, err
	}
	chart.CreatedAt = fromMillis(createdAt)
	chart.UpdatedAt = fromMillis(updatedAt)
	return chart, nil
}
