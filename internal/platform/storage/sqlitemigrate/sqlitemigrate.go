// Package sqlitemigrate applies embedded "-- +migrate Up/Down" SQL files to a
// SQLite database and records each applied file in schema_migrations.
package sqlitemigrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"
)

const (
	migrationTable = "schema_migrations"
	upMarker       = "-- +migrate Up"
	downMarker     = "-- +migrate Down"
)

// Migration is one parsed migration file.
type Migration struct {
	// Name is the file path relative to the filesystem root, used as the
	// schema_migrations key.
	Name string
	Up   string
	Down string
}

// Load reads and parses every .sql file directly under root, sorted by name.
func Load(migrationFS fs.FS, root string) ([]Migration, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		root = "."
	}
	entries, err := fs.ReadDir(migrationFS, root)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	migrations := make([]Migration, 0, len(names))
	for _, name := range names {
		key := name
		if root != "." {
			key = path.Join(root, name)
		}
		content, err := fs.ReadFile(migrationFS, key)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		up, down := Split(string(content))
		migrations = append(migrations, Migration{Name: key, Up: up, Down: down})
	}
	return migrations, nil
}

// Split separates a migration file into its Up and Down sections. A file
// without an Up marker is treated as Up-only.
func Split(content string) (up, down string) {
	upIdx := strings.Index(content, upMarker)
	if upIdx == -1 {
		return content, ""
	}
	body := content[upIdx+len(upMarker):]
	downIdx := strings.Index(body, downMarker)
	if downIdx == -1 {
		return body, ""
	}
	return body[:downIdx], body[downIdx+len(downMarker):]
}

// ApplyMigrations runs every not-yet-applied migration under migrationRoot,
// each in its own transaction.
func ApplyMigrations(ctx context.Context, sqlDB *sql.DB, migrationFS fs.FS, migrationRoot string) error {
	if sqlDB == nil {
		return fmt.Errorf("sql db is required")
	}
	migrations, err := Load(migrationFS, migrationRoot)
	if err != nil {
		return err
	}
	if err := ensureTable(ctx, sqlDB); err != nil {
		return err
	}

	for _, migration := range migrations {
		applied, err := isApplied(ctx, sqlDB, migration.Name)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", migration.Name, err)
		}
		if applied || strings.TrimSpace(migration.Up) == "" {
			continue
		}
		err = inTx(ctx, sqlDB, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, migration.Up); err != nil && !IsAlreadyExistsError(err) {
				return fmt.Errorf("exec migration %s: %w", migration.Name, err)
			}
			_, err := tx.ExecContext(ctx,
				"INSERT OR IGNORE INTO "+migrationTable+" (name, applied_at) VALUES (?, ?)",
				migration.Name,
				time.Now().UTC().UnixMilli(),
			)
			if err != nil {
				return fmt.Errorf("record migration %s: %w", migration.Name, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// RollbackLast runs the Down section of the most recently applied migration
// under migrationRoot and forgets it. It returns the rolled back name, or ""
// when nothing under the root is applied.
func RollbackLast(ctx context.Context, sqlDB *sql.DB, migrationFS fs.FS, migrationRoot string) (string, error) {
	if sqlDB == nil {
		return "", fmt.Errorf("sql db is required")
	}
	migrations, err := Load(migrationFS, migrationRoot)
	if err != nil {
		return "", err
	}
	if err := ensureTable(ctx, sqlDB); err != nil {
		return "", err
	}

	for i := len(migrations) - 1; i >= 0; i-- {
		migration := migrations[i]
		applied, err := isApplied(ctx, sqlDB, migration.Name)
		if err != nil {
			return "", fmt.Errorf("check migration %s: %w", migration.Name, err)
		}
		if !applied {
			continue
		}
		if strings.TrimSpace(migration.Down) == "" {
			return "", fmt.Errorf("migration %s has no down section", migration.Name)
		}
		err = inTx(ctx, sqlDB, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, migration.Down); err != nil {
				return fmt.Errorf("exec down migration %s: %w", migration.Name, err)
			}
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+migrationTable+" WHERE name = ?", migration.Name); err != nil {
				return fmt.Errorf("forget migration %s: %w", migration.Name, err)
			}
			return nil
		})
		if err != nil {
			return "", err
		}
		return migration.Name, nil
	}
	return "", nil
}

// Applied lists the recorded migration names in application order.
func Applied(ctx context.Context, sqlDB *sql.DB) ([]string, error) {
	if err := ensureTable(ctx, sqlDB); err != nil {
		return nil, err
	}
	rows, err := sqlDB.QueryContext(ctx, "SELECT name FROM "+migrationTable+" ORDER BY applied_at, name")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list migrations: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// IsAlreadyExistsError reports whether this error indicates idempotent DDL success.
func IsAlreadyExistsError(err error) bool {
	value := strings.ToLower(err.Error())
	return strings.Contains(value, "already exists") || strings.Contains(value, "duplicate column name")
}

func ensureTable(ctx context.Context, sqlDB *sql.DB) error {
	_, err := sqlDB.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+migrationTable+` (
    name TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
)`)
	if err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}
	return nil
}

func inTx(ctx context.Context, sqlDB *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}
	return nil
}

func isApplied(ctx context.Context, sqlDB *sql.DB, name string) (bool, error) {
	var found int
	err := sqlDB.QueryRowContext(ctx, "SELECT 1 FROM "+migrationTable+" WHERE name = ?", name).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
