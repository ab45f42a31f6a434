package sqlitemigrate

import (
	"context"
	"database/sql"
	"path/filepath"
	"reflect"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

const itemsMigration = "-- +migrate Up\nCREATE TABLE items(id TEXT PRIMARY KEY);\n-- +migrate Down\nDROP TABLE items;\n"

func TestApplyMigrationsRecordsApplied(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)

	migrations := fstest.MapFS{
		"001_create.sql": &fstest.MapFile{Data: []byte(itemsMigration)},
	}
	if err := ApplyMigrations(context.Background(), db, migrations, ""); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	if rows := queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations"); rows != 1 {
		t.Fatalf("expected 1 migration row, got %d", rows)
	}
	if !tableExists(t, db, "items") {
		t.Fatal("expected applied table to exist")
	}
}

func TestApplyMigrationsSkipsAlreadyApplied(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)

	migrations := fstest.MapFS{
		"001_create.sql": &fstest.MapFile{Data: []byte(itemsMigration)},
	}
	for i := 0; i < 2; i++ {
		if err := ApplyMigrations(context.Background(), db, migrations, ""); err != nil {
			t.Fatalf("apply migrations pass %d: %v", i, err)
		}
	}
	if rows := queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations"); rows != 1 {
		t.Fatalf("expected single migration row after replay, got %d", rows)
	}
}

func TestApplyMigrationsDoesNotRecordFailedMigration(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)

	bad := fstest.MapFS{
		"001_bad.sql": &fstest.MapFile{Data: []byte("-- +migrate Up\nCREAT table things(id INT);")},
	}
	if err := ApplyMigrations(context.Background(), db, bad, ""); err == nil {
		t.Fatal("expected bad migration to fail")
	}
	if rows := queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations"); rows != 0 {
		t.Fatalf("expected failed migration to stay unrecorded, got %d rows", rows)
	}

	good := fstest.MapFS{
		"001_bad.sql": &fstest.MapFile{Data: []byte("-- +migrate Up\nCREATE TABLE things(id INTEGER PRIMARY KEY);")},
	}
	if err := ApplyMigrations(context.Background(), db, good, ""); err != nil {
		t.Fatalf("apply fixed migration: %v", err)
	}
	if rows := queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations"); rows != 1 {
		t.Fatalf("expected fixed migration to be recorded, got %d rows", rows)
	}
}

func TestApplyMigrationsRespectsMigrationRoot(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)

	migrations := fstest.MapFS{
		"charts/001_charts.sql": &fstest.MapFile{Data: []byte("-- +migrate Up\nCREATE TABLE chart_rows(id TEXT PRIMARY KEY);")},
	}
	if err := ApplyMigrations(context.Background(), db, migrations, "charts"); err != nil {
		t.Fatalf("apply migrations with root: %v", err)
	}

	names, err := Applied(context.Background(), db)
	if err != nil {
		t.Fatalf("applied: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"charts/001_charts.sql"}) {
		t.Fatalf("applied = %v, want root-qualified key", names)
	}
	if !tableExists(t, db, "chart_rows") {
		t.Fatal("expected migrated table in root-based migration")
	}
}

func TestApplyMigrationsHonorsCanceledContext(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	migrations := fstest.MapFS{
		"001_create.sql": &fstest.MapFile{Data: []byte(itemsMigration)},
	}
	if err := ApplyMigrations(ctx, db, migrations, ""); err == nil {
		t.Fatal("expected canceled context to fail")
	}
}

func TestRollbackLast(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)

	migrations := fstest.MapFS{
		"001_create.sql": &fstest.MapFile{Data: []byte(itemsMigration)},
		"002_more.sql":   &fstest.MapFile{Data: []byte("-- +migrate Up\nCREATE TABLE more(id TEXT);\n-- +migrate Down\nDROP TABLE more;")},
	}
	ctx := context.Background()
	if err := ApplyMigrations(ctx, db, migrations, ""); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	name, err := RollbackLast(ctx, db, migrations, "")
	if err != nil {
		t.Fatalf("rollback: %v", err)
	}
	if name != "002_more.sql" {
		t.Fatalf("rolled back %q, want 002_more.sql", name)
	}
	if tableExists(t, db, "more") {
		t.Fatal("expected down migration to drop table")
	}
	if !tableExists(t, db, "items") {
		t.Fatal("expected earlier migration to stay")
	}
	if rows := queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations"); rows != 1 {
		t.Fatalf("expected one recorded migration, got %d", rows)
	}

	if _, err := RollbackLast(ctx, db, migrations, ""); err != nil {
		t.Fatalf("second rollback: %v", err)
	}
	name, err = RollbackLast(ctx, db, migrations, "")
	if err != nil || name != "" {
		t.Fatalf("rollback with nothing applied = %q, %v", name, err)
	}
}

func TestSplit(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name     string
		content  string
		wantUp   string
		wantDown string
	}{
		{name: "no markers", content: "CREATE TABLE a(x);", wantUp: "CREATE TABLE a(x);"},
		{name: "up only", content: "-- +migrate Up\nCREATE TABLE a(x);", wantUp: "\nCREATE TABLE a(x);"},
		{name: "up and down", content: "-- +migrate Up\nA;\n-- +migrate Down\nB;", wantUp: "\nA;\n", wantDown: "\nB;"},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			up, down := Split(tc.content)
			if up != tc.wantUp || down != tc.wantDown {
				t.Fatalf("Split = (%q, %q), want (%q, %q)", up, down, tc.wantUp, tc.wantDown)
			}
		})
	}
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "migrate.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Fatalf("close db: %v", err)
		}
	})
	return db
}

func queryInt64(t *testing.T, db *sql.DB, query string) int64 {
	t.Helper()
	var value int64
	if err := db.QueryRow(query).Scan(&value); err != nil {
		t.Fatalf("query int value: %v", err)
	}
	return value
}

func tableExists(t *testing.T, db *sql.DB, tableName string) bool {
	t.Helper()
	var name string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name = ?", tableName).Scan(&name)
	if err == sql.ErrNoRows {
		return false
	}
	if err != nil {
		t.Fatalf("check table exists: %v", err)
	}
	return name == tableName
}
