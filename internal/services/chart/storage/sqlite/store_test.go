package sqlite

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/louisbranch/ziwei/internal/services/chart/storage"
)

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(""); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestNilStoreIsNotConfigured(t *testing.T) {
	t.Parallel()

	var store *Store
	if _, err := store.GetChart(context.Background(), "c1"); err == nil {
		t.Fatal("expected unconfigured store error")
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close nil store: %v", err)
	}
}

func TestUserRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	now := time.Date(2026, time.March, 1, 9, 30, 0, 0, time.UTC)
	user := storage.User{ID: "u1", Username: "mei", PasswordHash: "hash", CreatedAt: now}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	got, err := store.GetUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.Username != "mei" || got.PasswordHash != "hash" {
		t.Fatalf("user = %+v", got)
	}
	if !got.CreatedAt.Equal(now) || !got.UpdatedAt.Equal(now) {
		t.Fatalf("timestamps = %v/%v, want %v", got.CreatedAt, got.UpdatedAt, now)
	}

	byName, err := store.GetUserByUsername(context.Background(), " mei ")
	if err != nil {
		t.Fatalf("get user by username: %v", err)
	}
	if byName.ID != "u1" {
		t.Fatalf("user id = %q, want u1", byName.ID)
	}

	if _, err := store.GetUserByUsername(context.Background(), "nobody"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("missing user error = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestCreateUserRejectsDuplicateUsername(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	mustCreateUser(t, store, "u1", "mei")
	err := store.CreateUser(context.Background(), storage.User{ID: "u2", Username: "mei", PasswordHash: "hash"})
	if !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("duplicate username error = %v, want %v", err, storage.ErrAlreadyExists)
	}
}

func TestChartRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	mustCreateUser(t, store, "u1", "mei")
	created := time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)
	chart := storage.SavedChart{
		ID:        "c1",
		UserID:    "u1",
		Name:      "Mei",
		BirthDate: "1990-06-15",
		BirthTime: "14:00",
		Sex:       "M",
		CreatedAt: created,
	}
	if err := store.CreateChart(context.Background(), chart); err != nil {
		t.Fatalf("create chart: %v", err)
	}

	got, err := store.GetChart(context.Background(), "c1")
	if err != nil {
		t.Fatalf("get chart: %v", err)
	}
	if got.UserID != "u1" || got.Name != "Mei" || got.BirthDate != "1990-06-15" || got.BirthTime != "14:00" || got.Sex != "M" {
		t.Fatalf("chart = %+v", got)
	}

	updated := created.Add(time.Hour)
	chart.Name = "Mei Lin"
	chart.BirthTime = "15:30"
	chart.UpdatedAt = updated
	if err := store.UpdateChart(context.Background(), chart); err != nil {
		t.Fatalf("update chart: %v", err)
	}
	got, err = store.GetChart(context.Background(), "c1")
	if err != nil {
		t.Fatalf("get updated chart: %v", err)
	}
	if got.Name != "Mei Lin" || got.BirthTime != "15:30" {
		t.Fatalf("updated chart = %+v", got)
	}
	if !got.CreatedAt.Equal(created) || !got.UpdatedAt.Equal(updated) {
		t.Fatalf("timestamps = %v/%v", got.CreatedAt, got.UpdatedAt)
	}

	if err := store.DeleteChart(context.Background(), "c1"); err != nil {
		t.Fatalf("delete chart: %v", err)
	}
	if _, err := store.GetChart(context.Background(), "c1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("get deleted chart error = %v, want %v", err, storage.ErrNotFound)
	}
	if err := store.DeleteChart(context.Background(), "c1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("second delete error = %v, want %v", err, storage.ErrNotFound)
	}
	if err := store.UpdateChart(context.Background(), chart); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("update deleted chart error = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestCreateChartErrors(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	mustCreateUser(t, store, "u1", "mei")
	valid := storage.SavedChart{ID: "c1", UserID: "u1", Name: "Mei", BirthDate: "1990-06-15", BirthTime: "14:00", Sex: "M"}
	if err := store.CreateChart(context.Background(), valid); err != nil {
		t.Fatalf("create chart: %v", err)
	}

	if err := store.CreateChart(context.Background(), valid); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("duplicate chart error = %v, want %v", err, storage.ErrAlreadyExists)
	}

	orphan := valid
	orphan.ID = "c2"
	orphan.UserID = "ghost"
	if err := store.CreateChart(context.Background(), orphan); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("unknown owner error = %v, want %v", err, storage.ErrNotFound)
	}

	unnamed := valid
	unnamed.ID = "c3"
	unnamed.Name = "  "
	if err := store.CreateChart(context.Background(), unnamed); err == nil {
		t.Fatal("expected missing name error")
	}
}

func TestListChartsPaginatesPerUser(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	mustCreateUser(t, store, "u1", "mei")
	mustCreateUser(t, store, "u2", "lin")
	for i := 1; i <= 5; i++ {
		chart := storage.SavedChart{
			ID:        fmt.Sprintf("c%d", i),
			UserID:    "u1",
			Name:      fmt.Sprintf("chart %d", i),
			BirthDate: "1990-06-15",
			BirthTime: "14:00",
			Sex:       "F",
		}
		if err := store.CreateChart(context.Background(), chart); err != nil {
			t.Fatalf("create chart %d: %v", i, err)
		}
	}
	other := storage.SavedChart{ID: "c0", UserID: "u2", Name: "other", BirthDate: "2000-01-01", BirthTime: "00:00", Sex: "M"}
	if err := store.CreateChart(context.Background(), other); err != nil {
		t.Fatalf("create other chart: %v", err)
	}

	var ids []string
	after := ""
	for pages := 0; ; pages++ {
		if pages > 3 {
			t.Fatal("pagination did not terminate")
		}
		page, err := store.ListCharts(context.Background(), "u1", 2, after)
		if err != nil {
			t.Fatalf("list charts: %v", err)
		}
		for _, chart := range page.Charts {
			ids = append(ids, chart.ID)
		}
		if page.NextAfter == "" {
			break
		}
		after = page.NextAfter
	}
	want := []string{"c1", "c2", "c3", "c4", "c5"}
	if fmt.Sprint(ids) != fmt.Sprint(want) {
		t.Fatalf("listed ids = %v, want %v", ids, want)
	}

	if _, err := store.ListCharts(context.Background(), "u1", 0, ""); err == nil {
		t.Fatal("expected zero page size error")
	}
}

func TestStoreRejectsCanceledContext(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.GetUser(ctx, "u1"); !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want %v", err, context.Canceled)
	}
}

func mustCreateUser(t *testing.T, store *Store, id, username string) {
	t.Helper()
	if err := store.CreateUser(context.Background(), storage.User{ID: id, Username: username, PasswordHash: "hash"}); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
}

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "charts.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}
