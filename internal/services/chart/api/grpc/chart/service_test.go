package chart

import (
	"bytes"
	"context"
	"errors"
	"net"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	apperrors "github.com/louisbranch/ziwei/internal/platform/errors"
	"github.com/louisbranch/ziwei/internal/services/chart/account"
	"github.com/louisbranch/ziwei/internal/services/chart/domain/ziwei"
	"github.com/louisbranch/ziwei/internal/services/chart/narrative"
	"github.com/louisbranch/ziwei/internal/services/chart/render"
	"github.com/louisbranch/ziwei/internal/services/chart/storage/sqlite"
)

type fakeNarrator struct {
	text   string
	err    error
	locale string
	life   ziwei.Branch
}

func (f *fakeNarrator) Interpret(_ context.Context, chart ziwei.ChartData, locale string) (string, error) {
	f.locale = locale
	f.life = chart.Metadata.LifeBranch
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func newTestClient(t *testing.T, narrator narrative.Narrator) *Client {
	t.Helper()

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "chart.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	tokens, err := account.NewTokens(account.TokenConfig{
		Issuer: "ziwei-test",
		Key:    bytes.Repeat([]byte{7}, 32),
		TTL:    time.Hour,
	})
	if err != nil {
		t.Fatalf("new tokens: %v", err)
	}
	accounts := account.NewService(store, tokens, account.WithHashCost(bcrypt.MinCost))
	renderer, err := render.NewRenderer()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	listener := bufconn.Listen(1 << 20)
	server := grpc.NewServer(grpc.UnaryInterceptor(AuthInterceptor(accounts)))
	RegisterChartServer(server, NewService(store, renderer, narrator))
	RegisterAccountServer(server, NewAccountService(accounts))
	go func() { _ = server.Serve(listener) }()
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient(
		"passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return NewClient(conn)
}

func register(t *testing.T, client *Client, username string) string {
	t.Helper()
	resp, err := client.Call(context.Background(), MethodRegister, map[string]any{
		"username": username,
		"password": "correct horse",
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	token, _ := resp["token"].(string)
	if token == "" {
		t.Fatalf("register %s returned no token: %v", username, resp)
	}
	return token
}

func goldenBirth() map[string]any {
	return map[string]any{"birth_date": "1990-06-15", "birth_time": "14:00", "sex": "M"}
}

func with(base map[string]any, extra map[string]any) map[string]any {
	out := map[string]any{}
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

func assertStatus(t *testing.T, err error, code codes.Code, reason apperrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error", code)
	}
	if got := status.Code(err); got != code {
		t.Fatalf("status code = %s, want %s (%v)", got, code, err)
	}
	if reason != "" {
		if got := apperrors.Reason(err); got != reason {
			t.Fatalf("reason = %s, want %s", got, reason)
		}
	}
}

// violatedField returns the first BadRequest field violation on a status error.
func violatedField(err error) string {
	for _, detail := range status.Convert(err).Details() {
		if br, ok := detail.(*errdetails.BadRequest); ok && len(br.GetFieldViolations()) > 0 {
			return br.GetFieldViolations()[0].GetField()
		}
	}
	return ""
}

func TestCalculateChart(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, nil)
	resp, err := client.Call(context.Background(), MethodCalculateChart, with(goldenBirth(), map[string]any{"birth_time": "14:30"}))
	if err != nil {
		t.Fatalf("calculate chart: %v", err)
	}

	input := resp["input"].(map[string]any)
	if input["birth_time"] != "14:00" || input["sex"] != "M" {
		t.Fatalf("canonical input = %v", input)
	}
	chart := resp["chart"].(map[string]any)
	if chart["locale"] != "zh-TW" {
		t.Fatalf("locale = %v", chart["locale"])
	}
	meta := chart["metadata"].(map[string]any)
	if meta["bureau"] != "土五局" || meta["life_branch"] != "亥" || meta["body_branch"] != "丑" {
		t.Fatalf("metadata = %v", meta)
	}
	palaces := chart["palaces"].([]any)
	if len(palaces) != 12 {
		t.Fatalf("palaces = %d, want 12", len(palaces))
	}
	if first := palaces[0].(map[string]any); first["branch"] != "巳" || first["role"] != "遷移" {
		t.Fatalf("first palace = %v", first)
	}
}

func TestCalculateChartEnglish(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, nil)
	resp, err := client.Call(context.Background(), MethodCalculateChart, with(goldenBirth(), map[string]any{"locale": "en-US"}))
	if err != nil {
		t.Fatalf("calculate chart: %v", err)
	}
	meta := resp["chart"].(map[string]any)["metadata"].(map[string]any)
	if meta["bureau"] != "Earth 5" || meta["zodiac"] != "Horse" {
		t.Fatalf("metadata = %v", meta)
	}
}

func TestCalculateChartErrors(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, nil)
	tcs := map[string]struct {
		request map[string]any
		code    codes.Code
		reason  apperrors.Code
	}{
		"impossible date": {with(goldenBirth(), map[string]any{"birth_date": "1990-02-30"}), codes.InvalidArgument, apperrors.CodeChartInvalidDate},
		"before window":   {with(goldenBirth(), map[string]any{"birth_date": "1850-06-15"}), codes.OutOfRange, apperrors.CodeChartOutOfRange},
		"bad hour":        {with(goldenBirth(), map[string]any{"birth_time": "24:00"}), codes.InvalidArgument, apperrors.CodeChartInvalidHour},
		"bad sex":         {with(goldenBirth(), map[string]any{"sex": "X"}), codes.InvalidArgument, apperrors.CodeChartInvalidSex},
		"malformed date":  {with(goldenBirth(), map[string]any{"birth_date": "June 15"}), codes.InvalidArgument, apperrors.CodeChartInvalidInput},
	}
	for name, tc := range tcs {
		_, err := client.Call(context.Background(), MethodCalculateChart, tc.request)
		t.Run(name, func(t *testing.T) {
			assertStatus(t, err, tc.code, tc.reason)
		})
	}
}

func TestSavedChartLifecycle(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, nil)
	ctx := WithToken(context.Background(), register(t, client, "alice"))

	saved, err := client.Call(ctx, MethodSaveChart, with(goldenBirth(), map[string]any{"name": "  me  "}))
	if err != nil {
		t.Fatalf("save chart: %v", err)
	}
	record := saved["saved_chart"].(map[string]any)
	chartID, _ := record["id"].(string)
	if chartID == "" || record["name"] != "me" || record["birth_date"] != "1990-06-15" {
		t.Fatalf("saved chart = %v", record)
	}

	got, err := client.Call(ctx, MethodGetChart, map[string]any{"id": chartID})
	if err != nil {
		t.Fatalf("get chart: %v", err)
	}
	meta := got["chart"].(map[string]any)["metadata"].(map[string]any)
	if meta["life_branch"] != "亥" {
		t.Fatalf("recomputed life branch = %v", meta["life_branch"])
	}

	updated, err := client.Call(ctx, MethodUpdateChart, map[string]any{
		"id":         chartID,
		"name":       "sister",
		"birth_date": "1990-06-15",
		"birth_time": "14:00",
		"sex":        "F",
	})
	if err != nil {
		t.Fatalf("update chart: %v", err)
	}
	if rec := updated["saved_chart"].(map[string]any); rec["name"] != "sister" || rec["sex"] != "F" || rec["created_at"] != record["created_at"] {
		t.Fatalf("updated chart = %v", rec)
	}

	if _, err := client.Call(ctx, MethodSaveChart, with(goldenBirth(), map[string]any{"name": "second"})); err != nil {
		t.Fatalf("save second chart: %v", err)
	}
	page, err := client.Call(ctx, MethodListCharts, map[string]any{"page_size": 1})
	if err != nil {
		t.Fatalf("list charts: %v", err)
	}
	if charts := page["charts"].([]any); len(charts) != 1 || page["next_page_token"] == "" {
		t.Fatalf("first page = %v", page)
	}
	rest, err := client.Call(ctx, MethodListCharts, map[string]any{"page_size": 1, "page_token": page["next_page_token"]})
	if err != nil {
		t.Fatalf("list second page: %v", err)
	}
	if charts := rest["charts"].([]any); len(charts) != 1 || rest["next_page_token"] != "" {
		t.Fatalf("second page = %v", rest)
	}
	_, err = client.Call(ctx, MethodListCharts, map[string]any{"page_token": "not-a-token"})
	assertStatus(t, err, codes.InvalidArgument, apperrors.CodeChartInvalidInput)
	if field := violatedField(err); field != "page_token" {
		t.Fatalf("field violation = %q, want page_token", field)
	}

	if _, err := client.Call(ctx, MethodDeleteChart, map[string]any{"id": chartID}); err != nil {
		t.Fatalf("delete chart: %v", err)
	}
	_, err = client.Call(ctx, MethodGetChart, map[string]any{"id": chartID})
	assertStatus(t, err, codes.NotFound, apperrors.CodeNotFound)
	_, err = client.Call(ctx, MethodGetChart, map[string]any{"id": "../etc"})
	assertStatus(t, err, codes.NotFound, apperrors.CodeNotFound)
}

func TestSavedChartAccess(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, nil)
	alice := WithToken(context.Background(), register(t, client, "alice"))
	bob := WithToken(context.Background(), register(t, client, "bob"))

	saved, err := client.Call(alice, MethodSaveChart, with(goldenBirth(), map[string]any{"name": "me"}))
	if err != nil {
		t.Fatalf("save chart: %v", err)
	}
	chartID := saved["saved_chart"].(map[string]any)["id"].(string)

	_, err = client.Call(context.Background(), MethodSaveChart, with(goldenBirth(), map[string]any{"name": "anon"}))
	assertStatus(t, err, codes.Unauthenticated, apperrors.CodeUnauthenticated)

	_, err = client.Call(bob, MethodGetChart, map[string]any{"id": chartID})
	assertStatus(t, err, codes.PermissionDenied, apperrors.CodePermissionDenied)

	_, err = client.Call(bob, MethodDeleteChart, map[string]any{"id": chartID})
	assertStatus(t, err, codes.PermissionDenied, apperrors.CodePermissionDenied)

	page, err := client.Call(bob, MethodListCharts, map[string]any{})
	if err != nil {
		t.Fatalf("list charts: %v", err)
	}
	if charts := page["charts"].([]any); len(charts) != 0 {
		t.Fatalf("bob sees %d charts", len(charts))
	}

	_, err = client.Call(alice, MethodSaveChart, with(goldenBirth(), map[string]any{"name": " "}))
	assertStatus(t, err, codes.InvalidArgument, apperrors.CodeChartNameEmpty)

	_, err = client.Call(alice, MethodGetChart, map[string]any{})
	assertStatus(t, err, codes.InvalidArgument, apperrors.CodeChartInvalidInput)

	forged := WithToken(context.Background(), "not-a-token")
	_, err = client.Call(forged, MethodCalculateChart, goldenBirth())
	assertStatus(t, err, codes.Unauthenticated, apperrors.CodeUnauthenticated)
}

func TestAccountService(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, nil)
	register(t, client, "Alice")

	_, err := client.Call(context.Background(), MethodRegister, map[string]any{"username": "alice", "password": "another secret"})
	assertStatus(t, err, codes.AlreadyExists, apperrors.CodeAlreadyExists)

	_, err = client.Call(context.Background(), MethodRegister, map[string]any{"username": "bob", "password": "short"})
	assertStatus(t, err, codes.InvalidArgument, apperrors.CodeAccountWeakPassword)

	resp, err := client.Call(context.Background(), MethodLogin, map[string]any{"username": "ALICE", "password": "correct horse"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user := resp["user"].(map[string]any); user["username"] != "alice" || resp["token"] == "" {
		t.Fatalf("login response = %v", resp)
	}

	_, err = client.Call(context.Background(), MethodLogin, map[string]any{"username": "alice", "password": "wrong horse"})
	assertStatus(t, err, codes.Unauthenticated, apperrors.CodeAccountBadCredentials)
}

func TestInterpretChart(t *testing.T) {
	t.Parallel()

	narrator := &fakeNarrator{text: "命宮巨門"}
	client := newTestClient(t, narrator)
	resp, err := client.Call(context.Background(), MethodInterpretChart, with(goldenBirth(), map[string]any{"locale": "en-US"}))
	if err != nil {
		t.Fatalf("interpret chart: %v", err)
	}
	if resp["text"] != "命宮巨門" || resp["locale"] != "en-US" {
		t.Fatalf("interpretation = %v", resp)
	}
	if narrator.locale != "en-US" || narrator.life != ziwei.BranchHai {
		t.Fatalf("narrator saw locale %q life %s", narrator.locale, narrator.life)
	}
}

func TestInterpretChartUnavailable(t *testing.T) {
	t.Parallel()

	tcs := map[string]narrative.Narrator{
		"disabled": narrative.Disabled{},
		"failing":  &fakeNarrator{err: errors.Join(narrative.ErrUnavailable, errors.New("quota"))},
	}
	for name, narrator := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			client := newTestClient(t, narrator)
			_, err := client.Call(context.Background(), MethodInterpretChart, goldenBirth())
			assertStatus(t, err, codes.Unavailable, apperrors.CodeNarrativeUnavailable)
		})
	}
}

func TestBearerToken(t *testing.T) {
	t.Parallel()

	tcs := map[string]string{
		"Bearer abc":   "abc",
		"bearer  abc ": "abc",
		"Basic abc":    "",
		"abc":          "",
		"":             "",
	}
	for in, want := range tcs {
		if got := bearerToken(in); got != want {
			t.Errorf("bearerToken(%q) = %q, want %q", in, got, want)
		}
	}
}
