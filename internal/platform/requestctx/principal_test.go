package requestctx

import (
	"context"
	"testing"
)

func TestPrincipalRoundTrip(t *testing.T) {
	ctx := WithPrincipal(context.Background(), Principal{UserID: "u1", Username: "mei"})
	got, ok := PrincipalFromContext(ctx)
	if !ok {
		t.Fatal("expected principal")
	}
	if got.UserID != "u1" || got.Username != "mei" {
		t.Fatalf("principal = %+v", got)
	}
}

func TestPrincipalMissing(t *testing.T) {
	if _, ok := PrincipalFromContext(context.Background()); ok {
		t.Fatal("expected no principal")
	}
	if _, ok := PrincipalFromContext(nil); ok {
		t.Fatal("expected no principal for nil context")
	}
	if _, ok := PrincipalFromContext(WithPrincipal(nil, Principal{})); ok {
		t.Fatal("expected empty principal to be rejected")
	}
}
