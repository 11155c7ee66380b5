package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestList(t *testing.T) (*RevocationList, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRevocationList(client), mr
}

func TestRevocationList_RevokeAndCheck(t *testing.T) {
	list, mr := newTestList(t)
	ctx := context.Background()

	revoked, err := list.IsRevoked(ctx, "jti-1")
	if err != nil {
		t.Fatalf("IsRevoked: %v", err)
	}
	if revoked {
		t.Fatalf("expected fresh token not to be revoked")
	}

	if err := list.Revoke(ctx, "jti-1", time.Now().Add(time.Hour).Unix()); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	revoked, err = list.IsRevoked(ctx, "jti-1")
	if err != nil {
		t.Fatalf("IsRevoked: %v", err)
	}
	if !revoked {
		t.Fatalf("expected token to be revoked")
	}

	ttl := mr.TTL("revoked:jti-1")
	if ttl <= 0 || ttl > time.Hour {
		t.Fatalf("unexpected ttl %v", ttl)
	}
}

func TestRevocationList_ExpiresWithToken(t *testing.T) {
	list, mr := newTestList(t)
	ctx := context.Background()

	if err := list.Revoke(ctx, "jti-2", time.Now().Add(time.Minute).Unix()); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	revoked, err := list.IsRevoked(ctx, "jti-2")
	if err != nil {
		t.Fatalf("IsRevoked: %v", err)
	}
	if revoked {
		t.Fatalf("expected revocation entry to expire")
	}
}

func TestRevocationList_ExpiredTokenSkipped(t *testing.T) {
	list, mr := newTestList(t)

	if err := list.Revoke(context.Background(), "jti-3", time.Now().Add(-time.Minute).Unix()); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if mr.Exists("revoked:jti-3") {
		t.Fatalf("expected no entry for an already expired token")
	}
}

func TestRevocationList_BackendDown(t *testing.T) {
	list, mr := newTestList(t)
	mr.Close()

	if _, err := list.IsRevoked(context.Background(), "jti-4"); err == nil {
		t.Fatalf("expected error when redis is unreachable")
	}
}
