package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"sessiongate/internal/core/domain"
)

func newRedisStoreTest(t *testing.T) (*RedisSessionStore, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisSessionStore(rdb, "sessions")
	return store, func() {
		_ = rdb.Close()
		mr.Close()
	}
}

func testRecord(sessionID string) *domain.Session {
	now := time.Now().Unix()
	return &domain.Session{
		SessionID:    sessionID,
		UserID:       "user-1",
		CreatedAt:    now,
		LastActivity: now,
		ExpiresAt:    now + 1800,
	}
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, done := newRedisStoreTest(t)
	defer done()
	ctx := context.Background()

	sess := testRecord("sid-1")
	if err := store.Put(ctx, sess); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := store.Get(ctx, "sid-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected record, got absent")
	}
	if *got != *sess {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, sess)
	}
}

func TestRedisStoreGetAbsent(t *testing.T) {
	store, done := newRedisStoreTest(t)
	defer done()

	got, err := store.Get(context.Background(), "no-such-session")
	if err != nil {
		t.Fatalf("get absent: %v", err)
	}
	if got != nil {
		t.Fatalf("expected (nil, nil) for absent record, got %+v", got)
	}
}

func TestRedisStoreTouch(t *testing.T) {
	store, done := newRedisStoreTest(t)
	defer done()
	ctx := context.Background()

	sess := testRecord("sid-1")
	if err := store.Put(ctx, sess); err != nil {
		t.Fatalf("put: %v", err)
	}

	newActivity := sess.LastActivity + 60
	if err := store.Touch(ctx, "sid-1", newActivity, newActivity+1800); err != nil {
		t.Fatalf("touch: %v", err)
	}

	got, err := store.Get(ctx, "sid-1")
	if err != nil || got == nil {
		t.Fatalf("get after touch: %v %v", got, err)
	}
	if got.LastActivity != newActivity || got.ExpiresAt != newActivity+1800 {
		t.Fatalf("touch not applied: %+v", got)
	}
	if got.UserID != sess.UserID || got.CreatedAt != sess.CreatedAt {
		t.Fatalf("touch must not change identity fields: %+v", got)
	}

	// A stale write (smaller lastActivity) must not rewind the record.
	if err := store.Touch(ctx, "sid-1", newActivity-30, newActivity+1770); err != nil {
		t.Fatalf("stale touch: %v", err)
	}
	got, _ = store.Get(ctx, "sid-1")
	if got.LastActivity != newActivity {
		t.Fatalf("stale touch rewound lastActivity to %d", got.LastActivity)
	}
}

func TestRedisStoreTouchAbsent(t *testing.T) {
	store, done := newRedisStoreTest(t)
	defer done()

	if err := store.Touch(context.Background(), "no-such-session", 1, 2); err != nil {
		t.Fatalf("touching an absent record must be a no-op, got %v", err)
	}
}

func TestRedisStoreDeleteIdempotent(t *testing.T) {
	store, done := newRedisStoreTest(t)
	defer done()
	ctx := context.Background()

	if err := store.Put(ctx, testRecord("sid-1")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Delete(ctx, "sid-1"); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := store.Delete(ctx, "sid-1"); err != nil {
		t.Fatalf("second delete: %v", err)
	}

	got, err := store.Get(ctx, "sid-1")
	if err != nil || got != nil {
		t.Fatalf("expected absent after delete, got %+v %v", got, err)
	}
}

func TestRedisStoreUnavailable(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisSessionStore(rdb, "sessions")
	mr.Close()

	if _, err := store.Get(context.Background(), "sid-1"); err == nil {
		t.Fatal("expected error from unreachable redis")
	}
	_ = rdb.Close()
}
