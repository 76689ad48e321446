package repository

import (
	"context"
	"testing"
)

func TestMemoryStoreCopiesRecords(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	sess := testRecord("sid-1")
	if err := store.Put(ctx, sess); err != nil {
		t.Fatalf("put: %v", err)
	}

	// Mutating the caller's struct must not leak into the store.
	sess.UserID = "tampered"

	got, err := store.Get(ctx, "sid-1")
	if err != nil || got == nil {
		t.Fatalf("get: %v %v", got, err)
	}
	if got.UserID != "user-1" {
		t.Fatalf("store shared memory with caller: %+v", got)
	}

	// And mutating the returned copy must not change the stored record.
	got.UserID = "tampered-again"
	again, _ := store.Get(ctx, "sid-1")
	if again.UserID != "user-1" {
		t.Fatalf("store shared memory with reader: %+v", again)
	}
}

func TestMemoryStoreTouchNeverRewinds(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	sess := testRecord("sid-1")
	if err := store.Put(ctx, sess); err != nil {
		t.Fatalf("put: %v", err)
	}

	if err := store.Touch(ctx, "sid-1", sess.LastActivity+100, sess.ExpiresAt+100); err != nil {
		t.Fatalf("touch: %v", err)
	}
	if err := store.Touch(ctx, "sid-1", sess.LastActivity+40, sess.ExpiresAt+40); err != nil {
		t.Fatalf("stale touch: %v", err)
	}

	got, _ := store.Get(ctx, "sid-1")
	if got.LastActivity != sess.LastActivity+100 {
		t.Fatalf("stale touch rewound lastActivity: %+v", got)
	}
}

func TestMemoryStoreDeleteIdempotent(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	if err := store.Put(ctx, testRecord("sid-1")); err != nil {
		t.Fatalf("put: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := store.Delete(ctx, "sid-1"); err != nil {
			t.Fatalf("delete %d: %v", i, err)
		}
	}
	if got, err := store.Get(ctx, "sid-1"); err != nil || got != nil {
		t.Fatalf("expected absent after delete, got %+v %v", got, err)
	}
}
