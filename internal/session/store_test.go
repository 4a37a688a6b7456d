package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, ttl), mr
}

func TestRedisStoreSaveAndLoad(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)

	sess := &Session{ID: NewID(), UserID: 7, CreatedAt: time.Now().UTC().Truncate(time.Second)}
	if err := store.Save(context.Background(), sess); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.UserID != 7 || loaded.ID != sess.ID {
		t.Errorf("loaded = %+v, want saved session", loaded)
	}
	if !loaded.CreatedAt.Equal(sess.CreatedAt) {
		t.Errorf("created at = %v, want %v", loaded.CreatedAt, sess.CreatedAt)
	}
}

func TestRedisStoreLoadMissing(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)

	_, err := store.Load(context.Background(), "no-such-session")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRedisStoreExpiry(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)

	sess := &Session{ID: NewID(), UserID: 7}
	if err := store.Save(context.Background(), sess); err != nil {
		t.Fatalf("save: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	_, err := store.Load(context.Background(), sess.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expired session to be gone, got %v", err)
	}
}

func TestRedisStoreSlidingExpiration(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)

	sess := &Session{ID: NewID(), UserID: 7}
	if err := store.Save(context.Background(), sess); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Touching the session just before expiry pushes the deadline out.
	mr.FastForward(50 * time.Second)
	if _, err := store.Load(context.Background(), sess.ID); err != nil {
		t.Fatalf("load before expiry: %v", err)
	}
	mr.FastForward(50 * time.Second)
	if _, err := store.Load(context.Background(), sess.ID); err != nil {
		t.Fatalf("expected refreshed session to survive, got %v", err)
	}
}

func TestRedisStoreDestroy(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)

	sess := &Session{ID: NewID(), UserID: 7}
	if err := store.Save(context.Background(), sess); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Destroy(context.Background(), sess.ID); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	if _, err := store.Load(context.Background(), sess.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected destroyed session to be gone, got %v", err)
	}

	// Destroying twice is fine.
	if err := store.Destroy(context.Background(), sess.ID); err != nil {
		t.Fatalf("second destroy: %v", err)
	}
}
