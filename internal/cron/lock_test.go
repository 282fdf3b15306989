package cron

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type memStore struct {
	values map[string]string
}

func newMemStore() *memStore { return &memStore{values: map[string]string{}} }

func (m *memStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, exists := m.values[key]; exists {
		return false, nil
	}
	m.values[key] = value.(string)
	return true, nil
}

func (m *memStore) Get(_ context.Context, key string) (string, error) {
	value, exists := m.values[key]
	if !exists {
		return "", redis.Nil
	}
	return value, nil
}

func (m *memStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}

func TestRedisLockSingleHolder(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()

	a, err := NewRedisLock(store, "locks:test", 0)
	if err != nil {
		t.Fatalf("new lock: %v", err)
	}
	b, err := NewRedisLock(store, "locks:test", 0)
	if err != nil {
		t.Fatalf("new lock: %v", err)
	}

	held, err := a.Acquire(ctx)
	if err != nil || !held {
		t.Fatalf("first acquire: held=%v err=%v", held, err)
	}
	held, err = b.Acquire(ctx)
	if err != nil || held {
		t.Fatalf("second acquire should lose: held=%v err=%v", held, err)
	}

	if err := a.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	held, err = b.Acquire(ctx)
	if err != nil || !held {
		t.Fatalf("acquire after release: held=%v err=%v", held, err)
	}
}

func TestRedisLockReleaseOnlyDeletesOwnToken(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()

	lock, err := NewRedisLock(store, "locks:test", 0)
	if err != nil {
		t.Fatalf("new lock: %v", err)
	}
	if _, err := lock.Acquire(ctx); err != nil {
		t.Fatalf("acquire: %v", err)
	}

	// Simulate TTL expiry followed by another worker taking the lease.
	store.values["locks:test"] = "someone-else"

	if err := lock.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	if store.values["locks:test"] != "someone-else" {
		t.Fatal("release deleted a lock owned by another worker")
	}
}
