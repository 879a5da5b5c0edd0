package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

type mockStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]string)}
}

func (m *mockStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	return nil
}

func (m *mockStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *mockStore) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *mockStore) AccessSessionKey(accessID string) string {
	return fmt.Sprintf("sess:%s", accessID)
}

func newTestManager() (*Manager, *mockStore) {
	store := newMockStore()
	return &Manager{store: store, keyer: store, ttl: time.Hour}, store
}

func TestManagerStartAndRevoke(t *testing.T) {
	manager, store := newTestManager()
	ctx := context.Background()
	userID := uuid.New()

	accessID, err := manager.Start(ctx, userID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if got := store.data["sess:"+accessID]; got != userID.String() {
		t.Fatalf("expected session to store user id, got %q", got)
	}

	ok, err := manager.HasSession(ctx, accessID)
	if err != nil || !ok {
		t.Fatalf("expected active session, ok=%v err=%v", ok, err)
	}

	if err := manager.Revoke(ctx, accessID); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	ok, err = manager.HasSession(ctx, accessID)
	if err != nil {
		t.Fatalf("has session after revoke: %v", err)
	}
	if ok {
		t.Fatal("expected session to be gone after revoke")
	}
}

func TestManagerRejectsBlankInput(t *testing.T) {
	manager, _ := newTestManager()
	ctx := context.Background()

	if _, err := manager.Start(ctx, uuid.Nil); err == nil {
		t.Fatal("expected nil user id to fail")
	}
	if err := manager.Revoke(ctx, " "); err == nil {
		t.Fatal("expected blank access id to fail")
	}
	if _, err := manager.HasSession(ctx, ""); err == nil {
		t.Fatal("expected blank access id to fail")
	}
}

type failingStore struct{ *mockStore }

func (f failingStore) Get(ctx context.Context, key string) (string, error) {
	return "", errors.New("connection refused")
}

func TestManagerHasSessionPropagatesStoreErrors(t *testing.T) {
	store := newMockStore()
	manager := &Manager{store: failingStore{store}, keyer: store, ttl: time.Hour}
	if _, err := manager.HasSession(context.Background(), "abc"); err == nil {
		t.Fatal("expected store error to propagate")
	}
}
