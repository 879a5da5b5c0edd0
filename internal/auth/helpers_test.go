package auth

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/security"
	"github.com/google/uuid"
)

var testPasswordConfig = config.PasswordConfig{
	ArgonMemoryKB:    1024,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

var testJWTConfig = config.JWTConfig{
	Secret:            "test-secret",
	Issuer:            "storefront",
	ExpirationMinutes: 30,
}

type memorySessions struct {
	mu       sync.Mutex
	sessions map[string]uuid.UUID
	startErr error
}

func newMemorySessions() *memorySessions {
	return &memorySessions{sessions: map[string]uuid.UUID{}}
}

func (m *memorySessions) Start(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.startErr != nil {
		return "", m.startErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.NewString()
	m.sessions[id] = userID
	return id, nil
}

func (m *memorySessions) Revoke(ctx context.Context, accessID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, accessID)
	return nil
}

func (m *memorySessions) HasSession(ctx context.Context, accessID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[accessID]
	return ok, nil
}

var errStoreDown = errors.New("store down")

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordConfig)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}
