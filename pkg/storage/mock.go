package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/jwebster45206/overland/pkg/actor"
	"github.com/jwebster45206/overland/pkg/encounter"
	"github.com/jwebster45206/overland/pkg/state"
)

// MockStorage is a mock implementation of Storage for testing.
// Sessions are stored as JSON so callers never share a live *Session with
// the store, the same as with Redis.
type MockStorage struct {
	mu         sync.RWMutex
	sessions   map[uuid.UUID][]byte
	characters map[string]*actor.Character
	tables     *encounter.Tables
	pingError  error
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a new mock storage with the built-in encounter tables
func NewMockStorage() *MockStorage {
	return &MockStorage{
		sessions:   make(map[uuid.UUID][]byte),
		characters: make(map[string]*actor.Character),
		tables:     encounter.DefaultTables(),
	}
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// AddCharacter adds a character definition
func (m *MockStorage) AddCharacter(c *actor.Character) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.characters[c.ID] = c
}

// SetEncounterTables replaces the tables returned by GetEncounterTables
func (m *MockStorage) SetEncounterTables(t *encounter.Tables) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables = t
}

// SessionCount returns the number of stored sessions
func (m *MockStorage) SessionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Ping mocks storage ping
func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

// Close mocks storage close
func (m *MockStorage) Close() error {
	return nil
}

// SaveSession mocks saving a session
func (m *MockStorage) SaveSession(ctx context.Context, s *state.Session) error {
	if s == nil {
		return errors.New("session cannot be nil")
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = data
	return nil
}

// LoadSession mocks loading a session
func (m *MockStorage) LoadSession(ctx context.Context, id uuid.UUID) (*state.Session, error) {
	m.mu.RLock()
	data, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	var s state.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &s, nil
}

// DeleteSession mocks deleting a session
func (m *MockStorage) DeleteSession(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// ListCharacters mocks listing character IDs
func (m *MockStorage) ListCharacters(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.characters))
	for id := range m.characters {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// GetCharacter mocks loading a character definition
func (m *MockStorage) GetCharacter(ctx context.Context, id string) (*actor.Character, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.characters[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

// GetEncounterTables mocks loading encounter tables
func (m *MockStorage) GetEncounterTables(ctx context.Context) (*encounter.Tables, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.tables == nil {
		return nil, errors.New("no encounter tables configured")
	}
	return m.tables, nil
}
