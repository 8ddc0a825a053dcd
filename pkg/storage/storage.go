package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/jwebster45206/overland/pkg/actor"
	"github.com/jwebster45206/overland/pkg/encounter"
	"github.com/jwebster45206/overland/pkg/state"
)

// Storage defines a unified interface for all storage operations
// This interface combines session persistence (Redis) with resource loading (filesystem)
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Session operations (Redis-backed). LoadSession returns nil, nil when
	// the session does not exist or has expired.
	SaveSession(ctx context.Context, s *state.Session) error
	LoadSession(ctx context.Context, id uuid.UUID) (*state.Session, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error

	// Character operations (filesystem-backed). GetCharacter returns nil, nil
	// for an unknown ID.
	ListCharacters(ctx context.Context) ([]string, error)
	GetCharacter(ctx context.Context, id string) (*actor.Character, error)

	// Encounter configuration (filesystem-backed, embedded defaults)
	GetEncounterTables(ctx context.Context) (*encounter.Tables, error)
}
