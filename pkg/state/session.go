package state

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/overland/pkg/actor"
	"github.com/jwebster45206/overland/pkg/encounter"
	"github.com/jwebster45206/overland/pkg/world"
)

var (
	ErrNoParty       = errors.New("party must have at least one hero")
	ErrDuplicateHero = errors.New("duplicate hero in party")
)

// Session is one party exploring one generated map. The session owns its
// WorldMap exclusively; callers serialize moves per session.
type Session struct {
	ID                  uuid.UUID              `json:"id"`
	World               *world.WorldMap        `json:"world"`
	Position            world.Point            `json:"position"`
	Party               []string               `json:"party"` // hero IDs in marching order
	Heroes              map[string]*actor.Hero `json:"heroes"`
	MovesSinceEncounter int                    `json:"moves_since_encounter"`
	TotalMoves          int                    `json:"total_moves"`
	Settings            encounter.Settings     `json:"settings"`
	History             encounter.History      `json:"history,omitempty"`
	CreatedAt           time.Time              `json:"created_at"`
	UpdatedAt           time.Time              `json:"updated_at"`
}

// NewSession places heroes on m at start. The map is concealed so that only
// the starting tile counts as explored.
func NewSession(m *world.WorldMap, heroes []*actor.Hero, settings encounter.Settings, start world.Point) (*Session, error) {
	if m == nil {
		return nil, errors.New("world map is required")
	}
	if len(heroes) == 0 {
		return nil, ErrNoParty
	}
	if !m.InBounds(start.X, start.Y) {
		return nil, fmt.Errorf("start %v: %w", start, ErrOutOfBounds)
	}
	if !m.Passable(start.X, start.Y) {
		return nil, fmt.Errorf("start %v: %w", start, ErrImpassable)
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	s := &Session{
		ID:       uuid.New(),
		World:    m,
		Position: start,
		Heroes:   make(map[string]*actor.Hero, len(heroes)),
		Settings: settings,
	}
	for _, h := range heroes {
		if _, ok := s.Heroes[h.ID]; ok {
			return nil, fmt.Errorf("%s: %w", h.ID, ErrDuplicateHero)
		}
		s.Heroes[h.ID] = h
		s.Party = append(s.Party, h.ID)
	}

	m.ConcealAll()
	m.MarkExplored(start.X, start.Y)

	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now
	return s, nil
}

// ActiveHero returns the first hero in marching order who is still standing.
func (s *Session) ActiveHero() *actor.Hero {
	for _, id := range s.Party {
		if h, ok := s.Heroes[id]; ok && !h.IsDefeated {
			return h
		}
	}
	return nil
}

// PartyDefeated reports whether every hero is down.
func (s *Session) PartyDefeated() bool {
	return s.ActiveHero() == nil
}

// CurrentTile returns the tile under the party.
func (s *Session) CurrentTile() world.WorldTile {
	t, _ := s.World.Tile(s.Position.X, s.Position.Y)
	return t
}

// AvailableDirections lists the directions the party can step in from its
// current position.
func (s *Session) AvailableDirections() []Direction {
	var out []Direction
	for _, n := range s.World.Neighbors(s.Position) {
		if !s.World.Passable(n.X, n.Y) {
			continue
		}
		dir, _ := directionBetween(s.Position, n)
		out = append(out, dir)
	}
	return out
}

// FindStart picks a starting point: the first town, otherwise the passable
// land tile nearest the centre of the map.
func FindStart(m *world.WorldMap) (world.Point, error) {
	if towns := m.Towns(); len(towns) > 0 {
		return world.Point{X: towns[0].X, Y: towns[0].Y}, nil
	}
	cx, cy := m.Width/2, m.Height/2
	best, bestDist := world.Point{}, -1
	for y := range m.Tiles {
		for x := range m.Tiles[y] {
			if m.Tiles[y][x].Biome.IsWater() {
				continue
			}
			d := (x-cx)*(x-cx) + (y-cy)*(y-cy)
			if bestDist < 0 || d < bestDist {
				best, bestDist = world.Point{X: x, Y: y}, d
			}
		}
	}
	if bestDist < 0 {
		return world.Point{}, errors.New("map has no land to start on")
	}
	return best, nil
}
