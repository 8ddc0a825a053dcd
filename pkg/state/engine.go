// Package state holds a party's session and the move loop that ties terrain,
// encounters, dice, and progression together.
package state

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jwebster45206/overland/pkg/actor"
	"github.com/jwebster45206/overland/pkg/dice"
	"github.com/jwebster45206/overland/pkg/encounter"
	"github.com/jwebster45206/overland/pkg/progression"
	"github.com/jwebster45206/overland/pkg/world"
)

var (
	ErrOutOfBounds      = errors.New("destination is off the map")
	ErrUnknownDirection = errors.New("unknown direction")
	ErrPartyDefeated    = errors.New("party is defeated")
	ErrImpassable       = errors.New("destination is impassable")
)

// MoveResult describes everything one step changed.
type MoveResult struct {
	From       world.Point     `json:"from"`
	To         world.Point     `json:"to"`
	Tile       world.WorldTile `json:"tile"`
	FirstVisit bool            `json:"first_visit"`
	Rested     bool            `json:"rested,omitempty"`

	Encounter *encounter.Rolled `json:"encounter,omitempty"`
	HeroID    string            `json:"hero_id,omitempty"`
	Check     *dice.Check       `json:"check,omitempty"`
	DC        int               `json:"dc,omitempty"`
	Outcome   dice.Outcome      `json:"outcome,omitempty"`
	XPGained  int               `json:"xp_gained,omitempty"`
	Gold      int               `json:"gold,omitempty"`
	Damage    int               `json:"damage,omitempty"`
	LevelUp   *actor.LevelUp    `json:"level_up,omitempty"`

	HeroDefeated  bool `json:"hero_defeated,omitempty"`
	PartyDefeated bool `json:"party_defeated,omitempty"`
}

// Engine runs moves. It carries the combat randomness; terrain randomness
// lives entirely inside world.Generate.
type Engine struct {
	resolver *encounter.Resolver
	roller   *dice.Roller
	hp       progression.HitPointModel
	logger   *slog.Logger
	now      func() time.Time
}

// NewEngine wires an engine. A nil roller uses ambient dice, a nil hp model
// uses progression.ClassHitDice.
func NewEngine(resolver *encounter.Resolver, roller *dice.Roller, hp progression.HitPointModel, logger *slog.Logger) *Engine {
	if roller == nil {
		roller = dice.NewRoller(nil)
	}
	if hp == nil {
		hp = progression.ClassHitDice{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		resolver: resolver,
		roller:   roller,
		hp:       hp,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Move steps the party one tile in dir, resolves whatever happens there, and
// applies the consequences to the session. A rejected move leaves the
// session untouched.
func (e *Engine) Move(s *Session, dir Direction) (*MoveResult, error) {
	if s == nil || s.World == nil {
		return nil, errors.New("session has no world")
	}
	if s.PartyDefeated() {
		return nil, ErrPartyDefeated
	}
	to, ok := dir.Step(s.Position)
	if !ok {
		return nil, fmt.Errorf("%q: %w", dir, ErrUnknownDirection)
	}
	if !s.World.InBounds(to.X, to.Y) {
		return nil, fmt.Errorf("%s to %v: %w", dir, to, ErrOutOfBounds)
	}
	if !s.World.Passable(to.X, to.Y) {
		return nil, fmt.Errorf("%s to %v: %w", dir, to, ErrImpassable)
	}

	result := &MoveResult{From: s.Position, To: to}
	s.Position = to
	s.TotalMoves++
	s.UpdatedAt = e.now()

	result.FirstVisit = s.World.MarkExplored(to.X, to.Y)
	result.Tile, _ = s.World.Tile(to.X, to.Y)

	if result.FirstVisit && result.Tile.POI == world.POITown {
		for _, id := range s.Party {
			if h, ok := s.Heroes[id]; ok {
				h.HealToFull()
			}
		}
		result.Rested = true
	}

	rolled := e.resolver.Resolve(result.Tile, result.FirstVisit, s.Settings, s.MovesSinceEncounter)
	if rolled == nil {
		s.MovesSinceEncounter++
		return result, nil
	}
	s.MovesSinceEncounter = 0
	result.Encounter = rolled

	e.runEncounter(s, rolled, result)
	result.PartyDefeated = s.PartyDefeated()
	return result, nil
}

// runEncounter has the lead hero face the encounter: a check against the
// difficulty DC, XP for the attempt, the entry's gold on a success, and
// damage if the encounter is hostile.
func (e *Engine) runEncounter(s *Session, rolled *encounter.Rolled, result *MoveResult) {
	hero := s.ActiveHero()
	if hero == nil {
		return
	}
	result.HeroID = hero.ID
	result.DC = rolled.Difficulty.DC()

	check := e.roller.RollCheck(hero.CheckModifier(), false, false)
	result.Check = &check
	result.Outcome = check.Against(result.DC)

	result.XPGained = progression.EncounterXP(rolled.Difficulty, result.Outcome, hero.Level)
	if lu := hero.AwardXP(result.XPGained, e.hp); lu.Leveled() {
		result.LevelUp = &lu
	}
	if rolled.Gold > 0 && result.Outcome.IsSuccess() {
		hero.AddGold(rolled.Gold)
		result.Gold = rolled.Gold
	}

	if rolled.Hostile {
		dmg := progression.Damage(result.Outcome, hero.MaxHP, rolled.Difficulty, e.roller.Source())
		result.Damage = hero.ApplyDamage(dmg)
		result.HeroDefeated = hero.IsDefeated
	}

	s.History = s.History.Append(encounter.HistoryEntry{
		Name:      rolled.Template,
		Outcome:   result.Outcome,
		HeroID:    hero.ID,
		XPGained:  result.XPGained,
		Timestamp: e.now(),
	})

	e.logger.Debug("encounter resolved",
		"session_id", s.ID.String(),
		"template", rolled.Template,
		"source", rolled.Source,
		"hero_id", hero.ID,
		"natural", check.NaturalRoll,
		"total", check.Total,
		"dc", result.DC,
		"outcome", result.Outcome,
		"xp", result.XPGained,
		"gold", result.Gold,
		"damage", result.Damage)
}
