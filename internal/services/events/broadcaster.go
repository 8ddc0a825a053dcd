package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/overland/pkg/actor"
	"github.com/jwebster45206/overland/pkg/state"
	"github.com/jwebster45206/overland/pkg/world"
	"github.com/redis/go-redis/v9"
)

// EventType represents the type of event being broadcast
type EventType string

const (
	EventTypeEncounterResolved EventType = "encounter.resolved"
	EventTypeHeroLevelUp       EventType = "hero.level_up"
	EventTypeHeroDefeated      EventType = "hero.defeated"
)

// Event is the envelope a narration service consumes. It carries the
// encounter template and tile descriptor, never prose.
type Event struct {
	Type      EventType      `json:"type"`
	SessionID string         `json:"session_id"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}

// Channel is the pub/sub channel carrying a session's events.
func Channel(sessionID uuid.UUID) string {
	return fmt.Sprintf("session:%s:events", sessionID)
}

// Publisher is what the HTTP layer needs from a broadcaster.
type Publisher interface {
	PublishMove(ctx context.Context, sessionID uuid.UUID, res *state.MoveResult, hero *actor.Hero) error
}

// Broadcaster publishes events to Redis Pub/Sub for the narration collaborator
type Broadcaster struct {
	redisClient *redis.Client
	logger      *slog.Logger
	now         func() time.Time
}

var _ Publisher = (*Broadcaster)(nil)

// NewBroadcaster creates a new event broadcaster
func NewBroadcaster(redisClient *redis.Client, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		redisClient: redisClient,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// PublishMove publishes whatever events a move produced: the encounter, a
// level-up, and a defeat, in that order. Moves with no encounter publish
// nothing. hero is the hero who faced the encounter.
func (b *Broadcaster) PublishMove(ctx context.Context, sessionID uuid.UUID, res *state.MoveResult, hero *actor.Hero) error {
	if res == nil || res.Encounter == nil {
		return nil
	}
	if err := b.PublishEncounterResolved(ctx, sessionID, res); err != nil {
		return err
	}
	if res.LevelUp != nil && hero != nil {
		if err := b.PublishHeroLevelUp(ctx, sessionID, hero, *res.LevelUp); err != nil {
			return err
		}
	}
	if res.HeroDefeated && hero != nil {
		if err := b.PublishHeroDefeated(ctx, sessionID, hero, res.Encounter.Template, res.PartyDefeated); err != nil {
			return err
		}
	}
	return nil
}

// PublishEncounterResolved publishes an encounter.resolved event
func (b *Broadcaster) PublishEncounterResolved(ctx context.Context, sessionID uuid.UUID, res *state.MoveResult) error {
	data := map[string]any{
		"template":   res.Encounter.Template,
		"hostile":    res.Encounter.Hostile,
		"difficulty": res.Encounter.Difficulty,
		"source":     res.Encounter.Source,
		"tile":       tileDescriptor(res.Tile),
		"hero_id":    res.HeroID,
		"outcome":    res.Outcome,
		"xp_gained":  res.XPGained,
		"gold":       res.Gold,
		"damage":     res.Damage,
	}
	if res.Check != nil {
		data["natural_roll"] = res.Check.NaturalRoll
		data["total"] = res.Check.Total
		data["dc"] = res.DC
	}
	return b.publish(ctx, sessionID, EventTypeEncounterResolved, data)
}

// PublishHeroLevelUp publishes a hero.level_up event
func (b *Broadcaster) PublishHeroLevelUp(ctx context.Context, sessionID uuid.UUID, hero *actor.Hero, lu actor.LevelUp) error {
	return b.publish(ctx, sessionID, EventTypeHeroLevelUp, map[string]any{
		"hero_id":    hero.ID,
		"name":       hero.Name,
		"class":      hero.Class,
		"old_level":  lu.OldLevel,
		"new_level":  lu.NewLevel,
		"max_hp":     lu.NewMaxHP,
		"asi_gained": lu.ASIGained,
	})
}

// PublishHeroDefeated publishes a hero.defeated event
func (b *Broadcaster) PublishHeroDefeated(ctx context.Context, sessionID uuid.UUID, hero *actor.Hero, template string, partyDefeated bool) error {
	return b.publish(ctx, sessionID, EventTypeHeroDefeated, map[string]any{
		"hero_id":        hero.ID,
		"name":           hero.Name,
		"template":       template,
		"party_defeated": partyDefeated,
	})
}

func tileDescriptor(t world.WorldTile) map[string]any {
	d := map[string]any{
		"x":     t.X,
		"y":     t.Y,
		"biome": t.Biome,
	}
	if t.HasPOI() {
		d["poi"] = t.POI
	}
	if t.TownName != "" {
		d["town_name"] = t.TownName
		d["town_size"] = t.TownSize
	}
	return d
}

// publish sends an event to the session-specific channel
func (b *Broadcaster) publish(ctx context.Context, sessionID uuid.UUID, eventType EventType, data map[string]any) error {
	channel := Channel(sessionID)
	event := Event{
		Type:      eventType,
		SessionID: sessionID.String(),
		Timestamp: b.now(),
		Data:      data,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("Failed to marshal event", "error", err, "event_type", eventType)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.redisClient.Publish(ctx, channel, payload).Err(); err != nil {
		b.logger.Error("Failed to publish event", "error", err, "channel", channel)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debug("Event published",
		"channel", channel,
		"event_type", eventType,
	)
	return nil
}
