package encounter

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jwebster45206/overland/pkg/dice"
	"github.com/jwebster45206/overland/pkg/progression"
	"github.com/jwebster45206/overland/pkg/world"
)

// Source identifies which bucket produced an encounter.
type Source string

const (
	SourcePOI         Source = "poi"
	SourceBiome       Source = "biome"
	SourceEnvironment Source = "environment"
)

// Rolled is a resolved encounter. A nil *Rolled means nothing happened.
type Rolled struct {
	Template   string                 `json:"template"`
	Hostile    bool                   `json:"hostile"`
	Difficulty progression.Difficulty `json:"difficulty"`
	Source     Source                 `json:"source"`
	Gold       int                    `json:"gold,omitempty"`
}

// Settings tune how often encounters fire.
//
// Moves below CooldownMoves scale the chance down linearly (0 right after an
// encounter). Each idle move past the cooldown adds PityStep to the
// multiplier, up to 1+PityMax.
type Settings struct {
	EncounterRate       float64 `json:"encounter_rate"`
	CooldownMoves       int     `json:"cooldown_moves"`
	PityStep            float64 `json:"pity_step"`
	PityMax             float64 `json:"pity_max"`
	EnvironmentalEvents bool    `json:"environmental_events"`
}

// DefaultSettings returns the standard tuning.
func DefaultSettings() Settings {
	return Settings{
		EncounterRate:       1.0,
		CooldownMoves:       2,
		PityStep:            0.1,
		PityMax:             1.0,
		EnvironmentalEvents: true,
	}
}

// Validate reports out-of-range settings.
func (s Settings) Validate() error {
	var errs []error
	if s.EncounterRate < 0 {
		errs = append(errs, fmt.Errorf("encounter_rate %.2f cannot be negative", s.EncounterRate))
	}
	if s.CooldownMoves < 0 {
		errs = append(errs, fmt.Errorf("cooldown_moves %d cannot be negative", s.CooldownMoves))
	}
	if s.PityStep < 0 {
		errs = append(errs, fmt.Errorf("pity_step %.2f cannot be negative", s.PityStep))
	}
	if s.PityMax < 0 {
		errs = append(errs, fmt.Errorf("pity_max %.2f cannot be negative", s.PityMax))
	}
	return errors.Join(errs...)
}

// PityMultiplier is the factor applied to a bucket's chance after moves
// steps without an encounter. It never decreases as moves grows.
func (s Settings) PityMultiplier(moves int) float64 {
	if moves < 0 {
		moves = 0
	}
	if moves < s.CooldownMoves {
		return float64(moves) / float64(s.CooldownMoves)
	}
	return 1 + min(s.PityMax, float64(moves-s.CooldownMoves)*s.PityStep)
}

// EffectiveChance is the probability that the primary roll fires.
func EffectiveChance(c Chance, firstVisit bool, s Settings, moves int) float64 {
	p := c.Base * s.EncounterRate
	if !firstVisit {
		p *= c.RevisitMultiplier
	}
	p *= s.PityMultiplier(moves)
	return clamp01(p)
}

// Resolver rolls encounters against a fixed set of tables.
type Resolver struct {
	tables *Tables
	src    dice.Source
	logger *slog.Logger
}

// NewResolver validates tables once. A nil src uses the ambient generator.
func NewResolver(tables *Tables, src dice.Source, logger *slog.Logger) (*Resolver, error) {
	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("invalid encounter tables: %w", err)
	}
	if src == nil {
		src = dice.Ambient()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{tables: tables, src: src, logger: logger}, nil
}

// Tables returns the resolver's configuration.
func (r *Resolver) Tables() *Tables {
	return r.tables
}

// Resolve decides what happens on tile. A POI with its own table takes
// priority over the tile's biome. When the primary roll produces nothing,
// an environmental roll against the biome's environmental chance may fire
// instead. Misconfiguration is logged and treated as no encounter.
func (r *Resolver) Resolve(tile world.WorldTile, firstVisit bool, settings Settings, movesSinceEncounter int) *Rolled {
	table, chance, source, ok := r.bucket(tile)
	if !ok {
		r.logger.Error("no encounter table for tile",
			"x", tile.X, "y", tile.Y, "biome", tile.Biome, "poi", tile.POI)
		return nil
	}

	p := EffectiveChance(chance, firstVisit, settings, movesSinceEncounter)
	if p > 0 && r.src.Float64() < p {
		if rolled := r.roll(table, source, tile); rolled != nil {
			return rolled
		}
	}

	if !settings.EnvironmentalEvents {
		return nil
	}
	env := r.tables.BiomeChances[tile.Biome].Environmental
	if env <= 0 || r.src.Float64() >= env {
		return nil
	}
	return r.roll(r.tables.Environmental, SourceEnvironment, tile)
}

func (r *Resolver) bucket(tile world.WorldTile) (Table, Chance, Source, bool) {
	if tile.HasPOI() {
		if t, ok := r.tables.POIs[tile.POI]; ok {
			return t, r.tables.POIChances[tile.POI], SourcePOI, true
		}
	}
	t, ok := r.tables.Biomes[tile.Biome]
	if !ok {
		return nil, Chance{}, "", false
	}
	return t, r.tables.BiomeChances[tile.Biome], SourceBiome, true
}

func (r *Resolver) roll(table Table, source Source, tile world.WorldTile) *Rolled {
	total := table.TotalWeight()
	if total <= 0 {
		r.logger.Error("encounter table has no weight",
			"source", source, "biome", tile.Biome, "poi", tile.POI, "entries", len(table))
		return nil
	}
	entry, ok := table.Pick(r.src.IntN(total))
	if !ok || entry.IsNone() {
		return nil
	}
	difficulty := entry.Difficulty
	if difficulty == "" {
		difficulty = progression.DifficultyMedium
	}
	return &Rolled{
		Template:   entry.Template,
		Hostile:    entry.Hostile,
		Difficulty: difficulty,
		Source:     source,
		Gold:       entry.Gold,
	}
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}
