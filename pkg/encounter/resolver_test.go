package encounter

import (
	"bytes"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/jwebster45206/overland/pkg/dice"
	"github.com/jwebster45206/overland/pkg/progression"
	"github.com/jwebster45206/overland/pkg/world"
)

// fixedSource returns queued values, then repeats the last one.
type fixedSource struct {
	floats []float64
	ints   []int
}

func (s *fixedSource) Float64() float64 {
	v := s.floats[0]
	if len(s.floats) > 1 {
		s.floats = s.floats[1:]
	}
	return v
}

func (s *fixedSource) IntN(n int) int {
	v := s.ints[0]
	if len(s.ints) > 1 {
		s.ints = s.ints[1:]
	}
	return v % n
}

func wolfTables() *Tables {
	return &Tables{
		Biomes: map[world.Biome]Table{
			world.BiomePlains: {
				{Template: "wolf", Weight: 10, Hostile: true, Difficulty: progression.DifficultyEasy},
				{Template: NoneTemplate, Weight: 90},
			},
		},
		POIs: map[world.POI]Table{
			world.POIRuins: {
				{Template: "skeletons", Weight: 1, Hostile: true},
				{Template: NoneTemplate, Weight: 1},
			},
		},
		Environmental: Table{
			{Template: "storm", Weight: 1},
			{Template: NoneTemplate, Weight: 1},
		},
		BiomeChances: map[world.Biome]Chance{
			world.BiomePlains: {Base: 1.0, RevisitMultiplier: 1.0, Environmental: 0.5},
		},
		POIChances: map[world.POI]Chance{
			world.POIRuins: {Base: 1.0, RevisitMultiplier: 0.5},
		},
	}
}

func alwaysSettings() Settings {
	return Settings{EncounterRate: 1.0}
}

func plainsTile() world.WorldTile {
	return world.WorldTile{X: 1, Y: 2, Biome: world.BiomePlains}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestNewResolver_InvalidTables(t *testing.T) {
	tables := wolfTables()
	tables.Biomes[world.BiomePlains] = Table{}
	if _, err := NewResolver(tables, nil, nil); err == nil {
		t.Error("NewResolver() should reject an empty table")
	}
}

func TestResolve_NoneRate(t *testing.T) {
	r, err := NewResolver(wolfTables(), dice.NewSeededSource(42), discardLogger())
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}

	const trials = 1000
	none := 0
	for range trials {
		rolled := r.Resolve(plainsTile(), true, alwaysSettings(), 10)
		if rolled == nil {
			none++
			continue
		}
		if rolled.Template != "wolf" || !rolled.Hostile || rolled.Source != SourceBiome {
			t.Fatalf("unexpected encounter %+v", rolled)
		}
	}
	rate := float64(none) / trials
	if math.Abs(rate-0.90) > 0.04 {
		t.Errorf("none rate = %.3f, want ≈ 0.90", rate)
	}
}

func TestResolve_POIPriority(t *testing.T) {
	src := &fixedSource{floats: []float64{0}, ints: []int{0}}
	r, err := NewResolver(wolfTables(), src, discardLogger())
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}
	tile := plainsTile()
	tile.POI = world.POIRuins

	rolled := r.Resolve(tile, true, alwaysSettings(), 0)
	if rolled == nil || rolled.Template != "skeletons" || rolled.Source != SourcePOI {
		t.Fatalf("Resolve() = %+v, want skeletons from poi", rolled)
	}
	if rolled.Difficulty != progression.DifficultyMedium {
		t.Errorf("Difficulty = %q, want medium fallback", rolled.Difficulty)
	}
}

func TestResolve_POIWithoutTableUsesBiome(t *testing.T) {
	src := &fixedSource{floats: []float64{0}, ints: []int{0}}
	r, _ := NewResolver(wolfTables(), src, discardLogger())
	tile := plainsTile()
	tile.POI = world.POIForest

	rolled := r.Resolve(tile, true, alwaysSettings(), 0)
	if rolled == nil || rolled.Source != SourceBiome {
		t.Fatalf("Resolve() = %+v, want biome encounter", rolled)
	}
}

func TestResolve_EnvironmentalFallback(t *testing.T) {
	// primary fires but picks none (sample 50), environmental fires and picks storm (sample 0)
	src := &fixedSource{floats: []float64{0, 0.1}, ints: []int{50, 0}}
	r, _ := NewResolver(wolfTables(), src, discardLogger())
	settings := alwaysSettings()
	settings.EnvironmentalEvents = true

	rolled := r.Resolve(plainsTile(), true, settings, 0)
	if rolled == nil || rolled.Template != "storm" || rolled.Source != SourceEnvironment {
		t.Fatalf("Resolve() = %+v, want storm from environment", rolled)
	}

	src = &fixedSource{floats: []float64{0, 0.1}, ints: []int{50, 0}}
	r, _ = NewResolver(wolfTables(), src, discardLogger())
	settings.EnvironmentalEvents = false
	if rolled := r.Resolve(plainsTile(), true, settings, 0); rolled != nil {
		t.Errorf("Resolve() = %+v with environmental events off, want nil", rolled)
	}
}

func TestResolve_CombatTakesPrecedence(t *testing.T) {
	src := &fixedSource{floats: []float64{0}, ints: []int{0}}
	r, _ := NewResolver(wolfTables(), src, discardLogger())
	settings := alwaysSettings()
	settings.EnvironmentalEvents = true

	rolled := r.Resolve(plainsTile(), true, settings, 0)
	if rolled == nil || rolled.Source != SourceBiome {
		t.Fatalf("Resolve() = %+v, want biome encounter", rolled)
	}
}

func TestResolve_MissingTableLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	r, err := NewResolver(wolfTables(), dice.NewSeededSource(1), logger)
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}

	tile := world.WorldTile{Biome: world.BiomeMountain}
	if rolled := r.Resolve(tile, true, alwaysSettings(), 5); rolled != nil {
		t.Errorf("Resolve() = %+v, want nil", rolled)
	}
	if !strings.Contains(buf.String(), "no encounter table") {
		t.Errorf("expected error log, got %q", buf.String())
	}
}

func TestResolve_ZeroWeightAtRuntime(t *testing.T) {
	var buf bytes.Buffer
	tables := wolfTables()
	r, err := NewResolver(tables, &fixedSource{floats: []float64{0}, ints: []int{0}}, slog.New(slog.NewTextHandler(&buf, nil)))
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}
	// corrupt after validation
	tables.Biomes[world.BiomePlains] = Table{{Template: NoneTemplate, Weight: 0}}

	if rolled := r.Resolve(plainsTile(), true, alwaysSettings(), 0); rolled != nil {
		t.Errorf("Resolve() = %+v, want nil", rolled)
	}
	if !strings.Contains(buf.String(), "no weight") {
		t.Errorf("expected error log, got %q", buf.String())
	}
}

func TestEffectiveChance_Revisit(t *testing.T) {
	c := Chance{Base: 0.4, RevisitMultiplier: 0.5}
	s := Settings{EncounterRate: 1.0}
	first := EffectiveChance(c, true, s, 0)
	again := EffectiveChance(c, false, s, 0)
	if first != 0.4 {
		t.Errorf("first visit chance = %v, want 0.4", first)
	}
	if again != 0.2 {
		t.Errorf("revisit chance = %v, want 0.2", again)
	}
}

func TestEffectiveChance_MonotoneInMoves(t *testing.T) {
	settings := []Settings{
		DefaultSettings(),
		{EncounterRate: 1.0, CooldownMoves: 5, PityStep: 0.25, PityMax: 2.0},
		{EncounterRate: 0.5, CooldownMoves: 0, PityStep: 0.05, PityMax: 0.5},
	}
	chances := []Chance{
		{Base: 0.1, RevisitMultiplier: 0.5},
		{Base: 0.6, RevisitMultiplier: 1.0},
		{Base: 0, RevisitMultiplier: 1.0},
	}
	for _, s := range settings {
		for _, c := range chances {
			for _, first := range []bool{true, false} {
				prev := -1.0
				for moves := 0; moves <= 50; moves++ {
					p := EffectiveChance(c, first, s, moves)
					if p < prev {
						t.Fatalf("chance dropped from %v to %v at move %d (settings %+v, chance %+v)", prev, p, moves, s, c)
					}
					if p < 0 || p > 1 {
						t.Fatalf("chance %v out of [0,1]", p)
					}
					if c.Base == 0 && p != 0 {
						t.Fatalf("zero base produced chance %v", p)
					}
					prev = p
				}
			}
		}
	}
}

func TestSettings_PityMultiplier(t *testing.T) {
	s := DefaultSettings()
	tests := []struct {
		moves int
		want  float64
	}{
		{-3, 0},
		{0, 0},
		{1, 0.5},
		{2, 1.0},
		{7, 1.5},
		{12, 2.0},
		{40, 2.0},
	}
	for _, tt := range tests {
		if got := s.PityMultiplier(tt.moves); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("PityMultiplier(%d) = %v, want %v", tt.moves, got, tt.want)
		}
	}
}

func TestSettings_Validate(t *testing.T) {
	if err := DefaultSettings().Validate(); err != nil {
		t.Errorf("DefaultSettings().Validate() error = %v", err)
	}
	bad := Settings{EncounterRate: -1, CooldownMoves: -1, PityStep: -1, PityMax: -1}
	err := bad.Validate()
	if err == nil {
		t.Fatal("Validate() should fail")
	}
	for _, field := range []string{"encounter_rate", "cooldown_moves", "pity_step", "pity_max"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("error %q missing %s", err, field)
		}
	}
}
