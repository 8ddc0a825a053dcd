package encounter

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/jwebster45206/overland/pkg/world"
)

//go:embed tables.json
var defaultTablesJSON []byte

// Chance holds the probability scalars for one biome or POI bucket.
// Environmental applies to biome buckets only; the environmental roll is
// keyed on the tile's biome, so Tables.Validate rejects it on a POI.
type Chance struct {
	Base              float64 `json:"base"`
	RevisitMultiplier float64 `json:"revisit_multiplier"`
	Environmental     float64 `json:"environmental,omitempty"`
}

// Validate checks every scalar is a probability.
func (c Chance) Validate() error {
	var errs []error
	if c.Base < 0 || c.Base > 1 {
		errs = append(errs, fmt.Errorf("base %.2f must be between 0 and 1", c.Base))
	}
	if c.RevisitMultiplier < 0 || c.RevisitMultiplier > 1 {
		errs = append(errs, fmt.Errorf("revisit_multiplier %.2f must be between 0 and 1", c.RevisitMultiplier))
	}
	if c.Environmental < 0 || c.Environmental > 1 {
		errs = append(errs, fmt.Errorf("environmental %.2f must be between 0 and 1", c.Environmental))
	}
	return errors.Join(errs...)
}

// Tables is the read-only encounter configuration injected into a Resolver.
type Tables struct {
	Biomes        map[world.Biome]Table  `json:"biomes"`
	POIs          map[world.POI]Table    `json:"pois"`
	Environmental Table                  `json:"environmental"`
	BiomeChances  map[world.Biome]Chance `json:"biome_chances"`
	POIChances    map[world.POI]Chance   `json:"poi_chances"`
}

// Validate reports every configuration error in the tables.
func (t *Tables) Validate() error {
	if t == nil {
		return errors.New("encounter tables are nil")
	}
	var errs []error
	if len(t.Biomes) == 0 {
		errs = append(errs, errors.New("at least one biome table is required"))
	}
	for _, b := range sortedKeys(t.Biomes) {
		if err := t.Biomes[b].Validate(); err != nil {
			errs = append(errs, fmt.Errorf("biome %s: %w", b, err))
		}
		if _, ok := t.BiomeChances[b]; !ok {
			errs = append(errs, fmt.Errorf("biome %s: missing chance", b))
		}
	}
	for _, p := range sortedKeys(t.POIs) {
		if err := t.POIs[p].Validate(); err != nil {
			errs = append(errs, fmt.Errorf("poi %s: %w", p, err))
		}
		if _, ok := t.POIChances[p]; !ok {
			errs = append(errs, fmt.Errorf("poi %s: missing chance", p))
		}
	}
	needEnvironmental := false
	for _, b := range sortedKeys(t.BiomeChances) {
		c := t.BiomeChances[b]
		if err := c.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("biome chance %s: %w", b, err))
		}
		if c.Environmental > 0 {
			needEnvironmental = true
		}
	}
	for _, p := range sortedKeys(t.POIChances) {
		c := t.POIChances[p]
		if err := c.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("poi chance %s: %w", p, err))
		}
		if c.Environmental != 0 {
			errs = append(errs, fmt.Errorf("poi chance %s: environmental is only read from biome chances", p))
		}
	}
	if needEnvironmental || len(t.Environmental) > 0 {
		if err := t.Environmental.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("environmental: %w", err))
		}
	}
	return errors.Join(errs...)
}

// LoadTables decodes and validates tables from JSON. Unknown fields are
// rejected so a typo in a data file fails at startup.
func LoadTables(r io.Reader) (*Tables, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var t Tables
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("failed to decode encounter tables: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid encounter tables: %w", err)
	}
	return &t, nil
}

// DefaultTables returns a fresh copy of the built-in tables.
func DefaultTables() *Tables {
	t, err := LoadTables(bytes.NewReader(defaultTablesJSON))
	if err != nil {
		panic(fmt.Sprintf("embedded encounter tables: %v", err))
	}
	return t
}

func sortedKeys[K ~string, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
