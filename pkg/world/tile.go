package world

// Biome is the coarse terrain category of a tile, derived from elevation.
type Biome string

const (
	BiomeDeepWater Biome = "deep_water"
	BiomeWater     Biome = "water"
	BiomeBeach     Biome = "beach"
	BiomePlains    Biome = "plains"
	BiomeMountain  Biome = "mountain"
)

// Biomes lists every biome from lowest to highest elevation.
var Biomes = []Biome{BiomeDeepWater, BiomeWater, BiomeBeach, BiomePlains, BiomeMountain}

// IsWater reports whether the biome is open water.
func (b Biome) IsWater() bool {
	return b == BiomeDeepWater || b == BiomeWater
}

// POI is an optional overlay on a tile. It never changes the tile's biome.
type POI string

const (
	POINone     POI = ""
	POIForest   POI = "forest"
	POIGrove    POI = "grove"
	POIMountain POI = "mountain"
	POICave     POI = "cave"
	POIRuins    POI = "ruins"
	POITown     POI = "town"
)

// TownSize grades a settlement placed on a town tile.
type TownSize string

const (
	TownHamlet  TownSize = "hamlet"
	TownVillage TownSize = "village"
	TownTown    TownSize = "town"
	TownCity    TownSize = "city"
)

// WorldTile is one cell of the generated map.
//
// Height is the final composite elevation in [-1, 1] and drives
// classification. Elevation is the same value as a 0-100 percentage for
// display.
type WorldTile struct {
	X          int      `json:"x"`
	Y          int      `json:"y"`
	Height     float64  `json:"height"`
	Elevation  int      `json:"elevation"`
	Biome      Biome    `json:"biome"`
	POI        POI      `json:"poi,omitempty"`
	IsExplored bool     `json:"is_explored"`
	TownName   string   `json:"town_name,omitempty"`
	TownSize   TownSize `json:"town_size,omitempty"`
}

// HasPOI reports whether the tile carries an overlay.
func (t WorldTile) HasPOI() bool {
	return t.POI != POINone
}

// Point is a tile coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}
