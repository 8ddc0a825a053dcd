package world

import (
	"math"
	"reflect"
	"sort"
	"testing"
)

func scenarioOptions() Options {
	return Options{MountainThreshold: 0.8, ForestThreshold: 0.3, HillDensity: 50, WaterLevel: 50}
}

func TestGenerate_Deterministic(t *testing.T) {
	a := Generate(10, 10, 42, scenarioOptions())
	b := Generate(10, 10, 42, scenarioOptions())

	if !reflect.DeepEqual(a, b) {
		t.Fatal("expected identical maps for identical arguments")
	}
	if a.Tiles[0][0].Biome != b.Tiles[0][0].Biome {
		t.Errorf("tile (0,0) biome unstable: %s vs %s", a.Tiles[0][0].Biome, b.Tiles[0][0].Biome)
	}
	if a.Tiles[9][9].Biome != b.Tiles[9][9].Biome {
		t.Errorf("tile (9,9) biome unstable: %s vs %s", a.Tiles[9][9].Biome, b.Tiles[9][9].Biome)
	}
	for y := range a.Tiles {
		for x := range a.Tiles[y] {
			if math.Float64bits(a.Tiles[y][x].Height) != math.Float64bits(b.Tiles[y][x].Height) {
				t.Fatalf("height at (%d,%d) differs", x, y)
			}
		}
	}
}

func TestGenerate_Dimensions(t *testing.T) {
	m := Generate(17, 9, 3, DefaultOptions())
	if m.Width != 17 || m.Height != 9 || m.Seed != 3 {
		t.Fatalf("unexpected header: %dx%d seed %d", m.Width, m.Height, m.Seed)
	}
	if len(m.Tiles) != 9 {
		t.Fatalf("expected 9 rows, got %d", len(m.Tiles))
	}
	for y, row := range m.Tiles {
		if len(row) != 17 {
			t.Fatalf("row %d has %d tiles, want 17", y, len(row))
		}
		for x, tile := range row {
			if tile.X != x || tile.Y != y {
				t.Errorf("tile at [%d][%d] reports (%d,%d)", y, x, tile.X, tile.Y)
			}
		}
	}
}

func TestGenerate_BiomePartition(t *testing.T) {
	m := Generate(64, 64, 1234, DefaultOptions())

	rank := make(map[Biome]int)
	for i, b := range Biomes {
		rank[b] = i
	}

	var tiles []WorldTile
	for _, row := range m.Tiles {
		for _, tile := range row {
			if _, ok := rank[tile.Biome]; !ok {
				t.Fatalf("tile (%d,%d) has unknown biome %q", tile.X, tile.Y, tile.Biome)
			}
			tiles = append(tiles, tile)
		}
	}

	sort.Slice(tiles, func(i, j int) bool { return tiles[i].Height < tiles[j].Height })
	for i := 1; i < len(tiles); i++ {
		if rank[tiles[i].Biome] < rank[tiles[i-1].Biome] {
			t.Fatalf("biome order violated: %s at %.4f after %s at %.4f",
				tiles[i].Biome, tiles[i].Height, tiles[i-1].Biome, tiles[i-1].Height)
		}
	}
}

func TestGenerate_AllTilesExplored(t *testing.T) {
	m := Generate(12, 12, 9, DefaultOptions())
	if got := m.ExploredCount(); got != 144 {
		t.Errorf("expected all 144 tiles explored, got %d", got)
	}
}

func TestGenerate_HeightAndElevationRange(t *testing.T) {
	m := Generate(48, 48, 77, Options{MountainThreshold: 0.5, ForestThreshold: 0.5, HillDensity: 100, WaterLevel: 20})
	for _, row := range m.Tiles {
		for _, tile := range row {
			if tile.Height < -1 || tile.Height > 1 {
				t.Fatalf("height %v out of range at (%d,%d)", tile.Height, tile.X, tile.Y)
			}
			if tile.Elevation < 0 || tile.Elevation > 100 {
				t.Fatalf("elevation %d out of range at (%d,%d)", tile.Elevation, tile.X, tile.Y)
			}
		}
	}
}

func TestGenerate_POIMatchesBiome(t *testing.T) {
	allowed := map[POI][]Biome{
		POIGrove:    {BiomeBeach},
		POIForest:   {BiomePlains},
		POIRuins:    {BiomePlains},
		POITown:     {BiomePlains},
		POIMountain: {BiomeMountain},
		POICave:     {BiomeMountain},
	}

	for _, seed := range []int64{1, 2, 3, 42} {
		m := Generate(48, 48, seed, Options{MountainThreshold: 0.4, ForestThreshold: 0.6, HillDensity: 80, WaterLevel: 50})
		for _, row := range m.Tiles {
			for _, tile := range row {
				if !tile.HasPOI() {
					continue
				}
				ok := false
				for _, b := range allowed[tile.POI] {
					if tile.Biome == b {
						ok = true
					}
				}
				if !ok {
					t.Errorf("seed %d: POI %s on biome %s at (%d,%d)", seed, tile.POI, tile.Biome, tile.X, tile.Y)
				}
			}
		}
	}
}

func TestGenerate_WaterLevelShiftsSea(t *testing.T) {
	water := func(m *WorldMap) int {
		c := m.BiomeCounts()
		return c[BiomeDeepWater] + c[BiomeWater]
	}

	low := Generate(40, 40, 5, Options{MountainThreshold: 0.6, ForestThreshold: 0.3, HillDensity: 50, WaterLevel: 0})
	mid := Generate(40, 40, 5, DefaultOptions())
	high := Generate(40, 40, 5, Options{MountainThreshold: 0.6, ForestThreshold: 0.3, HillDensity: 50, WaterLevel: 100})

	if !(water(low) <= water(mid) && water(mid) <= water(high)) {
		t.Errorf("expected water tiles to grow with water level: low=%d mid=%d high=%d", water(low), water(mid), water(high))
	}
	if water(low) == water(high) {
		t.Error("expected water level to change the sea extent")
	}
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"defaults", DefaultOptions(), false},
		{"scenario", scenarioOptions(), false},
		{"mountain too low", Options{MountainThreshold: 0.05, ForestThreshold: 0.3, HillDensity: 50, WaterLevel: 50}, true},
		{"mountain too high", Options{MountainThreshold: 1.5, ForestThreshold: 0.3, HillDensity: 50, WaterLevel: 50}, true},
		{"negative forest", Options{MountainThreshold: 0.6, ForestThreshold: -0.1, HillDensity: 50, WaterLevel: 50}, true},
		{"hill density over 100", Options{MountainThreshold: 0.6, ForestThreshold: 0.3, HillDensity: 101, WaterLevel: 50}, true},
		{"water level negative", Options{MountainThreshold: 0.6, ForestThreshold: 0.3, HillDensity: 50, WaterLevel: -1}, true},
		{"edges", Options{MountainThreshold: 1, ForestThreshold: 0, HillDensity: 0, WaterLevel: 100}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCutPoints_Classify(t *testing.T) {
	cuts := newCutPoints(DefaultOptions())

	tests := []struct {
		e    float64
		want Biome
	}{
		{-0.9, BiomeDeepWater},
		{-0.5, BiomeWater},
		{-0.16, BiomeWater},
		{-0.15, BiomeBeach},
		{-0.09, BiomeBeach},
		{-0.08, BiomePlains},
		{0.59, BiomePlains},
		{0.6, BiomeMountain},
		{1.0, BiomeMountain},
	}

	for _, tt := range tests {
		if got := cuts.classify(tt.e); got != tt.want {
			t.Errorf("classify(%v) = %s, want %s", tt.e, got, tt.want)
		}
	}
}

func TestCutPoints_SeaOffset(t *testing.T) {
	flooded := newCutPoints(Options{MountainThreshold: 0.6, WaterLevel: 100})
	if got := flooded.classify(0.1); got != BiomeWater {
		t.Errorf("water level 100: classify(0.1) = %s, want water", got)
	}

	drained := newCutPoints(Options{MountainThreshold: 0.6, WaterLevel: 0})
	if got := drained.classify(-0.1); got != BiomePlains {
		t.Errorf("water level 0: classify(-0.1) = %s, want plains", got)
	}
}

func TestRidge(t *testing.T) {
	const mt = 0.6

	if got := ridge(0.2, mt); got != 0.2 {
		t.Errorf("below band: ridge(0.2) = %v, want unchanged", got)
	}

	// Convex: the boost grows faster near the threshold.
	lowBoost := ridge(0.48, mt) - 0.48
	highBoost := ridge(0.58, mt) - 0.58
	if !(highBoost > lowBoost && lowBoost > 0) {
		t.Errorf("expected growing boost, got low=%v high=%v", lowBoost, highBoost)
	}

	if got := ridge(0.6, mt); math.Abs(got-0.675) > 1e-9 {
		t.Errorf("at threshold: ridge(0.6) = %v, want the boosted edge 0.675", got)
	}
	if got := ridge(0.9, mt); got != 0.9 {
		t.Errorf("high peak: ridge(0.9) = %v, want unchanged", got)
	}

	// Monotone and continuous across the threshold.
	prev := ridge(0.3, mt)
	for e := 0.3; e <= 1.0; e += 0.001 {
		cur := ridge(e, mt)
		if cur < prev {
			t.Fatalf("ridge not monotone at %v: %v < %v", e, cur, prev)
		}
		prev = cur
	}
}

func TestCutPoints_POI(t *testing.T) {
	cuts := newCutPoints(DefaultOptions())
	const ft = 0.3

	tests := []struct {
		name  string
		biome Biome
		e     float64
		d01   float64
		want  POI
	}{
		{"grove on low beach detail", BiomeBeach, -0.1, 0.1, POIGrove},
		{"bare beach", BiomeBeach, -0.1, 0.2, POINone},
		{"forest", BiomePlains, 0.2, 0.1, POIForest},
		{"open plains", BiomePlains, 0.2, 0.5, POINone},
		{"ruins", BiomePlains, 0.2, 0.97, POIRuins},
		{"peak core", BiomeMountain, 0.97, 0.5, POIMountain},
		{"cave", BiomeMountain, 0.7, 0.1, POICave},
		{"bare mountain", BiomeMountain, 0.7, 0.5, POINone},
		{"water never", BiomeWater, -0.3, 0.01, POINone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cuts.poi(tt.biome, tt.e, tt.d01, ft); got != tt.want {
				t.Errorf("poi(%s, %v, %v) = %q, want %q", tt.biome, tt.e, tt.d01, got, tt.want)
			}
		})
	}
}

var coverageSeeds = []int64{1, 2, 3, 4, 5}

func TestGenerate_BiomeShares(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want map[Biome]float64
	}{
		{
			name: "defaults",
			opts: DefaultOptions(),
			want: map[Biome]float64{
				BiomeDeepWater: 0.25,
				BiomeWater:     0.175,
				BiomeBeach:     0.035,
				BiomePlains:    0.32,
				BiomeMountain:  0.22,
			},
		},
		{
			name: "high mountain threshold",
			opts: scenarioOptions(),
			want: map[Biome]float64{
				BiomeDeepWater: 0.25,
				BiomeWater:     0.175,
				BiomeBeach:     0.035,
				BiomePlains:    0.42,
				BiomeMountain:  0.12,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, seed := range coverageSeeds {
				m := Generate(64, 64, seed, tt.opts)
				counts := m.BiomeCounts()
				for _, b := range Biomes {
					share := float64(counts[b]) / (64 * 64)
					if math.Abs(share-tt.want[b]) > 0.01 {
						t.Errorf("seed %d: %s share = %.3f, want about %.3f", seed, b, share, tt.want[b])
					}
				}
			}
		})
	}
}

func TestGenerate_EveryPOIAppears(t *testing.T) {
	kinds := []POI{POIForest, POIGrove, POIMountain, POICave, POIRuins, POITown}

	for _, opts := range []Options{DefaultOptions(), scenarioOptions()} {
		counts := make(map[POI]int)
		for _, seed := range coverageSeeds {
			m := Generate(64, 64, seed, opts)
			for _, row := range m.Tiles {
				for _, tile := range row {
					counts[tile.POI]++
				}
			}
		}
		for _, k := range kinds {
			if counts[k] < len(coverageSeeds) {
				t.Errorf("mountain_threshold %.1f: %s appeared %d times over %d maps",
					opts.MountainThreshold, k, counts[k], len(coverageSeeds))
			}
		}
	}
}

func TestGenerate_ForestDensityFollowsThreshold(t *testing.T) {
	for _, ft := range []float64{0.1, 0.3, 0.6} {
		opts := DefaultOptions()
		opts.ForestThreshold = ft

		var plains, forest int
		for _, seed := range coverageSeeds {
			m := Generate(64, 64, seed, opts)
			for _, row := range m.Tiles {
				for _, tile := range row {
					if tile.Biome != BiomePlains {
						continue
					}
					plains++
					if tile.POI == POIForest {
						forest++
					}
				}
			}
		}
		share := float64(forest) / float64(plains)
		if math.Abs(share-ft) > 0.1 {
			t.Errorf("forest_threshold %.1f: forest covers %.3f of plains", ft, share)
		}
	}
}
