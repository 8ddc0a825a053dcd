package world

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	tilesPerTown   = 120
	minTownSpacing = 5
)

var (
	townPrefixes = []string{
		"ash", "bram", "cold", "dun", "elder", "fair", "glen", "high",
		"iron", "kings", "long", "mill", "north", "oak", "raven", "stone",
		"thorn", "west", "wil", "wolf",
	}
	townSuffixes = []string{
		"bridge", "brook", "by", "dale", "ford", "gate", "ham", "haven",
		"hold", "mere", "moor", "stead", "ton", "vale", "wick", "wood",
	}
	townSizes = []struct {
		size   TownSize
		weight int
	}{
		{TownHamlet, 40},
		{TownVillage, 35},
		{TownTown, 20},
		{TownCity, 5},
	}
)

// placeTowns settles plains tiles that have no other overlay. It draws from
// its own generator derived from the map seed, never from the combat source.
func placeTowns(m *WorldMap) {
	rng := seededRNG(m.Seed, "towns")

	var candidates []Point
	for y := range m.Tiles {
		for x := range m.Tiles[y] {
			t := m.Tiles[y][x]
			if t.Biome == BiomePlains && !t.HasPOI() {
				candidates = append(candidates, Point{X: x, Y: y})
			}
		}
	}
	if len(candidates) == 0 {
		return
	}

	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	// A Caser is stateful, so each generation gets its own.
	caser := cases.Title(language.English)
	want := max(1, m.Width*m.Height/tilesPerTown)
	placed := make([]Point, 0, want)
	used := make(map[string]bool)

	for _, p := range candidates {
		if len(placed) == want {
			break
		}
		if tooClose(p, placed) {
			continue
		}
		t := &m.Tiles[p.Y][p.X]
		t.POI = POITown
		t.TownSize = pickTownSize(rng)
		t.TownName = townName(rng, caser, used)
		placed = append(placed, p)
	}
}

func tooClose(p Point, placed []Point) bool {
	for _, q := range placed {
		if max(abs(p.X-q.X), abs(p.Y-q.Y)) < minTownSpacing {
			return true
		}
	}
	return false
}

func pickTownSize(rng *rand.Rand) TownSize {
	total := 0
	for _, s := range townSizes {
		total += s.weight
	}
	roll := rng.IntN(total)
	for _, s := range townSizes {
		if roll < s.weight {
			return s.size
		}
		roll -= s.weight
	}
	return TownHamlet
}

func townName(rng *rand.Rand, caser cases.Caser, used map[string]bool) string {
	var name string
	for attempt := 0; attempt < 8; attempt++ {
		name = caser.String(townPrefixes[rng.IntN(len(townPrefixes))] + townSuffixes[rng.IntN(len(townSuffixes))])
		if !used[name] {
			break
		}
	}
	if used[name] {
		name = fmt.Sprintf("%s %d", name, len(used)+1)
	}
	used[name] = true
	return name
}

// seededRNG derives an independent PCG stream from the map seed and a salt.
func seededRNG(seed int64, salt string) *rand.Rand {
	// #nosec G404 -- deterministic world generation, not security sensitive.
	return rand.New(rand.NewPCG(seedWord(seed, salt+":a"), seedWord(seed, salt+":b")))
}

func seedWord(seed int64, salt string) uint64 {
	h := fnv.New64a()
	_, _ = fmt.Fprintf(h, "%d:%s", seed, salt)
	return h.Sum64()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
