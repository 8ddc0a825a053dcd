package world

// WorldMap is the generated grid for one session. Width, Height, Seed and
// Options never change after generation; tiles are only mutated through the
// methods below.
type WorldMap struct {
	Width   int           `json:"width"`
	Height  int           `json:"height"`
	Seed    int64         `json:"seed"`
	Options Options       `json:"options"`
	Tiles   [][]WorldTile `json:"tiles"` // indexed [y][x]
}

// InBounds reports whether (x, y) lies on the map.
func (m *WorldMap) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.Width && y < m.Height
}

// Tile returns a copy of the tile at (x, y).
func (m *WorldMap) Tile(x, y int) (WorldTile, bool) {
	if !m.InBounds(x, y) {
		return WorldTile{}, false
	}
	return m.Tiles[y][x], true
}

// MarkExplored flips IsExplored on the tile at (x, y) and reports whether
// this call was the first visit. Exploration never reverts.
func (m *WorldMap) MarkExplored(x, y int) bool {
	if !m.InBounds(x, y) {
		return false
	}
	t := &m.Tiles[y][x]
	if t.IsExplored {
		return false
	}
	t.IsExplored = true
	return true
}

// ConcealAll hides every tile. Generation marks the whole map explored, so a
// session that wants fog-of-war calls this once, before the first move.
func (m *WorldMap) ConcealAll() {
	for y := range m.Tiles {
		for x := range m.Tiles[y] {
			m.Tiles[y][x].IsExplored = false
		}
	}
}

// SetPOI replaces the overlay on a tile, e.g. when a cave is cleared out.
// Town overlays keep their name and size only while the POI stays a town.
func (m *WorldMap) SetPOI(x, y int, poi POI) bool {
	if !m.InBounds(x, y) {
		return false
	}
	t := &m.Tiles[y][x]
	t.POI = poi
	if poi != POITown {
		t.TownName = ""
		t.TownSize = ""
	}
	return true
}

// ExploredCount returns the number of explored tiles.
func (m *WorldMap) ExploredCount() int {
	n := 0
	for y := range m.Tiles {
		for x := range m.Tiles[y] {
			if m.Tiles[y][x].IsExplored {
				n++
			}
		}
	}
	return n
}

// BiomeCounts tallies tiles per biome.
func (m *WorldMap) BiomeCounts() map[Biome]int {
	counts := make(map[Biome]int)
	for y := range m.Tiles {
		for x := range m.Tiles[y] {
			counts[m.Tiles[y][x].Biome]++
		}
	}
	return counts
}

// Towns returns every town tile in row-major order.
func (m *WorldMap) Towns() []WorldTile {
	var towns []WorldTile
	for y := range m.Tiles {
		for x := range m.Tiles[y] {
			if m.Tiles[y][x].POI == POITown {
				towns = append(towns, m.Tiles[y][x])
			}
		}
	}
	return towns
}

// Passable reports whether a party can stand on the tile at (x, y).
func (m *WorldMap) Passable(x, y int) bool {
	t, ok := m.Tile(x, y)
	return ok && t.Biome != BiomeDeepWater
}

// Neighbors returns the in-bounds orthogonal neighbours of p, in
// north, east, south, west order.
func (m *WorldMap) Neighbors(p Point) []Point {
	var out []Point
	for _, d := range []Point{{0, -1}, {1, 0}, {0, 1}, {-1, 0}} {
		n := Point{X: p.X + d.X, Y: p.Y + d.Y}
		if m.InBounds(n.X, n.Y) {
			out = append(out, n)
		}
	}
	return out
}
