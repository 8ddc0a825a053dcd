// Package world generates and holds the overworld map: elevation from
// blended noise fields, biome classification, and point-of-interest overlays.
package world

import (
	"errors"
	"fmt"
	"math"

	"github.com/jwebster45206/overland/pkg/noise"
)

// Options tunes terrain generation. HillDensity and WaterLevel are 0-100
// sliders; 50 is neutral for WaterLevel.
type Options struct {
	MountainThreshold float64 `json:"mountain_threshold"`
	ForestThreshold   float64 `json:"forest_threshold"`
	HillDensity       float64 `json:"hill_density"`
	WaterLevel        float64 `json:"water_level"`
}

// DefaultOptions returns the documented generation defaults.
func DefaultOptions() Options {
	return Options{
		MountainThreshold: 0.6,
		ForestThreshold:   0.3,
		HillDensity:       50,
		WaterLevel:        50,
	}
}

// Validate reports every out-of-range option.
func (o Options) Validate() error {
	var errs []error
	if o.MountainThreshold <= 0.1 || o.MountainThreshold > 1 {
		errs = append(errs, fmt.Errorf("mountain_threshold %.3f must be in (0.1, 1]", o.MountainThreshold))
	}
	if o.ForestThreshold < 0 || o.ForestThreshold > 1 {
		errs = append(errs, fmt.Errorf("forest_threshold %.3f must be in [0, 1]", o.ForestThreshold))
	}
	if o.HillDensity < 0 || o.HillDensity > 100 {
		errs = append(errs, fmt.Errorf("hill_density %.1f must be in [0, 100]", o.HillDensity))
	}
	if o.WaterLevel < 0 || o.WaterLevel > 100 {
		errs = append(errs, fmt.Errorf("water_level %.1f must be in [0, 100]", o.WaterLevel))
	}
	return errors.Join(errs...)
}

// Layer parameters for the three blended fields.
var (
	continentParams = noise.Params{Octaves: 4, Persistence: 0.5, Scale: 0.05}
	hillParams      = noise.Params{Octaves: 3, Persistence: 0.5, Scale: 0.12}
	detailParams    = noise.Params{Octaves: 2, Persistence: 0.5, Scale: 0.25}
)

const (
	continentWeight = 0.8
	hillWeight      = 0.2
	reliefScale     = 0.3
	maxHillFactor   = 1.5
	reliefBoost     = 0.5

	ridgeBand  = 0.15
	ridgeBoost = 0.5

	maxSeaOffset = 0.3

	// Elevation is rank-equalized before classification, so a cut at c
	// leaves a (c+1)/2 share of the map below it: 25% deep water, 17.5%
	// shallows, 3.5% beach.
	deepWaterCut = -0.5
	waterCut     = -0.15
	beachCut     = -0.08

	// peakCore is how far into the mountain band the mountain POI starts.
	peakCore = 0.9
)

// Generate builds a map from the seed. The same arguments always yield an
// identical map. Every tile starts explored; fog-of-war is the caller's
// concern (see ConcealAll).
func Generate(width, height int, seed int64, opts Options) *WorldMap {
	continent := noise.Generate(width, height, seed, continentParams)
	hills := noise.Generate(width, height, seed+2, hillParams)
	detail := noise.Generate(width, height, seed+1, detailParams)

	cuts := newCutPoints(opts)
	hillFactor := opts.HillDensity / 100 * maxHillFactor

	blended := &noise.Field{Width: width, Height: height, Values: make([]float64, width*height)}
	for i := range blended.Values {
		blended.Values[i] = composite(continent.Values[i], hills.Values[i], detail.Values[i], hillFactor)
	}
	elevation := blended.Equalize()
	overlay := detail.Equalize()

	m := &WorldMap{
		Width:   width,
		Height:  height,
		Seed:    seed,
		Options: opts,
		Tiles:   make([][]WorldTile, height),
	}

	for y := 0; y < height; y++ {
		row := make([]WorldTile, width)
		for x := 0; x < width; x++ {
			e := ridge(elevation.At(x, y), cuts.plains)
			e = clamp(e, -1, 1)

			biome := cuts.classify(e)
			row[x] = WorldTile{
				X:          x,
				Y:          y,
				Height:     e,
				Elevation:  int(math.Round((e + 1) / 2 * 100)),
				Biome:      biome,
				POI:        cuts.poi(biome, e, (overlay.At(x, y)+1)/2, opts.ForestThreshold),
				IsExplored: true,
			}
		}
		m.Tiles[y] = row
	}

	placeTowns(m)
	return m
}

// composite blends continent and hills and adds relief, lifted further on land.
func composite(c, h, d, hillFactor float64) float64 {
	relief := (0.6*h + 0.4*d) * reliefScale * hillFactor
	e := continentWeight*c + hillWeight*h + relief
	if e > 0 {
		e += reliefBoost * math.Max(relief, 0)
	}
	return e
}

// ridge lifts elevation inside the band below the mountain threshold with a
// squared ramp, so peaks climb faster close to the threshold. Above the
// threshold the curve holds at the boosted edge until the elevation catches
// up, keeping it continuous and monotone.
func ridge(e, threshold float64) float64 {
	start := threshold - ridgeBand
	if e < start {
		return e
	}
	if e >= threshold {
		return math.Max(e, threshold+ridgeBoost*ridgeBand)
	}
	t := (e - start) / ridgeBand
	return e + ridgeBoost*ridgeBand*t*t
}

type cutPoints struct {
	deepWater float64
	water     float64
	beach     float64
	plains    float64
	peak      float64
}

// newCutPoints shifts every biome boundary by the sea-level offset.
func newCutPoints(opts Options) cutPoints {
	offset := (opts.WaterLevel - 50) / 50 * maxSeaOffset
	mt := opts.MountainThreshold + offset
	return cutPoints{
		deepWater: deepWaterCut + offset,
		water:     waterCut + offset,
		beach:     beachCut + offset,
		plains:    mt,
		peak:      mt + (1-opts.MountainThreshold)*peakCore,
	}
}

// classify maps an elevation to exactly one biome.
func (c cutPoints) classify(e float64) Biome {
	switch {
	case e < c.deepWater:
		return BiomeDeepWater
	case e < c.water:
		return BiomeWater
	case e < c.beach:
		return BiomeBeach
	case e < c.plains:
		return BiomePlains
	default:
		return BiomeMountain
	}
}

// poi picks an overlay from the equalized detail sample d01, uniform on
// [0, 1], so forest covers about ForestThreshold of the plains. Only the
// most extreme mountain cores become a placeable mountain POI.
func (c cutPoints) poi(b Biome, e, d01, forest float64) POI {
	switch b {
	case BiomeBeach:
		if d01 < forest*0.5 {
			return POIGrove
		}
	case BiomePlains:
		if d01 < forest {
			return POIForest
		}
		if d01 > 1-forest*0.12 {
			return POIRuins
		}
	case BiomeMountain:
		if e >= c.peak {
			return POIMountain
		}
		if d01 < forest*0.5 {
			return POICave
		}
	}
	return POINone
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
