// Package noise builds reproducible 2-D height fields from layered simplex noise.
package noise

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Params controls how octaves are layered into a field.
type Params struct {
	Octaves     int     `json:"octaves"`
	Persistence float64 `json:"persistence"`
	Scale       float64 `json:"scale"`
}

// Field is a width x height grid of samples in roughly [-1, 1], stored row-major.
type Field struct {
	Width  int
	Height int
	Values []float64
}

// At returns the sample at (x, y). Callers must stay in bounds.
func (f *Field) At(x, y int) float64 {
	return f.Values[y*f.Width+x]
}

// Equalize returns a copy of f with every sample replaced by its rank,
// spread evenly over [-1, 1]. Equal samples keep row-major order, so the
// result is as deterministic as f. A threshold t on the result selects a
// (t+1)/2 share of the field whatever the shape of the original samples.
func (f *Field) Equalize() *Field {
	n := len(f.Values)
	out := &Field{Width: f.Width, Height: f.Height, Values: make([]float64, n)}
	if n < 2 {
		return out
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(f.Values[a], f.Values[b])
	})
	for rank, i := range order {
		out.Values[i] = 2*float64(rank)/float64(n-1) - 1
	}
	return out
}

// Generate samples a field for the given seed. Octave k is sampled at
// frequency scale*2^k with amplitude persistence^k, and each point is the
// amplitude-weighted sum divided by the total amplitude.
//
// Identical arguments always produce an identical field. Non-positive
// dimensions are a caller bug and panic, as does a NaN sample.
func Generate(width, height int, seed int64, p Params) *Field {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("noise: invalid field dimensions %dx%d", width, height))
	}

	src := opensimplex.New(seed)
	f := &Field{
		Width:  width,
		Height: height,
		Values: make([]float64, width*height),
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := sample(src, float64(x), float64(y), p)
			if math.IsNaN(v) {
				panic(fmt.Sprintf("noise: NaN sample at (%d,%d) seed=%d params=%+v", x, y, seed, p))
			}
			f.Values[y*width+x] = v
		}
	}
	return f
}

func sample(src opensimplex.Noise, x, y float64, p Params) float64 {
	total := 0.0
	maxAmp := 0.0
	amplitude := 1.0
	frequency := p.Scale

	for i := 0; i < p.Octaves; i++ {
		total += src.Eval2(x*frequency, y*frequency) * amplitude
		maxAmp += amplitude
		amplitude *= p.Persistence
		frequency *= 2
	}

	if maxAmp == 0 {
		return 0
	}
	return total / maxAmp
}
