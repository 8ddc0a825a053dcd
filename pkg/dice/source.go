package dice

import "math/rand/v2"

// Source is the randomness a Roller draws from. *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
	Float64() float64
}

type ambientSource struct{}

func (ambientSource) IntN(n int) int   { return rand.IntN(n) }
func (ambientSource) Float64() float64 { return rand.Float64() }

// Ambient returns the process-wide, unseeded source used for combat and
// encounter rolls. Terrain generation never draws from it.
func Ambient() Source {
	return ambientSource{}
}

// NewSeededSource returns a reproducible source, for tests and replays.
func NewSeededSource(seed uint64) *rand.Rand {
	// #nosec G404 -- game dice, not security sensitive.
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
