package progression

import (
	"math"

	"github.com/jwebster45206/overland/pkg/dice"
)

// Difficulty is an encounter's challenge tier.
type Difficulty string

const (
	DifficultyTrivial Difficulty = "trivial"
	DifficultyEasy    Difficulty = "easy"
	DifficultyMedium  Difficulty = "medium"
	DifficultyHard    Difficulty = "hard"
	DifficultyDeadly  Difficulty = "deadly"
)

type difficultyRules struct {
	baseXP     int
	damageMult float64
	dc         int
}

var difficulties = map[Difficulty]difficultyRules{
	DifficultyTrivial: {baseXP: 10, damageMult: 0.5, dc: 8},
	DifficultyEasy:    {baseXP: 25, damageMult: 0.5, dc: 10},
	DifficultyMedium:  {baseXP: 50, damageMult: 1.0, dc: 13},
	DifficultyHard:    {baseXP: 100, damageMult: 1.25, dc: 15},
	DifficultyDeadly:  {baseXP: 200, damageMult: 1.5, dc: 18},
}

// Valid reports whether d is a known tier. The empty tier is treated as medium.
func (d Difficulty) Valid() bool {
	if d == "" {
		return true
	}
	_, ok := difficulties[d]
	return ok
}

func (d Difficulty) rules() difficultyRules {
	if r, ok := difficulties[d]; ok {
		return r
	}
	return difficulties[DifficultyMedium]
}

// DC returns the check difficulty class for the tier.
func (d Difficulty) DC() int {
	return d.rules().dc
}

var outcomeXPMultipliers = map[dice.Outcome]float64{
	dice.OutcomeCriticalSuccess: 1.5,
	dice.OutcomeSuccess:         1.0,
	dice.OutcomeFailure:         0.5,
	dice.OutcomeCriticalFailure: 0.25,
}

var outcomeDamageFractions = map[dice.Outcome]float64{
	dice.OutcomeCriticalFailure: 0.40,
	dice.OutcomeFailure:         0.15,
	dice.OutcomeSuccess:         0.05,
	dice.OutcomeCriticalSuccess: 0,
}

const (
	minLevelScale     = 0.25
	levelScaleDropoff = 0.05
	damageVariance    = 0.2
)

// LevelScale dampens rewards for experienced characters, never below 0.25.
func LevelScale(level int) float64 {
	return math.Max(minLevelScale, 1-float64(max(level, 1)-1)*levelScaleDropoff)
}

// EncounterXP returns the XP earned for an encounter outcome.
func EncounterXP(difficulty Difficulty, outcome dice.Outcome, level int) int {
	base := float64(difficulty.rules().baseXP)
	return int(math.Round(base * outcomeXPMultipliers[outcome] * LevelScale(level)))
}

// Damage returns the hit points lost for an outcome: a fraction of maxHP by
// outcome tier, scaled by difficulty, with ±20% uniform variance. Never
// negative.
func Damage(outcome dice.Outcome, maxHP int, difficulty Difficulty, src dice.Source) int {
	if src == nil {
		src = dice.Ambient()
	}
	fraction := outcomeDamageFractions[outcome]
	variance := 1 - damageVariance + src.Float64()*2*damageVariance
	dmg := math.Round(float64(maxHP) * fraction * difficulty.rules().damageMult * variance)
	return max(int(dmg), 0)
}
