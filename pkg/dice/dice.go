// Package dice implements dice rolls, d20 ability checks, and the ability
// score arithmetic used by encounters and progression.
package dice

import (
	"errors"
	"fmt"
)

// ErrInvalidDiceSpec indicates a die specification has non-positive fields.
var ErrInvalidDiceSpec = errors.New("dice must have positive sides and count")

// Roll captures the individual results and their sum.
type Roll struct {
	Total   int   `json:"total"`
	Results []int `json:"results"`
}

// Check is the result of a d20 ability check.
type Check struct {
	Total             int   `json:"total"`
	NaturalRoll       int   `json:"natural_roll"`
	Modifier          int   `json:"modifier"`
	Rolls             []int `json:"rolls"`
	IsCriticalSuccess bool  `json:"is_critical_success"`
	IsCriticalFailure bool  `json:"is_critical_failure"`
}

// Roller rolls dice from a Source.
type Roller struct {
	src Source
}

// NewRoller returns a Roller over src. A nil src uses the ambient source.
func NewRoller(src Source) *Roller {
	if src == nil {
		src = Ambient()
	}
	return &Roller{src: src}
}

// Source returns the roller's randomness, for callers that need floats.
func (r *Roller) Source() Source {
	return r.src
}

// ValidateSpec checks a count/sides pair at setup time.
func ValidateSpec(count, sides int) error {
	if count <= 0 || sides <= 0 {
		return fmt.Errorf("%dd%d: %w", count, sides, ErrInvalidDiceSpec)
	}
	return nil
}

// RollDie returns a uniform value in [1, sides]. sides must be positive.
func (r *Roller) RollDie(sides int) int {
	return r.src.IntN(sides) + 1
}

// RollDice sums count independent rolls of a die with the given sides.
func (r *Roller) RollDice(count, sides int) Roll {
	results := make([]int, count)
	total := 0
	for i := 0; i < count; i++ {
		results[i] = r.RollDie(sides)
		total += results[i]
	}
	return Roll{Total: total, Results: results}
}

// RollCheck rolls a d20 check. Two dice are always drawn. With advantage
// XOR disadvantage the higher or lower die is kept; with both or neither the
// first die counts. Criticals depend on the natural roll only.
func (r *Roller) RollCheck(modifier int, advantage, disadvantage bool) Check {
	first := r.RollDie(20)
	second := r.RollDie(20)

	natural := first
	switch {
	case advantage && !disadvantage:
		natural = max(first, second)
	case disadvantage && !advantage:
		natural = min(first, second)
	}

	return Check{
		Total:             natural + modifier,
		NaturalRoll:       natural,
		Modifier:          modifier,
		Rolls:             []int{first, second},
		IsCriticalSuccess: natural == 20,
		IsCriticalFailure: natural == 1,
	}
}

var ambientRoller = NewRoller(nil)

// RollDie rolls one die from the ambient source.
func RollDie(sides int) int {
	return ambientRoller.RollDie(sides)
}

// RollDice rolls count dice from the ambient source.
func RollDice(count, sides int) Roll {
	return ambientRoller.RollDice(count, sides)
}

// RollCheck rolls a d20 check from the ambient source.
func RollCheck(modifier int, advantage, disadvantage bool) Check {
	return ambientRoller.RollCheck(modifier, advantage, disadvantage)
}
