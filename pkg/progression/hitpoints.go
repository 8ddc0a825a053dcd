package progression

import (
	"strings"

	"github.com/jwebster45206/overland/pkg/dice"
)

// HitPointModel derives maximum hit points from a character's class,
// Constitution score, and level.
type HitPointModel interface {
	MaxHP(class string, constitution, level int) int
}

// DefaultHitDie is used for classes missing from ClassHitDice.
const DefaultHitDie = 8

var classHitDice = map[string]int{
	"barbarian": 12,
	"fighter":   10,
	"paladin":   10,
	"ranger":    10,
	"bard":      8,
	"cleric":    8,
	"druid":     8,
	"monk":      8,
	"rogue":     8,
	"warlock":   8,
	"sorcerer":  6,
	"wizard":    6,
}

// HitDie returns the hit die size for a class name, case-insensitively.
func HitDie(class string) int {
	if d, ok := classHitDice[strings.ToLower(strings.TrimSpace(class))]; ok {
		return d
	}
	return DefaultHitDie
}

// ClassHitDice is the canonical model: the full hit die plus the
// Constitution modifier at level 1, then the fixed average (die/2 + 1) plus
// the modifier for every later level. Each level adds at least 1.
type ClassHitDice struct{}

var _ HitPointModel = ClassHitDice{}

// MaxHP implements HitPointModel.
func (ClassHitDice) MaxHP(class string, constitution, level int) int {
	level = min(max(level, 1), MaxLevel)
	die := HitDie(class)
	mod := dice.AbilityModifier(constitution)

	hp := max(die+mod, 1)
	perLevel := max(die/2+1+mod, 1)
	hp += perLevel * (level - 1)
	return hp
}
