package actor

import (
	"encoding/json"
	"fmt"

	"github.com/jwebster45206/d20"
	"github.com/jwebster45206/overland/pkg/dice"
	"github.com/jwebster45206/overland/pkg/progression"
)

const defaultAC = 10

// Hero is the mechanical state of one party member: hit points, experience,
// level, gold, and inventory. Hit points always stay within [0, MaxHP] and
// Level always matches progression.CalculateLevel(XP).
type Hero struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Class      string   `json:"class"`
	Stats      Stats5e  `json:"stats"`
	AC         int      `json:"ac"`
	CurrentHP  int      `json:"current_hp"`
	MaxHP      int      `json:"max_hp"`
	XP         int      `json:"xp"`
	Level      int      `json:"level"`
	Gold       int      `json:"gold"`
	Inventory  []string `json:"inventory"`
	IsDefeated bool     `json:"is_defeated"`
	ASIPoints  int      `json:"asi_points,omitempty"`

	sheet *d20.Actor // ability scores and AC, rebuilt from the fields above
}

// LevelUp describes the effect of an XP award.
type LevelUp struct {
	OldLevel  int `json:"old_level"`
	NewLevel  int `json:"new_level"`
	OldMaxHP  int `json:"old_max_hp"`
	NewMaxHP  int `json:"new_max_hp"`
	ASIGained int `json:"asi_gained,omitempty"`
}

// Leveled reports whether the award raised the level.
func (l LevelUp) Leveled() bool {
	return l.NewLevel > l.OldLevel
}

// NewHero creates level-1 mechanical state from a character definition.
// Starting hit points come from the same model used for level-ups.
func NewHero(c Character, model progression.HitPointModel) (*Hero, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid character %q: %w", c.ID, err)
	}
	if model == nil {
		model = progression.ClassHitDice{}
	}

	ac := c.AC
	if ac == 0 {
		ac = defaultAC
	}

	h := &Hero{
		ID:        c.ID,
		Name:      c.Name,
		Class:     NormalizeClass(c.Class),
		Stats:     c.Stats,
		AC:        ac,
		Level:     1,
		Gold:      c.Gold,
		Inventory: append([]string{}, c.Inventory...),
	}
	h.MaxHP = model.MaxHP(h.Class, h.Stats.Constitution, h.Level)
	h.CurrentHP = h.MaxHP

	if err := h.buildSheet(); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *Hero) buildSheet() error {
	sheet, err := d20.NewActor(h.ID).
		WithHP(max(h.MaxHP, 1)).
		WithAC(h.AC).
		WithAttributes(h.Stats.ToAttributes()).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build actor: %w", err)
	}
	h.sheet = sheet
	return nil
}

// Sheet returns the d20 actor carrying the hero's ability scores and AC.
// Hit points are tracked on the Hero, not the sheet.
func (h *Hero) Sheet() *d20.Actor {
	return h.sheet
}

// AbilityScore returns a core ability score by lowercase name.
func (h *Hero) AbilityScore(name string) int {
	if h.sheet != nil {
		if v, ok := h.sheet.Attribute(name); ok {
			return v
		}
	}
	return h.Stats.ToAttributes()[name]
}

// CheckModifier is the bonus the hero adds to encounter checks: the class's
// primary ability modifier plus proficiency.
func (h *Hero) CheckModifier() int {
	return dice.AbilityModifier(h.AbilityScore(PrimaryAbility(h.Class))) + dice.ProficiencyBonus(h.Level)
}

// ApplyDamage lowers hit points, never below 0, and returns the amount
// actually lost. Non-positive damage is ignored.
func (h *Hero) ApplyDamage(n int) int {
	if n <= 0 {
		return 0
	}
	before := h.CurrentHP
	h.CurrentHP = max(h.CurrentHP-n, 0)
	h.IsDefeated = h.CurrentHP == 0
	return before - h.CurrentHP
}

// ApplyHealing raises hit points, never above MaxHP, and returns the amount
// actually restored. Any positive heal clears the defeated flag.
func (h *Hero) ApplyHealing(n int) int {
	if n <= 0 {
		return 0
	}
	before := h.CurrentHP
	h.CurrentHP = min(h.CurrentHP+n, h.MaxHP)
	h.IsDefeated = h.CurrentHP == 0
	return h.CurrentHP - before
}

// HealToFull restores every hit point.
func (h *Hero) HealToFull() {
	h.CurrentHP = h.MaxHP
	h.IsDefeated = h.MaxHP == 0
}

// AwardXP adds experience and recomputes the level. A level increase
// recomputes MaxHP from the hit-point model and heals the hero to full.
// Negative awards are ignored, so the level never drops.
func (h *Hero) AwardXP(gained int, model progression.HitPointModel) LevelUp {
	if model == nil {
		model = progression.ClassHitDice{}
	}
	result := LevelUp{
		OldLevel: h.Level,
		NewLevel: h.Level,
		OldMaxHP: h.MaxHP,
		NewMaxHP: h.MaxHP,
	}
	if gained <= 0 {
		return result
	}

	h.XP += gained
	newLevel := progression.CalculateLevel(h.XP)
	if newLevel <= h.Level {
		return result
	}

	result.ASIGained = progression.ASIsBetween(h.Level, newLevel)
	h.ASIPoints += result.ASIGained
	h.Level = newLevel
	h.MaxHP = model.MaxHP(h.Class, h.AbilityScore("constitution"), h.Level)
	h.HealToFull()
	if h.sheet != nil {
		_ = h.buildSheet()
	}

	result.NewLevel = h.Level
	result.NewMaxHP = h.MaxHP
	return result
}

// AddGold adjusts the purse, never below zero.
func (h *Hero) AddGold(n int) {
	h.Gold = max(h.Gold+n, 0)
}

// UnmarshalJSON restores a hero and rebuilds its d20 sheet.
func (h *Hero) UnmarshalJSON(data []byte) error {
	type heroJSON Hero
	var raw heroJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to unmarshal hero: %w", err)
	}
	*h = Hero(raw)
	if h.AC == 0 {
		h.AC = defaultAC
	}
	return h.buildSheet()
}
