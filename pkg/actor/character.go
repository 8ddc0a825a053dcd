package actor

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Stats5e represents the six core D&D 5e ability scores
type Stats5e struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Constitution int `json:"constitution"`
	Intelligence int `json:"intelligence"`
	Wisdom       int `json:"wisdom"`
	Charisma     int `json:"charisma"`
}

// ToAttributes converts Stats5e to a map for d20.Actor compatibility
func (s *Stats5e) ToAttributes() map[string]int {
	return map[string]int{
		"strength":     s.Strength,
		"dexterity":    s.Dexterity,
		"constitution": s.Constitution,
		"intelligence": s.Intelligence,
		"wisdom":       s.Wisdom,
		"charisma":     s.Charisma,
	}
}

// Character is the serializable definition a hero is created from at party
// selection. It carries no mechanical progress.
type Character struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Class       string   `json:"class"`
	Race        string   `json:"race,omitempty"`
	Pronouns    string   `json:"pronouns,omitempty"`
	Description string   `json:"description,omitempty"`
	Stats       Stats5e  `json:"stats"`
	AC          int      `json:"ac,omitempty"`
	Gold        int      `json:"gold,omitempty"`
	Inventory   []string `json:"inventory,omitempty"`
}

// Validate reports every problem with the definition.
func (c *Character) Validate() error {
	var errs []error
	if strings.TrimSpace(c.ID) == "" {
		errs = append(errs, errors.New("id is required"))
	}
	if strings.TrimSpace(c.Class) == "" {
		errs = append(errs, errors.New("class is required"))
	}
	for name, score := range c.Stats.ToAttributes() {
		if score < 1 || score > 30 {
			errs = append(errs, fmt.Errorf("%s %d must be between 1 and 30", name, score))
		}
	}
	if c.AC < 0 {
		errs = append(errs, fmt.Errorf("ac %d cannot be negative", c.AC))
	}
	if c.Gold < 0 {
		errs = append(errs, fmt.Errorf("gold %d cannot be negative", c.Gold))
	}
	return errors.Join(errs...)
}

// NormalizeClass title-cases a class name: "fighter" becomes "Fighter".
func NormalizeClass(class string) string {
	return cases.Title(language.English).String(strings.TrimSpace(class))
}

// LoadCharacter reads a character definition from a JSON file.
// The filename (without .json extension) overrides any ID in the JSON
func LoadCharacter(path string) (*Character, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read character file: %w", err)
	}

	var c Character
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal character: %w", err)
	}

	c.ID = strings.TrimSuffix(filepath.Base(path), ".json")
	return &c, nil
}

var primaryAbilities = map[string]string{
	"barbarian": "strength",
	"fighter":   "strength",
	"paladin":   "strength",
	"monk":      "dexterity",
	"ranger":    "dexterity",
	"rogue":     "dexterity",
	"wizard":    "intelligence",
	"cleric":    "wisdom",
	"druid":     "wisdom",
	"bard":      "charisma",
	"sorcerer":  "charisma",
	"warlock":   "charisma",
}

// PrimaryAbility returns the ability a class leans on for encounter checks.
// Unknown classes fall back to strength.
func PrimaryAbility(class string) string {
	if a, ok := primaryAbilities[strings.ToLower(strings.TrimSpace(class))]; ok {
		return a
	}
	return "strength"
}
