package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/jwebster45206/overland/pkg/actor"
	"github.com/jwebster45206/overland/pkg/encounter"
	"github.com/jwebster45206/overland/pkg/progression"
	"github.com/jwebster45206/overland/pkg/world"
)

func main() {
	tablesPath := flag.String("tables", "", "encounter tables JSON (built-in tables when empty)")
	dataDir := flag.String("data", "./data", "data directory containing characters/")
	seed := flag.Int64("seed", 0, "generate a preview world with this seed")
	width := flag.Int("width", 64, "preview world width")
	height := flag.Int("height", 48, "preview world height")
	flag.Parse()

	v := &Validator{}
	v.validateTables(*tablesPath)
	v.validateCharacters(filepath.Join(*dataDir, "characters"))

	if *seed != 0 {
		preview(*width, *height, *seed)
	}

	if len(v.errors) > 0 {
		fmt.Fprintf(os.Stderr, "Validation failed:\n%s\n", strings.Join(v.errors, "\n"))
		os.Exit(1)
	}
	fmt.Println("All data files are valid!")
}

type Validator struct {
	errors []string
}

func (v *Validator) validateTables(path string) {
	if path == "" {
		fmt.Println("Validating built-in encounter tables...")
		v.checkTables(encounter.DefaultTables(), "built-in tables")
		return
	}

	fmt.Printf("Validating %s...\n", path)
	data, err := os.ReadFile(path)
	if err != nil {
		v.addError(fmt.Sprintf("failed to read %s: %v", path, err))
		return
	}
	t, err := encounter.LoadTables(bytes.NewReader(data))
	if err != nil {
		v.addError(fmt.Sprintf("%s: %v", path, err))
		return
	}
	v.checkTables(t, path)
}

// checkTables covers what Tables.Validate leaves to the author: every biome
// has a table, and template names are snake_case.
func (v *Validator) checkTables(t *encounter.Tables, name string) {
	for _, b := range world.Biomes {
		if _, ok := t.Biomes[b]; !ok {
			v.addError(fmt.Sprintf("%s: no table for biome %s", name, b))
		}
	}

	check := func(label string, table encounter.Table) {
		for _, e := range table {
			v.validateIDFormat(label+" template", e.Template)
			if !e.Difficulty.Valid() {
				v.addError(fmt.Sprintf("%s: %s has unknown difficulty %q", label, e.Template, e.Difficulty))
			}
		}
	}
	for b, table := range t.Biomes {
		check(fmt.Sprintf("%s biome %s", name, b), table)
	}
	for p, table := range t.POIs {
		check(fmt.Sprintf("%s poi %s", name, p), table)
	}
	check(name+" environmental", t.Environmental)
}

func (v *Validator) validateCharacters(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		v.addError(fmt.Sprintf("failed to read %s: %v", dir, err))
		return
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".json" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		v.validateCharacterFile(filepath.Join(dir, name))
	}
}

func (v *Validator) validateCharacterFile(path string) {
	fmt.Printf("Validating %s...\n", path)

	id := strings.TrimSuffix(filepath.Base(path), ".json")
	if !isValidID(id) {
		v.addError(fmt.Sprintf("character filename '%s' must be lowercase snake_case", filepath.Base(path)))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		v.addError(fmt.Sprintf("failed to read %s: %v", path, err))
		return
	}

	var c actor.Character
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&c); err != nil {
		v.addError(fmt.Sprintf("%s failed strict JSON unmarshaling: %v", path, err))
		return
	}
	c.ID = id

	if _, err := actor.NewHero(c, progression.ClassHitDice{}); err != nil {
		v.addError(fmt.Sprintf("%s: %v", path, err))
	}
}

func (v *Validator) validateIDFormat(fieldName, id string) {
	if id == "" {
		v.addError(fmt.Sprintf("%s is empty", fieldName))
		return
	}
	if !isValidID(id) {
		v.addError(fmt.Sprintf("%s '%s' should be lowercase snake_case", fieldName, id))
	}
}

func (v *Validator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}

var validIDRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)

func isValidID(id string) bool {
	return validIDRegex.MatchString(id)
}

func preview(width, height int, seed int64) {
	m := world.Generate(width, height, seed, world.DefaultOptions())
	counts := m.BiomeCounts()

	fmt.Printf("\nWorld %dx%d seed %d\n", width, height, seed)
	for _, b := range world.Biomes {
		fmt.Printf("  %-10s %5d\n", b, counts[b])
	}
	for _, t := range m.Towns() {
		fmt.Printf("  town %-20s %-8s (%d,%d)\n", t.TownName, t.TownSize, t.X, t.Y)
	}
}
