package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jwebster45206/overland/internal/handlers"
	"github.com/jwebster45206/overland/pkg/actor"
	"github.com/jwebster45206/overland/pkg/progression"
	"github.com/jwebster45206/overland/pkg/state"
	"github.com/jwebster45206/overland/pkg/world"
	"github.com/muesli/reflow/wordwrap"
)

var biomeGlyphs = map[world.Biome]struct {
	glyph string
	color lipgloss.Color
}{
	world.BiomeDeepWater: {"≈", "18"},
	world.BiomeWater:     {"~", "33"},
	world.BiomeBeach:     {".", "222"},
	world.BiomePlains:    {",", "70"},
	world.BiomeMountain:  {"^", "250"},
}

var poiGlyphs = map[world.POI]struct {
	glyph string
	color lipgloss.Color
}{
	world.POIForest:   {"T", "28"},
	world.POIGrove:    {"t", "34"},
	world.POIMountain: {"A", "255"},
	world.POICave:     {"O", "137"},
	world.POIRuins:    {"R", "180"},
	world.POITown:     {"#", "214"},
}

var partyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)

// tileGlyph returns the styled character for one tile. Unexplored tiles are
// blank unless reveal is set.
func tileGlyph(t world.WorldTile, reveal bool) string {
	if !t.IsExplored && !reveal {
		return " "
	}
	if p, ok := poiGlyphs[t.POI]; ok {
		return lipgloss.NewStyle().Foreground(p.color).Render(p.glyph)
	}
	if b, ok := biomeGlyphs[t.Biome]; ok {
		return lipgloss.NewStyle().Foreground(b.color).Render(b.glyph)
	}
	return "?"
}

// window picks the top-left corner of a view of size viewW x viewH that
// keeps the party in view and never scrolls past the map edge.
func window(mapW, mapH int, pos world.Point, viewW, viewH int) (x0, y0 int) {
	clampAxis := func(p, size, view int) int {
		if view >= size {
			return 0
		}
		return max(0, min(p-view/2, size-view))
	}
	return clampAxis(pos.X, mapW, viewW), clampAxis(pos.Y, mapH, viewH)
}

func renderMap(s *state.Session, viewW, viewH int, reveal bool) string {
	if s == nil || s.World == nil || viewW <= 0 || viewH <= 0 {
		return ""
	}
	m := s.World
	x0, y0 := window(m.Width, m.Height, s.Position, viewW, viewH)

	var sb strings.Builder
	for y := y0; y < min(y0+viewH, m.Height); y++ {
		for x := x0; x < min(x0+viewW, m.Width); x++ {
			if x == s.Position.X && y == s.Position.Y {
				sb.WriteString(partyStyle.Render("@"))
				continue
			}
			sb.WriteString(tileGlyph(m.Tiles[y][x], reveal))
		}
		sb.WriteString("\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// describeTile names a tile the way the log and the side panel show it.
func describeTile(t world.WorldTile) string {
	biome := strings.ReplaceAll(string(t.Biome), "_", " ")
	switch {
	case t.POI == world.POITown && t.TownName != "":
		return fmt.Sprintf("%s, a %s", t.TownName, t.TownSize)
	case t.HasPOI():
		return fmt.Sprintf("%s (%s)", t.POI, biome)
	default:
		return biome
	}
}

// describeMove turns a move result into log lines, wrapped to width.
func describeMove(res *state.MoveResult, heroes map[string]*actor.Hero, width int) []string {
	if res == nil {
		return nil
	}
	var lines []string
	where := describeTile(res.Tile)
	if res.FirstVisit {
		lines = append(lines, fmt.Sprintf("You discover %s.", where))
	} else {
		lines = append(lines, fmt.Sprintf("You return to %s.", where))
	}
	if res.Rested {
		lines = append(lines, "The party rests in town and recovers fully.")
	}

	if e := res.Encounter; e != nil {
		name := res.HeroID
		if h, ok := heroes[res.HeroID]; ok && h.Name != "" {
			name = h.Name
		}
		label := strings.ReplaceAll(e.Template, "_", " ")
		lines = append(lines, fmt.Sprintf("Encounter: %s (%s, %s).", label, e.Source, e.Difficulty))
		if res.Check != nil {
			lines = append(lines, fmt.Sprintf("%s rolls %d%+d = %d against DC %d: %s.",
				name, res.Check.NaturalRoll, res.Check.Modifier, res.Check.Total, res.DC,
				strings.ReplaceAll(string(res.Outcome), "_", " ")))
		}
		if res.XPGained > 0 || res.Damage > 0 {
			lines = append(lines, fmt.Sprintf("%s gains %d XP and takes %d damage.", name, res.XPGained, res.Damage))
		}
		if res.Gold > 0 {
			lines = append(lines, fmt.Sprintf("%s collects %d gold.", name, res.Gold))
		}
		if lu := res.LevelUp; lu != nil {
			lines = append(lines, fmt.Sprintf("%s reaches level %d! Max HP %d -> %d.", name, lu.NewLevel, lu.OldMaxHP, lu.NewMaxHP))
		}
		if res.HeroDefeated {
			lines = append(lines, fmt.Sprintf("%s falls.", name))
		}
	}
	if res.PartyDefeated {
		lines = append(lines, "The whole party has fallen. The journey ends here.")
	}

	if width > 0 {
		for i, l := range lines {
			lines[i] = wordwrap.String(l, width)
		}
	}
	return lines
}

// describeParty renders the side panel's hero list in marching order.
func describeParty(s *state.Session) string {
	if s == nil {
		return ""
	}
	var sb strings.Builder
	for _, id := range s.Party {
		h, ok := s.Heroes[id]
		if !ok {
			continue
		}
		status := fmt.Sprintf("%d/%d HP", h.CurrentHP, h.MaxHP)
		if h.IsDefeated {
			status = errorStyle.Render("defeated")
		}
		fmt.Fprintf(&sb, "%s\n  %s %d, %s\n  %s\n  %d gold\n", h.Name, h.Class, h.Level, status, describeXP(h.XP), h.Gold)
	}
	if last, ok := s.History.Last(); ok {
		fmt.Fprintf(&sb, "\nLast: %s", strings.ReplaceAll(last.Name, "_", " "))
		if last.Outcome != "" {
			fmt.Fprintf(&sb, " (%s)", strings.ReplaceAll(string(last.Outcome), "_", " "))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func describeXP(xp int) string {
	next := progression.XPToNextLevel(xp)
	if next == 0 {
		return fmt.Sprintf("%d XP, max level", xp)
	}
	return fmt.Sprintf("%d XP, %d to next", xp, next)
}

// partyOrder lists selected character IDs in the order they appear in the
// roster, which becomes the marching order.
func partyOrder(roster []handlers.CharacterSummary, selected map[string]bool) []string {
	var party []string
	for _, c := range roster {
		if selected[c.ID] {
			party = append(party, c.ID)
		}
	}
	return party
}

func sortedRoster(list []handlers.CharacterSummary) []handlers.CharacterSummary {
	out := append([]handlers.CharacterSummary(nil), list...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
