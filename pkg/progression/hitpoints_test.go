package progression

import "testing"

func TestHitDie(t *testing.T) {
	tests := []struct {
		class string
		want  int
	}{
		{"Fighter", 10},
		{"fighter", 10},
		{" Wizard ", 6},
		{"BARBARIAN", 12},
		{"Rogue", 8},
		{"Pirate", DefaultHitDie},
		{"", DefaultHitDie},
	}
	for _, tt := range tests {
		if got := HitDie(tt.class); got != tt.want {
			t.Errorf("HitDie(%q) = %d, want %d", tt.class, got, tt.want)
		}
	}
}

func TestClassHitDice_MaxHP(t *testing.T) {
	model := ClassHitDice{}

	tests := []struct {
		name  string
		class string
		con   int
		level int
		want  int
	}{
		{"fighter level 1 con 14", "Fighter", 14, 1, 12},
		{"fighter level 2 con 14", "Fighter", 14, 2, 20},
		{"wizard level 1 con 10", "Wizard", 10, 1, 6},
		{"wizard level 5 con 10", "Wizard", 10, 5, 22},
		{"barbarian level 3 con 16", "Barbarian", 16, 3, 15 + 2*10},
		{"frail wizard never below 1 per level", "Wizard", 1, 3, 3},
		{"level below 1 clamps", "Rogue", 12, 0, 9},
		{"level above cap clamps", "Rogue", 10, 25, 8 + 19*5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := model.MaxHP(tt.class, tt.con, tt.level); got != tt.want {
				t.Errorf("MaxHP(%q, %d, %d) = %d, want %d", tt.class, tt.con, tt.level, got, tt.want)
			}
		})
	}
}

func TestClassHitDice_GrowsWithLevel(t *testing.T) {
	model := ClassHitDice{}
	for _, class := range []string{"Wizard", "Fighter", "Barbarian"} {
		for _, con := range []int{3, 10, 18} {
			prev := 0
			for level := 1; level <= MaxLevel; level++ {
				hp := model.MaxHP(class, con, level)
				if hp <= prev {
					t.Fatalf("%s con %d: hp %d at level %d not above %d", class, con, hp, level, prev)
				}
				prev = hp
			}
		}
	}
}
