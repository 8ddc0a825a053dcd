package dice

import "testing"

func TestAbilityModifier(t *testing.T) {
	tests := []struct {
		score int
		want  int
	}{
		{1, -5},
		{3, -4},
		{7, -2},
		{8, -1},
		{9, -1},
		{10, 0},
		{11, 0},
		{12, 1},
		{14, 2},
		{15, 2},
		{18, 4},
		{20, 5},
		{30, 10},
	}
	for _, tt := range tests {
		if got := AbilityModifier(tt.score); got != tt.want {
			t.Errorf("AbilityModifier(%d) = %d, want %d", tt.score, got, tt.want)
		}
	}
}

func TestProficiencyBonus(t *testing.T) {
	tests := []struct {
		level int
		want  int
	}{
		{0, 2}, {1, 2}, {4, 2}, {5, 3}, {8, 3}, {9, 4}, {13, 5}, {17, 6}, {20, 6},
	}
	for _, tt := range tests {
		if got := ProficiencyBonus(tt.level); got != tt.want {
			t.Errorf("ProficiencyBonus(%d) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestCheck_Against(t *testing.T) {
	tests := []struct {
		name  string
		check Check
		dc    int
		want  Outcome
	}{
		{"meets dc", Check{Total: 13, NaturalRoll: 10}, 13, OutcomeSuccess},
		{"below dc", Check{Total: 12, NaturalRoll: 10}, 13, OutcomeFailure},
		{"natural 20 below dc", Check{Total: 15, NaturalRoll: 20, IsCriticalSuccess: true}, 25, OutcomeCriticalSuccess},
		{"natural 1 above dc", Check{Total: 21, NaturalRoll: 1, IsCriticalFailure: true}, 10, OutcomeCriticalFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.check.Against(tt.dc); got != tt.want {
				t.Errorf("Against(%d) = %s, want %s", tt.dc, got, tt.want)
			}
		})
	}
}

func TestOutcome_IsSuccess(t *testing.T) {
	want := map[Outcome]bool{
		OutcomeCriticalFailure: false,
		OutcomeFailure:         false,
		OutcomeSuccess:         true,
		OutcomeCriticalSuccess: true,
	}
	for _, o := range Outcomes {
		if o.IsSuccess() != want[o] {
			t.Errorf("%s.IsSuccess() = %v", o, o.IsSuccess())
		}
	}
}
