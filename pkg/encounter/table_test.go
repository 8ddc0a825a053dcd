package encounter

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/jwebster45206/overland/pkg/dice"
)

func TestTable_Validate(t *testing.T) {
	tests := []struct {
		name    string
		table   Table
		wantErr error
		ok      bool
	}{
		{"valid", Table{{Template: "wolf", Weight: 10, Hostile: true}, {Template: NoneTemplate, Weight: 90}}, nil, true},
		{"empty", Table{}, ErrEmptyTable, false},
		{"no none", Table{{Template: "wolf", Weight: 10}}, ErrMissingNone, false},
		{"two nones", Table{{Template: NoneTemplate, Weight: 1}, {Template: NoneTemplate, Weight: 1}}, ErrMissingNone, false},
		{"zero weight", Table{{Template: "wolf", Weight: 0}, {Template: NoneTemplate, Weight: 5}}, ErrInvalidWeight, false},
		{"negative weight", Table{{Template: "wolf", Weight: 5}, {Template: NoneTemplate, Weight: -1}}, ErrInvalidWeight, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.table.Validate()
			if tt.ok {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTable_Validate_UnknownDifficulty(t *testing.T) {
	table := Table{{Template: "wolf", Weight: 1, Difficulty: "apocalyptic"}, {Template: NoneTemplate, Weight: 1}}
	if err := table.Validate(); err == nil {
		t.Error("Validate() should reject unknown difficulty")
	}
}

func TestTable_Validate_NegativeGold(t *testing.T) {
	table := Table{{Template: "wolf", Weight: 1, Gold: -3}, {Template: NoneTemplate, Weight: 1}}
	err := table.Validate()
	if err == nil || !strings.Contains(err.Error(), "gold -3") {
		t.Errorf("Validate() error = %v, want gold rejection", err)
	}
}

func TestTable_Pick(t *testing.T) {
	table := Table{
		{Template: "a", Weight: 10},
		{Template: "b", Weight: 20},
		{Template: NoneTemplate, Weight: 70},
	}
	tests := []struct {
		sample int
		want   string
		ok     bool
	}{
		{0, "a", true},
		{9, "a", true},
		{10, "b", true},
		{29, "b", true},
		{30, NoneTemplate, true},
		{99, NoneTemplate, true},
		{100, "", false},
		{-1, "", false},
	}
	for _, tt := range tests {
		got, ok := table.Pick(tt.sample)
		if ok != tt.ok || got.Template != tt.want {
			t.Errorf("Pick(%d) = %q, %v; want %q, %v", tt.sample, got.Template, ok, tt.want, tt.ok)
		}
	}
}

func TestTable_PickDistribution(t *testing.T) {
	table := Table{
		{Template: "a", Weight: 10},
		{Template: "b", Weight: 20},
		{Template: "c", Weight: 70},
	}
	src := dice.NewSeededSource(42)
	const draws = 100000
	counts := map[string]int{}
	total := table.TotalWeight()
	if total != 100 {
		t.Fatalf("TotalWeight() = %d, want 100", total)
	}
	for range draws {
		e, ok := table.Pick(src.IntN(total))
		if !ok {
			t.Fatal("Pick() failed on in-range sample")
		}
		counts[e.Template]++
	}
	want := map[string]float64{"a": 0.10, "b": 0.20, "c": 0.70}
	for name, p := range want {
		got := float64(counts[name]) / draws
		if math.Abs(got-p) > 0.01 {
			t.Errorf("frequency of %s = %.4f, want %.2f ± 0.01", name, got, p)
		}
	}
}
