// Package encounter decides what, if anything, happens when the party steps
// onto a tile: weighted encounter tables keyed by biome and POI, per-bucket
// chance scalars, and the resolver that rolls against them.
package encounter

import (
	"errors"
	"fmt"

	"github.com/jwebster45206/overland/pkg/progression"
)

// NoneTemplate is the sentinel entry whose weight stands for "nothing happens".
const NoneTemplate = "none"

var (
	ErrEmptyTable    = errors.New("table has no entries")
	ErrZeroWeight    = errors.New("table has no positive weight")
	ErrMissingNone   = errors.New("table must contain exactly one none entry")
	ErrInvalidWeight = errors.New("entry weight must be positive")
)

// Entry is one weighted outcome in a Table.
type Entry struct {
	Template   string                 `json:"template"`
	Weight     int                    `json:"weight"`
	Hostile    bool                   `json:"hostile,omitempty"`
	Difficulty progression.Difficulty `json:"difficulty,omitempty"`
	Gold       int                    `json:"gold,omitempty"` // awarded when the check succeeds
}

// IsNone reports whether the entry is the no-encounter sentinel.
func (e Entry) IsNone() bool {
	return e.Template == NoneTemplate
}

// Table is an ordered set of entries. Selection walks it in order, so the
// same sample always picks the same entry.
type Table []Entry

// TotalWeight sums all entry weights, ignoring non-positive ones.
func (t Table) TotalWeight() int {
	total := 0
	for _, e := range t {
		if e.Weight > 0 {
			total += e.Weight
		}
	}
	return total
}

// Validate checks that the table can always resolve.
func (t Table) Validate() error {
	if len(t) == 0 {
		return ErrEmptyTable
	}
	var errs []error
	nones := 0
	for i, e := range t {
		if e.IsNone() {
			nones++
		} else if e.Template == "" {
			errs = append(errs, fmt.Errorf("entry %d: template is required", i))
		}
		if e.Weight <= 0 {
			errs = append(errs, fmt.Errorf("entry %d (%s): %w", i, e.Template, ErrInvalidWeight))
		}
		if e.Gold < 0 {
			errs = append(errs, fmt.Errorf("entry %d (%s): gold %d cannot be negative", i, e.Template, e.Gold))
		}
		if e.Difficulty != "" && !e.Difficulty.Valid() {
			errs = append(errs, fmt.Errorf("entry %d (%s): unknown difficulty %q", i, e.Template, e.Difficulty))
		}
	}
	if nones != 1 {
		errs = append(errs, ErrMissingNone)
	}
	return errors.Join(errs...)
}

// Pick returns the first entry whose cumulative weight exceeds sample.
// sample must lie in [0, TotalWeight()); out-of-range samples return false.
func (t Table) Pick(sample int) (Entry, bool) {
	if sample < 0 {
		return Entry{}, false
	}
	cumulative := 0
	for _, e := range t {
		if e.Weight <= 0 {
			continue
		}
		cumulative += e.Weight
		if sample < cumulative {
			return e, true
		}
	}
	return Entry{}, false
}
