package runner

import (
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/overland/pkg/world"
)

// Step actions. A step with no action moves the party.
const (
	ActionMove   = "move"
	ActionGet    = "get"
	ActionDelete = "delete"
)

// TestSuite defines a scripted walk against a fresh session.
// Can either be a regular test with Steps, or a suite that references other Cases
type TestSuite struct {
	Name    string         `json:"name"`
	Party   []string       `json:"party,omitempty"`
	Seed    *int64         `json:"seed,omitempty"`
	Width   int            `json:"width,omitempty"`
	Height  int            `json:"height,omitempty"`
	Options *world.Options `json:"options,omitempty"`
	Steps   []TestStep     `json:"steps,omitempty"`
	Cases   []string       `json:"cases,omitempty"` // Used for suite tests (list of case files)
}

// IsSequence returns true if this is a suite that sequences other cases
func (ts *TestSuite) IsSequence() bool {
	return len(ts.Cases) > 0
}

// TestStep is one request and what it should produce.
type TestStep struct {
	Name         string       `json:"name,omitempty"`
	Action       string       `json:"action,omitempty"`
	Direction    string       `json:"direction,omitempty"`
	Repeat       int          `json:"repeat,omitempty"` // run the step this many times; 0 means once
	Expectations Expectations `json:"expect"`
}

// Expectations defines what to check after a step executes
type Expectations struct {
	Status        []int `json:"status,omitempty"` // accepted HTTP statuses; 200 when empty
	Moved         *bool `json:"moved,omitempty"`  // position changed
	TotalMoves    *int  `json:"total_moves,omitempty"`
	MinExplored   *int  `json:"min_explored,omitempty"`
	PartyDefeated *bool `json:"party_defeated,omitempty"`
	HeroCount     *int  `json:"hero_count,omitempty"`
}

// TestResult contains the outcome of running a test step
type TestResult struct {
	StepName string
	Success  bool
	Error    error
	Duration time.Duration
	Status   int
}

// TestJob represents a test suite to be executed
type TestJob struct {
	Name     string
	Suite    TestSuite
	CaseFile string
}

// TestRunResult contains the results of running an entire test suite
type TestRunResult struct {
	Job      TestJob
	Results  []TestResult
	Error    error
	Duration time.Duration
	Session  uuid.UUID
}
