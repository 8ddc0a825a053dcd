package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/overland/pkg/state"
)

type ErrorHandlingMode string

const ErrorHandlingExit ErrorHandlingMode = "exit"
const ErrorHandlingContinue ErrorHandlingMode = "continue"

// Runner executes integration tests against a running overland API
type Runner struct {
	BaseURL           string
	Client            *http.Client
	Timeout           time.Duration
	Logger            func(format string, args ...any)
	ErrorHandlingMode ErrorHandlingMode
	KeepSessions      bool // leave sessions in storage after the suite for inspection
}

// NewRunner creates a new test runner
func NewRunner(baseURL string) *Runner {
	return &Runner{
		BaseURL:           strings.TrimSuffix(baseURL, "/"),
		Client:            &http.Client{Timeout: 30 * time.Second},
		Timeout:           30 * time.Second,
		Logger:            func(string, ...any) {},
		ErrorHandlingMode: ErrorHandlingContinue,
	}
}

// LoadTestSuite loads a test suite from a JSON file
func LoadTestSuite(filename string) (TestSuite, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return TestSuite{}, fmt.Errorf("failed to read test file %s: %w", filename, err)
	}

	var suite TestSuite
	if err := json.Unmarshal(content, &suite); err != nil {
		return TestSuite{}, fmt.Errorf("failed to parse JSON in %s: %w", filename, err)
	}
	return suite, nil
}

// LoadTestSuiteWithExpansion loads a test suite and expands it if it's a sequence
func LoadTestSuiteWithExpansion(filename string, casesDir string) ([]TestJob, error) {
	suite, err := LoadTestSuite(filename)
	if err != nil {
		return nil, err
	}

	if !suite.IsSequence() {
		return []TestJob{{
			Name:     suite.Name,
			Suite:    suite,
			CaseFile: filename,
		}}, nil
	}

	var jobs []TestJob
	for _, caseFile := range suite.Cases {
		subJobs, err := LoadTestSuiteWithExpansion(filepath.Join(casesDir, caseFile), casesDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load case '%s' referenced by sequence '%s': %w", caseFile, suite.Name, err)
		}
		jobs = append(jobs, subJobs...)
	}
	return jobs, nil
}

// RunSuite creates a session for the suite, runs every step, and deletes
// the session afterwards unless KeepSessions is set.
func (r *Runner) RunSuite(ctx context.Context, suite TestSuite) (TestRunResult, error) {
	start := time.Now()
	result := TestRunResult{
		Job:     TestJob{Name: suite.Name, Suite: suite},
		Results: make([]TestResult, 0, len(suite.Steps)),
	}

	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	s, err := CreateSession(ctx, r.Client, r.BaseURL, suite)
	if err != nil {
		result.Error = fmt.Errorf("failed to create session: %w", err)
		result.Duration = time.Since(start)
		return result, result.Error
	}
	result.Session = s.ID

	if !r.KeepSessions {
		defer func() {
			if _, err := DeleteSession(context.Background(), r.Client, r.BaseURL, s.ID); err != nil {
				r.Logger("    failed to delete session %s: %v", s.ID, err)
			}
		}()
	}

	for i, step := range suite.Steps {
		repeat := max(step.Repeat, 1)
		for n := range repeat {
			name := step.Name
			if repeat > 1 {
				name = fmt.Sprintf("%s #%d", step.Name, n+1)
			}
			r.Logger("    [%d/%d] Running step: %s", i+1, len(suite.Steps), name)

			stepResult := r.runStep(ctx, s.ID, step)
			stepResult.StepName = name
			result.Results = append(result.Results, stepResult)

			if stepResult.Error != nil {
				r.Logger("    [%d/%d] ✗ %s: %v", i+1, len(suite.Steps), name, stepResult.Error)
				if result.Error == nil {
					result.Error = fmt.Errorf("step %d (%s) failed: %w", i, name, stepResult.Error)
				}
				if r.ErrorHandlingMode == ErrorHandlingExit {
					result.Duration = time.Since(start)
					return result, result.Error
				}
				continue
			}
			r.Logger("    [%d/%d] ✓ %s (%v)", i+1, len(suite.Steps), name, stepResult.Duration)
		}
	}

	result.Duration = time.Since(start)
	return result, result.Error
}

func (r *Runner) runStep(ctx context.Context, id uuid.UUID, step TestStep) TestResult {
	start := time.Now()
	result := TestResult{StepName: step.Name}
	fail := func(err error) TestResult {
		result.Error = err
		result.Duration = time.Since(start)
		return result
	}

	pre, _, err := GetSession(ctx, r.Client, r.BaseURL, id)
	if err != nil {
		return fail(fmt.Errorf("failed to get session before step: %w", err))
	}

	switch step.Action {
	case "", ActionMove:
		result.Status, err = PostMove(ctx, r.Client, r.BaseURL, id, step.Direction)
	case ActionGet:
		_, result.Status, err = GetSession(ctx, r.Client, r.BaseURL, id)
	case ActionDelete:
		result.Status, err = DeleteSession(ctx, r.Client, r.BaseURL, id)
	default:
		return fail(fmt.Errorf("unknown action %q", step.Action))
	}
	if err != nil {
		return fail(err)
	}

	post, _, err := GetSession(ctx, r.Client, r.BaseURL, id)
	if err != nil {
		return fail(fmt.Errorf("failed to get session after step: %w", err))
	}

	if err := checkExpectations(step.Expectations, result.Status, pre, post); err != nil {
		return fail(fmt.Errorf("expectation failed: %w", err))
	}

	result.Success = true
	result.Duration = time.Since(start)
	return result
}

// checkExpectations validates a step's status and the session it left
// behind. post is nil when the session no longer exists.
func checkExpectations(exp Expectations, status int, pre, post *state.Session) error {
	allowed := exp.Status
	if len(allowed) == 0 {
		allowed = []int{http.StatusOK}
	}
	if !slices.Contains(allowed, status) {
		return fmt.Errorf("expected status in %v, got %d", allowed, status)
	}

	needsSession := exp.Moved != nil || exp.TotalMoves != nil || exp.MinExplored != nil ||
		exp.PartyDefeated != nil || exp.HeroCount != nil
	if !needsSession {
		return nil
	}
	if post == nil {
		return fmt.Errorf("session no longer exists")
	}

	if exp.Moved != nil {
		moved := pre == nil || pre.Position != post.Position
		if moved != *exp.Moved {
			return fmt.Errorf("expected moved=%t, position %v -> %v", *exp.Moved, positionOf(pre), post.Position)
		}
	}
	if exp.TotalMoves != nil && post.TotalMoves != *exp.TotalMoves {
		return fmt.Errorf("expected total_moves to be %d, got %d", *exp.TotalMoves, post.TotalMoves)
	}
	if exp.MinExplored != nil {
		if n := post.World.ExploredCount(); n < *exp.MinExplored {
			return fmt.Errorf("expected at least %d explored tiles, got %d", *exp.MinExplored, n)
		}
	}
	if exp.PartyDefeated != nil && post.PartyDefeated() != *exp.PartyDefeated {
		return fmt.Errorf("expected party_defeated to be %t, got %t", *exp.PartyDefeated, post.PartyDefeated())
	}
	if exp.HeroCount != nil && len(post.Heroes) != *exp.HeroCount {
		return fmt.Errorf("expected %d heroes, got %d", *exp.HeroCount, len(post.Heroes))
	}
	return nil
}

func positionOf(s *state.Session) any {
	if s == nil {
		return "none"
	}
	return s.Position
}
