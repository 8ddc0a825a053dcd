package runner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jwebster45206/overland/pkg/actor"
	"github.com/jwebster45206/overland/pkg/encounter"
	"github.com/jwebster45206/overland/pkg/state"
	"github.com/jwebster45206/overland/pkg/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI serves a 3x3 plains world and walks the party without encounters.
type fakeAPI struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*state.Session
}

func newFakeAPI(t *testing.T) *httptest.Server {
	api := &fakeAPI{sessions: make(map[uuid.UUID]*state.Session)}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	return srv
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/sessions"), "/"), "/")
	if parts[0] == "" {
		f.create(w)
		return
	}
	id, err := uuid.Parse(parts[0])
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	s, ok := f.sessions[id]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch {
	case len(parts) == 2 && r.Method == http.MethodPost:
		var req struct {
			Direction string `json:"direction"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		dir, err := state.ParseDirection(req.Direction)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		to, _ := dir.Step(s.Position)
		if !s.World.InBounds(to.X, to.Y) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			return
		}
		s.Position = to
		s.TotalMoves++
		s.World.MarkExplored(to.X, to.Y)
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodDelete:
		delete(f.sessions, id)
		w.WriteHeader(http.StatusNoContent)
	default:
		_ = json.NewEncoder(w).Encode(s)
	}
}

func (f *fakeAPI) create(w http.ResponseWriter) {
	m := &world.WorldMap{Width: 3, Height: 3, Tiles: make([][]world.WorldTile, 3)}
	for y := range 3 {
		m.Tiles[y] = make([]world.WorldTile, 3)
		for x := range 3 {
			m.Tiles[y][x] = world.WorldTile{X: x, Y: y, Biome: world.BiomePlains}
		}
	}
	hero, _ := actor.NewHero(actor.Character{
		ID: "aria", Name: "Aria", Class: "fighter",
		Stats: actor.Stats5e{Strength: 16, Dexterity: 12, Constitution: 14, Intelligence: 10, Wisdom: 10, Charisma: 8},
	}, nil)
	s, _ := state.NewSession(m, []*actor.Hero{hero}, encounter.DefaultSettings(), world.Point{X: 1, Y: 1})
	f.sessions[s.ID] = s

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(s)
}

func intPtr(i int) *int    { return &i }
func boolPtr(b bool) *bool { return &b }

func TestRunner_RunSuite(t *testing.T) {
	srv := newFakeAPI(t)
	r := NewRunner(srv.URL)

	suite := TestSuite{
		Name:  "edge of the map",
		Party: []string{"aria"},
		Steps: []TestStep{
			{Name: "bad direction", Direction: "up-ish", Expectations: Expectations{Status: []int{400}, Moved: boolPtr(false)}},
			{Name: "north", Direction: "north", Expectations: Expectations{Moved: boolPtr(true), TotalMoves: intPtr(1)}},
			{Name: "off the edge", Direction: "north", Expectations: Expectations{Status: []int{422}, Moved: boolPtr(false)}},
			{Name: "east and back", Direction: "e", Repeat: 1, Expectations: Expectations{MinExplored: intPtr(3)}},
			{Name: "read", Action: ActionGet, Expectations: Expectations{HeroCount: intPtr(1), PartyDefeated: boolPtr(false)}},
		},
	}

	result, err := r.RunSuite(context.Background(), suite)
	require.NoError(t, err)
	assert.Len(t, result.Results, 5)
	for _, step := range result.Results {
		assert.True(t, step.Success, step.StepName)
	}

	// sessions are deleted after the suite
	_, status, err := GetSession(context.Background(), r.Client, r.BaseURL, result.Session)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRunner_FailingStep(t *testing.T) {
	srv := newFakeAPI(t)

	tests := []struct {
		name    string
		mode    ErrorHandlingMode
		results int
	}{
		{"continue runs every step", ErrorHandlingContinue, 3},
		{"exit stops at the failure", ErrorHandlingExit, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRunner(srv.URL)
			r.ErrorHandlingMode = tt.mode

			suite := TestSuite{
				Name: "wrong expectation",
				Steps: []TestStep{
					{Name: "south", Direction: "south"},
					{Name: "south again", Direction: "south"},
					{Name: "west", Direction: "west"},
				},
			}
			result, err := r.RunSuite(context.Background(), suite)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "south again")
			assert.Len(t, result.Results, tt.results)
		})
	}
}

func TestRunner_RepeatNamesSteps(t *testing.T) {
	srv := newFakeAPI(t)
	r := NewRunner(srv.URL)

	result, err := r.RunSuite(context.Background(), TestSuite{
		Name:  "pace",
		Steps: []TestStep{{Name: "west", Direction: "west", Repeat: 2, Expectations: Expectations{Status: []int{200, 422}}}},
	})
	require.NoError(t, err)
	require.Len(t, result.Results, 2)
	assert.Equal(t, "west #1", result.Results[0].StepName)
	assert.Equal(t, 422, result.Results[1].Status)
}

func TestLoadTestSuiteWithExpansion(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	write("a.json", `{"name":"a","party":["aria"],"steps":[{"direction":"n"}]}`)
	write("b.json", `{"name":"b","party":["aria"],"steps":[{"direction":"s"}]}`)
	write("all.json", `{"name":"all","cases":["a.json","b.json"]}`)
	write("broken.json", `{"name":"broken","cases":["missing.json"]}`)

	jobs, err := LoadTestSuiteWithExpansion(filepath.Join(dir, "all.json"), dir)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "a", jobs[0].Name)
	assert.Equal(t, "b", jobs[1].Name)

	_, err = LoadTestSuiteWithExpansion(filepath.Join(dir, "broken.json"), dir)
	assert.Error(t, err)
}
