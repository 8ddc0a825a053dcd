package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/jwebster45206/overland/pkg/state"
)

// CreateSession posts a new session built from the suite's party and world.
func CreateSession(ctx context.Context, client *http.Client, baseURL string, suite TestSuite) (*state.Session, error) {
	body, err := json.Marshal(map[string]any{
		"party":   suite.Party,
		"seed":    suite.Seed,
		"width":   suite.Width,
		"height":  suite.Height,
		"options": suite.Options,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal create request: %w", err)
	}

	resp, err := do(ctx, client, http.MethodPost, baseURL+"/v1/sessions", body)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("create session returned %d: %s", resp.StatusCode, string(b))
	}

	var s state.Session
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &s, nil
}

// GetSession retrieves a session. The status is returned even on failure.
func GetSession(ctx context.Context, client *http.Client, baseURL string, id uuid.UUID) (*state.Session, int, error) {
	resp, err := do(ctx, client, http.MethodGet, fmt.Sprintf("%s/v1/sessions/%s", baseURL, id), nil)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, nil
	}
	var s state.Session
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to decode session: %w", err)
	}
	return &s, resp.StatusCode, nil
}

// PostMove moves the party and returns the response status.
func PostMove(ctx context.Context, client *http.Client, baseURL string, id uuid.UUID, direction string) (int, error) {
	body, err := json.Marshal(map[string]string{"direction": direction})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal move request: %w", err)
	}
	resp, err := do(ctx, client, http.MethodPost, fmt.Sprintf("%s/v1/sessions/%s/move", baseURL, id), body)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

// DeleteSession removes a session and returns the response status.
func DeleteSession(ctx context.Context, client *http.Client, baseURL string, id uuid.UUID) (int, error) {
	resp, err := do(ctx, client, http.MethodDelete, fmt.Sprintf("%s/v1/sessions/%s", baseURL, id), nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode, nil
}

func do(ctx context.Context, client *http.Client, method, url string, body []byte) (*http.Response, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, r)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", method, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", method, url, err)
	}
	return resp, nil
}
