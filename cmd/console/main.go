package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/jwebster45206/overland/internal/handlers"
	"github.com/jwebster45206/overland/pkg/state"
)

type ConsoleConfig struct {
	APIBaseURL string
	Timeout    time.Duration
	Seed       *int64
}

func main() {
	cfg := &ConsoleConfig{
		APIBaseURL: getEnv("API_BASE_URL", "http://localhost:8080"),
		Timeout:    30 * time.Second,
	}
	if raw := os.Getenv("OVERLAND_SEED"); raw != "" {
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid OVERLAND_SEED %q: %v\n", raw, err)
			os.Exit(1)
		}
		cfg.Seed = &seed
	}

	client := &http.Client{
		Timeout: cfg.Timeout,
	}

	if !testConnection(client, cfg.APIBaseURL) {
		fmt.Fprintf(os.Stderr, "Could not connect to API. Please ensure the API is running.\nTry: docker-compose up -d\n")
		os.Exit(1)
	}

	p := tea.NewProgram(NewConsoleUI(cfg, client), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

// apiError turns a non-2xx response body into an error.
func apiError(status int, body []byte, action string) error {
	var errorResp handlers.ErrorResponse
	if err := json.Unmarshal(body, &errorResp); err != nil || errorResp.Error == "" {
		return fmt.Errorf("API returned status %d: %s", status, string(body))
	}
	return fmt.Errorf("%s: %s", action, errorResp.Error)
}

func listCharacters(client *http.Client, baseURL string) ([]handlers.CharacterSummary, error) {
	resp, err := client.Get(baseURL + "/v1/characters")
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp.StatusCode, body, "failed to list characters")
	}

	var list []handlers.CharacterSummary
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("failed to parse character list: %w", err)
	}
	return list, nil
}

func createSession(client *http.Client, baseURL string, party []string, seed *int64) (*state.Session, error) {
	jsonData, err := json.Marshal(handlers.CreateSessionRequest{Party: party, Seed: seed})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(baseURL+"/v1/sessions", "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusCreated {
		return nil, apiError(resp.StatusCode, body, "failed to create session")
	}

	var s state.Session
	if err := json.Unmarshal(body, &s); err != nil {
		return nil, fmt.Errorf("failed to parse session response: %w", err)
	}
	return &s, nil
}

func postMove(client *http.Client, baseURL string, sessionID uuid.UUID, dir state.Direction) (*handlers.MoveResponse, error) {
	jsonData, err := json.Marshal(handlers.MoveRequest{Direction: string(dir)})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(
		fmt.Sprintf("%s/v1/sessions/%s/move", baseURL, sessionID),
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp.StatusCode, body, "move rejected")
	}

	var moveResp handlers.MoveResponse
	if err := json.Unmarshal(body, &moveResp); err != nil {
		return nil, fmt.Errorf("failed to parse move response: %w", err)
	}
	return &moveResp, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
