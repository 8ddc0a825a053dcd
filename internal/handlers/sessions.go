package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jwebster45206/overland/internal/logger"
	"github.com/jwebster45206/overland/internal/services/events"
	"github.com/jwebster45206/overland/pkg/actor"
	"github.com/jwebster45206/overland/pkg/encounter"
	"github.com/jwebster45206/overland/pkg/progression"
	"github.com/jwebster45206/overland/pkg/state"
	"github.com/jwebster45206/overland/pkg/storage"
	"github.com/jwebster45206/overland/pkg/world"
)

const maxPartySize = 6

// SessionDefaults are applied to create requests that leave fields out.
type SessionDefaults struct {
	Width    int
	Height   int
	Options  world.Options
	Settings encounter.Settings
}

type SessionHandler struct {
	storage   storage.Storage
	engine    *state.Engine
	publisher events.Publisher
	defaults  SessionDefaults
	locks     *sessionLocks
	logger    *slog.Logger
	generate  func(width, height int, seed int64, opts world.Options) *world.WorldMap
}

// NewSessionHandler wires the move loop to storage. publisher may be nil.
func NewSessionHandler(storage storage.Storage, engine *state.Engine, publisher events.Publisher, defaults SessionDefaults, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		storage:   storage,
		engine:    engine,
		publisher: publisher,
		defaults:  defaults,
		locks:     newSessionLocks(),
		logger:    logger,
		generate:  world.Generate,
	}
}

// CreateSessionRequest defines the request body for starting a session
type CreateSessionRequest struct {
	Party    []string            `json:"party"`              // Required: character IDs
	Seed     *int64              `json:"seed,omitempty"`     // Optional: random when omitted
	Width    int                 `json:"width,omitempty"`    // Optional: server default
	Height   int                 `json:"height,omitempty"`   // Optional: server default
	Options  *world.Options      `json:"options,omitempty"`  // Optional: terrain tuning
	Settings *encounter.Settings `json:"settings,omitempty"` // Optional: encounter tuning
}

// MoveRequest defines the request body for a move
type MoveRequest struct {
	Direction string `json:"direction"`
}

// MoveResponse is the move result plus the party state after it
type MoveResponse struct {
	Result              *state.MoveResult      `json:"result"`
	Position            world.Point            `json:"position"`
	MovesSinceEncounter int                    `json:"moves_since_encounter"`
	Heroes              map[string]*actor.Hero `json:"heroes"`
	AvailableDirections []state.Direction      `json:"available_directions"`
}

// ServeHTTP handles HTTP requests for session operations
// Routes:
// POST /v1/sessions           - Create a session and generate its world
// GET /v1/sessions/{id}       - Read a session
// DELETE /v1/sessions/{id}    - Delete a session
// POST /v1/sessions/{id}/move - Move the party one tile
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/sessions"), "/")
	parts := strings.Split(path, "/")

	if path == "" {
		if r.Method != http.MethodPost {
			writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST")
			return
		}
		h.handleCreate(w, r)
		return
	}

	id, err := uuid.Parse(parts[0])
	if err != nil {
		h.logger.Warn("Invalid session ID", "id", parts[0], "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		h.handleRead(w, r, id)
	case len(parts) == 1 && r.Method == http.MethodDelete:
		h.handleDelete(w, r, id)
	case len(parts) == 2 && parts[1] == "move" && r.Method == http.MethodPost:
		h.handleMove(w, r, id)
	case len(parts) == 1 || (len(parts) == 2 && parts[1] == "move"):
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed")
	default:
		writeError(w, h.logger, http.StatusNotFound, "Not found")
	}
}

func (h *SessionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	if len(req.Party) == 0 {
		writeError(w, h.logger, http.StatusBadRequest, "party field is required")
		return
	}
	if len(req.Party) > maxPartySize {
		writeError(w, h.logger, http.StatusBadRequest, fmt.Sprintf("party cannot have more than %d heroes", maxPartySize))
		return
	}

	width, height := h.defaults.Width, h.defaults.Height
	if req.Width > 0 {
		width = req.Width
	}
	if req.Height > 0 {
		height = req.Height
	}
	if width <= 0 || height <= 0 || width > 512 || height > 512 {
		writeError(w, h.logger, http.StatusBadRequest, "width and height must be between 1 and 512")
		return
	}

	opts := h.defaults.Options
	if req.Options != nil {
		opts = *req.Options
	}
	if err := opts.Validate(); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid world options: "+err.Error())
		return
	}

	settings := h.defaults.Settings
	if req.Settings != nil {
		settings = *req.Settings
	}

	seed := rand.Int64()
	if req.Seed != nil {
		seed = *req.Seed
	}

	heroes := make([]*actor.Hero, 0, len(req.Party))
	for _, charID := range req.Party {
		c, err := h.storage.GetCharacter(r.Context(), charID)
		if err != nil {
			h.logger.Warn("Failed to load character", "character_id", charID, "error", err)
			writeError(w, h.logger, http.StatusBadRequest, "Failed to load character: "+err.Error())
			return
		}
		if c == nil {
			writeError(w, h.logger, http.StatusBadRequest, "Character not found: "+charID)
			return
		}
		hero, err := actor.NewHero(*c, progression.ClassHitDice{})
		if err != nil {
			writeError(w, h.logger, http.StatusBadRequest, err.Error())
			return
		}
		heroes = append(heroes, hero)
	}

	m := h.generate(width, height, seed, opts)
	start, err := state.FindStart(m)
	if err != nil {
		writeError(w, h.logger, http.StatusUnprocessableEntity, "Generated world has no starting point; try another seed")
		return
	}

	s, err := state.NewSession(m, heroes, settings, start)
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Failed to create session: "+err.Error())
		return
	}

	if err := h.storage.SaveSession(r.Context(), s); err != nil {
		logger.WithError(logger.WithSession(h.logger, s.ID), err).Error("Failed to save new session")
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to create session")
		return
	}

	logger.WithSession(h.logger, s.ID).Info("Session created",
		"seed", seed,
		"width", width,
		"height", height,
		"party", s.Party,
		"start", start)
	writeJSON(w, h.logger, http.StatusCreated, s)
}

func (h *SessionHandler) handleRead(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	s, err := h.storage.LoadSession(r.Context(), id)
	if err != nil {
		logger.WithError(logger.WithSession(h.logger, id), err).Error("Failed to load session")
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load session")
		return
	}
	if s == nil {
		writeError(w, h.logger, http.StatusNotFound, "Session not found")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, s)
}

func (h *SessionHandler) handleDelete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	unlock := h.locks.Lock(id)
	defer unlock()

	if err := h.storage.DeleteSession(r.Context(), id); err != nil {
		logger.WithError(logger.WithSession(h.logger, id), err).Error("Failed to delete session")
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to delete session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) handleMove(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	dir, err := state.ParseDirection(req.Direction)
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	log := logger.WithSession(h.logger, id)

	unlock := h.locks.Lock(id)
	defer unlock()

	s, err := h.storage.LoadSession(r.Context(), id)
	if err != nil {
		logger.WithError(log, err).Error("Failed to load session")
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load session")
		return
	}
	if s == nil {
		writeError(w, h.logger, http.StatusNotFound, "Session not found")
		return
	}

	res, err := h.engine.Move(s, dir)
	if err != nil {
		switch {
		case errors.Is(err, state.ErrPartyDefeated):
			writeError(w, h.logger, http.StatusConflict, err.Error())
		case errors.Is(err, state.ErrOutOfBounds), errors.Is(err, state.ErrImpassable):
			writeError(w, h.logger, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, state.ErrUnknownDirection):
			writeError(w, h.logger, http.StatusBadRequest, err.Error())
		default:
			logger.WithError(log, err).Error("Move failed")
			writeError(w, h.logger, http.StatusInternalServerError, "Move failed")
		}
		return
	}

	if err := h.storage.SaveSession(r.Context(), s); err != nil {
		logger.WithError(log, err).Error("Failed to save session after move")
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to save session")
		return
	}

	if h.publisher != nil && res.Encounter != nil {
		if err := h.publisher.PublishMove(r.Context(), id, res, s.Heroes[res.HeroID]); err != nil {
			// narration is best effort; the move is already saved
			logger.WithError(log, err).Warn("Failed to publish move events")
		}
	}

	log.Debug("Party moved",
		"direction", dir,
		"to", res.To,
		"first_visit", res.FirstVisit,
		"encounter", res.Encounter != nil)

	writeJSON(w, h.logger, http.StatusOK, MoveResponse{
		Result:              res,
		Position:            s.Position,
		MovesSinceEncounter: s.MovesSinceEncounter,
		Heroes:              s.Heroes,
		AvailableDirections: s.AvailableDirections(),
	})
}
