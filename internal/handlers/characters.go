package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/jwebster45206/overland/pkg/actor"
	"github.com/jwebster45206/overland/pkg/progression"
	"github.com/jwebster45206/overland/pkg/storage"
)

type CharacterHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

func NewCharacterHandler(storage storage.Storage, logger *slog.Logger) *CharacterHandler {
	return &CharacterHandler{storage: storage, logger: logger}
}

// CharacterSummary is a list entry
type CharacterSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Class string `json:"class"`
	Race  string `json:"race,omitempty"`
	MaxHP int    `json:"max_hp"`
}

// CharacterDetail is a definition plus the level-1 hero it would create
type CharacterDetail struct {
	Character *actor.Character `json:"character"`
	Preview   *actor.Hero      `json:"preview"`
}

// ServeHTTP handles character requests
// Routes:
// GET /v1/characters      - List available characters
// GET /v1/characters/{id} - Read one character with a level-1 preview
func (h *CharacterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: GET")
		return
	}

	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/characters"), "/")
	if id == "" {
		h.handleList(w, r)
		return
	}
	h.handleGet(w, r, id)
}

func (h *CharacterHandler) handleList(w http.ResponseWriter, r *http.Request) {
	ids, err := h.storage.ListCharacters(r.Context())
	if err != nil {
		h.logger.Error("Failed to list characters", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to list characters")
		return
	}

	// Initialize as empty slice instead of nil
	list := make([]CharacterSummary, 0, len(ids))
	for _, id := range ids {
		c, err := h.storage.GetCharacter(r.Context(), id)
		if err != nil || c == nil {
			h.logger.Warn("Failed to load character", "error", err, "id", id)
			continue
		}
		summary := CharacterSummary{ID: c.ID, Name: c.Name, Class: actor.NormalizeClass(c.Class), Race: c.Race}
		if hero, err := actor.NewHero(*c, progression.ClassHitDice{}); err == nil {
			summary.MaxHP = hero.MaxHP
		} else {
			h.logger.Warn("Invalid character definition", "error", err, "id", id)
			continue
		}
		list = append(list, summary)
	}

	writeJSON(w, h.logger, http.StatusOK, list)
}

func (h *CharacterHandler) handleGet(w http.ResponseWriter, r *http.Request, id string) {
	c, err := h.storage.GetCharacter(r.Context(), id)
	if err != nil {
		h.logger.Warn("Failed to load character", "error", err, "id", id)
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}
	if c == nil {
		writeError(w, h.logger, http.StatusNotFound, "Character not found")
		return
	}

	preview, err := actor.NewHero(*c, progression.ClassHitDice{})
	if err != nil {
		writeError(w, h.logger, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, h.logger, http.StatusOK, CharacterDetail{Character: c, Preview: preview})
}
