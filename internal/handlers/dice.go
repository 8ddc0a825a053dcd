package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jwebster45206/overland/pkg/dice"
)

type DiceHandler struct {
	roller *dice.Roller
	logger *slog.Logger
}

// NewDiceHandler creates a dice handler. A nil roller uses ambient dice.
func NewDiceHandler(roller *dice.Roller, logger *slog.Logger) *DiceHandler {
	if roller == nil {
		roller = dice.NewRoller(nil)
	}
	return &DiceHandler{roller: roller, logger: logger}
}

type RollRequest struct {
	Count int `json:"count"`
	Sides int `json:"sides"`
}

type CheckRequest struct {
	Modifier     int  `json:"modifier"`
	Advantage    bool `json:"advantage,omitempty"`
	Disadvantage bool `json:"disadvantage,omitempty"`
	DC           *int `json:"dc,omitempty"`
}

type CheckResponse struct {
	dice.Check
	DC      *int         `json:"dc,omitempty"`
	Outcome dice.Outcome `json:"outcome,omitempty"`
}

// ServeHTTP handles dice requests
// Routes:
// POST /v1/dice/roll  - Roll count dice with the given sides
// POST /v1/dice/check - Roll a d20 check
func (h *DiceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST")
		return
	}

	switch strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/dice"), "/") {
	case "roll":
		h.handleRoll(w, r)
	case "check":
		h.handleCheck(w, r)
	default:
		writeError(w, h.logger, http.StatusNotFound, "Not found")
	}
}

func (h *DiceHandler) handleRoll(w http.ResponseWriter, r *http.Request) {
	var req RollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	if err := dice.ValidateSpec(req.Count, req.Sides); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}
	if req.Count > 100 || req.Sides > 1000 {
		writeError(w, h.logger, http.StatusBadRequest, "at most 100 dice of up to 1000 sides")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, h.roller.RollDice(req.Count, req.Sides))
}

func (h *DiceHandler) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	check := h.roller.RollCheck(req.Modifier, req.Advantage, req.Disadvantage)
	resp := CheckResponse{Check: check, DC: req.DC}
	if req.DC != nil {
		resp.Outcome = check.Against(*req.DC)
	}
	writeJSON(w, h.logger, http.StatusOK, resp)
}
