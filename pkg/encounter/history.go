package encounter

import (
	"time"

	"github.com/jwebster45206/overland/pkg/dice"
)

// MaxHistory is how many entries a History keeps.
const MaxHistory = 20

// HistoryEntry records one resolved encounter for display and logging.
type HistoryEntry struct {
	Name      string       `json:"name"`
	Outcome   dice.Outcome `json:"outcome,omitempty"`
	HeroID    string       `json:"hero_id,omitempty"`
	XPGained  int          `json:"xp_gained"`
	Timestamp time.Time    `json:"timestamp"`
}

// History is an append-only log of the most recent encounters, oldest first.
type History []HistoryEntry

// Append adds e and evicts the oldest entries beyond MaxHistory.
func (h History) Append(e HistoryEntry) History {
	h = append(h, e)
	if over := len(h) - MaxHistory; over > 0 {
		h = append(History(nil), h[over:]...)
	}
	return h
}

// Last returns the most recent entry.
func (h History) Last() (HistoryEntry, bool) {
	if len(h) == 0 {
		return HistoryEntry{}, false
	}
	return h[len(h)-1], true
}
