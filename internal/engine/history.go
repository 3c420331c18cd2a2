package engine

import (
	"time"

	"github.com/google/uuid"
)

// Edit history actions.
const (
	ActionCellEdit = "cell_edit"
	ActionReset    = "reset"
)

// EditEntry is one entry in the in-session edit trail.
type EditEntry struct {
	ID       string    `json:"id"`
	Action   string    `json:"action"`
	Index    int       `json:"index"`
	Column   string    `json:"column,omitempty"`
	OldValue string    `json:"oldValue,omitempty"`
	NewValue string    `json:"newValue,omitempty"`
	At       time.Time `json:"at"`
}

// history keeps a bounded, in-memory trail of edits for the active
// session. It exists for operator visibility only; nothing replays it.
// Persistence is out of scope, so entries die with the session.
type history struct {
	entries []EditEntry
	max     int
}

func newHistory(max int) *history {
	if max < 1 {
		max = 1
	}
	return &history{max: max}
}

// record appends an entry, evicting the oldest when the bound is reached.
func (h *history) record(action string, index int, column, oldValue, newValue string) EditEntry {
	e := EditEntry{
		ID:       uuid.NewString(),
		Action:   action,
		Index:    index,
		Column:   column,
		OldValue: oldValue,
		NewValue: newValue,
		At:       time.Now(),
	}
	h.entries = append(h.entries, e)
	if len(h.entries) > h.max {
		h.entries = h.entries[len(h.entries)-h.max:]
	}
	return e
}

// recent returns up to limit entries, newest first. limit <= 0 returns all.
func (h *history) recent(limit int) []EditEntry {
	n := len(h.entries)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]EditEntry, limit)
	for i := 0; i < limit; i++ {
		out[i] = h.entries[n-1-i]
	}
	return out
}

func (h *history) clear() {
	h.entries = nil
}
