package calculator

import (
	"math"

	"go-chi-calculator/internal/engine"
	"go-chi-calculator/internal/keymap"
)

// CommandRequest is the JSON body for POST /calculator/sessions/{id}/commands
// and POST /calculator/evaluate.
type CommandRequest struct {
	Commands []string `json:"commands"` // keypad captions or aliases: "7", "+", "×", "sqrt", "M+"
}

// KeysRequest is the JSON body for POST /calculator/sessions/{id}/keys.
type KeysRequest struct {
	Keys []keymap.KeyEvent `json:"keys"`
}

// State is what a display collaborator renders.
type State struct {
	SessionID    string   `json:"session_id,omitempty"`
	Display      string   `json:"display"`
	History      string   `json:"history"`
	MemoryActive bool     `json:"memory_active"`
	Locked       bool     `json:"locked"`
	Editing      bool     `json:"editing"`
	Pending      string   `json:"pending,omitempty"`
	Value        *float64 `json:"value,omitempty"` // omitted for NaN and ±Inf
}

// Result is the state after a batch of commands.
type Result struct {
	State
	Applied  int `json:"applied"`
	Rejected int `json:"rejected"`
}

func stateOf(id string, snap engine.Snapshot) State {
	st := State{
		SessionID:    id,
		Display:      snap.Display,
		History:      snap.History,
		MemoryActive: snap.MemoryActive,
		Locked:       snap.Locked,
		Editing:      snap.Editing,
		Pending:      snap.Pending.Symbol(),
	}
	if !math.IsNaN(snap.Value) && !math.IsInf(snap.Value, 0) {
		v := snap.Value
		st.Value = &v
	}
	return st
}
