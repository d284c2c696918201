package net

// Message types for the JSON protocol shared by the web and MCP front ends.

const (
	KindReconstruct = "reconstruct"
	KindSimulate    = "simulate"
)

// --- Client → Server messages ---

// ClientMessage requests a generated procedure.
type ClientMessage struct {
	Type   string `json:"type"` // KindReconstruct or KindSimulate
	Cards  int    `json:"cards"`
	Stacks int    `json:"stacks,omitempty"` // simulate only
	Seed   uint64 `json:"seed,omitempty"`   // 0 for random
}

// --- Server → Client messages ---

// ServerMessage is the envelope for all server-to-client messages.
type ServerMessage struct {
	Type string `json:"type"` // "instruction", "done" or "error"

	// For "instruction"
	Instruction *InstructionView `json:"instruction,omitempty"`

	// For "done"
	Result *ResultView `json:"result,omitempty"`

	// For "error"
	Error string `json:"error,omitempty"`
}

// InstructionView is a numbered instruction for the client.
type InstructionView struct {
	Step  int    `json:"step"`
	Type  string `json:"type"`
	Text  string `json:"text"`
	Stack int    `json:"stack,omitempty"`
	Onto  int    `json:"onto,omitempty"`
	Count int    `json:"count,omitempty"`
	Order []int  `json:"order,omitempty"` // RandomGather slot order
}

// ReplayView is the outcome of replaying instructions on an ordered deck.
type ReplayView struct {
	Cards  int     `json:"cards"`
	Stacks int     `json:"stacks,omitempty"` // slot count; 0 for unbounded stacks
	Decks  [][]int `json:"decks"`            // remaining stacks, bottom first
}

// ResultView summarizes a generated procedure.
type ResultView struct {
	RunID        string            `json:"run_id"`
	Kind         string            `json:"kind"`
	Seed         uint64            `json:"seed"`
	Cards        int               `json:"cards"`
	Stacks       int               `json:"stacks,omitempty"`
	Deck         []int             `json:"deck"` // target or emergent deck, bottom first
	Verified     bool              `json:"verified"`
	Instructions []InstructionView `json:"instructions,omitempty"`
}
