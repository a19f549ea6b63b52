package store

import "github.com/roach88/tickscript/internal/runtime"

// Run describes one recorded execution.
type Run struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Ticks int    `json:"ticks"`
	// FinalSeq is the last logical clock value issued during the run.
	FinalSeq int64 `json:"final_seq"`
}

// Dispatch is a runtime dispatch attributed to the machine that made it.
type Dispatch struct {
	Machine string `json:"machine"`
	runtime.Dispatch
}

// DispatchFilter narrows ReadDispatches. Empty fields match everything.
type DispatchFilter struct {
	Machine string
	Event   string
}
