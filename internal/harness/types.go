package harness

import "github.com/roach88/tickscript/internal/runtime"

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// RunID identifies the run in the scenario's store.
	RunID string `json:"run_id"`

	// Trace contains every dispatch in seq order.
	Trace []runtime.Dispatch `json:"trace"`

	// Errors contains assertion failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	Variables map[string]int `json:"variables"`
	Memory    map[int]int    `json:"memory,omitempty"`

	// HookCalls counts calls per scenario hook.
	HookCalls map[string]int `json:"hook_calls,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:      true,
		Trace:     []runtime.Dispatch{},
		Errors:    []string{},
		Variables: make(map[string]int),
		Memory:    make(map[int]int),
		HookCalls: make(map[string]int),
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
