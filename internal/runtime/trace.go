package runtime

// Outcome describes how RunEvent handled a name.
type Outcome string

const (
	// OutcomeHook means a host hook ran.
	OutcomeHook Outcome = "hook"
	// OutcomeBody means the parsed body ran.
	OutcomeBody Outcome = "body"
	// OutcomeReentrant means the event was already running and the call was dropped.
	OutcomeReentrant Outcome = "reentrant"
	// OutcomeUnknown means there was neither a hook nor a body.
	OutcomeUnknown Outcome = "unknown"
)

// Dispatch records one RunEvent call.
type Dispatch struct {
	Seq     int64   `json:"seq"`
	Event   string  `json:"event"`
	Outcome Outcome `json:"outcome"`
	// Depth is the call stack depth at dispatch time; 0 for host calls.
	Depth int `json:"depth"`
}

// Tracer observes dispatches.
type Tracer interface {
	Record(d Dispatch)
}

// TracerFunc adapts a function to the Tracer interface.
type TracerFunc func(d Dispatch)

// Record calls f(d).
func (f TracerFunc) Record(d Dispatch) {
	f(d)
}

// Recorder is a Tracer that keeps every dispatch in memory.
type Recorder struct {
	dispatches []Dispatch
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record appends d.
func (r *Recorder) Record(d Dispatch) {
	r.dispatches = append(r.dispatches, d)
}

// Dispatches returns a copy of the recorded dispatches in order.
func (r *Recorder) Dispatches() []Dispatch {
	out := make([]Dispatch, len(r.dispatches))
	copy(out, r.dispatches)
	return out
}

// Reset discards all recorded dispatches.
func (r *Recorder) Reset() {
	r.dispatches = nil
}
