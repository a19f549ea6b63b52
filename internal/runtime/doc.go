// Package runtime executes parsed tickscript programs.
//
// A Runtime owns one program plus the mutable state it runs against:
// integer variables, integer-indexed memory, the host's hooks, and the
// stack of events currently executing.
//
// EXECUTION MODEL:
//
// RunEvent is synchronous and depth-first. An event body runs to
// completion, including every event it calls, before RunEvent returns.
// There are no suspension points and no goroutines.
//
// Dispatch order for RunEvent(name):
//  1. A hook registered for name runs instead of any body.
//  2. A body for name runs unless name is already on the call stack,
//     in which case the call is dropped.
//  3. Anything else is a no-op.
//
// Runtime operations never fail once a program has parsed: unset
// variables and memory read as 0, and division or modulo by zero
// yields 0.
//
// A Runtime is not safe for concurrent use. Each host agent owns one.
package runtime
