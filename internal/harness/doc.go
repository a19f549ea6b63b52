// Package harness provides conformance testing for tickscript programs.
//
// A scenario names a script, the hooks the host provides, initial
// variables, and a list of events to dispatch in order. After the steps
// run, the harness persists the runtime's final state to an in-memory
// store and evaluates the scenario's assertions.
//
// # Scenario Format
//
//	name: counter
//	description: "tick increments a counter"
//	script: counter.ts          # relative to the scenario file
//	# source: |                 # or inline source instead of script
//	#   : tick
//	#    n = n + 1
//	hooks: [ping]
//	seed: {a: 1}
//	memory: {0: 5}
//	steps: [init, tick, tick]
//	assertions:
//	  - type: variable
//	    name: n
//	    equals: 2
//	  - type: trace_count
//	    event: tick
//	    count: 2
//
// # Assertion Types
//
//   - variable: final value of a variable (read back from the store)
//   - memory: final value of a memory cell (read back from the store)
//   - trace_contains: an event was dispatched, optionally with an outcome
//   - trace_order: events were dispatched in this order (gaps allowed)
//   - trace_count: an event was dispatched exactly N times
//   - hook_count: a host hook was called exactly N times
//
// # Deterministic Testing
//
// Every scenario runs with a fresh logical clock, a fixed run id, and an
// in-memory SQLite store, so two runs produce byte-identical snapshots
// for golden comparison.
package harness
