// Package store provides SQLite-backed storage for tickscript run traces.
//
// A run is one execution of a world or scenario. For each run the store
// keeps:
//   - Dispatches: every RunEvent call, stamped with the world's logical seq
//   - Variables: each machine's final variable store
//   - Memory: each machine's final memory cells
//
// # Ordering
//
// Dispatch queries are ordered by seq ASC. Seq comes from the runtime's
// logical clock, so two runs of the same world read back identically.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
