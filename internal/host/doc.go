// Package host runs tickscript programs as machines in a headless grid
// world.
//
// Each machine owns one runtime.Runtime. Before its init event runs, the
// machine registers the host hooks:
//
//	up, down, left, right   move one cell (up is y-1); blocked by any occupant
//	ping                    log "pong; a = <a>"
//
// World.Step runs the tick event of every machine once, in the order the
// machines were added. All machines share the world's logical clock, so
// World.Trace is a single totally ordered log.
package host
