// Package planner assembles battery-feasible multi-stop EV routes. The
// assembler is a bounded greedy state machine: it commits to the best-ranked
// reachable charging stop, recharges, advances, and repeats until the
// destination is in range or a hard stop cap is hit. It does not backtrack
// over committed stops and does not promise global optimality; it promises a
// deterministic, explainable result and an explicit typed failure when no
// feasible plan exists.
//
// Router usage is bounded: with a stop cap of N and C candidate stations,
// each stop iteration routes at most every unvisited candidate once (skipped
// on failure or over-range legs) plus one final-leg check, so a single plan
// makes at most N*(C+1) router calls. On the happy path where the top-ranked
// candidate commits, that collapses to one call per stop plus the final leg.
package planner
