// Package engine wires the routing matrix and the four per-output
// processing chains (crossover, PEQ, compressor, delay, limiter) into a
// single orchestrator with one allocation-free Process call per block.
//
// Configuration setters write straight into the component they address,
// on whatever goroutine the host calls them from. There is no staging area
// and no lock: a setter takes effect at once and is not synchronised with
// a Process call running on another goroutine; a setter that returns
// before Process is called is seen in full by that block.
// A sample-rate or temperature change walks every channel and re-derives
// its committed parameters in place; there is no separate "dirty" flag.
package engine
