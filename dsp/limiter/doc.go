// Package limiter implements a peak-only limiter: optional inter-sample-peak
// estimation, optional lookahead delay, a peak-hold envelope with a hold
// counter to suppress pumping, and a hard-clip safety net.
package limiter
