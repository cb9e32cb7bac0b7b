// Package peq implements a fixed five-band parametric equaliser per output
// channel. Each band owns a single biquad.Section designed via
// dsp/filterdesign's RBJ cookbook formulas. Bands are processed strictly in
// index order 0..4; disabled bands are skipped entirely rather than run as
// an identity filter, matching spec.md's "bypassed (not processed)" rule.
package peq
