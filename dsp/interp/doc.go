// Package interp provides the two interpolation primitives used by the
// delay line: [Linear2] (cheap, default for short delays) and [Hermite4]
// (4-point cubic, smoother pitch-modulation behaviour). The [Mode] enum
// selects the algorithm; [delay.Line] takes it at construction (WithMode)
// and can switch it later (SetMode).
package interp
