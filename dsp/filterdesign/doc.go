// Package filterdesign derives [biquad.Coefficients] from filter
// parameters: the RBJ "cookbook" formulas for single-biquad filter kinds
// (used by the parametric EQ), and cascade builders for the three
// crossover filter families (Butterworth, Linkwitz-Riley, Bessel).
//
// All derivations are deterministic and dependency-free, and every
// returned [biquad.Coefficients] value is normalised so a0 = 1.
package filterdesign
