package interp

// Mode selects the fractional-sample interpolation algorithm used by a
// delay line read.
type Mode int

const (
	// Linear is 2-point linear interpolation (the default).
	Linear Mode = iota
	// Hermite is 4-point cubic Hermite interpolation.
	Hermite
)

// String returns the mode's name.
func (m Mode) String() string {
	switch m {
	case Linear:
		return "Linear"
	case Hermite:
		return "Hermite"
	default:
		return "Unknown"
	}
}

// Linear2 interpolates between x0 and x1 at fraction t in [0,1].
func Linear2(t, x0, x1 float64) float64 {
	return x0 + t*(x1-x0)
}

// Hermite4 computes cubic 4-point interpolation. It interpolates from x0
// to x1 at fraction t using neighbor points xm1 and x2.
func Hermite4(t, xm1, x0, x1, x2 float64) float64 {
	c0 := x0
	c1 := 0.5 * (x1 - xm1)
	c2 := xm1 - 2.5*x0 + 2*x1 - 0.5*x2
	c3 := 0.5*(x2-xm1) + 1.5*(x0-x1)

	return ((c3*t+c2)*t+c1)*t + c0
}
