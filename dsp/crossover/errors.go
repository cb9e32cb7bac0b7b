package crossover

import "errors"

// ErrInvalidMode is returned by Configure when the requested parameter
// combination cannot be realised, e.g. a BandPass band whose lower corner
// is not strictly below its upper corner after clamping.
var ErrInvalidMode = errors.New("crossover: invalid mode/parameter combination")
