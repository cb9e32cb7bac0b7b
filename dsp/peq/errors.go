package peq

import "errors"

var (
	// ErrInvalidBand is returned when a band index is out of [0, NumBands).
	ErrInvalidBand = errors.New("peq: band index out of range")
	// ErrInvalidParameter is returned when a band's kind is unrecognised or
	// its design parameters cannot produce finite coefficients.
	ErrInvalidParameter = errors.New("peq: invalid band parameter")
)
