package routing

import "errors"

var (
	// ErrInvalidInput is returned when an input index is out of [0, NumInputs).
	ErrInvalidInput = errors.New("routing: input index out of range")
	// ErrInvalidOutput is returned when an output index is out of [0, NumOutputs).
	ErrInvalidOutput = errors.New("routing: output index out of range")
	// ErrInvalidPair is returned when a stereo-link pair index is out of range.
	ErrInvalidPair = errors.New("routing: stereo-link pair index out of range")
)
