package engine

import "errors"

var (
	// ErrInvalidChannel is returned when a channel index is out of [0, NumChannels).
	ErrInvalidChannel = errors.New("engine: channel index out of range")
	// ErrNotInitialised names the not-initialised condition; no function in
	// this package returns it, and a zero-value Engine is not usable (see
	// Engine).
	ErrNotInitialised = errors.New("engine: not initialised")
	// ErrAllocationFailure is returned by New if sampleRate, blockSize or
	// maxDelayMs is not positive or a channel's buffers could not be
	// constructed (no partial engine is returned in that case), and by
	// UpdateSampleRate for a non-positive sample rate.
	ErrAllocationFailure = errors.New("engine: allocation failure during init")
	// ErrInvalidPreset is returned by ApplyPreset for an unrecognised preset ID.
	ErrInvalidPreset = errors.New("engine: invalid preset id")
	// ErrInvalidState is returned by Load when the persisted blob is the
	// wrong size or carries an unsupported version tag.
	ErrInvalidState = errors.New("engine: invalid persisted state")
)
