package routing

// Source selects which input (or combination) feeds an output.
type Source int

const (
	// None produces silence.
	None Source = iota
	// In1 selects input 1 directly.
	In1
	// In2 selects input 2 directly.
	In2
	// In1Plus2 mixes In1 and In2 by the output's mix level.
	In1Plus2
	// In1L selects input 1's left-leg routing (stereo-link partner of In1R).
	In1L
	// In1R selects input 1's right-leg routing (stereo-link partner of In1L).
	In1R
	// In2L selects input 2's left-leg routing (stereo-link partner of In2R).
	In2L
	// In2R selects input 2's right-leg routing (stereo-link partner of In2L).
	In2R
)

// String returns the source's name.
func (s Source) String() string {
	switch s {
	case None:
		return "None"
	case In1:
		return "In1"
	case In2:
		return "In2"
	case In1Plus2:
		return "In1+In2"
	case In1L:
		return "In1L"
	case In1R:
		return "In1R"
	case In2L:
		return "In2L"
	case In2R:
		return "In2R"
	default:
		return "Unknown"
	}
}

// Mirror returns the source a stereo-linked mate adopts when this source is
// set on its partner: In1 swaps with In2, In1L swaps with In1R, In2L swaps
// with In2R; None and In1Plus2 are self-mirrored.
func (s Source) Mirror() Source {
	switch s {
	case In1:
		return In2
	case In2:
		return In1
	case In1L:
		return In1R
	case In1R:
		return In1L
	case In2L:
		return In2R
	case In2R:
		return In2L
	default:
		return s
	}
}
