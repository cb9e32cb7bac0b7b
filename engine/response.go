package engine

// FrequencyResponse evaluates channel ch's combined crossover+PEQ transfer
// function at each frequency in freqs. The compressor, delay and limiter
// are time-varying/nonlinear and contribute no meaningful point in a
// static frequency response, so they are excluded; this mirrors what a
// UI's response-curve overlay would want to plot.
func (e *Engine) FrequencyResponse(ch int, freqs []float64) ([]complex128, error) {
	if err := e.checkChannel(ch); err != nil {
		return nil, err
	}

	out := make([]complex128, len(freqs))
	c := e.channels[ch]

	for i, f := range freqs {
		out[i] = c.crossover.Response(f) * c.peq.Response(f)
	}

	return out, nil
}
