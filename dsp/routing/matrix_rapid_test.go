package routing

import (
	"math"
	"testing"

	"pgregory.net/rapid"
)

var allSources = []Source{None, In1, In2, In1Plus2, In1L, In1R, In2L, In2R}

func randomOutputConfig(t *rapid.T, label string) OutputConfig {
	return OutputConfig{
		Source:   rapid.SampledFrom(allSources).Draw(t, label+".source"),
		MixLevel: rapid.Float64Range(0, 1).Draw(t, label+".mix"),
		Mute:     rapid.Bool().Draw(t, label+".mute"),
	}
}

// TestMatrix_BlockMatchesSample checks that ProcessBlock over a buffer
// produces exactly the same output as calling ProcessSample once per
// sample, for arbitrary routing configuration and input gains.
func TestMatrix_BlockMatchesSample(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 32).Draw(t, "n")

		mBlock := New()
		mSample := New()

		g1 := rapid.Float64Range(0, 2).Draw(t, "gain1")
		g2 := rapid.Float64Range(0, 2).Draw(t, "gain2")
		monoSum := rapid.Bool().Draw(t, "monoSum")

		for _, m := range []*Matrix{mBlock, mSample} {
			if _, err := m.SetInputGain(0, g1); err != nil {
				t.Fatal(err)
			}
			if _, err := m.SetInputGain(1, g2); err != nil {
				t.Fatal(err)
			}
			m.SetMonoSum(monoSum)
		}

		for ch := 0; ch < NumOutputs; ch++ {
			cfg := randomOutputConfig(t, "ch")
			for _, m := range []*Matrix{mBlock, mSample} {
				if _, err := m.SetSource(ch, cfg.Source); err != nil {
					t.Fatal(err)
				}
				if _, err := m.SetMixLevel(ch, cfg.MixLevel); err != nil {
					t.Fatal(err)
				}
				if err := m.SetMute(ch, cfg.Mute); err != nil {
					t.Fatal(err)
				}
			}
		}

		mBlock.Prepare(n)

		in1 := make([]float64, n)
		in2 := make([]float64, n)
		for i := range in1 {
			in1[i] = rapid.Float64Range(-1, 1).Draw(t, "in1")
			in2[i] = rapid.Float64Range(-1, 1).Draw(t, "in2")
		}

		var outsBlock [NumOutputs][]float64
		for ch := range outsBlock {
			outsBlock[ch] = make([]float64, n)
		}

		mBlock.ProcessBlock(in1, in2, outsBlock)

		for i := 0; i < n; i++ {
			var sample [NumOutputs]float64
			mSample.ProcessSample(in1[i], in2[i], &sample)

			for ch := 0; ch < NumOutputs; ch++ {
				if math.Abs(outsBlock[ch][i]-sample[ch]) > 1e-12 {
					t.Fatalf("sample %d channel %d: block=%v sample-by-sample=%v",
						i, ch, outsBlock[ch][i], sample[ch])
				}
			}
		}
	})
}

// TestMatrix_StereoLinkMirrorsSource checks that, with a pair linked,
// setting one channel's source always mirrors onto its mate.
func TestMatrix_StereoLinkMirrorsSource(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := New()

		pair := rapid.IntRange(0, NumPairs-1).Draw(t, "pair")
		if err := m.SetStereoLink(pair, true); err != nil {
			t.Fatal(err)
		}

		ch := pair * 2
		mate := ch ^ 1

		src := rapid.SampledFrom(allSources).Draw(t, "source")
		if _, err := m.SetSource(ch, src); err != nil {
			t.Fatal(err)
		}

		got, err := m.OutputParams(mate)
		if err != nil {
			t.Fatal(err)
		}

		if got.Source != src.Mirror() {
			t.Fatalf("mate source = %v, want %v (mirror of %v)", got.Source, src.Mirror(), src)
		}
	})
}
