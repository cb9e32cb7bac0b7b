package dynamics

import (
	"math"
	"testing"

	"pgregory.net/rapid"

	"github.com/cwbudde/xover-engine/dsp/core"
)

// TestCompressor_SteadyStateLaw checks that a hard-knee compressor driven
// with a constant-level input long enough for its envelope follower to
// settle reports gain reduction matching the textbook law:
//
//	GR = max(0, (level - threshold) * (1 - 1/ratio))
func TestCompressor_SteadyStateLaw(t *testing.T) {
	const sampleRate = 2000.0

	rapid.Check(t, func(t *rapid.T) {
		thresholdDB := rapid.Float64Range(-40, 0).Draw(t, "thresholdDB")
		ratio := rapid.Float64Range(1, 10).Draw(t, "ratio")
		attackMs := rapid.Float64Range(1, 50).Draw(t, "attackMs")
		overshoot := rapid.Float64Range(0, 30).Draw(t, "overshoot")

		c := New(sampleRate)
		c.Configure(Config{
			ThresholdDB: thresholdDB,
			Ratio:       ratio,
			AttackMs:    attackMs,
			ReleaseMs:   100,
			KneeWidthDB: 0,
			MakeupDB:    0,
			Detection:   Peak,
			KneeType:    Hard,
			Enabled:     true,
		})

		levelDB := thresholdDB + overshoot
		x := core.DBToLinear(levelDB)

		// 3000 samples comfortably exceeds 15 attack time-constants for
		// every attackMs in range at this sample rate.
		for i := 0; i < 3000; i++ {
			c.ProcessSample(x)
		}

		want := math.Max(0, overshoot*(1-1/ratio))
		got := c.GainReductionDB()

		if math.Abs(got-want) > 1e-3 {
			t.Fatalf("GainReductionDB()=%v, want %v (threshold=%v ratio=%v overshoot=%v)",
				got, want, thresholdDB, ratio, overshoot)
		}
	})
}
