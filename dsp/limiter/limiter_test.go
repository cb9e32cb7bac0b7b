package limiter

import (
	"math"
	"testing"

	"github.com/cwbudde/xover-engine/dsp/core"
)

func TestLimiter_DisabledIsIdentity(t *testing.T) {
	l := New(48000)
	if y := l.ProcessSample(0.5); y != 0.5 {
		t.Fatalf("disabled ProcessSample(0.5) = %v, want 0.5", y)
	}
}

func TestLimiter_Configure_ClampsRange(t *testing.T) {
	l := New(48000)
	adopted := l.Configure(Config{
		ThresholdDB: -1000,
		CeilingDB:   1000,
		AttackMs:    -5,
		ReleaseMs:   1e9,
		LookaheadMs: -1,
		Enabled:     true,
	})

	if adopted.ThresholdDB != minThresholdDB {
		t.Errorf("ThresholdDB = %v, want %v", adopted.ThresholdDB, minThresholdDB)
	}

	if adopted.CeilingDB != maxCeilingDB {
		t.Errorf("CeilingDB = %v, want %v", adopted.CeilingDB, maxCeilingDB)
	}

	if adopted.AttackMs != minAttackMs {
		t.Errorf("AttackMs = %v, want %v", adopted.AttackMs, minAttackMs)
	}

	if adopted.ReleaseMs != maxReleaseMs {
		t.Errorf("ReleaseMs = %v, want %v", adopted.ReleaseMs, maxReleaseMs)
	}

	if adopted.LookaheadMs != minLookaheadMs {
		t.Errorf("LookaheadMs = %v, want %v", adopted.LookaheadMs, minLookaheadMs)
	}
}

func TestLimiter_LimitsAboveThreshold(t *testing.T) {
	l := New(48000)
	l.Configure(Config{
		ThresholdDB: -6,
		CeilingDB:   -0.1,
		AttackMs:    0.1,
		ReleaseMs:   50,
		Enabled:     true,
	})

	sr := 48000.0
	freq := 1000.0

	var maxOut float64
	for i := range 20000 {
		x := 0.95 * math.Sin(2*math.Pi*freq*float64(i)/sr)
		y := l.ProcessSample(x)
		if a := math.Abs(y); a > maxOut {
			maxOut = a
		}
	}

	ceiling := core.DBToLinear(-0.1)
	if maxOut > ceiling+1e-9 {
		t.Errorf("output exceeded ceiling: %v > %v", maxOut, ceiling)
	}

	if !l.IsActive() {
		t.Errorf("expected limiter to be active on a signal above threshold")
	}
}

func TestLimiter_NoReductionBelowThreshold(t *testing.T) {
	l := New(48000)
	l.Configure(Config{
		ThresholdDB: -3,
		CeilingDB:   -0.1,
		AttackMs:    0.1,
		ReleaseMs:   50,
		Enabled:     true,
	})

	sr := 48000.0
	freq := 1000.0

	for i := range 20000 {
		x := 0.1 * math.Sin(2*math.Pi*freq*float64(i)/sr)
		l.ProcessSample(x)
	}

	if l.GainReductionDB() > 0.01 {
		t.Errorf("expected ~0 gain reduction below threshold, got %v", l.GainReductionDB())
	}

	if l.IsActive() {
		t.Errorf("expected limiter inactive below threshold")
	}
}

func TestLimiter_GainReductionFlooredAt24dB(t *testing.T) {
	l := New(48000)
	l.Configure(Config{
		ThresholdDB: -24,
		CeilingDB:   -0.1,
		AttackMs:    0.01,
		ReleaseMs:   1,
		Enabled:     true,
	})

	for range 5000 {
		l.ProcessSample(1.0)
	}

	if l.GainReductionDB() > gainReductionFloorDB*-1+0.5 {
		t.Errorf("gain reduction %v exceeds floor of %v dB", l.GainReductionDB(), -gainReductionFloorDB)
	}
}

func TestLimiter_LookaheadDelaysProgramPath(t *testing.T) {
	l := New(48000)
	l.Configure(Config{
		ThresholdDB: 0,
		CeilingDB:   0,
		LookaheadMs: 1,
		Enabled:     true,
	})

	impulse := make([]float64, 200)
	impulse[0] = 1.0

	nonZeroIdx := -1
	for i, x := range impulse {
		y := l.ProcessSample(x)
		if y != 0 && nonZeroIdx == -1 {
			nonZeroIdx = i
		}
	}

	if nonZeroIdx <= 0 {
		t.Errorf("expected lookahead to delay the impulse past sample 0, got index %d", nonZeroIdx)
	}
}

func TestLimiter_HoldCounterPinsGain(t *testing.T) {
	l := New(48000)
	l.Configure(Config{
		ThresholdDB: -6,
		CeilingDB:   -0.1,
		AttackMs:    0.01,
		ReleaseMs:   1,
		Enabled:     true,
	})

	l.ProcessSample(1.0)
	gainAfterPeak := l.currentGain

	l.ProcessSample(0)

	if l.currentGain != gainAfterPeak {
		t.Errorf("gain changed during hold window: %v -> %v", gainAfterPeak, l.currentGain)
	}
}

func TestLimiter_ISPEstimationRaisesDetectedLevel(t *testing.T) {
	l := New(48000)
	l.Configure(Config{ThresholdDB: -24, CeilingDB: -0.1, Enabled: true, ISPEstimation: true})

	l.prevSample = 0.5
	withISP := l.detectMagnitude(0.9)

	l.cfg.ISPEstimation = false
	withoutISP := l.detectMagnitude(0.9)

	if withISP <= withoutISP {
		t.Errorf("expected ISP estimate (%v) to exceed raw magnitude (%v)", withISP, withoutISP)
	}
}

func TestLimiter_Reset(t *testing.T) {
	l := New(48000)
	l.Configure(Config{ThresholdDB: -6, CeilingDB: -0.1, Enabled: true})

	for range 1000 {
		l.ProcessSample(0.9)
	}

	l.Reset()

	if l.envelope != 0 {
		t.Errorf("envelope not reset: %v", l.envelope)
	}

	if l.currentGain != 1.0 {
		t.Errorf("gain not reset: %v", l.currentGain)
	}

	p := l.Params()
	if p.ThresholdDB != -6 {
		t.Errorf("Reset should not change configuration, got threshold=%v", p.ThresholdDB)
	}
}

func TestLimiter_ProcessBlock(t *testing.T) {
	l := New(48000)
	buf := []float64{0.1, 0.2, 0.3}
	l.ProcessBlock(buf)

	want := []float64{0.1, 0.2, 0.3}
	for i := range buf {
		if buf[i] != want[i] {
			t.Errorf("buf[%d] = %v, want %v", i, buf[i], want[i])
		}
	}
}
