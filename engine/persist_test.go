package engine

import (
	"math"
	"testing"

	"github.com/cwbudde/xover-engine/dsp/dynamics"
	"github.com/cwbudde/xover-engine/dsp/peq"
	"github.com/cwbudde/xover-engine/dsp/routing"
)

func TestSaveLoad_RoundTrip(t *testing.T) {
	e := newTestEngine(t)

	if err := e.ApplyPreset(ThreeWayStereo); err != nil {
		t.Fatal(err)
	}

	if _, err := e.ConfigureBand(0, 0, peq.BandParams{Kind: peq.Bell, Freq: 500, GainDB: 3, Q: 1.2, Enabled: true}); err != nil {
		t.Fatal(err)
	}

	if _, err := e.ConfigureCompressor(1, dynamics.Config{
		ThresholdDB: -18, Ratio: 4, AttackMs: 5, ReleaseMs: 120, Enabled: true,
	}); err != nil {
		t.Fatal(err)
	}

	if _, err := e.SetDelayTimeMs(2, 12.5); err != nil {
		t.Fatal(err)
	}

	if err := e.SetDelayPolarity(2, true); err != nil {
		t.Fatal(err)
	}

	if _, err := e.SetSource(3, routing.In1Plus2); err != nil {
		t.Fatal(err)
	}

	if _, err := e.SetMixLevel(3, 0.75); err != nil {
		t.Fatal(err)
	}

	blob := e.Save()

	other, err := New(48000, 64, 50)
	if err != nil {
		t.Fatal(err)
	}

	if err := other.Load(blob); err != nil {
		t.Fatalf("Load: %v", err)
	}

	p0, _ := e.BandParams(0)
	op0, _ := other.BandParams(0)
	if p0 != op0 {
		t.Errorf("channel 0 crossover params mismatch: %+v vs %+v", p0, op0)
	}

	// Persisted parameters are stored as 32-bit floats, so compare with a
	// tolerance rather than exact equality.
	const tol = 1e-4

	bp, _ := e.channels[0].peq.BandParams(0)
	obp, _ := other.channels[0].peq.BandParams(0)

	if bp.Kind != obp.Kind || bp.Enabled != obp.Enabled ||
		math.Abs(bp.Freq-obp.Freq) > tol || math.Abs(bp.GainDB-obp.GainDB) > tol || math.Abs(bp.Q-obp.Q) > tol {
		t.Errorf("PEQ band mismatch: %+v vs %+v", bp, obp)
	}

	cfg := e.channels[1].compressor.Params()
	ocfg := other.channels[1].compressor.Params()

	if cfg.Detection != ocfg.Detection || cfg.KneeType != ocfg.KneeType || cfg.Enabled != ocfg.Enabled ||
		math.Abs(cfg.ThresholdDB-ocfg.ThresholdDB) > tol || math.Abs(cfg.Ratio-ocfg.Ratio) > tol ||
		math.Abs(cfg.AttackMs-ocfg.AttackMs) > tol || math.Abs(cfg.ReleaseMs-ocfg.ReleaseMs) > tol {
		t.Errorf("compressor config mismatch: %+v vs %+v", cfg, ocfg)
	}

	if math.Abs(e.channels[2].delay.TimeMs()-other.channels[2].delay.TimeMs()) > 1e-6 {
		t.Error("delay time did not round-trip")
	}

	if !other.channels[2].delay.Polarity() {
		t.Error("delay polarity did not round-trip")
	}

	op3, _ := other.routing.OutputParams(3)
	if op3.Source != routing.In1Plus2 || math.Abs(op3.MixLevel-0.75) > 1e-6 {
		t.Errorf("routing output 3 mismatch: %+v", op3)
	}
}

func TestLoad_RejectsBadVersion(t *testing.T) {
	e := newTestEngine(t)

	bad := []byte{0xFF, 0xFF, 0xFF, 0xFF}
	if err := e.Load(bad); err == nil {
		t.Error("expected error for bad version tag")
	}
}

func TestLoad_RejectsTruncatedBlob(t *testing.T) {
	e := newTestEngine(t)

	full := e.Save()
	if err := e.Load(full[:len(full)/2]); err == nil {
		t.Error("expected error for truncated blob")
	}
}
