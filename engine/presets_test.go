package engine

import (
	"testing"

	"github.com/cwbudde/xover-engine/dsp/crossover"
	"github.com/cwbudde/xover-engine/dsp/filterdesign"
)

func TestApplyPreset_TwoWayStereo(t *testing.T) {
	e := newTestEngine(t)

	if err := e.ApplyPreset(TwoWayStereo); err != nil {
		t.Fatalf("ApplyPreset: %v", err)
	}

	for ch := 0; ch < 2; ch++ {
		p, err := e.BandParams(ch)
		if err != nil {
			t.Fatal(err)
		}

		if p.Mode != crossover.HighPass || p.Freq != 80 || p.Family != filterdesign.LinkwitzRiley {
			t.Errorf("channel %d = %+v, want HP@80 LR24", ch, p)
		}
	}

	for ch := 2; ch < 4; ch++ {
		p, err := e.BandParams(ch)
		if err != nil {
			t.Fatal(err)
		}

		if p.Mode != crossover.LowPass || p.Freq != 80 {
			t.Errorf("channel %d = %+v, want LP@80", ch, p)
		}
	}
}

func TestApplyPreset_TriAmp(t *testing.T) {
	e := newTestEngine(t)

	if err := e.ApplyPreset(TriAmp); err != nil {
		t.Fatalf("ApplyPreset: %v", err)
	}

	p0, _ := e.BandParams(0)
	if p0.Mode != crossover.HighPass || p0.Freq != 3000 {
		t.Errorf("channel 0 = %+v, want HP@3000", p0)
	}

	p1, _ := e.BandParams(1)
	if p1.Mode != crossover.BandPass || p1.Freq != 500 || p1.FreqHigh != 3000 {
		t.Errorf("channel 1 = %+v, want BP 500-3000", p1)
	}

	p2, _ := e.BandParams(2)
	if p2.Mode != crossover.BandPass || p2.Freq != 80 || p2.FreqHigh != 500 {
		t.Errorf("channel 2 = %+v, want BP 80-500", p2)
	}

	p3, _ := e.BandParams(3)
	if p3.Mode != crossover.LowPass || p3.Freq != 80 {
		t.Errorf("channel 3 = %+v, want LP@80", p3)
	}
}

func TestApplyPreset_SubPlusFullUsesButterworth(t *testing.T) {
	e := newTestEngine(t)

	if err := e.ApplyPreset(SubPlusFull); err != nil {
		t.Fatalf("ApplyPreset: %v", err)
	}

	p0, _ := e.BandParams(0)
	if p0.Family != filterdesign.Butterworth || p0.SlopeDBPerOct != 12 {
		t.Errorf("channel 0 family/slope = %v/%d, want Butterworth/12", p0.Family, p0.SlopeDBPerOct)
	}

	p2, _ := e.BandParams(2)
	if p2.Family != filterdesign.Butterworth || p2.SlopeDBPerOct != 24 {
		t.Errorf("channel 2 family/slope = %v/%d, want Butterworth/24", p2.Family, p2.SlopeDBPerOct)
	}
}

func TestApplyPreset_InvalidID(t *testing.T) {
	e := newTestEngine(t)

	if err := e.ApplyPreset(Preset(99)); err != ErrInvalidPreset {
		t.Errorf("got %v, want ErrInvalidPreset", err)
	}
}
