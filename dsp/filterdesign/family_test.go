package filterdesign

import (
	"testing"

	"github.com/cwbudde/xover-engine/dsp/biquad"
)

func TestFamily_String(t *testing.T) {
	tests := []struct {
		f    Family
		want string
	}{
		{Butterworth, "Butterworth"},
		{LinkwitzRiley, "LinkwitzRiley"},
		{Bessel, "Bessel"},
		{Family(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.f.String(); got != tt.want {
			t.Errorf("%v.String() = %q, want %q", tt.f, got, tt.want)
		}
	}
}

func TestFamily_NormalizeOrder(t *testing.T) {
	if got := LinkwitzRiley.NormalizeOrder(3); got != 4 {
		t.Errorf("LinkwitzRiley.NormalizeOrder(3) = %d, want 4", got)
	}

	if got := LinkwitzRiley.NormalizeOrder(4); got != 4 {
		t.Errorf("LinkwitzRiley.NormalizeOrder(4) = %d, want 4", got)
	}

	if got := Butterworth.NormalizeOrder(3); got != 3 {
		t.Errorf("Butterworth.NormalizeOrder(3) = %d, want 3", got)
	}

	if got := Bessel.NormalizeOrder(0); got != 1 {
		t.Errorf("Bessel.NormalizeOrder(0) = %d, want 1", got)
	}
}

func TestFamily_DesignLP(t *testing.T) {
	sr := 48000.0
	fc := 1000.0

	for _, f := range []Family{Butterworth, LinkwitzRiley, Bessel} {
		sections := f.DesignLP(fc, 4, sr)
		if len(sections) == 0 {
			t.Fatalf("%v.DesignLP returned no sections", f)
		}

		for _, s := range sections {
			assertFiniteCoefficients(t, s)
			assertStableSection(t, s)
		}
	}
}

func TestFamily_DesignHP_LinkwitzRileyAllpassSum(t *testing.T) {
	sr := 48000.0
	fc := 1000.0

	for _, order := range []int{2, 4, 6, 8} {
		lp := LinkwitzRiley.DesignLP(fc, order, sr)
		hp := LinkwitzRiley.DesignHP(fc, order, sr)

		lpChain := biquad.NewChain(lp)
		hpChain := biquad.NewChain(hp)

		sum := lpChain.Response(fc, sr) + hpChain.Response(fc, sr)
		if mag := cmplxAbs(sum); mag < 0.9 || mag > 1.1 {
			t.Errorf("order %d: LP+HP at crossover mag=%.4f, want ~1 (allpass)", order, mag)
		}
	}
}

func TestFamily_DesignLP_InvalidOrderNormalized(t *testing.T) {
	sr := 48000.0
	sections := LinkwitzRiley.DesignLP(1000, 3, sr)
	if len(sections) == 0 {
		t.Fatal("expected LinkwitzRiley.DesignLP to normalize odd order to even and succeed")
	}
}
