package biquad

import (
	"math"
	"testing"
)

func twoSectionCoeffs() []Coefficients {
	return []Coefficients{
		{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04},
		{B0: 0.1, B1: 0.2, B2: 0.1, A1: -0.5, A2: 0.1},
	}
}

func TestNewChain(t *testing.T) {
	coeffs := twoSectionCoeffs()

	c := NewChain(coeffs)
	if c.NumSections() != 2 {
		t.Fatalf("NumSections: got %d, want 2", c.NumSections())
	}

	if c.Order() != 4 {
		t.Fatalf("Order: got %d, want 4", c.Order())
	}

	if c.gain != 1 {
		t.Fatalf("default gain: got %v, want 1", c.gain)
	}
}

func TestNewChain_WithGain(t *testing.T) {
	coeffs := twoSectionCoeffs()

	c := NewChain(coeffs, WithGain(0.5))
	if c.gain != 0.5 {
		t.Fatalf("gain: got %v, want 0.5", c.gain)
	}
}

func TestChain_ProcessSample_MatchesManualCascade(t *testing.T) {
	coeffs := twoSectionCoeffs()

	section1 := NewSection(coeffs[0])
	section2 := NewSection(coeffs[1])
	chain := NewChain(coeffs)

	input := []float64{1, 0.5, -0.3, 0.7, 0, -1, 0.2, 0.8}
	for i, x := range input {
		ref := section2.ProcessSample(section1.ProcessSample(x))

		got := chain.ProcessSample(x)
		if !almostEqual(got, ref, eps) {
			t.Errorf("sample %d: chain=%.15f, ref=%.15f", i, got, ref)
		}
	}
}

func TestChain_ProcessSample_WithGain(t *testing.T) {
	coeffs := twoSectionCoeffs()
	gain := 2.0

	section1 := NewSection(coeffs[0])
	section2 := NewSection(coeffs[1])
	chain := NewChain(coeffs, WithGain(gain))

	input := []float64{1, 0.5, -0.3, 0.7}
	for i, x := range input {
		ref := section2.ProcessSample(section1.ProcessSample(x * gain))

		got := chain.ProcessSample(x)
		if !almostEqual(got, ref, eps) {
			t.Errorf("sample %d: chain=%.15f, ref=%.15f", i, got, ref)
		}
	}
}

func TestChain_ProcessBlock_MatchesSample(t *testing.T) {
	coeffs := twoSectionCoeffs()

	c1 := NewChain(coeffs)
	input := []float64{1, 0.5, -0.3, 0.7, 0, -1, 0.2, 0.8}

	ref := make([]float64, len(input))
	for i, x := range input {
		ref[i] = c1.ProcessSample(x)
	}

	c2 := NewChain(coeffs)
	block := make([]float64, len(input))
	copy(block, input)
	c2.ProcessBlock(block)

	for i := range block {
		if !almostEqual(block[i], ref[i], eps) {
			t.Errorf("sample %d: block=%.15f, ref=%.15f", i, block[i], ref[i])
		}
	}
}

func TestChain_SingleSection(t *testing.T) {
	c := Coefficients{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04}
	s := NewSection(c)
	chain := NewChain([]Coefficients{c})

	input := []float64{1, 0.5, -0.3, 0.7, 0}
	for i, x := range input {
		ref := s.ProcessSample(x)

		got := chain.ProcessSample(x)
		if !almostEqual(got, ref, eps) {
			t.Errorf("sample %d: chain=%.15f, section=%.15f", i, got, ref)
		}
	}
}

func TestChain_ThreeSections(t *testing.T) {
	coeffs := []Coefficients{
		{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04},
		{B0: 0.1, B1: 0.2, B2: 0.1, A1: -0.5, A2: 0.1},
		{B0: 0.3, B1: 0.3, B2: 0.3, A1: -0.1, A2: 0.02},
	}
	section1 := NewSection(coeffs[0])
	section2 := NewSection(coeffs[1])
	section3 := NewSection(coeffs[2])
	chain := NewChain(coeffs)

	if chain.Order() != 6 {
		t.Fatalf("Order: got %d, want 6", chain.Order())
	}

	input := []float64{1, 0, 0, 0, 0, 0, 0, 0}
	for i, x := range input {
		ref := section3.ProcessSample(section2.ProcessSample(section1.ProcessSample(x)))

		got := chain.ProcessSample(x)
		if !almostEqual(got, ref, eps) {
			t.Errorf("sample %d: chain=%.15f, ref=%.15f", i, got, ref)
		}
	}
}

func TestChain_Reset(t *testing.T) {
	chain := NewChain(twoSectionCoeffs())
	chain.ProcessSample(1)
	chain.ProcessSample(0.5)

	chain.Reset()

	for i := range chain.sections {
		st := chain.sections[i].State()
		if st != [2]float64{0, 0} {
			t.Errorf("section %d state not zero after reset: %v", i, st)
		}
	}
}

func TestChain_State_SaveRestore(t *testing.T) {
	chain := NewChain(twoSectionCoeffs())
	chain.ProcessSample(1)
	chain.ProcessSample(0.5)
	saved := chain.State()

	y3 := chain.ProcessSample(-0.3)
	y4 := chain.ProcessSample(0.7)

	chain.SetState(saved)
	y3b := chain.ProcessSample(-0.3)
	y4b := chain.ProcessSample(0.7)

	if !almostEqual(y3, y3b, eps) {
		t.Errorf("sample 3: got %v after restore, want %v", y3b, y3)
	}

	if !almostEqual(y4, y4b, eps) {
		t.Errorf("sample 4: got %v after restore, want %v", y4b, y4)
	}
}

func TestChain_Section_Access(t *testing.T) {
	coeffs := twoSectionCoeffs()

	chain := NewChain(coeffs)
	for i, c := range coeffs {
		s := chain.Section(i)
		if s.Coefficients != c {
			t.Errorf("section %d coefficients mismatch", i)
		}
	}
}

func TestChain_StabilityLongRun(t *testing.T) {
	chain := NewChain(twoSectionCoeffs())
	chain.ProcessSample(1)

	for range 10000 {
		chain.ProcessSample(0)
	}

	states := chain.State()
	for i, st := range states {
		if math.Abs(st[0]) > 1e-100 || math.Abs(st[1]) > 1e-100 {
			t.Errorf("section %d state did not decay: %v", i, st)
		}
	}
}

func TestChain_UpdateCoefficients_PreservesStateWhenSectionCountMatches(t *testing.T) {
	c := NewChain(twoSectionCoeffs())
	c.ProcessSample(1)
	c.ProcessSample(0.5)
	c.ProcessSample(-0.3)
	savedState := c.State()

	newCoeffs := []Coefficients{
		{B0: 0.3, B1: 0.4, B2: 0.3, A1: -0.3, A2: 0.05},
		{B0: 0.2, B1: 0.1, B2: 0.2, A1: -0.4, A2: 0.08},
	}
	c.UpdateCoefficients(newCoeffs, 1.0)

	afterState := c.State()
	for i, s := range afterState {
		if s != savedState[i] {
			t.Errorf("section %d state changed: before=%v, after=%v", i, savedState[i], s)
		}
	}
}

func TestChain_UpdateCoefficients_AppliesNewCoefficients(t *testing.T) {
	origCoeffs := twoSectionCoeffs()
	c := NewChain(origCoeffs)

	newCoeffs := []Coefficients{
		{B0: 0.3, B1: 0.4, B2: 0.3, A1: -0.3, A2: 0.05},
		{B0: 0.2, B1: 0.1, B2: 0.2, A1: -0.4, A2: 0.08},
	}
	ref := NewChain(newCoeffs)

	c.UpdateCoefficients(newCoeffs, 1.0)

	input := []float64{1, 0.5, -0.3, 0.7, 0, -1, 0.2, 0.8}
	for i, x := range input {
		want := ref.ProcessSample(x)

		got := c.ProcessSample(x)
		if !almostEqual(got, want, eps) {
			t.Errorf("sample %d: got %.15f, want %.15f", i, got, want)
		}
	}
}

func TestChain_UpdateCoefficients_UpdatesGain(t *testing.T) {
	c := NewChain(twoSectionCoeffs(), WithGain(1.0))
	c.UpdateCoefficients(twoSectionCoeffs(), 0.5)

	if c.Gain() != 0.5 {
		t.Errorf("gain: got %v, want 0.5", c.Gain())
	}
}

func TestChain_UpdateCoefficients_DifferentSectionCountResetsState(t *testing.T) {
	c := NewChain(twoSectionCoeffs())
	c.ProcessSample(1)
	c.ProcessSample(0.5)

	oneSection := []Coefficients{
		{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04},
	}
	c.UpdateCoefficients(oneSection, 1.0)

	if c.NumSections() != 1 {
		t.Fatalf("NumSections: got %d, want 1", c.NumSections())
	}

	for i := range c.sections {
		st := c.sections[i].State()
		if st != [2]float64{0, 0} {
			t.Errorf("section %d state not zero after section-count change: %v", i, st)
		}
	}
}
