/*
Copyright © 2013 the cemhyd authors.
This file is part of cemhyd.

cemhyd is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

cemhyd is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with cemhyd.  If not, see <http://www.gnu.org/licenses/>.
*/

package cemhyd

import "testing"

func approxEqual(a, b, tol float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tol
}

func TestFitPHQuadraticExactThroughPoints(t *testing.T) {
	// y = 2x^2 - 3x + 1, sampled at three points.
	points := [3][2]float64{{0, 1}, {1, 0}, {2, 3}}
	c2, c1, c0, err := FitPHQuadratic(points)
	if err != nil {
		t.Fatalf("FitPHQuadratic returned error: %v", err)
	}
	if !approxEqual(c2, 2, 1e-9) || !approxEqual(c1, -3, 1e-9) || !approxEqual(c0, 1, 1e-9) {
		t.Fatalf("coefficients = (%v,%v,%v), want (2,-3,1)", c2, c1, c0)
	}
}

func TestArrheniusFactorIsOneAtReferenceTemperature(t *testing.T) {
	f := arrheniusFactor(40.0, 25.0)
	if !approxEqual(f, 1.0, 1e-9) {
		t.Fatalf("arrheniusFactor(40, 25) = %v, want 1.0 (25C is the reference temperature)", f)
	}
}

func TestArrheniusFactorIncreasesWithTemperature(t *testing.T) {
	low := arrheniusFactor(40.0, 20.0)
	high := arrheniusFactor(40.0, 40.0)
	if high <= low {
		t.Fatalf("arrheniusFactor should increase with temperature: low=%v high=%v", low, high)
	}
}

func TestSulfateActivityAccelRegimes(t *testing.T) {
	if sulfateActivityAccel(5) != 1 {
		t.Fatal("below 10 mmol/L, acceleration should be 1")
	}
	if v := sulfateActivityAccel(55); v <= 1 || v >= 20 {
		t.Fatalf("sulfateActivityAccel(55) = %v, want strictly between 1 and 20 (ramp region)", v)
	}
	if v := sulfateActivityAccel(1000); v <= 1 {
		t.Fatalf("sulfateActivityAccel(1000) = %v, want > 1 (log tail)", v)
	}
}

func TestResolutionFactorFinerGridIsFaster(t *testing.T) {
	coarse := resolutionFactor(2.0)
	fine := resolutionFactor(0.5)
	if fine <= coarse {
		t.Fatalf("finer resolution should give a larger rate factor: coarse=%v fine=%v", coarse, fine)
	}
}

func TestUpdateDissolutionRatesClampsToUnitInterval(t *testing.T) {
	g := NewGrid(50, 50, 50, 1.0)
	for i := range g.mic {
		g.SetIdx(i, CSH) // a large existing CSH population drives f >> 0
	}
	g.Set(0, 0, 0, C3S)
	reg := NewRegistry()
	p := NewKineticsParams()
	// Exaggerate the sulfate-acceleration term so the raw product would
	// exceed 1 before clamping.
	p.A0 = 100
	rates := UpdateDissolutionRates(g, reg, p, 80, 13, 500, 1.0, map[Phase]int64{})
	if rates.P[C3S] != 1 {
		t.Fatalf("rates.P[C3S] = %v, want clamped to exactly 1", rates.P[C3S])
	}
}

func TestUpdateDissolutionRatesZeroDisbaseStaysZero(t *testing.T) {
	g := NewGrid(4, 4, 4, 1.0)
	reg := NewRegistry()
	p := NewKineticsParams() // SLAGCSH etc. have no Disbase entry
	rates := UpdateDissolutionRates(g, reg, p, 25, 12, 0, 1.0, map[Phase]int64{})
	if rates.P[SLAGCSH] != 0 {
		t.Fatalf("rates.P[SLAGCSH] = %v, want 0 (no Disbase entry)", rates.P[SLAGCSH])
	}
}

func TestSaturationQuenchNoQuenchAbovePorosityThreshold(t *testing.T) {
	g := NewGrid(4, 4, 4, 1.0) // entirely POROSITY, well above the 0.22 threshold
	if v := saturationQuench(g, C3S); v != 1 {
		t.Fatalf("saturationQuench = %v, want 1 when porosity fraction is high", v)
	}
}

func TestSaturationQuenchReducesRateBelowThreshold(t *testing.T) {
	g := NewGrid(4, 4, 4, 1.0) // 64 voxels; 0.22 threshold is ~14
	// Fill everything solid except two POROSITY and two EMPTYP voxels, so
	// total pore+empty (4) is well under the threshold and the remaining
	// liquid saturation fraction s = POROSITY/(POROSITY+EMPTYP) = 0.5.
	for i := range g.mic {
		g.SetIdx(i, C3S)
	}
	g.Set(0, 0, 0, POROSITY)
	g.Set(0, 0, 1, POROSITY)
	g.Set(0, 0, 2, EMPTYP)
	g.Set(0, 0, 3, EMPTYP)

	v := saturationQuench(g, C3S)
	if v <= 0 || v >= 1 {
		t.Fatalf("saturationQuench = %v, want in (0,1) once porosity is scarce and partially desiccated", v)
	}
}

func TestApplyDiffusingPoolSaturationZeroesSaturatedPhases(t *testing.T) {
	reg := NewRegistry()
	p := NewKineticsParams()
	p.DiffMaxBase[DIFFCSH] = 1.0 // scaled ceiling will be tiny for a small grid
	rates := &DissolutionRates{}
	rates.P[C3S] = 0.5
	rates.P[C2S] = 0.5

	diffCounts := map[Phase]int64{DIFFCSH: 1_000_000}
	applyDiffusingPoolSaturation(rates, p, reg, diffCounts, 1e6, 1.0)

	if rates.P[C3S] != 0 {
		t.Fatalf("rates.P[C3S] = %v, want 0 once DIFFCSH pool saturates (C3S dissolves to DIFFCSH)", rates.P[C3S])
	}
	if rates.P[C2S] != 0 {
		t.Fatalf("rates.P[C2S] = %v, want 0 once DIFFCSH pool saturates (C2S also dissolves to DIFFCSH)", rates.P[C2S])
	}
}

func TestApplyDiffusingPoolSaturationLeavesUnsaturatedPhasesAlone(t *testing.T) {
	reg := NewRegistry()
	p := NewKineticsParams()
	p.DiffMaxBase[DIFFCSH] = 1e9 // effectively unreachable ceiling
	rates := &DissolutionRates{}
	rates.P[C3S] = 0.5

	applyDiffusingPoolSaturation(rates, p, reg, map[Phase]int64{DIFFCSH: 1}, 1e6, 1.0)

	if rates.P[C3S] != 0.5 {
		t.Fatalf("rates.P[C3S] = %v, want unchanged at 0.5", rates.P[C3S])
	}
}
