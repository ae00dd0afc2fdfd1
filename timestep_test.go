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

func TestClockAdvanceBetaFactor(t *testing.T) {
	c := NewClock(BetaFactor)
	c.Beta = 2.0
	dt := c.Advance(1, 0, 25) // k=1: dt = (2*1-1)*2 = 2
	if !approxEqual(dt, 2, 1e-9) {
		t.Fatalf("dt = %v, want 2", dt)
	}
	dt2 := c.Advance(2, 0, 25) // k=2: dt = (2*2-1)*2 = 6
	if !approxEqual(dt2, 6, 1e-9) {
		t.Fatalf("dt = %v, want 6", dt2)
	}
	if !approxEqual(c.ElapsedSeconds, 8, 1e-9) {
		t.Fatalf("ElapsedSeconds = %v, want 8", c.ElapsedSeconds)
	}
}

func TestInterpolateSeriesMidpoint(t *testing.T) {
	series := []CalibrationPoint{{Seconds: 0, Value: 0}, {Seconds: 100, Value: 1}}
	tm, ok := interpolateSeries(series, 0.5)
	if !ok {
		t.Fatal("expected ok=true within series range")
	}
	if !approxEqual(tm, 50, 1e-9) {
		t.Fatalf("t = %v, want 50", tm)
	}
}

func TestInterpolateSeriesBelowFirstPointClampsToFirst(t *testing.T) {
	series := []CalibrationPoint{{Seconds: 10, Value: 5}, {Seconds: 20, Value: 10}}
	tm, ok := interpolateSeries(series, 0)
	if !ok || tm != 10 {
		t.Fatalf("t=%v ok=%v, want t=10 ok=true", tm, ok)
	}
}

func TestInterpolateSeriesPastLastPointSignalsExtrapolation(t *testing.T) {
	series := []CalibrationPoint{{Seconds: 10, Value: 5}, {Seconds: 20, Value: 10}}
	_, ok := interpolateSeries(series, 11)
	if ok {
		t.Fatal("expected ok=false past the end of the series")
	}
}

func TestInterpolateSeriesEmpty(t *testing.T) {
	_, ok := interpolateSeries(nil, 5)
	if ok {
		t.Fatal("expected ok=false for an empty series")
	}
}

func TestQuadraticFitExactThroughThreePoints(t *testing.T) {
	// y = x^2 + 2x + 3 at x = 0,1,2 -> y = 3, 6, 11
	a, b, c := quadraticFit([]float64{0, 1, 2}, []float64{3, 6, 11})
	if !approxEqual(a, 1, 1e-9) || !approxEqual(b, 2, 1e-9) || !approxEqual(c, 3, 1e-9) {
		t.Fatalf("(a,b,c) = (%v,%v,%v), want (1,2,3)", a, b, c)
	}
}

func TestExtrapolateWithFewerThanThreePointsReturnsLast(t *testing.T) {
	if got := extrapolate([]float64{5, 9}); got != 9 {
		t.Fatalf("extrapolate = %v, want 9 (last history value)", got)
	}
}

func TestExtrapolateQuadraticWhenRising(t *testing.T) {
	// Evenly-spaced points on y = x^2: at x=0,1,2 -> 0,1,4; next point (x=3) is 9.
	got := extrapolate([]float64{0, 1, 4})
	if !approxEqual(got, 9, 1e-6) {
		t.Fatalf("extrapolate = %v, want 9", got)
	}
}

func TestExtrapolateFallsBackToLinearWhenConcaveDown(t *testing.T) {
	// y = -x^2 has a negative leading coefficient; extrapolate must fall
	// back to the linear regression fit rather than project backward.
	got := extrapolate([]float64{0, -1, -4})
	if got <= -9 {
		// A quadratic continuation would plunge to -9; a linear fallback
		// through these three (non-collinear) points lands higher, at -17/3.
		t.Fatalf("extrapolate = %v, want linear fallback value > -9", got)
	}
}

func TestClockAdvanceCalorimetricUsesCalibratedSeries(t *testing.T) {
	c := NewClock(Calorimetric)
	c.ReferenceTempC = 25
	c.Series = []CalibrationPoint{{Seconds: 0, Value: 0}, {Seconds: 100, Value: 1}}
	// At reference temperature, kCal = 1, so the step should land exactly
	// on the interpolated series time.
	dt := c.Advance(1, 0.5, 25)
	if !approxEqual(dt, 50, 1e-6) {
		t.Fatalf("dt = %v, want 50", dt)
	}
}

func TestClockAdvanceNeverGoesNegative(t *testing.T) {
	c := NewClock(ChemicalShrinkage)
	c.ReferenceTempC = 25
	c.Series = []CalibrationPoint{{Seconds: 100, Value: 1}}
	c.ElapsedSeconds = 500 // already past what the series implies
	dt := c.Advance(1, 0, 25)
	if dt < 0 {
		t.Fatalf("dt = %v, want >= 0", dt)
	}
}
