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

import "gonum.org/v1/gonum/stat"

// TimeMapping selects how Clock converts a completed cycle into an
// elapsed-time increment (spec.md section 4.7).
type TimeMapping int

const (
	BetaFactor TimeMapping = iota
	Calorimetric
	ChemicalShrinkage
)

// CalibrationPoint is one (elapsed seconds, measured value) sample of an
// experimental calorimetric or chemical-shrinkage series, all measured at
// ReferenceTempC.
type CalibrationPoint struct {
	Seconds float64
	Value   float64
}

// Clock tracks simulated elapsed time and converts cycles to seconds
// using one of the three mapping strategies.
type Clock struct {
	Mapping TimeMapping

	Beta float64 // used by BetaFactor

	Series         []CalibrationPoint // sorted ascending by Value
	ReferenceTempC float64
	EaCalibration  float64 // kJ/mol, for the K_cal correction

	ElapsedSeconds float64
	history        []float64 // recent elapsed-time values, for extrapolation
}

// NewClock creates a Clock using the given mapping.
func NewClock(mapping TimeMapping) *Clock {
	return &Clock{Mapping: mapping}
}

// Advance computes and applies this cycle's time increment. k is the
// 1-based cycle number (used by BetaFactor); currentValue is the current
// simulated calorimetric or chemical-shrinkage value (used by the other
// two mappings); tempC is the current temperature.
func (c *Clock) Advance(k int, currentValue, tempC float64) float64 {
	var dt float64
	switch c.Mapping {
	case BetaFactor:
		dt = float64(2*k-1) * c.Beta
	case Calorimetric, ChemicalShrinkage:
		dt = c.calibratedStep(currentValue, tempC)
	}
	c.ElapsedSeconds += dt
	c.history = append(c.history, c.ElapsedSeconds)
	if len(c.history) > 3 {
		c.history = c.history[len(c.history)-3:]
	}
	return dt
}

// calibratedStep implements the calorimetric/chemical-shrinkage time
// mapping: interpolate t*(currentValue) from the measured series at
// ReferenceTempC, correct to the current temperature via K_cal, and return
// the increment since the previous call. When currentValue exceeds the
// measured series, extrapolate via a quadratic fit to the three most
// recent evenly-spaced elapsed-time history points, falling back to linear
// regression if the quadratic's leading coefficient is non-positive.
func (c *Clock) calibratedStep(currentValue, tempC float64) float64 {
	uncorrected, ok := interpolateSeries(c.Series, currentValue)
	if !ok {
		uncorrected = extrapolate(c.history)
	}
	kCal := arrheniusFactor(c.EaCalibration, tempC) / arrheniusFactor(c.EaCalibration, c.ReferenceTempC)
	if kCal <= 0 {
		kCal = 1
	}
	tCorrected := uncorrected / kCal
	dt := tCorrected - c.ElapsedSeconds
	if dt < 0 {
		dt = 0
	}
	return dt
}

// interpolateSeries returns the linearly-interpolated elapsed time at
// which the series reaches value y, or ok=false if y is past the end of
// the series (the caller must then extrapolate).
func interpolateSeries(series []CalibrationPoint, y float64) (t float64, ok bool) {
	if len(series) == 0 {
		return 0, false
	}
	if y <= series[0].Value {
		return series[0].Seconds, true
	}
	last := len(series) - 1
	if y >= series[last].Value {
		return 0, false
	}
	for i := 0; i < last; i++ {
		v0, v1 := series[i].Value, series[i+1].Value
		if y >= v0 && y <= v1 {
			if v1 == v0 {
				return series[i].Seconds, true
			}
			frac := (y - v0) / (v1 - v0)
			return series[i].Seconds + frac*(series[i+1].Seconds-series[i].Seconds), true
		}
	}
	return 0, false
}

// extrapolate fits a quadratic in cycle index to the most recent three
// evenly-spaced elapsed-time history points and evaluates it one step
// past the last point; if the quadratic's leading coefficient is
// non-positive (time would stop advancing or run backward), it falls back
// to a linear regression fit via gonum/stat instead.
func extrapolate(history []float64) float64 {
	n := len(history)
	if n == 0 {
		return 0
	}
	if n < 3 {
		return history[n-1]
	}
	xs := []float64{0, 1, 2}
	ys := history[n-3:]

	a, b, cc := quadraticFit(xs, ys)
	if a > 0 {
		x := 3.0
		return a*x*x + b*x + cc
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	return alpha + beta*3
}

// quadraticFit solves the exact 3-point quadratic y = a*x^2 + b*x + c for
// three distinct x values using the standard Lagrange-basis closed form
// (no matrix solve needed for exactly 3 points with x = 0,1,2).
func quadraticFit(xs, ys []float64) (a, b, c float64) {
	y0, y1, y2 := ys[0], ys[1], ys[2]
	a = (y0 - 2*y1 + y2) / 2
	b = (-3*y0 + 4*y1 - y2) / 2
	c = y0
	return a, b, c
}
