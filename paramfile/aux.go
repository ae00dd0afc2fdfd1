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

package paramfile

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// AlkaliCharacteristics holds the six percentages read from
// alkalichar.dat (spec.md section 6.5): total and soluble Na2O/K2O, plus
// NaOH and KOH.
type AlkaliCharacteristics struct {
	TotalNa2O, TotalK2O     float64
	SolubleNa2O, SolubleK2O float64
	NaOH, KOH               float64
}

// ReadAlkaliCharacteristics parses alkalichar.dat: six whitespace- or
// newline-separated floats in the fixed order above.
func ReadAlkaliCharacteristics(r io.Reader) (AlkaliCharacteristics, error) {
	vals, err := readFloats(r, 6)
	if err != nil {
		return AlkaliCharacteristics{}, fmt.Errorf("cemhyd: alkalichar.dat: %w", err)
	}
	return AlkaliCharacteristics{
		TotalNa2O: vals[0], TotalK2O: vals[1],
		SolubleNa2O: vals[2], SolubleK2O: vals[3],
		NaOH: vals[4], KOH: vals[5],
	}, nil
}

// SlagCharacteristics holds the slag reactivity properties read from
// slagchar.dat.
type SlagCharacteristics struct {
	SpecificGravity    float64
	ReactivityFactor   float64
	CaOFraction        float64
	Al2O3Fraction      float64
	SiO2Fraction       float64
}

// ReadSlagCharacteristics parses slagchar.dat: five floats in the order
// above.
func ReadSlagCharacteristics(r io.Reader) (SlagCharacteristics, error) {
	vals, err := readFloats(r, 5)
	if err != nil {
		return SlagCharacteristics{}, fmt.Errorf("cemhyd: slagchar.dat: %w", err)
	}
	return SlagCharacteristics{
		SpecificGravity: vals[0], ReactivityFactor: vals[1],
		CaOFraction: vals[2], Al2O3Fraction: vals[3], SiO2Fraction: vals[4],
	}, nil
}

// TemperatureProfilePoint is one row of temperature_profile.csv.
type TemperatureProfilePoint struct {
	TimeHours float64
	TempC     float64
}

// ReadTemperatureProfile parses temperature_profile.csv: two
// comma-separated floats per line, time in hours then temperature in C.
func ReadTemperatureProfile(r io.Reader) ([]TemperatureProfilePoint, error) {
	var points []TemperatureProfilePoint
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("cemhyd: temperature_profile.csv line %d: expected 2 columns, got %d", lineNo, len(parts))
		}
		t, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("cemhyd: temperature_profile.csv line %d: %w", lineNo, err)
		}
		temp, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("cemhyd: temperature_profile.csv line %d: %w", lineNo, err)
		}
		points = append(points, TemperatureProfilePoint{TimeHours: t, TempC: temp})
	}
	return points, sc.Err()
}

// readFloats scans whitespace/newline-separated floats, requiring exactly
// n values.
func readFloats(r io.Reader, n int) ([]float64, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	vals := make([]float64, 0, n)
	for sc.Scan() {
		v, err := strconv.ParseFloat(sc.Text(), 64)
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
		if len(vals) == n {
			break
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(vals) != n {
		return nil, fmt.Errorf("expected %d values, got %d", n, len(vals))
	}
	return vals, nil
}
