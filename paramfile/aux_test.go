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
	"strings"
	"testing"
)

func TestReadAlkaliCharacteristicsParsesSixValuesInOrder(t *testing.T) {
	src := "0.5 0.6\n0.1 0.2\n0.3 0.4\n"
	got, err := ReadAlkaliCharacteristics(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadAlkaliCharacteristics: %v", err)
	}
	want := AlkaliCharacteristics{TotalNa2O: 0.5, TotalK2O: 0.6, SolubleNa2O: 0.1, SolubleK2O: 0.2, NaOH: 0.3, KOH: 0.4}
	if got != want {
		t.Fatalf("got = %+v, want %+v", got, want)
	}
}

func TestReadAlkaliCharacteristicsErrorsOnTooFewValues(t *testing.T) {
	_, err := ReadAlkaliCharacteristics(strings.NewReader("0.5 0.6 0.1"))
	if err == nil {
		t.Fatal("expected an error with fewer than 6 values")
	}
}

func TestReadSlagCharacteristicsParsesFiveValuesInOrder(t *testing.T) {
	src := "2.9 1.1 0.4 0.1 0.35"
	got, err := ReadSlagCharacteristics(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadSlagCharacteristics: %v", err)
	}
	want := SlagCharacteristics{SpecificGravity: 2.9, ReactivityFactor: 1.1, CaOFraction: 0.4, Al2O3Fraction: 0.1, SiO2Fraction: 0.35}
	if got != want {
		t.Fatalf("got = %+v, want %+v", got, want)
	}
}

func TestReadTemperatureProfileParsesRows(t *testing.T) {
	src := "0,20\n1.5,25.5\n24,60\n"
	points, err := ReadTemperatureProfile(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadTemperatureProfile: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("len(points) = %d, want 3", len(points))
	}
	if points[1].TimeHours != 1.5 || points[1].TempC != 25.5 {
		t.Fatalf("points[1] = %+v, want {1.5 25.5}", points[1])
	}
}

func TestReadTemperatureProfileSkipsBlankLines(t *testing.T) {
	src := "0,20\n\n1,30\n"
	points, err := ReadTemperatureProfile(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadTemperatureProfile: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("len(points) = %d, want 2", len(points))
	}
}

func TestReadTemperatureProfileRejectsWrongColumnCount(t *testing.T) {
	_, err := ReadTemperatureProfile(strings.NewReader("0,20,extra\n"))
	if err == nil {
		t.Fatal("expected an error for a row with the wrong column count")
	}
}

func TestReadTemperatureProfileRejectsNonNumericField(t *testing.T) {
	_, err := ReadTemperatureProfile(strings.NewReader("zero,20\n"))
	if err == nil {
		t.Fatal("expected an error parsing a non-numeric time field")
	}
}
