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

package output

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/spatialmodel/cemhyd"
)

func TestNewCSVWriterWritesHeaderOnceOnFirstRow(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter(&buf, []cemhyd.Phase{cemhyd.C3S, cemhyd.CSH})

	row := cemhyd.DataRow{Cycle: 1, PhaseVolumeFractions: map[cemhyd.Phase]float64{
		cemhyd.C3S: 0.5, cemhyd.CSH: 0.1,
	}}
	if err := w.WriteRow(row); err != nil {
		t.Fatalf("WriteRow: %v", err)
	}
	if err := w.WriteRow(row); err != nil {
		t.Fatalf("WriteRow: %v", err)
	}

	r := csv.NewReader(strings.NewReader(buf.String()))
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(records) != 3 { // header + 2 rows
		t.Fatalf("len(records) = %d, want 3", len(records))
	}
	wantHeader := append(append([]string{}, FixedColumns...), "C3S", "CSH")
	for i, col := range wantHeader {
		if records[0][i] != col {
			t.Fatalf("header[%d] = %q, want %q", i, records[0][i], col)
		}
	}
}

func TestCSVWriterRecordMatchesRowFields(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter(&buf, []cemhyd.Phase{cemhyd.C3S})

	row := cemhyd.DataRow{
		Cycle:             5,
		TimeHours:         1.5,
		AlphaMass:         0.25,
		HeatKJPerKg:       12.3,
		TempC:             30.1,
		ChemShrinkage:     0.001,
		PH:                12.8,
		PoreFraction:      0.4,
		PercolationX:      true,
		PercolationY:      false,
		PercolationZ:      true,
		SolidPercolationX: false,
		SolidPercolationY: true,
		SolidPercolationZ: false,
		PhaseVolumeFractions: map[cemhyd.Phase]float64{
			cemhyd.C3S: 0.6,
		},
	}
	if err := w.WriteRow(row); err != nil {
		t.Fatalf("WriteRow: %v", err)
	}

	r := csv.NewReader(strings.NewReader(buf.String()))
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	data := records[1]
	if data[0] != "5" {
		t.Fatalf("Cycle column = %q, want 5", data[0])
	}
	if data[8] != "true" { // pore_connect_x
		t.Fatalf("pore_connect_x = %q, want true", data[8])
	}
	last := data[len(data)-1]
	if last != "0.6" {
		t.Fatalf("phase column = %q, want 0.6", last)
	}
}

func TestPhaseColumnNamesUsesPhaseStringer(t *testing.T) {
	names := phaseColumnNames([]cemhyd.Phase{cemhyd.C3S, cemhyd.CH})
	if names[0] != cemhyd.C3S.String() || names[1] != cemhyd.CH.String() {
		t.Fatalf("names = %v, want %v/%v", names, cemhyd.C3S.String(), cemhyd.CH.String())
	}
}
