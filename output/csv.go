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

// Package output writes the main per-cycle CSV, snapshot images, movie
// frames, progress JSON, and pore-size-distribution summaries described in
// spec.md section 6.4.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/cenkalti/backoff"
	"github.com/spatialmodel/cemhyd"
)

// FixedColumns are the main CSV's columns that are not per-phase volume
// fractions (spec.md section 6.4); phase columns are appended afterward in
// registry order.
var FixedColumns = []string{
	"Cycle", "time(h)", "alpha_mass", "heat(kJ/kg_cem)", "T(C)",
	"ChemShrink", "pH", "pore_fraction",
	"pore_connect_x", "pore_connect_y", "pore_connect_z",
	"solid_connect_x", "solid_connect_y", "solid_connect_z",
}

// CSVWriter writes DataRows to an underlying io.Writer as they are
// produced, flushing after every row so a killed run still leaves a
// readable partial CSV. Retries on transient write failures using
// cenkalti/backoff, since output may be a flaky network-backed blob mount.
type CSVWriter struct {
	w          *csv.Writer
	phaseOrder []cemhyd.Phase
	wroteHeader bool
}

// NewCSVWriter creates a writer that emits the fixed columns plus one
// volume-fraction column per phase in phaseOrder.
func NewCSVWriter(w io.Writer, phaseOrder []cemhyd.Phase) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(w), phaseOrder: phaseOrder}
}

// WriteRow appends one row, writing the header first if this is the first
// call. Transient I/O errors are retried with exponential backoff before
// being returned to the caller.
func (c *CSVWriter) WriteRow(row cemhyd.DataRow) error {
	op := func() error {
		if !c.wroteHeader {
			header := append(append([]string{}, FixedColumns...), phaseColumnNames(c.phaseOrder)...)
			if err := c.w.Write(header); err != nil {
				return err
			}
			c.wroteHeader = true
		}
		record := c.rowToRecord(row)
		if err := c.w.Write(record); err != nil {
			return err
		}
		c.w.Flush()
		return c.w.Error()
	}
	return backoff.Retry(op, backoff.NewExponentialBackOff())
}

func phaseColumnNames(phases []cemhyd.Phase) []string {
	names := make([]string, len(phases))
	for i, p := range phases {
		names[i] = p.String()
	}
	return names
}

func (c *CSVWriter) rowToRecord(row cemhyd.DataRow) []string {
	record := []string{
		strconv.Itoa(row.Cycle),
		strconv.FormatFloat(row.TimeHours, 'g', -1, 64),
		strconv.FormatFloat(row.AlphaMass, 'g', -1, 64),
		strconv.FormatFloat(row.HeatKJPerKg, 'g', -1, 64),
		strconv.FormatFloat(row.TempC, 'g', -1, 64),
		strconv.FormatFloat(row.ChemShrinkage, 'g', -1, 64),
		strconv.FormatFloat(row.PH, 'g', -1, 64),
		strconv.FormatFloat(row.PoreFraction, 'g', -1, 64),
		fmt.Sprintf("%t", row.PercolationX),
		fmt.Sprintf("%t", row.PercolationY),
		fmt.Sprintf("%t", row.PercolationZ),
		fmt.Sprintf("%t", row.SolidPercolationX),
		fmt.Sprintf("%t", row.SolidPercolationY),
		fmt.Sprintf("%t", row.SolidPercolationZ),
	}
	for _, p := range c.phaseOrder {
		record = append(record, strconv.FormatFloat(row.PhaseVolumeFractions[p], 'g', -1, 64))
	}
	return record
}
