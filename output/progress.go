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
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/cenkalti/backoff"
)

// ProgressEntry is one record of the progress JSON file, appended every
// ten cycles (spec.md section 6.4).
type ProgressEntry struct {
	Cycle            int     `json:"cycle"`
	TimeHours        float64 `json:"time_hours"`
	DegreeOfHydration float64 `json:"degree_of_hydration"`
	Timestamp        string  `json:"timestamp"`
}

// ProgressWriter appends newline-delimited JSON progress entries to an
// underlying writer, retrying transient failures the same way CSVWriter
// does.
type ProgressWriter struct {
	w io.Writer
}

// NewProgressWriter wraps w for progress-entry appends.
func NewProgressWriter(w io.Writer) *ProgressWriter {
	return &ProgressWriter{w: w}
}

// Append writes one progress entry with the current UTC time stamped to
// millisecond precision (RFC 3339, per spec.md section 6.4).
func (p *ProgressWriter) Append(cycle int, timeHours, alpha float64) error {
	entry := ProgressEntry{
		Cycle:             cycle,
		TimeHours:         timeHours,
		DegreeOfHydration: alpha,
		Timestamp:         time.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
	}
	op := func() error {
		enc := json.NewEncoder(p.w)
		return enc.Encode(entry)
	}
	return backoff.Retry(op, backoff.NewExponentialBackOff())
}

// ShouldAppend reports whether cycle is a multiple of the progress
// interval (every 10 cycles, per spec.md section 4.10/6.4).
func ShouldAppend(cycle int) bool {
	return cycle%10 == 0
}

// ImageIndexWriter appends "time\tfilename" lines to image_index.txt for
// every snapshot written (spec.md section 6.4).
type ImageIndexWriter struct {
	w io.Writer
}

// NewImageIndexWriter wraps w for image-index appends.
func NewImageIndexWriter(w io.Writer) *ImageIndexWriter {
	return &ImageIndexWriter{w: w}
}

// Append records one snapshot's elapsed time and file name.
func (iw *ImageIndexWriter) Append(timeHours float64, filename string) error {
	_, err := io.WriteString(iw.w, formatIndexLine(timeHours, filename))
	return err
}

func formatIndexLine(timeHours float64, filename string) string {
	return strconv.FormatFloat(timeHours, 'g', -1, 64) + "\t" + filename + "\n"
}
