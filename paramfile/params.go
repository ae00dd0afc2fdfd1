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

// Package paramfile reads and writes the plain-text parameter and
// auxiliary-data files described in spec.md sections 6.2 and 6.5.
package paramfile

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cast"
)

// Entry is one sequentially-ordered key/value pair of a parameter file.
// Order matters: the reader validates that keys appear in the caller's
// expected order and errors on mismatch (spec.md section 6.2, "order is
// significant").
type Entry struct {
	Key   string
	Value string
}

// ReadSequential parses a "key,value" per-line parameter file and returns
// its entries in file order. Blank lines and lines starting with '#' are
// skipped.
func ReadSequential(r io.Reader) ([]Entry, error) {
	var entries []Entry
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, ",", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("cemhyd: parameter file line %d: expected \"key,value\", got %q", lineNo, line)
		}
		entries = append(entries, Entry{Key: strings.TrimSpace(parts[0]), Value: strings.TrimSpace(parts[1])})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("cemhyd: reading parameter file: %w", err)
	}
	return entries, nil
}

// Reader walks a sequence of Entries in order, requiring each Expect call
// to match the next key present -- a direct port of the original model's
// sequential-read-and-error-on-mismatch parameter grammar (spec.md
// section 6.2).
type Reader struct {
	entries []Entry
	pos     int
}

// NewReader wraps entries for sequential consumption.
func NewReader(entries []Entry) *Reader {
	return &Reader{entries: entries}
}

// Expect consumes the next entry, verifying its key matches name, and
// returns its raw string value.
func (r *Reader) Expect(name string) (string, error) {
	if r.pos >= len(r.entries) {
		return "", fmt.Errorf("cemhyd: parameter file ended early, expected %q", name)
	}
	e := r.entries[r.pos]
	if e.Key != name {
		return "", fmt.Errorf("cemhyd: parameter file out of order: expected %q, got %q", name, e.Key)
	}
	r.pos++
	return e.Value, nil
}

// ExpectFloat consumes the next entry as a float64, using spf13/cast for
// the same permissive numeric coercion the CLI config layer uses
// elsewhere (inmaputil/config.go's cast.ToStringMapString pattern).
func (r *Reader) ExpectFloat(name string) (float64, error) {
	s, err := r.Expect(name)
	if err != nil {
		return 0, err
	}
	return cast.ToFloat64E(s)
}

// ExpectInt consumes the next entry as an int.
func (r *Reader) ExpectInt(name string) (int, error) {
	s, err := r.Expect(name)
	if err != nil {
		return 0, err
	}
	return cast.ToIntE(s)
}

// ExpectBool consumes the next entry as a bool ("0"/"1" or "true"/"false").
func (r *Reader) ExpectBool(name string) (bool, error) {
	s, err := r.Expect(name)
	if err != nil {
		return false, err
	}
	return cast.ToBoolE(s)
}

// Done reports whether every entry has been consumed.
func (r *Reader) Done() bool { return r.pos == len(r.entries) }

// Writer appends "key,value" lines in the order Write is called, the
// inverse of ReadSequential -- used to echo a run's effective parameters
// into the .params output file (spec.md section 6.4).
type Writer struct {
	w io.Writer
}

// NewWriter wraps w for sequential key/value writes.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write appends one key/value line.
func (w *Writer) Write(key string, value interface{}) error {
	_, err := fmt.Fprintf(w.w, "%s,%v\n", key, value)
	return err
}
