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
	"encoding/binary"
	"io"

	"github.com/spatialmodel/cemhyd"
)

// MovieFrame is one compact snapshot appended to the .mov file: cycle,
// elapsed time, and the phase id of every voxel packed as int16.
type MovieFrame struct {
	Cycle     int
	TimeHours float64
	Phases    []cemhyd.Phase
}

// MovieBuffer accumulates frames in memory up to a fixed capacity, then
// evicts the oldest on overflow -- a ring buffer so a long run's movie
// capture cannot exhaust memory even if the write-to-disk cadence lags
// behind capture.
type MovieBuffer struct {
	frames   []MovieFrame
	capacity int
	next     int
	full     bool
}

// NewMovieBuffer creates a buffer holding up to capacity frames.
func NewMovieBuffer(capacity int) *MovieBuffer {
	return &MovieBuffer{frames: make([]MovieFrame, capacity), capacity: capacity}
}

// Append records a new frame, evicting the oldest if the buffer is full.
func (m *MovieBuffer) Append(frame MovieFrame) {
	if m.capacity == 0 {
		return
	}
	m.frames[m.next] = frame
	m.next = (m.next + 1) % m.capacity
	if m.next == 0 {
		m.full = true
	}
}

// Frames returns the buffered frames in capture order (oldest first).
func (m *MovieBuffer) Frames() []MovieFrame {
	if !m.full {
		out := make([]MovieFrame, m.next)
		copy(out, m.frames[:m.next])
		return out
	}
	out := make([]MovieFrame, m.capacity)
	copy(out, m.frames[m.next:])
	copy(out[m.capacity-m.next:], m.frames[:m.next])
	return out
}

// WriteMovie serializes every buffered frame to w in a simple binary
// format: cycle (int64), time in hours (float64), voxel count (int64),
// then one int16 per voxel.
func WriteMovie(w io.Writer, frames []MovieFrame) error {
	for _, f := range frames {
		if err := binary.Write(w, binary.LittleEndian, int64(f.Cycle)); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, f.TimeHours); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, int64(len(f.Phases))); err != nil {
			return err
		}
		for _, p := range f.Phases {
			if err := binary.Write(w, binary.LittleEndian, int16(p)); err != nil {
				return err
			}
		}
	}
	return nil
}
