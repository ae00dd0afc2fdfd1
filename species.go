/*
Copyright © 2016 the cemhyd authors.
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

import "fmt"

// Species is one currently-diffusing voxel: its grid position, phase id,
// and the cycle on which it was created. The per-species lifetime budget
// in hydrate.go is enforced on Steps, not Born.
type Species struct {
	X, Y, Z int
	Phase   Phase
	Born    int32

	// Steps is the number of random-walk attempts already made this
	// lifetime; reset is not needed since a species lives at most a few
	// thousand cycles and the counter does not wrap in practice.
	Steps int32
}

// speciesRef holds a Species plus its links in a speciesList. Modeled on
// the teacher's cellRef/cellList doubly-linked list with an
// auxiliary index for O(1) delete-by-key. That index is what resolves the
// spec's Open Question about the original C code's broken O(1)
// alkali-sulfate tail removal (`Tailks = curas` without fixing up the
// predecessor) -- here there is no tail-pointer special case to get wrong,
// because deletion always goes through the index.
type speciesRef struct {
	*Species
	next, prev *speciesRef
}

// SpeciesList is a doubly-linked, order-preserving list of diffusing
// species, indexed by grid flat-index for O(1) lookup and removal. The
// grid does not reference the list; the list is the sole owner of its
// nodes (spec.md section 9, "cyclic graphs and back-references").
type SpeciesList struct {
	first, last *speciesRef
	len         int
	byIndex     map[int]*speciesRef
	grid        *Grid
}

// NewSpeciesList creates an empty list bound to grid g, used to translate
// (x,y,z) into the flat index used as the lookup key.
func NewSpeciesList(g *Grid) *SpeciesList {
	return &SpeciesList{byIndex: make(map[int]*speciesRef), grid: g}
}

// Len returns the number of species currently in the list.
func (l *SpeciesList) Len() int { return l.len }

// Add appends a new diffusing species at the end of the list and returns
// it. Panics if a species already occupies this grid position, which would
// indicate a bookkeeping bug upstream (dissolution placing two diffusing
// species on the same voxel).
func (l *SpeciesList) Add(s Species) *Species {
	idx := l.grid.index(s.X, s.Y, s.Z)
	if _, exists := l.byIndex[idx]; exists {
		panic(fmt.Sprintf("cemhyd: species already present at (%d,%d,%d)", s.X, s.Y, s.Z))
	}
	ref := &speciesRef{Species: &s}
	if l.last == nil {
		l.first, l.last = ref, ref
	} else {
		ref.prev = l.last
		l.last.next = ref
		l.last = ref
	}
	l.len++
	l.byIndex[idx] = ref
	return ref.Species
}

// Remove deletes the species at (x,y,z) from the list in O(1). It is a
// no-op if no species is present there.
func (l *SpeciesList) Remove(x, y, z int) {
	idx := l.grid.index(x, y, z)
	ref, ok := l.byIndex[idx]
	if !ok {
		return
	}
	l.remove(ref)
	delete(l.byIndex, idx)
}

func (l *SpeciesList) remove(ref *speciesRef) {
	if ref.prev != nil {
		ref.prev.next = ref.next
	} else {
		l.first = ref.next
	}
	if ref.next != nil {
		ref.next.prev = ref.prev
	} else {
		l.last = ref.prev
	}
	l.len--
}

// Move updates the recorded position of a diffusing species after a
// successful random-walk swap, re-keying the index entry. The caller is
// responsible for having already swapped the grid's phase ids.
func (l *SpeciesList) Move(fromX, fromY, fromZ, toX, toY, toZ int) {
	fromIdx := l.grid.index(fromX, fromY, fromZ)
	ref, ok := l.byIndex[fromIdx]
	if !ok {
		return
	}
	delete(l.byIndex, fromIdx)
	ref.X, ref.Y, ref.Z = toX, toY, toZ
	l.byIndex[l.grid.index(toX, toY, toZ)] = ref
}

// At returns the species at (x,y,z) and whether one exists there.
func (l *SpeciesList) At(x, y, z int) (*Species, bool) {
	ref, ok := l.byIndex[l.grid.index(x, y, z)]
	if !ok {
		return nil, false
	}
	return ref.Species, true
}

// ForEach calls f for every species currently in the list, in insertion
// order. f may remove the current or a previously-visited species (via
// Remove) without disrupting the traversal; it must not add species.
func (l *SpeciesList) ForEach(f func(*Species)) {
	ref := l.first
	for ref != nil {
		next := ref.next
		f(ref.Species)
		ref = next
	}
}

// candidateList is the alkali-sulfate surface-exposed-voxel list used by
// dissolution pass C (spec.md section 4.4): rebuilt each cycle, it supports
// picking a uniformly random element and removing it in O(1), exactly like
// SpeciesList but keyed only by position (no phase/birth-cycle payload is
// needed for a same-cycle, rebuild-every-time list).
type candidateList struct {
	items []int // flat grid indices
	pos   map[int]int
}

func newCandidateList() *candidateList {
	return &candidateList{pos: make(map[int]int)}
}

func (c *candidateList) add(idx int) {
	if _, ok := c.pos[idx]; ok {
		return
	}
	c.pos[idx] = len(c.items)
	c.items = append(c.items, idx)
}

func (c *candidateList) len() int { return len(c.items) }

// removeAt removes and returns the item at list position i (O(1), via
// swap-with-last -- order does not matter for this list, unlike
// SpeciesList, since candidates are drawn uniformly at random).
func (c *candidateList) removeAt(i int) int {
	idx := c.items[i]
	last := len(c.items) - 1
	c.items[i] = c.items[last]
	c.pos[c.items[i]] = i
	c.items = c.items[:last]
	delete(c.pos, idx)
	return idx
}

func (c *candidateList) remove(idx int) bool {
	i, ok := c.pos[idx]
	if !ok {
		return false
	}
	c.removeAt(i)
	return true
}
