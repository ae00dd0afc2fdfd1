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

import "testing"

func newTestList() (*Grid, *SpeciesList) {
	g := NewGrid(4, 4, 4, 1.0)
	return g, NewSpeciesList(g)
}

func TestSpeciesListAddAtRemove(t *testing.T) {
	_, l := newTestList()
	l.Add(Species{X: 1, Y: 2, Z: 3, Phase: DIFFCSH})
	if l.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", l.Len())
	}
	s, ok := l.At(1, 2, 3)
	if !ok || s.Phase != DIFFCSH {
		t.Fatalf("At(1,2,3) = %v, %v, want DIFFCSH species", s, ok)
	}
	l.Remove(1, 2, 3)
	if l.Len() != 0 {
		t.Fatalf("Len() = %d after remove, want 0", l.Len())
	}
	if _, ok := l.At(1, 2, 3); ok {
		t.Fatal("At(1,2,3) still present after Remove")
	}
}

func TestSpeciesListAddDuplicatePanics(t *testing.T) {
	_, l := newTestList()
	l.Add(Species{X: 0, Y: 0, Z: 0, Phase: DIFFCSH})
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic adding a duplicate position")
		}
	}()
	l.Add(Species{X: 0, Y: 0, Z: 0, Phase: DIFFCH})
}

func TestSpeciesListRemoveMiddlePreservesOrder(t *testing.T) {
	_, l := newTestList()
	l.Add(Species{X: 0, Y: 0, Z: 0, Phase: DIFFCSH})
	l.Add(Species{X: 1, Y: 0, Z: 0, Phase: DIFFCH})
	l.Add(Species{X: 2, Y: 0, Z: 0, Phase: DIFFGYP})

	l.Remove(1, 0, 0)

	var order []Phase
	l.ForEach(func(s *Species) { order = append(order, s.Phase) })
	if len(order) != 2 || order[0] != DIFFCSH || order[1] != DIFFGYP {
		t.Fatalf("order after removing middle element = %v", order)
	}
	if l.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", l.Len())
	}
}

func TestSpeciesListForEachSurvivesRemovalDuringIteration(t *testing.T) {
	_, l := newTestList()
	for i := 0; i < 5; i++ {
		l.Add(Species{X: i, Y: 0, Z: 0, Phase: DIFFCSH})
	}
	visited := 0
	l.ForEach(func(s *Species) {
		visited++
		if s.X == 2 {
			l.Remove(3, 0, 0) // remove a not-yet-visited node mid-traversal
		}
	})
	if visited != 5 {
		t.Fatalf("visited = %d, want 5 (removal must not skip unrelated nodes)", visited)
	}
	if l.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", l.Len())
	}
}

func TestSpeciesListMoveReKeysIndex(t *testing.T) {
	_, l := newTestList()
	l.Add(Species{X: 0, Y: 0, Z: 0, Phase: DIFFCSH})
	l.Move(0, 0, 0, 1, 1, 1)

	if _, ok := l.At(0, 0, 0); ok {
		t.Fatal("species still found at old position after Move")
	}
	s, ok := l.At(1, 1, 1)
	if !ok {
		t.Fatal("species not found at new position after Move")
	}
	if s.X != 1 || s.Y != 1 || s.Z != 1 {
		t.Fatalf("species coordinates = (%d,%d,%d), want (1,1,1)", s.X, s.Y, s.Z)
	}
}

func TestCandidateListRemoveAtSwapsWithLast(t *testing.T) {
	c := newCandidateList()
	c.add(10)
	c.add(20)
	c.add(30)

	removed := c.removeAt(0)
	if removed != 10 {
		t.Fatalf("removeAt(0) = %d, want 10", removed)
	}
	if c.len() != 2 {
		t.Fatalf("len() = %d, want 2", c.len())
	}
	if c.remove(20) != true || c.remove(30) != true {
		t.Fatal("remaining items 20 and 30 should still be removable")
	}
	if c.len() != 0 {
		t.Fatalf("len() = %d, want 0", c.len())
	}
}

func TestCandidateListRemoveMissing(t *testing.T) {
	c := newCandidateList()
	c.add(1)
	if c.remove(99) {
		t.Fatal("remove of an absent index should report false")
	}
	if c.len() != 1 {
		t.Fatalf("len() = %d, want 1", c.len())
	}
}
