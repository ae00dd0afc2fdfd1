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

import "testing"

func TestRNGReproducibleFromSameSeed(t *testing.T) {
	a := NewRNG(-12345)
	b := NewRNG(-12345)
	for i := 0; i < 100; i++ {
		av, bv := a.Float64(), b.Float64()
		if av != bv {
			t.Fatalf("draw %d diverged: %v != %v", i, av, bv)
		}
	}
}

func TestRNGFloat64InRange(t *testing.T) {
	r := NewRNG(-1)
	for i := 0; i < 10000; i++ {
		v := r.Float64()
		if v < 0 || v >= 1 {
			t.Fatalf("Float64() = %v, want in [0,1)", v)
		}
	}
}

func TestRNGSeedZeroRemappedToMinusOne(t *testing.T) {
	a := NewRNG(0)
	b := NewRNG(-1)
	if a.Float64() != b.Float64() {
		t.Fatal("seed 0 should be remapped to -1")
	}
}

func TestRNGIntnRange(t *testing.T) {
	r := NewRNG(-99)
	for i := 0; i < 1000; i++ {
		v := r.Intn(6)
		if v < 0 || v >= 6 {
			t.Fatalf("Intn(6) = %d, out of range", v)
		}
	}
}

func TestRNGIntnPanicsOnNonPositive(t *testing.T) {
	r := NewRNG(-1)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for Intn(0)")
		}
	}()
	r.Intn(0)
}

func TestRNGOffsetWithinNeighborSet(t *testing.T) {
	r := NewRNG(-7)
	for i := 0; i < 500; i++ {
		off := r.Offset(Neighbors26)
		found := false
		for _, want := range offsets26 {
			if off == want {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("Offset(Neighbors26) = %v, not a member of offsets26", off)
		}
	}
}

func TestRNGPermutationIsBijection(t *testing.T) {
	r := NewRNG(-42)
	p := r.permutation(20)
	seen := make(map[int]bool, 20)
	for _, v := range p {
		if v < 0 || v >= 20 {
			t.Fatalf("permutation element %d out of range", v)
		}
		if seen[v] {
			t.Fatalf("permutation repeats element %d", v)
		}
		seen[v] = true
	}
	if len(seen) != 20 {
		t.Fatalf("permutation has %d distinct elements, want 20", len(seen))
	}
}
