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

// RNG is a reproducible pseudo-random source, a Go port of the Numerical
// Recipes ran2 generator: L'Ecuyer's combination of two multiplicative
// congruential generators, with a Bays-Durham shuffle to break up
// low-order serial correlation. It is not ran1's single Park-Miller
// generator, so its sequence differs from ran1's for the same seed. Given
// the same negative seed it produces the same sequence on every platform,
// which this program relies on for reproducible runs across invocations.
type RNG struct {
	idum  int32
	idum2 int32
	iy    int32
	iv    [32]int32
}

const (
	ranIM1  = 2147483563
	ranIM2  = 2147483399
	ranIA1  = 40014
	ranIA2  = 40692
	ranIQ1  = 53668
	ranIQ2  = 52774
	ranIR1  = 12211
	ranIR2  = 3791
	ranIMM1 = ranIM1 - 1
	ranNTAB = 32
	ranNDIV = 1 + ranIMM1/ranNTAB
)

// NewRNG seeds a generator. Per the ran1 convention, seed should be
// negative on first use; 0 is remapped to -1 since ran1 is undefined there.
func NewRNG(seed int64) *RNG {
	r := &RNG{}
	r.Seed(seed)
	return r
}

// Seed (re-)initializes the generator from a fresh seed.
func (r *RNG) Seed(seed int64) {
	idum := int32(seed)
	if idum == 0 {
		idum = -1
	}
	if idum < 0 {
		idum = -idum
	}
	r.idum = idum
	r.idum2 = idum
	for j := ranNTAB + 7; j >= 0; j-- {
		k := r.idum / ranIQ1
		r.idum = ranIA1*(r.idum-k*ranIQ1) - k*ranIR1
		if r.idum < 0 {
			r.idum += ranIM1
		}
		if j < ranNTAB {
			r.iv[j] = r.idum
		}
	}
	r.iy = r.iv[0]
}

// Float64 returns a uniform deviate in [0,1).
func (r *RNG) Float64() float64 {
	k := r.idum / ranIQ1
	r.idum = ranIA1*(r.idum-k*ranIQ1) - k*ranIR1
	if r.idum < 0 {
		r.idum += ranIM1
	}
	k = r.idum2 / ranIQ2
	r.idum2 = ranIA2*(r.idum2-k*ranIQ2) - k*ranIR2
	if r.idum2 < 0 {
		r.idum2 += ranIM2
	}
	j := r.iy / ranNDIV
	r.iy = r.iv[j] - r.idum2
	r.iv[j] = r.idum
	if r.iy < 1 {
		r.iy += ranIMM1
	}
	return float64(r.iy) / float64(ranIM1)
}

// Intn returns a uniform integer in [0,n). Panics if n <= 0.
func (r *RNG) Intn(n int) int {
	if n <= 0 {
		panic("cemhyd: Intn called with n <= 0")
	}
	return int(r.Float64() * float64(n))
}

// Offset picks a uniformly random element of a NeighborSet's offset table.
func (r *RNG) Offset(n NeighborSet) [3]int {
	offs := n.Offsets()
	return offs[r.Intn(len(offs))]
}

// permutation returns a Fisher-Yates shuffled []int{0,...,n-1}, used to
// visit dissolution/diffusion candidates in random order each cycle
// without the bias of always scanning the grid in storage order.
func (r *RNG) permutation(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		p[i], p[j] = p[j], p[i]
	}
	return p
}
