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

import "fmt"

// NeighborSet selects how many neighbors are considered adjacent to a
// voxel: a face-only (6), face+edge (18), or face+edge+corner (26) set.
type NeighborSet int

const (
	Neighbors6  NeighborSet = 6
	Neighbors18 NeighborSet = 18
	Neighbors26 NeighborSet = 26
)

// offsets6/18/26 list the relative (dx,dy,dz) of each neighbor set. 18 and
// 26 extend 6 with edge- and corner-sharing voxels respectively.
var offsets6 = [][3]int{
	{1, 0, 0}, {-1, 0, 0},
	{0, 1, 0}, {0, -1, 0},
	{0, 0, 1}, {0, 0, -1},
}

var offsets18 = append(append([][3]int{}, offsets6...), [][3]int{
	{1, 1, 0}, {1, -1, 0}, {-1, 1, 0}, {-1, -1, 0},
	{1, 0, 1}, {1, 0, -1}, {-1, 0, 1}, {-1, 0, -1},
	{0, 1, 1}, {0, 1, -1}, {0, -1, 1}, {0, -1, -1},
}...)

var offsets26 = append(append([][3]int{}, offsets18...), [][3]int{
	{1, 1, 1}, {1, 1, -1}, {1, -1, 1}, {1, -1, -1},
	{-1, 1, 1}, {-1, 1, -1}, {-1, -1, 1}, {-1, -1, -1},
}...)

// Offsets returns the relative neighbor coordinates for n.
func (n NeighborSet) Offsets() [][3]int {
	switch n {
	case Neighbors6:
		return offsets6
	case Neighbors18:
		return offsets18
	case Neighbors26:
		return offsets26
	default:
		panic(fmt.Sprintf("cemhyd: invalid neighbor set %d", n))
	}
}

// faceBit indexes the six face-deactivation bits, one per +/-axis
// direction. A set bit means dissolution is not allowed through that face
// (see Grid.FaceDeactivated). This replaces the original C model's
// product-of-primes encoding (2,3,5,7,11,13) -- see spec section 9, Open
// Questions -- with a plain bitmask, avoiding the 32-bit overflow risk the
// spec calls out when all six faces of a voxel are deactivated at once.
type faceBit uint8

const (
	faceXPlus faceBit = 1 << iota
	faceXMinus
	faceYPlus
	faceYMinus
	faceZPlus
	faceZMinus
)

// faceBitForOffset returns the face bit corresponding to moving in
// direction (dx,dy,dz); only axis-aligned unit offsets are meaningful here,
// since face deactivation is defined in terms of the six face neighbors.
func faceBitForOffset(dx, dy, dz int) (faceBit, bool) {
	switch {
	case dx == 1 && dy == 0 && dz == 0:
		return faceXPlus, true
	case dx == -1 && dy == 0 && dz == 0:
		return faceXMinus, true
	case dx == 0 && dy == 1 && dz == 0:
		return faceYPlus, true
	case dx == 0 && dy == -1 && dz == 0:
		return faceYMinus, true
	case dx == 0 && dy == 0 && dz == 1:
		return faceZPlus, true
	case dx == 0 && dy == 0 && dz == -1:
		return faceZMinus, true
	default:
		return 0, false
	}
}

// Grid owns the parallel 3-D voxel arrays: phase id, originating particle
// id, CSH precipitation age, and face-deactivation mask. All indexing is
// periodic (toroidal) on all three axes; Grid.wrap is the single place
// that normalizes a coordinate into [0,N).
//
// Storage is a flat []Phase/[]int32/[]uint8 slice in z-innermost, then y,
// then x order (x outermost), per the post-"2025 August 05" convention
// named in spec.md section 9 -- legacy y-innermost files are rejected by
// the image reader (see output.ReadMicrostructure) rather than silently misread.
type Grid struct {
	Nx, Ny, Nz int
	Resolution float64 // mm per voxel edge

	mic      []Phase   // phase id, len Nx*Ny*Nz
	micpart  []int32   // particle id, 0 = one-voxel particle
	cshAge   []int32   // cycle of precipitation, for CSH voxels; -1 otherwise
	faceMask []faceBit // per-voxel face-deactivation bitmask

	// Count is the live per-phase voxel count, kept in sync by Set.
	Count [numPhases]int64
}

// NewGrid allocates a grid of the given dimensions. All voxels start as
// POROSITY; callers typically overwrite this immediately from a loaded
// microstructure file.
func NewGrid(nx, ny, nz int, resolution float64) *Grid {
	n := nx * ny * nz
	g := &Grid{
		Nx: nx, Ny: ny, Nz: nz, Resolution: resolution,
		mic:      make([]Phase, n),
		micpart:  make([]int32, n),
		cshAge:   make([]int32, n),
		faceMask: make([]faceBit, n),
	}
	for i := range g.mic {
		g.mic[i] = POROSITY
		g.cshAge[i] = -1
	}
	g.Count[POROSITY] = int64(n)
	return g
}

// wrap normalizes a coordinate into [0,n) under periodic boundary
// conditions; works for any integer, not just one step out of range.
func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// index computes the flat storage offset for (x,y,z), applying periodic
// wrap on all three axes.
func (g *Grid) index(x, y, z int) int {
	x = wrap(x, g.Nx)
	y = wrap(y, g.Ny)
	z = wrap(z, g.Nz)
	return (x*g.Ny+y)*g.Nz + z
}

// Get returns the phase at (x,y,z), with periodic wrap.
func (g *Grid) Get(x, y, z int) Phase {
	return g.mic[g.index(x, y, z)]
}

// GetIdx returns the phase at a precomputed flat index (no wrap).
func (g *Grid) GetIdx(i int) Phase { return g.mic[i] }

// Index exposes the periodic flat index for (x,y,z).
func (g *Grid) Index(x, y, z int) int { return g.index(x, y, z) }

// Coords recovers the (x,y,z) coordinate of a flat index.
func (g *Grid) Coords(i int) (x, y, z int) {
	z = i % g.Nz
	i /= g.Nz
	y = i % g.Ny
	x = i / g.Ny
	return
}

// Set writes the phase at (x,y,z), updating the per-phase Count. Callers
// holding a flat index should prefer SetIdx to avoid recomputing it.
func (g *Grid) Set(x, y, z int, p Phase) {
	g.SetIdx(g.index(x, y, z), p)
}

// SetIdx writes the phase at a precomputed flat index, updating Count.
func (g *Grid) SetIdx(i int, p Phase) {
	old := g.mic[i]
	if old < numPhases && old > 0 {
		g.Count[old]--
	}
	g.mic[i] = p
	if p < numPhases && p > 0 {
		g.Count[p]++
	}
}

// Particle returns the originating particle id at (x,y,z).
func (g *Grid) Particle(x, y, z int) int32 { return g.micpart[g.index(x, y, z)] }

// ParticleIdx returns the originating particle id at a flat index.
func (g *Grid) ParticleIdx(i int) int32 { return g.micpart[i] }

// SetParticleIdx sets the originating particle id at a flat index.
func (g *Grid) SetParticleIdx(i int, id int32) { g.micpart[i] = id }

// CSHAgeIdx returns the precipitation cycle of the CSH voxel at i, or -1.
func (g *Grid) CSHAgeIdx(i int) int32 { return g.cshAge[i] }

// SetCSHAgeIdx records the precipitation cycle of a newly-formed CSH voxel.
func (g *Grid) SetCSHAgeIdx(i int, cycle int32) { g.cshAge[i] = cycle }

// FaceDeactivated reports whether dissolution is blocked through the face
// of (x,y,z) in direction (dx,dy,dz). Non-axis-aligned offsets are never
// deactivated (face deactivation is a 6-neighbor concept even when the
// active neighbor set is 18 or 26).
func (g *Grid) FaceDeactivated(x, y, z, dx, dy, dz int) bool {
	bit, ok := faceBitForOffset(dx, dy, dz)
	if !ok {
		return false
	}
	return g.faceMask[g.index(x, y, z)]&bit != 0
}

// DeactivateFace sets the deactivation bit for the given face.
func (g *Grid) DeactivateFace(x, y, z, dx, dy, dz int) {
	bit, ok := faceBitForOffset(dx, dy, dz)
	if !ok {
		return
	}
	g.faceMask[g.index(x, y, z)] |= bit
}

// ReactivateFace clears the deactivation bit for the given face.
func (g *Grid) ReactivateFace(x, y, z, dx, dy, dz int) {
	bit, ok := faceBitForOffset(dx, dy, dz)
	if !ok {
		return
	}
	g.faceMask[g.index(x, y, z)] &^= bit
}

// ApplyFaceSchedule scans every solid voxel's six face neighbors, clearing
// the deactivation bit for any face that no longer borders EMPTYP and
// setting it for any face that now does (spec.md section 4.10, "apply
// scheduled surface deactivation/reactivation"). A deactivated face through
// EMPTYP keeps dissolution from discharging species into an already
// water-starved pore; once the neighbor is no longer EMPTYP -- refilled by
// a crack reopening the region, say -- the face reopens. Face deactivation
// is always a 6-neighbor concept (see faceBit), independent of which
// neighbor set dissolution itself is using.
func (g *Grid) ApplyFaceSchedule() {
	for i, p := range g.mic {
		if p == POROSITY || p == CRACKP || p == EMPTYP {
			continue
		}
		x, y, z := g.Coords(i)
		for _, o := range offsets6 {
			dx, dy, dz := o[0], o[1], o[2]
			if g.Get(x+dx, y+dy, z+dz) == EMPTYP {
				g.DeactivateFace(x, y, z, dx, dy, dz)
			} else {
				g.ReactivateFace(x, y, z, dx, dy, dz)
			}
		}
	}
}

// CountBox counts voxels within an axis-aligned cube of half-width `half`
// (i.e. side 2*half+1) centered at (cx,cy,cz), periodic on all axes, whose
// phase is POROSITY, CRACKP, or EMPTYP. Used by self-desiccation ranking
// (dissolve.go).
func (g *Grid) CountBox(half, cx, cy, cz int) int {
	count := 0
	for dx := -half; dx <= half; dx++ {
		for dy := -half; dy <= half; dy++ {
			for dz := -half; dz <= half; dz++ {
				switch g.Get(cx+dx, cy+dy, cz+dz) {
				case POROSITY, CRACKP, EMPTYP:
					count++
				}
			}
		}
	}
	return count
}

// Total returns the total number of voxels in the grid.
func (g *Grid) Total() int64 { return int64(g.Nx) * int64(g.Ny) * int64(g.Nz) }

// CountTotal sums Count across all real phases; under invariant 1 of
// spec.md section 8 this must always equal Total().
func (g *Grid) CountTotal() int64 {
	var sum int64
	for p := Phase(1); p < numPhases; p++ {
		sum += g.Count[p]
	}
	return sum
}
