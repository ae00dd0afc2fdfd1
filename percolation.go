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

// Axis selects which grid axis a percolation probe is run along.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Percolates reports whether a connected path of voxels satisfying accept
// spans the grid along axis: non-periodic along the probed axis (entry at
// coordinate 0, exit at coordinate N-1 on that axis), periodic on the
// other two, matching spec.md section 4.8's burn3d/burnset semantics. A
// single breadth-first search from every axis=0 voxel that satisfies
// accept answers both the pore (burn3d) and solid (burnset) probes; the
// caller supplies accept to select which.
func (g *Grid) Percolates(axis Axis, accept func(Phase) bool) bool {
	n := len(g.mic)
	visited := make([]bool, n)
	var queue []int

	axisLen := g.axisLen(axis)
	for i := 0; i < n; i++ {
		x, y, z := g.Coords(i)
		if g.axisCoord(axis, x, y, z) != 0 {
			continue
		}
		if !accept(g.mic[i]) || visited[i] {
			continue
		}
		visited[i] = true
		queue = append(queue, i)
	}

	offs := Neighbors6.Offsets()
	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]
		x, y, z := g.Coords(idx)
		if g.axisCoord(axis, x, y, z) == axisLen-1 {
			return true
		}
		for _, o := range offs {
			nx, ny, nz := x+o[0], y+o[1], z+o[2]
			if !g.axisInBounds(axis, nx, ny, nz) {
				continue
			}
			ni := g.index(nx, ny, nz)
			if visited[ni] || !accept(g.mic[ni]) {
				continue
			}
			visited[ni] = true
			queue = append(queue, ni)
		}
	}
	return false
}

func (g *Grid) axisLen(axis Axis) int {
	switch axis {
	case AxisX:
		return g.Nx
	case AxisY:
		return g.Ny
	default:
		return g.Nz
	}
}

func (g *Grid) axisCoord(axis Axis, x, y, z int) int {
	switch axis {
	case AxisX:
		return x
	case AxisY:
		return y
	default:
		return z
	}
}

// axisInBounds reports whether the probed axis coordinate stays in
// [0,len) (non-periodic along the probe axis) while wrapping the other two
// (periodic), and returns the wrapped coordinate implicitly by construction
// -- callers always pass the result straight to Grid.index, which itself
// wraps, so only the probe axis needs an explicit bounds check here.
func (g *Grid) axisInBounds(axis Axis, x, y, z int) bool {
	switch axis {
	case AxisX:
		return x >= 0 && x < g.Nx
	case AxisY:
		return y >= 0 && y < g.Ny
	default:
		return z >= 0 && z < g.Nz
	}
}

// isPoreOrCrack accepts the phases burn3d treats as pore-connected.
func isPoreOrCrack(p Phase) bool { return p == POROSITY || p == CRACKP || p == EMPTYP }

// isSolid accepts every non-pore, non-diffusing phase, for burnset.
func isSolid(p Phase) bool { return !isPoreOrCrack(p) && !p.IsDiffusing() }

// PorePercolation runs the burn3d probe on all three axes.
func (g *Grid) PorePercolation() (x, y, z bool) {
	return g.Percolates(AxisX, isPoreOrCrack), g.Percolates(AxisY, isPoreOrCrack), g.Percolates(AxisZ, isPoreOrCrack)
}

// SolidPercolation runs the burnset probe on all three axes.
func (g *Grid) SolidPercolation() (x, y, z bool) {
	return g.Percolates(AxisX, isSolid), g.Percolates(AxisY, isSolid), g.Percolates(AxisZ, isSolid)
}
