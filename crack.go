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

// CrackSchedule names the single scheduled crack event: a plane
// perpendicular to Axis is opened Crackwidth voxels wide at the grid's
// midpoint along that axis (spec.md section 4.9). Only one crack event is
// ever applied per run.
type CrackSchedule struct {
	Axis       Axis
	Crackwidth int
	Applied    bool
}

// Crack grows the grid along axis by Crackwidth voxels, splitting it at
// the midpoint: the far half is shifted outward by Crackwidth and the gap
// is filled with CRACKP. It mutates g in place, replacing its internal
// slices, and returns the pre-crack length along axis and the split
// coordinate, which the caller (the orchestrator) uses to shift diffusing
// species coordinates and rescale size-dependent derived scalars (heat
// conversion factor, CSH/pozzolanic nucleation scales).
func Crack(g *Grid, axis Axis, width int) (oldLen, split int) {
	oldLen = g.axisLen(axis)
	split = oldLen / 2

	newNx, newNy, newNz := g.Nx, g.Ny, g.Nz
	switch axis {
	case AxisX:
		newNx += width
	case AxisY:
		newNy += width
	default:
		newNz += width
	}

	ng := NewGrid(newNx, newNy, newNz, g.Resolution)
	for x := 0; x < g.Nx; x++ {
		for y := 0; y < g.Ny; y++ {
			for z := 0; z < g.Nz; z++ {
				nx, ny, nz := x, y, z
				if g.axisCoord(axis, x, y, z) >= split {
					switch axis {
					case AxisX:
						nx += width
					case AxisY:
						ny += width
					default:
						nz += width
					}
				}
				srcIdx := g.index(x, y, z)
				dstIdx := ng.index(nx, ny, nz)
				ng.SetIdx(dstIdx, g.mic[srcIdx])
				ng.SetParticleIdx(dstIdx, g.micpart[srcIdx])
				ng.SetCSHAgeIdx(dstIdx, g.cshAge[srcIdx])
				ng.faceMask[dstIdx] = g.faceMask[srcIdx]
			}
		}
	}
	fillCrackGap(ng, axis, split, width)

	*g = *ng
	return oldLen, split
}

// fillCrackGap sets every voxel in the newly-opened slab to CRACKP.
func fillCrackGap(g *Grid, axis Axis, split, width int) {
	for i := 0; i < width; i++ {
		coord := split + i
		switch axis {
		case AxisX:
			for y := 0; y < g.Ny; y++ {
				for z := 0; z < g.Nz; z++ {
					g.SetIdx(g.index(coord, y, z), CRACKP)
				}
			}
		case AxisY:
			for x := 0; x < g.Nx; x++ {
				for z := 0; z < g.Nz; z++ {
					g.SetIdx(g.index(x, coord, z), CRACKP)
				}
			}
		default:
			for x := 0; x < g.Nx; x++ {
				for y := 0; y < g.Ny; y++ {
					g.SetIdx(g.index(x, y, coord), CRACKP)
				}
			}
		}
	}
}

// ShiftSpeciesForCrack moves every diffusing species whose coordinate on
// axis is at or past split by +width, matching the voxels Crack already
// relocated. Must run immediately after Crack, before any further
// dissolve/hydrate cycle touches the list.
func ShiftSpeciesForCrack(l *SpeciesList, axis Axis, split, width int) {
	var toShift []*Species
	l.ForEach(func(s *Species) {
		coord := axisCoordOf(axis, s)
		if coord >= split {
			toShift = append(toShift, s)
		}
	})
	for _, s := range toShift {
		oldX, oldY, oldZ := s.X, s.Y, s.Z
		switch axis {
		case AxisX:
			s.X += width
		case AxisY:
			s.Y += width
		default:
			s.Z += width
		}
		l.Move(oldX, oldY, oldZ, s.X, s.Y, s.Z)
	}
}

func axisCoordOf(axis Axis, s *Species) int {
	switch axis {
	case AxisX:
		return s.X
	case AxisY:
		return s.Y
	default:
		return s.Z
	}
}
