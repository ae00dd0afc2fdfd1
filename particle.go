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

// ParticleStats holds one original clinker particle's running voxel
// counts: how many of its original voxels remain unreacted clinker versus
// how many have dissolved, used to compute a per-particle degree of
// hydration.
type ParticleStats struct {
	TotalVoxels    int64
	ReactedVoxels  int64
}

// Alpha returns this particle's degree of hydration, 0 if it has no
// recorded voxels (an id never assigned, e.g. particle 0, the one-voxel
// convention).
func (p ParticleStats) Alpha() float64 {
	if p.TotalVoxels == 0 {
		return 0
	}
	return float64(p.ReactedVoxels) / float64(p.TotalVoxels)
}

// ParticleHydration walks Micpart and returns the current degree of
// hydration for every particle id present on the grid (spec.md section
// 4.8, parthyd). originalPhase records, per voxel, the clinker phase the
// voxel started as at cycle 0 -- needed because a dissolved voxel no
// longer carries that information itself. originalPhase is indexed by the
// same flat index as the grid and is captured once at initialization.
func ParticleHydration(g *Grid, originalPhase []Phase) map[int32]ParticleStats {
	stats := make(map[int32]ParticleStats)
	for idx, orig := range originalPhase {
		if orig <= 0 || orig >= numPhases || orig == POROSITY || orig == CRACKP || orig == EMPTYP {
			continue
		}
		id := g.ParticleIdx(idx)
		s := stats[id]
		s.TotalVoxels++
		if g.GetIdx(idx) != orig {
			s.ReactedVoxels++
		}
		stats[id] = s
	}
	return stats
}

// OverallAlpha computes the system-wide degree of hydration directly from
// current phase counts and the initial clinker voxel count, without
// requiring the per-particle originalPhase snapshot: it is the fraction of
// initial clinker-phase voxels (C3S, C2S, C3A, OC3A, C4AF) that are no
// longer that same clinker phase.
func OverallAlpha(g *Grid, initialClinkerCount int64) float64 {
	if initialClinkerCount == 0 {
		return 0
	}
	var remaining int64
	for _, p := range []Phase{C3S, C2S, C3A, OC3A, C4AF} {
		remaining += g.Count[p]
	}
	reacted := initialClinkerCount - remaining
	if reacted < 0 {
		reacted = 0
	}
	return float64(reacted) / float64(initialClinkerCount)
}
