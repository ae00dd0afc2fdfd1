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

// MaxDiffSteps is the numerator of the per-cycle random-walk step budget:
// N_steps = MaxDiffSteps / resolution^2, truncated to an integer. At the
// model's reference resolution of 1.0 (1 um voxels) this gives 4 steps;
// finer grids get more steps per cycle, coarser grids fewer, and the
// truncation can reach zero (Hydrate then uses one step), which the
// original model also does and which this port keeps rather than "fixing"
// (see DESIGN.md, Open Question: integer truncation of N_steps).
const MaxDiffSteps = 4

// MaxLifetimeSteps bounds how many cumulative trial moves a diffusing
// species may attempt over its lifetime before it is forced to decay
// (spec.md section 4.5, "maximum lifetime").
const MaxLifetimeSteps = 1000

// ReactionRule describes one row of the diffusion-reaction table: a
// diffusing species reacts with a neighboring partner phase (or, if
// Partner is 0, nucleates on itself/a named seed phase) to form Product.
type ReactionRule struct {
	Partner Phase
	Product Phase

	// Seed is the phase whose voxel count drives the nucleation
	// probability scaling term; 0 means use Product's own count.
	Seed Phase

	PNuc   float64 // base nucleation probability
	PScale float64 // scaling coefficient against (count[Seed] / syspix)

	// ExtraWater records the additional moles of water per mole reacted
	// beyond the product's registry entry (1.5-2 extra moles on the
	// DIFFANH/DIFFHEM -> GYPSUMS rows); no code in this package reads it.
	ExtraWater float64
}

// reactionTable maps each diffusing phase to its candidate reactions, in
// priority order; the first rule whose partner condition is satisfied and
// whose probability roll succeeds wins. Table-driven rather than a
// type/method per diffusing phase, per spec.md section 9's design note.
var reactionTable = map[Phase][]ReactionRule{
	DIFFC3A: {
		{Partner: DIFFGYP, Product: ETTR, PNuc: 0.2, PScale: 1.0},
		{Partner: DIFFCACL2, Product: FRIEDEL, PNuc: 0.1, PScale: 1.0},
		{Partner: 0, Product: C3AH6, Seed: C3AH6, PNuc: 0.001, PScale: 2.0},
	},
	DIFFC4A: {
		{Partner: DIFFGYP, Product: ETTRC4AF, PNuc: 0.2, PScale: 1.0},
	},
	DIFFCH: {
		{Partner: DIFFFH3, Product: AFM, PNuc: 0.05, PScale: 1.0},
		{Partner: SFUME, Product: POZZCSH, PNuc: 0.01, PScale: 3.0},
		{Partner: AMSIL, Product: POZZCSH, PNuc: 0.01, PScale: 3.0},
		{Partner: ASG, Product: STRAT, PNuc: 0.01, PScale: 2.0},
		{Partner: 0, Product: CH, Seed: CH, PNuc: 0.001, PScale: 2.0},
	},
	DIFFCSH: {
		{Partner: 0, Product: CSH, Seed: CSH, PNuc: 0.001, PScale: 2.0},
	},
	DIFFGYP: {
		{Partner: 0, Product: GYPSUMS, Seed: GYPSUM, PNuc: 0.0005, PScale: 1.0},
	},
	DIFFCACO3: {
		{Partner: AFM, Product: AFMC, PNuc: 0.1, PScale: 1.0},
	},
	DIFFANH: {
		{Partner: 0, Product: GYPSUMS, Seed: GYPSUM, PNuc: 0.002, PScale: 1.0, ExtraWater: 2.0},
	},
	DIFFHEM: {
		{Partner: 0, Product: GYPSUMS, Seed: GYPSUM, PNuc: 0.002, PScale: 1.0, ExtraWater: 1.5},
	},
}

// hydrateStats accumulates one cycle's diffusion+reaction outcome.
type hydrateStats struct {
	attemptedMoves int64
	successfulMoves int64
	reactions      int64
	decayed        int64
	byProduct      [numPhases]int64
}

// Hydrate runs one cycle's diffusion-and-reaction stage (spec.md section
// 4.5) over every species currently in l, returning the cycle's
// statistics. Species that react are removed from l and converted into
// solid product voxels; species that exceed MaxLifetimeSteps decay; all
// others attempt up to steps random-walk moves.
func Hydrate(g *Grid, l *SpeciesList, reg *Registry, neighbors NeighborSet, resolution float64, cycle int32, rng *RNG) hydrateStats {
	var stats hydrateStats
	steps := int(MaxDiffSteps / (resolution * resolution))
	if steps < 1 {
		steps = 1
	}

	var toRemove []*Species
	l.ForEach(func(s *Species) {
		if reacted := tryReact(g, l, reg, s, neighbors, cycle, rng, &stats); reacted {
			toRemove = append(toRemove, s)
			return
		}
		for i := 0; i < steps; i++ {
			s.Steps++
			stats.attemptedMoves++
			if s.Steps > MaxLifetimeSteps {
				decaySpecies(g, l, reg, s, cycle, &stats)
				toRemove = append(toRemove, s)
				return
			}
			if walkStep(g, l, s, neighbors, rng) {
				stats.successfulMoves++
			}
			if reacted := tryReact(g, l, reg, s, neighbors, cycle, rng, &stats); reacted {
				toRemove = append(toRemove, s)
				return
			}
		}
	})
	for _, s := range toRemove {
		l.Remove(s.X, s.Y, s.Z)
	}
	return stats
}

// walkStep attempts a single random-walk move for s, swapping it into a
// uniformly chosen neighbor voxel if that voxel is POROSITY or CRACKP.
func walkStep(g *Grid, l *SpeciesList, s *Species, neighbors NeighborSet, rng *RNG) bool {
	o := rng.Offset(neighbors)
	nx, ny, nz := s.X+o[0], s.Y+o[1], s.Z+o[2]
	dest := g.Get(nx, ny, nz)
	if dest != POROSITY && dest != CRACKP {
		return false
	}
	g.Set(s.X, s.Y, s.Z, dest)
	g.Set(nx, ny, nz, s.Phase)
	l.Move(s.X, s.Y, s.Z, nx, ny, nz)
	s.X, s.Y, s.Z = nx, ny, nz
	return true
}

// tryReact checks s's reaction rules in order and, on the first successful
// probability roll, converts s's voxel into the product phase and updates
// bookkeeping. Returns true if a reaction occurred.
func tryReact(g *Grid, l *SpeciesList, reg *Registry, s *Species, neighbors NeighborSet, cycle int32, rng *RNG, stats *hydrateStats) bool {
	rules, ok := reactionTable[s.Phase]
	if !ok {
		return false
	}
	syspix := float64(g.Total())
	for _, rule := range rules {
		if rule.Partner != 0 && !hasNeighborPhase(g, s.X, s.Y, s.Z, rule.Partner, neighbors) {
			continue
		}
		seed := rule.Seed
		if seed == 0 {
			seed = rule.Product
		}
		p := rule.PNuc + rule.PScale*(float64(g.Count[seed])/syspix)
		if p > 1 {
			p = 1
		}
		if rng.Float64() >= p {
			continue
		}
		commitReaction(g, reg, s, rule.Product, cycle)
		stats.reactions++
		stats.byProduct[rule.Product]++
		return true
	}
	return false
}

// hasNeighborPhase reports whether any neighbor of (x,y,z) currently holds
// phase p.
func hasNeighborPhase(g *Grid, x, y, z int, p Phase, neighbors NeighborSet) bool {
	for _, o := range neighbors.Offsets() {
		if g.Get(x+o[0], y+o[1], z+o[2]) == p {
			return true
		}
	}
	return false
}

// commitReaction converts s's voxel to product, recording CSH age when
// relevant. The caller is responsible for removing s from its SpeciesList.
func commitReaction(g *Grid, reg *Registry, s *Species, product Phase, cycle int32) {
	idx := g.Index(s.X, s.Y, s.Z)
	g.SetIdx(idx, product)
	if product == CSH || product == POZZCSH || product == SLAGCSH {
		g.SetCSHAgeIdx(idx, cycle)
	}
}

// decaySpecies handles a species that has exceeded its lifetime budget: it
// precipitates in place as the solid phase diffusingFallback names for it.
// The whole species converts; it is not split between a local precipitate
// and a fall-back phase, and the phase registry is not consulted.
func decaySpecies(g *Grid, l *SpeciesList, reg *Registry, s *Species, cycle int32, stats *hydrateStats) {
	fallback := diffusingFallback(s.Phase)
	commitReaction(g, reg, s, fallback, cycle)
	stats.decayed++
	stats.byProduct[fallback]++
}

// diffusingFallback returns the solid phase a diffusing species reverts to
// if it never finds a reaction partner before exhausting its lifetime.
func diffusingFallback(p Phase) Phase {
	switch p {
	case DIFFCSH:
		return CSH
	case DIFFCH:
		return CH
	case DIFFGYP:
		return GYPSUMS
	case DIFFETTR:
		return ETTR
	case DIFFC3A:
		return C3AH6
	case DIFFC4A:
		return ETTRC4AF
	case DIFFSO4:
		return GYPSUMS
	case DIFFFH3:
		return FH3
	case DIFFAS:
		return STRAT
	case DIFFCAS2:
		return STRAT
	case DIFFCACL2:
		return FRIEDEL
	case DIFFCACO3:
		return AFMC
	case DIFFANH:
		return GYPSUMS
	case DIFFHEM:
		return GYPSUMS
	default:
		return POROSITY
	}
}
