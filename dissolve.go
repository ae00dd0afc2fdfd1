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

import "sort"

// DissolutionRates holds the per-phase dissolution probability for one
// cycle, as computed by the kinetics controller (kinetics.go) from the
// current degree of hydration, pH, and temperature. Indexed directly by
// Phase, mirroring Registry's table-driven layout.
type DissolutionRates struct {
	P [numPhases]float64
}

// dissolveStats accumulates the per-cycle outcome of the dissolution stage,
// consumed by the orchestrator's cycle logger and by the thermal submodel
// (moles dissolved drives released heat before any precipitation occurs
// this same cycle, per spec.md section 4.4).
type dissolveStats struct {
	attempted  int64
	dissolved  int64
	byPhase    [numPhases]int64
	sulfateLow bool // true if sulfate-source availability throttled pass B
}

// Dissolve runs one cycle's dissolution stage (spec.md section 4.4, passes
// A-D) over every solid voxel adjacent to porosity, returning the cycle's
// dissolution statistics. It mutates g and l in place: dissolved voxels
// become POROSITY (if DissolvesTo is empty) or gain a new diffusing Species
// at the same position.
//
// Pass A marks every soluble solid voxel touching at least one pore/crack
// neighbor by adding OffsetSentinel to its stored phase id -- a cheap way
// to flag "eligible this cycle" without a second parallel array -- then
// visits marked voxels in randomized order, dissolving each with
// probability rates.P[phase]. Pass B picks a random pore/crack/empty
// neighbor direction per candidate, skips it if that face has been
// deactivated (grid.go's FaceDeactivated), applies the one-voxel-particle
// dissolution bias, and throttles the four sulfate-source phases (gypsum,
// secondary gypsum, hemihydrate, anhydrite) so that at most one of them dissolves at a
// shared interface voxel per cycle, approximating the original model's
// sulfate-depletion-rate limit; C3S/C2S additionally expand into extra
// DIFFCSH to account for CSH's larger molar volume. Pass C builds
// (k2so4Candidates/na2so4Candidates) and drains the alkali-sulfate
// candidate lists. Pass D derives and places the stoichiometric balance
// species (CH, C3A/C4A from C4AF, etc.) implied by this cycle's
// dissolution counts. On return, including a panic, the deferred
// clearSentinels removes the sentinel offsets this call set; offsets left
// by an earlier, aborted call are not cleared.
func Dissolve(g *Grid, l *SpeciesList, reg *Registry, rates *DissolutionRates, kin *KineticsParams, neighbors NeighborSet, cycle int32, rng *RNG) dissolveStats {
	var stats dissolveStats

	candidates := markDissolutionCandidates(g, reg, neighbors)
	defer clearSentinels(g, candidates)

	order := rng.permutation(len(candidates))
	sulfateDissolvedThisVoxel := make(map[int]bool)

	for _, oi := range order {
		idx := candidates[oi]
		phase := g.GetIdx(idx) - OffsetSentinel
		info := reg.Get(phase)
		if !info.Soluble {
			continue
		}
		stats.attempted++

		x, y, z := g.Coords(idx)

		if isSulfateSource(phase) {
			if sulfateBlocked(g, x, y, z, neighbors, sulfateDissolvedThisVoxel) {
				stats.sulfateLow = true
				continue
			}
		}

		dir := poreNeighbor(g, x, y, z, neighbors, rng)
		if dir == nil {
			continue
		}
		if g.FaceDeactivated(x, y, z, dir[0], dir[1], dir[2]) {
			continue
		}

		q := rates.P[phase]
		if g.ParticleIdx(idx) == 0 {
			q *= kin.Onepixelbias[phase]
		}
		if rng.Float64() >= q {
			continue
		}

		dissolveVoxel(g, l, reg, idx, phase, info, cycle, rng)
		stats.dissolved++
		stats.byPhase[phase]++
		if isSulfateSource(phase) {
			markSulfateNeighborhood(g, x, y, z, neighbors, sulfateDissolvedThisVoxel)
		}
	}

	dissolveAlkaliCandidates(g, l, reg, rates, cycle, rng, k2so4Candidates(g, neighbors), &stats)
	dissolveAlkaliCandidates(g, l, reg, rates, cycle, rng, na2so4Candidates(g, neighbors), &stats)

	applyBalanceSpecies(g, l, &stats, cycle, rng)

	return stats
}

// poreNeighbor returns a uniformly chosen offset among (x,y,z)'s
// pore/crack/empty neighbors, or nil if none remain -- the voxel's local
// exposure can change between pass A's scan and this voxel's turn in the
// randomized visit order.
func poreNeighbor(g *Grid, x, y, z int, neighbors NeighborSet, rng *RNG) *[3]int {
	offs := neighbors.Offsets()
	var exposed [][3]int
	for _, o := range offs {
		switch g.Get(x+o[0], y+o[1], z+o[2]) {
		case POROSITY, CRACKP, EMPTYP:
			exposed = append(exposed, o)
		}
	}
	if len(exposed) == 0 {
		return nil
	}
	o := exposed[rng.Intn(len(exposed))]
	return &o
}

// markDissolutionCandidates runs pass A: find every soluble solid voxel
// with at least one porosity/crack/empty neighbor, tag it with
// OffsetSentinel, and return the list of flat indices tagged.
func markDissolutionCandidates(g *Grid, reg *Registry, neighbors NeighborSet) []int {
	var candidates []int
	offs := neighbors.Offsets()
	n := len(g.mic)
	for idx := 0; idx < n; idx++ {
		phase := g.mic[idx]
		if phase <= 0 || phase >= numPhases || phase == POROSITY || phase == CRACKP || phase == EMPTYP {
			continue
		}
		if phase.IsDiffusing() {
			continue
		}
		if !reg.Get(phase).Soluble {
			continue
		}
		x, y, z := g.Coords(idx)
		exposed := false
		for _, o := range offs {
			switch g.Get(x+o[0], y+o[1], z+o[2]) {
			case POROSITY, CRACKP, EMPTYP:
				exposed = true
			}
			if exposed {
				break
			}
		}
		if exposed {
			g.mic[idx] = phase + OffsetSentinel
			candidates = append(candidates, idx)
		}
	}
	return candidates
}

// clearSentinels subtracts OffsetSentinel from every voxel still carrying
// it -- either because it was not selected for dissolution this cycle, or
// because the cycle was aborted before pass D normally would have run.
func clearSentinels(g *Grid, candidates []int) {
	for _, idx := range candidates {
		if g.mic[idx] >= OffsetSentinel {
			g.mic[idx] -= OffsetSentinel
		}
	}
}

// dissolveVoxel converts one solid voxel into pore space plus, if the
// phase produces a mobile species, a newly-created diffusing Species at
// the same location. C3S and C2S additionally spawn the extra DIFFCSH
// their dissolution owes to CSH's larger molar volume (pass B step 5).
func dissolveVoxel(g *Grid, l *SpeciesList, reg *Registry, idx int, phase Phase, info PhaseInfo, cycle int32, rng *RNG) {
	x, y, z := g.Coords(idx)
	g.mic[idx] = phase // drop pass A's sentinel so SetIdx debits Count[phase]
	if info.DissolvesTo == 0 {
		g.SetIdx(idx, POROSITY)
		return
	}
	g.SetIdx(idx, info.DissolvesTo)
	l.Add(Species{X: x, Y: y, Z: z, Phase: info.DissolvesTo, Born: cycle})

	if phase == C3S || phase == C2S {
		extra := reg.Get(CSH).MolarVolume/info.MolarVolume - 1
		placeCSHExpansion(g, l, x, y, z, extra, cycle, rng)
	}
}

// placeCSHExpansion places the extra DIFFCSH volume a C3S/C2S dissolution
// owes CSH's larger molar volume: extra whole units are placed for sure,
// plus one more with probability equal to the fractional remainder, so the
// expected yield matches Molarv(CSH)/Molarv(phase) - 1 over many cycles.
func placeCSHExpansion(g *Grid, l *SpeciesList, x, y, z int, extra float64, cycle int32, rng *RNG) {
	whole := int(extra)
	if frac := extra - float64(whole); rng.Float64() < frac {
		whole++
	}
	for i := 0; i < whole; i++ {
		loccsh(g, l, x, y, z, cycle, rng)
	}
}

// loccsh places one extra DIFFCSH voxel as close as possible to (x,y,z),
// searching successively larger boxes (Distloccsh's local-placement
// search) before falling back to a uniformly random pore voxel if the
// local neighborhood has no free pore space left.
func loccsh(g *Grid, l *SpeciesList, x, y, z int, cycle int32, rng *RNG) {
	const maxHalf = 4
	for half := 1; half <= maxHalf; half++ {
		if idx, ok := findPoreInBox(g, half, x, y, z, rng); ok {
			px, py, pz := g.Coords(idx)
			g.SetIdx(idx, DIFFCSH)
			l.Add(Species{X: px, Y: py, Z: pz, Phase: DIFFCSH, Born: cycle})
			return
		}
	}
	placeAtRandomPore(g, l, DIFFCSH, cycle, rng)
}

// findPoreInBox returns a uniformly chosen POROSITY/CRACKP voxel within an
// axis-aligned cube of half-width half centered at (cx,cy,cz), or false if
// the box has none.
func findPoreInBox(g *Grid, half, cx, cy, cz int, rng *RNG) (int, bool) {
	var found []int
	for dx := -half; dx <= half; dx++ {
		for dy := -half; dy <= half; dy++ {
			for dz := -half; dz <= half; dz++ {
				idx := g.Index(cx+dx, cy+dy, cz+dz)
				switch g.GetIdx(idx) {
				case POROSITY, CRACKP:
					found = append(found, idx)
				}
			}
		}
	}
	if len(found) == 0 {
		return 0, false
	}
	return found[rng.Intn(len(found))], true
}

// placeAtRandomPore places a single diffusing species of phase p at a
// uniformly chosen POROSITY/CRACKP voxel in the whole grid. It is the
// fallback used when a local placement search (loccsh, placeBalanceSpecies)
// finds no nearby pore space, and returns false if the grid has none at all.
func placeAtRandomPore(g *Grid, l *SpeciesList, p Phase, cycle int32, rng *RNG) bool {
	n := len(g.mic)
	start := rng.Intn(n)
	for i := 0; i < n; i++ {
		idx := (start + i) % n
		switch g.GetIdx(idx) {
		case POROSITY, CRACKP:
			x, y, z := g.Coords(idx)
			g.SetIdx(idx, p)
			l.Add(Species{X: x, Y: y, Z: z, Phase: p, Born: cycle})
			return true
		}
	}
	return false
}

// balanceSpeciesTable gives the extra diffusing-species yield per
// dissolution event for phases whose direct DissolvesTo conversion does not
// by itself balance hydration stoichiometry (pass D). K2SO4/NA2SO4 are
// deliberately absent: their 1:1 DIFFSO4 yield is already produced by
// dissolveVoxel's direct DissolvesTo conversion, so adding a row for them
// here would double-count.
var balanceSpeciesTable = map[Phase][]struct {
	Product Phase
	PerMole float64
}{
	C3S:      {{DIFFCH, 0.61}},
	C2S:      {{DIFFCH, 0.191}},
	C4AF:     {{DIFFCH, 0.2584}, {DIFFC4A, 0.696}},
	FREELIME: {{DIFFCH, 0.954}},
	C3AH6:    {{DIFFC3A, 0.5917}},
}

// applyBalanceSpecies runs pass D: for every phase dissolved this cycle
// (stats.byPhase), derive and place the extra diffusing balance species
// balanceSpeciesTable owes for that phase, with fractional remainders
// resolved stochastically so the expected yield matches the table over
// many cycles.
func applyBalanceSpecies(g *Grid, l *SpeciesList, stats *dissolveStats, cycle int32, rng *RNG) {
	for phase, rows := range balanceSpeciesTable {
		n := stats.byPhase[phase]
		if n == 0 {
			continue
		}
		for _, row := range rows {
			yield := float64(n) * row.PerMole
			whole := int64(yield)
			if frac := yield - float64(whole); rng.Float64() < frac {
				whole++
			}
			for i := int64(0); i < whole; i++ {
				placeBalanceSpecies(g, l, row.Product, cycle, rng)
			}
		}
	}
}

// placeBalanceSpecies places one pass-D balance-species voxel at a
// uniformly random pore voxel. Unlike the CSH expansion, pass D does not
// track which voxel each dissolution event happened at by the time the
// per-phase totals are tallied, so a near-the-site placement (loccsh) is
// not available; a random pore voxel is the original model's own fallback
// for species it could not place locally.
func placeBalanceSpecies(g *Grid, l *SpeciesList, product Phase, cycle int32, rng *RNG) {
	placeAtRandomPore(g, l, product, cycle, rng)
}

func isSulfateSource(p Phase) bool {
	return p == GYPSUM || p == GYPSUMS || p == HEMIHYD || p == ANHYDRITE
}

// sulfateBlocked reports whether any neighbor of (x,y,z) already had a
// sulfate-source phase dissolve earlier in this same pass, approximating
// the shared-interface sulfate-release throttle described in spec.md
// section 4.4.
func sulfateBlocked(g *Grid, x, y, z int, neighbors NeighborSet, seen map[int]bool) bool {
	for _, o := range neighbors.Offsets() {
		if seen[g.Index(x+o[0], y+o[1], z+o[2])] {
			return true
		}
	}
	return seen[g.Index(x, y, z)]
}

func markSulfateNeighborhood(g *Grid, x, y, z int, neighbors NeighborSet, seen map[int]bool) {
	seen[g.Index(x, y, z)] = true
}

// k2so4Candidates and na2so4Candidates build pass C's alkali-sulfate
// candidate lists: every voxel of the given phase exposed to pore space,
// analogous to markDissolutionCandidates but kept separate since pass C
// draws these two phases in random order from its own lists; each drawn
// voxel still dissolves with probability rates.P[phase]
// (dissolveAlkaliCandidates).
func k2so4Candidates(g *Grid, neighbors NeighborSet) *candidateList {
	return buildExposedCandidates(g, K2SO4, neighbors)
}

func na2so4Candidates(g *Grid, neighbors NeighborSet) *candidateList {
	return buildExposedCandidates(g, NA2SO4, neighbors)
}

func buildExposedCandidates(g *Grid, phase Phase, neighbors NeighborSet) *candidateList {
	list := newCandidateList()
	offs := neighbors.Offsets()
	n := len(g.mic)
	for idx := 0; idx < n; idx++ {
		if g.mic[idx] != phase {
			continue
		}
		x, y, z := g.Coords(idx)
		for _, o := range offs {
			switch g.Get(x+o[0], y+o[1], z+o[2]) {
			case POROSITY, CRACKP, EMPTYP:
				list.add(idx)
			}
		}
	}
	return list
}

// dissolveAlkaliCandidates drains list, dissolving every entry at the
// phase's dissolution probability this cycle (pass C). Candidates not
// selected remain solid and are reconsidered next cycle via a freshly
// rebuilt list. Outcomes are folded into stats exactly like pass A/B, so
// the thermal submodel's per-phase heat accumulation sees alkali-sulfate
// dissolution too.
func dissolveAlkaliCandidates(g *Grid, l *SpeciesList, reg *Registry, rates *DissolutionRates, cycle int32, rng *RNG, list *candidateList, stats *dissolveStats) {
	for list.len() > 0 {
		i := rng.Intn(list.len())
		idx := list.removeAt(i)
		phase := g.GetIdx(idx)
		stats.attempted++
		if rng.Float64() >= rates.P[phase] {
			continue
		}
		info := reg.Get(phase)
		dissolveVoxel(g, l, reg, idx, phase, info, cycle, rng)
		stats.dissolved++
		stats.byPhase[phase]++
	}
}

// desiccationCandidate pairs a POROSITY voxel's flat index with its local
// CountBox score; a lower score means fewer pore neighbors nearby, i.e. a
// more isolated pocket of water that self-desiccation drains first.
type desiccationCandidate struct {
	idx   int
	score int
}

// SelfDesiccate converts the n most isolated POROSITY voxels to EMPTYP,
// approximating the internal relative-humidity drop of sealed curing
// (spec.md section 4.4, "self-desiccation"): water consumed by hydration is
// drawn first from pores least connected to the bulk capillary network.
// Candidates are ranked by CountBox score via insertion into a sorted
// slice -- an idiomatic stand-in for the original model's insertion-sorted
// linked list, with the same "most isolated first" ordering.
func SelfDesiccate(g *Grid, n int) {
	if n <= 0 {
		return
	}
	const half = 2
	var ranked []desiccationCandidate
	for idx, p := range g.mic {
		if p != POROSITY {
			continue
		}
		x, y, z := g.Coords(idx)
		score := g.CountBox(half, x, y, z)
		pos := sort.Search(len(ranked), func(i int) bool { return ranked[i].score >= score })
		ranked = append(ranked, desiccationCandidate{})
		copy(ranked[pos+1:], ranked[pos:])
		ranked[pos] = desiccationCandidate{idx: idx, score: score}
	}
	if n > len(ranked) {
		n = len(ranked)
	}
	for i := 0; i < n; i++ {
		g.SetIdx(ranked[i].idx, EMPTYP)
	}
}
