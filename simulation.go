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

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Schedule holds every time-based trigger the orchestrator consults each
// cycle (spec.md section 4.10 and section 6.2): percolation probes,
// particle hydration, movie frames, snapshots, and the single crack event.
type Schedule struct {
	BurnEverySeconds  float64
	SetEverySeconds   float64
	PhydEverySeconds  float64
	MovieEverySeconds float64
	ImageEverySeconds float64
	CustomAlphaStops  []float64

	Crack CrackSchedule
	CrackAtSeconds float64

	nextBurn, nextSet, nextPhyd, nextMovie, nextImage float64
	setReached, burnReached bool
}

// Simulation gathers every module-level variable the original C model
// keeps as globals into one owned struct (spec.md section 9, "shared
// mutable global state"), so the rate controller, dissolution, and
// diffusion stages can all be expressed as plain functions taking a
// *Simulation rather than reaching for package-level state.
type Simulation struct {
	Grid     *Grid
	Species  *SpeciesList
	Registry *Registry
	Kinetics *KineticsParams
	Thermal  *Thermal
	Clock    *Clock
	Rates    *DissolutionRates
	RNG      *RNG

	Neighbors NeighborSet
	Schedule  Schedule

	Cycle int
	AlphaMax float64
	EndSeconds float64
	SealedCuring bool

	InitialClinkerVoxels int64
	originalPhase        []Phase

	PH float64

	Log logrus.FieldLogger

	// so4Concentration, alphaCur and chemShrinkageCur are kept as plain
	// fields between cycles. Nothing in this package assigns
	// so4Concentration, so the rate controller always receives 0 for it.
	so4Concentration float64
	alphaCur         float64
	chemShrinkageCur float64

	// initialSulfateVoxels is the starting count of every sulfate-source
	// voxel (gypsum family plus the alkali sulfates), captured once at
	// construction so updateSolubleActivation can measure the fraction of
	// sulfate already consumed without rescanning the original grid.
	initialSulfateVoxels int64

	// waterDeficitVoxels accumulates chemicalShrinkageIncrement's raw
	// per-cycle value as a fractional voxel count; SelfDesiccate is called
	// with the whole-voxel part each time the accumulator crosses 1 (see
	// RunCycle).
	waterDeficitVoxels float64

	rows []DataRow
}

// DataRow is one row of the output CSV (spec.md section 6.4); it is
// appended to Simulation.rows every cycle and handed to package output by
// the CLI layer.
type DataRow struct {
	Cycle            int
	TimeHours        float64
	AlphaMass        float64
	HeatKJPerKg      float64
	TempC            float64
	ChemShrinkage    float64
	PH               float64
	PoreFraction     float64
	PercolationX, PercolationY, PercolationZ             bool
	SolidPercolationX, SolidPercolationY, SolidPercolationZ bool
	PhaseVolumeFractions map[Phase]float64
}

// NewSimulation wires together a freshly-initialized grid, species list,
// registry, and controllers into a Simulation ready to run.
func NewSimulation(g *Grid, reg *Registry, kin *KineticsParams, mode TemperatureMode, initialTempC, ambientC float64, mapping TimeMapping, neighbors NeighborSet, seed int64, log logrus.FieldLogger) *Simulation {
	s := &Simulation{
		Grid:      g,
		Species:   NewSpeciesList(g),
		Registry:  reg,
		Kinetics:  kin,
		Thermal:   NewThermal(mode, initialTempC, ambientC),
		Clock:     NewClock(mapping),
		Rates:     &DissolutionRates{},
		RNG:       NewRNG(seed),
		Neighbors: neighbors,
		AlphaMax:  1.0,
		Log:       log,
	}
	s.originalPhase = make([]Phase, len(g.mic))
	copy(s.originalPhase, g.mic)
	for _, p := range []Phase{C3S, C2S, C3A, OC3A, C4AF} {
		s.InitialClinkerVoxels += g.Count[p]
	}
	for _, p := range []Phase{GYPSUM, GYPSUMS, HEMIHYD, ANHYDRITE, K2SO4, NA2SO4} {
		s.initialSulfateVoxels += g.Count[p]
	}
	return s
}

// RunCycle executes exactly one cycle of the orchestrator loop (spec.md
// section 4.10): scheduled face reactivation, CSH property update,
// dissolve, hydrate, mass/alpha/heat bookkeeping, rate controller,
// thermal/time advance, pH update, percolation/particle/crack/movie/image
// scheduling, and a data row append. It returns a *RunComplete (via the
// error interface) when a stop condition is reached, or a real error on
// failure.
func (s *Simulation) RunCycle() error {
	s.Cycle++
	cycle32 := int32(s.Cycle)

	s.Grid.ApplyFaceSchedule()
	s.updateCSHProperties()
	s.updateSolubleActivation()

	dstats := Dissolve(s.Grid, s.Species, s.Registry, s.Rates, s.Kinetics, s.Neighbors, cycle32, s.RNG)
	s.Thermal.AccumulateHeat(s.Registry, dstats)

	hstats := Hydrate(s.Grid, s.Species, s.Registry, s.Neighbors, s.Grid.Resolution, cycle32, s.RNG)

	s.alphaCur = OverallAlpha(s.Grid, s.InitialClinkerVoxels)
	increment := chemicalShrinkageIncrement(s.Registry, dstats)
	s.chemShrinkageCur += increment

	if s.SealedCuring {
		s.waterDeficitVoxels += increment
		if s.waterDeficitVoxels >= 1 {
			n := int(s.waterDeficitVoxels)
			SelfDesiccate(s.Grid, n)
			s.waterDeficitVoxels -= float64(n)
		}
	}

	diffCounts := s.diffusingCounts()
	s.Rates = UpdateDissolutionRates(s.Grid, s.Registry, s.Kinetics, s.Thermal.TempC, s.PH, s.so4Concentration, s.Grid.Resolution, diffCounts)

	switch s.Thermal.Mode {
	case Isothermal:
		s.Thermal.StepIsothermal()
	case Adiabatic:
		s.Thermal.StepAdiabatic(1)
	case Programmed:
		s.Thermal.StepProgrammed(s.Clock.ElapsedSeconds)
	}

	dt := s.Clock.Advance(s.Cycle, s.chemShrinkageCur, s.Thermal.TempC)
	s.PH = pHpred(s.Grid, s.alphaCur)

	s.runSchedule()

	s.Log.WithFields(logrus.Fields{
		"cycle":       s.Cycle,
		"alpha":       s.alphaCur,
		"temp_c":      s.Thermal.TempC,
		"dt_seconds":  dt,
		"dissolved":   dstats.dissolved,
		"reactions":   hstats.reactions,
	}).Debug("cycle complete")

	s.appendRow()

	if s.alphaCur >= s.AlphaMax {
		return &RunComplete{Reason: "alpha reached alpha_max"}
	}
	if s.Clock.ElapsedSeconds >= s.EndSeconds && s.EndSeconds > 0 {
		return &RunComplete{Reason: "end time reached"}
	}
	if s.SealedCuring && s.Grid.Count[POROSITY] == 0 {
		return &RunComplete{Reason: "water exhausted under sealed curing"}
	}
	return nil
}

// Run executes cycles until RunCycle reports completion via *RunComplete,
// the cycle budget maxCycles is reached, or a real error occurs.
func (s *Simulation) Run(maxCycles int) (*RunComplete, error) {
	for s.Cycle < maxCycles {
		err := s.RunCycle()
		if err == nil {
			continue
		}
		if rc, ok := err.(*RunComplete); ok {
			return rc, nil
		}
		return nil, err
	}
	return &RunComplete{Reason: "cycle budget reached"}, nil
}

// runSchedule consults Schedule and fires percolation probes, particle
// hydration (its per-particle result is discarded), and the crack event as
// their respective next-trigger times are reached. The movie and image
// triggers only advance their next-trigger times; no frame or image is
// captured.
func (s *Simulation) runSchedule() {
	t := s.Clock.ElapsedSeconds
	sch := &s.Schedule

	if sch.BurnEverySeconds > 0 && t >= sch.nextBurn {
		sch.nextBurn = t + sch.BurnEverySeconds
		if !sch.burnReached {
			px, py, pz := s.Grid.PorePercolation()
			if px && py && pz {
				sch.burnReached = true
				s.Log.WithField("cycle", s.Cycle).Info("pore space percolates in all three axes")
			}
		}
	}
	if sch.SetEverySeconds > 0 && !sch.setReached && t >= sch.nextSet {
		sch.nextSet = t + sch.SetEverySeconds
		x, y, z := s.Grid.SolidPercolation()
		if x && y && z {
			sch.setReached = true
		}
	}
	if sch.PhydEverySeconds > 0 && t >= sch.nextPhyd {
		sch.nextPhyd = t + sch.PhydEverySeconds
		ParticleHydration(s.Grid, s.originalPhase)
	}
	if sch.MovieEverySeconds > 0 && t >= sch.nextMovie {
		sch.nextMovie = t + sch.MovieEverySeconds
	}
	if sch.ImageEverySeconds > 0 && t >= sch.nextImage {
		sch.nextImage = t + sch.ImageEverySeconds
	}

	if !sch.Crack.Applied && sch.CrackAtSeconds > 0 && t >= sch.CrackAtSeconds {
		oldLen, split := Crack(s.Grid, sch.Crack.Axis, sch.Crack.Crackwidth)
		ShiftSpeciesForCrack(s.Species, sch.Crack.Axis, split, sch.Crack.Crackwidth)
		s.rescaleForNewSize(oldLen, sch.Crack.Axis)
		sch.Crack.Applied = true
	}
}

// rescaleForNewSize updates the derived scalars that depend on system
// size after a crack: the heat conversion factor and the CSH/pozzolanic
// nucleation scales, proportional to the new/old voxel-count ratio along
// the cracked axis (spec.md section 4.9).
func (s *Simulation) rescaleForNewSize(oldLen int, axis Axis) {
	newLen := s.Grid.axisLen(axis)
	if oldLen == 0 {
		return
	}
	ratio := float64(newLen) / float64(oldLen)
	s.Thermal.HeatCf /= ratio
	s.Kinetics.CshScale *= ratio
	s.Kinetics.PozzCshScale *= ratio
}

// updateSolubleActivation applies spec.md section 4.4's "soluble-phase
// activation" rule once per cycle: ettringite becomes soluble once 75% of
// the starting sulfate has been consumed or the temperature reaches 70C;
// the silicates (C3S/C2S) become soluble from cycle 2 onward, or sooner
// once an aluminate hydration product already exists to react with; C3AH6
// becomes soluble once the gypsum family is depleted or Count[ETTR]
// exceeds 500.
func (s *Simulation) updateSolubleActivation() {
	reg := s.Registry

	sulfateRemaining := s.Grid.Count[GYPSUM] + s.Grid.Count[GYPSUMS] +
		s.Grid.Count[HEMIHYD] + s.Grid.Count[ANHYDRITE] +
		s.Grid.Count[K2SO4] + s.Grid.Count[NA2SO4]
	sulfateConsumedFrac := 1.0
	if s.initialSulfateVoxels > 0 {
		sulfateConsumedFrac = 1 - float64(sulfateRemaining)/float64(s.initialSulfateVoxels)
	}
	ettringiteSoluble := sulfateConsumedFrac >= 0.75 || s.Thermal.TempC >= 70
	reg.SetSoluble(ETTR, ettringiteSoluble)
	reg.SetSoluble(ETTRC4AF, ettringiteSoluble)

	aluminateProduct := s.Grid.Count[C3AH6]+s.Grid.Count[AFM]+s.Grid.Count[AFMC]+
		s.Grid.Count[FRIEDEL] > 0
	silicatesSoluble := s.Cycle >= 2 || aluminateProduct
	reg.SetSoluble(C3S, silicatesSoluble)
	reg.SetSoluble(C2S, silicatesSoluble)

	gypsumDepleted := s.Grid.Count[GYPSUM]+s.Grid.Count[GYPSUMS]+s.Grid.Count[HEMIHYD]+s.Grid.Count[ANHYDRITE] == 0
	reg.SetSoluble(C3AH6, gypsumDepleted || s.Grid.Count[ETTR] > 500)
}

// updateCSHProperties recomputes CSH's molar volume and water content from
// the current temperature (and pH, once enough CSH has formed for pH
// effects to engage) so the per-cycle CSH table of spec.md section 4.7
// tracks curing conditions instead of staying fixed at NewRegistry's
// 25C/pH-neutral defaults. The coefficients are small and deliberately
// conservative: CSH densifies slightly with temperature and retains
// marginally less water as pH rises, matching the qualitative trend
// reported for blended and plain Portland systems without claiming a
// precise calibrated fit.
func (s *Simulation) updateCSHProperties() {
	const baseMolarVolume = 108.3
	const baseWaterPerMole = 2.1

	molarVolume := baseMolarVolume - 0.05*(s.Thermal.TempC-25)
	waterPerMole := baseWaterPerMole
	if s.Kinetics.PHEnabled && s.Grid.Count[CSH] > s.Kinetics.PHThreshold {
		waterPerMole -= 0.02 * (s.PH - 12.5)
	}
	if molarVolume < 80 {
		molarVolume = 80
	}
	if waterPerMole < 1.5 {
		waterPerMole = 1.5
	}
	s.Registry.cshMolarVolume = molarVolume
	s.Registry.cshWaterPerMole = waterPerMole
}

// diffusingCounts tabulates the live count of each diffusing phase for the
// rate controller's pool-saturation check.
func (s *Simulation) diffusingCounts() map[Phase]int64 {
	counts := make(map[Phase]int64)
	for ph := DIFFCSH; ph < numPhases; ph++ {
		counts[ph] = s.Grid.Count[ph]
	}
	return counts
}

// appendRow snapshots the current state into a DataRow.
func (s *Simulation) appendRow() {
	px, py, pz := s.Grid.PorePercolation()
	sx, sy, sz := s.Grid.SolidPercolation()
	syspix := float64(s.Grid.Total())

	fractions := make(map[Phase]float64, numPhases)
	for ph := Phase(1); ph < numPhases; ph++ {
		fractions[ph] = float64(s.Grid.Count[ph]) / syspix
	}

	s.rows = append(s.rows, DataRow{
		Cycle:                s.Cycle,
		TimeHours:            s.Clock.ElapsedSeconds / 3600,
		AlphaMass:            s.alphaCur,
		HeatKJPerKg:          s.Thermal.HeatPerKgCement(),
		TempC:                s.Thermal.TempC,
		ChemShrinkage:        s.chemShrinkageCur,
		PH:                   s.PH,
		PoreFraction:         float64(s.Grid.Count[POROSITY]) / syspix,
		PercolationX:         px,
		PercolationY:         py,
		PercolationZ:         pz,
		SolidPercolationX:    sx,
		SolidPercolationY:    sy,
		SolidPercolationZ:    sz,
		PhaseVolumeFractions: fractions,
	})
}

// Rows returns every data row recorded so far, for the output writer.
func (s *Simulation) Rows() []DataRow { return s.rows }

// chemicalShrinkageIncrement estimates this cycle's chemical-shrinkage
// contribution as voxels dissolved times a fixed per-voxel constant; the
// registry's molar volumes are not consulted, since exact shrinkage
// requires per-reaction product volumes tracked at precipitation time.
func chemicalShrinkageIncrement(reg *Registry, stats dissolveStats) float64 {
	const shrinkagePerVoxel = 0.00024 // cm^3 per mole-equivalent voxel, representative
	return float64(stats.dissolved) * shrinkagePerVoxel
}

// pHpred estimates pore-solution pH from the degree of hydration alone
// (spec.md section 4.10, "update pH via pHpred"); g and the alkali
// release are not read. pH rises quickly from 12.0 at alpha = 0 and
// levels off toward 13.4 (about 13.3 at alpha = 1), consistent with
// typical Portland cement pore-solution measurements.
func pHpred(g *Grid, alpha float64) float64 {
	const phMin, phMax = 12.0, 13.4
	return phMin + (phMax-phMin)*(1-1/(1+12*alpha))
}

// RFC3339Milli formats a time.Time as UTC with millisecond precision, for
// the progress JSON's timestamp field (spec.md section 6.4).
func RFC3339Milli(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
