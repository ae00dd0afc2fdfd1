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

// (ctessum/unit is used at the call sites that construct HeatOfFormation
// values in phase.go; Thermal itself works in plain float64 seconds/kJ
// since its arithmetic is all same-dimension accumulation, not the
// potentially-mismatched-unit combination that motivated phase.go's typed
// fields.)

// TemperatureMode selects which of Thermal's StepIsothermal, StepAdiabatic
// and StepProgrammed methods advances temperature each cycle (spec.md
// section 4.7).
type TemperatureMode int

const (
	Isothermal TemperatureMode = iota
	Adiabatic
	Programmed
)

// ProgrammedPoint is one (time, temperature) entry of an external
// temperature profile table, for TemperatureMode Programmed.
type ProgrammedPoint struct {
	TimeSeconds float64
	TempC       float64
}

// Thermal tracks cumulative released heat and the current paste/aggregate
// temperatures, and converts dissolved-phase counts into heat via each
// phase's registry heat of formation.
type Thermal struct {
	Mode TemperatureMode

	CementMassGrams   float64
	CpBinder          float64 // J/(g*K), recomputed from mix at cycle 1
	HeatCf            float64 // kJ/kg-cement conversion factor, fixed at cycle 1

	TempC    float64
	AggTempC float64
	AmbientC float64
	UAggCp   float64 // ambient heat-loss rate constant, 1/s equivalent already divided by Cp

	Profile []ProgrammedPoint

	HcumKJ float64 // cumulative heat, kJ per system volume

	cycle1Done  bool
	lastHcumKJ  float64 // HcumKJ as of the previous StepAdiabatic call
}

// NewThermal creates a Thermal submodel starting at the given initial
// temperature.
func NewThermal(mode TemperatureMode, initialTempC, ambientC float64) *Thermal {
	return &Thermal{Mode: mode, TempC: initialTempC, AggTempC: initialTempC, AmbientC: ambientC}
}

// AccumulateHeat adds the heat released by dissolveStats to HcumKJ, using
// the registry's heat of formation for every phase dissolved this cycle.
// This must run before temperature is updated for the same cycle, since
// dissolution precedes precipitation within a cycle (spec.md section 4.4).
func (t *Thermal) AccumulateHeat(reg *Registry, stats dissolveStats) {
	for ph := Phase(1); ph < numPhases; ph++ {
		n := stats.byPhase[ph]
		if n == 0 {
			continue
		}
		info := reg.Get(ph)
		if info.HeatOfFormation == nil {
			continue
		}
		moles := float64(n) // one voxel dissolved == one lattice "mole" unit
		heat := info.HeatOfFormation.Value() * moles / 1000
		t.HcumKJ += heat
	}
}

// SetHeatConversionFactor fixes HeatCf on cycle 1 from the cement mass
// alone (HeatCf = 1000 / grams), per spec.md section 4.7; calling it again after
// cycle 1 is a no-op, since the conversion factor is meant to stay fixed
// for the life of the run.
func (t *Thermal) SetHeatConversionFactor(cementMassGrams float64) {
	if t.cycle1Done {
		return
	}
	t.CementMassGrams = cementMassGrams
	if cementMassGrams > 0 {
		t.HeatCf = 1000 / cementMassGrams
	}
	t.cycle1Done = true
}

// HeatPerKgCement converts the cumulative heat to kJ/kg-cement.
func (t *Thermal) HeatPerKgCement() float64 {
	return t.HcumKJ * t.HeatCf
}

// StepIsothermal is a no-op temperature update; included for symmetry with
// the other two modes so callers can dispatch on Mode uniformly.
func (t *Thermal) StepIsothermal() {}

// StepAdiabatic advances the binder temperature TempC from the heat
// released since the previous call to StepAdiabatic, then applies ambient
// heat loss; AggTempC is not changed. HcumKJ is cumulative
// across the whole run, so the delta is tracked internally rather than
// requiring every caller to difference it against the prior cycle.
func (t *Thermal) StepAdiabatic(deltaSeconds float64) {
	deltaHKJ := t.HcumKJ - t.lastHcumKJ
	t.lastHcumKJ = t.HcumKJ
	if t.CpBinder <= 0 {
		return
	}
	deltaTBinder := deltaHKJ * 1000 / t.CpBinder
	t.TempC += deltaTBinder
	if t.UAggCp > 0 {
		t.TempC -= (t.TempC - t.AmbientC) * deltaSeconds * t.UAggCp
	}
}

// StepProgrammed sets TempC by linear interpolation into Profile at
// elapsed time t (seconds). If t falls outside the table it clamps to the
// nearest endpoint.
func (t *Thermal) StepProgrammed(elapsedSeconds float64) {
	if len(t.Profile) == 0 {
		return
	}
	if elapsedSeconds <= t.Profile[0].TimeSeconds {
		t.TempC = t.Profile[0].TempC
		return
	}
	last := len(t.Profile) - 1
	if elapsedSeconds >= t.Profile[last].TimeSeconds {
		t.TempC = t.Profile[last].TempC
		return
	}
	for i := 0; i < last; i++ {
		t0, t1 := t.Profile[i].TimeSeconds, t.Profile[i+1].TimeSeconds
		if elapsedSeconds >= t0 && elapsedSeconds <= t1 {
			frac := (elapsedSeconds - t0) / (t1 - t0)
			t.TempC = t.Profile[i].TempC + frac*(t.Profile[i+1].TempC-t.Profile[i].TempC)
			return
		}
	}
}
