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
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func silentLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestSimulation(nx, ny, nz int) *Simulation {
	g := NewGrid(nx, ny, nz, 1.0)
	reg := NewRegistry()
	kin := NewKineticsParams()
	return NewSimulation(g, reg, kin, Isothermal, 25, 25, BetaFactor, Neighbors6, -1, silentLogger())
}

func TestNewSimulationCapturesInitialClinkerVoxels(t *testing.T) {
	g := NewGrid(3, 3, 3, 1.0) // 27 voxels
	g.Set(0, 0, 0, C3S)
	g.Set(1, 0, 0, C2S)
	reg := NewRegistry()
	kin := NewKineticsParams()
	s := NewSimulation(g, reg, kin, Isothermal, 25, 25, BetaFactor, Neighbors6, -1, silentLogger())
	if s.InitialClinkerVoxels != 2 {
		t.Fatalf("InitialClinkerVoxels = %d, want 2", s.InitialClinkerVoxels)
	}
}

func TestNewSimulationSnapshotsOriginalPhase(t *testing.T) {
	g := NewGrid(2, 2, 2, 1.0)
	g.Set(0, 0, 0, C3S)
	reg := NewRegistry()
	kin := NewKineticsParams()
	s := NewSimulation(g, reg, kin, Isothermal, 25, 25, BetaFactor, Neighbors6, -1, silentLogger())
	if s.originalPhase[g.Index(0, 0, 0)] != C3S {
		t.Fatal("originalPhase snapshot did not capture the seeded clinker voxel")
	}
	// Mutating the grid afterward must not retroactively change the snapshot.
	g.Set(0, 0, 0, POROSITY)
	if s.originalPhase[g.Index(0, 0, 0)] != C3S {
		t.Fatal("originalPhase snapshot must be a copy, not an alias into g.mic")
	}
}

func TestRunCycleAppendsOneRowPerCall(t *testing.T) {
	s := newTestSimulation(4, 4, 4)
	s.Kinetics.A0 = 0 // keep dissolution rates at zero so the run doesn't self-terminate early
	s.AlphaMax = 2.0  // unreachable, so only the cycle count governs completion
	_ = s.RunCycle()
	_ = s.RunCycle()
	if len(s.Rows()) != 2 {
		t.Fatalf("len(Rows()) = %d, want 2", len(s.Rows()))
	}
	if s.Rows()[0].Cycle != 1 || s.Rows()[1].Cycle != 2 {
		t.Fatalf("row cycles = %d,%d, want 1,2", s.Rows()[0].Cycle, s.Rows()[1].Cycle)
	}
}

func TestRunCycleCompletesWhenAlphaReachesMax(t *testing.T) {
	s := newTestSimulation(3, 3, 3)
	s.AlphaMax = 0 // any alpha >= 0 finishes the run immediately
	err := s.RunCycle()
	rc, ok := err.(*RunComplete)
	if !ok {
		t.Fatalf("RunCycle error = %v (%T), want *RunComplete", err, err)
	}
	if rc.Reason != "alpha reached alpha_max" {
		t.Fatalf("Reason = %q, want %q", rc.Reason, "alpha reached alpha_max")
	}
}

func TestRunCycleCompletesWhenEndTimeReached(t *testing.T) {
	s := newTestSimulation(3, 3, 3)
	s.AlphaMax = 2.0
	s.Clock.Mapping = BetaFactor
	s.Clock.Beta = 1000 // force a huge per-cycle dt so EndSeconds is exceeded on cycle 1
	s.EndSeconds = 1
	err := s.RunCycle()
	rc, ok := err.(*RunComplete)
	if !ok {
		t.Fatalf("RunCycle error = %v (%T), want *RunComplete", err, err)
	}
	if rc.Reason != "end time reached" {
		t.Fatalf("Reason = %q, want %q", rc.Reason, "end time reached")
	}
}

func TestRunCycleCompletesWhenSealedCuringExhaustsWater(t *testing.T) {
	s := newTestSimulation(2, 2, 2)
	for i := range s.Grid.mic {
		s.Grid.SetIdx(i, C3S) // no POROSITY left anywhere
	}
	s.Grid.Count[POROSITY] = 0
	s.AlphaMax = 2.0
	s.SealedCuring = true
	err := s.RunCycle()
	rc, ok := err.(*RunComplete)
	if !ok {
		t.Fatalf("RunCycle error = %v (%T), want *RunComplete", err, err)
	}
	if rc.Reason != "water exhausted under sealed curing" {
		t.Fatalf("Reason = %q, want %q", rc.Reason, "water exhausted under sealed curing")
	}
}

func TestRunStopsAtCycleBudget(t *testing.T) {
	s := newTestSimulation(3, 3, 3)
	s.AlphaMax = 2.0 // unreachable
	rc, err := s.Run(3)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if rc.Reason != "cycle budget reached" {
		t.Fatalf("Reason = %q, want %q", rc.Reason, "cycle budget reached")
	}
	if s.Cycle != 3 {
		t.Fatalf("Cycle = %d, want 3", s.Cycle)
	}
}

func TestRescaleForNewSizeScalesThermalAndKineticsBySizeRatio(t *testing.T) {
	s := newTestSimulation(4, 4, 4)
	s.Thermal.HeatCf = 10
	s.Kinetics.CshScale = 100
	s.Kinetics.PozzCshScale = 50

	s.Grid.Nx = 6 // simulate the grid having already grown via Crack
	s.rescaleForNewSize(4, AxisX) // ratio = 6/4 = 1.5

	if !approxEqual(s.Thermal.HeatCf, 10.0/1.5, 1e-9) {
		t.Fatalf("HeatCf = %v, want %v", s.Thermal.HeatCf, 10.0/1.5)
	}
	if !approxEqual(s.Kinetics.CshScale, 150, 1e-9) {
		t.Fatalf("CshScale = %v, want 150", s.Kinetics.CshScale)
	}
	if !approxEqual(s.Kinetics.PozzCshScale, 75, 1e-9) {
		t.Fatalf("PozzCshScale = %v, want 75", s.Kinetics.PozzCshScale)
	}
}

func TestDiffusingCountsTabulatesLiveCounts(t *testing.T) {
	s := newTestSimulation(3, 3, 3)
	s.Grid.Set(0, 0, 0, DIFFCSH)
	s.Grid.Set(1, 0, 0, DIFFCSH)
	counts := s.diffusingCounts()
	if counts[DIFFCSH] != 2 {
		t.Fatalf("counts[DIFFCSH] = %d, want 2", counts[DIFFCSH])
	}
}

func TestPHPredRisesWithAlphaAndStaysInBounds(t *testing.T) {
	g := NewGrid(2, 2, 2, 1.0)
	low := pHpred(g, 0)
	high := pHpred(g, 1)
	if low < 12.0 || low > 13.4 || high < 12.0 || high > 13.4 {
		t.Fatalf("pHpred out of bounds: low=%v high=%v", low, high)
	}
	if high <= low {
		t.Fatalf("pHpred should rise with alpha: low=%v high=%v", low, high)
	}
}

func TestUpdateSolubleActivationTurnsSilicatesSolubleFromCycleTwo(t *testing.T) {
	s := newTestSimulation(3, 3, 3)
	s.Cycle = 1
	s.updateSolubleActivation()
	if s.Registry.Get(C3S).Soluble {
		t.Fatal("C3S should still be insoluble on cycle 1 with no aluminate product present")
	}
	s.Cycle = 2
	s.updateSolubleActivation()
	if !s.Registry.Get(C3S).Soluble {
		t.Fatal("C3S should become soluble from cycle 2 onward")
	}
	if !s.Registry.Get(C2S).Soluble {
		t.Fatal("C2S should become soluble from cycle 2 onward")
	}
}

func TestUpdateSolubleActivationTurnsSilicatesSolubleEarlyWithAluminateProduct(t *testing.T) {
	s := newTestSimulation(3, 3, 3)
	s.Cycle = 1
	s.Grid.Set(0, 0, 0, C3AH6)
	s.updateSolubleActivation()
	if !s.Registry.Get(C3S).Soluble {
		t.Fatal("an existing aluminate product should activate the silicates before cycle 2")
	}
}

func TestUpdateSolubleActivationTurnsEttringiteSolubleAtHighTemperature(t *testing.T) {
	s := newTestSimulation(3, 3, 3)
	s.Thermal.TempC = 75
	s.updateSolubleActivation()
	if !s.Registry.Get(ETTR).Soluble {
		t.Fatal("ettringite should become soluble once T >= 70C")
	}
}

func TestUpdateSolubleActivationTurnsEttringiteSolubleAfterSulfateConsumed(t *testing.T) {
	s := newTestSimulation(3, 3, 3)
	s.Grid.Set(0, 0, 0, GYPSUM)
	s.initialSulfateVoxels = 4 // 1 remaining of 4 => 75% consumed
	s.updateSolubleActivation()
	if !s.Registry.Get(ETTR).Soluble {
		t.Fatal("ettringite should become soluble once 75% of starting sulfate is consumed")
	}
}

func TestUpdateSolubleActivationTurnsC3AH6SolubleOnceGypsumDepleted(t *testing.T) {
	s := newTestSimulation(3, 3, 3) // no gypsum-family voxels anywhere
	s.updateSolubleActivation()
	if !s.Registry.Get(C3AH6).Soluble {
		t.Fatal("C3AH6 should become soluble once the gypsum family is depleted")
	}
}

func TestUpdateCSHPropertiesVariesMolarVolumeWithTemperature(t *testing.T) {
	s := newTestSimulation(3, 3, 3)
	s.Thermal.TempC = 25
	s.updateCSHProperties()
	base := s.Registry.Get(CSH).MolarVolume

	s.Thermal.TempC = 65
	s.updateCSHProperties()
	hot := s.Registry.Get(CSH).MolarVolume

	if hot >= base {
		t.Fatalf("CSH molar volume at 65C (%v) should be lower than at 25C (%v)", hot, base)
	}
}

func TestRFC3339MilliFormatsUTCWithMilliseconds(t *testing.T) {
	tm, err := time.Parse(time.RFC3339Nano, "2024-01-02T03:04:05.678Z")
	if err != nil {
		t.Fatalf("time.Parse: %v", err)
	}
	got := RFC3339Milli(tm)
	want := "2024-01-02T03:04:05.678Z"
	if got != want {
		t.Fatalf("RFC3339Milli = %q, want %q", got, want)
	}
}
