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
	"math"

	"gonum.org/v1/gonum/mat"
)

const gasConstant = 8.314 // J/(mol*K)

// KineticsParams holds the tunable constants of the rate controller
// (spec.md section 4.6), normally loaded from a parameter file (see
// package paramfile) but given usable defaults by NewKineticsParams.
type KineticsParams struct {
	Disbase [numPhases]float64

	EaHydration   float64 // kJ/mol, Arrhenius activation energy for C3S/C2S/C3A/C4AF
	EaPozzolanic  float64
	EaSlag        float64

	A0, A1 float64 // induction-quench coefficients

	CshScale, PozzCshScale float64
	TfractW04              float64
	SurfFract, TotFract    float64

	SealedCuring bool

	PHEnabled    bool
	PHThreshold  int64 // CSH voxel count above which pH influence activates
	PHCoeffs     map[Phase][3]float64
	PHSulfCoeff  map[Phase]float64
	PozzPHBounds [2]float64 // (y1, y3) clamp for SFUME/AMSIL/ASG

	// DiffMaxBase is the reference (w/c 0.4) ceiling on live diffusing
	// copies of each ion; DiffusingPoolSaturated scales it by system size
	// and current porosity.
	DiffMaxBase map[Phase]float64

	// Onepixelbias scales the dissolution probability of a phase's
	// one-voxel (free, unattached) particles relative to particles still
	// bound within a larger grain (spec.md section 4.4, Pass B step 3).
	// Defaults to 1 (no bias) for every phase; only loaded overrides for
	// specific phases should differ from 1.
	Onepixelbias [numPhases]float64

	// P4Slag and P5Slag are the slag hydration model's two extra rate
	// coefficients (spec.md section 4.6, slag kinetics), applied
	// alongside EaSlag; they have no counterpart among the clinker
	// phases, which only need a single Arrhenius factor.
	P4Slag, P5Slag float64
}

// NewKineticsParams returns representative defaults for every field, to be
// overridden piecewise from a loaded parameter file.
func NewKineticsParams() *KineticsParams {
	p := &KineticsParams{
		EaHydration:  40.0,
		EaPozzolanic: 97.0,
		EaSlag:       80.0,
		A0:           1.0,
		A1:           0.0017,
		CshScale:     50000,
		PozzCshScale: 50000,
		TfractW04:    0.22,
		SurfFract:    1.0,
		TotFract:     1.0,
		PHThreshold:  1000,
		PHCoeffs:     map[Phase][3]float64{},
		PHSulfCoeff:  map[Phase]float64{},
		PozzPHBounds: [2]float64{0.5, 1.5},
		DiffMaxBase:  map[Phase]float64{},
		P4Slag:       0.4,
		P5Slag:       0.7,
	}
	for ph := Phase(1); ph < numPhases; ph++ {
		p.Onepixelbias[ph] = 1.0
	}
	p.Disbase[C3S] = 0.75
	p.Disbase[C2S] = 0.4
	p.Disbase[C3A] = 0.9
	p.Disbase[OC3A] = 0.9
	p.Disbase[C4AF] = 0.65
	p.Disbase[GYPSUM] = 1.0
	p.Disbase[GYPSUMS] = 1.0
	p.Disbase[HEMIHYD] = 1.0
	p.Disbase[ANHYDRITE] = 0.5
	p.Disbase[K2SO4] = 1.0
	p.Disbase[NA2SO4] = 1.0
	p.Disbase[CACO3] = 0.2
	p.Disbase[FREELIME] = 0.8
	p.Disbase[CACL2] = 1.0
	p.Disbase[SLAG] = 0.1
	return p
}

// FitPHQuadratic solves for the coefficients (c2,c1,c0) of c2*pH^2 +
// c1*pH + c0 passing exactly through three user-supplied (pH, factor)
// points, by solving the 3x3 Vandermonde system with gonum/mat. Used once
// per phase at start-up to turn the three calibration points named in
// spec.md section 4.6 into the quadratic evaluated every cycle thereafter.
func FitPHQuadratic(points [3][2]float64) (c2, c1, c0 float64, err error) {
	a := mat.NewDense(3, 3, nil)
	b := mat.NewVecDense(3, nil)
	for i, pt := range points {
		ph := pt[0]
		a.SetRow(i, []float64{ph * ph, ph, 1})
		b.SetVec(i, pt[1])
	}
	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return 0, 0, 0, err
	}
	return x.AtVec(0), x.AtVec(1), x.AtVec(2), nil
}

// arrheniusFactor computes K_T = exp(-(Ea*1000/R)*(1/(T+273.15) - 1/298.15))
// for activation energy eaKJ (kJ/mol) at temperature tC (Celsius).
func arrheniusFactor(eaKJ, tC float64) float64 {
	return math.Exp(-(eaKJ * 1000 / gasConstant) * (1/(tC+273.15) - 1/298.15))
}

// sulfateActivityAccel implements the Cs_acc ramp: 1 below 10 mmol/L SO4,
// a linear ramp to 20 at some upper threshold, then a log10 tail.
func sulfateActivityAccel(so4 float64) float64 {
	switch {
	case so4 < 10:
		return 1
	case so4 < 100:
		return 1 + (so4-10)/90*19
	default:
		return 1 + math.Log10(so4)
	}
}

// resolutionFactor implements resfact = (1/resolution)^1.25.
func resolutionFactor(resolution float64) float64 {
	return math.Pow(1/resolution, 1.25)
}

// UpdateDissolutionRates recomputes Disprob for every phase from the
// current thermal, pH, saturation, and diffusing-pool state, per spec.md
// section 4.6. g is read for phase counts only -- this function never
// mutates the grid.
func UpdateDissolutionRates(g *Grid, reg *Registry, p *KineticsParams, tC, pH, so4 float64, resolution float64, diffCounts map[Phase]int64) *DissolutionRates {
	rates := &DissolutionRates{}
	resfact := resolutionFactor(resolution)
	syspix := float64(g.Total())

	kHydration := arrheniusFactor(p.EaHydration, tC)
	kPozz := arrheniusFactor(p.EaPozzolanic, tC)
	kSlag := arrheniusFactor(p.EaSlag, tC)

	for ph := Phase(1); ph < numPhases; ph++ {
		base := p.Disbase[ph]
		if base == 0 {
			continue
		}
		rate := base * resfact

		switch ph {
		case C3S, C2S, C3A, OC3A, C4AF, FREELIME, CACL2:
			rate *= kHydration
		case SFUME, AMSIL, ASG, CAS2:
			rate *= kPozz
		case SLAG:
			rate *= kSlag
		}

		if ph == C3S || ph == C2S {
			f := (float64(g.Count[CSH])/p.CshScale + float64(g.Count[POZZCSH])/p.PozzCshScale) *
				p.TfractW04 / (p.SurfFract * p.TotFract)
			accel := sulfateActivityAccel(so4)
			rate *= (p.A0 - p.A1*tC) * f * f * accel
		}

		if p.SealedCuring {
			rate *= saturationQuench(g, ph)
		}

		if p.PHEnabled && g.Count[CSH] > p.PHThreshold {
			if c, ok := p.PHCoeffs[ph]; ok {
				factor := c[0]*pH*pH + c[1]*pH + c[2] - p.PHSulfCoeff[ph]*so4
				if ph == SFUME || ph == AMSIL || ph == ASG {
					if factor < p.PozzPHBounds[0] {
						factor = p.PozzPHBounds[0]
					}
					if factor > p.PozzPHBounds[1] {
						factor = p.PozzPHBounds[1]
					}
				}
				rate *= factor
			}
		}

		if rate > 1 {
			rate = 1
		}
		if rate < 0 {
			rate = 0
		}
		rates.P[ph] = rate
	}

	applyDiffusingPoolSaturation(rates, p, reg, diffCounts, syspix, resolution)
	return rates
}

// saturationQuench returns the exponentiated S factor for phase ph under
// sealed (self-desiccating) curing, or 1 if the saturation threshold has
// not yet been crossed.
func saturationQuench(g *Grid, ph Phase) float64 {
	syspix := float64(g.Total())
	if float64(g.Count[EMPTYP]+g.Count[POROSITY]) >= 0.22*syspix {
		return 1
	}
	denom := g.Count[POROSITY] + g.Count[EMPTYP]
	if denom <= 0 {
		return 0
	}
	s := float64(g.Count[POROSITY]) / float64(denom)
	var exp float64
	switch ph {
	case C3S, CH:
		exp = 19
	case C2S:
		exp = 29
	case C3A, OC3A, C4AF:
		exp = 6
	default:
		return 1
	}
	return math.Pow(s, exp)
}

// applyDiffusingPoolSaturation zeroes Disprob for any solid phase whose
// diffusing-species population has hit its scaled ceiling, per spec.md
// section 4.6's "diffusing-pool saturation" rule.
func applyDiffusingPoolSaturation(rates *DissolutionRates, p *KineticsParams, reg *Registry, diffCounts map[Phase]int64, syspix float64, resolution float64) {
	for diff, max := range p.DiffMaxBase {
		scaled := max * syspix / 1e6
		if diffCounts[diff] < int64(scaled) {
			continue
		}
		for solid := Phase(1); solid < numPhases; solid++ {
			if reg.Get(solid).DissolvesTo == diff {
				rates.P[solid] = 0
			}
		}
	}
}
