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

import "github.com/ctessum/unit"

// Phase is a voxel phase identifier. The zero value is never a valid phase;
// real phases start at 1 so that a phase ID can double as a boolean "has a
// phase been set" check in places that zero-initialize a grid.
type Phase int16

// OffsetSentinel is added to a solid voxel's phase ID during dissolution
// pass A to mark it eligible for dissolution this cycle, and subtracted
// again before the cycle ends. It must be larger than the largest phase ID.
const OffsetSentinel Phase = 1000

// Fixed phase identifiers. Reaction and dissolution rules switch on these
// values directly (table-driven dispatch, see Registry and reactionTable) rather than using
// a type per phase -- many reactions cross-reference several phases at once,
// which a variant-per-phase design would make awkward to express.
const (
	POROSITY Phase = iota + 1
	CRACKP
	EMPTYP

	C3S
	C2S
	C3A
	OC3A // orthorhombic/cubic C3A variant
	C4AF

	GYPSUM
	HEMIHYD
	ANHYDRITE
	K2SO4
	NA2SO4

	SFUME
	AMSIL
	ASG // amorphous flyash silicate glass
	CAS2
	SLAG
	INERT
	INERTAGG
	CACO3
	FREELIME
	BRUCITE
	CACL2

	CH
	CSH
	POZZCSH
	SLAGCSH
	C3AH6
	ETTR
	ETTRC4AF
	AFM
	AFMC
	FH3
	FRIEDEL
	STRAT
	GYPSUMS
	ABSGYP
	MS

	DIFFCSH
	DIFFCH
	DIFFGYP
	DIFFETTR
	DIFFC3A
	DIFFC4A
	DIFFSO4
	DIFFFH3
	DIFFAS
	DIFFCAS2
	DIFFCACL2
	DIFFCACO3
	DIFFANH
	DIFFHEM

	numPhases // sentinel: one past the last real phase ID
)

// phaseNames gives the canonical short name of each phase, used in CSV
// column headers and log messages.
var phaseNames = map[Phase]string{
	POROSITY: "POROSITY", CRACKP: "CRACKP", EMPTYP: "EMPTYP",
	C3S: "C3S", C2S: "C2S", C3A: "C3A", OC3A: "OC3A", C4AF: "C4AF",
	GYPSUM: "GYPSUM", HEMIHYD: "HEMIHYD", ANHYDRITE: "ANHYDRITE",
	K2SO4: "K2SO4", NA2SO4: "NA2SO4",
	SFUME: "SFUME", AMSIL: "AMSIL", ASG: "ASG", CAS2: "CAS2", SLAG: "SLAG",
	INERT: "INERT", INERTAGG: "INERTAGG", CACO3: "CACO3",
	FREELIME: "FREELIME", BRUCITE: "BRUCITE", CACL2: "CACL2",
	CH: "CH", CSH: "CSH", POZZCSH: "POZZCSH", SLAGCSH: "SLAGCSH",
	C3AH6: "C3AH6", ETTR: "ETTR", ETTRC4AF: "ETTRC4AF",
	AFM: "AFM", AFMC: "AFMC", FH3: "FH3", FRIEDEL: "FRIEDEL",
	STRAT: "STRAT", GYPSUMS: "GYPSUMS", ABSGYP: "ABSGYP", MS: "MS",
	DIFFCSH: "DIFFCSH", DIFFCH: "DIFFCH", DIFFGYP: "DIFFGYP",
	DIFFETTR: "DIFFETTR", DIFFC3A: "DIFFC3A", DIFFC4A: "DIFFC4A",
	DIFFSO4: "DIFFSO4", DIFFFH3: "DIFFFH3", DIFFAS: "DIFFAS",
	DIFFCAS2: "DIFFCAS2", DIFFCACL2: "DIFFCACL2", DIFFCACO3: "DIFFCACO3",
	DIFFANH: "DIFFANH", DIFFHEM: "DIFFHEM",
}

// String satisfies fmt.Stringer.
func (p Phase) String() string {
	if s, ok := phaseNames[p]; ok {
		return s
	}
	return "UNKNOWN"
}

// IsDiffusing reports whether p is one of the mobile diffusing-species
// phases rather than a fixed solid or pore phase.
func (p Phase) IsDiffusing() bool {
	return p >= DIFFCSH && p < numPhases
}

// AllPhases returns every valid phase ID in declaration order, for
// callers (the CSV writer's column order, the snapshot image legend) that
// need to enumerate the full phase table rather than look up one entry.
func AllPhases() []Phase {
	phases := make([]Phase, 0, numPhases-1)
	for p := Phase(1); p < numPhases; p++ {
		phases = append(phases, p)
	}
	return phases
}

// grams and joules are small constructors over
// ctessum/unit so that phase-registry fields carry their physical
// dimensions rather than being bare float64s -- a mismatched conversion
// (say, kJ where J was meant) becomes a dimension check instead of a
// silent factor-of-1000 bug. Grid-level per-voxel loops still work in
// plain float64 for speed; these typed quantities live at the registry
// and Simulation-scalar boundary.
func grams(v float64) *unit.Unit {
	return unit.New(v/1000., unit.Dimensions{unit.MassDim: 1})
}

func joules(v float64) *unit.Unit {
	return unit.New(v, unit.Dimensions{unit.MassDim: 1, unit.LengthDim: 2, unit.TimeDim: -2})
}

// PhaseInfo holds the static, read-only properties of one phase: density,
// molar volume, water consumed/retained, heat of formation, and the
// dissolution product table entries. It is populated once at start-up from
// NewRegistry's built-in defaults; the run command does not apply the
// slag/alkali/silica-fume composition files (package paramfile) to it.
type PhaseInfo struct {
	Name string

	// SpecificGravity is dimensionless (ratio to water density).
	SpecificGravity float64

	// MolarVolume is in cm^3/mol. Kept as a bare float64 (rather than a
	// ctessum/unit quantity) because it participates in tight per-voxel
	// dissolution-rate arithmetic; see Registry.cshMolarVolume for the one phase
	// (CSH) whose molar volume additionally varies per cycle.
	MolarVolume float64

	// WaterPerMole is the number of moles of water consumed to form one
	// mole of this phase via hydration (0 for phases that do not hydrate).
	WaterPerMole float64

	// HeatOfFormation is the heat released per mole reacted, stored in
	// joules (Thermal.AccumulateHeat converts it to kJ).
	HeatOfFormation *unit.Unit

	// WaterRetained105C and WaterRetained1000C are mass fractions of
	// chemically/physically bound water retained after drying at the
	// given temperature, used for the non-evaporable-water calculation.
	WaterRetained105C  float64
	WaterRetained1000C float64

	// PixelID is the color/id written to snapshot images for this phase.
	PixelID int

	// Soluble reports whether this phase may currently dissolve; it is
	// recomputed every cycle for phases with conditional solubility
	// (ettringite, C3AH6, silicates) by Simulation.updateSolubleActivation.
	Soluble bool

	// DissolvesTo is the phase produced directly at the pore voxel when
	// this phase dissolves (a diffusing species, or 0 for phases that do
	// not produce a mobile species and leave plain POROSITY).
	DissolvesTo Phase
}

// Registry is the static, read-only phase property table, one entry per
// phase ID, indexed directly by Phase (mirrors mechanism.go / simplechem's
// iota-indexed, map-keyed property tables rather than per-phase types).
type Registry struct {
	info [numPhases]PhaseInfo

	// cshMolarVolume and cshWaterPerMole are recomputed every cycle from
	// temperature and pH (see Simulation.updateCSHProperties); CSH is the
	// one phase whose registry entry is not purely static.
	cshMolarVolume  float64
	cshWaterPerMole float64
}

// Get returns the static info for phase p.
func (r *Registry) Get(p Phase) PhaseInfo {
	if p == CSH {
		info := r.info[CSH]
		info.MolarVolume = r.cshMolarVolume
		info.WaterPerMole = r.cshWaterPerMole
		return info
	}
	return r.info[p]
}

// SetSoluble updates the conditional solubility flag for phase p. Called by
// Simulation.updateSolubleActivation each cycle.
func (r *Registry) SetSoluble(p Phase, soluble bool) {
	r.info[p].Soluble = soluble
}

// NewRegistry builds the default phase property table. Values are
// representative Portland-cement-chemistry constants (specific gravities,
// molar volumes in cm^3/mol, heats of formation in kJ/mol); silica-fume,
// flyash, and slag characteristics may later be overridden from the
// composition files named in spec.md section 6.5 (see package paramfile).
func NewRegistry() *Registry {
	r := &Registry{}
	set := func(p Phase, info PhaseInfo) {
		info.Name = p.String()
		info.PixelID = int(p)
		r.info[p] = info
	}

	set(POROSITY, PhaseInfo{SpecificGravity: 1.0, MolarVolume: 18.068})
	set(CRACKP, PhaseInfo{SpecificGravity: 1.0, MolarVolume: 18.068})
	set(EMPTYP, PhaseInfo{SpecificGravity: 0})

	// C3S/C2S start insoluble: the soluble-phase-activation rule (see
	// Simulation.updateSolubleActivation) turns them on from cycle 2, or
	// earlier once an aluminate hydration product already exists.
	set(C3S, PhaseInfo{SpecificGravity: 3.21, MolarVolume: 72.45, WaterPerMole: 3.0,
		HeatOfFormation: joules(517000), Soluble: false, DissolvesTo: DIFFCSH})
	set(C2S, PhaseInfo{SpecificGravity: 3.28, MolarVolume: 52.51, WaterPerMole: 2.0,
		HeatOfFormation: joules(262000), Soluble: false, DissolvesTo: DIFFCSH})
	set(C3A, PhaseInfo{SpecificGravity: 3.03, MolarVolume: 89.14, WaterPerMole: 6.0,
		HeatOfFormation: joules(1144000), Soluble: true, DissolvesTo: DIFFC3A})
	set(OC3A, PhaseInfo{SpecificGravity: 3.03, MolarVolume: 89.14, WaterPerMole: 6.0,
		HeatOfFormation: joules(1144000), Soluble: true, DissolvesTo: DIFFC3A})
	set(C4AF, PhaseInfo{SpecificGravity: 3.73, MolarVolume: 130.29, WaterPerMole: 10.7,
		HeatOfFormation: joules(418000), Soluble: true, DissolvesTo: DIFFFH3})

	set(GYPSUM, PhaseInfo{SpecificGravity: 2.32, MolarVolume: 74.21, Soluble: true, DissolvesTo: DIFFGYP})
	set(HEMIHYD, PhaseInfo{SpecificGravity: 2.74, MolarVolume: 52.97, Soluble: true, DissolvesTo: DIFFHEM})
	set(ANHYDRITE, PhaseInfo{SpecificGravity: 2.61, MolarVolume: 46.0, Soluble: true, DissolvesTo: DIFFANH})
	set(K2SO4, PhaseInfo{SpecificGravity: 2.66, MolarVolume: 65.32, Soluble: true, DissolvesTo: DIFFSO4})
	set(NA2SO4, PhaseInfo{SpecificGravity: 2.68, MolarVolume: 53.0, Soluble: true, DissolvesTo: DIFFSO4})

	set(SFUME, PhaseInfo{SpecificGravity: 2.2, MolarVolume: 27.3})
	set(AMSIL, PhaseInfo{SpecificGravity: 2.2, MolarVolume: 27.3})
	set(ASG, PhaseInfo{SpecificGravity: 2.45, MolarVolume: 36.6})
	set(CAS2, PhaseInfo{SpecificGravity: 2.77, MolarVolume: 100.0})
	set(SLAG, PhaseInfo{SpecificGravity: 2.93, MolarVolume: 104.0, Soluble: true})
	set(INERT, PhaseInfo{SpecificGravity: 2.65, MolarVolume: 0})
	set(INERTAGG, PhaseInfo{SpecificGravity: 2.65, MolarVolume: 0})
	set(CACO3, PhaseInfo{SpecificGravity: 2.71, MolarVolume: 36.93, Soluble: true, DissolvesTo: DIFFCACO3})
	set(FREELIME, PhaseInfo{SpecificGravity: 3.32, MolarVolume: 16.76, WaterPerMole: 1.0,
		HeatOfFormation: joules(65000), Soluble: true})
	set(BRUCITE, PhaseInfo{SpecificGravity: 2.36, MolarVolume: 24.63})
	set(CACL2, PhaseInfo{SpecificGravity: 2.15, MolarVolume: 51.6, Soluble: true, DissolvesTo: DIFFCACL2})

	set(CH, PhaseInfo{SpecificGravity: 2.24, MolarVolume: 33.1, WaterRetained105C: 0, WaterRetained1000C: 0.243})
	set(CSH, PhaseInfo{SpecificGravity: 2.65, MolarVolume: 108.3, WaterRetained105C: 0.2, WaterRetained1000C: 0.21})
	set(POZZCSH, PhaseInfo{SpecificGravity: 2.6, MolarVolume: 110.0, WaterRetained105C: 0.2, WaterRetained1000C: 0.21})
	set(SLAGCSH, PhaseInfo{SpecificGravity: 2.6, MolarVolume: 110.0, WaterRetained105C: 0.2, WaterRetained1000C: 0.21})
	// C3AH6, ETTR, and ETTRC4AF start insoluble; updateSolubleActivation
	// turns ettringite soluble once sulfate is mostly consumed (or T >=
	// 70C) and C3AH6 once gypsum is depleted or Count[ETTR] exceeds 500
	// (spec.md section 4.4, "soluble-phase
	// activation"). DissolvesTo on the ettringite phases closes the loop
	// with diffusingFallback's DIFFETTR -> ETTR fallback in hydrate.go,
	// which otherwise has no producer.
	set(C3AH6, PhaseInfo{SpecificGravity: 2.52, MolarVolume: 150.12, WaterRetained1000C: 0.2, Soluble: false})
	set(ETTR, PhaseInfo{SpecificGravity: 1.7, MolarVolume: 725.0, WaterRetained105C: 0.15, WaterRetained1000C: 0.46,
		Soluble: false, DissolvesTo: DIFFETTR})
	set(ETTRC4AF, PhaseInfo{SpecificGravity: 1.7, MolarVolume: 725.0, WaterRetained105C: 0.15, WaterRetained1000C: 0.46,
		Soluble: false, DissolvesTo: DIFFETTR})
	set(AFM, PhaseInfo{SpecificGravity: 1.99, MolarVolume: 309.0, WaterRetained1000C: 0.38})
	set(AFMC, PhaseInfo{SpecificGravity: 2.17, MolarVolume: 261.0, WaterRetained1000C: 0.3})
	set(FH3, PhaseInfo{SpecificGravity: 3.0, MolarVolume: 69.8})
	set(FRIEDEL, PhaseInfo{SpecificGravity: 1.88, MolarVolume: 330.0})
	set(STRAT, PhaseInfo{SpecificGravity: 2.6, MolarVolume: 215.0})
	set(GYPSUMS, PhaseInfo{SpecificGravity: 2.32, MolarVolume: 74.21, Soluble: true, DissolvesTo: DIFFGYP})
	set(ABSGYP, PhaseInfo{SpecificGravity: 2.32, MolarVolume: 74.21})
	set(MS, PhaseInfo{SpecificGravity: 2.01, MolarVolume: 129.0})

	// Diffusing species inherit the molar volume of their solid precursor
	// (they are the same substance, mobile rather than fixed); used when
	// computing swelling/expansion ratios during precipitation.
	for diff, parent := range map[Phase]Phase{
		DIFFCSH: CSH, DIFFCH: CH, DIFFGYP: GYPSUM, DIFFETTR: ETTR,
		DIFFC3A: C3A, DIFFC4A: C4AF, DIFFSO4: K2SO4, DIFFFH3: FH3,
		DIFFAS: ASG, DIFFCAS2: CAS2, DIFFCACL2: CACL2, DIFFCACO3: CACO3,
		DIFFANH: ANHYDRITE, DIFFHEM: HEMIHYD,
	} {
		set(diff, PhaseInfo{SpecificGravity: r.info[parent].SpecificGravity, MolarVolume: r.info[parent].MolarVolume})
	}

	r.cshMolarVolume = r.info[CSH].MolarVolume
	r.cshWaterPerMole = 2.1
	return r
}
