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

// Package cemhyd simulates the microstructural evolution of hydrating
// Portland cement paste in three dimensions using a voxel-based
// cellular-automaton model.
//
// A rectilinear lattice of cubic voxels represents the paste; each voxel
// carries a phase identifier (clinker mineral, sulfate, hydration product,
// pore water, empty pore, and so on). The simulation advances in discrete
// cycles. Each cycle dissolves soluble phases at solid-water interfaces,
// diffuses the dissolved species through the pore network, and precipitates
// new hydration products according to a fixed set of stoichiometric rules.
// Auxiliary bookkeeping tracks released heat, non-evaporable water, chemical
// shrinkage, pore-solution pH, percolation of both solids and porosity, and
// extrapolated real time via calorimetric or chemical-shrinkage calibration.
package cemhyd
