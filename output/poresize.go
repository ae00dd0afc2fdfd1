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

package output

import (
	"github.com/GaryBoone/GoStats/stats"
	"github.com/spatialmodel/cemhyd"
)

// PoreSizeDistribution summarizes the connected pore-cluster sizes found
// in a grid snapshot (spec.md section 4.10); the run command does not
// compute or write it. Cluster sizes are computed by a flood fill over
// POROSITY/CRACKP/EMPTYP voxels; GoStats' incremental accumulator gives
// the mean/variance without holding every sample twice.
type PoreSizeDistribution struct {
	ClusterCount int
	Mean         float64
	StdDev       float64
	Min, Max     float64
	Sizes        []float64
}

// ComputePoreSizeDistribution flood-fills every pore/crack/empty voxel
// cluster in g (6-connected) and returns the size distribution.
func ComputePoreSizeDistribution(g *cemhyd.Grid) PoreSizeDistribution {
	n := g.Nx * g.Ny * g.Nz
	visited := make([]bool, n)
	var sizes []float64
	var acc stats.Stats

	offs := cemhyd.Neighbors6.Offsets()
	for start := 0; start < n; start++ {
		if visited[start] || !isPoreVoxel(g, start) {
			continue
		}
		size := 0
		queue := []int{start}
		visited[start] = true
		for len(queue) > 0 {
			idx := queue[0]
			queue = queue[1:]
			size++
			x, y, z := g.Coords(idx)
			for _, o := range offs {
				ni := g.Index(x+o[0], y+o[1], z+o[2])
				if visited[ni] || !isPoreVoxel(g, ni) {
					continue
				}
				visited[ni] = true
				queue = append(queue, ni)
			}
		}
		sizes = append(sizes, float64(size))
		acc.Update(float64(size))
	}

	dist := PoreSizeDistribution{
		ClusterCount: len(sizes),
		Sizes:        sizes,
	}
	if len(sizes) > 0 {
		dist.Mean = acc.Mean()
		dist.StdDev = acc.SampleStandardDeviation()
		dist.Min = stats.StatsMin(sizes)
		dist.Max = stats.StatsMax(sizes)
	}
	return dist
}

func isPoreVoxel(g *cemhyd.Grid, idx int) bool {
	switch g.GetIdx(idx) {
	case cemhyd.POROSITY, cemhyd.CRACKP, cemhyd.EMPTYP:
		return true
	default:
		return false
	}
}
