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
	"bufio"
	"fmt"
	"io"

	"github.com/spatialmodel/cemhyd"
)

// SnapshotHeader is the two-line header shared by microstructure input
// files and output snapshot images (spec.md section 6.3/6.4): version,
// then grid dimensions and resolution.
type SnapshotHeader struct {
	Version    string
	Nx, Ny, Nz int
	Resolution float64
}

// WriteSnapshot writes g's current microstructure in the two-line-header,
// one-id-per-line format, with diffusing species remapped to POROSITY
// (spec.md section 6.4: "diffusing ids remapped to POROSITY on write").
// Iteration order is x outermost, z innermost, per the post-2025-08-05
// convention named in spec.md section 9.
func WriteSnapshot(w io.Writer, g *cemhyd.Grid, header SnapshotHeader) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, header.Version); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(bw, "%d %d %d %g\n", header.Nx, header.Ny, header.Nz, header.Resolution); err != nil {
		return err
	}
	for x := 0; x < g.Nx; x++ {
		for y := 0; y < g.Ny; y++ {
			for z := 0; z < g.Nz; z++ {
				p := g.Get(x, y, z)
				if p.IsDiffusing() {
					p = cemhyd.POROSITY
				}
				if _, err := fmt.Fprintln(bw, int(p)); err != nil {
					return err
				}
			}
		}
	}
	return bw.Flush()
}

// ReadMicrostructure reads the two-line header plus body format described
// in spec.md section 6.3 and returns a populated Grid. It rejects files
// that do not declare the z-innermost ordering convention via Version,
// per spec.md section 9's "C-order convention for image I/O" design note,
// rather than silently misreading legacy y-innermost files.
func ReadMicrostructure(r io.Reader, expectedVersion string) (*cemhyd.Grid, error) {
	br := bufio.NewReader(r)

	var version string
	if _, err := fmt.Fscanln(br, &version); err != nil {
		return nil, fmt.Errorf("cemhyd: reading microstructure version: %w", err)
	}
	if version != expectedVersion {
		return nil, fmt.Errorf("cemhyd: microstructure file version %q does not match expected %q "+
			"(legacy y-innermost files are rejected, not silently misread)", version, expectedVersion)
	}

	var nx, ny, nz int
	var resolution float64
	if _, err := fmt.Fscanln(br, &nx, &ny, &nz, &resolution); err != nil {
		return nil, fmt.Errorf("cemhyd: reading microstructure dimensions: %w", err)
	}

	g := cemhyd.NewGrid(nx, ny, nz, resolution)
	for x := 0; x < nx; x++ {
		for y := 0; y < ny; y++ {
			for z := 0; z < nz; z++ {
				var id int
				if _, err := fmt.Fscanln(br, &id); err != nil {
					return nil, fmt.Errorf("cemhyd: reading voxel (%d,%d,%d): %w", x, y, z, err)
				}
				g.Set(x, y, z, cemhyd.Phase(id))
			}
		}
	}
	return g, nil
}
