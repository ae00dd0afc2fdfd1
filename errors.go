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

import "fmt"

// ConfigError reports a fatal problem with parameters, a microstructure
// file, or an auxiliary data file (spec.md section 7, "Configuration").
// The orchestrator treats every ConfigError as unrecoverable: clean up and
// exit non-zero with a one-line diagnostic.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("cemhyd: configuration error: %v", e.Err)
	}
	return fmt.Sprintf("cemhyd: configuration error in %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// DegeneracyError reports a model degeneracy (spec.md section 7): a time
// step going non-positive during calorimetric extrapolation, a negative
// quadratic leading coefficient that could not be rescued by the linear
// fallback, or a calibration file ending prematurely with no further data
// to interpolate or extrapolate from.
type DegeneracyError struct {
	Cycle  int
	Reason string
}

func (e *DegeneracyError) Error() string {
	return fmt.Sprintf("cemhyd: model degeneracy at cycle %d: %s", e.Cycle, e.Reason)
}

// RunComplete is returned (not as a Go error in the usual sense, but via
// the same return channel) by the orchestrator loop to distinguish a
// normal completion condition -- alpha >= alpha_max, water exhausted under
// sealed curing, or the cycle budget reached -- from a real failure. The
// CLI layer (cemhydutil) treats it as success.
type RunComplete struct {
	Reason string
}

func (e *RunComplete) Error() string { return fmt.Sprintf("cemhyd: run complete: %s", e.Reason) }
