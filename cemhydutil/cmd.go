/*
Copyright © 2018 the cemhyd authors.
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

package cemhydutil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/spatialmodel/cemhyd"
	"github.com/spatialmodel/cemhyd/blobstore"
	"github.com/spatialmodel/cemhyd/output"
	"github.com/spatialmodel/cemhyd/paramfile"
)

const snapshotVersion = "cemhyd-microstructure-v1"

// RunSummary is the JSON object emitted on stdout when a run completes
// (spec.md section 6.1): status plus the final state a caller needs
// without re-parsing the CSV.
type RunSummary struct {
	Status            string   `json:"status"`
	Cycles            int      `json:"cycles"`
	DegreeOfHydration float64  `json:"degree_of_hydration"`
	TemperatureC      float64  `json:"temperature_c"`
	PH                float64  `json:"ph"`
	OutputFiles       []string `json:"output_files"`
}

// AddRunCommand attaches the "run" subcommand, which drives a complete
// simulation from a parameter file and initial microstructure to
// completion. It writes workdir/output.csv (one row per cycle) and the
// progress JSON (every 10 cycles), then prints the summary; it writes no
// microstructure snapshots, movie, image index or .params files.
func AddRunCommand(cfg *Cfg) {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run a hydration simulation to completion",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(cfg)
		},
	}
	cfg.Root.AddCommand(runCmd)
}

func runSimulation(cfg *Cfg) error {
	log := newLogger(cfg)

	workdir := cfg.GetString("workdir")
	paramPath := cfg.GetString("parameters")
	jsonPath := cfg.GetString("json")

	paramBytes, err := readWorkdirFile(paramPath)
	if err != nil {
		return &cemhyd.ConfigError{Field: "parameters", Err: err}
	}
	entries, err := paramfile.ReadSequential(bytesReader(paramBytes))
	if err != nil {
		return &cemhyd.ConfigError{Field: "parameters", Err: err}
	}
	pr := paramfile.NewReader(entries)

	micFile, err := pr.Expect("microstructure_file")
	if err != nil {
		return &cemhyd.ConfigError{Field: "parameters", Err: err}
	}
	seed, err := pr.ExpectInt("seed")
	if err != nil {
		return &cemhyd.ConfigError{Field: "parameters", Err: err}
	}
	endHours, err := pr.ExpectFloat("end_time_hours")
	if err != nil {
		return &cemhyd.ConfigError{Field: "parameters", Err: err}
	}
	sealed, err := pr.ExpectBool("sealed_curing")
	if err != nil {
		return &cemhyd.ConfigError{Field: "parameters", Err: err}
	}
	cementMassGrams, err := pr.ExpectFloat("cement_mass_grams")
	if err != nil {
		return &cemhyd.ConfigError{Field: "parameters", Err: err}
	}
	initialTempC, err := pr.ExpectFloat("initial_temp_c")
	if err != nil {
		return &cemhyd.ConfigError{Field: "parameters", Err: err}
	}

	micBytes, err := readWorkdirJoined(workdir, micFile)
	if err != nil {
		return &cemhyd.ConfigError{Field: "microstructure_file", Err: err}
	}
	grid, err := output.ReadMicrostructure(bytesReader(micBytes), snapshotVersion)
	if err != nil {
		return &cemhyd.ConfigError{Field: "microstructure_file", Err: err}
	}

	reg := cemhyd.NewRegistry()
	kin := cemhyd.NewKineticsParams()
	kin.SealedCuring = sealed

	sim := cemhyd.NewSimulation(grid, reg, kin, cemhyd.Isothermal, initialTempC, initialTempC,
		cemhyd.BetaFactor, cemhyd.Neighbors26, -int64(abs(seed))-1, log)
	sim.SealedCuring = sealed
	sim.EndSeconds = endHours * 3600
	sim.Thermal.SetHeatConversionFactor(cementMassGrams)

	var liveSrv *output.LiveServer
	if cfg.GetBool("serve") {
		liveSrv = output.NewLiveServer()
		go func() {
			if err := http.ListenAndServe(cfg.GetString("addr"), liveSrv); err != nil {
				log.WithError(err).Warn("live dashboard server stopped")
			}
		}()
	}

	csvWriter, closeCSV, err := openCSVWriter(workdir)
	if err != nil {
		return err
	}
	defer closeCSV()

	progWriter, closeProgress, err := openProgressWriter(jsonPath)
	if err != nil {
		return err
	}
	defer closeProgress()

	maxCycles := cfg.GetInt("max-cycles")
	if maxCycles <= 0 {
		maxCycles = 1 << 30
	}

	var rc *cemhyd.RunComplete
	for sim.Cycle < maxCycles {
		cycleErr := sim.RunCycle()
		row := sim.Rows()[len(sim.Rows())-1]
		if err := csvWriter.WriteRow(row); err != nil {
			return fmt.Errorf("cemhyd: writing CSV row: %w", err)
		}
		if output.ShouldAppend(sim.Cycle) {
			if err := progWriter.Append(sim.Cycle, row.TimeHours, row.AlphaMass); err != nil {
				return fmt.Errorf("cemhyd: writing progress JSON: %w", err)
			}
			if liveSrv != nil {
				liveSrv.Broadcast(output.ProgressEntry{
					Cycle: sim.Cycle, TimeHours: row.TimeHours, DegreeOfHydration: row.AlphaMass,
				})
			}
		}
		if cycleErr == nil {
			continue
		}
		done, ok := cycleErr.(*cemhyd.RunComplete)
		if !ok {
			return cycleErr
		}
		rc = done
		break
	}
	if rc == nil {
		rc = &cemhyd.RunComplete{Reason: "cycle budget reached"}
	}

	last := sim.Rows()[len(sim.Rows())-1]
	summary := RunSummary{
		Status:            rc.Reason,
		Cycles:            sim.Cycle,
		DegreeOfHydration: last.AlphaMass,
		TemperatureC:      last.TempC,
		PH:                last.PH,
		OutputFiles:       []string{filepath.Join(workdir, "output.csv"), jsonPath},
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}

// newLogger builds the logrus logger at the level selected by the
// verbosity flags (spec.md section 6.1): silent suppresses everything,
// quiet drops to warn, verbose raises to debug, and the default is info.
func newLogger(cfg *Cfg) *logrus.Logger {
	log := logrus.New()
	verbose, quiet, silent := cfg.Verbosity()
	switch {
	case silent:
		log.SetLevel(logrus.PanicLevel)
	case quiet:
		log.SetLevel(logrus.WarnLevel)
	case verbose:
		log.SetLevel(logrus.DebugLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}
	return log
}

// openCSVWriter resolves workdir/output.csv (local or blob) and builds a
// CSVWriter over every registered phase in declaration order.
func openCSVWriter(workdir string) (*output.CSVWriter, func(), error) {
	path := joinWorkdir(workdir, "output.csv")
	w, closer, err := openForWrite(path)
	if err != nil {
		return nil, nil, err
	}
	return output.NewCSVWriter(w, cemhyd.AllPhases()), closer, nil
}

func openProgressWriter(jsonPath string) (*output.ProgressWriter, func(), error) {
	w, closer, err := openForWrite(jsonPath)
	if err != nil {
		return nil, nil, err
	}
	return output.NewProgressWriter(w), closer, nil
}

// openForWrite opens path for writing, routing through blobstore for
// gs:// and s3:// URLs and through the local filesystem otherwise.
func openForWrite(path string) (io.Writer, func(), error) {
	if blobstore.IsBlob(path) {
		wc, err := blobstore.Writer(context.Background(), path)
		if err != nil {
			return nil, nil, err
		}
		return wc, func() { wc.Close() }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

func readWorkdirFile(path string) ([]byte, error) {
	if blobstore.IsBlob(path) {
		return nil, fmt.Errorf("cemhyd: reading blob input paths is not yet wired, got %q", path)
	}
	return os.ReadFile(path)
}

func readWorkdirJoined(workdir, name string) ([]byte, error) {
	return readWorkdirFile(joinWorkdir(workdir, name))
}

func joinWorkdir(workdir, name string) string {
	if blobstore.IsBlob(workdir) {
		return workdir + "/" + name
	}
	return filepath.Join(workdir, name)
}

func bytesReader(b []byte) io.Reader {
	return &byteReader{b: b}
}

// byteReader is a minimal io.Reader over an in-memory byte slice, used so
// blob- and local-sourced parameter/microstructure bytes feed the same
// paramfile/output parsers regardless of origin.
type byteReader struct {
	b   []byte
	pos int
}

func (r *byteReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.b) {
		return 0, io.EOF
	}
	n := copy(p, r.b[r.pos:])
	r.pos += n
	return n, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
