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

// Package cemhydutil holds the command-line configuration and command tree
// for the cemhyd binary, wrapping viper in a Cfg struct that also holds the
// cobra command tree.
package cemhydutil

import (
	"fmt"

	"github.com/lnashier/viper"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds the configuration options bound from flags and environment
// variables, plus the cobra command tree
// that reads them.
type Cfg struct {
	*viper.Viper

	Root, versionCmd *cobra.Command
}

// required names the flags spec.md section 6.1 treats as mandatory. A run
// started without one of these exits non-zero with usage on stderr.
var required = []string{"json", "workdir", "parameters"}

// InitializeConfig builds the command tree and binds every flag named in
// section 6.1 into a fresh viper instance, the same construction shape as
// inmaputil.InitializeConfig.
func InitializeConfig() *Cfg {
	cfg := &Cfg{Viper: viper.New()}

	cfg.Root = &cobra.Command{
		Use:   "cemhyd",
		Short: "A voxel-based cellular-automaton model of Portland cement hydration.",
		Long: `cemhyd simulates the hydration of a microstructure of cement clinker
phases as a three-dimensional grid of unit cells, writing per-cycle data
rows and progress JSON as it runs.`,
		DisableAutoGenTag: true,
		SilenceUsage:      false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd == cfg.versionCmd {
				return nil
			}
			return cfg.checkRequired()
		},
	}

	set := cfg.Root.PersistentFlags()
	set.String("json", "", "path to write progress JSON (required)")
	set.String("workdir", "", "directory (or s3:// bucket URL, outputs only) for outputs and auxiliary data (required)")
	set.String("parameters", "", "path to the parameter CSV file (required)")
	set.BoolP("verbose", "v", false, "log at debug level")
	set.BoolP("quiet", "q", false, "log warnings and errors only")
	set.BoolP("silent", "s", false, "suppress all logging")
	set.Bool("serve", false, "start a websocket live dashboard on --addr")
	set.String("addr", ":8085", "address for the --serve live dashboard")
	set.Int("max-cycles", 0, "stop after this many cycles (0: run to a completion condition)")
	set.Int64("seed", -1, "not read by run; the PRNG seed comes from the parameter file's seed entry")

	bindAll(cfg, set)

	cfg.versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("cemhyd v" + Version)
		},
	}
	cfg.Root.AddCommand(cfg.versionCmd)

	AddRunCommand(cfg)

	return cfg
}

// bindAll binds every flag in set into cfg.Viper, so cfg.GetString/GetBool
// reflect flags and environment variables (CEMHYD_*) with the usual viper
// precedence.
func bindAll(cfg *Cfg, set *pflag.FlagSet) {
	set.VisitAll(func(f *pflag.Flag) {
		cfg.BindPFlag(f.Name, f)
	})
	cfg.SetEnvPrefix("CEMHYD")
	cfg.AutomaticEnv()
}

// checkRequired enforces spec.md section 6.1's required-flag contract:
// any missing required flag is a non-zero exit with usage on stderr.
func (cfg *Cfg) checkRequired() error {
	for _, name := range required {
		if cfg.GetString(name) == "" {
			return fmt.Errorf("cemhyd: required flag --%s not set", name)
		}
	}
	return nil
}

// Verbosity reports the three-level verbosity selection, silent taking
// precedence over quiet taking precedence over verbose.
func (cfg *Cfg) Verbosity() (verbose, quiet, silent bool) {
	return cfg.GetBool("verbose"), cfg.GetBool("quiet"), cfg.GetBool("silent")
}

// Version is the build version reported by the version subcommand.
// Overridden at build time with -ldflags if desired.
var Version = "dev"
