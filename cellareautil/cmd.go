/*
Copyright © 2018 the CellArea authors.
This file is part of CellArea.

CellArea is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

CellArea is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with CellArea.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package cellareautil provides the functionality for the cellarea
// command-line interface.
package cellareautil

import (
	"fmt"
	"os"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/cellarea"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

// Log is the logger used by the command-line interface.
var Log = logrus.StandardLogger()

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	Cfg = viper.New()
	Cfg.SetEnvPrefix("CELLAREA")
	Cfg.AutomaticEnv()

	// Options are the configuration options available to CellArea.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "WRFOut",
			usage: `
              WRFOut is the location of the WRF output files holding the
              subgrid coordinate fields. [DATE] should be used as a wild
              card for the simulation date.`,
			defaultVal: "wrfout_d01_[DATE]",
			flagsets:   []*pflag.FlagSet{preprocCmd.Flags()},
		},
		{
			name: "LatVar",
			usage: `
              LatVar is the name of the latitude variable in the WRF
              output files.`,
			defaultVal: "XLAT",
			flagsets:   []*pflag.FlagSet{preprocCmd.Flags()},
		},
		{
			name: "LonVar",
			usage: `
              LonVar is the name of the longitude variable in the WRF
              output files.`,
			defaultVal: "XLONG",
			flagsets:   []*pflag.FlagSet{preprocCmd.Flags()},
		},
		{
			name: "StartDate",
			usage: `
              StartDate is the date of the beginning of the time period
              of interest. Format = "YYYYMMDD".`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{preprocCmd.Flags()},
		},
		{
			name: "EndDate",
			usage: `
              EndDate is the date of the end of the time period
              of interest. Format = "YYYYMMDD".`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{preprocCmd.Flags()},
		},
		{
			name: "RecordDelta",
			usage: `
              RecordDelta is the length of time between records within
              each WRF output file, in Go time.ParseDuration format.`,
			defaultVal: "1h",
			flagsets:   []*pflag.FlagSet{preprocCmd.Flags()},
		},
		{
			name: "FileDelta",
			usage: `
              FileDelta is the length of time between WRF output files,
              in Go time.ParseDuration format.`,
			defaultVal: "24h",
			flagsets:   []*pflag.FlagSet{preprocCmd.Flags()},
		},
		{
			name: "EarthRadius",
			usage: `
              EarthRadius is the radius of the Earth [km] to use in the
              area approximation.`,
			defaultVal: cellarea.EarthRadius,
			flagsets:   []*pflag.FlagSet{preprocCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path where the computed cell areas should
              be written (for preproc) or read from (for info).`,
			shorthand:  "o",
			defaultVal: "cellarea.ncf",
			flagsets:   []*pflag.FlagSet{preprocCmd.Flags(), infoCmd.Flags()},
		},
	}

	for _, option := range options {
		for _, set := range option.flagsets {
			switch v := option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, v, option.usage)
				} else {
					set.StringP(option.name, option.shorthand, v, option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, v, option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, v, option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(preprocCmd)
	Root.AddCommand(infoCmd)
}

// outChan returns a channel whose messages are written to the log.
func outChan() chan string {
	outChan := make(chan string)
	go func() {
		for {
			Log.Info(<-outChan)
		}
	}()
	return outChan
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("cellarea: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "cellarea",
	Short: "Compute the surface areas of grid cells in WRF output.",
	Long: `cellarea computes the approximate surface area of each cell in the
time-varying latitude/longitude mesh described by the subgrid coordinate
fields in WRF model output.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'CELLAREA_var' where 'var'
is the name of the variable to be set.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of CellArea.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("CellArea v%s\n", cellarea.Version)
	},
	DisableAutoGenTag: true,
}

// preprocCmd is a command that computes cell areas from WRF output.
var preprocCmd = &cobra.Command{
	Use:   "preproc",
	Short: "Compute cell areas from WRF output",
	Long: `preproc reads the subgrid coordinate fields from WRF output files
as specified by information in the configuration file, computes the
approximate surface area of each grid cell, and saves the result to a
NetCDF file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Preproc(
			os.ExpandEnv(Cfg.GetString("WRFOut")),
			Cfg.GetString("LatVar"),
			Cfg.GetString("LonVar"),
			Cfg.GetString("StartDate"),
			Cfg.GetString("EndDate"),
			Cfg.GetString("RecordDelta"),
			Cfg.GetString("FileDelta"),
			os.ExpandEnv(Cfg.GetString("OutputFile")),
			cast.ToFloat64(Cfg.Get("EarthRadius")),
		)
	},
	DisableAutoGenTag: true,
}

// infoCmd is a command that summarizes a previously computed output file.
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Summarize a cell area data file",
	Long: `info loads a previously computed cell area data file and logs the
minimum, mean, and maximum of each variable it contains.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Info(os.ExpandEnv(Cfg.GetString("OutputFile")))
	},
	DisableAutoGenTag: true,
}
