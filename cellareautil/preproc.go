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

package cellareautil

import (
	"fmt"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/cellarea"
	"gonum.org/v1/gonum/floats"
)

// Preproc reads the subgrid coordinate fields from WRF output, computes the
// approximate surface area of each grid cell, and saves the result for
// later use.
//
// WRFOut is the location of WRF output files.
// [DATE] should be used as a wild card for the simulation date.
//
// LatVar and LonVar are the names of the latitude and longitude variables
// to read; empty values select "XLAT" and "XLONG".
//
// StartDate is the date of the beginning of the time period of interest.
// Format = "YYYYMMDD".
//
// EndDate is the date of the end of the time period of interest.
// Format = "YYYYMMDD".
//
// recordDeltaStr and fileDeltaStr are the time intervals between records
// within a file and between files; empty values select "1h" and "24h".
//
// OutputFile is the path where the computed cell areas should be written.
//
// R is the radius of the Earth [km].
func Preproc(WRFOut, LatVar, LonVar, StartDate, EndDate, recordDeltaStr, fileDeltaStr, OutputFile string, R float64) error {
	vars := []string{StartDate, EndDate, WRFOut, OutputFile}
	varNames := []string{"StartDate", "EndDate", "WRFOut", "OutputFile"}
	for i, v := range vars {
		if v == "" {
			return fmt.Errorf("cellarea preprocessor: configuration variable %s is not specified", varNames[i])
		}
	}

	msgChan := outChan()
	wrf, err := cellarea.NewWRF(WRFOut, LatVar, LonVar, StartDate, EndDate, recordDeltaStr, fileDeltaStr, msgChan)
	if err != nil {
		return err
	}
	data, err := cellarea.Preprocess(wrf, R)
	if err != nil {
		return err
	}

	// Write out the result.
	ff, err := os.Create(OutputFile)
	if err != nil {
		return fmt.Errorf("cellarea: preprocessor writing output file: %v", err)
	}
	if err := data.Write(ff); err != nil {
		return fmt.Errorf("cellarea: preprocessor writing output file: %v", err)
	}
	if err := ff.Close(); err != nil {
		return fmt.Errorf("cellarea: preprocessor closing output file: %v", err)
	}
	Log.WithFields(logrus.Fields{
		"file": OutputFile,
	}).Info("wrote cell area data")

	return nil
}

// Info loads a previously computed cell area data file and logs a summary
// of each variable it contains.
func Info(file string) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("cellarea: opening data file: %v", err)
	}
	defer f.Close()
	data, err := cellarea.LoadGridData(f)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(data.Data))
	for n := range data.Data {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, name := range names {
		d := data.Data[name]
		el := d.Data.Elements
		Log.WithFields(logrus.Fields{
			"variable": name,
			"units":    d.Units,
			"min":      floats.Min(el),
			"mean":     floats.Sum(el) / float64(len(el)),
			"max":      floats.Max(el),
		}).Info("variable summary")
	}
	return nil
}
