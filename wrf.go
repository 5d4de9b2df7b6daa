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

package cellarea

import (
	"fmt"
	"time"
)

const wrfFormat = "2006-01-02_15_04_05"

// Default names of the WRF subgrid coordinate variables.
const (
	wrfDefaultLatVar = "XLAT"
	wrfDefaultLonVar = "XLONG"
)

// WRF is a Preprocessor for the subgrid coordinate fields in WRF output.
type WRF struct {
	latVar, lonVar string

	start, end time.Time

	wrfOut string

	recordDelta, fileDelta time.Duration

	msgChan chan string
}

// NewWRF initializes a WRF coordinate preprocessor from the given
// configuration information.
// WRFOut is the location of WRF output files.
// [DATE] should be used as a wild card for the simulation date.
// latVar and lonVar are the names of the latitude and longitude variables
// to read; if either is empty, "XLAT" and "XLONG" are used.
// startDate and endDate are the dates of the beginning and end of the
// time period of interest, respectively, in the format "YYYYMMDD".
// recordDeltaStr and fileDeltaStr are the time intervals between records
// within a file and between files, respectively, in time.ParseDuration
// format; if either is empty, "1h" and "24h" are used.
// If msgChan is not nil, status messages will be sent to it.
func NewWRF(WRFOut, latVar, lonVar, startDate, endDate, recordDeltaStr, fileDeltaStr string, msgChan chan string) (*WRF, error) {
	if latVar == "" {
		latVar = wrfDefaultLatVar
	}
	if lonVar == "" {
		lonVar = wrfDefaultLonVar
	}
	if recordDeltaStr == "" {
		recordDeltaStr = "1h"
	}
	if fileDeltaStr == "" {
		fileDeltaStr = "24h"
	}
	w := WRF{
		latVar:  latVar,
		lonVar:  lonVar,
		wrfOut:  WRFOut,
		msgChan: msgChan,
	}

	var err error
	w.start, err = time.Parse(inDateFormat, startDate)
	if err != nil {
		return nil, fmt.Errorf("cellarea: WRF preprocessor start time: %v", err)
	}
	w.end, err = time.Parse(inDateFormat, endDate)
	if err != nil {
		return nil, fmt.Errorf("cellarea: WRF preprocessor end time: %v", err)
	}
	if !w.end.After(w.start) {
		return nil, fmt.Errorf("cellarea: WRF preprocessor end time %v is not after start time %v", w.end, w.start)
	}

	w.recordDelta, err = time.ParseDuration(recordDeltaStr)
	if err != nil {
		return nil, fmt.Errorf("cellarea: WRF preprocessor recordDelta: %v", err)
	}
	w.fileDelta, err = time.ParseDuration(fileDeltaStr)
	if err != nil {
		return nil, fmt.Errorf("cellarea: WRF preprocessor fileDelta: %v", err)
	}
	return &w, nil
}

func (w *WRF) read(varName string) NextData {
	return nextDataNCF(w.wrfOut, wrfFormat, varName, w.start, w.end, w.recordDelta, w.fileDelta, readNCF, w.msgChan)
}

// Nx helps fulfill the Preprocessor interface by returning
// the number of grid points in the West-East direction.
func (w *WRF) Nx() (int, error) {
	f, ff, err := ncfFromTemplate(w.wrfOut, wrfFormat, w.start)
	if err != nil {
		return -1, fmt.Errorf("nx: %v", err)
	}
	defer f.Close()
	return ff.Header.Lengths(w.latVar)[2], nil
}

// Ny helps fulfill the Preprocessor interface by returning
// the number of grid points in the South-North direction.
func (w *WRF) Ny() (int, error) {
	f, ff, err := ncfFromTemplate(w.wrfOut, wrfFormat, w.start)
	if err != nil {
		return -1, fmt.Errorf("ny: %v", err)
	}
	defer f.Close()
	return ff.Header.Lengths(w.latVar)[1], nil
}

// Lat helps fulfill the Preprocessor interface by returning
// grid point latitude [degrees].
func (w *WRF) Lat() NextData { return w.read(w.latVar) }

// Lon helps fulfill the Preprocessor interface by returning
// grid point longitude [degrees].
func (w *WRF) Lon() NextData { return w.read(w.lonVar) }
