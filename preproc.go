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
	"io"
	"os"
	"strings"
	"time"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

const (
	// inDateFormat specifies the format to use
	// when inputting dates.
	inDateFormat = "20060102"
)

// NextData is a type of function that returns coordinate data for the next
// time step. If there are no more time steps, it should return the io.EOF
// error.
type NextData func() (*sparse.DenseArray, error)

// Preprocessor specifies the methods that are necessary for a
// variable to act as a source of grid coordinate data.
type Preprocessor interface {
	// Nx is the number of grid cells in the West-East direction.
	Nx() (int, error)
	// Ny is the number of grid cells in the South-North direction.
	Ny() (int, error)

	// Lat is the latitude of each grid point [degrees].
	Lat() NextData
	// Lon is the longitude of each grid point [degrees].
	Lon() NextData
}

// Preprocess returns the approximate area [km²] of each grid cell described
// by the coordinate data available from the given preprocessor, using R as
// the radius of the Earth [km]. The returned holder contains the variable
// "cell_area" along with the latitude and longitude fields it was computed
// from, all on a (Time, south-north, west-east) grid.
func Preprocess(p Preprocessor, R float64) (*GridData, error) {
	var lat, lon *sparse.DenseArray

	errChan := make(chan error)

	go func() {
		var err error
		lat, err = stack(p.Lat())
		errChan <- err
	}()

	go func() {
		var err error
		lon, err = stack(p.Lon())
		errChan <- err
	}()

	for i := 0; i < 2; i++ {
		err := <-errChan
		if err != nil {
			return nil, err
		}
	}

	area := CellArea(lat, lon, R)

	data := new(GridData)
	data.nt = area.Shape[0]
	data.ny = area.Shape[1]
	data.nx = area.Shape[2]
	dims := []string{timeDim, southNorthDim, westEastDim}
	data.AddVariable("cell_area", dims,
		"Approximate surface area of each grid cell", "km^2", area)
	data.AddVariable("latitude", dims,
		"Latitude of each grid point", "degrees_north", lat)
	data.AddVariable("longitude", dims,
		"Longitude of each grid point", "degrees_east", lon)

	return data, nil
}

// stack concatenates a set of (south-north, west-east) arrays along a new
// leading time axis.
func stack(dataFunc NextData) (*sparse.DenseArray, error) {
	var steps []*sparse.DenseArray
	for {
		data, err := dataFunc()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		steps = append(steps, data)
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("cellarea: preprocessor returned an empty time series")
	}
	out := sparse.ZerosDense(append([]int{len(steps)}, steps[0].Shape...)...)
	for t, step := range steps {
		for i, v := range step.Elements {
			out.Elements[t*len(step.Elements)+i] = v
		}
	}
	return out, nil
}

// nextDataNCF returns a function that sequentially retrieves time series data
// for the specified variable (varName) from a series of NetCDF files
// with the given file name template between the given start and end times.
// recordDelta and fileDelta specify the length of time between each record
// within a file and between each file, respectively. dateFormat is the format
// in which dates appear in the filename.
func nextDataNCF(fileTemplate string, dateFormat string, varName string, start, end time.Time, recordDelta, fileDelta time.Duration, readFunc readNCFFunc, msgChan chan string) NextData {
	recordsPerFile := int(fileDelta / recordDelta)
	var i int
	date := start
	return func() (*sparse.DenseArray, error) {
		if !date.Before(end) {
			return nil, io.EOF
		}
		f, ff, err := ncfFromTemplate(fileTemplate, dateFormat, date)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		data, err := readFunc(varName, ff, i)
		if err != nil {
			return nil, err
		}
		i++
		if i == recordsPerFile {
			if msgChan != nil {
				fileName := strings.Replace(fileTemplate, "[DATE]", date.Format(dateFormat), -1)
				msgChan <- fmt.Sprintf("Read %d records of %s from %s", i, varName, fileName)
			}
			i = 0
			date = date.Add(fileDelta)
		}
		return data, err
	}
}

// readNCFFunc is a function that can read information from a
// NetCDF file.
type readNCFFunc func(varName string, file *cdf.File, index int) (*sparse.DenseArray, error)

// readNCF reads variable varName out of netcdf file ff at the index 0 value
// specified by hour.
func readNCF(varName string, ff *cdf.File, hour int) (*sparse.DenseArray, error) {
	dims := ff.Header.Lengths(varName)
	if len(dims) == 0 {
		return nil, fmt.Errorf("cellarea: preprocessor read netcdf: variable %v not in file", varName)
	}
	dims = dims[1:]
	nread := 1
	for _, dim := range dims {
		nread *= dim
	}
	start, end := make([]int, len(dims)+1), make([]int, len(dims)+1)
	start[0], end[0] = hour, hour+1
	r := ff.Reader(varName, start, end)
	buf := r.Zero(nread)
	_, err := r.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("cellarea: preprocessor read netcdf variable %s: %v", varName, err)
	}
	data := sparse.ZerosDense(dims...)
	for i, val := range buf.([]float32) {
		data.Elements[i] = float64(val)
	}
	return data, nil
}

// ncfFromTemplate opens a NetCDF file from the given template, where
// the [DATE] wildcard in the given fileTemplate is replaced by the given
// date, formatted as the given dateFormat.
func ncfFromTemplate(fileTemplate, dateFormat string, date time.Time) (*os.File, *cdf.File, error) {
	d := date.Format(dateFormat)
	file := strings.Replace(fileTemplate, "[DATE]", d, -1)
	f, err := os.Open(file)
	if err != nil {
		return nil, nil, err
	}
	ff, err := cdf.Open(f)
	if err != nil {
		return nil, nil, err
	}
	return f, ff, err
}
