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
	"os"
	"sort"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// Dimension names for gridded variables, in storage order.
const (
	timeDim       = "Time"
	southNorthDim = "south_north_subgrid"
	westEastDim   = "west_east_subgrid"
)

// GridData holds gridded variables on a
// (Time, south-north, west-east) mesh.
type GridData struct {
	nt int // number of time steps
	ny int // number of grid cells in the south-north direction
	nx int // number of grid cells in the west-east direction

	// Data is a map of information about the gridded variables,
	// with the keys being the variable names.
	Data map[string]struct {
		Dims        []string           // netcdf dimensions for this variable
		Description string             // variable description
		Units       string             // variable units
		Data        *sparse.DenseArray // variable data
	}
}

// AddVariable adds data for a new variable to d.
func (d *GridData) AddVariable(name string, dims []string, description, units string, data *sparse.DenseArray) {
	if d.Data == nil {
		d.Data = make(map[string]struct {
			Dims        []string
			Description string
			Units       string
			Data        *sparse.DenseArray
		})
	}
	d.Data[name] = struct {
		Dims        []string           // netcdf dimensions for this variable
		Description string             // variable description
		Units       string             // variable units
		Data        *sparse.DenseArray // variable data
	}{
		Dims:        dims,
		Description: description,
		Units:       units,
		Data:        data,
	}
}

// LoadGridData loads gridded data from a netcdf file that was
// created by Write.
func LoadGridData(rw cdf.ReaderWriterAt) (*GridData, error) {
	f, err := cdf.Open(rw)
	if err != nil {
		return nil, fmt.Errorf("cellarea.LoadGridData: %v", err)
	}
	o := new(GridData)

	o.nt = int(f.Header.GetAttribute("", "nt").([]int32)[0])
	o.ny = int(f.Header.GetAttribute("", "ny").([]int32)[0])
	o.nx = int(f.Header.GetAttribute("", "nx").([]int32)[0])

	dataVersion := f.Header.GetAttribute("", "data_version").(string)

	if dataVersion != DataVersion {
		return nil, fmt.Errorf("cellarea.LoadGridData: data version %s is incompatible "+
			"with the required version %s", dataVersion, DataVersion)
	}

	od := make(map[string]struct {
		Dims        []string
		Description string
		Units       string
		Data        *sparse.DenseArray
	})
	for _, v := range f.Header.Variables() {
		d := struct {
			Dims        []string
			Description string
			Units       string
			Data        *sparse.DenseArray
		}{}
		d.Description = f.Header.GetAttribute(v, "description").(string)
		d.Units = f.Header.GetAttribute(v, "units").(string)
		dims := f.Header.Lengths(v)
		r := f.Reader(v, nil, nil)
		d.Data = sparse.ZerosDense(dims...)
		tmp := make([]float32, len(d.Data.Elements))
		_, err = r.Read(tmp)
		if err != nil {
			return nil, fmt.Errorf("cellarea.LoadGridData: %v", err)
		}
		d.Dims = f.Header.Dimensions(v)

		// Check that data matches dimensions.
		n := 1
		for _, v := range dims {
			n *= v
		}
		if len(tmp) != n {
			return nil, fmt.Errorf("cellarea.LoadGridData: dims are %d but "+
				"array length is %d", n, len(tmp))
		}

		for i, v := range tmp {
			d.Data.Elements[i] = float64(v)
		}
		od[v] = d
	}
	o.Data = od
	return o, nil
}

// Write writes d to netcdf file w.
func (d *GridData) Write(w *os.File) error {
	h := cdf.NewHeader(
		[]string{timeDim, southNorthDim, westEastDim},
		[]int{d.nt, d.ny, d.nx})
	h.AddAttribute("", "comment", "CellArea grid geometry data file")

	h.AddAttribute("", "nt", []int32{int32(d.nt)})
	h.AddAttribute("", "ny", []int32{int32(d.ny)})
	h.AddAttribute("", "nx", []int32{int32(d.nx)})

	h.AddAttribute("", "data_version", DataVersion)

	// Sort the names so they write in the same order every time.
	names := make([]string, 0, len(d.Data))
	for n := range d.Data {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, name := range names {
		dd := d.Data[name]
		h.AddVariable(name, dd.Dims, []float32{0})
		h.AddAttribute(name, "description", dd.Description)
		h.AddAttribute(name, "units", dd.Units)
	}
	h.Define()

	f, err := cdf.Create(w, h) // writes the header to w
	if err != nil {
		return err
	}

	for _, name := range names {
		dd := d.Data[name]
		if err = writeNCF(f, name, dd.Data); err != nil {
			return fmt.Errorf("cellarea: writing variable %s to netcdf file: %v", name, err)
		}
	}
	err = cdf.UpdateNumRecs(w)
	if err != nil {
		return err
	}
	return nil
}

func writeNCF(f *cdf.File, Var string, data *sparse.DenseArray) error {
	// Check that data matches dimensions.
	n := 1
	for _, v := range data.Shape {
		n *= v
	}
	if len(data.Elements) != n {
		return fmt.Errorf("dims are %d but array length is %d", n, len(data.Elements))
	}

	data32 := make([]float32, len(data.Elements))
	for i, e := range data.Elements {
		data32[i] = float32(e)
	}
	end := f.Header.Lengths(Var)
	start := make([]int, len(end))
	w := f.Writer(Var, start, end)
	_, err := w.Write(data32)
	if err != nil {
		return err
	}
	return nil
}
