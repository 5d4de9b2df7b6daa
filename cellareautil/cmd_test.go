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
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ctessum/sparse"
	"github.com/spatialmodel/cellarea"
)

func TestConfigDefaults(t *testing.T) {
	tests := []struct {
		name, want string
	}{
		{"WRFOut", "wrfout_d01_[DATE]"},
		{"LatVar", "XLAT"},
		{"LonVar", "XLONG"},
		{"RecordDelta", "1h"},
		{"FileDelta", "24h"},
		{"OutputFile", "cellarea.ncf"},
	}
	for _, test := range tests {
		if v := Cfg.GetString(test.name); v != test.want {
			t.Errorf("%s: have %q, want %q", test.name, v, test.want)
		}
	}
	if v := Cfg.GetFloat64("EarthRadius"); v != cellarea.EarthRadius {
		t.Errorf("EarthRadius: have %g, want %g", v, cellarea.EarthRadius)
	}
}

func TestCommands(t *testing.T) {
	want := map[string]bool{"version": false, "preproc": false, "info": false}
	for _, cmd := range Root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing command %s", name)
		}
	}
}

func TestPreprocMissingConfig(t *testing.T) {
	err := Preproc("wrfout_d01_[DATE]", "", "", "", "20060102", "1h", "24h", "out.ncf", cellarea.EarthRadius)
	if err == nil {
		t.Fatal("want error, got nil")
	}
	if !strings.Contains(err.Error(), "StartDate") {
		t.Errorf("error %q should name StartDate", err)
	}
}

// gridSource is a Preprocessor that replays fixed coordinate fields for a
// given number of time steps.
type gridSource struct {
	nt, ny, nx int
}

func (s *gridSource) Nx() (int, error) { return s.nx, nil }
func (s *gridSource) Ny() (int, error) { return s.ny, nil }

func (s *gridSource) coords(lonDir bool) cellarea.NextData {
	var t int
	return func() (*sparse.DenseArray, error) {
		if t == s.nt {
			return nil, io.EOF
		}
		t++
		d := sparse.ZerosDense(s.ny, s.nx)
		for j := 0; j < s.ny; j++ {
			for i := 0; i < s.nx; i++ {
				if lonDir {
					d.Set(-100+0.5*float64(i), j, i)
				} else {
					d.Set(30+0.5*float64(j), j, i)
				}
			}
		}
		return d, nil
	}
}

func (s *gridSource) Lat() cellarea.NextData { return s.coords(false) }
func (s *gridSource) Lon() cellarea.NextData { return s.coords(true) }

func TestPreprocInfo(t *testing.T) {
	dir := t.TempDir()

	// Build a wrfout-like file holding latitude and longitude fields with
	// two 12-hour records; Preproc then reads them back as the coordinate
	// variables.
	data, err := cellarea.Preprocess(&gridSource{nt: 2, ny: 3, nx: 4}, cellarea.EarthRadius)
	if err != nil {
		t.Fatal(err)
	}
	wrfFile := filepath.Join(dir, "wrfout_test.ncf")
	f, err := os.Create(wrfFile)
	if err != nil {
		t.Fatal(err)
	}
	if err := data.Write(f); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	outFile := filepath.Join(dir, "cellarea_test.ncf")
	err = Preproc(wrfFile, "latitude", "longitude", "20060101", "20060102", "12h", "24h", outFile, cellarea.EarthRadius)
	if err != nil {
		t.Fatal(err)
	}

	ff, err := os.Open(outFile)
	if err != nil {
		t.Fatal(err)
	}
	defer ff.Close()
	result, err := cellarea.LoadGridData(ff)
	if err != nil {
		t.Fatal(err)
	}
	a, ok := result.Data["cell_area"]
	if !ok {
		t.Fatal("output is missing variable cell_area")
	}
	for i, v := range a.Data.Elements {
		if v <= 0 {
			t.Errorf("element %d: nonpositive area %g", i, v)
		}
	}

	if err := Info(outFile); err != nil {
		t.Fatal(err)
	}
}
