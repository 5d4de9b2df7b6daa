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
	"math"
	"testing"

	"github.com/ctessum/sparse"
)

// testGrid returns 1×ny×nx coordinate fields where latitude increases by
// dlat degrees per south-north step and longitude increases by dlon degrees
// per west-east step, starting at (lat0, lon0).
func testGrid(ny, nx int, lat0, lon0, dlat, dlon float64) (lat, lon *sparse.DenseArray) {
	lat = sparse.ZerosDense(1, ny, nx)
	lon = sparse.ZerosDense(1, ny, nx)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			lat.Set(lat0+dlat*float64(j), 0, j, i)
			lon.Set(lon0+dlon*float64(i), 0, j, i)
		}
	}
	return lat, lon
}

func TestCellArea(t *testing.T) {
	const tolerance = 1.0e-10

	lat, lon := testGrid(3, 3, 0, 0, 1, 1)
	area := CellArea(lat, lon, EarthRadius)

	d := deg2rad(1)
	// Center latitudes for each south-north index: the two-point mean of
	// each row latitude and its northern neighbor, with the last row
	// duplicating the previous row's value.
	centers := []float64{0.5, 1.5, 1.5}
	for j := 0; j < 3; j++ {
		want := EarthRadius * EarthRadius * d * d * math.Cos(deg2rad(centers[j]))
		for i := 0; i < 3; i++ {
			have := area.Get(0, j, i)
			if different(have, want, tolerance) {
				t.Errorf("area (0, %d, %d): have %g, want %g", j, i, have, want)
			}
		}
	}

	// Sanity check against the magnitude expected for 1°×1° cells near
	// the equator.
	if a := area.Get(0, 1, 1); a < 12000 || a > 12500 {
		t.Errorf("interior cell area %g out of expected range", a)
	}
}

func TestCellAreaShape(t *testing.T) {
	const (
		nt = 2
		ny = 4
		nx = 5
	)
	lat := sparse.ZerosDense(nt, ny, nx)
	lon := sparse.ZerosDense(nt, ny, nx)
	for k := 0; k < nt; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				lat.Set(30+0.5*float64(j)+0.1*float64(k), k, j, i)
				lon.Set(-100+0.5*float64(i), k, j, i)
			}
		}
	}
	area := CellArea(lat, lon, EarthRadius)
	for i, n := range []int{nt, ny, nx} {
		if area.Shape[i] != n {
			t.Errorf("shape dimension %d: have %d, want %d", i, area.Shape[i], n)
		}
	}
	for i, v := range area.Elements {
		if v <= 0 || math.IsNaN(v) {
			t.Errorf("element %d: nonpositive area %g", i, v)
		}
	}
}

func TestCellAreaRScaling(t *testing.T) {
	const tolerance = 1.0e-12

	lat, lon := testGrid(3, 4, 40, -90, 0.5, 0.75)
	area1 := CellArea(lat, lon, EarthRadius)
	area2 := CellArea(lat, lon, 2*EarthRadius)
	for i, v := range area1.Elements {
		if different(area2.Elements[i], 4*v, tolerance) {
			t.Errorf("element %d: doubling R gives %g, want %g", i, area2.Elements[i], 4*v)
		}
	}
}

func TestCellAreaEdgeDuplication(t *testing.T) {
	const tolerance = 1.0e-12

	// Non-uniform spacing so that duplicated edge deltas are
	// distinguishable from one-sided differences.
	lat := sparse.ZerosDense(1, 4, 3)
	lon := sparse.ZerosDense(1, 4, 3)
	latVals := []float64{0, 1, 3, 6}
	lonVals := []float64{0, 2, 5}
	for j := 0; j < 4; j++ {
		for i := 0; i < 3; i++ {
			lat.Set(latVals[j], 0, j, i)
			lon.Set(lonVals[i], 0, j, i)
		}
	}
	area := CellArea(lat, lon, EarthRadius)

	// The last row duplicates the previous row's latitude spacing and
	// center latitude, so the two rows must match exactly.
	for i := 0; i < 3; i++ {
		if different(area.Get(0, 3, i), area.Get(0, 2, i), tolerance) {
			t.Errorf("column %d: last row %g != second-to-last row %g",
				i, area.Get(0, 3, i), area.Get(0, 2, i))
		}
	}
	// The last column duplicates the previous column's longitude spacing.
	for j := 0; j < 4; j++ {
		if different(area.Get(0, j, 2), area.Get(0, j, 1), tolerance) {
			t.Errorf("row %d: last column %g != second-to-last column %g",
				j, area.Get(0, j, 2), area.Get(0, j, 1))
		}
	}
}

func TestCellAreaInputsUnchanged(t *testing.T) {
	lat, lon := testGrid(3, 3, 10, 20, 1, 1)
	latCopy := lat.Copy()
	lonCopy := lon.Copy()
	CellArea(lat, lon, EarthRadius)
	for i := range lat.Elements {
		if lat.Elements[i] != latCopy.Elements[i] {
			t.Fatalf("latitude element %d was modified", i)
		}
		if lon.Elements[i] != lonCopy.Elements[i] {
			t.Fatalf("longitude element %d was modified", i)
		}
	}
}

// different returns whether a and b are different from each other beyond
// the given relative tolerance.
func different(a, b, tolerance float64) bool {
	if a == b {
		return false
	}
	return math.Abs(a-b) > tolerance*math.Max(math.Abs(a), math.Abs(b))
}
