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

// Package cellarea computes the approximate surface area of the cells in a
// time-varying latitude/longitude mesh, such as the subgrid coordinate
// fields in WRF model output, using a spherical Mercator-like approximation.
package cellarea

import (
	"math"

	"github.com/ctessum/sparse"
)

// Version gives the version number.
const Version = "1.1.0"

// DataVersion gives the version of the output data format
// associated with this version of the software.
const DataVersion = "1.1.0"

// EarthRadius is the default radius of the Earth [km] used in the
// area approximation.
const EarthRadius = 6371.0

// CellArea calculates the approximate surface area [km²] of each cell in a
// latitude/longitude mesh, where lat and lon are grid point coordinates in
// degrees on a grid with axis 0 = Time, axis 1 = south-north, and
// axis 2 = west-east, and R is the radius of the Earth [km].
//
// Cell spacing is taken as the forward difference of lat along the
// south-north axis and of lon along the west-east axis; the last index along
// each differenced axis reuses the previous index's difference rather than
// computing a one-sided difference. The cosine scaling factor for zonal
// distance uses the latitude at cell centers, approximated by the two-point
// mean of each grid point latitude and its northern neighbor; the last
// south-north index reuses the center latitude of the previous index.
//
// The result for each cell is R² Δφ Δλ cos(φc), with Δφ, Δλ, and φc in
// radians. Longitudes that wrap around the ±180° seam and cells at the poles
// are not treated specially, so areas there are degenerate.
//
// The two input arrays must have the same shape, with at least two entries
// along each spatial axis; no validation is performed, and violations
// surface as panics or garbage results from the underlying array indexing.
// The inputs are not modified.
func CellArea(lat, lon *sparse.DenseArray, R float64) *sparse.DenseArray {
	area := sparse.ZerosDense(lat.Shape...)
	nt, ny, nx := lat.Shape[0], lat.Shape[1], lat.Shape[2]
	for t := 0; t < nt; t++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				var dlat, latc float64
				if j < ny-1 {
					dlat = lat.Get(t, j+1, i) - lat.Get(t, j, i)
					latc = (lat.Get(t, j, i) + lat.Get(t, j+1, i)) / 2
				} else { // duplicate the last interior spacing and center.
					dlat = lat.Get(t, j, i) - lat.Get(t, j-1, i)
					latc = (lat.Get(t, j-1, i) + lat.Get(t, j, i)) / 2
				}
				var dlon float64
				if i < nx-1 {
					dlon = lon.Get(t, j, i+1) - lon.Get(t, j, i)
				} else {
					dlon = lon.Get(t, j, i) - lon.Get(t, j, i-1)
				}
				a := R * R * deg2rad(dlat) * deg2rad(dlon) *
					math.Cos(deg2rad(latc))
				area.Set(a, t, j, i)
			}
		}
	}
	return area
}

// deg2rad converts an angle from degrees to radians.
func deg2rad(d float64) float64 {
	return d * math.Pi / 180
}
