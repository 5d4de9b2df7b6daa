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
	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
	"github.com/ctessum/sparse"
)

// GridCell is one cell of a latitude/longitude mesh at a single time step.
// The embedded geometry is a quadrilateral in longitude/latitude
// coordinates with the cell's grid point at its southwest corner.
type GridCell struct {
	geom.Polygonal
	Row, Col int     // south-north and west-east grid indexes
	Area     float64 // approximate surface area [km²]
}

// CellGeometry creates the cell polygons for time step t of the given
// coordinate fields, where lat and lon are grid point coordinates in degrees
// on a (Time, south-north, west-east) grid and area is the output of
// CellArea for the same fields. Cell edge lengths follow the same
// forward-difference rule as the area computation, so the cells in the last
// row and column reuse the previous row's and column's spacing.
func CellGeometry(lat, lon, area *sparse.DenseArray, t int) []*GridCell {
	ny, nx := lat.Shape[1], lat.Shape[2]
	cells := make([]*GridCell, 0, ny*nx)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			var dlat float64
			if j < ny-1 {
				dlat = lat.Get(t, j+1, i) - lat.Get(t, j, i)
			} else {
				dlat = lat.Get(t, j, i) - lat.Get(t, j-1, i)
			}
			var dlon float64
			if i < nx-1 {
				dlon = lon.Get(t, j, i+1) - lon.Get(t, j, i)
			} else {
				dlon = lon.Get(t, j, i) - lon.Get(t, j, i-1)
			}
			x := lon.Get(t, j, i)
			y := lat.Get(t, j, i)
			cells = append(cells, &GridCell{
				Polygonal: geom.Polygon{{
					geom.Point{X: x, Y: y},
					geom.Point{X: x + dlon, Y: y},
					geom.Point{X: x + dlon, Y: y + dlat},
					geom.Point{X: x, Y: y + dlat},
				}},
				Row:  j,
				Col:  i,
				Area: area.Get(t, j, i),
			})
		}
	}
	return cells
}

// CellIndex is a spatial index of the grid cells for one time step.
type CellIndex struct {
	tree *rtree.Rtree
}

// NewCellIndex creates a spatial index from the given cells.
func NewCellIndex(cells []*GridCell) *CellIndex {
	ci := &CellIndex{tree: rtree.NewTree(25, 50)}
	for _, c := range cells {
		ci.tree.Insert(c)
	}
	return ci
}

// Find returns the grid cell containing point p (in longitude/latitude
// coordinates), or nil if no cell contains it. If p lies on a shared cell
// edge, which of the adjoining cells is returned is unspecified.
func (ci *CellIndex) Find(p geom.Point) *GridCell {
	for _, cI := range ci.tree.SearchIntersect(p.Bounds()) {
		c := cI.(*GridCell)
		if in := p.Within(c.Polygonal); in == geom.Inside || in == geom.OnEdge {
			return c
		}
	}
	return nil
}
