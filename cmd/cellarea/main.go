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

// Command cellarea is a command-line interface for computing the surface
// areas of the grid cells in WRF model output.
package main

import (
	"fmt"
	"os"

	"github.com/spatialmodel/cellarea/cellareautil"
)

func main() {
	if err := cellareautil.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
