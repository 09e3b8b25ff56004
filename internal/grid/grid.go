package grid

import (
	"fmt"
	"math"
)

// Cell is a candidate turbine site
type Cell struct {
	ID        int     // 1..N, contiguous
	X, Y      float64 // centroid
	Roughness float64 // surface roughness length z0 in metres
	Elevation float64
}

// Index holds the immutable cell set of one run
type Index struct {
	cells    []Cell
	cellSize float64
	cols     int
	rows     int
}

// NewRectangular tessellates a width x height area into square cells of
// cellSize. Only whole cells are kept; ids run row-major from the origin.
func NewRectangular(width, height, cellSize, roughness, elevation float64) (*Index, error) {
	if cellSize <= 0 {
		return nil, fmt.Errorf("cell size must be positive, got %v", cellSize)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("area must be positive, got %vx%v", width, height)
	}

	cols := int(math.Floor(width/cellSize + 1e-9))
	rows := int(math.Floor(height/cellSize + 1e-9))
	if cols == 0 || rows == 0 {
		return nil, fmt.Errorf("area %vx%v holds no cell of size %v", width, height, cellSize)
	}

	g := &Index{
		cells:    make([]Cell, 0, cols*rows),
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
	}
	half := cellSize / 2
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			g.cells = append(g.cells, Cell{
				ID:        len(g.cells) + 1,
				X:         float64(c)*cellSize + half,
				Y:         float64(r)*cellSize + half,
				Roughness: roughness,
				Elevation: elevation,
			})
		}
	}
	return g, nil
}

// FromCells wraps an externally built cell set. Ids must be 1..len(cells) in order.
func FromCells(cells []Cell, cellSize float64) (*Index, error) {
	if len(cells) == 0 {
		return nil, fmt.Errorf("grid has no cells")
	}
	for i, c := range cells {
		if c.ID != i+1 {
			return nil, fmt.Errorf("cell %d has id %d, ids must be contiguous from 1", i, c.ID)
		}
	}
	out := make([]Cell, len(cells))
	copy(out, cells)
	return &Index{cells: out, cellSize: cellSize}, nil
}

// Len returns the number of cells (nGrids)
func (g *Index) Len() int {
	return len(g.cells)
}

// Cell returns the cell with the given 1-based id
func (g *Index) Cell(id int) (Cell, bool) {
	if id < 1 || id > len(g.cells) {
		return Cell{}, false
	}
	return g.cells[id-1], true
}

// At returns the cell at 0-based layout index i
func (g *Index) At(i int) Cell {
	return g.cells[i]
}

// CellSize returns the cell edge length
func (g *Index) CellSize() float64 {
	return g.cellSize
}

// Dims returns columns and rows for rectangular grids, zeros otherwise
func (g *Index) Dims() (int, int) {
	return g.cols, g.rows
}
