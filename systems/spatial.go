// Package systems provides ECS systems for the sandbox.
package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sentry/perception"
)

// Neighbor holds a nearby entity with precomputed spatial data.
type Neighbor struct {
	E      ecs.Entity
	Pos    r3.Vec
	Mask   perception.LayerMask
	DistSq float64 // squared 3D distance from the query origin
}

type gridEntry struct {
	e    ecs.Entity
	pos  r3.Vec
	mask perception.LayerMask
}

// SpatialGrid buckets entities by their XZ position for radius queries.
// Entries carry a copy of position and layer so queries never touch the
// world, which lets guards probe concurrently between rebuilds.
type SpatialGrid struct {
	cellSize float64
	cols     int
	rows     int
	cells    [][]gridEntry
}

// NewSpatialGrid creates a spatial grid covering a width x depth ground
// plane.
func NewSpatialGrid(width, depth, cellSize float64) *SpatialGrid {
	cols := int(width/cellSize) + 1
	rows := int(depth/cellSize) + 1

	cells := make([][]gridEntry, cols*rows)
	for i := range cells {
		cells[i] = make([]gridEntry, 0, 4)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		cells:    cells,
	}
}

// Clear removes all entities from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds an entity to the grid. Positions outside the plane land in
// the nearest edge cell.
func (g *SpatialGrid) Insert(e ecs.Entity, pos r3.Vec, mask perception.LayerMask) {
	col, row := g.cell(pos.X, pos.Z)
	idx := row*g.cols + col
	g.cells[idx] = append(g.cells[idx], gridEntry{e: e, pos: pos, mask: mask})
}

// Len returns the number of entries in the grid.
func (g *SpatialGrid) Len() int {
	n := 0
	for _, c := range g.cells {
		n += len(c)
	}
	return n
}

// MaxQueryResults caps the number of neighbors returned by spatial queries.
const MaxQueryResults = 128

// QueryRadiusInto appends entities on any layer in mask within radius of
// center to dst (up to MaxQueryResults) and returns the updated slice.
// Reuse dst across calls to avoid allocations.
func (g *SpatialGrid) QueryRadiusInto(dst []Neighbor, center r3.Vec, radius float64, mask perception.LayerMask) []Neighbor {
	if !(radius >= 0) {
		return dst
	}
	minCol, minRow := g.cell(center.X-radius, center.Z-radius)
	maxCol, maxRow := g.cell(center.X+radius, center.Z+radius)
	radiusSq := radius * radius

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			for _, en := range g.cells[row*g.cols+col] {
				if en.mask&mask == 0 {
					continue
				}
				distSq := r3.Norm2(r3.Sub(en.pos, center))
				if distSq > radiusSq {
					continue
				}
				dst = append(dst, Neighbor{E: en.e, Pos: en.pos, Mask: en.mask, DistSq: distSq})
				if len(dst) >= MaxQueryResults {
					return dst
				}
			}
		}
	}
	return dst
}

// cell returns the clamped cell coordinates for a ground position.
// Clamping happens in float space so huge query extents cannot overflow
// the int conversion.
func (g *SpatialGrid) cell(x, z float64) (col, row int) {
	col = int(clampCell(x/g.cellSize, g.cols-1))
	row = int(clampCell(z/g.cellSize, g.rows-1))
	return col, row
}

func clampCell(v float64, hi int) float64 {
	if !(v > 0) {
		return 0
	}
	return math.Min(v, float64(hi))
}
