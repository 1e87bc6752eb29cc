package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/sentry/components"
)

// IndexSystem rebuilds the spatial grid from every entity that has a
// position and a layer.
type IndexSystem struct {
	filter *ecs.Filter2[components.Position, components.Layer]
	grid   *SpatialGrid
}

// NewIndexSystem creates an index system feeding grid.
func NewIndexSystem(w *ecs.World, grid *SpatialGrid) *IndexSystem {
	return &IndexSystem{
		filter: ecs.NewFilter2[components.Position, components.Layer](w),
		grid:   grid,
	}
}

// Update clears the grid and reinserts every indexed entity.
func (s *IndexSystem) Update() {
	s.grid.Clear()
	query := s.filter.Query()
	for query.Next() {
		pos, layer := query.Get()
		s.grid.Insert(query.Entity(), pos.Vec(), layer.Mask)
	}
}

// Grid returns the grid this system maintains.
func (s *IndexSystem) Grid() *SpatialGrid {
	return s.grid
}
