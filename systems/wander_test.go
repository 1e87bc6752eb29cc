package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sentry/components"
)

func TestWanderStaysInBoundsAndOutOfWalls(t *testing.T) {
	w := ecs.NewWorld()
	occ := NewOccluderIndex()
	wallMin := r3.Vec{X: 9, Y: 0, Z: 0}
	wallMax := r3.Vec{X: 11, Y: 3, Z: 20}
	if _, err := occ.Insert(newBlank(w), wallMin, wallMax, layerWall); err != nil {
		t.Fatal(err)
	}

	m := ecs.NewMap3[components.Position, components.Facing, components.Wanderer](w)
	e := m.NewEntity(
		&components.Position{X: 5, Y: 0.3, Z: 10},
		&components.Facing{Yaw: 90},
		&components.Wanderer{Speed: 4, TurnRate: 120},
	)
	posMap := ecs.NewMap1[components.Position](w)

	s := NewWanderSystem(w, 1, 0.35, 20, 20, occ, layerWall)
	start := *posMap.Get(e)
	moved := false
	for i := 0; i < 3000; i++ {
		s.Update(1.0 / 60)
		p := posMap.Get(e)
		if p.X < 0 || p.X > 20 || p.Z < 0 || p.Z > 20 {
			t.Fatalf("tick %d: left the world at %+v", i, *p)
		}
		if p.X > wallMin.X && p.X < wallMax.X {
			t.Fatalf("tick %d: walked into the wall at %+v", i, *p)
		}
		if *p != start {
			moved = true
		}
	}
	if !moved {
		t.Error("wanderer never moved")
	}
}
