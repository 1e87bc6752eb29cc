package systems

import (
	"github.com/mlange-42/ark/ecs"
	"github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sentry/components"
	"github.com/pthm-cable/sentry/perception"
)

// WanderSystem moves wanderers along a noise-driven heading, turning away
// from the world edge and from solid occluders.
type WanderSystem struct {
	filter *ecs.Filter3[components.Position, components.Facing, components.Wanderer]
	noise  opensimplex.Noise
	scale  float64

	width, depth float64
	occluders    *OccluderIndex
	solid        perception.LayerMask
}

// NewWanderSystem creates a wander system. scale is the noise frequency of
// heading changes; solid is the set of occluder layers wanderers cannot
// walk through.
func NewWanderSystem(w *ecs.World, seed int64, scale, width, depth float64, occluders *OccluderIndex, solid perception.LayerMask) *WanderSystem {
	return &WanderSystem{
		filter:    ecs.NewFilter3[components.Position, components.Facing, components.Wanderer](w),
		noise:     opensimplex.New(seed),
		scale:     scale,
		width:     width,
		depth:     depth,
		occluders: occluders,
		solid:     solid,
	}
}

// Update advances every wanderer by dt seconds.
func (s *WanderSystem) Update(dt float64) {
	query := s.filter.Query()
	for query.Next() {
		e := query.Entity()
		pos, facing, w := query.Get()

		w.Clock += dt
		turn := s.noise.Eval2(w.Clock*s.scale, float64(e.ID()))
		facing.Yaw = WrapDeg(facing.Yaw + turn*w.TurnRate*dt)

		step := r3.Scale(w.Speed*dt, facing.Forward())
		from := pos.Vec()
		to := r3.Add(from, step)

		switch {
		case to.X < 0 || to.X > s.width:
			facing.Yaw = WrapDeg(-facing.Yaw)
		case to.Z < 0 || to.Z > s.depth:
			facing.Yaw = WrapDeg(180 - facing.Yaw)
		case s.occluders != nil && s.occluders.Blocked(from, to, s.solid):
			facing.Yaw = WrapDeg(facing.Yaw + 135)
		default:
			pos.X, pos.Z = to.X, to.Z
			continue
		}
		pos.X = clampFloat(pos.X, 0, s.width)
		pos.Z = clampFloat(pos.Z, 0, s.depth)
	}
}
