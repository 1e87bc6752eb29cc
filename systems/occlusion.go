package systems

import (
	"fmt"
	"math"

	"github.com/dhconnelly/rtreego"
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sentry/perception"
)

// boundsPad keeps R-tree rectangles non-degenerate for axis-aligned traces.
const boundsPad = 1e-6

// Occluder is an axis-aligned box that can block line of sight.
type Occluder struct {
	E        ecs.Entity
	Min, Max r3.Vec
	Mask     perception.LayerMask

	rect rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (o *Occluder) Bounds() rtreego.Rect {
	return o.rect
}

// OccluderIndex is a 3D R-tree of static occluders.
type OccluderIndex struct {
	tree    *rtreego.Rtree
	scratch []rtreego.Spatial
}

// NewOccluderIndex creates an empty index.
func NewOccluderIndex() *OccluderIndex {
	return &OccluderIndex{tree: rtreego.NewTree(3, 2, 8)}
}

// Insert adds a box spanning min..max on the given layers.
func (x *OccluderIndex) Insert(e ecs.Entity, min, max r3.Vec, mask perception.LayerMask) (*Occluder, error) {
	rect, err := boundsRect(min, max)
	if err != nil {
		return nil, fmt.Errorf("occluder %v: %w", e, err)
	}
	o := &Occluder{E: e, Min: min, Max: max, Mask: mask, rect: rect}
	x.tree.Insert(o)
	return o, nil
}

// Len returns the number of indexed occluders.
func (x *OccluderIndex) Len() int {
	return x.tree.Size()
}

// Blocked reports whether any occluder on a layer in mask intersects the
// segment from..to. Not safe for concurrent use; see View.
func (x *OccluderIndex) Blocked(from, to r3.Vec, mask perception.LayerMask) bool {
	var blocked bool
	x.scratch, blocked = x.blocked(x.scratch[:0], from, to, mask)
	return blocked
}

// View returns a handle sharing the tree with its own query scratch.
// Views may be used concurrently as long as nothing is inserted.
func (x *OccluderIndex) View() *OccluderIndex {
	return &OccluderIndex{tree: x.tree}
}

func (x *OccluderIndex) blocked(dst []rtreego.Spatial, from, to r3.Vec, mask perception.LayerMask) ([]rtreego.Spatial, bool) {
	if mask == 0 || x.tree.Size() == 0 {
		return dst, false
	}
	bb, err := boundsRect(
		r3.Vec{X: math.Min(from.X, to.X), Y: math.Min(from.Y, to.Y), Z: math.Min(from.Z, to.Z)},
		r3.Vec{X: math.Max(from.X, to.X), Y: math.Max(from.Y, to.Y), Z: math.Max(from.Z, to.Z)},
	)
	if err != nil {
		return dst, false
	}
	dst = append(dst, x.tree.SearchIntersect(bb)...)
	for _, s := range dst {
		o := s.(*Occluder)
		if o.Mask&mask == 0 {
			continue
		}
		if SegmentIntersectsBox(from, to, o.Min, o.Max) {
			return dst, true
		}
	}
	return dst, false
}

// SegmentIntersectsBox reports whether the segment a..b touches the box
// min..max, using the slab method.
func SegmentIntersectsBox(a, b, min, max r3.Vec) bool {
	d := r3.Sub(b, a)
	t0, t1 := 0.0, 1.0

	axes := [3][4]float64{
		{a.X, d.X, min.X, max.X},
		{a.Y, d.Y, min.Y, max.Y},
		{a.Z, d.Z, min.Z, max.Z},
	}
	for _, ax := range axes {
		origin, dir, lo, hi := ax[0], ax[1], ax[2], ax[3]
		if math.Abs(dir) < 1e-12 {
			// Parallel to the slab
			if origin < lo || origin > hi {
				return false
			}
			continue
		}
		inv := 1 / dir
		near := (lo - origin) * inv
		far := (hi - origin) * inv
		if near > far {
			near, far = far, near
		}
		t0 = math.Max(t0, near)
		t1 = math.Min(t1, far)
		if t0 > t1 {
			return false
		}
	}
	return true
}

func boundsRect(min, max r3.Vec) (rtreego.Rect, error) {
	return rtreego.NewRect(
		rtreego.Point{min.X - boundsPad, min.Y - boundsPad, min.Z - boundsPad},
		[]float64{max.X - min.X + 2*boundsPad, max.Y - min.Y + 2*boundsPad, max.Z - min.Z + 2*boundsPad},
	)
}
