package perception

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestHorizontalAngleDeg(t *testing.T) {
	tests := []struct {
		name   string
		a, b   r3.Vec
		want   float64
		wantOK bool
	}{
		{"same direction", r3.Vec{Z: 1}, r3.Vec{Z: 5}, 0, true},
		{"right angle", r3.Vec{Z: 1}, r3.Vec{X: 2}, 90, true},
		{"opposite", r3.Vec{Z: 1}, r3.Vec{Z: -1}, 180, true},
		{"ignores height", r3.Vec{Z: 1}, r3.Vec{Y: 10, Z: 1}, 0, true},
		{"forty five", r3.Vec{Z: 1}, r3.Vec{X: 1, Z: 1}, 45, true},
		{"zero forward", r3.Vec{}, r3.Vec{Z: 1}, 0, false},
		{"vertical target", r3.Vec{Z: 1}, r3.Vec{Y: 3}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := HorizontalAngleDeg(tt.a, tt.b)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("angle = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConeContains(t *testing.T) {
	origin := r3.Vec{X: 10, Z: 10}
	forward := r3.Vec{Z: 1}
	cone := Cone{Radius: 10, HalfAngleDeg: 30}

	tests := []struct {
		name  string
		point r3.Vec
		want  bool
	}{
		{"straight ahead", r3.Vec{X: 10, Z: 15}, true},
		{"at radius", r3.Vec{X: 10, Z: 20}, true},
		{"past radius", r3.Vec{X: 10, Z: 20.01}, false},
		{"inside angle", r3.Vec{X: 12, Z: 18}, true},
		{"outside angle", r3.Vec{X: 16, Z: 14}, false},
		{"behind", r3.Vec{X: 10, Z: 5}, false},
		{"at origin", origin, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cone.Contains(origin, forward, tt.point); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.point, got, tt.want)
			}
		})
	}
}

func TestConeAngleIsStrict(t *testing.T) {
	origin := r3.Vec{}
	forward := r3.Vec{Z: 1}
	point := r3.Vec{X: 1, Z: 2}

	edge, ok := HorizontalAngleDeg(forward, point)
	if !ok {
		t.Fatal("angle should be defined")
	}
	if (Cone{Radius: 10, HalfAngleDeg: edge}).InAngle(origin, forward, point) {
		t.Error("point on the cone edge should be outside")
	}
	if !(Cone{Radius: 10, HalfAngleDeg: edge + 1e-6}).InAngle(origin, forward, point) {
		t.Error("point just inside the cone edge should be inside")
	}
}

func TestDegenerateCones(t *testing.T) {
	origin := r3.Vec{}
	forward := r3.Vec{Z: 1}
	ahead := r3.Vec{Z: 1}

	tests := []struct {
		name string
		cone Cone
	}{
		{"zero radius", Cone{Radius: 0, HalfAngleDeg: 45}},
		{"zero angle", Cone{Radius: 10, HalfAngleDeg: 0}},
		{"negative radius", Cone{Radius: -1, HalfAngleDeg: 45}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.cone.Degenerate() {
				t.Error("cone should be degenerate")
			}
			if tt.cone.Contains(origin, forward, ahead) {
				t.Error("degenerate cone should not contain anything")
			}
		})
	}

	if (Cone{Radius: 10, HalfAngleDeg: 45}).Contains(origin, r3.Vec{}, ahead) {
		t.Error("zero forward vector should not detect")
	}
}

func TestConeEdges(t *testing.T) {
	left, right := ConeEdges(r3.Vec{Z: 2}, Cone{Radius: 5, HalfAngleDeg: 90})

	if math.Abs(r3.Norm(left)-5) > 1e-9 || math.Abs(r3.Norm(right)-5) > 1e-9 {
		t.Errorf("edge lengths = %v, %v, want 5", r3.Norm(left), r3.Norm(right))
	}
	if math.Abs(left.Z) > 1e-9 || math.Abs(right.Z) > 1e-9 {
		t.Errorf("90 degree edges should be perpendicular to forward: %v %v", left, right)
	}
	if math.Abs(left.X+right.X) > 1e-9 {
		t.Errorf("edges should mirror each other: %v %v", left, right)
	}

	l, r := ConeEdges(r3.Vec{Y: 1}, Cone{Radius: 5, HalfAngleDeg: 30})
	if l != (r3.Vec{}) || r != (r3.Vec{}) {
		t.Errorf("vertical forward should give zero edges, got %v %v", l, r)
	}
}

func TestForwardFromYaw(t *testing.T) {
	tests := []struct {
		yaw  float64
		want r3.Vec
	}{
		{0, r3.Vec{Z: 1}},
		{90, r3.Vec{X: 1}},
		{180, r3.Vec{Z: -1}},
		{-90, r3.Vec{X: -1}},
	}
	for _, tt := range tests {
		got := ForwardFromYaw(tt.yaw)
		if r3.Norm(r3.Sub(got, tt.want)) > 1e-9 {
			t.Errorf("ForwardFromYaw(%v) = %v, want %v", tt.yaw, got, tt.want)
		}
	}
}
