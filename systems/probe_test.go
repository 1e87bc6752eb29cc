package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sentry/perception"
)

var (
	narrowCone = perception.Cone{Radius: 18, HalfAngleDeg: 20}
	wideCone   = perception.Cone{Radius: 8, HalfAngleDeg: 65}
	guardPos   = r3.Vec{X: 5, Y: 0, Z: 20}
	facingX    = r3.Vec{X: 1}
)

type probeScene struct {
	w     *ecs.World
	grid  *SpatialGrid
	occ   *OccluderIndex
	probe *Probe
}

func newProbeScene(t *testing.T, target r3.Vec, boxes ...[2]r3.Vec) *probeScene {
	t.Helper()
	w := ecs.NewWorld()
	grid := NewSpatialGrid(40, 40, 4)
	occ := NewOccluderIndex()

	newEntity(w, target, layerPlayer)
	for _, b := range boxes {
		if _, err := occ.Insert(newBlank(w), b[0], b[1], layerWall); err != nil {
			t.Fatal(err)
		}
	}
	NewIndexSystem(w, grid).Update()

	return &probeScene{
		w:     w,
		grid:  grid,
		occ:   occ,
		probe: NewProbe(grid, occ, layerPlayer, layerWall|layerCrate, 1.67),
	}
}

func TestProbeConeVisibility(t *testing.T) {
	tests := []struct {
		name   string
		target r3.Vec
		boxes  [][2]r3.Vec
		cone   perception.Cone
		want   bool
	}{
		{
			name:   "clear line in narrow cone",
			target: r3.Vec{X: 15, Y: 0.3, Z: 20},
			cone:   narrowCone,
			want:   true,
		},
		{
			name:   "out of range",
			target: r3.Vec{X: 30, Y: 0.3, Z: 20},
			cone:   narrowCone,
			want:   false,
		},
		{
			name:   "outside narrow angle",
			target: r3.Vec{X: 9, Y: 0.3, Z: 24},
			cone:   narrowCone,
			want:   false,
		},
		{
			name:   "same point inside wide angle",
			target: r3.Vec{X: 9, Y: 0.3, Z: 24},
			cone:   wideCone,
			want:   true,
		},
		{
			name:   "behind the guard",
			target: r3.Vec{X: 1, Y: 0.3, Z: 20},
			cone:   wideCone,
			want:   false,
		},
		{
			name:   "tall wall blocks",
			target: r3.Vec{X: 15, Y: 0.3, Z: 20},
			boxes:  [][2]r3.Vec{{{X: 10, Z: 15}, {X: 11, Y: 3, Z: 25}}},
			cone:   narrowCone,
			want:   false,
		},
		{
			name:   "crate at knee height blocks the downward trace",
			target: r3.Vec{X: 15, Y: 0.3, Z: 20},
			boxes:  [][2]r3.Vec{{{X: 10, Z: 19}, {X: 11, Y: 1, Z: 21}}},
			cone:   narrowCone,
			want:   false,
		},
		{
			name:   "low box under the trace",
			target: r3.Vec{X: 15, Y: 0.3, Z: 20},
			boxes:  [][2]r3.Vec{{{X: 10, Z: 19}, {X: 11, Y: 0.5, Z: 21}}},
			cone:   narrowCone,
			want:   true,
		},
		{
			name:   "radius far beyond the world",
			target: r3.Vec{X: 30, Y: 0.3, Z: 20},
			cone:   perception.Cone{Radius: 1e30, HalfAngleDeg: 20},
			want:   true,
		},
		{
			name:   "degenerate cone",
			target: r3.Vec{X: 15, Y: 0.3, Z: 20},
			cone:   perception.Cone{Radius: 18},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newProbeScene(t, tt.target, tt.boxes...)
			if got := s.probe.ProbeCone(guardPos, facingX, tt.cone); got != tt.want {
				t.Errorf("ProbeCone = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProbeSkipsOccludedCandidate(t *testing.T) {
	w := ecs.NewWorld()
	grid := NewSpatialGrid(40, 40, 4)
	occ := NewOccluderIndex()

	// Both candidates share a grid row; the hidden one sits in the lower
	// column and is traced first.
	newEntity(w, r3.Vec{X: 9, Y: 0.3, Z: 20}, layerPlayer)
	newEntity(w, r3.Vec{X: 15, Y: 0.3, Z: 23.5}, layerPlayer)
	if _, err := occ.Insert(newBlank(w), r3.Vec{X: 7, Z: 19.5}, r3.Vec{X: 7.5, Y: 3, Z: 20.5}, layerWall); err != nil {
		t.Fatal(err)
	}
	NewIndexSystem(w, grid).Update()

	p := NewProbe(grid, occ, layerPlayer, layerWall, 1.67)
	cone := perception.Cone{Radius: 18, HalfAngleDeg: 40}
	if !p.ProbeCone(guardPos, facingX, cone) {
		t.Fatal("second candidate is in clear view and should be seen")
	}
	if st := p.Stats(); st.Candidates != 2 || st.Traces != 2 {
		t.Errorf("stats = %+v, want 2 candidates and 2 traces", st)
	}
}

func TestProbeOnlySeesTargetLayers(t *testing.T) {
	w := ecs.NewWorld()
	grid := NewSpatialGrid(40, 40, 4)
	newEntity(w, r3.Vec{X: 15, Y: 0.3, Z: 20}, layerCrate)
	NewIndexSystem(w, grid).Update()

	p := NewProbe(grid, NewOccluderIndex(), layerPlayer, layerWall, 1.67)
	if p.ProbeCone(guardPos, facingX, narrowCone) {
		t.Error("entity on a non-target layer should not be seen")
	}
}

func TestProbeStatsAndFork(t *testing.T) {
	s := newProbeScene(t, r3.Vec{X: 15, Y: 0.3, Z: 20})

	s.probe.ProbeCone(guardPos, facingX, narrowCone)
	s.probe.ProbeCone(guardPos, r3.Vec{X: -1}, narrowCone)

	st := s.probe.Stats()
	if st.Probes != 2 || st.Candidates != 2 || st.Traces != 1 {
		t.Errorf("stats = %+v, want 2 probes, 2 candidates, 1 trace", st)
	}
	if again := s.probe.Stats(); again != (ProbeStats{}) {
		t.Errorf("Stats should reset counters, got %+v", again)
	}

	fork := s.probe.Fork()
	if !fork.ProbeCone(guardPos, facingX, narrowCone) {
		t.Error("fork should see the same scene")
	}
	if s.probe.Stats().Probes != 0 {
		t.Error("fork should keep its own counters")
	}
}

func TestProbeAsPerceptionProber(t *testing.T) {
	s := newProbeScene(t, r3.Vec{X: 15, Y: 0.3, Z: 20})

	cfg := perception.Config{
		SmallView:      narrowCone,
		BigView:        wideCone,
		SmallViewTimer: 0.1,
		BigViewTimer:   1,
		StopTime:       1,
		LosePlayerTime: 1,
		ViewHeight:     1.67,
	}
	c, err := perception.NewController(cfg, s.probe, perception.Discard)
	if err != nil {
		t.Fatal(err)
	}

	pose := perception.Pose{Position: guardPos, Forward: facingX}
	for i := 0; i < 3; i++ {
		if _, err := c.Tick(pose, 0.05); err != nil {
			t.Fatal(err)
		}
	}
	if c.Mode() != perception.Tracking {
		t.Errorf("mode = %v, want tracking", c.Mode())
	}
}
