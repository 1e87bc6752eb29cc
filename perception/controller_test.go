package perception

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/spatial/r3"
)

// scriptedProber answers from a per-cone script and records every probe.
type scriptedProber struct {
	hits  map[Cone]bool
	calls []Cone
}

func (p *scriptedProber) ProbeCone(_, _ r3.Vec, cone Cone) bool {
	p.calls = append(p.calls, cone)
	return p.hits[cone]
}

type recorder struct {
	got []Notification
}

func (r *recorder) Notify(n Notification) { r.got = append(r.got, n) }

func TestNewControllerRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.SmallViewTimer = -1
	_, err := NewController(cfg, nil, nil)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestTickMissingCollaborator(t *testing.T) {
	cfg := testConfig()
	prober := ProberFunc(func(_, _ r3.Vec, _ Cone) bool { return true })

	tests := []struct {
		name   string
		prober Prober
		sink   Sink
	}{
		{"no prober", nil, Discard},
		{"no sink", prober, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewController(cfg, tt.prober, tt.sink)
			if err != nil {
				t.Fatalf("NewController: %v", err)
			}
			_, err = c.Tick(Pose{Forward: r3.Vec{Z: 1}}, 0.1)
			if !errors.Is(err, ErrMissingCollaborator) {
				t.Fatalf("err = %v, want ErrMissingCollaborator", err)
			}
			// A refused tick must not advance any timer.
			if diff := cmp.Diff(NewState(&cfg), c.State()); diff != "" {
				t.Errorf("state changed on refused tick (-want +got):\n%s", diff)
			}
		})
	}
}

func TestObserveApplyMissingCollaborator(t *testing.T) {
	cfg := testConfig()
	prober := ProberFunc(func(_, _ r3.Vec, _ Cone) bool { return true })

	tests := []struct {
		name   string
		prober Prober
		sink   Sink
	}{
		{"no prober", nil, Discard},
		{"no sink", prober, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewController(cfg, tt.prober, tt.sink)
			if err != nil {
				t.Fatalf("NewController: %v", err)
			}
			obs := c.Observe(Pose{Forward: r3.Vec{Z: 1}})
			if tt.prober == nil && obs.Any() {
				t.Errorf("Observe without a prober = %+v, want no hits", obs)
			}
			ns, err := c.Apply(Observation{Narrow: true}, 0.1)
			if !errors.Is(err, ErrMissingCollaborator) {
				t.Fatalf("Apply err = %v, want ErrMissingCollaborator", err)
			}
			if len(ns) != 0 {
				t.Errorf("Apply returned %v on a refused tick", ns)
			}
			if diff := cmp.Diff(NewState(&cfg), c.State()); diff != "" {
				t.Errorf("state changed on refused apply (-want +got):\n%s", diff)
			}
			if c.LastObservation().Any() {
				t.Error("refused apply recorded the observation")
			}
		})
	}
}

func TestTickNarrowShortCircuitsWide(t *testing.T) {
	cfg := testConfig()
	p := &scriptedProber{hits: map[Cone]bool{cfg.SmallView: true, cfg.BigView: true}}
	c, err := NewController(cfg, p, Discard)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := c.Tick(Pose{Forward: r3.Vec{Z: 1}}, 0.1); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]Cone{cfg.SmallView}, p.calls); diff != "" {
		t.Errorf("probe calls (-want +got):\n%s", diff)
	}
	if obs := c.LastObservation(); !obs.Narrow || obs.Wide {
		t.Errorf("observation = %+v, want narrow only", obs)
	}

	p.calls = nil
	p.hits[cfg.SmallView] = false
	if _, err := c.Tick(Pose{Forward: r3.Vec{Z: 1}}, 0.1); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]Cone{cfg.SmallView, cfg.BigView}, p.calls); diff != "" {
		t.Errorf("probe calls (-want +got):\n%s", diff)
	}
}

func TestTickDeliversToSink(t *testing.T) {
	cfg := testConfig()
	cfg.SmallViewTimer = 0.2
	cfg.LosePlayerTime = 0.2

	visible := true
	prober := ProberFunc(func(_, _ r3.Vec, cone Cone) bool {
		return visible && cone == cfg.SmallView
	})
	rec := &recorder{}
	c, err := NewController(cfg, prober, rec)
	if err != nil {
		t.Fatal(err)
	}

	pose := Pose{Position: r3.Vec{X: 1, Z: 1}, Forward: r3.Vec{Z: 1}}
	for i := 0; i < 2; i++ {
		if _, err := c.Tick(pose, 0.1); err != nil {
			t.Fatal(err)
		}
	}
	if !c.VisualSeenActive() || c.Mode() != Tracking {
		t.Fatalf("expected tracking after 0.2s of narrow hits, got %+v", c.State())
	}

	visible = false
	for i := 0; i < 2; i++ {
		if _, err := c.Tick(pose, 0.1); err != nil {
			t.Fatal(err)
		}
	}

	want := []Notification{
		{Kind: AlertStarted},
		{Kind: TargetFound},
		{Kind: TargetLost, WasFound: true},
	}
	if diff := cmp.Diff(want, rec.got); diff != "" {
		t.Errorf("sink mismatch (-want +got):\n%s", diff)
	}
	if c.VisualSeenActive() || c.VisualAlertActive() {
		t.Errorf("presentation flags should be clear, got %+v", c.State())
	}
}

func TestFanout(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	f := Fanout{a, nil, b}
	f.Notify(Notification{Kind: Escalated})

	if len(a.got) != 1 || len(b.got) != 1 {
		t.Errorf("fanout delivered %d and %d, want 1 and 1", len(a.got), len(b.got))
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"zero radius allowed", func(c *Config) { c.BigView.Radius = 0 }, false},
		{"negative radius", func(c *Config) { c.SmallView.Radius = -1 }, true},
		{"angle above 180", func(c *Config) { c.BigView.HalfAngleDeg = 181 }, true},
		{"negative stop time", func(c *Config) { c.StopTime = -0.1 }, true},
		{"nan lose time", func(c *Config) { c.LosePlayerTime = math.NaN() }, true},
		{"infinite view height", func(c *Config) { c.ViewHeight = math.Inf(1) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("error %v does not wrap ErrInvalidConfig", err)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	n := Notification{Kind: TargetLost, WasFound: true}
	if got := n.String(); got != "target_lost(was_found=true)" {
		t.Errorf("String() = %q", got)
	}
	if got := Tracking.String(); got != "tracking" {
		t.Errorf("Tracking.String() = %q", got)
	}
}
