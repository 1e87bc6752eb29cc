// Package config provides configuration loading and access for the sandbox.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all sandbox configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	World      WorldConfig      `yaml:"world"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Layers     []string         `yaml:"layers"`
	Perception PerceptionConfig `yaml:"perception"`
	Audio      AudioConfig      `yaml:"audio"`
	Target     TargetConfig     `yaml:"target"`
	Guards     []GuardConfig    `yaml:"guards"`
	Occluders  []OccluderConfig `yaml:"occluders"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds the ground plane extent in meters. X runs along Width,
// Z along Depth, Y is up.
type WorldConfig struct {
	Width float64 `yaml:"width"`
	Depth float64 `yaml:"depth"`
}

// PhysicsConfig holds simulation stepping parameters.
type PhysicsConfig struct {
	DT           float64 `yaml:"dt"`
	GridCellSize float64 `yaml:"grid_cell_size"`
}

// ConeConfig describes one vision cone.
type ConeConfig struct {
	Radius       float64 `yaml:"radius"`
	HalfAngleDeg float64 `yaml:"half_angle_deg"`
}

// PerceptionConfig holds the guard field-of-view thresholds shared by every
// guard.
type PerceptionConfig struct {
	SmallView      ConeConfig `yaml:"small_view"`       // narrow, long
	BigView        ConeConfig `yaml:"big_view"`         // wide, short
	SmallViewTimer float64    `yaml:"small_view_timer"` // seconds to confirm via small view
	BigViewTimer   float64    `yaml:"big_view_timer"`   // seconds to confirm via big view
	StopTime       float64    `yaml:"stop_time"`        // big view delay before escalating
	LosePlayerTime float64    `yaml:"lose_player_time"` // seconds unseen before losing track
	ViewHeight     float64    `yaml:"view_height"`      // eye height for occlusion traces

	TargetLayers   []string `yaml:"target_layers"`
	OccluderLayers []string `yaml:"occluder_layers"`
}

// AudioConfig holds voice cue timing.
type AudioConfig struct {
	IdleMin         float64 `yaml:"idle_min"`         // seconds
	IdleMax         float64 `yaml:"idle_max"`         // seconds
	AlertedCooldown float64 `yaml:"alerted_cooldown"` // seconds between "alerted" cues
}

// TargetConfig holds the wandering target's parameters.
type TargetConfig struct {
	Layer       string  `yaml:"layer"`
	StartX      float64 `yaml:"start_x"`
	StartZ      float64 `yaml:"start_z"`
	Height      float64 `yaml:"height"`       // Y of the target's tracked point
	Speed       float64 `yaml:"speed"`        // meters per second
	WanderScale float64 `yaml:"wander_scale"` // noise frequency of heading changes
	TurnRate    float64 `yaml:"turn_rate"`    // max heading change, degrees per second
}

// GuardConfig places one guard.
type GuardConfig struct {
	Name      string  `yaml:"name"`
	X         float64 `yaml:"x"`
	Z         float64 `yaml:"z"`
	Yaw       float64 `yaml:"yaw"`        // degrees, 0 faces +Z
	SweepArc  float64 `yaml:"sweep_arc"`  // degrees either side of Yaw
	SweepRate float64 `yaml:"sweep_rate"` // sweep cycles per second
}

// OccluderConfig is an axis-aligned box. X/Y/Z is the minimum corner.
type OccluderConfig struct {
	Layer string  `yaml:"layer"`
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Z     float64 `yaml:"z"`
	W     float64 `yaml:"w"` // extent along X
	H     float64 `yaml:"h"` // extent along Y
	D     float64 `yaml:"d"` // extent along Z
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32         float32           // Physics.DT as float32
	LayerIndex   map[string]uint32 // layer name -> bit index
	TargetMask   uint32            // bits of Perception.TargetLayers
	OccluderMask uint32            // bits of Perception.OccluderLayers
	PixelsPerM   float32           // screen scale fitting the world
}

// maxLayers is the number of bits in a layer mask.
const maxLayers = 32

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	var data []byte
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	return Parse(data)
}

// Parse overlays data (may be empty) on the embedded defaults, computes
// derived values and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if len(data) > 0 {
		// Only overwrites fields present in the overlay. Lists are replaced
		// wholesale.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	c.Derived.DT32 = float32(c.Physics.DT)

	if len(c.Layers) > maxLayers {
		return fmt.Errorf("%w: %d layers, at most %d", ErrInvalid, len(c.Layers), maxLayers)
	}
	c.Derived.LayerIndex = make(map[string]uint32, len(c.Layers))
	for i, name := range c.Layers {
		if _, dup := c.Derived.LayerIndex[name]; dup {
			return fmt.Errorf("%w: duplicate layer %q", ErrInvalid, name)
		}
		c.Derived.LayerIndex[name] = uint32(i)
	}

	var err error
	if c.Derived.TargetMask, err = c.Mask(c.Perception.TargetLayers...); err != nil {
		return err
	}
	if c.Derived.OccluderMask, err = c.Mask(c.Perception.OccluderLayers...); err != nil {
		return err
	}

	// Fit the world into the screen, leaving room for the HUD strip.
	if c.World.Width > 0 && c.World.Depth > 0 {
		sx := float64(c.Screen.Width) / c.World.Width
		sz := float64(c.Screen.Height-40) / c.World.Depth
		c.Derived.PixelsPerM = float32(min(sx, sz))
	}
	return nil
}

// Mask returns the layer bitmask for the given layer names.
func (c *Config) Mask(names ...string) (uint32, error) {
	var m uint32
	for _, name := range names {
		idx, ok := c.Derived.LayerIndex[name]
		if !ok {
			return 0, fmt.Errorf("%w: unknown layer %q", ErrInvalid, name)
		}
		m |= 1 << idx
	}
	return m, nil
}

// Validate checks the values the sandbox cannot run without. Perception
// thresholds are checked again by the perception package when guards are
// built.
func (c *Config) Validate() error {
	if !(c.Physics.DT > 0) {
		return fmt.Errorf("%w: physics.dt must be positive, got %v", ErrInvalid, c.Physics.DT)
	}
	if !(c.Physics.GridCellSize > 0) {
		return fmt.Errorf("%w: physics.grid_cell_size must be positive, got %v", ErrInvalid, c.Physics.GridCellSize)
	}
	if !(c.World.Width > 0) || !(c.World.Depth > 0) {
		return fmt.Errorf("%w: world size %vx%v", ErrInvalid, c.World.Width, c.World.Depth)
	}
	if c.Audio.IdleMin < 0 || c.Audio.IdleMax < c.Audio.IdleMin {
		return fmt.Errorf("%w: audio idle range [%v,%v]", ErrInvalid, c.Audio.IdleMin, c.Audio.IdleMax)
	}
	if _, err := c.Mask(c.Target.Layer); err != nil {
		return fmt.Errorf("target: %w", err)
	}
	for i, o := range c.Occluders {
		if _, err := c.Mask(o.Layer); err != nil {
			return fmt.Errorf("occluder %d: %w", i, err)
		}
		if !(o.W > 0) || !(o.H > 0) || !(o.D > 0) {
			return fmt.Errorf("%w: occluder %d has empty extent", ErrInvalid, i)
		}
	}
	seen := make(map[string]bool, len(c.Guards))
	for i, g := range c.Guards {
		if g.Name == "" {
			return fmt.Errorf("%w: guard %d has no name", ErrInvalid, i)
		}
		if seen[g.Name] {
			return fmt.Errorf("%w: duplicate guard %q", ErrInvalid, g.Name)
		}
		seen[g.Name] = true
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
