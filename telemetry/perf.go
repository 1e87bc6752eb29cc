package telemetry

import (
	"log/slog"
	"time"
)

// Phase is one stage of the simulation step.
type Phase int

// Phases of the simulation step, in execution order.
const (
	PhaseWander Phase = iota
	PhaseIndex
	PhaseObserve
	PhaseApply
	PhaseBehavior
	PhaseAudio
	PhaseTelemetry
	numPhases
)

var phaseNames = [numPhases]string{
	"wander", "index", "observe", "apply", "behavior", "audio", "telemetry",
}

func (p Phase) String() string {
	if p < 0 || p >= numPhases {
		return "unknown"
	}
	return phaseNames[p]
}

// Phases lists every phase in execution order.
var Phases = []Phase{
	PhaseWander, PhaseIndex, PhaseObserve, PhaseApply,
	PhaseBehavior, PhaseAudio, PhaseTelemetry,
}

// PhaseTimes holds one duration per phase.
type PhaseTimes [numPhases]time.Duration

type tickSample struct {
	total  time.Duration
	phases PhaseTimes
}

// PerfCollector keeps step timings for the last windowSize ticks and counts
// probe work between Stats calls.
type PerfCollector struct {
	ring  []tickSample
	next  int
	count int

	cur        tickSample
	tickStart  time.Time
	phaseStart time.Time
	phase      Phase
	inPhase    bool

	ticks  int
	probes int
	traces int
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{ring: make([]tickSample, windowSize)}
}

// StartTick begins timing a simulation step.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.cur = tickSample{}
	p.inPhase = false
}

// StartPhase closes the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	p.phase = phase
	p.inPhase = true
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.inPhase {
		p.cur.phases[p.phase] += now.Sub(p.phaseStart)
	}
}

// EndTick closes the step and stores it in the window.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.inPhase = false
	p.cur.total = now.Sub(p.tickStart)

	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	if p.count < len(p.ring) {
		p.count++
	}
	p.ticks++
}

// RecordProbes adds cone probe and occlusion trace counts.
func (p *PerfCollector) RecordProbes(probes, traces int) {
	p.probes += probes
	p.traces += traces
}

// PerfStats summarizes step timing over the window and probe work since
// the previous Stats call.
type PerfStats struct {
	AvgTick        time.Duration
	MaxTick        time.Duration
	TicksPerSecond float64
	PhaseAvg       PhaseTimes

	Probes         int
	Traces         int
	ProbesPerTick  float64
	TracesPerProbe float64
}

// PhasePct returns phase's share of the average tick, in percent.
func (s PerfStats) PhasePct(phase Phase) float64 {
	if s.AvgTick <= 0 {
		return 0
	}
	return float64(s.PhaseAvg[phase]) / float64(s.AvgTick) * 100
}

// Stats aggregates the window and resets the probe counters.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{Probes: p.probes, Traces: p.traces}
	if p.ticks > 0 {
		s.ProbesPerTick = float64(p.probes) / float64(p.ticks)
	}
	if p.probes > 0 {
		s.TracesPerProbe = float64(p.traces) / float64(p.probes)
	}
	p.probes, p.traces, p.ticks = 0, 0, 0

	if p.count == 0 {
		return s
	}

	var total time.Duration
	var sums PhaseTimes
	for _, t := range p.ring[:p.count] {
		total += t.total
		s.MaxTick = max(s.MaxTick, t.total)
		for i, d := range t.phases {
			sums[i] += d
		}
	}

	n := time.Duration(p.count)
	s.AvgTick = total / n
	for i := range sums {
		s.PhaseAvg[i] = sums[i] / n
	}
	if s.AvgTick > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTick)
	}
	return s
}

// LogStats logs the window at Info.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTick.Microseconds(),
		"max_tick_us", s.MaxTick.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
		"probes_per_tick", s.ProbesPerTick,
		"traces_per_probe", s.TracesPerProbe,
	}
	for _, phase := range Phases {
		if pct := s.PhasePct(phase); pct > 0.1 {
			attrs = append(attrs, phase.String()+"_pct", int(pct*10)/10.0)
		}
	}
	slog.Info("perf", attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	RunID          string  `csv:"run_id"`
	WindowEnd      int32   `csv:"window_end"`
	AvgTickUS      int64   `csv:"avg_tick_us"`
	MaxTickUS      int64   `csv:"max_tick_us"`
	Probes         int     `csv:"probes"`
	Traces         int     `csv:"traces"`
	TracesPerProbe float64 `csv:"traces_per_probe"`
	WanderUS       int64   `csv:"wander_us"`
	IndexUS        int64   `csv:"index_us"`
	ObserveUS      int64   `csv:"observe_us"`
	ApplyUS        int64   `csv:"apply_us"`
	BehaviorUS     int64   `csv:"behavior_us"`
	AudioUS        int64   `csv:"audio_us"`
	TelemetryUS    int64   `csv:"telemetry_us"`
}

// ToCSV flattens s into a perf.csv row.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	us := func(p Phase) int64 { return s.PhaseAvg[p].Microseconds() }
	return PerfStatsCSV{
		WindowEnd:      windowEnd,
		AvgTickUS:      s.AvgTick.Microseconds(),
		MaxTickUS:      s.MaxTick.Microseconds(),
		Probes:         s.Probes,
		Traces:         s.Traces,
		TracesPerProbe: s.TracesPerProbe,
		WanderUS:       us(PhaseWander),
		IndexUS:        us(PhaseIndex),
		ObserveUS:      us(PhaseObserve),
		ApplyUS:        us(PhaseApply),
		BehaviorUS:     us(PhaseBehavior),
		AudioUS:        us(PhaseAudio),
		TelemetryUS:    us(PhaseTelemetry),
	}
}
