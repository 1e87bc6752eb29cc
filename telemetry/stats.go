package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated perception statistics for a time window.
type WindowStats struct {
	RunID           string  `csv:"run_id"`
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Guard states at window end
	Guards   int `csv:"guards"`
	Tracking int `csv:"tracking"`
	Alerted  int `csv:"alerted"` // searching with a partial detection

	// Notifications during window
	AlertsStarted  int `csv:"alerts_started"`
	Escalations    int `csv:"escalations"`
	Found          int `csv:"found"`
	LostAfterFind  int `csv:"lost_after_find"`
	LostBeforeFind int `csv:"lost_before_find"`
	Cues           int `csv:"cues"`

	// Seconds from the start of a detection run to TargetFound
	DetectMean float64 `csv:"detect_mean"`
	DetectP50  float64 `csv:"detect_p50"`
	DetectP90  float64 `csv:"detect_p90"`

	// Seconds spent tracking before losing the target
	TrackMean float64 `csv:"track_mean"`
	TrackStd  float64 `csv:"track_std"`
}

// ComputeLatencyStats returns the mean, median and 90th percentile of
// values. All are zero for an empty slice.
func ComputeLatencyStats(values []float64) (mean, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean = stat.Mean(sorted, nil)
	p50 = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.9, stat.Empirical, sorted, nil)
	return mean, p50, p90
}

// ComputeSpread returns the mean and standard deviation of values. The
// deviation is zero with fewer than two samples.
func ComputeSpread(values []float64) (mean, std float64) {
	switch len(values) {
	case 0:
		return 0, 0
	case 1:
		return values[0], 0
	}
	return stat.MeanStdDev(values, nil)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("tracking", s.Tracking),
		slog.Int("alerted", s.Alerted),
		slog.Int("alerts_started", s.AlertsStarted),
		slog.Int("escalations", s.Escalations),
		slog.Int("found", s.Found),
		slog.Int("lost_after_find", s.LostAfterFind),
		slog.Int("lost_before_find", s.LostBeforeFind),
		slog.Float64("detect_p50", s.DetectP50),
	)
}

// LogStats logs the window at Info.
func (s WindowStats) LogStats() {
	slog.Info("telemetry", "stats", s)
}
