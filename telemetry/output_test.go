package telemetry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/google/go-cmp/cmp"

	"github.com/pthm-cable/sentry/config"
	"github.com/pthm-cable/sentry/perception"
)

func TestNewOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}
	// A nil manager is a no-op.
	if err := om.WriteEvents([]Event{{Tick: 1}}); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
	if om.RunID() != "" || om.Dir() != "" {
		t.Error("nil manager should report no run ID or dir")
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	if om.RunID() == "" {
		t.Fatal("run ID not assigned")
	}

	first := []Event{
		NewNotificationEvent(3, 0.05, 1, "north", perception.Notification{Kind: perception.AlertStarted}),
	}
	second := []Event{
		NewNotificationEvent(90, 1.5, 1, "north", perception.Notification{Kind: perception.TargetLost, WasFound: true}),
		NewCueEvent(90, 1.5, 1, "north", "aware"),
	}
	if err := om.WriteEvents(first); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteEvents(second); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteTelemetry(WindowStats{WindowEndTick: 600, Found: 2}); err != nil {
		t.Fatal(err)
	}
	if err := om.WritePerf(PerfStats{Probes: 5}, 600); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	var got []Event
	readCSV(t, filepath.Join(dir, "events.csv"), &got)

	want := append(append([]Event{}, first...), second...)
	for i := range want {
		want[i].RunID = om.RunID()
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events.csv mismatch (-want +got):\n%s", diff)
	}

	var windows []WindowStats
	readCSV(t, filepath.Join(dir, "telemetry.csv"), &windows)
	if len(windows) != 1 || windows[0].Found != 2 || windows[0].RunID != om.RunID() {
		t.Errorf("telemetry.csv = %+v", windows)
	}

	var perf []PerfStatsCSV
	readCSV(t, filepath.Join(dir, "perf.csv"), &perf)
	if len(perf) != 1 || perf[0].Probes != 5 || perf[0].WindowEnd != 600 {
		t.Errorf("perf.csv = %+v", perf)
	}

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config snapshot missing: %v", err)
	}
}

func readCSV(t *testing.T, path string, out any) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := gocsv.UnmarshalFile(f, out); err != nil {
		t.Fatalf("reading %s: %v", filepath.Base(path), err)
	}
}
