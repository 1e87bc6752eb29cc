package game

import (
	"fmt"
	"io"
)

// logWriter is the destination for log output.
var logWriter io.Writer

// SetLogWriter sets the log output destination.
func SetLogWriter(w io.Writer) {
	logWriter = w
}

// Logf writes a formatted log message.
func Logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if logWriter != nil {
		fmt.Fprintln(logWriter, msg)
	} else {
		fmt.Println(msg)
	}
}

// logWorldState logs the current guard states and target position.
func (g *Game) logWorldState() {
	target := g.posMap.Get(g.target)

	Logf("=== Tick %d (%.1fs) ===", g.tick, g.SimTime())
	Logf("Target: (%.1f, %.1f)", target.X, target.Z)
	for _, s := range g.Summary() {
		flags := ""
		if s.Alerted {
			flags += " ?"
		}
		if s.Seen {
			flags += " !"
		}
		Logf("  %-12s %-9s %-10s%s", s.Name, s.Mode, s.Alertness, flags)
	}
	Logf("")
}
