package split

import (
	"log/slog"

	"github.com/poiesic/sandhi/core"
)

// Monitor provides hooks to observe split enumeration.
// Implement this interface to trace window probes and emitted candidates.
type Monitor interface {
	Start(input string, maxKeyLength int)
	Probe(position int, key string, matches int)
	Emit(candidate core.Candidate)
	Finish(count int)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ int)        {}
func (n *noopMonitor) Probe(_ int, _ string, _ int) {}
func (n *noopMonitor) Emit(_ core.Candidate)        {}
func (n *noopMonitor) Finish(_ int)                 {}

// LogMonitor returns a Monitor that writes every event to logger at debug level.
func LogMonitor(logger *slog.Logger) Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &logMonitor{logger: logger}
}

type logMonitor struct {
	logger *slog.Logger
}

func (m *logMonitor) Start(input string, maxKeyLength int) {
	m.logger.Debug("split start", "input", input, "maxKeyLength", maxKeyLength)
}

func (m *logMonitor) Probe(position int, key string, matches int) {
	if matches > 0 {
		m.logger.Debug("window matched", "position", position, "key", key, "matches", matches)
	}
}

func (m *logMonitor) Emit(candidate core.Candidate) {
	m.logger.Debug("candidate", "prefix", candidate.Prefix, "suffix", candidate.Suffix,
		"position", candidate.Position, "window", candidate.Window, "key", candidate.Key)
}

func (m *logMonitor) Finish(count int) {
	m.logger.Debug("split finished", "candidates", count)
}
