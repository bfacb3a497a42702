package importer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressTracker_Basic(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 100, 10)

	tracker.Start()
	tracker.Add(25)
	tracker.Add(25)
	tracker.Add(50)

	assert.Equal(t, 100, tracker.Written())
	output := buf.String()
	assert.Contains(t, output, "100/100")
	assert.Contains(t, output, "100.0%")
}

func TestProgressTracker_ReportInterval(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 1000, 100)

	tracker.Start()
	tracker.Add(50)
	assert.Empty(t, buf.String(), "should not report before the interval")

	tracker.Add(50)
	assert.Contains(t, buf.String(), "100/1000")
}

func TestProgressTracker_ClampsToTotal(t *testing.T) {
	tracker := NewProgressTracker(nil, 10, 1)

	tracker.Start()
	tracker.Add(25)
	assert.Equal(t, 10, tracker.Written())
}

func TestProgressTracker_Finish(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 100, 1000)

	tracker.Start()
	tracker.Add(30)
	tracker.Finish()

	output := buf.String()
	assert.Contains(t, output, "100/100")
	assert.True(t, strings.HasSuffix(output, "\n"), "should end with newline")
}

func TestProgressTracker_NotStarted(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 100, 10)

	tracker.Add(50)
	tracker.Finish()

	assert.Empty(t, buf.String())
	assert.Zero(t, tracker.Elapsed())
}

func TestProgressTracker_EmptyTotal(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 0, 10)

	tracker.Start()
	tracker.Finish()
	assert.Contains(t, buf.String(), "0/0 rules (100.0%)")
}
