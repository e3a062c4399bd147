package logger

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestNewWithWriterLevels(t *testing.T) {
	tests := []struct {
		level string
		want  log.Level
	}{
		{"debug", log.DebugLevel},
		{"warn", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"chatty", log.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			l := NewWithWriter(&bytes.Buffer{}, tt.level)
			assert.Equal(t, tt.want, l.GetLevel())
		})
	}
}

func TestLoggerWritesKeyValues(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "info")
	l.Debug("hidden")
	l.Info("round over", "game", "g1", "seat", "B")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "round over")
	assert.Contains(t, out, "g1")
}
