package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"", zapcore.InfoLevel},
		{"info", zapcore.InfoLevel},
		{"debug", zapcore.DebugLevel},
		{"warn", zapcore.WarnLevel},
	}

	for _, tc := range tests {
		log, err := New(tc.level)
		if err != nil {
			t.Errorf("New(%q) failed: %v", tc.level, err)
			continue
		}
		if !log.Core().Enabled(tc.want) {
			t.Errorf("New(%q): level %s not enabled", tc.level, tc.want)
		}
		if tc.want > zapcore.DebugLevel && log.Core().Enabled(tc.want-1) {
			t.Errorf("New(%q): level %s unexpectedly enabled", tc.level, tc.want-1)
		}
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := New("loud"); err == nil {
		t.Error("Expected error for unknown level")
	}
}
