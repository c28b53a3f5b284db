package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		level   string
		format  Format
		wantErr bool
	}{
		{"info", FormatJSON, false},
		{"DEBUG", FormatConsole, false},
		{"warn", FormatAuto, false},
		{"error", "", false},
		{"loud", FormatJSON, true},
		{"info", "xml", true},
	}
	for _, tt := range tests {
		t.Run(tt.level+"/"+string(tt.format), func(t *testing.T) {
			logger, err := New(tt.level, tt.format)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if logger == nil {
				t.Fatal("nil logger")
			}
		})
	}
}

func TestNewLevel(t *testing.T) {
	logger, err := New("warn", FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	if logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug should be disabled at warn")
	}
	if !logger.Core().Enabled(zapcore.WarnLevel) {
		t.Error("warn should be enabled")
	}
}
