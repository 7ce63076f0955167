package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level   string
		enabled zapcore.Level
		wantErr bool
	}{
		{"", zapcore.InfoLevel, false},
		{"debug", zapcore.DebugLevel, false},
		{"warn", zapcore.WarnLevel, false},
		{"loud", zapcore.InfoLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			l, err := New(tt.level)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error for unknown level")
				}
				return
			}
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			if !l.Core().Enabled(tt.enabled) {
				t.Errorf("Expected %s to be enabled", tt.enabled)
			}
			if l.Core().Enabled(tt.enabled - 1) {
				t.Errorf("Expected %s to be disabled", tt.enabled-1)
			}
		})
	}
}

func TestNamed_NilBase(t *testing.T) {
	if Named(nil, "svc") == nil {
		t.Fatal("Expected a no-op logger")
	}
}
