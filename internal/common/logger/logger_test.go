package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_LevelParsing(t *testing.T) {
	tests := []struct {
		level    string
		enabled  zapcore.Level
		disabled zapcore.Level
	}{
		{"debug", zapcore.DebugLevel, zapcore.DebugLevel - 1},
		{"warn", zapcore.WarnLevel, zapcore.InfoLevel},
		{"error", zapcore.ErrorLevel, zapcore.WarnLevel},
		{"nonsense", zapcore.InfoLevel, zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			l := New(tt.level, "json")
			assert.True(t, l.Core().Enabled(tt.enabled))
			assert.False(t, l.Core().Enabled(tt.disabled))
		})
	}
}

func TestZapAdapter_Fields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core)).WithFields(map[string]interface{}{"taskType": "calculate-staff-score"})

	log.Info("score calculated", map[string]interface{}{
		"staffId": "staff-1",
		"score":   7.2,
	})
	log.WithError(errors.New("boom")).Error("job failed", map[string]interface{}{
		"cause": errors.New("zero weight"),
	})

	entries := logs.All()
	assert.Len(t, entries, 2)

	first := entries[0].ContextMap()
	assert.Equal(t, "calculate-staff-score", first["taskType"])
	assert.Equal(t, "staff-1", first["staffId"])
	assert.Equal(t, 7.2, first["score"])

	second := entries[1].ContextMap()
	assert.Equal(t, "boom", second["error"])
	assert.Equal(t, "zero weight", second["cause"])
}

func TestNoOpAndTestLoggers(t *testing.T) {
	NewNoOpLogger().Info("ignored", nil)
	NewTestLogger(t).Debug("visible in -v", map[string]interface{}{"k": "v"})
}
