package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger(t *testing.T) {
	buffer, cleanup := CaptureLog(t, LogLevelInfo)
	defer cleanup()

	Debug("This should not appear")
	Info("This should appear")
	Warn("This warning should appear")
	Error("This error should appear")

	logs := buffer.String()
	assert.NotContains(t, logs, "This should not appear")
	assert.Contains(t, logs, "[INFO] This should appear")
	assert.Contains(t, logs, "[WARN] This warning should appear")
	assert.Contains(t, logs, "[ERROR] This error should appear")
}

func TestQuietTest(t *testing.T) {
	buffer, cleanup := CaptureLog(t, LogLevelDebug)
	defer cleanup()
	restore := QuietTest(t)
	Error("hidden")
	restore()
	assert.Empty(t, buffer.String())
	assert.Equal(t, LogLevelDebug, GetLogLevel())
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
		hasError bool
	}{
		{"DEBUG", LogLevelDebug, false},
		{"debug", LogLevelDebug, false},
		{"INFO", LogLevelInfo, false},
		{"WARN", LogLevelWarn, false},
		{"WARNING", LogLevelWarn, false},
		{"ERROR", LogLevelError, false},
		{" error ", LogLevelError, false},
		{"OFF", LogLevelOff, false},
		{"NONE", LogLevelOff, false},
		{"INVALID", LogLevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := ParseLogLevel(tt.input)
			if tt.hasError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestInterpretLogsRuntimeErrors(t *testing.T) {
	buffer, cleanup := CaptureLog(t, LogLevelError)
	defer cleanup()
	in := NewInterpreter(nil)
	_, err := in.Interpret(mustParse(t, "nope();"))
	assert.Error(t, err)
	assert.Contains(t, buffer.String(), "Undefined variable 'nope'.")
}
