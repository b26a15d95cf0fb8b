package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"
)

func newBufferLogger(level zerolog.Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewWithWriter(&buf, level), &buf
}

func TestNew_Modes(t *testing.T) {
	for _, env := range []string{"development", "production", "test"} {
		logger := New(env)
		if logger == nil {
			t.Fatalf("Expected logger to be created for %s", env)
		}
		if logger.GetZerolog() == nil {
			t.Errorf("Expected zerolog instance to be available for %s", env)
		}
	}
}

func TestResolveLevel(t *testing.T) {
	tests := []struct {
		name  string
		env   string
		level string
		want  zerolog.Level
	}{
		{"development default", "development", "", zerolog.DebugLevel},
		{"production default", "production", "", zerolog.InfoLevel},
		{"explicit level wins", "development", "warn", zerolog.WarnLevel},
		{"unknown level falls back", "production", "chatty", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveLevel(tt.env, tt.level); got != tt.want {
				t.Errorf("resolveLevel(%q, %q) = %v, want %v", tt.env, tt.level, got, tt.want)
			}
		})
	}
}

func TestLevels(t *testing.T) {
	logger, buf := newBufferLogger(zerolog.DebugLevel)

	logger.Debug("debug message", map[string]interface{}{"key1": "value1"})
	logger.Info("info message", map[string]interface{}{"lease_id": 42})
	logger.Warn("warning message", map[string]interface{}{"share": "overflow"})
	logger.Error("error occurred", errors.New("test error"), map[string]interface{}{"context": "store"})

	output := buf.String()
	for _, want := range []string{"debug message", "value1", "info message", "42", "warning message", "overflow", "error occurred", "test error", "store"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected log output to contain %q", want)
		}
	}
}

func TestWith(t *testing.T) {
	logger, buf := newBufferLogger(zerolog.InfoLevel)

	logger.With(map[string]interface{}{"version": "1.0"}).WithComponent("amendment").Info("test message", nil)

	output := buf.String()
	if !strings.Contains(output, "amendment") {
		t.Error("Expected log output to contain component field")
	}
	if !strings.Contains(output, "1.0") {
		t.Error("Expected log output to contain version field from context")
	}
}

func TestWithRequestID(t *testing.T) {
	logger, buf := newBufferLogger(zerolog.InfoLevel)

	logger.WithRequestID("req-12345").Info("request received", nil)

	output := buf.String()
	if !strings.Contains(output, "req-12345") {
		t.Error("Expected log output to contain request ID")
	}
	if !strings.Contains(output, "request_id") {
		t.Error("Expected log output to have request_id field")
	}
}

func TestLogLevels_Production(t *testing.T) {
	logger, buf := newBufferLogger(zerolog.InfoLevel)

	logger.Debug("debug message", nil)
	debugOutput := buf.String()
	buf.Reset()
	logger.Info("info message", nil)
	infoOutput := buf.String()

	if strings.Contains(debugOutput, "debug message") {
		t.Error("Debug message should not appear at info level")
	}
	if !strings.Contains(infoOutput, "info message") {
		t.Error("Info message should appear at info level")
	}
}

func TestJSONOutput(t *testing.T) {
	logger, buf := newBufferLogger(zerolog.InfoLevel)

	logger.Info("test json", map[string]interface{}{"key": "value"})

	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Expected valid JSON output, got error: %v", err)
	}
	if logEntry["message"] != "test json" {
		t.Error("Expected JSON to contain message field")
	}
}

func TestGormLogger_Trace(t *testing.T) {
	t.Run("failed statement logged as error", func(t *testing.T) {
		logger, buf := newBufferLogger(zerolog.DebugLevel)
		g := logger.Gorm(gormlogger.Warn)

		g.Trace(context.Background(), time.Now(), func() (string, int64) { return "UPDATE payments SET amount = 1", 0 }, errors.New("boom"))

		output := buf.String()
		if !strings.Contains(output, "Query failed") || !strings.Contains(output, "boom") {
			t.Errorf("Expected failed query entry, got %s", output)
		}
		if !strings.Contains(output, `"component":"store"`) {
			t.Error("Expected store component tag")
		}
	})

	t.Run("record not found is not an error", func(t *testing.T) {
		logger, buf := newBufferLogger(zerolog.DebugLevel)
		g := logger.Gorm(gormlogger.Warn)

		g.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 0 }, gormlogger.ErrRecordNotFound)

		if strings.Contains(buf.String(), "Query failed") {
			t.Error("Expected record not found to be ignored")
		}
	})

	t.Run("statements traced only at info", func(t *testing.T) {
		logger, buf := newBufferLogger(zerolog.DebugLevel)

		logger.Gorm(gormlogger.Warn).Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 1 }, nil)
		if buf.Len() != 0 {
			t.Errorf("Expected no output at warn level, got %s", buf.String())
		}

		logger.Gorm(gormlogger.Warn).LogMode(gormlogger.Info).Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 1 }, nil)
		if !strings.Contains(buf.String(), "Query executed") {
			t.Error("Expected statement trace at info level")
		}
	})

	t.Run("silent logs nothing", func(t *testing.T) {
		logger, buf := newBufferLogger(zerolog.DebugLevel)

		logger.Gorm(gormlogger.Silent).Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 1 }, errors.New("boom"))
		if buf.Len() != 0 {
			t.Errorf("Expected no output, got %s", buf.String())
		}
	})
}
