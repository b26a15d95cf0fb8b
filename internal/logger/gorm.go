package logger

import (
	"context"
	"errors"
	"fmt"
	"time"

	gormlogger "gorm.io/gorm/logger"
)

// SlowQueryThreshold is the duration above which a statement is logged at warn level.
const SlowQueryThreshold = 200 * time.Millisecond

// GormLogger adapts Logger to gorm's logger.Interface so SQL traces share the
// application's structured output.
type GormLogger struct {
	log   *Logger
	level gormlogger.LogLevel
}

// Gorm returns a gorm logger backed by l. Statements are traced only at Info level;
// errors and slow queries are reported at Warn and above.
func (l *Logger) Gorm(level gormlogger.LogLevel) *GormLogger {
	return &GormLogger{log: l.WithComponent("store"), level: level}
}

// LogMode implements gormlogger.Interface.
func (g *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	return &GormLogger{log: g.log, level: level}
}

// Info implements gormlogger.Interface.
func (g *GormLogger) Info(_ context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Info {
		g.log.Info(fmt.Sprintf(msg, args...), nil)
	}
}

// Warn implements gormlogger.Interface.
func (g *GormLogger) Warn(_ context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Warn {
		g.log.Warn(fmt.Sprintf(msg, args...), nil)
	}
}

// Error implements gormlogger.Interface.
func (g *GormLogger) Error(_ context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Error {
		g.log.Error(fmt.Sprintf(msg, args...), nil, nil)
	}
}

// Trace implements gormlogger.Interface.
func (g *GormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	fields := map[string]interface{}{
		"sql":         sql,
		"rows":        rows,
		"duration_ms": elapsed.Milliseconds(),
	}

	switch {
	case err != nil && g.level >= gormlogger.Error && !errors.Is(err, gormlogger.ErrRecordNotFound):
		g.log.Error("Query failed", err, fields)
	case elapsed > SlowQueryThreshold && g.level >= gormlogger.Warn:
		g.log.Warn("Slow query", fields)
	case g.level >= gormlogger.Info:
		g.log.Debug("Query executed", fields)
	}
}
