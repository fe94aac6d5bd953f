// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync/atomic"
)

// Level is a minimal leveled-logging gate layered on top of the stdlib
// log.Logger the teacher repo uses directly (cmd/qrank-builder/main.go,
// cmd/tilerank-builder/main.go). The teacher never needed levels because
// its tools are one-shot batch jobs with a single log stream; little-a-map
// adds -v/LITTLE_A_MAP_LOG on top, so this one file is hand-rolled instead
// of reaching for a logging library (see DESIGN.md).
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return LevelError, true
	case "warn", "warning":
		return LevelWarn, true
	case "info":
		return LevelInfo, true
	case "debug":
		return LevelDebug, true
	default:
		return LevelInfo, false
	}
}

// Logger wraps a *log.Logger with a level gate. It also tallies warning and
// error calls regardless of whether the gate actually printed them, so the
// soft-error counts exposed via stats.go's Prometheus gauges (spec §7) don't
// depend on -v/LITTLE_A_MAP_LOG verbosity.
type Logger struct {
	out        *log.Logger
	level      Level
	warnCount  int64
	errorCount int64
}

func NewLogger(out *log.Logger, level Level) *Logger {
	return &Logger{out: out, level: level}
}

func (l *Logger) logf(level Level, prefix, format string, args ...interface{}) {
	if l == nil {
		return
	}
	switch level {
	case LevelError:
		atomic.AddInt64(&l.errorCount, 1)
	case LevelWarn:
		atomic.AddInt64(&l.warnCount, 1)
	}
	if l.out == nil || level > l.level {
		return
	}
	l.out.Output(3, fmt.Sprintf(prefix+" "+format, args...))
}

func (l *Logger) Errorf(format string, args ...interface{}) { l.logf(LevelError, "ERROR", format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.logf(LevelWarn, "WARN", format, args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.logf(LevelInfo, "INFO", format, args...) }
func (l *Logger) Debugf(format string, args ...interface{}) { l.logf(LevelDebug, "DEBUG", format, args...) }

// WarnCount and ErrorCount report the total number of Warnf/Errorf calls
// made through this logger, independent of the verbosity gate.
func (l *Logger) WarnCount() int64  { return atomic.LoadInt64(&l.warnCount) }
func (l *Logger) ErrorCount() int64 { return atomic.LoadInt64(&l.errorCount) }

// createLogFile mirrors the teacher's createLogFile (cmd/tilerank-builder/main.go):
// append to a persistent log under the output directory rather than truncating it.
func createLogFile(outputDir string) (*os.File, error) {
	logDir := outputDir + string(os.PathSeparator) + "logs"
	if err := os.MkdirAll(logDir, os.ModePerm); err != nil {
		return nil, err
	}
	path := logDir + string(os.PathSeparator) + "little-a-map.log"
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}
