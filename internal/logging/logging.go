// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging provides the structured file logger for quizbot.
//
// A TUI owns the terminal, so nothing may log to stdout or stderr while
// the interface is running. All diagnostics go to ~/.quizbot/quizbot.log
// as structured JSON via zap. Packages that want a logger receive one by
// injection; L() exists for the entry points.
package logging

import (
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	global *zap.Logger
	once   sync.Once
)

// L returns the process-wide logger, initializing it on first use. When
// the log file cannot be opened the logger is a nop; diagnostics are not
// worth crashing or corrupting the TUI over.
func L() *zap.Logger {
	once.Do(func() {
		global = newFileLogger(defaultLogPath(), os.Getenv("QUIZBOT_DEBUG") != "")
	})
	return global
}

// Nop replaces the global logger with a nop logger. Tests use this to
// keep temp-dir state out of the user's home directory.
func Nop() {
	once.Do(func() {})
	global = zap.NewNop()
}

// newFileLogger builds a JSON logger writing to path.
func newFileLogger(path string, debug bool) *zap.Logger {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zap.NewNop()
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return zap.NewNop()
	}

	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.Lock(f),
		level,
	)
	return zap.New(core)
}

// defaultLogPath returns ~/.quizbot/quizbot.log.
func defaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "quizbot.log"
	}
	return filepath.Join(home, ".quizbot", "quizbot.log")
}
