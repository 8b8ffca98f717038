// Copyright (c) 2026 The Pond developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log is a thin wrapper around log/slog providing a process-wide root
// logger with per-package context.
package log

import (
	"io"
	"log/slog"
	"os"
	"sync/atomic"
)

// Logger is the logging handle handed out to packages.
type Logger = *slog.Logger

var (
	root  atomic.Pointer[slog.Logger]
	level = new(slog.LevelVar)
)

func init() {
	level.Set(slog.LevelInfo)
	root.Store(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// WithContext returns a logger carrying the given key/value context,
// typically ("pkg", "<name>").
func WithContext(kv ...any) Logger {
	return root.Load().With(kv...)
}

// Init replaces the root handler. Loggers created by WithContext after this
// call write to w; json selects machine-readable output.
func Init(w io.Writer, lvl slog.Level, json bool) {
	level.Set(lvl)
	var h slog.Handler
	if json {
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	} else {
		h = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	}
	root.Store(slog.New(h))
}

// SetLevel adjusts the verbosity of the root handler.
func SetLevel(lvl slog.Level) {
	level.Set(lvl)
}

// FromVerbosity maps a 0-9 CLI verbosity value onto a slog level, in the
// legacy log15 ordering (higher is chattier).
func FromVerbosity(v uint64) slog.Level {
	switch {
	case v <= 1:
		return slog.LevelError
	case v == 2:
		return slog.LevelWarn
	case v == 3:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}
