// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfxcore

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// useLogger installs a text logger at level for the duration of the test.
func useLogger(t *testing.T, level slog.Level) *bytes.Buffer {
	t.Helper()
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: level})))
	return &buf
}

func TestDefaultLoggerDiscards(t *testing.T) {
	ctx := context.Background()
	loggers := map[string]*slog.Logger{
		"default":    Logger(),
		"with attrs": Logger().With("component", "queue"),
		"with group": Logger().WithGroup("device"),
	}
	for name, l := range loggers {
		for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
			if l.Enabled(ctx, level) {
				t.Errorf("%s logger enabled at %v, want disabled", name, level)
			}
		}
		if _, ok := l.Handler().(nopHandler); !ok {
			t.Errorf("%s logger handler = %T, want nopHandler", name, l.Handler())
		}
	}
	if err := (nopHandler{}).Handle(ctx, slog.Record{}); err != nil {
		t.Errorf("nopHandler.Handle() = %v, want nil", err)
	}
}

func TestSetLoggerLevels(t *testing.T) {
	tests := []struct {
		name  string
		level slog.Level
		emit  func(l *slog.Logger)
		want  string
		drop  bool
	}{
		{
			name:  "submission diagnostics",
			level: slog.LevelDebug,
			emit:  func(l *slog.Logger) { l.Debug("gfxcore queue: resources deleted", "count", 3) },
			want:  "count=3",
		},
		{
			name:  "device lifecycle",
			level: slog.LevelInfo,
			emit:  func(l *slog.Logger) { l.Info("gfxcore device: opened", "max_viewports", 16) },
			want:  "max_viewports=16",
		},
		{
			name:  "fence timeout",
			level: slog.LevelInfo,
			emit:  func(l *slog.Logger) { l.Warn("gfxcore queue: fence wait timed out", "timeout", "1s") },
			want:  "level=WARN",
		},
		{
			name:  "debug filtered at warn",
			level: slog.LevelWarn,
			emit:  func(l *slog.Logger) { l.Debug("gfxcore queue: resources deleted", "count", 3) },
			drop:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := useLogger(t, tt.level)
			tt.emit(Logger())
			out := buf.String()
			if tt.drop {
				if out != "" {
					t.Errorf("output = %q, want none", out)
				}
				return
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output = %q, want it to contain %q", out, tt.want)
			}
		})
	}
}

func TestSetLoggerNil(t *testing.T) {
	buf := useLogger(t, slog.LevelDebug)
	Logger().Info("before")
	SetLogger(nil)
	Logger().Error("after")

	if l := Logger(); l == nil || l.Enabled(context.Background(), slog.LevelError) {
		t.Errorf("Logger() after SetLogger(nil) = %v, want a disabled logger", l)
	}
	if out := buf.String(); !strings.Contains(out, "before") || strings.Contains(out, "after") {
		t.Errorf("output = %q, want only the record logged before SetLogger(nil)", out)
	}
}

func TestLoggerSwapWhileLogging(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			Logger().Debug("gfxcore queue: frame retired", "frame", i)
		}()
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				SetLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
			} else {
				SetLogger(nil)
			}
		}()
	}
	wg.Wait()
	if Logger() == nil {
		t.Error("Logger() = nil after concurrent swaps")
	}
}

func BenchmarkDisabledQueueLog(b *testing.B) {
	l := Logger()
	b.ReportAllocs()
	for b.Loop() {
		l.Debug("gfxcore queue: resources deleted", "count", 1, "in_flight", 2)
	}
}
