// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package queue

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/gogpu/gfxcore"
	"github.com/gogpu/gfxcore/command"
	"github.com/gogpu/gfxcore/handle"
	"github.com/gogpu/gfxcore/native"
	"github.com/gogpu/gfxcore/native/nativetest"
	"github.com/gogpu/gputypes"
)

// modernCaps is a desktop driver with every private capability.
func modernCaps() native.Caps {
	return native.Caps{
		Features: native.FeatureDrawInstanced | native.FeatureDrawInstancedBase |
			native.FeatureDrawIndexedBase | native.FeatureDrawIndexedInstanced |
			native.FeatureDrawIndexedInstancedBaseVertex | native.FeatureDrawIndexedInstancedBase,
		PrivateCaps: native.PrivateCaps{
			ArrayBuffer:    true,
			BufferStorage:  true,
			Sync:           true,
			FrameBuffer:    true,
			SamplerObjects: true,
			CopyBuffer:     true,
		},
		Limits: native.Limits{MaxViewports: 16},
	}
}

// legacyCaps is a driver without persistent mappings or sync objects.
func legacyCaps() native.Caps {
	return native.Caps{
		PrivateCaps: native.PrivateCaps{ArrayBuffer: true},
		Limits:      native.DefaultLimits(),
	}
}

type fixture struct {
	q       *Queue
	rec     *nativetest.Recorder
	handles *handle.Manager
}

func newFixture(t *testing.T, caps native.Caps, cfg Config) *fixture {
	t.Helper()
	rec := nativetest.NewRecorder()
	handles := handle.NewManager()
	if cfg.VertexArray == 0 {
		cfg.VertexArray = 1
	}
	return &fixture{q: New(rec, caps, handles, cfg), rec: rec, handles: handles}
}

// buffer allocates storage in the recorder and registers a handle for it.
func (f *fixture) buffer(size uint64, usage gputypes.BufferUsage, kind handle.MappingKind) *handle.Buffer {
	name := f.rec.GenBuffer()
	target := native.TargetForUsage(usage)
	f.rec.BindBuffer(target, name)
	f.rec.BufferData(target, size)
	var mp *handle.Mapping
	if access := native.MapAccessFromUsage(usage); access != 0 {
		var ptr []byte
		if kind == handle.MappingPersistent {
			ptr = f.rec.Storage(name)
		}
		mp = handle.NewMapping(kind, access, ptr)
	}
	f.q.Invalidate()
	return f.handles.CreateBuffer(name, handle.BufferInfo{Size: size, Usage: usage}, mp)
}

func (f *fixture) submit(t *testing.T, record func(e *command.Encoder), fence *handle.Fence) error {
	t.Helper()
	e := command.NewEncoder()
	record(e)
	cb, err := e.Finish()
	if err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
	defer cb.Release()
	return f.q.Submit([]*command.Buffer{cb}, fence)
}

// captureLog routes gfxcore logging into a buffer for the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := gfxcore.Logger()
	gfxcore.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { gfxcore.SetLogger(orig) })
	return &buf
}
