// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package queue

import (
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/gfxcore/command"
	"github.com/gogpu/gfxcore/handle"
	"github.com/gogpu/gfxcore/native"
	"github.com/gogpu/gputypes"
)

func TestSubmitResetsStatePerBuffer(t *testing.T) {
	f := newFixture(t, modernCaps(), Config{})
	idx := f.buffer(64, gputypes.BufferUsageIndex, handle.MappingPersistent)
	defer idx.Release()
	f.rec.Reset()

	record := func() *command.Buffer {
		e := command.NewEncoder()
		e.BindIndexBuffer(idx)
		e.DrawIndexed(gputypes.PrimitiveTopologyTriangleList, gputypes.IndexFormatUint16, 0, 3, 0, nil)
		cb, err := e.Finish()
		if err != nil {
			t.Fatalf("Finish() error = %v", err)
		}
		return cb
	}
	a, b := record(), record()
	defer a.Release()
	defer b.Release()

	if err := f.q.Submit([]*command.Buffer{a, b}, nil); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	// Each buffer starts with no index buffer bound.
	var unbinds int
	for _, c := range f.rec.Find("BindBuffer") {
		if c.Args[0] == native.TargetElementArray && c.Args[1] == native.Buffer(0) {
			unbinds++
		}
	}
	if unbinds != 2 {
		t.Errorf("index unbinds = %d, want 2", unbinds)
	}
	if n := f.rec.Count("BindVertexArray"); n != 1 {
		t.Errorf("BindVertexArray calls = %d, want 1", n)
	}
	if got := f.q.FrameCount(); got != 2 {
		t.Errorf("FrameCount() = %d, want 2", got)
	}
}

func TestSubmitSignalsExternalFence(t *testing.T) {
	f := newFixture(t, modernCaps(), Config{})
	fence := f.handles.CreateFence(0)
	defer fence.Release()

	if f.q.FenceStatus(fence) {
		t.Error("FenceStatus() of unsignaled fence = true")
	}
	if err := f.q.Submit(nil, fence); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	first := fence.Get().Load()
	if first == 0 {
		t.Fatal("fence token not set by Submit")
	}
	if err := f.q.Submit(nil, fence); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	second := fence.Get().Load()
	if second == first {
		t.Error("fence token not replaced on re-signal")
	}
	if !f.rec.SyncDeleted(first) {
		t.Error("previous token not deleted on re-signal")
	}

	if err := f.q.WaitFence(fence, 0); !errors.Is(err, ErrFenceTimeout) {
		t.Errorf("WaitFence() before signal = %v, want ErrFenceTimeout", err)
	}
	f.rec.Signal(second)
	if err := f.q.WaitFence(fence, DefaultFenceTimeout); err != nil {
		t.Errorf("WaitFence() after signal = %v", err)
	}
	if !f.q.FenceStatus(fence) {
		t.Error("FenceStatus() after signal = false")
	}

	f.q.ResetFence(fence)
	if fence.Get().Load() != 0 || !f.rec.SyncDeleted(second) {
		t.Error("ResetFence() did not clear and delete the token")
	}
}

func TestSubmitFenceWithoutSync(t *testing.T) {
	logs := captureLog(t)
	f := newFixture(t, legacyCaps(), Config{})
	fence := f.handles.CreateFence(0)
	defer fence.Release()

	if err := f.q.Submit(nil, fence); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if n := f.rec.Count("FenceSync"); n != 0 {
		t.Errorf("FenceSync calls = %d, want 0", n)
	}
	if !strings.Contains(logs.String(), "fence not signaled") {
		t.Errorf("missing debug log; got %s", logs)
	}
	if err := f.q.WaitFence(fence, 0); err != nil {
		t.Errorf("WaitFence() without sync objects = %v, want nil", err)
	}
}

func TestSoftCapWarnsOnce(t *testing.T) {
	logs := captureLog(t)
	f := newFixture(t, modernCaps(), Config{MaxResourceCount: 2})
	bufs := make([]*handle.Buffer, 3)
	for i := range bufs {
		bufs[i] = f.buffer(16, gputypes.BufferUsageUniform, handle.MappingPersistent)
		defer bufs[i].Release()
	}

	for range 2 {
		err := f.submit(t, func(e *command.Encoder) {
			for i, b := range bufs {
				e.BindConstantBuffer(uint32(i), b)
			}
		}, nil)
		if err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
	}
	if got := strings.Count(logs.String(), "exceeds limit"); got != 1 {
		t.Errorf("cap warnings = %d, want 1", got)
	}
	if got := f.q.FrameCount(); got != 6 {
		t.Errorf("FrameCount() = %d, want 6", got)
	}
}

func TestSubmitPinsOnValidationError(t *testing.T) {
	f := newFixture(t, legacyCaps(), Config{})
	buf := f.buffer(16, gputypes.BufferUsageUniform, handle.MappingTemporary)

	err := f.submit(t, func(e *command.Encoder) {
		e.BindConstantBuffer(0, buf)
		e.SetScissors(0, command.Rect{}, command.Rect{})
	}, nil)
	if !errors.Is(err, command.ErrInvalidCommand) {
		t.Fatalf("Submit() = %v, want ErrInvalidCommand", err)
	}
	if got := f.q.FrameCount(); got != 1 {
		t.Errorf("FrameCount() = %d, want 1: replayed work must stay pinned", got)
	}
	buf.Release()
}

func TestSubmitFencesMappedAccessOnValidationError(t *testing.T) {
	f := newFixture(t, modernCaps(), Config{})
	buf := f.buffer(64, gputypes.BufferUsageUniform|gputypes.BufferUsageMapWrite, handle.MappingPersistent)
	defer buf.Release()
	f.rec.Reset()

	if err := f.q.Write(buf, 0, []byte("abcd")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	err := f.submit(t, func(e *command.Encoder) {
		e.BindConstantBuffer(0, buf)
		e.Draw(gputypes.PrimitiveTopologyTriangleList, 0, 3)
		e.SetScissors(20, command.Rect{Width: 4, Height: 4})
	}, nil)
	if !errors.Is(err, command.ErrInvalidCommand) {
		t.Fatalf("Submit() = %v, want ErrInvalidCommand", err)
	}
	if n := f.rec.Count("FlushMappedBufferRange"); n != 1 {
		t.Errorf("FlushMappedBufferRange calls = %d, want 1", n)
	}
	if n := f.rec.Count("FenceSync"); n != 1 {
		t.Errorf("FenceSync calls = %d, want 1", n)
	}
	if buf.Get().Mapping.LastAccess() == nil {
		t.Error("LastAccess() = nil after a partly replayed batch")
	}

	// The draw may still be reading the buffer, so CPU writes must wait.
	if err := f.q.Write(buf, 0, []byte("x")); !errors.Is(err, ErrFenceTimeout) {
		t.Errorf("Write() after aborted batch = %v, want ErrFenceTimeout", err)
	}
}
