// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package queue

import (
	"errors"
	"testing"

	"github.com/gogpu/gfxcore/command"
	"github.com/gogpu/gfxcore/handle"
	"github.com/gogpu/gfxcore/native"
	"github.com/gogpu/gputypes"
)

func TestTemporaryMappingLifecycle(t *testing.T) {
	f := newFixture(t, legacyCaps(), Config{})
	buf := f.buffer(32, gputypes.BufferUsageVertex|gputypes.BufferUsageMapWrite, handle.MappingTemporary)
	defer buf.Release()
	f.rec.Reset()

	if err := f.q.Write(buf, 0, []byte{1}); !errors.Is(err, ErrNotMapped) {
		t.Fatalf("Write() before Map = %v, want ErrNotMapped", err)
	}
	if err := f.q.Map(buf, gputypes.MapModeWrite); err != nil {
		t.Fatalf("Map() error = %v", err)
	}
	if err := f.q.Write(buf, 4, []byte{1, 2, 3, 4}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	err := f.submit(t, func(e *command.Encoder) {
		e.BindConstantBuffer(0, buf)
		e.Draw(gputypes.PrimitiveTopologyTriangleList, 0, 3)
	}, nil)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if n := f.rec.Count("UnmapBuffer"); n != 1 {
		t.Errorf("UnmapBuffer calls = %d, want exactly 1", n)
	}
	if n := f.rec.Count("FlushMappedBufferRange"); n != 0 {
		t.Errorf("FlushMappedBufferRange calls = %d, want 0", n)
	}
	if n := f.rec.Count("FenceSync"); n != 0 {
		t.Errorf("FenceSync calls = %d, want 0", n)
	}
	if err := f.q.Write(buf, 0, []byte{9}); !errors.Is(err, ErrNotMapped) {
		t.Errorf("Write() after submit = %v, want ErrNotMapped", err)
	}
	if got := f.rec.Storage(buf.Get().Name)[4:8]; got[0] != 1 || got[3] != 4 {
		t.Errorf("buffer contents = %v, want the written bytes", got)
	}
}

func TestTemporaryMappingMapUnmap(t *testing.T) {
	f := newFixture(t, legacyCaps(), Config{})
	buf := f.buffer(16, gputypes.BufferUsageMapRead|gputypes.BufferUsageCopyDst, handle.MappingTemporary)
	defer buf.Release()

	if err := f.q.Map(buf, gputypes.MapModeWrite); !errors.Is(err, ErrNotMappable) {
		t.Errorf("Map(write) of read-only buffer = %v, want ErrNotMappable", err)
	}
	if err := f.q.Map(buf, gputypes.MapModeRead); err != nil {
		t.Fatalf("Map(read) error = %v", err)
	}
	if err := f.q.Map(buf, gputypes.MapModeRead); err != nil {
		t.Errorf("second Map() error = %v, want nil", err)
	}
	if n := f.rec.Count("MapBufferRange"); n != 1 {
		t.Errorf("MapBufferRange calls = %d, want 1", n)
	}
	dst := make([]byte, 4)
	if err := f.q.Read(buf, 12, dst); err != nil {
		t.Errorf("Read() error = %v", err)
	}
	if err := f.q.Read(buf, 14, dst); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Read() past end = %v, want ErrOutOfRange", err)
	}
	if err := f.q.Unmap(buf); err != nil {
		t.Fatalf("Unmap() error = %v", err)
	}
	if err := f.q.Unmap(buf); err != nil {
		t.Errorf("second Unmap() error = %v", err)
	}
	if n := f.rec.Count("UnmapBuffer"); n != 1 {
		t.Errorf("UnmapBuffer calls = %d, want 1", n)
	}
}

func TestMapRefusedByDriver(t *testing.T) {
	f := newFixture(t, legacyCaps(), Config{})
	buf := f.buffer(16, gputypes.BufferUsageMapWrite, handle.MappingTemporary)
	defer buf.Release()
	f.rec.RefuseMapping(true)

	if err := f.q.Map(buf, gputypes.MapModeWrite); !errors.Is(err, ErrMapFailed) {
		t.Errorf("Map() = %v, want ErrMapFailed", err)
	}
	if f.q.Lost() {
		t.Error("Lost() = true without a driver error")
	}
}

func TestPersistentMappingLifecycle(t *testing.T) {
	f := newFixture(t, modernCaps(), Config{})
	buf := f.buffer(64, gputypes.BufferUsageUniform|gputypes.BufferUsageMapWrite, handle.MappingPersistent)
	f.rec.Reset()

	if err := f.q.Write(buf, 0, []byte("hello")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	err := f.submit(t, func(e *command.Encoder) { e.BindConstantBuffer(0, buf) }, nil)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if n := f.rec.Count("FlushMappedBufferRange"); n != 1 {
		t.Errorf("FlushMappedBufferRange calls = %d, want 1", n)
	}
	if n := f.rec.Count("FenceSync"); n != 1 {
		t.Errorf("FenceSync calls = %d, want 1", n)
	}
	if n := f.rec.Count("MemoryBarrier"); n != 0 {
		t.Errorf("MemoryBarrier calls = %d, want 0 for GPU reads only", n)
	}
	if n := f.rec.Count("UnmapBuffer"); n != 0 {
		t.Errorf("UnmapBuffer calls = %d, want 0", n)
	}

	// The GPU has not finished: CPU writes must wait, and time out.
	if err := f.q.Write(buf, 0, []byte("x")); !errors.Is(err, ErrFenceTimeout) {
		t.Errorf("Write() while in flight = %v, want ErrFenceTimeout", err)
	}

	buf.Release()
	if n, _ := f.q.Cleanup(); n != 0 {
		t.Fatalf("Cleanup() deleted %d resources while in flight, want 0", n)
	}
	if n := f.rec.Count("DeleteBuffers"); n != 0 {
		t.Fatalf("DeleteBuffers calls = %d before the fence signaled", n)
	}

	f.rec.SignalAll()
	n, err := f.q.Cleanup()
	if err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Cleanup() deleted %d, want 2 (buffer and its fence)", n)
	}
	if c := f.rec.Count("DeleteBuffers"); c != 1 {
		t.Errorf("DeleteBuffers calls = %d, want 1", c)
	}
	if c := f.rec.Count("DeleteSync"); c != 1 {
		t.Errorf("DeleteSync calls = %d, want 1", c)
	}
	if f.q.InFlight() != 0 {
		t.Errorf("InFlight() = %d, want 0", f.q.InFlight())
	}
}

func TestPersistentWriteWaitsForSignaledFence(t *testing.T) {
	f := newFixture(t, modernCaps(), Config{})
	buf := f.buffer(8, gputypes.BufferUsageVertex|gputypes.BufferUsageMapWrite, handle.MappingPersistent)
	defer buf.Release()

	if err := f.submit(t, func(e *command.Encoder) { e.BindConstantBuffer(0, buf) }, nil); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	f.rec.SignalAll()
	if err := f.q.Write(buf, 0, []byte{7}); err != nil {
		t.Fatalf("Write() after fence signaled = %v", err)
	}
	waits := f.rec.Find("ClientWaitSync")
	if len(waits) != 1 || waits[0].Args[1] != true {
		t.Errorf("ClientWaitSync calls = %v, want one flushing wait", waits)
	}
	if !buf.Get().Mapping.TakePendingWrites() {
		t.Error("persistent write not marked pending")
	}
}

func TestGPUWritesNeedBarrier(t *testing.T) {
	f := newFixture(t, modernCaps(), Config{})
	src := f.buffer(16, gputypes.BufferUsageCopySrc, handle.MappingPersistent)
	readback := f.buffer(16, gputypes.BufferUsageMapRead|gputypes.BufferUsageCopyDst, handle.MappingPersistent)
	defer src.Release()
	defer readback.Release()
	f.rec.Reset()

	if err := f.submit(t, func(e *command.Encoder) { e.CopyBuffer(src, readback, 0, 0, 16) }, nil); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	calls := f.rec.Find("MemoryBarrier")
	if len(calls) != 1 || calls[0].Args[0] != native.BarrierClientMappedBuffer {
		t.Errorf("MemoryBarrier calls = %v, want one client-mapped barrier", calls)
	}
	names := f.rec.Names()
	if names[len(names)-1] != "FenceSync" {
		t.Errorf("last call = %s, want FenceSync after the barrier", names[len(names)-1])
	}
}

func TestAccessGuardBusy(t *testing.T) {
	f := newFixture(t, modernCaps(), Config{})
	buf := f.buffer(16, gputypes.BufferUsageUniform|gputypes.BufferUsageMapWrite, handle.MappingPersistent)
	defer buf.Release()

	e := command.NewEncoder()
	e.BindConstantBuffer(0, buf)
	cb, _ := e.Finish()
	defer cb.Release()

	guard, err := TakeAccesses(cb.Access())
	if err != nil {
		t.Fatalf("TakeAccesses() error = %v", err)
	}
	if !guard.HasMappedReads() || guard.HasMappedWrites() {
		t.Errorf("HasMappedReads/Writes = %v/%v, want true/false", guard.HasMappedReads(), guard.HasMappedWrites())
	}
	if err := f.q.Submit([]*command.Buffer{cb}, nil); !errors.Is(err, ErrResourceBusy) {
		t.Errorf("Submit() while guarded = %v, want ErrResourceBusy", err)
	}
	if err := f.q.Write(buf, 0, []byte{1}); !errors.Is(err, ErrResourceBusy) {
		t.Errorf("Write() while guarded = %v, want ErrResourceBusy", err)
	}
	guard.Release()
	guard.Release()
	if err := f.q.Submit([]*command.Buffer{cb}, nil); err != nil {
		t.Errorf("Submit() after release = %v", err)
	}
}

func TestTakeAccessesRollsBack(t *testing.T) {
	f := newFixture(t, modernCaps(), Config{})
	a := f.buffer(16, gputypes.BufferUsageMapWrite, handle.MappingPersistent)
	b := f.buffer(16, gputypes.BufferUsageMapWrite, handle.MappingPersistent)
	defer a.Release()
	defer b.Release()

	b.Get().Mapping.TryAcquire()
	var info command.AccessInfo
	info.AddRead(a.Get())
	info.AddRead(b.Get())
	if _, err := TakeAccesses(&info); !errors.Is(err, ErrResourceBusy) {
		t.Fatalf("TakeAccesses() = %v, want ErrResourceBusy", err)
	}
	if a.Get().Mapping.Held() {
		t.Error("gate of first buffer still held after failed TakeAccesses")
	}
}

func TestMappingInvariant(t *testing.T) {
	f := newFixture(t, modernCaps(), Config{})
	mp := handle.NewMapping(handle.MappingTemporary, native.MapWrite, nil)
	buf := f.handles.CreateBuffer(f.rec.GenBuffer(), handle.BufferInfo{Size: 8, Usage: gputypes.BufferUsageMapWrite}, mp)
	defer buf.Release()

	err := f.submit(t, func(e *command.Encoder) { e.BindConstantBuffer(0, buf) }, nil)
	if !errors.Is(err, ErrMappingInvariant) {
		t.Fatalf("Submit() = %v, want ErrMappingInvariant", err)
	}
	if !f.q.Lost() {
		t.Error("Lost() = false after a mapping invariant violation")
	}
}
