// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package queue

import (
	"fmt"

	"github.com/gogpu/gfxcore/command"
	"github.com/gogpu/gfxcore/handle"
	"github.com/gogpu/gfxcore/native"
)

// Submit replays cbs in order and, when fence is non-nil, signals it once
// the work completes.
//
// Mapped buffers the batch touches are flushed (persistent mappings) or
// unmapped (temporary mappings) before replay and fenced after it. Every
// resource the batch references stays alive until the frame it belongs to
// is retired by Cleanup and its fence has signaled.
//
// A driver error aborts the submission and loses the queue. A command that
// fails validation aborts the submission only.
func (q *Queue) Submit(cbs []*command.Buffer, fence *handle.Fence) error {
	if q.lost.Load() {
		return ErrDeviceLost
	}

	infos := make([]*command.AccessInfo, len(cbs))
	for i, cb := range cbs {
		infos[i] = cb.Access()
	}
	guard, err := TakeAccesses(infos...)
	if err != nil {
		return err
	}
	defer guard.Release()

	if err := q.prepareMappings(guard); err != nil {
		q.markLost(err)
		return err
	}

	// Whatever was replayed may be in flight, so pin on every exit path.
	defer q.pin(cbs)

	for _, cb := range cbs {
		q.resetState()
		data := cb.Data()
		for i, c := range cb.Commands() {
			if err := q.process(c, data); err != nil {
				q.Invalidate()
				q.trackMappedAccess(guard)
				return fmt.Errorf("queue: command %d: %w", i, err)
			}
			if !debugChecks {
				continue
			}
			if code := q.gl.GetError(); code != native.CodeNoError {
				err := &CommandError{Index: i, Command: c, Kind: native.DecodeError(code)}
				q.markLost(err)
				return err
			}
		}
	}

	q.trackMappedAccess(guard)
	if fence != nil {
		q.signalFence(fence)
	}
	return nil
}

// prepareMappings makes CPU writes visible to the GPU before replay.
func (q *Queue) prepareMappings(g *AccessGuard) error {
	persistent := q.caps.PrivateCaps.BufferStorage
	for _, b := range g.Mapped() {
		m := b.Mapping
		switch {
		case persistent && m.Kind() != handle.MappingPersistent,
			!persistent && m.Kind() != handle.MappingTemporary:
			return fmt.Errorf("%w: %s mapping of %s", ErrMappingInvariant, m.Kind(), b)
		case persistent:
			if m.TakePendingWrites() {
				t := q.bindScratch(b)
				q.gl.FlushMappedBufferRange(t, 0, uint64(len(m.Bytes())))
			}
		case m.IsMapped():
			t := q.bindScratch(b)
			q.gl.UnmapBuffer(t)
			m.SetBytes(nil)
		}
	}
	return nil
}

// trackMappedAccess fences persistent mappings used by the batch so CPU
// access waits for the GPU.
func (q *Queue) trackMappedAccess(g *AccessGuard) {
	if g.Len() == 0 || !q.caps.PrivateCaps.BufferStorage {
		return
	}
	if g.HasMappedWrites() {
		q.gl.MemoryBarrier(native.BarrierClientMappedBuffer)
	}
	f := q.placeFence()
	if f == nil {
		slogger().Debug("gfxcore queue: no sync objects, mapped access not fenced", "buffers", g.Len())
		return
	}
	defer f.Release()
	for _, b := range g.Mapped() {
		b.Mapping.SetLastAccess(f)
	}
	q.setFrameFence(f)
}

// pin keeps every resource of cbs alive for the current frame.
func (q *Queue) pin(cbs []*command.Buffer) {
	for _, cb := range cbs {
		q.frame.Merge(cb.Handles())
	}
	if q.maxResourceCount <= 0 {
		return
	}
	if n := q.frame.Count(); n > q.maxResourceCount {
		slogger().Warn("gfxcore queue: frame resource count exceeds limit, check disabled",
			"count", n, "limit", q.maxResourceCount)
		q.maxResourceCount = 0
	}
}
