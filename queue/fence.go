// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package queue

import (
	"fmt"
	"time"

	"github.com/gogpu/gfxcore/handle"
	"github.com/gogpu/gfxcore/native"
)

// placeFence inserts a new sync object after the work replayed so far.
// It returns nil when the driver has no sync objects. The fence belongs to
// the device manager and is deleted by a sweep once unreferenced.
func (q *Queue) placeFence() *handle.Fence {
	if !q.caps.PrivateCaps.Sync {
		return nil
	}
	return q.handles.CreateFence(q.gl.FenceSync())
}

// signalFence replaces f's token with one placed after the work replayed
// so far. The previous token is deleted under the fence lock.
func (q *Queue) signalFence(f *handle.Fence) {
	if !q.caps.PrivateCaps.Sync {
		slogger().Debug("gfxcore queue: no sync objects, fence not signaled")
		return
	}
	s := q.gl.FenceSync()
	f.Get().Do(func(old native.Sync) native.Sync {
		if old != 0 {
			q.gl.DeleteSync(old)
		}
		return s
	})
	q.setFrameFence(f)
}

// setFrameFence makes f the last fence of the current frame.
func (q *Queue) setFrameFence(f *handle.Fence) {
	old := q.frameFence
	q.frameFence = f.Clone()
	old.Release()
}

// WaitFence blocks until f signals or timeout passes. A fence that was
// never signaled, or a driver without sync objects, returns at once.
// Expiry logs a warning and returns ErrFenceTimeout.
func (q *Queue) WaitFence(f *handle.Fence, timeout time.Duration) error {
	if !q.caps.PrivateCaps.Sync {
		return nil
	}
	res := native.WaitAlreadySignaled
	f.Get().Do(func(s native.Sync) native.Sync {
		if s != 0 {
			res = q.gl.ClientWaitSync(s, true, timeout)
		}
		return s
	})
	switch {
	case res.Signaled():
		return nil
	case res == native.WaitTimeoutExpired:
		slogger().Warn("gfxcore queue: fence wait timed out", "timeout", timeout)
		return fmt.Errorf("%w after %v", ErrFenceTimeout, timeout)
	default:
		err := &DriverError{Op: "ClientWaitSync", Kind: native.DecodeError(q.gl.GetError())}
		q.markLost(err)
		return err
	}
}

// FenceStatus polls f without blocking. Fences that were never signaled
// report false; without sync objects every fence reports true.
func (q *Queue) FenceStatus(f *handle.Fence) bool {
	if !q.caps.PrivateCaps.Sync {
		return true
	}
	s := f.Get().Load()
	if s == 0 {
		return false
	}
	return q.gl.ClientWaitSync(s, false, 0).Signaled()
}

// ResetFence returns f to the unsignaled state.
func (q *Queue) ResetFence(f *handle.Fence) {
	f.Get().Do(func(old native.Sync) native.Sync {
		if old != 0 {
			q.gl.DeleteSync(old)
		}
		return 0
	})
}

// WaitIdle blocks until all work submitted so far has completed, bounded by
// the queue's fence timeout.
func (q *Queue) WaitIdle() error {
	if !q.caps.PrivateCaps.Sync {
		return nil
	}
	s := q.gl.FenceSync()
	defer q.gl.DeleteSync(s)
	switch res := q.gl.ClientWaitSync(s, true, q.fenceTimeout); {
	case res.Signaled():
		return nil
	case res == native.WaitTimeoutExpired:
		slogger().Warn("gfxcore queue: idle wait timed out", "timeout", q.fenceTimeout)
		return fmt.Errorf("%w after %v", ErrFenceTimeout, q.fenceTimeout)
	default:
		err := &DriverError{Op: "ClientWaitSync", Kind: native.DecodeError(q.gl.GetError())}
		q.markLost(err)
		return err
	}
}
