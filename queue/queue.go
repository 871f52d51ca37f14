// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package queue replays recorded command buffers against a native driver
// context.
//
// The queue keeps a shadow of the driver state it cares about (vertex array
// binding, index buffer binding, viewport and scissor counts) so that every
// command buffer starts from the same known state with as few native calls
// as possible. It also orders mapped-memory visibility around submissions
// and keeps every resource used by submitted work alive until the work is
// known to be complete.
//
// A Queue is not safe for concurrent use: all methods must be called from
// the goroutine that owns the native context. Handles may still be cloned
// and released from any goroutine.
package queue

import (
	"sync/atomic"
	"time"

	"github.com/gogpu/gfxcore/handle"
	"github.com/gogpu/gfxcore/native"
)

// Default configuration values.
const (
	// DefaultMaxResourceCount is the soft cap on references pinned by one
	// frame before a warning is logged.
	DefaultMaxResourceCount = 999999

	// DefaultFenceTimeout bounds every client wait on a fence.
	DefaultFenceTimeout = time.Second
)

// Config configures a Queue.
type Config struct {
	// VertexArray is the private vertex array bound when a command buffer
	// starts. Ignored on drivers without vertex array objects.
	VertexArray native.VertexArray

	// MaxResourceCount is the soft cap on frame references; 0 disables the
	// check.
	MaxResourceCount int

	// FenceTimeout bounds fence waits; 0 selects DefaultFenceTimeout.
	FenceTimeout time.Duration
}

// retiredFrame is a frame handle set waiting for its fence.
type retiredFrame struct {
	handles *handle.Manager
	fence   *handle.Fence
}

// Queue is the single logical queue of a device.
type Queue struct {
	gl      native.Context
	caps    native.Caps
	handles *handle.Manager
	vao     native.VertexArray

	state stateCache

	frame      *handle.Manager
	frameFence *handle.Fence
	inflight   []retiredFrame

	maxResourceCount int
	fenceTimeout     time.Duration
	lost             atomic.Bool
}

// New returns a queue replaying onto gl. Resources are owned by handles,
// the device's manager; Cleanup sweeps it.
func New(gl native.Context, caps native.Caps, handles *handle.Manager, cfg Config) *Queue {
	if cfg.FenceTimeout <= 0 {
		cfg.FenceTimeout = DefaultFenceTimeout
	}
	return &Queue{
		gl:               gl,
		caps:             caps,
		handles:          handles,
		vao:              cfg.VertexArray,
		frame:            handle.NewManager(),
		maxResourceCount: cfg.MaxResourceCount,
		fenceTimeout:     cfg.FenceTimeout,
	}
}

// Caps returns the capability table the queue dispatches on.
func (q *Queue) Caps() native.Caps { return q.caps }

// FenceTimeout returns the bound applied to internal fence waits.
func (q *Queue) FenceTimeout() time.Duration { return q.fenceTimeout }

// Lost reports whether a fatal error has been observed.
func (q *Queue) Lost() bool { return q.lost.Load() }

// FrameCount returns the number of references pinned by the current frame.
func (q *Queue) FrameCount() int { return q.frame.Count() }

// InFlight returns the number of retired frames still waiting for their
// fence.
func (q *Queue) InFlight() int { return len(q.inflight) }

// Invalidate forgets all cached driver state. Call it after any native
// call made behind the queue's back. The next reset rebinds the vertex
// array and index buffer and clears every viewport and scissor slot.
func (q *Queue) Invalidate() {
	slots := max(q.caps.Limits.MaxViewports, 1)
	q.state.vaoBound = false
	q.state.forgetIndex()
	q.state.numViewports = slots
	q.state.numScissors = slots
}

// WithRaw runs fn with the native context. The cached state is reset
// before fn and invalidated after it.
func (q *Queue) WithRaw(fn func(gl native.Context)) {
	q.resetState()
	fn(q.gl)
	q.Invalidate()
}

func (q *Queue) markLost(err error) {
	if q.lost.Swap(true) {
		return
	}
	slogger().Error("gfxcore queue: device lost", "error", err)
}

// checkDriver reads the driver error flag after op.
func (q *Queue) checkDriver(op string) error {
	if !debugChecks {
		return nil
	}
	if code := q.gl.GetError(); code != native.CodeNoError {
		return &DriverError{Op: op, Kind: native.DecodeError(code)}
	}
	return nil
}

// Check reads the driver error flag after a native call made through
// WithRaw. A raised flag loses the queue. Release builds skip the read.
func (q *Queue) Check(op string) error {
	if err := q.checkDriver(op); err != nil {
		q.markLost(err)
		return err
	}
	return nil
}

// bindScratch binds b to its own target for mapping, flushing or
// deletion and returns that target.
func (q *Queue) bindScratch(b *handle.RawBuffer) native.Target {
	q.gl.BindBuffer(b.Target, b.Name)
	if b.Target == native.TargetElementArray {
		q.state.forgetIndex()
	}
	return b.Target
}
