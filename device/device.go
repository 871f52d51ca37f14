// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package device is the entry point of the core: it opens a native driver
// context, creates resources behind reference-counted handles, maps buffer
// memory for the CPU, and submits recorded command buffers to its queue.
//
// Example:
//
//	dev := device.New(gl, caps)
//	defer dev.Close()
//
//	buf, err := dev.CreateBuffer(handle.BufferInfo{
//	    Size:  1024,
//	    Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageMapWrite,
//	})
//	...
//	enc := command.NewEncoder()
//	enc.Draw(gputypes.PrimitiveTopologyTriangleList, 0, 3)
//	cb, err := enc.Finish()
//	...
//	err = dev.Submit([]*command.Buffer{cb}, nil)
//	cb.Release()
//	dev.Cleanup() // once per frame
//
// A Device is not safe for concurrent use. Handles it returns may be
// cloned and released from any goroutine.
package device

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gogpu/gfxcore"
	"github.com/gogpu/gfxcore/command"
	"github.com/gogpu/gfxcore/handle"
	"github.com/gogpu/gfxcore/native"
	"github.com/gogpu/gfxcore/queue"
)

// Device errors.
var (
	// ErrInvalidDescriptor is returned when a creation descriptor cannot
	// describe a valid resource.
	ErrInvalidDescriptor = errors.New("device: invalid descriptor")

	// ErrClosed is returned by every entry point after Close.
	ErrClosed = errors.New("device: closed")
)

func slogger() *slog.Logger { return gfxcore.Logger() }

// Device owns a native context, the resources created on it and its
// single queue.
type Device struct {
	caps    native.Caps
	handles *handle.Manager
	queue   *queue.Queue
	opts    options
	closed  bool
}

// New opens a device on gl. It enables sRGB framebuffer writes when the
// driver supports them, sets unpack alignment to 1, enables program point
// size on desktop drivers and creates the queue's private vertex array.
func New(gl native.Context, caps native.Caps, opts ...Option) *Device {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if caps.Limits.MaxViewports <= 0 {
		caps.Limits = native.DefaultLimits()
	}

	if caps.Features.Has(native.FeatureSRGBColor) {
		gl.Enable(native.CapFramebufferSRGB)
	}
	gl.PixelStore(native.UnpackAlignment, 1)
	if !caps.Embedded {
		gl.Enable(native.CapProgramPointSize)
	}
	var vao native.VertexArray
	if caps.PrivateCaps.ArrayBuffer {
		vao = gl.GenVertexArray()
		gl.BindVertexArray(vao)
	}

	handles := handle.NewManager()
	q := queue.New(gl, caps, handles, queue.Config{
		VertexArray:      vao,
		MaxResourceCount: o.maxResourceCount,
		FenceTimeout:     o.fenceTimeout,
	})
	d := &Device{
		caps:    caps,
		handles: handles,
		queue:   q,
		opts:    o,
	}
	slogger().Info("gfxcore device: opened",
		"features", caps.Features.String(),
		"embedded", caps.Embedded,
		"max_viewports", caps.Limits.MaxViewports)
	return d
}

// Caps returns the driver capability table.
func (d *Device) Caps() native.Caps { return d.caps }

// Handles returns the manager owning every resource of the device.
func (d *Device) Handles() *handle.Manager { return d.handles }

// Queue returns the device queue.
func (d *Device) Queue() *queue.Queue { return d.queue }

// Lost reports whether the device has observed a fatal error.
func (d *Device) Lost() bool { return d.queue.Lost() }

// FenceTimeout returns the bound applied to fence waits.
func (d *Device) FenceTimeout() time.Duration { return d.opts.fenceTimeout }

// usable returns the error every entry point reports on a closed or lost
// device.
func (d *Device) usable() error {
	switch {
	case d.closed:
		return ErrClosed
	case d.queue.Lost():
		return queue.ErrDeviceLost
	}
	return nil
}

// Submit replays cbs on the queue in order and signals fence, if any,
// after the last of them.
func (d *Device) Submit(cbs []*command.Buffer, fence *handle.Fence) error {
	if d.closed {
		return ErrClosed
	}
	return d.queue.Submit(cbs, fence)
}

// Cleanup releases completed frames and deletes every resource nothing
// references any more. It returns the number of resources deleted. Call it
// once per frame.
func (d *Device) Cleanup() (int, error) {
	if d.closed {
		return 0, ErrClosed
	}
	return d.queue.Cleanup()
}

// WithRaw runs fn with the native context. Cached queue state is reset
// before fn and invalidated after it, so fn may change any driver state.
func (d *Device) WithRaw(fn func(gl native.Context)) error {
	if d.closed {
		return ErrClosed
	}
	d.queue.WithRaw(fn)
	return nil
}

// WaitIdle blocks until all submitted work has completed, bounded by the
// fence timeout.
func (d *Device) WaitIdle() error {
	if err := d.usable(); err != nil {
		return err
	}
	return d.queue.WaitIdle()
}

// Close waits for the GPU, releases every frame and deletes every
// resource whose handles have been released. Handles still held by the
// caller leak their native objects. Close is idempotent.
func (d *Device) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	err := d.queue.Shutdown()
	if n := d.handles.Count(); n > 0 {
		slogger().Warn("gfxcore device: closed with live resources", "count", n)
	}
	return err
}
