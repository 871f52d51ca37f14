// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package device

import (
	"github.com/gogpu/gfxcore/handle"
	"github.com/gogpu/gputypes"
)

// Map maps b for CPU access in mode. Persistent mappings are always mapped
// and Map returns at once.
func (d *Device) Map(b *handle.Buffer, mode gputypes.MapMode) error {
	if err := d.usable(); err != nil {
		return err
	}
	return d.queue.Map(b, mode)
}

// Unmap unmaps a temporary mapping. It is a no-op for persistent or
// unmapped buffers.
func (d *Device) Unmap(b *handle.Buffer) error {
	if d.closed {
		return ErrClosed
	}
	return d.queue.Unmap(b)
}

// Write copies data into b's mapping at offset. Writes to a persistent
// mapping wait for the last submission that used b and become visible to
// the GPU at the next submission that uses it.
func (d *Device) Write(b *handle.Buffer, offset uint64, data []byte) error {
	if err := d.usable(); err != nil {
		return err
	}
	return d.queue.Write(b, offset, data)
}

// Read copies len(dst) bytes of b's mapping at offset into dst.
func (d *Device) Read(b *handle.Buffer, offset uint64, dst []byte) error {
	if err := d.usable(); err != nil {
		return err
	}
	return d.queue.Read(b, offset, dst)
}

// WaitFence blocks until f signals or the device's fence timeout passes.
func (d *Device) WaitFence(f *handle.Fence) error {
	if err := d.usable(); err != nil {
		return err
	}
	return d.queue.WaitFence(f, d.opts.fenceTimeout)
}

// FenceStatus reports whether f has signaled, without blocking.
func (d *Device) FenceStatus(f *handle.Fence) bool {
	if d.closed {
		return false
	}
	return d.queue.FenceStatus(f)
}

// ResetFence returns f to the unsignaled state.
func (d *Device) ResetFence(f *handle.Fence) {
	if d.closed {
		return
	}
	d.queue.ResetFence(f)
}
