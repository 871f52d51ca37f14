// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package queue

import (
	"fmt"

	"github.com/gogpu/gfxcore/command"
	"github.com/gogpu/gfxcore/handle"
)

// AccessGuard holds the mapping gate of every mapped buffer a batch
// touches. While it is held no other submission or CPU access can use
// those mappings.
type AccessGuard struct {
	info     command.AccessInfo
	released bool
}

// TakeAccesses merges the accesses of a batch and acquires every mapping
// gate. If any gate is already held, the gates taken so far are released
// and ErrResourceBusy is returned.
func TakeAccesses(infos ...*command.AccessInfo) (*AccessGuard, error) {
	g := &AccessGuard{}
	for _, info := range infos {
		g.info.Merge(info)
	}
	for i, b := range g.info.Buffers() {
		if !b.Mapping.TryAcquire() {
			for _, taken := range g.info.Buffers()[:i] {
				taken.Mapping.Release()
			}
			return nil, fmt.Errorf("%w: %s", ErrResourceBusy, b)
		}
	}
	return g, nil
}

// Mapped returns the guarded buffers.
func (g *AccessGuard) Mapped() []*handle.RawBuffer { return g.info.Buffers() }

// MappedReads returns the guarded buffers the GPU only reads.
func (g *AccessGuard) MappedReads() []*handle.RawBuffer {
	var out []*handle.RawBuffer
	for i, b := range g.info.Buffers() {
		if !g.info.Written(i) {
			out = append(out, b)
		}
	}
	return out
}

// MappedWrites returns the guarded buffers the GPU writes.
func (g *AccessGuard) MappedWrites() []*handle.RawBuffer {
	var out []*handle.RawBuffer
	for i, b := range g.info.Buffers() {
		if g.info.Written(i) {
			out = append(out, b)
		}
	}
	return out
}

// HasMappedReads reports whether the GPU reads any guarded buffer.
func (g *AccessGuard) HasMappedReads() bool { return g.info.HasReads() }

// HasMappedWrites reports whether the GPU writes any guarded buffer.
func (g *AccessGuard) HasMappedWrites() bool { return g.info.HasWrites() }

// Len returns the number of guarded buffers.
func (g *AccessGuard) Len() int { return g.info.Len() }

// Release frees every gate. Releasing twice is a no-op.
func (g *AccessGuard) Release() {
	if g.released {
		return
	}
	g.released = true
	for _, b := range g.info.Buffers() {
		b.Mapping.Release()
	}
}
