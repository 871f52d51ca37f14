// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package command

import "github.com/gogpu/gfxcore/handle"

// AccessInfo is the ordered set of mapped buffers a batch touches, split
// into GPU reads (of CPU-written data) and GPU writes (read back by the
// CPU). A buffer both read and written counts as written.
type AccessInfo struct {
	buffers []*handle.RawBuffer
	writes  []bool
	index   map[*handle.RawBuffer]int
}

func (a *AccessInfo) add(b *handle.RawBuffer, write bool) {
	if b == nil || b.Mapping == nil {
		return
	}
	if i, ok := a.index[b]; ok {
		a.writes[i] = a.writes[i] || write
		return
	}
	if a.index == nil {
		a.index = make(map[*handle.RawBuffer]int)
	}
	a.index[b] = len(a.buffers)
	a.buffers = append(a.buffers, b)
	a.writes = append(a.writes, write)
}

// AddRead records a GPU read of a mapped buffer.
func (a *AccessInfo) AddRead(b *handle.RawBuffer) { a.add(b, false) }

// AddWrite records a GPU write to a mapped buffer.
func (a *AccessInfo) AddWrite(b *handle.RawBuffer) { a.add(b, true) }

// Merge adds every access of o, keeping first-seen order.
func (a *AccessInfo) Merge(o *AccessInfo) {
	for i, b := range o.buffers {
		a.add(b, o.writes[i])
	}
}

// Len returns the number of distinct buffers accessed.
func (a *AccessInfo) Len() int { return len(a.buffers) }

// Buffers returns the accessed buffers in first-seen order.
func (a *AccessInfo) Buffers() []*handle.RawBuffer { return a.buffers }

// Written reports whether the i-th buffer is written by the GPU.
func (a *AccessInfo) Written(i int) bool { return a.writes[i] }

// HasWrites reports whether any accessed buffer is written by the GPU.
func (a *AccessInfo) HasWrites() bool {
	for _, w := range a.writes {
		if w {
			return true
		}
	}
	return false
}

// HasReads reports whether any accessed buffer is only read by the GPU.
func (a *AccessInfo) HasReads() bool {
	for _, w := range a.writes {
		if !w {
			return true
		}
	}
	return false
}

func (a *AccessInfo) reset() {
	a.buffers = a.buffers[:0]
	a.writes = a.writes[:0]
	clear(a.index)
}
