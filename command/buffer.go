// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package command

import "github.com/gogpu/gfxcore/handle"

// Buffer is a finished command buffer: the commands, their out-of-line
// data, the handles they keep alive and the mapped buffers they touch.
type Buffer struct {
	cmds    []Command
	data    DataBuffer
	handles *handle.Manager
	access  AccessInfo
}

// Commands returns the recorded commands in order.
func (b *Buffer) Commands() []Command { return b.cmds }

// Data returns the data block the commands address.
func (b *Buffer) Data() *DataBuffer { return &b.data }

// Handles returns the handle set keeping the buffer's resources alive.
func (b *Buffer) Handles() *handle.Manager { return b.handles }

// Access returns the mapped-buffer accesses of the buffer.
func (b *Buffer) Access() *AccessInfo { return &b.access }

// Len returns the number of commands.
func (b *Buffer) Len() int { return len(b.cmds) }

// Release drops every handle the buffer holds. A submitted buffer can be
// released right after Submit: the queue keeps its own references.
func (b *Buffer) Release() {
	b.handles.Clear()
	b.cmds = nil
	b.data.reset()
	b.access.reset()
}
