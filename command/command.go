// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package command defines the portable command set replayed by a queue,
// and the encoder that records it.
package command

import (
	"errors"
	"fmt"

	"github.com/gogpu/gfxcore/handle"
	"github.com/gogpu/gfxcore/native"
	"github.com/gogpu/gputypes"
)

// ErrInvalidCommand is returned for commands that cannot be replayed.
var ErrInvalidCommand = errors.New("command: invalid command")

// Command is one recorded command.
type Command interface {
	fmt.Stringer
	command()
}

// Instances is the instance range of an instanced draw.
type Instances struct {
	Count uint32
	Base  uint32
}

// BindIndexBuffer binds the index buffer used by DrawIndexed.
type BindIndexBuffer struct {
	Buffer *handle.RawBuffer
}

// Draw draws non-indexed primitives. Instances is nil for a plain draw.
type Draw struct {
	Topology  gputypes.PrimitiveTopology
	First     uint32
	Count     uint32
	Instances *Instances
}

// DrawIndexed draws indexed primitives from the bound index buffer.
type DrawIndexed struct {
	Topology    gputypes.PrimitiveTopology
	IndexFormat gputypes.IndexFormat
	Start       uint32
	Count       uint32
	BaseVertex  int32
	Instances   *Instances
}

// Dispatch launches a compute grid.
type Dispatch struct {
	X, Y, Z uint32
}

// DispatchIndirect launches a compute grid read from Buffer at Offset.
type DispatchIndirect struct {
	Buffer *handle.RawBuffer
	Offset uint64
}

// SetViewports sets viewports starting at slot First. Viewports and
// DepthRanges address the command buffer's data block.
type SetViewports struct {
	First       uint32
	Viewports   Range
	DepthRanges Range
}

// SetScissors sets scissor rectangles starting at slot First.
type SetScissors struct {
	First uint32
	Rects Range
}

// CopyBuffer copies Size bytes between two buffers.
type CopyBuffer struct {
	Src       *handle.RawBuffer
	Dst       *handle.RawBuffer
	SrcOffset uint64
	DstOffset uint64
	Size      uint64
}

// BindProgram makes a program current.
type BindProgram struct {
	Program native.Program
}

// BindConstantBuffer binds a uniform buffer to a slot.
type BindConstantBuffer struct {
	Slot   uint32
	Buffer *handle.RawBuffer
}

// BindResourceView binds a shader resource view to a texture unit.
type BindResourceView struct {
	Slot uint32
	View *handle.RawView
}

// BindSampler binds a sampler to a texture unit. View, when set, is the
// texture the sampler parameters apply to on drivers without sampler
// objects.
type BindSampler struct {
	Slot    uint32
	Sampler *handle.RawSampler
	View    *handle.RawView
}

// BindFramebuffer binds a framebuffer; 0 is the default framebuffer.
type BindFramebuffer struct {
	Target      native.FramebufferTarget
	Framebuffer native.Framebuffer
}

func (BindIndexBuffer) command()    {}
func (Draw) command()               {}
func (DrawIndexed) command()        {}
func (Dispatch) command()           {}
func (DispatchIndirect) command()   {}
func (SetViewports) command()       {}
func (SetScissors) command()        {}
func (CopyBuffer) command()         {}
func (BindProgram) command()        {}
func (BindConstantBuffer) command() {}
func (BindResourceView) command()   {}
func (BindSampler) command()        {}
func (BindFramebuffer) command()    {}

func (c BindIndexBuffer) String() string {
	return fmt.Sprintf("BindIndexBuffer(%d)", c.Buffer.Name)
}

func (c Draw) String() string {
	if c.Instances != nil {
		return fmt.Sprintf("Draw(first=%d, count=%d, instances=%d+%d)",
			c.First, c.Count, c.Instances.Base, c.Instances.Count)
	}
	return fmt.Sprintf("Draw(first=%d, count=%d)", c.First, c.Count)
}

func (c DrawIndexed) String() string {
	if c.Instances != nil {
		return fmt.Sprintf("DrawIndexed(start=%d, count=%d, base=%d, instances=%d+%d)",
			c.Start, c.Count, c.BaseVertex, c.Instances.Base, c.Instances.Count)
	}
	return fmt.Sprintf("DrawIndexed(start=%d, count=%d, base=%d)", c.Start, c.Count, c.BaseVertex)
}

func (c Dispatch) String() string {
	return fmt.Sprintf("Dispatch(%d, %d, %d)", c.X, c.Y, c.Z)
}

func (c DispatchIndirect) String() string {
	return fmt.Sprintf("DispatchIndirect(%d, offset=%d)", c.Buffer.Name, c.Offset)
}

func (c SetViewports) String() string {
	return fmt.Sprintf("SetViewports(first=%d, n=%d)", c.First, c.Viewports.Len())
}

func (c SetScissors) String() string {
	return fmt.Sprintf("SetScissors(first=%d, n=%d)", c.First, c.Rects.Len())
}

func (c CopyBuffer) String() string {
	return fmt.Sprintf("CopyBuffer(%d+%d -> %d+%d, %d bytes)",
		c.Src.Name, c.SrcOffset, c.Dst.Name, c.DstOffset, c.Size)
}

func (c BindProgram) String() string {
	return fmt.Sprintf("BindProgram(%d)", c.Program)
}

func (c BindConstantBuffer) String() string {
	return fmt.Sprintf("BindConstantBuffer(slot=%d, %d)", c.Slot, c.Buffer.Name)
}

func (c BindResourceView) String() string {
	return fmt.Sprintf("BindResourceView(slot=%d, %s)", c.Slot, c.View.Info.Role)
}

func (c BindSampler) String() string {
	return fmt.Sprintf("BindSampler(slot=%d, %d)", c.Slot, c.Sampler.Name)
}

func (c BindFramebuffer) String() string {
	return fmt.Sprintf("BindFramebuffer(%d)", c.Framebuffer)
}
