// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package queue

import (
	"bytes"
	"fmt"

	"github.com/gogpu/gfxcore/command"
	"github.com/gogpu/gfxcore/handle"
	"github.com/gogpu/gfxcore/native"
)

// process executes one command. The state must have been reset for the
// current command buffer.
func (q *Queue) process(c command.Command, data *command.DataBuffer) error {
	f := q.caps.Features
	switch c := c.(type) {
	case command.BindIndexBuffer:
		q.gl.BindBuffer(native.TargetElementArray, c.Buffer.Name)
		q.state.setIndex(c.Buffer.Name)
	case command.Draw:
		if c.Instances == nil {
			dispatch(q.gl, f, "draw", drawPlain, c)
		} else {
			dispatch(q.gl, f, "instanced draw", drawInstanced, c)
		}
	case command.DrawIndexed:
		if c.Instances == nil {
			dispatch(q.gl, f, "indexed draw", drawIndexedPlain, c)
		} else {
			dispatch(q.gl, f, "instanced indexed draw", drawIndexedInstanced, c)
		}
	case command.Dispatch:
		q.gl.DispatchCompute(c.X, c.Y, c.Z)
	case command.DispatchIndirect:
		q.gl.BindBuffer(native.TargetDispatchIndirect, c.Buffer.Name)
		q.gl.DispatchComputeIndirect(uintptr(c.Offset))
	case command.SetViewports:
		return q.setViewports(c, data)
	case command.SetScissors:
		return q.setScissors(c, data)
	case command.CopyBuffer:
		return q.copyBuffer(c)
	case command.BindProgram:
		q.gl.UseProgram(c.Program)
	case command.BindConstantBuffer:
		q.gl.BindBufferBase(native.TargetUniform, c.Slot, c.Buffer.Name)
	case command.BindResourceView:
		q.bindResourceView(c)
	case command.BindSampler:
		q.bindSampler(c)
	case command.BindFramebuffer:
		if !q.caps.PrivateCaps.FrameBuffer {
			if c.Framebuffer != 0 {
				slogger().Error("gfxcore queue: framebuffer objects unsupported", "framebuffer", c.Framebuffer)
			}
			return nil
		}
		q.gl.BindFramebuffer(c.Target, c.Framebuffer)
	default:
		return fmt.Errorf("%w: unknown command %T", command.ErrInvalidCommand, c)
	}
	return nil
}

func (q *Queue) checkSlots(what string, first uint32, n int) error {
	limit := q.caps.Limits.MaxViewports
	if n == 0 || int(first)+n > limit {
		return fmt.Errorf("%w: %d %s from slot %d, limit %d", command.ErrInvalidCommand, n, what, first, limit)
	}
	return nil
}

func (q *Queue) setViewports(c command.SetViewports, data *command.DataBuffer) error {
	vps := data.Viewports(c.Viewports)
	depths := data.DepthRanges(c.DepthRanges)
	if err := q.checkSlots("viewports", c.First, len(vps)); err != nil {
		return err
	}
	if len(vps) == 1 && c.First == 0 {
		v := vps[0]
		q.gl.Viewport(int32(v[0]), int32(v[1]), int32(v[2]), int32(v[3]))
		q.gl.DepthRange(depths[0][0], depths[0][1])
	} else {
		q.gl.ViewportArray(c.First, vps)
		q.gl.DepthRangeArray(c.First, depths)
	}
	q.state.numViewports = max(q.state.numViewports, int(c.First)+len(vps))
	return nil
}

func (q *Queue) setScissors(c command.SetScissors, data *command.DataBuffer) error {
	rects := data.Scissors(c.Rects)
	if err := q.checkSlots("scissors", c.First, len(rects)); err != nil {
		return err
	}
	if len(rects) == 1 && c.First == 0 {
		r := rects[0]
		q.gl.Scissor(r[0], r[1], r[2], r[3])
	} else {
		q.gl.ScissorArray(c.First, rects)
	}
	q.state.numScissors = max(q.state.numScissors, int(c.First)+len(rects))
	return nil
}

func (q *Queue) copyBuffer(c command.CopyBuffer) error {
	if q.caps.PrivateCaps.CopyBuffer {
		q.gl.BindBuffer(native.TargetCopyRead, c.Src.Name)
		q.gl.BindBuffer(native.TargetCopyWrite, c.Dst.Name)
		q.gl.CopyBufferSubData(native.TargetCopyRead, native.TargetCopyWrite, c.SrcOffset, c.DstOffset, c.Size)
		return nil
	}

	// No copy entry point: stage through client memory.
	src, err := q.mapRange(c.Src, c.SrcOffset, c.Size, native.MapRead)
	if err != nil {
		return err
	}
	staged := bytes.Clone(src)
	q.gl.UnmapBuffer(c.Src.Target)

	dst, err := q.mapRange(c.Dst, c.DstOffset, c.Size, native.MapWrite)
	if err != nil {
		return err
	}
	copy(dst, staged)
	q.gl.UnmapBuffer(c.Dst.Target)
	return nil
}

// mapRange binds b and maps a window of it for the duration of one
// operation.
func (q *Queue) mapRange(b *handle.RawBuffer, offset, size uint64, access native.MapAccess) ([]byte, error) {
	t := q.bindScratch(b)
	ptr := q.gl.MapBufferRange(t, offset, size, access)
	if ptr == nil {
		return nil, fmt.Errorf("%w: %s [%d, %d)", ErrMapFailed, b, offset, offset+size)
	}
	return ptr, nil
}

func (q *Queue) bindResourceView(c command.BindResourceView) {
	v := c.View
	if v.Image.Kind != handle.ImageTexture {
		slogger().Error("gfxcore queue: renderbuffer bound as shader resource", "slot", c.Slot)
		return
	}
	q.gl.ActiveTexture(c.Slot)
	q.gl.BindTexture(v.Info.Bind, v.Image.Texture)
}

func (q *Queue) bindSampler(c command.BindSampler) {
	s := c.Sampler
	if q.caps.PrivateCaps.SamplerObjects && s.Name != 0 {
		q.gl.BindSampler(c.Slot, s.Name)
		return
	}
	if c.View == nil || c.View.Image.Kind != handle.ImageTexture {
		slogger().Error("gfxcore queue: sampler parameters need a texture", "slot", c.Slot)
		return
	}
	q.gl.ActiveTexture(c.Slot)
	q.gl.BindTexture(c.View.Info.Bind, c.View.Image.Texture)
	q.gl.TexParameters(c.View.Info.Bind, s.Info)
}
