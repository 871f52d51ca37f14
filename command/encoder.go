// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package command

import (
	"errors"
	"fmt"

	"github.com/gogpu/gfxcore/handle"
	"github.com/gogpu/gfxcore/native"
	"github.com/gogpu/gputypes"
)

// ErrEncoderFinished is returned when recording into a finished encoder.
var ErrEncoderFinished = errors.New("command: encoder already finished")

// Encoder records commands into a Buffer.
//
// Every resource an encoded command uses is referenced into the buffer's
// handle set, and every mapped buffer it touches is recorded in the
// buffer's access info. The first recording error is kept and returned by
// Finish; later commands are dropped.
//
// Encoder is not safe for concurrent use.
type Encoder struct {
	buf *Buffer
	err error
}

// NewEncoder returns an empty encoder.
func NewEncoder() *Encoder {
	return &Encoder{buf: &Buffer{handles: handle.NewManager()}}
}

func (e *Encoder) push(c Command) {
	if e.err != nil {
		return
	}
	e.buf.cmds = append(e.buf.cmds, c)
}

func (e *Encoder) fail(format string, args ...any) {
	if e.err == nil {
		e.err = fmt.Errorf("%w: %s", ErrInvalidCommand, fmt.Sprintf(format, args...))
	}
}

func (e *Encoder) ok() bool {
	if e.buf == nil {
		e.err = ErrEncoderFinished
	}
	return e.err == nil
}

// BindIndexBuffer binds b as the index buffer.
func (e *Encoder) BindIndexBuffer(b *handle.Buffer) {
	if !e.ok() {
		return
	}
	raw := e.buf.handles.RefBuffer(b)
	e.buf.access.AddRead(raw)
	e.push(BindIndexBuffer{Buffer: raw})
}

// Draw records a non-instanced draw.
func (e *Encoder) Draw(topology gputypes.PrimitiveTopology, first, count uint32) {
	if !e.ok() {
		return
	}
	e.push(Draw{Topology: topology, First: first, Count: count})
}

// DrawInstanced records an instanced draw.
func (e *Encoder) DrawInstanced(topology gputypes.PrimitiveTopology, first, count uint32, inst Instances) {
	if !e.ok() {
		return
	}
	e.push(Draw{Topology: topology, First: first, Count: count, Instances: &inst})
}

// DrawIndexed records an indexed draw. inst is nil for a non-instanced
// draw.
func (e *Encoder) DrawIndexed(topology gputypes.PrimitiveTopology, format gputypes.IndexFormat, start, count uint32, baseVertex int32, inst *Instances) {
	if !e.ok() {
		return
	}
	e.push(DrawIndexed{
		Topology:    topology,
		IndexFormat: format,
		Start:       start,
		Count:       count,
		BaseVertex:  baseVertex,
		Instances:   inst,
	})
}

// Dispatch records a compute dispatch.
func (e *Encoder) Dispatch(x, y, z uint32) {
	if !e.ok() {
		return
	}
	e.push(Dispatch{X: x, Y: y, Z: z})
}

// DispatchIndirect records a compute dispatch whose grid is read from b.
func (e *Encoder) DispatchIndirect(b *handle.Buffer, offset uint64) {
	if !e.ok() {
		return
	}
	raw := e.buf.handles.RefBuffer(b)
	if size := raw.Info.Size; size < 12 || offset > size-12 {
		e.fail("dispatch arguments at %d exceed %s size %d", offset, raw, raw.Info.Size)
		return
	}
	e.buf.access.AddRead(raw)
	e.push(DispatchIndirect{Buffer: raw, Offset: offset})
}

// SetViewports records viewports for slots first onwards.
func (e *Encoder) SetViewports(first uint32, vs ...Viewport) {
	if !e.ok() {
		return
	}
	if len(vs) == 0 {
		e.fail("no viewports")
		return
	}
	vr, dr := e.buf.data.addViewports(vs)
	e.push(SetViewports{First: first, Viewports: vr, DepthRanges: dr})
}

// SetScissors records scissor rectangles for slots first onwards.
func (e *Encoder) SetScissors(first uint32, rs ...Rect) {
	if !e.ok() {
		return
	}
	if len(rs) == 0 {
		e.fail("no scissor rectangles")
		return
	}
	e.push(SetScissors{First: first, Rects: e.buf.data.addScissors(rs)})
}

// CopyBuffer records a copy of size bytes from src to dst.
func (e *Encoder) CopyBuffer(src, dst *handle.Buffer, srcOffset, dstOffset, size uint64) {
	if !e.ok() {
		return
	}
	s := e.buf.handles.RefBuffer(src)
	d := e.buf.handles.RefBuffer(dst)
	switch {
	case size == 0:
		e.fail("empty copy from %s", s)
		return
	case size > s.Info.Size || srcOffset > s.Info.Size-size:
		e.fail("copy of %d bytes at %d exceeds source %s size %d", size, srcOffset, s, s.Info.Size)
		return
	case size > d.Info.Size || dstOffset > d.Info.Size-size:
		e.fail("copy of %d bytes at %d exceeds destination %s size %d", size, dstOffset, d, d.Info.Size)
		return
	}
	e.buf.access.AddRead(s)
	e.buf.access.AddWrite(d)
	e.push(CopyBuffer{Src: s, Dst: d, SrcOffset: srcOffset, DstOffset: dstOffset, Size: size})
}

// BindProgram makes p current.
func (e *Encoder) BindProgram(p *handle.Program) {
	if !e.ok() {
		return
	}
	e.push(BindProgram{Program: e.buf.handles.RefProgram(p).Name})
}

// BindPipeline makes the program of pipeline p current.
func (e *Encoder) BindPipeline(p *handle.Pipeline) {
	if !e.ok() {
		return
	}
	raw := e.buf.handles.RefPipeline(p)
	e.push(BindProgram{Program: raw.Program().Name})
}

// BindConstantBuffer binds b as the uniform buffer of slot.
func (e *Encoder) BindConstantBuffer(slot uint32, b *handle.Buffer) {
	if !e.ok() {
		return
	}
	raw := e.buf.handles.RefBuffer(b)
	e.buf.access.AddRead(raw)
	e.push(BindConstantBuffer{Slot: slot, Buffer: raw})
}

// BindResourceView binds v to texture unit slot.
func (e *Encoder) BindResourceView(slot uint32, v *handle.View) {
	if !e.ok() {
		return
	}
	raw := e.buf.handles.RefView(v)
	if raw.Info.Role != handle.ViewShaderResource {
		e.fail("%s view bound as shader resource", raw.Info.Role)
		return
	}
	if b := raw.SourceBuffer(); b != nil {
		e.buf.access.AddRead(b)
	}
	e.push(BindResourceView{Slot: slot, View: raw})
}

// BindSampler binds s to texture unit slot. v, which may be nil, names the
// texture the sampler applies to.
func (e *Encoder) BindSampler(slot uint32, s *handle.Sampler, v *handle.View) {
	if !e.ok() {
		return
	}
	c := BindSampler{Slot: slot, Sampler: e.buf.handles.RefSampler(s)}
	if v != nil {
		c.View = e.buf.handles.RefView(v)
	}
	e.push(c)
}

// BindFramebuffer binds framebuffer fb to target.
func (e *Encoder) BindFramebuffer(target native.FramebufferTarget, fb native.Framebuffer) {
	if !e.ok() {
		return
	}
	e.push(BindFramebuffer{Target: target, Framebuffer: fb})
}

// Finish returns the recorded buffer. On a recording error the buffer's
// handles are released and the error is returned.
func (e *Encoder) Finish() (*Buffer, error) {
	if e.buf == nil {
		return nil, ErrEncoderFinished
	}
	buf := e.buf
	e.buf = nil
	if e.err != nil {
		buf.Release()
		return nil, e.err
	}
	return buf, nil
}
