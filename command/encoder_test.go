// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package command

import (
	"errors"
	"math"
	"testing"

	"github.com/gogpu/gfxcore/handle"
	"github.com/gogpu/gfxcore/native"
	"github.com/gogpu/gputypes"
)

func newMapped(m *handle.Manager, name native.Buffer, size uint64) *handle.Buffer {
	mp := handle.NewMapping(handle.MappingPersistent, native.MapWrite, make([]byte, size))
	return m.CreateBuffer(name, handle.BufferInfo{Size: size, Usage: gputypes.BufferUsageMapWrite | gputypes.BufferUsageCopySrc}, mp)
}

func TestEncoderRecordsCommands(t *testing.T) {
	m := handle.NewManager()
	idx := m.CreateBuffer(1, handle.BufferInfo{Size: 64, Usage: gputypes.BufferUsageIndex}, nil)
	defer idx.Release()

	e := NewEncoder()
	e.BindIndexBuffer(idx)
	e.SetViewports(0, Viewport{Width: 640, Height: 480, MaxDepth: 1})
	e.SetScissors(0, Rect{Width: 640, Height: 480}, Rect{X: 10, Width: 20, Height: 20})
	e.DrawIndexed(gputypes.PrimitiveTopologyTriangleList, gputypes.IndexFormatUint16, 0, 6, 0, nil)
	e.Dispatch(8, 8, 1)
	buf, err := e.Finish()
	if err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
	defer buf.Release()

	if got := buf.Len(); got != 5 {
		t.Fatalf("Len() = %d, want 5", got)
	}
	if _, ok := buf.Commands()[0].(BindIndexBuffer); !ok {
		t.Errorf("command[0] = %T, want BindIndexBuffer", buf.Commands()[0])
	}
	sv := buf.Commands()[1].(SetViewports)
	if got := buf.Data().Viewports(sv.Viewports); len(got) != 1 || got[0] != [4]float32{0, 0, 640, 480} {
		t.Errorf("Viewports() = %v, want [[0 0 640 480]]", got)
	}
	if got := buf.Data().DepthRanges(sv.DepthRanges); got[0] != [2]float64{0, 1} {
		t.Errorf("DepthRanges() = %v, want [[0 1]]", got)
	}
	ss := buf.Commands()[2].(SetScissors)
	if got := buf.Data().Scissors(ss.Rects); len(got) != 2 || got[1] != [4]int32{10, 0, 20, 20} {
		t.Errorf("Scissors() = %v", got)
	}
	if got := buf.Handles().Count(); got != 1 {
		t.Errorf("Handles().Count() = %d, want 1", got)
	}
	if got := buf.Access().Len(); got != 0 {
		t.Errorf("Access().Len() = %d, want 0 for unmapped buffers", got)
	}
}

func TestEncoderRecordsMappedAccess(t *testing.T) {
	m := handle.NewManager()
	upload := newMapped(m, 1, 256)
	readback := newMapped(m, 2, 256)
	defer upload.Release()
	defer readback.Release()

	e := NewEncoder()
	e.CopyBuffer(upload, readback, 0, 0, 128)
	e.BindConstantBuffer(0, upload)
	buf, err := e.Finish()
	if err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
	defer buf.Release()

	acc := buf.Access()
	if acc.Len() != 2 {
		t.Fatalf("Access().Len() = %d, want 2", acc.Len())
	}
	if acc.Written(0) || !acc.Written(1) {
		t.Errorf("Written() = [%v %v], want [false true]", acc.Written(0), acc.Written(1))
	}
	if !acc.HasReads() || !acc.HasWrites() {
		t.Errorf("HasReads/HasWrites = %v/%v, want true/true", acc.HasReads(), acc.HasWrites())
	}
}

func TestEncoderInvalidCommands(t *testing.T) {
	m := handle.NewManager()
	small := m.CreateBuffer(1, handle.BufferInfo{Size: 8}, nil)
	big := m.CreateBuffer(2, handle.BufferInfo{Size: 64}, nil)
	defer small.Release()
	defer big.Release()

	tests := []struct {
		name   string
		record func(e *Encoder)
	}{
		{"no viewports", func(e *Encoder) { e.SetViewports(0) }},
		{"no scissors", func(e *Encoder) { e.SetScissors(0) }},
		{"empty copy", func(e *Encoder) { e.CopyBuffer(big, small, 0, 0, 0) }},
		{"copy overflows destination", func(e *Encoder) { e.CopyBuffer(big, small, 0, 0, 16) }},
		{"indirect overflow", func(e *Encoder) { e.DispatchIndirect(small, 0) }},
		{"copy source offset wraps", func(e *Encoder) { e.CopyBuffer(big, big, math.MaxUint64-3, 0, 8) }},
		{"copy destination offset wraps", func(e *Encoder) { e.CopyBuffer(big, big, 0, math.MaxUint64-3, 8) }},
		{"copy size wraps", func(e *Encoder) { e.CopyBuffer(big, big, 8, 0, math.MaxUint64) }},
		{"indirect offset wraps", func(e *Encoder) { e.DispatchIndirect(big, math.MaxUint64-7) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEncoder()
			tt.record(e)
			e.Dispatch(1, 1, 1)
			buf, err := e.Finish()
			if !errors.Is(err, ErrInvalidCommand) {
				t.Fatalf("Finish() error = %v, want ErrInvalidCommand", err)
			}
			if buf != nil {
				t.Error("Finish() returned a buffer alongside an error")
			}
		})
	}
	if got := small.Refs(); got != 2 {
		t.Errorf("Refs() after failed encodes = %d, want 2", got)
	}
}

func TestEncoderFinishTwice(t *testing.T) {
	e := NewEncoder()
	if _, err := e.Finish(); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
	e.Dispatch(1, 1, 1)
	if _, err := e.Finish(); !errors.Is(err, ErrEncoderFinished) {
		t.Errorf("second Finish() error = %v, want ErrEncoderFinished", err)
	}
}

func TestEncoderBindPipelineReferencesProgram(t *testing.T) {
	m := handle.NewManager()
	prog := m.CreateProgram(12)
	pipe := m.CreatePipeline(prog, handle.PipelineInfo{})
	prog.Release()
	defer pipe.Release()

	e := NewEncoder()
	e.BindPipeline(pipe)
	buf, _ := e.Finish()
	if got := buf.Commands()[0].(BindProgram).Program; got != 12 {
		t.Errorf("BindProgram.Program = %d, want 12", got)
	}
	if got := buf.Handles().CountOf(handle.KindProgram); got != 1 {
		t.Errorf("CountOf(program) = %d, want 1", got)
	}
	buf.Release()
	if got := buf.Handles().Count(); got != 0 {
		t.Errorf("Count() after Release = %d, want 0", got)
	}
}

func TestAccessInfoMerge(t *testing.T) {
	m := handle.NewManager()
	a := newMapped(m, 1, 16)
	b := newMapped(m, 2, 16)
	defer a.Release()
	defer b.Release()

	var x, y AccessInfo
	x.AddRead(a.Get())
	y.AddWrite(a.Get())
	y.AddRead(b.Get())
	x.AddRead(nil)
	x.Merge(&y)

	if x.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", x.Len())
	}
	if x.Buffers()[0] != a.Get() || !x.Written(0) {
		t.Errorf("first entry = (%v, written=%v), want buffer 1 upgraded to write", x.Buffers()[0], x.Written(0))
	}
	if x.Written(1) {
		t.Error("second entry written, want read")
	}
}

func TestCommandStrings(t *testing.T) {
	tests := []struct {
		cmd  Command
		want string
	}{
		{Draw{First: 1, Count: 3}, "Draw(first=1, count=3)"},
		{Draw{Count: 3, Instances: &Instances{Count: 2, Base: 1}}, "Draw(first=0, count=3, instances=1+2)"},
		{Dispatch{X: 1, Y: 2, Z: 3}, "Dispatch(1, 2, 3)"},
		{BindFramebuffer{Framebuffer: 4}, "BindFramebuffer(4)"},
	}
	for _, tt := range tests {
		if got := tt.cmd.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
