// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package queue

import (
	"github.com/gogpu/gfxcore/command"
	"github.com/gogpu/gfxcore/native"
)

// strategy is one native entry point able to execute a command of type C.
// run returns a non-empty reason when the command does not fit the entry
// point; nothing is issued in that case.
type strategy[C any] struct {
	needs native.Features
	call  string
	run   func(gl native.Context, c C) string
}

// pick returns the first strategy the driver supports. Order within a
// table is the fallback order.
func pick[C any](table []strategy[C], f native.Features) (strategy[C], bool) {
	for _, s := range table {
		if f.Has(s.needs) {
			return s, true
		}
	}
	return strategy[C]{}, false
}

// dispatch runs c through the first supported strategy of table, logging
// rejections and missing features.
func dispatch[C command.Command](gl native.Context, f native.Features, what string, table []strategy[C], c C) {
	s, ok := pick(table, f)
	if !ok {
		slogger().Error("gfxcore queue: "+what+" unsupported", "command", c.String(), "features", f.String())
		return
	}
	if reason := s.run(gl, c); reason != "" {
		slogger().Error("gfxcore queue: "+what+" rejected", "call", s.call, "reason", reason, "command", c.String())
	}
}

const (
	reasonBaseInstance = "base instance unsupported"
	reasonBaseVertex   = "base vertex unsupported"
)

var drawPlain = []strategy[command.Draw]{
	{call: "DrawArrays", run: func(gl native.Context, c command.Draw) string {
		gl.DrawArrays(native.PrimitiveFromTopology(c.Topology), int32(c.First), int32(c.Count))
		return ""
	}},
}

var drawInstanced = []strategy[command.Draw]{
	{needs: native.FeatureDrawInstancedBase, call: "DrawArraysInstancedBaseInstance", run: func(gl native.Context, c command.Draw) string {
		gl.DrawArraysInstancedBaseInstance(native.PrimitiveFromTopology(c.Topology),
			int32(c.First), int32(c.Count), int32(c.Instances.Count), c.Instances.Base)
		return ""
	}},
	{needs: native.FeatureDrawInstanced, call: "DrawArraysInstanced", run: func(gl native.Context, c command.Draw) string {
		if c.Instances.Base != 0 {
			return reasonBaseInstance
		}
		gl.DrawArraysInstanced(native.PrimitiveFromTopology(c.Topology),
			int32(c.First), int32(c.Count), int32(c.Instances.Count))
		return ""
	}},
}

// indexArgs converts the portable index range to native arguments.
func indexArgs(c command.DrawIndexed) (native.Primitive, int32, native.IndexType, uintptr) {
	typ := native.IndexTypeFromFormat(c.IndexFormat)
	return native.PrimitiveFromTopology(c.Topology), int32(c.Count), typ, uintptr(c.Start) * uintptr(typ.Size())
}

var drawIndexedPlain = []strategy[command.DrawIndexed]{
	{needs: native.FeatureDrawIndexedBase, call: "DrawElementsBaseVertex", run: func(gl native.Context, c command.DrawIndexed) string {
		mode, count, typ, offset := indexArgs(c)
		gl.DrawElementsBaseVertex(mode, count, typ, offset, c.BaseVertex)
		return ""
	}},
	{call: "DrawElements", run: func(gl native.Context, c command.DrawIndexed) string {
		if c.BaseVertex != 0 {
			return reasonBaseVertex
		}
		mode, count, typ, offset := indexArgs(c)
		gl.DrawElements(mode, count, typ, offset)
		return ""
	}},
}

var drawIndexedInstanced = []strategy[command.DrawIndexed]{
	{needs: native.FeatureDrawIndexedInstancedBase, call: "DrawElementsInstancedBaseVertexBaseInstance", run: func(gl native.Context, c command.DrawIndexed) string {
		mode, count, typ, offset := indexArgs(c)
		gl.DrawElementsInstancedBaseVertexBaseInstance(mode, count, typ, offset,
			int32(c.Instances.Count), c.BaseVertex, c.Instances.Base)
		return ""
	}},
	{needs: native.FeatureDrawIndexedInstancedBaseVertex, call: "DrawElementsInstancedBaseVertex", run: func(gl native.Context, c command.DrawIndexed) string {
		if c.Instances.Base != 0 {
			return reasonBaseInstance
		}
		mode, count, typ, offset := indexArgs(c)
		gl.DrawElementsInstancedBaseVertex(mode, count, typ, offset, int32(c.Instances.Count), c.BaseVertex)
		return ""
	}},
	{needs: native.FeatureDrawIndexedInstanced, call: "DrawElementsInstanced", run: func(gl native.Context, c command.DrawIndexed) string {
		switch {
		case c.BaseVertex != 0:
			return reasonBaseVertex
		case c.Instances.Base != 0:
			return reasonBaseInstance
		}
		mode, count, typ, offset := indexArgs(c)
		gl.DrawElementsInstanced(mode, count, typ, offset, int32(c.Instances.Count))
		return ""
	}},
}
