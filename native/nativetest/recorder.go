// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package nativetest provides a recording implementation of native.Context
// for tests.
package nativetest

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/gogpu/gfxcore/native"
)

// Call is one recorded native call.
type Call struct {
	Name string
	Args []any
}

// String formats the call as Name(arg, arg).
func (c Call) String() string {
	s := c.Name + "("
	for i, a := range c.Args {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprint(a)
	}
	return s + ")"
}

// Recorder is a native.Context that records every call and emulates just
// enough driver state for the core to run: buffer storage and bindings,
// mappings and sync objects.
//
// GetError is not recorded as a call; ErrorChecks counts it instead.
//
// Recorder is safe for concurrent use.
type Recorder struct {
	mu sync.Mutex

	calls []Call

	// ErrorChecks counts GetError calls.
	ErrorChecks int

	pendingError native.ErrorCode
	failOn       map[string]native.ErrorCode

	nextName  uint32
	nextSync  native.Sync
	bound     map[native.Target]native.Buffer
	storage   map[native.Buffer][]byte
	mapped    map[native.Buffer]bool
	signaled  map[native.Sync]bool
	deleted   map[native.Sync]bool
	autoSync  bool
	refuseMap bool
}

// NewRecorder returns an empty recorder. Sync objects stay unsignaled until
// Signal or SignalAll is called, unless AutoSignal is enabled.
func NewRecorder() *Recorder {
	return &Recorder{
		failOn:   make(map[string]native.ErrorCode),
		bound:    make(map[native.Target]native.Buffer),
		storage:  make(map[native.Buffer][]byte),
		mapped:   make(map[native.Buffer]bool),
		signaled: make(map[native.Sync]bool),
		deleted:  make(map[native.Sync]bool),
	}
}

func (r *Recorder) record(name string, args ...any) {
	r.calls = append(r.calls, Call{Name: name, Args: args})
	if code, ok := r.failOn[name]; ok {
		r.pendingError = code
	}
}

// Calls returns a copy of the recorded calls.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.calls)
}

// Names returns the names of the recorded calls in order.
func (r *Recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.calls))
	for i, c := range r.calls {
		names[i] = c.Name
	}
	return names
}

// Count returns how many calls named name were recorded.
func (r *Recorder) Count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

// Find returns the recorded calls named name.
func (r *Recorder) Find(name string) []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Call
	for _, c := range r.calls {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Len returns the number of recorded calls.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// Reset forgets the recorded calls. Driver state is kept.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
	r.ErrorChecks = 0
}

// SetError raises the error flag; the next GetError returns code.
func (r *Recorder) SetError(code native.ErrorCode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pendingError = code
}

// FailOn raises the error flag with code whenever a call named name is made.
func (r *Recorder) FailOn(name string, code native.ErrorCode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failOn[name] = code
}

// AutoSignal makes every sync object signaled as soon as it is created.
func (r *Recorder) AutoSignal(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.autoSync = on
}

// RefuseMapping makes MapBufferRange return nil.
func (r *Recorder) RefuseMapping(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refuseMap = on
}

// Signal marks a sync object signaled.
func (r *Recorder) Signal(s native.Sync) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.signaled[s] = true
}

// SignalAll marks every sync object created so far signaled.
func (r *Recorder) SignalAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for s := native.Sync(1); s <= r.nextSync; s++ {
		r.signaled[s] = true
	}
}

// SyncDeleted reports whether DeleteSync was called for s.
func (r *Recorder) SyncDeleted(s native.Sync) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.deleted[s]
}

// Mapped reports whether buffer b is currently mapped.
func (r *Recorder) Mapped(b native.Buffer) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mapped[b]
}

// Storage returns the backing memory of buffer b.
func (r *Recorder) Storage(b native.Buffer) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.storage[b]
}

func (r *Recorder) genName() uint32 {
	r.nextName++
	return r.nextName
}

// GetError implements native.Context.
func (r *Recorder) GetError() native.ErrorCode {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ErrorChecks++
	code := r.pendingError
	r.pendingError = native.CodeNoError
	return code
}

// Enable implements native.Context.
func (r *Recorder) Enable(c native.Capability) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("Enable", c)
}

// PixelStore implements native.Context.
func (r *Recorder) PixelStore(p native.PixelStoreParam, value int32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("PixelStore", p, value)
}

// GenVertexArray implements native.Context.
func (r *Recorder) GenVertexArray() native.VertexArray {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := native.VertexArray(r.genName())
	r.record("GenVertexArray", v)
	return v
}

// BindVertexArray implements native.Context.
func (r *Recorder) BindVertexArray(v native.VertexArray) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("BindVertexArray", v)
}

// DeleteVertexArrays implements native.Context.
func (r *Recorder) DeleteVertexArrays(v ...native.VertexArray) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("DeleteVertexArrays", v)
}

// GenBuffer implements native.Context.
func (r *Recorder) GenBuffer() native.Buffer {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := native.Buffer(r.genName())
	r.record("GenBuffer", b)
	return b
}

// BindBuffer implements native.Context.
func (r *Recorder) BindBuffer(t native.Target, b native.Buffer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bound[t] = b
	r.record("BindBuffer", t, b)
}

// BindBufferBase implements native.Context.
func (r *Recorder) BindBufferBase(t native.Target, index uint32, b native.Buffer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bound[t] = b
	r.record("BindBufferBase", t, index, b)
}

// BufferStorage implements native.Context.
func (r *Recorder) BufferStorage(t native.Target, size uint64, access native.MapAccess) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storage[r.bound[t]] = make([]byte, size)
	r.record("BufferStorage", t, size, access)
}

// BufferData implements native.Context.
func (r *Recorder) BufferData(t native.Target, size uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storage[r.bound[t]] = make([]byte, size)
	r.record("BufferData", t, size)
}

// MapBufferRange implements native.Context.
func (r *Recorder) MapBufferRange(t native.Target, offset, size uint64, access native.MapAccess) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := r.bound[t]
	r.record("MapBufferRange", t, b, offset, size, access)
	mem := r.storage[b]
	if r.refuseMap || offset+size > uint64(len(mem)) {
		return nil
	}
	r.mapped[b] = true
	return mem[offset : offset+size : offset+size]
}

// FlushMappedBufferRange implements native.Context.
func (r *Recorder) FlushMappedBufferRange(t native.Target, offset, size uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("FlushMappedBufferRange", t, r.bound[t], offset, size)
}

// UnmapBuffer implements native.Context.
func (r *Recorder) UnmapBuffer(t native.Target) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := r.bound[t]
	r.record("UnmapBuffer", t, b)
	was := r.mapped[b]
	delete(r.mapped, b)
	return was
}

// CopyBufferSubData implements native.Context.
func (r *Recorder) CopyBufferSubData(read, write native.Target, readOffset, writeOffset, size uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	src, dst := r.storage[r.bound[read]], r.storage[r.bound[write]]
	if readOffset+size <= uint64(len(src)) && writeOffset+size <= uint64(len(dst)) {
		copy(dst[writeOffset:writeOffset+size], src[readOffset:readOffset+size])
	}
	r.record("CopyBufferSubData", read, write, readOffset, writeOffset, size)
}

// DeleteBuffers implements native.Context.
func (r *Recorder) DeleteBuffers(b ...native.Buffer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range b {
		delete(r.storage, name)
	}
	r.record("DeleteBuffers", b)
}

// ActiveTexture implements native.Context.
func (r *Recorder) ActiveTexture(unit uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("ActiveTexture", unit)
}

// BindTexture implements native.Context.
func (r *Recorder) BindTexture(bind native.TextureBind, t native.Texture) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("BindTexture", bind, t)
}

// TexParameters implements native.Context.
func (r *Recorder) TexParameters(bind native.TextureBind, info native.SamplerInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("TexParameters", bind, info)
}

// DeleteTextures implements native.Context.
func (r *Recorder) DeleteTextures(t ...native.Texture) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("DeleteTextures", t)
}

// DeleteRenderbuffers implements native.Context.
func (r *Recorder) DeleteRenderbuffers(s ...native.Surface) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("DeleteRenderbuffers", s)
}

// BindSampler implements native.Context.
func (r *Recorder) BindSampler(unit uint32, s native.Sampler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("BindSampler", unit, s)
}

// DeleteSamplers implements native.Context.
func (r *Recorder) DeleteSamplers(s ...native.Sampler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("DeleteSamplers", s)
}

// UseProgram implements native.Context.
func (r *Recorder) UseProgram(p native.Program) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("UseProgram", p)
}

// DeleteProgram implements native.Context.
func (r *Recorder) DeleteProgram(p native.Program) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("DeleteProgram", p)
}

// BindFramebuffer implements native.Context.
func (r *Recorder) BindFramebuffer(t native.FramebufferTarget, f native.Framebuffer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("BindFramebuffer", t, f)
}

// Viewport implements native.Context.
func (r *Recorder) Viewport(x, y, width, height int32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("Viewport", x, y, width, height)
}

// DepthRange implements native.Context.
func (r *Recorder) DepthRange(near, far float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("DepthRange", near, far)
}

// ViewportArray implements native.Context.
func (r *Recorder) ViewportArray(first uint32, viewports [][4]float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("ViewportArray", first, slices.Clone(viewports))
}

// DepthRangeArray implements native.Context.
func (r *Recorder) DepthRangeArray(first uint32, ranges [][2]float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("DepthRangeArray", first, slices.Clone(ranges))
}

// Scissor implements native.Context.
func (r *Recorder) Scissor(x, y, width, height int32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("Scissor", x, y, width, height)
}

// ScissorArray implements native.Context.
func (r *Recorder) ScissorArray(first uint32, rects [][4]int32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("ScissorArray", first, slices.Clone(rects))
}

// DrawArrays implements native.Context.
func (r *Recorder) DrawArrays(mode native.Primitive, first, count int32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("DrawArrays", mode, first, count)
}

// DrawArraysInstanced implements native.Context.
func (r *Recorder) DrawArraysInstanced(mode native.Primitive, first, count, instances int32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("DrawArraysInstanced", mode, first, count, instances)
}

// DrawArraysInstancedBaseInstance implements native.Context.
func (r *Recorder) DrawArraysInstancedBaseInstance(mode native.Primitive, first, count, instances int32, baseInstance uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("DrawArraysInstancedBaseInstance", mode, first, count, instances, baseInstance)
}

// DrawElements implements native.Context.
func (r *Recorder) DrawElements(mode native.Primitive, count int32, typ native.IndexType, offset uintptr) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("DrawElements", mode, count, typ, offset)
}

// DrawElementsBaseVertex implements native.Context.
func (r *Recorder) DrawElementsBaseVertex(mode native.Primitive, count int32, typ native.IndexType, offset uintptr, baseVertex int32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("DrawElementsBaseVertex", mode, count, typ, offset, baseVertex)
}

// DrawElementsInstanced implements native.Context.
func (r *Recorder) DrawElementsInstanced(mode native.Primitive, count int32, typ native.IndexType, offset uintptr, instances int32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("DrawElementsInstanced", mode, count, typ, offset, instances)
}

// DrawElementsInstancedBaseVertex implements native.Context.
func (r *Recorder) DrawElementsInstancedBaseVertex(mode native.Primitive, count int32, typ native.IndexType, offset uintptr, instances, baseVertex int32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("DrawElementsInstancedBaseVertex", mode, count, typ, offset, instances, baseVertex)
}

// DrawElementsInstancedBaseVertexBaseInstance implements native.Context.
func (r *Recorder) DrawElementsInstancedBaseVertexBaseInstance(mode native.Primitive, count int32, typ native.IndexType, offset uintptr, instances, baseVertex int32, baseInstance uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("DrawElementsInstancedBaseVertexBaseInstance", mode, count, typ, offset, instances, baseVertex, baseInstance)
}

// DispatchCompute implements native.Context.
func (r *Recorder) DispatchCompute(x, y, z uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("DispatchCompute", x, y, z)
}

// DispatchComputeIndirect implements native.Context.
func (r *Recorder) DispatchComputeIndirect(offset uintptr) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("DispatchComputeIndirect", offset)
}

// MemoryBarrier implements native.Context.
func (r *Recorder) MemoryBarrier(bits native.BarrierBits) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("MemoryBarrier", bits)
}

// FenceSync implements native.Context.
func (r *Recorder) FenceSync() native.Sync {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextSync++
	s := r.nextSync
	if r.autoSync {
		r.signaled[s] = true
	}
	r.record("FenceSync", s)
	return s
}

// ClientWaitSync implements native.Context.
func (r *Recorder) ClientWaitSync(s native.Sync, flush bool, timeout time.Duration) native.WaitResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("ClientWaitSync", s, flush, timeout)
	switch {
	case r.deleted[s] || s == 0:
		return native.WaitFailed
	case r.signaled[s]:
		return native.WaitAlreadySignaled
	default:
		return native.WaitTimeoutExpired
	}
}

// DeleteSync implements native.Context.
func (r *Recorder) DeleteSync(s native.Sync) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted[s] = true
	r.record("DeleteSync", s)
}

var _ native.Context = (*Recorder)(nil)
