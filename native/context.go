// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"time"

	"github.com/gogpu/gputypes"
)

// SamplerInfo carries sampler parameters. Drivers without sampler objects
// receive them through Context.TexParameters on the bound texture instead.
type SamplerInfo struct {
	MagFilter    gputypes.FilterMode
	MinFilter    gputypes.FilterMode
	MipmapFilter gputypes.FilterMode
	AddressModeU gputypes.AddressMode
	AddressModeV gputypes.AddressMode
	AddressModeW gputypes.AddressMode
	LodMinClamp  float32
	LodMaxClamp  float32
}

// Context is the native call surface of one driver context.
//
// All methods are called from the goroutine that owns the device queue;
// implementations need no internal locking. Calls mirror their OpenGL
// counterparts one to one, so an implementation over a GL binding is a thin
// forwarding layer.
type Context interface {
	// GetError returns and clears the driver error flag.
	GetError() ErrorCode

	Enable(c Capability)
	PixelStore(p PixelStoreParam, value int32)

	GenVertexArray() VertexArray
	BindVertexArray(v VertexArray)
	DeleteVertexArrays(v ...VertexArray)

	GenBuffer() Buffer
	BindBuffer(t Target, b Buffer)
	BindBufferBase(t Target, index uint32, b Buffer)
	BufferStorage(t Target, size uint64, access MapAccess)
	BufferData(t Target, size uint64)
	// MapBufferRange returns a CPU-visible window over the bound buffer,
	// or nil when the driver refused the mapping.
	MapBufferRange(t Target, offset, size uint64, access MapAccess) []byte
	FlushMappedBufferRange(t Target, offset, size uint64)
	UnmapBuffer(t Target) bool
	CopyBufferSubData(read, write Target, readOffset, writeOffset, size uint64)
	DeleteBuffers(b ...Buffer)

	ActiveTexture(unit uint32)
	BindTexture(bind TextureBind, t Texture)
	TexParameters(bind TextureBind, info SamplerInfo)
	DeleteTextures(t ...Texture)
	DeleteRenderbuffers(s ...Surface)

	BindSampler(unit uint32, s Sampler)
	DeleteSamplers(s ...Sampler)

	UseProgram(p Program)
	DeleteProgram(p Program)

	BindFramebuffer(t FramebufferTarget, f Framebuffer)

	Viewport(x, y, width, height int32)
	DepthRange(near, far float64)
	ViewportArray(first uint32, viewports [][4]float32)
	DepthRangeArray(first uint32, ranges [][2]float64)
	Scissor(x, y, width, height int32)
	ScissorArray(first uint32, rects [][4]int32)

	DrawArrays(mode Primitive, first, count int32)
	DrawArraysInstanced(mode Primitive, first, count, instances int32)
	DrawArraysInstancedBaseInstance(mode Primitive, first, count, instances int32, baseInstance uint32)
	DrawElements(mode Primitive, count int32, typ IndexType, offset uintptr)
	DrawElementsBaseVertex(mode Primitive, count int32, typ IndexType, offset uintptr, baseVertex int32)
	DrawElementsInstanced(mode Primitive, count int32, typ IndexType, offset uintptr, instances int32)
	DrawElementsInstancedBaseVertex(mode Primitive, count int32, typ IndexType, offset uintptr, instances, baseVertex int32)
	DrawElementsInstancedBaseVertexBaseInstance(mode Primitive, count int32, typ IndexType, offset uintptr, instances, baseVertex int32, baseInstance uint32)

	DispatchCompute(x, y, z uint32)
	DispatchComputeIndirect(offset uintptr)

	MemoryBarrier(bits BarrierBits)
	FenceSync() Sync
	// ClientWaitSync blocks for at most timeout. A zero timeout polls.
	ClientWaitSync(s Sync, flush bool, timeout time.Duration) WaitResult
	DeleteSync(s Sync)
}
