// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package native describes the stateful driver surface that gfxcore replays
// commands against, and the capability table detected for it.
//
// Object names follow the OpenGL convention: a name of 0 denotes "none"
// (or, for surfaces and framebuffers, the default framebuffer).
package native

// Buffer is the driver name of a buffer object.
type Buffer uint32

// Texture is the driver name of a texture object.
type Texture uint32

// Surface is the driver name of a renderbuffer.
type Surface uint32

// Sampler is the driver name of a sampler object.
type Sampler uint32

// Program is the driver name of a linked program.
type Program uint32

// VertexArray is the driver name of a vertex array object.
type VertexArray uint32

// Framebuffer is the driver name of a framebuffer object.
type Framebuffer uint32

// Sync is an opaque driver sync object. The zero value is "no sync".
type Sync uintptr

// Target is a buffer binding point.
type Target uint32

// Buffer binding points.
const (
	TargetArray Target = iota
	TargetElementArray
	TargetUniform
	TargetDrawIndirect
	TargetDispatchIndirect
	TargetCopyRead
	TargetCopyWrite
	TargetTexture
)

// String returns the binding point name.
func (t Target) String() string {
	switch t {
	case TargetArray:
		return "ARRAY_BUFFER"
	case TargetElementArray:
		return "ELEMENT_ARRAY_BUFFER"
	case TargetUniform:
		return "UNIFORM_BUFFER"
	case TargetDrawIndirect:
		return "DRAW_INDIRECT_BUFFER"
	case TargetDispatchIndirect:
		return "DISPATCH_INDIRECT_BUFFER"
	case TargetCopyRead:
		return "COPY_READ_BUFFER"
	case TargetCopyWrite:
		return "COPY_WRITE_BUFFER"
	case TargetTexture:
		return "TEXTURE_BUFFER"
	default:
		return "UNKNOWN_TARGET"
	}
}

// Primitive is a primitive assembly mode.
type Primitive uint32

// Primitive modes.
const (
	PrimitivePoints Primitive = iota
	PrimitiveLines
	PrimitiveLineStrip
	PrimitiveTriangles
	PrimitiveTriangleStrip
)

// IndexType is the element type of an index buffer.
type IndexType uint32

// Index element types.
const (
	IndexUint16 IndexType = iota
	IndexUint32
)

// Size returns the size of one index in bytes.
func (t IndexType) Size() uint64 {
	if t == IndexUint32 {
		return 4
	}
	return 2
}

// TextureBind is the texture target a texture or view binds to.
type TextureBind uint32

// Texture bind targets.
const (
	TextureBind1D TextureBind = iota
	TextureBind2D
	TextureBind2DArray
	TextureBind3D
	TextureBindCube
	TextureBindBuffer
)

// MapAccess is a bit set of buffer mapping flags.
type MapAccess uint32

// Buffer mapping flags.
const (
	MapRead MapAccess = 1 << iota
	MapWrite
	MapPersistent
	MapCoherent
	MapFlushExplicit
)

// Has reports whether all bits of f are set in a.
func (a MapAccess) Has(f MapAccess) bool { return a&f == f }

// BarrierBits is a bit set of memory barrier scopes.
type BarrierBits uint32

// Memory barrier scopes.
const (
	BarrierClientMappedBuffer BarrierBits = 1 << iota
	BarrierBufferUpdate
	BarrierAll BarrierBits = 0xFFFFFFFF
)

// WaitResult is the outcome of a client wait on a sync object.
type WaitResult uint32

// Client wait outcomes.
const (
	WaitAlreadySignaled WaitResult = iota
	WaitConditionSatisfied
	WaitTimeoutExpired
	WaitFailed
)

// Signaled reports whether the wait observed the sync object signaled.
func (r WaitResult) Signaled() bool {
	return r == WaitAlreadySignaled || r == WaitConditionSatisfied
}

// Capability is a driver switch toggled with Enable.
type Capability uint32

// Driver switches touched when a device is opened.
const (
	CapFramebufferSRGB Capability = iota
	CapProgramPointSize
)

// PixelStoreParam is a pixel store parameter.
type PixelStoreParam uint32

// Pixel store parameters.
const (
	UnpackAlignment PixelStoreParam = iota
	PackAlignment
)

// Attachment is a framebuffer attachment point.
type Attachment uint32

// Framebuffer attachment points.
const (
	AttachmentColor0 Attachment = iota
	AttachmentDepth  Attachment = 0x100
	AttachmentStencil
)

// FramebufferTarget is a framebuffer binding point.
type FramebufferTarget uint32

// Framebuffer binding points.
const (
	FramebufferDraw FramebufferTarget = iota
	FramebufferRead
)
