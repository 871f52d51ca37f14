// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package handle

import (
	"fmt"

	"github.com/gogpu/gfxcore/native"
	"github.com/gogpu/gputypes"
)

// Handle types, one per resource kind.
type (
	Buffer    = Handle[*RawBuffer]
	Texture   = Handle[*RawTexture]
	View      = Handle[*RawView]
	Sampler   = Handle[*RawSampler]
	Program   = Handle[*RawProgram]
	Pipeline  = Handle[*RawPipeline]
	Fence     = Handle[*SyncObject]
	Semaphore = Handle[*SyncObject]
)

// BufferInfo describes a buffer.
type BufferInfo struct {
	Label string
	Size  uint64
	Usage gputypes.BufferUsage
}

// RawBuffer is a buffer payload.
type RawBuffer struct {
	Name native.Buffer
	Info BufferInfo
	// Target is the binding point used to address the buffer for
	// mapping, flushing and deletion.
	Target native.Target
	// Mapping is nil for buffers that are never CPU visible.
	Mapping *Mapping
}

func (b *RawBuffer) releaseDependencies() {
	if b.Mapping != nil {
		b.Mapping.SetLastAccess(nil)
	}
}

// String returns a short description for logs.
func (b *RawBuffer) String() string {
	if b.Info.Label != "" {
		return fmt.Sprintf("buffer %d %q", b.Name, b.Info.Label)
	}
	return fmt.Sprintf("buffer %d", b.Name)
}

// ImageKind distinguishes textures from renderbuffer surfaces.
type ImageKind uint8

// Image kinds.
const (
	ImageTexture ImageKind = iota
	ImageSurface
)

// Image is either a texture or a renderbuffer surface.
type Image struct {
	Kind    ImageKind
	Texture native.Texture
	Surface native.Surface
}

// TextureImage returns an image naming texture t.
func TextureImage(t native.Texture) Image {
	return Image{Kind: ImageTexture, Texture: t}
}

// SurfaceImage returns an image naming renderbuffer s.
func SurfaceImage(s native.Surface) Image {
	return Image{Kind: ImageSurface, Surface: s}
}

// IsDefault reports whether the image names object 0, which belongs to the
// driver and is never deleted.
func (i Image) IsDefault() bool {
	if i.Kind == ImageSurface {
		return i.Surface == 0
	}
	return i.Texture == 0
}

// TextureInfo describes a texture.
type TextureInfo struct {
	Label         string
	Format        gputypes.TextureFormat
	Dimension     gputypes.TextureDimension
	Size          gputypes.Extent3D
	MipLevelCount uint32
}

// RawTexture is a texture payload.
type RawTexture struct {
	Image Image
	Info  TextureInfo
}

// ViewRole is how a view is bound.
type ViewRole uint8

// View roles.
const (
	ViewShaderResource ViewRole = iota
	ViewUnorderedAccess
	ViewRenderTarget
	ViewDepthStencil
)

// String returns the role name.
func (r ViewRole) String() string {
	switch r {
	case ViewShaderResource:
		return "ShaderResource"
	case ViewUnorderedAccess:
		return "UnorderedAccess"
	case ViewRenderTarget:
		return "RenderTarget"
	case ViewDepthStencil:
		return "DepthStencil"
	default:
		return fmt.Sprintf("ViewRole(%d)", r)
	}
}

// ViewInfo describes a view.
type ViewInfo struct {
	Role   ViewRole
	Bind   native.TextureBind
	Format gputypes.TextureFormat
	Level  uint32
	Layer  uint32
}

// RawView is a view payload. A view keeps its source alive; Owned views
// also own the texture object they name.
type RawView struct {
	Image Image
	Info  ViewInfo
	Owned bool

	texture *Texture
	buffer  *Buffer
}

func (v *RawView) releaseDependencies() {
	v.texture.Release()
	v.buffer.Release()
}

// SourceTexture returns the viewed texture, or nil.
func (v *RawView) SourceTexture() *RawTexture {
	if v.texture == nil {
		return nil
	}
	return v.texture.Get()
}

// SourceBuffer returns the viewed buffer, or nil.
func (v *RawView) SourceBuffer() *RawBuffer {
	if v.buffer == nil {
		return nil
	}
	return v.buffer.Get()
}

// RawSampler is a sampler payload. Name is 0 when the driver has no
// sampler objects and the parameters are applied to textures instead.
type RawSampler struct {
	Name native.Sampler
	Info native.SamplerInfo
}

// RawProgram is a linked program payload.
type RawProgram struct {
	Name native.Program
}

// PipelineInfo is the fixed-function state of a pipeline.
type PipelineInfo struct {
	Label    string
	Topology gputypes.PrimitiveTopology
}

// RawPipeline is a pipeline payload. A pipeline keeps its program alive.
type RawPipeline struct {
	Info PipelineInfo

	program *Program
}

// Program returns the pipeline's program.
func (p *RawPipeline) Program() *RawProgram {
	return p.program.Get()
}

func (p *RawPipeline) releaseDependencies() {
	p.program.Release()
}
