// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package halbridge

import (
	"github.com/gogpu/gfxcore/handle"
	"github.com/gogpu/wgpu/hal"
)

// Frame collects references to the resources one submission uses.
// A Frame is not safe for concurrent use.
type Frame struct {
	bindGroups       handle.Pool[hal.BindGroup]
	renderPipelines  handle.Pool[hal.RenderPipeline]
	computePipelines handle.Pool[hal.ComputePipeline]
	views            handle.Pool[hal.TextureView]
	buffers          handle.Pool[hal.Buffer]
	textures         handle.Pool[hal.Texture]
	samplers         handle.Pool[hal.Sampler]
}

// NewFrame returns an empty frame.
func NewFrame() *Frame {
	return &Frame{}
}

// UseBuffer references b into the frame and returns the HAL buffer.
func (f *Frame) UseBuffer(b *Buffer) hal.Buffer { return f.buffers.Reference(b) }

// UseTexture references tex into the frame.
func (f *Frame) UseTexture(tex *Texture) hal.Texture { return f.textures.Reference(tex) }

// UseTextureView references v into the frame.
func (f *Frame) UseTextureView(v *TextureView) hal.TextureView { return f.views.Reference(v) }

// UseSampler references s into the frame.
func (f *Frame) UseSampler(s *Sampler) hal.Sampler { return f.samplers.Reference(s) }

// UseBindGroup references g into the frame.
func (f *Frame) UseBindGroup(g *BindGroup) hal.BindGroup { return f.bindGroups.Reference(g) }

// UseRenderPipeline references p into the frame.
func (f *Frame) UseRenderPipeline(p *RenderPipeline) hal.RenderPipeline {
	return f.renderPipelines.Reference(p)
}

// UseComputePipeline references p into the frame.
func (f *Frame) UseComputePipeline(p *ComputePipeline) hal.ComputePipeline {
	return f.computePipelines.Reference(p)
}

// Len returns the number of references held.
func (f *Frame) Len() int {
	return f.bindGroups.Len() + f.renderPipelines.Len() + f.computePipelines.Len() +
		f.views.Len() + f.buffers.Len() + f.textures.Len() + f.samplers.Len()
}

func (f *Frame) clear() {
	f.bindGroups.Clear()
	f.renderPipelines.Clear()
	f.computePipelines.Clear()
	f.views.Clear()
	f.buffers.Clear()
	f.textures.Clear()
	f.samplers.Clear()
}
