// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package device

import (
	"fmt"

	"github.com/gogpu/gfxcore/handle"
	"github.com/gogpu/gfxcore/native"
	"github.com/gogpu/gfxcore/queue"
	"github.com/gogpu/gputypes"
)

// CreateBuffer allocates a buffer of info.Size bytes.
//
// Buffers with a map usage get a CPU mapping. On drivers with immutable
// buffer storage the mapping is persistent: the buffer is mapped once here
// and stays mapped for its lifetime, with explicit flushes for writes.
// Elsewhere the mapping is temporary and must be mapped with Map before
// CPU access.
func (d *Device) CreateBuffer(info handle.BufferInfo) (*handle.Buffer, error) {
	if err := d.usable(); err != nil {
		return nil, err
	}
	if info.Size == 0 {
		return nil, fmt.Errorf("%w: zero-sized buffer %q", ErrInvalidDescriptor, info.Label)
	}

	access := native.MapAccessFromUsage(info.Usage)
	target := native.TargetForUsage(info.Usage)

	var (
		name    native.Buffer
		mapping *handle.Mapping
		err     error
	)
	d.queue.WithRaw(func(gl native.Context) {
		name = gl.GenBuffer()
		gl.BindBuffer(target, name)
		switch {
		case d.caps.PrivateCaps.BufferStorage && access != 0:
			gl.BufferStorage(target, info.Size, access|native.MapPersistent)
			flags := access | native.MapPersistent
			if access.Has(native.MapWrite) {
				flags |= native.MapFlushExplicit
			}
			ptr := gl.MapBufferRange(target, 0, info.Size, flags)
			if ptr == nil {
				gl.DeleteBuffers(name)
				err = fmt.Errorf("%w: persistent mapping of %d bytes", queue.ErrMapFailed, info.Size)
				return
			}
			mapping = handle.NewMapping(handle.MappingPersistent, access, ptr)
		case d.caps.PrivateCaps.BufferStorage:
			gl.BufferStorage(target, info.Size, 0)
		default:
			gl.BufferData(target, info.Size)
			if access != 0 {
				mapping = handle.NewMapping(handle.MappingTemporary, access, nil)
			}
		}
		gl.BindBuffer(target, 0)
	})
	if err != nil {
		return nil, err
	}
	if err := d.queue.Check("CreateBuffer"); err != nil {
		return nil, err
	}
	return d.handles.CreateBuffer(name, info, mapping), nil
}

// CreateTexture adopts a texture or renderbuffer surface created on the
// native context. The device deletes it once its last handle is released.
// Images naming object 0 belong to the driver and are never deleted.
func (d *Device) CreateTexture(img handle.Image, info handle.TextureInfo) (*handle.Texture, error) {
	if err := d.usable(); err != nil {
		return nil, err
	}
	if info.MipLevelCount == 0 {
		info.MipLevelCount = 1
	}
	if info.Size.DepthOrArrayLayers == 0 {
		info.Size.DepthOrArrayLayers = 1
	}
	return d.handles.CreateTexture(img, info), nil
}

// CreateTextureView creates a view over src. An undefined format inherits
// the texture's format; a zero bind target is derived from the texture's
// dimension and layer count. Renderbuffer surfaces can only be viewed as
// render or depth-stencil targets.
func (d *Device) CreateTextureView(src *handle.Texture, info handle.ViewInfo) (*handle.View, error) {
	if err := d.usable(); err != nil {
		return nil, err
	}
	tex := src.Get()
	if tex.Image.Kind == handle.ImageSurface &&
		info.Role != handle.ViewRenderTarget && info.Role != handle.ViewDepthStencil {
		return nil, fmt.Errorf("%w: %s view of a renderbuffer surface", ErrInvalidDescriptor, info.Role)
	}
	if info.Level >= max(tex.Info.MipLevelCount, 1) {
		return nil, fmt.Errorf("%w: mip level %d of %d", ErrInvalidDescriptor, info.Level, tex.Info.MipLevelCount)
	}
	if info.Format == gputypes.TextureFormatUndefined {
		info.Format = tex.Info.Format
	}
	if info.Bind == 0 {
		info.Bind = native.TextureBindFromDimension(tex.Info.Dimension, tex.Info.Size.DepthOrArrayLayers)
	}
	return d.handles.CreateTextureView(src, info), nil
}

// CreateBufferView creates a shader-resource view of src through the
// texture-buffer object tex. The view owns tex and deletes it when the
// view is destroyed; src stays alive as long as the view does.
func (d *Device) CreateBufferView(src *handle.Buffer, tex native.Texture) (*handle.View, error) {
	if err := d.usable(); err != nil {
		return nil, err
	}
	if tex == 0 {
		return nil, fmt.Errorf("%w: buffer view needs a texture object", ErrInvalidDescriptor)
	}
	return d.handles.CreateBufferView(src, tex), nil
}

// CreateSampler adopts sampler object name with parameters info. On drivers
// without sampler objects the name is dropped and the parameters are
// applied to the bound texture when the sampler is used.
func (d *Device) CreateSampler(name native.Sampler, info native.SamplerInfo) (*handle.Sampler, error) {
	if err := d.usable(); err != nil {
		return nil, err
	}
	if !d.caps.PrivateCaps.SamplerObjects {
		name = 0
	}
	if info.LodMaxClamp == 0 {
		info.LodMaxClamp = 32
	}
	return d.handles.CreateSampler(name, info), nil
}

// CreateProgram adopts linked program name.
func (d *Device) CreateProgram(name native.Program) (*handle.Program, error) {
	if err := d.usable(); err != nil {
		return nil, err
	}
	if name == 0 {
		return nil, fmt.Errorf("%w: program 0", ErrInvalidDescriptor)
	}
	return d.handles.CreateProgram(name), nil
}

// CreatePipeline creates a pipeline over prog. The pipeline keeps prog
// alive.
func (d *Device) CreatePipeline(prog *handle.Program, info handle.PipelineInfo) (*handle.Pipeline, error) {
	if err := d.usable(); err != nil {
		return nil, err
	}
	return d.handles.CreatePipeline(prog, info), nil
}

// CreateFence creates a fence. A signaled fence holds a sync token placed
// now, so it completes once all earlier work has; an unsignaled fence
// holds none until it is passed to Submit.
func (d *Device) CreateFence(signaled bool) (*handle.Fence, error) {
	if err := d.usable(); err != nil {
		return nil, err
	}
	var s native.Sync
	if signaled && d.caps.PrivateCaps.Sync {
		d.queue.WithRaw(func(gl native.Context) {
			s = gl.FenceSync()
		})
	}
	return d.handles.CreateFence(s), nil
}

// CreateSemaphore creates an unsignaled semaphore.
func (d *Device) CreateSemaphore() (*handle.Semaphore, error) {
	if err := d.usable(); err != nil {
		return nil, err
	}
	return d.handles.CreateSemaphore(0), nil
}
