// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package device

import (
	"github.com/gogpu/gfxcore/handle"
	"github.com/gogpu/gputypes"
)

// MainTargets returns proxy views of the default framebuffer: a render
// target in colorFormat and a depth-stencil target in depthFormat, both of
// the given size. The default framebuffer belongs to the driver, so
// releasing the views deletes nothing.
//
// The views are built through a private manager and never enter the
// device's sweep.
func MainTargets(size gputypes.Extent3D, colorFormat, depthFormat gputypes.TextureFormat) (color, depth *handle.View) {
	m := handle.NewManager()
	defer m.Clear()

	if size.DepthOrArrayLayers == 0 {
		size.DepthOrArrayLayers = 1
	}
	tex := m.CreateTexture(handle.SurfaceImage(0), handle.TextureInfo{
		Label:         "main",
		Format:        colorFormat,
		Dimension:     gputypes.TextureDimension2D,
		Size:          size,
		MipLevelCount: 1,
	})
	defer tex.Release()

	color = m.CreateTextureView(tex, handle.ViewInfo{Role: handle.ViewRenderTarget, Format: colorFormat})
	depth = m.CreateTextureView(tex, handle.ViewInfo{Role: handle.ViewDepthStencil, Format: depthFormat})
	return color, depth
}
