// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import "github.com/gogpu/gputypes"

// PrimitiveFromTopology converts a portable topology to a primitive mode.
// Unknown topologies fall back to triangles.
func PrimitiveFromTopology(t gputypes.PrimitiveTopology) Primitive {
	switch t {
	case gputypes.PrimitiveTopologyPointList:
		return PrimitivePoints
	case gputypes.PrimitiveTopologyLineList:
		return PrimitiveLines
	case gputypes.PrimitiveTopologyLineStrip:
		return PrimitiveLineStrip
	case gputypes.PrimitiveTopologyTriangleStrip:
		return PrimitiveTriangleStrip
	default:
		return PrimitiveTriangles
	}
}

// IndexTypeFromFormat converts a portable index format.
func IndexTypeFromFormat(f gputypes.IndexFormat) IndexType {
	if f == gputypes.IndexFormatUint32 {
		return IndexUint32
	}
	return IndexUint16
}

// TargetForUsage picks the binding point used to address a buffer with the
// given usage outside of draw calls (mapping, flushing, deletion).
func TargetForUsage(u gputypes.BufferUsage) Target {
	switch {
	case u.Contains(gputypes.BufferUsageIndex):
		return TargetElementArray
	case u.Contains(gputypes.BufferUsageUniform):
		return TargetUniform
	case u.Contains(gputypes.BufferUsageIndirect):
		return TargetDrawIndirect
	default:
		return TargetArray
	}
}

// MapAccessFromMode converts a portable map mode to mapping flags.
func MapAccessFromMode(m gputypes.MapMode) MapAccess {
	var a MapAccess
	if m&gputypes.MapModeRead != 0 {
		a |= MapRead
	}
	if m&gputypes.MapModeWrite != 0 {
		a |= MapWrite
	}
	return a
}

// MapAccessFromUsage derives mapping flags from buffer usage.
func MapAccessFromUsage(u gputypes.BufferUsage) MapAccess {
	var a MapAccess
	if u.Contains(gputypes.BufferUsageMapRead) {
		a |= MapRead
	}
	if u.Contains(gputypes.BufferUsageMapWrite) {
		a |= MapWrite
	}
	return a
}

// TextureBindFromDimension picks the texture target for a dimension and
// layer count.
func TextureBindFromDimension(d gputypes.TextureDimension, layers uint32) TextureBind {
	switch d {
	case gputypes.TextureDimension1D:
		return TextureBind1D
	case gputypes.TextureDimension3D:
		return TextureBind3D
	default:
		if layers > 1 {
			return TextureBind2DArray
		}
		return TextureBind2D
	}
}
