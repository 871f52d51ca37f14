// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"fmt"
	"strings"
)

// Features is the set of public draw capabilities detected for a driver.
type Features uint32

// Draw capabilities. Each bit names one native entry point.
const (
	// FeatureDrawInstanced enables DrawArraysInstanced.
	FeatureDrawInstanced Features = 1 << iota
	// FeatureDrawInstancedBase enables DrawArraysInstancedBaseInstance.
	FeatureDrawInstancedBase
	// FeatureDrawIndexedBase enables DrawElementsBaseVertex.
	FeatureDrawIndexedBase
	// FeatureDrawIndexedInstanced enables DrawElementsInstanced.
	FeatureDrawIndexedInstanced
	// FeatureDrawIndexedInstancedBaseVertex enables DrawElementsInstancedBaseVertex.
	FeatureDrawIndexedInstancedBaseVertex
	// FeatureDrawIndexedInstancedBase enables DrawElementsInstancedBaseVertexBaseInstance.
	FeatureDrawIndexedInstancedBase
	// FeatureSRGBColor enables sRGB framebuffer conversion.
	FeatureSRGBColor
)

var featureNames = []string{
	"DrawInstanced",
	"DrawInstancedBase",
	"DrawIndexedBase",
	"DrawIndexedInstanced",
	"DrawIndexedInstancedBaseVertex",
	"DrawIndexedInstancedBase",
	"SRGBColor",
}

// Has reports whether every bit of want is present.
func (f Features) Has(want Features) bool { return f&want == want }

// String lists the set features separated by "|".
func (f Features) String() string {
	if f == 0 {
		return "None"
	}
	var parts []string
	for i, name := range featureNames {
		if f&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	if rest := f &^ (1<<len(featureNames) - 1); rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", uint32(rest)))
	}
	return strings.Join(parts, "|")
}

// PrivateCaps are driver capabilities that never surface to callers
// but decide which internal strategy the queue uses.
type PrivateCaps struct {
	// ArrayBuffer reports vertex array object support.
	ArrayBuffer bool
	// BufferStorage reports immutable storage with persistent, explicitly
	// flushed mappings. Without it, mappings are temporary.
	BufferStorage bool
	// Sync reports fence sync object support.
	Sync bool
	// FrameBuffer reports framebuffer object support.
	FrameBuffer bool
	// SamplerObjects reports separate sampler object support.
	SamplerObjects bool
	// CopyBuffer reports CopyBufferSubData support.
	CopyBuffer bool
}

// Limits are numeric driver limits.
type Limits struct {
	// MaxViewports is the number of viewport (and scissor) slots.
	MaxViewports int
}

// DefaultLimits returns the limits guaranteed by every supported driver.
func DefaultLimits() Limits {
	return Limits{MaxViewports: 1}
}

// Caps is the full capability table produced by capability detection.
type Caps struct {
	Features    Features
	PrivateCaps PrivateCaps
	Limits      Limits
	// Embedded reports an OpenGL ES context.
	Embedded bool
}
