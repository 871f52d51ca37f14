// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package command

// Range addresses a run of entries in a DataBuffer.
type Range struct {
	Offset uint32
	Size   uint32
}

// Len returns the number of entries in the range.
func (r Range) Len() int { return int(r.Size) }

// Viewport is a viewport rectangle with its depth range.
type Viewport struct {
	X, Y, Width, Height float32
	MinDepth, MaxDepth  float32
}

// Rect is a scissor rectangle.
type Rect struct {
	X, Y, Width, Height int32
}

// DataBuffer is the out-of-line data block of a command buffer.
type DataBuffer struct {
	viewports   [][4]float32
	depthRanges [][2]float64
	scissors    [][4]int32
}

func (d *DataBuffer) addViewports(vs []Viewport) (Range, Range) {
	vr := Range{Offset: uint32(len(d.viewports)), Size: uint32(len(vs))}
	dr := Range{Offset: uint32(len(d.depthRanges)), Size: uint32(len(vs))}
	for _, v := range vs {
		d.viewports = append(d.viewports, [4]float32{v.X, v.Y, v.Width, v.Height})
		d.depthRanges = append(d.depthRanges, [2]float64{float64(v.MinDepth), float64(v.MaxDepth)})
	}
	return vr, dr
}

func (d *DataBuffer) addScissors(rs []Rect) Range {
	r := Range{Offset: uint32(len(d.scissors)), Size: uint32(len(rs))}
	for _, s := range rs {
		d.scissors = append(d.scissors, [4]int32{s.X, s.Y, s.Width, s.Height})
	}
	return r
}

// Viewports returns the viewport rectangles addressed by r.
func (d *DataBuffer) Viewports(r Range) [][4]float32 {
	return d.viewports[r.Offset : r.Offset+r.Size]
}

// DepthRanges returns the depth ranges addressed by r.
func (d *DataBuffer) DepthRanges(r Range) [][2]float64 {
	return d.depthRanges[r.Offset : r.Offset+r.Size]
}

// Scissors returns the scissor rectangles addressed by r.
func (d *DataBuffer) Scissors(r Range) [][4]int32 {
	return d.scissors[r.Offset : r.Offset+r.Size]
}

func (d *DataBuffer) reset() {
	d.viewports = d.viewports[:0]
	d.depthRanges = d.depthRanges[:0]
	d.scissors = d.scissors[:0]
}
