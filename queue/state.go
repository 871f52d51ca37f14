// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package queue

import "github.com/gogpu/gfxcore/native"

// stateCache shadows the driver state a command buffer may leave behind.
// The zero value rebinds the vertex array and index buffer on the next
// reset; Invalidate also clears every viewport and scissor slot.
type stateCache struct {
	vaoBound     bool
	indexKnown   bool
	indexBuffer  native.Buffer
	numViewports int
	numScissors  int
}

func (s *stateCache) setIndex(b native.Buffer) {
	s.indexKnown = true
	s.indexBuffer = b
}

func (s *stateCache) forgetIndex() {
	s.indexKnown = false
}

// resetState brings the driver to the state every command buffer starts
// from. Calling it again without replaying anything issues no native calls.
func (q *Queue) resetState() {
	if !q.state.vaoBound {
		if q.caps.PrivateCaps.ArrayBuffer {
			q.gl.BindVertexArray(q.vao)
		}
		q.state.vaoBound = true
	}

	if !q.state.indexKnown || q.state.indexBuffer != 0 {
		q.gl.BindBuffer(native.TargetElementArray, 0)
		q.state.setIndex(0)
	}

	switch n := q.state.numViewports; {
	case n == 1:
		q.gl.Viewport(0, 0, 0, 0)
		q.gl.DepthRange(0, 1)
	case n > 1:
		q.gl.ViewportArray(0, make([][4]float32, n))
		q.gl.DepthRangeArray(0, make([][2]float64, n))
	}
	q.state.numViewports = 0

	switch n := q.state.numScissors; {
	case n == 1:
		q.gl.Scissor(0, 0, 0, 0)
	case n > 1:
		q.gl.ScissorArray(0, make([][4]int32, n))
	}
	q.state.numScissors = 0
}
