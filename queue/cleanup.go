// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package queue

import (
	"github.com/gogpu/gfxcore/handle"
	"github.com/gogpu/gfxcore/native"
)

// Cleanup retires the current frame, releases every retired frame whose
// fence has signaled, and deletes resources nothing references any more.
// It returns the number of resources deleted. Call it once per frame.
//
// Frames submitted without any fence are released at the next Cleanup
// once every earlier frame has been released. On drivers without sync
// objects deletion is then deferred by the driver rather than guaranteed
// by the queue.
//
// A deletion error is fatal and loses the queue.
func (q *Queue) Cleanup() (int, error) {
	q.retireFrame()
	q.releaseCompleted()
	n, err := handle.Sweep(q.handles, q.gl, q.destroyers())
	if err != nil {
		q.markLost(err)
		return n, err
	}
	if n > 0 {
		slogger().Debug("gfxcore queue: resources deleted", "count", n, "in_flight", len(q.inflight))
	}
	return n, nil
}

// Shutdown waits for the GPU, releases every frame and deletes every
// unreferenced resource, then deletes the queue's vertex array.
func (q *Queue) Shutdown() error {
	werr := q.WaitIdle()
	q.retireFrame()
	for _, fr := range q.inflight {
		fr.handles.Clear()
		fr.fence.Release()
	}
	q.inflight = nil
	if _, err := handle.Sweep(q.handles, q.gl, q.destroyers()); err != nil {
		q.markLost(err)
		return err
	}
	if q.caps.PrivateCaps.ArrayBuffer && q.vao != 0 {
		q.gl.DeleteVertexArrays(q.vao)
		q.vao = 0
	}
	q.Invalidate()
	return werr
}

func (q *Queue) retireFrame() {
	if q.frame.Count() == 0 && q.frameFence == nil {
		return
	}
	q.inflight = append(q.inflight, retiredFrame{handles: q.frame, fence: q.frameFence})
	q.frame = handle.NewManager()
	q.frameFence = nil
}

// releaseCompleted clears retired frames whose work is done. Work
// completes in submission order, so a signaled fence also completes every
// earlier frame. Frames are released oldest first and release stops at the
// first frame still pending; an unfenced frame behind it waits as well.
func (q *Queue) releaseCompleted() {
	done := -1
	for i := len(q.inflight) - 1; i >= 0; i-- {
		if f := q.inflight[i].fence; f != nil && q.completed(f) {
			done = i
			break
		}
	}
	n := 0
	for i, fr := range q.inflight {
		if i > done && fr.fence != nil {
			break
		}
		fr.handles.Clear()
		fr.fence.Release()
		n++
	}
	rest := copy(q.inflight, q.inflight[n:])
	clear(q.inflight[rest:])
	q.inflight = q.inflight[:rest]
}

func (q *Queue) completed(f *handle.Fence) bool {
	s := f.Get().Load()
	if s == 0 {
		return true
	}
	switch q.gl.ClientWaitSync(s, false, 0) {
	case native.WaitTimeoutExpired:
		return false
	case native.WaitFailed:
		slogger().Warn("gfxcore queue: frame fence poll failed, releasing frame")
		return true
	default:
		return true
	}
}

func (q *Queue) destroyers() handle.Destroyers[native.Context] {
	return handle.Destroyers[native.Context]{
		View:      q.destroyView,
		Buffer:    q.destroyBuffer,
		Texture:   q.destroyTexture,
		Sampler:   q.destroySampler,
		Program:   q.destroyProgram,
		Fence:     q.destroySync,
		Semaphore: q.destroySync,
	}
}

func (q *Queue) destroyBuffer(gl native.Context, b *handle.RawBuffer) error {
	if m := b.Mapping; m != nil && m.Kind() == handle.MappingTemporary && m.IsMapped() {
		gl.UnmapBuffer(q.bindScratch(b))
		m.SetBytes(nil)
	}
	gl.DeleteBuffers(b.Name)
	if q.state.indexBuffer == b.Name {
		q.state.forgetIndex()
	}
	return q.checkDriver("DeleteBuffers")
}

func (q *Queue) destroyTexture(gl native.Context, t *handle.RawTexture) error {
	if t.Image.IsDefault() {
		return nil
	}
	if t.Image.Kind == handle.ImageSurface {
		gl.DeleteRenderbuffers(t.Image.Surface)
		return q.checkDriver("DeleteRenderbuffers")
	}
	gl.DeleteTextures(t.Image.Texture)
	return q.checkDriver("DeleteTextures")
}

func (q *Queue) destroyView(gl native.Context, v *handle.RawView) error {
	if !v.Owned || v.Image.IsDefault() {
		return nil
	}
	gl.DeleteTextures(v.Image.Texture)
	return q.checkDriver("DeleteTextures")
}

func (q *Queue) destroySampler(gl native.Context, s *handle.RawSampler) error {
	if s.Name == 0 {
		return nil
	}
	gl.DeleteSamplers(s.Name)
	return q.checkDriver("DeleteSamplers")
}

func (q *Queue) destroyProgram(gl native.Context, p *handle.RawProgram) error {
	if p.Name == 0 {
		return nil
	}
	gl.DeleteProgram(p.Name)
	return q.checkDriver("DeleteProgram")
}

func (q *Queue) destroySync(gl native.Context, o *handle.SyncObject) error {
	if s := o.Replace(0); s != 0 {
		gl.DeleteSync(s)
	}
	return nil
}
