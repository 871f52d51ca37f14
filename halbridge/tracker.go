// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package halbridge tracks the lifetime of wgpu HAL resources with the same
// reference-counted pools the native device uses.
//
// Resources are registered with a Tracker, which returns handles. Work that
// uses a resource references it into a Frame; once the frame is submitted
// with a fence value, the resource stays alive until the fence reaches
// that value, even after every handle has been released.
//
//	tr := halbridge.NewTracker(dev, time.Second)
//	buf, _ := dev.CreateBuffer(desc)
//	h := tr.TrackBuffer(buf)
//
//	frame := halbridge.NewFrame()
//	raw := frame.UseBuffer(h)
//	// ... encode with raw, submit with fence/value ...
//	tr.Submitted(frame, fence, value)
//
//	h.Release()
//	tr.Cleanup() // destroys buf once the fence passes value
package halbridge

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gogpu/gfxcore"
	"github.com/gogpu/gfxcore/handle"
	"github.com/gogpu/wgpu/hal"
)

// Errors returned by the bridge.
var (
	// ErrTimeout is returned when waiting for submitted work exceeds the
	// tracker's timeout.
	ErrTimeout = errors.New("halbridge: wait timed out")

	// ErrNilProvider is returned by FromProvider for a nil provider.
	ErrNilProvider = errors.New("halbridge: nil DeviceProvider")

	// ErrNoHAL is returned by FromProvider when the provider does not
	// expose a HAL device.
	ErrNoHAL = errors.New("halbridge: provider does not expose a HAL device")
)

func slogger() *slog.Logger { return gfxcore.Logger() }

// Handle types for HAL resources.
type (
	Buffer          = handle.Handle[hal.Buffer]
	Texture         = handle.Handle[hal.Texture]
	TextureView     = handle.Handle[hal.TextureView]
	Sampler         = handle.Handle[hal.Sampler]
	BindGroup       = handle.Handle[hal.BindGroup]
	RenderPipeline  = handle.Handle[hal.RenderPipeline]
	ComputePipeline = handle.Handle[hal.ComputePipeline]
	Fence           = handle.Handle[hal.Fence]
)

// Destroyer is the part of hal.Device the tracker needs.
type Destroyer interface {
	DestroyBuffer(buffer hal.Buffer)
	DestroyTexture(texture hal.Texture)
	DestroyTextureView(view hal.TextureView)
	DestroySampler(sampler hal.Sampler)
	DestroyBindGroup(group hal.BindGroup)
	DestroyRenderPipeline(pipeline hal.RenderPipeline)
	DestroyComputePipeline(pipeline hal.ComputePipeline)
	DestroyFence(fence hal.Fence)
	Wait(fence hal.Fence, value uint64, timeout time.Duration) (bool, error)
}

var _ Destroyer = hal.Device(nil)

// submission is a frame waiting for its fence to reach value.
type submission struct {
	frame *Frame
	fence hal.Fence
	value uint64
}

// Tracker owns HAL resources registered with it and destroys each one once
// nothing references it any more.
//
// Tracker is safe for concurrent use.
type Tracker struct {
	mu      sync.Mutex
	dev     Destroyer
	timeout time.Duration

	bindGroups       handle.Pool[hal.BindGroup]
	renderPipelines  handle.Pool[hal.RenderPipeline]
	computePipelines handle.Pool[hal.ComputePipeline]
	views            handle.Pool[hal.TextureView]
	buffers          handle.Pool[hal.Buffer]
	textures         handle.Pool[hal.Texture]
	samplers         handle.Pool[hal.Sampler]
	fences           handle.Pool[hal.Fence]

	inflight []submission
}

// NewTracker returns a tracker destroying resources on dev. Waits for
// submitted work are bounded by timeout; non-positive selects one second.
func NewTracker(dev Destroyer, timeout time.Duration) *Tracker {
	if timeout <= 0 {
		timeout = time.Second
	}
	return &Tracker{dev: dev, timeout: timeout}
}

// TrackBuffer registers b and returns the first handle to it.
func (t *Tracker) TrackBuffer(b hal.Buffer) *Buffer {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buffers.Insert(b)
}

// TrackTexture registers tex.
func (t *Tracker) TrackTexture(tex hal.Texture) *Texture {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.textures.Insert(tex)
}

// TrackTextureView registers v.
func (t *Tracker) TrackTextureView(v hal.TextureView) *TextureView {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.views.Insert(v)
}

// TrackSampler registers s.
func (t *Tracker) TrackSampler(s hal.Sampler) *Sampler {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.samplers.Insert(s)
}

// TrackBindGroup registers g.
func (t *Tracker) TrackBindGroup(g hal.BindGroup) *BindGroup {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bindGroups.Insert(g)
}

// TrackRenderPipeline registers p.
func (t *Tracker) TrackRenderPipeline(p hal.RenderPipeline) *RenderPipeline {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.renderPipelines.Insert(p)
}

// TrackComputePipeline registers p.
func (t *Tracker) TrackComputePipeline(p hal.ComputePipeline) *ComputePipeline {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.computePipelines.Insert(p)
}

// TrackFence registers f.
func (t *Tracker) TrackFence(f hal.Fence) *Fence {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fences.Insert(f)
}

// Submitted retires frame: its resources stay alive until fence reaches
// value. A nil fence releases the frame at the next Cleanup.
func (t *Tracker) Submitted(frame *Frame, fence hal.Fence, value uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inflight = append(t.inflight, submission{frame: frame, fence: fence, value: value})
}

// InFlight returns the number of submitted frames not yet released.
func (t *Tracker) InFlight() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.inflight)
}

// Len returns the number of resources the tracker holds.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bindGroups.Len() + t.renderPipelines.Len() + t.computePipelines.Len() +
		t.views.Len() + t.buffers.Len() + t.textures.Len() + t.samplers.Len() + t.fences.Len()
}

// Cleanup releases every submitted frame whose fence has passed its value
// and destroys every resource nothing references any more. It returns the
// number of resources destroyed.
func (t *Tracker) Cleanup() (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.releaseCompleted(); err != nil {
		return 0, err
	}
	n := t.sweep()
	if n > 0 {
		slogger().Debug("gfxcore halbridge: resources destroyed", "count", n, "in_flight", len(t.inflight))
	}
	return n, nil
}

// WaitIdle blocks until the last submitted frame's fence passes its value,
// bounded by the tracker's timeout.
func (t *Tracker) WaitIdle() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.waitIdle()
}

// Close waits for submitted work, releases every frame and destroys every
// resource whose handles have been released.
func (t *Tracker) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	err := t.waitIdle()
	for _, s := range t.inflight {
		s.frame.clear()
	}
	t.inflight = nil
	t.sweep()
	return err
}

func (t *Tracker) waitIdle() error {
	for i := len(t.inflight) - 1; i >= 0; i-- {
		s := t.inflight[i]
		if s.fence == nil {
			continue
		}
		ok, err := t.dev.Wait(s.fence, s.value, t.timeout)
		if err != nil {
			return fmt.Errorf("halbridge: wait for fence value %d: %w", s.value, err)
		}
		if !ok {
			slogger().Warn("gfxcore halbridge: idle wait timed out", "timeout", t.timeout)
			return fmt.Errorf("%w after %v", ErrTimeout, t.timeout)
		}
		return nil
	}
	return nil
}

// releaseCompleted clears submitted frames whose work is done, oldest
// first. A completed submission also completes every earlier one; an
// unfenced frame is released only once every earlier frame is.
func (t *Tracker) releaseCompleted() error {
	done := -1
	for i := len(t.inflight) - 1; i >= 0; i-- {
		s := t.inflight[i]
		if s.fence == nil {
			continue
		}
		ok, err := t.dev.Wait(s.fence, s.value, 0)
		if err != nil {
			return fmt.Errorf("halbridge: poll fence value %d: %w", s.value, err)
		}
		if ok {
			done = i
			break
		}
	}
	n := 0
	for i, s := range t.inflight {
		if i > done && s.fence != nil {
			break
		}
		s.frame.clear()
		n++
	}
	rest := copy(t.inflight, t.inflight[n:])
	clear(t.inflight[rest:])
	t.inflight = t.inflight[:rest]
	return nil
}

// sweep destroys unreferenced resources, dependents before what they use.
func (t *Tracker) sweep() int {
	n := 0
	n += sweepPool(&t.bindGroups, t.dev.DestroyBindGroup)
	n += sweepPool(&t.renderPipelines, t.dev.DestroyRenderPipeline)
	n += sweepPool(&t.computePipelines, t.dev.DestroyComputePipeline)
	n += sweepPool(&t.views, t.dev.DestroyTextureView)
	n += sweepPool(&t.buffers, t.dev.DestroyBuffer)
	n += sweepPool(&t.textures, t.dev.DestroyTexture)
	n += sweepPool(&t.samplers, t.dev.DestroySampler)
	n += sweepPool(&t.fences, t.dev.DestroyFence)
	return n
}

func sweepPool[T any](p *handle.Pool[T], destroy func(T)) int {
	n, _ := p.Sweep(func(obj T) error {
		destroy(obj)
		return nil
	})
	return n
}
