// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package handle

import (
	"errors"
	"fmt"
)

// ErrDestroyFailed is returned by Sweep when a destroy callback fails.
var ErrDestroyFailed = errors.New("handle: destroy failed")

// Destroyers are the per-kind destroy callbacks used by Sweep. C is the
// context passed through to every callback, typically the native call
// surface. A nil callback removes unreferenced entries silently.
type Destroyers[C any] struct {
	Pipeline  func(C, *RawPipeline) error
	Program   func(C, *RawProgram) error
	View      func(C, *RawView) error
	Buffer    func(C, *RawBuffer) error
	Texture   func(C, *RawTexture) error
	Sampler   func(C, *RawSampler) error
	Fence     func(C, *SyncObject) error
	Semaphore func(C, *SyncObject) error
}

// Sweep destroys every resource of m that nothing but m references and
// returns how many were destroyed.
//
// Dependents are swept before their sources, so a texture whose last user
// was a view destroyed in the same pass goes in that pass too.
// The first callback error stops the sweep and is returned wrapped in
// ErrDestroyFailed.
func Sweep[C any](m *Manager, ctx C, d Destroyers[C]) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sweeps := [kindCount]func() (int, error){
		KindPipeline:  func() (int, error) { return m.pipelines.Sweep(bind(ctx, d.Pipeline)) },
		KindProgram:   func() (int, error) { return m.programs.Sweep(bind(ctx, d.Program)) },
		KindView:      func() (int, error) { return m.views.Sweep(bind(ctx, d.View)) },
		KindBuffer:    func() (int, error) { return m.buffers.Sweep(bind(ctx, d.Buffer)) },
		KindTexture:   func() (int, error) { return m.textures.Sweep(bind(ctx, d.Texture)) },
		KindSampler:   func() (int, error) { return m.samplers.Sweep(bind(ctx, d.Sampler)) },
		KindFence:     func() (int, error) { return m.fences.Sweep(bind(ctx, d.Fence)) },
		KindSemaphore: func() (int, error) { return m.semaphores.Sweep(bind(ctx, d.Semaphore)) },
	}
	total := 0
	for k, sweep := range sweeps {
		n, err := sweep()
		total += n
		if err != nil {
			return total, fmt.Errorf("%w: %s: %w", ErrDestroyFailed, Kind(k), err)
		}
	}
	return total, nil
}

func bind[C, T any](ctx C, fn func(C, T) error) func(T) error {
	if fn == nil {
		return nil
	}
	return func(obj T) error { return fn(ctx, obj) }
}
