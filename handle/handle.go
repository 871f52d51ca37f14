// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package handle

import "sync/atomic"

// ref is the shared, counted cell every handle and pool entry points at.
type ref[T any] struct {
	obj   T
	count atomic.Int32
}

// Handle is a shared reference to one resource.
//
// Handles are created by a [Manager] and duplicated with Clone. Each handle
// value must be released exactly once; further Release calls are no-ops.
// Handles may be cloned and released from any goroutine.
type Handle[T any] struct {
	r        *ref[T]
	released atomic.Bool
}

func newHandle[T any](r *ref[T]) *Handle[T] {
	r.count.Add(1)
	return &Handle[T]{r: r}
}

// Get returns the resource payload.
func (h *Handle[T]) Get() T {
	return h.r.obj
}

// Clone returns a new handle to the same resource.
// Cloning a released handle panics.
func (h *Handle[T]) Clone() *Handle[T] {
	if h.released.Load() {
		panic("handle: clone of released handle")
	}
	return newHandle(h.r)
}

// Release drops this handle's reference. The resource itself is destroyed
// by a later sweep of the owning manager.
func (h *Handle[T]) Release() {
	if h == nil || h.released.Swap(true) {
		return
	}
	h.r.count.Add(-1)
}

// Released reports whether Release was called on this handle value.
func (h *Handle[T]) Released() bool {
	return h.released.Load()
}

// Refs returns the current number of references to the resource, pool
// entries included.
func (h *Handle[T]) Refs() int {
	return int(h.r.count.Load())
}

// Same reports whether h and o refer to the same resource.
func (h *Handle[T]) Same(o *Handle[T]) bool {
	return h != nil && o != nil && h.r == o.r
}
