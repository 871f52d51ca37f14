// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package handle tracks the lifetime of GPU resources across queued
// execution.
//
// Every resource lives in exactly one kind-specific [Pool] of a [Manager].
// Callers hold reference-counted [Handle] values; the pool holds one more
// reference of its own. A resource is destroyed only by [Sweep], and only
// once the pool's reference is the last one left. Frame handle sets are
// plain managers that are never swept: referencing a resource into one keeps
// it alive until the set is cleared.
//
//	m := handle.NewManager()
//	buf := m.CreateBuffer(name, handle.BufferInfo{Size: 256}, nil)
//	frame := handle.NewManager()
//	frame.RefBuffer(buf) // in use by submitted work
//	buf.Release()        // caller is done
//	handle.Sweep(m, ctx, destroyers) // not destroyed: frame still holds it
//	frame.Clear()
//	handle.Sweep(m, ctx, destroyers) // destroyed
package handle
