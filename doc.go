// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gfxcore is the runtime core of a graphics hardware abstraction
// that drives a stateful native driver surface (OpenGL-style).
//
// # Overview
//
// gfxcore answers two questions every immediate-mode driver backend has to
// answer: when is it safe to delete a GPU object, and what driver state does
// a recorded command buffer start from.
//
//   - Resources are pooled behind reference-counted handles (package handle).
//     A resource is deleted only during a sweep, once no handle outside the
//     pool refers to it.
//   - Command buffers are recorded into a portable form (package command)
//     and replayed by the device queue (package queue), which keeps a small
//     shadow of driver state so redundant binds are skipped.
//   - Mapped buffer memory is flushed or unmapped before the GPU can read
//     it, and fenced so the CPU does not overwrite memory still in flight.
//
// # Quick Start
//
//	gl := myDriverContext()            // implements native.Context
//	caps := detectCaps(gl)             // native.Caps from a capability probe
//	dev := device.New(gl, caps)
//
//	buf, _ := dev.CreateBuffer(handle.BufferInfo{
//	    Size:  1024,
//	    Usage: gputypes.BufferUsageIndex | gputypes.BufferUsageMapWrite,
//	})
//	_ = dev.Map(buf, gputypes.MapModeWrite) // no-op for persistent mappings
//	_ = dev.Write(buf, 0, indices)
//
//	enc := command.NewEncoder()
//	enc.BindIndexBuffer(buf)
//	enc.DrawIndexed(gputypes.PrimitiveTopologyTriangleList, gputypes.IndexFormatUint16, 0, 6, 0, nil)
//	cb, err := enc.Finish()
//	if err != nil {
//	    return err
//	}
//	if err := dev.Submit([]*command.Buffer{cb}, nil); err != nil {
//	    // driver errors are fatal: dev is lost
//	}
//	cb.Release()
//	buf.Release()
//	dev.Cleanup() // once per frame
//
// # Logging
//
// gfxcore is silent by default. Use SetLogger to route diagnostics to any
// slog handler.
package gfxcore

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
