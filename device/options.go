// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package device

import (
	"time"

	"github.com/gogpu/gfxcore/queue"
)

// Option configures a Device during creation.
// Use functional options to customize Device behavior.
//
// Example:
//
//	// Defaults
//	dev := device.New(gl, caps)
//
//	// Tighter fence waits for an interactive application
//	dev := device.New(gl, caps, device.WithFenceTimeout(100*time.Millisecond))
type Option func(*options)

// options holds optional configuration for Device creation.
type options struct {
	maxResourceCount int
	fenceTimeout     time.Duration
}

// defaultOptions returns the default device options.
func defaultOptions() options {
	return options{
		maxResourceCount: queue.DefaultMaxResourceCount,
		fenceTimeout:     queue.DefaultFenceTimeout,
	}
}

// WithMaxResourceCount sets the soft cap on resource references one frame
// may pin before a warning is logged. The warning is logged once, after
// which the check is disabled. Zero disables the check from the start.
//
// Example:
//
//	dev := device.New(gl, caps, device.WithMaxResourceCount(4096))
func WithMaxResourceCount(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxResourceCount = n
		}
	}
}

// WithFenceTimeout bounds every fence wait the device performs.
// Non-positive values keep the default of one second.
//
// Example:
//
//	dev := device.New(gl, caps, device.WithFenceTimeout(250*time.Millisecond))
func WithFenceTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.fenceTimeout = d
		}
	}
}
