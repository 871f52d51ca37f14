// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !release

package device

import (
	"errors"
	"testing"

	"github.com/gogpu/gfxcore/handle"
	"github.com/gogpu/gfxcore/native"
	"github.com/gogpu/gfxcore/queue"
	"github.com/gogpu/gputypes"
)

func TestCreateBufferDriverError(t *testing.T) {
	dev, rec := openDevice(t, desktopCaps())
	rec.FailOn("BufferStorage", native.CodeOutOfMemory)

	_, err := dev.CreateBuffer(handle.BufferInfo{Size: 1 << 20, Usage: gputypes.BufferUsageVertex})
	var derr *queue.DriverError
	if !errors.As(err, &derr) {
		t.Fatalf("error = %v, want *queue.DriverError", err)
	}
	if derr.Kind != native.OutOfMemory {
		t.Errorf("Kind = %v, want OutOfMemory", derr.Kind)
	}
	if !dev.Lost() {
		t.Error("device not lost after a driver error")
	}
	if _, err := dev.CreateBuffer(handle.BufferInfo{Size: 4}); !errors.Is(err, queue.ErrDeviceLost) {
		t.Errorf("CreateBuffer() on lost device error = %v, want ErrDeviceLost", err)
	}
}
