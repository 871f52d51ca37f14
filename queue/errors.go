// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package queue

import (
	"errors"
	"fmt"

	"github.com/gogpu/gfxcore/command"
	"github.com/gogpu/gfxcore/native"
)

// Queue errors.
var (
	// ErrDeviceLost is returned once a fatal error has been observed.
	// Every later submission fails with it.
	ErrDeviceLost = errors.New("queue: device lost")

	// ErrResourceBusy is returned when a mapped buffer is already held by
	// another submission or CPU access.
	ErrResourceBusy = errors.New("queue: mapped resource busy")

	// ErrNotMapped is returned for CPU access to an unmapped temporary
	// mapping.
	ErrNotMapped = errors.New("queue: buffer not mapped")

	// ErrNotMappable is returned for CPU access the buffer's usage does not
	// allow.
	ErrNotMappable = errors.New("queue: buffer not mappable")

	// ErrOutOfRange is returned when a CPU access exceeds the mapping.
	ErrOutOfRange = errors.New("queue: range exceeds mapping")

	// ErrMapFailed is returned when the driver refuses a mapping.
	ErrMapFailed = errors.New("queue: driver refused mapping")

	// ErrFenceTimeout is returned when a fence wait exceeds its timeout.
	ErrFenceTimeout = errors.New("queue: fence wait timed out")

	// ErrMappingInvariant is returned when a mapping's kind contradicts the
	// driver's capabilities. It is fatal.
	ErrMappingInvariant = errors.New("queue: mapping kind contradicts driver capabilities")
)

// CommandError reports a driver error raised while replaying a command.
// It is fatal: the queue is lost afterwards.
type CommandError struct {
	// Index is the command's position within its command buffer.
	Index   int
	Command command.Command
	Kind    native.ErrorKind
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("queue: command %d %s: driver error %s", e.Index, e.Command, e.Kind)
}

// Unwrap returns ErrDeviceLost.
func (e *CommandError) Unwrap() error { return ErrDeviceLost }

// DriverError reports a driver error raised outside command replay, by
// resource deletion, mapping or fence waits. It is fatal.
type DriverError struct {
	Op   string
	Kind native.ErrorKind
}

func (e *DriverError) Error() string {
	return fmt.Sprintf("queue: %s: driver error %s", e.Op, e.Kind)
}

// Unwrap returns ErrDeviceLost.
func (e *DriverError) Unwrap() error { return ErrDeviceLost }
