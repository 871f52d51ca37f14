// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package handle

import (
	"sync"
	"sync/atomic"

	"github.com/gogpu/gfxcore/native"
)

// MappingKind is how a buffer's CPU window is kept.
type MappingKind uint8

// Mapping kinds.
const (
	// MappingPersistent windows stay mapped for the buffer's lifetime;
	// CPU writes are flushed explicitly before submission.
	MappingPersistent MappingKind = iota
	// MappingTemporary windows are mapped on request and must be unmapped
	// before the GPU uses the buffer.
	MappingTemporary
)

// String returns the kind name.
func (k MappingKind) String() string {
	if k == MappingTemporary {
		return "Temporary"
	}
	return "Persistent"
}

// Mapping is the CPU-visible window over a buffer.
//
// Exclusive access is taken through a gate: a submission's access guard or
// a CPU copy holds it, and a second TryAcquire fails until Release.
type Mapping struct {
	kind   MappingKind
	access native.MapAccess
	gate   atomic.Bool

	mu            sync.Mutex
	ptr           []byte
	pendingWrites bool
	lastAccess    *Fence
}

// NewMapping returns a mapping of the given kind. ptr is the mapped window
// for persistent mappings and nil for temporary ones.
func NewMapping(kind MappingKind, access native.MapAccess, ptr []byte) *Mapping {
	return &Mapping{kind: kind, access: access, ptr: ptr}
}

// Kind returns the mapping kind.
func (m *Mapping) Kind() MappingKind { return m.kind }

// Access returns the mapping flags.
func (m *Mapping) Access() native.MapAccess { return m.access }

// TryAcquire takes the gate. It reports false when the gate is already held.
func (m *Mapping) TryAcquire() bool {
	return m.gate.CompareAndSwap(false, true)
}

// Release frees the gate.
func (m *Mapping) Release() {
	m.gate.Store(false)
}

// Held reports whether the gate is held.
func (m *Mapping) Held() bool {
	return m.gate.Load()
}

// Bytes returns the mapped window, or nil while unmapped.
func (m *Mapping) Bytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ptr
}

// IsMapped reports whether a window is currently mapped.
func (m *Mapping) IsMapped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ptr != nil
}

// SetBytes installs (or, with nil, drops) the mapped window.
func (m *Mapping) SetBytes(ptr []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ptr = ptr
}

// MarkWritten records a CPU write that has not been flushed yet.
func (m *Mapping) MarkWritten() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pendingWrites = true
}

// TakePendingWrites reports whether unflushed CPU writes exist and clears
// the flag.
func (m *Mapping) TakePendingWrites() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.pendingWrites
	m.pendingWrites = false
	return p
}

// LastAccess returns the fence of the last submission that used the
// buffer, or nil. The returned handle stays owned by the mapping.
func (m *Mapping) LastAccess() *Fence {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastAccess
}

// SetLastAccess replaces the last-access fence with a clone of f.
// A nil f drops the current one.
func (m *Mapping) SetLastAccess(f *Fence) {
	var next *Fence
	if f != nil {
		next = f.Clone()
	}
	m.mu.Lock()
	old := m.lastAccess
	m.lastAccess = next
	m.mu.Unlock()
	old.Release()
}
