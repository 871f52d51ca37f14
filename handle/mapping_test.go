// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package handle

import (
	"testing"

	"github.com/gogpu/gfxcore/native"
)

func TestMappingGate(t *testing.T) {
	m := NewMapping(MappingTemporary, native.MapRead|native.MapWrite, nil)
	if !m.TryAcquire() {
		t.Fatal("first TryAcquire() = false, want true")
	}
	if m.TryAcquire() {
		t.Error("second TryAcquire() = true, want false")
	}
	if !m.Held() {
		t.Error("Held() = false, want true")
	}
	m.Release()
	if !m.TryAcquire() {
		t.Error("TryAcquire() after Release = false, want true")
	}
}

func TestMappingPendingWrites(t *testing.T) {
	m := NewMapping(MappingPersistent, native.MapWrite, make([]byte, 4))
	if m.TakePendingWrites() {
		t.Error("TakePendingWrites() on fresh mapping = true, want false")
	}
	m.MarkWritten()
	m.MarkWritten()
	if !m.TakePendingWrites() {
		t.Error("TakePendingWrites() = false, want true")
	}
	if m.TakePendingWrites() {
		t.Error("TakePendingWrites() twice = true, want false")
	}
}

func TestMappingBytes(t *testing.T) {
	m := NewMapping(MappingTemporary, native.MapWrite, nil)
	if m.IsMapped() {
		t.Fatal("IsMapped() = true for unmapped temporary mapping")
	}
	m.SetBytes(make([]byte, 4))
	if !m.IsMapped() || len(m.Bytes()) != 4 {
		t.Errorf("after SetBytes: IsMapped() = %v, len = %d", m.IsMapped(), len(m.Bytes()))
	}
	m.SetBytes(nil)
	if m.IsMapped() {
		t.Error("IsMapped() = true after SetBytes(nil)")
	}
	if got := m.Kind().String(); got != "Temporary" {
		t.Errorf("Kind().String() = %q, want Temporary", got)
	}
}

func TestSyncObjectReplace(t *testing.T) {
	o := NewSyncObject(1)
	if old := o.Replace(2); old != 1 {
		t.Errorf("Replace() = %d, want 1", old)
	}
	o.Do(func(s native.Sync) native.Sync { return s + 1 })
	if got := o.Load(); got != 3 {
		t.Errorf("Load() = %d, want 3", got)
	}
}
