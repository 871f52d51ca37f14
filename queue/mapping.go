// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package queue

import (
	"fmt"

	"github.com/gogpu/gfxcore/handle"
	"github.com/gogpu/gfxcore/native"
	"github.com/gogpu/gputypes"
)

func mappingOf(b *handle.Buffer) (*handle.RawBuffer, *handle.Mapping, error) {
	raw := b.Get()
	if raw.Mapping == nil {
		return nil, nil, fmt.Errorf("%w: %s has no map usage", ErrNotMappable, raw)
	}
	return raw, raw.Mapping, nil
}

// Map maps a temporary mapping for CPU access. Persistent mappings are
// always mapped and need no call.
func (q *Queue) Map(b *handle.Buffer, mode gputypes.MapMode) error {
	if q.lost.Load() {
		return ErrDeviceLost
	}
	raw, m, err := mappingOf(b)
	if err != nil {
		return err
	}
	if m.Kind() == handle.MappingPersistent {
		return nil
	}
	if !m.TryAcquire() {
		return fmt.Errorf("%w: %s", ErrResourceBusy, raw)
	}
	defer m.Release()
	if m.IsMapped() {
		return nil
	}

	access := native.MapAccessFromMode(mode) & m.Access()
	if access == 0 {
		return fmt.Errorf("%w: %s cannot be mapped for mode %d", ErrNotMappable, raw, mode)
	}
	ptr, err := q.mapRange(raw, 0, raw.Info.Size, access)
	if err != nil {
		if derr := q.checkDriver("MapBufferRange"); derr != nil {
			q.markLost(derr)
			return derr
		}
		return err
	}
	m.SetBytes(ptr)
	return nil
}

// Unmap unmaps a temporary mapping. Unmapping an unmapped or persistent
// mapping is a no-op.
func (q *Queue) Unmap(b *handle.Buffer) error {
	raw, m, err := mappingOf(b)
	if err != nil {
		return err
	}
	if m.Kind() == handle.MappingPersistent {
		return nil
	}
	if !m.TryAcquire() {
		return fmt.Errorf("%w: %s", ErrResourceBusy, raw)
	}
	defer m.Release()
	if !m.IsMapped() {
		return nil
	}
	q.gl.UnmapBuffer(q.bindScratch(raw))
	m.SetBytes(nil)
	return nil
}

// Write copies data into the mapping at offset. Persistent mappings first
// wait for the last submission that used the buffer; the write is flushed
// by the next submission that uses it.
func (q *Queue) Write(b *handle.Buffer, offset uint64, data []byte) error {
	return q.access(b, native.MapWrite, func(raw *handle.RawBuffer, m *handle.Mapping) error {
		w, err := mappedWindow(raw, m, offset, len(data))
		if err != nil {
			return err
		}
		copy(w, data)
		if m.Kind() == handle.MappingPersistent {
			m.MarkWritten()
		}
		return nil
	})
}

// Read copies len(dst) bytes from the mapping at offset into dst.
func (q *Queue) Read(b *handle.Buffer, offset uint64, dst []byte) error {
	return q.access(b, native.MapRead, func(raw *handle.RawBuffer, m *handle.Mapping) error {
		w, err := mappedWindow(raw, m, offset, len(dst))
		if err != nil {
			return err
		}
		copy(dst, w)
		return nil
	})
}

// access runs fn while holding b's mapping gate.
func (q *Queue) access(b *handle.Buffer, want native.MapAccess, fn func(*handle.RawBuffer, *handle.Mapping) error) error {
	raw, m, err := mappingOf(b)
	if err != nil {
		return err
	}
	if !m.Access().Has(want) {
		return fmt.Errorf("%w: %s lacks access %b", ErrNotMappable, raw, want)
	}
	if !m.TryAcquire() {
		return fmt.Errorf("%w: %s", ErrResourceBusy, raw)
	}
	defer m.Release()

	if m.Kind() == handle.MappingPersistent {
		if f := m.LastAccess(); f != nil {
			if err := q.WaitFence(f, q.fenceTimeout); err != nil {
				return err
			}
		}
	}
	return fn(raw, m)
}

func mappedWindow(raw *handle.RawBuffer, m *handle.Mapping, offset uint64, n int) ([]byte, error) {
	ptr := m.Bytes()
	if ptr == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotMapped, raw)
	}
	end := offset + uint64(n)
	if end > uint64(len(ptr)) {
		return nil, fmt.Errorf("%w: [%d, %d) of %s, mapped size %d", ErrOutOfRange, offset, end, raw, len(ptr))
	}
	return ptr[offset:end], nil
}
