// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package handle

import (
	"sync"

	"github.com/gogpu/gfxcore/native"
)

// SyncObject is the payload of fences and semaphores: a driver sync token
// that is replaced in place each time the object is signaled again.
//
// SyncObject is safe for concurrent use.
type SyncObject struct {
	mu   sync.Mutex
	sync native.Sync
}

// NewSyncObject returns a payload holding s.
func NewSyncObject(s native.Sync) *SyncObject {
	return &SyncObject{sync: s}
}

// Load returns the current token.
func (o *SyncObject) Load() native.Sync {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.sync
}

// Replace stores s and returns the previous token.
func (o *SyncObject) Replace(s native.Sync) native.Sync {
	o.mu.Lock()
	defer o.mu.Unlock()
	old := o.sync
	o.sync = s
	return old
}

// Do runs fn with the token while holding the lock. The token returned by
// fn replaces the current one.
func (o *SyncObject) Do(fn func(native.Sync) native.Sync) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sync = fn(o.sync)
}
