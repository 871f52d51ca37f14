// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package handle

// Pool holds references to resources of one kind.
//
// Every entry owns exactly one reference. The zero value is an empty pool
// ready to use. Pool is not safe for concurrent use; [Manager] serializes
// access to its pools.
type Pool[T any] struct {
	entries []*ref[T]
}

// dependent is implemented by payloads that hold handles to other
// resources. The handles are released once the payload is destroyed.
type dependent interface {
	releaseDependencies()
}

// Insert stores a new resource and returns the first external handle to it.
// The resource starts with two references: the pool's and the handle's.
func (p *Pool[T]) Insert(obj T) *Handle[T] {
	r := &ref[T]{obj: obj}
	r.count.Store(1)
	p.entries = append(p.entries, r)
	return newHandle(r)
}

// Reference adds a reference to h's resource and returns its payload.
// Referencing a released handle panics.
func (p *Pool[T]) Reference(h *Handle[T]) T {
	if h.released.Load() {
		panic("handle: reference of released handle")
	}
	h.r.count.Add(1)
	p.entries = append(p.entries, h.r)
	return h.r.obj
}

// Merge adds a reference for every entry of o.
func (p *Pool[T]) Merge(o *Pool[T]) {
	for _, r := range o.entries {
		r.count.Add(1)
	}
	p.entries = append(p.entries, o.entries...)
}

// adopt moves o's references into p without counting them again.
func (p *Pool[T]) adopt(o *Pool[T]) {
	p.entries = append(p.entries, o.entries...)
	o.entries = nil
}

// Len returns the number of references held.
func (p *Pool[T]) Len() int {
	return len(p.entries)
}

// Clear drops every reference without destroying anything.
func (p *Pool[T]) Clear() {
	for i, r := range p.entries {
		r.count.Add(-1)
		p.entries[i] = nil
	}
	p.entries = p.entries[:0]
}

// Sweep destroys every resource whose only remaining reference is the
// pool's, removing its entry. Entries are compacted by swap-remove, so the
// order of the survivors is not preserved.
//
// A destroy error stops the sweep; the failing entry stays in the pool.
// A nil destroy drops unreferenced entries without a callback.
func (p *Pool[T]) Sweep(destroy func(T) error) (int, error) {
	n := 0
	for i := 0; i < len(p.entries); {
		r := p.entries[i]
		if r.count.Load() != 1 {
			i++
			continue
		}
		if destroy != nil {
			if err := destroy(r.obj); err != nil {
				return n, err
			}
		}
		r.count.Store(0)
		if d, ok := any(r.obj).(dependent); ok {
			d.releaseDependencies()
		}
		last := len(p.entries) - 1
		p.entries[i] = p.entries[last]
		p.entries[last] = nil
		p.entries = p.entries[:last]
		n++
	}
	return n, nil
}

// Each calls fn for every held entry.
func (p *Pool[T]) Each(fn func(T)) {
	for _, r := range p.entries {
		fn(r.obj)
	}
}
