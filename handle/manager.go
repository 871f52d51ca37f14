// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package handle

import (
	"fmt"
	"sync"

	"github.com/gogpu/gfxcore/native"
)

// Kind is a resource kind.
type Kind uint8

// Resource kinds in sweep order: dependents come before their sources.
const (
	KindPipeline Kind = iota
	KindProgram
	KindView
	KindBuffer
	KindTexture
	KindSampler
	KindFence
	KindSemaphore
	kindCount
)

var kindNames = [kindCount]string{
	"pipeline", "program", "view", "buffer", "texture", "sampler", "fence", "semaphore",
}

// String returns the kind name.
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Manager is a set of references grouped by resource kind.
//
// A device owns one Manager that holds every live resource; queues and
// command buffers use further managers as frame handle sets.
//
// Manager is safe for concurrent use.
type Manager struct {
	mu         sync.Mutex
	buffers    Pool[*RawBuffer]
	textures   Pool[*RawTexture]
	views      Pool[*RawView]
	samplers   Pool[*RawSampler]
	programs   Pool[*RawProgram]
	pipelines  Pool[*RawPipeline]
	fences     Pool[*SyncObject]
	semaphores Pool[*SyncObject]
}

// NewManager returns an empty manager.
func NewManager() *Manager {
	return &Manager{}
}

// CreateBuffer stores a buffer and returns a handle to it.
func (m *Manager) CreateBuffer(name native.Buffer, info BufferInfo, mapping *Mapping) *Buffer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.buffers.Insert(&RawBuffer{
		Name:    name,
		Info:    info,
		Target:  native.TargetForUsage(info.Usage),
		Mapping: mapping,
	})
}

// CreateTexture stores a texture or renderbuffer surface.
func (m *Manager) CreateTexture(img Image, info TextureInfo) *Texture {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.textures.Insert(&RawTexture{Image: img, Info: info})
}

// CreateTextureView stores a view over src. The view keeps its own handle
// to src.
func (m *Manager) CreateTextureView(src *Texture, info ViewInfo) *View {
	v := &RawView{
		Image:   src.Get().Image,
		Info:    info,
		texture: src.Clone(),
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.views.Insert(v)
}

// CreateBufferView stores a texture-buffer view over src. The view owns
// texture tex and deletes it when destroyed.
func (m *Manager) CreateBufferView(src *Buffer, tex native.Texture) *View {
	v := &RawView{
		Image: TextureImage(tex),
		Info:  ViewInfo{Role: ViewShaderResource, Bind: native.TextureBindBuffer},
		Owned: true,

		buffer: src.Clone(),
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.views.Insert(v)
}

// CreateSampler stores a sampler.
func (m *Manager) CreateSampler(name native.Sampler, info native.SamplerInfo) *Sampler {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.samplers.Insert(&RawSampler{Name: name, Info: info})
}

// CreateProgram stores a linked program.
func (m *Manager) CreateProgram(name native.Program) *Program {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.programs.Insert(&RawProgram{Name: name})
}

// CreatePipeline stores a pipeline using prog. The pipeline keeps its own
// handle to prog.
func (m *Manager) CreatePipeline(prog *Program, info PipelineInfo) *Pipeline {
	p := &RawPipeline{Info: info, program: prog.Clone()}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pipelines.Insert(p)
}

// CreateFence stores a fence holding sync token s (0 for unsignaled).
func (m *Manager) CreateFence(s native.Sync) *Fence {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fences.Insert(NewSyncObject(s))
}

// CreateSemaphore stores a semaphore holding sync token s.
func (m *Manager) CreateSemaphore(s native.Sync) *Semaphore {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.semaphores.Insert(NewSyncObject(s))
}

// RefBuffer references b into the set and returns its payload.
func (m *Manager) RefBuffer(b *Buffer) *RawBuffer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.buffers.Reference(b)
}

// RefTexture references t into the set and returns its payload.
func (m *Manager) RefTexture(t *Texture) *RawTexture {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.textures.Reference(t)
}

// RefView references v and its source into the set and returns the view
// payload.
func (m *Manager) RefView(v *View) *RawView {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw := m.views.Reference(v)
	if raw.texture != nil {
		m.textures.Reference(raw.texture)
	}
	if raw.buffer != nil {
		m.buffers.Reference(raw.buffer)
	}
	return raw
}

// RefSampler references s into the set and returns its payload.
func (m *Manager) RefSampler(s *Sampler) *RawSampler {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.samplers.Reference(s)
}

// RefProgram references p into the set and returns its payload.
func (m *Manager) RefProgram(p *Program) *RawProgram {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.programs.Reference(p)
}

// RefPipeline references p and its program into the set and returns the
// pipeline payload.
func (m *Manager) RefPipeline(p *Pipeline) *RawPipeline {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw := m.pipelines.Reference(p)
	m.programs.Reference(raw.program)
	return raw
}

// RefFence references f into the set and returns its payload.
func (m *Manager) RefFence(f *Fence) *SyncObject {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fences.Reference(f)
}

// RefSemaphore references s into the set and returns its payload.
func (m *Manager) RefSemaphore(s *Semaphore) *SyncObject {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.semaphores.Reference(s)
}

// Merge adds a reference for everything o references. References are
// taken under o's lock and handed over under m's, never holding both.
func (m *Manager) Merge(o *Manager) {
	if m == o {
		panic("handle: merge of a manager into itself")
	}
	var snap Manager
	o.mu.Lock()
	snap.buffers.Merge(&o.buffers)
	snap.textures.Merge(&o.textures)
	snap.views.Merge(&o.views)
	snap.samplers.Merge(&o.samplers)
	snap.programs.Merge(&o.programs)
	snap.pipelines.Merge(&o.pipelines)
	snap.fences.Merge(&o.fences)
	snap.semaphores.Merge(&o.semaphores)
	o.mu.Unlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.buffers.adopt(&snap.buffers)
	m.textures.adopt(&snap.textures)
	m.views.adopt(&snap.views)
	m.samplers.adopt(&snap.samplers)
	m.programs.adopt(&snap.programs)
	m.pipelines.adopt(&snap.pipelines)
	m.fences.adopt(&snap.fences)
	m.semaphores.adopt(&snap.semaphores)
}

// Count returns the number of references held across all kinds.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.buffers.Len() + m.textures.Len() + m.views.Len() +
		m.samplers.Len() + m.programs.Len() + m.pipelines.Len() +
		m.fences.Len() + m.semaphores.Len()
}

// CountOf returns the number of references held for kind k.
func (m *Manager) CountOf(k Kind) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch k {
	case KindPipeline:
		return m.pipelines.Len()
	case KindProgram:
		return m.programs.Len()
	case KindView:
		return m.views.Len()
	case KindBuffer:
		return m.buffers.Len()
	case KindTexture:
		return m.textures.Len()
	case KindSampler:
		return m.samplers.Len()
	case KindFence:
		return m.fences.Len()
	case KindSemaphore:
		return m.semaphores.Len()
	default:
		return 0
	}
}

// Clear drops every reference held without destroying anything.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buffers.Clear()
	m.textures.Clear()
	m.views.Clear()
	m.samplers.Clear()
	m.programs.Clear()
	m.pipelines.Clear()
	m.fences.Clear()
	m.semaphores.Clear()
}

// EachBuffer calls fn for every buffer reference held.
func (m *Manager) EachBuffer(fn func(*RawBuffer)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buffers.Each(fn)
}
