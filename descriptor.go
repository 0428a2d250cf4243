// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package stream

import (
	"sync"

	"code.hybscloud.com/atomix"
)

// Handle names a descriptor within a Universe.
type Handle uint64

// DescriptorKind tags which flavor of descriptor an AnyDescriptor carries.
type DescriptorKind int

const (
	DescriptorMemory DescriptorKind = iota
	DescriptorThread
	DescriptorLane
)

// MemoryDescriptor names a region of shared memory transferable across a
// stream. The stream core never interprets its contents, only carries and
// attaches it — the memory-mapping hand-off itself belongs to whatever
// consumer looks the handle up afterward.
type MemoryDescriptor struct {
	Base uintptr
	Size uintptr
}

// ThreadDescriptor names a schedulable thread of execution transferable
// across a stream.
type ThreadDescriptor struct {
	ID uint64
}

// AnyDescriptor is a tagged union of the descriptor flavors the
// surrounding system exposes. The stream core only carries and attaches
// these values; it never interprets them.
type AnyDescriptor struct {
	Kind   DescriptorKind
	Memory MemoryDescriptor
	Thread ThreadDescriptor
	Lane   LaneDescriptor
}

// NewMemoryDescriptor wraps m as an AnyDescriptor.
func NewMemoryDescriptor(m MemoryDescriptor) AnyDescriptor {
	return AnyDescriptor{Kind: DescriptorMemory, Memory: m}
}

// NewThreadDescriptor wraps t as an AnyDescriptor.
func NewThreadDescriptor(t ThreadDescriptor) AnyDescriptor {
	return AnyDescriptor{Kind: DescriptorThread, Thread: t}
}

// NewLaneDescriptorAny wraps l as an AnyDescriptor so a lane can itself be
// pushed/pulled across a different stream.
func NewLaneDescriptorAny(l LaneDescriptor) AnyDescriptor {
	return AnyDescriptor{Kind: DescriptorLane, Lane: l}
}

// Universe is a per-principal table mapping numeric Handles to
// descriptors. It is owned by its principal and externally mutable only
// under its own lock, which the stream core takes only for
// attachDescriptor and never while a Stream's own mutex is held.
type Universe struct {
	mu    sync.Mutex
	next  atomix.Uint32
	table map[Handle]AnyDescriptor
}

// NewUniverse constructs an empty handle table.
func NewUniverse() *Universe {
	return &Universe{table: make(map[Handle]AnyDescriptor)}
}

// attachDescriptor allocates a fresh handle, installs d under it, and
// returns the handle. Allocation is monotonic per universe (an
// ever-increasing counter), which trivially guarantees no live-handle
// collision without needing a reuse/free-list policy.
func (u *Universe) attachDescriptor(d AnyDescriptor) Handle {
	h := Handle(u.next.Add(1))
	u.mu.Lock()
	u.table[h] = d
	u.mu.Unlock()
	return h
}

// Lookup returns the descriptor attached under h, if any.
func (u *Universe) Lookup(h Handle) (AnyDescriptor, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	d, ok := u.table[h]
	return d, ok
}

// Detach removes the mapping under h, if present.
func (u *Universe) Detach(h Handle) {
	u.mu.Lock()
	delete(u.table, h)
	u.mu.Unlock()
}
