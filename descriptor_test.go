// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package stream

import "testing"

func TestUniverseAttachLookupDetach(t *testing.T) {
	u := NewUniverse()

	h1 := u.attachDescriptor(NewThreadDescriptor(ThreadDescriptor{ID: 7}))
	h2 := u.attachDescriptor(NewMemoryDescriptor(MemoryDescriptor{Base: 4096, Size: 8192}))
	if h1 == h2 {
		t.Fatalf("attachDescriptor allocated the same handle twice: %v", h1)
	}

	d1, ok := u.Lookup(h1)
	if !ok || d1.Kind != DescriptorThread || d1.Thread.ID != 7 {
		t.Fatalf("Lookup(h1) = %+v, %v, want the thread descriptor", d1, ok)
	}

	u.Detach(h1)
	if _, ok := u.Lookup(h1); ok {
		t.Fatalf("Lookup(h1) succeeded after Detach")
	}
	if _, ok := u.Lookup(h2); !ok {
		t.Fatalf("Detach(h1) also removed h2")
	}
}
