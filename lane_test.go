// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package stream_test

import (
	"sync"
	"testing"

	"github.com/managarm/stream"
)

func TestCloseDrainsParkedItems(t *testing.T) {
	l0, l1 := stream.NewStream()

	sink1 := stream.NewCompletionSink[struct{}]()
	sink2 := stream.NewCompletionSink[struct{}]()
	l0.Submit(stream.NewSendBuffer([]byte("a"), nil, sink1))
	l0.Submit(stream.NewSendBuffer([]byte("b"), nil, sink2))

	l0.Drop()

	if result := sink1.Await(); result.Err != stream.ClosedLocally {
		t.Fatalf("first parked item completed with %v, want ClosedLocally", result.Err)
	}
	if result := sink2.Await(); result.Err != stream.ClosedLocally {
		t.Fatalf("second parked item completed with %v, want ClosedLocally", result.Err)
	}
	_ = l1
}

func TestRemoteCloseBeforeMatch(t *testing.T) {
	l0, l1 := stream.NewStream()

	recvSink := stream.NewCompletionSink[int]()
	l1.Submit(stream.NewRecvBuffer(make([]byte, 4), nil, recvSink))

	l0.Drop()

	result := recvSink.Await()
	if result.Err != stream.ClosedRemotely {
		t.Fatalf("waiting recv completed with %v, want ClosedRemotely", result.Err)
	}
}

func TestSubmitOnClosedLaneFailsFast(t *testing.T) {
	l0, _ := stream.NewStream()
	l0.Drop()

	sink := stream.NewCompletionSink[struct{}]()
	_, ok := l0.Submit(stream.NewSendBuffer([]byte("x"), nil, sink))
	if ok {
		t.Fatalf("Submit on a closed lane returned ok=true, want false")
	}
	if result := sink.Await(); result.Err != stream.ClosedLocally {
		t.Fatalf("submit on closed lane completed with %v, want ClosedLocally", result.Err)
	}
}

func TestCloneKeepsLaneOpenUntilAllDrop(t *testing.T) {
	l0, l1 := stream.NewStream()
	l0b := l0.Clone()

	recvSink := stream.NewCompletionSink[int]()
	l1.Submit(stream.NewRecvBuffer(make([]byte, 4), nil, recvSink))

	l0.Drop()
	if _, ok := recvSink.TryAwait(); ok {
		t.Fatalf("recv completed before the last clone of lane 0 dropped")
	}

	l0b.Drop()
	if result := recvSink.Await(); result.Err != stream.ClosedRemotely {
		t.Fatalf("recv completed with %v, want ClosedRemotely", result.Err)
	}
}

func TestConcurrentClonesDropExactlyOnce(t *testing.T) {
	l0, l1 := stream.NewStream()

	const holders = 64
	clones := make([]stream.LaneHandle, holders)
	clones[0] = l0
	for i := 1; i < holders; i++ {
		clones[i] = l0.Clone()
	}

	recvSink := stream.NewCompletionSink[int]()
	l1.Submit(stream.NewRecvBuffer(make([]byte, 4), nil, recvSink))

	var wg sync.WaitGroup
	for _, c := range clones {
		wg.Add(1)
		go func(c stream.LaneHandle) {
			defer wg.Done()
			c.Drop()
		}(c)
	}
	wg.Wait()

	if result := recvSink.Await(); result.Err != stream.ClosedRemotely {
		t.Fatalf("recv completed with %v, want ClosedRemotely", result.Err)
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("dropping an already-fully-released lane did not panic")
		}
	}()
	l0.Drop()
}
