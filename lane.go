// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package stream

// LaneHandle is a (stream, lane) pair that conceptually holds one unit of
// peer count on stream.peers[lane]. Cloning increments that count;
// dropping decrements it. When the last handle to a lane drops, the lane
// is marked broken; when both lanes of a stream are broken, the stream
// becomes unreachable and is reclaimed by the garbage collector like any
// other Go value — there is no explicit destructor to run.
type LaneHandle struct {
	stream *Stream
	lane   int
}

// Stream returns the handle's owning stream.
func (h LaneHandle) Stream() *Stream { return h.stream }

// Lane returns the handle's lane index, 0 or 1.
func (h LaneHandle) Lane() int { return h.lane }

// Clone returns a new LaneHandle to the same (stream, lane), incrementing
// the lane's peer count. A clone is always sequenced after an observation
// of a live handle, so the increment uses relaxed ordering.
func (h LaneHandle) Clone() LaneHandle {
	h.stream.peers[h.lane].Add(1)
	return LaneHandle{stream: h.stream, lane: h.lane}
}

// Drop releases this handle's unit of the lane's peer count. When the
// count reaches zero the lane is marked broken: every item still parked
// on this lane is drained with ClosedLocally, and everything parked on
// the opposite lane, which can now never see a partner arrive, is
// drained with ClosedRemotely.
//
// Drop cannot tell copies of a handle apart: dropping a handle twice
// releases two units of the lane's peer count. It panics as a contract
// breach only when the lane's peer count is already zero, for example
// when the last handle to a lane is dropped a second time.
func (h LaneHandle) Drop() {
	h.stream.dropLane(h.lane)
}

// Submit runs u through the owning stream's matcher on this lane. It is a
// convenience wrapper around Stream.Submit so callers holding only a
// LaneHandle never need to reach for its stream separately.
func (h LaneHandle) Submit(u item) (LaneDescriptor, bool) {
	return h.stream.Submit(h, u)
}

// LaneDescriptor wraps a LaneHandle so it can itself be carried as the
// payload of a PushDescriptor/PullDescriptor item — letting a lane be
// transferred across a different stream entirely (the AnyDescriptor
// variant Lane).
type LaneDescriptor struct {
	Handle LaneHandle
}
