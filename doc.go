// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package stream implements a bidirectional rendezvous IPC primitive: a
// two-lane Stream that matches send operations against receive operations,
// transfers bytes and capability-style descriptors between two endpoints,
// and spawns child streams ("conversations") for nested request/response
// dialogs.
//
// # Architecture
//
//   - Lanes: a [Stream] exposes exactly two symmetric endpoints, numbered 0
//     and 1. Each side owns a [LaneHandle] and independently submits items.
//   - Matching: [LaneHandle.Submit] either completes an item immediately
//     against a parked partner on the opposite lane, or parks it until one
//     arrives. Matching is strict FIFO per lane.
//   - Completion: every item carries a single-shot completion sink backed
//     by lfq. Completions fire outside the stream's lock and may re-enter
//     Submit on the same or another stream.
//   - Descriptors: [AnyDescriptor] values travel through PushDescriptor and
//     PullDescriptor items and land in the recipient's [Universe] as a
//     numeric [Handle].
//   - Conversations: an Offer/Accept match constructs a fresh child Stream
//     and hands a [LaneDescriptor] to each side.
//
// # Non-goals
//
// Long-haul transport, flow control beyond point-to-point matching,
// authentication (lane possession is authority), and ordering guarantees
// across different lanes are all out of scope: this package is the
// in-process primitive other subsystems build a protocol on top of, not a
// protocol itself.
//
// # Example
//
//	l0, l1 := stream.NewStream()
//
//	sendSink := stream.NewCompletionSink[struct{}]()
//	l0.Submit(stream.NewSendBuffer([]byte("hello"), nil, sendSink))
//
//	recvSink := stream.NewCompletionSink[int]()
//	l1.Submit(stream.NewRecvBuffer(make([]byte, 16), nil, recvSink))
//
//	result := recvSink.Await()
package stream
