// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package stream

// itemKind tags which of the six stream operations an item represents.
// Dispatch in the matcher is a (kind(u), kind(v)) table realized as a
// plain Go type switch, never a virtual-dispatch hierarchy.
type itemKind int

const (
	kindOffer itemKind = iota
	kindAccept
	kindSendBuffer
	kindRecvBuffer
	kindPushDescriptor
	kindPullDescriptor
)

// item is the closed sum of stream operations. Every concrete item type
// in this file implements it; no other type may.
type item interface {
	kind() itemKind
	// fail completes the item's sink with e and no payload. Used by the
	// lane-close drain path and by Submit's early ClosedLocally /
	// ClosedRemotely returns.
	fail(e Error)
}

// OfferItem is the effect of offering to spawn a conversation. Its
// completion carries no payload: the offering side already received its
// own LaneDescriptor synchronously from Submit, at park time if the Offer
// did not match immediately.
type OfferItem struct {
	submitInfo any
	sink       *CompletionSink[struct{}]
}

// NewOffer constructs an Offer item bound to sink. submitInfo is opaque to
// the core and echoed back verbatim in the completion.
func NewOffer(submitInfo any, sink *CompletionSink[struct{}]) *OfferItem {
	return &OfferItem{submitInfo: submitInfo, sink: sink}
}

func (i *OfferItem) kind() itemKind { return kindOffer }
func (i *OfferItem) fail(e Error) {
	i.sink.Complete(Result[struct{}]{Err: e, SubmitInfo: i.submitInfo})
}

// AcceptItem is the effect of accepting a conversation. Its completion
// carries a Handle naming the conversation's far lane in universe — the
// acceptor's own numeric reference to the capability, distinct from (and
// in addition to) the raw LaneDescriptor Submit returns synchronously to
// whichever side happened to be the live caller.
type AcceptItem struct {
	submitInfo any
	universe   *Universe
	sink       *CompletionSink[Handle]
}

// NewAccept constructs an Accept item. The returned handle, once
// completed, names the conversation lane within universe.
func NewAccept(submitInfo any, universe *Universe, sink *CompletionSink[Handle]) *AcceptItem {
	return &AcceptItem{submitInfo: submitInfo, universe: universe, sink: sink}
}

func (i *AcceptItem) kind() itemKind { return kindAccept }
func (i *AcceptItem) fail(e Error) {
	i.sink.Complete(Result[Handle]{Err: e, SubmitInfo: i.submitInfo})
}

// SendBufferItem is the effect of sending buf to a matching RecvBuffer. The
// sender retains ownership of buf until the match runs, which consumes it
// by copying into the receiver's buffer.
type SendBufferItem struct {
	submitInfo any
	buf        []byte
	sink       *CompletionSink[struct{}]
}

// NewSendBuffer constructs a SendBuffer item carrying buf.
func NewSendBuffer(buf []byte, submitInfo any, sink *CompletionSink[struct{}]) *SendBufferItem {
	return &SendBufferItem{buf: buf, submitInfo: submitInfo, sink: sink}
}

func (i *SendBufferItem) kind() itemKind { return kindSendBuffer }
func (i *SendBufferItem) fail(e Error) {
	i.sink.Complete(Result[struct{}]{Err: e, SubmitInfo: i.submitInfo})
}

// RecvBufferItem is the effect of receiving into buf from a matching
// SendBuffer. buf's length is the receiver's capacity; on a successful
// match the completion payload is the number of bytes actually written.
type RecvBufferItem struct {
	submitInfo any
	buf        []byte
	sink       *CompletionSink[int]
}

// NewRecvBuffer constructs a RecvBuffer item whose destination is buf.
func NewRecvBuffer(buf []byte, submitInfo any, sink *CompletionSink[int]) *RecvBufferItem {
	return &RecvBufferItem{buf: buf, submitInfo: submitInfo, sink: sink}
}

func (i *RecvBufferItem) kind() itemKind { return kindRecvBuffer }
func (i *RecvBufferItem) fail(e Error) {
	i.sink.Complete(Result[int]{Err: e, SubmitInfo: i.submitInfo})
}

// PushDescriptorItem is the effect of pushing desc to a matching
// PullDescriptor. The pusher retains ownership until the match runs.
type PushDescriptorItem struct {
	submitInfo any
	desc       AnyDescriptor
	sink       *CompletionSink[struct{}]
}

// NewPushDescriptor constructs a PushDescriptor item carrying desc.
func NewPushDescriptor(desc AnyDescriptor, submitInfo any, sink *CompletionSink[struct{}]) *PushDescriptorItem {
	return &PushDescriptorItem{desc: desc, submitInfo: submitInfo, sink: sink}
}

func (i *PushDescriptorItem) kind() itemKind { return kindPushDescriptor }
func (i *PushDescriptorItem) fail(e Error) {
	i.sink.Complete(Result[struct{}]{Err: e, SubmitInfo: i.submitInfo})
}

// PullDescriptorItem is the effect of pulling a descriptor from a matching
// PushDescriptor. On a successful match the pushed descriptor is attached
// into universe and the completion payload is the resulting Handle.
type PullDescriptorItem struct {
	submitInfo any
	universe   *Universe
	sink       *CompletionSink[Handle]
}

// NewPullDescriptor constructs a PullDescriptor item. Descriptors it pulls
// land in universe.
func NewPullDescriptor(submitInfo any, universe *Universe, sink *CompletionSink[Handle]) *PullDescriptorItem {
	return &PullDescriptorItem{submitInfo: submitInfo, universe: universe, sink: sink}
}

func (i *PullDescriptorItem) kind() itemKind { return kindPullDescriptor }
func (i *PullDescriptorItem) fail(e Error) {
	i.sink.Complete(Result[Handle]{Err: e, SubmitInfo: i.submitInfo})
}

// isConversationItem reports whether u is an Offer or Accept — the two
// item kinds that spawn/adopt a conversation FIFO entry.
func isConversationItem(u item) bool {
	k := u.kind()
	return k == kindOffer || k == kindAccept
}
