// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package stream

import (
	"container/list"
	"sync"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Stream is a bidirectional rendezvous channel with exactly two lanes. Every
// item submitted on one lane is matched, in strict per-lane FIFO order,
// against an item of the complementary kind submitted on the other lane;
// matching runs inline on whichever goroutine's Submit call completes the
// pair.
//
// A Stream's zero value is not usable; construct one with NewStream or
// (internally) newConversation.
type Stream struct {
	id uuid.UUID

	mu                   sync.Mutex
	queue                [2]list.List
	pendingConversations list.List
	broken               [2]bool

	peers [2]atomix.Uint32

	logger      *zap.Logger
	sinkBackoff iox.Backoff
}

// ID returns the stream's identity, used only for log correlation — never
// as a capability.
func (s *Stream) ID() uuid.UUID { return s.id }

// SinkBackoff returns the backoff profile this stream was constructed with
// via WithSinkBackoff, for callers who want their item completion sinks to
// retry on the same schedule the stream's own code recommends.
func (s *Stream) SinkBackoff() iox.Backoff { return s.sinkBackoff }

// NewStream constructs a fresh top-level rendezvous stream and returns its
// two lane handles. Each handle starts with a peer count of one: the
// caller, not the stream, decides how (and whether) to distribute them
// further via Clone.
func NewStream(opts ...Option) (LaneHandle, LaneHandle) {
	cfg := defaultStreamConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Stream{id: uuid.New(), logger: cfg.logger, sinkBackoff: cfg.sinkBackoff}
	s.peers[0].Add(1)
	s.peers[1].Add(1)

	s.logger.Debug("stream opened", zap.String("stream_id", s.id.String()))
	return LaneHandle{stream: s, lane: 0}, LaneHandle{stream: s, lane: 1}
}

// newConversation constructs a child stream spawned by a matched or
// speculatively-parked Offer/Accept pair. Both lanes start pre-paid for two
// peer-count units: one that always ends up in the hands of whichever side
// submits on that lane directly (via Submit's return value), and a second
// that either reaches the accepting side through its completion or
// is withdrawn and immediately released again by the matcher, since Offer
// never receives a second handle to its own lane. It does not log: its
// caller runs under the parent stream's mutex and logs the spawn after
// releasing it.
func newConversation(logger *zap.Logger) *Stream {
	c := &Stream{id: uuid.New(), logger: logger}
	c.peers[0].Add(2)
	c.peers[1].Add(2)
	return c
}

// Submit runs the matching algorithm for u on lane.Lane(). It returns a
// non-empty LaneDescriptor only when u is an Offer or Accept, whether u
// parks (speculatively, for the conversation it creates) or matches
// immediately against a partner already waiting.
//
// Submit never blocks: a match, if one is found, is completed inline
// before Submit returns; otherwise u is parked and Submit returns at once.
func (s *Stream) Submit(lane LaneHandle, u item) (LaneDescriptor, bool) {
	if lane.stream != s {
		panic("stream: contract breach: lane handle does not belong to this stream")
	}
	p := lane.lane
	q := 1 - p

	s.mu.Lock()

	if s.broken[p] {
		s.mu.Unlock()
		u.fail(ClosedLocally)
		return LaneDescriptor{}, false
	}

	if front := s.queue[q].Front(); front != nil {
		v := s.queue[q].Remove(front).(item)

		var conv *Stream
		if isConversationItem(u) {
			if convEl := s.pendingConversations.Front(); convEl != nil {
				conv = s.pendingConversations.Remove(convEl).(*Stream)
			}
		}
		s.mu.Unlock()
		return s.transfer(p, q, u, v, conv)
	}

	if s.broken[q] {
		s.mu.Unlock()
		u.fail(ClosedRemotely)
		return LaneDescriptor{}, false
	}

	if isConversationItem(u) {
		conv := newConversation(s.logger)
		s.pendingConversations.PushBack(conv)
		s.queue[p].PushBack(u)
		s.mu.Unlock()
		s.logger.Debug("conversation spawned", zap.String("stream_id", conv.id.String()))
		return LaneDescriptor{Handle: LaneHandle{stream: conv, lane: p}}, true
	}

	s.queue[p].PushBack(u)
	s.mu.Unlock()
	return LaneDescriptor{}, false
}

// transfer completes the match between the live submission u (on lane p)
// and the previously parked v (on lane q), dispatching on u's concrete
// kind with a plain type switch, never a virtual call. conv is non-nil
// only for an Offer/Accept pair.
func (s *Stream) transfer(p, q int, u, v item, conv *Stream) (LaneDescriptor, bool) {
	switch uu := u.(type) {
	case *OfferItem:
		vv, ok := v.(*AcceptItem)
		if !ok {
			panic("stream: contract breach: unmatched item kinds")
		}
		completeOfferAccept(conv, p, uu, q, vv)
		return LaneDescriptor{Handle: LaneHandle{stream: conv, lane: p}}, true
	case *AcceptItem:
		vv, ok := v.(*OfferItem)
		if !ok {
			panic("stream: contract breach: unmatched item kinds")
		}
		completeOfferAccept(conv, q, vv, p, uu)
		return LaneDescriptor{Handle: LaneHandle{stream: conv, lane: p}}, true
	case *SendBufferItem:
		vv, ok := v.(*RecvBufferItem)
		if !ok {
			panic("stream: contract breach: unmatched item kinds")
		}
		completeSendRecv(uu, vv)
		return LaneDescriptor{}, false
	case *RecvBufferItem:
		vv, ok := v.(*SendBufferItem)
		if !ok {
			panic("stream: contract breach: unmatched item kinds")
		}
		completeSendRecv(vv, uu)
		return LaneDescriptor{}, false
	case *PushDescriptorItem:
		vv, ok := v.(*PullDescriptorItem)
		if !ok {
			panic("stream: contract breach: unmatched item kinds")
		}
		completePushPull(uu, vv)
		return LaneDescriptor{}, false
	case *PullDescriptorItem:
		vv, ok := v.(*PushDescriptorItem)
		if !ok {
			panic("stream: contract breach: unmatched item kinds")
		}
		completePushPull(vv, uu)
		return LaneDescriptor{}, false
	default:
		panic("stream: contract breach: unrecognized item kind")
	}
}

// completeOfferAccept finishes matching an Offer (on conv's lane offerLane)
// against an Accept (on acceptLane). It completes both sinks and settles
// every peer-count unit except the one direct-return handle still owed to
// whichever of the two was the live caller — transfer constructs and
// returns that one itself, since it is the same regardless of which side
// is Offer and which is Accept.
//
// Offer's own lane ever carries exactly one live handle overall: the
// direct-return one, delivered from whichever Submit call — live or
// parked — belonged to the Offer side. The matcher withdraws and
// immediately drops the conversation's second pre-paid unit for that lane
// here. Accept's own lane carries two: the same direct-return handle, plus
// a second attached into its universe and delivered through its
// completion, withdrawn here.
func completeOfferAccept(conv *Stream, offerLane int, offer *OfferItem, acceptLane int, accept *AcceptItem) {
	LaneHandle{stream: conv, lane: offerLane}.Drop()

	acceptHandle := LaneHandle{stream: conv, lane: acceptLane}
	h := accept.universe.attachDescriptor(NewLaneDescriptorAny(LaneDescriptor{Handle: acceptHandle}))
	accept.sink.Complete(Result[Handle]{Err: Success, SubmitInfo: accept.submitInfo, Payload: h})
	offer.sink.Complete(Result[struct{}]{Err: Success, SubmitInfo: offer.submitInfo})
}

// completeSendRecv copies send's buffer into recv's, truncating to
// whichever is smaller. The sender always sees Success: it handed over
// everything it had. The receiver sees BufferTooSmall, with the truncated
// byte count still reported, when its buffer could not hold the whole
// transfer.
func completeSendRecv(send *SendBufferItem, recv *RecvBufferItem) {
	n := copy(recv.buf, send.buf)
	send.sink.Complete(Result[struct{}]{Err: Success, SubmitInfo: send.submitInfo})
	if len(send.buf) > len(recv.buf) {
		recv.sink.Complete(Result[int]{Err: BufferTooSmall, SubmitInfo: recv.submitInfo, Payload: n})
		return
	}
	recv.sink.Complete(Result[int]{Err: Success, SubmitInfo: recv.submitInfo, Payload: n})
}

// completePushPull attaches push's descriptor into pull's universe and
// delivers the resulting Handle through pull's completion.
func completePushPull(push *PushDescriptorItem, pull *PullDescriptorItem) {
	push.sink.Complete(Result[struct{}]{Err: Success, SubmitInfo: push.submitInfo})
	h := pull.universe.attachDescriptor(push.desc)
	pull.sink.Complete(Result[Handle]{Err: Success, SubmitInfo: pull.submitInfo, Payload: h})
}

// dropLane releases one peer-count unit on lane and, once that count
// reaches zero, marks the lane broken and drains both queues it can now
// never unblock: everything still parked on lane itself fails with
// ClosedLocally, and everything parked on the opposite lane — which was
// waiting for a partner that can now never arrive — fails with
// ClosedRemotely.
func (s *Stream) dropLane(lane int) {
	remaining := s.peers[lane].Add(^uint32(0))
	if remaining == ^uint32(0) {
		// Wrapped past zero: this decrement had no live unit to consume.
		panic("stream: contract breach: lane handle dropped twice")
	}
	if remaining > 0 {
		return
	}

	s.mu.Lock()
	if s.broken[lane] {
		s.mu.Unlock()
		panic("stream: contract breach: lane closed twice")
	}
	s.broken[lane] = true

	localDrained := s.drainQueueLocked(lane)
	remoteDrained := s.drainQueueLocked(1 - lane)
	bothBroken := s.broken[0] && s.broken[1]
	s.mu.Unlock()

	for _, it := range localDrained {
		it.fail(ClosedLocally)
	}
	for _, it := range remoteDrained {
		it.fail(ClosedRemotely)
	}

	s.logger.Debug("lane closed",
		zap.String("stream_id", s.id.String()), zap.Int("lane", lane))
	if bothBroken {
		s.logger.Debug("stream fully closed", zap.String("stream_id", s.id.String()))
	}
}

// drainQueueLocked empties queue[lane], popping its paired pendingConversations
// entry alongside every Offer/Accept item it removes (they were always pushed
// in lockstep at park time). Callers must hold s.mu.
func (s *Stream) drainQueueLocked(lane int) []item {
	var drained []item
	for el := s.queue[lane].Front(); el != nil; {
		next := el.Next()
		it := s.queue[lane].Remove(el).(item)
		if isConversationItem(it) {
			if convEl := s.pendingConversations.Front(); convEl != nil {
				s.pendingConversations.Remove(convEl)
			}
		}
		drained = append(drained, it)
		el = next
	}
	return drained
}
