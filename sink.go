// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package stream

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/lfq"
)

// sinkCapacity is the lfq queue capacity backing a completion sink. A sink
// ever carries exactly one result; lfq's minimum ring capacity is 2 (it
// rounds up to the next power of 2), so this is the smallest true
// single-slot handoff the queue type supports.
const sinkCapacity = 2

// Result is the value delivered by a completion sink: the recoverable
// Error tag, the submit-info echoed back verbatim from the originating
// item, and a kind-specific success payload.
type Result[T any] struct {
	Err        Error
	SubmitInfo any
	Payload    T
}

// CompletionSink is the single-producer/single-consumer transport carrying
// an item's one-shot result from the matcher, or the lane-close drain
// path, back to the item's original submitter. Exactly one of the matcher
// or the drain path ever produces into a given sink; exactly one caller
// ever consumes from it.
type CompletionSink[T any] struct {
	q     *lfq.SPSC[Result[T]]
	fired atomix.Uint32
}

// NewCompletionSink constructs an empty sink ready to receive exactly one
// completion.
func NewCompletionSink[T any]() *CompletionSink[T] {
	s := &CompletionSink[T]{}
	s.q = lfq.NewSPSC[Result[T]](sinkCapacity)
	return s
}

// Complete fulfills the sink with r. Complete must be called exactly once
// per sink; a second call panics as a contract breach.
func (s *CompletionSink[T]) Complete(r Result[T]) {
	if !s.fired.CompareAndSwap(0, 1) {
		panic("stream: contract breach: completion sink fired twice")
	}
	if err := s.q.Enqueue(&r); err != nil {
		panic("stream: completion sink enqueue failed: " + err.Error())
	}
}

// Await blocks the calling goroutine until the sink's single result lands,
// retrying the non-blocking Dequeue with iox.Backoff.
func (s *CompletionSink[T]) Await() Result[T] {
	var bo iox.Backoff
	for {
		v, err := s.q.Dequeue()
		if err == nil {
			return v
		}
		bo.Wait()
	}
}

// AwaitWithBackoff is Await seeded from bo instead of a zero-value
// backoff — the profile a Stream recommends via SinkBackoff for sinks
// bound to its own items.
func (s *CompletionSink[T]) AwaitWithBackoff(bo iox.Backoff) Result[T] {
	for {
		v, err := s.q.Dequeue()
		if err == nil {
			return v
		}
		bo.Wait()
	}
}

// TryAwait is the non-blocking variant of Await: (result, true) if the
// completion has already landed, (zero, false) if it is still pending.
func (s *CompletionSink[T]) TryAwait() (Result[T], bool) {
	v, err := s.q.Dequeue()
	if err != nil {
		var zero Result[T]
		return zero, false
	}
	return v, true
}

// Drain blocks until the sink completes and reports only its error,
// discarding the payload and submit-info. Useful for a caller that
// submitted an item purely to synchronize on completion.
func (s *CompletionSink[T]) Drain() Error {
	return s.Await().Err
}

// AwaitAll blocks until every sink in sinks has completed, in order, and
// returns their results in the same order.
func AwaitAll[T any](sinks []*CompletionSink[T]) []Result[T] {
	out := make([]Result[T], len(sinks))
	for i, s := range sinks {
		out[i] = s.Await()
	}
	return out
}
