// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package stream

// Error is the recoverable completion error surfaced through a completion
// sink. Contract breaches (double-completion, dropping a lane whose peer
// count is already zero, unknown item-kind pairings) are not represented
// here: those are caller bugs and panic instead. Submitting on a lane that
// is already broken does not panic; the item completes with ClosedLocally.
type Error int

const (
	// Success indicates the item matched and its transfer completed.
	Success Error = iota
	// BufferTooSmall indicates a RecvBuffer's capacity was smaller than
	// the matched SendBuffer's length. The receiver observes this error;
	// the sender's own completion still reports Success.
	BufferTooSmall
	// ThreadExited indicates the thread that owned an item's completion
	// sink is gone. The core never manufactures this value itself; it is
	// reserved for callers that layer thread-liveness tracking on top of
	// a completion sink.
	ThreadExited
	// ClosedLocally indicates the item's own lane was closed (its last
	// LaneHandle dropped) while the item was parked, or that Submit was
	// called on a lane already broken.
	ClosedLocally
	// ClosedRemotely indicates the opposite lane's peer count reached
	// zero before a matching item arrived, or while this item was parked
	// waiting for one.
	ClosedRemotely
)

// Error implements the error interface so completion results compose with
// ordinary Go error handling at call sites that want it.
func (e Error) Error() string {
	switch e {
	case Success:
		return "stream: success"
	case BufferTooSmall:
		return "stream: buffer too small"
	case ThreadExited:
		return "stream: thread exited"
	case ClosedLocally:
		return "stream: closed locally"
	case ClosedRemotely:
		return "stream: closed remotely"
	default:
		return "stream: unknown error"
	}
}

// String implements fmt.Stringer.
func (e Error) String() string {
	return e.Error()
}
