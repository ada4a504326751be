// This file is part of StellaGo.
//
// StellaGo is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// StellaGo is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with StellaGo.  If not, see <https://www.gnu.org/licenses/>.

// Package queue provides the bounded fragment queue that connects the
// emulation core to the audio pipeline. The emulation produces fixed size
// fragments of interleaved 16bit PCM samples at its own rate and the pipeline
// consumes them on the schedule of the audio device.
//
// All fragments are allocated once, at queue creation. After that, fragments
// circulate between the producer, the queue and the consumer. A fragment is
// owned by exactly one party at any moment. Enqueue() takes ownership of the
// producer's fragment and returns a fresh fragment for the producer to fill.
// Dequeue() takes back the fragment the consumer was holding and returns the
// next queued fragment, or nil if there is none. CloseSink() returns the
// consumer's final fragment to the pool at the end of a session.
//
// The queue is safe for one producer goroutine and one consumer goroutine.
// The critical section covers nothing more than slice header swaps so neither
// side can hold up the other for long. In particular it is short enough for
// the real-time consumer.
package queue

import (
	"fmt"
	"sync"

	"github.com/SergioMartin86/stella/audio/resample"
)

// Queue is a bounded FIFO of pre-allocated audio fragments.
type Queue struct {
	crit sync.Mutex

	format  resample.Format
	fragLen int // in samples, not frames

	// the ring of queued fragments. fragments[next] is the oldest entry
	fragments [][]int16
	next      int
	size      int

	// fragments not currently queued or held by producer/consumer
	pool [][]int16

	// when the queue is full: true means a new fragment is dropped on
	// enqueue, false means the oldest queued fragment is evicted to make
	// room. the former is right when nobody is listening, the latter bounds
	// latency when somebody is
	ignoreOverflows bool

	closed bool
}

// NewQueue is the preferred method of initialisation for the Queue type.
// Capacity is the maximum number of queued fragments.
func NewQueue(format resample.Format, capacity int) (*Queue, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("queue: capacity must be positive (%d)", capacity)
	}

	q := &Queue{
		format:    format,
		fragLen:   format.FragmentSamples(),
		fragments: make([][]int16, capacity),
		pool:      make([][]int16, 0, capacity+2),
	}

	// single allocation for all fragment data. capacity fragments can be
	// queued while the producer and the consumer each hold one more
	backing := make([]int16, (capacity+2)*q.fragLen)
	for i := 0; i < capacity+2; i++ {
		q.pool = append(q.pool, backing[i*q.fragLen:(i+1)*q.fragLen])
	}

	return q, nil
}

// Format of the fragments in the queue.
func (q *Queue) Format() resample.Format {
	return q.format
}

// Capacity is the maximum number of queued fragments.
func (q *Queue) Capacity() int {
	return len(q.fragments)
}

// Size is the current number of queued fragments.
func (q *Queue) Size() int {
	q.crit.Lock()
	defer q.crit.Unlock()
	return q.size
}

// IgnoreOverflows sets the policy for an enqueue on a full queue. See the
// commentary for the Queue type.
func (q *Queue) IgnoreOverflows(ignore bool) {
	q.crit.Lock()
	defer q.crit.Unlock()
	q.ignoreOverflows = ignore
}

// Enqueue adds a filled fragment to the queue and returns an empty fragment
// for the producer to fill next. A nil argument is used for the very first
// call of a session, when the producer has nothing to hand over yet.
//
// Enqueue never blocks. If the queue is full the new fragment is either
// dropped or the oldest queued fragment is evicted, according to the current
// overflow policy. Either way the producer always receives a fragment back.
func (q *Queue) Enqueue(fragment []int16) []int16 {
	q.crit.Lock()
	defer q.crit.Unlock()

	if fragment == nil {
		return q.fromPool()
	}

	capacity := len(q.fragments)

	if q.size == capacity {
		if q.ignoreOverflows {
			// drop the new data. the producer reuses its own fragment
			return fragment
		}

		// evict the oldest fragment and admit the new one at the tail. the
		// tail slot after advancing next is the slot that held the oldest
		// fragment
		evicted := q.fragments[q.next]
		q.fragments[q.next] = fragment
		q.next = (q.next + 1) % capacity
		return evicted
	}

	q.fragments[(q.next+q.size)%capacity] = fragment
	q.size++

	return q.fromPool()
}

// Dequeue returns the next fragment in FIFO order, or nil if the queue is
// empty. The fragment returned by the previous call to Dequeue is passed back
// in exchange; it is reclaimed into the pool only when a fragment is actually
// returned. Pass nil on the very first call of a session.
func (q *Queue) Dequeue(prev []int16) []int16 {
	q.crit.Lock()
	defer q.crit.Unlock()

	if q.size == 0 {
		return nil
	}

	f := q.fragments[q.next]
	q.fragments[q.next] = nil
	q.next = (q.next + 1) % len(q.fragments)
	q.size--

	if prev != nil {
		q.pool = append(q.pool, prev)
	}

	// handing a fragment to the consumer starts a new sink session
	q.closed = false

	return f
}

// CloseSink ends the consumer side of the session, returning the fragment the
// consumer was holding to the pool so that no fragment is ever lost. Safe to
// call more than once: repeated calls have no effect until Dequeue() has
// started another session.
func (q *Queue) CloseSink(last []int16) {
	q.crit.Lock()
	defer q.crit.Unlock()

	if q.closed {
		return
	}
	q.closed = true

	if last != nil {
		q.pool = append(q.pool, last)
	}
}

func (q *Queue) fromPool() []int16 {
	if len(q.pool) == 0 {
		// cannot happen while the ownership contract is honoured. every
		// fragment handed out is balanced by one coming back
		return make([]int16, q.fragLen)
	}
	f := q.pool[len(q.pool)-1]
	q.pool = q.pool[:len(q.pool)-1]
	return f
}
