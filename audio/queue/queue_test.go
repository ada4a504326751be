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

package queue_test

import (
	"testing"

	"github.com/SergioMartin86/stella/audio/queue"
	"github.com/SergioMartin86/stella/audio/resample"
	"github.com/SergioMartin86/stella/test"
)

func newTestQueue(t *testing.T, capacity int) *queue.Queue {
	t.Helper()

	format, err := resample.NewFormat(31440, 4, false)
	test.ExpectedSuccess(t, err)

	q, err := queue.NewQueue(format, capacity)
	test.ExpectedSuccess(t, err)

	return q
}

// mark the fragment with an identifying value and enqueue it
func produce(q *queue.Queue, frag []int16, id int16) []int16 {
	for i := range frag {
		frag[i] = id
	}
	return q.Enqueue(frag)
}

func TestNewQueue(t *testing.T) {
	q := newTestQueue(t, 4)
	test.Equate(t, q.Capacity(), 4)
	test.Equate(t, q.Size(), 0)
	test.Equate(t, q.Format().FragmentLen, 4)

	format, _ := resample.NewFormat(31440, 4, false)
	_, err := queue.NewQueue(format, 0)
	test.ExpectedFailure(t, err)
}

func TestFIFOOrder(t *testing.T) {
	q := newTestQueue(t, 4)

	frag := q.Enqueue(nil)
	for id := int16(1); id <= 3; id++ {
		frag = produce(q, frag, id)
	}
	test.Equate(t, q.Size(), 3)

	var held []int16
	for id := int16(1); id <= 3; id++ {
		held = q.Dequeue(held)
		if held == nil {
			t.Fatalf("unexpected nil from Dequeue()")
		}
		test.Equate(t, held[0], id)
	}

	// queue is empty again
	test.Equate(t, q.Size(), 0)
	if q.Dequeue(held) != nil {
		t.Errorf("expected nil from Dequeue() on empty queue")
	}
}

func TestDequeueEmpty(t *testing.T) {
	q := newTestQueue(t, 2)
	if q.Dequeue(nil) != nil {
		t.Errorf("expected nil from Dequeue() on empty queue")
	}
}

func TestOverflowEvictsOldest(t *testing.T) {
	q := newTestQueue(t, 2)

	frag := q.Enqueue(nil)
	frag = produce(q, frag, 1)
	frag = produce(q, frag, 2)
	test.Equate(t, q.Size(), 2)

	// the queue is full. the oldest fragment makes room for the new one
	frag = produce(q, frag, 3)
	test.Equate(t, q.Size(), 2)

	held := q.Dequeue(nil)
	test.Equate(t, held[0], int16(2))
	held = q.Dequeue(held)
	test.Equate(t, held[0], int16(3))
}

func TestOverflowIgnored(t *testing.T) {
	q := newTestQueue(t, 2)
	q.IgnoreOverflows(true)

	frag := q.Enqueue(nil)
	frag = produce(q, frag, 1)
	frag = produce(q, frag, 2)

	// the new fragment is dropped and handed straight back
	for i := range frag {
		frag[i] = 3
	}
	returned := q.Enqueue(frag)
	if &returned[0] != &frag[0] {
		t.Errorf("expected the offered fragment back unchanged")
	}
	test.Equate(t, q.Size(), 2)

	held := q.Dequeue(nil)
	test.Equate(t, held[0], int16(1))
}

func TestOwnershipNeverExhaustsPool(t *testing.T) {
	q := newTestQueue(t, 3)

	// run many cycles of a producer and consumer that follow the ownership
	// contract. if fragments were being lost the pool would empty and
	// Enqueue() would have to allocate
	frag := q.Enqueue(nil)
	var held []int16

	for cycle := 0; cycle < 1000; cycle++ {
		frag = produce(q, frag, int16(cycle))
		if cycle%2 == 0 {
			if f := q.Dequeue(held); f != nil {
				held = f
			}
		}
	}

	q.CloseSink(held)
}

func TestCloseSinkRearms(t *testing.T) {
	q := newTestQueue(t, 2)

	// repeated consumer sessions on the same queue. if a held fragment were
	// lost on any CloseSink() after the first, the pool would shrink and
	// Enqueue() would eventually have to allocate fresh fragments
	seen := map[*int16]bool{}

	frag := q.Enqueue(nil)
	for session := int16(0); session < 20; session++ {
		frag = produce(q, frag, session)
		seen[&frag[0]] = true

		held := q.Dequeue(nil)
		seen[&held[0]] = true
		q.CloseSink(held)
	}

	// every fragment in circulation came from the original allocation
	if len(seen) > q.Capacity()+2 {
		t.Errorf("fragments lost across sink sessions: %d distinct fragments seen", len(seen))
	}
}

func TestCloseSinkOnce(t *testing.T) {
	q := newTestQueue(t, 2)

	frag := q.Enqueue(nil)
	frag = produce(q, frag, 1)
	held := q.Dequeue(nil)
	_ = frag

	q.CloseSink(held)

	// a second close has no effect
	q.CloseSink(held)
	test.Equate(t, q.Size(), 0)
}
