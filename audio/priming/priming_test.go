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

package priming_test

import (
	"testing"

	"github.com/SergioMartin86/stella/audio/priming"
	"github.com/SergioMartin86/stella/audio/queue"
	"github.com/SergioMartin86/stella/audio/resample"
	"github.com/SergioMartin86/stella/test"
)

func newTestQueue(t *testing.T) *queue.Queue {
	t.Helper()

	format, err := resample.NewFormat(31440, 4, false)
	test.ExpectedSuccess(t, err)

	q, err := queue.NewQueue(format, 8)
	test.ExpectedSuccess(t, err)

	return q
}

func produce(q *queue.Queue, frag []int16, id int16) []int16 {
	for i := range frag {
		frag[i] = id
	}
	return q.Enqueue(frag)
}

func TestPrebuffer(t *testing.T) {
	q := newTestQueue(t)
	g := priming.NewGate(q, 3)

	test.Equate(t, g.Waiting(), true)

	// nothing to consume until the prebuffer depth is reached, even though
	// the queue is not empty
	frag := q.Enqueue(nil)
	frag = produce(q, frag, 1)
	if g.NextFragment() != nil {
		t.Errorf("expected nil while below prebuffer depth")
	}
	frag = produce(q, frag, 2)
	if g.NextFragment() != nil {
		t.Errorf("expected nil while below prebuffer depth")
	}
	test.Equate(t, g.Waiting(), true)

	// depth reached. consumption starts
	frag = produce(q, frag, 3)
	f := g.NextFragment()
	if f == nil {
		t.Fatalf("expected a fragment once prebuffer depth is reached")
	}
	test.Equate(t, f[0], int16(1))
	test.Equate(t, g.Waiting(), false)

	// once active, fragments flow one per pull regardless of queue depth
	f = g.NextFragment()
	test.Equate(t, f[0], int16(2))
	f = g.NextFragment()
	test.Equate(t, f[0], int16(3))
}

func TestUnderrunReprimes(t *testing.T) {
	q := newTestQueue(t)
	g := priming.NewGate(q, 2)

	frag := q.Enqueue(nil)
	frag = produce(q, frag, 1)
	frag = produce(q, frag, 2)

	f := g.NextFragment()
	test.Equate(t, f[0], int16(1))
	f = g.NextFragment()
	test.Equate(t, f[0], int16(2))

	// the queue is empty. the underrun puts the gate back into the waiting
	// state
	if g.NextFragment() != nil {
		t.Errorf("expected nil on underrun")
	}
	test.Equate(t, g.Waiting(), true)

	// one fragment is not enough to restart. the full prebuffer depth is
	// required again
	frag = produce(q, frag, 3)
	if g.NextFragment() != nil {
		t.Errorf("expected nil while re-priming")
	}

	frag = produce(q, frag, 4)
	f = g.NextFragment()
	if f == nil {
		t.Fatalf("expected a fragment once re-primed")
	}
	test.Equate(t, f[0], int16(3))
}

func TestReset(t *testing.T) {
	q := newTestQueue(t)
	g := priming.NewGate(q, 1)

	frag := q.Enqueue(nil)
	frag = produce(q, frag, 1)
	f := g.NextFragment()
	test.Equate(t, f[0], int16(1))
	test.Equate(t, g.Waiting(), false)

	g.Reset()
	test.Equate(t, g.Waiting(), true)

	// consumption restarts once the depth is reached again
	frag = produce(q, frag, 2)
	f = g.NextFragment()
	test.Equate(t, f[0], int16(2))
}

func TestClose(t *testing.T) {
	q := newTestQueue(t)
	g := priming.NewGate(q, 1)

	frag := q.Enqueue(nil)
	frag = produce(q, frag, 1)
	_ = frag

	f := g.NextFragment()
	test.Equate(t, f[0], int16(1))

	// close surrenders the held fragment. a second close is a no-op
	g.Close()
	g.Close()
}
