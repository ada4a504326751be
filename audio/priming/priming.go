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

// Package priming gates the resampler's fragment pulls against the fragment
// queue, implementing the prebuffer and underrun policy of the audio
// pipeline.
//
// The gate is in one of two states. In the waiting state nothing is consumed
// until the queue holds at least the prebuffer depth of fragments; pulls
// return nothing and the pipeline plays silence. Once the depth is reached
// the gate becomes active and every pull consumes one fragment. The first
// empty dequeue puts the gate back into the waiting state.
//
// Returning to the full prebuffer depth after a single underrun is
// deliberate. If consumption resumed on the very next fragment the pipeline
// would stutter repeatedly while the producer is struggling to keep up. One
// slightly longer gap absorbs the production jitter instead.
package priming

import (
	"github.com/SergioMartin86/stella/audio/queue"
)

// Gate implements the resample.FragmentSource interface over a fragment
// queue.
//
// NextFragment() is called from the real-time audio thread. The other
// functions must only be called while the audio device is paused, so that
// they cannot race with an in-flight pull.
type Gate struct {
	queue *queue.Queue
	depth int

	// the fragment currently owned by the consumer side. exchanged with the
	// queue on every successful dequeue and surrendered on Close()
	current []int16

	waiting bool
	closed  bool
}

// NewGate is the preferred method of initialisation for the Gate type. The
// depth argument is the number of fragments that must be queued before
// consumption may (re)start.
func NewGate(q *queue.Queue, depth int) *Gate {
	return &Gate{
		queue:   q,
		depth:   depth,
		waiting: true,
	}
}

// NextFragment implements the resample.FragmentSource interface.
func (g *Gate) NextFragment() []int16 {
	if g.waiting {
		if g.queue.Size() < g.depth {
			return nil
		}

		f := g.queue.Dequeue(g.current)
		if f == nil {
			return nil
		}
		g.current = f
		g.waiting = false
		return f
	}

	f := g.queue.Dequeue(g.current)
	if f == nil {
		// underrun. re-prime before consuming again
		g.waiting = true
		return nil
	}
	g.current = f

	return f
}

// Waiting returns true if the gate is waiting for the queue to fill to the
// prebuffer depth.
func (g *Gate) Waiting() bool {
	return g.waiting
}

// Reset returns the gate to the waiting state. The held fragment is kept so
// that it is not lost from the queue's pool.
func (g *Gate) Reset() {
	g.waiting = true
}

// Close surrenders the held fragment to the queue. The gate must not be used
// again after Close(). Safe to call more than once.
func (g *Gate) Close() {
	if g.closed {
		return
	}
	g.closed = true
	g.queue.CloseSink(g.current)
	g.current = nil
}
