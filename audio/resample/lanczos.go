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

package resample

import "math"

// Lanczos is the windowed sinc implementation of the Resampler interface.
// Every destination frame is the convolution of the source signal around the
// corresponding fractional source position with a Lanczos kernel of half
// width a. The kernel spans 2a source frames, a frames each side of the
// position, so the most recent 2a source frames of each channel are retained
// in a delay line that persists across fragment boundaries.
//
// The fractional position only ever takes destRate/gcd(srcRate, destRate)
// distinct values so one kernel per phase is computed up front and the
// convolution itself is a short dot product. Kernel weights are normalised to
// sum to one, making the gain at DC exactly one for every phase. With the
// rates equal every phase lands on a source frame and the kernel degenerates
// to a unit impulse: the source signal is reproduced exactly, delayed by a
// frames.
type Lanczos struct {
	src  *source
	from Format
	to   Format
	a    int

	// one kernel of 2a weights per phase of the fractional source position
	kernels [][]float32

	// accumulator in destination rate units, always a multiple of g. the
	// kernel phase for the current position is timeIndex/g
	timeIndex int
	g         int

	left  delayLine
	right delayLine
}

// NewLanczos is the preferred method of initialisation for the Lanczos type.
// The kernel half width a would normally be 2 or 3.
func NewLanczos(from Format, to Format, src FragmentSource, a int) *Lanczos {
	g := gcd(from.SampleRate, to.SampleRate)

	r := &Lanczos{
		src:       newSource(src, from),
		from:      from,
		to:        to,
		a:         a,
		g:         g,
		timeIndex: to.SampleRate,
		left:      newDelayLine(2 * a),
		right:     newDelayLine(2 * a),
	}

	r.precomputeKernels()

	return r
}

// one kernel for every value the fractional source position can take.
func (r *Lanczos) precomputeKernels() {
	phases := r.to.SampleRate / r.g
	r.kernels = make([][]float32, phases)

	for p := 0; p < phases; p++ {
		kernel := make([]float32, 2*r.a)
		frac := float64(p) / float64(phases)

		// the delay line is ordered oldest to newest. the interpolation
		// position sits frac frames beyond the frame at index a-1
		sum := 0.0
		for j := 0; j < 2*r.a; j++ {
			w := lanczos(float64(r.a-1-j)+frac, r.a)
			kernel[j] = float32(w)
			sum += w
		}

		// normalise to unity gain at DC
		for j := range kernel {
			kernel[j] = float32(float64(kernel[j]) / sum)
		}

		r.kernels[p] = kernel
	}
}

// Fill implements the Resampler interface.
func (r *Lanczos) Fill(buf []float32) {
	frames := len(buf) / r.to.ChannelCount()

	i := 0
	for f := 0; f < frames; f++ {
		for r.timeIndex >= r.to.SampleRate {
			l, rr := r.src.nextFrame()
			r.left.shift(float32(l) * sampleScale)
			r.right.shift(float32(rr) * sampleScale)
			r.timeIndex -= r.to.SampleRate
		}

		kernel := r.kernels[r.timeIndex/r.g]
		r.timeIndex += r.from.SampleRate

		i = emit(buf, i, r.to, r.left.convolve(kernel), r.right.convolve(kernel))
	}
}

// the lanczos window. sinc(x) multiplied by sinc(x/a) inside the window of
// half width a, zero outside
func lanczos(x float64, a int) float64 {
	if x == 0 {
		return 1
	}
	if x <= float64(-a) || x >= float64(a) {
		return 0
	}
	px := math.Pi * x
	return float64(a) * math.Sin(px) * math.Sin(px/float64(a)) / (px * px)
}

// delayLine holds the most recent source frames of one channel, oldest first.
type delayLine struct {
	buf []float32
}

func newDelayLine(length int) delayLine {
	return delayLine{buf: make([]float32, length)}
}

func (d *delayLine) shift(v float32) {
	copy(d.buf, d.buf[1:])
	d.buf[len(d.buf)-1] = v
}

func (d *delayLine) convolve(kernel []float32) float32 {
	var sum float32
	for j, w := range kernel {
		sum += w * d.buf[j]
	}
	return sum
}
