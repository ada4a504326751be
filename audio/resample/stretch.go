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

// Stretch is the nearest-neighbour implementation of the Resampler interface.
// Every destination frame repeats the source frame nearest to the
// corresponding fractional source position. Source frames are repeated when
// the destination rate is the higher of the two and skipped when it is the
// lower.
//
// The fractional position is tracked with an integer accumulator in units of
// the destination rate, so the position is exact for any rational rate ratio
// and carries across fragment boundaries without drift.
type Stretch struct {
	src  *source
	from Format
	to   Format

	// accumulator in destination rate units. one source frame is consumed
	// for every whole multiple of the destination rate. biased by half the
	// destination rate so that the consumed frame is the nearest one rather
	// than the previous one
	timeIndex int

	curL int16
	curR int16
}

// NewStretch is the preferred method of initialisation for the Stretch type.
func NewStretch(from Format, to Format, src FragmentSource) *Stretch {
	return &Stretch{
		src:       newSource(src, from),
		from:      from,
		to:        to,
		timeIndex: to.SampleRate + to.SampleRate/2,
	}
}

// Fill implements the Resampler interface.
func (r *Stretch) Fill(buf []float32) {
	frames := len(buf) / r.to.ChannelCount()

	i := 0
	for f := 0; f < frames; f++ {
		for r.timeIndex >= r.to.SampleRate {
			r.curL, r.curR = r.src.nextFrame()
			r.timeIndex -= r.to.SampleRate
		}
		r.timeIndex += r.from.SampleRate

		i = emit(buf, i, r.to, float32(r.curL)*sampleScale, float32(r.curR)*sampleScale)
	}
}
