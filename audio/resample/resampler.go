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

// Package resample converts a stream of source format audio fragments into
// destination format sample blocks of any requested size. The source and
// destination sample rates can stand in any rational ratio to one another.
//
// Two implementations of the Resampler interface are available. The Stretch
// resampler emits the nearest source sample for every destination sample. It
// is cheap but aliases audibly when the two rates are far apart. The Lanczos
// resampler convolves the source with a windowed sinc kernel and is the
// quality option.
//
// Source fragments are pulled through the FragmentSource interface, exactly
// as needed and never sooner. A resampler always produces the full number of
// samples asked of it. When the source is starved mid-fragment the last known
// sample value is repeated, rather than emitting zero, so that no
// discontinuity click is heard.
//
// Fill() is intended to be called from a real-time audio thread. It never
// allocates. Construction and reconfiguration must be serialised against
// Fill() by the caller, normally by pausing the audio device first.
package resample

import "fmt"

// FragmentSource is a capability to pull the next source fragment. A nil
// return means no data is currently available.
type FragmentSource interface {
	NextFragment() []int16
}

// Resampler implementations produce destination format samples on demand from
// a FragmentSource.
type Resampler interface {
	// Fill the buffer entirely with interleaved destination format samples
	Fill(buf []float32)
}

// Quality selects the resampling algorithm.
type Quality int

// List of supported Quality values.
const (
	QualityNearest Quality = iota
	QualityLanczos2
	QualityLanczos3
)

func (q Quality) String() string {
	switch q {
	case QualityNearest:
		return "nearest"
	case QualityLanczos2:
		return "lanczos-2"
	case QualityLanczos3:
		return "lanczos-3"
	}
	return fmt.Sprintf("unknown quality (%d)", int(q))
}

// ParseQuality converts a settings string into a Quality value.
func ParseQuality(s string) (Quality, error) {
	switch s {
	case "nearest":
		return QualityNearest, nil
	case "lanczos-2":
		return QualityLanczos2, nil
	case "lanczos-3":
		return QualityLanczos3, nil
	}
	return QualityNearest, fmt.Errorf("resample: unknown resampling quality (%s)", s)
}

// New creates the Resampler implementation indicated by the Quality value.
func New(from Format, to Format, src FragmentSource, quality Quality) (Resampler, error) {
	switch quality {
	case QualityNearest:
		return NewStretch(from, to, src), nil
	case QualityLanczos2:
		return NewLanczos(from, to, src, 2), nil
	case QualityLanczos3:
		return NewLanczos(from, to, src, 3), nil
	}
	return nil, fmt.Errorf("resample: %s", quality.String())
}

// sample scaling between the 16bit integer source samples and the float
// destination samples
const sampleScale = 1.0 / 32767.0

// source adapts a FragmentSource into a stream of individual frames. it deals
// with fragment boundaries and with starvation: when no fragment is available
// the most recent frame is repeated
type source struct {
	src    FragmentSource
	stereo bool

	fragment []int16
	index    int

	lastL int16
	lastR int16
}

func newSource(src FragmentSource, from Format) *source {
	return &source{
		src:    src,
		stereo: from.Stereo,
	}
}

// nextFrame returns the next source frame. for a mono source both return
// values carry the same sample
func (s *source) nextFrame() (int16, int16) {
	if s.fragment == nil || s.index >= len(s.fragment) {
		s.fragment = s.src.NextFragment()
		s.index = 0
	}

	if s.fragment == nil {
		// starved. repeat the last known frame
		return s.lastL, s.lastR
	}

	if s.stereo {
		s.lastL = s.fragment[s.index]
		s.lastR = s.fragment[s.index+1]
		s.index += 2
	} else {
		s.lastL = s.fragment[s.index]
		s.lastR = s.lastL
		s.index++
	}

	return s.lastL, s.lastR
}

// emit writes one destination frame to buf at sample index i, mixing the two
// source channels down or duplicating them as the destination format demands.
// it returns the next sample index
func emit(buf []float32, i int, to Format, l float32, r float32) int {
	if to.Stereo {
		buf[i] = l
		buf[i+1] = r
		return i + 2
	}
	buf[i] = (l + r) / 2
	return i + 1
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
