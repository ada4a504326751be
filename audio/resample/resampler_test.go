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

package resample_test

import (
	"testing"

	"github.com/SergioMartin86/stella/audio/resample"
	"github.com/SergioMartin86/stella/test"
)

// sliceSource serves prepared fragments in order and then starves.
type sliceSource struct {
	fragments [][]int16
	next      int
}

func (s *sliceSource) NextFragment() []int16 {
	if s.next >= len(s.fragments) {
		return nil
	}
	f := s.fragments[s.next]
	s.next++
	return f
}

func TestNewFormat(t *testing.T) {
	format, err := resample.NewFormat(44100, 512, true)
	test.ExpectedSuccess(t, err)
	test.Equate(t, format.ChannelCount(), 2)
	test.Equate(t, format.FragmentSamples(), 1024)

	format, err = resample.NewFormat(44100, 512, false)
	test.ExpectedSuccess(t, err)
	test.Equate(t, format.ChannelCount(), 1)
	test.Equate(t, format.FragmentSamples(), 512)

	_, err = resample.NewFormat(0, 512, false)
	test.ExpectedFailure(t, err)

	_, err = resample.NewFormat(44100, 0, false)
	test.ExpectedFailure(t, err)
}

func TestParseQuality(t *testing.T) {
	q, err := resample.ParseQuality("nearest")
	test.ExpectedSuccess(t, err)
	test.Equate(t, q.String(), "nearest")

	q, err = resample.ParseQuality("lanczos-2")
	test.ExpectedSuccess(t, err)
	test.Equate(t, q.String(), "lanczos-2")

	q, err = resample.ParseQuality("lanczos-3")
	test.ExpectedSuccess(t, err)
	test.Equate(t, q.String(), "lanczos-3")

	_, err = resample.ParseQuality("sinc")
	test.ExpectedFailure(t, err)
}

func TestNewByQuality(t *testing.T) {
	from, _ := resample.NewFormat(31440, 512, false)
	to, _ := resample.NewFormat(48000, 512, true)

	for _, q := range []resample.Quality{
		resample.QualityNearest,
		resample.QualityLanczos2,
		resample.QualityLanczos3,
	} {
		r, err := resample.New(from, to, &sliceSource{}, q)
		test.ExpectedSuccess(t, err)
		if r == nil {
			t.Errorf("expected a resampler for quality %s", q)
		}
	}

	_, err := resample.New(from, to, &sliceSource{}, resample.Quality(99))
	test.ExpectedFailure(t, err)
}

func TestStarvationRepeatsLastValue(t *testing.T) {
	from, _ := resample.NewFormat(44100, 8, false)
	to, _ := resample.NewFormat(44100, 8, false)

	// a single ramp fragment and then nothing
	src := &sliceSource{fragments: [][]int16{{100, 200, 300, 400, 500, 600, 700, 800}}}

	r := resample.NewStretch(from, to, src)

	buf := make([]float32, 32)
	r.Fill(buf)

	// the fragment is reproduced and the starved remainder holds the last
	// sample value rather than dropping to zero
	test.EquateTolerance(t, float64(buf[0]), 100.0/32767.0, 1e-6)
	test.EquateTolerance(t, float64(buf[7]), 800.0/32767.0, 1e-6)
	for i := 8; i < 32; i++ {
		test.EquateTolerance(t, float64(buf[i]), 800.0/32767.0, 1e-6)
	}
}

func TestStereoToMonoMixdown(t *testing.T) {
	from, _ := resample.NewFormat(44100, 4, true)
	to, _ := resample.NewFormat(44100, 4, false)

	// left channel at 1000, right channel at 3000. the mono mixdown is the
	// average of the two
	src := &sliceSource{fragments: [][]int16{
		{1000, 3000, 1000, 3000, 1000, 3000, 1000, 3000},
	}}

	r := resample.NewStretch(from, to, src)

	buf := make([]float32, 4)
	r.Fill(buf)

	for i := range buf {
		test.EquateTolerance(t, float64(buf[i]), 2000.0/32767.0, 1e-6)
	}
}

func TestMonoToStereoDuplication(t *testing.T) {
	from, _ := resample.NewFormat(44100, 4, false)
	to, _ := resample.NewFormat(44100, 4, true)

	src := &sliceSource{fragments: [][]int16{{1000, 2000, 3000, 4000}}}

	r := resample.NewStretch(from, to, src)

	buf := make([]float32, 8)
	r.Fill(buf)

	for f := 0; f < 4; f++ {
		want := float64((f+1)*1000) / 32767.0
		test.EquateTolerance(t, float64(buf[f*2]), want, 1e-6)
		test.EquateTolerance(t, float64(buf[f*2+1]), want, 1e-6)
	}
}
