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
	"math"
	"testing"

	"github.com/SergioMartin86/stella/audio/resample"
	"github.com/SergioMartin86/stella/test"
)

// constantSource produces an endless stream of fragments holding a single
// value.
type constantSource struct {
	value int16
}

func (s *constantSource) NextFragment() []int16 {
	f := make([]int16, 32)
	for i := range f {
		f[i] = s.value
	}
	return f
}

func testLanczosIdentity(t *testing.T, a int) {
	t.Helper()

	from, _ := resample.NewFormat(44100, 64, false)
	to, _ := resample.NewFormat(44100, 64, false)

	// pure sines from the low end of the audible range up to just below the
	// Nyquist frequency
	for _, freq := range []float64{440, 1000, 5000, 15000, 20000} {
		frag := make([]int16, 64)
		for i := range frag {
			frag[i] = int16(16000 * math.Sin(2*math.Pi*freq*float64(i)/44100))
		}
		src := &sliceSource{fragments: [][]int16{frag}}

		r := resample.NewLanczos(from, to, src, a)

		buf := make([]float32, 64)
		r.Fill(buf)

		// with equal rates the kernel degenerates to a unit impulse and the
		// source is reproduced exactly, delayed by the kernel half width. the
		// first few outputs convolve the zero-filled delay line and are skipped
		for k := 2 * a; k < 64; k++ {
			want := float64(frag[k-a]) / 32767.0
			test.EquateTolerance(t, float64(buf[k]), want, 1e-4)
		}
	}
}

func TestLanczos2Identity(t *testing.T) {
	testLanczosIdentity(t, 2)
}

func TestLanczos3Identity(t *testing.T) {
	testLanczosIdentity(t, 3)
}

func TestLanczosUnityGain(t *testing.T) {
	// the kernels are normalised so a constant signal passes through a rate
	// conversion unchanged, for every phase of the fractional position
	from, _ := resample.NewFormat(31440, 32, false)
	to, _ := resample.NewFormat(48000, 32, false)

	src := &constantSource{value: 16384}
	r := resample.NewLanczos(from, to, src, 2)

	buf := make([]float32, 256)
	r.Fill(buf)

	// skip the outputs still influenced by the zero-filled delay line
	for k := 16; k < 256; k++ {
		test.EquateTolerance(t, float64(buf[k]), 16384.0/32767.0, 1e-4)
	}
}

func TestLanczosStarvation(t *testing.T) {
	from, _ := resample.NewFormat(44100, 16, false)
	to, _ := resample.NewFormat(44100, 16, false)

	frag := make([]int16, 16)
	for i := range frag {
		frag[i] = 12000
	}
	src := &sliceSource{fragments: [][]int16{frag}}

	r := resample.NewLanczos(from, to, src, 2)

	buf := make([]float32, 64)
	r.Fill(buf)

	// once the delay line has filled with the constant value the output
	// holds it, through the starvation and to the end of the buffer
	for k := 8; k < 64; k++ {
		test.EquateTolerance(t, float64(buf[k]), 12000.0/32767.0, 1e-4)
	}
}

func TestLanczosStereo(t *testing.T) {
	from, _ := resample.NewFormat(44100, 16, true)
	to, _ := resample.NewFormat(44100, 16, true)

	// distinct constant values per channel must not bleed into one another
	frag := make([]int16, 32)
	for i := 0; i < 32; i += 2 {
		frag[i] = 8000
		frag[i+1] = -4000
	}
	src := &sliceSource{fragments: [][]int16{frag, frag}}

	r := resample.NewLanczos(from, to, src, 2)

	buf := make([]float32, 64)
	r.Fill(buf)

	for k := 8; k < 64; k += 2 {
		test.EquateTolerance(t, float64(buf[k]), 8000.0/32767.0, 1e-4)
		test.EquateTolerance(t, float64(buf[k+1]), -4000.0/32767.0, 1e-4)
	}
}
