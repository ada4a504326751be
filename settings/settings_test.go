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

package settings_test

import (
	"testing"

	"github.com/SergioMartin86/stella/audio/resample"
	"github.com/SergioMartin86/stella/settings"
	"github.com/SergioMartin86/stella/test"
)

func TestDefaults(t *testing.T) {
	set, err := settings.NewAudio()
	test.ExpectedSuccess(t, err)

	test.Equate(t, set.SampleRate.Get().(int), settings.DefaultSampleRate)
	test.Equate(t, set.FragmentSize.Get().(int), settings.DefaultFragmentSize)
	test.Equate(t, set.Device.Get().(string), "")
	test.Equate(t, set.Volume.Get().(int), settings.DefaultVolume)
	test.Equate(t, set.Enabled.Get().(bool), true)
	test.Equate(t, set.ResamplingQuality.Get().(string), settings.DefaultQuality)
	if set.Quality() != resample.QualityLanczos2 {
		t.Errorf("unexpected default resampling quality (%s)", set.Quality())
	}
}

func TestValidation(t *testing.T) {
	set, err := settings.NewAudio()
	test.ExpectedSuccess(t, err)

	test.ExpectedFailure(t, set.SampleRate.Set(0))
	test.ExpectedFailure(t, set.SampleRate.Set(-44100))
	test.ExpectedSuccess(t, set.SampleRate.Set(48000))

	test.ExpectedFailure(t, set.FragmentSize.Set(0))
	test.ExpectedSuccess(t, set.FragmentSize.Set(1024))

	test.ExpectedFailure(t, set.Volume.Set(-1))
	test.ExpectedFailure(t, set.Volume.Set(101))
	test.ExpectedSuccess(t, set.Volume.Set(0))
	test.ExpectedSuccess(t, set.Volume.Set(100))

	test.ExpectedFailure(t, set.ResamplingQuality.Set("bilinear"))
	test.ExpectedSuccess(t, set.ResamplingQuality.Set("nearest"))
	if set.Quality() != resample.QualityNearest {
		t.Errorf("unexpected resampling quality (%s)", set.Quality())
	}

	test.ExpectedFailure(t, set.Headroom.Set(-1))
	test.ExpectedFailure(t, set.BufferSize.Set(0))

	// a rejected value leaves the previous value in place
	test.Equate(t, set.SampleRate.Get().(int), 48000)
}

func TestSetDefaults(t *testing.T) {
	set, err := settings.NewAudio()
	test.ExpectedSuccess(t, err)

	test.ExpectedSuccess(t, set.Volume.Set(25))
	test.ExpectedSuccess(t, set.ResamplingQuality.Set("lanczos-3"))

	test.ExpectedSuccess(t, set.SetDefaults())
	test.Equate(t, set.Volume.Get().(int), settings.DefaultVolume)
	test.Equate(t, set.ResamplingQuality.Get().(string), settings.DefaultQuality)
}
