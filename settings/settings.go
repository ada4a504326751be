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

// Package settings gathers the user configurable options of the audio
// pipeline. The values are held in prefs types so that the real-time side can
// read them while the application changes them. Validation happens in the
// prefs hooks, meaning an invalid value can never be stored: in particular an
// unknown resampling quality is rejected here and can never reach the
// resampler construction.
package settings

import (
	"fmt"

	"github.com/SergioMartin86/stella/audio/resample"
	"github.com/SergioMartin86/stella/prefs"
)

// Audio is the complete set of audio options recognised by the pipeline.
type Audio struct {
	// requested device sample rate and fragment size. the device may not
	// honour them exactly
	SampleRate   prefs.Int
	FragmentSize prefs.Int

	// name of the output device. the empty string selects the system default
	Device prefs.String

	// volume percentage, 0 to 100
	Volume prefs.Int

	// a disabled pipeline plays nothing and never backpressures the
	// emulation
	Enabled prefs.Bool

	// one of the strings accepted by resample.ParseQuality()
	ResamplingQuality prefs.String

	// headroom and buffer size in half-frame units, as presented to the
	// emulation timing when sizing the fragment queue
	Headroom   prefs.Int
	BufferSize prefs.Int
}

// sensible defaults for a desktop machine.
const (
	DefaultSampleRate   = 44100
	DefaultFragmentSize = 512
	DefaultVolume       = 100
	DefaultQuality      = "lanczos-2"
	DefaultHeadroom     = 5
	DefaultBufferSize   = 10
)

// NewAudio is the preferred method of initialisation for the Audio type. All
// options are set to their default values.
func NewAudio() (*Audio, error) {
	set := &Audio{}

	set.SampleRate.SetHookPre(func(v prefs.Value) error {
		if v.(int) <= 0 {
			return fmt.Errorf("settings: sample rate must be positive (%d)", v.(int))
		}
		return nil
	})

	set.FragmentSize.SetHookPre(func(v prefs.Value) error {
		if v.(int) <= 0 {
			return fmt.Errorf("settings: fragment size must be positive (%d)", v.(int))
		}
		return nil
	})

	set.Volume.SetHookPre(func(v prefs.Value) error {
		if v.(int) < 0 || v.(int) > 100 {
			return fmt.Errorf("settings: volume out of range (%d)", v.(int))
		}
		return nil
	})

	set.ResamplingQuality.SetHookPre(func(v prefs.Value) error {
		_, err := resample.ParseQuality(v.(string))
		return err
	})

	set.Headroom.SetHookPre(func(v prefs.Value) error {
		if v.(int) < 0 {
			return fmt.Errorf("settings: headroom must not be negative (%d)", v.(int))
		}
		return nil
	})

	set.BufferSize.SetHookPre(func(v prefs.Value) error {
		if v.(int) <= 0 {
			return fmt.Errorf("settings: buffer size must be positive (%d)", v.(int))
		}
		return nil
	})

	err := set.SetDefaults()
	if err != nil {
		return nil, err
	}

	return set, nil
}

// SetDefaults returns every option to its default value.
func (set *Audio) SetDefaults() error {
	for _, d := range []struct {
		p interface{ Set(prefs.Value) error }
		v prefs.Value
	}{
		{&set.SampleRate, DefaultSampleRate},
		{&set.FragmentSize, DefaultFragmentSize},
		{&set.Device, ""},
		{&set.Volume, DefaultVolume},
		{&set.Enabled, true},
		{&set.ResamplingQuality, DefaultQuality},
		{&set.Headroom, DefaultHeadroom},
		{&set.BufferSize, DefaultBufferSize},
	} {
		err := d.p.Set(d.v)
		if err != nil {
			return err
		}
	}
	return nil
}

// Quality returns the resampling quality as a resample.Quality value. The
// stored string is always valid so the conversion cannot fail.
func (set *Audio) Quality() resample.Quality {
	q, _ := resample.ParseQuality(set.ResamplingQuality.Get().(string))
	return q
}
