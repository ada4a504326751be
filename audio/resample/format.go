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

import "fmt"

// Format describes one side of a sample rate conversion. Formats are value
// types and are compared with the == operator.
type Format struct {
	// samples per second per channel
	SampleRate int

	// frames in one fragment. a frame is one sample from every channel
	FragmentLen int

	Stereo bool
}

// NewFormat is the preferred method of initialisation for the Format type.
func NewFormat(sampleRate int, fragmentLen int, stereo bool) (Format, error) {
	if sampleRate <= 0 {
		return Format{}, fmt.Errorf("resample: sample rate must be positive (%d)", sampleRate)
	}
	if fragmentLen <= 0 {
		return Format{}, fmt.Errorf("resample: fragment length must be positive (%d)", fragmentLen)
	}
	return Format{
		SampleRate:  sampleRate,
		FragmentLen: fragmentLen,
		Stereo:      stereo,
	}, nil
}

// ChannelCount returns the number of channels implied by the Stereo field.
func (f Format) ChannelCount() int {
	if f.Stereo {
		return 2
	}
	return 1
}

// FragmentSamples returns the number of individual samples in one fragment,
// interleaved across all channels.
func (f Format) FragmentSamples() int {
	return f.FragmentLen * f.ChannelCount()
}

func (f Format) String() string {
	c := "mono"
	if f.Stereo {
		c = "stereo"
	}
	return fmt.Sprintf("%dHz %s (%d frame fragments)", f.SampleRate, c, f.FragmentLen)
}
