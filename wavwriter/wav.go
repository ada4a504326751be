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

// Package wavwriter allows writing of audio data to disk as a WAV file. Note
// that audio data is buffered in memory in its entirety, and written to disk
// on program end. It is therefore probably only suitable for testing purposes.
package wavwriter

import (
	"fmt"
	"os"

	"github.com/SergioMartin86/stella/logger"
	"github.com/youpy/go-wav"
)

// WavWriter implements the sdlaudio.Recorder interface. It captures whatever
// the pipeline delivers to the device, after resampling and volume scaling.
type WavWriter struct {
	filename string
	rate     int
	channels int
	buffer   []wav.Sample
}

// New is the preferred method of initialisation for the WavWriter type. The
// rate and channel count should describe the device session being recorded.
func New(filename string, rate int, channels int) (*WavWriter, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("wavwriter: invalid sample rate: %d", rate)
	}
	if channels != 1 && channels != 2 {
		return nil, fmt.Errorf("wavwriter: invalid channel count: %d", channels)
	}

	aw := &WavWriter{
		filename: filename,
		rate:     rate,
		channels: channels,
		buffer:   make([]wav.Sample, 0),
	}

	return aw, nil
}

// Write implements the sdlaudio.Recorder interface. Samples are interleaved
// frames in the unit range.
func (aw *WavWriter) Write(samples []float32) error {
	for i := 0; i+aw.channels-1 < len(samples); i += aw.channels {
		w := wav.Sample{}
		for c := 0; c < aw.channels; c++ {
			v := samples[i+c]
			if v > 1.0 {
				v = 1.0
			}
			if v < -1.0 {
				v = -1.0
			}
			w.Values[c] = int(v * 32767)
		}
		if aw.channels == 1 {
			w.Values[1] = w.Values[0]
		}
		aw.buffer = append(aw.buffer, w)
	}

	return nil
}

// End writes the buffered audio to disk. The WavWriter should not be used
// again after End has returned.
func (aw *WavWriter) End() (rerr error) {
	f, err := os.Create(aw.filename)
	if err != nil {
		return fmt.Errorf("wavwriter: %w", err)
	}
	defer func() {
		err := f.Close()
		if err != nil {
			rerr = fmt.Errorf("wavwriter: %w", err)
		}
	}()

	enc := wav.NewWriter(f, uint32(len(aw.buffer)), uint16(aw.channels), uint32(aw.rate), 16)
	if enc == nil {
		return fmt.Errorf("wavwriter: bad parameters for wav encoding")
	}

	logger.Logf(logger.Allow, "wavwriter", "writing audio to %s", aw.filename)

	err = enc.WriteSamples(aw.buffer)
	if err != nil {
		return fmt.Errorf("wavwriter: %w", err)
	}

	return nil
}
