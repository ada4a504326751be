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

package sdlaudio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
)

// Clip is a fully decoded audio clip. Samples are interleaved and normalised
// to the unit range.
type Clip struct {
	Name     string
	Rate     int
	Channels int
	Samples  []float32
}

// Duration of the clip, in seconds, at its native rate.
func (c *Clip) Duration() float64 {
	if c.Rate == 0 || c.Channels == 0 {
		return 0
	}
	return float64(len(c.Samples)/c.Channels) / float64(c.Rate)
}

// LoadClip decodes the file at the given path into memory. The format is
// selected by file extension. WAV and MP3 files are supported.
func LoadClip(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("clip: %w", err)
	}
	defer f.Close()

	clip := &Clip{
		Name: filepath.Base(path),
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		dec := wav.NewDecoder(f)
		if dec == nil || !dec.IsValidFile() {
			return nil, fmt.Errorf("clip: %s: not a valid wav file", clip.Name)
		}

		// load all data at once
		buf, err := dec.FullPCMBuffer()
		if err != nil {
			return nil, fmt.Errorf("clip: %s: %w", clip.Name, err)
		}

		clip.Rate = int(dec.SampleRate)
		clip.Channels = int(dec.NumChans)

		// scale integer samples to the unit range according to bit depth
		scale := float32(int(1) << (dec.BitDepth - 1))
		clip.Samples = make([]float32, len(buf.Data))
		for i, v := range buf.Data {
			clip.Samples[i] = float32(v) / scale
		}

	case ".mp3":
		dec, err := mp3.NewDecoder(f)
		if err != nil {
			return nil, fmt.Errorf("clip: %s: %w", clip.Name, err)
		}

		// the mp3 stream is always 16bit little-endian with 2 channels,
		// even when the source is mono. a sample is therefore 4 bytes
		clip.Rate = dec.SampleRate()
		clip.Channels = 2

		err = nil
		chunk := make([]byte, 4096)
		for err != io.EOF {
			var chunkLen int
			chunkLen, err = dec.Read(chunk)
			if err != nil && err != io.EOF {
				return nil, fmt.Errorf("clip: %s: %w", clip.Name, err)
			}

			for i := 0; i+1 < chunkLen; i += 2 {
				v := int16(uint16(chunk[i]) | uint16(chunk[i+1])<<8)
				clip.Samples = append(clip.Samples, float32(v)/32768)
			}
		}

	default:
		return nil, fmt.Errorf("clip: %s: unsupported file type", clip.Name)
	}

	if len(clip.Samples) == 0 {
		return nil, fmt.Errorf("clip: %s: no audio data", clip.Name)
	}

	return clip, nil
}
