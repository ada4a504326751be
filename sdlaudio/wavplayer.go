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
	"sync"

	"github.com/SergioMartin86/stella/logger"
)

// WavPlayer plays audio clips on a device session of its own, independent of
// the fragment pipeline. Only one clip plays at a time: starting a new clip
// stops the current one.
type WavPlayer struct {
	device Device

	crit      sync.Mutex
	clip      *Clip
	pos       float64
	end       int
	step      float64
	speed     float64
	volFactor float32
	finished  bool

	opened bool
	spec   Spec
	actual Spec

	// the most recently loaded clip is kept so that replaying the same file
	// does not decode it again
	cached     *Clip
	cachedPath string
}

// NewWavPlayer is the preferred method of initialisation for the WavPlayer
// type. A nil device selects SDL2.
func NewWavPlayer(device Device) *WavPlayer {
	if device == nil {
		device = NewDevice()
	}
	return &WavPlayer{
		device:    device,
		speed:     1.0,
		volFactor: 1.0,
	}
}

// Play loads the clip at the given path and starts playback from the
// beginning. A clip already playing is stopped first. The speed factor
// scales the playback rate: 1.0 plays at the clip's native speed.
func (p *WavPlayer) Play(path string, speed float64) error {
	return p.PlaySegment(path, 0, 0, speed)
}

// PlaySegment plays length frames of the clip starting at the given frame
// offset. A length of zero selects the remainder of the clip. The clip is
// decoded once and reused while the path stays the same.
func (p *WavPlayer) PlaySegment(path string, offset int, length int, speed float64) error {
	if speed <= 0 {
		return fmt.Errorf("wavplayer: speed factor must be positive: %v", speed)
	}

	clip := p.cached
	if clip == nil || p.cachedPath != path {
		var err error
		clip, err = LoadClip(path)
		if err != nil {
			return fmt.Errorf("wavplayer: %w", err)
		}
	}

	frameCount := len(clip.Samples) / clip.Channels
	if offset < 0 || offset >= frameCount {
		return fmt.Errorf("wavplayer: %s: offset %d out of range", clip.Name, offset)
	}
	end := frameCount
	if length > 0 && offset+length < frameCount {
		end = offset + length
	}

	request := Spec{
		Freq:     clip.Rate,
		Channels: clip.Channels,
		Samples:  512,
	}

	// reuse the open session when the clip matches it
	if !p.opened || request != p.spec {
		if p.opened {
			p.device.Close()
			p.opened = false
		}

		actual, err := p.device.Open(request, p.onRequest)
		if err != nil {
			return fmt.Errorf("wavplayer: %w", err)
		}
		p.spec = request
		p.actual = actual
		p.opened = true
	}

	p.cached = clip
	p.cachedPath = path

	p.crit.Lock()
	p.clip = clip
	p.pos = float64(offset)
	p.end = end
	p.speed = speed
	p.step = speed * float64(clip.Rate) / float64(p.actual.Freq)
	p.finished = false
	p.crit.Unlock()

	logger.Logf(logger.Allow, "wavplayer", "playing %s (%d Hz, %d channel(s), speed %.2f)",
		clip.Name, clip.Rate, clip.Channels, speed)

	p.device.Pause(false)

	return nil
}

// Stop ends playback and closes the player's device session. Safe to call
// at any time, including when nothing is playing.
func (p *WavPlayer) Stop() {
	p.crit.Lock()
	p.clip = nil
	p.finished = true
	p.crit.Unlock()

	if p.opened {
		p.device.Close()
		p.opened = false
	}
}

// SetSpeed changes the playback speed of the current and any future clip.
// Factors that are not positive are ignored.
func (p *WavPlayer) SetSpeed(speed float64) {
	if speed <= 0 {
		return
	}

	p.crit.Lock()
	defer p.crit.Unlock()
	p.speed = speed
	if p.clip != nil {
		p.step = speed * float64(p.clip.Rate) / float64(p.actual.Freq)
	}
}

// SetVolumeFactor scales the clip's samples on delivery. The pipeline uses
// this to subject the side channel to its own volume and mute policy.
func (p *WavPlayer) SetVolumeFactor(f float32) {
	p.crit.Lock()
	defer p.crit.Unlock()
	p.volFactor = f
}

// IsPlaying returns true while a clip has frames left to deliver.
func (p *WavPlayer) IsPlaying() bool {
	p.crit.Lock()
	defer p.crit.Unlock()
	return p.clip != nil && !p.finished
}

// Remaining returns the playback time left in the current clip in seconds,
// accounting for the speed factor. Zero when nothing is playing.
func (p *WavPlayer) Remaining() float64 {
	p.crit.Lock()
	defer p.crit.Unlock()

	if p.clip == nil || p.finished {
		return 0
	}

	frames := float64(p.end) - p.pos
	if frames <= 0 {
		return 0
	}

	return frames / (float64(p.clip.Rate) * p.speed)
}

// pause stops and resumes delivery without discarding the playback position.
func (p *WavPlayer) pause(pause bool) {
	if p.opened {
		p.device.Pause(pause)
	}
}

// onRequest is the real-time entry point for the side channel. Frames past
// the end of the clip are silence.
func (p *WavPlayer) onRequest(buf []float32) {
	p.crit.Lock()
	defer p.crit.Unlock()

	if p.clip == nil || p.finished {
		for i := range buf {
			buf[i] = 0
		}
		return
	}

	channels := p.clip.Channels

	i := 0
	for i < len(buf) {
		frame := int(p.pos)
		if frame >= p.end {
			p.finished = true
			break
		}
		for c := 0; c < channels && i < len(buf); c++ {
			buf[i] = p.clip.Samples[frame*channels+c] * p.volFactor
			i++
		}
		p.pos += p.step
	}

	for ; i < len(buf); i++ {
		buf[i] = 0
	}
}
