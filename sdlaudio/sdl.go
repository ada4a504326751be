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
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/veandco/go-sdl2/sdl"
)

// sdlDevice implements the Device interface with SDL2.
//
// SDL2's native callback registration is not usable from Go so the sample
// demand is driven from a feeder goroutine instead. The goroutine watches the
// size of the device's audio queue and tops it up to a target level by
// invoking the registered RequestAudio function. The effect is the same as a
// device callback: requests arrive on a schedule dictated by the playback
// rate, on a goroutine the rest of the application does not control.
type sdlDevice struct {
	// feed serialises the fill requests with pause/close. holding it means
	// no request is in flight
	feed   chan bool
	paused bool

	id     sdl.AudioDeviceID
	spec   sdl.AudioSpec
	opened bool

	onRequest RequestAudio
	samples   []float32
	bytes     []byte

	quit chan struct{}
	done chan struct{}
}

// NewDevice returns a Device backed by SDL2.
func NewDevice() Device {
	return &sdlDevice{}
}

// Open implements the Device interface.
func (d *sdlDevice) Open(request Spec, onRequest RequestAudio) (Spec, error) {
	if sdl.WasInit(sdl.INIT_AUDIO) == 0 {
		err := sdl.InitSubSystem(sdl.INIT_AUDIO)
		if err != nil {
			return Spec{}, fmt.Errorf("sdlaudio: %w", err)
		}
	}

	// end any previous session
	d.Close()

	desired := sdl.AudioSpec{
		Freq:     int32(request.Freq),
		Format:   sdl.AUDIO_F32SYS,
		Channels: uint8(request.Channels),
		Samples:  uint16(request.Samples),
	}

	var obtained sdl.AudioSpec

	id, err := sdl.OpenAudioDevice(request.Device, false, &desired, &obtained,
		sdl.AUDIO_ALLOW_FREQUENCY_CHANGE)
	if err != nil {
		return Spec{}, fmt.Errorf("sdlaudio: %w", err)
	}

	d.id = id
	d.spec = obtained
	d.opened = true
	d.paused = true
	d.onRequest = onRequest

	n := int(obtained.Samples) * int(obtained.Channels)
	d.samples = make([]float32, n)
	d.bytes = make([]byte, n*4)

	d.feed = make(chan bool, 1)
	d.feed <- true
	d.quit = make(chan struct{})
	d.done = make(chan struct{})
	go d.feedLoop()

	// sessions begin paused
	sdl.PauseAudioDevice(d.id, true)

	return Spec{
		Freq:     int(obtained.Freq),
		Channels: int(obtained.Channels),
		Samples:  int(obtained.Samples),
		Device:   request.Device,
	}, nil
}

func (d *sdlDevice) feedLoop() {
	defer close(d.done)

	// keep roughly two device buffers queued ahead of the hardware
	target := uint32(len(d.bytes) * 2)

	// check at a quarter of the buffer period
	period := time.Duration(d.spec.Samples) * time.Second / time.Duration(d.spec.Freq)
	tick := time.NewTicker(period / 4)
	defer tick.Stop()

	for {
		select {
		case <-d.quit:
			return
		case <-tick.C:
		}

		<-d.feed
		if !d.paused {
			// topping up more than one buffer per tick lets the queue
			// recover after a scheduling hiccup
			for i := 0; i < 4 && sdl.GetQueuedAudioSize(d.id) < target; i++ {
				d.onRequest(d.samples)
				for j, v := range d.samples {
					binary.NativeEndian.PutUint32(d.bytes[j*4:], math.Float32bits(v))
				}
				_ = sdl.QueueAudio(d.id, d.bytes)
			}
		}
		d.feed <- true
	}
}

// Pause implements the Device interface.
func (d *sdlDevice) Pause(pause bool) {
	if !d.opened {
		return
	}

	// taking the feed token waits for an in-flight request to complete
	<-d.feed
	d.paused = pause
	sdl.PauseAudioDevice(d.id, pause)
	d.feed <- true
}

// Close implements the Device interface.
func (d *sdlDevice) Close() {
	if !d.opened {
		return
	}

	close(d.quit)
	<-d.done

	sdl.CloseAudioDevice(d.id)
	d.opened = false
}

// List implements the Device interface.
func (d *sdlDevice) List() []string {
	names := []string{"Default"}
	if sdl.WasInit(sdl.INIT_AUDIO) == 0 {
		if err := sdl.InitSubSystem(sdl.INIT_AUDIO); err != nil {
			return names
		}
	}
	n := sdl.GetNumAudioDevices(false)
	for i := 0; i < n; i++ {
		names = append(names, sdl.GetAudioDeviceName(i, false))
	}
	return names
}
