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
	"strings"
	"sync"

	"github.com/SergioMartin86/stella/audio/priming"
	"github.com/SergioMartin86/stella/audio/queue"
	"github.com/SergioMartin86/stella/audio/resample"
	"github.com/SergioMartin86/stella/logger"
	"github.com/SergioMartin86/stella/notifications"
	"github.com/SergioMartin86/stella/settings"
)

// Timing is the information the emulation core provides about its audio
// generation when the pipeline is opened. It is fixed for the lifetime of one
// open session.
type Timing struct {
	// rate at which the core generates samples
	SampleRate int

	// number of fragments that must be queued before playback may (re)start
	PrebufferFragmentCount int
}

// Recorder implementations receive a copy of everything the pipeline delivers
// to the device. Useful for regression testing of audio output.
type Recorder interface {
	Write(samples []float32) error
}

// Sound is the stream driver of the audio pipeline. It owns the device
// session, the resampler and the priming gate, and it applies the volume
// policy on the real-time fill path.
type Sound struct {
	settings *settings.Audio
	device   Device
	msg      notifications.Messenger
	notify   notifications.Notify

	// protects the fields shared with the real-time fill path: resampler,
	// volume factor, mute flag and recorder. held only for pointer and
	// scalar reads/writes
	crit      sync.Mutex
	resampler resample.Resampler
	volFactor float32
	muted     bool
	recorder  Recorder

	queue   *queue.Queue
	gate    *priming.Gate
	timing  Timing
	quality resample.Quality

	requested Spec
	actual    Spec
	opened    bool

	// the mute state when the last session ended. the next Open() restores it
	wasMuted bool

	volume int
	about  string

	wav *WavPlayer
}

// New is the preferred method of initialisation for the Sound type. A nil
// device selects SDL2. A nil messenger discards all status messages.
func New(set *settings.Audio, device Device, wavDevice Device, msg notifications.Messenger) *Sound {
	if device == nil {
		device = NewDevice()
	}
	if wavDevice == nil {
		wavDevice = NewDevice()
	}
	if msg == nil {
		msg = notifications.Quiet
	}

	s := &Sound{
		settings: set,
		device:   device,
		msg:      msg,
		muted:    !set.Enabled.Get().(bool),
		wasMuted: !set.Enabled.Get().(bool),
		wav:      NewWavPlayer(wavDevice),
	}

	return s
}

// SetNotify attaches a notification sink. A nil value detaches it.
func (s *Sound) SetNotify(notify notifications.Notify) {
	s.notify = notify
}

// Wav returns the side channel player. The player shares the pipeline's
// volume and mute policy but is otherwise independent.
func (s *Sound) Wav() *WavPlayer {
	return s.wav
}

// AttachRecorder attaches a recorder to the fill path. A nil value detaches
// the current recorder.
func (s *Sound) AttachRecorder(rec Recorder) {
	s.crit.Lock()
	defer s.crit.Unlock()
	s.recorder = rec
}

// Open attaches a fragment queue to the pipeline and begins a device session.
// The physical device is reopened only if the requested sample rate, fragment
// size or device differ from the session already open. Calling Open() again
// with the same queue and the same parameters is a no-op: in particular the
// fragment held by the consumer side is not discarded.
//
// On a device failure the pipeline enters a disabled state: the queue is told
// to ignore overflows so the producer is never backpressured, and nothing is
// retried until the next explicit Open().
func (s *Sound) Open(q *queue.Queue, timing Timing) error {
	preAbout := s.about

	request := Spec{
		Freq:     s.settings.SampleRate.Get().(int),
		Channels: 2,
		Samples:  s.settings.FragmentSize.Get().(int),
		Device:   s.settings.Device.Get().(string),
	}

	// the name the device list uses for the default device is not a name the
	// driver knows
	if request.Device == "Default" {
		request.Device = ""
	}

	// reopen the physical device only when absolutely necessary
	reopened := false
	if !s.opened || request != s.requested {
		actual, err := s.device.Open(request, s.onRequest)
		if err != nil {
			s.opened = false
			q.IgnoreOverflows(true)
			logger.Logf(logger.Allow, "sdlaudio", "failed to open device: %v", err)
			s.msg.ShowMessage("Sound unavailable")
			if s.notify != nil {
				_ = s.notify.Notify(notifications.NotifyDeviceFailure)
			}
			return fmt.Errorf("sdlaudio: %w", err)
		}
		s.requested = request
		s.actual = actual
		s.opened = true
		reopened = true
	}

	// serialise the rest of the procedure against the fill path
	s.device.Pause(true)

	enabled := s.settings.Enabled.Get().(bool)
	q.IgnoreOverflows(!enabled)
	if !enabled {
		logger.Log(logger.Allow, "sdlaudio", "sound disabled")
		return nil
	}

	quality := s.settings.Quality()

	rebuild := reopened ||
		q != s.queue ||
		s.resampler == nil ||
		quality != s.quality ||
		timing != s.timing

	if rebuild {
		if s.gate != nil && s.queue != nil && s.queue != q {
			// the old queue's session is over. return the held fragment
			s.gate.Close()
			s.gate = nil
		}

		if s.gate != nil {
			s.gate.Reset()
		} else {
			s.gate = priming.NewGate(q, timing.PrebufferFragmentCount)
		}

		from := resample.Format{
			SampleRate:  timing.SampleRate,
			FragmentLen: q.Format().FragmentLen,
			Stereo:      q.Format().Stereo,
		}
		to := resample.Format{
			SampleRate:  s.actual.Freq,
			FragmentLen: s.actual.Samples,
			Stereo:      s.actual.Channels > 1,
		}

		r, err := resample.New(from, to, s.gate, quality)
		if err != nil {
			return fmt.Errorf("sdlaudio: %w", err)
		}

		s.crit.Lock()
		s.resampler = r
		s.crit.Unlock()

		s.queue = q
		s.timing = timing
		s.quality = quality
	}

	err := s.SetVolume(s.settings.Volume.Get().(int))
	if err != nil {
		return err
	}

	s.about = s.buildAbout()
	if s.about != preAbout {
		logger.Log(logger.Allow, "sdlaudio", strings.ReplaceAll(s.about, "\n", "; "))
		if s.notify != nil {
			_ = s.notify.Notify(notifications.NotifyDeviceOpen)
		}
	}

	// resume delivery unless the pipeline was muted when the previous session
	// ended
	s.Mute(s.wasMuted)

	return nil
}

// Close ends the device session. The fragment held by the consumer side is
// returned to the queue so that the queue loses nothing. Safe to call at any
// time, including before a successful Open() and more than once.
func (s *Sound) Close() {
	// mute before touching anything shared with the fill path, remembering
	// the previous state for the next Open(). a Close() of a session that is
	// already closed must not clobber what was remembered
	prev := s.Mute(true)
	if s.opened {
		s.wasMuted = prev
	}

	if s.gate != nil {
		s.gate.Close()
		s.gate = nil
	}

	s.crit.Lock()
	s.resampler = nil
	s.crit.Unlock()

	s.queue = nil

	s.wav.Stop()
	s.device.Close()
	s.opened = false
}

// Mute or unmute sample delivery, returning the previous mute state. Muting
// does not change the volume level.
func (s *Sound) Mute(mute bool) bool {
	s.crit.Lock()
	prev := s.muted
	s.muted = mute
	s.crit.Unlock()

	s.device.Pause(mute)
	s.wav.pause(mute)

	return prev
}

// SetEnabled enables or disables the pipeline. A disabled pipeline is muted
// and its queue drops new fragments rather than holding the producer back.
func (s *Sound) SetEnabled(enable bool) {
	_ = s.settings.Enabled.Set(enable)

	if s.queue != nil {
		s.queue.IgnoreOverflows(!enable)
	}

	s.Mute(!enable)
	s.wav.SetVolumeFactor(s.wavVolumeFactor())

	logger.Logf(logger.Allow, "sdlaudio", "enabled: %v", enable)
}

// SetVolume sets the volume percentage. Values outside 0 to 100 are rejected.
func (s *Sound) SetVolume(percent int) error {
	err := s.settings.Volume.Set(percent)
	if err != nil {
		return err
	}

	s.crit.Lock()
	s.volume = percent
	s.volFactor = float32(percent) / 100
	s.crit.Unlock()

	s.wav.SetVolumeFactor(s.wavVolumeFactor())

	return nil
}

// AdjustVolume changes the volume by two percentage points per step in the
// indicated direction. Raising the volume of a disabled pipeline enables it
// again.
func (s *Sound) AdjustVolume(direction int) {
	percent := s.volume + direction*2
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	if percent > 0 && direction > 0 && !s.settings.Enabled.Get().(bool) {
		s.SetEnabled(true)
	}

	_ = s.SetVolume(percent)

	strval := "Off"
	if percent > 0 {
		strval = fmt.Sprintf("%d%%", percent)
	}
	s.msg.ShowGauge("Volume", strval, percent)

	if s.notify != nil {
		_ = s.notify.Notify(notifications.NotifyVolume)
	}
}

// ToggleMute flips between the enabled and disabled states, reporting the
// change to the messenger. It returns true if sound is now enabled.
func (s *Sound) ToggleMute() bool {
	enable := !s.settings.Enabled.Get().(bool)
	s.SetEnabled(enable)

	if enable {
		s.msg.ShowMessage("Sound unmuted")
	} else {
		s.msg.ShowMessage("Sound muted")
	}

	if s.notify != nil {
		if enable {
			_ = s.notify.Notify(notifications.NotifyUnmute)
		} else {
			_ = s.notify.Notify(notifications.NotifyMute)
		}
	}

	return enable
}

// About returns a description of the current device session and resampling
// configuration. Read-only and free of side effects.
func (s *Sound) About() string {
	return s.buildAbout()
}

// the side channel is silent whenever the pipeline is disabled, otherwise it
// follows the pipeline's volume.
func (s *Sound) wavVolumeFactor() float32 {
	if !s.settings.Enabled.Get().(bool) {
		return 0
	}
	s.crit.Lock()
	defer s.crit.Unlock()
	return s.volFactor
}

func (s *Sound) buildAbout() string {
	if !s.opened || !s.settings.Enabled.Get().(bool) {
		return "Sound disabled"
	}

	device := s.requested.Device
	if device == "" {
		device = "Default"
	}

	stereo := "(Mono)"
	if s.queue != nil && s.queue.Format().Stereo {
		stereo = "(Stereo)"
	}

	b := strings.Builder{}
	b.WriteString("Sound enabled:\n")
	b.WriteString(fmt.Sprintf("  Volume:   %d%%\n", s.volume))
	b.WriteString(fmt.Sprintf("  Device:   %s\n", device))
	b.WriteString(fmt.Sprintf("  Channels: %d %s\n", s.actual.Channels, stereo))
	b.WriteString(fmt.Sprintf("    Fragment size: %d frames\n", s.actual.Samples))
	b.WriteString(fmt.Sprintf("    Sample rate:   %d Hz\n", s.actual.Freq))
	b.WriteString(fmt.Sprintf("    Resampling:    %s\n", s.quality.String()))
	b.WriteString(fmt.Sprintf("    Headroom:      %.1f frames\n", 0.5*float64(s.settings.Headroom.Get().(int))))
	b.WriteString(fmt.Sprintf("    Buffer size:   %.1f frames\n", 0.5*float64(s.settings.BufferSize.Get().(int))))
	return b.String()
}

// onRequest is the real-time entry point for the main pipeline. It runs on
// the device's schedule and must not block or allocate.
func (s *Sound) onRequest(buf []float32) {
	s.crit.Lock()
	r := s.resampler
	vol := s.volFactor
	if s.muted {
		vol = 0
	}
	rec := s.recorder
	s.crit.Unlock()

	if r == nil {
		for i := range buf {
			buf[i] = 0
		}
		return
	}

	r.Fill(buf)
	for i := range buf {
		buf[i] *= vol
	}

	if rec != nil {
		_ = rec.Write(buf)
	}
}
