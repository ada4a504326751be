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

package main

import (
	"fmt"
	"math"
	"os"
	"os/signal"
	"time"

	"github.com/SergioMartin86/stella/audio/queue"
	"github.com/SergioMartin86/stella/audio/resample"
	"github.com/SergioMartin86/stella/logger"
	"github.com/SergioMartin86/stella/modalflag"
	"github.com/SergioMartin86/stella/sdlaudio"
	"github.com/SergioMartin86/stella/settings"
	"github.com/SergioMartin86/stella/statsview"
	"github.com/SergioMartin86/stella/version"
	"github.com/SergioMartin86/stella/wavwriter"
)

// sample rate at which the tone generator produces audio. the same rate the
// TIA produces samples at, one per scanline pair, and deliberately not a rate
// any device will offer natively
const toneSourceRate = 31440

func main() {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(os.Args[1:])
	md.AddSubModes("PLAY", "WAV", "DEVICES", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		os.Exit(0)
	case modalflag.ParseError:
		fmt.Printf("* error: %v\n", err)
		os.Exit(10)
	}

	switch md.Mode() {
	case "PLAY":
		err = play(md)
	case "WAV":
		err = playWav(md)
	case "DEVICES":
		err = listDevices(md)
	case "VERSION":
		vers, rev, _ := version.Version()
		fmt.Printf("%s (%s)\n", vers, rev)
	}

	if err != nil {
		fmt.Printf("* error in %s mode: %s\n", md.String(), err)
		os.Exit(20)
	}
}

func newSettings(md *modalflag.Modes, rate int, fragment int, device string,
	volume int, quality string) (*settings.Audio, error) {

	set, err := settings.NewAudio()
	if err != nil {
		return nil, err
	}

	if err := set.SampleRate.Set(rate); err != nil {
		return nil, err
	}
	if err := set.FragmentSize.Set(fragment); err != nil {
		return nil, err
	}
	if err := set.Device.Set(device); err != nil {
		return nil, err
	}
	if err := set.Volume.Set(volume); err != nil {
		return nil, err
	}
	if err := set.ResamplingQuality.Set(quality); err != nil {
		return nil, err
	}

	return set, nil
}

// play generates a test tone and drives it through the full pipeline. it is
// the quickest way of checking that a particular device and resampling
// quality work together.
func play(md *modalflag.Modes) error {
	md.NewMode()

	rate := md.AddInt("rate", 44100, "sample rate to request from the device")
	fragment := md.AddInt("fragment", 512, "fragment size in frames")
	device := md.AddString("device", "", "device to open (see devices mode)")
	volume := md.AddInt("volume", 100, "volume percentage")
	quality := md.AddString("quality", "lanczos-2", "resampling quality: nearest, lanczos-2, lanczos-3")
	freq := md.AddFloat64("freq", 440.0, "tone frequency in Hz")
	duration := md.AddDuration("duration", 5*time.Second, "how long to play the tone for")
	prebuffer := md.AddInt("prebuffer", 2, "fragments to queue before playback starts")
	wav := md.AddString("wav", "", "record device output to wav file")
	log := md.AddBool("log", false, "echo debugging log to stdout")
	stats := md.AddBool("statsview", false, "run stats server")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *log {
		logger.SetEcho(os.Stdout, false)
	}
	if *stats {
		if statsview.Available() {
			statsview.Launch(os.Stdout)
		} else {
			fmt.Println("* statsview not available in this build")
		}
	}

	set, err := newSettings(md, *rate, *fragment, *device, *volume, *quality)
	if err != nil {
		return err
	}

	format, err := resample.NewFormat(toneSourceRate, 1024, false)
	if err != nil {
		return err
	}

	q, err := queue.NewQueue(format, 8)
	if err != nil {
		return err
	}

	snd := sdlaudio.New(set, nil, nil, nil)
	defer snd.Close()

	err = snd.Open(q, sdlaudio.Timing{
		SampleRate:             toneSourceRate,
		PrebufferFragmentCount: *prebuffer,
	})
	if err != nil {
		return err
	}

	if *wav != "" {
		aw, err := wavwriter.New(*wav, *rate, 2)
		if err != nil {
			return err
		}
		snd.AttachRecorder(aw)
		defer func() {
			snd.AttachRecorder(nil)
			if err := aw.End(); err != nil {
				fmt.Printf("* %v\n", err)
			}
		}()
	}

	fmt.Print(snd.About())

	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)

	// produce fragments at the rate the tone generator would naturally
	// produce them
	fragTime := time.Duration(format.FragmentLen) * time.Second / toneSourceRate
	tick := time.NewTicker(fragTime)
	defer tick.Stop()

	end := time.After(*duration)
	phase := 0.0
	step := 2 * math.Pi * *freq / toneSourceRate

	frag := q.Enqueue(nil)
	for {
		select {
		case <-intChan:
			fmt.Println("\r")
			return nil
		case <-end:
			return nil
		case <-tick.C:
			for i := range frag {
				frag[i] = int16(10000 * math.Sin(phase))
				phase += step
				if phase > 2*math.Pi {
					phase -= 2 * math.Pi
				}
			}
			frag = q.Enqueue(frag)
		}
	}
}

// playWav plays an audio file through a device session of its own.
func playWav(md *modalflag.Modes) error {
	md.NewMode()

	speed := md.AddFloat64("speed", 1.0, "playback speed factor")
	offset := md.AddInt("offset", 0, "first frame of the clip to play")
	length := md.AddInt("length", 0, "number of frames to play (0 = to the end)")
	log := md.AddBool("log", false, "echo debugging log to stdout")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *log {
		logger.SetEcho(os.Stdout, false)
	}

	switch len(md.RemainingArgs()) {
	case 0:
		return fmt.Errorf("wav or mp3 file required for %s mode", md)
	case 1:
		player := sdlaudio.NewWavPlayer(nil)
		defer player.Stop()

		err := player.PlaySegment(md.GetArg(0), *offset, *length, *speed)
		if err != nil {
			return err
		}

		intChan := make(chan os.Signal, 1)
		signal.Notify(intChan, os.Interrupt)

		tick := time.NewTicker(100 * time.Millisecond)
		defer tick.Stop()

		for player.IsPlaying() {
			select {
			case <-intChan:
				fmt.Println("\r")
				return nil
			case <-tick.C:
			}
		}
	default:
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	return nil
}

func listDevices(md *modalflag.Modes) error {
	md.NewMode()

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	for _, n := range sdlaudio.NewDevice().List() {
		fmt.Println(n)
	}

	return nil
}
