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

// Spec describes an audio device session. A requested Spec is compared against
// the Spec of the session already open to decide whether the physical device
// must be reopened. The Spec returned by Device.Open() records what the
// hardware actually agreed to, which may legitimately differ from the request.
type Spec struct {
	// samples per second per channel
	Freq int

	// number of channels, 1 or 2
	Channels int

	// frames in one device buffer
	Samples int

	// name of the device. the empty string selects the system default
	Device string
}

// RequestAudio is the real-time entry point of a device session. The
// implementation must fill the entire buffer with interleaved float samples.
// It is called on the device's schedule, outside the control of the caller of
// Open(), and must not block or allocate.
type RequestAudio func(buf []float32)

// Device abstracts the platform audio facility.
//
// Open() begins a session, registering the function that will satisfy the
// device's demand for samples, and returns the format the hardware actually
// granted. A session begins paused. Pause(false) starts sample delivery,
// Pause(true) stops it and waits for any in-flight request to complete, so
// that after Pause(true) returns the caller can safely mutate whatever state
// the RequestAudio function touches. Close() ends the session; it implies
// Pause(true) and is safe to call at any time, including before a successful
// Open() or more than once.
type Device interface {
	Open(request Spec, onRequest RequestAudio) (Spec, error)
	Pause(pause bool)
	Close()

	// List returns the names of the available output devices. The first
	// entry is always the system default
	List() []string
}
