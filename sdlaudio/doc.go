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

// Package sdlaudio connects the audio pipeline to a physical playback device.
//
// The Sound type owns the device lifecycle. Open() attaches a fragment queue
// and negotiates a device format, reopening the physical device only when the
// requested rate, fragment size or device actually differ from the session
// already open. The real-time fill path pulls destination format samples
// through the resampler, gated by the priming controller, and applies the
// current volume. Volume and mute are independent: mute pauses delivery
// altogether while a volume of zero delivers silence on a running device.
//
// The physical device sits behind the Device interface. The SDL2
// implementation feeds the device queue from its own goroutine, which plays
// the role that the audio callback plays in a C program. Tests substitute an
// in-memory implementation.
//
// The WavPlayer type is an independent side channel for auxiliary sound
// clips. It has its own device session in the clip's native format and shares
// nothing with the main pipeline except the volume policy.
//
// Configuration discipline: every change that touches state shared with the
// real-time fill path - device reopen, resampler swap, queue exchange -
// pauses the device first, mutates, then resumes. Pausing waits for any
// in-flight fill to complete so nothing is ever mutated under a running
// callback.
package sdlaudio
