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

// Package notifications defines how the audio pipeline communicates status
// changes to the user facing parts of the application.
//
// The Notice type enumerates the events that can happen. The Messenger
// interface carries the human readable form of those events, for display in
// whatever presentation layer the application has. A Messenger implementation
// that does nothing is available for applications that have no presentation
// layer at all.
package notifications

// Notice describes events in the audio pipeline that the user may want to
// know about
type Notice string

// List of defined notifications.
const (
	// sound has been muted or unmuted by the user
	NotifyMute   Notice = "NotifyMute"
	NotifyUnmute Notice = "NotifyUnmute"

	// the volume level has changed
	NotifyVolume Notice = "NotifyVolume"

	// the audio device could not be opened. the pipeline is disabled until
	// the next explicit open or settings change
	NotifyDeviceFailure Notice = "NotifyDeviceFailure"

	// a new device session has been opened and the device description has
	// changed as a result
	NotifyDeviceOpen Notice = "NotifyDeviceOpen"
)

// Notify is used for direct communication between the audio pipeline and the
// owning application
type Notify interface {
	Notify(notice Notice) error
}

// Messenger implementations receive the human readable status strings that
// accompany a notification. The gauge variant carries a numeric amount
// suitable for an on-screen meter (eg. the volume level)
type Messenger interface {
	ShowMessage(msg string)
	ShowGauge(label string, value string, amount int)
}

type quiet struct{}

func (_ quiet) ShowMessage(_ string) {
}

func (_ quiet) ShowGauge(_ string, _ string, _ int) {
}

// Quiet is a Messenger that discards everything sent to it
var Quiet Messenger = quiet{}
