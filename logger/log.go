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

package logger

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Entry represents a single line/entry in the log
type Entry struct {
	Timestamp time.Time
	Tag       string
	Detail    string
	Repeated  int
}

func (e Entry) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("%s: %s", e.Tag, e.Detail))
	if e.Repeated > 0 {
		s.WriteString(fmt.Sprintf(" (repeat x%d)", e.Repeated+1))
	}
	s.WriteString("\n")
	return s.String()
}

// not exposing the logger type outside of the package. the package level
// functions are used to access the central logger
type logger struct {
	crit       sync.Mutex
	maxEntries int
	entries    []Entry

	// the echo writer receives every entry as it is made. a nil echo means no
	// echoing takes place
	echo io.Writer
}

func newLogger(maxEntries int) *logger {
	return &logger{
		maxEntries: maxEntries,
		entries:    make([]Entry, 0, maxEntries),
	}
}

func (l *logger) log(tag, detail string) {
	l.crit.Lock()
	defer l.crit.Unlock()

	// remove newline characters. a log entry is always a single line
	tag = strings.ReplaceAll(tag, "\n", "")
	detail = strings.ReplaceAll(detail, "\n", "")

	// if the new entry is the same as the most recent entry then we simply
	// bump the repeat count rather than adding a new entry
	if len(l.entries) > 0 {
		e := &l.entries[len(l.entries)-1]
		if e.Tag == tag && e.Detail == detail {
			e.Repeated++
			e.Timestamp = time.Now()
			return
		}
	}

	e := Entry{Timestamp: time.Now(), Tag: tag, Detail: detail}
	l.entries = append(l.entries, e)

	// maintain maximum length
	if len(l.entries) > l.maxEntries {
		l.entries = l.entries[len(l.entries)-l.maxEntries:]
	}

	if l.echo != nil {
		io.WriteString(l.echo, e.String())
	}
}

func (l *logger) logf(tag, detail string, args ...interface{}) {
	l.log(tag, fmt.Sprintf(detail, args...))
}

func (l *logger) clear() {
	l.crit.Lock()
	defer l.crit.Unlock()
	l.entries = l.entries[:0]
}

func (l *logger) write(output io.Writer) {
	l.crit.Lock()
	defer l.crit.Unlock()
	for _, e := range l.entries {
		io.WriteString(output, e.String())
	}
}

func (l *logger) tail(output io.Writer, number int) {
	l.crit.Lock()
	defer l.crit.Unlock()

	// cap number to the number of entries
	if number > len(l.entries) {
		number = len(l.entries)
	}

	for _, e := range l.entries[len(l.entries)-number:] {
		io.WriteString(output, e.String())
	}
}

func (l *logger) setEcho(output io.Writer, writeRecent bool) {
	l.crit.Lock()
	defer l.crit.Unlock()

	l.echo = output
	if output != nil && writeRecent {
		for _, e := range l.entries {
			io.WriteString(output, e.String())
		}
	}
}

func (l *logger) borrowLog(f func([]Entry)) {
	l.crit.Lock()
	defer l.crit.Unlock()
	f(l.entries)
}
