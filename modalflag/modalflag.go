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

// Package modalflag layers sub-modes on top of the flag package from the
// standard library. A program declares the sub-modes it understands, parses,
// inspects which mode was selected, declares that mode's flags and parses
// again. Mode matching is case insensitive and the first declared sub-mode is
// the default.
package modalflag

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"
)

const modeSeparator = "/"

// Modes is a layered command line parser. The Output field should be
// specified before calling Parse() or help messages will go nowhere.
type Modes struct {
	// where to print help messages. defaults to io.Discard
	Output io.Writer

	// the flagset for the current mode. replaced on every call to NewArgs()
	// and NewMode()
	flags *flag.FlagSet

	args    []string
	argsIdx int

	// sub-modes valid for the next Parse(). entry zero is the default
	subModes []string

	// the series of sub-modes selected by successive calls to Parse()
	path []string

	help string
}

func (md *Modes) String() string {
	return md.Path()
}

// Mode returns the most recently selected sub-mode.
func (md *Modes) Mode() string {
	if len(md.path) == 0 {
		return ""
	}
	return md.path[len(md.path)-1]
}

// Path returns every sub-mode selected so far, separated by slashes.
func (md *Modes) Path() string {
	return strings.Join(md.path, modeSeparator)
}

// NewArgs begins parsing of the given argument list.
func (md *Modes) NewArgs(args []string) {
	md.args = args
	md.argsIdx = 0
	md.NewMode()
}

// NewMode indicates that further arguments belong to a new mode. Flags and
// sub-modes declared before the previous Parse() are forgotten.
func (md *Modes) NewMode() {
	md.subModes = []string{}
	md.flags = flag.NewFlagSet("", flag.ContinueOnError)
	md.help = ""
}

// AddSubModes declares the sub-modes valid for the next Parse(). The first
// sub-mode declared is the default.
func (md *Modes) AddSubModes(subModes ...string) {
	for _, m := range subModes {
		md.subModes = append(md.subModes, strings.ToUpper(m))
	}
}

// AdditionalHelp sets free-form text to print after the flag summary.
func (md *Modes) AdditionalHelp(help string) {
	md.help = help
}

// ParseResult is returned from the Parse() function.
type ParseResult int

// List of valid ParseResult values.
const (
	// parsing succeeded. if sub-modes were declared, Mode() says which one
	// was selected
	ParseContinue ParseResult = iota

	// help was requested and has been printed
	ParseHelp

	// an error occurred and is returned alongside this value
	ParseError
)

// Parse the arguments for the current mode. Unrecognised flags are an error
// unless sub-modes have been declared, in which case the default sub-mode is
// selected and parsing continues in the new mode.
func (md *Modes) Parse() (ParseResult, error) {
	buf := &strings.Builder{}
	md.flags.SetOutput(buf)

	err := md.flags.Parse(md.args[md.argsIdx:])
	if err != nil {
		if err == flag.ErrHelp {
			md.printHelp(buf.String())
			return ParseHelp, nil
		}

		if len(md.subModes) == 0 {
			return ParseError, err
		}
		md.path = append(md.path, md.subModes[0])
		return ParseContinue, nil
	}

	if len(md.subModes) > 0 {
		arg := strings.ToUpper(md.flags.Arg(0))

		mode := md.subModes[0]
		for _, m := range md.subModes {
			if m == arg {
				mode = arg
				md.argsIdx++
				break // for loop
			}
		}

		md.path = append(md.path, mode)
	}

	return ParseContinue, nil
}

// RemainingArgs are the arguments left over after Parse(), not counting a
// selected sub-mode.
func (md *Modes) RemainingArgs() []string {
	return md.flags.Args()
}

// GetArg returns the numbered left-over argument.
func (md *Modes) GetArg(i int) string {
	return md.flags.Arg(i)
}

// AddBool flag for the next call to Parse().
func (md *Modes) AddBool(name string, value bool, usage string) *bool {
	return md.flags.Bool(name, value, usage)
}

// AddInt flag for the next call to Parse().
func (md *Modes) AddInt(name string, value int, usage string) *int {
	return md.flags.Int(name, value, usage)
}

// AddFloat64 flag for the next call to Parse().
func (md *Modes) AddFloat64(name string, value float64, usage string) *float64 {
	return md.flags.Float64(name, value, usage)
}

// AddString flag for the next call to Parse().
func (md *Modes) AddString(name string, value string, usage string) *string {
	return md.flags.String(name, value, usage)
}

// AddDuration flag for the next call to Parse().
func (md *Modes) AddDuration(name string, value time.Duration, usage string) *time.Duration {
	return md.flags.Duration(name, value, usage)
}

func (md *Modes) printHelp(flagHelp string) {
	output := md.Output
	if output == nil {
		output = io.Discard
	}

	lines := strings.Split(flagHelp, "\n")

	// the flag package emits a bare "Usage:" banner even when there are no
	// flags to describe
	if flagHelp == "Usage:\n" && len(md.subModes) == 0 {
		if md.Path() != "" {
			fmt.Fprintf(output, "No help available for %s\n", md.Path())
		} else {
			fmt.Fprintf(output, "No help available\n")
		}
		return
	}

	if md.Path() != "" {
		fmt.Fprintf(output, "%s for %s mode\n", lines[0], md.Path())
	} else {
		fmt.Fprintf(output, "%s\n", lines[0])
	}
	if len(lines) > 1 {
		fmt.Fprint(output, strings.Join(lines[1:], "\n"))
	}

	if len(md.subModes) > 0 {
		if len(lines) > 2 {
			fmt.Fprintln(output)
		}
		fmt.Fprintf(output, "  available sub-modes: %s\n", strings.Join(md.subModes, ", "))
		fmt.Fprintf(output, "    default: %s\n", md.subModes[0])
	}

	if md.help != "" {
		fmt.Fprintf(output, "\n%s\n", md.help)
	}
}
