/*
 * errors.go, part of readcon-core.
 *
 * Copyright 2024 Rohit Goswami <rgoswami{at}ieeeDOTorg>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package con

import "fmt"

// ConError is the interface for errors in this library. The Decorate method
// allows adding and retrieving info from the error, without changing its type
// or wrapping it around something else. The decorate slice should contain a
// list of functions in the calling stack, plus, for each function, any
// relevant information, or nothing.
type ConError interface {
	Error() string
	Decorate(string) []string
}

// TrajError is the interface for errors tied to a trajectory file.
type TrajError interface {
	ConError
	Critical() bool
	FileName() string
	Format() string
}

// LastFrameError has a useless method to distinguish the harmless end of a
// trajectory from real failures, so it can be filtered in a type switch.
type LastFrameError interface {
	TrajError
	NormalLastFrameTermination() //does nothing, just separates this interface from other TrajError's
}

// Error kinds. Every Error produced by this package carries exactly one of
// these, so callers can dispatch on structure without parsing messages.
const (
	ErrIo                 = "io"
	ErrMalformedHeader    = "malformed-header"
	ErrMalformedNumber    = "malformed-number"
	ErrCountMismatch      = "count-mismatch"
	ErrTruncatedFrame     = "truncated-frame"
	ErrMixedVelocityState = "mixed-velocity-state"
	ErrEmptyFrame         = "empty-frame"
	ErrBuilderConsumed    = "builder-consumed"
)

// Messages used in more than one place.
const (
	TrajUnIniRead  = "Traj object uninitialized to read"
	TrajUnIniWrite = "Traj object uninitialized to write"
	NilFrame       = "Given nil frame"
)

// Error is the concrete error for CON parsing, building and writing. It
// fulfills ConError and TrajError.
type Error struct {
	kind     string
	message  string
	filename string //the input file that has problems, or empty string if none.
	frame    int    //index of the failing frame, or -1 if not applicable.
	line     int    //1-based line number of the problem, or -1 if not applicable.
	deco     []string
	critical bool
}

func newError(kind, message, filename string) Error {
	return Error{kind: kind, message: message, filename: filename, frame: -1, line: -1, critical: true}
}

func (err Error) Error() string {
	pos := ""
	if err.frame >= 0 {
		pos += fmt.Sprintf(" frame %d", err.frame)
	}
	if err.line >= 0 {
		pos += fmt.Sprintf(" line %d", err.line)
	}
	return fmt.Sprintf("con file %s%s error (%s): %s", err.filename, pos, err.kind, err.message)
}

// Decorate adds new information to the error
func (E Error) Decorate(deco string) []string {
	//Even though this method does not use a pointer as a receiver, E.deco is
	//a slice, and hence a pointer itself.
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

// Kind returns the error kind, one of the Err* constants.
func (err Error) Kind() string { return err.kind }

// FileName returns the file to which the failing trajectory was associated
func (err Error) FileName() string { return err.filename }

// Format returns the format of the file (always "con") associated to the error
func (err Error) Format() string { return "con" }

// Critical returns true if the error is critical, false otherwise
func (err Error) Critical() bool { return err.critical }

// Frame returns the index of the failing frame, or -1 if the error is not
// tied to a particular frame.
func (err Error) Frame() int { return err.frame }

// Line returns the 1-based line number where the problem was found, counted
// within the parsed buffer, or -1 if the error is not tied to a line.
func (err Error) Line() int { return err.line }

// errDecorate asserts that err implements ConError and decorates it with the
// caller's name before returning it. Panics on a non-ConError error.
func errDecorate(err error, caller string) error {
	err2 := err.(ConError)
	err2.Decorate(caller)
	return err2
}

// lastFrameError implements LastFrameError
type lastFrameError struct {
	deco     []string
	fileName string
}

// NormalLastFrameTermination does nothing
func (E lastFrameError) NormalLastFrameTermination() {}

func (E lastFrameError) FileName() string { return E.fileName }

func (E lastFrameError) Error() string { return "EOF" }

func (E lastFrameError) Critical() bool { return false }

func (E lastFrameError) Format() string { return "con" }

func (E lastFrameError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func newlastFrameError(filename string, caller string) *lastFrameError {
	e := new(lastFrameError)
	e.fileName = filename
	e.deco = []string{caller}
	return e
}
