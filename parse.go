/*
 * parse.go, part of readcon-core.
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

import (
	"bytes"
	"fmt"
)

//lineCursor walks a byte buffer line by line. The returned line slices
//borrow from the buffer; anything that must outlive the parse is copied
//into the Frame (strings, parsed numbers), so no view of the underlying
//mapping ever escapes a parsing call.
type lineCursor struct {
	buf  []byte
	pos  int
	line int //1-based number of the next line, reported through Error.Line
}

func newLineCursor(buf []byte) *lineCursor {
	return &lineCursor{buf: buf, line: 1}
}

func (c *lineCursor) exhausted() bool {
	return c.pos >= len(c.buf)
}

//lastLine is the 1-based number of the most recently consumed line.
func (c *lineCursor) lastLine() int {
	return c.line - 1
}

//nextLine returns the next line without its terminator, advancing the
//cursor. The second return is false at end of buffer.
func (c *lineCursor) nextLine() ([]byte, bool) {
	if c.pos >= len(c.buf) {
		return nil, false
	}
	start := c.pos
	end := start
	for end < len(c.buf) && c.buf[end] != '\n' {
		end++
	}
	stop := end
	if stop > start && c.buf[stop-1] == '\r' {
		stop--
	}
	if end < len(c.buf) {
		end++ //consume the newline itself
	}
	c.pos = end
	c.line++
	return c.buf[start:stop], true
}

//peekLine is nextLine without advancing.
func (c *lineCursor) peekLine() ([]byte, bool) {
	savePos, saveLine := c.pos, c.line
	l, ok := c.nextLine()
	c.pos, c.line = savePos, saveLine
	return l, ok
}

func isBlank(line []byte) bool {
	return len(bytes.TrimSpace(line)) == 0
}

//errAtLine is newError with the offending line number attached.
func errAtLine(kind, message, filename string, line int) Error {
	e := newError(kind, message, filename)
	e.line = line
	return e
}

//splitFields splits line at runs of spaces and tabs, appending borrowed
//subslices to dst. dst is reused across atom lines to keep the hot path
//allocation-free.
func splitFields(line []byte, dst [][]byte) [][]byte {
	dst = dst[:0]
	i := 0
	for i < len(line) {
		for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
			i++
		}
		start := i
		for i < len(line) && line[i] != ' ' && line[i] != '\t' {
			i++
		}
		if i > start {
			dst = append(dst, line[start:i])
		}
	}
	return dst
}

//parseFloatsN parses exactly len(out) whitespace-separated floats from
//line. A wrong field count yields an error of the given kind, at lineno.
func parseFloatsN(line []byte, out []float64, scratch [][]byte, kind, filename string, lineno int) ([][]byte, error) {
	scratch = splitFields(line, scratch)
	if len(scratch) != len(out) {
		return scratch, errAtLine(kind, fmt.Sprintf("expected %d values on line, found %d", len(out), len(scratch)), filename, lineno)
	}
	for i, f := range scratch {
		v, err := parseFloatField(f)
		if err != nil {
			e := err.(Error)
			e.filename = filename
			e.line = lineno
			return scratch, e
		}
		out[i] = v
	}
	return scratch, nil
}

//parseUintField parses a whole field as an unsigned decimal integer.
func parseUintField(field []byte, filename string, lineno int) (int, error) {
	if len(field) == 0 {
		return 0, errAtLine(ErrMalformedHeader, "empty integer field", filename, lineno)
	}
	n := 0
	for _, c := range field {
		if c < '0' || c > '9' {
			return 0, errAtLine(ErrMalformedHeader, "invalid integer field "+string(field), filename, lineno)
		}
		n = n*10 + int(c-'0')
		if n > 1<<40 {
			return 0, errAtLine(ErrMalformedHeader, "integer field out of range "+string(field), filename, lineno)
		}
	}
	return n, nil
}

//headerLine fetches one of the 9 header lines, failing with TruncatedFrame
//at end of buffer.
func headerLine(c *lineCursor, filename string) ([]byte, error) {
	l, ok := c.nextLine()
	if !ok {
		return nil, errAtLine(ErrTruncatedFrame, "file ended inside a frame header", filename, c.line)
	}
	return l, nil
}

//parseHeader consumes the 9 fixed-role header lines of a frame. Line roles
//are fixed by the format: 2 prebox comments, box lengths, box angles, 2
//postbox comments, species count, per-species atom counts, per-species
//masses.
func parseHeader(c *lineCursor, filename string) (*FrameHeader, error) {
	H := new(FrameHeader)
	var scratch [][]byte
	pre0, err := headerLine(c, filename)
	if err != nil {
		return nil, err
	}
	pre1, err := headerLine(c, filename)
	if err != nil {
		return nil, err
	}
	H.PreBox[0] = string(pre0) //copied out of the mapping
	H.PreBox[1] = string(pre1)
	l, err := headerLine(c, filename)
	if err != nil {
		return nil, err
	}
	if scratch, err = parseFloatsN(l, H.Cell[:], scratch, ErrMalformedHeader, filename, c.lastLine()); err != nil {
		return nil, err
	}
	if l, err = headerLine(c, filename); err != nil {
		return nil, err
	}
	if scratch, err = parseFloatsN(l, H.Angles[:], scratch, ErrMalformedHeader, filename, c.lastLine()); err != nil {
		return nil, err
	}
	post0, err := headerLine(c, filename)
	if err != nil {
		return nil, err
	}
	post1, err := headerLine(c, filename)
	if err != nil {
		return nil, err
	}
	H.PostBox[0] = string(post0)
	H.PostBox[1] = string(post1)
	if l, err = headerLine(c, filename); err != nil {
		return nil, err
	}
	scratch = splitFields(l, scratch)
	if len(scratch) != 1 {
		return nil, errAtLine(ErrMalformedHeader, fmt.Sprintf("expected 1 species count, found %d fields", len(scratch)), filename, c.lastLine())
	}
	if H.NatmTypes, err = parseUintField(scratch[0], filename, c.lastLine()); err != nil {
		return nil, err
	}
	if H.NatmTypes < 1 {
		return nil, errAtLine(ErrMalformedHeader, "frame declares zero species", filename, c.lastLine())
	}
	if l, err = headerLine(c, filename); err != nil {
		return nil, err
	}
	scratch = splitFields(l, scratch)
	if len(scratch) != H.NatmTypes {
		return nil, errAtLine(ErrMalformedHeader, fmt.Sprintf("expected %d atom counts, found %d", H.NatmTypes, len(scratch)), filename, c.lastLine())
	}
	H.NatmsPerType = make([]int, H.NatmTypes)
	for i, f := range scratch {
		if H.NatmsPerType[i], err = parseUintField(f, filename, c.lastLine()); err != nil {
			return nil, err
		}
	}
	if l, err = headerLine(c, filename); err != nil {
		return nil, err
	}
	H.MassesPerType = make([]float64, H.NatmTypes)
	if _, err = parseFloatsN(l, H.MassesPerType, scratch, ErrMalformedHeader, filename, c.lastLine()); err != nil {
		return nil, err
	}
	return H, nil
}

//parseSpeciesBlocks reads, for each species in declared order, a symbol
//line, a label line and count[i] atom lines of `x y z fixed atomID`. When
//vel is true the block is a velocity block and the three leading fields
//land in Vx/Vy/Vz of the already-read atoms instead.
func parseSpeciesBlocks(c *lineCursor, H *FrameHeader, atoms []Atom, vel bool, filename string) error {
	var scratch [][]byte
	var vals [5]float64
	idx := 0
	for i := 0; i < H.NatmTypes; i++ {
		symLine, ok := c.nextLine()
		if !ok {
			return errAtLine(ErrTruncatedFrame, "file ended where a species symbol line was expected", filename, c.line)
		}
		symbol := string(bytes.TrimSpace(symLine))
		label, ok := c.nextLine()
		if !ok {
			return errAtLine(ErrTruncatedFrame, "file ended where a species label line was expected", filename, c.line)
		}
		if vel && !bytes.Contains(label, []byte("Velocities of Component")) {
			return errAtLine(ErrMalformedHeader, "velocity block label line missing 'Velocities of Component'", filename, c.lastLine())
		}
		for j := 0; j < H.NatmsPerType[i]; j++ {
			l, ok := c.nextLine()
			if !ok {
				return errAtLine(ErrTruncatedFrame, fmt.Sprintf("file ended inside the block of species %d (%s)", i+1, symbol), filename, c.line)
			}
			var err error
			if scratch, err = parseFloatsN(l, vals[:], scratch, ErrCountMismatch, filename, c.lastLine()); err != nil {
				return err
			}
			if vel {
				atoms[idx].Vx = vals[0]
				atoms[idx].Vy = vals[1]
				atoms[idx].Vz = vals[2]
				atoms[idx].HasVel = true
			} else {
				atoms[idx] = Atom{
					Symbol:  symbol,
					X:       vals[0],
					Y:       vals[1],
					Z:       vals[2],
					IsFixed: vals[3] != 0,
					ID:      uint64(vals[4]),
					Mass:    H.MassesPerType[i],
				}
			}
			idx++
		}
	}
	return nil
}

//parseFrame consumes exactly one frame from the cursor: header, coordinate
//blocks and, if a blank separator line follows, the velocity blocks. The
//velocity decision uses a single peeked line; nothing is consumed before
//the decision is made.
func parseFrame(c *lineCursor, filename string) (*Frame, error) {
	H, err := parseHeader(c, filename)
	if err != nil {
		return nil, err
	}
	atoms := make([]Atom, H.TotalAtoms())
	if err := parseSpeciesBlocks(c, H, atoms, false, filename); err != nil {
		return nil, err
	}
	//A blank line after the coordinate blocks announces a velocity section;
	//a new frame starts with a non-blank comment line, so the peek decides.
	if l, ok := c.peekLine(); ok && isBlank(l) {
		c.nextLine() //the blank separator
		if err := parseSpeciesBlocks(c, H, atoms, true, filename); err != nil {
			return nil, err
		}
	}
	return &Frame{Header: H, Atoms: atoms}, nil
}

//skipFrame advances the cursor over one whole frame while reading only the
//header metadata, never the coordinates. Forward() and the parallel
//splitter both use this, so frame boundaries cannot diverge between the
//sequential and concurrent paths.
func skipFrame(c *lineCursor, filename string) error {
	for i := 0; i < 6; i++ {
		if _, ok := c.nextLine(); !ok {
			return errAtLine(ErrTruncatedFrame, "file ended inside a frame header", filename, c.line)
		}
	}
	l, err := headerLine(c, filename)
	if err != nil {
		return err
	}
	var scratch [][]byte
	scratch = splitFields(l, scratch)
	if len(scratch) != 1 {
		return errAtLine(ErrMalformedHeader, fmt.Sprintf("expected 1 species count, found %d fields", len(scratch)), filename, c.lastLine())
	}
	ntypes, err := parseUintField(scratch[0], filename, c.lastLine())
	if err != nil {
		return err
	}
	if l, err = headerLine(c, filename); err != nil {
		return err
	}
	scratch = splitFields(l, scratch)
	if len(scratch) != ntypes {
		return errAtLine(ErrMalformedHeader, fmt.Sprintf("expected %d atom counts, found %d", ntypes, len(scratch)), filename, c.lastLine())
	}
	total := 0
	for _, f := range scratch {
		n, err := parseUintField(f, filename, c.lastLine())
		if err != nil {
			return err
		}
		total += n
	}
	if _, err = headerLine(c, filename); err != nil { //masses line
		return err
	}
	//each species block is a symbol line, a label line and its atom lines
	span := total + 2*ntypes
	for i := 0; i < span; i++ {
		if _, ok := c.nextLine(); !ok {
			return errAtLine(ErrTruncatedFrame, "file ended inside a coordinate block", filename, c.line)
		}
	}
	if l, ok := c.peekLine(); ok && isBlank(l) {
		c.nextLine()
		for i := 0; i < span; i++ {
			if _, ok := c.nextLine(); !ok {
				return errAtLine(ErrTruncatedFrame, "file ended inside a velocity block", filename, c.line)
			}
		}
	}
	return nil
}
