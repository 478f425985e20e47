/*
 * writer.go, part of readcon-core.
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
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

//DefaultPrecision is the number of fixed-point decimal digits used for
//every numeric field unless the writer is given another value.
const DefaultPrecision = 6

// FrameWriter serializes frames back to the textual CON grammar, appending
// each one to the same stream with no separator in between, so the output
// is itself a valid multi-frame trajectory. The writer only reads the
// frames it is given; it never retains or mutates them.
type FrameWriter struct {
	f         *os.File       //nil when writing to a caller-supplied stream
	z         io.WriteCloser //compression layer, nil when plain
	w         *bufio.Writer
	prec      int
	filename  string
	writeable bool
}

// NewWriter creates (or truncates) the file at name and returns a writer
// over it. Files ending in .zst/.zstd or .gz are compressed accordingly.
// The optional argument is the fixed-point precision; the default is 6.
// Close must be called to flush.
func NewWriter(name string, precision ...int) (*FrameWriter, error) {
	W := newFrameWriter(precision)
	W.filename = name
	var err error
	W.f, err = os.Create(name)
	if err != nil {
		return nil, newError(ErrIo, err.Error(), name)
	}
	temp := strings.Split(name, ".")
	switch strings.ToLower(temp[len(temp)-1]) {
	case "zst", "zstd":
		W.z, err = zstd.NewWriter(W.f)
		if err != nil {
			W.f.Close()
			return nil, newError(ErrIo, err.Error(), name)
		}
		W.w = bufio.NewWriter(W.z)
	case "gz":
		W.z = gzip.NewWriter(W.f)
		W.w = bufio.NewWriter(W.z)
	default:
		W.w = bufio.NewWriter(W.f)
	}
	return W, nil
}

// NewWriterTo returns a writer that serializes into an arbitrary stream,
// e.g. a bytes.Buffer for in-memory serialization. The caller keeps
// ownership of w; Close flushes but does not close it.
func NewWriterTo(w io.Writer, precision ...int) *FrameWriter {
	W := newFrameWriter(precision)
	W.w = bufio.NewWriter(w)
	return W
}

func newFrameWriter(precision []int) *FrameWriter {
	prec := DefaultPrecision
	if len(precision) > 0 && precision[0] > 0 {
		prec = precision[0]
	}
	return &FrameWriter{prec: prec, writeable: true}
}

//ioErr wraps a stream failure. A partial write leaves the file invalid;
//the writer refuses further use.
func (W *FrameWriter) ioErr(err error, caller string) error {
	W.writeable = false
	e := newError(ErrIo, err.Error(), W.filename)
	e.deco = []string{caller}
	return e
}

// WriteFrame serializes one frame.
func (W *FrameWriter) WriteFrame(F *Frame) error {
	if !W.writeable {
		return newError(ErrIo, TrajUnIniWrite, W.filename)
	}
	if F == nil || F.Header == nil {
		return newError(ErrIo, NilFrame, W.filename)
	}
	H := F.Header
	if H.TotalAtoms() != F.Len() {
		return newError(ErrCountMismatch, fmt.Sprintf("header declares %d atoms but frame has %d", H.TotalAtoms(), F.Len()), W.filename)
	}
	p := W.prec
	var err error
	write := func(format string, args ...interface{}) {
		if err == nil {
			_, err = fmt.Fprintf(W.w, format, args...)
		}
	}
	write("%s\n%s\n", H.PreBox[0], H.PreBox[1])
	write("%.*f %.*f %.*f\n", p, H.Cell[0], p, H.Cell[1], p, H.Cell[2])
	write("%.*f %.*f %.*f\n", p, H.Angles[0], p, H.Angles[1], p, H.Angles[2])
	write("%s\n%s\n", H.PostBox[0], H.PostBox[1])
	write("%d\n", H.NatmTypes)
	for i, n := range H.NatmsPerType {
		if i > 0 {
			write(" ")
		}
		write("%d", n)
	}
	write("\n")
	for i, m := range H.MassesPerType {
		if i > 0 {
			write(" ")
		}
		write("%.*f", p, m)
	}
	write("\n")
	idx := 0
	for i, n := range H.NatmsPerType {
		if n == 0 {
			//the symbol of a species lives on its atoms, so an empty run
			//cannot be serialized
			return newError(ErrCountMismatch, fmt.Sprintf("species %d declares zero atoms", i+1), W.filename)
		}
		write("%s\nCoordinates of Component %d\n", F.Atoms[idx].Symbol, i+1)
		for j := 0; j < n; j++ {
			a := &F.Atoms[idx]
			write("%.*f %.*f %.*f %d %d\n", p, a.X, p, a.Y, p, a.Z, boolByte(a.IsFixed), a.ID)
			idx++
		}
	}
	if F.HasVelocities() {
		write("\n")
		idx = 0
		for i, n := range H.NatmsPerType {
			write("%s\nVelocities of Component %d\n", F.Atoms[idx].Symbol, i+1)
			for j := 0; j < n; j++ {
				a := &F.Atoms[idx]
				write("%.*f %.*f %.*f %d %d\n", p, a.Vx, p, a.Vy, p, a.Vz, boolByte(a.IsFixed), a.ID)
				idx++
			}
		}
	}
	if err != nil {
		return W.ioErr(err, "WriteFrame")
	}
	if err = W.w.Flush(); err != nil {
		return W.ioErr(err, "WriteFrame")
	}
	return nil
}

func boolByte(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Extend serializes each given frame in sequence, appending to the stream.
// If it fails part-way the file must be treated as invalid.
func (W *FrameWriter) Extend(frames ...*Frame) error {
	for _, F := range frames {
		if err := W.WriteFrame(F); err != nil {
			return errDecorate(err, "Extend")
		}
	}
	return nil
}

// Close flushes and closes the output. For writers over a caller-supplied
// stream it flushes only. The writer is unusable afterwards; calling Close
// again is harmless.
func (W *FrameWriter) Close() error {
	if W == nil || !W.writeable && W.w == nil {
		return nil
	}
	W.writeable = false
	var first error
	if W.w != nil {
		if err := W.w.Flush(); err != nil && first == nil {
			first = err
		}
		W.w = nil
	}
	if W.z != nil {
		if err := W.z.Close(); err != nil && first == nil {
			first = err
		}
		W.z = nil
	}
	if W.f != nil {
		if err := W.f.Close(); err != nil && first == nil {
			first = err
		}
		W.f = nil
	}
	if first != nil {
		return newError(ErrIo, first.Error(), W.filename)
	}
	return nil
}

// WriteAllBytes serializes a sequence of frames to an in-memory buffer, the
// inverse of ParseAll. The optional argument is the fixed-point precision.
func WriteAllBytes(frames []*Frame, precision ...int) ([]byte, error) {
	var buf bytes.Buffer
	W := NewWriterTo(&buf, precision...)
	if err := W.Extend(frames...); err != nil {
		return nil, errDecorate(err, "WriteAllBytes")
	}
	if err := W.Close(); err != nil {
		return nil, errDecorate(err, "WriteAllBytes")
	}
	return buf.Bytes(), nil
}
