/*
 * iterator.go, part of readcon-core.
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
	"compress/gzip"
	"io"
	"log"
	"os"
	"strings"

	mmap "github.com/edsrzf/mmap-go"
	"github.com/klauspost/compress/zstd"
)

// FrameIterator lazily parses frames from a .con or .convel trajectory.
// The file is memory-mapped and each Next call consumes exactly one frame's
// bytes; nothing is parsed up front. The iterator owns the mapping: every
// Frame it yields is an independent copy and stays valid after Close.
//
// Iteration is forward-only and non-restartable. A parse failure is
// terminal: the iterator does not resynchronize to the next frame boundary.
type FrameIterator struct {
	f        *os.File
	m        mmap.MMap //nil when the source was decompressed into memory
	cur      *lineCursor
	filename string
	frame    int //index of the next frame to be yielded
	readable bool
}

//sourceBytes opens name and returns its contents as a byte buffer. Plain
//files are memory-mapped; zstd and gzip sources (by extension) are
//decompressed into memory, since a compressed stream cannot be walked by
//byte offset. Compression choice is by extension, but note that whether a
//frame has velocities is always decided structurally, never from the
//.con/.convel extension.
func sourceBytes(name string) (*os.File, mmap.MMap, []byte, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, nil, newError(ErrIo, err.Error(), name)
	}
	temp := strings.Split(name, ".")
	ext := strings.ToLower(temp[len(temp)-1])
	switch ext {
	case "zst", "zstd":
		r, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, nil, nil, newError(ErrIo, err.Error(), name)
		}
		buf, err := io.ReadAll(r)
		r.Close()
		f.Close()
		if err != nil {
			return nil, nil, nil, newError(ErrIo, err.Error(), name)
		}
		return nil, nil, buf, nil
	case "gz":
		r, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, nil, nil, newError(ErrIo, err.Error(), name)
		}
		buf, err := io.ReadAll(r)
		r.Close()
		f.Close()
		if err != nil {
			return nil, nil, nil, newError(ErrIo, err.Error(), name)
		}
		return nil, nil, buf, nil
	case "con", "convel":
		//fallthrough to mapping below
	default:
		log.Printf("Extension %q not recognized. %s will be assumed to be a plain CON file", ext, name)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, nil, newError(ErrIo, err.Error(), name)
	}
	if st.Size() == 0 {
		//mapping a zero-length file fails; an empty trajectory is fine.
		return f, nil, nil, nil
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, nil, nil, newError(ErrIo, err.Error(), name)
	}
	return f, m, m, nil
}

// New opens a frame iterator over the trajectory at name. Files ending in
// .zst/.zstd or .gz are decompressed; anything else is memory-mapped as
// plain text.
func New(name string) (*FrameIterator, error) {
	f, m, buf, err := sourceBytes(name)
	if err != nil {
		return nil, errDecorate(err, "New")
	}
	D := &FrameIterator{
		f:        f,
		m:        m,
		cur:      newLineCursor(buf),
		filename: name,
		readable: true,
	}
	return D, nil
}

// Readable returns true if it is possible to call Next on the iterator.
func (D *FrameIterator) Readable() bool {
	return D.readable
}

//terminal marks the iterator exhausted and releases the mapping.
func (D *FrameIterator) terminal() {
	D.Close()
}

// Next parses and returns the next frame. At the end of the trajectory it
// returns an error implementing LastFrameError, and keeps doing so on every
// further call; that is the normal termination, not a failure. Any parse
// failure is returned with the failing frame index attached and ends the
// iteration for good.
func (D *FrameIterator) Next() (*Frame, error) {
	if !D.readable {
		return nil, newlastFrameError(D.filename, "Next")
	}
	if D.cur.exhausted() {
		D.terminal()
		return nil, newlastFrameError(D.filename, "Next")
	}
	F, err := parseFrame(D.cur, D.filename)
	if err != nil {
		D.terminal()
		if e, ok := err.(Error); ok {
			e.frame = D.frame
			return nil, e
		}
		return nil, err
	}
	D.frame++
	return F, nil
}

// Forward skips the next frame without parsing its coordinates, using only
// the header metadata to compute the frame's line span. It is cheaper than
// Next when the frame's content is not needed. At the end of the trajectory
// it behaves like Next.
func (D *FrameIterator) Forward() error {
	if !D.readable {
		return newlastFrameError(D.filename, "Forward")
	}
	if D.cur.exhausted() {
		D.terminal()
		return newlastFrameError(D.filename, "Forward")
	}
	if err := skipFrame(D.cur, D.filename); err != nil {
		D.terminal()
		if e, ok := err.(Error); ok {
			e.frame = D.frame
			return e
		}
		return err
	}
	D.frame++
	return nil
}

// Close releases the mapping and the file. The iterator is unreadable
// afterwards. Calling Close more than once is harmless.
func (D *FrameIterator) Close() {
	if D == nil {
		return
	}
	D.readable = false
	if D.m != nil {
		D.m.Unmap()
		D.m = nil
	}
	if D.f != nil {
		D.f.Close()
		D.f = nil
	}
	D.cur = newLineCursor(nil)
}

// ReadAll eagerly reads every frame of the trajectory at name, in file
// order.
func ReadAll(name string) ([]*Frame, error) {
	D, err := New(name)
	if err != nil {
		return nil, errDecorate(err, "ReadAll")
	}
	defer D.Close()
	var frames []*Frame
	for {
		F, err := D.Next()
		if err != nil {
			if _, ok := err.(LastFrameError); ok {
				return frames, nil
			}
			return nil, errDecorate(err, "ReadAll")
		}
		frames = append(frames, F)
	}
}

// ReadFirst reads only the first frame of the trajectory at name.
func ReadFirst(name string) (*Frame, error) {
	D, err := New(name)
	if err != nil {
		return nil, errDecorate(err, "ReadFirst")
	}
	defer D.Close()
	F, err := D.Next()
	if err != nil {
		if _, ok := err.(LastFrameError); ok {
			return nil, newError(ErrTruncatedFrame, "trajectory contains no frames", name)
		}
		return nil, errDecorate(err, "ReadFirst")
	}
	return F, nil
}

// ParseAll parses every frame contained in an in-memory buffer, for callers
// that receive file contents over a wire rather than a path.
func ParseAll(buf []byte) ([]*Frame, error) {
	cur := newLineCursor(buf)
	var frames []*Frame
	for !cur.exhausted() {
		F, err := parseFrame(cur, "")
		if err != nil {
			if e, ok := err.(Error); ok {
				e.frame = len(frames)
				return nil, e
			}
			return nil, err
		}
		frames = append(frames, F)
	}
	return frames, nil
}
