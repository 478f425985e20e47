/*
 * split.go, part of readcon-core.
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
	"runtime"
	"sync"
)

//frameRange is the byte range of one frame within a buffer.
type frameRange struct {
	start int
	end   int
}

//scanRanges locates every frame's byte range by walking the header
//metadata with skipFrame, the same routine Forward uses, so the boundaries
//found here cannot diverge from the ones the sequential path would find.
//Coordinates are never parsed during the scan.
func scanRanges(buf []byte, filename string) ([]frameRange, error) {
	cur := newLineCursor(buf)
	var ranges []frameRange
	for !cur.exhausted() {
		start := cur.pos
		if err := skipFrame(cur, filename); err != nil {
			if e, ok := err.(Error); ok {
				e.frame = len(ranges)
				return nil, e
			}
			return nil, err
		}
		ranges = append(ranges, frameRange{start: start, end: cur.pos})
	}
	return ranges, nil
}

// ParseAllConc parses every frame contained in buf on a fixed pool of
// workers, after a cheap pre-scan that computes each frame's byte range
// from the header metadata alone. The result order is the file order, not
// the completion order. If workers is < 1, GOMAXPROCS workers are used.
//
// Workers share buf read-only over disjoint ranges; each result lands in
// its own pre-sized slot, so no locking is involved. If any frame fails to
// parse the whole operation fails, reporting the lowest failing frame
// index.
func ParseAllConc(buf []byte, workers int) ([]*Frame, error) {
	ranges, err := scanRanges(buf, "")
	if err != nil {
		return nil, errDecorate(err, "ParseAllConc")
	}
	if len(ranges) == 0 {
		return nil, nil
	}
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(ranges) {
		workers = len(ranges)
	}
	frames := make([]*Frame, len(ranges))
	errs := make([]error, len(ranges))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				r := ranges[i]
				cur := newLineCursor(buf[r.start:r.end])
				frames[i], errs[i] = parseFrame(cur, "")
			}
		}()
	}
	for i := range ranges {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			if e, ok := err.(Error); ok {
				e.frame = i
				return nil, e
			}
			return nil, err
		}
	}
	return frames, nil
}

// ReadAllConc reads every frame of the trajectory at name like ReadAll,
// but parsing frames concurrently on workers goroutines. The yielded
// sequence is content-identical to the sequential one.
func ReadAllConc(name string, workers int) ([]*Frame, error) {
	f, m, buf, err := sourceBytes(name)
	if err != nil {
		return nil, errDecorate(err, "ReadAllConc")
	}
	defer func() {
		//frames are owned copies, so the mapping can go away
		if m != nil {
			m.Unmap()
		}
		if f != nil {
			f.Close()
		}
	}()
	frames, err := ParseAllConc(buf, workers)
	if err != nil {
		e, ok := err.(Error)
		if ok {
			e.filename = name
			return nil, errDecorate(e, "ReadAllConc")
		}
		return nil, errDecorate(err, "ReadAllConc")
	}
	return frames, nil
}
