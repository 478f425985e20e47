/*
 * writer_test.go, part of readcon-core.
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
 */

package con

import (
	"bytes"
	"fmt"
	"math"
	"path/filepath"
	"testing"
)

//Round trip: parse, serialize, parse again. Every fixture value fits in 6
//decimal digits, so the frames must come back exactly equal.
func TestWriterRoundTrip(Te *testing.T) {
	fmt.Println("CON writer test!")
	for _, src := range []string{singleCon, singleConvel} {
		orig, err := ParseAll([]byte(src))
		if err != nil {
			Te.Fatal(err)
		}
		out, err := WriteAllBytes(orig)
		if err != nil {
			Te.Fatal(err)
		}
		back, err := ParseAll(out)
		if err != nil {
			Te.Fatalf("serialized output did not re-parse: %v\n%s", err, out)
		}
		if len(back) != len(orig) {
			Te.Fatalf("frame count changed: %d -> %d", len(orig), len(back))
		}
		for i := range orig {
			if !orig[i].Eq(back[i], 0) {
				Te.Errorf("frame %d changed across the round trip", i)
			}
		}
	}
}

//Serialization is idempotent: once a trajectory has gone through
//parse-serialize, doing it again reproduces the bytes exactly.
func TestWriterIdempotent(Te *testing.T) {
	orig, err := ParseAll([]byte(singleCon + singleConvel))
	if err != nil {
		Te.Fatal(err)
	}
	first, err := WriteAllBytes(orig)
	if err != nil {
		Te.Fatal(err)
	}
	back, err := ParseAll(first)
	if err != nil {
		Te.Fatal(err)
	}
	second, err := WriteAllBytes(back)
	if err != nil {
		Te.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		Te.Error("second serialization differs from the first")
	}
}

func TestWriterPrecision(Te *testing.T) {
	orig, err := ParseAll([]byte(singleCon))
	if err != nil {
		Te.Fatal(err)
	}
	out, err := WriteAllBytes(orig, 2)
	if err != nil {
		Te.Fatal(err)
	}
	if !bytes.Contains(out, []byte("15.35 15.35 15.35")) {
		Te.Errorf("cell not written at precision 2:\n%s", out)
	}
	back, err := ParseAll(out)
	if err != nil {
		Te.Fatal(err)
	}
	//everything survives within 10^-2
	for i, a := range back[0].Atoms {
		if math.Abs(a.X-orig[0].Atoms[i].X) > 0.5e-2 {
			Te.Errorf("atom %d x drifted beyond the precision: %v vs %v", i, a.X, orig[0].Atoms[i].X)
		}
	}
	//a higher precision must also round trip
	out, err = WriteAllBytes(orig, 12)
	if err != nil {
		Te.Fatal(err)
	}
	back, err = ParseAll(out)
	if err != nil {
		Te.Fatal(err)
	}
	if !orig[0].Eq(back[0], 0) {
		Te.Error("precision 12 round trip changed the frame")
	}
}

//A compressed trajectory written by us must read back through the same
//extension switch the iterator uses.
func TestWriterCompressedRoundTrip(Te *testing.T) {
	orig, err := ParseAll([]byte(singleConvel + singleCon))
	if err != nil {
		Te.Fatal(err)
	}
	dir := Te.TempDir()
	for _, name := range []string{"traj.con.zst", "traj.con.gz"} {
		path := filepath.Join(dir, name)
		W, err := NewWriter(path)
		if err != nil {
			Te.Fatal(err)
		}
		if err := W.Extend(orig...); err != nil {
			Te.Fatal(err)
		}
		if err := W.Close(); err != nil {
			Te.Fatal(err)
		}
		back, err := ReadAll(path)
		if err != nil {
			Te.Fatalf("%s: %v", name, err)
		}
		if len(back) != len(orig) {
			Te.Fatalf("%s: frame count changed: %d -> %d", name, len(orig), len(back))
		}
		for i := range orig {
			if !orig[i].Eq(back[i], 0) {
				Te.Errorf("%s: frame %d changed", name, i)
			}
		}
	}
}

func TestWriterRejectsBadFrame(Te *testing.T) {
	frames, err := ParseAll([]byte(singleCon))
	if err != nil {
		Te.Fatal(err)
	}
	F := frames[0]
	F.Header.NatmsPerType[0] = 3 //header now disagrees with the atom slice
	var buf bytes.Buffer
	W := NewWriterTo(&buf)
	err = W.WriteFrame(F)
	if kind := kindOf(Te, err); kind != ErrCountMismatch {
		Te.Errorf("want %s, got %s (%v)", ErrCountMismatch, kind, err)
	}
	if err := W.WriteFrame(nil); err == nil {
		Te.Error("nil frame accepted")
	}
	//a caller-constructed frame may carry no header at all
	if err := W.WriteFrame(&Frame{}); err == nil {
		Te.Error("headerless frame accepted")
	}
}

func TestWriterCloseIdempotent(Te *testing.T) {
	path := filepath.Join(Te.TempDir(), "x.con")
	W, err := NewWriter(path)
	if err != nil {
		Te.Fatal(err)
	}
	if err := W.Close(); err != nil {
		Te.Fatal(err)
	}
	if err := W.Close(); err != nil {
		Te.Errorf("second Close: %v", err)
	}
	if err := W.WriteFrame(&Frame{}); err == nil {
		Te.Error("closed writer accepted a frame")
	}
}

//The builder output must serialize and read back unchanged, header
//included.
func TestBuilderWriterRoundTrip(Te *testing.T) {
	B := NewFrameBuilder([3]float64{15.3456, 21.702, 100}, [3]float64{90, 90, 90}).
		PreBox("Generated", "Time").
		PostBox("0 0", "218 0 1")
	B.AddAtomVel("Cu", 0.6394, 0.9045, 6.9753, true, 0, 63.546, 0.001, 0, 0)
	B.AddAtomVel("H", 8.6823, 9.947, 11.733, false, 1, 1.008, 0, 0, -0.2)
	F, err := B.Build()
	if err != nil {
		Te.Fatal(err)
	}
	out, err := WriteAllBytes([]*Frame{F})
	if err != nil {
		Te.Fatal(err)
	}
	back, err := ParseAll(out)
	if err != nil {
		Te.Fatalf("built frame did not re-parse: %v\n%s", err, out)
	}
	if !F.Eq(back[0], 0) {
		Te.Error("built frame changed across the round trip")
	}
}
