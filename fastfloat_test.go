/*
 * fastfloat_test.go, part of readcon-core.
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
	"strconv"
	"testing"
)

//Every parse must agree bit-for-bit with strconv, which is correctly
//rounded; the fast path may not introduce even one ulp of difference.
func TestParseFloatBytesAgainstStrconv(Te *testing.T) {
	cases := []string{
		"0", "1", "-1", "90", "15.3456", "-0.5470", "0.639400",
		"6.975299999999995", "0.639400000000001", "1.0940",
		"0.001234", "-0.000001", "123456789.123456789",
		"1e3", "1E3", "-2.5e-4", "6.02E23", "1.7976931348623157e308",
		"4.9406564584124654e-324", //subnormal, slow path
		"9007199254740993",        //2^53+1, mantissa no longer exact
		"0.1", "0.2", "0.3", "2.2250738585072011e-308",
		"99999999999999999999999999",  //>19 digits, truncated path
		"0.00000000000000000000001234",
	}
	for _, s := range cases {
		want, err := strconv.ParseFloat(s, 64)
		if err != nil {
			Te.Fatalf("bad test case %q: %v", s, err)
		}
		got, n, err := ParseFloatBytes([]byte(s))
		if err != nil {
			Te.Errorf("ParseFloatBytes(%q): %v", s, err)
			continue
		}
		if n != len(s) {
			Te.Errorf("ParseFloatBytes(%q) consumed %d of %d bytes", s, n, len(s))
		}
		if got != want {
			Te.Errorf("ParseFloatBytes(%q) = %v, strconv says %v", s, got, want)
		}
	}
}

func TestParseFloatBytesDelimited(Te *testing.T) {
	v, n, err := ParseFloatBytes([]byte("15.3456 15.3456"))
	if err != nil {
		Te.Fatal(err)
	}
	if v != 15.3456 || n != 7 {
		Te.Errorf("got %v after %d bytes", v, n)
	}
}

func TestParseFloatBytesMalformed(Te *testing.T) {
	for _, s := range []string{"", "abc", "-", ".", "1e", "1e+", "e5"} {
		if _, _, err := ParseFloatBytes([]byte(s)); err == nil {
			Te.Errorf("ParseFloatBytes(%q) did not fail", s)
		} else if kind := kindOf(Te, err); kind != ErrMalformedNumber {
			Te.Errorf("ParseFloatBytes(%q): kind %s", s, kind)
		}
	}
	//trailing garbage inside a field
	if _, err := parseFloatField([]byte("1.2.3")); err == nil {
		Te.Error("parseFloatField accepted 1.2.3")
	}
}

//The fast path runs once per numeric field of every atom line and must not
//allocate.
func TestParseFloatBytesNoAlloc(Te *testing.T) {
	line := []byte("8.682300 9.947000 11.733000 0 2")
	allocs := testing.AllocsPerRun(200, func() {
		pos := 0
		for pos < len(line) {
			for pos < len(line) && line[pos] == ' ' {
				pos++
			}
			if pos == len(line) {
				break
			}
			_, n, err := ParseFloatBytes(line[pos:])
			if err != nil {
				Te.Fatal(err)
			}
			pos += n
		}
	})
	if allocs > 0 {
		Te.Errorf("fast path allocated: %f allocs/op", allocs)
	}
}
