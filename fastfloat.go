/*
 * fastfloat.go, part of readcon-core.
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
	"strconv"
	"unsafe"
)

//Exact powers of ten in float64. 10^22 is the largest one.
var pow10tab = [...]float64{
	1e0, 1e1, 1e2, 1e3, 1e4, 1e5, 1e6, 1e7, 1e8, 1e9, 1e10, 1e11,
	1e12, 1e13, 1e14, 1e15, 1e16, 1e17, 1e18, 1e19, 1e20, 1e21, 1e22,
}

//bytes2str reinterprets b as a string without copying. The result must not
//outlive b, which holds on the hot path (the string only feeds
//strconv.ParseFloat).
func bytes2str(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}

// ParseFloatBytes parses a fixed- or scientific-notation real number from
// the start of b, returning the value and the number of bytes consumed.
// Parsing stops at the first byte that cannot extend the number; the caller
// is expected to have a whitespace delimiter there.
//
// Decimal-to-binary rounding is round-to-nearest-even, exactly as
// strconv.ParseFloat. Mantissas that fit an uint64 with a decimal exponent
// within +-22 take an exact float64 path with no allocation; everything
// else falls back to strconv, which is always correctly rounded. This runs
// once per numeric field of every atom line, so it must not allocate.
func ParseFloatBytes(b []byte) (float64, int, error) {
	i := 0
	neg := false
	if i < len(b) && (b[i] == '+' || b[i] == '-') {
		neg = b[i] == '-'
		i++
	}
	var mant uint64
	nd := 0        //significant digits accumulated into mant
	truncated := false
	dotpos := -1
	digits := 0
	for ; i < len(b); i++ {
		c := b[i]
		if c >= '0' && c <= '9' {
			digits++
			if nd < 19 {
				mant = mant*10 + uint64(c-'0')
				if mant > 0 || c != '0' {
					nd++
				}
			} else {
				truncated = true
			}
			continue
		}
		if c == '.' && dotpos < 0 {
			dotpos = digits
			continue
		}
		break
	}
	if digits == 0 {
		return 0, 0, newError(ErrMalformedNumber, "no numeric prefix in "+strconv.Quote(string(firstBytes(b))), "")
	}
	//digits to the right of the point shift the exponent. When more than 19
	//digits are present mant is truncated, which disables the fast path, and
	//the slow path re-reads the original bytes, so no bookkeeping is needed.
	exp10 := 0
	if dotpos >= 0 {
		exp10 = -(digits - dotpos)
	}
	if i < len(b) && (b[i] == 'e' || b[i] == 'E') {
		j := i + 1
		eneg := false
		if j < len(b) && (b[j] == '+' || b[j] == '-') {
			eneg = b[j] == '-'
			j++
		}
		ev := 0
		ed := 0
		for ; j < len(b); j++ {
			c := b[j]
			if c < '0' || c > '9' {
				break
			}
			if ev < 10000 {
				ev = ev*10 + int(c-'0')
			}
			ed++
		}
		if ed == 0 {
			return 0, 0, newError(ErrMalformedNumber, "dangling exponent in "+strconv.Quote(string(firstBytes(b))), "")
		}
		if eneg {
			ev = -ev
		}
		exp10 += ev
		i = j
	}
	if !truncated && mant < 1<<53 && exp10 >= -22 && exp10 <= 22 {
		f := float64(mant)
		if exp10 < 0 {
			f /= pow10tab[-exp10]
		} else if exp10 > 0 {
			f *= pow10tab[exp10]
		}
		if neg {
			f = -f
		}
		return f, i, nil
	}
	//Slow, always-correct path. strconv implements Eisel-Lemire with an
	//arbitrary-precision fallback, so rounding is exact.
	f, err := strconv.ParseFloat(bytes2str(b[:i]), 64)
	if err != nil {
		return 0, 0, newError(ErrMalformedNumber, err.Error(), "")
	}
	return f, i, nil
}

//firstBytes truncates b for error messages.
func firstBytes(b []byte) []byte {
	if len(b) > 16 {
		return b[:16]
	}
	return b
}

//parseFloatField parses a whole whitespace-delimited field as a float64.
//Trailing garbage inside the field is an error.
func parseFloatField(field []byte) (float64, error) {
	f, n, err := ParseFloatBytes(field)
	if err != nil {
		return 0, err
	}
	if n != len(field) {
		return 0, newError(ErrMalformedNumber, "trailing characters in numeric field "+strconv.Quote(string(firstBytes(field))), "")
	}
	return f, nil
}
