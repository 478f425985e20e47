/*
 * builder.go, part of readcon-core.
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

//velocity state of a builder
const (
	velUnset = iota
	velWithout
	velWith
)

// FrameBuilder accumulates atoms from non-file sources and assembles a
// Frame, synthesizing the header metadata a written frame requires. Atoms
// may be added in any order; Build groups them by species preserving the
// order of first appearance (not sorted).
//
// A builder accepts either AddAtom or AddAtomVel calls, never both: a frame
// cannot mix atoms with and without velocities.
type FrameBuilder struct {
	cell    [3]float64
	angles  [3]float64
	prebox  [2]string
	postbox [2]string
	atoms   []Atom
	velmode int
	built   bool
}

// NewFrameBuilder returns a builder for a frame with the given box lengths
// and angles (degrees).
func NewFrameBuilder(cell, angles [3]float64) *FrameBuilder {
	return &FrameBuilder{cell: cell, angles: angles}
}

// PreBox sets the two free-text lines preceding the box geometry, e.g. a
// comment and a timestamp. It returns the builder for chaining.
func (B *FrameBuilder) PreBox(l0, l1 string) *FrameBuilder {
	B.prebox[0] = l0
	B.prebox[1] = l1
	return B
}

// PostBox sets the two metadata lines following the box geometry. It
// returns the builder for chaining.
func (B *FrameBuilder) PostBox(l0, l1 string) *FrameBuilder {
	B.postbox[0] = l0
	B.postbox[1] = l1
	return B
}

func (B *FrameBuilder) push(a Atom, mode int) error {
	if B.built {
		return newError(ErrBuilderConsumed, "builder already consumed by Build", "")
	}
	if B.velmode != velUnset && B.velmode != mode {
		return newError(ErrMixedVelocityState, "cannot mix atoms with and without velocities in one frame", "")
	}
	B.velmode = mode
	if a.Mass == 0 {
		a.Mass = MassFromSymbol(a.Symbol)
	}
	B.atoms = append(B.atoms, a)
	return nil
}

// AddAtom adds an atom without velocity data. A zero mass is replaced by
// the standard atomic mass for the symbol, if known. If atoms of one
// species are added with differing masses, the first one wins silently when
// the header is synthesized; masses are not re-validated.
func (B *FrameBuilder) AddAtom(symbol string, x, y, z float64, fixed bool, id uint64, mass float64) error {
	a := Atom{Symbol: symbol, X: x, Y: y, Z: z, IsFixed: fixed, ID: id, Mass: mass}
	return B.push(a, velWithout)
}

// AddAtomVel adds an atom with velocity data.
func (B *FrameBuilder) AddAtomVel(symbol string, x, y, z float64, fixed bool, id uint64, mass float64, vx, vy, vz float64) error {
	a := Atom{Symbol: symbol, X: x, Y: y, Z: z, IsFixed: fixed, ID: id, Mass: mass,
		Vx: vx, Vy: vy, Vz: vz, HasVel: true}
	return B.push(a, velWith)
}

// Build consumes the builder and assembles the Frame: atoms grouped into
// contiguous species runs in first-seen order, with per-species counts and
// representative masses (the first atom's) in the header. The builder
// cannot be reused afterwards. Build fails if no atoms were added.
func (B *FrameBuilder) Build() (*Frame, error) {
	if B.built {
		return nil, newError(ErrBuilderConsumed, "builder already consumed by Build", "")
	}
	if len(B.atoms) == 0 {
		return nil, newError(ErrEmptyFrame, "cannot build a frame with no atoms", "")
	}
	B.built = true
	order := make([]string, 0, 4)
	groups := make(map[string][]Atom)
	for _, a := range B.atoms {
		if _, ok := groups[a.Symbol]; !ok {
			order = append(order, a.Symbol)
		}
		groups[a.Symbol] = append(groups[a.Symbol], a)
	}
	H := &FrameHeader{
		PreBox:        B.prebox,
		Cell:          B.cell,
		Angles:        B.angles,
		PostBox:       B.postbox,
		NatmTypes:     len(order),
		NatmsPerType:  make([]int, len(order)),
		MassesPerType: make([]float64, len(order)),
	}
	atoms := make([]Atom, 0, len(B.atoms))
	for i, sym := range order {
		run := groups[sym]
		H.NatmsPerType[i] = len(run)
		H.MassesPerType[i] = run[0].Mass //first wins
		atoms = append(atoms, run...)
	}
	B.atoms = nil
	return &Frame{Header: H, Atoms: atoms}, nil
}
