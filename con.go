/*
 * con.go, part of readcon-core.
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

import "math"

// Atom is the data for a single atom in a frame.
type Atom struct {
	Symbol  string  //chemical symbol, e.g. "Cu", "H"
	X       float64 //Cartesian coordinates, Angstroms
	Y       float64
	Z       float64
	IsFixed bool    //constraint flag from the simulation
	ID      uint64  //original file ordering index, not necessarily contiguous
	Mass    float64 //per-species representative mass from the header
	Vx      float64 //velocity components, only meaningful if HasVel
	Vy      float64
	Vz      float64
	HasVel  bool
}

// FrameHeader holds all metadata from the 9 fixed-role header lines of a
// frame: 2 prebox comment lines, box lengths, box angles (degrees), 2
// postbox metadata lines, then the species count, per-species atom counts
// and per-species masses.
type FrameHeader struct {
	PreBox        [2]string
	Cell          [3]float64
	Angles        [3]float64
	PostBox       [2]string
	NatmTypes     int
	NatmsPerType  []int
	MassesPerType []float64
}

// TotalAtoms returns the sum of the declared per-species atom counts.
func (H *FrameHeader) TotalAtoms() int {
	tot := 0
	for _, v := range H.NatmsPerType {
		tot += v
	}
	return tot
}

// Frame is one complete trajectory snapshot: header metadata plus the atoms,
// grouped contiguously by species in file-encounter order. A Frame is
// immutable once produced; mutation requires rebuilding through a
// FrameBuilder.
type Frame struct {
	Header *FrameHeader
	Atoms  []Atom
}

// Len returns the number of atoms in the frame.
func (F *Frame) Len() int {
	return len(F.Atoms)
}

// HasVelocities returns true if the atoms of this frame carry velocity data.
// Velocity presence is homogeneous within a frame.
func (F *Frame) HasVelocities() bool {
	if len(F.Atoms) == 0 {
		return false
	}
	return F.Atoms[0].HasVel
}

// Species returns the distinct chemical symbols of the frame in
// first-appearance order, one per species run.
func (F *Frame) Species() []string {
	ret := make([]string, 0, F.Header.NatmTypes)
	prev := ""
	for _, a := range F.Atoms {
		if a.Symbol != prev {
			ret = append(ret, a.Symbol)
			prev = a.Symbol
		}
	}
	return ret
}

// Masses returns a slice with the mass of every atom, expanded from the
// per-species header masses in declared order.
func (F *Frame) Masses() ([]float64, error) {
	if F.Header.NatmTypes != len(F.Header.MassesPerType) || F.Header.NatmTypes != len(F.Header.NatmsPerType) {
		return nil, newError(ErrMalformedHeader, "species metadata lengths disagree", "")
	}
	ret := make([]float64, 0, F.Len())
	for i, n := range F.Header.NatmsPerType {
		for j := 0; j < n; j++ {
			ret = append(ret, F.Header.MassesPerType[i])
		}
	}
	return ret, nil
}

// Eq returns true if the two frames have identical headers and atoms, with
// numeric fields compared to within tol (absolute). Use tol 0 for exact
// comparison.
func (F *Frame) Eq(G *Frame, tol float64) bool {
	if G == nil || F.Len() != G.Len() || F.Header.NatmTypes != G.Header.NatmTypes {
		return false
	}
	if F.Header.PreBox != G.Header.PreBox || F.Header.PostBox != G.Header.PostBox {
		return false
	}
	feq := func(a, b float64) bool { return math.Abs(a-b) <= tol }
	for i := 0; i < 3; i++ {
		if !feq(F.Header.Cell[i], G.Header.Cell[i]) || !feq(F.Header.Angles[i], G.Header.Angles[i]) {
			return false
		}
	}
	for i := range F.Header.NatmsPerType {
		if F.Header.NatmsPerType[i] != G.Header.NatmsPerType[i] || !feq(F.Header.MassesPerType[i], G.Header.MassesPerType[i]) {
			return false
		}
	}
	for i := range F.Atoms {
		a, b := &F.Atoms[i], &G.Atoms[i]
		if a.Symbol != b.Symbol || a.IsFixed != b.IsFixed || a.ID != b.ID || a.HasVel != b.HasVel {
			return false
		}
		if !feq(a.X, b.X) || !feq(a.Y, b.Y) || !feq(a.Z, b.Z) {
			return false
		}
		if a.HasVel && (!feq(a.Vx, b.Vx) || !feq(a.Vy, b.Vy) || !feq(a.Vz, b.Vz)) {
			return false
		}
	}
	return true
}

// FlatAtom is the boundary representation of one atom, with the symbol
// resolved to an atomic number and the per-species mass expanded in.
type FlatAtom struct {
	AtomicNumber uint64
	X            float64
	Y            float64
	Z            float64
	ID           uint64
	Mass         float64
	IsFixed      bool
	Vx           float64
	Vy           float64
	Vz           float64
	HasVel       bool
}

// FlatFrame is the lossy, flattened view of a Frame used at collaborator
// boundaries (foreign bindings, wire handlers). It drops the free-text
// header lines and species grouping; the Frame itself stays the single
// canonical representation.
type FlatFrame struct {
	Atoms         []FlatAtom
	Cell          [3]float64
	Angles        [3]float64
	HasVelocities bool
}

// Flatten extracts a FlatFrame from the frame. The result is an independent
// copy; the Frame is not retained.
func (F *Frame) Flatten() (*FlatFrame, error) {
	masses, err := F.Masses()
	if err != nil {
		return nil, errDecorate(err, "Flatten")
	}
	ret := &FlatFrame{
		Atoms:         make([]FlatAtom, F.Len()),
		Cell:          F.Header.Cell,
		Angles:        F.Header.Angles,
		HasVelocities: F.HasVelocities(),
	}
	for i, a := range F.Atoms {
		ret.Atoms[i] = FlatAtom{
			AtomicNumber: AtomicNumber(a.Symbol),
			X:            a.X,
			Y:            a.Y,
			Z:            a.Z,
			ID:           a.ID,
			Mass:         masses[i],
			IsFixed:      a.IsFixed,
			Vx:           a.Vx,
			Vy:           a.Vy,
			Vz:           a.Vz,
			HasVel:       a.HasVel,
		}
	}
	return ret, nil
}
