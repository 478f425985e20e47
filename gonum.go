/*
 * gonum.go, part of readcon-core.
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
	"math"

	"gonum.org/v1/gonum/mat"
)

//Bridges to gonum for analysis code.

// Coords returns the atom coordinates as a new Nx3 dense matrix, one row
// per atom, in frame order. A parseable frame may declare zero atoms for
// all its species; such a frame has no matrix representation, so an error
// is returned rather than a zero-dimension matrix.
func (F *Frame) Coords() (*mat.Dense, error) {
	if F.Len() == 0 {
		return nil, newError(ErrEmptyFrame, "frame has no atoms", "")
	}
	data := make([]float64, 0, 3*F.Len())
	for _, a := range F.Atoms {
		data = append(data, a.X, a.Y, a.Z)
	}
	return mat.NewDense(F.Len(), 3, data), nil
}

// Velocities returns the atom velocities as a new Nx3 dense matrix, or an
// error if the frame carries no velocity data.
func (F *Frame) Velocities() (*mat.Dense, error) {
	if !F.HasVelocities() {
		return nil, newError(ErrMixedVelocityState, "frame has no velocity data", "")
	}
	data := make([]float64, 0, 3*F.Len())
	for _, a := range F.Atoms {
		data = append(data, a.Vx, a.Vy, a.Vz)
	}
	return mat.NewDense(F.Len(), 3, data), nil
}

// CellVolume returns the volume of the periodic box in cubic Angstroms,
// from the box lengths and angles.
func (F *Frame) CellVolume() float64 {
	a, b, c := F.Header.Cell[0], F.Header.Cell[1], F.Header.Cell[2]
	torad := math.Pi / 180.0
	cosal := math.Cos(F.Header.Angles[0] * torad)
	cosbe := math.Cos(F.Header.Angles[1] * torad)
	cosga := math.Cos(F.Header.Angles[2] * torad)
	//triclinic volume formula; reduces to a*b*c for orthogonal boxes
	s := 1 - cosal*cosal - cosbe*cosbe - cosga*cosga + 2*cosal*cosbe*cosga
	if s < 0 {
		s = 0
	}
	return a * b * c * math.Sqrt(s)
}
