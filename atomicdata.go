/*
 * atomicdata.go, part of readcon-core.
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

//A map for assigning atomic numbers to symbols.
//Covers H through Rn; beyond that a CON file is unlikely.
var symbolZ = map[string]uint64{
	"H": 1, "He": 2, "Li": 3, "Be": 4, "B": 5, "C": 6, "N": 7, "O": 8,
	"F": 9, "Ne": 10, "Na": 11, "Mg": 12, "Al": 13, "Si": 14, "P": 15,
	"S": 16, "Cl": 17, "Ar": 18, "K": 19, "Ca": 20, "Sc": 21, "Ti": 22,
	"V": 23, "Cr": 24, "Mn": 25, "Fe": 26, "Co": 27, "Ni": 28, "Cu": 29,
	"Zn": 30, "Ga": 31, "Ge": 32, "As": 33, "Se": 34, "Br": 35, "Kr": 36,
	"Rb": 37, "Sr": 38, "Y": 39, "Zr": 40, "Nb": 41, "Mo": 42, "Tc": 43,
	"Ru": 44, "Rh": 45, "Pd": 46, "Ag": 47, "Cd": 48, "In": 49, "Sn": 50,
	"Sb": 51, "Te": 52, "I": 53, "Xe": 54, "Cs": 55, "Ba": 56, "La": 57,
	"Ce": 58, "Pr": 59, "Nd": 60, "Pm": 61, "Sm": 62, "Eu": 63, "Gd": 64,
	"Tb": 65, "Dy": 66, "Ho": 67, "Er": 68, "Tm": 69, "Yb": 70, "Lu": 71,
	"Hf": 72, "Ta": 73, "W": 74, "Re": 75, "Os": 76, "Ir": 77, "Pt": 78,
	"Au": 79, "Hg": 80, "Tl": 81, "Pb": 82, "Bi": 83, "Po": 84, "At": 85,
	"Rn": 86,
}

//A map for assigning mass to elements, used when the builder is handed a
//zero mass. Note that just common simulation elements are present.
var symbolMass = map[string]float64{
	"H":  1.008,
	"C":  12.011,
	"O":  15.999,
	"N":  14.007,
	"P":  30.974,
	"S":  32.06,
	"Se": 78.96,
	"K":  39.098,
	"Ca": 40.078,
	"Mg": 24.305,
	"Cl": 35.45,
	"Na": 22.99,
	"Cu": 63.546,
	"Zn": 65.38,
	"Co": 58.933,
	"Fe": 55.845,
	"Mn": 54.938,
	"Cr": 51.996,
	"Ni": 58.693,
	"Si": 28.085,
	"Al": 26.982,
	"Au": 196.97,
	"Ag": 107.87,
	"Pt": 195.08,
	"Pd": 106.42,
	"Ti": 47.867,
	"W":  183.84,
	"F":  18.998,
	"Br": 79.904,
	"I":  126.90,
}

// AtomicNumber returns the atomic number for a chemical symbol, or 0 if the
// symbol is not recognized.
func AtomicNumber(symbol string) uint64 {
	return symbolZ[symbol]
}

// MassFromSymbol returns a standard atomic mass for a chemical symbol, or 0
// if the symbol is not in the table.
func MassFromSymbol(symbol string) float64 {
	return symbolMass[symbol]
}
