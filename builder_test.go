/*
 * builder_test.go, part of readcon-core.
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
	"fmt"
	"testing"
)

func TestBuilderGrouping(Te *testing.T) {
	fmt.Println("CON builder test!")
	B := NewFrameBuilder([3]float64{15.3456, 21.702, 100}, [3]float64{90, 90, 90}).
		PreBox("Random Number Seed", "Time").
		PostBox("0 0", "218 0 1")
	//interleaved on purpose; Build must group by species in first-seen order
	B.AddAtom("Cu", 0.6394, 0.9045, 6.9753, true, 0, 63.546)
	B.AddAtom("H", 8.6823, 9.947, 11.733, false, 2, 1.008)
	B.AddAtom("Cu", 3.197, 0.9045, 6.9753, true, 1, 63.546)
	F, err := B.Build()
	if err != nil {
		Te.Fatal(err)
	}
	if F.Header.NatmTypes != 2 {
		Te.Fatalf("expected 2 species, got %d", F.Header.NatmTypes)
	}
	if F.Header.NatmsPerType[0] != 2 || F.Header.NatmsPerType[1] != 1 {
		Te.Errorf("wrong counts: %v", F.Header.NatmsPerType)
	}
	got := F.Species()
	if got[0] != "Cu" || got[1] != "H" {
		Te.Errorf("species not in first-seen order: %v", got)
	}
	if F.Atoms[0].Symbol != "Cu" || F.Atoms[1].Symbol != "Cu" || F.Atoms[2].Symbol != "H" {
		Te.Error("atoms not regrouped into contiguous runs")
	}
	if F.Atoms[1].ID != 1 {
		Te.Error("in-species order not preserved")
	}
}

func TestBuilderEmptyFrame(Te *testing.T) {
	B := NewFrameBuilder([3]float64{10, 10, 10}, [3]float64{90, 90, 90})
	_, err := B.Build()
	if kind := kindOf(Te, err); kind != ErrEmptyFrame {
		Te.Errorf("want %s, got %s (%v)", ErrEmptyFrame, kind, err)
	}
}

func TestBuilderMixedVelocity(Te *testing.T) {
	B := NewFrameBuilder([3]float64{10, 10, 10}, [3]float64{90, 90, 90})
	if err := B.AddAtom("Cu", 1, 2, 3, false, 0, 63.546); err != nil {
		Te.Fatal(err)
	}
	err := B.AddAtomVel("H", 4, 5, 6, false, 1, 1.008, 0.1, 0.2, 0.3)
	if kind := kindOf(Te, err); kind != ErrMixedVelocityState {
		Te.Errorf("want %s, got %s (%v)", ErrMixedVelocityState, kind, err)
	}
	//and the other way around
	B2 := NewFrameBuilder([3]float64{10, 10, 10}, [3]float64{90, 90, 90})
	if err := B2.AddAtomVel("Cu", 1, 2, 3, false, 0, 63.546, 0.1, 0.2, 0.3); err != nil {
		Te.Fatal(err)
	}
	err = B2.AddAtom("H", 4, 5, 6, false, 1, 1.008)
	if kind := kindOf(Te, err); kind != ErrMixedVelocityState {
		Te.Errorf("want %s, got %s (%v)", ErrMixedVelocityState, kind, err)
	}
}

func TestBuilderConsumed(Te *testing.T) {
	B := NewFrameBuilder([3]float64{10, 10, 10}, [3]float64{90, 90, 90})
	B.AddAtom("Cu", 1, 2, 3, false, 0, 63.546)
	if _, err := B.Build(); err != nil {
		Te.Fatal(err)
	}
	if err := B.AddAtom("Cu", 1, 2, 3, false, 1, 63.546); err == nil {
		Te.Error("consumed builder accepted an atom")
	}
	if _, err := B.Build(); err == nil {
		Te.Error("consumed builder built again")
	}
}

func TestBuilderFirstMassWins(Te *testing.T) {
	B := NewFrameBuilder([3]float64{10, 10, 10}, [3]float64{90, 90, 90})
	B.AddAtom("Cu", 1, 2, 3, false, 0, 63.5)
	B.AddAtom("Cu", 4, 5, 6, false, 1, 64.0) //silently ignored for the header
	F, err := B.Build()
	if err != nil {
		Te.Fatal(err)
	}
	if F.Header.MassesPerType[0] != 63.5 {
		Te.Errorf("expected the first atom's mass, got %v", F.Header.MassesPerType[0])
	}
}

func TestBuilderDefaultMass(Te *testing.T) {
	B := NewFrameBuilder([3]float64{10, 10, 10}, [3]float64{90, 90, 90})
	B.AddAtom("Cu", 1, 2, 3, false, 0, 0) //zero mass falls back to the table
	F, err := B.Build()
	if err != nil {
		Te.Fatal(err)
	}
	if F.Header.MassesPerType[0] != 63.546 {
		Te.Errorf("expected the tabulated Cu mass, got %v", F.Header.MassesPerType[0])
	}
}
