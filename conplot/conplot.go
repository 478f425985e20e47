/*
 * conplot.go, part of readcon-core.
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

//Package conplot draws simple per-frame series from a CON trajectory,
//such as the cell volume or the mean atomic speed along the frames.
package conplot

import (
	"fmt"
	"math"

	con "github.com/HaoZeke/readcon-core"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// CellVolumes returns the periodic box volume of each frame, in cubic
// Angstroms.
func CellVolumes(frames []*con.Frame) []float64 {
	ret := make([]float64, len(frames))
	for i, F := range frames {
		ret[i] = F.CellVolume()
	}
	return ret
}

// MeanSpeeds returns the mean velocity magnitude of each frame's atoms.
// Frames without velocity data get a zero entry.
func MeanSpeeds(frames []*con.Frame) []float64 {
	ret := make([]float64, len(frames))
	for i, F := range frames {
		if !F.HasVelocities() || F.Len() == 0 {
			continue
		}
		speeds := make([]float64, F.Len())
		for j, a := range F.Atoms {
			speeds[j] = math.Sqrt(a.Vx*a.Vx + a.Vy*a.Vy + a.Vz*a.Vz)
		}
		ret[i] = floats.Sum(speeds) / float64(F.Len())
	}
	return ret
}

//basicPlot sets up the common frame-series axes.
func basicPlot(title, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = "Frame"
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())
	return p
}

// Series plots ys against the frame index as a line and saves the result
// as a PNG to plotname (".png" is appended).
func Series(ys []float64, title, ylabel, plotname string) error {
	if ys == nil {
		return fmt.Errorf("conplot: given nil data")
	}
	p := basicPlot(title, ylabel)
	pts := make(plotter.XYs, len(ys))
	for i, v := range ys {
		pts[i].X = float64(i)
		pts[i].Y = v
	}
	l, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	p.Add(l)
	filename := fmt.Sprintf("%s.png", plotname)
	if err := p.Save(12*vg.Centimeter, 8*vg.Centimeter, filename); err != nil {
		return err
	}
	return nil
}
