/*
 * doc.go, part of readcon-core.
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

/*Package con reads and writes the CON atomistic-simulation configuration
format and its velocity-augmented convel variant, as produced by eOn and
related simulation tools.

**Capabilities**

Lazily iterates over multi-frame .con/.convel trajectories backed by a
memory-mapped file, one frame per pull, without materializing the whole
file.

Detects velocity sections structurally, per frame. The .con/.convel file
extension is advisory only.

Builds frames programmatically, grouping atoms by species in first-seen
order, and writes one or more frames back out with a configurable
fixed-point precision.

Reads and writes zstd- and gzip-compressed trajectories, chosen by file
extension.

Splits a whole file into per-frame byte ranges from header metadata
alone and parses the frames on a worker pool, preserving file order.

Extracts coordinates and velocities as gonum matrices for analysis code.

The hot path (one coordinate line per atom per frame) parses numbers
directly from the mapped bytes without allocating; see ParseFloatBytes.
*/
package con
