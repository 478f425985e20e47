/*
 * main.go, part of readcon-core.
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

//conutil inspects and rewrites CON/convel trajectory files.
package main

import (
	"fmt"
	"os"

	con "github.com/HaoZeke/readcon-core"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "conutil",
	Short: "Inspect and rewrite CON/convel trajectory files",
	Long: `conutil reads CON and convel atomistic-simulation trajectories
(plain, zstd- or gzip-compressed) and prints per-frame summaries,
concatenates trajectories or rewrites them with a different precision or
compression. Velocity sections are detected structurally, not from the
file extension.`,
	SilenceUsage: true,
}

var infoCmd = &cobra.Command{
	Use:   "info FILE",
	Short: "Print a per-frame summary of a trajectory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		it, err := con.New(args[0])
		if err != nil {
			return err
		}
		defer it.Close()
		i := 0
		for ; ; i++ {
			F, err := it.Next()
			if err != nil {
				if _, ok := err.(con.LastFrameError); ok {
					break
				}
				return err //first error verbatim, with path and frame index
			}
			vel := ""
			if F.HasVelocities() {
				vel = " +velocities"
			}
			fmt.Printf("frame %d: %d atoms, species %v, cell %.4f %.4f %.4f%s\n",
				i, F.Len(), F.Species(), F.Header.Cell[0], F.Header.Cell[1], F.Header.Cell[2], vel)
		}
		fmt.Printf("%s: %d frames\n", args[0], i)
		return nil
	},
}

var (
	convertPrec    int
	convertWorkers int
)

var convertCmd = &cobra.Command{
	Use:   "convert IN OUT",
	Short: "Rewrite a trajectory, changing precision and/or compression",
	Long: `convert re-serializes every frame of IN into OUT. The numeric
precision of OUT is set by --precision; its compression follows the OUT
extension (.zst/.zstd, .gz, or plain). With --workers > 1 the input frames
are parsed concurrently; the output order is the input order either way.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var frames []*con.Frame
		var err error
		if convertWorkers > 1 {
			frames, err = con.ReadAllConc(args[0], convertWorkers)
		} else {
			frames, err = con.ReadAll(args[0])
		}
		if err != nil {
			return err
		}
		W, err := con.NewWriter(args[1], convertPrec)
		if err != nil {
			return err
		}
		if err := W.Extend(frames...); err != nil {
			W.Close()
			return err
		}
		if err := W.Close(); err != nil {
			return err
		}
		fmt.Printf("wrote %d frames to %s\n", len(frames), args[1])
		return nil
	},
}

var catCmd = &cobra.Command{
	Use:   "cat FILE...",
	Short: "Concatenate trajectories to standard output",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		W := con.NewWriterTo(os.Stdout, convertPrec)
		defer W.Close()
		for _, name := range args {
			frames, err := con.ReadAll(name)
			if err != nil {
				return err
			}
			if err := W.Extend(frames...); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	convertCmd.Flags().IntVarP(&convertPrec, "precision", "p", con.DefaultPrecision, "decimal digits for numeric fields")
	convertCmd.Flags().IntVarP(&convertWorkers, "workers", "w", 1, "parse input frames on this many workers")
	catCmd.Flags().IntVarP(&convertPrec, "precision", "p", con.DefaultPrecision, "decimal digits for numeric fields")
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(catCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
