// Package cmd provides command-line interface for CD image processing.
// This file contains the command extracting the files of a disc image.
package cmd

import (
	"fmt"

	"github.com/hansbonini/vcdtools/pkg"
	"github.com/spf13/cobra"
)

// extractCmd extracts the ISO9660 file system of a disc image.
// MPEG files are stored in Form 2 sectors and come out as their raw
// 2324 byte payloads.
var extractCmd = &cobra.Command{
	Use:   "extract [image|mrl] [output_directory]",
	Short: "Extract files from a disc image",
	Long: `Extract files from a VCD or SVCD image (.bin format).

This command reads the ISO9660 file system of the image and extracts all
of its files. Control files (INFO, ENTRIES, LOT, PSD) are Form 1 data;
MPEG tracks (MPEGAV, MPEG2) and segment play items (SEGMENT) are Form 2
and are written sector by sector. When verbose mode is enabled (-v), it
displays detailed information about each file including:
  - ID (4-digit hex)
  - MSF (Minutes:Seconds:Frames)
  - LBA (Logical Block Address)
  - Size in bytes
  - Path within the CD structure

Output:
  - Extracted files maintain the original directory structure

Example:
  vcdtools extract movie.bin ./output/
  vcdtools extract -v movie.bin ./output/`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		imagePath, err := resolveDevice(args[0])
		if err != nil {
			return err
		}
		outputDir := args[1]

		fmt.Printf("Processing disc image: %s\n", imagePath)
		fmt.Printf("Output directory: %s\n", outputDir)

		extractor := pkg.NewDiscExtractor(opts.CacheSectors)
		files, err := extractor.Extract(imagePath, outputDir)
		if err != nil {
			return fmt.Errorf("failed to extract disc image: %w", err)
		}

		form2 := 0
		for _, f := range files {
			if f.Form2 {
				form2++
			}
		}
		fmt.Printf("Extracted %d files (%d MPEG) to: %s\n", len(files), form2, outputDir)
		return nil
	},
}

// init registers the extract command
func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().AddFlagSet(sessionFlags)
}
