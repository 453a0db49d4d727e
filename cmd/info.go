// Package cmd provides command-line interface for disc inspection.
// This file contains the info and pbc commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/hansbonini/vcdtools/pkg"
	"github.com/spf13/cobra"
)

// infoCmd prints the catalog of a disc image
var infoCmd = &cobra.Command{
	Use:   "info [image|mrl]",
	Short: "Show the tracks, entries and segments of a disc",
	Long: `Show the catalog of a VCD or SVCD image.

The report lists:
  - Disc format, album and volume identifiers
  - MPEG tracks with their LSN, MSF and length
  - Entry points and the track they belong to
  - Segment play items and their video type
  - The number of playback control lists

Example:
  vcdtools info movie.bin
  vcdtools info --yaml movie.bin > movie.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asYAML, err := cmd.Flags().GetBool("yaml")
		if err != nil {
			return fmt.Errorf("error getting yaml flag: %w", err)
		}

		disc, _, err := openDisc(args[0])
		if err != nil {
			return err
		}
		defer disc.Close()

		exporter := pkg.NewDiscExporter()
		report := exporter.BuildReport(disc)
		if asYAML {
			return exporter.ExportYAML(report, os.Stdout)
		}
		return exporter.ExportReport(report, os.Stdout)
	},
}

// pbcCmd prints the playback control graph
var pbcCmd = &cobra.Command{
	Use:   "pbc [image|mrl]",
	Short: "Dump the playback control lists of a disc",
	Long: `Dump every LID of the playback control database.

Each list shows its type, the LIDs its previous, next, return, default
and timeout edges lead to, its wait time and its items or selections.
Rejected lists are marked.

Example:
  vcdtools pbc movie.bin
  vcdtools pbc --yaml movie.bin`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asYAML, err := cmd.Flags().GetBool("yaml")
		if err != nil {
			return fmt.Errorf("error getting yaml flag: %w", err)
		}

		disc, device, err := openDisc(args[0])
		if err != nil {
			return err
		}
		defer disc.Close()

		if !disc.HasPBC() {
			fmt.Printf("%s has no playback control\n", device)
			return nil
		}

		exporter := pkg.NewDiscExporter()
		lists := exporter.BuildPBCReport(disc)
		if asYAML {
			return exporter.ExportYAML(lists, os.Stdout)
		}
		return exporter.ExportPBC(lists, os.Stdout)
	},
}

// init registers the inspection commands
func init() {
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(pbcCmd)

	infoCmd.Flags().Bool("yaml", false, "Write the report as YAML")
	pbcCmd.Flags().Bool("yaml", false, "Write the lists as YAML")

	infoCmd.Flags().AddFlagSet(sessionFlags)
	pbcCmd.Flags().AddFlagSet(sessionFlags)
}
