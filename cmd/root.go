// Package cmd provides command-line interface functionality for VcdTools.
// VcdTools inspects Video CD and Super Video CD images and plays them
// through their playback control graph.
package cmd

import (
	"fmt"
	"os"

	"github.com/hansbonini/vcdtools/pkg/common"
	"github.com/hansbonini/vcdtools/pkg/config"
	"github.com/spf13/cobra"
)

// opts is the effective configuration: defaults, then the config file,
// then command line flags
var opts = config.Default()

// rootCmd represents the base command when called without any subcommands.
// It provides the main entry point for the VcdTools application.
var rootCmd = &cobra.Command{
	Use:   "vcdtools",
	Short: "Tools for Video CD and Super Video CD images",
	Long: `VcdTools - A collection of utilities for inspecting and playing
Video CD (VCD 1.0, 1.1, 2.0) and Super Video CD disc images.

Currently supports:
  - Disc summaries (tracks, entries, segments, playback control)
  - MRL lists in the vcd://device@<type><number> form
  - Playback control dumps (play lists, selection lists, end lists)
  - Playback into an MPEG file, following the playback control graph
  - Extraction of the ISO9660 file system, MPEG files included

Examples:
  vcdtools info movie.bin
  vcdtools list movie.bin
  vcdtools pbc movie.bin
  vcdtools play vcd://movie.bin@P1 movie.mpg
  vcdtools play -v --stop-on-still vcd://movie.bin@E0 chapter.mpg
  vcdtools extract movie.bin ./output/

Use 'vcdtools [command] --help' for more information about a command.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configFile, err := cmd.Flags().GetString("config")
		if err != nil {
			return fmt.Errorf("error getting config flag: %w", err)
		}
		verbose, err := cmd.Flags().GetBool("verbose")
		if err != nil {
			return fmt.Errorf("error getting verbose flag: %w", err)
		}

		loaded, err := config.Load(configFile)
		if err != nil {
			return err
		}
		opts = loaded

		if cmd.Flags().Changed("debug-mask") {
			if opts.DebugMask, err = cmd.Flags().GetUint32("debug-mask"); err != nil {
				return fmt.Errorf("error getting debug-mask flag: %w", err)
			}
		}
		common.SetVerboseMode(verbose)
		common.SetDebugMask(opts.DebugMask)

		return applySessionFlags(&opts)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main() and serves as the entry point for command execution.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// init registers the global flags
func init() {
	rootCmd.PersistentFlags().String("config", "", "YAML configuration file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().Uint32("debug-mask", 0, "Debug categories to print in verbose mode (0 prints all)")
}
