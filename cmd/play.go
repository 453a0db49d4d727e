// Package cmd provides command-line interface for disc playback.
// This file contains the play command, which runs a playback session and
// writes the MPEG stream it produces.
package cmd

import (
	"fmt"

	"github.com/hansbonini/vcdtools/pkg"
	"github.com/hansbonini/vcdtools/pkg/common"
	"github.com/hansbonini/vcdtools/pkg/mrl"
	"github.com/hansbonini/vcdtools/pkg/vcdinfo"
	"github.com/hansbonini/vcdtools/pkg/vcdplayer"
	"github.com/spf13/cobra"
)

// playCmd plays an MRL into an MPEG file
var playCmd = &cobra.Command{
	Use:   "play [mrl] [output_file]",
	Short: "Play an MRL into an MPEG file",
	Long: `Play a track, entry, segment or playback control list and write the
MPEG sectors it produces to a file.

With playback control the session follows the disc's lists: play lists
run their items, selection lists loop until their timeout, and end lists
stop playback. Still pictures with a finite wait are skipped. At a still
that waits forever the session presses "next", or stops when
--stop-on-still is given.

Output:
  - MPEG program stream (2324 bytes per sector)
  - Title of every item played (with -v)

Example:
  vcdtools play vcd://movie.bin@P1 movie.mpg
  vcdtools play vcd://movie.bin@T2 track2.mpg
  vcdtools play --max-sectors 1000 --device movie.bin vcd://@E3 entry3.mpg`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		stopOnStill, err := cmd.Flags().GetBool("stop-on-still")
		if err != nil {
			return fmt.Errorf("error getting stop-on-still flag: %w", err)
		}
		maxSectors, err := cmd.Flags().GetInt64("max-sectors")
		if err != nil {
			return fmt.Errorf("error getting max-sectors flag: %w", err)
		}

		req, err := mrl.Parse(args[0], opts.Device, opts.AutoplayType())
		if err != nil {
			return err
		}
		disc, err := vcdinfo.Open(req.Device, opts.CacheSectors)
		if err != nil {
			return fmt.Errorf("failed to open disc: %w", err)
		}

		playerOpts := opts.PlayerOptions()
		playerOpts.Open = func(string) (vcdplayer.Disc, error) { return disc, nil }
		player := vcdplayer.New(playerOpts)
		if err := player.Open(req.Device); err != nil {
			disc.Close()
			return err
		}
		defer player.Close()

		item := req.PlayItem(disc)
		if err := player.Play(item); err != nil {
			return fmt.Errorf("failed to play %s: %w", item, err)
		}

		fmt.Printf("Playing: %s\n", player.Title())
		common.LogDebug("%s", player.Comment())
		fmt.Printf("Output file: %s\n", args[1])

		ripper := pkg.NewStreamRipper(pkg.RipOptions{StopOnStill: stopOnStill, MaxSectors: maxSectors})
		stats, err := ripper.RipToFile(player, args[1])
		if err != nil {
			return fmt.Errorf("failed to play %s: %w", args[0], err)
		}

		list := mrl.Build(disc, req.Device, true)
		common.LogDebugf(common.DbgExt, "stopped at %s", list.CurrentMRL(player))

		fmt.Printf("Wrote %d sectors (%d bytes), %d stills, %d skipped, %d commands\n",
			stats.Sectors, stats.Bytes, stats.Stills, stats.Skipped, stats.Commands)
		fmt.Printf("Stopped on: %s\n", stats.Status)
		return nil
	},
}

// init registers the play command
func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().Bool("stop-on-still", false, "Stop at a still that waits forever instead of pressing next")
	playCmd.Flags().Int64("max-sectors", 0, "Stop after this many sectors (0 means no limit)")
	playCmd.Flags().AddFlagSet(sessionFlags)
}
