package cmd

import (
	"fmt"

	"github.com/hansbonini/vcdtools/pkg/mrl"
	"github.com/spf13/cobra"
)

// listCmd prints the MRL of every playable item
var listCmd = &cobra.Command{
	Use:   "list [image|mrl]",
	Short: "List the MRLs of a disc",
	Long: `List the MRL of every track, entry, playback control list and
segment of a disc, in that order.

MRLs have the form vcd://<device>@<type><number> where the type is
T (track), E (entry), P (playback control list) or S (segment, s for
NTSC segments). Rejected lists are only listed with --show-rejected
and end in '*'.

With --autoplay only the MRLs of the configured autoplay type are
printed; discs without playback control list their entries instead of
their lists.

Example:
  vcdtools list movie.bin
  vcdtools list --autoplay --autoplay-type track movie.bin`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		autoplay, err := cmd.Flags().GetBool("autoplay")
		if err != nil {
			return fmt.Errorf("error getting autoplay flag: %w", err)
		}

		disc, device, err := openDisc(args[0])
		if err != nil {
			return err
		}
		defer disc.Close()

		list := mrl.Build(disc, device, opts.ShowRejected)
		if autoplay {
			for _, m := range list.Autoplay(opts.AutoplayType()) {
				fmt.Println(m)
			}
			return nil
		}

		for _, e := range list.Entries {
			if e.Size > 0 {
				fmt.Printf("%-40s %12d bytes\n", e.MRL, e.Size)
			} else {
				fmt.Println(e.MRL)
			}
		}
		return nil
	},
}

// init registers the list command
func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().Bool("autoplay", false, "Print the autoplay list only")
	listCmd.Flags().AddFlagSet(sessionFlags)
}
