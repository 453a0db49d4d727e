package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// configCmd prints the effective configuration as YAML, ready to be saved
// and passed back with --config
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration after applying the config file and the command
line flags, as YAML.

Example:
  vcdtools config > vcdtools.yaml
  vcdtools config --config vcdtools.yaml --autoplay-type track`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := opts.Marshal()
		if err != nil {
			return fmt.Errorf("failed to encode configuration: %w", err)
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}

// init registers the config command
func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().AddFlagSet(sessionFlags)
}
