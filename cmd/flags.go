package cmd

import (
	"fmt"
	"strings"

	"github.com/hansbonini/vcdtools/pkg/config"
	"github.com/hansbonini/vcdtools/pkg/mrl"
	"github.com/hansbonini/vcdtools/pkg/vcdinfo"
	"github.com/spf13/pflag"
)

// sessionFlags override the configuration file for the commands that
// open a disc. Only flags given on the command line are applied.
var sessionFlags = newSessionFlags()

func newSessionFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("session", pflag.ContinueOnError)
	fs.String("device", "", "Disc image used by MRLs without a device")
	fs.String("autoplay-type", "", "Item type of MRLs without a type letter: track, entry, segment or pbc")
	fs.Bool("autoadvance", true, "Continue with the next item at the end of a track or entry")
	fs.Bool("wrap", false, "Wrap next/previous at the first and last item")
	fs.Bool("show-rejected", false, "List LIDs rejected by the disc")
	fs.String("slider", "", "What the slider measures for entries: auto, track or entry")
	fs.Int64("seed", 0, "Seed of the random selection (0 seeds from the clock)")
	fs.Int("cache-sectors", 0, "Sectors kept in the read cache")
	return fs
}

// applySessionFlags copies the flags set on the command line into o
func applySessionFlags(o *config.Options) error {
	fs := sessionFlags

	if fs.Changed("device") {
		o.Device, _ = fs.GetString("device")
	}
	if fs.Changed("autoplay-type") {
		o.Autoplay, _ = fs.GetString("autoplay-type")
	}
	if fs.Changed("autoadvance") {
		o.AutoAdvance, _ = fs.GetBool("autoadvance")
	}
	if fs.Changed("wrap") {
		o.WrapNextPrev, _ = fs.GetBool("wrap")
	}
	if fs.Changed("show-rejected") {
		o.ShowRejected, _ = fs.GetBool("show-rejected")
	}
	if fs.Changed("slider") {
		o.SliderLength, _ = fs.GetString("slider")
	}
	if fs.Changed("seed") {
		o.RandomSeed, _ = fs.GetInt64("seed")
	}
	if fs.Changed("cache-sectors") {
		o.CacheSectors, _ = fs.GetInt("cache-sectors")
	}

	if err := o.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}

// resolveDevice accepts an image path or an MRL and returns the image path
func resolveDevice(arg string) (string, error) {
	if !strings.HasPrefix(strings.ToLower(arg), mrl.Prefix) {
		return arg, nil
	}
	req, err := mrl.Parse(arg, opts.Device, vcdinfo.ItemLID)
	if err != nil {
		return "", err
	}
	return req.Device, nil
}

// openDisc opens the image named by arg with the configured cache size
func openDisc(arg string) (*vcdinfo.Disc, string, error) {
	device, err := resolveDevice(arg)
	if err != nil {
		return nil, "", err
	}
	disc, err := vcdinfo.Open(device, opts.CacheSectors)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open disc: %w", err)
	}
	return disc, device, nil
}
