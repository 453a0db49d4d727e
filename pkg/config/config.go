// Package config loads the YAML configuration shared by all commands.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hansbonini/vcdtools/pkg/common"
	"github.com/hansbonini/vcdtools/pkg/mrl"
	"github.com/hansbonini/vcdtools/pkg/vcdinfo"
	"github.com/hansbonini/vcdtools/pkg/vcdplayer"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Options mirrors the configuration file. Fields left out of the file keep
// their defaults.
type Options struct {
	Device        string `yaml:"device"`
	Autoplay      string `yaml:"autoplay"`
	AutoAdvance   bool   `yaml:"autoadvance"`
	WrapNextPrev  bool   `yaml:"wrap_next_prev"`
	ShowRejected  bool   `yaml:"show_rejected"`
	SliderLength  string `yaml:"slider_length"`
	TitleFormat   string `yaml:"title_format"`
	CommentFormat string `yaml:"comment_format"`
	DebugMask     uint32 `yaml:"debug_mask"`
	RandomSeed    int64  `yaml:"random_seed"` // 0 seeds from the clock
	CacheSectors  int    `yaml:"cache_sectors"`
}

// Default returns the built-in configuration
func Default() Options {
	return Options{
		Autoplay:      "pbc",
		AutoAdvance:   true,
		SliderLength:  "auto",
		TitleFormat:   "%F - %I %N%L%S, disk %c of %C - %v %A",
		CommentFormat: "%P - Track %T",
		CacheSectors:  64,
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Options, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, common.FormatError(common.ErrFailedToReadConfig, err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result
func Parse(data []byte) (Options, error) {
	opts := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
		return Options{}, common.FormatError(common.ErrFailedToParseConfig, err)
	}

	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// Validate checks the enumerated fields
func (o Options) Validate() error {
	if _, ok := mrl.ParseAutoplay(o.Autoplay); !ok {
		return fmt.Errorf("autoplay %q: %w", o.Autoplay, ErrInvalidConfig)
	}
	if _, ok := vcdplayer.ParseSliderLength(o.SliderLength); !ok {
		return fmt.Errorf("slider_length %q: %w", o.SliderLength, ErrInvalidConfig)
	}
	if o.CacheSectors < 0 {
		return fmt.Errorf("cache_sectors %d: %w", o.CacheSectors, ErrInvalidConfig)
	}
	return nil
}

// AutoplayType returns the item type MRLs without a type letter play
func (o Options) AutoplayType() vcdinfo.ItemType {
	t, ok := mrl.ParseAutoplay(o.Autoplay)
	if !ok {
		return vcdinfo.ItemLID
	}
	return t
}

// PlayerOptions returns the session settings
func (o Options) PlayerOptions() vcdplayer.Options {
	slider, _ := vcdplayer.ParseSliderLength(o.SliderLength)
	return vcdplayer.Options{
		AutoAdvance:   o.AutoAdvance,
		WrapNextPrev:  o.WrapNextPrev,
		SliderLength:  slider,
		TitleFormat:   o.TitleFormat,
		CommentFormat: o.CommentFormat,
		CacheSectors:  o.CacheSectors,
		RandomSeed:    o.RandomSeed,
	}
}

// Marshal renders the options as YAML
func (o Options) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(o); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
