// Package mrl maps vcd:// locators to play items and lists every playable
// item of a disc.
package mrl

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/hansbonini/vcdtools/pkg/common"
	"github.com/hansbonini/vcdtools/pkg/vcdinfo"
)

// Prefix starts every MRL
const Prefix = "vcd://"

var ErrBadMRL = errors.New("bad MRL")

// Request is a parsed MRL
type Request struct {
	Device      string
	Item        vcdinfo.Item
	UsedDefault bool // no type letter, the configured autoplay type applies
	Rejected    bool // trailing '*'
}

// Parse reads vcd://[device][@[EPST][number][*]]. An empty device falls
// back to defaultDevice, a missing type to autoType.
//
// Examples:
//
//	vcd://                  default device, autoplay type
//	vcd:///dev/cdrom2@T1    track 1 of /dev/cdrom2
//	vcd://@S0               segment 0 of the default device
//	vcd://@3                track 3, legacy syntax
//	vcd:///tmp/ntsc.bin@E0  entry 0 of an image file
func Parse(mrl, defaultDevice string, autoType vcdinfo.ItemType) (Request, error) {
	if len(mrl) < len(Prefix) || !strings.EqualFold(mrl[:len(Prefix)], Prefix) {
		return Request{}, fmt.Errorf("%q: missing %s prefix: %w", mrl, Prefix, ErrBadMRL)
	}
	rest := mrl[len(Prefix):]

	device, suffix := rest, ""
	hasSuffix := false
	if at := strings.LastIndexByte(rest, '@'); at >= 0 {
		device, suffix, hasSuffix = rest[:at], rest[at+1:], true
	}

	req := Request{Item: vcdinfo.Item{Type: autoType}}

	// vcd://3 is track 3 of the default device
	if !hasSuffix && isDigits(device) && device != "" {
		device, suffix = "", device
	}

	if device != "" {
		unescaped, err := url.PathUnescape(device)
		if err != nil {
			return Request{}, fmt.Errorf("%q: %v: %w", mrl, err, ErrBadMRL)
		}
		req.Device = unescaped
	} else {
		if defaultDevice == "" {
			return Request{}, fmt.Errorf("%q: no device given and no default device: %w", mrl, ErrBadMRL)
		}
		req.Device = defaultDevice
	}

	if err := parseSuffix(suffix, &req); err != nil {
		return Request{}, fmt.Errorf("%q: %v: %w", mrl, err, ErrBadMRL)
	}

	common.LogDebugf(common.DbgMRL, common.DebugMRLParsed, mrl, req.Device, req.Item, req.UsedDefault)
	return req, nil
}

// parseSuffix reads [EPST][number][*]
func parseSuffix(suffix string, req *Request) error {
	if strings.HasSuffix(suffix, "*") {
		req.Rejected = true
		suffix = suffix[:len(suffix)-1]
	}

	letter := byte(0)
	if suffix != "" && !isDigit(suffix[0]) {
		letter = upper(suffix[0])
		suffix = suffix[1:]
	}

	switch letter {
	case 0:
		if suffix == "" {
			req.UsedDefault = true
		} else {
			req.Item.Type = vcdinfo.ItemTrack
		}
	case 'E':
		req.Item.Type = vcdinfo.ItemEntry
	case 'P':
		req.Item.Type = vcdinfo.ItemLID
	case 'S':
		req.Item.Type = vcdinfo.ItemSegment
	case 'T':
		req.Item.Type = vcdinfo.ItemTrack
	default:
		return fmt.Errorf("unknown item type %q", letter)
	}

	if suffix != "" {
		if !isDigits(suffix) {
			return fmt.Errorf("bad item number %q", suffix)
		}
		n, err := strconv.Atoi(suffix)
		if err != nil {
			return err
		}
		req.Item.Num = n
	}

	// tracks and lists count from 1
	if req.Item.Num == 0 && (req.Item.Type == vcdinfo.ItemTrack || req.Item.Type == vcdinfo.ItemLID) {
		req.Item.Num = 1
	}
	return nil
}

// Disc is what a request needs to know about the disc it plays
type Disc interface {
	NumLIDs() int
}

// PlayItem returns the item to start. A LID on a disc without playback
// control turns into track 1 when the autoplay type chose it and into
// entry 0 when the MRL asked for it.
func (r Request) PlayItem(disc Disc) vcdinfo.Item {
	if r.Item.Type != vcdinfo.ItemLID || disc.NumLIDs() > 0 {
		return r.Item
	}
	item := vcdinfo.Item{Type: vcdinfo.ItemEntry, Num: 0}
	if r.UsedDefault {
		item = vcdinfo.Item{Type: vcdinfo.ItemTrack, Num: 1}
	}
	common.LogWarn(common.WarnLIDWithoutPBC, r.Item, item)
	return item
}

// ParseAutoplay accepts the autoplay type names of the configuration
func ParseAutoplay(s string) (vcdinfo.ItemType, bool) {
	switch strings.ToLower(s) {
	case "track":
		return vcdinfo.ItemTrack, true
	case "entry":
		return vcdinfo.ItemEntry, true
	case "segment":
		return vcdinfo.ItemSegment, true
	case "pbc", "lid", "list":
		return vcdinfo.ItemLID, true
	}
	return vcdinfo.ItemNotFound, false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
