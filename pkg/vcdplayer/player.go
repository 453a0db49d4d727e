// Package vcdplayer walks the playback control graph of a Video CD and
// hands out its MPEG sectors one at a time.
package vcdplayer

import (
	"math/rand"
	"time"

	"github.com/hansbonini/vcdtools/pkg/cdimage"
	"github.com/hansbonini/vcdtools/pkg/common"
	"github.com/hansbonini/vcdtools/pkg/vcdinfo"
)

// PlayItem identifies what is being played
type PlayItem = vcdinfo.Item

// Disc is the catalog the player navigates. *vcdinfo.Disc implements it.
type Disc interface {
	Path() string
	Close() error
	Summary() vcdinfo.Summary

	NumTracks() int
	NumEntries() int
	NumSegments() int
	NumLIDs() int

	ItemStart(item vcdinfo.Item) uint32
	ItemSize(item vcdinfo.Item) uint32
	TrackStart(track int) uint32
	TrackSectors(track int) uint32
	EntryTrack(entry int) int
	EntryAt(lsn uint32) (int, bool)
	SegmentContent(segment int) vcdinfo.SegmentContent
	ReadMode2Sector(lsn uint32) (*cdimage.Mode2Sector, error)

	Descriptor(lid uint16) vcdinfo.Descriptor
	OffsetLID(ofs uint16) (uint16, bool)
	SelectionLID(lid uint16, selection int) (uint16, bool)
	MultiDefaultLID(lid uint16, lsn uint32) (uint16, bool)
}

// OpenFunc opens the disc at path
type OpenFunc func(path string) (Disc, error)

// SliderLength selects what Length and SeekCurrent measure for entries
type SliderLength int

const (
	SliderAuto SliderLength = iota
	SliderTrack
	SliderEntry
)

func (s SliderLength) String() string {
	switch s {
	case SliderTrack:
		return "track"
	case SliderEntry:
		return "entry"
	}
	return "auto"
}

// ParseSliderLength accepts "auto", "track" and "entry"
func ParseSliderLength(s string) (SliderLength, bool) {
	switch s {
	case "", "auto":
		return SliderAuto, true
	case "track":
		return SliderTrack, true
	case "entry":
		return SliderEntry, true
	}
	return SliderAuto, false
}

// Options are fixed for the lifetime of a Player
type Options struct {
	AutoAdvance   bool
	WrapNextPrev  bool
	SliderLength  SliderLength
	TitleFormat   string
	CommentFormat string
	CacheSectors  int
	RandomSeed    int64 // 0 seeds from the clock
	Open          OpenFunc
}

// Edge is an optional navigation target: a LID when PBC is on, an item
// number of the current type otherwise
type Edge struct {
	num   int
	valid bool
}

// NoEdge is the absent target
var NoEdge = Edge{}

// NewEdge returns a valid target
func NewEdge(num int) Edge { return Edge{num: num, valid: true} }

func (e Edge) Valid() bool { return e.valid }
func (e Edge) Num() int    { return e.num }

// StillKind tells whether the player is showing a still picture
type StillKind int

const (
	StillNone StillKind = iota
	StillReading
	StillIndefinite
	StillTimed
)

// StillState is the still picture countdown
type StillState struct {
	Kind    StillKind
	Seconds int
}

// Player is one playback session. It is not safe for concurrent use.
type Player struct {
	opts Options
	open OpenFunc
	disc Disc
	rng  *rand.Rand

	item PlayItem
	lid  Edge
	pxd  vcdinfo.Descriptor

	next, prev, ret, def Edge

	lsn, originLSN, endLSN uint32
	track                  int
	trackLSN, trackEndLSN  uint32

	still    StillState
	loop     uint16
	loopItem PlayItem
	pdi      int
}

// New creates a player without a disc
func New(opts Options) *Player {
	seed := opts.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	p := &Player{
		opts: opts,
		open: opts.Open,
		rng:  rand.New(rand.NewSource(seed)),
		item: PlayItem{Type: vcdinfo.ItemNotFound},
		pdi:  -1,
	}
	if p.open == nil {
		p.open = func(path string) (Disc, error) {
			return vcdinfo.Open(path, opts.CacheSectors)
		}
	}
	return p
}

// Open loads the disc at path. Opening the path already loaded does
// nothing; any other path replaces the current disc.
func (p *Player) Open(path string) error {
	if p.disc != nil {
		if p.disc.Path() == path {
			common.LogDebugf(common.DbgCDIO, common.InfoSameDevice, path)
			return nil
		}
		p.Close()
	}

	disc, err := p.open(path)
	if err != nil {
		return err
	}
	p.disc = disc
	p.reset()
	return nil
}

// Close releases the disc
func (p *Player) Close() error {
	if p.disc == nil {
		return nil
	}
	err := p.disc.Close()
	p.disc = nil
	p.reset()
	return err
}

func (p *Player) reset() {
	p.item = PlayItem{Type: vcdinfo.ItemNotFound}
	p.lid, p.pxd = NoEdge, nil
	p.next, p.prev, p.ret, p.def = NoEdge, NoEdge, NoEdge, NoEdge
	p.lsn, p.originLSN, p.endLSN = 0, 0, 0
	p.track, p.trackLSN, p.trackEndLSN = 0, 0, 0
	p.still = StillState{}
	p.loop, p.loopItem, p.pdi = 0, PlayItem{}, -1
}

// Disc returns the open disc, nil when none
func (p *Player) Disc() Disc { return p.disc }

// PBCOn reports whether playback control drives navigation
func (p *Player) PBCOn() bool { return p.lid.Valid() }

// Item returns the item being played
func (p *Player) Item() PlayItem { return p.item }

// LID returns the current list id
func (p *Player) LID() Edge { return p.lid }

// Descriptor returns the PSD record of the current LID
func (p *Player) Descriptor() vcdinfo.Descriptor { return p.pxd }

func (p *Player) NextEdge() Edge    { return p.next }
func (p *Player) PrevEdge() Edge    { return p.prev }
func (p *Player) ReturnEdge() Edge  { return p.ret }
func (p *Player) DefaultEdge() Edge { return p.def }

// Position returns the cursor and the bounds of the current item
func (p *Player) Position() (lsn, origin, end uint32) {
	return p.lsn, p.originLSN, p.endLSN
}

// Track returns the MPEG track of the current item, 0 for segments
func (p *Player) Track() int { return p.track }

// Still returns the still picture state
func (p *Player) Still() StillState { return p.still }

// Loop returns the selection loop counter
func (p *Player) Loop() uint16 { return p.loop }
