package mrl

import (
	"fmt"
	"strings"

	"github.com/hansbonini/vcdtools/pkg/cdimage"
	"github.com/hansbonini/vcdtools/pkg/common"
	"github.com/hansbonini/vcdtools/pkg/vcdinfo"
	"github.com/hansbonini/vcdtools/pkg/vcdplayer"
)

// Catalog is the part of a disc a list is built from. *vcdinfo.Disc
// implements it.
type Catalog interface {
	NumTracks() int
	NumEntries() int
	NumSegments() int
	NumLIDs() int
	ItemSize(item vcdinfo.Item) uint32
	Rejected(lid uint16) bool
	SegmentContent(segment int) vcdinfo.SegmentContent
}

// Entry is one slot of the flat list
type Entry struct {
	vcdinfo.Item
	MRL      string
	Size     int64 // bytes of MPEG payload, 0 for lists
	Rejected bool
}

// List enumerates every playable item: tracks, entries, lists and
// segments, in that order
type List struct {
	Device  string
	Entries []Entry

	TrackOffset   int
	EntryOffset   int
	LIDOffset     int
	SegmentOffset int
}

// Build lists the items of disc. Rejected LIDs are left out unless
// showRejected is set, in which case their MRL ends in '*'.
func Build(disc Catalog, device string, showRejected bool) *List {
	l := &List{Device: device}

	l.TrackOffset = len(l.Entries)
	for n := 1; n <= disc.NumTracks(); n++ {
		l.add(disc, vcdinfo.Item{Type: vcdinfo.ItemTrack, Num: n}, 'T', false)
	}

	l.EntryOffset = len(l.Entries)
	for n := 0; n < disc.NumEntries(); n++ {
		l.add(disc, vcdinfo.Item{Type: vcdinfo.ItemEntry, Num: n}, 'E', false)
	}

	l.LIDOffset = len(l.Entries)
	for n := 1; n <= disc.NumLIDs(); n++ {
		rejected := disc.Rejected(uint16(n))
		if rejected && !showRejected {
			continue
		}
		l.add(disc, vcdinfo.Item{Type: vcdinfo.ItemLID, Num: n}, 'P', rejected)
	}

	l.SegmentOffset = len(l.Entries)
	for n := 0; n < disc.NumSegments(); n++ {
		letter := byte('S')
		if disc.SegmentContent(n).IsNTSC() {
			letter = 's'
		}
		l.add(disc, vcdinfo.Item{Type: vcdinfo.ItemSegment, Num: n}, letter, false)
	}

	common.LogDebugf(common.DbgMRL, common.InfoMRLListBuilt, len(l.Entries),
		l.TrackOffset, l.EntryOffset, l.LIDOffset, l.SegmentOffset)
	return l
}

func (l *List) add(disc Catalog, item vcdinfo.Item, letter byte, rejected bool) {
	e := Entry{
		Item:     item,
		MRL:      Format(l.Device, letter, item.Num, rejected),
		Size:     int64(disc.ItemSize(item)) * cdimage.Form2DataSize,
		Rejected: rejected,
	}
	common.LogDebugf(common.DbgMRL, common.DebugMRLSlot, len(l.Entries), e.MRL, e.Size)
	l.Entries = append(l.Entries, e)
}

// Format builds the MRL of one item
func Format(device string, letter byte, num int, rejected bool) string {
	mrl := fmt.Sprintf("%s%s@%c%d", Prefix, escapeDevice(device), letter, num)
	if rejected {
		mrl += "*"
	}
	return mrl
}

// escapeDevice protects the characters Parse treats specially
func escapeDevice(device string) string {
	return strings.NewReplacer("%", "%25", "@", "%40").Replace(device)
}

// Len returns the number of slots
func (l *List) Len() int { return len(l.Entries) }

// category returns the slots of one item type
func (l *List) category(t vcdinfo.ItemType) []Entry {
	switch t {
	case vcdinfo.ItemTrack:
		return l.Entries[l.TrackOffset:l.EntryOffset]
	case vcdinfo.ItemEntry:
		return l.Entries[l.EntryOffset:l.LIDOffset]
	case vcdinfo.ItemLID:
		return l.Entries[l.LIDOffset:l.SegmentOffset]
	case vcdinfo.ItemSegment:
		return l.Entries[l.SegmentOffset:]
	}
	return nil
}

// Index returns the slot of item
func (l *List) Index(item vcdinfo.Item) (int, bool) {
	var offset int
	switch item.Type {
	case vcdinfo.ItemTrack:
		offset = l.TrackOffset
	case vcdinfo.ItemEntry:
		offset = l.EntryOffset
	case vcdinfo.ItemLID:
		offset = l.LIDOffset
	case vcdinfo.ItemSegment:
		offset = l.SegmentOffset
	default:
		return 0, false
	}
	// rejected LIDs may be missing, so search the category
	for i, e := range l.category(item.Type) {
		if e.Num == item.Num {
			return offset + i, true
		}
	}
	return 0, false
}

// Item returns the slot at index i
func (l *List) Item(i int) (Entry, bool) {
	if i < 0 || i >= len(l.Entries) {
		return Entry{}, false
	}
	return l.Entries[i], true
}

// Autoplay returns the MRLs of one item type. Discs without lists play
// their entries instead.
func (l *List) Autoplay(t vcdinfo.ItemType) []string {
	if t == vcdinfo.ItemLID && len(l.category(vcdinfo.ItemLID)) == 0 {
		t = vcdinfo.ItemEntry
	}
	var mrls []string
	for _, e := range l.category(t) {
		mrls = append(mrls, e.MRL)
	}
	return mrls
}

// Session is the player state CurrentMRL reads
type Session interface {
	PBCOn() bool
	LID() vcdplayer.Edge
	Item() vcdplayer.PlayItem
}

// CurrentMRL returns the MRL of what s plays: its list with playback
// control on, its item otherwise. It is empty when the item is not listed.
func (l *List) CurrentMRL(s Session) string {
	item := s.Item()
	if s.PBCOn() {
		item = vcdinfo.Item{Type: vcdinfo.ItemLID, Num: s.LID().Num()}
	}
	i, ok := l.Index(item)
	if !ok {
		common.LogDebugf(common.DbgMRL, common.WarnBadCurrentItem, item)
		return ""
	}
	return l.Entries[i].MRL
}
