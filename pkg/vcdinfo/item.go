package vcdinfo

import "fmt"

// ItemType tells which catalog a play item indexes
type ItemType int

const (
	ItemNotFound ItemType = iota
	ItemTrack
	ItemEntry
	ItemSegment
	ItemLID
	ItemSpare
)

func (t ItemType) String() string {
	switch t {
	case ItemTrack:
		return "track"
	case ItemEntry:
		return "entry"
	case ItemSegment:
		return "segment"
	case ItemLID:
		return "list"
	case ItemSpare:
		return "spare"
	}
	return "not found"
}

// Letter returns the MRL type letter, 0 for types without one
func (t ItemType) Letter() byte {
	switch t {
	case ItemTrack:
		return 'T'
	case ItemEntry:
		return 'E'
	case ItemSegment:
		return 'S'
	case ItemLID:
		return 'P'
	}
	return 0
}

// Item addresses one playable unit. Tracks and LIDs count from 1, entries
// and segments from 0.
type Item struct {
	Type ItemType
	Num  int
}

func (i Item) String() string {
	return fmt.Sprintf("%s %d", i.Type, i.Num)
}

// Item id ranges used by play lists, selection anchors and end lists
const (
	itemIDTrackFirst   = 2
	itemIDEntryFirst   = 100
	itemIDSpareFirst   = 600
	itemIDSegmentFirst = 1000
	itemIDSegmentLast  = 2979
)

// ClassifyItemID maps a PSD item id to the item it designates
func ClassifyItemID(id uint16) Item {
	switch {
	case id < itemIDTrackFirst:
		return Item{Type: ItemNotFound, Num: int(id)}
	case id < itemIDEntryFirst:
		return Item{Type: ItemTrack, Num: int(id) - 1}
	case id < itemIDSpareFirst:
		return Item{Type: ItemEntry, Num: int(id) - itemIDEntryFirst}
	case id < itemIDSegmentFirst:
		return Item{Type: ItemSpare, Num: int(id)}
	case id <= itemIDSegmentLast:
		return Item{Type: ItemSegment, Num: int(id) - itemIDSegmentFirst}
	}
	return Item{Type: ItemSpare, Num: int(id)}
}
